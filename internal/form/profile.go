package form

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/util"
	"strings"
)

// Upload is a file received with a form.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProfileForm is the profile edit intake. Every field is mandatory.
// swagger:model ProfileForm
type ProfileForm struct {
	CountryCode string  `form:"country_code" json:"country_code" validate:"required,oneof=+91 +1 +44 +61 +971"`
	Profession  string  `form:"profession" json:"profession" validate:"required,max=100"`
	Bio         string  `form:"bio" json:"bio" validate:"required"`
	Phone       string  `form:"phone" json:"phone" validate:"required,max=20"`
	Address     string  `form:"address" json:"address" validate:"required,max=255"`
	ProfilePic  *Upload `form:"-" json:"-" field:"profile_pic" validate:"required"`
}

func (f *ProfileForm) clean() {
	f.CountryCode = strings.TrimSpace(f.CountryCode)
	f.Profession = strings.TrimSpace(f.Profession)
	f.Bio = strings.TrimSpace(f.Bio)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	if f.ProfilePic != nil && len(f.ProfilePic.Data) == 0 {
		f.ProfilePic = nil
	}
}

func (f *ProfileForm) Validate() error {
	f.clean()

	errs := &ValidationError{}
	if err := validate.Struct(f); err != nil {
		errs = fromValidator(err)
	}

	if f.ProfilePic != nil {
		mimeType, err := util.DecodeImage(f.ProfilePic.Data)
		if err != nil {
			errs.Add("profile_pic", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		} else {
			f.ProfilePic.ContentType = mimeType
		}
	}
	return errs.orNil()
}

// Apply copies the cleaned values onto p. The picture path is set by the caller
// once the upload is stored.
func (f *ProfileForm) Apply(p *model.Profile) {
	p.CountryCode = model.CountryCode(f.CountryCode)
	p.Profession = f.Profession
	p.Bio = f.Bio
	p.Phone = f.Phone
	p.Address = f.Address
}
