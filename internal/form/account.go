package form

import "strings"

// EditUserForm changes the account's username and email. Uniqueness is
// checked by the auth service, excluding the account being edited.
// swagger:model EditUserForm
type EditUserForm struct {
	Username string `form:"username" json:"username" validate:"required,max=150,username"`
	Email    string `form:"email" json:"email" validate:"required,max=254,email"`
}

func (f *EditUserForm) Validate() error {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = normalizeEmail(f.Email)
	if err := validate.Struct(f); err != nil {
		return fromValidator(err)
	}
	return nil
}
