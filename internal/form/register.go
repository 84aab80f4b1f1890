package form

import "strings"

// RegisterForm is the sign-up intake. Username uniqueness needs the
// database and is checked by the auth service.
// swagger:model RegisterForm
type RegisterForm struct {
	Username  string `form:"username" json:"username" validate:"required,max=150,username"`
	Email     string `form:"email" json:"email" validate:"required,max=254,email"`
	Password1 string `form:"password1" json:"password1" validate:"required,min=8,not_numeric"`
	Password2 string `form:"password2" json:"password2" validate:"required,eqfield=Password1"`
}

func (f *RegisterForm) clean() {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = normalizeEmail(f.Email)
}

func (f *RegisterForm) Validate() error {
	f.clean()
	if err := validate.Struct(f); err != nil {
		return fromValidator(err)
	}
	return nil
}

// normalizeEmail lowercases the domain part only.
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
