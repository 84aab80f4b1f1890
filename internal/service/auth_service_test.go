package service

import (
	"elearn_backend/internal/form"
	"elearn_backend/internal/model"
	"elearn_backend/internal/testutil"
	"elearn_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration(username string) *form.RegisterForm {
	return &form.RegisterForm{
		Username:  username,
		Email:     username + "@Example.COM",
		Password1: "s3cret-pass",
		Password2: "s3cret-pass",
	}
}

func TestRegisterCreatesStudent(t *testing.T) {
	e := newEnv(t)

	user, err := e.auth.Register(validRegistration("ravi"))
	require.NoError(t, err)
	assert.Equal(t, model.Student, user.Role)
	assert.Equal(t, "ravi@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.Password)
}

func TestRegisterRejectsTakenUsernameCaseInsensitively(t *testing.T) {
	e := newEnv(t)
	_, err := e.auth.Register(validRegistration("ravi"))
	require.NoError(t, err)

	_, err = e.auth.Register(validRegistration("RAVI"))
	ve, ok := form.AsValidationError(err)
	require.True(t, ok, "got %v", err)
	assert.True(t, ve.Has("username"))
	assert.EqualValues(t, 1, testutil.Count(t, e.db, &model.User{}))
}

func TestRegisterReportsFieldErrors(t *testing.T) {
	e := newEnv(t)
	f := validRegistration("ravi")
	f.Password2 = "different-pass"

	_, err := e.auth.Register(f)
	ve, ok := form.AsValidationError(err)
	require.True(t, ok)
	assert.True(t, ve.Has("password2"))
	assert.Zero(t, testutil.Count(t, e.db, &model.User{}))
}

func TestUpdateAccount(t *testing.T) {
	e := newEnv(t)
	ravi, err := e.auth.Register(validRegistration("ravi"))
	require.NoError(t, err)
	_, err = e.auth.Register(validRegistration("meera"))
	require.NoError(t, err)

	// keeping your own name, in another case, is not a clash
	user, err := e.auth.UpdateAccount(ravi.ID, &form.EditUserForm{Username: "Ravi", Email: "ravi@New.org"})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", user.Username)
	assert.Equal(t, "ravi@new.org", user.Email)

	stored, err := e.auth.UserRepo.FindByID(ravi.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ravi", stored.Username)
	assert.Equal(t, "ravi@new.org", stored.Email)

	_, err = e.auth.UpdateAccount(ravi.ID, &form.EditUserForm{Username: "MEERA", Email: "ravi@new.org"})
	ve, ok := form.AsValidationError(err)
	require.True(t, ok, "got %v", err)
	assert.True(t, ve.Has("username"))

	_, err = e.auth.UpdateAccount(ravi.ID, &form.EditUserForm{Username: "ravi", Email: ""})
	ve, ok = form.AsValidationError(err)
	require.True(t, ok, "got %v", err)
	assert.True(t, ve.Has("email"))

	_, err = e.auth.UpdateAccount(9999, &form.EditUserForm{Username: "ghost", Email: "g@x.io"})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	_, err := e.auth.Register(validRegistration("ravi"))
	require.NoError(t, err)

	token, user, err := e.auth.Login("Ravi", "s3cret-pass")
	require.NoError(t, err)
	require.NotNil(t, user.LastLogin)

	claims, err := util.ParseJWT(token, e.cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, _, err = e.auth.Login("ravi", "wrong-password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, _, err = e.auth.Login("nobody", "s3cret-pass")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
