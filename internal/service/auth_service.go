package service

import (
	"elearn_backend/internal/config"
	"elearn_backend/internal/form"
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/logger"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

// Register validates the form and creates a student account. Field problems,
// including a username that is already taken, come back as *form.ValidationError.
func (s *AuthService) Register(f *form.RegisterForm) (*model.User, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.UserRepo.UsernameExists(f.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, form.NewValidationError("username", "A user with that username already exists.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(f.Password1), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: f.Username,
		Email:    f.Email,
		Password: string(hashedPassword),
		Role:     model.Student,
	}
	if err := s.UserRepo.Create(user); err != nil {
		// lost a race with a concurrent sign-up
		if exists, _ := s.UserRepo.UsernameExists(f.Username); exists {
			return nil, form.NewValidationError("username", "A user with that username already exists.")
		}
		return nil, err
	}

	logger.Log.Info("user registered", zap.Uint("userID", user.ID), zap.String("username", user.Username))
	return user, nil
}

// UpdateAccount applies the account edit intake to userID. A username held by
// any other account is a field error.
func (s *AuthService) UpdateAccount(userID uint, f *form.EditUserForm) (*model.User, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	taken, err := s.UserRepo.UsernameTakenByOther(f.Username, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, form.NewValidationError("username", "A user with that username already exists.")
	}

	if err := s.UserRepo.UpdateAccount(userID, f.Username, f.Email); err != nil {
		if exists, _ := s.UserRepo.UsernameTakenByOther(f.Username, userID); exists {
			return nil, form.NewValidationError("username", "A user with that username already exists.")
		}
		return nil, err
	}
	user.Username, user.Email = f.Username, f.Email

	logger.Log.Info("account updated", zap.Uint("userID", userID), zap.String("username", user.Username))
	return user, nil
}

// Login returns a signed token and records the login time.
func (s *AuthService) Login(username, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			return "", nil, util.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	if err := s.UserRepo.UpdateLastLogin(user.ID, now); err != nil {
		logger.Log.Warn("failed to record last login", zap.Uint("userID", user.ID), zap.Error(err))
	} else {
		user.LastLogin = &now
	}
	return token, user, nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) (*model.User, error) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil, util.ErrUserNotFound
	}
	return s.UserRepo.FindByID(claims.UserID)
}
