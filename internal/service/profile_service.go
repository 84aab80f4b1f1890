package service

import (
	"context"
	"elearn_backend/internal/form"
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/logger"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProfileService struct {
	ProfileRepo *repository.ProfileRepository
	Storage     *StorageService
}

func NewProfileService(profileRepo *repository.ProfileRepository, storage *StorageService) *ProfileService {
	return &ProfileService{ProfileRepo: profileRepo, Storage: storage}
}

// Get returns the saved profile, or an empty one for users who never saved it.
func (s *ProfileService) Get(userID uint) (*model.Profile, error) {
	profile, err := s.ProfileRepo.FindByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.Profile{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// Update validates f, stores the new picture and saves the profile. On a
// validation failure nothing is written.
func (s *ProfileService) Update(ctx context.Context, userID uint, f *form.ProfileForm) (*model.Profile, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	profile, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	key, err := s.Storage.Save(ctx, util.DirProfilePics, f.ProfilePic.Filename, f.ProfilePic.Data, f.ProfilePic.ContentType)
	if err != nil {
		return nil, err
	}

	previous := profile.ProfilePic
	f.Apply(profile)
	profile.ProfilePic = key
	if err := s.ProfileRepo.Save(profile); err != nil {
		if delErr := s.Storage.Delete(ctx, key); delErr != nil {
			logger.Log.Warn("failed to remove orphaned upload", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	if previous != "" && previous != key {
		if err := s.Storage.Delete(ctx, previous); err != nil {
			logger.Log.Warn("failed to remove previous profile picture", zap.String("key", previous), zap.Error(err))
		}
	}
	return profile, nil
}
