package repository

import (
	"elearn_backend/internal/model"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

// FindByUserID returns gorm.ErrRecordNotFound when the user never saved a profile.
func (r *ProfileRepository) FindByUserID(userID uint) (*model.Profile, error) {
	var profile model.Profile
	err := r.DB.Where("user_id = ?", userID).First(&profile).Error
	return &profile, err
}

func (r *ProfileRepository) Save(profile *model.Profile) error {
	return r.DB.Save(profile).Error
}
