package repository

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

func (r *CertificateRepository) WithTx(tx *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: tx}
}

// Create fails with util.ErrCertificateExists when the user already holds a
// certificate for the course.
func (r *CertificateRepository) Create(cert *model.Certificate) error {
	if err := r.DB.Create(cert).Error; err != nil {
		if isDuplicate(err) {
			return util.ErrCertificateExists
		}
		return err
	}
	return nil
}

// CreateIfAbsent inserts cert unless (user, course) already has one, and
// reports whether it did. A skipped insert leaves an open transaction usable.
func (r *CertificateRepository) CreateIfAbsent(cert *model.Certificate) (bool, error) {
	res := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(cert)
	return res.RowsAffected == 1, res.Error
}

func (r *CertificateRepository) FindByCertificateID(certificateID string) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.Preload("User").Preload("Course").
		Where("certificate_id = ?", certificateID).
		First(&cert).Error
	if err != nil {
		return nil, notFound(err, util.ErrCertificateNotFound)
	}
	return &cert, nil
}

func (r *CertificateRepository) FindByUserAndCourse(userID, courseID uint) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&cert).Error
	if err != nil {
		return nil, notFound(err, util.ErrCertificateNotFound)
	}
	return &cert, nil
}

func (r *CertificateRepository) ListByUser(userID uint) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.DB.Preload("Course").Where("user_id = ?", userID).Order("created_at DESC").Find(&certs).Error
	return certs, err
}
