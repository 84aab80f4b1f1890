package repository

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) WithTx(tx *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: tx}
}

// Create fails with util.ErrAlreadyEnrolled on a second row for the
// same (student, course).
func (r *EnrollmentRepository) Create(e *model.Enrollment) error {
	if err := r.DB.Create(e).Error; err != nil {
		if isDuplicate(err) {
			return util.ErrAlreadyEnrolled
		}
		return err
	}
	return nil
}

// Find returns nil, nil when the student is not enrolled.
func (r *EnrollmentRepository) Find(studentID, courseID uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) FindByPayment(paymentID uint) (*model.Enrollment, error) {
	var e model.Enrollment
	if err := r.DB.Where("payment_id = ?", paymentID).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EnrollmentRepository) Exists(studentID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *EnrollmentRepository) ListByStudent(studentID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Course").
		Where("student_id = ?", studentID).
		Order("enrolled_at DESC, id DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) MarkPaid(enrollmentID, paymentID uint) error {
	return r.DB.Model(&model.Enrollment{}).
		Where("id = ?", enrollmentID).
		Updates(map[string]interface{}{"paid": true, "payment_id": paymentID}).
		Error
}
