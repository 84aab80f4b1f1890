package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/logger"
	"elearn_backend/pkg/monitoring"

	"go.uber.org/zap"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
}

func NewEnrollmentService(enrollmentRepo *repository.EnrollmentRepository, courseRepo *repository.CourseRepository) *EnrollmentService {
	return &EnrollmentService{EnrollmentRepo: enrollmentRepo, CourseRepo: courseRepo}
}

// Enroll signs a student up for a free course. Paid courses go through
// PaymentService instead.
func (s *EnrollmentService) Enroll(studentID, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsFree() {
		return nil, util.ErrPaymentRequired
	}

	enrollment := &model.Enrollment{StudentID: studentID, CourseID: courseID}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}
	enrollment.Course = course

	monitoring.EnrollmentsTotal.WithLabelValues("false").Inc()
	logger.Log.Info("student enrolled", zap.Uint("studentID", studentID), zap.Uint("courseID", courseID))
	return enrollment, nil
}

func (s *EnrollmentService) IsEnrolled(studentID, courseID uint) (bool, error) {
	return s.EnrollmentRepo.Exists(studentID, courseID)
}

// Require fails with ErrNotEnrolled unless the student is enrolled.
func (s *EnrollmentService) Require(studentID, courseID uint) error {
	ok, err := s.EnrollmentRepo.Exists(studentID, courseID)
	if err != nil {
		return err
	}
	if !ok {
		return util.ErrNotEnrolled
	}
	return nil
}

func (s *EnrollmentService) ListForStudent(studentID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.ListByStudent(studentID)
}
