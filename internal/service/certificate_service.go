package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/logger"
	"elearn_backend/pkg/monitoring"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CertificateService struct {
	CertificateRepo *repository.CertificateRepository
}

func NewCertificateService(certificateRepo *repository.CertificateRepository) *CertificateService {
	return &CertificateService{CertificateRepo: certificateRepo}
}

// Issue returns the user's certificate for the course, creating it on first
// call. tx may be nil.
func (s *CertificateService) Issue(tx *gorm.DB, userID, courseID uint) (*model.Certificate, error) {
	repo := s.CertificateRepo
	if tx != nil {
		repo = repo.WithTx(tx)
	}

	existing, err := repo.FindByUserAndCourse(userID, courseID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, util.ErrCertificateNotFound) {
		return nil, err
	}

	cert := &model.Certificate{UserID: userID, CourseID: courseID}
	created, err := repo.CreateIfAbsent(cert)
	if err != nil {
		return nil, err
	}
	if !created {
		// lost a race with a concurrent completion
		return repo.FindByUserAndCourse(userID, courseID)
	}

	monitoring.CertificatesIssued.Inc()
	logger.Log.Info("certificate issued",
		zap.Uint("userID", userID), zap.Uint("courseID", courseID), zap.String("certificateID", cert.CertificateID))
	return cert, nil
}

// Verify looks a certificate up by its public identifier.
func (s *CertificateService) Verify(certificateID string) (*model.Certificate, error) {
	return s.CertificateRepo.FindByCertificateID(certificateID)
}

func (s *CertificateService) ListForUser(userID uint) ([]model.Certificate, error) {
	return s.CertificateRepo.ListByUser(userID)
}
