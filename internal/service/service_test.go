package service

import (
	"context"
	"elearn_backend/internal/config"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/testutil"
	"elearn_backend/pkg/razorpay"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"
)

const gatewaySecret = "rzp_test_secret"

// fakeGateway hands out sequential order ids and signs with gatewaySecret.
type fakeGateway struct {
	mu     sync.Mutex
	orders []razorpay.OrderRequest
	fail   bool
}

func (g *fakeGateway) CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return nil, errors.New("gateway down")
	}
	g.orders = append(g.orders, req)
	return &razorpay.Order{
		ID:       fmt.Sprintf("order_%d", len(g.orders)),
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return razorpay.Signature(gatewaySecret, orderID, paymentID) == signature
}

func (g *fakeGateway) KeyID() string {
	return "rzp_test_key"
}

type env struct {
	db           *gorm.DB
	cfg          *config.Config
	gateway      *fakeGateway
	auth         *AuthService
	profiles     *ProfileService
	courses      *CourseService
	enrollments  *EnrollmentService
	payments     *PaymentService
	quizzes      *QuizService
	progress     *ProgressService
	certificates *CertificateService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewDB(t)

	cfg := &config.Config{}
	cfg.JWT.Secret = "service-test-secret"
	cfg.JWT.ExpireTime = time.Hour
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = t.TempDir()

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db, nil, 0)
	lessonRepo := repository.NewLessonRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	storage := NewStorageService(cfg)
	gateway := &fakeGateway{}
	enrollments := NewEnrollmentService(enrollmentRepo, courseRepo)
	certificates := NewCertificateService(repository.NewCertificateRepository(db))

	return &env{
		db:           db,
		cfg:          cfg,
		gateway:      gateway,
		auth:         NewAuthService(userRepo, cfg),
		profiles:     NewProfileService(repository.NewProfileRepository(db), storage),
		courses:      NewCourseService(courseRepo, lessonRepo, quizRepo, storage),
		enrollments:  enrollments,
		payments:     NewPaymentService(db, paymentRepo, enrollmentRepo, courseRepo, gateway, "INR"),
		quizzes:      NewQuizService(quizRepo, repository.NewQuizResultRepository(db), enrollments),
		progress:     NewProgressService(db, lessonRepo, repository.NewCompletionRepository(db), courseRepo, enrollments, certificates),
		certificates: certificates,
	}
}
