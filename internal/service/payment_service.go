package service

import (
	"context"
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/logger"
	"elearn_backend/pkg/monitoring"
	"elearn_backend/pkg/razorpay"
	"elearn_backend/pkg/tracing"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PaymentService struct {
	DB             *gorm.DB
	PaymentRepo    *repository.PaymentRepository
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	Gateway        razorpay.Gateway
	Currency       string
}

func NewPaymentService(
	db *gorm.DB,
	paymentRepo *repository.PaymentRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	gateway razorpay.Gateway,
	currency string,
) *PaymentService {
	if currency == "" {
		currency = "INR"
	}
	return &PaymentService{
		DB:             db,
		PaymentRepo:    paymentRepo,
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		Gateway:        gateway,
		Currency:       currency,
	}
}

// Checkout is what the client needs to open the Razorpay checkout.
type Checkout struct {
	KeyID       string                    `json:"keyId"`
	OrderID     string                    `json:"orderId"`
	Amount      int                       `json:"amount"`
	Currency    string                    `json:"currency"`
	CourseTitle string                    `json:"courseTitle"`
	Transaction *model.PaymentTransaction `json:"transaction"`
}

// CreateOrder opens a Razorpay order for the full course price and records
// it as a created transaction.
func (s *PaymentService) CreateOrder(ctx context.Context, userID, courseID uint) (*Checkout, error) {
	ctx, span := tracing.StartSpan(ctx, "payment.create_order")
	defer span.End()

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, err
	}
	if course.IsFree() {
		return nil, util.ErrCourseIsFree
	}
	enrolled, err := s.EnrollmentRepo.Exists(userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, util.ErrAlreadyEnrolled
	}

	order, err := s.Gateway.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:   course.PriceInPaise(),
		Currency: s.Currency,
		Receipt:  fmt.Sprintf("c%d_u%d_%d", courseID, userID, time.Now().Unix()),
		Notes: map[string]string{
			"course_id": fmt.Sprint(courseID),
			"user_id":   fmt.Sprint(userID),
		},
	})
	if err != nil {
		logger.Log.Error("razorpay order creation failed",
			zap.Uint("userID", userID), zap.Uint("courseID", courseID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", util.ErrGateway, err)
	}

	txn := &model.PaymentTransaction{
		UserID:          userID,
		CourseID:        courseID,
		RazorpayOrderID: order.ID,
		Amount:          course.PriceInPaise(),
		Status:          model.PaymentCreated,
	}
	if err := s.PaymentRepo.Create(txn); err != nil {
		return nil, err
	}

	monitoring.PaymentsTotal.WithLabelValues(string(model.PaymentCreated)).Inc()
	logger.Log.Info("payment order created",
		zap.String("orderID", order.ID), zap.Uint("userID", userID), zap.Int("amount", txn.Amount))

	return &Checkout{
		KeyID:       s.Gateway.KeyID(),
		OrderID:     order.ID,
		Amount:      txn.Amount,
		Currency:    s.Currency,
		CourseTitle: course.Title,
		Transaction: txn,
	}, nil
}

// ConfirmPayment checks the checkout signature and, when it is genuine,
// marks the order paid and enrolls the buyer in one transaction. Repeating
// the call for a paid order returns the existing enrollment.
func (s *PaymentService) ConfirmPayment(ctx context.Context, userID uint, orderID, paymentID, signature string) (*model.Enrollment, error) {
	_, span := tracing.StartSpan(ctx, "payment.confirm")
	defer span.End()

	txn, err := s.PaymentRepo.FindByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, util.ErrPaymentNotFound
	}

	if !s.Gateway.VerifySignature(orderID, paymentID, signature) {
		failed, err := s.PaymentRepo.Transition(orderID, model.PaymentFailed, &paymentID, nil)
		if err != nil {
			return nil, err
		}
		if failed {
			monitoring.PaymentsTotal.WithLabelValues(string(model.PaymentFailed)).Inc()
		}
		logger.Log.Warn("payment signature mismatch", zap.String("orderID", orderID), zap.Uint("userID", userID))
		return nil, util.ErrInvalidSignature
	}

	var enrollment *model.Enrollment
	applied := false
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		payments := s.PaymentRepo.WithTx(tx)
		enrollments := s.EnrollmentRepo.WithTx(tx)

		ok, err := payments.Transition(orderID, model.PaymentPaid, &paymentID, &signature)
		if err != nil {
			return err
		}
		if !ok {
			current, err := payments.FindByOrderID(orderID)
			if err != nil {
				return err
			}
			if current.Status != model.PaymentPaid {
				return util.ErrInvalidTransition
			}
		}
		applied = ok

		enrollment, err = grantEnrollment(enrollments, txn)
		return err
	})
	if err != nil {
		return nil, err
	}

	if applied {
		monitoring.PaymentsTotal.WithLabelValues(string(model.PaymentPaid)).Inc()
		monitoring.EnrollmentsTotal.WithLabelValues("true").Inc()
		logger.Log.Info("payment captured",
			zap.String("orderID", orderID), zap.String("paymentID", paymentID), zap.Uint("userID", userID))
	}
	return enrollment, nil
}

// grantEnrollment upserts the paid enrollment for txn.
func grantEnrollment(enrollments *repository.EnrollmentRepository, txn *model.PaymentTransaction) (*model.Enrollment, error) {
	existing, err := enrollments.Find(txn.UserID, txn.CourseID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		paymentID := txn.ID
		e := &model.Enrollment{
			StudentID: txn.UserID,
			CourseID:  txn.CourseID,
			Paid:      true,
			PaymentID: &paymentID,
		}
		if err := enrollments.Create(e); err != nil {
			return nil, err
		}
		return e, nil
	}
	if existing.Paid && existing.PaymentID != nil {
		return existing, nil
	}
	if err := enrollments.MarkPaid(existing.ID, txn.ID); err != nil {
		return nil, err
	}
	paymentID := txn.ID
	existing.Paid = true
	existing.PaymentID = &paymentID
	return existing, nil
}

// FailPayment records an abandoned or declined checkout. Failing an order
// twice is harmless; failing a paid one is not allowed.
func (s *PaymentService) FailPayment(userID uint, orderID string) (*model.PaymentTransaction, error) {
	txn, err := s.PaymentRepo.FindByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, util.ErrPaymentNotFound
	}

	ok, err := s.PaymentRepo.Transition(orderID, model.PaymentFailed, nil, nil)
	if err != nil {
		return nil, err
	}
	if ok {
		monitoring.PaymentsTotal.WithLabelValues(string(model.PaymentFailed)).Inc()
	}

	current, err := s.PaymentRepo.FindByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	if current.Status == model.PaymentPaid {
		return nil, util.ErrInvalidTransition
	}
	return current, nil
}

// ExpireStale fails orders left in created for longer than olderThan.
func (s *PaymentService) ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	_, span := tracing.StartSpan(ctx, "payment.expire_stale")
	defer span.End()

	n, err := s.PaymentRepo.FailCreatedBefore(time.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		monitoring.PaymentsTotal.WithLabelValues(string(model.PaymentFailed)).Add(float64(n))
		logger.Log.Info("expired stale payment orders", zap.Int64("count", n))
	}
	return n, nil
}

func (s *PaymentService) ListForUser(userID uint) ([]model.PaymentTransaction, error) {
	return s.PaymentRepo.ListByUser(userID)
}
