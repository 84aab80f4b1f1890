package repository

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	DB *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{DB: tx}
}

func (r *PaymentRepository) Create(p *model.PaymentTransaction) error {
	if err := r.DB.Create(p).Error; err != nil {
		if isDuplicate(err) {
			return util.ErrDuplicateOrder
		}
		return err
	}
	return nil
}

func (r *PaymentRepository) FindByOrderID(orderID string) (*model.PaymentTransaction, error) {
	var p model.PaymentTransaction
	if err := r.DB.Where("razorpay_order_id = ?", orderID).First(&p).Error; err != nil {
		return nil, notFound(err, util.ErrPaymentNotFound)
	}
	return &p, nil
}

// Transition moves the order out of "created" and records the gateway ids.
// It reports false when the row was no longer in "created", so a repeated
// confirmation cannot apply twice.
func (r *PaymentRepository) Transition(orderID string, to model.PaymentStatus, paymentID, signature *string) (bool, error) {
	if !(model.PaymentTransaction{Status: model.PaymentCreated}).CanTransitionTo(to) {
		return false, util.ErrInvalidTransition
	}

	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if paymentID != nil {
		updates["razorpay_payment_id"] = *paymentID
	}
	if signature != nil {
		updates["razorpay_signature"] = *signature
	}

	res := r.DB.Model(&model.PaymentTransaction{}).
		Where("razorpay_order_id = ? AND status = ?", orderID, model.PaymentCreated).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// FailCreatedBefore marks every order still "created" at cutoff as failed.
func (r *PaymentRepository) FailCreatedBefore(cutoff time.Time) (int64, error) {
	res := r.DB.Model(&model.PaymentTransaction{}).
		Where("status = ? AND created_at < ?", model.PaymentCreated, cutoff).
		Updates(map[string]interface{}{
			"status":     model.PaymentFailed,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *PaymentRepository) ListByUser(userID uint) ([]model.PaymentTransaction, error) {
	var payments []model.PaymentTransaction
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error
	return payments, err
}

func (r *PaymentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.PaymentTransaction{}, id).Error
}
