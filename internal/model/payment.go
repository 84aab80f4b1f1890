package model

import "fmt"

type PaymentStatus string

const (
	PaymentCreated PaymentStatus = "created"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentCreated, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

// PaymentTransaction is one gateway order for a (user, course) pair.
// Amount is in paise.
// swagger:model PaymentTransaction
type PaymentTransaction struct {
	BaseModel
	UserID            uint          `gorm:"index;not null" json:"userId"`
	User              *User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CourseID          uint          `gorm:"index;not null" json:"courseId"`
	Course            *Course       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	RazorpayOrderID   string        `gorm:"size:100;uniqueIndex;not null" json:"razorpayOrderId"`
	RazorpayPaymentID *string       `gorm:"size:100" json:"razorpayPaymentId"`
	RazorpaySignature *string       `gorm:"size:255" json:"-"`
	Amount            int           `gorm:"not null" json:"amount"`
	Status            PaymentStatus `gorm:"size:20;not null;default:created;index;check:status IN ('created','paid','failed')" json:"status"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}

func (p PaymentTransaction) AmountInINR() float64 {
	return float64(p.Amount) / 100
}

// CanTransitionTo allows created -> paid and created -> failed only.
func (p PaymentTransaction) CanTransitionTo(next PaymentStatus) bool {
	return p.Status == PaymentCreated && (next == PaymentPaid || next == PaymentFailed)
}

func (p PaymentTransaction) String() string {
	user, course := "", ""
	if p.User != nil {
		user = p.User.Username
	}
	if p.Course != nil {
		course = p.Course.Title
	}
	return fmt.Sprintf("%s - %s (%s)", user, course, p.Status)
}
