package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Certificate.CertificateID is the public identifier printed on the certificate.
// It is assigned on insert and the column is never written again. A user holds
// at most one certificate per course.
// swagger:model Certificate
type Certificate struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"uniqueIndex:idx_user_course_certificate;not null" json:"userId"`
	User          *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CourseID      uint      `gorm:"uniqueIndex:idx_user_course_certificate;index;not null" json:"courseId"`
	Course        *Course   `gorm:"constraint:OnDelete:CASCADE" json:"course,omitempty"`
	CertificateID string    `gorm:"<-:create;type:varchar(36);uniqueIndex;not null" json:"certificateId"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}

func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.CertificateID == "" {
		c.CertificateID = GenerateUUID()
	}
	return nil
}

func (c Certificate) String() string {
	user, course := "", ""
	if c.User != nil {
		user = c.User.Username
	}
	if c.Course != nil {
		course = c.Course.Title
	}
	return fmt.Sprintf("Certificate for %s - %s", user, course)
}
