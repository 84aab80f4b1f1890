package model

import (
	"fmt"
	"time"
)

// Enrollment is unique per (student, course). Payment is nulled, not
// cascaded, when its transaction is removed.
// swagger:model Enrollment
type Enrollment struct {
	ID         uint                `gorm:"primaryKey" json:"id"`
	StudentID  uint                `gorm:"uniqueIndex:idx_student_course_enrollment;not null" json:"studentId"`
	Student    *User               `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CourseID   uint                `gorm:"uniqueIndex:idx_student_course_enrollment;index;not null" json:"courseId"`
	Course     *Course             `gorm:"constraint:OnDelete:CASCADE" json:"course,omitempty"`
	EnrolledAt time.Time           `gorm:"autoCreateTime" json:"enrolledAt"`
	Paid       bool                `gorm:"not null;default:false" json:"paid"`
	PaymentID  *uint               `gorm:"uniqueIndex" json:"paymentId"`
	Payment    *PaymentTransaction `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (e Enrollment) String() string {
	student, course := "", ""
	if e.Student != nil {
		student = e.Student.Username
	}
	if e.Course != nil {
		course = e.Course.Title
	}
	return fmt.Sprintf("%s -> %s", student, course)
}
