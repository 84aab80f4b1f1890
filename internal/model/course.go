package model

import (
	"fmt"
	"time"
)

// swagger:model Course
type Course struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	InstructorID *uint     `gorm:"index" json:"instructorId"`
	Instructor   *User     `gorm:"foreignKey:InstructorID;constraint:OnDelete:SET NULL" json:"-"`
	Thumbnail    *string   `gorm:"size:255" json:"thumbnail"`
	CreatedAt    time.Time `json:"createdAt"`
	PriceINR     int       `gorm:"column:price_inr;not null;default:0" json:"priceInr"`
}

func (Course) TableName() string {
	return "courses"
}

// PriceInPaise is the price in minor currency units, as the gateway expects it.
func (c Course) PriceInPaise() int {
	return c.PriceINR * 100
}

func (c Course) IsFree() bool {
	return c.PriceINR == 0
}

func (c Course) String() string {
	return c.Title
}

// swagger:model Lesson
type Lesson struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	CourseID uint    `gorm:"index;not null" json:"courseId"`
	Course   *Course `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title    string  `gorm:"size:200;not null" json:"title"`
	Content  string  `gorm:"type:text" json:"content"`
	Video    *string `gorm:"size:255" json:"video"`
	// seconds, zero when the video could not be probed
	DurationSeconds int `gorm:"not null;default:0" json:"durationSeconds"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// String needs Course loaded for the full "course - lesson" form.
func (l Lesson) String() string {
	if l.Course == nil {
		return l.Title
	}
	return fmt.Sprintf("%s - %s", l.Course.Title, l.Title)
}
