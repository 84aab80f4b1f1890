package model

import (
	"fmt"
	"time"
)

// swagger:model LessonCompletion
type LessonCompletion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   uint      `gorm:"uniqueIndex:idx_student_lesson;not null" json:"studentId"`
	Student     *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	LessonID    uint      `gorm:"uniqueIndex:idx_student_lesson;index;not null" json:"lessonId"`
	Lesson      *Lesson   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CompletedAt time.Time `gorm:"autoCreateTime" json:"completedAt"`
}

func (LessonCompletion) TableName() string {
	return "lesson_completions"
}

func (c LessonCompletion) String() string {
	student, lesson := "", ""
	if c.Student != nil {
		student = c.Student.Username
	}
	if c.Lesson != nil {
		lesson = c.Lesson.String()
	}
	return fmt.Sprintf("%s -> %s", student, lesson)
}

// swagger:model CourseCompletion
type CourseCompletion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   uint      `gorm:"uniqueIndex:idx_student_course_completion;not null" json:"studentId"`
	Student     *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CourseID    uint      `gorm:"uniqueIndex:idx_student_course_completion;index;not null" json:"courseId"`
	Course      *Course   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CompletedAt time.Time `gorm:"autoCreateTime" json:"completedAt"`
}

func (CourseCompletion) TableName() string {
	return "course_completions"
}

func (c CourseCompletion) String() string {
	student, course := "", ""
	if c.Student != nil {
		student = c.Student.Username
	}
	if c.Course != nil {
		course = c.Course.Title
	}
	return fmt.Sprintf("%s completed %s", student, course)
}
