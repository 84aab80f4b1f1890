package model

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel has no DeletedAt: rows are removed physically so that
// foreign-key cascades and set-null rules run in the database.
// swagger:model
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func GenerateUUID() string {
	return uuid.New().String()
}

// All lists every table in dependency order for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Profile{},
		&Course{},
		&Lesson{},
		&Quiz{},
		&Question{},
		&QuizResult{},
		&Answer{},
		&Certificate{},
		&LessonCompletion{},
		&CourseCompletion{},
		&PaymentTransaction{},
		&Enrollment{},
	}
}
