// Package testutil builds in-memory databases and fixtures for tests.
package testutil

import (
	"elearn_backend/internal/model"
	"elearn_backend/pkg/database"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated private sqlite database with foreign keys on.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory(uuid.NewString())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username string, role model.UserRole) *model.User {
	t.Helper()
	u := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateCourse(t *testing.T, db *gorm.DB, instructor *model.User, priceINR int) *model.Course {
	t.Helper()
	c := &model.Course{
		Title:       fmt.Sprintf("Course %s", uuid.NewString()[:8]),
		Description: "desc",
		PriceINR:    priceINR,
	}
	if instructor != nil {
		c.InstructorID = &instructor.ID
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func CreateLesson(t *testing.T, db *gorm.DB, course *model.Course, title string) *model.Lesson {
	t.Helper()
	l := &model.Lesson{CourseID: course.ID, Title: title, Content: "content of " + title}
	require.NoError(t, db.Create(l).Error)
	return l
}

// CreateQuiz adds a quiz whose questions have the given correct options.
func CreateQuiz(t *testing.T, db *gorm.DB, course *model.Course, correct ...model.OptionTag) (*model.Quiz, []model.Question) {
	t.Helper()
	q := &model.Quiz{CourseID: course.ID, Title: "Quiz"}
	require.NoError(t, db.Create(q).Error)

	questions := make([]model.Question, 0, len(correct))
	for i, tag := range correct {
		question := model.Question{
			QuizID:        q.ID,
			QuestionText:  fmt.Sprintf("Question %d", i+1),
			OptionA:       "a",
			OptionB:       "b",
			OptionC:       "c",
			OptionD:       "d",
			CorrectOption: tag,
		}
		require.NoError(t, db.Create(&question).Error)
		questions = append(questions, question)
	}
	return q, questions
}

func Enroll(t *testing.T, db *gorm.DB, student *model.User, course *model.Course) *model.Enrollment {
	t.Helper()
	e := &model.Enrollment{StudentID: student.ID, CourseID: course.ID}
	require.NoError(t, db.Create(e).Error)
	return e
}

func Count(t *testing.T, db *gorm.DB, m interface{}, where ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(m)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
