package model

import (
	"fmt"
	"time"
)

// OptionTag identifies one of the four options of a Question.
type OptionTag string

const (
	OptionA OptionTag = "A"
	OptionB OptionTag = "B"
	OptionC OptionTag = "C"
	OptionD OptionTag = "D"
)

func (o OptionTag) Valid() bool {
	switch o {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

// swagger:model Quiz
type Quiz struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	CourseID uint    `gorm:"index;not null" json:"courseId"`
	Course   *Course `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title    string  `gorm:"size:200;not null" json:"title"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

func (q Quiz) String() string {
	return q.Title
}

// swagger:model Question
type Question struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	QuizID        uint      `gorm:"index;not null" json:"quizId"`
	Quiz          *Quiz     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	QuestionText  string    `gorm:"size:300;not null" json:"questionText"`
	OptionA       string    `gorm:"column:option_a;size:100;not null" json:"optionA"`
	OptionB       string    `gorm:"column:option_b;size:100;not null" json:"optionB"`
	OptionC       string    `gorm:"column:option_c;size:100;not null" json:"optionC"`
	OptionD       string    `gorm:"column:option_d;size:100;not null" json:"optionD"`
	CorrectOption OptionTag `gorm:"size:1;not null;check:correct_option IN ('A','B','C','D')" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}

func (q Question) String() string {
	return q.QuestionText
}

// QuizResult is one attempt; a user may hold any number of them per quiz.
// swagger:model QuizResult
type QuizResult struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	QuizID  uint      `gorm:"index;not null" json:"quizId"`
	Quiz    *Quiz     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID  uint      `gorm:"index;not null" json:"userId"`
	User    *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Score   int       `gorm:"not null" json:"score"`
	Total   int       `gorm:"not null" json:"total"`
	TakenAt time.Time `gorm:"autoCreateTime" json:"takenAt"`
	Answers []Answer  `gorm:"-" json:"answers,omitempty"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}

func (r QuizResult) String() string {
	user, quiz := "", ""
	if r.User != nil {
		user = r.User.Username
	}
	if r.Quiz != nil {
		quiz = r.Quiz.Title
	}
	return fmt.Sprintf("%s - %s (%d/%d)", user, quiz, r.Score, r.Total)
}

// swagger:model Answer
type Answer struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	ResultID   uint        `gorm:"index;not null" json:"resultId"`
	Result     *QuizResult `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	QuestionID uint        `gorm:"index;not null" json:"questionId"`
	Question   *Question   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Selected   OptionTag   `gorm:"size:1;not null;check:selected IN ('A','B','C','D')" json:"selected"`
}

func (Answer) TableName() string {
	return "answers"
}
