package repository

import (
	"elearn_backend/internal/model"

	"gorm.io/gorm"
)

type QuizResultRepository struct {
	DB *gorm.DB
}

func NewQuizResultRepository(db *gorm.DB) *QuizResultRepository {
	return &QuizResultRepository{DB: db}
}

// SaveWithAnswers writes the result and its answers atomically.
func (r *QuizResultRepository) SaveWithAnswers(result *model.QuizResult, answers []model.Answer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(result).Error; err != nil {
			return err
		}
		if len(answers) == 0 {
			return nil
		}
		for i := range answers {
			answers[i].ResultID = result.ID
		}
		if err := tx.Create(&answers).Error; err != nil {
			return err
		}
		result.Answers = answers
		return nil
	})
}

func (r *QuizResultRepository) ListByUserAndQuiz(userID, quizID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("taken_at DESC, id DESC").
		Find(&results).Error
	return results, err
}

func (r *QuizResultRepository) Answers(resultID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.Where("result_id = ?", resultID).Order("id").Find(&answers).Error
	return answers, err
}
