package service

import (
	"elearn_backend/internal/form"
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/pkg/logger"
	"elearn_backend/pkg/monitoring"
	"fmt"

	"go.uber.org/zap"
)

type QuizService struct {
	QuizRepo    *repository.QuizRepository
	ResultRepo  *repository.QuizResultRepository
	Enrollments *EnrollmentService
}

func NewQuizService(quizRepo *repository.QuizRepository, resultRepo *repository.QuizResultRepository, enrollments *EnrollmentService) *QuizService {
	return &QuizService{QuizRepo: quizRepo, ResultRepo: resultRepo, Enrollments: enrollments}
}

// QuizSheet is a quiz as shown to a student; correct options are never serialised.
type QuizSheet struct {
	model.Quiz
	Questions []model.Question `json:"questions"`
}

func (s *QuizService) accessible(userID, quizID uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if err := s.Enrollments.Require(userID, quiz.CourseID); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) Sheet(userID, quizID uint) (*QuizSheet, error) {
	quiz, err := s.accessible(userID, quizID)
	if err != nil {
		return nil, err
	}
	questions, err := s.QuizRepo.ListQuestions(quizID)
	if err != nil {
		return nil, err
	}
	return &QuizSheet{Quiz: *quiz, Questions: questions}, nil
}

// Submit grades one attempt. Score counts correct answers and Total is the
// number of questions in the quiz, so unanswered questions count as wrong.
func (s *QuizService) Submit(userID, quizID uint, answers map[uint]model.OptionTag) (*model.QuizResult, error) {
	quiz, err := s.accessible(userID, quizID)
	if err != nil {
		return nil, err
	}
	questions, err := s.QuizRepo.ListQuestions(quizID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	errs := &form.ValidationError{}
	for questionID, selected := range answers {
		field := fmt.Sprintf("answers.%d", questionID)
		if _, ok := byID[questionID]; !ok {
			errs.Add(field, "Question does not belong to this quiz.")
		} else if !selected.Valid() {
			errs.Add(field, "Select a valid choice. The answer must be one of A, B, C or D.")
		}
	}
	if len(errs.Fields) > 0 {
		return nil, errs
	}

	score := 0
	rows := make([]model.Answer, 0, len(answers))
	for _, q := range questions {
		selected, ok := answers[q.ID]
		if !ok {
			continue
		}
		if selected == q.CorrectOption {
			score++
		}
		rows = append(rows, model.Answer{QuestionID: q.ID, Selected: selected})
	}

	result := &model.QuizResult{
		QuizID: quiz.ID,
		UserID: userID,
		Score:  score,
		Total:  len(questions),
	}
	if err := s.ResultRepo.SaveWithAnswers(result, rows); err != nil {
		return nil, err
	}

	monitoring.QuizSubmissions.Inc()
	logger.Log.Info("quiz submitted",
		zap.Uint("userID", userID), zap.Uint("quizID", quizID),
		zap.Int("score", score), zap.Int("total", result.Total))
	return result, nil
}

// Results lists the user's attempts, newest first, with their answers.
func (s *QuizService) Results(userID, quizID uint) ([]model.QuizResult, error) {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		return nil, err
	}
	results, err := s.ResultRepo.ListByUserAndQuiz(userID, quizID)
	if err != nil {
		return nil, err
	}
	for i := range results {
		answers, err := s.ResultRepo.Answers(results[i].ID)
		if err != nil {
			return nil, err
		}
		results[i].Answers = answers
	}
	return results, nil
}
