package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProgressService struct {
	DB             *gorm.DB
	LessonRepo     *repository.LessonRepository
	CompletionRepo *repository.CompletionRepository
	CourseRepo     *repository.CourseRepository
	Enrollments    *EnrollmentService
	Certificates   *CertificateService
}

func NewProgressService(
	db *gorm.DB,
	lessonRepo *repository.LessonRepository,
	completionRepo *repository.CompletionRepository,
	courseRepo *repository.CourseRepository,
	enrollments *EnrollmentService,
	certificates *CertificateService,
) *ProgressService {
	return &ProgressService{
		DB:             db,
		LessonRepo:     lessonRepo,
		CompletionRepo: completionRepo,
		CourseRepo:     courseRepo,
		Enrollments:    enrollments,
		Certificates:   certificates,
	}
}

type LessonOutcome struct {
	Completion      *model.LessonCompletion `json:"completion"`
	CourseCompleted bool                    `json:"courseCompleted"`
	Certificate     *model.Certificate      `json:"certificate,omitempty"`
}

type Progress struct {
	CourseID           uint    `json:"courseId"`
	CompletedLessons   int64   `json:"completedLessons"`
	TotalLessons       int64   `json:"totalLessons"`
	Percent            float64 `json:"percent"`
	CompletedLessonIDs []uint  `json:"completedLessonIds"`
	CourseCompleted    bool    `json:"courseCompleted"`
}

// CompleteLesson records the lesson for the student. Finishing the last
// lesson of the course also records the course completion and issues the
// certificate, all in one transaction.
func (s *ProgressService) CompleteLesson(studentID, lessonID uint) (*LessonOutcome, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.Enrollments.Require(studentID, lesson.CourseID); err != nil {
		return nil, err
	}

	outcome := &LessonOutcome{}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		completions := s.CompletionRepo.WithTx(tx)

		completion := &model.LessonCompletion{StudentID: studentID, LessonID: lessonID}
		if err := completions.CompleteLesson(completion); err != nil {
			return err
		}
		outcome.Completion = completion

		done, err := completions.CountCompletedLessons(studentID, lesson.CourseID)
		if err != nil {
			return err
		}
		total, err := s.LessonRepo.WithTx(tx).CountByCourse(lesson.CourseID)
		if err != nil {
			return err
		}
		if done < total {
			return nil
		}

		// a course that gained lessons after completion is already recorded
		if _, err := completions.RecordCourseCompletion(&model.CourseCompletion{StudentID: studentID, CourseID: lesson.CourseID}); err != nil {
			return err
		}
		outcome.CourseCompleted = true

		cert, err := s.Certificates.Issue(tx, studentID, lesson.CourseID)
		if err != nil {
			return err
		}
		outcome.Certificate = cert
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("lesson completed",
		zap.Uint("studentID", studentID), zap.Uint("lessonID", lessonID), zap.Bool("courseCompleted", outcome.CourseCompleted))
	return outcome, nil
}

func (s *ProgressService) CourseProgress(studentID, courseID uint) (*Progress, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, err
	}
	if err := s.Enrollments.Require(studentID, courseID); err != nil {
		return nil, err
	}

	total, err := s.LessonRepo.CountByCourse(courseID)
	if err != nil {
		return nil, err
	}
	ids, err := s.CompletionRepo.CompletedLessonIDs(studentID, courseID)
	if err != nil {
		return nil, err
	}
	completed, err := s.CompletionRepo.IsCourseCompleted(studentID, courseID)
	if err != nil {
		return nil, err
	}

	p := &Progress{
		CourseID:           courseID,
		CompletedLessons:   int64(len(ids)),
		TotalLessons:       total,
		CompletedLessonIDs: ids,
		CourseCompleted:    completed,
	}
	if total > 0 {
		p.Percent = float64(p.CompletedLessons) * 100 / float64(total)
	}
	return p, nil
}
