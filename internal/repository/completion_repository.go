package repository

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompletionRepository struct {
	DB *gorm.DB
}

func NewCompletionRepository(db *gorm.DB) *CompletionRepository {
	return &CompletionRepository{DB: db}
}

func (r *CompletionRepository) WithTx(tx *gorm.DB) *CompletionRepository {
	return &CompletionRepository{DB: tx}
}

// CompleteLesson fails with util.ErrLessonAlreadyCompleted on a second
// row for the same (student, lesson).
func (r *CompletionRepository) CompleteLesson(c *model.LessonCompletion) error {
	if err := r.DB.Create(c).Error; err != nil {
		if isDuplicate(err) {
			return util.ErrLessonAlreadyCompleted
		}
		return err
	}
	return nil
}

func (r *CompletionRepository) CompleteCourse(c *model.CourseCompletion) error {
	if err := r.DB.Create(c).Error; err != nil {
		if isDuplicate(err) {
			return util.ErrCourseAlreadyCompleted
		}
		return err
	}
	return nil
}

// RecordCourseCompletion inserts the completion unless one exists and reports
// whether it did. Unlike CompleteCourse it never fails on a duplicate, so it
// is safe mid-transaction on postgres.
func (r *CompletionRepository) RecordCourseCompletion(c *model.CourseCompletion) (bool, error) {
	res := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(c)
	return res.RowsAffected == 1, res.Error
}

func (r *CompletionRepository) IsLessonCompleted(studentID, lessonID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.LessonCompletion{}).
		Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
		Count(&count).Error
	return count > 0, err
}

// CountCompletedLessons counts the student's completions among the course's lessons.
func (r *CompletionRepository) CountCompletedLessons(studentID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonCompletion{}).
		Joins("JOIN lessons ON lessons.id = lesson_completions.lesson_id").
		Where("lesson_completions.student_id = ? AND lessons.course_id = ?", studentID, courseID).
		Count(&count).Error
	return count, err
}

func (r *CompletionRepository) CompletedLessonIDs(studentID, courseID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.LessonCompletion{}).
		Joins("JOIN lessons ON lessons.id = lesson_completions.lesson_id").
		Where("lesson_completions.student_id = ? AND lessons.course_id = ?", studentID, courseID).
		Order("lesson_completions.lesson_id").
		Pluck("lesson_completions.lesson_id", &ids).Error
	return ids, err
}

func (r *CompletionRepository) IsCourseCompleted(studentID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.CourseCompletion{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	return count > 0, err
}
