package repository

import (
	"context"
	"elearn_backend/internal/model"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CourseCache holds single courses by id.
type CourseCache interface {
	Get(ctx context.Context, id uint) (*model.Course, bool)
	Set(ctx context.Context, course *model.Course) error
	Del(ctx context.Context, id uint) error
}

type redisCourseCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func courseKey(id uint) string {
	return fmt.Sprintf("course:%d", id)
}

func (c *redisCourseCache) Get(ctx context.Context, id uint) (*model.Course, bool) {
	raw, err := c.rdb.Get(ctx, courseKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var cached model.Course
	if json.Unmarshal(raw, &cached) != nil {
		return nil, false
	}
	return &cached, true
}

func (c *redisCourseCache) Set(ctx context.Context, course *model.Course) error {
	raw, err := json.Marshal(course)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, courseKey(course.ID), raw, c.ttl).Err()
}

func (c *redisCourseCache) Del(ctx context.Context, id uint) error {
	return c.rdb.Del(ctx, courseKey(id)).Err()
}

// CourseRepository reads through Cache for single courses when it is set.
type CourseRepository struct {
	DB    *gorm.DB
	Cache CourseCache
}

func NewCourseRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) *CourseRepository {
	r := &CourseRepository{DB: db}
	if rdb != nil {
		r.Cache = &redisCourseCache{rdb: rdb, ttl: ttl}
	}
	return r
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	if r.Cache != nil {
		if cached, ok := r.Cache.Get(context.Background(), id); ok {
			return cached, nil
		}
	}
	return r.FindFresh(id)
}

// FindFresh skips the cached copy and refreshes it from the database.
// Ownership checks use it since deleting an instructor nulls instructor_id
// without touching the cache.
func (r *CourseRepository) FindFresh(id uint) (*model.Course, error) {
	var course model.Course
	if err := r.DB.First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.invalidate(id)
		}
		return nil, notFound(err, util.ErrCourseNotFound)
	}

	if r.Cache != nil {
		if err := r.Cache.Set(context.Background(), &course); err != nil {
			logger.Log.Warn("course cache write failed", zap.Uint("courseID", id), zap.Error(err))
		}
	}
	return &course, nil
}

func (r *CourseRepository) List(page, pageSize int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	query := r.DB.Model(&model.Course{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) ListByInstructor(instructorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("instructor_id = ?", instructorID).Order("id").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) TitleExists(instructorID uint, title string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Course{}).
		Where("instructor_id = ? AND title = ?", instructorID, title).
		Count(&count).Error
	return count > 0, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	if err := r.DB.Save(course).Error; err != nil {
		return err
	}
	r.invalidate(course.ID)
	return nil
}

// Delete removes the course; lessons, quizzes and everything beneath them
// go with it through the foreign keys.
func (r *CourseRepository) Delete(id uint) error {
	if err := r.DB.Delete(&model.Course{}, id).Error; err != nil {
		return err
	}
	r.invalidate(id)
	return nil
}

func (r *CourseRepository) invalidate(id uint) {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.Del(context.Background(), id); err != nil {
		logger.Log.Warn("course cache invalidation failed", zap.Uint("courseID", id), zap.Error(err))
	}
}
