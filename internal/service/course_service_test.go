package service

import (
	"context"
	"elearn_backend/internal/form"
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/testutil"
	"elearn_backend/internal/util"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCourseWithThumbnail(t *testing.T) {
	e := newEnv(t)
	guru := testutil.CreateUser(t, e.db, "guru", model.Instructor)
	actor := Actor{UserID: guru.ID, Role: guru.Role}

	course, err := e.courses.Create(context.Background(), actor,
		CourseInput{Title: "Go Basics", Description: "intro", PriceINR: 499},
		&form.Upload{Filename: "cover.PNG", Data: pngBytes(t)})
	require.NoError(t, err)
	require.NotNil(t, course.InstructorID)
	assert.Equal(t, guru.ID, *course.InstructorID)
	require.NotNil(t, course.Thumbnail)
	assert.True(t, strings.HasPrefix(*course.Thumbnail, "course_thumbnails/"))
	assert.True(t, strings.HasSuffix(*course.Thumbnail, ".png"))
}

func TestCreateCourseValidation(t *testing.T) {
	e := newEnv(t)
	actor := Actor{UserID: 1, Role: model.Instructor}

	_, err := e.courses.Create(context.Background(), actor, CourseInput{PriceINR: -1}, nil)
	ve, ok := form.AsValidationError(err)
	require.True(t, ok)
	assert.True(t, ve.Has("title"))
	assert.True(t, ve.Has("price_inr"))

	_, err = e.courses.Create(context.Background(), actor, CourseInput{Title: "x"}, &form.Upload{Filename: "a.png", Data: []byte("nope")})
	ve, ok = form.AsValidationError(err)
	require.True(t, ok)
	assert.True(t, ve.Has("thumbnail"))
}

func TestOnlyOwnerOrAdminManagesCourse(t *testing.T) {
	e := newEnv(t)
	owner := testutil.CreateUser(t, e.db, "owner", model.Instructor)
	other := testutil.CreateUser(t, e.db, "other", model.Instructor)
	admin := testutil.CreateUser(t, e.db, "root", model.Admin)
	course := testutil.CreateCourse(t, e.db, owner, 0)

	_, err := e.courses.Update(context.Background(), Actor{UserID: other.ID, Role: model.Instructor}, course.ID, CourseInput{Title: "Hijacked"}, nil)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
	assert.ErrorIs(t, e.courses.Delete(Actor{UserID: other.ID, Role: model.Instructor}, course.ID), util.ErrPermissionDenied)

	updated, err := e.courses.Update(context.Background(), Actor{UserID: owner.ID, Role: model.Instructor}, course.ID, CourseInput{Title: "Renamed", PriceINR: 99}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, 99, updated.PriceINR)

	require.NoError(t, e.courses.Delete(Actor{UserID: admin.ID, Role: model.Admin}, course.ID))
	_, err = e.courses.Get(course.ID)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestAddLessonQuizAndQuestion(t *testing.T) {
	e := newEnv(t)
	owner := testutil.CreateUser(t, e.db, "owner", model.Instructor)
	actor := Actor{UserID: owner.ID, Role: model.Instructor}
	course := testutil.CreateCourse(t, e.db, owner, 0)

	lesson, err := e.courses.AddLesson(context.Background(), actor, course.ID,
		LessonInput{Title: "Welcome", Content: "hello"},
		&form.Upload{Filename: "intro.mp4", ContentType: "video/mp4", Data: []byte("fake video")})
	require.NoError(t, err)
	require.NotNil(t, lesson.Video)
	assert.True(t, strings.HasPrefix(*lesson.Video, "lessons/"))

	_, err = e.courses.AddLesson(context.Background(), actor, course.ID,
		LessonInput{Title: "Bad"}, &form.Upload{Filename: "virus.exe", Data: []byte("x")})
	ve, ok := form.AsValidationError(err)
	require.True(t, ok)
	assert.True(t, ve.Has("video"))

	quiz, err := e.courses.AddQuiz(actor, course.ID, "Checkpoint")
	require.NoError(t, err)

	q, err := e.courses.AddQuestion(actor, quiz.ID, QuestionInput{
		QuestionText: "2+2?", OptionA: "3", OptionB: "4", OptionC: "5", OptionD: "22", CorrectOption: model.OptionB,
	})
	require.NoError(t, err)
	assert.Equal(t, model.OptionB, q.CorrectOption)

	_, err = e.courses.AddQuestion(actor, quiz.ID, QuestionInput{
		QuestionText: "?", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectOption: "E",
	})
	ve, ok = form.AsValidationError(err)
	require.True(t, ok)
	assert.True(t, ve.Has("correct_option"))

	detail, err := e.courses.Detail(course.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Lessons, 1)
	assert.Len(t, detail.Quizzes, 1)
}

func TestListCoursesClampsPaging(t *testing.T) {
	e := newEnv(t)
	for i := 0; i < 3; i++ {
		testutil.CreateCourse(t, e.db, nil, 0)
	}
	courses, total, err := e.courses.List(0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, courses, 3)
}

type memCourseCache struct {
	mu      sync.Mutex
	courses map[uint]model.Course
}

func (c *memCourseCache) Get(ctx context.Context, id uint) (*model.Course, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	course, ok := c.courses[id]
	return &course, ok
}

func (c *memCourseCache) Set(ctx context.Context, course *model.Course) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.courses[course.ID] = *course
	return nil
}

func (c *memCourseCache) Del(ctx context.Context, id uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.courses, id)
	return nil
}

func TestDeletedInstructorLosesCachedOwnership(t *testing.T) {
	e := newEnv(t)
	cache := &memCourseCache{courses: map[uint]model.Course{}}
	e.courses.CourseRepo.Cache = cache

	owner := testutil.CreateUser(t, e.db, "owner", model.Instructor)
	course := testutil.CreateCourse(t, e.db, owner, 499)
	_, err := e.courses.Get(course.ID)
	require.NoError(t, err)

	require.NoError(t, repository.NewUserRepository(e.db).Delete(owner.ID))

	// the same id may come back through a stale token
	actor := Actor{UserID: owner.ID, Role: model.Instructor}
	_, err = e.courses.Update(context.Background(), actor, course.ID, CourseInput{Title: "Taken", PriceINR: 1}, nil)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
	assert.ErrorIs(t, e.courses.Delete(actor, course.ID), util.ErrPermissionDenied)

	got, err := e.courses.Get(course.ID)
	require.NoError(t, err)
	assert.Nil(t, got.InstructorID)
	assert.EqualValues(t, 1, testutil.Count(t, e.db, &model.Course{}))
}
