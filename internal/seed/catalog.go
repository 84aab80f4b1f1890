// Package seed loads a course catalog described in YAML.
package seed

import (
	"context"
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/service"
	"elearn_backend/pkg/logger"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Catalog struct {
	Courses []Course `yaml:"courses"`
}

type Course struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	PriceINR    int      `yaml:"price_inr"`
	Instructor  string   `yaml:"instructor"`
	Lessons     []Lesson `yaml:"lessons"`
	Quizzes     []Quiz   `yaml:"quizzes"`
}

type Lesson struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

type Quiz struct {
	Title     string     `yaml:"title"`
	Questions []Question `yaml:"questions"`
}

type Question struct {
	Text    string   `yaml:"text"`
	Options []string `yaml:"options"`
	Correct string   `yaml:"correct"`
}

// Parse rejects unknown keys so typos in the catalog file surface early.
func Parse(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cat Catalog
	if err := dec.Decode(&cat); err != nil {
		if errors.Is(err, io.EOF) {
			return &cat, nil
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &cat, nil
}

type Summary struct {
	Created int
	Skipped int
}

type Loader struct {
	Users   *repository.UserRepository
	Courses *repository.CourseRepository
	Service *service.CourseService
}

func NewLoader(users *repository.UserRepository, courses *repository.CourseRepository, svc *service.CourseService) *Loader {
	return &Loader{Users: users, Courses: courses, Service: svc}
}

// Load creates every course whose title is new for its instructor. Courses
// already present are left untouched.
func (l *Loader) Load(ctx context.Context, cat *Catalog) (Summary, error) {
	var sum Summary
	for _, c := range cat.Courses {
		instructor, err := l.Users.FindByUsername(c.Instructor)
		if err != nil {
			return sum, fmt.Errorf("course %q: instructor %q: %w", c.Title, c.Instructor, err)
		}
		if instructor.Role != model.Instructor && instructor.Role != model.Admin {
			return sum, fmt.Errorf("course %q: %q is not an instructor", c.Title, c.Instructor)
		}

		exists, err := l.Courses.TitleExists(instructor.ID, c.Title)
		if err != nil {
			return sum, err
		}
		if exists {
			sum.Skipped++
			continue
		}

		if err := l.loadCourse(ctx, service.Actor{UserID: instructor.ID, Role: instructor.Role}, c); err != nil {
			return sum, fmt.Errorf("course %q: %w", c.Title, err)
		}
		sum.Created++
	}
	logger.Log.Info("catalog loaded", zap.Int("created", sum.Created), zap.Int("skipped", sum.Skipped))
	return sum, nil
}

func (l *Loader) loadCourse(ctx context.Context, actor service.Actor, c Course) error {
	course, err := l.Service.Create(ctx, actor, service.CourseInput{
		Title:       c.Title,
		Description: c.Description,
		PriceINR:    c.PriceINR,
	}, nil)
	if err != nil {
		return err
	}

	for _, lesson := range c.Lessons {
		in := service.LessonInput{Title: lesson.Title, Content: lesson.Content}
		if _, err := l.Service.AddLesson(ctx, actor, course.ID, in, nil); err != nil {
			return err
		}
	}

	for _, q := range c.Quizzes {
		quiz, err := l.Service.AddQuiz(actor, course.ID, q.Title)
		if err != nil {
			return err
		}
		for i, question := range q.Questions {
			if len(question.Options) != 4 {
				return fmt.Errorf("quiz %q question %d: want 4 options, got %d", q.Title, i+1, len(question.Options))
			}
			_, err := l.Service.AddQuestion(actor, quiz.ID, service.QuestionInput{
				QuestionText:  question.Text,
				OptionA:       question.Options[0],
				OptionB:       question.Options[1],
				OptionC:       question.Options[2],
				OptionD:       question.Options[3],
				CorrectOption: model.OptionTag(question.Correct),
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}
