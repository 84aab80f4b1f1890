package service

import (
	"context"
	"elearn_backend/internal/form"
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/logger"

	"go.uber.org/zap"
)

type CourseService struct {
	CourseRepo *repository.CourseRepository
	LessonRepo *repository.LessonRepository
	QuizRepo   *repository.QuizRepository
	Storage    *StorageService
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
	quizRepo *repository.QuizRepository,
	storage *StorageService,
) *CourseService {
	return &CourseService{
		CourseRepo: courseRepo,
		LessonRepo: lessonRepo,
		QuizRepo:   quizRepo,
		Storage:    storage,
	}
}

// Actor is the authenticated caller of an authoring operation.
type Actor struct {
	UserID uint
	Role   model.UserRole
}

func ActorFromClaims(c *util.Claims) Actor {
	return Actor{UserID: c.UserID, Role: c.Role}
}

func (a Actor) canManage(course *model.Course) bool {
	if a.Role == model.Admin {
		return true
	}
	return course.InstructorID != nil && *course.InstructorID == a.UserID
}

type CourseInput struct {
	Title       string
	Description string
	PriceINR    int
}

type LessonInput struct {
	Title   string
	Content string
}

type QuestionInput struct {
	QuestionText  string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectOption model.OptionTag
}

// CourseDetail is a course with its syllabus.
type CourseDetail struct {
	model.Course
	Lessons []model.Lesson `json:"lessons"`
	Quizzes []model.Quiz   `json:"quizzes"`
}

func (s *CourseService) List(page, pageSize int) ([]model.Course, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.CourseRepo.List(page, pageSize)
}

func (s *CourseService) Get(id uint) (*model.Course, error) {
	return s.CourseRepo.FindByID(id)
}

func (s *CourseService) Detail(id uint) (*CourseDetail, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	lessons, err := s.LessonRepo.ListByCourse(id)
	if err != nil {
		return nil, err
	}
	quizzes, err := s.QuizRepo.ListByCourse(id)
	if err != nil {
		return nil, err
	}
	return &CourseDetail{Course: *course, Lessons: lessons, Quizzes: quizzes}, nil
}

func (s *CourseService) ListByInstructor(actor Actor) ([]model.Course, error) {
	return s.CourseRepo.ListByInstructor(actor.UserID)
}

func validateCourse(in CourseInput) error {
	errs := &form.ValidationError{}
	if in.Title == "" {
		errs.Add("title", "This field is required.")
	} else if len(in.Title) > 200 {
		errs.Add("title", "Ensure this value has at most 200 characters.")
	}
	if in.PriceINR < 0 {
		errs.Add("price_inr", "Ensure this value is greater than or equal to 0.")
	}
	if len(errs.Fields) > 0 {
		return errs
	}
	return nil
}

func (s *CourseService) storeThumbnail(ctx context.Context, thumb *form.Upload) (*string, error) {
	if thumb == nil || len(thumb.Data) == 0 {
		return nil, nil
	}
	mimeType, err := util.DecodeImage(thumb.Data)
	if err != nil {
		return nil, form.NewValidationError("thumbnail", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}
	key, err := s.Storage.Save(ctx, util.DirCourseThumbnails, thumb.Filename, thumb.Data, mimeType)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// Create makes actor the instructor of a new course.
func (s *CourseService) Create(ctx context.Context, actor Actor, in CourseInput, thumb *form.Upload) (*model.Course, error) {
	if err := validateCourse(in); err != nil {
		return nil, err
	}
	thumbnail, err := s.storeThumbnail(ctx, thumb)
	if err != nil {
		return nil, err
	}

	instructorID := actor.UserID
	course := &model.Course{
		Title:        in.Title,
		Description:  in.Description,
		InstructorID: &instructorID,
		Thumbnail:    thumbnail,
		PriceINR:     in.PriceINR,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	logger.Log.Info("course created", zap.Uint("courseID", course.ID), zap.Uint("instructorID", actor.UserID))
	return course, nil
}

func (s *CourseService) managed(actor Actor, courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindFresh(courseID)
	if err != nil {
		return nil, err
	}
	if !actor.canManage(course) {
		return nil, util.ErrPermissionDenied
	}
	return course, nil
}

// Update replaces the editable fields; the thumbnail only changes when a new
// one is uploaded.
func (s *CourseService) Update(ctx context.Context, actor Actor, courseID uint, in CourseInput, thumb *form.Upload) (*model.Course, error) {
	course, err := s.managed(actor, courseID)
	if err != nil {
		return nil, err
	}
	if err := validateCourse(in); err != nil {
		return nil, err
	}
	thumbnail, err := s.storeThumbnail(ctx, thumb)
	if err != nil {
		return nil, err
	}

	course.Title = in.Title
	course.Description = in.Description
	course.PriceINR = in.PriceINR
	if thumbnail != nil {
		course.Thumbnail = thumbnail
	}
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

// Delete removes the course with its lessons, quizzes and enrollments.
func (s *CourseService) Delete(actor Actor, courseID uint) error {
	if _, err := s.managed(actor, courseID); err != nil {
		return err
	}
	if err := s.CourseRepo.Delete(courseID); err != nil {
		return err
	}
	logger.Log.Info("course deleted", zap.Uint("courseID", courseID), zap.Uint("by", actor.UserID))
	return nil
}

func (s *CourseService) AddLesson(ctx context.Context, actor Actor, courseID uint, in LessonInput, video *form.Upload) (*model.Lesson, error) {
	if _, err := s.managed(actor, courseID); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, form.NewValidationError("title", "This field is required.")
	}

	lesson := &model.Lesson{CourseID: courseID, Title: in.Title, Content: in.Content}
	if video != nil && len(video.Data) > 0 {
		if !util.HasExtension(video.Filename, util.AllowedVideoExtensions) {
			return nil, form.NewValidationError("video", "Unsupported video format.")
		}
		key, err := s.Storage.Save(ctx, util.DirLessonVideos, video.Filename, video.Data, video.ContentType)
		if err != nil {
			return nil, err
		}
		lesson.Video = &key

		if secs, err := util.ProbeDuration(video.Data, video.Filename); err != nil {
			logger.Log.Warn("video probe failed", zap.String("key", key), zap.Error(err))
		} else {
			lesson.DurationSeconds = secs
		}
	}

	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CourseService) AddQuiz(actor Actor, courseID uint, title string) (*model.Quiz, error) {
	if _, err := s.managed(actor, courseID); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, form.NewValidationError("title", "This field is required.")
	}
	quiz := &model.Quiz{CourseID: courseID, Title: title}
	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *CourseService) AddQuestion(actor Actor, quizID uint, in QuestionInput) (*model.Question, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if _, err := s.managed(actor, quiz.CourseID); err != nil {
		return nil, err
	}

	errs := &form.ValidationError{}
	required := map[string]string{
		"question_text": in.QuestionText,
		"option_a":      in.OptionA,
		"option_b":      in.OptionB,
		"option_c":      in.OptionC,
		"option_d":      in.OptionD,
	}
	for field, value := range required {
		if value == "" {
			errs.Add(field, "This field is required.")
		} else if field != "question_text" && len(value) > 100 {
			errs.Add(field, "Ensure this value has at most 100 characters.")
		}
	}
	if len(in.QuestionText) > 300 {
		errs.Add("question_text", "Ensure this value has at most 300 characters.")
	}
	if !in.CorrectOption.Valid() {
		errs.Add("correct_option", "Select a valid choice. The answer must be one of A, B, C or D.")
	}
	if len(errs.Fields) > 0 {
		return nil, errs
	}

	question := &model.Question{
		QuizID:        quizID,
		QuestionText:  in.QuestionText,
		OptionA:       in.OptionA,
		OptionB:       in.OptionB,
		OptionC:       in.OptionC,
		OptionD:       in.OptionD,
		CorrectOption: in.CorrectOption,
	}
	if err := s.QuizRepo.CreateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}
