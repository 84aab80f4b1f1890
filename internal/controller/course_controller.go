package controller

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// ListCourses godoc
// @Summary Course catalog
// @Tags courses
// @Produce json
// @Param page query int false "Page, from 1"
// @Param page_size query int false "Page size, at most 100"
// @Success 200 {object} util.Response{data=object}
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	courses, total, err := c.CourseService.List(page, pageSize)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"items": courses,
		"total": total,
		"page":  page,
	})
}

// GetCourse godoc
// @Summary Course with its lessons and quizzes
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=service.CourseDetail}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	detail, err := c.CourseService.Detail(id)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// swagger:model CourseRequest
type CourseRequest struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	PriceINR    int    `form:"price_inr" json:"price_inr"`
}

func (r CourseRequest) input() service.CourseInput {
	return service.CourseInput{Title: r.Title, Description: r.Description, PriceINR: r.PriceINR}
}

// MyCourses godoc
// @Summary Courses taught by the caller
// @Tags instructor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/instructor/courses [get]
func (c *CourseController) MyCourses(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	courses, err := c.CourseService.ListByInstructor(service.ActorFromClaims(claims))
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// CreateCourse godoc
// @Summary Create a course
// @Tags instructor
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param price_inr formData int false "Price in rupees, 0 for free"
// @Param thumbnail formData file false "Thumbnail image"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/instructor/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req CourseRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	thumb, err := readUpload(ctx, "thumbnail")
	if err != nil {
		respond(ctx, err)
		return
	}

	course, err := c.CourseService.Create(ctx.Request.Context(), service.ActorFromClaims(claims), req.input(), thumb)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary Update a course
// @Tags instructor
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param price_inr formData int false "Price in rupees"
// @Param thumbnail formData file false "New thumbnail"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/instructor/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req CourseRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	thumb, err := readUpload(ctx, "thumbnail")
	if err != nil {
		respond(ctx, err)
		return
	}

	course, err := c.CourseService.Update(ctx.Request.Context(), service.ActorFromClaims(claims), id, req.input(), thumb)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary Delete a course with everything under it
// @Tags instructor
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/instructor/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.CourseService.Delete(service.ActorFromClaims(claims), id); err != nil {
		respond(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// swagger:model LessonRequest
type LessonRequest struct {
	Title   string `form:"title" json:"title"`
	Content string `form:"content" json:"content"`
}

// AddLesson godoc
// @Summary Add a lesson to a course
// @Tags instructor
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param title formData string true "Title"
// @Param content formData string false "Lesson text"
// @Param video formData file false "Lesson video"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 400 {object} util.Response
// @Router /api/instructor/courses/{id}/lessons [post]
func (c *CourseController) AddLesson(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req LessonRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	video, err := readUpload(ctx, "video")
	if err != nil {
		respond(ctx, err)
		return
	}

	lesson, err := c.CourseService.AddLesson(ctx.Request.Context(), service.ActorFromClaims(claims), id,
		service.LessonInput{Title: req.Title, Content: req.Content}, video)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// swagger:model QuizRequest
type QuizRequest struct {
	Title string `form:"title" json:"title"`
}

// AddQuiz godoc
// @Summary Add a quiz to a course
// @Tags instructor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param body body QuizRequest true "Quiz"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Router /api/instructor/courses/{id}/quizzes [post]
func (c *CourseController) AddQuiz(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req QuizRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	quiz, err := c.CourseService.AddQuiz(service.ActorFromClaims(claims), id, req.Title)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// swagger:model QuestionRequest
type QuestionRequest struct {
	QuestionText  string `form:"question_text" json:"question_text"`
	OptionA       string `form:"option_a" json:"option_a"`
	OptionB       string `form:"option_b" json:"option_b"`
	OptionC       string `form:"option_c" json:"option_c"`
	OptionD       string `form:"option_d" json:"option_d"`
	CorrectOption string `form:"correct_option" json:"correct_option"`
}

// AddQuestion godoc
// @Summary Add a multiple-choice question to a quiz
// @Tags instructor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Param body body QuestionRequest true "Question"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Router /api/instructor/quizzes/{id}/questions [post]
func (c *CourseController) AddQuestion(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req QuestionRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	question, err := c.CourseService.AddQuestion(service.ActorFromClaims(claims), id, service.QuestionInput{
		QuestionText:  req.QuestionText,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectOption: model.OptionTag(req.CorrectOption),
	})
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Created(ctx, question)
}
