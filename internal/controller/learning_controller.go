package controller

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/service"
	"elearn_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// LearningController serves the student side: enrollment, lesson progress
// and quiz attempts.
type LearningController struct {
	EnrollmentService *service.EnrollmentService
	ProgressService   *service.ProgressService
	QuizService       *service.QuizService
}

func NewLearningController(
	enrollmentService *service.EnrollmentService,
	progressService *service.ProgressService,
	quizService *service.QuizService,
) *LearningController {
	return &LearningController{
		EnrollmentService: enrollmentService,
		ProgressService:   progressService,
		QuizService:       quizService,
	}
}

// Enroll godoc
// @Summary Enroll in a free course
// @Description Paid courses answer 402; use the payment endpoints instead.
// @Tags learning
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Failure 402 {object} util.Response "Payment required"
// @Failure 409 {object} util.Response "Already enrolled"
// @Router /api/courses/{id}/enroll [post]
func (c *LearningController) Enroll(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	enrollment, err := c.EnrollmentService.Enroll(claims.UserID, courseID)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Created(ctx, enrollment)
}

// MyEnrollments godoc
// @Summary Courses the caller is enrolled in
// @Tags learning
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/enrollments [get]
func (c *LearningController) MyEnrollments(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	enrollments, err := c.EnrollmentService.ListForStudent(claims.UserID)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// CompleteLesson godoc
// @Summary Mark a lesson completed
// @Description Completing the last lesson also completes the course and issues a certificate.
// @Tags learning
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 201 {object} util.Response{data=service.LessonOutcome}
// @Failure 403 {object} util.Response "Not enrolled"
// @Failure 409 {object} util.Response "Already completed"
// @Router /api/lessons/{id}/complete [post]
func (c *LearningController) CompleteLesson(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	lessonID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	outcome, err := c.ProgressService.CompleteLesson(claims.UserID, lessonID)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Created(ctx, outcome)
}

// CourseProgress godoc
// @Summary Lesson progress in a course
// @Tags learning
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response{data=service.Progress}
// @Router /api/courses/{id}/progress [get]
func (c *LearningController) CourseProgress(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	progress, err := c.ProgressService.CourseProgress(claims.UserID, courseID)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// GetQuiz godoc
// @Summary Quiz questions for an enrolled student
// @Tags learning
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response{data=service.QuizSheet}
// @Router /api/quizzes/{id} [get]
func (c *LearningController) GetQuiz(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	quizID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	sheet, err := c.QuizService.Sheet(claims.UserID, quizID)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Success(ctx, sheet)
}

// swagger:model SubmitQuizRequest
type SubmitQuizRequest struct {
	// question id -> "A".."D"
	Answers map[string]string `json:"answers" binding:"required"`
}

// SubmitQuiz godoc
// @Summary Submit a quiz attempt
// @Tags learning
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Param body body SubmitQuizRequest true "Answers keyed by question id"
// @Success 201 {object} util.Response{data=model.QuizResult}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response "Not enrolled"
// @Router /api/quizzes/{id}/submit [post]
func (c *LearningController) SubmitQuiz(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	quizID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answers := make(map[uint]model.OptionTag, len(req.Answers))
	for key, value := range req.Answers {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			util.BadRequest(ctx, "answers must be keyed by question id")
			return
		}
		answers[uint(id)] = model.OptionTag(value)
	}

	result, err := c.QuizService.Submit(claims.UserID, quizID, answers)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// QuizResults godoc
// @Summary The caller's attempts at a quiz
// @Tags learning
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response{data=[]model.QuizResult}
// @Router /api/quizzes/{id}/results [get]
func (c *LearningController) QuizResults(ctx *gin.Context) {
	claims, ok := currentUser(ctx)
	if !ok {
		return
	}
	quizID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	results, err := c.QuizService.Results(claims.UserID, quizID)
	if err != nil {
		respond(ctx, err)
		return
	}
	util.Success(ctx, results)
}
