package app

import (
	"elearn_backend/docs"
	"elearn_backend/internal/config"
	"elearn_backend/internal/middleware"
	"elearn_backend/internal/model"
	"elearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerInstructorRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		public.GET("/courses", c.course.ListCourses)
		public.GET("/courses/:id", c.course.GetCourse)

		public.GET("/certificates/:certificateId", c.certificate.VerifyCertificate)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.PUT("/account", c.auth.UpdateAccount)
	rg.GET("/profile", c.profile.GetProfile)
	rg.PUT("/profile", c.profile.UpdateProfile)

	rg.POST("/courses/:id/enroll", c.learning.Enroll)
	rg.GET("/courses/:id/progress", c.learning.CourseProgress)
	rg.GET("/enrollments", c.learning.MyEnrollments)
	rg.POST("/lessons/:id/complete", c.learning.CompleteLesson)

	quizzes := rg.Group("/quizzes")
	{
		quizzes.GET("/:id", c.learning.GetQuiz)
		quizzes.POST("/:id/submit", c.learning.SubmitQuiz)
		quizzes.GET("/:id/results", c.learning.QuizResults)
	}

	rg.GET("/certificates", c.certificate.MyCertificates)

	payments := rg.Group("/payments")
	{
		payments.GET("", c.payment.MyPayments)
		payments.POST("/orders", c.payment.CreateOrder)
		payments.POST("/verify", c.payment.VerifyPayment)
		payments.POST("/fail", c.payment.FailPayment)
	}
}

func (a *App) registerInstructorRoutes(rg *gin.RouterGroup, c *controllers) {
	instructor := rg.Group("/instructor")
	instructor.Use(middleware.RoleMiddleware(model.Instructor))
	{
		instructor.GET("/courses", c.course.MyCourses)
		instructor.POST("/courses", c.course.CreateCourse)
		instructor.PUT("/courses/:id", c.course.UpdateCourse)
		instructor.DELETE("/courses/:id", c.course.DeleteCourse)
		instructor.POST("/courses/:id/lessons", c.course.AddLesson)
		instructor.POST("/courses/:id/quizzes", c.course.AddQuiz)
		instructor.POST("/quizzes/:id/questions", c.course.AddQuestion)
	}
}
