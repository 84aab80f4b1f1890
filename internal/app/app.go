package app

import (
	"context"
	"elearn_backend/internal/config"
	"elearn_backend/internal/controller"
	"elearn_backend/internal/jobs"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/service"
	"elearn_backend/pkg/configwatcher"
	"elearn_backend/pkg/database"
	"elearn_backend/pkg/logger"
	"elearn_backend/pkg/monitoring"
	"elearn_backend/pkg/razorpay"
	"elearn_backend/pkg/security"
	"elearn_backend/pkg/tracing"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
	sweeper  *jobs.PaymentSweeper

	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	profile     *repository.ProfileRepository
	course      *repository.CourseRepository
	lesson      *repository.LessonRepository
	quiz        *repository.QuizRepository
	quizResult  *repository.QuizResultRepository
	certificate *repository.CertificateRepository
	completion  *repository.CompletionRepository
	payment     *repository.PaymentRepository
	enrollment  *repository.EnrollmentRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	profile     *service.ProfileService
	course      *service.CourseService
	enrollment  *service.EnrollmentService
	payment     *service.PaymentService
	quiz        *service.QuizService
	certificate *service.CertificateService
	progress    *service.ProgressService
}

type controllers struct {
	auth        *controller.AuthController
	profile     *controller.ProfileController
	course      *controller.CourseController
	learning    *controller.LearningController
	payment     *controller.PaymentController
	certificate *controller.CertificateController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()
	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		profile:     repository.NewProfileRepository(db),
		course:      repository.NewCourseRepository(db, rdb, time.Duration(cfg.Redis.CourseTTLSeconds)*time.Second),
		lesson:      repository.NewLessonRepository(db),
		quiz:        repository.NewQuizRepository(db),
		quizResult:  repository.NewQuizResultRepository(db),
		certificate: repository.NewCertificateRepository(db),
		completion:  repository.NewCompletionRepository(db),
		payment:     repository.NewPaymentRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, gateway razorpay.Gateway) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.profile = service.NewProfileService(repos.profile, s.storage)
	s.course = service.NewCourseService(repos.course, repos.lesson, repos.quiz, s.storage)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course)
	s.payment = service.NewPaymentService(db, repos.payment, repos.enrollment, repos.course, gateway, cfg.Razorpay.Currency)
	s.quiz = service.NewQuizService(repos.quiz, repos.quizResult, s.enrollment)
	s.certificate = service.NewCertificateService(repos.certificate)
	s.progress = service.NewProgressService(db, repos.lesson, repos.completion, repos.course, s.enrollment, s.certificate)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		profile:     controller.NewProfileController(s.profile, s.storage),
		course:      controller.NewCourseController(s.course),
		learning:    controller.NewLearningController(s.enrollment, s.progress, s.quiz),
		payment:     controller.NewPaymentController(s.payment),
		certificate: controller.NewCertificateController(s.certificate),
		health:      controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(security.Limits{
		General: security.Budget{
			Max:    cfg.RateLimit.MaxRequests,
			Window: time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute,
		},
		Sensitive: security.Budget{
			Max:    cfg.RateLimit.SensitiveMaxRequests,
			Window: time.Duration(cfg.RateLimit.SensitiveWindowMinutes) * time.Minute,
		},
		SensitivePaths: security.DefaultSensitivePaths,
	}))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// Assemble wires the HTTP application on top of already opened stores.
func Assemble(cfg *config.Config, db *gorm.DB, rdb *redis.Client, gateway razorpay.Gateway) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb, cfg)
	app.services = app.initServices(repos, cfg, db, gateway)
	controllers := app.initControllers(app.services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == gin.ReleaseMode || cfg.Server.Mode == gin.TestMode {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Server.Mode != gin.TestMode {
		router.Use(gin.Logger())
	}
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/media", cfg.Storage.LocalPath)
	}

	app.sweeper = jobs.NewPaymentSweeper(app.services.payment, cfg.PaymentExpiry())
	app.RegisterConfigCallback(func(next *config.Config) {
		app.sweeper.SetExpiry(next.PaymentExpiry())
		logger.Log.Info("payment expiry updated", zap.Duration("expireAfter", next.PaymentExpiry()))
	})

	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	gateway := razorpay.NewClient(cfg.Razorpay.BaseURL, cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	return Assemble(cfg, db, rdb, gateway)
}

// startJobs schedules the sweeper even while expiry is 0 so a reload can turn it on.
func (a *App) startJobs() error {
	return a.sweeper.Start(a.Config.Payment.SweepCron)
}

func (a *App) Run() {
	if a.Config.Tracing.Enabled {
		tp, err := tracing.InitTracer("elearn-backend", a.Config.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	if err := a.startJobs(); err != nil {
		logger.Log.Fatal("Invalid payment sweep schedule", zap.String("schedule", a.Config.Payment.SweepCron), zap.Error(err))
	}

	watchCtx, stopWatching := context.WithCancel(context.Background())
	defer stopWatching()
	if a.Config.ConfigDir != "" {
		go func() {
			if err := configwatcher.Watch(watchCtx, a.Config.ConfigDir, a.applyConfig); err != nil {
				logger.Log.Warn("config watcher not running", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.sweeper.Stop(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
