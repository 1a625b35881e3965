package app

import (
	"adultna_backend/internal/config"
	"adultna_backend/internal/controller"
	"adultna_backend/internal/idle"
	"adultna_backend/internal/repository"
	"adultna_backend/internal/service"
	"adultna_backend/pkg/database"
	"adultna_backend/pkg/logger"
	"adultna_backend/pkg/monitoring"
	"adultna_backend/pkg/security"
	"adultna_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	IdleManager     *idle.Manager
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	question *repository.QuestionRepository
	session  *repository.SessionRepository
	answer   *repository.AnswerRepository
	draft    *repository.DraftRepository
	token    *repository.TokenRepository
}

type services struct {
	auth      *service.AuthService
	storage   *service.StorageService
	user      *service.UserService
	bank      *service.QuestionBankService
	grading   *service.GradingService
	interview *service.InterviewService
}

type controllers struct {
	auth      *controller.AuthController
	session   *controller.SessionController
	user      *controller.UserController
	question  *controller.QuestionController
	interview *controller.InterviewController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig fans a reloaded config out to registered callbacks.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		question: repository.NewQuestionRepository(db),
		session:  repository.NewSessionRepository(db),
		answer:   repository.NewAnswerRepository(db),
		draft:    repository.NewDraftRepository(rdb),
		token:    repository.NewTokenRepository(rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, s.storage)
	s.bank = service.NewQuestionBankService(repos.question)
	s.grading = service.NewGradingService(cfg.Grading)
	s.interview = service.NewInterviewService(repos.session, s.bank, repos.answer, repos.draft, s.grading)

	return s
}

func (a *App) initIdleManager(repos *repositories, cfg *config.Config) *idle.Manager {
	return idle.NewManager(idle.ManagerOptions{
		IdleTimeout: cfg.Session.IdleTimeout,
		WarningLead: cfg.Session.WarningLead,
		Disabled:    !cfg.Session.Enabled,
		OnWarning: func(sessionID string) {
			monitoring.IdleWarnings.Inc()
			logger.Log.Info("idle warning", zap.String("session", sessionID))
		},
		OnIdle: func(sessionID string) {
			// Expiry invalidates the login: the token is revoked so the next
			// authenticated request gets a 401 and the client re-logs in.
			monitoring.IdleExpiries.Inc()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := repos.token.Revoke(ctx, sessionID, cfg.JWT.ExpireTime); err != nil {
				logger.Log.Error("failed to revoke expired session",
					zap.String("session", sessionID), zap.Error(err))
				return
			}
			logger.Log.Info("session expired for inactivity", zap.String("session", sessionID))
		},
	})
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth, a.IdleManager),
		session:   controller.NewSessionController(a.IdleManager, repos.token, a.Config),
		user:      controller.NewUserController(s.user),
		question:  controller.NewQuestionController(s.bank),
		interview: controller.NewInterviewController(s.interview, s.storage, repos.answer),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	app.IdleManager = app.initIdleManager(repos, cfg)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, repos, db, rdb)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("adultna-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Cancel pending idle schedules before the listener drains.
	if a.IdleManager != nil {
		a.IdleManager.StopAll()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
