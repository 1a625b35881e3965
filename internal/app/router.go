package app

import (
	"adultna_backend/docs"
	"adultna_backend/internal/config"
	"adultna_backend/internal/middleware"
	"adultna_backend/internal/model"

	"adultna_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// Authenticated routes. Every request through this group counts as
	// activity for the login's idle monitor.
	authGroup := router.Group("/api")
	authGroup.Use(
		middleware.AuthMiddleware(cfg, repos.token),
		middleware.ActivityMiddleware(repos.user, a.IdleManager),
	)
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/profile", c.user.UpdateProfile)
		authGroup.POST("/profile/avatar", c.user.UploadAvatar)
		authGroup.POST("/logout", c.session.Logout)

		// Idle-session lifecycle
		authGroup.GET("/session/status", c.session.Status)
		authGroup.POST("/session/keepalive", c.session.KeepAlive)

		// Mock interviews
		authGroup.POST("/interviews", c.interview.StartSession)
		authGroup.GET("/interviews", c.interview.ListSessions)
		authGroup.GET("/interviews/:id", c.interview.GetSession)
		authGroup.POST("/interviews/:id/next", c.interview.Next)
		authGroup.POST("/interviews/:id/previous", c.interview.Previous)
		authGroup.POST("/interviews/:id/skip", c.interview.Skip)
		authGroup.POST("/interviews/:id/goto", c.interview.GoToQuestion)
		authGroup.PUT("/interviews/:id/answer", c.interview.SetAnswer)
		authGroup.POST("/interviews/:id/answer/save", c.interview.SaveAnswer)
		authGroup.POST("/interviews/:id/answer/submit", c.interview.SubmitAnswer)
		authGroup.POST("/interviews/:id/complete", c.interview.Complete)
		authGroup.POST("/interviews/:id/abandon", c.interview.Abandon)
		authGroup.GET("/interviews/:id/answers", c.interview.ListGradedAnswers)
		authGroup.POST("/interviews/:id/recordings", c.interview.UploadRecording)
		authGroup.GET("/interviews/:id/recordings", c.interview.ListRecordings)
	}

	// Admin routes
	admin := router.Group("/api/admin")
	admin.Use(
		middleware.AuthMiddleware(cfg, repos.token),
		middleware.ActivityMiddleware(repos.user, a.IdleManager),
		middleware.RoleMiddleware(model.RoleAdmin),
	)
	{
		admin.GET("/users", c.user.ListUsers)
		admin.PUT("/users/:id/disabled", c.user.SetDisabled)

		admin.POST("/questions", c.question.CreateQuestion)
		admin.GET("/questions", c.question.ListQuestions)
		admin.GET("/questions/:id", c.question.GetQuestion)
		admin.PUT("/questions/:id", c.question.UpdateQuestion)
		admin.DELETE("/questions/:id", c.question.DeleteQuestion)
	}
}
