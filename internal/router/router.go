package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/studyinside/quizboard-backend/internal/config"
	"github.com/studyinside/quizboard-backend/internal/handler"
	"github.com/studyinside/quizboard-backend/internal/middleware"
	"github.com/studyinside/quizboard-backend/internal/response"
	"github.com/studyinside/quizboard-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Problem   *handler.ProblemHandler
	Session   *handler.SessionHandler
	Dashboard *handler.DashboardHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve locally stored problem images. Objects are immutable once
	// written (uploads never reuse a name), so cache aggressively.
	if cfg.StorageMode == config.StorageModeLocal {
		uploadsGroup := router.Group("/uploads")
		uploadsGroup.Use(middleware.CacheControl(31536000))
		{
			uploadsGroup.Static("/", cfg.UploadDir)
		}
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the login flow (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.GET("/google/login", handlers.Auth.GoogleLogin)
		auth.GET("/google/callback", handlers.Auth.GoogleCallback)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── 2. Board Group (JWT) ──────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireAuth(authService))
	{
		api.GET("/session", handlers.Session.GetState)
		api.POST("/session/navigate", handlers.Session.Navigate)

		api.GET("/problems", handlers.Problem.ListProblems)
		api.GET("/problems/categories", handlers.Problem.ListCategories)
		api.POST("/problems", handlers.Problem.CreateProblem)
		api.GET("/problems/:id", handlers.Problem.GetProblem)
		api.PUT("/problems/:id", handlers.Problem.UpdateProblem)
		api.DELETE("/problems/:id", handlers.Problem.DeleteProblem)
		api.POST("/problems/:id/delete/cancel", handlers.Problem.CancelDelete)
		api.POST("/problems/:id/check", handlers.Problem.CheckAnswer)
		api.POST("/problems/:id/authorize", handlers.Problem.AuthorizePassword)

		api.GET("/dashboard", handlers.Dashboard.GetDashboard)
	}

	return router
}
