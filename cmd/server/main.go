package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/studyinside/quizboard-backend/internal/cache"
	"github.com/studyinside/quizboard-backend/internal/config"
	"github.com/studyinside/quizboard-backend/internal/database"
	"github.com/studyinside/quizboard-backend/internal/handler"
	"github.com/studyinside/quizboard-backend/internal/logger"
	"github.com/studyinside/quizboard-backend/internal/repository"
	"github.com/studyinside/quizboard-backend/internal/router"
	"github.com/studyinside/quizboard-backend/internal/service"
	"github.com/studyinside/quizboard-backend/internal/session"
	"github.com/studyinside/quizboard-backend/internal/storage"
	"github.com/studyinside/quizboard-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("auth_mode", string(cfg.AuthMode)).
		Str("storage_mode", string(cfg.StorageMode)).
		Msg("Starting Quizboard Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Image Storage ──────────────────────────────────────
	var images storage.ImageStore
	switch cfg.StorageMode {
	case config.StorageModeBucket:
		images, err = storage.NewMinioStore(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MinIO")
		}
	default:
		images = storage.NewLocalStore(cfg)
	}

	// ─── Initialize Repositories and Stores ────────────────────────────
	problemRepo := repository.NewProblemRepository(pool)
	solutionRepo := repository.NewSolutionRepository(pool)
	cacheStore := cache.NewStore(rdb, cfg.CacheTTL)
	sessionStore := session.NewStore(rdb, cfg.SessionTTL)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	googleService := service.NewGoogleAuthService(cfg, log)
	legacyService := service.NewLegacyAuthService(cfg)
	problemService := service.NewProblemService(cfg, problemRepo, cacheStore, images, legacyService, log)
	solveService := service.NewSolveService(problemRepo, solutionRepo, cacheStore, log)
	statsService := service.NewStatsService(problemService, solveService)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, authService, googleService, sessionStore, log),
		Problem:   handler.NewProblemHandler(problemService, solveService, legacyService, sessionStore, log),
		Session:   handler.NewSessionHandler(authService, problemService, sessionStore, log),
		Dashboard: handler.NewDashboardHandler(authService, statsService, sessionStore, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
