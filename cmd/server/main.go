package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/CodeXGautam/Vocintera/internal/auth"
	"github.com/CodeXGautam/Vocintera/internal/config"
	"github.com/CodeXGautam/Vocintera/internal/evaluation"
	"github.com/CodeXGautam/Vocintera/internal/handlers"
	"github.com/CodeXGautam/Vocintera/internal/interview"
	"github.com/CodeXGautam/Vocintera/internal/llm"
	_ "github.com/CodeXGautam/Vocintera/internal/llm/gemini"
	_ "github.com/CodeXGautam/Vocintera/internal/llm/openrouter"
	"github.com/CodeXGautam/Vocintera/internal/prompts"
	mongorepo "github.com/CodeXGautam/Vocintera/internal/repositories/mongo"
	"github.com/CodeXGautam/Vocintera/internal/retention"
	"github.com/CodeXGautam/Vocintera/internal/routers"
	"github.com/CodeXGautam/Vocintera/internal/upload"
)

func registerRoutes(router *chi.Mux, cfg *config.Config,
	authHandler *handlers.AuthHandler,
	interviewHandler *handlers.InterviewHandler,
	responseHandler *handlers.ResponseHandler,
	evaluationHandler *handlers.EvaluationHandler,
	healthHandler *handlers.HealthHandler,
) {
	routers.HealthRoutes(router, healthHandler)
	routers.AuthRoutes(router, authHandler, cfg.AccessTokenSecret)
	routers.InterviewRoutes(router, interviewHandler, cfg.AccessTokenSecret)
	routers.GeminiRoutes(router, responseHandler, cfg.AccessTokenSecret)
	routers.EvaluationRoutes(router, evaluationHandler, cfg.AccessTokenSecret)
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.PrimaryProvider),
		zap.String("fallback_provider", cfg.SecondaryProvider))

	// prompt manager
	promptManager, err := prompts.NewManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	// session store
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	mongoClient, err := mongorepo.NewClient(ctx, cfg.MongoURI)
	cancel()
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	db, err := mongoClient.DB(cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	interviewRepo := mongorepo.NewInterviewRepo(db)
	userRepo := mongorepo.NewUserRepo(db)

	// AI providers based on configuration; the fallback tier is optional
	primary, err := llm.NewProvider(cfg.PrimaryProvider)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}
	secondary, err := llm.NewProvider(cfg.SecondaryProvider)
	if err != nil {
		logger.Warn("Fallback AI provider unavailable", zap.Error(err))
		secondary = nil
	}
	gateway := llm.NewGateway(logger, primary, secondary)

	// retention
	sweeper := retention.NewSweeper(interviewRepo, logger)
	sweepJob := retention.NewJob(sweeper, cfg.RetentionSchedule, logger)
	if cfg.RetentionSweepEnabled {
		if err := sweepJob.Start(); err != nil {
			logger.Error("Failed to start retention sweep job", zap.Error(err))
		} else {
			logger.Info("Retention sweep job started", zap.String("schedule", cfg.RetentionSchedule))
		}
	}

	// domain services
	orchestrator := interview.NewOrchestrator(interviewRepo, gateway, promptManager, logger)
	engine := evaluation.NewEngine(interviewRepo, gateway, promptManager, sweeper, logger)
	lifecycle := interview.NewService(interviewRepo, sweeper, logger)

	// resume uploads
	var uploader upload.Uploader
	if cfg.CloudinaryCloudName != "" {
		uploader, err = upload.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset, cfg.CloudinaryBaseURL)
		if err != nil {
			logger.Fatal("Failed to initialize uploader", zap.Error(err))
		}
	} else {
		logger.Warn("Cloudinary not configured, resume uploads disabled")
	}

	// Google sign-in is optional
	var googleClient auth.Exchanger
	if cfg.GoogleClientID != "" {
		client, err := auth.NewGoogleClient(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		if err != nil {
			logger.Warn("Failed to initialize Google sign-in", zap.Error(err))
		} else {
			googleClient = client
		}
	}

	authHandler := handlers.NewAuthHandler(userRepo, googleClient, cfg, logger)
	interviewHandler := handlers.NewInterviewHandler(lifecycle, uploader, logger)
	responseHandler := handlers.NewResponseHandler(orchestrator, logger)
	evaluationHandler := handlers.NewEvaluationHandler(engine, logger)
	healthHandler := handlers.NewHealthHandler(mongoClient, promptManager, cfg)

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(chimiddleware.RequestID, chimiddleware.RealIP, chimiddleware.Logger, chimiddleware.Recoverer, chimiddleware.Timeout(60*time.Second))

	registerRoutes(router, cfg, authHandler, interviewHandler, responseHandler, evaluationHandler, healthHandler)

	serverAddr := ":" + cfg.Port

	// http server with timeouts
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// starting server in a goroutine
	go func() {
		logger.Info("Vocintera server starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Vocintera server shutting down...")

	sweepJob.Stop()

	// graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Error("failed to disconnect from MongoDB", zap.Error(err))
	}

	logger.Info("Vocintera server exited")
}
