package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/smartetude/smartetude-backend/internal/client/openai"
	"github.com/smartetude/smartetude-backend/internal/config"
	"github.com/smartetude/smartetude-backend/internal/delivery/httpapi"
	"github.com/smartetude/smartetude-backend/internal/infra/postgres"
	"github.com/smartetude/smartetude-backend/internal/infra/postgres/repository"
	"github.com/smartetude/smartetude-backend/internal/infra/rediscache"
	"github.com/smartetude/smartetude-backend/internal/logger"
	"github.com/smartetude/smartetude-backend/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn, err := cfg.DB.DSN()
	if err != nil {
		zapLogger.Fatal("database is not configured", zap.Error(err))
	}
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	cache, err := rediscache.New(ctx, rediscache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.TTL,
	})
	if err != nil {
		zapLogger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer func() { _ = cache.Close() }()

	llm := openai.NewClient(openai.Config{
		BaseURL:     cfg.OpenAI.BaseURL,
		APIKey:      cfg.OpenAI.APIKey,
		Model:       cfg.OpenAI.Model,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: cfg.OpenAI.Temperature,
		Timeout:     cfg.OpenAI.Timeout,
	})

	// Initialize repositories and services.
	courseRepo := repository.NewCourseRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)
	transactor := postgres.NewTransactor(pool)

	courseService := service.NewCourseService(courseRepo, llm, cache, zapLogger)
	quizService := service.NewQuizService(
		courseRepo,
		quizRepo,
		sessionRepo,
		attemptRepo,
		statsRepo,
		transactor,
		llm,
		cache,
		zapLogger,
	)

	janitor := service.NewSessionJanitor(sessionRepo, cfg.Quiz.SessionMaxAge, zapLogger)
	go janitor.Start(ctx)

	courseHandler := httpapi.NewCourseHandler(courseService, cfg.HTTP.MaxUploadBytes, zapLogger)
	quizHandler := httpapi.NewQuizHandler(quizService, zapLogger)
	statsHandler := httpapi.NewStatsHandler(statsRepo, zapLogger)

	router := httpapi.SetupRouter(courseHandler, quizHandler, statsHandler, cfg.HTTP.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		zapLogger.Info("http server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.WriteTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("http server shutdown failed", zap.Error(err))
	}
}
