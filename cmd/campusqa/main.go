package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/campusqa/campusqa/internal/config"
	"github.com/campusqa/campusqa/internal/db"
	"github.com/campusqa/campusqa/internal/db/postgres"
	dbRedis "github.com/campusqa/campusqa/internal/db/redis"
	"github.com/campusqa/campusqa/internal/domain"
	logpkg "github.com/campusqa/campusqa/internal/logger"
	"github.com/campusqa/campusqa/internal/mail"
	"github.com/campusqa/campusqa/internal/metrics"
	chatrepo "github.com/campusqa/campusqa/internal/repository/chat"
	retrievalrepo "github.com/campusqa/campusqa/internal/repository/retrieval"
	userrepo "github.com/campusqa/campusqa/internal/repository/user"
	chiTransport "github.com/campusqa/campusqa/internal/transport/chi"
	openaiTransport "github.com/campusqa/campusqa/internal/transport/openai"
	askuc "github.com/campusqa/campusqa/internal/usecase/ask"
	authuc "github.com/campusqa/campusqa/internal/usecase/auth"
	healthuc "github.com/campusqa/campusqa/internal/usecase/health"
	historyuc "github.com/campusqa/campusqa/internal/usecase/history"
	"github.com/campusqa/campusqa/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting campusqa API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("vector_addrs", cfg.Vector.Addrs),
	)

	ctx := context.Background()

	// Relational store: connect, then bring the schema up to date.
	pool, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := postgres.Migrate(cfg.Database.URL); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	logger.Info("Connected to Postgres, schema up to date")

	// Vector store
	vectorStore, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Vector.Addrs,
		Password: cfg.Vector.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create vector store", zap.Error(err))
	}
	defer vectorStore.Close()

	if err := vectorStore.WaitForReady(ctx, time.Duration(cfg.Vector.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Vector store not ready", zap.Error(err))
	}
	if err := vectorStore.EnsureIndex(ctx, &db.IndexSpec{
		Name:       domain.IndexName,
		Prefix:     domain.KeyPrefix,
		Dimensions: cfg.AI.Dimensions,
	}); err != nil {
		logger.Fatal("Failed to ensure document index", zap.Error(err))
	}
	logger.Info("Connected to vector store", zap.String("index", domain.IndexName))

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRAGMetrics()

	// Model provider clients
	embedder := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:     cfg.AI.APIKey,
		BaseURL:    cfg.AI.BaseURL,
		Model:      cfg.AI.EmbeddingModel,
		Dimensions: cfg.AI.Dimensions,
		Provider:   cfg.AI.Provider,
		Logger:     logger,
	})
	generator := openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		Provider:    cfg.AI.Provider,
		Logger:      logger,
	})
	logger.Info("Model clients created",
		zap.String("provider", cfg.AI.Provider),
		zap.String("model", cfg.AI.Model),
		zap.String("embedding_model", cfg.AI.EmbeddingModel),
		zap.Int("dimensions", cfg.AI.Dimensions),
	)

	// Repositories
	retrieval := retrievalrepo.New(vectorStore)
	users := userrepo.New(pool)
	chats := chatrepo.New(pool)

	// Use case services
	historySvc := historyuc.New(chats)
	askSvc := askuc.New(embedder, retrieval, generator, askuc.Secrets{
		ModelAPIKey:     cfg.AI.APIKey,
		IndexCredential: cfg.Vector.Password,
	}).WithRecorder(historySvc)
	authSvc := authuc.New(users, mail.NewLogSender(logger))
	healthSvc := healthuc.New(pool, vectorStore, embedder)

	// HTTP server
	server := chiTransport.NewServer(askSvc, authSvc, historySvc, healthSvc, logger)
	if env != "prod" {
		server = server.WithErrorDetail()
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.CORSMiddleware())
	r.Use(metrics.Middleware())
	server.Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
