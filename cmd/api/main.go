package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"

	"github.com/IbrahimToubeh/MediConnect-sub000/internal/api/router"
	appconfig "github.com/IbrahimToubeh/MediConnect-sub000/internal/config"
	"github.com/IbrahimToubeh/MediConnect-sub000/internal/directory"
	"github.com/IbrahimToubeh/MediConnect-sub000/internal/matching"
	"github.com/IbrahimToubeh/MediConnect-sub000/internal/observability/metrics"
	"github.com/IbrahimToubeh/MediConnect-sub000/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting mediconnect matching API",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var reader directory.Reader = directory.NewRepository(db)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		reader = directory.NewCache(reader, redisClient, cfg.DirectoryCacheTTL, logger)
	}

	openaiCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		openaiCfg.BaseURL = cfg.OpenAIBaseURL
	}
	llmClient := openai.NewClientWithConfig(openaiCfg)

	matchingMetrics := metrics.NewMatchingMetrics(prometheus.DefaultRegisterer)
	engine := matching.NewEngine(reader, llmClient, cfg.ChatModel, logger, matchingMetrics)
	engine.SetLLMTimeout(cfg.LLMTimeout)

	r := router.New(&router.Config{
		ChatHandler:    matching.NewHandler(engine, logger),
		MetricsHandler: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	logger.Info("server stopped")
}
