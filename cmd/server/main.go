package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/buildfastwithai/jd-qna/api"
	embedded "github.com/buildfastwithai/jd-qna/db"
	"github.com/buildfastwithai/jd-qna/internal/ai"
	"github.com/buildfastwithai/jd-qna/internal/config"
	"github.com/buildfastwithai/jd-qna/internal/db"
	"github.com/buildfastwithai/jd-qna/internal/flocareer"
	"github.com/buildfastwithai/jd-qna/internal/repository/sqlite"
	"github.com/buildfastwithai/jd-qna/internal/storage"
	"github.com/buildfastwithai/jd-qna/pkg/ollama"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)
	ai.SetLogger(logger)
	ollama.SetLogger(logger)

	logger.Info("starting jd-qna server", slog.String("version", version), slog.String("build_time", buildTime))

	ctx := context.Background()

	conn, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Migrate(ctx, conn, embedded.Migrations, embedded.SeedFiles); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	repo := sqlite.New(conn)

	llm, err := ollama.NewDefaultClient(cfg.OllamaConfig)
	if err != nil {
		log.Fatalf("Failed to create ollama client: %v", err)
	}

	engine, err := ai.NewEngine(ctx, llm, cfg.EngineConfig, repo, repo)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	deps := api.Deps{
		Records:       repo,
		Skills:        repo,
		Questions:     repo,
		Regenerations: repo,
		Feedback:      repo,
		Analytics:     repo,
		Engine:        engine,
	}

	if cfg.StorageConfig.Endpoint != "" {
		store, err := storage.New(cfg.StorageConfig)
		if err != nil {
			log.Fatalf("Failed to create storage client: %v", err)
		}
		deps.Uploader = store
	} else {
		logger.Warn("object storage not configured, uploads disabled")
	}

	if cfg.FloCareerConfig.BaseURL != "" {
		flo, err := flocareer.New(cfg.FloCareerConfig, nil)
		if err != nil {
			log.Fatalf("Failed to create flocareer client: %v", err)
		}
		deps.Flo = flo
	} else {
		logger.Warn("flocareer not configured, sync disabled")
	}

	handler := api.SetupRoutes(cfg, version, buildTime, deps)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", slog.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := llm.Close(); err != nil {
		logger.Error("closing ollama client", slog.Any("err", err))
	}
	if err := conn.Close(); err != nil {
		logger.Error("closing DB", slog.Any("err", err))
	}

	logger.Info("server exited")
}
