package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/thanawat/thailotto-api/config"
	"github.com/thanawat/thailotto-api/fetcher"
	"github.com/thanawat/thailotto-api/handlers"
	"github.com/thanawat/thailotto-api/health"
	"github.com/thanawat/thailotto-api/logging"
	"github.com/thanawat/thailotto-api/lotteryparser"
	"github.com/thanawat/thailotto-api/scheduler"
	"github.com/thanawat/thailotto-api/server"
	"github.com/thanawat/thailotto-api/store"
)

func init() {
	// Read env variables from the working directory, falling back to the
	// executable directory when launched from elsewhere.
	if err := godotenv.Load(); err != nil {
		ex, err := os.Executable()
		if err != nil {
			return
		}
		_ = godotenv.Load(filepath.Join(filepath.Dir(ex), ".env"))
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger("logs", logging.Options{
		Level:          cfg.LogLevel,
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
	})

	if err := store.MigrateUp(cfg.DatabaseURL); err != nil {
		logging.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := store.NewConnection(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logging.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := store.NewDrawRepository(db)
	client := lotteryparser.NewClient(cfg.UpstreamBaseURL, time.Duration(cfg.UpstreamTimeout)*time.Second)

	f := fetcher.New(repo, client)
	checker := health.NewHealthChecker(repo)
	handler := handlers.NewHandler(f, checker)

	sched := scheduler.NewScheduler(f, repo, cfg.RefreshMinutes)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	srv := server.NewServer(cfg, handler)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Server shutdown failed", "error", err)
	}
}
