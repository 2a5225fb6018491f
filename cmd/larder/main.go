package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mhollis/larder/internal/backup"
	"github.com/mhollis/larder/internal/database"
	"github.com/mhollis/larder/internal/logging"
	"github.com/mhollis/larder/internal/server"
)

func main() {
	logger := logging.Setup(os.Getenv("LARDER_LOG_LEVEL"))

	port := os.Getenv("LARDER_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("LARDER_DB_PATH")
	if dbPath == "" {
		dbPath = "larder.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "path", dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	backupCfg := backup.Config{
		Endpoint:   os.Getenv("LARDER_S3_ENDPOINT"),
		Bucket:     os.Getenv("LARDER_S3_BUCKET"),
		Region:     os.Getenv("LARDER_S3_REGION"),
		AccessKey:  os.Getenv("LARDER_S3_ACCESS_KEY"),
		SecretKey:  os.Getenv("LARDER_S3_SECRET_KEY"),
		Passphrase: os.Getenv("LARDER_BACKUP_PASSPHRASE"),
		DBPath:     dbPath,
		Interval:   24 * time.Hour,
	}
	if v := os.Getenv("LARDER_BACKUP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			backupCfg.Interval = d
		} else {
			logger.Warn("invalid LARDER_BACKUP_INTERVAL, using default", "value", v)
		}
	}

	srv := server.New(db, backupCfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if srv.BackupManager().Enabled() {
		srv.BackupManager().Start(ctx)
		defer srv.BackupManager().Stop()
	}

	// Drop expired rate-limit buckets so the map doesn't grow unbounded.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("larder listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
