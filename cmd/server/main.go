// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fairprice/fairprice-backend/internal/config"
	"github.com/fairprice/fairprice-backend/internal/database"
	"github.com/fairprice/fairprice-backend/internal/i18n"
	"github.com/fairprice/fairprice-backend/internal/logger"
	"github.com/fairprice/fairprice-backend/internal/repository"
	"github.com/fairprice/fairprice-backend/internal/router"
	"github.com/fairprice/fairprice-backend/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger.Init(cfg.Environment, cfg.Log)

	// Initialize i18n
	if err := i18n.Initialize(cfg.I18n.DefaultLocale); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}

	location, err := cfg.Location()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load timezone")
	}

	// Select the storage backend
	var store repository.Store
	switch cfg.Database.Driver {
	case "memory":
		store = repository.NewMemoryStore()
		logrus.Warn("Using in-memory store, data will not survive a restart")
	default:
		db, err := database.Initialize(cfg.Database)
		if err != nil {
			logrus.WithError(err).Fatal("Failed to initialize database")
		}
		defer database.Close(db)

		if err := database.RunMigrations(db); err != nil {
			logrus.WithError(err).Fatal("Failed to run migrations")
		}
		store = repository.NewGormStore(db)
	}

	if cfg.Database.Seed || cfg.Database.Driver == "memory" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		err := database.Seed(ctx, store, utils.Today(location))
		cancel()
		if err != nil {
			logrus.WithError(err).Fatal("Failed to seed database")
		}
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r, err := router.Initialize(store, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize router")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":     cfg.Server.Port,
			"driver":   cfg.Database.Driver,
			"timezone": location.String(),
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
		return
	}

	logrus.Info("Server exited")
}
