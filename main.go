package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/herballink/herballink-be/internal/api"
	"github.com/herballink/herballink-be/internal/auth"
	"github.com/herballink/herballink-be/internal/config"
	"github.com/herballink/herballink-be/internal/database"
	"github.com/herballink/herballink-be/internal/inference"
	"github.com/herballink/herballink-be/internal/knowledge"
	"github.com/herballink/herballink-be/internal/logger"
	"github.com/herballink/herballink-be/internal/monitoring"
	"github.com/herballink/herballink-be/internal/services"
	"github.com/herballink/herballink-be/internal/uploads"
	"github.com/herballink/herballink-be/internal/websocket"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	// .env is optional; real deployments use the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Info().Msg("Loaded configuration from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	auth.Init(cfg.JWTSecret)

	// Set up uploads storage
	store, err := uploads.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize upload storage")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Load models. A missing model degrades to sentinel predictions rather
	// than blocking startup.
	var leafModel, skinModel inference.Predictor
	if m, err := inference.LoadModel(cfg.LeafModelPath, cfg.ONNXLibPath); err != nil {
		log.Warn().Err(err).Msg("Leaf model unavailable, leaf scans will return Unknown")
	} else {
		leafModel = m
	}
	if m, err := inference.LoadModel(cfg.SkinModelPath, cfg.ONNXLibPath); err != nil {
		log.Warn().Err(err).Msg("Skin model unavailable, skin scans will return unknown")
	} else {
		skinModel = m
	}

	skinClasses, err := knowledge.LoadClasses(cfg.ClassesPath)
	if err != nil {
		log.Warn().Err(err).Msg("Skin class list unavailable, skin scans will return unknown")
	} else {
		log.Info().Int("classes", len(skinClasses)).Msg("Loaded skin disease classes")
	}

	classifier := inference.NewClassifier(leafModel, skinModel, skinClasses)
	defer classifier.Close()

	// Set up WebSocket Hub for the live scan feed
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	scanService := services.NewScanService(db, hub)

	// Set up and run the upload retention sweeper
	sweeper := monitoring.NewRetentionSweeper(store, cfg.RetentionDays, cfg.RetentionSpec)
	if err := sweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start retention sweeper")
	}

	// Set up and run the disk usage monitor
	diskMonitor := monitoring.NewDiskMonitor(cfg.UploadDir, cfg.DiskAlertPercent, hub)
	go diskMonitor.Run()

	// Set up router
	router := api.NewRouter(hub, userService, scanService, classifier, store)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	diskMonitor.Stop()
	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
