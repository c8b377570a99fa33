package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edurisk/student-dss/internal/config"
	"github.com/edurisk/student-dss/internal/database"
	"github.com/edurisk/student-dss/internal/dataset"
	"github.com/edurisk/student-dss/internal/modules/analysis"
	"github.com/edurisk/student-dss/internal/modules/classifier"
	"github.com/edurisk/student-dss/internal/scheduler"
	"github.com/edurisk/student-dss/internal/server"
	"github.com/edurisk/student-dss/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := logger.New(logger.Config{Level: "info"})
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting Student Risk DSS")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Wire the analysis pipeline
	svc := analysis.NewService(analysis.Config{
		DatasetPath: cfg.DatasetPath,
		Loader:      dataset.NewLoader(log),
		Trainer:     classifier.NewTrainer(log),
		Store:       classifier.NewStore(db.Conn(), log),
		Repository:  analysis.NewRepository(db.Conn(), log),
		Log:         log,
	})

	// Initial run so query endpoints have data from the start
	if err := svc.Run(analysis.RunOptions{Retrain: cfg.TrainOnStart}); err != nil {
		log.Error().Err(err).Msg("Initial analysis run failed, continuing with empty results")
	}

	// Schedule periodic refresh
	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.RefreshSchedule, scheduler.NewRefreshJob(svc, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register refresh job")
	}
	sched.Start()
	defer sched.Stop()

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:     cfg.Port,
		Log:      log,
		Analysis: svc,
		DevMode:  cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
