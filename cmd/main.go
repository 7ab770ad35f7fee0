package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/goalpost-app/tournament-platform/config"
	"github.com/goalpost-app/tournament-platform/db"
	"github.com/goalpost-app/tournament-platform/handlers"
	"github.com/goalpost-app/tournament-platform/middleware"
	"github.com/goalpost-app/tournament-platform/realtime"
	"github.com/goalpost-app/tournament-platform/repositories"
	"github.com/goalpost-app/tournament-platform/routes"
	"github.com/goalpost-app/tournament-platform/services"
	"github.com/goalpost-app/tournament-platform/storage"
)

const schedulerInterval = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	uploader := storage.NewDisabledUploader()
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Warn("object storage not configured, logo and crest uploads disabled")
	}

	hub := realtime.NewHub(logger)
	go hub.Run()
	logger.Info("websocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	registrationRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	eventRepo := repositories.NewPostgresEventRepository(dbConn)

	authService := services.NewAuthService(userRepo)
	tournamentService := services.NewTournamentService(
		tournamentRepo, registrationRepo, matchRepo, userRepo, uploader, hub, logger,
	)
	teamService := services.NewTeamService(teamRepo, playerRepo, uploader)
	registrationService := services.NewRegistrationService(
		registrationRepo, tournamentRepo, teamRepo, userRepo, logger,
	)
	fixtureService := services.NewFixtureService(
		dbConn, tournamentRepo, registrationRepo, matchRepo, teamRepo, userRepo, hub, logger,
	)
	matchService := services.NewMatchService(
		dbConn, matchRepo, eventRepo, tournamentRepo, teamRepo, userRepo, hub, logger,
	)
	tableService := services.NewTableService(
		tournamentRepo, registrationRepo, matchRepo, teamRepo, playerRepo, eventRepo, userRepo,
	)
	simulationService := services.NewSimulationService(matchRepo, playerRepo, matchService, logger)
	logger.Info("services initialized")

	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("registration deadline scheduler started", slog.Duration("interval", schedulerInterval))

		if err := tournamentService.AutoCloseExpiredRegistrations(context.Background()); err != nil {
			logger.Error("scheduler: initial run failed", slog.Any("error", err))
		}
		for range ticker.C {
			if err := tournamentService.AutoCloseExpiredRegistrations(context.Background()); err != nil {
				logger.Error("scheduler: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey)
	router := routes.SetupRoutes(routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		Tournament:   handlers.NewTournamentHandler(tournamentService),
		Team:         handlers.NewTeamHandler(teamService),
		Registration: handlers.NewRegistrationHandler(registrationService),
		Fixture:      handlers.NewFixtureHandler(fixtureService, simulationService),
		Match:        handlers.NewMatchHandler(matchService),
		Table:        handlers.NewTableHandler(tableService),
		WebSocket:    handlers.NewWebSocketHandler(hub, logger),
	}, authenticator, cfg.CORSOrigins)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
