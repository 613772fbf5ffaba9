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

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/lanoooo/padel-club/config"
	"github.com/lanoooo/padel-club/db"
	"github.com/lanoooo/padel-club/events"
	"github.com/lanoooo/padel-club/handlers"
	"github.com/lanoooo/padel-club/repositories"
	api "github.com/lanoooo/padel-club/routes"
	"github.com/lanoooo/padel-club/services"
	"github.com/lanoooo/padel-club/storage"
)

// Планировщик поддерживает окно бронирования: раз в интервал досоздаёт
// слоты на новые дни и подчищает прошедшие.
const schedulerInterval = 1 * time.Hour

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.Int("courts", cfg.CourtCount))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Инициализация загрузчика файлов (Cloudflare R2). Без настроенной
	// группы R2 приложение продолжает работать без афиш.
	var uploader storage.FileUploader
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
		logger.Warn("R2 storage is not configured, poster uploads disabled")
	}

	// Инициализация WebSocket Hub
	wsHub := events.NewHub(logger)
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	txBeginner := repositories.NewTxBeginner(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	slotRepo := repositories.NewPostgresSlotRepository(dbConn)
	reservationRepo := repositories.NewPostgresReservationRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	logger.Info("repositories initialized")

	// Инициализация сервисов
	authService := services.NewAuthService(userRepo, cfg.AdminSignupKey)
	bookingService := services.NewBookingService(
		txBeginner,
		slotRepo,
		reservationRepo,
		wsHub,
		logger,
		services.BookingConfig{
			CourtCount:  cfg.CourtCount,
			OpeningHour: cfg.OpeningHour,
			ClosingHour: cfg.ClosingHour,
		},
	)
	tournamentService := services.NewTournamentService(
		txBeginner,
		tournamentRepo,
		teamRepo,
		matchRepo,
		uploader,
		logger,
	)
	fixtureService := services.NewFixtureService(
		txBeginner,
		tournamentRepo,
		teamRepo,
		matchRepo,
		wsHub,
		logger,
	)
	logger.Info("services initialized")

	// Планировщик окна бронирования: сразу при старте, дальше по тикеру.
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("booking horizon scheduler started", slog.Duration("interval", schedulerInterval))

		if err := bookingService.EnsureHorizon(context.Background()); err != nil {
			logger.Error("scheduler: initial run failed", slog.Any("error", err))
		}

		for range ticker.C {
			if err := bookingService.EnsureHorizon(context.Background()); err != nil {
				logger.Error("scheduler: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	// Инициализация обработчиков HTTP
	handlers.SetLogger(logger)
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	matchHandler := handlers.NewMatchHandler(fixtureService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, logger)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.JWTSecretKey,
		authHandler,
		bookingHandler,
		tournamentHandler,
		matchHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	// Настройка и запуск HTTP-сервера
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

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
