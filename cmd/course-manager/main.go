package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/course-manager/internal/classroom"
	"github.com/vasiliy-maslov/course-manager/internal/config"
	"github.com/vasiliy-maslov/course-manager/internal/db"
	"github.com/vasiliy-maslov/course-manager/internal/event"
	httpHandler "github.com/vasiliy-maslov/course-manager/internal/handler/http"
	"github.com/vasiliy-maslov/course-manager/internal/password"
	"github.com/vasiliy-maslov/course-manager/internal/seed"
	"github.com/vasiliy-maslov/course-manager/internal/tag"
	"github.com/vasiliy-maslov/course-manager/internal/user"
)

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Logger = log.With().Str("service", cfg.App.Name).Logger()
}

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	setupLogger(cfg)

	log.Info().Str("env", cfg.App.Env).Msg("Course manager starting...")

	if err := db.Migrate(cfg.Postgres); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	connectCtx, connectCancel := context.WithTimeout(context.Background(), 10*time.Second)
	pg, err := db.New(connectCtx, cfg.Postgres)
	connectCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pg.Close()

	hasher := password.NewBcrypt(cfg.Security.BcryptCost)

	if cfg.Seed.Enabled {
		if err := loadSampleData(pg, hasher); err != nil {
			log.Fatal().Err(err).Msg("Failed to load sample data")
		}
	}

	userRepository := user.NewRepository(pg.Pool)
	classroomRepository := classroom.NewRepository(pg.Pool)
	tagRepository := tag.NewRepository(pg.Pool)
	eventRepository := event.NewRepository(pg.Pool)

	userSvc := user.NewService(userRepository, hasher)
	classroomSvc := classroom.NewService(classroomRepository)
	tagSvc := tag.NewService(tagRepository)
	eventSvc := event.NewService(eventRepository, userSvc, classroomSvc, tagSvc)

	router := httpHandler.NewRouter(cfg.CORS.AllowedOrigins,
		httpHandler.NewUserHandler(userSvc),
		httpHandler.NewAuthHandler(userSvc),
		httpHandler.NewClassroomHandler(classroomSvc),
		httpHandler.NewTagHandler(tagSvc),
		httpHandler.NewEventHandler(eventSvc),
	)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Str("port", cfg.App.Port).Msg("Server failed")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Course manager stopped gracefully")
}

func loadSampleData(pg *db.Postgres, hasher password.Hasher) error {
	ds, err := seed.Build(hasher)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	_, err = seed.Load(ctx, pg.Pool, ds)
	return err
}
