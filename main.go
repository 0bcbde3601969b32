package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"parking_ops/internal/api"
	"parking_ops/internal/api/handler"
	"parking_ops/internal/api/middleware"
	"parking_ops/internal/config"
	"parking_ops/internal/logger"
	"parking_ops/internal/repository"
	"parking_ops/internal/repository/memory"
	"parking_ops/internal/repository/postgresql"
	"parking_ops/internal/service"
	"parking_ops/internal/tariff"
)

type repositories struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
	gates      repository.GateRepository
	zones      repository.ZoneRepository
	subs       repository.SubscriptionRepository
	tickets    repository.TicketRepository
	schedules  repository.ScheduleRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	repos, cleanup, err := buildRepositories(cfg, log)
	if err != nil {
		log.Fatal("initializing store", zap.Error(err))
	}
	defer cleanup()

	hub := handler.NewWebSocketHub(log)
	go hub.Start()

	calendar := tariff.NewCalendar(repos.schedules)
	billing := service.NewBillingEngine(time.Duration(cfg.Billing.StepMinutes) * time.Minute)

	authService := service.NewAuthService(repos.users, cfg.JWT.Secret, cfg.JWT.ExpirationHours)
	parkingService := service.NewParkingService(
		repos.zones, repos.gates, repos.categories, repos.subs, repos.tickets, repos.schedules,
		calendar, billing, hub, log)
	hub.SetProvider(parkingService)

	authMw := middleware.NewAuthMiddleware(authService)
	router := api.SetupRouter(authService, parkingService, authMw, hub, log)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen and serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

func buildRepositories(cfg *config.Config, log *zap.Logger) (*repositories, func(), error) {
	switch cfg.Store.Backend {
	case "memory":
		store := memory.NewStore()
		if cfg.Store.Seed {
			if err := memory.Seed(store); err != nil {
				return nil, nil, fmt.Errorf("seeding memory store: %w", err)
			}
			log.Info("memory store seeded with demo dataset")
		}
		return &repositories{
			users:      memory.NewUserRepository(store),
			categories: memory.NewCategoryRepository(store),
			gates:      memory.NewGateRepository(store),
			zones:      memory.NewZoneRepository(store),
			subs:       memory.NewSubscriptionRepository(store),
			tickets:    memory.NewTicketRepository(store),
			schedules:  memory.NewScheduleRepository(store),
		}, func() {}, nil

	case "postgres":
		db, err := postgresql.NewDB(&cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		log.Info("connected to postgres", zap.String("host", cfg.Postgres.Host))
		return &repositories{
			users:      postgresql.NewPgUserRepository(db),
			categories: postgresql.NewPgCategoryRepository(db),
			gates:      postgresql.NewPgGateRepository(db),
			zones:      postgresql.NewPgZoneRepository(db),
			subs:       postgresql.NewPgSubscriptionRepository(db),
			tickets:    postgresql.NewPgTicketRepository(db),
			schedules:  postgresql.NewPgScheduleRepository(db),
		}, func() { db.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
