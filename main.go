package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/cloudcorenow/backend/internal/client"
	"github.com/cloudcorenow/backend/internal/config"
	"github.com/cloudcorenow/backend/internal/db"
	"github.com/cloudcorenow/backend/internal/handler"
	"github.com/cloudcorenow/backend/internal/monitor"
	"github.com/cloudcorenow/backend/internal/service"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	if err := run(context.Background(), log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	cfg := config.Load()

	dsn, err := db.BuildPostgresURL(cfg.Postgres)
	if err != nil {
		return err
	}
	if err := db.RunMigrations(ctx, dsn); err != nil {
		return err
	}

	store, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer store.Close()

	authService, err := service.NewAuthService(store, cfg.Auth, log)
	if err != nil {
		return err
	}
	if err := authService.EnsureBootstrap(ctx, cfg.Auth.BootstrapEmail); err != nil {
		return err
	}

	registry := monitor.NewRegistry(
		monitor.NewLocalSource(store),
		monitor.NewUnavailableSource("aws"),
		monitor.NewUnavailableSource("azure"),
		monitor.NewUnavailableSource("proxmox"),
	)

	router := handler.NewRouter(
		authService,
		handler.NewAuthHandler(authService),
		handler.NewMonitorHandler(registry),
		handler.NewRMMHandler(client.NewRMMClient(cfg.RMM)),
	)

	log.Info("starting server", "addr", cfg.Server.Addr)
	return router.Run(cfg.Server.Addr)
}
