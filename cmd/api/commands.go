package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/service-desk/internal/api/http"
	"github.com/spec-kit/service-desk/internal/config"
	"github.com/spec-kit/service-desk/internal/events"
	"github.com/spec-kit/service-desk/internal/observability"
	"github.com/spec-kit/service-desk/internal/persistence"
	"github.com/spec-kit/service-desk/internal/repository"
	"github.com/spec-kit/service-desk/internal/service"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "service-desk",
		Short:         "Service desk ticketing backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd)
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd)
		},
	}
	root.PersistentFlags().String("addr", "", "listen address, overrides APP_HOST/APP_PORT")
	root.PersistentFlags().Bool("migrate", true, "create the tickets schema on startup, overrides POSTGRES_RUN_MIGRATIONS")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cfg.App.Name, cfg.App.Version)
			return err
		},
	}

	root.AddCommand(serveCmd, versionCmd)
	return root
}

// applyServeFlags folds explicitly set flags into cfg and returns the listen
// address.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) (string, error) {
	flags := cmd.Flags()
	if flags.Changed("migrate") {
		migrate, err := flags.GetBool("migrate")
		if err != nil {
			return "", err
		}
		cfg.Postgres.RunMigrations = migrate
	}
	addr := cfg.App.Addr()
	if flags.Changed("addr") {
		override, err := flags.GetString("addr")
		if err != nil {
			return "", err
		}
		addr = override
	}
	return addr, nil
}

func serve(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return err
	}
	addr, err := applyServeFlags(cmd, cfg)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Printf("failed to init logger: %v", err)
		return err
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Error("failed to configure postgres", zap.Error(err))
		return err
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg, logger); err != nil {
			logger.Error("failed to run migrations", zap.Error(err))
			return err
		}
	}

	metrics := observability.NewMetrics()
	metrics.ObservePool(pg.Pool)

	dispatcher := events.NewInMemoryDispatcher()
	observability.SubscribeTicketEvents(dispatcher, logger, metrics)

	desk := service.NewServiceDesk(service.TicketDependencies{
		TicketRepo: repository.NewTicketRepository(pg),
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	app := httptransport.NewServer(httptransport.ServerConfig{
		AppName:        cfg.App.Name,
		Version:        cfg.App.Version,
		RootMessage:    cfg.App.RootMessage,
		RequestTimeout: cfg.App.RequestTimeout(),
		Logger:         logger,
		Metrics:        metrics,
		ServiceDesk:    desk,
		Database:       pg,
	})

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", addr), zap.String("env", cfg.App.Env))
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		logger.Error("fiber listen", zap.Error(err))
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	if err := app.ShutdownWithTimeout(cfg.App.ShutdownTimeout()); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	return nil
}
