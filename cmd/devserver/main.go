package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/GymSync/internal/devserver"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/config"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/logging"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/GymSync/internal/shared/types"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		port       string
		dev        bool
		demo       bool
	)

	cmd := &cobra.Command{
		Use:          "devserver",
		Short:        "In-memory gym service for local development",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.DevServer.Port = port
			}
			if dev {
				cfg.Logging.Development = true
				cfg.Logging.Level = "debug"
			}
			return serve(cmd.Context(), cfg, demo)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (TOML or YAML)")
	cmd.Flags().StringVar(&port, "port", "", "listen port")
	cmd.Flags().BoolVar(&dev, "dev", false, "development logging")
	cmd.Flags().BoolVar(&demo, "demo", false, "seed a demo account")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, demo bool) error {
	logger, err := logging.New(logging.Config{Level: cfg.Logging.Level, Development: cfg.Logging.Development})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	srv := devserver.NewServer(cfg.DevServer, logger, monitoring.NewMetrics(nil))
	if demo {
		user, gyms, err := srv.Store().Seed(
			types.Registration{Name: "Demo", Lastname: "User", Username: "demo", Email: "demo@gymsync.local", Password: "demo1234"},
			types.WorkspaceDraft{Name: "Demo Gym", Country: "Peru", City: "Lima", OpeningTime: "06:00", ClosingTime: "22:00"},
		)
		if err != nil {
			return fmt.Errorf("failed to seed demo account: %w", err)
		}
		logger.Info("Seeded demo account", zap.String("email", user.Email), zap.String("gym_id", gyms[0].ID))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return <-errChan
	case err := <-errChan:
		return err
	}
}
