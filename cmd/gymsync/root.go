package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/GymSync/internal/domain/session"
	"github.com/GriffinCanCode/GymSync/internal/gateway"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/config"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/logging"
	"github.com/GriffinCanCode/GymSync/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/GymSync/internal/storage"
)

type options struct {
	configPath string
	verbose    bool
	jsonOutput bool
}

// app is the engine wired for one command invocation.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	lifecycle *session.Lifecycle
	out       io.Writer
	json      bool
}

type appKey struct{}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "gymsync",
		Short:         "Gym account and active workspace client",
		Long:          "gymsync signs in to the gym management service and keeps the session and active gym in sync.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a := appFrom(cmd); a != nil {
				a.close()
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (TOML or YAML)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print state as JSON")

	root.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newRefreshCmd(),
		newSwitchCmd(),
		newWorkspaceCmd(),
		newProfileCmd(),
		newAccountCmd(),
	)
	return root
}

func newApp(ctx context.Context, opts *options, out io.Writer) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	logCfg := logging.Config{Level: cfg.Logging.Level, Development: cfg.Logging.Development}
	if opts.verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, err
	}

	client := gateway.NewClient(cfg.Gateway, gateway.WithLogger(logger))
	lc, err := session.New(session.Options{
		Gateway:     client,
		Persistence: store,
		Logger:      logger,
		Retry: resilience.RetryPolicy{
			MaxAttempts: cfg.Reconcile.MaxAttempts,
			Delay:       cfg.Reconcile.Delay,
		},
	})
	if err != nil {
		return nil, err
	}

	lc.Restore(ctx)
	lc.Wait()

	logger.Debug("session restored",
		zap.String("gateway", cfg.Gateway.URL),
		zap.String("phase", lc.State().Phase.String()))

	return &app{cfg: cfg, logger: logger, lifecycle: lc, out: out, json: opts.jsonOutput}, nil
}

func (a *app) close() {
	a.lifecycle.Close()
	_ = a.logger.Sync()
}

func appFrom(cmd *cobra.Command) *app {
	if cmd.Context() == nil {
		return nil
	}
	a, _ := cmd.Context().Value(appKey{}).(*app)
	return a
}
