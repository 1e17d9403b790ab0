// Package cmd defines the enqueue-tally command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/enqueue-tally/internal/app"
	"github.com/JakeFAU/enqueue-tally/internal/config"
	"github.com/JakeFAU/enqueue-tally/internal/metrics"
)

// configPathEnv names the environment variable holding an explicit config file.
const configPathEnv = config.EnvPrefix + "_CONFIG"

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the services the command uses.
// This allows us to inject a mock app during tests.
type App interface {
	Close()
	GetLogger() *zap.Logger
	GetConfig() config.Config
	GetMetrics() *metrics.Recorder
	GetClock() app.Clock
}

// newApp is the application factory. It's a variable so tests can replace it.
var newApp = func(cfg config.Config) (App, error) {
	return app.NewApp(cfg)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enqueue-tally <logfile>",
		Short: "Tallies ENQUEUE events per worker thread in a crawler log.",
		Long: `enqueue-tally reads the log printed by the parallel grep crawler and
reports how many directories each worker thread enqueued, the total, the
average per thread and the paths that were enqueued more than once.

Settings come from ENQTALLY_* environment variables and an optional
.enqueue-tally.yaml file (or the file named by ENQTALLY_CONFIG).`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,

		// Config is loaded here so a bad config fails before the log is opened.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(os.Getenv(configPathEnv))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			appInstance, err := newApp(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}

			// Store the app instance in the context for RunE to use.
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},

		RunE: runTally,
	}

	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point. Any error exits with status 1; cobra has
// already printed it to stderr.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
