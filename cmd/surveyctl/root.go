package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"surveydesk/internal/config"
	"surveydesk/internal/di"
	"surveydesk/internal/logger"
)

// cli carries state shared by every subcommand of one invocation.
type cli struct {
	logLevel  string
	timeout   time.Duration
	logger    *zap.Logger
	container *di.Container
}

func newRootCmd() *cobra.Command {
	app := &cli{}

	root := &cobra.Command{
		Use:   "surveyctl",
		Short: "Operate a surveydesk database",
		Long: `surveyctl manages the surveydesk database directly.

The connection is read the same way as the server: secrets.toml, .env and
DB_* environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			app.logger, err = logger.New(app.logLevel)
			if err != nil {
				return err
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.container != nil {
				_ = app.container.Cleanup()
				app.container = nil
			}
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&app.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().DurationVar(&app.timeout, "timeout", time.Minute, "Operation timeout")

	root.AddCommand(
		newMigrateCmd(app),
		newUsersCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newClearCmd(app),
	)
	return root
}

// connect opens the database once per invocation.
func (a *cli) connect(ctx context.Context) (*di.Container, error) {
	if a.container != nil {
		return a.container, nil
	}
	cfg := config.Load()
	c, err := di.BuildContainer(ctx, cfg, nil, a.logger)
	if err != nil {
		return nil, fmt.Errorf("%w\n\n%s", err, cfg.SetupInstructions())
	}
	a.container = c
	return c, nil
}

// errUnsharedCache is returned by writing commands when a running server could
// keep serving responses from its own in-process cache after the write.
var errUnsharedCache = errors.New("REDIS_ADDR is not set or unreachable, so a running server's cache cannot be invalidated; " +
	"configure Redis, or stop the server and pass --offline")

// guardWrite refuses a write unless the cache is shared with the server or the
// operator states that no server is running.
func (a *cli) guardWrite(c *di.Container, offline bool) error {
	if c.SharedCache() {
		return nil
	}
	if !offline {
		return errUnsharedCache
	}
	a.logger.Warn("writing without a shared cache; restart any running server to drop stale responses")
	return nil
}

func (a *cli) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.timeout)
}
