package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dori/punch/internal/api"
	"github.com/dori/punch/internal/app"
	"github.com/dori/punch/internal/config"
	"github.com/dori/punch/internal/logging"
	"github.com/spf13/cobra"
)

const sessionSweepInterval = time.Hour

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(os.Stderr)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.LockServer(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go sweepSessions(ctx, a)

			srv := api.NewServer(api.Services{
				Auth:     a.Auth,
				Projects: a.Projects,
				Tasks:    a.Tasks,
				Reports:  a.Reports,
			}, logging.Component(a.Log, "api"))
			return srv.Run(ctx, a.Config.Listen)
		},
	}

	cmd.Flags().String("listen", config.DefaultListen, "listen address")
	c.bind(cmd, "listen", "listen")
	return cmd
}

// sweepSessions drops expired sessions until ctx is done
func sweepSessions(ctx context.Context, a *app.App) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.Auth.PruneSessions(ctx); err != nil {
				a.Log.Warn().Err(err).Msg("session sweep failed")
			}
		}
	}
}
