package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/punch/internal/notify"
	"github.com/dori/punch/internal/ui"
	"github.com/dori/punch/internal/ui/theme"
	"github.com/spf13/cobra"
)

func newDashCmd(c *cli) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "dash",
		Short: "Open the terminal dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.load()
			if err != nil {
				return err
			}

			// The alternate screen owns stderr, so logs go to a file.
			if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			logFile, err := os.OpenFile(filepath.Join(cfg.DataDir, "punch.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer logFile.Close()

			a, err := start(cfg, logFile)
			if err != nil {
				return err
			}
			defer a.Close()

			if t, ok := theme.ByName(a.Config.Theme); ok {
				theme.SetTheme(t)
			} else {
				a.Log.Warn().Str("theme", a.Config.Theme).Msg("unknown theme, using default")
			}

			ctx := cmd.Context()
			user, err := a.Auth.UserByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("user %s: %w", email, err)
			}

			dash := ui.NewDashboard(ctx, user.ID, user.Email, ui.Sources{
				Tasks:    a.Tasks,
				Projects: a.Projects,
				Reports:  a.Reports,
				Notifier: notify.NewNotifier(a.Config.Notify),
				Clock:    a.Clock,
			})

			p := tea.NewProgram(dash, tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account to open")
	cmd.Flags().String("theme", "", "theme (nord, dracula, gruvbox, catppuccin)")
	cmd.MarkFlagRequired("email")
	c.bind(cmd, "theme", "theme")
	return cmd
}
