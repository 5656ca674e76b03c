package main

import (
	"fmt"
	"io"

	"github.com/dori/punch/internal/ui"
	"github.com/spf13/cobra"
)

func newReportCmd(c *cli) *cobra.Command {
	var email, from, to string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print task, time and project reports",
		Example: `  punch report --email me@example.com
  punch report --email me@example.com --from 2024-06-01 --to 2024-06-30`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			user, err := a.Auth.UserByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("user %s: %w", email, err)
			}

			r, err := ui.LoadReport(ctx, a.Reports, user.ID, from, to)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), ui.RenderReport(r)+"\n")
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account to report on")
	cmd.Flags().StringVar(&from, "from", "", "activity range start (2006-01-02 or RFC 3339)")
	cmd.Flags().StringVar(&to, "to", "", "activity range end (inclusive)")
	cmd.MarkFlagRequired("email")
	return cmd
}
