package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nisafolio/nisafolio-backend/internal/cli"
)

var nisaCmd = &cobra.Command{
	Use:   "nisa",
	Short: "Show current-year and lifetime NISA quota usage",
	RunE:  runNisa,
}

func runNisa(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	user, err := userID()
	if err != nil {
		return err
	}

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.holdings.NisaUsage(ctx, user)
	if err != nil {
		return err
	}

	cli.RenderNisaUsage(os.Stdout, report)
	return nil
}
