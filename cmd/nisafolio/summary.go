package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nisafolio/nisafolio-backend/internal/cli"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the current portfolio summary",
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
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

	s, err := app.summary.GetPortfolioSummary(ctx, user)
	if err != nil {
		return err
	}

	cli.RenderSummary(os.Stdout, s)
	return nil
}
