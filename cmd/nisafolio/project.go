package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/nisafolio/nisafolio-backend/internal/cli"
)

var (
	flagYears int
	flagRate  string
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Calculate a multi-year portfolio projection",
	Long: "Project the portfolio forward year by year: accrue recurring plan\n" +
		"contributions, allocate NISA quota, apply compound growth, and persist\n" +
		"the result.",
	RunE: runProject,
}

func init() {
	projectCmd.Flags().IntVarP(&flagYears, "years", "y", 10, "Projection horizon in years (1-50)")
	projectCmd.Flags().StringVarP(&flagRate, "rate", "r", "4.0", "Annual return rate in percent (-100 to 100)")
}

func runProject(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	user, err := userID()
	if err != nil {
		return err
	}

	rate, err := decimal.NewFromString(flagRate)
	if err != nil {
		return fmt.Errorf("invalid --rate value: %w", err)
	}

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.projections.Calculate(ctx, user, flagYears, rate)
	if err != nil {
		return err
	}

	cli.RenderProjection(os.Stdout, result)
	fmt.Printf("\nSaved projection %s\n", result.ID)
	return nil
}
