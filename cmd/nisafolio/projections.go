package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nisafolio/nisafolio-backend/internal/cli"
)

var (
	flagLimit  int
	flagOffset int
)

var projectionsCmd = &cobra.Command{
	Use:   "projections",
	Short: "Browse stored projections",
	RunE:  runProjectionsList,
}

var projectionsShowCmd = &cobra.Command{
	Use:   "show <projection-id>",
	Short: "Show a stored projection",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectionsShow,
}

var projectionsExpireCmd = &cobra.Command{
	Use:   "expire <projection-id>",
	Short: "Mark a stored projection stale after one hour",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectionsExpire,
}

func init() {
	projectionsCmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum number of projections to list")
	projectionsCmd.Flags().IntVar(&flagOffset, "offset", 0, "Number of projections to skip")
	projectionsCmd.AddCommand(projectionsShowCmd)
	projectionsCmd.AddCommand(projectionsExpireCmd)
}

func runProjectionsList(cmd *cobra.Command, args []string) error {
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

	projections, err := app.projections.List(ctx, user, flagLimit, flagOffset)
	if err != nil {
		return err
	}

	for _, p := range projections {
		fmt.Printf("%s  %2dy @ %s  value %s  created %s\n",
			p.ID,
			p.ProjectionYears,
			cli.FormatRate(p.AnnualReturnRate),
			cli.FormatJPY(p.ProjectedTotalValueJPY),
			p.CreatedAt.Format(time.RFC3339),
		)
	}
	fmt.Printf("%d projections\n", len(projections))
	return nil
}

func runProjectionsShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	user, err := userID()
	if err != nil {
		return err
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid projection ID: %w", err)
	}

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	p, err := app.projections.Get(ctx, user, id)
	if err != nil {
		return err
	}

	cli.RenderProjection(os.Stdout, p)
	return nil
}

func runProjectionsExpire(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	user, err := userID()
	if err != nil {
		return err
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid projection ID: %w", err)
	}

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.projections.MarkStaleAfter(ctx, user, id, time.Hour); err != nil {
		return err
	}
	fmt.Printf("Projection %s marked stale after one hour\n", id)
	return nil
}
