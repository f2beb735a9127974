package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/nisafolio/nisafolio-backend/internal/cli"
	"github.com/nisafolio/nisafolio-backend/internal/domain"
	"github.com/nisafolio/nisafolio-backend/internal/usecase/holding"
)

var (
	holdingFlagAccount      string
	holdingFlagClass        string
	holdingFlagRegion       string
	holdingFlagIdentifier   string
	holdingFlagName         string
	holdingFlagAmount       string
	holdingFlagPurchaseDate string
	holdingFlagLimit        int
	holdingFlagOffset       int
)

var holdingsCmd = &cobra.Command{
	Use:   "holdings",
	Short: "Manage investment holdings",
	RunE:  runHoldingsList,
}

var holdingsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new holding",
	RunE:  runHoldingsAdd,
}

var holdingsUpdateCmd = &cobra.Command{
	Use:   "update <holding-id>",
	Short: "Replace a holding's fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runHoldingsUpdate,
}

var holdingsDeleteCmd = &cobra.Command{
	Use:   "delete <holding-id>",
	Short: "Remove a holding",
	Args:  cobra.ExactArgs(1),
	RunE:  runHoldingsDelete,
}

func init() {
	holdingsCmd.Flags().IntVar(&holdingFlagLimit, "limit", 50, "Maximum number of holdings to list")
	holdingsCmd.Flags().IntVar(&holdingFlagOffset, "offset", 0, "Number of holdings to skip")

	for _, c := range []*cobra.Command{holdingsAddCmd, holdingsUpdateCmd} {
		c.Flags().StringVar(&holdingFlagAccount, "account", string(domain.AccountTypeGeneral),
			"Account type (NISA_TSUMITATE, NISA_GROWTH, GENERAL)")
		c.Flags().StringVar(&holdingFlagClass, "class", string(domain.AssetClassOther),
			"Asset class (INDIVIDUAL_STOCK, MUTUAL_FUND, ...)")
		c.Flags().StringVar(&holdingFlagRegion, "region", string(domain.AssetRegionOther),
			"Asset region (DOMESTIC_STOCKS, INTERNATIONAL_STOCKS, ...)")
		c.Flags().StringVar(&holdingFlagIdentifier, "asset-id", "", "Asset identifier (ticker or fund code)")
		c.Flags().StringVar(&holdingFlagName, "name", "", "Asset display name")
		c.Flags().StringVar(&holdingFlagAmount, "amount", "", "Current amount in JPY")
		c.Flags().StringVar(&holdingFlagPurchaseDate, "purchase-date", "", "Purchase date (YYYY-MM-DD)")
	}

	holdingsCmd.AddCommand(holdingsAddCmd)
	holdingsCmd.AddCommand(holdingsUpdateCmd)
	holdingsCmd.AddCommand(holdingsDeleteCmd)
}

// holdingInput assembles a service input from the command flags
func holdingInput() (holding.CreateInput, error) {
	amount, err := decimal.NewFromString(holdingFlagAmount)
	if err != nil {
		return holding.CreateInput{}, fmt.Errorf("invalid --amount value %q", holdingFlagAmount)
	}

	var purchaseDate *time.Time
	if holdingFlagPurchaseDate != "" {
		d, err := parseDate(holdingFlagPurchaseDate)
		if err != nil {
			return holding.CreateInput{}, err
		}
		purchaseDate = &d
	}

	return holding.CreateInput{
		AccountType:      holdingFlagAccount,
		AssetClass:       domain.AssetClass(holdingFlagClass),
		AssetRegion:      domain.AssetRegion(holdingFlagRegion),
		AssetIdentifier:  holdingFlagIdentifier,
		AssetName:        holdingFlagName,
		CurrentAmountJPY: amount,
		PurchaseDate:     purchaseDate,
	}, nil
}

func runHoldingsList(cmd *cobra.Command, args []string) error {
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

	holdings, total, err := app.holdings.List(ctx, user, holdingFlagLimit, holdingFlagOffset)
	if err != nil {
		return err
	}

	cli.RenderHoldings(os.Stdout, holdings, total)
	return nil
}

func runHoldingsAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	user, err := userID()
	if err != nil {
		return err
	}
	input, err := holdingInput()
	if err != nil {
		return err
	}

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	h, err := app.holdings.Create(ctx, user, input)
	if err != nil {
		return err
	}

	fmt.Printf("Recorded holding %s (%s %s)\n", h.ID, h.AssetName, cli.FormatJPY(h.CurrentAmountJPY))
	return nil
}

func runHoldingsUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	user, err := userID()
	if err != nil {
		return err
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid holding ID: %w", err)
	}
	input, err := holdingInput()
	if err != nil {
		return err
	}

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	h, err := app.holdings.Update(ctx, user, id, input)
	if err != nil {
		return err
	}

	fmt.Printf("Updated holding %s (%s %s)\n", h.ID, h.AssetName, cli.FormatJPY(h.CurrentAmountJPY))
	return nil
}

func runHoldingsDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	user, err := userID()
	if err != nil {
		return err
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid holding ID: %w", err)
	}

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.holdings.Delete(ctx, user, id); err != nil {
		return err
	}

	fmt.Printf("Deleted holding %s\n", id)
	return nil
}
