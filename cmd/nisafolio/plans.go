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
	"github.com/nisafolio/nisafolio-backend/internal/usecase/plan"
)

var (
	planFlagAccount       string
	planFlagClass         string
	planFlagRegion        string
	planFlagIdentifier    string
	planFlagName          string
	planFlagFrequency     string
	planFlagAmount        string
	planFlagStart         string
	planFlagEnd           string
	planFlagBonusMonths   string
	planFlagContinueLimit bool
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Manage recurring investment plans",
	RunE:  runPlansList,
}

var plansAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Define a new recurring plan",
	RunE:  runPlansAdd,
}

var plansUpdateCmd = &cobra.Command{
	Use:   "update <plan-id>",
	Short: "Replace a plan's fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlansUpdate,
}

var plansDeleteCmd = &cobra.Command{
	Use:   "delete <plan-id>",
	Short: "Remove a plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlansDelete,
}

func init() {
	for _, c := range []*cobra.Command{plansAddCmd, plansUpdateCmd} {
		c.Flags().StringVar(&planFlagAccount, "account", string(domain.AccountTypeGeneral),
			"Target account type (NISA_TSUMITATE, NISA_GROWTH, GENERAL)")
		c.Flags().StringVar(&planFlagClass, "class", string(domain.AssetClassOther),
			"Target asset class (INDIVIDUAL_STOCK, MUTUAL_FUND, ...)")
		c.Flags().StringVar(&planFlagRegion, "region", string(domain.AssetRegionOther),
			"Target asset region (DOMESTIC_STOCKS, INTERNATIONAL_STOCKS, ...)")
		c.Flags().StringVar(&planFlagIdentifier, "asset-id", "", "Target asset identifier")
		c.Flags().StringVar(&planFlagName, "name", "", "Target asset display name")
		c.Flags().StringVar(&planFlagFrequency, "frequency", string(domain.FrequencyMonthly),
			"Contribution frequency (DAILY, MONTHLY, BONUS_MONTH)")
		c.Flags().StringVar(&planFlagAmount, "amount", "", "Contribution amount per occurrence in JPY")
		c.Flags().StringVar(&planFlagStart, "start", "", "Start date (YYYY-MM-DD)")
		c.Flags().StringVar(&planFlagEnd, "end", "", "End date (YYYY-MM-DD, inclusive; omit for open-ended)")
		c.Flags().StringVar(&planFlagBonusMonths, "bonus-months", "",
			"Comma-separated bonus months, e.g. 6,12 (BONUS_MONTH only)")
		c.Flags().BoolVar(&planFlagContinueLimit, "continue-over-limit", false,
			"Accept plans whose contributions exceed NISA annual ceilings; overflow is routed to the general account")
	}

	plansCmd.AddCommand(plansAddCmd)
	plansCmd.AddCommand(plansUpdateCmd)
	plansCmd.AddCommand(plansDeleteCmd)
}

// planInput assembles a service input from the command flags
func planInput() (plan.CreateInput, error) {
	amount, err := decimal.NewFromString(planFlagAmount)
	if err != nil {
		return plan.CreateInput{}, fmt.Errorf("invalid --amount value %q", planFlagAmount)
	}

	start, err := parseDate(planFlagStart)
	if err != nil {
		return plan.CreateInput{}, err
	}

	var end *time.Time
	if planFlagEnd != "" {
		d, err := parseDate(planFlagEnd)
		if err != nil {
			return plan.CreateInput{}, err
		}
		end = &d
	}

	bonusMonths, err := domain.ParseBonusMonths(planFlagBonusMonths)
	if err != nil {
		return plan.CreateInput{}, err
	}

	return plan.CreateInput{
		TargetAccountType:       planFlagAccount,
		TargetAssetClass:        domain.AssetClass(planFlagClass),
		TargetAssetRegion:       domain.AssetRegion(planFlagRegion),
		TargetAssetIdentifier:   planFlagIdentifier,
		TargetAssetName:         planFlagName,
		Frequency:               domain.Frequency(planFlagFrequency),
		AmountJPY:               amount,
		StartDate:               start,
		EndDate:                 end,
		BonusMonths:             bonusMonths,
		ContinueIfLimitExceeded: planFlagContinueLimit,
	}, nil
}

func runPlansList(cmd *cobra.Command, args []string) error {
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

	plans, err := app.plans.List(ctx, user)
	if err != nil {
		return err
	}

	cli.RenderPlans(os.Stdout, plans)
	return nil
}

func runPlansAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	user, err := userID()
	if err != nil {
		return err
	}
	input, err := planInput()
	if err != nil {
		return err
	}

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	p, err := app.plans.Create(ctx, user, input)
	if err != nil {
		return err
	}

	fmt.Printf("Defined plan %s (%s %s per occurrence)\n", p.ID, p.Frequency, cli.FormatJPY(p.AmountJPY))
	return nil
}

func runPlansUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	user, err := userID()
	if err != nil {
		return err
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid plan ID: %w", err)
	}
	input, err := planInput()
	if err != nil {
		return err
	}

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	p, err := app.plans.Update(ctx, user, id, input)
	if err != nil {
		return err
	}

	fmt.Printf("Updated plan %s\n", p.ID)
	return nil
}

func runPlansDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	user, err := userID()
	if err != nil {
		return err
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid plan ID: %w", err)
	}

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.plans.Delete(ctx, user, id); err != nil {
		return err
	}

	fmt.Printf("Deleted plan %s\n", id)
	return nil
}
