package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nisafolio/nisafolio-backend/internal/adapter/repository/postgres"
	"github.com/nisafolio/nisafolio-backend/internal/calendar"
	"github.com/nisafolio/nisafolio-backend/internal/config"
	"github.com/nisafolio/nisafolio-backend/internal/usecase/holding"
	"github.com/nisafolio/nisafolio-backend/internal/usecase/plan"
	"github.com/nisafolio/nisafolio-backend/internal/usecase/projection"
	"github.com/nisafolio/nisafolio-backend/internal/usecase/summary"
)

var (
	flagConfig string
	flagUser   string
)

var rootCmd = &cobra.Command{
	Use:   "nisafolio",
	Short: "Personal investment portfolio tracker with NISA quota projections",
	Long: "Track investment holdings and recurring contribution plans, and project\n" +
		"multi-year compound growth under Japan's NISA annual and lifetime quota limits.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "User ID (UUID)")

	rootCmd.AddCommand(holdingsCmd)
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(nisaCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(projectionsCmd)
}

// app bundles the wired services used by the commands
type app struct {
	db          *postgres.DB
	holdings    *holding.Service
	plans       *plan.Service
	projections *projection.Service
	summary     *summary.Service
}

// openApp loads configuration, connects to the database and wires repositories
// into services, the same composition for every command
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	db, err := postgres.NewDB(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	holdingRepo := postgres.NewHoldingRepository(db)
	planRepo := postgres.NewPlanRepository(db)
	projectionRepo := postgres.NewProjectionRepository(db)

	cal := calendar.NoHolidays()
	if cfg.HolidaysFile != "" {
		set, err := calendar.LoadFile(cfg.HolidaysFile)
		if err != nil {
			db.Close()
			return nil, err
		}
		log.Printf("Loaded %d holidays from %s", set.Len(), cfg.HolidaysFile)
		cal = set
	}

	return &app{
		db:          db,
		holdings:    holding.NewService(holdingRepo),
		plans:       plan.NewService(planRepo),
		projections: projection.NewService(holdingRepo, planRepo, projectionRepo, cal),
		summary:     summary.NewService(holdingRepo),
	}, nil
}

// Close releases the database connection
func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
	}
}

// userID parses the required --user flag
func userID() (uuid.UUID, error) {
	if flagUser == "" {
		return uuid.Nil, fmt.Errorf("--user is required")
	}
	id, err := uuid.Parse(flagUser)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --user value: %w", err)
	}
	return id, nil
}

// parseDate parses an ISO date flag value
func parseDate(value string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return d, nil
}
