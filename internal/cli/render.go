package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/nisafolio/nisafolio-backend/internal/domain"
	"github.com/nisafolio/nisafolio-backend/internal/usecase/holding"
	"github.com/nisafolio/nisafolio-backend/internal/usecase/summary"
)

// RenderProjection writes a projection result as a human-readable report
func RenderProjection(w io.Writer, p *domain.Projection) {
	fmt.Fprintln(w, "PORTFOLIO PROJECTION")
	fmt.Fprintln(w, "====================")
	fmt.Fprintf(w, "Horizon:             %d years\n", p.ProjectionYears)
	fmt.Fprintf(w, "Annual return rate:  %s\n", FormatRate(p.AnnualReturnRate))
	fmt.Fprintf(w, "Starting balance:    %s\n", FormatJPY(p.StartingBalanceJPY))
	fmt.Fprintf(w, "Total contributions: %s\n", FormatJPY(p.TotalContributionsJPY))
	fmt.Fprintf(w, "Interest gains:      %s\n", FormatJPY(p.TotalInterestGainsJPY))
	fmt.Fprintf(w, "Projected value:     %s\n", FormatJPY(p.ProjectedTotalValueJPY))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "YEAR\tSTART\tCONTRIB\tEND\tINTEREST\tNISA USED\tOVERFLOW")
	for _, yr := range p.YearBreakdown {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			yr.Year,
			FormatJPY(yr.StartingBalance),
			FormatJPY(yr.Contributions),
			FormatJPY(yr.EndingBalance),
			FormatJPY(yr.InterestEarned),
			FormatJPY(yr.NisaUsage.Total.Used),
			FormatJPY(yr.NisaUsage.OverflowToGeneral),
		)
	}
	tw.Flush()

	renderComposition(w, "Projected composition by region", p.CompositionByRegion)
	renderComposition(w, "Projected composition by asset class", p.CompositionByAssetClass)
}

// RenderSummary writes the current portfolio summary
func RenderSummary(w io.Writer, s *summary.PortfolioSummary) {
	fmt.Fprintln(w, "PORTFOLIO SUMMARY")
	fmt.Fprintln(w, "=================")
	fmt.Fprintf(w, "Total value:    %s\n", FormatJPY(s.TotalValueJPY))
	fmt.Fprintf(w, "Holdings count: %d\n", s.HoldingsCount)

	renderComposition(w, "Composition by region", s.CompositionByRegion)
	renderComposition(w, "Composition by account type", s.CompositionByAccountType)
	renderComposition(w, "Composition by asset class", s.CompositionByAssetClass)
}

// RenderNisaUsage writes the current annual and lifetime NISA quota usage
func RenderNisaUsage(w io.Writer, report *holding.NisaUsageReport) {
	fmt.Fprintf(w, "NISA USAGE (%d)\n", report.Year)
	fmt.Fprintln(w, "================")

	renderFrames(w, "Annual", report.Annual)
	renderFrames(w, "Lifetime", report.Lifetime)
}

func renderFrames(w io.Writer, title string, frames map[string]domain.FrameUsage) {
	fmt.Fprintf(w, "\n%s:\n", title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FRAME\tUSED\tREMAINING\tLIMIT")
	for _, key := range sortedKeys(frames) {
		f := frames[key]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", key, FormatJPY(f.Used), FormatJPY(f.Remaining), FormatJPY(f.Limit))
	}
	tw.Flush()
}

// RenderHoldings writes a holdings listing
func RenderHoldings(w io.Writer, holdings []*domain.Holding, total int) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tACCOUNT\tCLASS\tREGION\tASSET\tAMOUNT")
	for _, h := range holdings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			h.ID,
			h.AccountType,
			h.AssetClass,
			h.AssetRegion,
			h.AssetName,
			FormatJPY(h.CurrentAmountJPY),
		)
	}
	tw.Flush()
	fmt.Fprintf(w, "%d of %d holdings\n", len(holdings), total)
}

// RenderPlans writes a recurring plan listing
func RenderPlans(w io.Writer, plans []*domain.RecurringPlan) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tACCOUNT\tFREQ\tAMOUNT\tSTART\tEND")
	for _, p := range plans {
		end := "open"
		if p.EndDate != nil {
			end = p.EndDate.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID,
			p.TargetAccountType,
			p.Frequency,
			FormatJPY(p.AmountJPY),
			p.StartDate.Format("2006-01-02"),
			end,
		)
	}
	tw.Flush()
	fmt.Fprintf(w, "%d plans\n", len(plans))
}

func renderComposition(w io.Writer, title string, comp map[string]domain.CompositionEntry) {
	if len(comp) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s:\n", title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, key := range sortedKeys(comp) {
		entry := comp[key]
		fmt.Fprintf(tw, "%s\t%s\t%s\n", key, FormatJPY(entry.Amount), FormatPercent(entry.Percentage))
	}
	tw.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
