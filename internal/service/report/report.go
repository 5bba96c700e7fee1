// Package report builds and posts the daily subscription status report.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kestrelworks/studio-announce/internal/infra/metabase"
)

const dateLayout = "Monday, Jan 02, 2006"

// Format renders the subscription rows as a Slack-flavored status message:
// totals up top, then one line per product and billing cycle. Products sort
// alphabetically; within a product the Monthly cycle leads and the remaining
// cycles follow alphabetically.
func Format(rows []metabase.Row, now time.Time, studioName string) string {
	if studioName == "" {
		studioName = "Studio"
	}

	totalSubs := 0
	totalRevenue := 0.0
	byProduct := make(map[string][]metabase.Row)
	for _, row := range rows {
		totalSubs += row.ActiveSubs
		totalRevenue += row.RevenuePerCycle
		byProduct[row.ProductName] = append(byProduct[row.ProductName], row)
	}

	p := message.NewPrinter(language.English)
	lines := []string{
		fmt.Sprintf("📊 *%s Daily Status Report*", studioName),
		fmt.Sprintf("_%s_", now.Format(dateLayout)),
		"",
		fmt.Sprintf("💰 *Active Subscriptions: %d*", totalSubs),
		fmt.Sprintf("Total Revenue: $%s/cycle", p.Sprintf("%.0f", totalRevenue)),
		"",
		"*By Product:*",
	}

	products := make([]string, 0, len(byProduct))
	for name := range byProduct {
		products = append(products, name)
	}
	sort.Strings(products)

	for _, product := range products {
		cycles := byProduct[product]
		sort.SliceStable(cycles, func(a, b int) bool {
			aMonthly, bMonthly := cycles[a].BillingCycle == "Monthly", cycles[b].BillingCycle == "Monthly"
			if aMonthly != bMonthly {
				return aMonthly
			}
			return cycles[a].BillingCycle < cycles[b].BillingCycle
		})
		for _, row := range cycles {
			lines = append(lines, fmt.Sprintf("✅ %s (%s): %d subs - $%s",
				product, row.BillingCycle, row.ActiveSubs, p.Sprintf("%.0f", row.RevenuePerCycle)))
		}
	}

	return strings.Join(lines, "\n")
}

// TokenSource yields the current embed token and its remaining lifetime.
type TokenSource interface {
	Load() (string, time.Duration, error)
}

// RowsFetcher pulls report rows with the given embed token.
type RowsFetcher interface {
	FetchRows(ctx context.Context, token string) ([]metabase.Row, error)
}

// Poster delivers the formatted report text.
type Poster interface {
	Post(ctx context.Context, text string) error
}

type Service struct {
	tokens     TokenSource
	rows       RowsFetcher
	poster     Poster
	studioName string
}

func NewService(tokens TokenSource, rows RowsFetcher, poster Poster, studioName string) *Service {
	return &Service{
		tokens:     tokens,
		rows:       rows,
		poster:     poster,
		studioName: studioName,
	}
}

// Run fetches the subscription rows, formats the report and posts it,
// returning the formatted text. A dry run prints the report instead of
// posting it.
func (s *Service) Run(ctx context.Context, now time.Time, dryRun bool) (string, error) {
	token, remaining, err := s.tokens.Load()
	if err != nil {
		return "", fmt.Errorf("load embed token: %w", err)
	}
	if remaining <= 0 {
		slog.WarnContext(ctx, "cached embed token is expired, the report fetch will likely fail",
			slog.Duration("expired_for", -remaining),
		)
	}

	rows, err := s.rows.FetchRows(ctx, token)
	if err != nil {
		return "", fmt.Errorf("fetch report rows: %w", err)
	}

	text := Format(rows, now, s.studioName)

	if dryRun {
		fmt.Printf("--- DRY RUN: would post to slack ---\n%s\n--- END ---\n", text)
		return text, nil
	}

	if err := s.poster.Post(ctx, text); err != nil {
		return "", fmt.Errorf("post report: %w", err)
	}

	slog.InfoContext(ctx, "daily status report posted", slog.Int("rows", len(rows)))
	return text, nil
}
