package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/kestrelhq/workstats/internal/page"
)

// botSuffix marks automation accounts. Bot logins are excluded from the
// leaderboard: they skew rankings and make the stat queries pathologically
// expensive upstream.
const botSuffix = "[bot]"

// ContributorRanker builds the ranked, paginated contributor leaderboard for
// a workspace.
type ContributorRanker struct {
	roster   ContributorRoster
	devstats ContributorDevstatsCollector
	logger   *slog.Logger
}

// NewContributorRanker creates a new ContributorRanker.
func NewContributorRanker(roster ContributorRoster, devstats ContributorDevstatsCollector, logger *slog.Logger) *ContributorRanker {
	return &ContributorRanker{roster: roster, devstats: devstats, logger: logger}
}

// Rank fetches the workspace roster, drops bot and empty identities, fetches
// stat rows for the remainder, sorts by the requested field and returns the
// requested page. The page's total is the sum of total_contributions across
// the entire filtered set, not just the page slice.
func (r *ContributorRanker) Rank(ctx context.Context, workspaceID string, opts ContributorOptions) (*page.Page[ContributorStat], error) {
	roster, err := r.roster.FindAllContributors(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing workspace contributors: %w", err)
	}

	logins := FilterLogins(roster)
	if len(logins) == 0 {
		return page.New([]ContributorStat{}, page.NewMeta(opts.Options, 0, 0)), nil
	}

	rows, err := r.devstats.FindAllContributorStats(ctx, opts, logins)
	if err != nil {
		return nil, fmt.Errorf("fetching contributor stats: %w", err)
	}

	sortContributorStats(rows, opts.OrderBy, opts.Order)

	var totalCount int64
	for _, row := range rows {
		totalCount += row.TotalContributions
	}

	data := page.Slice(rows, opts.Skip(), opts.Limit)
	meta := page.NewMeta(opts.Options, len(data), totalCount)

	return page.New(data, meta), nil
}

// FilterLogins lower-cases the roster and removes empty identities and bot
// accounts.
func FilterLogins(roster []string) []string {
	logins := make([]string, 0, len(roster))
	for _, login := range roster {
		login = strings.ToLower(login)
		if login == "" || strings.HasSuffix(login, botSuffix) {
			continue
		}
		logins = append(logins, login)
	}
	return logins
}

// sortContributorStats sorts rows by the requested field and direction.
// Login ascending breaks ties so pagination is reproducible.
func sortContributorStats(rows []ContributorStat, orderBy ContributorOrder, order page.Order) {
	key := func(row ContributorStat) int64 {
		switch orderBy {
		case OrderPRsCreated:
			return row.PRsCreated
		case OrderTotalContributions:
			return row.TotalContributions
		default:
			return row.Commits
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ki, kj := key(rows[i]), key(rows[j])
		if ki == kj {
			return rows[i].Login < rows[j].Login
		}
		if order == page.OrderAsc {
			return ki < kj
		}
		return ki > kj
	})
}
