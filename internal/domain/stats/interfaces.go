package stats

import (
	"context"
	"time"

	"github.com/kestrelhq/workstats/internal/domain/workspace"
)

// HistogramOptions scopes a per-repository histogram query.
type HistogramOptions struct {
	Repo      string
	RangeDays int
}

// PullRequestCollector provides pull-request metrics.
type PullRequestCollector interface {
	FindPRStats(ctx context.Context, repoFullName string, rangeDays int, prevDaysStartDate time.Time) (*RepoPullRequestStats, error)
	FindRossIndex(ctx context.Context, repoFullNames []string, rangeDays int) (float64, error)
	FindRossContributors(ctx context.Context, repoFullNames []string, rangeDays int) ([]ContributorAttribution, error)
}

// IssueCollector provides issue metrics.
type IssueCollector interface {
	FindIssueStats(ctx context.Context, repoFullName string, rangeDays int, prevDaysStartDate time.Time) (*RepoIssueStats, error)
}

// RepoDevstatsCollector provides per-repository engagement ratios.
type RepoDevstatsCollector interface {
	CalculateActivityRatio(ctx context.Context, repoFullName string, rangeDays int) (float64, error)
}

// ForkEventsCollector provides per-day fork activity buckets.
type ForkEventsCollector interface {
	ForkHistogram(ctx context.Context, opts HistogramOptions) ([]ForkBucket, error)
}

// StarEventsCollector provides per-day star (watch) activity buckets.
type StarEventsCollector interface {
	StarHistogram(ctx context.Context, opts HistogramOptions) ([]StarBucket, error)
}

// ContributorRoster lists the contributor logins tracked by a workspace.
type ContributorRoster interface {
	FindAllContributors(ctx context.Context, workspaceID string) ([]string, error)
}

// ContributorDevstatsCollector provides per-contributor stat rows for a
// login set.
type ContributorDevstatsCollector interface {
	FindAllContributorStats(ctx context.Context, opts ContributorOptions, logins []string) ([]ContributorStat, error)
}

// WorkspaceFinder loads workspaces for the access gate.
type WorkspaceFinder interface {
	Find(ctx context.Context, id string) (*workspace.Workspace, error)
}
