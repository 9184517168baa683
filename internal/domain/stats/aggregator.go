package stats

import (
	"context"
	"fmt"
	"log/slog"

	mstats "github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/kestrelhq/workstats/internal/domain/workspace"
)

// repoPartial holds one repository's collector results. Each fan-out task
// fills its own partial; partials are folded sequentially after the join
// barrier so no aggregate field is ever written from two goroutines.
type repoPartial struct {
	prOpened      int64
	prMerged      int64
	prVelocity    float64
	issuesOpened  int64
	issuesClosed  int64
	issueVelocity float64
	activityRatio float64
	forks         int64
	stars         int64
}

// StatsAggregator fans out to the per-repository metric collectors and merges
// the results into a workspace-level aggregate.
type StatsAggregator struct {
	prs      PullRequestCollector
	issues   IssueCollector
	devstats RepoDevstatsCollector
	forks    ForkEventsCollector
	stars    StarEventsCollector
	logger   *slog.Logger
}

// NewStatsAggregator creates a new StatsAggregator.
func NewStatsAggregator(
	prs PullRequestCollector,
	issues IssueCollector,
	devstats RepoDevstatsCollector,
	forks ForkEventsCollector,
	stars StarEventsCollector,
	logger *slog.Logger,
) *StatsAggregator {
	return &StatsAggregator{
		prs:      prs,
		issues:   issues,
		devstats: devstats,
		forks:    forks,
		stars:    stars,
		logger:   logger,
	}
}

// Aggregate computes workspace statistics over the resolved repo set.
// Repositories are collected concurrently; a single collector failure aborts
// the whole request and no partial aggregate is returned. An empty repo set
// yields the zero aggregate with all mean fields at zero.
func (a *StatsAggregator) Aggregate(ctx context.Context, repos []workspace.Repo, opts StatsOptions) (*WorkspaceStats, error) {
	partials := make([]repoPartial, len(repos))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, repo := range repos {
		eg.Go(func() error {
			partial, err := a.collectRepo(egCtx, repo.FullName, opts)
			if err != nil {
				return fmt.Errorf("repo %s: %w", repo.FullName, err)
			}
			partials[i] = *partial
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("aggregating workspace stats: %w", err)
	}

	return foldPartials(partials)
}

func (a *StatsAggregator) collectRepo(ctx context.Context, fullName string, opts StatsOptions) (*repoPartial, error) {
	var partial repoPartial

	prStats, err := a.prs.FindPRStats(ctx, fullName, opts.RangeDays, opts.PrevDaysStartDate)
	if err != nil {
		return nil, fmt.Errorf("pr stats: %w", err)
	}
	partial.prOpened = prStats.OpenPRs
	partial.prMerged = prStats.AcceptedPRs
	partial.prVelocity = prStats.PRVelocity

	issueStats, err := a.issues.FindIssueStats(ctx, fullName, opts.RangeDays, opts.PrevDaysStartDate)
	if err != nil {
		return nil, fmt.Errorf("issue stats: %w", err)
	}
	partial.issuesOpened = issueStats.OpenedIssues
	partial.issuesClosed = issueStats.ClosedIssues
	partial.issueVelocity = issueStats.IssueVelocity

	ratio, err := a.devstats.CalculateActivityRatio(ctx, fullName, opts.RangeDays)
	if err != nil {
		return nil, fmt.Errorf("activity ratio: %w", err)
	}
	partial.activityRatio = ratio

	forkBuckets, err := a.forks.ForkHistogram(ctx, HistogramOptions{Repo: fullName, RangeDays: opts.RangeDays})
	if err != nil {
		return nil, fmt.Errorf("fork histogram: %w", err)
	}
	for _, bucket := range forkBuckets {
		partial.forks += bucket.ForksCount
	}

	starBuckets, err := a.stars.StarHistogram(ctx, HistogramOptions{Repo: fullName, RangeDays: opts.RangeDays})
	if err != nil {
		return nil, fmt.Errorf("star histogram: %w", err)
	}
	for _, bucket := range starBuckets {
		partial.stars += bucket.StarCount
	}

	return &partial, nil
}

// foldPartials merges per-repo partials into the aggregate. Counters are
// summed; velocity and activity ratio are arithmetic means over the repo
// count, computed once after all repos have been folded.
func foldPartials(partials []repoPartial) (*WorkspaceStats, error) {
	result := &WorkspaceStats{}

	prVelocities := make([]float64, 0, len(partials))
	issueVelocities := make([]float64, 0, len(partials))
	activityRatios := make([]float64, 0, len(partials))

	for _, p := range partials {
		result.PullRequests.Opened += p.prOpened
		result.PullRequests.Merged += p.prMerged
		result.Issues.Opened += p.issuesOpened
		result.Issues.Closed += p.issuesClosed
		result.Repos.Forks += p.forks
		result.Repos.Stars += p.stars

		prVelocities = append(prVelocities, p.prVelocity)
		issueVelocities = append(issueVelocities, p.issueVelocity)
		activityRatios = append(activityRatios, p.activityRatio)
	}

	// Zero repos means the mean fields stay at their zero defaults.
	if len(partials) > 0 {
		prVelocity, err := mstats.Mean(prVelocities)
		if err != nil {
			return nil, fmt.Errorf("averaging pr velocity: %w", err)
		}
		issueVelocity, err := mstats.Mean(issueVelocities)
		if err != nil {
			return nil, fmt.Errorf("averaging issue velocity: %w", err)
		}
		activityRatio, err := mstats.Mean(activityRatios)
		if err != nil {
			return nil, fmt.Errorf("averaging activity ratio: %w", err)
		}
		result.PullRequests.Velocity = prVelocity
		result.Issues.Velocity = issueVelocity
		result.Repos.ActivityRatio = activityRatio
	}

	// Activity ratio is currently the only stat that informs health.
	result.Repos.Health = result.Repos.ActivityRatio

	return result, nil
}
