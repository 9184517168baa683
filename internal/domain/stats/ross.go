package stats

import (
	"context"
	"fmt"
	"log/slog"
)

// RossAggregator computes a workspace's composite engagement index. Unlike
// the stats fan-out, the collectors are keyed by the full repo name list at
// once.
type RossAggregator struct {
	prs    PullRequestCollector
	logger *slog.Logger
}

// NewRossAggregator creates a new RossAggregator.
func NewRossAggregator(prs PullRequestCollector, logger *slog.Logger) *RossAggregator {
	return &RossAggregator{prs: prs, logger: logger}
}

// Aggregate returns the Ross index and its contributor attribution for the
// given repositories. An empty repo list yields a zero score and an empty
// contributor list without invoking any collector.
func (a *RossAggregator) Aggregate(ctx context.Context, repoFullNames []string, rangeDays int) (*WorkspaceRossIndex, error) {
	result := &WorkspaceRossIndex{Contributors: []ContributorAttribution{}}

	if len(repoFullNames) == 0 {
		return result, nil
	}

	index, err := a.prs.FindRossIndex(ctx, repoFullNames, rangeDays)
	if err != nil {
		return nil, fmt.Errorf("finding ross index: %w", err)
	}

	contributors, err := a.prs.FindRossContributors(ctx, repoFullNames, rangeDays)
	if err != nil {
		return nil, fmt.Errorf("finding ross contributors: %w", err)
	}

	result.Ross = index
	if contributors != nil {
		result.Contributors = contributors
	}

	return result, nil
}
