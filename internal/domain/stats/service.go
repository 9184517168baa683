package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kestrelhq/workstats/internal/domain/workspace"
	"github.com/kestrelhq/workstats/internal/page"
	"github.com/kestrelhq/workstats/internal/repository"
)

// Service exposes the three workspace statistics read operations. Every
// operation validates its input, gates on workspace access, resolves the live
// repo set and then delegates to the matching aggregator. The three paths
// share nothing but the resolved repo set.
type Service struct {
	workspaces WorkspaceFinder
	resolver   *workspace.RepoSetResolver
	aggregator *StatsAggregator
	ross       *RossAggregator
	ranker     *ContributorRanker
	logger     *slog.Logger
}

// NewService creates a new stats service.
func NewService(
	workspaces WorkspaceFinder,
	resolver *workspace.RepoSetResolver,
	aggregator *StatsAggregator,
	ross *RossAggregator,
	ranker *ContributorRanker,
	logger *slog.Logger,
) *Service {
	return &Service{
		workspaces: workspaces,
		resolver:   resolver,
		aggregator: aggregator,
		ross:       ross,
		ranker:     ranker,
		logger:     logger,
	}
}

// Stats computes the workspace statistics aggregate. userID may be empty for
// anonymous callers.
func (s *Service) Stats(ctx context.Context, workspaceID, userID string, opts StatsOptions) (*WorkspaceStats, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureViewable(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	repos, err := s.resolver.Resolve(ctx, workspaceID, opts.RepoFilter)
	if err != nil {
		return nil, err
	}

	return s.aggregator.Aggregate(ctx, repos, opts)
}

// Ross computes the workspace's composite engagement index.
func (s *Service) Ross(ctx context.Context, workspaceID, userID string, opts RossOptions) (*WorkspaceRossIndex, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureViewable(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	repos, err := s.resolver.Resolve(ctx, workspaceID, "")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(repos))
	for _, repo := range repos {
		names = append(names, repo.FullName)
	}

	return s.ross.Aggregate(ctx, names, opts.RangeDays)
}

// Contributors returns the ranked, paginated contributor leaderboard.
func (s *Service) Contributors(ctx context.Context, workspaceID, userID string, opts ContributorOptions) (*page.Page[ContributorStat], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureViewable(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	return s.ranker.Rank(ctx, workspaceID, opts)
}

// ensureViewable loads the workspace and applies the access gate. A missing
// workspace and a denied caller produce the same outcome so existence cannot
// be probed.
func (s *Service) ensureViewable(ctx context.Context, workspaceID, userID string) error {
	ws, err := s.workspaces.Find(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return workspace.ErrWorkspaceNotFound
		}
		return fmt.Errorf("loading workspace: %w", err)
	}

	if !workspace.CanView(ws, userID) {
		return workspace.ErrWorkspaceNotFound
	}

	return nil
}
