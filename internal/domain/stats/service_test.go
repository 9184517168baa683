package stats_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kestrelhq/workstats/internal/domain/stats"
	"github.com/kestrelhq/workstats/internal/domain/workspace"
	"github.com/kestrelhq/workstats/internal/repository"
	"github.com/kestrelhq/workstats/internal/repository/mocks"
)

type serviceFixture struct {
	workspaces *mocks.WorkspaceRepository
	links      *mocks.RepoLinkRepository
	agg        *aggregatorFixture
	roster     *mocks.ContributorRoster
	devstats   *mocks.ContributorDevstatsCollector

	service *stats.Service
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		workspaces: &mocks.WorkspaceRepository{},
		links:      &mocks.RepoLinkRepository{},
		agg:        newAggregatorFixture(),
		roster:     &mocks.ContributorRoster{},
		devstats:   &mocks.ContributorDevstatsCollector{},
	}
	f.service = stats.NewService(
		f.workspaces,
		workspace.NewRepoSetResolver(f.links),
		f.agg.aggregator,
		stats.NewRossAggregator(f.agg.prs, nil),
		stats.NewContributorRanker(f.roster, f.devstats, nil),
		nil,
	)
	return f
}

func privateWorkspace() *workspace.Workspace {
	return &workspace.Workspace{
		ID: "ws1",
		Members: []workspace.Member{
			{UserID: "u-owner", Role: workspace.RoleOwner},
		},
	}
}

func TestServiceStatsMissingWorkspace(t *testing.T) {
	ctx := context.Background()

	f := newServiceFixture()
	f.workspaces.On("Find", ctx, "nope").Return((*workspace.Workspace)(nil), repository.ErrNotFound)

	_, err := f.service.Stats(ctx, "nope", "u-owner", stats.StatsOptions{RangeDays: 30})
	require.ErrorIs(t, err, workspace.ErrWorkspaceNotFound)
}

func TestServiceStatsAccessDeniedLooksLikeNotFound(t *testing.T) {
	ctx := context.Background()

	f := newServiceFixture()
	f.workspaces.On("Find", ctx, "ws1").Return(privateWorkspace(), nil)

	_, err := f.service.Stats(ctx, "ws1", "u-stranger", stats.StatsOptions{RangeDays: 30})
	require.ErrorIs(t, err, workspace.ErrWorkspaceNotFound)

	_, err = f.service.Stats(ctx, "ws1", "", stats.StatsOptions{RangeDays: 30})
	require.ErrorIs(t, err, workspace.ErrWorkspaceNotFound)

	f.links.AssertNotCalled(t, "ListLive")
}

func TestServiceStatsInvalidRangeRejectedBeforeLookup(t *testing.T) {
	ctx := context.Background()

	f := newServiceFixture()
	_, err := f.service.Stats(ctx, "ws1", "u-owner", stats.StatsOptions{RangeDays: 0})
	require.ErrorIs(t, err, stats.ErrInvalidOptions)

	f.workspaces.AssertNotCalled(t, "Find")
}

func TestServiceStatsAppliesRepoFilter(t *testing.T) {
	ctx := context.Background()

	f := newServiceFixture()
	f.workspaces.On("Find", ctx, "ws1").Return(privateWorkspace(), nil)
	f.links.On("ListLive", ctx, "ws1").Return([]workspace.Repo{
		{ID: "r1", FullName: "acme/api"},
		{ID: "r2", FullName: "acme/web"},
	}, nil)
	f.agg.stubRepo("acme/api",
		stats.RepoPullRequestStats{OpenPRs: 4, PRVelocity: 2.0},
		stats.RepoIssueStats{},
		0.5, nil, nil)

	result, err := f.service.Stats(ctx, "ws1", "u-owner", stats.StatsOptions{RangeDays: 30, RepoFilter: "ACME/API"})
	require.NoError(t, err)
	require.Equal(t, int64(4), result.PullRequests.Opened)

	f.agg.prs.AssertNotCalled(t, "FindPRStats", mock.Anything, "acme/web", mock.Anything, mock.Anything)
}

func TestServiceRossUsesFullRepoSet(t *testing.T) {
	ctx := context.Background()

	f := newServiceFixture()
	f.workspaces.On("Find", ctx, "ws1").Return(privateWorkspace(), nil)
	f.links.On("ListLive", ctx, "ws1").Return([]workspace.Repo{
		{ID: "r1", FullName: "acme/api"},
		{ID: "r2", FullName: "acme/web"},
	}, nil)

	names := []string{"acme/api", "acme/web"}
	f.agg.prs.On("FindRossIndex", ctx, names, 30).Return(1.5, nil)
	f.agg.prs.On("FindRossContributors", ctx, names, 30).Return([]stats.ContributorAttribution{}, nil)

	result, err := f.service.Ross(ctx, "ws1", "u-owner", stats.RossOptions{RangeDays: 30})
	require.NoError(t, err)
	require.InDelta(t, 1.5, result.Ross, 1e-9)
}

func TestServiceContributorsGated(t *testing.T) {
	ctx := context.Background()

	f := newServiceFixture()
	f.workspaces.On("Find", ctx, "ws1").Return(privateWorkspace(), nil)

	_, err := f.service.Contributors(ctx, "ws1", "", stats.DefaultContributorOptions())
	require.ErrorIs(t, err, workspace.ErrWorkspaceNotFound)

	f.roster.AssertNotCalled(t, "FindAllContributors")
}

func TestServiceContributorsHappyPath(t *testing.T) {
	ctx := context.Background()

	f := newServiceFixture()
	f.workspaces.On("Find", ctx, "ws1").Return(privateWorkspace(), nil)
	f.roster.On("FindAllContributors", ctx, "ws1").Return([]string{"alice"}, nil)
	f.devstats.On("FindAllContributorStats", ctx, mock.Anything, []string{"alice"}).
		Return([]stats.ContributorStat{{Login: "alice", Commits: 7, TotalContributions: 9}}, nil)

	result, err := f.service.Contributors(ctx, "ws1", "u-owner", stats.DefaultContributorOptions())
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	require.Equal(t, int64(9), result.Meta.TotalCount)
}

func TestServiceContributorsInvalidOptions(t *testing.T) {
	ctx := context.Background()

	f := newServiceFixture()
	opts := stats.DefaultContributorOptions()
	opts.OrderBy = "stars"

	_, err := f.service.Contributors(ctx, "ws1", "u-owner", opts)
	require.ErrorIs(t, err, stats.ErrInvalidOptions)
}
