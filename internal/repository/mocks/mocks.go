package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/kestrelhq/workstats/internal/domain/stats"
	"github.com/kestrelhq/workstats/internal/domain/workspace"
)

// WorkspaceRepository is a mock for workspace.WorkspaceRepository.
type WorkspaceRepository struct {
	mock.Mock
}

func (m *WorkspaceRepository) Find(ctx context.Context, id string) (*workspace.Workspace, error) {
	args := m.Called(ctx, id)
	if ws, ok := args.Get(0).(*workspace.Workspace); ok {
		return ws, args.Error(1)
	}
	return nil, args.Error(1)
}

// RepoLinkRepository is a mock for workspace.RepoLinkRepository.
type RepoLinkRepository struct {
	mock.Mock
}

func (m *RepoLinkRepository) ListLive(ctx context.Context, workspaceID string) ([]workspace.Repo, error) {
	args := m.Called(ctx, workspaceID)
	if repos, ok := args.Get(0).([]workspace.Repo); ok {
		return repos, args.Error(1)
	}
	return nil, args.Error(1)
}

// PullRequestCollector is a mock for stats.PullRequestCollector.
type PullRequestCollector struct {
	mock.Mock
}

func (m *PullRequestCollector) FindPRStats(ctx context.Context, repoFullName string, rangeDays int, prevDaysStartDate time.Time) (*stats.RepoPullRequestStats, error) {
	args := m.Called(ctx, repoFullName, rangeDays, prevDaysStartDate)
	if prStats, ok := args.Get(0).(*stats.RepoPullRequestStats); ok {
		return prStats, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PullRequestCollector) FindRossIndex(ctx context.Context, repoFullNames []string, rangeDays int) (float64, error) {
	args := m.Called(ctx, repoFullNames, rangeDays)
	return args.Get(0).(float64), args.Error(1)
}

func (m *PullRequestCollector) FindRossContributors(ctx context.Context, repoFullNames []string, rangeDays int) ([]stats.ContributorAttribution, error) {
	args := m.Called(ctx, repoFullNames, rangeDays)
	if contribs, ok := args.Get(0).([]stats.ContributorAttribution); ok {
		return contribs, args.Error(1)
	}
	return nil, args.Error(1)
}

// IssueCollector is a mock for stats.IssueCollector.
type IssueCollector struct {
	mock.Mock
}

func (m *IssueCollector) FindIssueStats(ctx context.Context, repoFullName string, rangeDays int, prevDaysStartDate time.Time) (*stats.RepoIssueStats, error) {
	args := m.Called(ctx, repoFullName, rangeDays, prevDaysStartDate)
	if issueStats, ok := args.Get(0).(*stats.RepoIssueStats); ok {
		return issueStats, args.Error(1)
	}
	return nil, args.Error(1)
}

// RepoDevstatsCollector is a mock for stats.RepoDevstatsCollector.
type RepoDevstatsCollector struct {
	mock.Mock
}

func (m *RepoDevstatsCollector) CalculateActivityRatio(ctx context.Context, repoFullName string, rangeDays int) (float64, error) {
	args := m.Called(ctx, repoFullName, rangeDays)
	return args.Get(0).(float64), args.Error(1)
}

// ForkEventsCollector is a mock for stats.ForkEventsCollector.
type ForkEventsCollector struct {
	mock.Mock
}

func (m *ForkEventsCollector) ForkHistogram(ctx context.Context, opts stats.HistogramOptions) ([]stats.ForkBucket, error) {
	args := m.Called(ctx, opts)
	if buckets, ok := args.Get(0).([]stats.ForkBucket); ok {
		return buckets, args.Error(1)
	}
	return nil, args.Error(1)
}

// StarEventsCollector is a mock for stats.StarEventsCollector.
type StarEventsCollector struct {
	mock.Mock
}

func (m *StarEventsCollector) StarHistogram(ctx context.Context, opts stats.HistogramOptions) ([]stats.StarBucket, error) {
	args := m.Called(ctx, opts)
	if buckets, ok := args.Get(0).([]stats.StarBucket); ok {
		return buckets, args.Error(1)
	}
	return nil, args.Error(1)
}

// ContributorRoster is a mock for stats.ContributorRoster.
type ContributorRoster struct {
	mock.Mock
}

func (m *ContributorRoster) FindAllContributors(ctx context.Context, workspaceID string) ([]string, error) {
	args := m.Called(ctx, workspaceID)
	if logins, ok := args.Get(0).([]string); ok {
		return logins, args.Error(1)
	}
	return nil, args.Error(1)
}

// ContributorDevstatsCollector is a mock for stats.ContributorDevstatsCollector.
type ContributorDevstatsCollector struct {
	mock.Mock
}

func (m *ContributorDevstatsCollector) FindAllContributorStats(ctx context.Context, opts stats.ContributorOptions, logins []string) ([]stats.ContributorStat, error) {
	args := m.Called(ctx, opts, logins)
	if rows, ok := args.Get(0).([]stats.ContributorStat); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}
