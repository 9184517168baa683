package repository

import (
	"context"

	"github.com/kestrelhq/workstats/internal/domain/workspace"
)

// WorkspaceRepository manages workspace reads
type WorkspaceRepository interface {
	Find(ctx context.Context, id string) (*workspace.Workspace, error)
}

// RepoLinkRepository lists live workspace-repo links
type RepoLinkRepository interface {
	ListLive(ctx context.Context, workspaceID string) ([]workspace.Repo, error)
}

// ContributorRosterRepository lists tracked contributor logins
type ContributorRosterRepository interface {
	FindAllContributors(ctx context.Context, workspaceID string) ([]string, error)
}
