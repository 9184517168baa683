package workspace

import "context"

// WorkspaceRepository loads workspace records with their membership roster.
type WorkspaceRepository interface {
	Find(ctx context.Context, id string) (*Workspace, error)
}

// RepoLinkRepository lists the repositories attached to a workspace.
// Implementations must exclude soft-deleted links.
type RepoLinkRepository interface {
	ListLive(ctx context.Context, workspaceID string) ([]Repo, error)
}
