package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kestrelhq/workstats/internal/domain/workspace"
	"github.com/kestrelhq/workstats/internal/repository"
)

// WorkspaceRepository implements repository.WorkspaceRepository for SQLite
type WorkspaceRepository struct {
	db *DB
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(db *DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// Find retrieves a workspace with its membership roster
func (r *WorkspaceRepository) Find(ctx context.Context, id string) (*workspace.Workspace, error) {
	query := `
		SELECT id, name, is_public, payee_user_id, created_at, updated_at
		FROM workspaces
		WHERE id = ?
	`

	var ws workspace.Workspace
	var isPublic int
	var payeeUserID sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ws.ID,
		&ws.Name,
		&isPublic,
		&payeeUserID,
		&ws.CreatedAt,
		&ws.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	ws.IsPublic = isPublic != 0
	if payeeUserID.Valid {
		ws.PayeeUserID = &payeeUserID.String
	}

	members, err := r.findMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	ws.Members = members

	return &ws, nil
}

func (r *WorkspaceRepository) findMembers(ctx context.Context, workspaceID string) ([]workspace.Member, error) {
	query := `
		SELECT user_id, role
		FROM workspace_members
		WHERE workspace_id = ?
		ORDER BY user_id
	`

	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace members: %w", err)
	}
	defer rows.Close()

	var members []workspace.Member
	for rows.Next() {
		var m workspace.Member
		if err := rows.Scan(&m.UserID, &m.Role); err != nil {
			return nil, fmt.Errorf("failed to scan workspace member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workspace members: %w", err)
	}

	return members, nil
}

// RepoLinkRepository implements repository.RepoLinkRepository for SQLite
type RepoLinkRepository struct {
	db *DB
}

// NewRepoLinkRepository creates a new RepoLinkRepository
func NewRepoLinkRepository(db *DB) *RepoLinkRepository {
	return &RepoLinkRepository{db: db}
}

// ListLive lists a workspace's repositories whose links carry no tombstone
func (r *RepoLinkRepository) ListLive(ctx context.Context, workspaceID string) ([]workspace.Repo, error) {
	query := `
		SELECT repos.id, repos.full_name
		FROM workspace_repos
		JOIN repos ON repos.id = workspace_repos.repo_id
		WHERE workspace_repos.workspace_id = ?
		  AND workspace_repos.deleted_at IS NULL
		ORDER BY repos.full_name
	`

	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace repos: %w", err)
	}
	defer rows.Close()

	var repos []workspace.Repo
	for rows.Next() {
		var repo workspace.Repo
		if err := rows.Scan(&repo.ID, &repo.FullName); err != nil {
			return nil, fmt.Errorf("failed to scan workspace repo: %w", err)
		}
		repos = append(repos, repo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workspace repos: %w", err)
	}

	return repos, nil
}

// ContributorRosterRepository implements repository.ContributorRosterRepository
// for SQLite
type ContributorRosterRepository struct {
	db *DB
}

// NewContributorRosterRepository creates a new ContributorRosterRepository
func NewContributorRosterRepository(db *DB) *ContributorRosterRepository {
	return &ContributorRosterRepository{db: db}
}

// FindAllContributors lists the live tracked contributor logins for a workspace
func (r *ContributorRosterRepository) FindAllContributors(ctx context.Context, workspaceID string) ([]string, error) {
	query := `
		SELECT login
		FROM workspace_contributors
		WHERE workspace_id = ?
		  AND deleted_at IS NULL
		ORDER BY login
	`

	rows, err := r.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace contributors: %w", err)
	}
	defer rows.Close()

	var logins []string
	for rows.Next() {
		var login string
		if err := rows.Scan(&login); err != nil {
			return nil, fmt.Errorf("failed to scan contributor login: %w", err)
		}
		logins = append(logins, login)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workspace contributors: %w", err)
	}

	return logins, nil
}
