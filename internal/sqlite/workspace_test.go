package sqlite

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kestrelhq/workstats/internal/domain/workspace"
	"github.com/kestrelhq/workstats/internal/repository"
)

func seedWorkspace(t *testing.T, db *DB, isPublic bool) string {
	t.Helper()

	id := uuid.NewString()
	public := 0
	if isPublic {
		public = 1
	}
	_, err := db.Exec(
		`INSERT INTO workspaces (id, name, is_public) VALUES (?, ?, ?)`,
		id, "test workspace", public,
	)
	require.NoError(t, err)
	return id
}

func seedMember(t *testing.T, db *DB, workspaceID, userID string, role workspace.Role) {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO workspace_members (workspace_id, user_id, role) VALUES (?, ?, ?)`,
		workspaceID, userID, string(role),
	)
	require.NoError(t, err)
}

func seedRepoLink(t *testing.T, db *DB, workspaceID, fullName string, tombstoned bool) {
	t.Helper()

	repoID := uuid.NewString()
	_, err := db.Exec(`INSERT INTO repos (id, full_name) VALUES (?, ?)`, repoID, fullName)
	require.NoError(t, err)

	if tombstoned {
		_, err = db.Exec(
			`INSERT INTO workspace_repos (workspace_id, repo_id, deleted_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
			workspaceID, repoID,
		)
	} else {
		_, err = db.Exec(
			`INSERT INTO workspace_repos (workspace_id, repo_id) VALUES (?, ?)`,
			workspaceID, repoID,
		)
	}
	require.NoError(t, err)
}

func TestWorkspaceFind(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)

	id := seedWorkspace(t, db, true)
	seedMember(t, db, id, "u1", workspace.RoleOwner)
	seedMember(t, db, id, "u2", workspace.RoleViewer)

	repo := NewWorkspaceRepository(db)
	ws, err := repo.Find(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, ws.ID)
	require.True(t, ws.IsPublic)
	require.Nil(t, ws.PayeeUserID)
	require.Len(t, ws.Members, 2)
	require.Equal(t, workspace.RoleOwner, ws.Members[0].Role)
}

func TestWorkspaceFindNotFound(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)

	repo := NewWorkspaceRepository(db)
	_, err := repo.Find(ctx, uuid.NewString())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRepoLinkListLiveExcludesTombstones(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)

	id := seedWorkspace(t, db, true)
	seedRepoLink(t, db, id, "acme/api", false)
	seedRepoLink(t, db, id, "acme/old", true)
	seedRepoLink(t, db, id, "acme/web", false)

	repo := NewRepoLinkRepository(db)
	repos, err := repo.ListLive(ctx, id)
	require.NoError(t, err)
	require.Len(t, repos, 2)
	require.Equal(t, "acme/api", repos[0].FullName)
	require.Equal(t, "acme/web", repos[1].FullName)
}

func TestContributorRosterExcludesTombstones(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)

	id := seedWorkspace(t, db, true)
	_, err := db.Exec(
		`INSERT INTO workspace_contributors (workspace_id, login) VALUES (?, ?), (?, ?)`,
		id, "alice", id, "dependabot[bot]",
	)
	require.NoError(t, err)
	_, err = db.Exec(
		`INSERT INTO workspace_contributors (workspace_id, login, deleted_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		id, "gone",
	)
	require.NoError(t, err)

	roster := NewContributorRosterRepository(db)
	logins, err := roster.FindAllContributors(ctx, id)
	require.NoError(t, err)
	require.Equal(t, []string{"alice", "dependabot[bot]"}, logins)
}
