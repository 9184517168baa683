package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. Workspace tables are written by the
// workspace-management service; event tables are written by the ingest
// pipeline. This service only reads both.
func (db *DB) RunMigrations() error {
	migration := `
-- Workspaces and membership
CREATE TABLE workspaces (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    is_public INTEGER NOT NULL DEFAULT 0,
    payee_user_id TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE workspace_members (
    workspace_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    role TEXT NOT NULL CHECK(role IN ('owner', 'editor', 'viewer')),
    PRIMARY KEY (workspace_id, user_id),
    FOREIGN KEY (workspace_id) REFERENCES workspaces(id)
);
CREATE INDEX idx_workspace_members ON workspace_members(workspace_id);

-- Repositories and workspace-repo links (soft deleted via deleted_at)
CREATE TABLE repos (
    id TEXT PRIMARY KEY,
    full_name TEXT NOT NULL UNIQUE
);

CREATE TABLE workspace_repos (
    workspace_id TEXT NOT NULL,
    repo_id TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    deleted_at TIMESTAMP,
    PRIMARY KEY (workspace_id, repo_id),
    FOREIGN KEY (workspace_id) REFERENCES workspaces(id),
    FOREIGN KEY (repo_id) REFERENCES repos(id)
);
CREATE INDEX idx_workspace_repos ON workspace_repos(workspace_id);

-- Contributor roster tracked per workspace
CREATE TABLE workspace_contributors (
    workspace_id TEXT NOT NULL,
    login TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    deleted_at TIMESTAMP,
    PRIMARY KEY (workspace_id, login),
    FOREIGN KEY (workspace_id) REFERENCES workspaces(id)
);

-- API keys for request authentication
CREATE TABLE api_keys (
    key_hash TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Raw event tables backing the metric collectors
CREATE TABLE pull_request_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    repo_name TEXT NOT NULL,
    pr_number INTEGER NOT NULL,
    actor_login TEXT NOT NULL,
    action TEXT NOT NULL CHECK(action IN ('opened', 'merged', 'closed')),
    event_time TIMESTAMP NOT NULL
);
CREATE INDEX idx_pr_events_repo_time ON pull_request_events(repo_name, event_time);

CREATE TABLE issue_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    repo_name TEXT NOT NULL,
    issue_number INTEGER NOT NULL,
    actor_login TEXT NOT NULL,
    action TEXT NOT NULL CHECK(action IN ('opened', 'closed')),
    event_time TIMESTAMP NOT NULL
);
CREATE INDEX idx_issue_events_repo_time ON issue_events(repo_name, event_time);

CREATE TABLE fork_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    repo_name TEXT NOT NULL,
    actor_login TEXT NOT NULL,
    event_time TIMESTAMP NOT NULL
);
CREATE INDEX idx_fork_events_repo_time ON fork_events(repo_name, event_time);

CREATE TABLE watch_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    repo_name TEXT NOT NULL,
    actor_login TEXT NOT NULL,
    event_time TIMESTAMP NOT NULL
);
CREATE INDEX idx_watch_events_repo_time ON watch_events(repo_name, event_time);

CREATE TABLE contributor_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    login TEXT NOT NULL,
    repo_name TEXT NOT NULL,
    event_type TEXT NOT NULL CHECK(event_type IN (
        'commit', 'pr_created', 'pr_reviewed', 'issue_created',
        'commit_comment', 'issue_comment', 'pr_review_comment'
    )),
    event_time TIMESTAMP NOT NULL
);
CREATE INDEX idx_contributor_events_login_time ON contributor_events(login, event_time);
`
	if _, err := db.Exec(migration); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
