package workspace

import "time"

// Role represents a membership role within a workspace.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Member is a user's membership in a workspace.
type Member struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// Workspace is a logical grouping of repositories owned by a team. It is
// created and mutated by the workspace-management service; this service only
// reads it.
type Workspace struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	IsPublic    bool      `json:"is_public"`
	PayeeUserID *string   `json:"payee_user_id,omitempty"`
	Members     []Member  `json:"members"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Repo is a repository attached to a workspace. FullName is the canonical
// "org/name" form.
type Repo struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}
