package workspace

// CanView reports whether the given user may read the workspace's data.
// Public workspaces are viewable by anyone, including anonymous callers
// (empty userID). Private workspaces require membership in any role.
// The check is pure: no side effects, deterministic for a given input.
func CanView(ws *Workspace, userID string) bool {
	if ws == nil {
		return false
	}
	if ws.IsPublic {
		return true
	}
	if userID == "" {
		return false
	}
	for _, m := range ws.Members {
		if m.UserID != userID {
			continue
		}
		switch m.Role {
		case RoleOwner, RoleEditor, RoleViewer:
			return true
		}
	}
	return false
}
