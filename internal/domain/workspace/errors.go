package workspace

import "errors"

// ErrWorkspaceNotFound covers both a missing workspace and a caller without
// read access. The two cases are deliberately indistinguishable so that
// unauthorized callers cannot probe for workspace existence.
var ErrWorkspaceNotFound = errors.New("workspace not found")
