package workspace

import (
	"context"
	"fmt"
	"strings"
)

// RepoSetResolver resolves the live repository set for a workspace,
// optionally narrowed by a caller-supplied name filter.
type RepoSetResolver struct {
	links RepoLinkRepository
}

// NewRepoSetResolver creates a new RepoSetResolver.
func NewRepoSetResolver(links RepoLinkRepository) *RepoSetResolver {
	return &RepoSetResolver{links: links}
}

// Resolve returns the workspace's live repositories. When repoFilter is
// non-empty it is parsed as a comma-delimited list of full names and
// intersected case-insensitively with the live set; filter names that do not
// belong to the workspace are silently dropped. An empty result is a valid
// outcome, not an error.
func (r *RepoSetResolver) Resolve(ctx context.Context, workspaceID, repoFilter string) ([]Repo, error) {
	repos, err := r.links.ListLive(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing workspace repos: %w", err)
	}

	wanted := ParseRepoFilter(repoFilter)
	if len(wanted) == 0 {
		return repos, nil
	}

	filtered := make([]Repo, 0, len(repos))
	for _, repo := range repos {
		if _, ok := wanted[strings.ToLower(repo.FullName)]; ok {
			filtered = append(filtered, repo)
		}
	}
	return filtered, nil
}

// ParseRepoFilter splits a comma-delimited repo list into a set of
// lower-cased full names. Blank segments are dropped.
func ParseRepoFilter(filter string) map[string]struct{} {
	if filter == "" {
		return nil
	}
	wanted := make(map[string]struct{})
	for _, name := range strings.Split(filter, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		wanted[name] = struct{}{}
	}
	return wanted
}
