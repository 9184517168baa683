package stats

import "time"

// PullRequestStats aggregates pull-request throughput over a workspace's
// repositories. Velocity is the mean per-repo PR velocity.
type PullRequestStats struct {
	Opened   int64   `json:"opened"`
	Merged   int64   `json:"merged"`
	Velocity float64 `json:"velocity"`
}

// IssueStats aggregates issue throughput over a workspace's repositories.
type IssueStats struct {
	Opened   int64   `json:"opened"`
	Closed   int64   `json:"closed"`
	Velocity float64 `json:"velocity"`
}

// RepoStats aggregates repository-level engagement. Health is a stable alias
// for ActivityRatio, kept as a separate field for API compatibility.
type RepoStats struct {
	ActivityRatio float64 `json:"activity_ratio"`
	Forks         int64   `json:"forks"`
	Stars         int64   `json:"stars"`
	Health        float64 `json:"health"`
}

// WorkspaceStats is the workspace-level statistics aggregate. A fresh value
// is constructed per request; it is never persisted.
type WorkspaceStats struct {
	PullRequests PullRequestStats `json:"pull_requests"`
	Issues       IssueStats       `json:"issues"`
	Repos        RepoStats        `json:"repos"`
}

// ContributorAttribution attributes a share of the Ross index to one
// contributor.
type ContributorAttribution struct {
	Login         string `json:"login"`
	Contributions int64  `json:"contributions"`
}

// WorkspaceRossIndex is the composite engagement score for a workspace's
// repository set together with its contributor attribution.
type WorkspaceRossIndex struct {
	Ross         float64                  `json:"ross"`
	Contributors []ContributorAttribution `json:"contributors"`
}

// ContributorStat is one contributor's activity counters over the requested
// range. TotalContributions is the canonical summary figure used for ranking
// totals.
type ContributorStat struct {
	Login              string `json:"login"`
	Commits            int64  `json:"commits"`
	PRsCreated         int64  `json:"prs_created"`
	PRsReviewed        int64  `json:"prs_reviewed"`
	IssuesCreated      int64  `json:"issues_created"`
	CommitComments     int64  `json:"commit_comments"`
	IssueComments      int64  `json:"issue_comments"`
	PRReviewComments   int64  `json:"pr_review_comments"`
	Comments           int64  `json:"comments"`
	TotalContributions int64  `json:"total_contributions"`
}

// RepoPullRequestStats is a single repository's PR stats as returned by the
// pull-request collector.
type RepoPullRequestStats struct {
	OpenPRs     int64   `json:"open_prs"`
	AcceptedPRs int64   `json:"accepted_prs"`
	PRVelocity  float64 `json:"pr_velocity"`
}

// RepoIssueStats is a single repository's issue stats as returned by the
// issue collector.
type RepoIssueStats struct {
	OpenedIssues  int64   `json:"opened_issues"`
	ClosedIssues  int64   `json:"closed_issues"`
	IssueVelocity float64 `json:"issue_velocity"`
}

// ForkBucket is one day of fork activity for a repository.
type ForkBucket struct {
	Bucket     time.Time `json:"bucket"`
	ForksCount int64     `json:"forks_count"`
}

// StarBucket is one day of star (watch) activity for a repository.
type StarBucket struct {
	Bucket    time.Time `json:"bucket"`
	StarCount int64     `json:"star_count"`
}
