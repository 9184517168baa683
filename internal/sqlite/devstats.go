package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/kestrelhq/workstats/internal/domain/stats"
)

const sqliteTimeLayout = "2006-01-02 15:04:05"

// sqliteTime renders a timestamp the way the date functions expect it.
func sqliteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

// inPlaceholders builds a "?, ?, ?" list for an IN clause.
func inPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func lowerAll(names []string) []any {
	args := make([]any, 0, len(names))
	for _, name := range names {
		args = append(args, strings.ToLower(name))
	}
	return args
}

// DevstatsRepository implements the metric collector interfaces over the raw
// event tables.
type DevstatsRepository struct {
	db *DB
}

// NewDevstatsRepository creates a new DevstatsRepository
func NewDevstatsRepository(db *DB) *DevstatsRepository {
	return &DevstatsRepository{db: db}
}

// FindPRStats returns a repository's pull-request throughput for the range.
// Velocity is the mean open-to-merge time in days for PRs merged within the
// range. The previous-range start date is accepted for interface parity with
// the comparison endpoints; the counters here are scoped to the current
// range only.
func (r *DevstatsRepository) FindPRStats(ctx context.Context, repoFullName string, rangeDays int, _ time.Time) (*stats.RepoPullRequestStats, error) {
	start := sqliteTime(time.Now().AddDate(0, 0, -rangeDays))
	repo := strings.ToLower(repoFullName)

	var result stats.RepoPullRequestStats

	countQuery := `
		SELECT COUNT(*)
		FROM pull_request_events
		WHERE LOWER(repo_name) = ?
		  AND action = ?
		  AND julianday(event_time) >= julianday(?)
	`

	if err := r.db.QueryRowContext(ctx, countQuery, repo, "opened", start).Scan(&result.OpenPRs); err != nil {
		return nil, fmt.Errorf("failed to count opened prs: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, countQuery, repo, "merged", start).Scan(&result.AcceptedPRs); err != nil {
		return nil, fmt.Errorf("failed to count merged prs: %w", err)
	}

	velocityQuery := `
		SELECT AVG(julianday(merged.event_time) - julianday(opened.event_time))
		FROM pull_request_events merged
		JOIN pull_request_events opened
		  ON opened.repo_name = merged.repo_name
		 AND opened.pr_number = merged.pr_number
		 AND opened.action = 'opened'
		WHERE merged.action = 'merged'
		  AND LOWER(merged.repo_name) = ?
		  AND julianday(merged.event_time) >= julianday(?)
	`

	var velocity sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, velocityQuery, repo, start).Scan(&velocity); err != nil {
		return nil, fmt.Errorf("failed to compute pr velocity: %w", err)
	}
	if velocity.Valid {
		result.PRVelocity = velocity.Float64
	}

	return &result, nil
}

// FindIssueStats returns a repository's issue throughput for the range.
func (r *DevstatsRepository) FindIssueStats(ctx context.Context, repoFullName string, rangeDays int, _ time.Time) (*stats.RepoIssueStats, error) {
	start := sqliteTime(time.Now().AddDate(0, 0, -rangeDays))
	repo := strings.ToLower(repoFullName)

	var result stats.RepoIssueStats

	countQuery := `
		SELECT COUNT(*)
		FROM issue_events
		WHERE LOWER(repo_name) = ?
		  AND action = ?
		  AND julianday(event_time) >= julianday(?)
	`

	if err := r.db.QueryRowContext(ctx, countQuery, repo, "opened", start).Scan(&result.OpenedIssues); err != nil {
		return nil, fmt.Errorf("failed to count opened issues: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, countQuery, repo, "closed", start).Scan(&result.ClosedIssues); err != nil {
		return nil, fmt.Errorf("failed to count closed issues: %w", err)
	}

	velocityQuery := `
		SELECT AVG(julianday(closed.event_time) - julianday(opened.event_time))
		FROM issue_events closed
		JOIN issue_events opened
		  ON opened.repo_name = closed.repo_name
		 AND opened.issue_number = closed.issue_number
		 AND opened.action = 'opened'
		WHERE closed.action = 'closed'
		  AND LOWER(closed.repo_name) = ?
		  AND julianday(closed.event_time) >= julianday(?)
	`

	var velocity sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, velocityQuery, repo, start).Scan(&velocity); err != nil {
		return nil, fmt.Errorf("failed to compute issue velocity: %w", err)
	}
	if velocity.Valid {
		result.IssueVelocity = velocity.Float64
	}

	return &result, nil
}

// CalculateActivityRatio returns the fraction of days within the range on
// which the repository saw any event, capped at 1.
func (r *DevstatsRepository) CalculateActivityRatio(ctx context.Context, repoFullName string, rangeDays int) (float64, error) {
	if rangeDays <= 0 {
		return 0, nil
	}

	start := sqliteTime(time.Now().AddDate(0, 0, -rangeDays))
	repo := strings.ToLower(repoFullName)

	query := `
		SELECT COUNT(*) FROM (
			SELECT date(event_time) AS d FROM pull_request_events
			WHERE LOWER(repo_name) = ?1 AND julianday(event_time) >= julianday(?2)
			UNION
			SELECT date(event_time) FROM issue_events
			WHERE LOWER(repo_name) = ?1 AND julianday(event_time) >= julianday(?2)
			UNION
			SELECT date(event_time) FROM fork_events
			WHERE LOWER(repo_name) = ?1 AND julianday(event_time) >= julianday(?2)
			UNION
			SELECT date(event_time) FROM watch_events
			WHERE LOWER(repo_name) = ?1 AND julianday(event_time) >= julianday(?2)
		)
	`

	var activeDays int
	if err := r.db.QueryRowContext(ctx, query, repo, start).Scan(&activeDays); err != nil {
		return 0, fmt.Errorf("failed to compute activity ratio: %w", err)
	}

	ratio := float64(activeDays) / float64(rangeDays)
	if ratio > 1 {
		ratio = 1
	}
	return ratio, nil
}

// ForkHistogram returns per-day fork counts for the range, oldest bucket
// first.
func (r *DevstatsRepository) ForkHistogram(ctx context.Context, opts stats.HistogramOptions) ([]stats.ForkBucket, error) {
	rows, err := r.histogramRows(ctx, "fork_events", opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build fork histogram: %w", err)
	}

	buckets := make([]stats.ForkBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, stats.ForkBucket{Bucket: row.bucket, ForksCount: row.count})
	}
	return buckets, nil
}

// StarHistogram returns per-day star (watch) counts for the range, oldest
// bucket first.
func (r *DevstatsRepository) StarHistogram(ctx context.Context, opts stats.HistogramOptions) ([]stats.StarBucket, error) {
	rows, err := r.histogramRows(ctx, "watch_events", opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build star histogram: %w", err)
	}

	buckets := make([]stats.StarBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, stats.StarBucket{Bucket: row.bucket, StarCount: row.count})
	}
	return buckets, nil
}

type histogramRow struct {
	bucket time.Time
	count  int64
}

func (r *DevstatsRepository) histogramRows(ctx context.Context, table string, opts stats.HistogramOptions) ([]histogramRow, error) {
	start := sqliteTime(time.Now().AddDate(0, 0, -opts.RangeDays))
	repo := strings.ToLower(opts.Repo)

	// Table name comes from the two callers above, never from input.
	query := fmt.Sprintf(`
		SELECT date(event_time) AS bucket, COUNT(*)
		FROM %s
		WHERE LOWER(repo_name) = ?
		  AND julianday(event_time) >= julianday(?)
		GROUP BY bucket
		ORDER BY bucket ASC
	`, table)

	rows, err := r.db.QueryContext(ctx, query, repo, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []histogramRow
	for rows.Next() {
		var day string
		var row histogramRow
		if err := rows.Scan(&day, &row.count); err != nil {
			return nil, err
		}
		bucket, err := time.Parse("2006-01-02", day)
		if err != nil {
			return nil, fmt.Errorf("parsing bucket date %q: %w", day, err)
		}
		row.bucket = bucket
		result = append(result, row)
	}
	return result, rows.Err()
}

// FindRossIndex returns the share of PR authors within the range who are
// first-time contributors to the given repositories.
func (r *DevstatsRepository) FindRossIndex(ctx context.Context, repoFullNames []string, rangeDays int) (float64, error) {
	if len(repoFullNames) == 0 {
		return 0, nil
	}

	start := sqliteTime(time.Now().AddDate(0, 0, -rangeDays))
	in := inPlaceholders(len(repoFullNames))
	repoArgs := lowerAll(repoFullNames)

	authorsQuery := fmt.Sprintf(`
		SELECT COUNT(DISTINCT actor_login)
		FROM pull_request_events
		WHERE action = 'opened'
		  AND LOWER(repo_name) IN (%s)
		  AND julianday(event_time) >= julianday(?)
	`, in)

	var authors int64
	args := append(append([]any{}, repoArgs...), start)
	if err := r.db.QueryRowContext(ctx, authorsQuery, args...).Scan(&authors); err != nil {
		return 0, fmt.Errorf("failed to count pr authors: %w", err)
	}
	if authors == 0 {
		return 0, nil
	}

	newAuthorsQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM (
			SELECT actor_login
			FROM pull_request_events
			WHERE action = 'opened'
			  AND LOWER(repo_name) IN (%s)
			GROUP BY actor_login
			HAVING MIN(julianday(event_time)) >= julianday(?)
		)
	`, in)

	var newAuthors int64
	if err := r.db.QueryRowContext(ctx, newAuthorsQuery, args...).Scan(&newAuthors); err != nil {
		return 0, fmt.Errorf("failed to count new pr authors: %w", err)
	}

	return float64(newAuthors) / float64(authors), nil
}

// FindRossContributors attributes in-range PR activity per author, most
// active first.
func (r *DevstatsRepository) FindRossContributors(ctx context.Context, repoFullNames []string, rangeDays int) ([]stats.ContributorAttribution, error) {
	if len(repoFullNames) == 0 {
		return []stats.ContributorAttribution{}, nil
	}

	start := sqliteTime(time.Now().AddDate(0, 0, -rangeDays))
	in := inPlaceholders(len(repoFullNames))

	query := fmt.Sprintf(`
		SELECT actor_login, COUNT(*) AS contributions
		FROM pull_request_events
		WHERE action = 'opened'
		  AND LOWER(repo_name) IN (%s)
		  AND julianday(event_time) >= julianday(?)
		GROUP BY actor_login
		ORDER BY contributions DESC, actor_login ASC
	`, in)

	args := append(lowerAll(repoFullNames), start)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ross contributors: %w", err)
	}
	defer rows.Close()

	result := []stats.ContributorAttribution{}
	for rows.Next() {
		var attribution stats.ContributorAttribution
		if err := rows.Scan(&attribution.Login, &attribution.Contributions); err != nil {
			return nil, fmt.Errorf("failed to scan ross contributor: %w", err)
		}
		result = append(result, attribution)
	}
	return result, rows.Err()
}

// FindAllContributorStats returns one stat row per login for events within
// the current range, filtered to the requested contributor cohort. Cohorts
// compare the current range against the preceding range of equal length:
// active contributors appear in both, new contributors have no events before
// the current range, alumni appear only in the preceding range.
func (r *DevstatsRepository) FindAllContributorStats(ctx context.Context, opts stats.ContributorOptions, logins []string) ([]stats.ContributorStat, error) {
	if len(logins) == 0 {
		return []stats.ContributorStat{}, nil
	}

	now := time.Now()
	curStart := sqliteTime(now.AddDate(0, 0, -opts.RangeDays))
	prevStart := sqliteTime(now.AddDate(0, 0, -2*opts.RangeDays))

	typeCase := func(eventType string) string {
		return fmt.Sprintf(
			"SUM(CASE WHEN event_type = '%s' AND julianday(event_time) >= julianday(?) THEN 1 ELSE 0 END)",
			eventType,
		)
	}

	query := fmt.Sprintf(`
		SELECT LOWER(login) AS login,
			%s AS commits,
			%s AS prs_created,
			%s AS prs_reviewed,
			%s AS issues_created,
			%s AS commit_comments,
			%s AS issue_comments,
			%s AS pr_review_comments,
			SUM(CASE WHEN julianday(event_time) >= julianday(?) THEN 1 ELSE 0 END) AS cur_total,
			SUM(CASE WHEN julianday(event_time) >= julianday(?) AND julianday(event_time) < julianday(?) THEN 1 ELSE 0 END) AS prev_total,
			SUM(CASE WHEN julianday(event_time) < julianday(?) THEN 1 ELSE 0 END) AS before_total
		FROM contributor_events
		WHERE LOWER(login) IN (%s)
		GROUP BY LOWER(login)
		ORDER BY LOWER(login) ASC
	`,
		typeCase("commit"),
		typeCase("pr_created"),
		typeCase("pr_reviewed"),
		typeCase("issue_created"),
		typeCase("commit_comment"),
		typeCase("issue_comment"),
		typeCase("pr_review_comment"),
		inPlaceholders(len(logins)),
	)

	args := []any{
		curStart, curStart, curStart, curStart, curStart, curStart, curStart, // per-type windows
		curStart,            // cur_total
		prevStart, curStart, // prev_total
		curStart, // before_total
	}
	args = append(args, lowerAll(logins)...)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contributor stats: %w", err)
	}
	defer rows.Close()

	result := []stats.ContributorStat{}
	for rows.Next() {
		var row stats.ContributorStat
		var curTotal, prevTotal, beforeTotal int64
		if err := rows.Scan(
			&row.Login,
			&row.Commits,
			&row.PRsCreated,
			&row.PRsReviewed,
			&row.IssuesCreated,
			&row.CommitComments,
			&row.IssueComments,
			&row.PRReviewComments,
			&curTotal,
			&prevTotal,
			&beforeTotal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contributor stats: %w", err)
		}

		if !matchesCohort(opts.ContributorType, curTotal, prevTotal, beforeTotal) {
			continue
		}

		row.Comments = row.CommitComments + row.IssueComments + row.PRReviewComments
		row.TotalContributions = row.Commits + row.PRsCreated + row.PRsReviewed + row.IssuesCreated + row.Comments
		result = append(result, row)
	}
	return result, rows.Err()
}

func matchesCohort(cohort stats.ContributorType, curTotal, prevTotal, beforeTotal int64) bool {
	switch cohort {
	case stats.TypeActive:
		return curTotal > 0 && prevTotal > 0
	case stats.TypeNew:
		return curTotal > 0 && beforeTotal == 0
	case stats.TypeAlumni:
		return curTotal == 0 && prevTotal > 0
	default:
		return true
	}
}
