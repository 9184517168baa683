package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kestrelhq/workstats/internal/domain/stats"
)

func daysAgo(n int) string {
	return sqliteTime(time.Now().AddDate(0, 0, -n))
}

func seedPREvent(t *testing.T, db *DB, repo string, prNumber int, actor, action string, eventTime string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO pull_request_events (repo_name, pr_number, actor_login, action, event_time) VALUES (?, ?, ?, ?, ?)`,
		repo, prNumber, actor, action, eventTime,
	)
	require.NoError(t, err)
}

func seedIssueEvent(t *testing.T, db *DB, repo string, issueNumber int, action string, eventTime string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO issue_events (repo_name, issue_number, actor_login, action, event_time) VALUES (?, ?, 'someone', ?, ?)`,
		repo, issueNumber, action, eventTime,
	)
	require.NoError(t, err)
}

func seedContributorEvent(t *testing.T, db *DB, login, eventType string, eventTime string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO contributor_events (login, repo_name, event_type, event_time) VALUES (?, 'acme/api', ?, ?)`,
		login, eventType, eventTime,
	)
	require.NoError(t, err)
}

func TestFindPRStats(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	devstats := NewDevstatsRepository(db)

	// Two PRs opened in range, one merged four days after opening.
	seedPREvent(t, db, "acme/api", 1, "alice", "opened", daysAgo(10))
	seedPREvent(t, db, "acme/api", 1, "maintainer", "merged", daysAgo(6))
	seedPREvent(t, db, "acme/api", 2, "bob", "opened", daysAgo(3))
	// Out of range.
	seedPREvent(t, db, "acme/api", 3, "carol", "opened", daysAgo(90))
	// Other repo.
	seedPREvent(t, db, "acme/web", 4, "dave", "opened", daysAgo(2))

	result, err := devstats.FindPRStats(ctx, "ACME/API", 30, time.Time{})
	require.NoError(t, err)
	require.Equal(t, int64(2), result.OpenPRs)
	require.Equal(t, int64(1), result.AcceptedPRs)
	require.InDelta(t, 4.0, result.PRVelocity, 0.1)
}

func TestFindIssueStats(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	devstats := NewDevstatsRepository(db)

	seedIssueEvent(t, db, "acme/api", 1, "opened", daysAgo(8))
	seedIssueEvent(t, db, "acme/api", 1, "closed", daysAgo(6))
	seedIssueEvent(t, db, "acme/api", 2, "opened", daysAgo(4))

	result, err := devstats.FindIssueStats(ctx, "acme/api", 30, time.Time{})
	require.NoError(t, err)
	require.Equal(t, int64(2), result.OpenedIssues)
	require.Equal(t, int64(1), result.ClosedIssues)
	require.InDelta(t, 2.0, result.IssueVelocity, 0.1)
}

func TestActivityRatio(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	devstats := NewDevstatsRepository(db)

	// Three distinct active days in a ten-day range.
	seedPREvent(t, db, "acme/api", 1, "alice", "opened", daysAgo(1))
	seedIssueEvent(t, db, "acme/api", 1, "opened", daysAgo(2))
	seedIssueEvent(t, db, "acme/api", 2, "opened", daysAgo(2))
	seedPREvent(t, db, "acme/api", 2, "bob", "opened", daysAgo(3))

	ratio, err := devstats.CalculateActivityRatio(ctx, "acme/api", 10)
	require.NoError(t, err)
	require.InDelta(t, 0.3, ratio, 1e-9)
}

func TestActivityRatioNoEvents(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	devstats := NewDevstatsRepository(db)

	ratio, err := devstats.CalculateActivityRatio(ctx, "acme/api", 30)
	require.NoError(t, err)
	require.Zero(t, ratio)
}

func TestForkHistogramBucketsByDay(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	devstats := NewDevstatsRepository(db)

	for i := 0; i < 3; i++ {
		_, err := db.Exec(
			`INSERT INTO fork_events (repo_name, actor_login, event_time) VALUES ('acme/api', 'someone', ?)`,
			daysAgo(2),
		)
		require.NoError(t, err)
	}
	_, err := db.Exec(
		`INSERT INTO fork_events (repo_name, actor_login, event_time) VALUES ('acme/api', 'someone', ?)`,
		daysAgo(5),
	)
	require.NoError(t, err)

	buckets, err := devstats.ForkHistogram(ctx, stats.HistogramOptions{Repo: "acme/api", RangeDays: 30})
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	require.Equal(t, int64(1), buckets[0].ForksCount)
	require.Equal(t, int64(3), buckets[1].ForksCount)
	require.True(t, buckets[0].Bucket.Before(buckets[1].Bucket))
}

func TestRossIndexNewAuthorShare(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	devstats := NewDevstatsRepository(db)

	// alice contributed before the range; bob is new within it.
	seedPREvent(t, db, "acme/api", 1, "alice", "opened", daysAgo(90))
	seedPREvent(t, db, "acme/api", 2, "alice", "opened", daysAgo(5))
	seedPREvent(t, db, "acme/api", 3, "bob", "opened", daysAgo(4))

	index, err := devstats.FindRossIndex(ctx, []string{"acme/api"}, 30)
	require.NoError(t, err)
	require.InDelta(t, 0.5, index, 1e-9)
}

func TestRossIndexNoActivity(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	devstats := NewDevstatsRepository(db)

	index, err := devstats.FindRossIndex(ctx, []string{"acme/api"}, 30)
	require.NoError(t, err)
	require.Zero(t, index)
}

func TestRossContributorsOrdering(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	devstats := NewDevstatsRepository(db)

	seedPREvent(t, db, "acme/api", 1, "alice", "opened", daysAgo(5))
	seedPREvent(t, db, "acme/api", 2, "bob", "opened", daysAgo(4))
	seedPREvent(t, db, "acme/api", 3, "bob", "opened", daysAgo(3))

	contribs, err := devstats.FindRossContributors(ctx, []string{"acme/api"}, 30)
	require.NoError(t, err)
	require.Len(t, contribs, 2)
	require.Equal(t, "bob", contribs[0].Login)
	require.Equal(t, int64(2), contribs[0].Contributions)
}

func TestFindAllContributorStats(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	devstats := NewDevstatsRepository(db)

	seedContributorEvent(t, db, "alice", "commit", daysAgo(5))
	seedContributorEvent(t, db, "alice", "commit", daysAgo(4))
	seedContributorEvent(t, db, "alice", "pr_created", daysAgo(3))
	seedContributorEvent(t, db, "alice", "issue_comment", daysAgo(2))
	// Outside the range: ignored by the counters.
	seedContributorEvent(t, db, "alice", "commit", daysAgo(45))
	seedContributorEvent(t, db, "bob", "pr_reviewed", daysAgo(1))

	opts := stats.DefaultContributorOptions()
	rows, err := devstats.FindAllContributorStats(ctx, opts, []string{"alice", "bob"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	alice := rows[0]
	require.Equal(t, "alice", alice.Login)
	require.Equal(t, int64(2), alice.Commits)
	require.Equal(t, int64(1), alice.PRsCreated)
	require.Equal(t, int64(1), alice.IssueComments)
	require.Equal(t, int64(1), alice.Comments)
	require.Equal(t, int64(4), alice.TotalContributions)

	bob := rows[1]
	require.Equal(t, int64(1), bob.PRsReviewed)
	require.Equal(t, int64(1), bob.TotalContributions)
}

func TestFindAllContributorStatsNormalizesLoginCase(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	devstats := NewDevstatsRepository(db)

	// Events ingested under mixed-case logins still count for the
	// lower-cased identity the roster filter produces.
	seedContributorEvent(t, db, "Alice", "commit", daysAgo(5))
	seedContributorEvent(t, db, "alice", "pr_created", daysAgo(4))

	opts := stats.DefaultContributorOptions()
	rows, err := devstats.FindAllContributorStats(ctx, opts, []string{"alice"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "alice", rows[0].Login)
	require.Equal(t, int64(1), rows[0].Commits)
	require.Equal(t, int64(1), rows[0].PRsCreated)
	require.Equal(t, int64(2), rows[0].TotalContributions)
}

func TestFindAllContributorStatsCohorts(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)
	devstats := NewDevstatsRepository(db)

	// veteran: events in both the current and the preceding 30-day window.
	seedContributorEvent(t, db, "veteran", "commit", daysAgo(5))
	seedContributorEvent(t, db, "veteran", "commit", daysAgo(40))
	// rookie: first event inside the current window.
	seedContributorEvent(t, db, "rookie", "commit", daysAgo(3))
	// emeritus: events only in the preceding window.
	seedContributorEvent(t, db, "emeritus", "commit", daysAgo(35))

	logins := []string{"veteran", "rookie", "emeritus"}

	cases := []struct {
		cohort   stats.ContributorType
		expected []string
	}{
		{stats.TypeAll, []string{"emeritus", "rookie", "veteran"}},
		{stats.TypeActive, []string{"veteran"}},
		{stats.TypeNew, []string{"rookie"}},
		{stats.TypeAlumni, []string{"emeritus"}},
	}

	for _, tc := range cases {
		opts := stats.DefaultContributorOptions()
		opts.ContributorType = tc.cohort

		rows, err := devstats.FindAllContributorStats(ctx, opts, logins)
		require.NoError(t, err, "cohort %s", tc.cohort)

		got := make([]string, 0, len(rows))
		for _, row := range rows {
			got = append(got, row.Login)
		}
		require.Equal(t, tc.expected, got, "cohort %s", tc.cohort)
	}
}
