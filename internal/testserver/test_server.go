// Package testserver boots a fully wired HTTP server over an in-memory
// database for end-to-end tests.
package testserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrelhq/workstats/internal/domain/stats"
	"github.com/kestrelhq/workstats/internal/domain/workspace"
	"github.com/kestrelhq/workstats/internal/sqlite"
	"github.com/kestrelhq/workstats/internal/transport"
)

type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Token  string
	UserID string
}

// New boots a server whose api_keys table contains the given token mapped to
// userID.
func New(t *testing.T, token, userID string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	workspaceRepo := sqlite.NewWorkspaceRepository(db)
	repoLinks := sqlite.NewRepoLinkRepository(db)
	roster := sqlite.NewContributorRosterRepository(db)
	devstats := sqlite.NewDevstatsRepository(db)

	statsService := stats.NewService(
		workspaceRepo,
		workspace.NewRepoSetResolver(repoLinks),
		stats.NewStatsAggregator(devstats, devstats, devstats, devstats, devstats, nil),
		stats.NewRossAggregator(devstats, nil),
		stats.NewContributorRanker(roster, devstats, nil),
		nil,
	)

	resolver := &apiKeyResolver{db: db}
	server := httptest.NewServer(transport.NewRouter(statsService, resolver, nil))

	ts := &TestServer{
		Server: server,
		DB:     db,
		Token:  token,
		UserID: userID,
	}

	if token != "" {
		sum := sha256.Sum256([]byte(token))
		_, err = db.Exec(
			`INSERT INTO api_keys (key_hash, user_id) VALUES (?, ?)`,
			hex.EncodeToString(sum[:]), userID,
		)
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		server.Close()
		db.Close()
	})

	return ts
}

type apiKeyResolver struct {
	db *sqlite.DB
}

func (r *apiKeyResolver) ResolveUser(ctx context.Context, token string) (string, error) {
	sum := sha256.Sum256([]byte(token))
	var userID string
	err := r.db.QueryRowContext(ctx, `SELECT user_id FROM api_keys WHERE key_hash = ?`, hex.EncodeToString(sum[:])).Scan(&userID)
	if err != nil {
		return "", fmt.Errorf("unauthorized: invalid token")
	}
	return userID, nil
}
