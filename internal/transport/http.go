package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kestrelhq/workstats/internal/domain/stats"
	"github.com/kestrelhq/workstats/internal/domain/workspace"
	"github.com/kestrelhq/workstats/internal/page"
)

const defaultRangeDays = 30

// Server wires HTTP handlers for the workspace statistics endpoints.
type Server struct {
	stats  *stats.Service
	logger *slog.Logger
}

// NewRouter creates the HTTP router. The user middleware is optional; without
// it every request is anonymous.
func NewRouter(statsService *stats.Service, resolver UserResolver, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	if resolver != nil {
		r.Use(UserMiddleware(resolver))
	}

	srv := &Server{stats: statsService, logger: logger}

	r.Get("/health", srv.handleHealth)
	r.Route("/workspaces/{workspaceID}", func(r chi.Router) {
		r.Get("/stats", srv.handleStats)
		r.Get("/ross", srv.handleRoss)
		r.Get("/contributors", srv.handleContributors)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	opts, err := parseStatsOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.stats.Stats(
		r.Context(),
		chi.URLParam(r, "workspaceID"),
		UserFromContext(r.Context()),
		opts,
	)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, result)
}

func (s *Server) handleRoss(w http.ResponseWriter, r *http.Request) {
	rangeDays, err := parseRangeDays(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.stats.Ross(
		r.Context(),
		chi.URLParam(r, "workspaceID"),
		UserFromContext(r.Context()),
		stats.RossOptions{RangeDays: rangeDays},
	)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, result)
}

func (s *Server) handleContributors(w http.ResponseWriter, r *http.Request) {
	opts, err := parseContributorOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.stats.Contributors(
		r.Context(),
		chi.URLParam(r, "workspaceID"),
		UserFromContext(r.Context()),
		opts,
	)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, result)
}

func parseRangeDays(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("range")
	if raw == "" {
		return defaultRangeDays, nil
	}
	rangeDays, err := strconv.Atoi(raw)
	if err != nil {
		return 0, stats.ErrInvalidOptions
	}
	return rangeDays, nil
}

func parseStatsOptions(r *http.Request) (stats.StatsOptions, error) {
	rangeDays, err := parseRangeDays(r)
	if err != nil {
		return stats.StatsOptions{}, err
	}

	opts := stats.StatsOptions{
		RangeDays:  rangeDays,
		RepoFilter: r.URL.Query().Get("repos"),
	}

	if raw := r.URL.Query().Get("prev_days_start_date"); raw != "" {
		prevStart, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return stats.StatsOptions{}, stats.ErrInvalidOptions
		}
		opts.PrevDaysStartDate = prevStart
	}

	return opts, nil
}

func parseContributorOptions(r *http.Request) (stats.ContributorOptions, error) {
	opts := stats.DefaultContributorOptions()
	query := r.URL.Query()

	if raw := query.Get("page"); raw != "" {
		pageNum, err := strconv.Atoi(raw)
		if err != nil {
			return stats.ContributorOptions{}, stats.ErrInvalidOptions
		}
		opts.Page = pageNum
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return stats.ContributorOptions{}, stats.ErrInvalidOptions
		}
		opts.Limit = limit
	}
	if raw := query.Get("orderDirection"); raw != "" {
		opts.Order = page.Order(raw)
	}
	if raw := query.Get("orderBy"); raw != "" {
		opts.OrderBy = stats.ContributorOrder(raw)
	}
	if raw := query.Get("contributorType"); raw != "" {
		opts.ContributorType = stats.ContributorType(raw)
	}
	if raw := query.Get("range"); raw != "" {
		rangeDays, err := strconv.Atoi(raw)
		if err != nil {
			return stats.ContributorOptions{}, stats.ErrInvalidOptions
		}
		opts.RangeDays = rangeDays
	}

	return opts, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil && s.logger != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workspace.ErrWorkspaceNotFound):
		writeJSONError(w, http.StatusNotFound, "workspace not found")
	case errors.Is(err, stats.ErrInvalidOptions), errors.Is(err, page.ErrInvalidOptions):
		writeJSONError(w, http.StatusBadRequest, "invalid request")
	default:
		if s.logger != nil {
			s.logger.Error("request failed", "error", err)
		}
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
