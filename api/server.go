package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"housing-dashboard/models"
	"housing-dashboard/services"
	"housing-dashboard/utils"
)

// SnapshotHeader names the table snapshot a response was computed from.
const SnapshotHeader = "X-Snapshot-ID"

// viewFunc computes one view. rows are the whole table.
type viewFunc func(r *http.Request, rows []*models.Respondent, filter services.FilterSpec) (any, error)

// Server exposes one endpoint per dashboard view over the cached table.
type Server struct {
	logger   *utils.Logger
	cache    *services.TableCache
	insights *services.InsightService
	dataPath string
	mux      *http.ServeMux
}

func NewServer(logger *utils.Logger, cache *services.TableCache, insights *services.InsightService, dataPath string) *Server {
	s := &Server{
		logger:   logger,
		cache:    cache,
		insights: insights,
		dataPath: dataPath,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.method(http.MethodGet, s.health))
	s.mux.HandleFunc("/api/overview", s.view(filtered(func(_ *http.Request, rows []*models.Respondent) (any, error) {
		return s.insights.Overview(rows), nil
	})))
	s.mux.HandleFunc("/api/distribution", s.view(filtered(func(_ *http.Request, rows []*models.Respondent) (any, error) {
		return s.insights.Distribution(rows), nil
	})))
	s.mux.HandleFunc("/api/geography", s.view(filtered(func(r *http.Request, rows []*models.Respondent) (any, error) {
		return s.insights.Geography(rows, strings.TrimSpace(r.URL.Query().Get("region"))), nil
	})))
	s.mux.HandleFunc("/api/satisfaction", s.view(filtered(func(_ *http.Request, rows []*models.Respondent) (any, error) {
		return s.insights.Satisfaction(rows), nil
	})))
	s.mux.HandleFunc("/api/affordability", s.view(filtered(func(r *http.Request, rows []*models.Respondent) (any, error) {
		income, err := parseIncome(r.URL.Query())
		if err != nil {
			return nil, err
		}
		return s.insights.Affordability(rows, income), nil
	})))
	s.mux.HandleFunc("/api/education", s.view(filtered(func(_ *http.Request, rows []*models.Respondent) (any, error) {
		return s.insights.EducationEmployment(rows), nil
	})))
	s.mux.HandleFunc("/api/housing-sizes", s.view(filtered(func(_ *http.Request, rows []*models.Respondent) (any, error) {
		return s.insights.HousingSizes(rows), nil
	})))
	s.mux.HandleFunc("/api/explore", s.view(s.explore))
	s.mux.HandleFunc("/api/reload", s.method(http.MethodPost, s.reload))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	start := time.Now()
	s.mux.ServeHTTP(rec, r)
	s.logger.Debug("[api] %s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[api] Listening on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api: listen %s: %w", addr, err)
	case <-ctx.Done():
		s.logger.Info("[api] Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) method(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			writeJSON(w, http.StatusMethodNotAllowed, Fail("method not allowed"))
			return
		}
		h(w, r)
	}
}

// filtered applies the request filter before computing the view.
func filtered(fn func(r *http.Request, rows []*models.Respondent) (any, error)) viewFunc {
	return func(r *http.Request, rows []*models.Respondent, filter services.FilterSpec) (any, error) {
		return fn(r, services.ApplyFilters(rows, filter))
	}
}

// view loads the current table and runs fn. A table that failed to load is
// served as an empty table with the load error as the message.
func (s *Server) view(fn viewFunc) http.HandlerFunc {
	return s.method(http.MethodGet, func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r.URL.Query())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
			return
		}

		table := s.cache.Get(r.Context(), s.dataPath)
		w.Header().Set(SnapshotHeader, table.ID)

		result, err := fn(r, table.Rows, filter)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
			return
		}
		if table.Err != nil {
			writeJSON(w, http.StatusOK, Degraded(table.Message(), result))
			return
		}
		writeJSON(w, http.StatusOK, Ok(result))
	})
}

func (s *Server) explore(r *http.Request, rows []*models.Respondent, filter services.FilterSpec) (any, error) {
	q := r.URL.Query()
	return s.insights.Explore(rows, services.ExploreQuery{
		Filter:  filter,
		GroupBy: strings.TrimSpace(q.Get("group_by")),
		Value:   strings.TrimSpace(q.Get("value")),
		Agg:     strings.ToLower(strings.TrimSpace(q.Get("agg"))),
	})
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Ok(healthResponse{Status: "ok"}))
}

type reloadResponse struct {
	SnapshotID string    `json:"snapshot_id"`
	Rows       int       `json:"rows"`
	LoadedAt   time.Time `json:"loaded_at"`
}

func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	if err := s.cache.Invalidate(r.Context(), s.dataPath); err != nil {
		s.logger.Error("[api] Reload failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, Fail(err.Error()))
		return
	}

	table := s.cache.Get(r.Context(), s.dataPath)
	w.Header().Set(SnapshotHeader, table.ID)
	resp := reloadResponse{SnapshotID: table.ID, Rows: len(table.Rows), LoadedAt: table.LoadedAt}
	if table.Err != nil {
		writeJSON(w, http.StatusOK, Degraded(table.Message(), resp))
		return
	}
	s.logger.Info("[api] Reloaded %s (%d rows)", s.dataPath, len(table.Rows))
	writeJSON(w, http.StatusOK, Ok(resp))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
