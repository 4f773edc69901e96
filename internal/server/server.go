// Package server exposes building energy computation over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aclements/solargrid/building"
	"github.com/aclements/solargrid/grid"
	"github.com/aclements/solargrid/internal/config"
	"github.com/gorilla/mux"
)

// maxBody limits the size of a request.
const maxBody = 1 << 20

type Server struct {
	workers int
	logger  *slog.Logger
	metrics *metrics
}

// New returns a server that computes each building with up to workers
// goroutines.
func New(workers int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{workers: workers, logger: logger, metrics: newMetrics()}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/healthz", s.metrics.wrap("healthz", s.health)).Methods("GET")
	r.Handle("/api/energy", s.metrics.wrap("energy", s.energy)).Methods("POST")
	r.Handle("/metrics", s.metrics.handler()).Methods("GET")
	return r
}

// EnergyRequest is the body of POST /api/energy. Surrounding meshes in
// the environment are ignored: only the building shades itself.
type EnergyRequest struct {
	Building    building.Building  `json:"building"`
	Environment config.Environment `json:"environment"`
}

type EnergyResponse struct {
	Total  float64          `json:"total"`
	Sun    sunState         `json:"sun"`
	Result *building.Result `json:"result"`
}

type sunState struct {
	DayOfYear int     `json:"dayOfYear"`
	Elevation float64 `json:"elevation"`
	Up        bool    `json:"up"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) energy(w http.ResponseWriter, r *http.Request) {
	var req EnergyRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{fmt.Sprintf("decoding request: %s", err)})
		return
	}
	b, e := &req.Building, &req.Environment
	b.FillIDs()
	if err := b.Validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{err.Error()})
		return
	}
	if err := e.Validate(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{err.Error()})
		return
	}

	sc, err := e.Scene(b, false)
	if err != nil {
		writeJSON(w, statusFor(err), errorResponse{err.Error()})
		return
	}
	env := e.Env(e.Time, sc.Oracle(e.Time.YearDay()), s.logger)

	start := time.Now()
	res, err := b.Energy(r.Context(), env, s.workers)
	if err != nil {
		s.logger.Warn("energy computation failed", "err", err)
		writeJSON(w, statusFor(err), errorResponse{err.Error()})
		return
	}
	s.metrics.computeDuration.Observe(time.Since(start).Seconds())
	s.metrics.surfacesTotal.Add(float64(len(res.Walls) + len(res.Doors) + countSegments(res)))

	writeJSON(w, http.StatusOK, EnergyResponse{
		Total: res.Total(),
		Sun: sunState{
			DayOfYear: env.Sun.DayOfYear,
			Elevation: env.Sun.ElevationAngle,
			Up:        env.Sun.Up(),
		},
		Result: res,
	})
}

func countSegments(res *building.Result) int {
	n := 0
	for _, segs := range res.Roofs {
		n += len(segs)
	}
	return n
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, building.ErrInvalidBuilding), errors.Is(err, grid.ErrInvalidSurfaceGeometry):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
