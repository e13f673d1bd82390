package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/knotworks/forcemap/pkg/errors"
	"github.com/knotworks/forcemap/pkg/pipeline"
	"github.com/knotworks/forcemap/pkg/render"
	"github.com/knotworks/forcemap/pkg/store"
)

// maxRequestBody caps POST bodies at 8 MiB. Entity sets are small;
// anything larger is a client mistake.
const maxRequestBody = 8 << 20

// createResponse is the body returned by POST /v1/layouts.
type createResponse struct {
	ID            string          `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	Layout        json.RawMessage `json:"layout"`
	Relationships int             `json:"relationships"`
	CacheHit      bool            `json:"cache_hit"`
}

// errorResponse is the JSON error envelope for every non-2xx response.
type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{
		"status":     "ok",
		"uptime":     time.Since(s.startTime).Round(time.Second).String(),
		"go_version": runtime.Version(),
	})
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&opts); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	// The stored layout must round-trip to JSON regardless of the
	// formats the client asked for.
	opts.Formats = []string{pipeline.FormatJSON}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec := store.Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Layout:    result.Layout,
	}
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "persist layout"))
		return
	}

	s.logger.Info("layout created",
		"id", rec.ID,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"request_id", requestIDFrom(r.Context()))

	s.writeJSON(w, r, http.StatusCreated, createResponse{
		ID:            rec.ID,
		CreatedAt:     rec.CreatedAt,
		Layout:        result.Artifacts[pipeline.FormatJSON],
		Relationships: len(result.Relationships),
		CacheHit:      result.CacheInfo.LayoutHit,
	})
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.fetch(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, r, http.StatusOK, rec)
}

func (s *Server) handleGetLayoutSVG(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.fetch(w, r)
	if !ok {
		return
	}

	dot := render.ToDOT(rec.Layout, render.Options{})
	svg, err := render.SVG(dot)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(svg)
}

func (s *Server) fetch(w http.ResponseWriter, r *http.Request) (store.Record, bool) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			s.writeError(w, r, errors.New(errors.ErrCodeLayoutNotFound, "layout %s not found", id))
		} else {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeStorage, err, "load layout"))
		}
		return store.Record{}, false
	}
	return rec, true
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err, "request_id", requestIDFrom(r.Context()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err, "request_id", requestIDFrom(r.Context()))
	}
	s.writeJSON(w, r, status, errorResponse{
		Code:      string(code),
		Message:   errors.UserMessage(err),
		RequestID: requestIDFrom(r.Context()),
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidEngine,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidEntity:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeLayoutNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
