package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/peakguard/peakguard/pkg/log"
	"github.com/peakguard/peakguard/pkg/session"
	"github.com/peakguard/peakguard/pkg/types"
)

func (s *Server) handleGetToggles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.getSession(r).Snapshot())
}

func (s *Server) handleSetToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, 1048576)
	var req struct {
		Kind  types.ToggleKind `json:"kind"`
		Value bool             `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !req.Kind.Valid() {
		writeJSONError(w, "unknown toggle", http.StatusBadRequest)
		return
	}

	toggles, err := s.getSession(r).SetToggle(req.Kind, req.Value)
	if errors.Is(err, session.ErrLatched) {
		writeJSONError(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to set toggle", slog.Any("error", err))
		writeJSONError(w, "failed to set toggle", http.StatusInternalServerError)
		return
	}
	log.Ctx(ctx).InfoContext(ctx, "toggle set", slog.String("kind", string(req.Kind)), slog.Bool("value", req.Value))
	writeJSON(w, toggles)
}

func (s *Server) handleResetToggles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	toggles := s.getSession(r).Reset()
	log.Ctx(ctx).InfoContext(ctx, "manual mitigations reset")
	writeJSON(w, toggles)
}
