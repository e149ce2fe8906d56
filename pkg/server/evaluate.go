package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/peakguard/peakguard/pkg/diagnosis"
	"github.com/peakguard/peakguard/pkg/log"
	"github.com/peakguard/peakguard/pkg/predictor"
	"github.com/peakguard/peakguard/pkg/report"
	"github.com/peakguard/peakguard/pkg/storage"
	"github.com/peakguard/peakguard/pkg/types"
)

type evaluateResponse struct {
	Result    types.DecisionResult    `json:"result"`
	Diagnosis types.Diagnosis         `json:"diagnosis"`
	Toggles   types.MitigationToggles `json:"toggles"`
}

// evaluate decodes the input from the request and runs a cycle against the
// session's toggles. It writes the error response itself and returns false on
// failure.
func (s *Server) evaluate(w http.ResponseWriter, r *http.Request) (types.SituationalInput, types.MitigationToggles, types.DecisionResult, bool) {
	ctx := r.Context()
	sess := s.getSession(r)

	// Limit body size to 1MB to prevent DoS
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)
	var in types.SituationalInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to decode input", slog.Any("error", err))
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return in, types.MitigationToggles{}, types.DecisionResult{}, false
	}

	// the operator hasn't picked an area so use the typical one for the use
	if in.AreaSqFt == 0 && in.BuildingUse != "" {
		a, err := s.catalog.Profile(ctx, in.BuildingUse)
		if errors.Is(err, storage.ErrArchetypeNotFound) {
			s.metrics.evaluationErrors.WithLabelValues("invalidInput").Inc()
			writeJSONError(w, "unknown building use", http.StatusBadRequest)
			return in, types.MitigationToggles{}, types.DecisionResult{}, false
		}
		if err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to get archetype", slog.Any("error", err))
			writeJSONError(w, "failed to get archetype", http.StatusInternalServerError)
			return in, types.MitigationToggles{}, types.DecisionResult{}, false
		}
		in.AreaSqFt = a.TypicalAreaSqFt
	}

	toggles := sess.Snapshot()
	res, err := s.controller.Evaluate(ctx, in, toggles)
	switch {
	case err == nil:
	case errors.Is(err, types.ErrInvalidInput):
		s.metrics.evaluationErrors.WithLabelValues("invalidInput").Inc()
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return in, toggles, res, false
	case errors.Is(err, predictor.ErrUnavailable):
		// there's no safe estimate to continue with so the session is over
		s.sessions.Delete(sess.ID())
		s.metrics.evaluationErrors.WithLabelValues("predictorUnavailable").Inc()
		log.Ctx(ctx).ErrorContext(ctx, "predictor unavailable, session aborted", slog.Any("error", err))
		writeJSONError(w, "load predictor unavailable", http.StatusServiceUnavailable)
		return in, toggles, res, false
	default:
		s.metrics.evaluationErrors.WithLabelValues("internal").Inc()
		log.Ctx(ctx).ErrorContext(ctx, "failed to evaluate", slog.Any("error", err))
		writeJSONError(w, "failed to evaluate", http.StatusInternalServerError)
		return in, toggles, res, false
	}

	s.metrics.observeEvaluation(res)
	return in, toggles, res, true
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	_, toggles, res, ok := s.evaluate(w, r)
	if !ok {
		return
	}
	writeJSON(w, evaluateResponse{
		Result:    res,
		Diagnosis: diagnosis.Classify(res),
		Toggles:   toggles,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	in, toggles, res, ok := s.evaluate(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, report.Meta{Date: s.now(), Input: in, Toggles: toggles}, res); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to write report", slog.Any("error", err))
		writeJSONError(w, "failed to write report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.FileName(in.HourOfDay)+`"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		panic(http.ErrAbortHandler)
	}
}
