package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/peakguard/peakguard/pkg/log"
	"github.com/peakguard/peakguard/pkg/storage"
	"github.com/peakguard/peakguard/pkg/types"
	"github.com/peakguard/peakguard/pkg/utility"
)

func (s *Server) handleListArchetypes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := s.catalog.List(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to list archetypes", slog.Any("error", err))
		writeJSONError(w, "failed to list archetypes", http.StatusInternalServerError)
		return
	}
	writeJSON(w, list)
}

// handleDefaults returns the inputs a session starts with for a building use,
// or for the first archetype when none is given.
func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var a types.BuildingArchetype
	var err error
	if use := r.URL.Query().Get("buildingUse"); use != "" {
		a, err = s.catalog.Profile(ctx, use)
	} else {
		var list []types.BuildingArchetype
		list, err = s.catalog.List(ctx)
		if err == nil {
			a = list[0]
		}
	}
	if errors.Is(err, storage.ErrArchetypeNotFound) {
		writeJSONError(w, "unknown building use", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to get archetype", slog.Any("error", err))
		writeJSONError(w, "failed to get archetype", http.StatusInternalServerError)
		return
	}
	writeJSON(w, types.DefaultSituationalInput(a))
}

func (s *Server) handleListTariffs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, utility.Schedule())
}
