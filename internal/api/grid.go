package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/collectops/agentboard/backend/internal/types"
	"github.com/collectops/agentboard/backend/internal/workingset"
	"github.com/rs/zerolog"
)

// GridHandler serves the working-set grid: reads, row edits, row removal
// and the CSV export
type GridHandler struct {
	store  *workingset.Store
	logger zerolog.Logger
}

// NewGridHandler creates a new GridHandler
func NewGridHandler(store *workingset.Store, logger zerolog.Logger) *GridHandler {
	return &GridHandler{
		store:  store,
		logger: logger.With().Str("component", "grid_handler").Logger(),
	}
}

// Get handles GET /api/grid?client=&date=&mode=
func (h *GridHandler) Get(w http.ResponseWriter, r *http.Request) {
	client, ok := clientParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "client must be ENBD or EIB")
		return
	}
	at, mode, err := periodParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	records := h.store.Records(client, at, workingset.DateFilter(mode))
	if records == nil {
		records = []types.AgentMetricRecord{}
	}
	respondJSON(w, http.StatusOK, records)
}

type gridUpdateRequest struct {
	Client types.Client      `json:"client"`
	Patch  types.MetricPatch `json:"patch"`
}

// Update handles PUT /api/grid, applying a field-level edit to one row
func (h *GridHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req gridUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Client.Valid() {
		respondError(w, http.StatusBadRequest, "client must be ENBD or EIB")
		return
	}
	if req.Patch.AgentUser == "" {
		respondError(w, http.StatusBadRequest, "patch.agentUser is required")
		return
	}

	if !h.store.Update(req.Client, req.Patch.AgentUser, &req.Patch) {
		respondError(w, http.StatusNotFound, "agent not found in working set")
		return
	}

	h.logger.Info().
		Str("client", string(req.Client)).
		Str("agent", req.Patch.AgentUser).
		Msg("grid row edited")
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Delete handles DELETE /api/grid?client=&agent=
func (h *GridHandler) Delete(w http.ResponseWriter, r *http.Request) {
	client, ok := clientParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "client must be ENBD or EIB")
		return
	}
	agent := r.URL.Query().Get("agent")
	if agent == "" {
		respondError(w, http.StatusBadRequest, "agent query parameter is required")
		return
	}

	if !h.store.Remove(client, agent) {
		respondError(w, http.StatusNotFound, "agent not found in working set")
		return
	}

	h.logger.Info().
		Str("client", string(client)).
		Str("agent", agent).
		Msg("grid row removed")
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Export handles GET /api/grid/export?client=&date=&mode=
func (h *GridHandler) Export(w http.ResponseWriter, r *http.Request) {
	client, ok := clientParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "client must be ENBD or EIB")
		return
	}
	at, mode, err := periodParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.store.ExportCSV(client, at, workingset.DateFilter(mode))
	if err != nil {
		h.logger.Error().Err(err).Str("client", string(client)).Msg("export failed")
		respondError(w, http.StatusInternalServerError, "export failed")
		return
	}

	filename := fmt.Sprintf("%s_working_set_%s.csv", client, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(data)
}
