package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/collectops/agentboard/backend/internal/sheets"
	"github.com/collectops/agentboard/backend/internal/types"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// SheetsHandler serves the payment-monitoring and PTP-list side sheets and
// the collection target settings
type SheetsHandler struct {
	sheets  *sheets.Store
	targets *sheets.TargetStore
	logger  zerolog.Logger
}

// NewSheetsHandler creates a new SheetsHandler
func NewSheetsHandler(store *sheets.Store, targets *sheets.TargetStore, logger zerolog.Logger) *SheetsHandler {
	return &SheetsHandler{
		sheets:  store,
		targets: targets,
		logger:  logger.With().Str("component", "sheets_handler").Logger(),
	}
}

func sheetKind(r *http.Request) (sheets.Kind, bool) {
	k := sheets.Kind(chi.URLParam(r, "kind"))
	return k, k.Valid()
}

type sheetResponse struct {
	Columns []string      `json:"columns"`
	Rows    []sheets.Row  `json:"rows"`
	Totals  sheets.Totals `json:"totals"`
}

// Get handles GET /api/sheets/{kind}?client=
func (h *SheetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	client, ok := clientParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "client must be ENBD or EIB")
		return
	}
	kind, ok := sheetKind(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "sheet kind must be payment or ptp")
		return
	}

	respondJSON(w, http.StatusOK, sheetResponse{
		Columns: sheets.Columns(kind),
		Rows:    h.sheets.Rows(client, kind),
		Totals:  h.sheets.Totals(client, kind),
	})
}

type sheetAddRequest struct {
	Client types.Client      `json:"client"`
	Values map[string]string `json:"values"`
}

// Add handles POST /api/sheets/{kind}
func (h *SheetsHandler) Add(w http.ResponseWriter, r *http.Request) {
	kind, ok := sheetKind(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "sheet kind must be payment or ptp")
		return
	}

	var req sheetAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Client.Valid() {
		respondError(w, http.StatusBadRequest, "client must be ENBD or EIB")
		return
	}

	row, err := h.sheets.Add(req.Client, kind, req.Values)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, row)
}

// Delete handles DELETE /api/sheets/{kind}/{rowID}?client=
func (h *SheetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	client, ok := clientParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "client must be ENBD or EIB")
		return
	}
	kind, ok := sheetKind(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "sheet kind must be payment or ptp")
		return
	}

	if err := h.sheets.Delete(client, kind, chi.URLParam(r, "rowID")); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Export handles GET /api/sheets/{kind}/export?client=
func (h *SheetsHandler) Export(w http.ResponseWriter, r *http.Request) {
	client, ok := clientParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "client must be ENBD or EIB")
		return
	}
	kind, ok := sheetKind(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "sheet kind must be payment or ptp")
		return
	}

	data, err := h.sheets.ExportCSV(client, kind)
	if err != nil {
		h.logger.Error().Err(err).Str("client", string(client)).Str("sheet", string(kind)).Msg("sheet export failed")
		respondError(w, http.StatusInternalServerError, "export failed")
		return
	}

	filename := fmt.Sprintf("%s_%s_data_%s.csv", client, kind, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(data)
}

// GetTargets handles GET /api/targets?client=
func (h *SheetsHandler) GetTargets(w http.ResponseWriter, r *http.Request) {
	client, ok := clientParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "client must be ENBD or EIB")
		return
	}
	respondJSON(w, http.StatusOK, h.targets.List(client))
}

type targetRequest struct {
	Client types.Client  `json:"client"`
	Target sheets.Target `json:"target"`
}

// PutTarget handles PUT /api/targets, adding or updating one month's target
func (h *SheetsHandler) PutTarget(w http.ResponseWriter, r *http.Request) {
	var req targetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Client.Valid() {
		respondError(w, http.StatusBadRequest, "client must be ENBD or EIB")
		return
	}

	if err := h.targets.Set(req.Client, req.Target); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info().
		Str("client", string(req.Client)).
		Int("year", req.Target.Year).
		Int("month", req.Target.Month).
		Float64("amount_aed", req.Target.AmountAED).
		Msg("collection target set")
	respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// DeleteTarget handles DELETE /api/targets?client=&year=&month=
func (h *SheetsHandler) DeleteTarget(w http.ResponseWriter, r *http.Request) {
	client, ok := clientParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "client must be ENBD or EIB")
		return
	}
	year, errY := strconv.Atoi(r.URL.Query().Get("year"))
	month, errM := strconv.Atoi(r.URL.Query().Get("month"))
	if errY != nil || errM != nil {
		respondError(w, http.StatusBadRequest, "year and month query parameters are required")
		return
	}

	if !h.targets.Delete(client, year, month) {
		respondError(w, http.StatusNotFound, "no target for that month")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
