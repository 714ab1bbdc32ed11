package api

import (
	"net/http"

	"github.com/collectops/agentboard/backend/internal/sheets"
	"github.com/collectops/agentboard/backend/internal/workingset"
	"github.com/rs/zerolog"
)

// DashboardHandler combines working-set figures with the side sheets and
// target settings into the summary view
type DashboardHandler struct {
	workingSet *workingset.Store
	sheets     *sheets.Store
	targets    *sheets.TargetStore
	logger     zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(ws *workingset.Store, sh *sheets.Store, targets *sheets.TargetStore, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		workingSet: ws,
		sheets:     sh,
		targets:    targets,
		logger:     logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

type dashboardResponse struct {
	PostedAED        float64 `json:"postedAed"`
	CollectionsCount int     `json:"collectionsCount"`
	PTPAmount        float64 `json:"ptpAmount"`
	PTPCount         int     `json:"ptpCount"`

	TargetAED       float64 `json:"targetAed"`
	TargetSet       bool    `json:"targetSet"`
	ProgressPercent float64 `json:"progressPercent"`

	GridRows int `json:"gridRows"`
}

// Get handles GET /api/dashboard?client=&date=&mode=
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	filter := sheets.PeriodFilter(mode)

	payment := h.sheets.AmountSeries(client, sheets.KindPayment, at, filter)
	ptp := h.sheets.AmountSeries(client, sheets.KindPTP, at, filter)

	resp := dashboardResponse{
		PostedAED:        payment.Amount,
		CollectionsCount: payment.Records,
		PTPAmount:        ptp.Amount,
		PTPCount:         ptp.Records,
		GridRows:         len(h.workingSet.Records(client, at, workingset.DateFilter(mode))),
	}

	if target, set := h.targets.Resolve(client, at, filter); set {
		resp.TargetAED = target
		resp.TargetSet = true
		if target > 0 {
			resp.ProgressPercent = resp.PostedAED / target * 100
		}
	}

	respondJSON(w, http.StatusOK, resp)
}
