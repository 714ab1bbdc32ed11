package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/collectops/agentboard/backend/internal/ingest"
	"github.com/collectops/agentboard/backend/internal/metrics"
	"github.com/collectops/agentboard/backend/internal/pipeline"
	"github.com/collectops/agentboard/backend/internal/types"
	"github.com/collectops/agentboard/backend/internal/workingset"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UploadHandler runs the ingestion pipeline over uploaded files and holds
// the results as pending uploads until the user confirms or abandons them.
// Nothing touches the working set before confirmation.
type UploadHandler struct {
	runner   *pipeline.Runner
	store    *workingset.Store
	maxBytes int64
	logger   zerolog.Logger

	mu      sync.Mutex
	pending map[string]*types.UploadResult
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(runner *pipeline.Runner, store *workingset.Store, maxBytes int64, logger zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		runner:   runner,
		store:    store,
		maxBytes: maxBytes,
		logger:   logger.With().Str("component", "upload_handler").Logger(),
		pending:  make(map[string]*types.UploadResult),
	}
}

type uploadResponse struct {
	UploadID string              `json:"uploadId"`
	Result   *types.UploadResult `json:"result"`
	Warnings []string            `json:"warnings,omitempty"`
}

// Upload handles POST /api/uploads (multipart: file, client, start_date)
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		respondError(w, http.StatusBadRequest, "file too large or malformed form")
		return
	}

	client := types.Client(r.FormValue("client"))
	if !client.Valid() {
		respondError(w, http.StatusBadRequest, "client must be ENBD or EIB")
		return
	}

	periodStart := time.Now()
	if raw := r.FormValue("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			return
		}
		periodStart = parsed
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	upload, err := ingest.Parse(file, header.Filename)
	if err != nil {
		metrics.Get().RecordUploadError()
		h.logger.Warn().Err(err).Str("filename", header.Filename).Msg("upload rejected")
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	metrics.Get().RecordUploadReceived(int64(len(upload.Table.Rows)))

	start := time.Now()
	result := h.runner.Run(upload.Table, upload.Ref, client, periodStart)
	metrics.Get().RecordPipelineRun(time.Since(start))

	id := uuid.New().String()
	h.mu.Lock()
	h.pending[id] = result
	h.mu.Unlock()

	h.logger.Info().
		Str("upload_id", id).
		Str("filename", header.Filename).
		Str("client", string(client)).
		Int("agents", result.AgentsAggregated).
		Msg("upload staged for confirmation")

	respondJSON(w, http.StatusOK, uploadResponse{
		UploadID: id,
		Result:   result,
		Warnings: upload.Warnings,
	})
}

// Confirm handles POST /api/uploads/{uploadID}/confirm, folding the staged
// result into the working set
func (h *UploadHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uploadID")

	h.mu.Lock()
	result, ok := h.pending[id]
	if ok {
		delete(h.pending, id)
	}
	h.mu.Unlock()

	if !ok {
		respondError(w, http.StatusNotFound, "no pending upload with that id")
		return
	}

	h.store.Merge(result)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "merged",
		"client":  result.Client,
		"agents":  result.AgentsAggregated,
		"notices": result.Notices,
	})
}

// Discard handles DELETE /api/uploads/{uploadID}, dropping a staged upload
func (h *UploadHandler) Discard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uploadID")

	h.mu.Lock()
	_, ok := h.pending[id]
	delete(h.pending, id)
	h.mu.Unlock()

	if !ok {
		respondError(w, http.StatusNotFound, "no pending upload with that id")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "discarded"})
}
