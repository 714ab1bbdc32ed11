package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/collectops/agentboard/backend/internal/auth"
	"github.com/collectops/agentboard/backend/internal/pipeline"
	"github.com/collectops/agentboard/backend/internal/types"
	"github.com/collectops/agentboard/backend/internal/workingset"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func testRouter(t *testing.T) (*chi.Mux, *workingset.Store) {
	t.Helper()

	store := workingset.NewStore(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), zerolog.Nop())
	runner := pipeline.NewRunner(zerolog.Nop())
	uploads := NewUploadHandler(runner, store, 1<<20, zerolog.Nop())
	grid := NewGridHandler(store, zerolog.Nop())

	r := chi.NewRouter()
	r.Post("/api/uploads", uploads.Upload)
	r.Post("/api/uploads/{uploadID}/confirm", uploads.Confirm)
	r.Delete("/api/uploads/{uploadID}", uploads.Discard)
	r.Get("/api/grid", grid.Get)
	r.Put("/api/grid", grid.Update)
	r.Delete("/api/grid", grid.Delete)
	r.Get("/api/grid/export", grid.Export)
	return r, store
}

func multipartUpload(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte(content))
	for k, v := range fields {
		w.WriteField(k, v)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

const masterlistCSV = "REMARK BY,STATUS,ACCOUNT,REMARK TIME\n" +
	"JCAYNO,POSITIVE CONTACT - DISPUTE,A1,2025-03-10 13:00:00\n" +
	"JCAYNO,NEGATIVE - WRONG NUMBER,A2,2025-03-10 18:00:00\n" +
	"STRANGER,NEGATIVE - WRONG NUMBER,A3,2025-03-10 18:00:00\n"

func TestUploadConfirmGridFlow(t *testing.T) {
	r, _ := testRouter(t)

	body, contentType := multipartUpload(t, "masterlist.csv", masterlistCSV, map[string]string{
		"client":     "ENBD",
		"start_date": "2025-03-01",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body %s", rec.Code, rec.Body.String())
	}
	var up uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &up); err != nil {
		t.Fatalf("parse upload response: %v", err)
	}
	if up.UploadID == "" {
		t.Fatal("expected an upload id")
	}
	if up.Result.RowsUnknownAgent != 1 {
		t.Errorf("RowsUnknownAgent = %d, want 1", up.Result.RowsUnknownAgent)
	}

	// The working set is untouched before confirmation
	gridReq := httptest.NewRequest(http.MethodGet, "/api/grid?client=ENBD", nil)
	gridRec := httptest.NewRecorder()
	r.ServeHTTP(gridRec, gridReq)
	var records []types.AgentMetricRecord
	json.Unmarshal(gridRec.Body.Bytes(), &records)
	for _, rec := range records {
		if rec.AgentUser == "JCAYNO" && rec.TotalWOA != 0 {
			t.Errorf("working set mutated before confirm: %+v", rec)
		}
	}

	// Confirm and re-read
	confirmReq := httptest.NewRequest(http.MethodPost, "/api/uploads/"+up.UploadID+"/confirm", nil)
	confirmRec := httptest.NewRecorder()
	r.ServeHTTP(confirmRec, confirmReq)
	if confirmRec.Code != http.StatusOK {
		t.Fatalf("confirm status = %d", confirmRec.Code)
	}

	gridRec = httptest.NewRecorder()
	r.ServeHTTP(gridRec, httptest.NewRequest(http.MethodGet, "/api/grid?client=ENBD", nil))
	records = nil
	json.Unmarshal(gridRec.Body.Bytes(), &records)

	var jc *types.AgentMetricRecord
	for i := range records {
		if records[i].AgentUser == "JCAYNO" {
			jc = &records[i]
		}
	}
	if jc == nil {
		t.Fatal("expected JCAYNO in grid")
	}
	if jc.TotalWOA != 2 || jc.RPC != 1 || jc.Negative != 1 {
		t.Errorf("merged record = %+v", jc)
	}

	// Confirming twice is not possible
	confirmRec = httptest.NewRecorder()
	r.ServeHTTP(confirmRec, httptest.NewRequest(http.MethodPost, "/api/uploads/"+up.UploadID+"/confirm", nil))
	if confirmRec.Code != http.StatusNotFound {
		t.Errorf("second confirm status = %d, want 404", confirmRec.Code)
	}
}

func TestUploadRejectsUnsupportedFile(t *testing.T) {
	r, _ := testRouter(t)

	body, contentType := multipartUpload(t, "notes.txt", "hello", map[string]string{"client": "ENBD"})
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUploadRequiresValidClient(t *testing.T) {
	r, _ := testRouter(t)

	body, contentType := multipartUpload(t, "m.csv", masterlistCSV, map[string]string{"client": "OTHER"})
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGridUpdateAndDelete(t *testing.T) {
	r, _ := testRouter(t)

	woa := 42
	payload, _ := json.Marshal(gridUpdateRequest{
		Client: types.ClientENBD,
		Patch:  types.MetricPatch{AgentUser: "GCUENCA", TotalWOA: &woa},
	})
	req := httptest.NewRequest(http.MethodPut, "/api/grid", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d", rec.Code)
	}

	gridRec := httptest.NewRecorder()
	r.ServeHTTP(gridRec, httptest.NewRequest(http.MethodGet, "/api/grid?client=ENBD", nil))
	var records []types.AgentMetricRecord
	json.Unmarshal(gridRec.Body.Bytes(), &records)
	found := false
	for _, rec := range records {
		if rec.AgentUser == "GCUENCA" {
			found = true
			if rec.TotalWOA != 42 {
				t.Errorf("TotalWOA = %d, want 42", rec.TotalWOA)
			}
		}
	}
	if !found {
		t.Fatal("GCUENCA missing from grid")
	}

	delRec := httptest.NewRecorder()
	r.ServeHTTP(delRec, httptest.NewRequest(http.MethodDelete, "/api/grid?client=ENBD&agent=GCUENCA", nil))
	if delRec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", delRec.Code)
	}
	delRec = httptest.NewRecorder()
	r.ServeHTTP(delRec, httptest.NewRequest(http.MethodDelete, "/api/grid?client=ENBD&agent=GCUENCA", nil))
	if delRec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", delRec.Code)
	}
}

func TestGridExport(t *testing.T) {
	r, _ := testRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/grid/export?client=ENBD", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "AGENT_NAME,AGENT_USER,") {
		t.Errorf("unexpected export body start: %.60s", rec.Body.String())
	}
}

func TestLoginHandler(t *testing.T) {
	sessions := auth.NewManager("test-secret", time.Hour, time.Minute, zerolog.Nop())
	h := NewAuthHandler(sessions, zerolog.Nop())

	// The day password is derived from today's date
	base, _ := strconv.Atoi(time.Now().Format("01022006") + "0")
	password := strconv.Itoa(base)

	body, _ := json.Marshal(loginRequest{Username: "ctbonifacio", Password: password})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp loginResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Token == "" {
		t.Error("expected a token")
	}

	// Wrong password
	body, _ = json.Marshal(loginRequest{Username: "ctbonifacio", Password: "nope"})
	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body)))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// No claims in context
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/targets", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status without claims = %d, want 403", rec.Code)
	}
}
