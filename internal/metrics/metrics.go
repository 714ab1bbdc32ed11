package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/collectops/agentboard/backend/internal/types"
)

// Metrics holds all application metrics
type Metrics struct {
	mu sync.RWMutex

	// Upload metrics
	UploadsReceivedTotal  int64
	UploadsConfirmedTotal int64
	UploadErrorsTotal     int64

	// Pipeline metrics
	RowsProcessedTotal       int64
	RowsExcludedUnknownAgent int64
	lastPipelineDuration     time.Duration

	// Working set metrics
	MergesTotal     int64
	workingSetSizes map[types.Client]int

	// Auth metrics
	LoginsTotal        int64
	LoginFailuresTotal int64
	LockoutsTotal      int64

	// HTTP metrics
	httpRequestsTotal    map[string]map[int]int64 // endpoint -> status -> count
	httpRequestDurations map[string][]float64     // endpoint -> durations

	// Timing
	startTime time.Time
}

// Global metrics instance
var instance *Metrics
var once sync.Once

// Get returns the singleton metrics instance
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			workingSetSizes:      make(map[types.Client]int),
			httpRequestsTotal:    make(map[string]map[int]int64),
			httpRequestDurations: make(map[string][]float64),
			startTime:            time.Now(),
		}
	})
	return instance
}

// RecordUploadReceived increments the uploads received counter
func (m *Metrics) RecordUploadReceived(rows int64) {
	m.mu.Lock()
	m.UploadsReceivedTotal++
	m.RowsProcessedTotal += rows
	m.mu.Unlock()
}

// RecordUploadConfirmed increments the confirmed uploads counter
func (m *Metrics) RecordUploadConfirmed() {
	m.mu.Lock()
	m.UploadsConfirmedTotal++
	m.MergesTotal++
	m.mu.Unlock()
}

// RecordUploadError increments the upload error counter
func (m *Metrics) RecordUploadError() {
	m.mu.Lock()
	m.UploadErrorsTotal++
	m.mu.Unlock()
}

// RecordRowsExcluded adds to the unknown-agent exclusion counter
func (m *Metrics) RecordRowsExcluded(n int64) {
	m.mu.Lock()
	m.RowsExcludedUnknownAgent += n
	m.mu.Unlock()
}

// RecordPipelineRun records the duration of one pipeline pass
func (m *Metrics) RecordPipelineRun(duration time.Duration) {
	m.mu.Lock()
	m.lastPipelineDuration = duration
	m.mu.Unlock()
}

// UpdateWorkingSetSize records the current row count for a client working set
func (m *Metrics) UpdateWorkingSetSize(client types.Client, size int) {
	m.mu.Lock()
	m.workingSetSizes[client] = size
	m.mu.Unlock()
}

// RecordLogin increments the successful login counter
func (m *Metrics) RecordLogin() {
	m.mu.Lock()
	m.LoginsTotal++
	m.mu.Unlock()
}

// RecordLoginFailure increments the failed login counter
func (m *Metrics) RecordLoginFailure() {
	m.mu.Lock()
	m.LoginFailuresTotal++
	m.mu.Unlock()
}

// RecordLockout increments the lockout counter
func (m *Metrics) RecordLockout() {
	m.mu.Lock()
	m.LockoutsTotal++
	m.mu.Unlock()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(endpoint string, statusCode int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.httpRequestsTotal[endpoint] == nil {
		m.httpRequestsTotal[endpoint] = make(map[int]int64)
	}
	m.httpRequestsTotal[endpoint][statusCode]++

	// Keep last 100 durations for percentile calculation
	if len(m.httpRequestDurations[endpoint]) >= 100 {
		m.httpRequestDurations[endpoint] = m.httpRequestDurations[endpoint][1:]
	}
	m.httpRequestDurations[endpoint] = append(m.httpRequestDurations[endpoint], duration.Seconds())
}

// Handler returns an HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.RLock()
		defer m.mu.RUnlock()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		// Helper to write metric
		write := func(name string, value interface{}, labels ...string) {
			labelStr := ""
			if len(labels) > 0 {
				labelStr = "{"
				for i := 0; i < len(labels); i += 2 {
					if i > 0 {
						labelStr += ","
					}
					labelStr += labels[i] + "=\"" + labels[i+1] + "\""
				}
				labelStr += "}"
			}

			switch v := value.(type) {
			case int:
				w.Write([]byte(name + labelStr + " " + strconv.Itoa(v) + "\n"))
			case int64:
				w.Write([]byte(name + labelStr + " " + strconv.FormatInt(v, 10) + "\n"))
			case float64:
				w.Write([]byte(name + labelStr + " " + strconv.FormatFloat(v, 'f', 6, 64) + "\n"))
			}
		}

		// System metrics
		write("agentboard_uptime_seconds", time.Since(m.startTime).Seconds())

		// Upload metrics
		write("agentboard_uploads_received_total", m.UploadsReceivedTotal)
		write("agentboard_uploads_confirmed_total", m.UploadsConfirmedTotal)
		write("agentboard_upload_errors_total", m.UploadErrorsTotal)

		// Pipeline metrics
		write("agentboard_rows_processed_total", m.RowsProcessedTotal)
		write("agentboard_rows_excluded_unknown_agent_total", m.RowsExcludedUnknownAgent)
		write("agentboard_pipeline_duration_seconds", m.lastPipelineDuration.Seconds())

		// Working set metrics
		write("agentboard_merges_total", m.MergesTotal)
		for client, size := range m.workingSetSizes {
			write("agentboard_working_set_rows", size, "client", string(client))
		}

		// Auth metrics
		write("agentboard_logins_total", m.LoginsTotal)
		write("agentboard_login_failures_total", m.LoginFailuresTotal)
		write("agentboard_lockouts_total", m.LockoutsTotal)

		// HTTP metrics
		for endpoint, statusCodes := range m.httpRequestsTotal {
			for status, count := range statusCodes {
				write("agentboard_http_requests_total", count, "endpoint", endpoint, "status", strconv.Itoa(status))
			}
		}
	}
}
