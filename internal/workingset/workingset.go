package workingset

import (
	"sync"
	"time"

	"github.com/collectops/agentboard/backend/internal/metrics"
	"github.com/collectops/agentboard/backend/internal/roster"
	"github.com/collectops/agentboard/backend/internal/types"
	"github.com/rs/zerolog"
)

// Codes never included in exports: the system account and the admin login.
var exportExcluded = map[string]struct{}{
	"SYSTEM":      {},
	"CTBONIFACIO": {},
}

// DateFilter selects how Records filters by period start
type DateFilter string

const (
	FilterNone  DateFilter = ""
	FilterDate  DateFilter = "date"
	FilterMonth DateFilter = "month"
	FilterYear  DateFilter = "year"
)

// Store holds the per-client working sets: the current collection of agent
// metric records, one per agent user code. All mutation goes through the
// merge engine or the explicit row operations; uploads never touch it until
// confirmed.
type Store struct {
	records map[types.Client]map[string]*types.AgentMetricRecord
	order   map[types.Client][]string
	logger  zerolog.Logger
	mu      sync.RWMutex
}

// NewStore creates a store seeded with one zeroed row per registered agent
// of each client
func NewStore(periodStart time.Time, logger zerolog.Logger) *Store {
	s := &Store{
		records: make(map[types.Client]map[string]*types.AgentMetricRecord),
		order:   make(map[types.Client][]string),
		logger:  logger.With().Str("component", "workingset").Logger(),
	}
	for _, client := range types.AllClients {
		s.resetLocked(client, periodStart)
	}
	return s
}

// Reset reinitializes one client's working set to the zeroed default rows
func (s *Store) Reset(client types.Client, periodStart time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(client, periodStart)
}

func (s *Store) resetLocked(client types.Client, periodStart time.Time) {
	recs := make(map[string]*types.AgentMetricRecord)
	var order []string
	for _, a := range roster.ForClient(client) {
		recs[a.UserCode] = zeroRecord(a.UserCode, a.DisplayName, periodStart)
		order = append(order, a.UserCode)
	}
	s.records[client] = recs
	s.order[client] = order
	metrics.Get().UpdateWorkingSetSize(client, len(recs))
}

// zeroRecord is the default template a new agent row is seeded from
func zeroRecord(user, name string, periodStart time.Time) *types.AgentMetricRecord {
	return &types.AgentMetricRecord{
		AgentUser:       user,
		AgentName:       name,
		PTPPercentage:   "0%",
		GracePercentage: "0%",
		PeriodStart:     periodStart,
	}
}

// Merge folds a confirmed upload into the client's working set, one
// field-level patch per agent. Existing rows keep every field the upload
// did not produce; wholly new agents get a zeroed row first. Metrics are
// replaced, never summed, so confirming the same file twice is idempotent.
func (s *Store) Merge(result *types.UploadResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.records[result.Client]
	if recs == nil {
		s.resetLocked(result.Client, result.PeriodStart)
		recs = s.records[result.Client]
	}

	added := 0
	for i := range result.Patches {
		patch := &result.Patches[i]
		rec, exists := recs[patch.AgentUser]
		if !exists {
			name := patch.AgentName
			if a, ok := roster.Lookup(patch.AgentUser); ok {
				name = a.DisplayName
			}
			rec = zeroRecord(patch.AgentUser, name, result.PeriodStart)
			recs[patch.AgentUser] = rec
			s.order[result.Client] = append(s.order[result.Client], patch.AgentUser)
			added++
		}
		applyPatch(rec, patch)
	}

	metrics.Get().RecordUploadConfirmed()
	metrics.Get().UpdateWorkingSetSize(result.Client, len(recs))

	s.logger.Info().
		Str("client", string(result.Client)).
		Int("patched", len(result.Patches)).
		Int("added", added).
		Msg("upload merged into working set")
}

// Records returns copies of the client's rows, optionally filtered by
// period start
func (s *Store) Records(client types.Client, at time.Time, filter DateFilter) []types.AgentMetricRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.AgentMetricRecord, 0, len(s.order[client]))
	for _, user := range s.order[client] {
		rec := s.records[client][user]
		if rec == nil || !matchesPeriod(rec.PeriodStart, at, filter) {
			continue
		}
		out = append(out, *rec)
	}
	return out
}

func matchesPeriod(period, at time.Time, filter DateFilter) bool {
	switch filter {
	case FilterDate:
		py, pm, pd := period.Date()
		ay, am, ad := at.Date()
		return py == ay && pm == am && pd == ad
	case FilterMonth:
		return period.Year() == at.Year() && period.Month() == at.Month()
	case FilterYear:
		return period.Year() == at.Year()
	default:
		return true
	}
}

// Update patches a single existing row; used by the grid edit endpoint.
// Returns false when the agent has no row.
func (s *Store) Update(client types.Client, user string, patch *types.MetricPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[client][roster.Normalize(user)]
	if !ok {
		return false
	}
	applyPatch(rec, patch)
	return true
}

// Remove deletes one agent row. This is the only way a row leaves the
// working set.
func (s *Store) Remove(client types.Client, user string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := roster.Normalize(user)
	if _, ok := s.records[client][code]; !ok {
		return false
	}
	delete(s.records[client], code)
	order := s.order[client]
	for i, u := range order {
		if u == code {
			s.order[client] = append(order[:i], order[i+1:]...)
			break
		}
	}
	metrics.Get().UpdateWorkingSetSize(client, len(s.records[client]))
	return true
}

// Count returns the number of rows in a client's working set
func (s *Store) Count(client types.Client) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records[client])
}
