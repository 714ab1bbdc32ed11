package sheets

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/collectops/agentboard/backend/internal/types"
)

// Target is one monthly collection goal in AED
type Target struct {
	Year      int     `json:"year"`
	Month     int     `json:"month"`
	AmountAED float64 `json:"amountAed"`
}

// TargetStore holds the per-client collection targets, keyed by
// (year, month). Setting an existing key overwrites the amount.
type TargetStore struct {
	targets map[types.Client]map[[2]int]float64
	mu      sync.RWMutex
}

// NewTargetStore creates an empty target store for all clients
func NewTargetStore() *TargetStore {
	s := &TargetStore{targets: make(map[types.Client]map[[2]int]float64)}
	for _, client := range types.AllClients {
		s.targets[client] = make(map[[2]int]float64)
	}
	return s
}

// Set adds or updates the target for one month
func (s *TargetStore) Set(client types.Client, t Target) error {
	if t.Month < 1 || t.Month > 12 {
		return errors.New("month must be between 1 and 12")
	}
	if t.Year < 2000 || t.Year > 2100 {
		return errors.New("year out of range")
	}
	s.mu.Lock()
	s.targets[client][[2]int{t.Year, t.Month}] = t.AmountAED
	s.mu.Unlock()
	return nil
}

// Delete removes the target for one month, reporting whether it existed
func (s *TargetStore) Delete(client types.Client, year, month int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]int{year, month}
	if _, ok := s.targets[client][key]; !ok {
		return false
	}
	delete(s.targets[client], key)
	return true
}

// List returns the client's targets sorted by year then month
func (s *TargetStore) List(client types.Client) []Target {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Target, 0, len(s.targets[client]))
	for key, amount := range s.targets[client] {
		out = append(out, Target{Year: key[0], Month: key[1], AmountAED: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// Resolve picks the target applicable to a dashboard view: the month's
// target for date and month views, the average of the year's targets for
// year views. The second return is false when no target is set.
func (s *TargetStore) Resolve(client types.Client, at time.Time, filter PeriodFilter) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if filter == PeriodYear {
		var sum float64
		var n int
		for key, amount := range s.targets[client] {
			if key[0] == at.Year() {
				sum += amount
				n++
			}
		}
		if n == 0 {
			return 0, false
		}
		return sum / float64(n), true
	}

	amount, ok := s.targets[client][[2]int{at.Year(), int(at.Month())}]
	return amount, ok
}
