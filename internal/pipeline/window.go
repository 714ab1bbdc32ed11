package pipeline

import (
	"time"

	"github.com/collectops/agentboard/backend/internal/types"
)

// Timestamp layouts the masterlist exports have been seen to carry.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006 15:04:05",
	"01/02/2006 3:04:05 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04 PM",
	"2006-01-02 15:04",
	"01/02/2006 15:04",
	"02-01-2006 15:04:05",
}

// ParseTimestamp parses a raw timestamp cell against the known layouts.
// The second return is false when nothing matches; such rows are dropped
// from time-based aggregation the same way unparsable amounts become zero.
func ParseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

const (
	windowStartSec   = 12 * 3600 // 12:00:00
	windowCutoverSec = 17 * 3600 // 17:00:00, inclusive upper bound of the afternoon window
	windowEndSec     = 23*3600 + 59*60 + 59
)

// ClassifyClock buckets a timestamp's time-of-day into a shift window.
// 17:00:00 exactly belongs to the afternoon window; anything before noon is
// outside both.
func ClassifyClock(t time.Time) types.ShiftWindow {
	sec := t.Hour()*3600 + t.Minute()*60 + t.Second()
	switch {
	case sec >= windowStartSec && sec <= windowCutoverSec:
		return types.WindowAfternoon
	case sec > windowCutoverSec && sec <= windowEndSec:
		return types.WindowEvening
	default:
		return types.WindowNone
	}
}

// Touch is one work-on-account contact: an agent updating an account at a
// point in time.
type Touch struct {
	Account string
	Agent   string
	At      time.Time
}

// LatestTouches deduplicates touches to the chronologically latest record
// per (account, agent). A touch counts once per account per agent no matter
// how many times the row was updated that day; ties keep the later row.
func LatestTouches(touches []Touch) []Touch {
	type slot struct {
		touch Touch
		order int
	}
	latest := make(map[string]slot, len(touches))
	var keys []string
	for i, t := range touches {
		key := t.Account + "|" + t.Agent
		existing, ok := latest[key]
		if !ok {
			latest[key] = slot{touch: t, order: i}
			keys = append(keys, key)
			continue
		}
		if !t.At.Before(existing.touch.At) {
			latest[key] = slot{touch: t, order: existing.order}
		}
	}
	out := make([]Touch, 0, len(latest))
	for _, key := range keys {
		out = append(out, latest[key].touch)
	}
	return out
}
