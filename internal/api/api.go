package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/collectops/agentboard/backend/internal/auth"
	"github.com/collectops/agentboard/backend/internal/types"
)

// RequireAdmin middleware — only admin role allowed
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.GetUserFromContext(r.Context())
		if !ok || !auth.HasRole(claims, "admin") {
			respondError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// clientParam reads and validates the client query parameter
func clientParam(r *http.Request) (types.Client, bool) {
	c := types.Client(r.URL.Query().Get("client"))
	return c, c.Valid()
}

// periodParams reads the date/mode query pair used by grid and dashboard
// views. An empty mode means no filtering; date defaults to today.
func periodParams(r *http.Request) (time.Time, string, error) {
	mode := r.URL.Query().Get("mode")
	switch mode {
	case "", "date", "month", "year":
	default:
		return time.Time{}, "", errInvalidMode
	}

	at := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, "", errInvalidDate
		}
		at = parsed
	}
	return at, mode, nil
}

var (
	errInvalidMode = errors.New("mode must be one of date, month, year")
	errInvalidDate = errors.New("date must be YYYY-MM-DD")
)
