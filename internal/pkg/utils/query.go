package utils

import (
	"net/http"
	"strconv"
	"time"
)

// MaxListLimit caps the number of rows a single list call may request
const MaxListLimit = 500

// ParseLimit reads the "limit" query parameter. Zero means no limit.
func ParseLimit(r *http.Request) int {
	limit := parseIntQuery(r.URL.Query().Get("limit"), 0)
	if limit < 0 {
		return 0
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// ParseTimeQuery reads an RFC 3339 timestamp from the query string.
// A missing parameter yields nil; a malformed one yields ok=false.
func ParseTimeQuery(r *http.Request, key string) (t *time.Time, ok bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, true
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}

func parseIntQuery(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return i
}
