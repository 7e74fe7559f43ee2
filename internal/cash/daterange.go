package cash

import (
	"strings"
	"time"
)

// zoneless timestamp layouts, interpreted in the ledger's location.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseBound turns a raw range bound into a timestamp. Date-only values
// expand to the start (00:00:00) or end (23:59:59) of that day in loc;
// full timestamps pass through unchanged. An empty string means no bound.
func ParseBound(raw string, end bool, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if loc == nil {
		loc = time.UTC
	}

	if d, err := time.ParseInLocation(time.DateOnly, raw, loc); err == nil {
		if end {
			d = d.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		}

		return &d, nil
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return &t, nil
	}

	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return &t, nil
		}
	}

	name := "from"
	if end {
		name = "to"
	}

	return nil, invalidDate(name, raw)
}

// ClampToSession moves the upper bound back to the session's closing time
// when the session closed before it, so a closed session's report never
// includes later activity.
func ClampToSession(to *time.Time, s *Session) *time.Time {
	if to == nil || s == nil || s.ClosedAt == nil {
		return to
	}

	if s.ClosedAt.Before(*to) {
		closed := *s.ClosedAt
		return &closed
	}

	return to
}
