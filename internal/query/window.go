package query

import (
	"errors"
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	// TimestampLayout is the RFC3339 second-precision form the API expects.
	TimestampLayout = "2006-01-02T15:04:05Z"
	// EndSafetyMargin keeps an end bound on the current day strictly in the past;
	// the API rejects end_time values that are not at least ~10s old.
	EndSafetyMargin = 20 * time.Second
)

var ErrInvalidDate = errors.New("invalid date, want YYYY-MM-DD")

// Window is an optional [Start, End] range in UTC. Nil bounds are open.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// NewWindow converts since/until calendar dates into API instants.
// since maps to 00:00:00Z of its day; until maps to 23:59:59Z of its day,
// unless until is today's UTC date, in which case it maps to now minus EndSafetyMargin.
func NewWindow(since, until string, now time.Time) (Window, error) {
	var w Window
	now = now.UTC()
	if since != "" {
		d, err := parseDate(since)
		if err != nil {
			return w, fmt.Errorf("since: %w", err)
		}
		w.Start = &d
	}
	if until != "" {
		d, err := parseDate(until)
		if err != nil {
			return w, fmt.Errorf("until: %w", err)
		}
		var end time.Time
		if until == now.Format(dateLayout) {
			end = now.Add(-EndSafetyMargin).Truncate(time.Second)
		} else {
			end = d.Add(24*time.Hour - time.Second)
		}
		w.End = &end
	}
	return w, nil
}

// StartParam returns the start_time parameter or "" when unbounded.
func (w Window) StartParam() string { return format(w.Start) }

// EndParam returns the end_time parameter or "" when unbounded.
func (w Window) EndParam() string { return format(w.End) }

func (w Window) String() string {
	start, end := w.StartParam(), w.EndParam()
	if start == "" {
		start = "any"
	}
	if end == "" {
		end = "now"
	}
	return start + " to " + end
}

func parseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

func format(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}
