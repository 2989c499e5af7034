// Package batch splits a requested delivery-date range into API-sized
// windows. Planning is pure and deterministic: the same inputs always
// produce the same ordered plan, which is what makes failed windows safe to
// re-request.
package batch

import (
	"fmt"
	"time"

	"github.com/gridfin/ercot-data/internal/model"
)

// Window is one inclusive (Start, End) sub-range of a plan.
type Window struct {
	Start time.Time
	End   time.Time
}

// Days returns the inclusive length of the window in days.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// String formats the window as "YYYY-MM-DD..YYYY-MM-DD" for logs.
func (w Window) String() string {
	return w.Start.Format(model.DateFormat) + ".." + w.End.Format(model.DateFormat)
}

// InvalidRangeError reports a caller-supplied range that cannot be planned.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
	Msg   string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range %s..%s: %s",
		e.Start.Format(model.DateFormat), e.End.Format(model.DateFormat), e.Msg)
}

// Plan splits the inclusive [start, end] range into consecutive,
// non-overlapping windows of at most maxWindowDays days each. The final
// window may be shorter. Times are truncated to civil dates in UTC before
// planning.
func Plan(start, end time.Time, maxWindowDays int) ([]Window, error) {
	start = truncate(start)
	end = truncate(end)

	if start.After(end) {
		return nil, &InvalidRangeError{Start: start, End: end, Msg: "start date is after end date"}
	}
	if maxWindowDays < 1 {
		return nil, &InvalidRangeError{Start: start, End: end,
			Msg: fmt.Sprintf("max window days must be >= 1, got %d", maxWindowDays)}
	}

	var windows []Window
	for cur := start; !cur.After(end); {
		wEnd := cur.AddDate(0, 0, maxWindowDays-1)
		if wEnd.After(end) {
			wEnd = end
		}
		windows = append(windows, Window{Start: cur, End: wEnd})
		cur = wEnd.AddDate(0, 0, 1)
	}
	return windows, nil
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
