package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gridfin/ercot-data/internal/model"
)

// RecordValidationError reports a single raw record that could not be
// normalized. Record-scoped: the caller logs and skips it.
type RecordValidationError struct {
	Report model.ReportType
	Field  string
	Err    error
}

func (e *RecordValidationError) Error() string {
	return fmt.Sprintf("invalid %s record: field %q: %v", e.Report, e.Field, e.Err)
}

func (e *RecordValidationError) Unwrap() error { return e.Err }

func errMissing(report model.ReportType, field string) error {
	return &RecordValidationError{Report: report, Field: field, Err: fmt.Errorf("required field missing")}
}

func errBad(report model.ReportType, field string, err error) error {
	return &RecordValidationError{Report: report, Field: field, Err: err}
}

// dateLayouts are the delivery-date formats seen across the current API,
// the archive files, and hand-maintained inputs.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
}

// parseDate normalizes a delivery date to a UTC civil date.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// lookup returns the first alias present in the record.
func lookup(rec map[string]any, aliases ...string) (any, bool) {
	for _, name := range aliases {
		if v, ok := rec[name]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func getString(rec map[string]any, aliases ...string) (string, bool) {
	v, ok := lookup(rec, aliases...)
	if !ok {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s), true
	case float64:
		// Numeric IDs arrive as JSON numbers in some report vintages.
		return strconv.FormatFloat(s, 'f', -1, 64), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

func getInt(rec map[string]any, aliases ...string) (int, bool, error) {
	v, ok := lookup(rec, aliases...)
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		return int(n), true, nil
	case string:
		var i int
		if _, err := fmt.Sscanf(strings.TrimSpace(n), "%d", &i); err != nil {
			return 0, true, fmt.Errorf("not an integer: %q", n)
		}
		return i, true, nil
	default:
		return 0, true, fmt.Errorf("not an integer: %v", v)
	}
}

func getDecimal(rec map[string]any, aliases ...string) (decimal.Decimal, bool, error) {
	v, ok := lookup(rec, aliases...)
	if !ok {
		return decimal.Decimal{}, false, nil
	}
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true, nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Decimal{}, true, fmt.Errorf("not a number: %q", n)
		}
		return d, true, nil
	default:
		return decimal.Decimal{}, true, fmt.Errorf("not a number: %v", v)
	}
}

func getNullDecimal(rec map[string]any, aliases ...string) (decimal.NullDecimal, error) {
	d, ok, err := getDecimal(rec, aliases...)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	if !ok {
		return decimal.NullDecimal{}, nil
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func getDate(rec map[string]any, aliases ...string) (time.Time, bool, error) {
	s, ok := getString(rec, aliases...)
	if !ok {
		return time.Time{}, false, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return time.Time{}, true, err
	}
	return t, true, nil
}
