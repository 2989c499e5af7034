// Package qsefilter loads the QSE tracking list and restricts bid/offer
// ingestion to the listed qualified scheduling entities.
//
// The tracking list is a tabular file with a "SHORT NAME" column, maintained
// either as plain CSV or as an Excel workbook. An absent file, or a file
// without the expected column, yields an empty filter, which means no
// restriction.
package qsefilter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ShortNameColumn is the tracking-list header the QSE identifiers live in.
const ShortNameColumn = "SHORT NAME"

// Filter is a set of QSE short names. The zero value (or an empty set)
// matches everything.
type Filter struct {
	names map[string]struct{}
}

// New builds a filter from explicit names, skipping blanks.
func New(names ...string) *Filter {
	f := &Filter{names: make(map[string]struct{})}
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			f.names[n] = struct{}{}
		}
	}
	return f
}

// Load reads a tracking list, dispatching on the file extension: .xlsx via
// excelize, everything else as CSV. A missing file returns an empty filter.
func Load(path string) (*Filter, error) {
	if path == "" {
		return New(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadXLSX(path)
	}
	return loadCSV(path)
}

func loadCSV(path string) (*Filter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tracking list: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return New(), nil
		}
		return nil, fmt.Errorf("read tracking list header: %w", err)
	}

	col := columnIndex(header)
	if col < 0 {
		return New(), nil
	}

	filter := New()
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tracking list row: %w", err)
		}
		if col < len(row) {
			filter.add(row[col])
		}
	}
	return filter, nil
}

func loadXLSX(path string) (*Filter, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open tracking workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return New(), nil
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read tracking sheet: %w", err)
	}
	if len(rows) == 0 {
		return New(), nil
	}

	col := columnIndex(rows[0])
	if col < 0 {
		return New(), nil
	}

	filter := New()
	for _, row := range rows[1:] {
		if col < len(row) {
			filter.add(row[col])
		}
	}
	return filter, nil
}

func columnIndex(header []string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), ShortNameColumn) {
			return i
		}
	}
	return -1
}

func (f *Filter) add(name string) {
	if name = strings.TrimSpace(name); name != "" {
		f.names[name] = struct{}{}
	}
}

// Match reports whether a QSE passes the filter. An empty filter matches
// everything.
func (f *Filter) Match(qse string) bool {
	if f == nil || len(f.names) == 0 {
		return true
	}
	_, ok := f.names[qse]
	return ok
}

// Len returns the number of listed QSEs; 0 means unrestricted.
func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.names)
}

// Names returns the listed QSEs in sorted order, for logging.
func (f *Filter) Names() []string {
	if f == nil {
		return nil
	}
	out := make([]string, 0, len(f.names))
	for n := range f.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// QueryParam formats the QSE names for an API query parameter, keeping only
// names with the QSE prefix.
func (f *Filter) QueryParam() string {
	var qses []string
	for _, n := range f.Names() {
		if strings.HasPrefix(n, "Q") {
			qses = append(qses, n)
		}
	}
	return strings.Join(qses, ",")
}
