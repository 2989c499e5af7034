package api

import (
	"encoding/json"
	"fmt"
)

// RawRecord is one undecoded report row, keyed by the API's field names.
type RawRecord map[string]any

// Page is one page of raw report records.
type Page struct {
	Records      []RawRecord
	CurrentPage  int
	TotalPages   int
	TotalRecords int
}

// HasNext reports whether more pages follow this one.
func (p *Page) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// reportMeta is the pagination block of a report response.
type reportMeta struct {
	TotalRecords int `json:"totalRecords"`
	TotalPages   int `json:"totalPages"`
	CurrentPage  int `json:"currentPage"`
}

// reportField describes one column of a report's positional rows.
type reportField struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// reportResponse is the report endpoint envelope. The data element holds
// rows either as JSON objects or as positional arrays matching the fields
// descriptor; both shapes occur in the wild.
type reportResponse struct {
	Meta   reportMeta        `json:"_meta"`
	Fields []reportField     `json:"fields"`
	Data   []json.RawMessage `json:"data"`
}

// decodeRecords turns the envelope's rows into RawRecords, zipping
// positional rows with the fields descriptor.
func (r *reportResponse) decodeRecords() ([]RawRecord, error) {
	records := make([]RawRecord, 0, len(r.Data))
	for i, raw := range r.Data {
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err == nil {
			records = append(records, obj)
			continue
		}

		var row []any
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("row %d is neither object nor array: %w", i, err)
		}
		if len(r.Fields) == 0 {
			return nil, fmt.Errorf("row %d is positional but response has no fields descriptor", i)
		}
		if len(row) > len(r.Fields) {
			return nil, fmt.Errorf("row %d has %d values for %d fields", i, len(row), len(r.Fields))
		}
		rec := make(RawRecord, len(row))
		for j, v := range row {
			rec[r.Fields[j].Name] = v
		}
		records = append(records, rec)
	}
	return records, nil
}
