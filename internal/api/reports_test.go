package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gridfin/ercot-data/internal/model"
)

func TestFetchPageQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathBidAwards {
			t.Errorf("path = %q, want %q", r.URL.Path, pathBidAwards)
		}
		q := r.URL.Query()
		if q.Get("deliveryDateFrom") != "2024-01-01" || q.Get("deliveryDateTo") != "2024-01-07" {
			t.Errorf("date params = %q..%q", q.Get("deliveryDateFrom"), q.Get("deliveryDateTo"))
		}
		if q.Get("page") != "2" {
			t.Errorf("page = %q, want 2", q.Get("page"))
		}
		w.Write([]byte(`{"_meta":{"totalRecords":10,"totalPages":3,"currentPage":2},"fields":[],"data":[]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	start, _ := testDates()
	end := start.AddDate(0, 0, 6)

	page, err := c.FetchPage(context.Background(), model.ReportBidAwards, start, end, 2)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if page.CurrentPage != 2 || page.TotalPages != 3 || page.TotalRecords != 10 {
		t.Errorf("meta = %+v", page)
	}
	if !page.HasNext() {
		t.Error("HasNext() = false, want true")
	}
}

func TestFetchPageObjectRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"_meta":{"totalRecords":1,"totalPages":1,"currentPage":1},
			"fields":[{"name":"deliveryDate"},{"name":"settlementPointPrice"}],
			"data":[{"deliveryDate":"2024-01-01","settlementPointPrice":24.0}]
		}`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	start, end := testDates()

	page, err := c.FetchPage(context.Background(), model.ReportSettlementPointPrices, start, end, 1)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(page.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(page.Records))
	}
	if page.Records[0]["deliveryDate"] != "2024-01-01" {
		t.Errorf("deliveryDate = %v", page.Records[0]["deliveryDate"])
	}
}

// TestFetchPagePositionalRows: positional arrays zipped against the fields
// descriptor must decode identically to object rows.
func TestFetchPagePositionalRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"_meta":{"totalRecords":2,"totalPages":1,"currentPage":1},
			"fields":[
				{"name":"deliveryDate","label":"Delivery Date"},
				{"name":"hourEnding","label":"Hour Ending"},
				{"name":"settlementPoint","label":"Settlement Point"}
			],
			"data":[
				["2024-01-01",5,"HB_NORTH"],
				["2024-01-01",6,"HB_SOUTH"]
			]
		}`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	start, end := testDates()

	page, err := c.FetchPage(context.Background(), model.ReportEnergyBids, start, end, 1)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(page.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(page.Records))
	}
	rec := page.Records[0]
	if rec["deliveryDate"] != "2024-01-01" {
		t.Errorf("deliveryDate = %v", rec["deliveryDate"])
	}
	if he, ok := rec["hourEnding"].(float64); !ok || he != 5 {
		t.Errorf("hourEnding = %v", rec["hourEnding"])
	}
	if rec["settlementPoint"] != "HB_NORTH" {
		t.Errorf("settlementPoint = %v", rec["settlementPoint"])
	}
}

func TestFetchPageMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>gateway timeout</html>`},
		{"missing data", `{"_meta":{"totalPages":1}}`},
		{"positional without fields", `{"_meta":{"totalPages":1},"fields":[],"data":[[1,2,3]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := testClient(t, srv)
			start, end := testDates()

			_, err := c.FetchPage(context.Background(), model.ReportEnergyBids, start, end, 1)
			var malformed *MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("error = %v (%T), want *MalformedResponseError", err, err)
			}
		})
	}
}

// TestPagesIterator walks a three-page window and checks every page is
// visited exactly once, in order.
func TestPagesIterator(t *testing.T) {
	const totalPages = 3
	var served []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := 1
		fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
		served = append(served, page)

		resp := map[string]any{
			"_meta":  map[string]int{"totalRecords": totalPages, "totalPages": totalPages, "currentPage": page},
			"fields": []any{},
			"data":   []any{map[string]any{"page": page}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	start, end := testDates()

	iter := c.Pages(model.ReportOfferAwards, start, end)
	var pages []*Page
	for iter.Next(context.Background()) {
		pages = append(pages, iter.Page())
	}
	if err := iter.Err(); err != nil {
		t.Fatalf("iterator failed: %v", err)
	}

	if len(pages) != totalPages {
		t.Fatalf("iterated %d pages, want %d", len(pages), totalPages)
	}
	for i, p := range pages {
		if p.CurrentPage != i+1 {
			t.Errorf("page %d has CurrentPage %d", i, p.CurrentPage)
		}
	}
	if len(served) != totalPages {
		t.Errorf("server saw pages %v, want exactly %d requests", served, totalPages)
	}
}

func TestPagesIteratorPropagatesError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`{"_meta":{"totalRecords":4,"totalPages":2,"currentPage":1},"fields":[],"data":[{}]}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	start, end := testDates()

	iter := c.Pages(model.ReportEnergyBids, start, end)
	var n int
	for iter.Next(context.Background()) {
		n++
	}
	if n != 1 {
		t.Errorf("iterated %d pages before failure, want 1", n)
	}
	var authErr *AuthError
	if !errors.As(iter.Err(), &authErr) {
		t.Fatalf("Err() = %v (%T), want *AuthError", iter.Err(), iter.Err())
	}
}

func TestPagesIteratorEmptyWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No _meta on empty result sets.
		w.Write([]byte(`{"fields":[],"data":[]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	start, end := testDates()

	iter := c.Pages(model.ReportSettlementPointPrices, start, end)
	var n int
	for iter.Next(context.Background()) {
		n += len(iter.Page().Records)
	}
	if err := iter.Err(); err != nil {
		t.Fatalf("iterator failed: %v", err)
	}
	if n != 0 {
		t.Errorf("got %d records, want 0", n)
	}
}
