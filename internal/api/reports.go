package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/gridfin/ercot-data/internal/model"
)

// Report endpoint paths, relative to the public-reports base URL.
const (
	pathEnergyBids  = "/np3-966-er/60_dam_energy_bids"
	pathBidAwards   = "/np3-966-er/60_dam_energy_bid_awards"
	pathOffers      = "/np3-966-er/60_dam_energy_only_offers"
	pathOfferAwards = "/np3-966-er/60_dam_energy_only_offer_awards"
	pathSPP         = "/np6-905-cd/spp_node_zone_hub"
)

// reportPath maps a report type to its endpoint path.
func reportPath(report model.ReportType) (string, error) {
	switch report {
	case model.ReportEnergyBids:
		return pathEnergyBids, nil
	case model.ReportBidAwards:
		return pathBidAwards, nil
	case model.ReportEnergyOnlyOffers:
		return pathOffers, nil
	case model.ReportOfferAwards:
		return pathOfferAwards, nil
	case model.ReportSettlementPointPrices:
		return pathSPP, nil
	default:
		return "", fmt.Errorf("unknown report type %d", int(report))
	}
}

// FetchPage fetches one page of a report for the inclusive date range.
// Page numbering starts at 1.
func (c *Client) FetchPage(ctx context.Context, report model.ReportType, start, end time.Time, page int) (*Page, error) {
	path, err := reportPath(report)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("deliveryDateFrom", start.Format(model.DateFormat))
	query.Set("deliveryDateTo", end.Format(model.DateFormat))
	query.Set("page", strconv.Itoa(page))
	if c.pageSize > 0 {
		query.Set("size", strconv.Itoa(c.pageSize))
	}

	body, err := c.doWithRetry(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var resp reportResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &MalformedResponseError{Path: path, Page: page, Err: err}
	}
	if resp.Data == nil {
		return nil, &MalformedResponseError{Path: path, Page: page,
			Err: fmt.Errorf("response has no data element")}
	}

	records, err := resp.decodeRecords()
	if err != nil {
		return nil, &MalformedResponseError{Path: path, Page: page, Err: err}
	}

	// Endpoints omit _meta for empty result sets; treat as a single page.
	totalPages := resp.Meta.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	currentPage := resp.Meta.CurrentPage
	if currentPage < 1 {
		currentPage = page
	}

	return &Page{
		Records:      records,
		CurrentPage:  currentPage,
		TotalPages:   totalPages,
		TotalRecords: resp.Meta.TotalRecords,
	}, nil
}

// PageIter walks all pages of one (report, date window) lazily. Restartable
// from the beginning only; there is no persisted mid-stream cursor.
//
//	iter := client.Pages(model.ReportBidAwards, start, end)
//	for iter.Next(ctx) {
//	    use(iter.Page())
//	}
//	if err := iter.Err(); err != nil { ... }
type PageIter struct {
	client *Client
	report model.ReportType
	start  time.Time
	end    time.Time

	next int
	last int // 0 until the first page reveals the total
	page *Page
	err  error
	done bool
}

// Pages returns a lazy iterator over all pages of a report window.
func (c *Client) Pages(report model.ReportType, start, end time.Time) *PageIter {
	return &PageIter{
		client: c,
		report: report,
		start:  start,
		end:    end,
		next:   1,
	}
}

// Next fetches the next page. It returns false when the window is exhausted
// or a fetch fails; check Err afterwards.
func (it *PageIter) Next(ctx context.Context) bool {
	if it.done || it.err != nil {
		return false
	}
	if it.last > 0 && it.next > it.last {
		it.done = true
		return false
	}

	page, err := it.client.FetchPage(ctx, it.report, it.start, it.end, it.next)
	if err != nil {
		it.err = err
		return false
	}

	it.page = page
	it.last = page.TotalPages
	it.next++
	return true
}

// Page returns the page fetched by the last successful Next.
func (it *PageIter) Page() *Page { return it.page }

// Err returns the error that stopped iteration, if any.
func (it *PageIter) Err() error { return it.err }
