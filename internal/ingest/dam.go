package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gridfin/ercot-data/internal/api"
	"github.com/gridfin/ercot-data/internal/batch"
	"github.com/gridfin/ercot-data/internal/model"
	"github.com/gridfin/ercot-data/internal/normalize"
)

// RunDAM ingests the four day-ahead market reports for [start, end].
func (p *Pipeline) RunDAM(ctx context.Context, start, end time.Time) (*Summary, error) {
	return p.run(ctx, "dam", start, end, p.ingestDAMWindow)
}

// UpdateDAM ingests DAM reports from the day after the newest stored award
// up to the publication horizon (now minus the DAM disclosure lag). Returns
// an empty summary when the store is already current.
func (p *Pipeline) UpdateDAM(ctx context.Context) (*Summary, error) {
	horizon := p.today().AddDate(0, 0, -p.damLagDays)
	start, err := p.latestOr(ctx, model.TableBidAwards, horizon)
	if err != nil {
		return nil, err
	}
	if start.After(horizon) {
		p.logger.Info("dam data already current", "horizon", horizon.Format(model.DateFormat))
		return &Summary{}, nil
	}
	return p.RunDAM(ctx, start, horizon)
}

// ingestDAMWindow fetches, normalizes and stores all four DAM reports for
// one window. A record that fails validation is skipped and logged; the QSE
// filter drops records from untracked entities before storage.
func (p *Pipeline) ingestDAMWindow(ctx context.Context, logger *slog.Logger, w batch.Window) (int, error) {
	var stored int
	for _, report := range model.DAMReports {
		records, err := p.fetchWindow(ctx, logger, report, w)
		if err != nil {
			return stored, fmt.Errorf("fetch %s: %w", report, err)
		}

		n, err := p.storeDAMRecords(ctx, logger, report, records)
		if err != nil {
			return stored, fmt.Errorf("store %s: %w", report, err)
		}
		stored += n
	}
	return stored, nil
}

// storeDAMRecords normalizes one report's raw records and upserts the
// survivors in a single transaction.
func (p *Pipeline) storeDAMRecords(ctx context.Context, logger *slog.Logger, report model.ReportType, records []api.RawRecord) (int, error) {
	skip := func(err error) bool {
		var vErr *normalize.RecordValidationError
		if errors.As(err, &vErr) {
			logger.Warn("skipping invalid record", "report", report.String(), "error", err)
			return true
		}
		return false
	}

	switch report {
	case model.ReportEnergyBids:
		rows := make([]model.Bid, 0, len(records))
		for _, rec := range records {
			b, err := normalize.Bid(rec)
			if err != nil {
				if skip(err) {
					continue
				}
				return 0, err
			}
			if p.qse.Match(b.QSEName) {
				rows = append(rows, b)
			}
		}
		return len(rows), p.store.UpsertBids(ctx, rows)

	case model.ReportBidAwards:
		rows := make([]model.BidAward, 0, len(records))
		for _, rec := range records {
			ba, err := normalize.BidAward(rec)
			if err != nil {
				if skip(err) {
					continue
				}
				return 0, err
			}
			if p.qse.Match(ba.QSEName) {
				rows = append(rows, ba)
			}
		}
		return len(rows), p.store.UpsertBidAwards(ctx, rows)

	case model.ReportEnergyOnlyOffers:
		rows := make([]model.Offer, 0, len(records))
		for _, rec := range records {
			o, err := normalize.Offer(rec)
			if err != nil {
				if skip(err) {
					continue
				}
				return 0, err
			}
			if p.qse.Match(o.QSEName) {
				rows = append(rows, o)
			}
		}
		return len(rows), p.store.UpsertOffers(ctx, rows)

	case model.ReportOfferAwards:
		rows := make([]model.OfferAward, 0, len(records))
		for _, rec := range records {
			oa, err := normalize.OfferAward(rec)
			if err != nil {
				if skip(err) {
					continue
				}
				return 0, err
			}
			if p.qse.Match(oa.QSEName) {
				rows = append(rows, oa)
			}
		}
		return len(rows), p.store.UpsertOfferAwards(ctx, rows)

	default:
		return 0, fmt.Errorf("report %s is not a DAM report", report)
	}
}
