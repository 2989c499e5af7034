package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gridfin/ercot-data/internal/batch"
	"github.com/gridfin/ercot-data/internal/model"
	"github.com/gridfin/ercot-data/internal/normalize"
)

// RunSPP ingests settlement point prices for [start, end]. The QSE filter
// does not apply: prices are per settlement point, not per entity.
func (p *Pipeline) RunSPP(ctx context.Context, start, end time.Time) (*Summary, error) {
	return p.run(ctx, "spp", start, end, p.ingestSPPWindow)
}

// UpdateSPP ingests prices from the day after the newest stored price up to
// the publication horizon (now minus the SPP lag).
func (p *Pipeline) UpdateSPP(ctx context.Context) (*Summary, error) {
	horizon := p.today().AddDate(0, 0, -p.sppLagDays)
	start, err := p.latestOr(ctx, model.TableSettlementPointPrices, horizon)
	if err != nil {
		return nil, err
	}
	if start.After(horizon) {
		p.logger.Info("spp data already current", "horizon", horizon.Format(model.DateFormat))
		return &Summary{}, nil
	}
	return p.RunSPP(ctx, start, horizon)
}

func (p *Pipeline) ingestSPPWindow(ctx context.Context, logger *slog.Logger, w batch.Window) (int, error) {
	records, err := p.fetchWindow(ctx, logger, model.ReportSettlementPointPrices, w)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", model.ReportSettlementPointPrices, err)
	}

	active, err := p.activePoints(ctx)
	if err != nil {
		return 0, err
	}

	rows := make([]model.SettlementPointPrice, 0, len(records))
	for _, rec := range records {
		spp, err := normalize.SettlementPointPrice(rec)
		if err != nil {
			var vErr *normalize.RecordValidationError
			if errors.As(err, &vErr) {
				logger.Warn("skipping invalid record",
					"report", model.ReportSettlementPointPrices.String(), "error", err)
				continue
			}
			return 0, err
		}
		if active != nil {
			if _, ok := active[spp.SettlementPointName]; !ok {
				continue
			}
		}
		rows = append(rows, spp)
	}

	return len(rows), p.store.UpsertSettlementPointPrices(ctx, rows)
}

// activePoints returns the award-table settlement point set when SPP
// filtering is on, or nil for no restriction.
func (p *Pipeline) activePoints(ctx context.Context) (map[string]struct{}, error) {
	if !p.filterSPP {
		return nil, nil
	}
	points, err := p.store.ActiveSettlementPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("active settlement points: %w", err)
	}
	set := make(map[string]struct{}, len(points))
	for _, pt := range points {
		set[pt] = struct{}{}
	}
	return set, nil
}
