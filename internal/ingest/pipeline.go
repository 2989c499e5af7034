// Package ingest orchestrates the pipeline: plan date windows, fetch report
// pages, normalize and filter records, and upsert them in one transaction
// per window. Runs are resumable by re-running a range; the store's natural
// keys make repeated ingestion converge instead of duplicating.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gridfin/ercot-data/internal/api"
	"github.com/gridfin/ercot-data/internal/batch"
	"github.com/gridfin/ercot-data/internal/model"
	"github.com/gridfin/ercot-data/internal/qsefilter"
	"github.com/gridfin/ercot-data/internal/store"
)

// Options configures a Pipeline.
type Options struct {
	MaxWindowDays int
	DAMLagDays    int
	SPPLagDays    int
	BackfillDays  int
	QSE           *qsefilter.Filter
	// FilterSPP restricts price ingestion to settlement points already seen
	// in the award tables.
	FilterSPP bool
	Logger    *slog.Logger
	Now       func() time.Time
}

// Pipeline wires the API client, QSE filter and store into runnable
// ingestion jobs.
type Pipeline struct {
	client *api.Client
	store  *store.Store
	qse    *qsefilter.Filter
	logger *slog.Logger
	now    func() time.Time

	maxWindowDays int
	damLagDays    int
	sppLagDays    int
	backfillDays  int
	filterSPP     bool
}

// New builds a Pipeline. Zero option fields fall back to the pipeline's
// stock settings.
func New(client *api.Client, st *store.Store, opts Options) *Pipeline {
	p := &Pipeline{
		client:        client,
		store:         st,
		qse:           opts.QSE,
		logger:        opts.Logger,
		now:           opts.Now,
		maxWindowDays: opts.MaxWindowDays,
		damLagDays:    opts.DAMLagDays,
		sppLagDays:    opts.SPPLagDays,
		backfillDays:  opts.BackfillDays,
		filterSPP:     opts.FilterSPP,
	}
	if p.qse == nil {
		p.qse = qsefilter.New()
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.maxWindowDays <= 0 {
		p.maxWindowDays = 30
	}
	if p.damLagDays < 0 {
		p.damLagDays = 0
	}
	if p.sppLagDays < 0 {
		p.sppLagDays = 0
	}
	if p.backfillDays <= 0 {
		p.backfillDays = 365
	}
	return p
}

// WindowResult records the outcome of one date window.
type WindowResult struct {
	Window  batch.Window
	Records int
	Err     error
}

// Summary is the outcome of one pipeline run.
type Summary struct {
	RunID   string
	Windows []WindowResult
}

// Records returns the total records stored across all windows.
func (s *Summary) Records() int {
	var n int
	for _, w := range s.Windows {
		n += w.Records
	}
	return n
}

// Failed returns the number of windows that ended in error.
func (s *Summary) Failed() int {
	var n int
	for _, w := range s.Windows {
		if w.Err != nil {
			n++
		}
	}
	return n
}

// Err returns an error summarizing failed windows, or nil.
func (s *Summary) Err() error {
	if n := s.Failed(); n > 0 {
		return fmt.Errorf("%d of %d windows failed", n, len(s.Windows))
	}
	return nil
}

// run executes one ingest function per planned window. Auth rejections and
// context cancellation abort the run; any other window failure is recorded
// and the remaining windows still run.
func (p *Pipeline) run(ctx context.Context, kind string, start, end time.Time, ingestWindow func(context.Context, *slog.Logger, batch.Window) (int, error)) (*Summary, error) {
	windows, err := batch.Plan(start, end, p.maxWindowDays)
	if err != nil {
		return nil, err
	}

	sum := &Summary{RunID: uuid.NewString()}
	logger := p.logger.With("run_id", sum.RunID, "job", kind)
	logger.Info("run starting",
		"from", start.Format(model.DateFormat),
		"to", end.Format(model.DateFormat),
		"windows", len(windows))

	for _, w := range windows {
		n, err := ingestWindow(ctx, logger, w)
		sum.Windows = append(sum.Windows, WindowResult{Window: w, Records: n, Err: err})
		if err == nil {
			logger.Info("window done", "window", w.String(), "records", n)
			continue
		}

		var authErr *api.AuthError
		if errors.As(err, &authErr) || ctx.Err() != nil {
			return sum, err
		}
		logger.Error("window failed", "window", w.String(), "error", err)
	}

	logger.Info("run finished", "records", sum.Records(), "failed_windows", sum.Failed())
	return sum, nil
}

// fetchWindow pulls every page of one report for one window. A malformed
// page is skipped and logged; the window fails only when no page could be
// read at all, or on a non-page-scoped error (auth, exhausted retries).
func (p *Pipeline) fetchWindow(ctx context.Context, logger *slog.Logger, report model.ReportType, w batch.Window) ([]api.RawRecord, error) {
	var (
		records  []api.RawRecord
		lastErr  error
		okPages  int
		badPages int
	)

	page, total := 1, 1
	for page <= total {
		pg, err := p.client.FetchPage(ctx, report, w.Start, w.End, page)
		if err != nil {
			var mErr *api.MalformedResponseError
			if !errors.As(err, &mErr) {
				return nil, err
			}
			badPages++
			lastErr = err
			logger.Warn("skipping malformed page",
				"report", report.String(), "window", w.String(), "page", page, "error", err)
			page++
			continue
		}

		okPages++
		total = pg.TotalPages
		records = append(records, pg.Records...)
		page++
	}

	if okPages == 0 && badPages > 0 {
		return nil, lastErr
	}
	return records, nil
}

// latestOr returns the day after the newest row in table, or the horizon
// minus the backfill bound when the table is empty.
func (p *Pipeline) latestOr(ctx context.Context, table string, horizon time.Time) (time.Time, error) {
	latest, ok, err := p.store.LatestDate(ctx, table)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return horizon.AddDate(0, 0, -p.backfillDays), nil
	}
	return latest.AddDate(0, 0, 1), nil
}

func (p *Pipeline) today() time.Time {
	return p.now().UTC().Truncate(24 * time.Hour)
}
