package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/gridfin/ercot-data/internal/model"
)

// MergeRangeError reports an invalid merge range (start after end).
type MergeRangeError struct {
	Start, End time.Time
}

func (e *MergeRangeError) Error() string {
	return fmt.Sprintf("merge range start %s after end %s",
		e.Start.Format(model.DateFormat), e.End.Format(model.DateFormat))
}

// Merge rebuilds the FINAL table for [start, end] from the raw report
// tables and returns the number of FINAL rows in the range afterwards.
// Deletion and rebuild run in one transaction, so a failed merge leaves the
// previous FINAL contents untouched. Merging the same range twice produces
// identical contents.
func (s *Store) Merge(ctx context.Context, start, end time.Time) (int64, error) {
	if start.After(end) {
		return 0, &MergeRangeError{Start: start, End: end}
	}
	from := start.Format(model.DateFormat)
	to := end.Format(model.DateFormat)

	if s.logger.Enabled(ctx, slog.LevelDebug) {
		for _, table := range []string{
			model.TableBidAwards, model.TableOfferAwards,
			model.TableBids, model.TableOffers, model.TableSettlementPointPrices,
		} {
			var n int64
			row := s.db.QueryRowContext(ctx, fmt.Sprintf(
				"SELECT COUNT(*) FROM %s WHERE DeliveryDate BETWEEN ? AND ?", table), from, to)
			if err := row.Scan(&n); err == nil {
				s.logger.Debug("merge source", "table", table, "rows", n)
			}
		}
	}

	var count int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM FINAL WHERE DeliveryDate BETWEEN ? AND ?", from, to); err != nil {
			return fmt.Errorf("clear final range: %w", err)
		}

		if _, err := tx.ExecContext(ctx, mergeQuery, from, to, from, to, from, to); err != nil {
			return fmt.Errorf("merge final range: %w", err)
		}

		row := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM FINAL WHERE DeliveryDate BETWEEN ? AND ?", from, to)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("count final range: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("merged final range", "from", from, "to", to, "rows", count)
	return count, nil
}

// FinalRow reads one FINAL row by key, for verification and tests.
func (s *Store) FinalRow(ctx context.Context, date time.Time, hourEnding int, point string) (*model.FinalRow, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT DeliveryDate, HourEnding, SettlementPoint, QSEName,
               EnergyOnlyBidAwardMW, EnergyOnlyOfferAwardMW, SettlementPointPrice,
               BidId, MARK_PRICE, BID_PRICE, BID_SIZE, OFFER_PRICE, OFFER_SIZE, BlockCurve
        FROM FINAL
        WHERE DeliveryDate = ? AND HourEnding = ? AND SettlementPoint = ?`,
		date.Format(model.DateFormat), hourEnding, point)

	var (
		fr      model.FinalRow
		rawDate string
		qse     sql.NullString
		bidID   sql.NullString
		block   sql.NullString
	)
	err := row.Scan(&rawDate, &fr.HourEnding, &fr.SettlementPoint, &qse,
		&fr.EnergyOnlyBidAwardMW, &fr.OfferAwardMW, &fr.SettlementPointPrice,
		&bidID, &fr.MarkPrice, &fr.BidPrice, &fr.BidSize, &fr.OfferPrice, &fr.OfferSize, &block)
	if err != nil {
		return nil, err
	}

	fr.DeliveryDate, err = time.Parse(model.DateFormat, rawDate)
	if err != nil {
		return nil, fmt.Errorf("parse final date %q: %w", rawDate, err)
	}
	fr.QSEName = qse.String
	fr.BidID = bidID.String
	fr.BlockCurve = block.String
	return &fr, nil
}
