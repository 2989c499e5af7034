package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gridfin/ercot-data/internal/model"
)

// Store wraps the SQLite database holding raw report tables and FINAL.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and ensures the
// schema exists. WAL mode keeps readers unblocked during batch writes.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite serializes writers; a single connection avoids lock contention
	// inside our own process.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	for _, q := range createTableQueries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// UpsertSettlementPointPrices writes a batch of price rows in one
// transaction. Re-running the same batch is a no-op apart from INSERTED_AT.
func (s *Store) UpsertSettlementPointPrices(ctx context.Context, rows []model.SettlementPointPrice) error {
	if len(rows) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertSettlementPointPriceQuery)
		if err != nil {
			return fmt.Errorf("prepare spp upsert: %w", err)
		}
		defer stmt.Close()

		for _, r := range rows {
			_, err := stmt.ExecContext(ctx,
				r.DeliveryDate.Format(model.DateFormat),
				r.DeliveryHour,
				r.DeliveryInterval,
				r.SettlementPointName,
				r.SettlementPointType,
				r.SettlementPointPrice,
				r.DSTFlag,
			)
			if err != nil {
				return fmt.Errorf("upsert settlement point price: %w", err)
			}
		}
		return nil
	})
}

// UpsertBids writes a batch of bid rows in one transaction.
func (s *Store) UpsertBids(ctx context.Context, rows []model.Bid) error {
	if len(rows) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertBidQuery)
		if err != nil {
			return fmt.Errorf("prepare bid upsert: %w", err)
		}
		defer stmt.Close()

		for _, r := range rows {
			args := make([]any, 0, 27)
			args = append(args,
				r.DeliveryDate.Format(model.DateFormat),
				r.HourEnding,
				r.SettlementPoint,
				r.QSEName,
			)
			for _, lvl := range r.Levels {
				args = append(args, lvl.MW, lvl.Price)
			}
			args = append(args, r.EnergyOnlyBidID, r.MultiHourBlockIndicator, r.BlockCurveIndicator)

			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("upsert bid: %w", err)
			}
		}
		return nil
	})
}

// UpsertBidAwards writes a batch of bid-award rows in one transaction.
func (s *Store) UpsertBidAwards(ctx context.Context, rows []model.BidAward) error {
	if len(rows) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertBidAwardQuery)
		if err != nil {
			return fmt.Errorf("prepare bid award upsert: %w", err)
		}
		defer stmt.Close()

		for _, r := range rows {
			_, err := stmt.ExecContext(ctx,
				r.DeliveryDate.Format(model.DateFormat),
				r.HourEnding,
				r.SettlementPoint,
				r.QSEName,
				r.EnergyOnlyBidAwardMW,
				r.SettlementPointPrice,
				r.BidID,
			)
			if err != nil {
				return fmt.Errorf("upsert bid award: %w", err)
			}
		}
		return nil
	})
}

// UpsertOffers writes a batch of offer rows in one transaction.
func (s *Store) UpsertOffers(ctx context.Context, rows []model.Offer) error {
	if len(rows) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertOfferQuery)
		if err != nil {
			return fmt.Errorf("prepare offer upsert: %w", err)
		}
		defer stmt.Close()

		for _, r := range rows {
			args := make([]any, 0, 27)
			args = append(args,
				r.DeliveryDate.Format(model.DateFormat),
				r.HourEnding,
				r.SettlementPoint,
				r.QSEName,
			)
			for _, lvl := range r.Levels {
				args = append(args, lvl.MW, lvl.Price)
			}
			args = append(args, r.EnergyOnlyOfferID, r.MultiHourBlockIndicator, r.BlockCurveIndicator)

			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("upsert offer: %w", err)
			}
		}
		return nil
	})
}

// UpsertOfferAwards writes a batch of offer-award rows in one transaction.
func (s *Store) UpsertOfferAwards(ctx context.Context, rows []model.OfferAward) error {
	if len(rows) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertOfferAwardQuery)
		if err != nil {
			return fmt.Errorf("prepare offer award upsert: %w", err)
		}
		defer stmt.Close()

		for _, r := range rows {
			_, err := stmt.ExecContext(ctx,
				r.DeliveryDate.Format(model.DateFormat),
				r.HourEnding,
				r.SettlementPoint,
				r.QSEName,
				r.EnergyOnlyOfferAwardMW,
				r.SettlementPointPrice,
				r.OfferID,
			)
			if err != nil {
				return fmt.Errorf("upsert offer award: %w", err)
			}
		}
		return nil
	})
}

// dateColumn maps a table to its delivery-date column. Table names are
// validated here because they are interpolated into SQL.
func dateColumn(table string) (string, error) {
	switch table {
	case model.TableSettlementPointPrices, model.TableBids, model.TableBidAwards,
		model.TableOffers, model.TableOfferAwards, model.TableFinal:
		return "DeliveryDate", nil
	default:
		return "", fmt.Errorf("unknown table %q", table)
	}
}

// LatestDate returns the most recent delivery date present in a table. The
// second return is false when the table is empty.
func (s *Store) LatestDate(ctx context.Context, table string) (time.Time, bool, error) {
	col, err := dateColumn(table)
	if err != nil {
		return time.Time{}, false, err
	}

	var raw sql.NullString
	query := fmt.Sprintf("SELECT MAX(%s) FROM %s", col, table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&raw); err != nil {
		return time.Time{}, false, fmt.Errorf("latest date for %s: %w", table, err)
	}
	if !raw.Valid {
		return time.Time{}, false, nil
	}

	d, err := time.Parse(model.DateFormat, raw.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse latest date %q: %w", raw.String, err)
	}
	return d, true, nil
}

// RowCount returns the number of rows in a table.
func (s *Store) RowCount(ctx context.Context, table string) (int64, error) {
	if _, err := dateColumn(table); err != nil {
		return 0, err
	}
	var n int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// ActiveSettlementPoints returns the distinct settlement points seen in
// either award table, sorted.
func (s *Store) ActiveSettlementPoints(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, activeSettlementPointsQuery)
	if err != nil {
		return nil, fmt.Errorf("query settlement points: %w", err)
	}
	defer rows.Close()

	var points []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan settlement point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
