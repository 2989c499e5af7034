package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gridfin/ercot-data/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), slog.Default())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(model.DateFormat, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ndec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func bidAward(t *testing.T, day string, hour int, point, qse, mw, price, id string) model.BidAward {
	return model.BidAward{
		DeliveryDate:         date(t, day),
		HourEnding:           hour,
		SettlementPoint:      point,
		QSEName:              qse,
		EnergyOnlyBidAwardMW: dec(mw),
		SettlementPointPrice: dec(price),
		BidID:                id,
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	s := testStore(t)

	for _, table := range []string{
		model.TableSettlementPointPrices, model.TableBids, model.TableBidAwards,
		model.TableOffers, model.TableOfferAwards, model.TableFinal,
	} {
		if _, err := s.RowCount(context.Background(), table); err != nil {
			t.Errorf("RowCount(%s) failed: %v", table, err)
		}
	}
}

func TestUpsertBidAwardsIdempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	rows := []model.BidAward{
		bidAward(t, "2024-01-01", 5, "HB_NORTH", "QABCD", "100", "25.50", "1"),
		bidAward(t, "2024-01-01", 6, "HB_NORTH", "QABCD", "50", "26.00", "2"),
	}

	for i := 0; i < 3; i++ {
		if err := s.UpsertBidAwards(ctx, rows); err != nil {
			t.Fatalf("UpsertBidAwards (pass %d) failed: %v", i, err)
		}
	}

	n, err := s.RowCount(ctx, model.TableBidAwards)
	if err != nil {
		t.Fatalf("RowCount failed: %v", err)
	}
	if n != 2 {
		t.Errorf("row count = %d, want 2 after repeated upserts", n)
	}
}

func TestUpsertOverwritesValues(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.UpsertBidAwards(ctx, []model.BidAward{
		bidAward(t, "2024-01-01", 5, "HB_NORTH", "QABCD", "100", "25.50", "1"),
	}); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	// Same natural key, corrected award quantity.
	if err := s.UpsertBidAwards(ctx, []model.BidAward{
		bidAward(t, "2024-01-01", 5, "HB_NORTH", "QABCD", "110", "25.50", "1"),
	}); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	var mw decimal.Decimal
	err := s.db.QueryRow("SELECT EnergyOnlyBidAwardMW FROM BID_AWARDS").Scan(&mw)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if !mw.Equal(dec("110")) {
		t.Errorf("MW = %s, want 110", mw)
	}
}

func TestUpsertBidsCurveLevels(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	b := model.Bid{
		DeliveryDate:        date(t, "2024-01-01"),
		HourEnding:          5,
		SettlementPoint:     "HB_NORTH",
		QSEName:             "QABCD",
		EnergyOnlyBidID:     "1",
		BlockCurveIndicator: "N",
	}
	b.Levels[0] = model.CurveLevel{MW: ndec("100"), Price: ndec("25.50")}
	b.Levels[1] = model.CurveLevel{MW: ndec("50"), Price: ndec("24.00")}

	if err := s.UpsertBids(ctx, []model.Bid{b}); err != nil {
		t.Fatalf("UpsertBids failed: %v", err)
	}

	var (
		price1 decimal.NullDecimal
		mw3    decimal.NullDecimal
	)
	err := s.db.QueryRow("SELECT EnergyOnlyBidPrice1, EnergyOnlyBidMW3 FROM BIDS").Scan(&price1, &mw3)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if !price1.Valid || !price1.Decimal.Equal(dec("25.50")) {
		t.Errorf("price1 = %+v, want 25.50", price1)
	}
	if mw3.Valid {
		t.Errorf("MW3 = %+v, want null", mw3)
	}
}

func TestLatestDate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if _, ok, err := s.LatestDate(ctx, model.TableBidAwards); err != nil || ok {
		t.Fatalf("empty table: ok=%v err=%v, want false nil", ok, err)
	}

	if err := s.UpsertBidAwards(ctx, []model.BidAward{
		bidAward(t, "2024-01-03", 1, "HB_NORTH", "QABCD", "1", "1", "1"),
		bidAward(t, "2024-01-10", 1, "HB_NORTH", "QABCD", "1", "1", "2"),
		bidAward(t, "2024-01-07", 1, "HB_NORTH", "QABCD", "1", "1", "3"),
	}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	d, ok, err := s.LatestDate(ctx, model.TableBidAwards)
	if err != nil || !ok {
		t.Fatalf("LatestDate: ok=%v err=%v", ok, err)
	}
	if got := d.Format(model.DateFormat); got != "2024-01-10" {
		t.Errorf("latest date = %s, want 2024-01-10", got)
	}
}

func TestLatestDateUnknownTable(t *testing.T) {
	s := testStore(t)
	if _, _, err := s.LatestDate(context.Background(), "sqlite_master; DROP TABLE BIDS"); err == nil {
		t.Error("expected error for unknown table")
	}
}

func TestActiveSettlementPoints(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.UpsertBidAwards(ctx, []model.BidAward{
		bidAward(t, "2024-01-01", 1, "HB_NORTH", "QABCD", "1", "1", "1"),
	}); err != nil {
		t.Fatalf("upsert bid awards failed: %v", err)
	}
	if err := s.UpsertOfferAwards(ctx, []model.OfferAward{{
		DeliveryDate:           date(t, "2024-01-01"),
		HourEnding:             1,
		SettlementPoint:        "HB_HOUSTON",
		QSEName:                "QXYZ1",
		EnergyOnlyOfferAwardMW: dec("1"),
		SettlementPointPrice:   dec("1"),
		OfferID:                "O-1",
	}}); err != nil {
		t.Fatalf("upsert offer awards failed: %v", err)
	}

	points, err := s.ActiveSettlementPoints(ctx)
	if err != nil {
		t.Fatalf("ActiveSettlementPoints failed: %v", err)
	}
	want := []string{"HB_HOUSTON", "HB_NORTH"}
	if len(points) != 2 || points[0] != want[0] || points[1] != want[1] {
		t.Errorf("points = %v, want %v", points, want)
	}
}
