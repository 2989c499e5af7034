package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the canonical delivery-date layout used in the database and
// in API query parameters.
const DateFormat = "2006-01-02"

// ReportType identifies one of the ERCOT report families the pipeline
// ingests. Normalization and storage dispatch on this tag.
type ReportType int

const (
	ReportEnergyBids ReportType = iota
	ReportBidAwards
	ReportEnergyOnlyOffers
	ReportOfferAwards
	ReportSettlementPointPrices
)

// String returns the report's table name. Report types map 1:1 onto tables.
func (r ReportType) String() string { return r.Table() }

// Table returns the database table a report type is stored in.
func (r ReportType) Table() string {
	switch r {
	case ReportEnergyBids:
		return TableBids
	case ReportBidAwards:
		return TableBidAwards
	case ReportEnergyOnlyOffers:
		return TableOffers
	case ReportOfferAwards:
		return TableOfferAwards
	case ReportSettlementPointPrices:
		return TableSettlementPointPrices
	default:
		return "UNKNOWN"
	}
}

// DAMReports lists the four day-ahead market report types in ingestion order.
var DAMReports = []ReportType{
	ReportBidAwards,
	ReportEnergyBids,
	ReportOfferAwards,
	ReportEnergyOnlyOffers,
}

// Database table names.
const (
	TableSettlementPointPrices = "SETTLEMENT_POINT_PRICES"
	TableBids                  = "BIDS"
	TableBidAwards             = "BID_AWARDS"
	TableOffers                = "OFFERS"
	TableOfferAwards           = "OFFER_AWARDS"
	TableFinal                 = "FINAL"
)

// Settlement point classes, from the SPP report's settlementPointType field.
// The three flavors share a schema but identify semantically distinct
// locations, so every price row carries its class.
const (
	PointClassNode     = "RN" // resource node
	PointClassHub      = "HU" // trading hub
	PointClassLoadZone = "LZ" // load zone
)

// SettlementPointPrice is one cleared price at a settlement point for one
// 15-minute interval.
type SettlementPointPrice struct {
	DeliveryDate         time.Time
	DeliveryHour         int // hour-ending, 1-24
	DeliveryInterval     int // 15-minute interval within the hour, 1-4
	SettlementPointName  string
	SettlementPointType  string // point class: RN, HU, LZ
	SettlementPointPrice decimal.Decimal
	DSTFlag              string
}

// CurveLevel is one (quantity, price) step of a bid or offer curve.
type CurveLevel struct {
	MW    decimal.NullDecimal
	Price decimal.NullDecimal
}

// MaxCurveLevels is the number of price/quantity steps an energy-only bid or
// offer may carry.
const MaxCurveLevels = 10

// Bid is one day-ahead energy-only bid with up to ten curve levels.
type Bid struct {
	DeliveryDate            time.Time
	HourEnding              int // hour-ending, 1-24
	SettlementPoint         string
	QSEName                 string
	Levels                  [MaxCurveLevels]CurveLevel
	EnergyOnlyBidID         string
	MultiHourBlockIndicator string
	BlockCurveIndicator     string
}

// BidAward is the awarded outcome of an energy-only bid.
type BidAward struct {
	DeliveryDate         time.Time
	HourEnding           int
	SettlementPoint      string
	QSEName              string
	EnergyOnlyBidAwardMW decimal.Decimal
	SettlementPointPrice decimal.Decimal
	BidID                string
}

// Offer is one day-ahead energy-only offer with up to ten curve levels.
type Offer struct {
	DeliveryDate            time.Time
	HourEnding              int
	SettlementPoint         string
	QSEName                 string
	Levels                  [MaxCurveLevels]CurveLevel
	EnergyOnlyOfferID       string
	MultiHourBlockIndicator string
	BlockCurveIndicator     string
}

// OfferAward is the awarded outcome of an energy-only offer.
type OfferAward struct {
	DeliveryDate           time.Time
	HourEnding             int
	SettlementPoint        string
	QSEName                string
	EnergyOnlyOfferAwardMW decimal.Decimal
	SettlementPointPrice   decimal.Decimal
	OfferID                string
}

// FinalRow is one row of the derived FINAL table: the outer join of awards,
// originating curves, and prices per (date, hour, settlement point). Sides
// with no source data are null.
type FinalRow struct {
	DeliveryDate         time.Time
	HourEnding           int
	SettlementPoint      string
	QSEName              string // from bid award, else offer award
	EnergyOnlyBidAwardMW decimal.NullDecimal
	OfferAwardMW         decimal.NullDecimal
	SettlementPointPrice decimal.NullDecimal // award price, else mark price
	BidID                string
	MarkPrice            decimal.NullDecimal // hourly mean SPP
	BidPrice             decimal.NullDecimal // first populated bid level
	BidSize              decimal.NullDecimal
	OfferPrice           decimal.NullDecimal // first populated offer level
	OfferSize            decimal.NullDecimal
	BlockCurve           string
}
