package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/gridfin/ercot-data/internal/model"
)

// Field aliases shared by several report types.
var (
	aliasDate  = []string{"deliveryDate", "DeliveryDate"}
	aliasHour  = []string{"hourEnding", "HourEnding"}
	aliasPoint = []string{"settlementPoint", "settlementPointName", "SettlementPoint", "SettlementPointName"}
	aliasQSE   = []string{"qseName", "QSEName", "QseName"}
	aliasPrice = []string{"settlementPointPrice", "SettlementPointPrice"}
)

// keyFields extracts the (date, hour, point) portion shared by every DAM
// record.
func keyFields(report model.ReportType, rec map[string]any) (time.Time, int, string, error) {
	date, ok, err := getDate(rec, aliasDate...)
	if err != nil {
		return time.Time{}, 0, "", errBad(report, "deliveryDate", err)
	}
	if !ok {
		return time.Time{}, 0, "", errMissing(report, "deliveryDate")
	}

	hour, ok, err := getInt(rec, aliasHour...)
	if err != nil {
		return time.Time{}, 0, "", errBad(report, "hourEnding", err)
	}
	if !ok {
		return time.Time{}, 0, "", errMissing(report, "hourEnding")
	}
	if hour < 1 || hour > 25 { // 25 covers the DST long day
		return time.Time{}, 0, "", errBad(report, "hourEnding", fmt.Errorf("out of range: %d", hour))
	}

	point, ok := getString(rec, aliasPoint...)
	if !ok || point == "" {
		return time.Time{}, 0, "", errMissing(report, "settlementPoint")
	}

	return date, hour, point, nil
}

// Bid normalizes a raw energy-bid record.
func Bid(rec map[string]any) (model.Bid, error) {
	const report = model.ReportEnergyBids

	date, hour, point, err := keyFields(report, rec)
	if err != nil {
		return model.Bid{}, err
	}

	qse, ok := getString(rec, aliasQSE...)
	if !ok || qse == "" {
		return model.Bid{}, errMissing(report, "qseName")
	}

	bidID, ok := getString(rec, "energyOnlyBidId", "bidId", "EnergyOnlyBidID", "BidId")
	if !ok || bidID == "" {
		return model.Bid{}, errMissing(report, "energyOnlyBidId")
	}

	b := model.Bid{
		DeliveryDate:    date,
		HourEnding:      hour,
		SettlementPoint: point,
		QSEName:         qse,
		EnergyOnlyBidID: bidID,
	}
	b.MultiHourBlockIndicator, _ = getString(rec, "multiHourBlock", "multiHourBlockIndicator", "MultiHourBlockIndicator")
	b.BlockCurveIndicator, _ = getString(rec, "blockCurve", "blockCurveIndicator", "BlockCurveIndicator")

	for i := 0; i < model.MaxCurveLevels; i++ {
		n := i + 1
		mw, err := getNullDecimal(rec,
			fmt.Sprintf("energyOnlyBidMw%d", n),
			fmt.Sprintf("energyOnlyBidMW%d", n),
			fmt.Sprintf("EnergyOnlyBidMW%d", n))
		if err != nil {
			return model.Bid{}, errBad(report, fmt.Sprintf("energyOnlyBidMw%d", n), err)
		}
		price, err := getNullDecimal(rec,
			fmt.Sprintf("energyOnlyBidPrice%d", n),
			fmt.Sprintf("EnergyOnlyBidPrice%d", n))
		if err != nil {
			return model.Bid{}, errBad(report, fmt.Sprintf("energyOnlyBidPrice%d", n), err)
		}
		b.Levels[i] = model.CurveLevel{MW: mw, Price: price}
	}

	return b, nil
}

// BidAward normalizes a raw bid-award record.
func BidAward(rec map[string]any) (model.BidAward, error) {
	const report = model.ReportBidAwards

	date, hour, point, err := keyFields(report, rec)
	if err != nil {
		return model.BidAward{}, err
	}

	qse, ok := getString(rec, aliasQSE...)
	if !ok || qse == "" {
		return model.BidAward{}, errMissing(report, "qseName")
	}

	bidID, ok := getString(rec, "bidId", "BidId", "BidID")
	if !ok || bidID == "" {
		return model.BidAward{}, errMissing(report, "bidId")
	}

	mw, ok, err := getDecimal(rec, "energyOnlyBidAwardInMW", "energyOnlyBidAwardMW", "EnergyOnlyBidAwardMW")
	if err != nil {
		return model.BidAward{}, errBad(report, "energyOnlyBidAwardInMW", err)
	}
	if !ok {
		return model.BidAward{}, errMissing(report, "energyOnlyBidAwardInMW")
	}

	price, ok, err := getDecimal(rec, aliasPrice...)
	if err != nil {
		return model.BidAward{}, errBad(report, "settlementPointPrice", err)
	}
	if !ok {
		return model.BidAward{}, errMissing(report, "settlementPointPrice")
	}

	return model.BidAward{
		DeliveryDate:         date,
		HourEnding:           hour,
		SettlementPoint:      point,
		QSEName:              qse,
		EnergyOnlyBidAwardMW: mw,
		SettlementPointPrice: price,
		BidID:                bidID,
	}, nil
}

// Offer normalizes a raw energy-only-offer record.
func Offer(rec map[string]any) (model.Offer, error) {
	const report = model.ReportEnergyOnlyOffers

	date, hour, point, err := keyFields(report, rec)
	if err != nil {
		return model.Offer{}, err
	}

	qse, ok := getString(rec, aliasQSE...)
	if !ok || qse == "" {
		return model.Offer{}, errMissing(report, "qseName")
	}

	offerID, ok := getString(rec, "energyOnlyOfferId", "offerId", "EnergyOnlyOfferID", "OfferID")
	if !ok || offerID == "" {
		return model.Offer{}, errMissing(report, "energyOnlyOfferId")
	}

	o := model.Offer{
		DeliveryDate:      date,
		HourEnding:        hour,
		SettlementPoint:   point,
		QSEName:           qse,
		EnergyOnlyOfferID: offerID,
	}
	o.MultiHourBlockIndicator, _ = getString(rec, "multiHourBlock", "multiHourBlockIndicator", "MultiHourBlockIndicator")
	o.BlockCurveIndicator, _ = getString(rec, "blockCurve", "blockCurveIndicator", "BlockCurveIndicator")

	for i := 0; i < model.MaxCurveLevels; i++ {
		n := i + 1
		mw, err := getNullDecimal(rec,
			fmt.Sprintf("energyOnlyOfferMw%d", n),
			fmt.Sprintf("energyOnlyOfferMW%d", n),
			fmt.Sprintf("EnergyOnlyOfferMW%d", n))
		if err != nil {
			return model.Offer{}, errBad(report, fmt.Sprintf("energyOnlyOfferMw%d", n), err)
		}
		price, err := getNullDecimal(rec,
			fmt.Sprintf("energyOnlyOfferPrice%d", n),
			fmt.Sprintf("EnergyOnlyOfferPrice%d", n))
		if err != nil {
			return model.Offer{}, errBad(report, fmt.Sprintf("energyOnlyOfferPrice%d", n), err)
		}
		o.Levels[i] = model.CurveLevel{MW: mw, Price: price}
	}

	return o, nil
}

// OfferAward normalizes a raw offer-award record.
func OfferAward(rec map[string]any) (model.OfferAward, error) {
	const report = model.ReportOfferAwards

	date, hour, point, err := keyFields(report, rec)
	if err != nil {
		return model.OfferAward{}, err
	}

	qse, ok := getString(rec, aliasQSE...)
	if !ok || qse == "" {
		return model.OfferAward{}, errMissing(report, "qseName")
	}

	offerID, ok := getString(rec, "offerId", "OfferID", "OfferId")
	if !ok || offerID == "" {
		return model.OfferAward{}, errMissing(report, "offerId")
	}

	mw, ok, err := getDecimal(rec, "energyOnlyOfferAwardInMW", "energyOnlyOfferAwardMW", "EnergyOnlyOfferAwardMW")
	if err != nil {
		return model.OfferAward{}, errBad(report, "energyOnlyOfferAwardInMW", err)
	}
	if !ok {
		return model.OfferAward{}, errMissing(report, "energyOnlyOfferAwardInMW")
	}

	price, ok, err := getDecimal(rec, aliasPrice...)
	if err != nil {
		return model.OfferAward{}, errBad(report, "settlementPointPrice", err)
	}
	if !ok {
		return model.OfferAward{}, errMissing(report, "settlementPointPrice")
	}

	return model.OfferAward{
		DeliveryDate:           date,
		HourEnding:             hour,
		SettlementPoint:        point,
		QSEName:                qse,
		EnergyOnlyOfferAwardMW: mw,
		SettlementPointPrice:   price,
		OfferID:                offerID,
	}, nil
}

// pointClass canonicalizes the SPP settlementPointType codes. The three
// flavors (resource node, hub, load zone) share a schema but identify
// different things, so the class always survives normalization. Unknown
// codes pass through uppercased rather than failing the record.
func pointClass(raw string) string {
	switch code := strings.ToUpper(strings.TrimSpace(raw)); code {
	case "RN", "RESOURCE NODE", "NODE":
		return model.PointClassNode
	case "HU", "AH", "SH", "HUB":
		return model.PointClassHub
	case "LZ", "AHLZ", "LOAD ZONE", "LOADZONE":
		return model.PointClassLoadZone
	default:
		return code
	}
}

// SettlementPointPrice normalizes a raw SPP record, tagging it with its
// point class.
func SettlementPointPrice(rec map[string]any) (model.SettlementPointPrice, error) {
	const report = model.ReportSettlementPointPrices

	date, ok, err := getDate(rec, aliasDate...)
	if err != nil {
		return model.SettlementPointPrice{}, errBad(report, "deliveryDate", err)
	}
	if !ok {
		return model.SettlementPointPrice{}, errMissing(report, "deliveryDate")
	}

	hour, ok, err := getInt(rec, "deliveryHour", "DeliveryHour")
	if err != nil {
		return model.SettlementPointPrice{}, errBad(report, "deliveryHour", err)
	}
	if !ok {
		return model.SettlementPointPrice{}, errMissing(report, "deliveryHour")
	}

	interval, ok, err := getInt(rec, "deliveryInterval", "DeliveryInterval")
	if err != nil {
		return model.SettlementPointPrice{}, errBad(report, "deliveryInterval", err)
	}
	if !ok {
		return model.SettlementPointPrice{}, errMissing(report, "deliveryInterval")
	}
	if interval < 1 || interval > 4 {
		return model.SettlementPointPrice{}, errBad(report, "deliveryInterval",
			fmt.Errorf("out of range: %d", interval))
	}

	point, ok := getString(rec, "settlementPointName", "settlementPoint", "SettlementPointName", "SettlementPoint")
	if !ok || point == "" {
		return model.SettlementPointPrice{}, errMissing(report, "settlementPointName")
	}

	ptype, ok := getString(rec, "settlementPointType", "SettlementPointType")
	if !ok || ptype == "" {
		return model.SettlementPointPrice{}, errMissing(report, "settlementPointType")
	}

	price, ok, err := getDecimal(rec, aliasPrice...)
	if err != nil {
		return model.SettlementPointPrice{}, errBad(report, "settlementPointPrice", err)
	}
	if !ok {
		return model.SettlementPointPrice{}, errMissing(report, "settlementPointPrice")
	}

	dst, _ := getString(rec, "dstFlag", "DSTFlag")

	return model.SettlementPointPrice{
		DeliveryDate:         date,
		DeliveryHour:         hour,
		DeliveryInterval:     interval,
		SettlementPointName:  point,
		SettlementPointType:  pointClass(ptype),
		SettlementPointPrice: price,
		DSTFlag:              dst,
	}, nil
}
