package store

// Table DDL. Natural keys are primary keys so re-ingestion upserts instead
// of duplicating; INSERTED_AT records the last write.

const createSettlementPointPricesTable = `
CREATE TABLE IF NOT EXISTS SETTLEMENT_POINT_PRICES (
    DeliveryDate         TEXT    NOT NULL,
    DeliveryHour         INTEGER NOT NULL,
    DeliveryInterval     INTEGER NOT NULL,
    SettlementPointName  TEXT    NOT NULL,
    SettlementPointType  TEXT,
    SettlementPointPrice NUMERIC,
    DSTFlag              TEXT,
    INSERTED_AT          TEXT DEFAULT (datetime('now')),
    PRIMARY KEY (DeliveryDate, DeliveryHour, DeliveryInterval, SettlementPointName)
)`

const createBidsTable = `
CREATE TABLE IF NOT EXISTS BIDS (
    DeliveryDate            TEXT    NOT NULL,
    HourEnding              INTEGER NOT NULL,
    SettlementPoint         TEXT    NOT NULL,
    QSEName                 TEXT    NOT NULL,
    EnergyOnlyBidMW1        NUMERIC, EnergyOnlyBidPrice1  NUMERIC,
    EnergyOnlyBidMW2        NUMERIC, EnergyOnlyBidPrice2  NUMERIC,
    EnergyOnlyBidMW3        NUMERIC, EnergyOnlyBidPrice3  NUMERIC,
    EnergyOnlyBidMW4        NUMERIC, EnergyOnlyBidPrice4  NUMERIC,
    EnergyOnlyBidMW5        NUMERIC, EnergyOnlyBidPrice5  NUMERIC,
    EnergyOnlyBidMW6        NUMERIC, EnergyOnlyBidPrice6  NUMERIC,
    EnergyOnlyBidMW7        NUMERIC, EnergyOnlyBidPrice7  NUMERIC,
    EnergyOnlyBidMW8        NUMERIC, EnergyOnlyBidPrice8  NUMERIC,
    EnergyOnlyBidMW9        NUMERIC, EnergyOnlyBidPrice9  NUMERIC,
    EnergyOnlyBidMW10       NUMERIC, EnergyOnlyBidPrice10 NUMERIC,
    EnergyOnlyBidID         TEXT    NOT NULL,
    MultiHourBlockIndicator TEXT,
    BlockCurveIndicator     TEXT,
    INSERTED_AT             TEXT DEFAULT (datetime('now')),
    PRIMARY KEY (DeliveryDate, HourEnding, SettlementPoint, QSEName, EnergyOnlyBidID)
)`

const createBidAwardsTable = `
CREATE TABLE IF NOT EXISTS BID_AWARDS (
    DeliveryDate         TEXT    NOT NULL,
    HourEnding           INTEGER NOT NULL,
    SettlementPoint      TEXT    NOT NULL,
    QSEName              TEXT    NOT NULL,
    EnergyOnlyBidAwardMW NUMERIC,
    SettlementPointPrice NUMERIC,
    BidId                TEXT    NOT NULL,
    INSERTED_AT          TEXT DEFAULT (datetime('now')),
    PRIMARY KEY (DeliveryDate, HourEnding, SettlementPoint, QSEName, BidId)
)`

const createOffersTable = `
CREATE TABLE IF NOT EXISTS OFFERS (
    DeliveryDate            TEXT    NOT NULL,
    HourEnding              INTEGER NOT NULL,
    SettlementPoint         TEXT    NOT NULL,
    QSEName                 TEXT    NOT NULL,
    EnergyOnlyOfferMW1      NUMERIC, EnergyOnlyOfferPrice1  NUMERIC,
    EnergyOnlyOfferMW2      NUMERIC, EnergyOnlyOfferPrice2  NUMERIC,
    EnergyOnlyOfferMW3      NUMERIC, EnergyOnlyOfferPrice3  NUMERIC,
    EnergyOnlyOfferMW4      NUMERIC, EnergyOnlyOfferPrice4  NUMERIC,
    EnergyOnlyOfferMW5      NUMERIC, EnergyOnlyOfferPrice5  NUMERIC,
    EnergyOnlyOfferMW6      NUMERIC, EnergyOnlyOfferPrice6  NUMERIC,
    EnergyOnlyOfferMW7      NUMERIC, EnergyOnlyOfferPrice7  NUMERIC,
    EnergyOnlyOfferMW8      NUMERIC, EnergyOnlyOfferPrice8  NUMERIC,
    EnergyOnlyOfferMW9      NUMERIC, EnergyOnlyOfferPrice9  NUMERIC,
    EnergyOnlyOfferMW10     NUMERIC, EnergyOnlyOfferPrice10 NUMERIC,
    EnergyOnlyOfferID       TEXT    NOT NULL,
    MultiHourBlockIndicator TEXT,
    BlockCurveIndicator     TEXT,
    INSERTED_AT             TEXT DEFAULT (datetime('now')),
    PRIMARY KEY (DeliveryDate, HourEnding, SettlementPoint, QSEName, EnergyOnlyOfferID)
)`

const createOfferAwardsTable = `
CREATE TABLE IF NOT EXISTS OFFER_AWARDS (
    DeliveryDate           TEXT    NOT NULL,
    HourEnding             INTEGER NOT NULL,
    SettlementPoint        TEXT    NOT NULL,
    QSEName                TEXT    NOT NULL,
    EnergyOnlyOfferAwardMW NUMERIC,
    SettlementPointPrice   NUMERIC,
    OfferID                TEXT    NOT NULL,
    INSERTED_AT            TEXT DEFAULT (datetime('now')),
    PRIMARY KEY (DeliveryDate, HourEnding, SettlementPoint, QSEName, OfferID)
)`

const createFinalTable = `
CREATE TABLE IF NOT EXISTS FINAL (
    DeliveryDate           TEXT    NOT NULL,
    HourEnding             INTEGER NOT NULL,
    SettlementPoint        TEXT    NOT NULL,
    QSEName                TEXT,
    EnergyOnlyBidAwardMW   NUMERIC,
    EnergyOnlyOfferAwardMW NUMERIC,
    SettlementPointPrice   NUMERIC,
    BidId                  TEXT,
    MARK_PRICE             NUMERIC,
    BID_PRICE              NUMERIC,
    BID_SIZE               NUMERIC,
    OFFER_PRICE            NUMERIC,
    OFFER_SIZE             NUMERIC,
    BlockCurve             TEXT,
    PRIMARY KEY (DeliveryDate, HourEnding, SettlementPoint)
)`

var createTableQueries = []string{
	createSettlementPointPricesTable,
	createBidsTable,
	createBidAwardsTable,
	createOffersTable,
	createOfferAwardsTable,
	createFinalTable,
}

const upsertSettlementPointPriceQuery = `
INSERT INTO SETTLEMENT_POINT_PRICES (
    DeliveryDate, DeliveryHour, DeliveryInterval, SettlementPointName,
    SettlementPointType, SettlementPointPrice, DSTFlag
) VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (DeliveryDate, DeliveryHour, DeliveryInterval, SettlementPointName) DO UPDATE SET
    SettlementPointType  = excluded.SettlementPointType,
    SettlementPointPrice = excluded.SettlementPointPrice,
    DSTFlag              = excluded.DSTFlag,
    INSERTED_AT          = datetime('now')`

const upsertBidQuery = `
INSERT INTO BIDS (
    DeliveryDate, HourEnding, SettlementPoint, QSEName,
    EnergyOnlyBidMW1, EnergyOnlyBidPrice1, EnergyOnlyBidMW2, EnergyOnlyBidPrice2,
    EnergyOnlyBidMW3, EnergyOnlyBidPrice3, EnergyOnlyBidMW4, EnergyOnlyBidPrice4,
    EnergyOnlyBidMW5, EnergyOnlyBidPrice5, EnergyOnlyBidMW6, EnergyOnlyBidPrice6,
    EnergyOnlyBidMW7, EnergyOnlyBidPrice7, EnergyOnlyBidMW8, EnergyOnlyBidPrice8,
    EnergyOnlyBidMW9, EnergyOnlyBidPrice9, EnergyOnlyBidMW10, EnergyOnlyBidPrice10,
    EnergyOnlyBidID, MultiHourBlockIndicator, BlockCurveIndicator
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (DeliveryDate, HourEnding, SettlementPoint, QSEName, EnergyOnlyBidID) DO UPDATE SET
    EnergyOnlyBidMW1 = excluded.EnergyOnlyBidMW1,   EnergyOnlyBidPrice1 = excluded.EnergyOnlyBidPrice1,
    EnergyOnlyBidMW2 = excluded.EnergyOnlyBidMW2,   EnergyOnlyBidPrice2 = excluded.EnergyOnlyBidPrice2,
    EnergyOnlyBidMW3 = excluded.EnergyOnlyBidMW3,   EnergyOnlyBidPrice3 = excluded.EnergyOnlyBidPrice3,
    EnergyOnlyBidMW4 = excluded.EnergyOnlyBidMW4,   EnergyOnlyBidPrice4 = excluded.EnergyOnlyBidPrice4,
    EnergyOnlyBidMW5 = excluded.EnergyOnlyBidMW5,   EnergyOnlyBidPrice5 = excluded.EnergyOnlyBidPrice5,
    EnergyOnlyBidMW6 = excluded.EnergyOnlyBidMW6,   EnergyOnlyBidPrice6 = excluded.EnergyOnlyBidPrice6,
    EnergyOnlyBidMW7 = excluded.EnergyOnlyBidMW7,   EnergyOnlyBidPrice7 = excluded.EnergyOnlyBidPrice7,
    EnergyOnlyBidMW8 = excluded.EnergyOnlyBidMW8,   EnergyOnlyBidPrice8 = excluded.EnergyOnlyBidPrice8,
    EnergyOnlyBidMW9 = excluded.EnergyOnlyBidMW9,   EnergyOnlyBidPrice9 = excluded.EnergyOnlyBidPrice9,
    EnergyOnlyBidMW10 = excluded.EnergyOnlyBidMW10, EnergyOnlyBidPrice10 = excluded.EnergyOnlyBidPrice10,
    MultiHourBlockIndicator = excluded.MultiHourBlockIndicator,
    BlockCurveIndicator     = excluded.BlockCurveIndicator,
    INSERTED_AT             = datetime('now')`

const upsertBidAwardQuery = `
INSERT INTO BID_AWARDS (
    DeliveryDate, HourEnding, SettlementPoint, QSEName,
    EnergyOnlyBidAwardMW, SettlementPointPrice, BidId
) VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (DeliveryDate, HourEnding, SettlementPoint, QSEName, BidId) DO UPDATE SET
    EnergyOnlyBidAwardMW = excluded.EnergyOnlyBidAwardMW,
    SettlementPointPrice = excluded.SettlementPointPrice,
    INSERTED_AT          = datetime('now')`

const upsertOfferQuery = `
INSERT INTO OFFERS (
    DeliveryDate, HourEnding, SettlementPoint, QSEName,
    EnergyOnlyOfferMW1, EnergyOnlyOfferPrice1, EnergyOnlyOfferMW2, EnergyOnlyOfferPrice2,
    EnergyOnlyOfferMW3, EnergyOnlyOfferPrice3, EnergyOnlyOfferMW4, EnergyOnlyOfferPrice4,
    EnergyOnlyOfferMW5, EnergyOnlyOfferPrice5, EnergyOnlyOfferMW6, EnergyOnlyOfferPrice6,
    EnergyOnlyOfferMW7, EnergyOnlyOfferPrice7, EnergyOnlyOfferMW8, EnergyOnlyOfferPrice8,
    EnergyOnlyOfferMW9, EnergyOnlyOfferPrice9, EnergyOnlyOfferMW10, EnergyOnlyOfferPrice10,
    EnergyOnlyOfferID, MultiHourBlockIndicator, BlockCurveIndicator
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (DeliveryDate, HourEnding, SettlementPoint, QSEName, EnergyOnlyOfferID) DO UPDATE SET
    EnergyOnlyOfferMW1 = excluded.EnergyOnlyOfferMW1,   EnergyOnlyOfferPrice1 = excluded.EnergyOnlyOfferPrice1,
    EnergyOnlyOfferMW2 = excluded.EnergyOnlyOfferMW2,   EnergyOnlyOfferPrice2 = excluded.EnergyOnlyOfferPrice2,
    EnergyOnlyOfferMW3 = excluded.EnergyOnlyOfferMW3,   EnergyOnlyOfferPrice3 = excluded.EnergyOnlyOfferPrice3,
    EnergyOnlyOfferMW4 = excluded.EnergyOnlyOfferMW4,   EnergyOnlyOfferPrice4 = excluded.EnergyOnlyOfferPrice4,
    EnergyOnlyOfferMW5 = excluded.EnergyOnlyOfferMW5,   EnergyOnlyOfferPrice5 = excluded.EnergyOnlyOfferPrice5,
    EnergyOnlyOfferMW6 = excluded.EnergyOnlyOfferMW6,   EnergyOnlyOfferPrice6 = excluded.EnergyOnlyOfferPrice6,
    EnergyOnlyOfferMW7 = excluded.EnergyOnlyOfferMW7,   EnergyOnlyOfferPrice7 = excluded.EnergyOnlyOfferPrice7,
    EnergyOnlyOfferMW8 = excluded.EnergyOnlyOfferMW8,   EnergyOnlyOfferPrice8 = excluded.EnergyOnlyOfferPrice8,
    EnergyOnlyOfferMW9 = excluded.EnergyOnlyOfferMW9,   EnergyOnlyOfferPrice9 = excluded.EnergyOnlyOfferPrice9,
    EnergyOnlyOfferMW10 = excluded.EnergyOnlyOfferMW10, EnergyOnlyOfferPrice10 = excluded.EnergyOnlyOfferPrice10,
    MultiHourBlockIndicator = excluded.MultiHourBlockIndicator,
    BlockCurveIndicator     = excluded.BlockCurveIndicator,
    INSERTED_AT             = datetime('now')`

const upsertOfferAwardQuery = `
INSERT INTO OFFER_AWARDS (
    DeliveryDate, HourEnding, SettlementPoint, QSEName,
    EnergyOnlyOfferAwardMW, SettlementPointPrice, OfferID
) VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (DeliveryDate, HourEnding, SettlementPoint, QSEName, OfferID) DO UPDATE SET
    EnergyOnlyOfferAwardMW = excluded.EnergyOnlyOfferAwardMW,
    SettlementPointPrice   = excluded.SettlementPointPrice,
    INSERTED_AT            = datetime('now')`

const activeSettlementPointsQuery = `
SELECT DISTINCT SettlementPoint FROM (
    SELECT SettlementPoint FROM BID_AWARDS
    UNION
    SELECT SettlementPoint FROM OFFER_AWARDS
)
ORDER BY SettlementPoint`

// mergeQuery rebuilds FINAL for a date range. The key universe is the union
// of (date, hour, point) keys in the award tables and the hourly-averaged
// price table, each LEFT JOINed back in, so a key present on any one side
// still yields a row (outer-join semantics). Sub-hourly SPP intervals
// contribute their hourly mean per point as the mark price. BID_PRICE and
// BID_SIZE surface the first populated level of the originating bid curve,
// OFFER_PRICE and OFFER_SIZE likewise for offers.
//
// Placeholders: start, end repeated for each range-restricted source.
const mergeQuery = `
WITH spp_hourly AS (
    SELECT DeliveryDate,
           DeliveryHour AS HourEnding,
           SettlementPointName AS SettlementPoint,
           AVG(SettlementPointPrice) AS MarkPrice
    FROM SETTLEMENT_POINT_PRICES
    WHERE DeliveryDate BETWEEN ? AND ?
    GROUP BY DeliveryDate, DeliveryHour, SettlementPointName
),
merge_keys AS (
    SELECT DeliveryDate, HourEnding, SettlementPoint
    FROM BID_AWARDS WHERE DeliveryDate BETWEEN ? AND ?
    UNION
    SELECT DeliveryDate, HourEnding, SettlementPoint
    FROM OFFER_AWARDS WHERE DeliveryDate BETWEEN ? AND ?
    UNION
    SELECT DeliveryDate, HourEnding, SettlementPoint FROM spp_hourly
)
INSERT OR REPLACE INTO FINAL (
    DeliveryDate, HourEnding, SettlementPoint, QSEName,
    EnergyOnlyBidAwardMW, EnergyOnlyOfferAwardMW, SettlementPointPrice,
    BidId, MARK_PRICE, BID_PRICE, BID_SIZE, OFFER_PRICE, OFFER_SIZE, BlockCurve
)
SELECT
    k.DeliveryDate,
    k.HourEnding,
    k.SettlementPoint,
    COALESCE(ba.QSEName, oa.QSEName),
    ba.EnergyOnlyBidAwardMW,
    oa.EnergyOnlyOfferAwardMW,
    COALESCE(ba.SettlementPointPrice, oa.SettlementPointPrice, sp.MarkPrice),
    ba.BidId,
    sp.MarkPrice,
    CASE
        WHEN b.EnergyOnlyBidMW1 IS NOT NULL THEN b.EnergyOnlyBidPrice1
        WHEN b.EnergyOnlyBidMW2 IS NOT NULL THEN b.EnergyOnlyBidPrice2
        WHEN b.EnergyOnlyBidMW3 IS NOT NULL THEN b.EnergyOnlyBidPrice3
        WHEN b.EnergyOnlyBidMW4 IS NOT NULL THEN b.EnergyOnlyBidPrice4
        WHEN b.EnergyOnlyBidMW5 IS NOT NULL THEN b.EnergyOnlyBidPrice5
        ELSE NULL
    END,
    CASE
        WHEN b.EnergyOnlyBidMW1 IS NOT NULL THEN b.EnergyOnlyBidMW1
        WHEN b.EnergyOnlyBidMW2 IS NOT NULL THEN b.EnergyOnlyBidMW2
        WHEN b.EnergyOnlyBidMW3 IS NOT NULL THEN b.EnergyOnlyBidMW3
        WHEN b.EnergyOnlyBidMW4 IS NOT NULL THEN b.EnergyOnlyBidMW4
        WHEN b.EnergyOnlyBidMW5 IS NOT NULL THEN b.EnergyOnlyBidMW5
        ELSE NULL
    END,
    CASE
        WHEN o.EnergyOnlyOfferMW1 IS NOT NULL THEN o.EnergyOnlyOfferPrice1
        WHEN o.EnergyOnlyOfferMW2 IS NOT NULL THEN o.EnergyOnlyOfferPrice2
        WHEN o.EnergyOnlyOfferMW3 IS NOT NULL THEN o.EnergyOnlyOfferPrice3
        WHEN o.EnergyOnlyOfferMW4 IS NOT NULL THEN o.EnergyOnlyOfferPrice4
        WHEN o.EnergyOnlyOfferMW5 IS NOT NULL THEN o.EnergyOnlyOfferPrice5
        ELSE NULL
    END,
    CASE
        WHEN o.EnergyOnlyOfferMW1 IS NOT NULL THEN o.EnergyOnlyOfferMW1
        WHEN o.EnergyOnlyOfferMW2 IS NOT NULL THEN o.EnergyOnlyOfferMW2
        WHEN o.EnergyOnlyOfferMW3 IS NOT NULL THEN o.EnergyOnlyOfferMW3
        WHEN o.EnergyOnlyOfferMW4 IS NOT NULL THEN o.EnergyOnlyOfferMW4
        WHEN o.EnergyOnlyOfferMW5 IS NOT NULL THEN o.EnergyOnlyOfferMW5
        ELSE NULL
    END,
    b.BlockCurveIndicator
FROM merge_keys k
LEFT JOIN BID_AWARDS ba
    ON ba.DeliveryDate = k.DeliveryDate
    AND ba.HourEnding = k.HourEnding
    AND ba.SettlementPoint = k.SettlementPoint
LEFT JOIN OFFER_AWARDS oa
    ON oa.DeliveryDate = k.DeliveryDate
    AND oa.HourEnding = k.HourEnding
    AND oa.SettlementPoint = k.SettlementPoint
LEFT JOIN spp_hourly sp
    ON sp.DeliveryDate = k.DeliveryDate
    AND sp.HourEnding = k.HourEnding
    AND sp.SettlementPoint = k.SettlementPoint
LEFT JOIN BIDS b
    ON b.EnergyOnlyBidID = ba.BidId
    AND b.DeliveryDate = ba.DeliveryDate
    AND b.HourEnding = ba.HourEnding
LEFT JOIN OFFERS o
    ON o.EnergyOnlyOfferID = oa.OfferID
    AND o.DeliveryDate = oa.DeliveryDate
    AND o.HourEnding = oa.HourEnding`
