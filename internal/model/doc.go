// Package model defines the canonical row types for the ERCOT data pipeline.
//
// One struct per report table; field names match the database columns, which
// in turn follow the ERCOT report field names.
//
// Conventions:
//   - Prices and MW quantities: decimal.Decimal / decimal.NullDecimal
//     (fixed precision, never float64)
//   - Delivery dates: time.Time at civil-date resolution, stored as YYYY-MM-DD
//   - DAM hours: hour-ending 1-24; SPP adds a 15-minute interval index 1-4
package model
