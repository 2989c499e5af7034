// Package normalize maps raw ERCOT report records onto the canonical model
// types. One normalization function per report type, dispatched on
// model.ReportType.
//
// The ERCOT endpoints and their 60-day archive counterparts disagree on
// field casing (deliveryDate vs DeliveryDate, settlementPoint vs
// settlementPointName), so every canonical column accepts its known
// aliases. Unexpected extra fields are ignored; a missing required field
// fails that single record with a RecordValidationError and the batch
// continues.
package normalize
