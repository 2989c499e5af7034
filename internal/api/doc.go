// Package api provides the client for the ERCOT Public Reports API.
//
// Report endpoints (paginated, date-filtered):
//   - DAM product np3-966-er: energy bids, bid awards, energy-only offers,
//     offer awards (disclosed 60 days after the operating day)
//   - SPP product np6-905-cd: settlement point prices for nodes, hubs and
//     load zones
//
// Requests carry an Ocp-Apim-Subscription-Key header plus a bearer id_token
// obtained from the ERCOT B2C token endpoint. All requests pass through a
// shared token-bucket rate limiter; transient failures are retried with
// jittered exponential backoff.
package api
