// Package ystocker provides the domain model of the ystocker dashboard: peer
// groups of tickers, valuation metrics derived from raw market quotes, and a
// two-layer TTL cache that keeps every dataset warm in memory and on disk.
//
// The core functionalities include:
//   - Metrics: deriving price, upside, PE, PEG, market cap and EPS growth
//     from the raw fields reported by a quote provider.
//   - Peer Groups: an ordered, user-editable list of named ticker groups,
//     persisted as JSON.
//   - Cache: a generic Store that loads a fresh snapshot from disk on start,
//     refreshes it in the background before it expires, and can be
//     invalidated at any time.
//   - Reference Data: the heatmap universe and the built-in sector and
//     industry lists used for ticker discovery.
//
// Data providers live in their own packages (yahoo, fred, edgar) and the web
// dashboard is served by the web package. The ystocker command wires them all
// together.
package ystocker
