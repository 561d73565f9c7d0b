// Package orders keeps the local order ledger: an append-only cache of
// purchase records.
//
// Rows are returned in ledger order, which is the order they were first
// written. Upsert merges records fetched from the API; an id already in the
// ledger keeps its stored row and position. Timestamps are stored as Unix milliseconds.
package orders
