// Package history keeps the bounded, most-recent-first list of evaluations
// and persists it through a domain.KVStore.
//
// Storage failures never reach the caller: reads fall back to an empty list
// and writes are dropped, both with a log line. The in-memory list is always
// authoritative for the running process.
package history
