// Package store provides the key-value persistence behind history and the
// theme preference.
//
// It contains concrete implementations of domain.KVStore. All methods are
// concurrency-safe. Stored files live under the user's configured home
// directory.
//
// The package includes:
//   - FileKV: one JSON object on disk, rewritten atomically (kv.json)
//   - SealedKV: the same map sealed under a passphrase (kv.json.enc)
//   - SQLiteKV: a kv table in calc.db (modernc.org/sqlite, no cgo)
//   - MemoryKV: an in-process map for tests and throwaway sessions
package store
