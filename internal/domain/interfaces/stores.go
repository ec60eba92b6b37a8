package interfaces

import "context"

// KVStore is the key-value persistence the services write through.
//
// Get reports ok=false when the key was never written.
type KVStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
