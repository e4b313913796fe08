package ports

import "context"

// Port: an opaque blob store used to persist the in-progress trip
// collection and one-shot notification payloads across page transitions.
// Whatever is put in comes back out unchanged; no schema beyond that.
type SnapshotStore interface {
	// Get returns the blob stored under key, or (nil, nil) when absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores blob under key, replacing any previous value.
	Set(ctx context.Context, key string, blob []byte) error
	// Remove deletes the blob under key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Clear deletes every blob held by the store.
	Clear(ctx context.Context) error
}
