// ABOUTME: Blob store interface for fuel log persistence
// ABOUTME: Enables testability and storage backend swapping

package storage

// BlobStore is a key-value store of opaque blobs. The fuel log keeps its whole
// collection under a single key and rewrites it on every mutation.
type BlobStore interface {
	// Get returns the blob stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set replaces the blob stored under key.
	Set(key string, value []byte) error
	// Clear erases every key. Clearing an empty store is not an error.
	Clear() error
	// Close releases the backend.
	Close() error
}

// Compile-time checks that every backend implements BlobStore.
var (
	_ BlobStore = (*FileStore)(nil)
	_ BlobStore = (*SQLiteStore)(nil)
	_ BlobStore = (*BadgerStore)(nil)
	_ BlobStore = (*CharmStore)(nil)
	_ BlobStore = (*MemoryStore)(nil)
)
