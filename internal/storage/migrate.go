// ABOUTME: Data migration between fuel storage backends
// ABOUTME: Copies blobs from a source store to a destination store

package storage

import (
	"errors"
	"fmt"
	"os"
)

// MigrateSummary reports which keys were copied.
type MigrateSummary struct {
	Copied  []string
	Missing []string
}

// MigrateData copies each key from src to dst. Keys absent in src are reported
// as missing rather than failing. Existing values in dst are overwritten.
func MigrateData(src, dst BlobStore, keys ...string) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	for _, key := range keys {
		value, err := src.Get(key)
		if errors.Is(err, ErrNotFound) {
			summary.Missing = append(summary.Missing, key)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read source %q: %w", key, err)
		}
		if err := dst.Set(key, value); err != nil {
			return nil, fmt.Errorf("write destination %q: %w", key, err)
		}
		summary.Copied = append(summary.Copied, key)
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
