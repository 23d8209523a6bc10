// ABOUTME: Charm KV blob store using transactional Do API
// ABOUTME: Short-lived connections with optional sync to a charm server

package storage

import (
	"errors"
	"os"

	"github.com/charmbracelet/charm/kv"
)

const (
	// CharmDBName is the name of the Charm KV database for fuel data.
	CharmDBName = "fuel"

	// DefaultCharmHost is the default Charm server to use.
	DefaultCharmHost = "charm.2389.dev"
)

// charmKV is the subset of *kv.KV the store uses.
type charmKV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
}

// CharmStore implements BlobStore on Charm KV.
// It does NOT hold a persistent connection: each operation opens the
// database, performs the operation, and closes it.
type CharmStore struct {
	dbName   string
	autoSync bool
	do       func(readOnly bool, fn func(charmKV) error) error
}

// CharmConfig holds charm backend options.
type CharmConfig struct {
	// Host is the Charm server to use (default: charm.2389.dev).
	Host string
	// AutoSync pushes to the server after every write.
	AutoSync bool
	// DBName overrides the KV database name.
	DBName string
}

// DefaultCharmConfig returns the default charm configuration.
func DefaultCharmConfig() *CharmConfig {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = DefaultCharmHost
	}
	return &CharmConfig{
		Host:     host,
		AutoSync: true,
		DBName:   CharmDBName,
	}
}

// NewCharmStore creates a charm-backed store.
func NewCharmStore(cfg *CharmConfig) (*CharmStore, error) {
	if cfg == nil {
		cfg = DefaultCharmConfig()
	}
	if cfg.Host != "" {
		// CHARM_HOST must be set before any KV operations.
		if err := os.Setenv("CHARM_HOST", cfg.Host); err != nil {
			return nil, err
		}
	}
	name := cfg.DBName
	if name == "" {
		name = CharmDBName
	}
	s := &CharmStore{dbName: name, autoSync: cfg.AutoSync}
	s.do = s.open
	return s, nil
}

func (s *CharmStore) open(readOnly bool, fn func(charmKV) error) error {
	wrapped := func(k *kv.KV) error { return fn(k) }
	if readOnly {
		return kv.DoReadOnly(s.dbName, wrapped)
	}
	return kv.Do(s.dbName, wrapped)
}

// Get retrieves a value by key (read-only, no lock contention).
func (s *CharmStore) Get(key string) ([]byte, error) {
	var val []byte
	err := s.do(true, func(k charmKV) error {
		var err error
		val, err = k.Get([]byte(key))
		return err
	})
	if errors.Is(err, kv.ErrMissingKey) {
		return nil, ErrNotFound
	}
	return val, err
}

// Set stores a value with the given key.
func (s *CharmStore) Set(key string, value []byte) error {
	return s.do(false, func(k charmKV) error {
		if err := k.Set([]byte(key), value); err != nil {
			return err
		}
		if s.autoSync {
			return k.Sync()
		}
		return nil
	})
}

// Clear deletes every key. The deletions reach the server only with auto sync.
func (s *CharmStore) Clear() error {
	return s.do(false, func(k charmKV) error {
		keys, err := k.Keys()
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := k.Delete(key); err != nil {
				return err
			}
		}
		if s.autoSync && len(keys) > 0 {
			return k.Sync()
		}
		return nil
	})
}

// Sync triggers a manual sync with the charm server.
func (s *CharmStore) Sync() error {
	return s.do(false, func(k charmKV) error {
		return k.Sync()
	})
}

// Close is a no-op: connections close after each operation.
func (s *CharmStore) Close() error {
	return nil
}
