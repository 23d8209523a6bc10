// ABOUTME: Fuel configuration management with backend selection
// ABOUTME: Loads a JSON file with FUEL_* environment overrides and builds the storage backend

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	koanfjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/harper/fuel/internal/storage"
)

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendCharm  = "charm"
	BackendMemory = "memory"
)

// EnvPrefix prefixes environment overrides, e.g. FUEL_BACKEND or FUEL_CHARM__HOST.
const EnvPrefix = "FUEL_"

// defaultDBFilename is the SQLite database filename used for existing-user detection.
const defaultDBFilename = "fuel.db"

// Config stores fuel configuration.
type Config struct {
	// Backend selects the storage backend: "file" (default), "sqlite", "badger", "charm", or "memory".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/fuel.
	DataDir string `json:"data_dir,omitempty"`

	// LogLevel is a zerolog level name. Defaults to "warn".
	LogLevel string `json:"log_level,omitempty"`

	// Charm configures the charm backend.
	Charm CharmConfig `json:"charm,omitempty"`
}

// CharmConfig holds charm backend settings.
type CharmConfig struct {
	Host     string `json:"host,omitempty"`
	AutoSync *bool  `json:"auto_sync,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "file".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendFile
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// Validate checks the backend name.
func (c *Config) Validate() error {
	switch c.GetBackend() {
	case BackendFile, BackendSQLite, BackendBadger, BackendCharm, BackendMemory:
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	return nil
}

// defaultDataDir returns the default XDG data directory for fuel.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "fuel")
}

// defaultFirstRunConfig returns the appropriate default config for first-time runs.
// If an existing SQLite database is found, it preserves SQLite as the backend.
// Otherwise, it defaults to plain files.
func defaultFirstRunConfig() *Config {
	dbPath := filepath.Join(defaultDataDir(), defaultDBFilename)
	_, err := os.Stat(dbPath)
	switch {
	case err == nil:
		return &Config{Backend: BackendSQLite}
	case !os.IsNotExist(err):
		fmt.Fprintf(os.Stderr, "warning: could not check for existing database: %v\n", err)
	}
	return &Config{Backend: BackendFile}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a BlobStore implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.BlobStore, error) {
	dataDir := c.GetDataDir()

	switch c.GetBackend() {
	case BackendFile:
		return storage.NewFileStore(dataDir)
	case BackendSQLite:
		return storage.NewSQLiteStore(filepath.Join(dataDir, defaultDBFilename))
	case BackendBadger:
		return storage.NewBadgerStore(filepath.Join(dataDir, "badger"))
	case BackendCharm:
		cc := storage.DefaultCharmConfig()
		if c.Charm.Host != "" {
			cc.Host = c.Charm.Host
		}
		if c.Charm.AutoSync != nil {
			cc.AutoSync = *c.Charm.AutoSync
		}
		return storage.NewCharmStore(cc)
	case BackendMemory:
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", c.Backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "fuel", "config.json")
}

// Load reads config from disk and applies FUEL_* environment overrides.
// A missing file is created with first-run defaults.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads config from path and applies FUEL_* environment overrides.
func LoadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := k.Load(file.Provider(path), koanfjson.Parser()); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		cfg := defaultFirstRunConfig()
		if saveErr := cfg.SaveTo(path); saveErr != nil {
			fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
		}
		if err := k.Load(structProvider{cfg}, nil); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps FUEL_DATA_DIR to data_dir and FUEL_CHARM__HOST to charm.host.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes config to the default path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes config to path atomically.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return storage.AtomicWrite(path, data)
}

// structProvider feeds an in-memory Config into koanf so first-run defaults and
// file values go through the same override path.
type structProvider struct {
	cfg *Config
}

// ReadBytes is not supported; Read is used instead.
func (p structProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("structProvider does not support ReadBytes")
}

// Read returns the config as a nested map keyed by json tags.
func (p structProvider) Read() (map[string]interface{}, error) {
	data, err := json.Marshal(p.cfg)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
