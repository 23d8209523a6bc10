// ABOUTME: Migration command for copying fuel data between storage backends
// ABOUTME: Copies the persisted log blob with a non-empty target safety check

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/fuel/internal/config"
	"github.com/harper/fuel/internal/records"
	"github.com/harper/fuel/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate data between storage backends",
	Long: `Copy the fuel log from the currently configured backend to a different backend.

Does NOT update the config file; verify the migration was successful then
update config.json (or set FUEL_BACKEND).

Examples:
  fuel migrate --to sqlite
  fuel migrate --to badger --data-dir ~/fuel-badger
  fuel migrate --to file --force`,
	Annotations: map[string]string{skipStore: "true"},
	RunE:        runMigrate,
}

var (
	migrateTo      string
	migrateDataDir string
	migrateForce   bool
)

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "target backend (file, sqlite, badger, or charm)")
	migrateCmd.Flags().StringVar(&migrateDataDir, "data-dir", "", "target data directory (defaults to current config data_dir)")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "allow writing into a non-empty target directory")
	_ = migrateCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := appCfg
	if cfg == nil {
		var err error
		if cfg, err = config.Load(); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	}

	sourceBackend := cfg.GetBackend()
	target := &config.Config{Backend: migrateTo, DataDir: cfg.DataDir, Charm: cfg.Charm}
	if migrateDataDir != "" {
		target.DataDir = migrateDataDir
	}

	if err := target.Validate(); err != nil {
		return fmt.Errorf("invalid target backend: %w", err)
	}
	if target.GetBackend() == config.BackendMemory {
		return fmt.Errorf("cannot migrate to the memory backend")
	}
	if target.GetBackend() == sourceBackend && target.GetDataDir() == cfg.GetDataDir() {
		return fmt.Errorf("target backend %q is the same as the current backend", migrateTo)
	}

	// File-based targets share the data dir with the source, so the emptiness
	// check only applies when the directory changes.
	if target.GetDataDir() != cfg.GetDataDir() {
		nonEmpty, err := storage.IsDirNonEmpty(target.GetDataDir())
		if err != nil {
			return fmt.Errorf("check target directory: %w", err)
		}
		if nonEmpty && !migrateForce {
			return fmt.Errorf("target directory %q is not empty; use --force to overwrite", target.GetDataDir())
		}
	}

	src, err := cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("open source storage (%s): %w", sourceBackend, err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: closing source storage: %v\n", cerr)
		}
	}()

	dst, err := target.OpenStorage()
	if err != nil {
		return fmt.Errorf("open target storage (%s): %w", target.GetBackend(), err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: closing target storage: %v\n", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	_, _ = color.New(color.FgYellow).Fprintln(out, "Migrating fuel data:")
	_, _ = fmt.Fprintf(out, "  Source:  %s (%s)\n", sourceBackend, cfg.GetDataDir())
	_, _ = fmt.Fprintf(out, "  Target:  %s (%s)\n\n", target.GetBackend(), target.GetDataDir())

	summary, err := storage.MigrateData(src, dst, records.StorageKey)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Debug().Strs("copied", summary.Copied).Strs("missing", summary.Missing).Msg("migration finished")

	_, _ = color.New(color.FgGreen).Fprintln(out, "Migration complete!")
	if len(summary.Missing) > 0 {
		_, _ = fmt.Fprintln(out, "  Source had no fuel log; nothing copied.")
	}
	_, _ = color.New(color.FgYellow).Fprintln(out, "\nNote: config.json was NOT updated. To switch to the new backend, edit:")
	_, _ = fmt.Fprintf(out, "  %s\n", config.GetConfigPath())
	_, _ = fmt.Fprintf(out, "  Set \"backend\": %q", target.GetBackend())
	if migrateDataDir != "" {
		_, _ = fmt.Fprintf(out, " and \"data_dir\": %q", migrateDataDir)
	}
	_, _ = fmt.Fprintln(out)

	return nil
}
