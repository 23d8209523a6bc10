// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config, builds the logger, and opens the record store for subcommands

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/harper/fuel/internal/config"
	"github.com/harper/fuel/internal/logging"
	"github.com/harper/fuel/internal/records"
	"github.com/harper/fuel/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// skipStore marks commands that manage storage themselves.
const skipStore = "skip-store"

var (
	appCfg *config.Config
	blob   storage.BlobStore
	store  *records.Store
	logger = zerolog.Nop()

	verbose bool
	dryRun  bool
)

var rootCmd = &cobra.Command{
	Use:   "fuel",
	Short: "Personal fuel consumption log",
	Long: `
███████╗██╗   ██╗███████╗██╗
██╔════╝██║   ██║██╔════╝██║
█████╗  ██║   ██║█████╗  ██║
██╔══╝  ██║   ██║██╔══╝  ██║
██║     ╚██████╔╝███████╗███████╗
╚═╝      ╚═════╝ ╚══════╝╚══════╝

    Track fill-ups and your car's km/L over time

Examples:
  fuel add 40 520
  fuel add 38.5 480 --date 2024-12-14 --time 08:30
  fuel list
  fuel summary
  fuel chart`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		appCfg = cfg

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = logging.New(os.Stderr, level, "fuel")

		if cmd.Annotations[skipStore] == "true" {
			return nil
		}
		return openStore(cfg)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "work on an in-memory copy; nothing is written back")
}

// openStore opens the configured backend and loads the record store.
func openStore(cfg *config.Config) error {
	b, err := cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	if dryRun {
		mem := storage.NewMemoryStore()
		if _, err := storage.MigrateData(b, mem, records.StorageKey); err != nil {
			_ = b.Close()
			return fmt.Errorf("failed to copy entries for dry run: %w", err)
		}
		if err := b.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		b = mem
	}

	blob = b
	store = records.New(b, records.WithLogger(logger.With().Str("backend", cfg.GetBackend()).Logger()))
	store.Load()
	logger.Debug().Str("backend", cfg.GetBackend()).Bool("dry_run", dryRun).Int("entries", store.Len()).Msg("store ready")
	return nil
}

func closeStore() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	blob = nil
	return err
}

// confirmPrompt asks a yes/no question on in. Only "y" or "yes" confirms.
func confirmPrompt(in io.Reader, out io.Writer, prompt string) bool {
	_, _ = fmt.Fprintf(out, "%s [y/N] ", prompt)
	reader := bufio.NewReader(in)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
