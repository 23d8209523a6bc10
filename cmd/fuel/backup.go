// ABOUTME: Backup and import commands for YAML round-trips
// ABOUTME: Creates portable backup files and restores them by replacing or merging

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harper/fuel/internal/storage"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a YAML backup of all fill-ups",
	Long: `Create a YAML backup file containing every fill-up.

The backup file can be used to:
- Move data between machines
- Restore after data loss
- Seed a different storage backend

Examples:
  fuel backup --output fuel.yaml
  fuel backup -o ~/backups/fuel-$(date +%Y%m%d).yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		data, err := storage.ExportBackup(store.Entries())
		if err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}

		if output == "" {
			output = fmt.Sprintf("fuel-%s.yaml", now().Format("20060102-150405"))
		}

		if err := os.WriteFile(output, data, 0644); err != nil { //nolint:gosec // 0644 is intentional for backup files
			return fmt.Errorf("failed to write backup: %w", err)
		}

		out := cmd.OutOrStdout()
		_, _ = color.New(color.FgGreen).Fprintf(out, "Backup created: %s\n", output)
		_, _ = fmt.Fprintf(out, "  %d fill-ups\n", store.Len())
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore fill-ups from a YAML backup",
	Long: `Restore fill-ups from a backup created with 'fuel backup'.

By default the current log is REPLACED by the backup. Use --merge to add the
backup's entries to the existing ones instead.

Examples:
  fuel import fuel.yaml
  fuel import ~/backups/fuel-20241214.yaml --merge`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename) //nolint:gosec // user-chosen backup file
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		imported, err := storage.ParseBackup(data)
		if err != nil {
			return fmt.Errorf("failed to parse backup: %w", err)
		}

		merge, _ := cmd.Flags().GetBool("merge")
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			prompt := fmt.Sprintf("Replace %d fill-ups with %d from '%s'?", store.Len(), len(imported), filename)
			if merge {
				prompt = fmt.Sprintf("Add %d fill-ups from '%s'?", len(imported), filename)
			}
			if !confirmPrompt(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
				return nil
			}
		}

		next := imported
		if merge {
			next = append(store.Entries(), imported...)
		}
		if err := store.Replace(next); err != nil {
			return fmt.Errorf("failed to import: %w", err)
		}

		out := cmd.OutOrStdout()
		_, _ = color.New(color.FgGreen).Fprintln(out, "Import complete")
		_, _ = fmt.Fprintf(out, "  %d fill-ups in log\n", store.Len())
		return nil
	},
}

func init() {
	backupCmd.Flags().StringP("output", "o", "", "output file (default: fuel-YYYYMMDD-HHMMSS.yaml)")
	importCmd.Flags().Bool("merge", false, "add to existing fill-ups instead of replacing them")
	importCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(importCmd)
}
