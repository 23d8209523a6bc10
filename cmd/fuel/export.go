// ABOUTME: Export command for CSV, markdown, and JSON output
// ABOUTME: Writes every fill-up in chronological order plus a totals row

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harper/fuel/internal/storage"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"e"},
	Short:   "Export fill-ups as CSV, markdown, or JSON",
	Long: `Export every fill-up in chronological order, followed by totals.

Examples:
  # Write fuel-YYYY-MM-DD.csv in the current directory
  fuel export

  # Markdown table to stdout
  fuel export --format markdown --output -

  # JSON to a specific file
  fuel export --format json --output ~/fuel.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		data, err := storage.Export(format, store.Entries(), store.Totals())
		if err != nil {
			return err
		}

		if output == "-" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if output == "" {
			output = storage.DefaultExportFilename(format, now())
		}

		if err := os.WriteFile(output, data, 0644); err != nil { //nolint:gosec // exports are meant to be shared
			return fmt.Errorf("failed to write export: %w", err)
		}

		_, _ = color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Exported %d fill-ups to %s\n", store.Len(), output)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", storage.FormatCSV, "output format: csv, markdown, or json")
	exportCmd.Flags().StringP("output", "o", "", "output file, or - for stdout (default: fuel-YYYY-MM-DD.<ext>)")

	rootCmd.AddCommand(exportCmd)
}
