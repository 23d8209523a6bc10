// ABOUTME: Fuel list, summary, and chart commands
// ABOUTME: Read-only views over the record store

package main

import (
	"encoding/json"
	"fmt"

	"github.com/harper/fuel/internal/records"
	"github.com/harper/fuel/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List fill-ups newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")
		out := cmd.OutOrStdout()

		rows := make([]records.Row, 0, store.Len())
		for row := range store.DisplayList() {
			if limit > 0 && len(rows) >= limit {
				break
			}
			rows = append(rows, row)
		}

		if asJSON {
			data, err := json.MarshalIndent(rows, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode rows: %w", err)
			}
			_, _ = fmt.Fprintln(out, string(data))
			return nil
		}

		if len(rows) == 0 {
			_, _ = fmt.Fprintln(out, "No fill-ups recorded yet. Use 'fuel add' to add one.")
			return nil
		}

		_, _ = fmt.Fprintln(out, ui.FormatSummary(store.Summary()))
		for _, row := range rows {
			_, _ = fmt.Fprintln(out, ui.FormatRow(row))
		}
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show average consumption and entry count",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, ui.FormatSummary(store.Summary()))

		totals := store.Totals()
		_, _ = fmt.Fprintf(out, "  %.2f L over %.1f km\n", totals.TotalLiters, totals.TotalKm)
		return nil
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Plot consumption over time",
	RunE: func(cmd *cobra.Command, args []string) error {
		width, _ := cmd.Flags().GetInt("width")
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), ui.RenderChart(store.Series(), width))
		return nil
	},
}

func init() {
	listCmd.Flags().IntP("limit", "n", 0, "show at most n entries")
	listCmd.Flags().Bool("json", false, "print rows as JSON")
	chartCmd.Flags().IntP("width", "w", 60, "maximum number of points (0 for all)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(chartCmd)
}
