// ABOUTME: Fuel add and edit commands
// ABOUTME: Records a new fill-up or replaces the one at an index

package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/harper/fuel/internal/records"
	"github.com/harper/fuel/internal/ui"
	"github.com/spf13/cobra"
)

// now is replaced in tests.
var now = time.Now

var addCmd = &cobra.Command{
	Use:     "add <liters> <distance>",
	Aliases: []string{"a"},
	Short:   "Record a fill-up",
	Long: `Record a fill-up: liters added and kilometres driven since the last one.
Date and time default to now.

Examples:
  fuel add 40 520
  fuel add 40 520 --date 2024-12-14
  fuel add 40 520 --date 2024-12-14 --time 08:30`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		clock, _ := cmd.Flags().GetString("time")
		ts := now()
		if date == "" {
			date = ts.Format("2006-01-02")
		}
		if clock == "" {
			clock = ts.Format("15:04")
		}

		c := records.Candidate{Date: date, Time: clock, Liters: args[0], Distance: args[1]}
		if err := store.Upsert(c, records.NewIndex); err != nil {
			return fmt.Errorf("failed to add entry: %w", err)
		}

		out := cmd.OutOrStdout()
		_, _ = color.New(color.FgGreen).Fprintf(out, "✓ Added fill-up on %s %s\n", date, clock)
		_, _ = fmt.Fprintf(out, "  %s\n", ui.FormatSummary(store.Summary()))
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <index>",
	Short: "Replace the fill-up at an index",
	Long: `Replace the fill-up at an index shown by 'fuel list'.
Flags that are not given keep the entry's current value.

Examples:
  fuel edit 3 --liters 41.2
  fuel edit 0 --date 2024-12-01 --time 07:45`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		current, err := store.Entry(index)
		if err != nil {
			return err
		}

		c := records.Candidate{
			Date:     current.Date,
			Time:     current.Time,
			Liters:   strconv.FormatFloat(current.Liters, 'f', -1, 64),
			Distance: strconv.FormatFloat(current.Distance, 'f', -1, 64),
		}
		if c.Time == "" {
			c.Time = "00:00"
		}
		if cmd.Flags().Changed("date") {
			c.Date, _ = cmd.Flags().GetString("date")
		}
		if cmd.Flags().Changed("time") {
			c.Time, _ = cmd.Flags().GetString("time")
		}
		if cmd.Flags().Changed("liters") {
			c.Liters, _ = cmd.Flags().GetString("liters")
		}
		if cmd.Flags().Changed("distance") {
			c.Distance, _ = cmd.Flags().GetString("distance")
		}

		if err := store.Upsert(c, index); err != nil {
			return fmt.Errorf("failed to edit entry: %w", err)
		}

		_, _ = color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Updated fill-up on %s %s\n", c.Date, c.Time)
		return nil
	},
}

func parseIndex(s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("invalid index %q: must be a non-negative integer", s)
	}
	return index, nil
}

func init() {
	addCmd.Flags().StringP("date", "d", "", "fill-up date (YYYY-MM-DD, default today)")
	addCmd.Flags().StringP("time", "t", "", "fill-up time (HH:MM, default now)")

	editCmd.Flags().StringP("date", "d", "", "new date (YYYY-MM-DD)")
	editCmd.Flags().StringP("time", "t", "", "new time (HH:MM)")
	editCmd.Flags().StringP("liters", "l", "", "new liters")
	editCmd.Flags().StringP("distance", "k", "", "new distance in km")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
}
