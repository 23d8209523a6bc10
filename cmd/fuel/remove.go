// ABOUTME: Fuel remove and clear commands
// ABOUTME: Deletes one fill-up by index or wipes the whole log

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <index>",
	Aliases: []string{"rm"},
	Short:   "Remove the fill-up at an index",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		entry, err := store.Entry(index)
		if err != nil {
			return err
		}

		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			prompt := fmt.Sprintf("Remove fill-up on %s %s?", entry.Date, entry.Time)
			if !confirmPrompt(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}

		if err := store.Remove(index); err != nil {
			return fmt.Errorf("failed to remove entry: %w", err)
		}

		_, _ = color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Removed fill-up on %s\n", entry.Date)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every fill-up",
	Long:  `Delete every fill-up from the configured backend. This cannot be undone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			prompt := fmt.Sprintf("Delete all %d fill-ups? This cannot be undone.", store.Len())
			if !confirmPrompt(cmd.InOrStdin(), cmd.OutOrStdout(), prompt) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}

		if err := store.Clear(); err != nil {
			return fmt.Errorf("failed to clear entries: %w", err)
		}

		_, _ = color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Cleared all fill-ups")
		return nil
	},
}

func init() {
	removeCmd.Flags().Bool("confirm", false, "skip confirmation prompt")
	clearCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(clearCmd)
}
