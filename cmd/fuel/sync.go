// ABOUTME: Sync subcommand for the charm backend
// ABOUTME: Provides status, link, unlink, now, repair, and wipe commands

package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/harper/fuel/internal/config"
	"github.com/harper/fuel/internal/storage"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Manage charm cloud sync for fuel data",
	Long: `Sync your fuel log with a Charm server using SSH key authentication.
Only applies when the charm backend is configured ("backend": "charm").

Commands:
  status  - Show sync status and user info
  link    - Link this device to your Charm account
  unlink  - Unlink this device from your account
  now     - Push and pull changes immediately
  repair  - Repair the local charm database
  wipe    - Permanently delete all fuel data (local and cloud)

Examples:
  fuel sync status
  fuel sync link
  fuel sync now
  fuel sync repair --force
  fuel sync wipe`,
}

var syncStatusCmd = &cobra.Command{
	Use:         "status",
	Short:       "Show sync status",
	Annotations: map[string]string{skipStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cc := storage.DefaultCharmConfig()
		if appCfg != nil && appCfg.Charm.Host != "" {
			cc.Host = appCfg.Charm.Host
		}

		_, _ = fmt.Fprintf(out, "Backend:    %s\n", backendName())
		_, _ = fmt.Fprintf(out, "Charm Host: %s\n", cc.Host)
		_, _ = fmt.Fprintf(out, "Database:   %s\n", storage.CharmDBName)

		c, err := client.NewClientWithDefaults()
		if err != nil {
			_, _ = color.New(color.FgYellow).Fprintln(out, "\nStatus: Not connected")
			_, _ = fmt.Fprintln(out, "Run 'fuel sync link' to connect your account.")
			return nil
		}

		user, err := c.ID()
		if err != nil {
			_, _ = color.New(color.FgYellow).Fprintln(out, "\nStatus: Not linked")
			_, _ = fmt.Fprintln(out, "Run 'fuel sync link' to connect your account.")
			return nil
		}

		_, _ = fmt.Fprintf(out, "\nUser ID: %s\n", user)
		_, _ = color.New(color.FgGreen).Fprintln(out, "Status: Connected")
		return nil
	},
}

var syncLinkCmd = &cobra.Command{
	Use:         "link",
	Short:       "Link this device to your Charm account",
	Annotations: map[string]string{skipStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm("link"); err != nil {
			return fmt.Errorf("failed to run 'charm link': %w\nMake sure the charm CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}
		_, _ = color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "\n✓ Device linked successfully")
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:         "unlink",
	Short:       "Unlink this device from your Charm account",
	Annotations: map[string]string{skipStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm("unlink"); err != nil {
			return fmt.Errorf("failed to run 'charm unlink': %w", err)
		}
		_, _ = color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "\n✓ Device unlinked")
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Local data is preserved. Sync is disabled.")
		return nil
	},
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Sync with the charm server immediately",
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, ok := blob.(*storage.CharmStore)
		if !ok {
			return fmt.Errorf("sync requires the charm backend (current: %s)", backendName())
		}
		if err := cs.Sync(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		_, _ = color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Synced")
		return nil
	},
}

var repairForce bool

var syncRepairCmd = &cobra.Command{
	Use:         "repair",
	Short:       "Repair the local charm database",
	Annotations: map[string]string{skipStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		result, err := kv.Repair(storage.CharmDBName, repairForce)
		if err != nil {
			if !repairForce {
				_, _ = fmt.Fprintln(out, "Run with --force to attempt recovery:")
				_, _ = fmt.Fprintln(out, "  fuel sync repair --force")
			}
			return fmt.Errorf("repair failed: %w", err)
		}

		ok := color.New(color.FgGreen)
		warn := color.New(color.FgYellow)
		if result.WalCheckpointed {
			_, _ = ok.Fprintln(out, "  ✓ WAL checkpointed")
		}
		if result.IntegrityOK {
			_, _ = ok.Fprintln(out, "  ✓ Integrity check passed")
		} else {
			_, _ = color.New(color.FgRed).Fprintln(out, "  ✗ Integrity check failed")
		}
		if result.Vacuumed {
			_, _ = ok.Fprintln(out, "  ✓ Database vacuumed")
		}
		if result.ResetFromCloud {
			_, _ = warn.Fprintln(out, "  ⚠ Reset from cloud")
		}
		if result.Error != nil {
			_, _ = warn.Fprintf(out, "  ⚠ Warning: %v\n", result.Error)
		}
		_, _ = ok.Fprintln(out, "✓ Repair completed")
		return nil
	},
}

// wipeReport summarizes a charm wipe.
type wipeReport struct {
	CloudBackupsDeleted int
	LocalFilesDeleted   int
	Warning             error
}

var wipeCharmDB = func() (wipeReport, error) {
	result, err := kv.Wipe(storage.CharmDBName)
	if err != nil {
		return wipeReport{}, err
	}
	return wipeReport{
		CloudBackupsDeleted: result.CloudBackupsDeleted,
		LocalFilesDeleted:   result.LocalFilesDeleted,
		Warning:             result.Error,
	}, nil
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Permanently delete all fuel data (local and cloud)",
	Long: `Permanently delete the fuel charm database, both locally and on the
Charm server.

This is DESTRUCTIVE and CANNOT be undone. It deletes data from ALL linked
devices, not just this one.`,
	Annotations: map[string]string{skipStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, "This will PERMANENTLY DELETE all fuel data.")
		_, _ = color.New(color.FgRed).Fprintln(out, "WARNING: This deletes data from ALL linked devices and cloud backups.")
		_, _ = fmt.Fprint(out, "\nType 'wipe' to confirm: ")

		confirmation, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if strings.TrimSpace(confirmation) != "wipe" {
			_, _ = fmt.Fprintln(out, "Aborted.")
			return nil
		}

		report, err := wipeCharmDB()
		if err != nil {
			return fmt.Errorf("failed to wipe: %w", err)
		}

		ok := color.New(color.FgGreen)
		_, _ = fmt.Fprintln(out)
		if report.CloudBackupsDeleted > 0 {
			_, _ = ok.Fprintf(out, "✓ Deleted %d cloud backup(s)\n", report.CloudBackupsDeleted)
		}
		if report.LocalFilesDeleted > 0 {
			_, _ = ok.Fprintf(out, "✓ Deleted %d local file(s)\n", report.LocalFilesDeleted)
		}
		if report.Warning != nil {
			_, _ = color.New(color.FgYellow).Fprintf(out, "⚠ Warning: %v\n", report.Warning)
		}
		_, _ = ok.Fprintln(out, "✓ All data wiped")
		_, _ = fmt.Fprintln(out, "Run 'fuel add' to start logging again.")
		return nil
	},
}

func backendName() string {
	if appCfg == nil {
		return config.BackendFile
	}
	return appCfg.GetBackend()
}

func runCharm(arg string) error {
	c := exec.Command("charm", arg)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

func init() {
	syncRepairCmd.Flags().BoolVar(&repairForce, "force", false, "attempt recovery if the integrity check fails")

	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncNowCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncWipeCmd)
	rootCmd.AddCommand(syncCmd)
}
