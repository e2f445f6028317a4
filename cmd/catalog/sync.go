// ABOUTME: Sync subcommand for Charm cloud integration.
// ABOUTME: Provides status, link, repair, reset, and wipe for the charm backend.

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	charmkv "github.com/charmbracelet/charm/kv"
	"github.com/fatih/color"
	"github.com/harper/catalog/internal/charm"
	"github.com/harper/catalog/internal/config"
	"github.com/harper/catalog/internal/ui"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Manage Charm cloud sync",
	Long: `Sync catalog articles to the Charm cloud (charm backend only).

Charm uses SSH key authentication - no passwords needed.
Data syncs automatically after each change when auto-sync is on.

Commands:
  status  - Show sync configuration and connection status
  link    - Connect this device to Charm cloud
  repair  - Repair database corruption issues
  reset   - Reset local sync data (keeps cloud data)
  wipe    - Delete all synced data and start fresh

Examples:
  catalog sync status
  catalog sync link --host charm.example.com
  catalog sync repair`,
	Annotations: map[string]string{skipStore: "true"},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appCfg.Charm
		faint := color.New(color.Faint).SprintFunc()

		host := cfg.Host
		if host == "" {
			host = faint("cloud.charm.sh (default)")
		}
		autoSync := color.YellowString("off")
		if cfg.AutoSync {
			autoSync = color.GreenString("on")
		}
		fmt.Printf("%-10s %s\n", "backend", appCfg.Backend)
		fmt.Printf("%-10s %s\n", "host", host)
		fmt.Printf("%-10s %s\n", "auto-sync", autoSync)

		client, err := charm.NewClient(cfg, charm.WithLogger(appLog))
		if err != nil {
			return fmt.Errorf("charm client: %w", err)
		}
		if last := client.LastSyncTime(); !last.IsZero() {
			fmt.Printf("%-10s %s\n", "last sync", last.Local().Format("2006-01-02 15:04"))
		}

		user, err := client.User()
		if err != nil || user == nil {
			fmt.Printf("%-10s %s\n", "account", color.YellowString("not linked (run 'catalog sync link')"))
			return nil
		}
		fmt.Printf("%-10s %s %s\n", "account", user.CharmID, faint(valueOrNone(user.Name)))
		return nil
	},
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Connect to Charm cloud",
	Long: `Link this device to Charm cloud and switch the catalog to the charm backend.

Charm uses SSH key authentication. Your SSH keys are used automatically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		host, _ := cmd.Flags().GetString("host")

		cfg := *appCfg
		if host != "" {
			cfg.Charm.Host = host
		}
		cfg.Backend = config.BackendCharm

		client, err := charm.NewClient(cfg.Charm, charm.WithLogger(appLog))
		if err != nil {
			return fmt.Errorf("get client: %w", err)
		}
		if err := client.Link(); err != nil {
			return fmt.Errorf("link failed: %w", err)
		}
		user, err := client.User()
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		if err := config.Save(&cfg, cfgPath); err != nil {
			return fmt.Errorf("save config: %w", err)
		}

		fmt.Println(ui.Success(fmt.Sprintf("Linked as %s; catalog now uses the charm backend", user.CharmID)))
		return nil
	},
}

var syncRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Repair database corruption issues",
	Long: `Repair the local KV database if it's corrupted.

Use --force to attempt repair even if integrity check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		result, err := charmkv.Repair(charm.DBName, force)
		if err != nil {
			return fmt.Errorf("repair failed: %w", err)
		}

		printSteps("Repair", []step{
			{"WAL checkpointed", result.WalCheckpointed},
			{"SHM file removed", result.ShmRemoved},
			{"integrity check passed", result.IntegrityOK},
			{"database vacuumed", result.Vacuumed},
		})
		if !result.IntegrityOK {
			color.Yellow("integrity issues remain; try 'catalog sync reset' or 'catalog sync wipe'")
		}
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local sync data",
	Long:  `Reset the local KV database while keeping cloud data intact.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm("Drop the local KV copy and re-sync from the cloud? [y/N]: ", "y", "yes") {
			fmt.Println("Aborted.")
			return nil
		}

		if err := charmkv.Reset(charm.DBName); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		fmt.Println(ui.Success("Local copy reset"))
		return nil
	},
}

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Wipe all sync data and start fresh",
	Long:  `Delete all synced articles from Charm cloud and the local KV store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		color.Yellow("Deletes every article in Charm cloud and the local KV copy. There is no undo.")
		if !confirm("Type 'wipe' to confirm: ", "wipe") {
			fmt.Println("Aborted.")
			return nil
		}

		result, err := charmkv.Wipe(charm.DBName)
		if err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}

		printSteps("Wipe", []step{
			{fmt.Sprintf("%d cloud backups deleted", result.CloudBackupsDeleted), result.CloudBackupsDeleted > 0},
			{fmt.Sprintf("%d local files deleted", result.LocalFilesDeleted), result.LocalFilesDeleted > 0},
		})
		return nil
	},
}

type step struct {
	label string
	done  bool
}

func printSteps(title string, steps []step) {
	fmt.Printf("%s:\n", title)
	for _, st := range steps {
		if st.done {
			fmt.Printf("  %s\n", ui.Success(st.label))
		} else {
			fmt.Printf("  %s\n", color.New(color.Faint).Sprint("- "+st.label+": no"))
		}
	}
}

// confirm reads one line from stdin and reports whether it matches one of
// the accepted answers, ignoring case.
func confirm(prompt string, accepted ...string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	for _, a := range accepted {
		if response == a {
			return true
		}
	}
	return false
}

// valueOrNone returns "(not set)" if the string is empty.
func valueOrNone(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func init() {
	syncLinkCmd.Flags().String("host", "", "Charm server host (default: cloud.charm.sh)")
	syncRepairCmd.Flags().Bool("force", false, "Force repair even if integrity check fails")

	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncRepairCmd)
	syncCmd.AddCommand(syncResetCmd)
	syncCmd.AddCommand(syncWipeCmd)

	rootCmd.AddCommand(syncCmd)
}
