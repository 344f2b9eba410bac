package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

// dropCmd deletes the analysis database file.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the analysis database",
	Long:  "Permanently delete the SQLite analysis database. All stored series analyses will be lost. Re-run untraded afterwards to rebuild; derived JSON files are kept.",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", cfg.DBPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(cfg.DBPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(cfg.DBPath + suffix)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", cfg.DBPath)
	return nil
}
