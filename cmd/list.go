package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-mgi/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored series analyses",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	series, err := db.ListSeries()
	if err != nil {
		return fmt.Errorf("list series: %w", err)
	}
	if len(series) == 0 {
		fmt.Fprintln(os.Stdout, "No series analysed yet. Run 'mgi untraded --series-id <id>' to add one.")
		return nil
	}
	report.PrintSeriesList(os.Stdout, series)
	return nil
}
