package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-mgi/internal/grid"
)

var titlesCmd = &cobra.Command{
	Use:   "titles",
	Short: "List GRID titles (requires a GRID API key)",
	Args:  cobra.NoArgs,
	RunE:  runTitles,
}

func centralData() (*grid.CentralData, error) {
	key, err := cfg.RequireGridKey()
	if err != nil {
		return nil, err
	}
	return grid.NewCentralData(grid.NewClient(cfg.GridCentralDataURL, key, cfg.GridRequestsPerSecond)), nil
}

func runTitles(cmd *cobra.Command, args []string) error {
	cd, err := centralData()
	if err != nil {
		return err
	}
	titles, err := cd.Titles(cmd.Context())
	if err != nil {
		return fmt.Errorf("list titles: %w", err)
	}
	for _, t := range titles {
		fmt.Fprintf(os.Stdout, "%s\t%s\n", t.ID, t.Name)
	}
	return nil
}
