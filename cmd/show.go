package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-lol-mgi/internal/report"
	"github.com/pable/go-lol-mgi/internal/storage"
)

var showLimit int

var showCmd = &cobra.Command{
	Use:   "show <series-prefix>",
	Short: "Show a stored analysis by series id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().IntVar(&showLimit, "limit", 20, "max mistakes to print (0 = all)")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return showSeries(db, args[0], showLimit)
}

// showSeries prints the stored header, team table and top mistakes of a series.
func showSeries(db *storage.DB, prefix string, limit int) error {
	rec, err := db.GetSeriesByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query series: %w", err)
	}
	if rec == nil {
		fmt.Fprintf(os.Stderr, "No series found with id prefix %q\n", prefix)
		return nil
	}

	teams, err := db.GetTeamSummaries(rec.SeriesID)
	if err != nil {
		return fmt.Errorf("get team summaries: %w", err)
	}
	rows, err := db.GetMistakes(rec.SeriesID, limit)
	if err != nil {
		return fmt.Errorf("get mistakes: %w", err)
	}

	fmt.Fprintf(os.Stdout, "\nSeries: %s  |  Run: %s  |  Analyzed: %s\n", rec.SeriesID, rec.RunID, rec.AnalyzedAt)
	fmt.Fprintf(os.Stdout, "Kills: %d  |  Untraded: %d (%.1f%%)  |  Answered: %d  |  Gap: %ds  Answer: %ds  Pressure: %ds  Context: %ds\n\n",
		rec.Kills, rec.Mistakes, rec.UntradedPct(), rec.Answered,
		rec.FightGapSeconds, rec.AnswerWindow, rec.PressureWindow, rec.ContextWindow)

	if len(teams) > 0 {
		report.PrintTeamTable(os.Stdout, teams)
		fmt.Fprintln(os.Stdout)
	}
	if len(rows) > 0 {
		report.PrintMistakeRows(os.Stdout, rows)
	}
	return nil
}
