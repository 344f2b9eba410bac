package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the analysis database",
	Long: `Run an arbitrary SQL query against the analysis database and print results as a table.

Schema overview:
  series(series_id, run_id, analyzed_at, kills, mistakes, answered,
    fight_gap_seconds, answer_window, pressure_window, context_window)
  mistakes(series_id, seq, occurred_at, victim_name, victim_team_id, victim_team_name,
    gravity_mvp, mgi_score, answered_by_objective, answer_kind, answer_delta,
    is_near_objective, is_pressure_objective, near_kind, near_delta, details)
  team_summaries(series_id, team_id, team_name, untraded, total_deaths,
    total_gravity, total_mgi_score)

Note: ids are stored as TEXT. Use quotes: WHERE series_id = '2616320'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	printRows(cols, rows)
	return nil
}

// printRows renders a raw query result as a table followed by a row count.
func printRows(cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
}

