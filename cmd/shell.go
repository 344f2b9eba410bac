package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-lol-mgi/internal/report"
	"github.com/pable/go-lol-mgi/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("mgi shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("mgi")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <series-prefix> [limit]")
				continue
			}
			limit := 20
			if len(args) > 1 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					cError.Fprintf(os.Stderr, "invalid limit %q\n", args[1])
					continue
				}
				limit = n
			}
			if err := showSeries(db, args[0], limit); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "teams":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: teams <series-prefix>")
				continue
			}
			shellTeams(db, args[0])
		case "sql":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: sql <query>")
				continue
			}
			shellSQL(db, strings.Join(args, " "))
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored series analyses"},
		{"show <series-prefix> [limit]", "show a series' teams and top mistakes"},
		{"teams <series-prefix>", "show only the team table"},
		{"sql <query>", "run a raw SQL query"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	series, err := db.ListSeries()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(series) == 0 {
		cMuted.Println("No series analysed yet.")
		return
	}
	cHeader.Fprintf(os.Stdout, "%-12s  %-19s  %6s  %8s  %6s\n", "SERIES", "ANALYZED", "KILLS", "UNTRADED", "RATE")
	cMuted.Fprintf(os.Stdout, "%-12s  %-19s  %6s  %8s  %6s\n",
		"────────────", "───────────────────", "──────", "────────", "──────")
	for _, s := range series {
		analyzed := s.AnalyzedAt
		if len(analyzed) > 19 {
			analyzed = analyzed[:19]
		}
		fmt.Fprintf(os.Stdout, "%-12s  %-19s  %6d  %8d  %5.1f%%\n",
			s.SeriesID, analyzed, s.Kills, s.Mistakes, s.UntradedPct())
	}
}

func shellTeams(db *storage.DB, prefix string) {
	rec, err := db.GetSeriesByPrefix(prefix)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if rec == nil {
		cWarn.Fprintf(os.Stderr, "no series found with prefix %q\n", prefix)
		return
	}
	teams, err := db.GetTeamSummaries(rec.SeriesID)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	cHeader.Fprintf(os.Stdout, "--- Teams: %s ---\n", rec.SeriesID)
	report.PrintTeamTable(os.Stdout, teams)
}

func shellSQL(db *storage.DB, query string) {
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	printRows(cols, rows)
}
