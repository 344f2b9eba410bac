package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-lol-mgi/internal/model"
)

// WriteJSON writes scored mistakes to path as an indented JSON array,
// creating parent directories. An empty set is written as [].
func WriteJSON(path string, scored []model.ScoredMistake) error {
	if scored == nil {
		scored = []model.ScoredMistake{}
	}
	data, err := json.MarshalIndent(scored, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal mistakes: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintSummary prints the headline counts and rates for one analysed series.
func PrintSummary(w io.Writer, seriesID string, s model.Summary, warnings int) {
	fmt.Fprintf(w, "\nSeries: %s  |  Kills: %d  |  Untraded deaths: %d (%.1f%%)\n",
		seriesID, s.Kills, s.Mistakes, s.UntradedPct())
	fmt.Fprintf(w, "Answered by objective: %d (%.1f%%)  |  Unanswered: %d (%.1f%%)\n",
		s.Answered, s.AnsweredPct(), s.Unanswered(), s.UnansweredPct())
	fmt.Fprintf(w, "Near objective: %d (%.1f%%)  |  Pressure objective: %d (%.1f%%)\n",
		s.Near, s.NearPct(), s.Pressure, s.PressurePct())
	if warnings > 0 {
		fmt.Fprintf(w, "Skipped records: %d\n", warnings)
	}
	fmt.Fprintln(w)
}

// AnswerText renders an objective answer as "kind+Ns by player".
func AnswerText(ref *model.ObjectiveRef) string {
	if ref == nil {
		return "—"
	}
	s := fmt.Sprintf("%s+%ds", ref.Kind, ref.DeltaSeconds)
	if ref.PlayerName != "" {
		s += " by " + ref.PlayerName
	}
	return s
}

// NearText renders a nearby objective as "kind+Ns" or "kind-Ns".
func NearText(ref *model.ObjectiveRef) string {
	if ref == nil {
		return "—"
	}
	return deltaText(ref.Kind.String(), ref.DeltaSeconds)
}

func deltaText(kind string, delta int) string {
	if delta < 0 {
		return fmt.Sprintf("%s%ds", kind, delta)
	}
	return fmt.Sprintf("%s+%ds", kind, delta)
}

func teamLabel(id, name string) string {
	if name != "" {
		return name
	}
	if id == "" {
		return "?"
	}
	return id
}

func flag(b bool) string {
	if b {
		return "Y"
	}
	return ""
}

// PrintTopMistakes prints the highest scored untraded deaths.
func PrintTopMistakes(w io.Writer, top []model.ScoredMistake) {
	table := newTable(w)
	table.Header("#", "TIME", "VICTIM", "TEAM", "GRAVITY", "MGI", "ANSWER", "NEAR", "PRESSURE")

	for i, m := range top {
		table.Append(
			strconv.Itoa(i+1),
			m.OccurredAt.Format("15:04:05"),
			m.VictimName,
			teamLabel(m.VictimTeamID, m.VictimTeamName),
			strconv.Itoa(m.GravityMVP),
			strconv.Itoa(m.MGIScore),
			AnswerText(m.ObjectiveAnswer),
			NearText(m.NearObjective),
			flag(m.IsPressureObjective),
		)
	}
	table.Render()
}

// PrintTeamTable prints per-team untraded death totals.
func PrintTeamTable(w io.Writer, teams []model.TeamSummary) {
	table := newTable(w)
	table.Header("TEAM", "UNTRADED", "DEATHS", "RATE", "GRAVITY", "MGI")

	for _, t := range teams {
		table.Append(
			teamLabel(t.TeamID, t.TeamName),
			strconv.Itoa(t.Untraded),
			strconv.Itoa(t.TotalDeaths),
			fmt.Sprintf("%.0f%%", t.UntradedRate()*100),
			strconv.Itoa(t.TotalGravity),
			strconv.Itoa(t.TotalMGIScore),
		)
	}
	table.Render()
}

// PrintPlayerTable prints the victims with the most untraded deaths.
func PrintPlayerTable(w io.Writer, players []model.PlayerSummary, teamNames map[string]string) {
	table := newTable(w)
	table.Header("PLAYER", "TEAM", "UNTRADED", "GRAVITY")

	for _, p := range players {
		table.Append(
			p.VictimName,
			teamLabel(p.TeamID, teamNames[p.TeamID]),
			strconv.Itoa(p.Count),
			strconv.Itoa(p.TotalGravity),
		)
	}
	table.Render()
}

// PrintSeriesList prints stored analyses, one row per series.
func PrintSeriesList(w io.Writer, series []model.SeriesRecord) {
	table := newTable(w)
	table.Header("SERIES", "ANALYZED", "KILLS", "UNTRADED", "RATE", "ANSWERED", "GAP")

	for _, r := range series {
		analyzed := r.AnalyzedAt
		if len(analyzed) > 19 {
			analyzed = analyzed[:19]
		}
		table.Append(
			r.SeriesID,
			analyzed,
			strconv.Itoa(r.Kills),
			strconv.Itoa(r.Mistakes),
			fmt.Sprintf("%.1f%%", r.UntradedPct()),
			strconv.Itoa(r.Answered),
			fmt.Sprintf("%ds", r.FightGapSeconds),
		)
	}
	table.Render()
}

// PrintMistakeRows prints stored mistakes as loaded from the database.
func PrintMistakeRows(w io.Writer, rows []model.MistakeRow) {
	table := newTable(w)
	table.Header("#", "TIME", "VICTIM", "TEAM", "GRAVITY", "MGI", "ANSWER", "NEAR", "PRESSURE")

	for i, m := range rows {
		answer := "—"
		if m.AnsweredByObjective {
			answer = fmt.Sprintf("%s+%ds", m.AnswerKind, m.AnswerDelta)
		}
		near := "—"
		if m.IsNearObjective {
			near = deltaText(m.NearKind, m.NearDelta)
		}
		at := m.OccurredAt
		if len(at) >= 19 {
			at = at[11:19]
		}
		table.Append(
			strconv.Itoa(i+1),
			at,
			m.VictimName,
			teamLabel(m.VictimTeamID, m.VictimTeamName),
			strconv.Itoa(m.GravityMVP),
			strconv.Itoa(m.MGIScore),
			answer,
			near,
			flag(m.IsPressureObjective),
		)
	}
	table.Render()
}
