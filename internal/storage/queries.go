package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-lol-mgi/internal/model"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTime renders t the way it is stored.
func FormatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

// SeriesExists returns true if an analysis of the series is already stored.
func (db *DB) SeriesExists(seriesID string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM series WHERE series_id = ?", seriesID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertAnalysis stores one analysis run in a transaction, replacing any
// previous analysis of the same series. An empty rec.RunID gets a fresh UUID;
// the run id used is returned.
func (db *DB) InsertAnalysis(rec model.SeriesRecord, scored []model.ScoredMistake, teams []model.TeamSummary) (string, error) {
	if rec.RunID == "" {
		rec.RunID = uuid.NewString()
	}
	if rec.AnalyzedAt == "" {
		rec.AnalyzedAt = FormatTime(time.Now())
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	for _, table := range []string{"mistakes", "team_summaries", "series"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE series_id = ?", rec.SeriesID); err != nil {
			return "", fmt.Errorf("clear %s: %w", table, err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO series(series_id, run_id, analyzed_at, kills, mistakes, answered,
			fight_gap_seconds, answer_window, pressure_window, context_window)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SeriesID, rec.RunID, rec.AnalyzedAt, rec.Kills, rec.Mistakes, rec.Answered,
		rec.FightGapSeconds, rec.AnswerWindow, rec.PressureWindow, rec.ContextWindow,
	)
	if err != nil {
		return "", fmt.Errorf("insert series: %w", err)
	}

	mstmt, err := tx.Prepare(`
		INSERT INTO mistakes(
			series_id, seq, occurred_at, victim_name, victim_team_id, victim_team_name,
			gravity_mvp, mgi_score, answered_by_objective, answer_kind, answer_delta,
			is_near_objective, is_pressure_objective, near_kind, near_delta, details
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return "", err
	}
	defer mstmt.Close()

	for i, m := range scored {
		var answerKind, nearKind string
		var answerDelta, nearDelta int
		if m.ObjectiveAnswer != nil {
			answerKind, answerDelta = m.ObjectiveAnswer.Kind.String(), m.ObjectiveAnswer.DeltaSeconds
		}
		if m.NearObjective != nil {
			nearKind, nearDelta = m.NearObjective.Kind.String(), m.NearObjective.DeltaSeconds
		}
		_, err = mstmt.Exec(
			rec.SeriesID, i, FormatTime(m.OccurredAt), m.VictimName, m.VictimTeamID, m.VictimTeamName,
			m.GravityMVP, m.MGIScore, boolInt(m.AnsweredByObjective), answerKind, answerDelta,
			boolInt(m.IsNearObjective), boolInt(m.IsPressureObjective), nearKind, nearDelta, m.Details,
		)
		if err != nil {
			return "", fmt.Errorf("insert mistake %d: %w", i, err)
		}
	}

	tstmt, err := tx.Prepare(`
		INSERT INTO team_summaries(series_id, team_id, team_name, untraded, total_deaths, total_gravity, total_mgi_score)
		VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return "", err
	}
	defer tstmt.Close()

	for _, t := range teams {
		if _, err := tstmt.Exec(rec.SeriesID, t.TeamID, t.TeamName, t.Untraded, t.TotalDeaths, t.TotalGravity, t.TotalMGIScore); err != nil {
			return "", fmt.Errorf("insert team summary %s: %w", t.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return rec.RunID, nil
}

const seriesColumns = `series_id, run_id, analyzed_at, kills, mistakes, answered,
	fight_gap_seconds, answer_window, pressure_window, context_window`

func scanSeries(sc interface{ Scan(...any) error }) (model.SeriesRecord, error) {
	var r model.SeriesRecord
	err := sc.Scan(&r.SeriesID, &r.RunID, &r.AnalyzedAt, &r.Kills, &r.Mistakes, &r.Answered,
		&r.FightGapSeconds, &r.AnswerWindow, &r.PressureWindow, &r.ContextWindow)
	return r, err
}

// ListSeries returns all stored analyses, most recent first.
func (db *DB) ListSeries() ([]model.SeriesRecord, error) {
	rows, err := db.conn.Query(`SELECT ` + seriesColumns + ` FROM series ORDER BY analyzed_at DESC, series_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SeriesRecord
	for rows.Next() {
		r, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetSeriesByPrefix finds the first series whose id starts with the given prefix.
// It returns nil, nil when nothing matches.
func (db *DB) GetSeriesByPrefix(prefix string) (*model.SeriesRecord, error) {
	row := db.conn.QueryRow(`SELECT `+seriesColumns+` FROM series WHERE series_id LIKE ? ORDER BY series_id LIMIT 1`, prefix+"%")
	r, err := scanSeries(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetMistakes returns the stored mistakes of a series ordered by score, then
// time, both descending. limit <= 0 returns all of them.
func (db *DB) GetMistakes(seriesID string, limit int) ([]model.MistakeRow, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query(`
		SELECT series_id, occurred_at, victim_name, victim_team_id, victim_team_name,
		       gravity_mvp, mgi_score, answered_by_objective, answer_kind, answer_delta,
		       is_near_objective, is_pressure_objective, near_kind, near_delta, details
		FROM mistakes WHERE series_id = ?
		ORDER BY mgi_score DESC, occurred_at DESC, seq
		LIMIT ?`, seriesID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MistakeRow
	for rows.Next() {
		var m model.MistakeRow
		var answered, near, pressure int
		if err := rows.Scan(&m.SeriesID, &m.OccurredAt, &m.VictimName, &m.VictimTeamID, &m.VictimTeamName,
			&m.GravityMVP, &m.MGIScore, &answered, &m.AnswerKind, &m.AnswerDelta,
			&near, &pressure, &m.NearKind, &m.NearDelta, &m.Details); err != nil {
			return nil, err
		}
		m.AnsweredByObjective = answered != 0
		m.IsNearObjective = near != 0
		m.IsPressureObjective = pressure != 0
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetTeamSummaries returns the stored team summaries of a series, most untraded deaths first.
func (db *DB) GetTeamSummaries(seriesID string) ([]model.TeamSummary, error) {
	rows, err := db.conn.Query(`
		SELECT team_id, team_name, untraded, total_deaths, total_gravity, total_mgi_score
		FROM team_summaries WHERE series_id = ?
		ORDER BY untraded DESC, team_id`, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TeamSummary
	for rows.Next() {
		var t model.TeamSummary
		if err := rows.Scan(&t.TeamID, &t.TeamName, &t.Untraded, &t.TotalDeaths, &t.TotalGravity, &t.TotalMGIScore); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
// NULL values render as "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
