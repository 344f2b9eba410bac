package aggregator

import (
	"sort"

	"github.com/pable/go-lol-mgi/internal/model"
)

// PlayerTopN caps the per-player table.
const PlayerTopN = 10

// Aggregate reduces a scored mistake set into team, player and top-N views.
// kills is the full, unfiltered kill set and provides the death denominators.
// top < 0 keeps every mistake in Summary.Top.
func Aggregate(kills []model.KillEvent, scored []model.ScoredMistake, teamNames map[string]string, top int) model.Summary {
	s := model.Summary{
		Kills:    len(kills),
		Mistakes: len(scored),
	}
	for _, m := range scored {
		if m.AnsweredByObjective {
			s.Answered++
		}
		if m.IsNearObjective {
			s.Near++
		}
		if m.IsPressureObjective {
			s.Pressure++
		}
	}

	s.Teams = teamSummaries(kills, scored, teamNames)
	s.Players = playerSummaries(scored)
	s.Top = TopMistakes(scored, top)
	return s
}

// ---- Teams ----

func teamSummaries(kills []model.KillEvent, scored []model.ScoredMistake, teamNames map[string]string) []model.TeamSummary {
	byTeam := make(map[string]*model.TeamSummary)
	var order []string
	get := func(id string) *model.TeamSummary {
		ts, ok := byTeam[id]
		if !ok {
			ts = &model.TeamSummary{TeamID: id, TeamName: teamNames[id]}
			byTeam[id] = ts
			order = append(order, id)
		}
		return ts
	}

	// Teams with mistakes first, in order of their first mistake; teams that
	// only appear as victims in kills follow.
	for _, m := range scored {
		ts := get(m.VictimTeamID)
		ts.Untraded++
		ts.TotalGravity += m.GravityMVP
		ts.TotalMGIScore += m.MGIScore
	}
	for _, k := range kills {
		get(k.VictimTeamID).TotalDeaths++
	}

	out := make([]model.TeamSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byTeam[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Untraded > out[j].Untraded
	})
	return out
}

// ---- Players ----

func playerSummaries(scored []model.ScoredMistake) []model.PlayerSummary {
	byName := make(map[string]*model.PlayerSummary)
	var order []string
	for _, m := range scored {
		ps, ok := byName[m.VictimName]
		if !ok {
			ps = &model.PlayerSummary{VictimName: m.VictimName, TeamID: m.VictimTeamID}
			byName[m.VictimName] = ps
			order = append(order, m.VictimName)
		}
		ps.Count++
		ps.TotalGravity += m.GravityMVP
	}

	out := make([]model.PlayerSummary, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > PlayerTopN {
		out = out[:PlayerTopN]
	}
	return out
}

// ---- Top mistakes ----

// TopMistakes returns up to n mistakes ordered by (MGIScore, OccurredAt)
// descending. Full ties keep input order. n < 0 returns all of them.
func TopMistakes(scored []model.ScoredMistake, n int) []model.ScoredMistake {
	out := make([]model.ScoredMistake, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MGIScore != out[j].MGIScore {
			return out[i].MGIScore > out[j].MGIScore
		}
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
