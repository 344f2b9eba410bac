package aggregator

import (
	"fmt"
	"testing"
	"time"

	"github.com/pable/go-lol-mgi/internal/model"
)

var t0 = time.Date(2024, 6, 15, 20, 0, 0, 0, time.UTC)

func mistake(sec int, victim, team string, score int) model.ScoredMistake {
	return model.ScoredMistake{
		OccurredAt:   t0.Add(time.Duration(sec) * time.Second),
		VictimName:   victim,
		VictimTeamID: team,
		GravityMVP:   25,
		MGIScore:     score,
	}
}

func death(victimTeam string) model.KillEvent {
	return model.KillEvent{VictimTeamID: victimTeam}
}

// ---- Top mistakes ----

func TestTopMistakes_Ordering(t *testing.T) {
	scored := []model.ScoredMistake{
		mistake(10, "a", "A", 35),
		mistake(30, "b", "A", 35),
		mistake(20, "c", "B", 51),
		mistake(30, "d", "B", 35), // full tie with b: input order kept
	}
	got := TopMistakes(scored, -1)
	want := []string{"c", "b", "d", "a"}
	for i, name := range want {
		if got[i].VictimName != name {
			t.Errorf("position %d: got %s, want %s", i, got[i].VictimName, name)
		}
	}
	if scored[0].VictimName != "a" {
		t.Error("input slice was reordered")
	}
}

func TestTopMistakes_Limits(t *testing.T) {
	scored := []model.ScoredMistake{mistake(0, "a", "A", 1), mistake(1, "b", "A", 2)}
	if got := TopMistakes(scored, 0); len(got) != 0 {
		t.Errorf("n=0: expected none, got %d", len(got))
	}
	if got := TopMistakes(scored, 1); len(got) != 1 || got[0].VictimName != "b" {
		t.Errorf("n=1: unexpected %+v", got)
	}
	if got := TopMistakes(scored, 10); len(got) != 2 {
		t.Errorf("n>len: expected 2, got %d", len(got))
	}
	if got := TopMistakes(nil, 5); len(got) != 0 {
		t.Errorf("empty input: expected none, got %d", len(got))
	}
}

// ---- Teams ----

func TestAggregate_Teams(t *testing.T) {
	kills := []model.KillEvent{death("A"), death("A"), death("A"), death("A"), death("B"), death("B"), death("C")}
	scored := []model.ScoredMistake{
		mistake(0, "b1", "B", 40),
		mistake(5, "a1", "A", 35),
		mistake(9, "a2", "A", 35),
	}
	s := Aggregate(kills, scored, map[string]string{"A": "Alpha"}, 10)

	if len(s.Teams) != 3 {
		t.Fatalf("expected 3 teams, got %d", len(s.Teams))
	}
	a, b, c := s.Teams[0], s.Teams[1], s.Teams[2]
	if a.TeamID != "A" || a.Untraded != 2 || a.TotalDeaths != 4 || a.TeamName != "Alpha" || a.TotalMGIScore != 70 {
		t.Errorf("unexpected team A: %+v", a)
	}
	if a.UntradedRate() != 0.5 {
		t.Errorf("team A rate = %v, want 0.5", a.UntradedRate())
	}
	if b.TeamID != "B" || b.Untraded != 1 || b.TotalDeaths != 2 {
		t.Errorf("unexpected team B: %+v", b)
	}
	// C only appears as a victim and has no untraded deaths.
	if c.TeamID != "C" || c.Untraded != 0 || c.TotalDeaths != 1 {
		t.Errorf("unexpected team C: %+v", c)
	}
}

func TestAggregate_Counts(t *testing.T) {
	m1 := mistake(0, "a", "A", 35)
	m1.AnsweredByObjective = true
	m2 := mistake(1, "b", "A", 51)
	m2.IsNearObjective = true
	m2.IsPressureObjective = true
	m3 := mistake(2, "c", "B", 38)
	m3.IsNearObjective = true

	kills := make([]model.KillEvent, 10)
	s := Aggregate(kills, []model.ScoredMistake{m1, m2, m3}, nil, 2)

	if s.Kills != 10 || s.Mistakes != 3 || s.Answered != 1 || s.Near != 2 || s.Pressure != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.Unanswered() != 2 {
		t.Errorf("Unanswered = %d, want 2", s.Unanswered())
	}
	if s.UntradedPct() != 30 {
		t.Errorf("UntradedPct = %v, want 30", s.UntradedPct())
	}
	if len(s.Top) != 2 || s.Top[0].VictimName != "b" {
		t.Errorf("unexpected top: %+v", s.Top)
	}
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil, nil, nil, 10)
	if s.Kills != 0 || s.Mistakes != 0 || len(s.Teams) != 0 || len(s.Players) != 0 || len(s.Top) != 0 {
		t.Errorf("expected empty summary, got %+v", s)
	}
	if s.UntradedPct() != 0 || s.AnsweredPct() != 0 {
		t.Error("percentages over zero must be 0")
	}
}

// ---- Players ----

func TestAggregate_PlayersTopN(t *testing.T) {
	var scored []model.ScoredMistake
	// p0 dies 3 times, p1..p11 once each.
	for i := 0; i < 3; i++ {
		scored = append(scored, mistake(i, "p0", "A", 35))
	}
	for i := 1; i <= 11; i++ {
		scored = append(scored, mistake(10+i, fmt.Sprintf("p%d", i), "B", 35))
	}
	s := Aggregate(nil, scored, nil, 10)

	if len(s.Players) != PlayerTopN {
		t.Fatalf("expected %d players, got %d", PlayerTopN, len(s.Players))
	}
	if s.Players[0].VictimName != "p0" || s.Players[0].Count != 3 || s.Players[0].TotalGravity != 75 {
		t.Errorf("unexpected first player: %+v", s.Players[0])
	}
	// Ties keep first-appearance order.
	if s.Players[1].VictimName != "p1" || s.Players[9].VictimName != "p9" {
		t.Errorf("tie order not preserved: %s .. %s", s.Players[1].VictimName, s.Players[9].VictimName)
	}
}
