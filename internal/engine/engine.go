// Package engine wires the mistake pipeline together:
// cluster -> classify trades -> correlate objectives -> score -> aggregate.
//
// Run is a pure function of its inputs; it performs no I/O and keeps no
// package state, so concurrent runs with different Params do not interfere.
package engine

import (
	"time"

	"github.com/pable/go-lol-mgi/internal/aggregator"
	"github.com/pable/go-lol-mgi/internal/fight"
	"github.com/pable/go-lol-mgi/internal/gravity"
	"github.com/pable/go-lol-mgi/internal/model"
	"github.com/pable/go-lol-mgi/internal/objectives"
)

// Default windows, in seconds.
const (
	DefaultFightGapSeconds       = 45
	DefaultAnswerWindowSeconds   = 90
	DefaultPressureWindowSeconds = 30
	DefaultContextWindowSeconds  = 90
	DefaultTop                   = 10
)

// Params configures one pipeline run. Negative windows are not rejected;
// keeping them sensible is the caller's job.
type Params struct {
	FightGap       time.Duration
	AnswerWindow   time.Duration
	PressureWindow time.Duration
	ContextWindow  time.Duration
	Top            int
	Gravity        gravity.Params
}

// DefaultParams returns the stock configuration.
func DefaultParams() Params {
	return Params{
		FightGap:       DefaultFightGapSeconds * time.Second,
		AnswerWindow:   DefaultAnswerWindowSeconds * time.Second,
		PressureWindow: DefaultPressureWindowSeconds * time.Second,
		ContextWindow:  DefaultContextWindowSeconds * time.Second,
		Top:            DefaultTop,
		Gravity:        gravity.DefaultParams(),
	}
}

// Input is everything the pipeline consumes. Kills may be in any order;
// Objectives are expected sorted by time. TeamNames may be nil.
type Input struct {
	Kills      []model.KillEvent
	Objectives []model.ObjectiveEvent
	TeamNames  map[string]string
}

// Result is the pipeline output.
type Result struct {
	Clustered fight.Clustered
	Mistakes  []model.Mistake
	Scored    []model.ScoredMistake
	Summary   model.Summary
}

// Run executes the full pipeline.
func Run(in Input, p Params) *Result {
	clustered := fight.Cluster(in.Kills, p.FightGap)
	mistakes := fight.Untraded(clustered, p.FightGap, p.Gravity.Base)

	var reference time.Time
	if clustered.Len() > 0 {
		reference = clustered.Kills[0].OccurredAt
	}
	scorer := gravity.NewScorer(p.Gravity, reference)

	scored := make([]model.ScoredMistake, 0, len(mistakes))
	for _, m := range mistakes {
		scored = append(scored, score(m, in, p, scorer))
	}

	return &Result{
		Clustered: clustered,
		Mistakes:  mistakes,
		Scored:    scored,
		Summary:   aggregator.Aggregate(clustered.Kills, scored, in.TeamNames, p.Top),
	}
}

func score(m model.Mistake, in Input, p Params, scorer *gravity.Scorer) model.ScoredMistake {
	sm := model.ScoredMistake{
		OccurredAt:     m.OccurredAt,
		VictimName:     m.VictimName,
		VictimTeamID:   m.VictimTeamID,
		VictimTeamName: in.TeamNames[m.VictimTeamID],
		Kind:           m.Kind,
		Gravity:        m.BaseGravity,
		GravityMVP:     scorer.GravityMVP(m.OccurredAt),
		Details:        m.Details,
	}

	if ans, ok := objectives.AnsweredAfter(in.Objectives, m.VictimTeamID, m.OccurredAt, p.AnswerWindow); ok {
		ref := objectives.Ref(ans, m.OccurredAt)
		sm.AnsweredByObjective = true
		sm.ObjectiveAnswer = &ref
	}

	prox := objectives.Classify(in.Objectives, m.OccurredAt, p.PressureWindow, p.ContextWindow)
	sm.NearObjective = prox.Near
	sm.IsNearObjective = prox.Near != nil
	sm.PressureObjective = prox.Pressure
	sm.IsPressureObjective = prox.Pressure != nil

	sm.MGIScore = scorer.Score(sm.GravityMVP, sm.AnsweredByObjective, prox)
	return sm
}
