// Package gravity scores the severity of a mistake from match time and its
// objective context.
package gravity

import (
	"time"

	"github.com/pable/go-lol-mgi/internal/model"
	"github.com/pable/go-lol-mgi/internal/objectives"
)

// Scorer computes gravity relative to a fixed reference time, normally the
// first kill of the match.
type Scorer struct {
	p   Params
	ref time.Time
}

// NewScorer returns a Scorer. A zero reference means "no kills", in which
// case every mistake gets the base gravity.
func NewScorer(p Params, reference time.Time) *Scorer {
	return &Scorer{p: p, ref: reference}
}

// GravityMVP returns the time-bucket gravity of a mistake at t.
func (s *Scorer) GravityMVP(t time.Time) int {
	if s.ref.IsZero() {
		return s.p.Base
	}
	elapsed := t.Sub(s.ref)
	switch {
	case elapsed >= s.p.LateAfter:
		return s.p.Late
	case elapsed >= s.p.MidAfter:
		return s.p.Mid
	default:
		return s.p.Base
	}
}

// Weight returns the weight of an objective kind; unknown kinds weigh 0.
func (s *Scorer) Weight(kind model.ObjectiveKind) int {
	return s.p.KindWeights[kind]
}

// Score returns the MGI score: gravity plus the unanswered, proximity and
// objective-kind bonuses. Pressure and context bonuses are exclusive. The
// score has no upper bound.
func (s *Scorer) Score(gravityMVP int, answered bool, prox objectives.Proximity) int {
	score := gravityMVP
	if !answered {
		score += s.p.UnansweredBonus
	}
	switch {
	case prox.Pressure != nil:
		score += s.p.PressureBonus
	case prox.Near != nil:
		score += s.p.ContextBonus
	}
	if prox.Near != nil {
		score += s.Weight(prox.Near.Kind)
	}
	return score
}
