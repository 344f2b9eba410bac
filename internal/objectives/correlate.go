// Package objectives correlates deaths with map objectives taken around them.
//
// Two different questions are asked and they must not be conflated:
// AnsweredAfter returns the FIRST objective (in slice order) the victim's team
// took inside the answer window, while NearestWithin returns the objective of
// either team CLOSEST in time to the death.
package objectives

import (
	"time"

	"github.com/pable/go-lol-mgi/internal/model"
)

// AnsweredAfter returns the first objective in objs credited to victimTeamID
// with death <= OccurredAt <= death+window. objs is expected sorted by time.
// Objectives without team attribution never answer a death.
func AnsweredAfter(objs []model.ObjectiveEvent, victimTeamID string, death time.Time, window time.Duration) (model.ObjectiveEvent, bool) {
	if victimTeamID == "" {
		return model.ObjectiveEvent{}, false
	}
	end := death.Add(window)
	for _, o := range objs {
		if o.TeamID != victimTeamID {
			continue
		}
		if !o.OccurredAt.Before(death) && !o.OccurredAt.After(end) {
			return o, true
		}
	}
	return model.ObjectiveEvent{}, false
}

// NearestWithin returns the objective of any team minimising |OccurredAt-when|
// subject to that distance being <= window. Ties keep the first one scanned.
// The returned delta is objective time minus when.
func NearestWithin(objs []model.ObjectiveEvent, when time.Time, window time.Duration) (model.ObjectiveEvent, time.Duration, bool) {
	var (
		best      model.ObjectiveEvent
		bestDelta time.Duration
		found     bool
	)
	for _, o := range objs {
		delta := o.OccurredAt.Sub(when)
		dist := abs(delta)
		if dist > window {
			continue
		}
		if !found || dist < abs(bestDelta) {
			best, bestDelta, found = o, delta, true
		}
	}
	return best, bestDelta, found
}

// Proximity is the objective context of one death.
type Proximity struct {
	Near     *model.ObjectiveRef // nearest within the context window
	Pressure *model.ObjectiveRef // Near, when it also falls inside the pressure window
}

// Classify finds the nearest objective inside the context window and marks it
// as pressure when it also lies inside the pressure window. Pressure is
// therefore never set without Near.
func Classify(objs []model.ObjectiveEvent, death time.Time, pressureWindow, contextWindow time.Duration) Proximity {
	o, delta, ok := NearestWithin(objs, death, contextWindow)
	if !ok {
		return Proximity{}
	}
	near := Ref(o, death)
	p := Proximity{Near: &near}
	if abs(delta) <= pressureWindow {
		pressure := near
		p.Pressure = &pressure
	}
	return p
}

// Ref describes o relative to a death at the given time.
func Ref(o model.ObjectiveEvent, death time.Time) model.ObjectiveRef {
	return model.ObjectiveRef{
		Kind:         o.Kind,
		OccurredAt:   o.OccurredAt,
		TeamID:       o.TeamID,
		PlayerName:   o.PlayerName,
		RawType:      o.RawType,
		DeltaSeconds: int(o.OccurredAt.Sub(death) / time.Second),
	}
}

func abs(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
