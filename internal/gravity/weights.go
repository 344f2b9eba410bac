package gravity

import (
	"time"

	"github.com/pable/go-lol-mgi/internal/model"
)

// Time-bucket gravity. Later deaths weigh more.
const (
	GravityBase = 25
	GravityMid  = 30
	GravityLate = 35

	GravityMidMinutes  = 15
	GravityLateMinutes = 25
)

// Context bonuses added on top of the time-bucket gravity.
const (
	BonusUnanswered = 10 // no objective answer from the victim team
	BonusPressure   = 8  // objective inside the pressure window
	BonusContext    = 3  // objective inside the context window only
)

// Params holds every constant the scorer uses. Callers override fields on a
// copy of DefaultParams.
type Params struct {
	Base, Mid, Late     int
	MidAfter, LateAfter time.Duration

	UnansweredBonus int
	PressureBonus   int
	ContextBonus    int

	// KindWeights is added for the kind of the nearest objective in the
	// context window. Kinds not present weigh 0.
	KindWeights map[model.ObjectiveKind]int
}

// DefaultParams returns the stock scoring table.
func DefaultParams() Params {
	return Params{
		Base:      GravityBase,
		Mid:       GravityMid,
		Late:      GravityLate,
		MidAfter:  GravityMidMinutes * time.Minute,
		LateAfter: GravityLateMinutes * time.Minute,

		UnansweredBonus: BonusUnanswered,
		PressureBonus:   BonusPressure,
		ContextBonus:    BonusContext,

		KindWeights: map[model.ObjectiveKind]int{
			model.ObjectiveBaron:         8,
			model.ObjectiveAtakhan:       8,
			model.ObjectiveElder:         8,
			model.ObjectiveDrakeOcean:    5,
			model.ObjectiveDrakeChemtech: 5,
			model.ObjectiveDrakeMountain: 5,
			model.ObjectiveHerald:        5,
			model.ObjectiveTower:         4,
			model.ObjectiveFortifier:     3,
			model.ObjectivePlate:         2,
			model.ObjectiveVoidgrub:      2,
		},
	}
}
