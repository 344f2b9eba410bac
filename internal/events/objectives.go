package events

import "github.com/pable/go-lol-mgi/internal/model"

// objectiveTypes maps GRID event types to objective kinds. Types not listed
// here are ignored by the decoder.
var objectiveTypes = map[string]model.ObjectiveKind{
	"player-completed-slayBaron":      model.ObjectiveBaron,
	"player-completed-slayElderDrake": model.ObjectiveElder,
	"player-completed-slayAtakhan":    model.ObjectiveAtakhan,
	"player-completed-slayRiftHerald": model.ObjectiveHerald,

	"player-completed-slayOceanDrake":    model.ObjectiveDrakeOcean,
	"player-completed-slayChemtechDrake": model.ObjectiveDrakeChemtech,
	"player-completed-slayMountainDrake": model.ObjectiveDrakeMountain,

	"team-destroyed-tower":          model.ObjectiveTower,
	"team-completed-destroyTower":   model.ObjectiveTower,
	"player-destroyed-tower":        model.ObjectiveTower,
	"player-completed-destroyTower": model.ObjectiveTower,

	"player-completed-destroyTurretPlateTop": model.ObjectivePlate,
	"player-completed-destroyTurretPlateMid": model.ObjectivePlate,
	"player-completed-destroyTurretPlateBot": model.ObjectivePlate,
	"team-completed-destroyTurretPlateTop":   model.ObjectivePlate,
	"team-completed-destroyTurretPlateMid":   model.ObjectivePlate,
	"team-completed-destroyTurretPlateBot":   model.ObjectivePlate,

	"player-completed-slayVoidGrub": model.ObjectiveVoidgrub,

	"player-destroyed-fortifier":        model.ObjectiveFortifier,
	"player-completed-destroyFortifier": model.ObjectiveFortifier,
}

func isObjectiveType(evType string) bool {
	_, ok := objectiveTypes[evType]
	return ok
}

// ObjectiveKindFor returns the objective kind for a GRID event type.
func ObjectiveKindFor(evType string) (model.ObjectiveKind, bool) {
	k, ok := objectiveTypes[evType]
	return k, ok
}
