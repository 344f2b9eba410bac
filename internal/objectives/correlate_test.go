package objectives

import (
	"testing"
	"time"

	"github.com/pable/go-lol-mgi/internal/model"
)

var death = time.Date(2024, 6, 15, 20, 10, 0, 0, time.UTC)

func obj(sec int, kind model.ObjectiveKind, team string) model.ObjectiveEvent {
	return model.ObjectiveEvent{OccurredAt: death.Add(time.Duration(sec) * time.Second), Kind: kind, TeamID: team}
}

func TestAnsweredAfter_FirstMatchInWindow(t *testing.T) {
	objs := []model.ObjectiveEvent{
		obj(-5, model.ObjectiveTower, "A"), // before death
		obj(20, model.ObjectivePlate, "B"), // other team
		obj(40, model.ObjectiveTower, "A"), // first match
		obj(60, model.ObjectiveBaron, "A"), // later match
		obj(91, model.ObjectiveElder, "A"), // outside
	}
	got, ok := AnsweredAfter(objs, "A", death, 90*time.Second)
	if !ok {
		t.Fatal("expected an answer")
	}
	if got.Kind != model.ObjectiveTower || !got.OccurredAt.Equal(death.Add(40*time.Second)) {
		t.Errorf("expected tower at +40s, got %+v", got)
	}
}

func TestAnsweredAfter_WindowIsInclusive(t *testing.T) {
	for _, sec := range []int{0, 90} {
		if _, ok := AnsweredAfter([]model.ObjectiveEvent{obj(sec, model.ObjectiveTower, "A")}, "A", death, 90*time.Second); !ok {
			t.Errorf("objective at +%ds should answer", sec)
		}
	}
}

func TestAnsweredAfter_EmptyTeamNeverAnswers(t *testing.T) {
	objs := []model.ObjectiveEvent{obj(10, model.ObjectiveTower, "")}
	if _, ok := AnsweredAfter(objs, "", death, 90*time.Second); ok {
		t.Error("unattributed objective must not answer an unattributed death")
	}
	if _, ok := AnsweredAfter(objs, "A", death, 90*time.Second); ok {
		t.Error("unattributed objective must not answer")
	}
}

func TestNearestWithin(t *testing.T) {
	objs := []model.ObjectiveEvent{
		obj(-20, model.ObjectiveTower, "A"),
		obj(12, model.ObjectiveBaron, "B"),
		obj(-12, model.ObjectivePlate, "A"), // same distance, scanned later
		obj(200, model.ObjectiveElder, "B"),
	}
	got, delta, ok := NearestWithin(objs, death, 90*time.Second)
	if !ok {
		t.Fatal("expected a nearest objective")
	}
	if got.Kind != model.ObjectiveBaron || delta != 12*time.Second {
		t.Errorf("expected baron at +12s (first of the tie), got %s at %v", got.Kind, delta)
	}

	if _, _, ok := NearestWithin(objs[3:], death, 90*time.Second); ok {
		t.Error("objective outside the window must not be returned")
	}
}

func TestClassify(t *testing.T) {
	pressure, context := 30*time.Second, 90*time.Second

	p := Classify([]model.ObjectiveEvent{obj(-25, model.ObjectiveBaron, "B")}, death, pressure, context)
	if p.Near == nil || p.Pressure == nil {
		t.Fatalf("expected near and pressure, got %+v", p)
	}
	if p.Near.DeltaSeconds != -25 || p.Pressure.Kind != model.ObjectiveBaron {
		t.Errorf("unexpected refs: near=%+v pressure=%+v", p.Near, p.Pressure)
	}

	p = Classify([]model.ObjectiveEvent{obj(60, model.ObjectiveTower, "A")}, death, pressure, context)
	if p.Near == nil || p.Pressure != nil {
		t.Errorf("expected context only, got %+v", p)
	}

	p = Classify(nil, death, pressure, context)
	if p.Near != nil || p.Pressure != nil {
		t.Errorf("expected nothing, got %+v", p)
	}
}

func TestClassify_PressureImpliesNear(t *testing.T) {
	// A pressure window wider than the context window still cannot produce
	// pressure without a near objective.
	p := Classify([]model.ObjectiveEvent{obj(50, model.ObjectiveTower, "A")}, death, 60*time.Second, 40*time.Second)
	if p.Pressure != nil {
		t.Errorf("pressure without near: %+v", p)
	}
}

func TestRef_DeltaTruncatesTowardZero(t *testing.T) {
	o := model.ObjectiveEvent{OccurredAt: death.Add(-1500 * time.Millisecond), Kind: model.ObjectiveTower}
	if got := Ref(o, death).DeltaSeconds; got != -1 {
		t.Errorf("DeltaSeconds = %d, want -1", got)
	}
	o.OccurredAt = death.Add(2900 * time.Millisecond)
	if got := Ref(o, death).DeltaSeconds; got != 2 {
		t.Errorf("DeltaSeconds = %d, want 2", got)
	}
}
