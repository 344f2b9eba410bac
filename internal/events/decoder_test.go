package events

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pable/go-lol-mgi/internal/model"
)

func decode(t *testing.T, input string) *Stream {
	t.Helper()
	s, err := NewDecoder(zerolog.Nop()).Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return s
}

const killLine = `{"occurredAt":"2024-06-15T20:01:00.000Z","events":[{"type":"player-killed-player",` +
	`"actor":{"id":"p1","state":{"name":"Faker","teamId":"1"}},` +
	`"target":{"id":"p6","state":{"name":"Chovy","teamId":"2"}}}]}`

func TestDecode_Kill(t *testing.T) {
	s := decode(t, killLine+"\n")
	if len(s.Kills) != 1 {
		t.Fatalf("expected 1 kill, got %d", len(s.Kills))
	}
	k := s.Kills[0]
	want := model.KillEvent{
		OccurredAt:   time.Date(2024, 6, 15, 20, 1, 0, 0, time.UTC),
		KillerID:     "p1",
		KillerName:   "Faker",
		KillerTeamID: "1",
		VictimID:     "p6",
		VictimName:   "Chovy",
		VictimTeamID: "2",
	}
	if k != want {
		t.Errorf("got %+v, want %+v", k, want)
	}
	if len(s.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", s.Warnings)
	}
}

func TestDecode_NumericIDsAreStringified(t *testing.T) {
	line := `{"occurredAt":"2024-06-15T20:01:00Z","events":[{"type":"player-killed-player",` +
		`"actor":{"id":11,"state":{"name":"A","teamId":100}},"target":{"id":22,"state":{"name":"B","teamId":200}}}]}`
	s := decode(t, line)
	if len(s.Kills) != 1 {
		t.Fatalf("expected 1 kill, got %d", len(s.Kills))
	}
	k := s.Kills[0]
	if k.KillerID != "11" || k.KillerTeamID != "100" || k.VictimID != "22" || k.VictimTeamID != "200" {
		t.Errorf("ids not stringified: %+v", k)
	}
}

func TestDecode_KillWithoutIDsIsDropped(t *testing.T) {
	line := `{"occurredAt":"2024-06-15T20:01:00Z","events":[{"type":"player-killed-player",` +
		`"actor":{"state":{"name":"A","teamId":"1"}},"target":{"id":"p6","state":{"teamId":"2"}}}]}`
	s := decode(t, line)
	if len(s.Kills) != 0 {
		t.Errorf("expected kill without killer id to be dropped, got %+v", s.Kills)
	}
	if len(s.Warnings) != 0 {
		t.Errorf("dropping an incomplete kill is not a warning: %v", s.Warnings)
	}
}

func TestDecode_MalformedLinesAreSkipped(t *testing.T) {
	input := strings.Join([]string{
		`not json`,
		`[1,2,3]`,
		`{"events":[]}`,
		`{"occurredAt":"yesterday","events":[]}`,
		``,
		killLine,
		`{"occurredAt":"2024-06-15T20:02:00Z","events":"nope"}`,
	}, "\n")
	s := decode(t, input)
	if len(s.Kills) != 1 {
		t.Fatalf("expected the valid kill to survive, got %d kills", len(s.Kills))
	}
	if len(s.Warnings) != 4 {
		t.Fatalf("expected 4 warnings, got %d: %v", len(s.Warnings), s.Warnings)
	}
	for i, line := range []int{1, 2, 3, 4} {
		if s.Warnings[i].Line != line {
			t.Errorf("warning %d: line %d, want %d", i, s.Warnings[i].Line, line)
		}
	}
}

func TestDecode_BadSubEventSkipsOnlyThatEvent(t *testing.T) {
	line := `{"occurredAt":"2024-06-15T20:01:00Z","events":[` +
		`42,` +
		`{"type":"player-killed-player","actor":"oops","target":{"id":"p6"}},` +
		`{"type":"player-killed-player","actor":{"id":"p1","state":{"teamId":"1"}},"target":{"id":"p6","state":{"teamId":"2"}}}]}`
	s := decode(t, line)
	if len(s.Kills) != 1 {
		t.Errorf("expected 1 kill, got %d", len(s.Kills))
	}
	if len(s.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", s.Warnings)
	}
}

func TestDecode_ObjectiveTeamAttribution(t *testing.T) {
	input := strings.Join([]string{
		`{"occurredAt":"2024-06-15T20:10:00Z","events":[{"type":"player-completed-slayBaron","actor":{"id":"p1","state":{"name":"Oner","teamId":"1"}},"teamId":"9"}]}`,
		`{"occurredAt":"2024-06-15T20:11:00Z","events":[{"type":"team-destroyed-tower","actor":{"id":"t2"},"teamId":"2"}]}`,
		`{"occurredAt":"2024-06-15T20:12:00Z","events":[{"type":"player-completed-slayVoidGrub","state":{"teamId":"3"}}]}`,
		`{"occurredAt":"2024-06-15T20:13:00Z","events":[{"type":"player-completed-slayOceanDrake"}]}`,
		`{"occurredAt":"2024-06-15T20:14:00Z","events":[{"type":"player-bought-item","actor":{"id":"p1"}}]}`,
	}, "\n")
	s := decode(t, input)
	if len(s.Objectives) != 4 {
		t.Fatalf("expected 4 objectives, got %d", len(s.Objectives))
	}
	cases := []struct {
		kind model.ObjectiveKind
		team string
	}{
		{model.ObjectiveBaron, "1"},
		{model.ObjectiveTower, "2"},
		{model.ObjectiveVoidgrub, "3"},
		{model.ObjectiveDrakeOcean, ""},
	}
	for i, c := range cases {
		o := s.Objectives[i]
		if o.Kind != c.kind || o.TeamID != c.team {
			t.Errorf("objective %d: got (%s, %q), want (%s, %q)", i, o.Kind, o.TeamID, c.kind, c.team)
		}
	}
	if s.Objectives[0].PlayerName != "Oner" || s.Objectives[0].RawType != "player-completed-slayBaron" {
		t.Errorf("unexpected baron record: %+v", s.Objectives[0])
	}
}

func TestSortedObjectives_IsStableCopy(t *testing.T) {
	t0 := time.Date(2024, 6, 15, 20, 0, 0, 0, time.UTC)
	s := &Stream{Objectives: []model.ObjectiveEvent{
		{OccurredAt: t0.Add(2 * time.Minute), Kind: model.ObjectiveTower},
		{OccurredAt: t0, Kind: model.ObjectivePlate, TeamID: "a"},
		{OccurredAt: t0, Kind: model.ObjectivePlate, TeamID: "b"},
	}}
	got := s.SortedObjectives()
	if got[0].TeamID != "a" || got[1].TeamID != "b" || got[2].Kind != model.ObjectiveTower {
		t.Errorf("unexpected order: %+v", got)
	}
	if s.Objectives[0].Kind != model.ObjectiveTower {
		t.Error("SortedObjectives must not reorder the stream")
	}
}

func TestDecodeFile_Missing(t *testing.T) {
	_, err := NewDecoder(zerolog.Nop()).DecodeFile(filepath.Join(t.TempDir(), "events.jsonl"))
	if !errors.Is(err, ErrNoEvents) {
		t.Fatalf("expected ErrNoEvents, got %v", err)
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	if err := os.WriteFile(path, []byte(killLine+"\n"+killLine), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewDecoder(zerolog.Nop()).DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if len(s.Kills) != 2 {
		t.Errorf("expected 2 kills (last line without newline), got %d", len(s.Kills))
	}
}

func TestParseTime(t *testing.T) {
	want := time.Date(2024, 6, 15, 22, 45, 0, 500_000_000, time.UTC)
	for _, in := range []string{
		"2024-06-15T22:45:00.500Z",
		"2024-06-15T22:45:00.5",
		"2024-06-16T00:45:00.5+02:00",
		" 2024-06-15 22:45:00.5 ",
	} {
		got, err := ParseTime(in)
		if err != nil {
			t.Errorf("ParseTime(%q): %v", in, err)
			continue
		}
		if !got.Equal(want) || got.Location() != time.UTC {
			t.Errorf("ParseTime(%q) = %v, want %v UTC", in, got, want)
		}
	}
	if _, err := ParseTime("15/06/2024"); err == nil {
		t.Error("expected error for unsupported layout")
	}
}

func TestParseTeamNames(t *testing.T) {
	data := []byte(`{"seriesState":{"teams":[{"id":"1","name":"T1"},{"id":2,"name":"Gen.G"},{"id":"3","name":""},{"name":"NoID"}]}}`)
	got := ParseTeamNames(data)
	if len(got) != 2 || got["1"] != "T1" || got["2"] != "Gen.G" {
		t.Errorf("unexpected team names: %v", got)
	}
	if len(ParseTeamNames([]byte("garbage"))) != 0 {
		t.Error("expected empty map for invalid JSON")
	}
}

func TestLoadTeamNames_MissingFile(t *testing.T) {
	got, err := LoadTeamNames(filepath.Join(t.TempDir(), "end_state.json"))
	if err != nil {
		t.Fatalf("LoadTeamNames: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestObjectiveKindFor(t *testing.T) {
	if k, ok := ObjectiveKindFor("player-completed-destroyTurretPlateBot"); !ok || k != model.ObjectivePlate {
		t.Errorf("plate: got %s %v", k, ok)
	}
	if _, ok := ObjectiveKindFor("player-killed-player"); ok {
		t.Error("kill type is not an objective")
	}
}
