// Package events decodes GRID series event logs (one JSON envelope per line)
// into typed kill and objective records.
package events

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/pable/go-lol-mgi/internal/model"
)

// ErrNoEvents is returned when the events file does not exist.
var ErrNoEvents = errors.New("events file not found")

const killEventType = "player-killed-player"

// Warning describes one skipped envelope or sub-event.
type Warning struct {
	Line int
	Err  error
}

func (w Warning) String() string { return fmt.Sprintf("line %d: %v", w.Line, w.Err) }

// Stream is the decoded content of one events file, in stream order.
type Stream struct {
	Kills      []model.KillEvent
	Objectives []model.ObjectiveEvent
	Warnings   []Warning
}

// SortedObjectives returns a copy of the objectives stable-sorted by time.
func (s *Stream) SortedObjectives() []model.ObjectiveEvent {
	out := make([]model.ObjectiveEvent, len(s.Objectives))
	copy(out, s.Objectives)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.Before(out[j].OccurredAt)
	})
	return out
}

// Decoder turns JSONL envelopes into a Stream. Malformed envelopes and
// sub-events are skipped and reported; they never abort decoding.
type Decoder struct {
	log zerolog.Logger
}

// NewDecoder returns a Decoder that reports skipped records to log.
func NewDecoder(log zerolog.Logger) *Decoder {
	return &Decoder{log: log}
}

// DecodeFile decodes the events file at path.
func (d *Decoder) DecodeFile(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoEvents, path)
		}
		return nil, fmt.Errorf("open events: %w", err)
	}
	defer f.Close()
	return d.Decode(f)
}

// Decode reads every line of r. The only error returned is a read failure.
func (d *Decoder) Decode(r io.Reader) (*Stream, error) {
	s := &Stream{}
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			lineNo++
			d.decodeLine(s, lineNo, line)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read events line %d: %w", lineNo+1, err)
		}
	}
	return s, nil
}

func (d *Decoder) decodeLine(s *Stream, lineNo int, line []byte) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	occurredAt, env, err := parseEnvelope(line)
	if err != nil {
		d.warn(s, lineNo, fmt.Errorf("malformed envelope: %w", err))
		return
	}

	evs := env.Get("events")
	if !evs.IsArray() {
		return
	}
	for i, ev := range evs.Array() {
		if !ev.IsObject() {
			d.warn(s, lineNo, fmt.Errorf("event %d: not an object", i))
			continue
		}
		evType := strings.TrimSpace(ev.Get("type").String())
		switch {
		case evType == killEventType:
			k, ok, err := decodeKill(ev, occurredAt)
			if err != nil {
				d.warn(s, lineNo, fmt.Errorf("bad kill event %d: %w", i, err))
				continue
			}
			if ok {
				s.Kills = append(s.Kills, k)
			}
		case isObjectiveType(evType):
			o, err := decodeObjective(ev, evType, occurredAt)
			if err != nil {
				d.warn(s, lineNo, fmt.Errorf("bad objective event %d: %w", i, err))
				continue
			}
			s.Objectives = append(s.Objectives, o)
		}
	}
}

func (d *Decoder) warn(s *Stream, lineNo int, err error) {
	s.Warnings = append(s.Warnings, Warning{Line: lineNo, Err: err})
	d.log.Warn().Int("line", lineNo).Err(err).Msg("skipping record")
}

func parseEnvelope(line []byte) (time.Time, gjson.Result, error) {
	if !gjson.ValidBytes(line) {
		return time.Time{}, gjson.Result{}, errors.New("invalid JSON")
	}
	env := gjson.ParseBytes(line)
	if !env.IsObject() {
		return time.Time{}, gjson.Result{}, errors.New("envelope is not an object")
	}
	ts := env.Get("occurredAt")
	if ts.Type != gjson.String {
		return time.Time{}, gjson.Result{}, errors.New("missing occurredAt")
	}
	t, err := ParseTime(ts.String())
	if err != nil {
		return time.Time{}, gjson.Result{}, err
	}
	return t, env, nil
}

// decodeKill returns ok=false for kills without both participant ids.
func decodeKill(ev gjson.Result, at time.Time) (model.KillEvent, bool, error) {
	actor, err := entity(ev, "actor")
	if err != nil {
		return model.KillEvent{}, false, err
	}
	target, err := entity(ev, "target")
	if err != nil {
		return model.KillEvent{}, false, err
	}
	aState, err := entity(actor, "state")
	if err != nil {
		return model.KillEvent{}, false, fmt.Errorf("actor: %w", err)
	}
	tState, err := entity(target, "state")
	if err != nil {
		return model.KillEvent{}, false, fmt.Errorf("target: %w", err)
	}

	k := model.KillEvent{
		OccurredAt:   at,
		KillerID:     text(actor.Get("id")),
		KillerName:   text(aState.Get("name")),
		KillerTeamID: text(aState.Get("teamId")),
		VictimID:     text(target.Get("id")),
		VictimName:   text(tState.Get("name")),
		VictimTeamID: text(tState.Get("teamId")),
	}
	if k.KillerID == "" || k.VictimID == "" {
		return model.KillEvent{}, false, nil
	}
	return k, true, nil
}

func decodeObjective(ev gjson.Result, evType string, at time.Time) (model.ObjectiveEvent, error) {
	actor, err := entity(ev, "actor")
	if err != nil {
		return model.ObjectiveEvent{}, err
	}
	aState, err := entity(actor, "state")
	if err != nil {
		return model.ObjectiveEvent{}, fmt.Errorf("actor: %w", err)
	}
	state, err := entity(ev, "state")
	if err != nil {
		return model.ObjectiveEvent{}, err
	}

	// Attribution: actor.state.teamId, then teamId, then state.teamId.
	teamID := text(aState.Get("teamId"))
	if teamID == "" {
		teamID = text(ev.Get("teamId"))
	}
	if teamID == "" {
		teamID = text(state.Get("teamId"))
	}

	return model.ObjectiveEvent{
		OccurredAt: at,
		Kind:       objectiveTypes[evType],
		TeamID:     teamID,
		PlayerName: text(aState.Get("name")),
		RawType:    evType,
	}, nil
}

// entity returns parent.key when it is an object, an empty result when it is
// absent or null, and an error for any other shape.
func entity(parent gjson.Result, key string) (gjson.Result, error) {
	if !parent.Exists() {
		return gjson.Result{}, nil
	}
	v := parent.Get(key)
	switch {
	case !v.Exists(), v.Type == gjson.Null:
		return gjson.Result{}, nil
	case v.IsObject():
		return v, nil
	default:
		return gjson.Result{}, fmt.Errorf("%s is not an object", key)
	}
}

// text stringifies a scalar field, so numeric ids become their decimal text.
func text(v gjson.Result) string {
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	return strings.TrimSpace(v.String())
}

// ParseTime parses GRID timestamps such as "2024-06-15T22:45:00.000Z" into UTC.
// Timestamps without an offset are taken as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
