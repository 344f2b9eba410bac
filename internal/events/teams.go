package events

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// LoadTeamNames reads team id -> display name from a series end-state file.
// A missing file yields an empty map.
func LoadTeamNames(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read end state: %w", err)
	}
	return ParseTeamNames(data), nil
}

// ParseTeamNames extracts seriesState.teams[].{id,name}. Entries missing
// either field are dropped; anything unparseable yields an empty map.
func ParseTeamNames(data []byte) map[string]string {
	out := make(map[string]string)
	if !gjson.ValidBytes(data) {
		return out
	}
	teams := gjson.GetBytes(data, "seriesState.teams")
	if !teams.IsArray() {
		return out
	}
	for _, t := range teams.Array() {
		if !t.IsObject() {
			continue
		}
		id := text(t.Get("id"))
		name := text(t.Get("name"))
		if id != "" && name != "" {
			out[id] = name
		}
	}
	return out
}
