package fight

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pable/go-lol-mgi/internal/model"
)

// Traded reports, for each kill in c, whether the victim's team got a kill
// later in the same cluster. "Later" is by sorted index, so a same-timestamp
// kill further down the stable order still counts.
func Traded(c Clustered) []bool {
	type clusterTeam struct {
		cluster int
		team    string
	}
	// Last index at which each team scored a kill, per cluster.
	lastKill := make(map[clusterTeam]int)
	for i, k := range c.Kills {
		lastKill[clusterTeam{c.Clusters[i], k.KillerTeamID}] = i
	}

	out := make([]bool, len(c.Kills))
	for i, k := range c.Kills {
		j, ok := lastKill[clusterTeam{c.Clusters[i], k.VictimTeamID}]
		out[i] = ok && j > i
	}
	return out
}

// Untraded emits one Mistake per kill whose death was not traded.
// gap is only used to describe the rule in the mistake details.
func Untraded(c Clustered, gap time.Duration, baseGravity int) []model.Mistake {
	traded := Traded(c)
	var out []model.Mistake
	for i, k := range c.Kills {
		if traded[i] {
			continue
		}
		out = append(out, model.Mistake{
			OccurredAt:   k.OccurredAt,
			VictimName:   orID(k.VictimName, k.VictimID),
			VictimTeamID: k.VictimTeamID,
			Kind:         model.MistakeUntradedDeath,
			BaseGravity:  baseGravity,
			Details: fmt.Sprintf(
				"Died to %s with no kill by victim team after death in same fight cluster (gap=%ss)",
				orID(k.KillerName, k.KillerID), strconv.FormatFloat(gap.Seconds(), 'f', -1, 64)),
		})
	}
	return out
}

func orID(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
