// Package fight segments a match's kills into fight clusters and finds the
// deaths a team never answered inside their cluster.
package fight

import (
	"sort"
	"time"

	"github.com/pable/go-lol-mgi/internal/model"
)

// Clustered is a kill sequence sorted by time, paired with the fight cluster
// id of each kill. Clusters[i] belongs to Kills[i].
type Clustered struct {
	Kills    []model.KillEvent
	Clusters []int
}

// Len returns the number of kills.
func (c Clustered) Len() int { return len(c.Kills) }

// Count returns the number of distinct clusters.
func (c Clustered) Count() int {
	if len(c.Clusters) == 0 {
		return 0
	}
	return c.Clusters[len(c.Clusters)-1] + 1
}

// Cluster stable-sorts kills by time and assigns cluster ids. A new cluster
// starts whenever the gap to the previous kill exceeds gap. The input slice
// is not modified.
func Cluster(kills []model.KillEvent, gap time.Duration) Clustered {
	sorted := make([]model.KillEvent, len(kills))
	copy(sorted, kills)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.Before(sorted[j].OccurredAt)
	})

	ids := make([]int, len(sorted))
	cluster := 0
	for i := 1; i < len(sorted); i++ {
		if sorted[i].OccurredAt.Sub(sorted[i-1].OccurredAt) > gap {
			cluster++
		}
		ids[i] = cluster
	}
	return Clustered{Kills: sorted, Clusters: ids}
}
