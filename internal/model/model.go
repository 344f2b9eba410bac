package model

import "time"

// ObjectiveKind is the map objective category an objective event belongs to.
type ObjectiveKind string

const (
	ObjectiveBaron         ObjectiveKind = "baron"
	ObjectiveElder         ObjectiveKind = "elder"
	ObjectiveDrakeOcean    ObjectiveKind = "drake_ocean"
	ObjectiveDrakeChemtech ObjectiveKind = "drake_chemtech"
	ObjectiveDrakeMountain ObjectiveKind = "drake_mountain"
	ObjectiveHerald        ObjectiveKind = "herald"
	ObjectiveTower         ObjectiveKind = "tower"
	ObjectivePlate         ObjectiveKind = "plate"
	ObjectiveVoidgrub      ObjectiveKind = "voidgrub"
	ObjectiveFortifier     ObjectiveKind = "fortifier"
	ObjectiveAtakhan       ObjectiveKind = "atakhan"
)

func (k ObjectiveKind) String() string { return string(k) }

// MistakeUntradedDeath is the only mistake kind produced today.
const MistakeUntradedDeath = "untraded_death"

// ---- Decoded events ----

// KillEvent is one player-killed-player record.
type KillEvent struct {
	OccurredAt   time.Time
	KillerID     string
	KillerName   string
	KillerTeamID string
	VictimID     string
	VictimName   string
	VictimTeamID string
}

// ObjectiveEvent is one completed map objective. TeamID is empty when the
// source record carries no attribution.
type ObjectiveEvent struct {
	OccurredAt time.Time
	Kind       ObjectiveKind
	TeamID     string
	PlayerName string
	RawType    string
}

// ---- Derived records ----

// Mistake is an untraded death.
type Mistake struct {
	OccurredAt   time.Time
	VictimName   string
	VictimTeamID string
	Kind         string
	BaseGravity  int
	Details      string
}

// ObjectiveRef is an objective event seen relative to a death.
// DeltaSeconds is objective time minus death time, truncated toward zero.
type ObjectiveRef struct {
	Kind         ObjectiveKind `json:"kind"`
	OccurredAt   time.Time     `json:"occurredAt"`
	TeamID       string        `json:"teamId"`
	PlayerName   string        `json:"playerName"`
	RawType      string        `json:"rawType"`
	DeltaSeconds int           `json:"deltaSeconds"`
}

// ScoredMistake is the terminal record of the pipeline.
type ScoredMistake struct {
	OccurredAt          time.Time     `json:"occurredAt"`
	VictimName          string        `json:"victimName"`
	VictimTeamID        string        `json:"victimTeamId"`
	VictimTeamName      string        `json:"victimTeamName"`
	Kind                string        `json:"kind"`
	Gravity             int           `json:"gravity"`
	GravityMVP          int           `json:"gravityMvp"`
	MGIScore            int           `json:"mgiScore"`
	AnsweredByObjective bool          `json:"answeredByObjective"`
	ObjectiveAnswer     *ObjectiveRef `json:"objectiveAnswer"`
	IsNearObjective     bool          `json:"isNearObjective"`
	NearObjective       *ObjectiveRef `json:"nearObjective"`
	IsPressureObjective bool          `json:"isPressureObjective"`
	PressureObjective   *ObjectiveRef `json:"pressureObjective"`
	Details             string        `json:"details"`
}

// ---- Aggregates ----

// TeamSummary aggregates untraded deaths for one victim team.
type TeamSummary struct {
	TeamID        string
	TeamName      string
	Untraded      int
	TotalDeaths   int
	TotalGravity  int
	TotalMGIScore int
}

// UntradedRate returns untraded deaths as a fraction of all deaths (0..1).
func (s *TeamSummary) UntradedRate() float64 {
	if s.TotalDeaths == 0 {
		return 0
	}
	return float64(s.Untraded) / float64(s.TotalDeaths)
}

// PlayerSummary aggregates untraded deaths for one victim.
type PlayerSummary struct {
	VictimName   string
	TeamID       string
	Count        int
	TotalGravity int
}

// Summary is the aggregate view over a scored mistake set.
type Summary struct {
	Kills    int
	Mistakes int
	Answered int
	Near     int
	Pressure int
	Teams    []TeamSummary
	Players  []PlayerSummary
	Top      []ScoredMistake
}

// Unanswered is the number of mistakes with neither a kill trade nor an objective answer.
func (s *Summary) Unanswered() int { return s.Mistakes - s.Answered }

// UntradedPct returns mistakes over all kills, in percent.
func (s *Summary) UntradedPct() float64 { return pct(s.Mistakes, s.Kills) }

// AnsweredPct returns answered mistakes over all mistakes, in percent.
func (s *Summary) AnsweredPct() float64 { return pct(s.Answered, s.Mistakes) }

// UnansweredPct returns unanswered mistakes over all mistakes, in percent.
func (s *Summary) UnansweredPct() float64 { return pct(s.Unanswered(), s.Mistakes) }

// NearPct returns near-objective mistakes over all mistakes, in percent.
func (s *Summary) NearPct() float64 { return pct(s.Near, s.Mistakes) }

// PressurePct returns pressure-objective mistakes over all mistakes, in percent.
func (s *Summary) PressurePct() float64 { return pct(s.Pressure, s.Mistakes) }

func pct(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}

// ---- Stored records ----

// SeriesRecord is a lightweight record for list/show commands.
type SeriesRecord struct {
	SeriesID        string
	RunID           string
	AnalyzedAt      string
	Kills           int
	Mistakes        int
	Answered        int
	FightGapSeconds int
	AnswerWindow    int
	PressureWindow  int
	ContextWindow   int
}

// UntradedPct returns stored mistakes over stored kills, in percent.
func (r *SeriesRecord) UntradedPct() float64 { return pct(r.Mistakes, r.Kills) }

// MistakeRow is a flattened ScoredMistake as stored in the database.
type MistakeRow struct {
	SeriesID            string
	OccurredAt          string
	VictimName          string
	VictimTeamID        string
	VictimTeamName      string
	GravityMVP          int
	MGIScore            int
	AnsweredByObjective bool
	AnswerKind          string
	AnswerDelta         int
	IsNearObjective     bool
	IsPressureObjective bool
	NearKind            string
	NearDelta           int
	Details             string
}
