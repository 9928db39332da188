package stats

import "fmt"

// Stat names shared between scoring rules and raw gameweek records. They
// match the column names the stat feed reports.
const (
	StatMetres         = "metres"
	StatCarries        = "carries"
	StatTackles        = "tackles"
	StatMarkerTackles  = "marker_tackles"
	StatOffloads       = "offloads"
	StatRunsFromDH     = "runs_from_dh"
	StatAttackingKicks = "attacking_kicks"
	StatTries          = "tries"
	StatTryAssists     = "try_assists"
	StatGoals          = "goals"
	StatDropGoals      = "drop_goals"
	StatTackleBusts    = "tackle_busts"
	StatCleanBreaks    = "clean_breaks"
	StatFortyTwenty    = "forty_twenty"
	StatErrors         = "errors"
	StatPenalties      = "penalties"
	StatYellowCards    = "yellow_cards"
	StatRedCards       = "red_cards"
)

// AllStatNames lists every scorable stat in display order.
var AllStatNames = []string{
	StatTries,
	StatTryAssists,
	StatGoals,
	StatDropGoals,
	StatMetres,
	StatCarries,
	StatTackles,
	StatMarkerTackles,
	StatTackleBusts,
	StatCleanBreaks,
	StatOffloads,
	StatRunsFromDH,
	StatAttackingKicks,
	StatFortyTwenty,
	StatErrors,
	StatPenalties,
	StatYellowCards,
	StatRedCards,
}

// GameweekStats is one player's raw counted events for one gameweek plus the
// derived fantasy points. One record per (player, gameweek); upserts win by
// last write.
type GameweekStats struct {
	PlayerID   string
	GameweekID string
	Played     bool

	Metres         int
	Carries        int
	Tackles        int
	MarkerTackles  int
	Offloads       int
	RunsFromDH     int
	AttackingKicks int
	Tries          int
	TryAssists     int
	Goals          int
	DropGoals      int
	TackleBusts    int
	CleanBreaks    int
	FortyTwenty    int
	Errors         int
	Penalties      int
	YellowCards    int
	RedCards       int

	Points int
}

func (s GameweekStats) Validate() error {
	if s.PlayerID == "" {
		return fmt.Errorf("player id is required")
	}
	if s.GameweekID == "" {
		return fmt.Errorf("gameweek id is required")
	}

	return nil
}

// Counts returns the raw counters keyed by scoring-table stat name.
func (s GameweekStats) Counts() map[string]int {
	return map[string]int{
		StatMetres:         s.Metres,
		StatCarries:        s.Carries,
		StatTackles:        s.Tackles,
		StatMarkerTackles:  s.MarkerTackles,
		StatOffloads:       s.Offloads,
		StatRunsFromDH:     s.RunsFromDH,
		StatAttackingKicks: s.AttackingKicks,
		StatTries:          s.Tries,
		StatTryAssists:     s.TryAssists,
		StatGoals:          s.Goals,
		StatDropGoals:      s.DropGoals,
		StatTackleBusts:    s.TackleBusts,
		StatCleanBreaks:    s.CleanBreaks,
		StatFortyTwenty:    s.FortyTwenty,
		StatErrors:         s.Errors,
		StatPenalties:      s.Penalties,
		StatYellowCards:    s.YellowCards,
		StatRedCards:       s.RedCards,
	}
}

// ScoringRule maps one stat name to its point value. Negative values
// (errors, cards, penalties) subtract.
type ScoringRule struct {
	StatName    string
	PointsValue float64
}

func (r ScoringRule) Validate() error {
	if r.StatName == "" {
		return fmt.Errorf("stat name is required")
	}
	for _, name := range AllStatNames {
		if name == r.StatName {
			return nil
		}
	}

	return fmt.Errorf("unknown stat name: %s", r.StatName)
}

// DefaultScoringRules is the seed scoring table. Admins tune individual
// values at runtime.
func DefaultScoringRules() []ScoringRule {
	return []ScoringRule{
		{StatName: StatTries, PointsValue: 4},
		{StatName: StatTryAssists, PointsValue: 2},
		{StatName: StatGoals, PointsValue: 1},
		{StatName: StatDropGoals, PointsValue: 1},
		{StatName: StatMetres, PointsValue: 0.01},
		{StatName: StatCarries, PointsValue: 0.05},
		{StatName: StatTackles, PointsValue: 0.02},
		{StatName: StatMarkerTackles, PointsValue: 0.02},
		{StatName: StatTackleBusts, PointsValue: 0.25},
		{StatName: StatCleanBreaks, PointsValue: 0.5},
		{StatName: StatOffloads, PointsValue: 0.25},
		{StatName: StatRunsFromDH, PointsValue: 0.05},
		{StatName: StatAttackingKicks, PointsValue: 0.1},
		{StatName: StatFortyTwenty, PointsValue: 1},
		{StatName: StatErrors, PointsValue: -1},
		{StatName: StatPenalties, PointsValue: -1},
		{StatName: StatYellowCards, PointsValue: -2},
		{StatName: StatRedCards, PointsValue: -4},
	}
}
