package roster

import (
	"github.com/tryline/fantasy-rugby/internal/domain/player"
	"github.com/tryline/fantasy-rugby/internal/domain/stats"
)

// PlayerResult is one contributing line of a squad's gameweek score.
type PlayerResult struct {
	PlayerID      string
	Points        int
	IsCaptain     bool
	CaptainBonus  int
	SubstitutedIn bool
	// ReplacedID is set when this bench player covered an absent starter.
	ReplacedID string
}

// GameweekScore is the outcome of scoring one squad for one gameweek.
type GameweekScore struct {
	SquadID    string
	GameweekID string
	Results    []PlayerResult
	Total      int
}

// ScoreGameweek computes a squad's points for one gameweek.
//
// Each starter who played contributes their recorded points. A starter with
// no stat row, or whose row says they did not play, is covered by the first
// bench player, in bench order, who played and shares the starter's exact
// listed position. A bench player covers at most one starter per gameweek.
// The captain's own points are doubled, but only when the captain personally
// played; a substitute covering the captain scores at face value.
func ScoreGameweek(
	squad Squad,
	gameweekID string,
	pool map[string]player.Player,
	records map[string]stats.GameweekStats,
) GameweekScore {
	score := GameweekScore{
		SquadID:    squad.ID,
		GameweekID: gameweekID,
		Results:    make([]PlayerResult, 0, len(squad.Starters)),
	}

	played := func(id string) (stats.GameweekStats, bool) {
		rec, ok := records[id]
		return rec, ok && rec.Played
	}

	usedBench := make(map[string]struct{}, len(squad.Bench))
	for _, starterID := range squad.Starters {
		if rec, ok := played(starterID); ok {
			result := PlayerResult{PlayerID: starterID, Points: rec.Points}
			if starterID == squad.CaptainID {
				result.IsCaptain = true
				result.CaptainBonus = rec.Points
			}
			score.Results = append(score.Results, result)
			score.Total += result.Points + result.CaptainBonus
			continue
		}

		subID, rec, ok := findSubstitute(squad, pool, starterID, usedBench, played)
		if !ok {
			continue
		}
		usedBench[subID] = struct{}{}
		result := PlayerResult{
			PlayerID:      subID,
			Points:        rec.Points,
			SubstitutedIn: true,
			ReplacedID:    starterID,
		}
		score.Results = append(score.Results, result)
		score.Total += result.Points
	}

	return score
}

func findSubstitute(
	squad Squad,
	pool map[string]player.Player,
	starterID string,
	usedBench map[string]struct{},
	played func(string) (stats.GameweekStats, bool),
) (string, stats.GameweekStats, bool) {
	starter, ok := pool[starterID]
	if !ok {
		return "", stats.GameweekStats{}, false
	}

	for _, benchID := range squad.Bench {
		if _, used := usedBench[benchID]; used {
			continue
		}
		candidate, ok := pool[benchID]
		if !ok || candidate.Position != starter.Position {
			continue
		}
		if rec, ok := played(benchID); ok {
			return benchID, rec, true
		}
	}

	return "", stats.GameweekStats{}, false
}
