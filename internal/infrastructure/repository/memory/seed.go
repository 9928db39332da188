package memory

import (
	"time"

	"github.com/tryline/fantasy-rugby/internal/domain/gameweek"
	"github.com/tryline/fantasy-rugby/internal/domain/player"
	"github.com/tryline/fantasy-rugby/internal/domain/stats"
)

// Fictional player pool spread over real Super League clubs, deep enough to
// fill every starting quota with bench cover left over.
func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "wig-fb-01", Name: "Jack Mercer", Club: "Wigan", Position: player.PositionFullBack, Price: 250},
		{ID: "sth-fb-01", Name: "Lewis Crowther", Club: "St Helens", Position: player.PositionFullBack, Price: 230},
		{ID: "lee-fb-01", Name: "Callum Drake", Club: "Leeds", Position: player.PositionFullBack, Price: 180},

		{ID: "wig-wg-01", Name: "Tommy Ashworth", Club: "Wigan", Position: player.PositionWinger, Price: 210},
		{ID: "wig-wg-02", Name: "Ryan Fairhurst", Club: "Wigan", Position: player.PositionWinger, Price: 160},
		{ID: "sth-wg-01", Name: "Dom Kettleworth", Club: "St Helens", Position: player.PositionWinger, Price: 200},
		{ID: "lee-wg-01", Name: "Archie Summerfield", Club: "Leeds", Position: player.PositionWinger, Price: 150},
		{ID: "hul-wg-01", Name: "Ben Oakden", Club: "Hull FC", Position: player.PositionWinger, Price: 120},

		{ID: "wig-ce-01", Name: "Harvey Ackers", Club: "Wigan", Position: player.PositionCentre, Price: 190},
		{ID: "sth-ce-01", Name: "Joel Brampton", Club: "St Helens", Position: player.PositionCentre, Price: 185},
		{ID: "lee-ce-01", Name: "Nathan Whitlow", Club: "Leeds", Position: player.PositionCentre, Price: 140},
		{ID: "war-ce-01", Name: "George Pemberton", Club: "Warrington", Position: player.PositionCentre, Price: 130},

		{ID: "wig-so-01", Name: "Danny Hargreave", Club: "Wigan", Position: player.PositionStandOff, Price: 240},
		{ID: "lee-so-01", Name: "Finn Calderbank", Club: "Leeds", Position: player.PositionStandOff, Price: 170},
		{ID: "sth-sh-01", Name: "Morgan Tindall", Club: "St Helens", Position: player.PositionScrumHalf, Price: 235},
		{ID: "war-sh-01", Name: "Ellis Grindrod", Club: "Warrington", Position: player.PositionScrumHalf, Price: 165},

		{ID: "wig-pr-01", Name: "Sam Heaton", Club: "Wigan", Position: player.PositionProp, Price: 150},
		{ID: "sth-pr-01", Name: "Luke Garside", Club: "St Helens", Position: player.PositionProp, Price: 145},
		{ID: "lee-pr-01", Name: "Owen Thackray", Club: "Leeds", Position: player.PositionProp, Price: 110},
		{ID: "hul-pr-01", Name: "Jake Ramsbottom", Club: "Hull FC", Position: player.PositionProp, Price: 100},

		{ID: "wig-hk-01", Name: "Charlie Boden", Club: "Wigan", Position: player.PositionHooker, Price: 160},
		{ID: "sth-hk-01", Name: "Max Eastwood", Club: "St Helens", Position: player.PositionHooker, Price: 155},
		{ID: "war-hk-01", Name: "Reece Lathom", Club: "Warrington", Position: player.PositionHooker, Price: 115},

		{ID: "wig-sr-01", Name: "Liam Cartwright", Club: "Wigan", Position: player.PositionSecondRow, Price: 140},
		{ID: "sth-sr-01", Name: "Toby Arkwright", Club: "St Helens", Position: player.PositionSecondRow, Price: 135},
		{ID: "lee-sr-01", Name: "Harry Bickerstaff", Club: "Leeds", Position: player.PositionSecondRow, Price: 125},
		{ID: "hul-sr-01", Name: "Aidan Cresswell", Club: "Hull FC", Position: player.PositionSecondRow, Price: 105},

		{ID: "wig-lf-01", Name: "Josh Radcliffe", Club: "Wigan", Position: player.PositionLooseForward, Price: 175},
		{ID: "sth-lf-01", Name: "Kai Worsley", Club: "St Helens", Position: player.PositionLooseForward, Price: 170},
		{ID: "war-lf-01", Name: "Dylan Hartshorn", Club: "Warrington", Position: player.PositionLooseForward, Price: 120},
	}
}

func SeedGameweeks() []gameweek.Gameweek {
	base := time.Date(2026, 2, 12, 19, 30, 0, 0, time.UTC)
	out := []gameweek.Gameweek{
		{ID: "gw-0", Round: gameweek.PreSeasonRound, IsCurrent: true, CreatedAt: base.AddDate(0, -1, 0)},
	}
	for round := 1; round <= 4; round++ {
		out = append(out, gameweek.Gameweek{
			ID:        "gw-" + string(rune('0'+round)),
			Round:     round,
			Deadline:  base.AddDate(0, 0, 7*(round-1)),
			CreatedAt: base.AddDate(0, -1, 0),
		})
	}

	return out
}

func SeedScoringRules() []stats.ScoringRule {
	return stats.DefaultScoringRules()
}
