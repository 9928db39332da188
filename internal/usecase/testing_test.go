package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/tryline/fantasy-rugby/internal/domain/gameweek"
	"github.com/tryline/fantasy-rugby/internal/domain/player"
	"github.com/tryline/fantasy-rugby/internal/domain/roster"
	"github.com/tryline/fantasy-rugby/internal/domain/stats"
	"github.com/tryline/fantasy-rugby/internal/infrastructure/repository/memory"
	idgen "github.com/tryline/fantasy-rugby/internal/platform/id"
)

type fixture struct {
	players   *memory.PlayerRepository
	gameweeks *memory.GameweekRepository
	squads    *memory.SquadRepository
	scores    *memory.ScoreRepository
	stats     *memory.StatsRepository
	rules     *memory.RuleRepository
	transfers *memory.TransferRepository
	ownership *memory.OwnershipRepository
	leagues   *memory.LeagueRepository

	rosterSvc   *RosterService
	transferSvc *TransferService
	scoringSvc  *ScoringService
	ingestSvc   *IngestionService
	gameweekSvc *GameweekService
	playerSvc   *PlayerService
	leagueSvc   *LeagueService
}

// newFixture wires every service against in-memory repositories, seeded with
// a player pool of s1..s13 starters and b1..b4 bench cover at 100 each, and
// gameweeks gw-0 (pre-season, current) through gw-2.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		players: memory.NewPlayerRepository(fixturePlayers()),
		gameweeks: memory.NewGameweekRepository([]gameweek.Gameweek{
			{ID: "gw-0", Round: gameweek.PreSeasonRound, IsCurrent: true},
			{ID: "gw-1", Round: 1, Deadline: time.Date(2026, 2, 12, 19, 30, 0, 0, time.UTC)},
			{ID: "gw-2", Round: 2, Deadline: time.Date(2026, 2, 19, 19, 30, 0, 0, time.UTC)},
		}),
		squads:    memory.NewSquadRepository(),
		scores:    memory.NewScoreRepository(),
		stats:     memory.NewStatsRepository(),
		rules:     memory.NewRuleRepository(stats.DefaultScoringRules()),
		ownership: memory.NewOwnershipRepository(),
		leagues:   memory.NewLeagueRepository(),
	}
	f.transfers = memory.NewTransferRepository(f.squads, f.ownership)

	gen := idgen.NewRandomGenerator()
	logger := slog.New(slog.DiscardHandler)
	rules := roster.DefaultRules()

	f.rosterSvc = NewRosterService(f.players, f.squads, f.gameweeks, f.ownership, rules, gen, logger)
	f.transferSvc = NewTransferService(f.players, f.squads, f.gameweeks, f.transfers, f.ownership, rules, gen, logger)
	// Pin the clock before every seeded deadline so transfers stay open
	// unless a test moves it.
	f.transferSvc.now = func() time.Time { return time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC) }
	f.scoringSvc = NewScoringService(f.players, f.squads, f.scores, f.stats, f.rules, f.gameweeks, logger)
	f.ingestSvc = NewIngestionService(f.players, f.stats, f.rules, f.gameweeks, nil, logger)
	f.gameweekSvc = NewGameweekService(f.gameweeks, gen, nil, logger)
	f.playerSvc = NewPlayerService(f.players, logger)
	f.leagueSvc = NewLeagueService(f.leagues, f.squads, gen, logger)

	return f
}

func fixturePlayers() []player.Player {
	specs := []struct {
		id       string
		position player.Position
	}{
		{"s1", player.PositionFullBack},
		{"s2", player.PositionWinger},
		{"s3", player.PositionWinger},
		{"s4", player.PositionCentre},
		{"s5", player.PositionCentre},
		{"s6", player.PositionStandOff},
		{"s7", player.PositionScrumHalf},
		{"s8", player.PositionProp},
		{"s9", player.PositionProp},
		{"s10", player.PositionHooker},
		{"s11", player.PositionSecondRow},
		{"s12", player.PositionSecondRow},
		{"s13", player.PositionLooseForward},
		{"b1", player.PositionWinger},
		{"b2", player.PositionProp},
		{"b3", player.PositionHooker},
		{"b4", player.PositionScrumHalf},
		// Spare pool for transfers.
		{"x-winger", player.PositionWinger},
		{"x-scrumhalf", player.PositionScrumHalf},
		{"x-standoff", player.PositionStandOff},
		{"x-prop", player.PositionProp},
		{"x-fullback", player.PositionFullBack},
	}

	out := make([]player.Player, 0, len(specs))
	for i, s := range specs {
		out = append(out, player.Player{
			ID:       s.id,
			Name:     "Player " + s.id,
			Club:     fmt.Sprintf("Club %d", i%8),
			Position: s.position,
			Price:    100,
		})
	}

	return out
}

func defaultSaveInput(userID string) SaveSquadInput {
	return SaveSquadInput{
		UserID:    userID,
		Name:      "Try Hards",
		Starters:  []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11", "s12", "s13"},
		Bench:     []string{"b1", "b2", "b3", "b4"},
		CaptainID: "s1",
	}
}

// startSeason moves the current marker from pre-season to round 1.
func (f *fixture) startSeason(t *testing.T) {
	t.Helper()
	if err := f.gameweeks.SetCurrent(context.Background(), "gw-1"); err != nil {
		t.Fatalf("set current gameweek: %v", err)
	}
}

// saveSquad creates a squad during pre-season and fails the test on error.
func (f *fixture) saveSquad(t *testing.T, userID string) roster.Squad {
	t.Helper()
	squad, err := f.rosterSvc.SaveSquad(context.Background(), defaultSaveInput(userID))
	if err != nil {
		t.Fatalf("save squad: %v", err)
	}
	return squad
}

// playedStats returns a minimal played stat row worth a known number of
// points: each try is worth 4 under the default table.
func playedStats(playerID, gameweekID string, tries int) stats.GameweekStats {
	return stats.GameweekStats{
		PlayerID:   playerID,
		GameweekID: gameweekID,
		Played:     true,
		Tries:      tries,
	}
}
