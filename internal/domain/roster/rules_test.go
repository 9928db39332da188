package roster

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tryline/fantasy-rugby/internal/domain/player"
)

// testPool builds 17 players forming a legal squad: starters s1..s13 covering
// every quota and bench b1..b4.
func testPool() (map[string]player.Player, []string, []string) {
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
	}

	pool := make(map[string]player.Player, len(specs))
	for i, s := range specs {
		pool[s.id] = player.Player{
			ID:       s.id,
			Name:     "Player " + s.id,
			Club:     fmt.Sprintf("Club %d", i%6),
			Position: s.position,
			Price:    100,
		}
	}

	starters := make([]string, 0, StarterCount)
	bench := make([]string, 0, BenchCount)
	for i, s := range specs {
		if i < StarterCount {
			starters = append(starters, s.id)
		} else {
			bench = append(bench, s.id)
		}
	}

	return pool, starters, bench
}

func TestValidateSelection(t *testing.T) {
	pool, starters, bench := testPool()
	rules := DefaultRules()

	t.Run("legal squad passes", func(t *testing.T) {
		if err := ValidateSelection(pool, starters, bench, "s1", rules); err != nil {
			t.Fatalf("expected valid selection, got %v", err)
		}
	})

	t.Run("wrong starter count", func(t *testing.T) {
		err := ValidateSelection(pool, starters[:12], bench, "s1", rules)
		if !errors.Is(err, ErrInvalidSquadSize) {
			t.Fatalf("expected ErrInvalidSquadSize, got %v", err)
		}
	})

	t.Run("wrong bench count", func(t *testing.T) {
		err := ValidateSelection(pool, starters, bench[:3], "s1", rules)
		if !errors.Is(err, ErrInvalidSquadSize) {
			t.Fatalf("expected ErrInvalidSquadSize, got %v", err)
		}
	})

	t.Run("duplicate across starters and bench", func(t *testing.T) {
		dupBench := append([]string{}, bench...)
		dupBench[0] = starters[0]
		err := ValidateSelection(pool, starters, dupBench, "s1", rules)
		if !errors.Is(err, ErrDuplicatePlayer) {
			t.Fatalf("expected ErrDuplicatePlayer, got %v", err)
		}
	})

	t.Run("captain on bench rejected", func(t *testing.T) {
		err := ValidateSelection(pool, starters, bench, "b1", rules)
		if !errors.Is(err, ErrCaptainNotStarter) {
			t.Fatalf("expected ErrCaptainNotStarter, got %v", err)
		}
	})

	t.Run("quota violation", func(t *testing.T) {
		// Second full back in place of the loose forward.
		pool2 := make(map[string]player.Player, len(pool))
		for k, v := range pool {
			pool2[k] = v
		}
		p := pool2["s13"]
		p.Position = player.PositionFullBack
		pool2["s13"] = p

		err := ValidateSelection(pool2, starters, bench, "s1", rules)
		if !errors.Is(err, ErrPositionQuota) {
			t.Fatalf("expected ErrPositionQuota, got %v", err)
		}
	})

	t.Run("stand off and scrum half fill the same quota", func(t *testing.T) {
		// Two scrum halves and zero stand offs is still a legal pairing.
		pool2 := make(map[string]player.Player, len(pool))
		for k, v := range pool {
			pool2[k] = v
		}
		p := pool2["s6"]
		p.Position = player.PositionScrumHalf
		pool2["s6"] = p

		if err := ValidateSelection(pool2, starters, bench, "s1", rules); err != nil {
			t.Fatalf("expected half back pair to validate, got %v", err)
		}
	})

	t.Run("unknown player in selection", func(t *testing.T) {
		badStarters := append([]string{}, starters...)
		badStarters[4] = "ghost"
		err := ValidateSelection(pool, badStarters, bench, "s1", rules)
		if !errors.Is(err, ErrUnknownPlayer) {
			t.Fatalf("expected ErrUnknownPlayer, got %v", err)
		}
	})
}

func TestValidateBudget(t *testing.T) {
	pool, starters, bench := testPool()
	all := append(append([]string{}, starters...), bench...)

	t.Run("under budget returns remaining bank", func(t *testing.T) {
		bank, err := ValidateBudget(pool, all, 2100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if bank != 2100-17*100 {
			t.Fatalf("expected bank %d, got %d", 2100-17*100, bank)
		}
	})

	t.Run("over budget rejected", func(t *testing.T) {
		if _, err := ValidateBudget(pool, all, 1600); !errors.Is(err, ErrExceededBudget) {
			t.Fatalf("expected ErrExceededBudget, got %v", err)
		}
	})
}

func TestValidateClubLimit(t *testing.T) {
	pool, starters, bench := testPool()
	all := append(append([]string{}, starters...), bench...)

	if err := ValidateClubLimit(pool, all, 3); err != nil {
		t.Fatalf("expected spread squad to pass, got %v", err)
	}

	// Force four players into one club.
	pool2 := make(map[string]player.Player, len(pool))
	for k, v := range pool {
		pool2[k] = v
	}
	for _, id := range []string{"s1", "s2", "s3", "s4"} {
		p := pool2[id]
		p.Club = "Stacked"
		pool2[id] = p
	}
	if err := ValidateClubLimit(pool2, all, 3); !errors.Is(err, ErrExceededClubLimit) {
		t.Fatalf("expected ErrExceededClubLimit, got %v", err)
	}
}
