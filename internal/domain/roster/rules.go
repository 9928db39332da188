package roster

import (
	"errors"
	"fmt"

	"github.com/tryline/fantasy-rugby/internal/domain/player"
)

var (
	ErrInvalidSquadSize  = errors.New("invalid squad size")
	ErrDuplicatePlayer   = errors.New("duplicate player in squad")
	ErrCaptainNotStarter = errors.New("captain must be in the starting 13")
	ErrUnknownPosition   = errors.New("unknown player position")
	ErrPositionQuota     = errors.New("position quota not satisfied")
	ErrExceededBudget    = errors.New("budget exceeded")
	ErrExceededClubLimit = errors.New("max players from same club exceeded")
	ErrUnknownPlayer     = errors.New("unknown player in selection")
)

// Rules stores roster validation parameters.
type Rules struct {
	StarterCount        int
	BenchCount          int
	Budget              int64
	MaxPerClub          int
	MaxTransfersPerWeek int
	SlotQuota           map[player.Slot]int
}

func DefaultRules() Rules {
	return Rules{
		StarterCount:        StarterCount,
		BenchCount:          BenchCount,
		Budget:              2100,
		MaxPerClub:          3,
		MaxTransfersPerWeek: 2,
		SlotQuota: map[player.Slot]int{
			player.SlotFullBack:     1,
			player.SlotWinger:       2,
			player.SlotCentre:       2,
			player.SlotHalfBack:     2,
			player.SlotProp:         2,
			player.SlotHooker:       1,
			player.SlotSecondRow:    2,
			player.SlotLooseForward: 1,
		},
	}
}

// ValidateSelection validates a proposed starters/bench/captain selection
// against size, duplicate, captaincy, and position-quota rules, in that
// order, short-circuiting at the first failure. Budget and club-limit checks
// are deliberately not part of this contract; the save and transfer paths
// apply them separately.
func ValidateSelection(pool map[string]player.Player, starters, bench []string, captainID string, rules Rules) error {
	if len(starters) != rules.StarterCount {
		return fmt.Errorf("%w: must have %d starters, got %d", ErrInvalidSquadSize, rules.StarterCount, len(starters))
	}
	if len(bench) != rules.BenchCount {
		return fmt.Errorf("%w: must have %d bench players, got %d", ErrInvalidSquadSize, rules.BenchCount, len(bench))
	}

	seen := make(map[string]struct{}, len(starters)+len(bench))
	for _, id := range append(append([]string(nil), starters...), bench...) {
		if _, exists := seen[id]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, id)
		}
		seen[id] = struct{}{}
	}

	captainStarts := false
	for _, id := range starters {
		if id == captainID {
			captainStarts = true
			break
		}
	}
	if !captainStarts {
		return fmt.Errorf("%w: %s", ErrCaptainNotStarter, captainID)
	}

	slotCounts := make(map[player.Slot]int, len(rules.SlotQuota))
	for _, id := range starters {
		p, ok := pool[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
		}
		slot, ok := player.SlotForPosition(p.Position)
		if !ok {
			return fmt.Errorf("%w: player=%s position=%s", ErrUnknownPosition, id, p.Position)
		}
		slotCounts[slot]++
	}

	for slot, required := range rules.SlotQuota {
		if count := slotCounts[slot]; count != required {
			return fmt.Errorf("%w: need exactly %d %s, have %d", ErrPositionQuota, required, slot, count)
		}
	}

	return nil
}

// SelectionCost sums the listed prices of the given players. Every id must
// resolve in the pool.
func SelectionCost(pool map[string]player.Player, playerIDs []string) (int64, error) {
	var total int64
	for _, id := range playerIDs {
		p, ok := pool[id]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
		}
		total += p.Price
	}

	return total, nil
}

// ValidateBudget checks the full 17-player selection against the budget cap
// and returns the remaining bank.
func ValidateBudget(pool map[string]player.Player, playerIDs []string, budget int64) (int64, error) {
	total, err := SelectionCost(pool, playerIDs)
	if err != nil {
		return 0, err
	}
	if total > budget {
		return 0, fmt.Errorf("%w: cap=%d cost=%d", ErrExceededBudget, budget, total)
	}

	return budget - total, nil
}

// ValidateClubLimit rejects selections with more than maxPerClub players from
// any one club.
func ValidateClubLimit(pool map[string]player.Player, playerIDs []string, maxPerClub int) error {
	if maxPerClub <= 0 {
		return nil
	}

	perClub := make(map[string]int)
	for _, id := range playerIDs {
		p, ok := pool[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
		}
		perClub[p.Club]++
		if perClub[p.Club] > maxPerClub {
			return fmt.Errorf("%w: club=%s max=%d", ErrExceededClubLimit, p.Club, maxPerClub)
		}
	}

	return nil
}
