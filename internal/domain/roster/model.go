package roster

import (
	"fmt"
	"time"
)

const (
	// StarterCount is the number of starting slots in a squad.
	StarterCount = 13
	// BenchCount is the number of bench slots in a squad.
	BenchCount = 4
	// SquadSize is the total roster size.
	SquadSize = StarterCount + BenchCount
)

// Squad is one user's persistent roster: an ordered starting 13, an ordered
// bench of 4, and a captain drawn from the starters. Transfers mutate it in
// place between rounds. Bank and team value are in the same thousands unit
// as player prices.
type Squad struct {
	ID        string
	UserID    string
	Name      string
	Starters  []string
	Bench     []string
	CaptainID string

	Bank           int64
	TeamValue      int64
	GameweekPoints int
	TotalPoints    int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s Squad) ValidateBasic() error {
	if s.ID == "" {
		return fmt.Errorf("squad id is required")
	}
	if s.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if len(s.Starters) != StarterCount {
		return fmt.Errorf("squad must have %d starters, got %d", StarterCount, len(s.Starters))
	}
	if len(s.Bench) != BenchCount {
		return fmt.Errorf("squad must have %d bench players, got %d", BenchCount, len(s.Bench))
	}
	if s.CaptainID == "" {
		return fmt.Errorf("captain id is required")
	}
	if s.Bank < 0 {
		return fmt.Errorf("bank must not be negative")
	}

	return nil
}

// AllPlayerIDs returns starters followed by bench, preserving slot order.
func (s Squad) AllPlayerIDs() []string {
	out := make([]string, 0, len(s.Starters)+len(s.Bench))
	out = append(out, s.Starters...)
	out = append(out, s.Bench...)

	return out
}

// Contains reports whether the player occupies any of the 17 slots.
func (s Squad) Contains(playerID string) bool {
	for _, id := range s.AllPlayerIDs() {
		if id == playerID {
			return true
		}
	}

	return false
}

// ReplacePlayer swaps outID for inID in whichever starter or bench slot holds
// it and reports whether a slot was found.
func (s *Squad) ReplacePlayer(outID, inID string) bool {
	for i, id := range s.Starters {
		if id == outID {
			s.Starters[i] = inID
			return true
		}
	}
	for i, id := range s.Bench {
		if id == outID {
			s.Bench[i] = inID
			return true
		}
	}

	return false
}

// ScoreRecord is a squad's settled points for one gameweek. Re-running a
// scoring pass overwrites the record rather than stacking on top of it.
type ScoreRecord struct {
	SquadID    string
	GameweekID string
	Points     int
	ScoredAt   time.Time
}
