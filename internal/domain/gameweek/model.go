package gameweek

import (
	"fmt"
	"time"
)

// PreSeasonRound is the round number with unlimited transfers and no deadline
// enforcement.
const PreSeasonRound = 0

// Gameweek is one scored round of the season. At most one gameweek may be
// current at a time; the repository's SetCurrent enforces that atomically.
type Gameweek struct {
	ID         string
	Round      int
	Deadline   time.Time
	IsCurrent  bool
	IsFinished bool
	CreatedAt  time.Time
}

func (g Gameweek) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("gameweek id is required")
	}
	if g.Round < 0 {
		return fmt.Errorf("gameweek round must not be negative")
	}
	if g.Deadline.IsZero() {
		return fmt.Errorf("gameweek deadline is required")
	}

	return nil
}

// IsPreSeason reports whether the gameweek is the unlimited-transfer round.
func (g Gameweek) IsPreSeason() bool {
	return g.Round == PreSeasonRound
}

// DeadlinePassed reports whether the transfer deadline is behind now.
// Pre-season has no deadline.
func (g Gameweek) DeadlinePassed(now time.Time) bool {
	if g.IsPreSeason() {
		return false
	}

	return now.After(g.Deadline)
}
