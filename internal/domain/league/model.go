package league

import (
	"fmt"
	"time"
)

// CodeLength is the invite code length for private leagues.
const CodeLength = 8

// League is a private mini-league users join by invite code.
type League struct {
	ID         string
	Name       string
	InviteCode string
	CreatorID  string
	CreatedAt  time.Time
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if len(l.InviteCode) != CodeLength {
		return fmt.Errorf("invite code must be %d characters, got %d", CodeLength, len(l.InviteCode))
	}
	if l.CreatorID == "" {
		return fmt.Errorf("creator id is required")
	}

	return nil
}

// Membership links a user to a league.
type Membership struct {
	LeagueID string
	UserID   string
	JoinedAt time.Time
}

// Standing is one row of a league table. Members with equal points share a
// rank.
type Standing struct {
	Rank        int
	UserID      string
	SquadName   string
	TotalPoints int
}
