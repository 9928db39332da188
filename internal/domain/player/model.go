package player

import "fmt"

// Listed price bounds, in thousands.
const (
	MinPrice int64 = 10
	MaxPrice int64 = 500
)

// Player is a selectable athlete in the game pool. Identity is immutable;
// price and total points are mutated by admin actions and scoring runs.
type Player struct {
	ID          string
	Name        string
	Club        string
	Position    Position
	Price       int64 // thousands
	TotalPoints int
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Club == "" {
		return fmt.Errorf("player club is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.Price <= 0 {
		return fmt.Errorf("player price must be greater than zero")
	}

	return nil
}
