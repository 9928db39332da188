package transfer

import (
	"fmt"
	"time"
)

// Transfer is one completed swap: a squad player sold at its recorded
// purchase price and a replacement bought at its current listed price.
// Prices are in thousands, matching player prices.
type Transfer struct {
	ID          string
	UserID      string
	GameweekID  string
	PlayerOutID string
	PlayerInID  string
	SoldFor     int64
	BoughtFor   int64
	CreatedAt   time.Time
}

func (t Transfer) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("transfer id is required")
	}
	if t.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if t.GameweekID == "" {
		return fmt.Errorf("gameweek id is required")
	}
	if t.PlayerOutID == "" || t.PlayerInID == "" {
		return fmt.Errorf("both transfer sides are required")
	}
	if t.PlayerOutID == t.PlayerInID {
		return fmt.Errorf("cannot transfer a player for themselves")
	}

	return nil
}

// Ownership records the price a user paid for a player. Sales settle at this
// recorded price, not the current listing.
type Ownership struct {
	UserID        string
	PlayerID      string
	PurchasePrice int64
	AcquiredAt    time.Time
}
