package player

import "context"

// ListFilter narrows and pages the player pool listing.
type ListFilter struct {
	Club     string
	Position Position
	Page     int
	PageSize int
}

// Repository describes player persistence needs from use cases.
type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]Player, int, error)
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	GetByIDs(ctx context.Context, playerIDs []string) ([]Player, error)
	UpdatePrice(ctx context.Context, playerID string, price int64) error
	UpdateTotalPoints(ctx context.Context, playerID string, totalPoints int) error
}
