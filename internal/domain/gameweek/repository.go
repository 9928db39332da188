package gameweek

import "context"

// Repository describes gameweek persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Gameweek, error)
	GetByID(ctx context.Context, gameweekID string) (Gameweek, bool, error)
	GetCurrent(ctx context.Context) (Gameweek, bool, error)
	Create(ctx context.Context, gw Gameweek) error
	// SetCurrent clears every current flag and sets the given gameweek as
	// current in one atomic operation.
	SetCurrent(ctx context.Context, gameweekID string) error
	MarkFinished(ctx context.Context, gameweekID string) error
}
