package transfer

import (
	"context"

	"github.com/tryline/fantasy-rugby/internal/domain/roster"
)

// Application bundles every effect of one transfer. Implementations must
// apply all of it in a single transaction or none of it.
type Application struct {
	Record      Transfer
	Squad       roster.Squad
	RemoveOwner Ownership
	AddOwner    Ownership
}

// Repository describes transfer persistence.
type Repository interface {
	ApplyTransfer(ctx context.Context, app Application) error
	CountByUserAndGameweek(ctx context.Context, userID, gameweekID string) (int, error)
	ListByUser(ctx context.Context, userID string) ([]Transfer, error)
}

// OwnershipRepository tracks purchase prices per user and player.
type OwnershipRepository interface {
	Get(ctx context.Context, userID, playerID string) (Ownership, bool, error)
	ListByUser(ctx context.Context, userID string) ([]Ownership, error)
	Upsert(ctx context.Context, o Ownership) error
	Delete(ctx context.Context, userID, playerID string) error
}
