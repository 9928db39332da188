package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tryline/fantasy-rugby/internal/domain/transfer"
)

// TransferRepository also applies transfer effects against the sibling squad
// and ownership repositories, mirroring the single-transaction guarantee of
// the SQL implementation.
type TransferRepository struct {
	mu        sync.RWMutex
	items     []transfer.Transfer
	squads    *SquadRepository
	ownership *OwnershipRepository
}

func NewTransferRepository(squads *SquadRepository, ownership *OwnershipRepository) *TransferRepository {
	return &TransferRepository{squads: squads, ownership: ownership}
}

func (r *TransferRepository) ApplyTransfer(ctx context.Context, app transfer.Application) error {
	r.mu.Lock()
	r.items = append(r.items, app.Record)
	r.mu.Unlock()

	if err := r.squads.Upsert(ctx, app.Squad); err != nil {
		return err
	}
	if err := r.ownership.Delete(ctx, app.RemoveOwner.UserID, app.RemoveOwner.PlayerID); err != nil {
		return err
	}

	return r.ownership.Upsert(ctx, app.AddOwner)
}

func (r *TransferRepository) CountByUserAndGameweek(_ context.Context, userID, gameweekID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, t := range r.items {
		if t.UserID == userID && t.GameweekID == gameweekID {
			count++
		}
	}

	return count, nil
}

func (r *TransferRepository) ListByUser(_ context.Context, userID string) ([]transfer.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]transfer.Transfer, 0)
	for _, t := range r.items {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

type ownershipKey struct {
	userID   string
	playerID string
}

type OwnershipRepository struct {
	mu    sync.RWMutex
	items map[ownershipKey]transfer.Ownership
}

func NewOwnershipRepository() *OwnershipRepository {
	return &OwnershipRepository{items: make(map[ownershipKey]transfer.Ownership)}
}

func (r *OwnershipRepository) Get(_ context.Context, userID, playerID string) (transfer.Ownership, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.items[ownershipKey{userID, playerID}]
	return o, ok, nil
}

func (r *OwnershipRepository) ListByUser(_ context.Context, userID string) ([]transfer.Ownership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]transfer.Ownership, 0)
	for key, o := range r.items {
		if key.userID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })

	return out, nil
}

func (r *OwnershipRepository) Upsert(_ context.Context, o transfer.Ownership) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[ownershipKey{o.UserID, o.PlayerID}] = o
	return nil
}

func (r *OwnershipRepository) Delete(_ context.Context, userID, playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, ownershipKey{userID, playerID})
	return nil
}
