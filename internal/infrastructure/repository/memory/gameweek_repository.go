package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tryline/fantasy-rugby/internal/domain/gameweek"
)

type GameweekRepository struct {
	mu    sync.RWMutex
	items map[string]gameweek.Gameweek
}

func NewGameweekRepository(gameweeks []gameweek.Gameweek) *GameweekRepository {
	items := make(map[string]gameweek.Gameweek, len(gameweeks))
	for _, gw := range gameweeks {
		items[gw.ID] = gw
	}

	return &GameweekRepository{items: items}
}

func (r *GameweekRepository) List(_ context.Context) ([]gameweek.Gameweek, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gameweek.Gameweek, 0, len(r.items))
	for _, gw := range r.items {
		out = append(out, gw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Round < out[j].Round })

	return out, nil
}

func (r *GameweekRepository) GetByID(_ context.Context, gameweekID string) (gameweek.Gameweek, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gw, ok := r.items[gameweekID]
	return gw, ok, nil
}

func (r *GameweekRepository) GetCurrent(_ context.Context) (gameweek.Gameweek, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, gw := range r.items {
		if gw.IsCurrent {
			return gw, true, nil
		}
	}

	return gameweek.Gameweek{}, false, nil
}

func (r *GameweekRepository) Create(_ context.Context, gw gameweek.Gameweek) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[gw.ID] = gw
	return nil
}

func (r *GameweekRepository) SetCurrent(_ context.Context, gameweekID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, gw := range r.items {
		gw.IsCurrent = id == gameweekID
		r.items[id] = gw
	}

	return nil
}

func (r *GameweekRepository) MarkFinished(_ context.Context, gameweekID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	gw, ok := r.items[gameweekID]
	if !ok {
		return nil
	}
	gw.IsFinished = true
	r.items[gameweekID] = gw
	return nil
}
