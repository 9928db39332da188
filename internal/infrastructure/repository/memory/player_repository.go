package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tryline/fantasy-rugby/internal/domain/player"
)

type PlayerRepository struct {
	mu    sync.RWMutex
	items map[string]player.Player
	order []string
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	items := make(map[string]player.Player, len(players))
	order := make([]string, 0, len(players))
	for _, p := range players {
		items[p.ID] = p
		order = append(order, p.ID)
	}

	return &PlayerRepository{items: items, order: order}
}

func (r *PlayerRepository) List(_ context.Context, filter player.ListFilter) ([]player.Player, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]player.Player, 0, len(r.order))
	for _, id := range r.order {
		p := r.items[id]
		if filter.Club != "" && p.Club != filter.Club {
			continue
		}
		if filter.Position != "" && p.Position != filter.Position {
			continue
		}
		matched = append(matched, p)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := len(matched)
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 {
		size = total
	}

	start := (page - 1) * size
	if start >= total {
		return []player.Player{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}

	return append([]player.Player(nil), matched[start:end]...), total, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[playerID]
	return p, ok, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		if p, ok := r.items[id]; ok {
			out = append(out, p)
		}
	}

	return out, nil
}

func (r *PlayerRepository) UpdatePrice(_ context.Context, playerID string, price int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[playerID]
	if !ok {
		return nil
	}
	p.Price = price
	r.items[playerID] = p
	return nil
}

func (r *PlayerRepository) UpdateTotalPoints(_ context.Context, playerID string, totalPoints int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[playerID]
	if !ok {
		return nil
	}
	p.TotalPoints = totalPoints
	r.items[playerID] = p
	return nil
}
