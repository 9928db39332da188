package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tryline/fantasy-rugby/internal/domain/roster"
)

type SquadRepository struct {
	mu       sync.RWMutex
	byID     map[string]roster.Squad
	byUserID map[string]string
}

func NewSquadRepository() *SquadRepository {
	return &SquadRepository{
		byID:     make(map[string]roster.Squad),
		byUserID: make(map[string]string),
	}
}

func (r *SquadRepository) GetByID(_ context.Context, id string) (roster.Squad, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	squad, ok := r.byID[id]
	return cloneSquad(squad), ok, nil
}

func (r *SquadRepository) GetByUser(_ context.Context, userID string) (roster.Squad, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUserID[userID]
	if !ok {
		return roster.Squad{}, false, nil
	}

	return cloneSquad(r.byID[id]), true, nil
}

func (r *SquadRepository) GetByUsers(_ context.Context, userIDs []string) ([]roster.Squad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Squad, 0, len(userIDs))
	for _, userID := range userIDs {
		if id, ok := r.byUserID[userID]; ok {
			out = append(out, cloneSquad(r.byID[id]))
		}
	}

	return out, nil
}

func (r *SquadRepository) List(_ context.Context) ([]roster.Squad, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Squad, 0, len(r.byID))
	for _, squad := range r.byID {
		out = append(out, cloneSquad(squad))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *SquadRepository) Upsert(_ context.Context, squad roster.Squad) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[squad.ID] = cloneSquad(squad)
	r.byUserID[squad.UserID] = squad.ID
	return nil
}

func (r *SquadRepository) UpdatePoints(_ context.Context, squadID string, gameweekPoints, totalPoints int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	squad, ok := r.byID[squadID]
	if !ok {
		return nil
	}
	squad.GameweekPoints = gameweekPoints
	squad.TotalPoints = totalPoints
	r.byID[squadID] = squad
	return nil
}

func cloneSquad(s roster.Squad) roster.Squad {
	s.Starters = append([]string(nil), s.Starters...)
	s.Bench = append([]string(nil), s.Bench...)
	return s
}

type scoreKey struct {
	squadID    string
	gameweekID string
}

type ScoreRepository struct {
	mu    sync.RWMutex
	items map[scoreKey]roster.ScoreRecord
}

func NewScoreRepository() *ScoreRepository {
	return &ScoreRepository{items: make(map[scoreKey]roster.ScoreRecord)}
}

func (r *ScoreRepository) UpsertScore(_ context.Context, record roster.ScoreRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[scoreKey{record.SquadID, record.GameweekID}] = record
	return nil
}

func (r *ScoreRepository) ListScoresBySquad(_ context.Context, squadID string) ([]roster.ScoreRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.ScoreRecord, 0)
	for key, rec := range r.items {
		if key.squadID == squadID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameweekID < out[j].GameweekID })

	return out, nil
}

func (r *ScoreRepository) GetScore(_ context.Context, squadID, gameweekID string) (roster.ScoreRecord, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.items[scoreKey{squadID, gameweekID}]
	return rec, ok, nil
}
