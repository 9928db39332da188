package memory

import (
	"context"
	"sync"

	"github.com/tryline/fantasy-rugby/internal/domain/stats"
)

type statsKey struct {
	playerID   string
	gameweekID string
}

type StatsRepository struct {
	mu    sync.RWMutex
	items map[statsKey]stats.GameweekStats
}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{items: make(map[statsKey]stats.GameweekStats)}
}

func (r *StatsRepository) Upsert(_ context.Context, record stats.GameweekStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[statsKey{record.PlayerID, record.GameweekID}] = record
	return nil
}

func (r *StatsRepository) GetByPlayerAndGameweek(_ context.Context, playerID, gameweekID string) (stats.GameweekStats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.items[statsKey{playerID, gameweekID}]
	return rec, ok, nil
}

func (r *StatsRepository) ListByGameweek(_ context.Context, gameweekID string) ([]stats.GameweekStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stats.GameweekStats, 0)
	for key, rec := range r.items {
		if key.gameweekID == gameweekID {
			out = append(out, rec)
		}
	}

	return out, nil
}

func (r *StatsRepository) SumPointsByPlayer(_ context.Context, playerID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for key, rec := range r.items {
		if key.playerID == playerID {
			total += rec.Points
		}
	}

	return total, nil
}

type RuleRepository struct {
	mu    sync.RWMutex
	rules map[string]stats.ScoringRule
}

func NewRuleRepository(rules []stats.ScoringRule) *RuleRepository {
	items := make(map[string]stats.ScoringRule, len(rules))
	for _, rule := range rules {
		items[rule.StatName] = rule
	}

	return &RuleRepository{rules: items}
}

func (r *RuleRepository) ListRules(_ context.Context) ([]stats.ScoringRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stats.ScoringRule, 0, len(r.rules))
	for _, name := range stats.AllStatNames {
		if rule, ok := r.rules[name]; ok {
			out = append(out, rule)
		}
	}

	return out, nil
}

func (r *RuleRepository) UpdateRules(_ context.Context, rules []stats.ScoringRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rule := range rules {
		r.rules[rule.StatName] = rule
	}

	return nil
}
