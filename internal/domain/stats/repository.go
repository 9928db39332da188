package stats

import "context"

// Repository describes raw gameweek stat persistence. Upsert is keyed on
// (player, gameweek).
type Repository interface {
	Upsert(ctx context.Context, record GameweekStats) error
	GetByPlayerAndGameweek(ctx context.Context, playerID, gameweekID string) (GameweekStats, bool, error)
	ListByGameweek(ctx context.Context, gameweekID string) ([]GameweekStats, error)
	SumPointsByPlayer(ctx context.Context, playerID string) (int, error)
}

// RuleRepository describes the admin-mutable scoring table.
type RuleRepository interface {
	ListRules(ctx context.Context) ([]ScoringRule, error)
	UpdateRules(ctx context.Context, rules []ScoringRule) error
}
