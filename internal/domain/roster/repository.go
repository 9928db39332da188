package roster

import "context"

// Repository describes squad persistence. Each user holds at most one squad;
// Upsert is keyed on the owning user.
type Repository interface {
	GetByID(ctx context.Context, id string) (Squad, bool, error)
	GetByUser(ctx context.Context, userID string) (Squad, bool, error)
	GetByUsers(ctx context.Context, userIDs []string) ([]Squad, error)
	List(ctx context.Context) ([]Squad, error)
	Upsert(ctx context.Context, squad Squad) error
	UpdatePoints(ctx context.Context, squadID string, gameweekPoints, totalPoints int) error
}

// ScoreRepository stores per-gameweek squad scores. Upsert is keyed on
// (squad, gameweek) so scoring reruns replace earlier results.
type ScoreRepository interface {
	UpsertScore(ctx context.Context, record ScoreRecord) error
	ListScoresBySquad(ctx context.Context, squadID string) ([]ScoreRecord, error)
	GetScore(ctx context.Context, squadID, gameweekID string) (ScoreRecord, bool, error)
}
