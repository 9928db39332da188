package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/tryline/fantasy-rugby/internal/domain/roster"
)

type SquadRepository struct {
	db *sqlx.DB
}

func NewSquadRepository(db *sqlx.DB) *SquadRepository {
	return &SquadRepository{db: db}
}

type squadTableModel struct {
	PublicID       string         `db:"public_id"`
	UserID         string         `db:"user_id"`
	Name           string         `db:"name"`
	Starters       pq.StringArray `db:"starters"`
	Bench          pq.StringArray `db:"bench"`
	CaptainID      string         `db:"captain_id"`
	Bank           int64          `db:"bank"`
	TeamValue      int64          `db:"team_value"`
	GameweekPoints int            `db:"gameweek_points"`
	TotalPoints    int            `db:"total_points"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (m squadTableModel) toDomain() roster.Squad {
	return roster.Squad{
		ID:             m.PublicID,
		UserID:         m.UserID,
		Name:           m.Name,
		Starters:       []string(m.Starters),
		Bench:          []string(m.Bench),
		CaptainID:      m.CaptainID,
		Bank:           m.Bank,
		TeamValue:      m.TeamValue,
		GameweekPoints: m.GameweekPoints,
		TotalPoints:    m.TotalPoints,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

const squadSelect = `
SELECT public_id, user_id, name, starters, bench, captain_id,
       bank, team_value, gameweek_points, total_points, created_at, updated_at
FROM squads`

func (r *SquadRepository) GetByID(ctx context.Context, id string) (roster.Squad, bool, error) {
	var row squadTableModel
	if err := r.db.GetContext(ctx, &row, squadSelect+" WHERE public_id = $1", id); err != nil {
		if isNotFound(err) {
			return roster.Squad{}, false, nil
		}
		return roster.Squad{}, false, fmt.Errorf("get squad: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *SquadRepository) GetByUser(ctx context.Context, userID string) (roster.Squad, bool, error) {
	var row squadTableModel
	if err := r.db.GetContext(ctx, &row, squadSelect+" WHERE user_id = $1", userID); err != nil {
		if isNotFound(err) {
			return roster.Squad{}, false, nil
		}
		return roster.Squad{}, false, fmt.Errorf("get squad by user: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *SquadRepository) GetByUsers(ctx context.Context, userIDs []string) ([]roster.Squad, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var rows []squadTableModel
	err := r.db.SelectContext(ctx, &rows,
		squadSelect+" WHERE user_id = ANY($1) ORDER BY public_id", pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("select squads by users: %w", err)
	}

	out := make([]roster.Squad, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *SquadRepository) List(ctx context.Context) ([]roster.Squad, error) {
	var rows []squadTableModel
	if err := r.db.SelectContext(ctx, &rows, squadSelect+" ORDER BY public_id"); err != nil {
		return nil, fmt.Errorf("select squads: %w", err)
	}

	out := make([]roster.Squad, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *SquadRepository) Upsert(ctx context.Context, squad roster.Squad) error {
	const query = `
INSERT INTO squads (public_id, user_id, name, starters, bench, captain_id,
                    bank, team_value, gameweek_points, total_points)
VALUES (:public_id, :user_id, :name, :starters, :bench, :captain_id,
        :bank, :team_value, :gameweek_points, :total_points)
ON CONFLICT (user_id) DO UPDATE SET
	name = EXCLUDED.name,
	starters = EXCLUDED.starters,
	bench = EXCLUDED.bench,
	captain_id = EXCLUDED.captain_id,
	bank = EXCLUDED.bank,
	team_value = EXCLUDED.team_value,
	gameweek_points = EXCLUDED.gameweek_points,
	total_points = EXCLUDED.total_points,
	updated_at = NOW()`

	model := squadTableModel{
		PublicID:       squad.ID,
		UserID:         squad.UserID,
		Name:           squad.Name,
		Starters:       pq.StringArray(squad.Starters),
		Bench:          pq.StringArray(squad.Bench),
		CaptainID:      squad.CaptainID,
		Bank:           squad.Bank,
		TeamValue:      squad.TeamValue,
		GameweekPoints: squad.GameweekPoints,
		TotalPoints:    squad.TotalPoints,
	}

	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("upsert squad: %w", err)
	}

	return nil
}

func (r *SquadRepository) UpdatePoints(ctx context.Context, squadID string, gameweekPoints, totalPoints int) error {
	const query = `
UPDATE squads
SET gameweek_points = $1, total_points = $2, updated_at = NOW()
WHERE public_id = $3`

	if _, err := r.db.ExecContext(ctx, query, gameweekPoints, totalPoints, squadID); err != nil {
		return fmt.Errorf("update squad points: %w", err)
	}

	return nil
}

// SquadScoreRepository stores the settled per-gameweek scores that squad
// totals are recomputed from.
type SquadScoreRepository struct {
	db *sqlx.DB
}

func NewSquadScoreRepository(db *sqlx.DB) *SquadScoreRepository {
	return &SquadScoreRepository{db: db}
}

type squadScoreTableModel struct {
	SquadID    string    `db:"squad_public_id"`
	GameweekID string    `db:"gameweek_public_id"`
	Points     int       `db:"points"`
	ScoredAt   time.Time `db:"scored_at"`
}

func (m squadScoreTableModel) toDomain() roster.ScoreRecord {
	return roster.ScoreRecord{
		SquadID:    m.SquadID,
		GameweekID: m.GameweekID,
		Points:     m.Points,
		ScoredAt:   m.ScoredAt,
	}
}

func (r *SquadScoreRepository) UpsertScore(ctx context.Context, record roster.ScoreRecord) error {
	const query = `
INSERT INTO squad_scores (squad_public_id, gameweek_public_id, points, scored_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (squad_public_id, gameweek_public_id) DO UPDATE SET
	points = EXCLUDED.points,
	scored_at = EXCLUDED.scored_at`

	scoredAt := record.ScoredAt
	if scoredAt.IsZero() {
		scoredAt = time.Now().UTC()
	}

	if _, err := r.db.ExecContext(ctx, query, record.SquadID, record.GameweekID, record.Points, scoredAt); err != nil {
		return fmt.Errorf("upsert squad score: %w", err)
	}

	return nil
}

func (r *SquadScoreRepository) ListScoresBySquad(ctx context.Context, squadID string) ([]roster.ScoreRecord, error) {
	const query = `
SELECT squad_public_id, gameweek_public_id, points, scored_at
FROM squad_scores
WHERE squad_public_id = $1
ORDER BY gameweek_public_id`

	var rows []squadScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, squadID); err != nil {
		return nil, fmt.Errorf("select squad scores: %w", err)
	}

	out := make([]roster.ScoreRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *SquadScoreRepository) GetScore(ctx context.Context, squadID, gameweekID string) (roster.ScoreRecord, bool, error) {
	const query = `
SELECT squad_public_id, gameweek_public_id, points, scored_at
FROM squad_scores
WHERE squad_public_id = $1 AND gameweek_public_id = $2`

	var row squadScoreTableModel
	if err := r.db.GetContext(ctx, &row, query, squadID, gameweekID); err != nil {
		if isNotFound(err) {
			return roster.ScoreRecord{}, false, nil
		}
		return roster.ScoreRecord{}, false, fmt.Errorf("get squad score: %w", err)
	}

	return row.toDomain(), true, nil
}
