package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tryline/fantasy-rugby/internal/domain/league"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

type leagueTableModel struct {
	PublicID   string    `db:"public_id"`
	Name       string    `db:"name"`
	InviteCode string    `db:"invite_code"`
	CreatorID  string    `db:"creator_id"`
	CreatedAt  time.Time `db:"created_at"`
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{
		ID:         m.PublicID,
		Name:       m.Name,
		InviteCode: m.InviteCode,
		CreatorID:  m.CreatorID,
		CreatedAt:  m.CreatedAt,
	}
}

const leagueSelect = `
SELECT public_id, name, invite_code, creator_id, created_at
FROM leagues`

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	const query = `
INSERT INTO leagues (public_id, name, invite_code, creator_id)
VALUES ($1, $2, $3, $4)`

	if _, err := r.db.ExecContext(ctx, query, l.ID, l.Name, l.InviteCode, l.CreatorID); err != nil {
		return fmt.Errorf("insert league: %w", err)
	}

	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, id string) (league.League, bool, error) {
	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, leagueSelect+" WHERE public_id = $1", id); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *LeagueRepository) GetByInviteCode(ctx context.Context, code string) (league.League, bool, error) {
	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, leagueSelect+" WHERE invite_code = $1", code); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by invite code: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *LeagueRepository) ListByUser(ctx context.Context, userID string) ([]league.League, error) {
	query := leagueSelect + `
JOIN league_members lm ON lm.league_public_id = leagues.public_id
WHERE lm.user_id = $1
ORDER BY leagues.created_at, leagues.public_id`

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("select leagues by user: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *LeagueRepository) AddMember(ctx context.Context, m league.Membership) error {
	const query = `
INSERT INTO league_members (league_public_id, user_id, joined_at)
VALUES ($1, $2, $3)
ON CONFLICT (league_public_id, user_id) DO NOTHING`

	joinedAt := m.JoinedAt
	if joinedAt.IsZero() {
		joinedAt = time.Now().UTC()
	}

	if _, err := r.db.ExecContext(ctx, query, m.LeagueID, m.UserID, joinedAt); err != nil {
		return fmt.Errorf("insert league member: %w", err)
	}

	return nil
}

func (r *LeagueRepository) IsMember(ctx context.Context, leagueID, userID string) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1 FROM league_members
	WHERE league_public_id = $1 AND user_id = $2
)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, leagueID, userID); err != nil {
		return false, fmt.Errorf("check league membership: %w", err)
	}

	return exists, nil
}

func (r *LeagueRepository) ListMembers(ctx context.Context, leagueID string) ([]league.Membership, error) {
	const query = `
SELECT league_public_id, user_id, joined_at
FROM league_members
WHERE league_public_id = $1
ORDER BY joined_at, user_id`

	type memberRow struct {
		LeagueID string    `db:"league_public_id"`
		UserID   string    `db:"user_id"`
		JoinedAt time.Time `db:"joined_at"`
	}

	var rows []memberRow
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("select league members: %w", err)
	}

	out := make([]league.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, league.Membership{
			LeagueID: row.LeagueID,
			UserID:   row.UserID,
			JoinedAt: row.JoinedAt,
		})
	}

	return out, nil
}
