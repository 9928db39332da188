package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tryline/fantasy-rugby/internal/domain/player"
	qb "github.com/tryline/fantasy-rugby/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

var playerSelectColumns = []string{
	"public_id",
	"name",
	"club",
	"position",
	"price",
	"total_points",
}

type playerTableModel struct {
	PublicID    string    `db:"public_id"`
	Name        string    `db:"name"`
	Club        string    `db:"club"`
	Position    string    `db:"position"`
	Price       int64     `db:"price"`
	TotalPoints int       `db:"total_points"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:          m.PublicID,
		Name:        m.Name,
		Club:        m.Club,
		Position:    player.Position(m.Position),
		Price:       m.Price,
		TotalPoints: m.TotalPoints,
	}
}

func (r *PlayerRepository) List(ctx context.Context, filter player.ListFilter) ([]player.Player, int, error) {
	conditions := make([]qb.Condition, 0, 2)
	if filter.Club != "" {
		conditions = append(conditions, qb.Eq("club", filter.Club))
	}
	if filter.Position != "" {
		conditions = append(conditions, qb.Eq("position", string(filter.Position)))
	}

	countQuery, countArgs, err := qb.Select("COUNT(*)").From("players").Where(conditions...).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build count players query: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count players: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 {
		size = total
	}

	builder := qb.Select(playerSelectColumns...).From("players").
		Where(conditions...).
		OrderBy("name ASC", "public_id ASC").
		Offset((page - 1) * size)
	if size > 0 {
		builder = builder.Limit(size)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, total, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	const query = `
SELECT public_id, name, club, position, price, total_points
FROM players
WHERE public_id = $1`

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, playerID); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}

	values := make([]any, 0, len(playerIDs))
	for _, id := range playerIDs {
		values = append(values, id)
	}

	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.In("public_id", values)).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by ids query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by ids: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *PlayerRepository) UpdatePrice(ctx context.Context, playerID string, price int64) error {
	const query = `
UPDATE players
SET price = $1, updated_at = NOW()
WHERE public_id = $2`

	if _, err := r.db.ExecContext(ctx, query, price, playerID); err != nil {
		return fmt.Errorf("update player price: %w", err)
	}

	return nil
}

func (r *PlayerRepository) UpdateTotalPoints(ctx context.Context, playerID string, totalPoints int) error {
	const query = `
UPDATE players
SET total_points = $1, updated_at = NOW()
WHERE public_id = $2`

	if _, err := r.db.ExecContext(ctx, query, totalPoints, playerID); err != nil {
		return fmt.Errorf("update player total points: %w", err)
	}

	return nil
}
