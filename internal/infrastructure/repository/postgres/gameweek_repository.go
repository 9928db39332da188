package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tryline/fantasy-rugby/internal/domain/gameweek"
)

type GameweekRepository struct {
	db *sqlx.DB
}

func NewGameweekRepository(db *sqlx.DB) *GameweekRepository {
	return &GameweekRepository{db: db}
}

type gameweekTableModel struct {
	PublicID   string       `db:"public_id"`
	Round      int          `db:"round"`
	Deadline   sql.NullTime `db:"deadline"`
	IsCurrent  bool         `db:"is_current"`
	IsFinished bool         `db:"is_finished"`
	CreatedAt  time.Time    `db:"created_at"`
}

func (m gameweekTableModel) toDomain() gameweek.Gameweek {
	gw := gameweek.Gameweek{
		ID:         m.PublicID,
		Round:      m.Round,
		IsCurrent:  m.IsCurrent,
		IsFinished: m.IsFinished,
		CreatedAt:  m.CreatedAt,
	}
	if m.Deadline.Valid {
		gw.Deadline = m.Deadline.Time
	}

	return gw
}

const gameweekSelect = `
SELECT public_id, round, deadline, is_current, is_finished, created_at
FROM gameweeks`

func (r *GameweekRepository) List(ctx context.Context) ([]gameweek.Gameweek, error) {
	var rows []gameweekTableModel
	if err := r.db.SelectContext(ctx, &rows, gameweekSelect+" ORDER BY round"); err != nil {
		return nil, fmt.Errorf("select gameweeks: %w", err)
	}

	out := make([]gameweek.Gameweek, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *GameweekRepository) GetByID(ctx context.Context, gameweekID string) (gameweek.Gameweek, bool, error) {
	var row gameweekTableModel
	if err := r.db.GetContext(ctx, &row, gameweekSelect+" WHERE public_id = $1", gameweekID); err != nil {
		if isNotFound(err) {
			return gameweek.Gameweek{}, false, nil
		}
		return gameweek.Gameweek{}, false, fmt.Errorf("get gameweek: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *GameweekRepository) GetCurrent(ctx context.Context) (gameweek.Gameweek, bool, error) {
	var row gameweekTableModel
	if err := r.db.GetContext(ctx, &row, gameweekSelect+" WHERE is_current"); err != nil {
		if isNotFound(err) {
			return gameweek.Gameweek{}, false, nil
		}
		return gameweek.Gameweek{}, false, fmt.Errorf("get current gameweek: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *GameweekRepository) Create(ctx context.Context, gw gameweek.Gameweek) error {
	const query = `
INSERT INTO gameweeks (public_id, round, deadline, is_current, is_finished)
VALUES (:public_id, :round, :deadline, :is_current, :is_finished)`

	model := gameweekTableModel{
		PublicID:   gw.ID,
		Round:      gw.Round,
		IsCurrent:  gw.IsCurrent,
		IsFinished: gw.IsFinished,
	}
	if !gw.Deadline.IsZero() {
		model.Deadline = sql.NullTime{Time: gw.Deadline, Valid: true}
	}

	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		return fmt.Errorf("insert gameweek: %w", err)
	}

	return nil
}

// SetCurrent clears the old marker and sets the new one in one transaction,
// so there is never more or less than one current gameweek.
func (r *GameweekRepository) SetCurrent(ctx context.Context, gameweekID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for set current gameweek: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `UPDATE gameweeks SET is_current = FALSE WHERE is_current`); err != nil {
		return fmt.Errorf("clear current gameweek: %w", err)
	}

	res, err := tx.ExecContext(ctx, `UPDATE gameweeks SET is_current = TRUE WHERE public_id = $1`, gameweekID)
	if err != nil {
		return fmt.Errorf("set current gameweek: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set current gameweek rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("gameweek %s not found", gameweekID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set current gameweek: %w", err)
	}

	return nil
}

func (r *GameweekRepository) MarkFinished(ctx context.Context, gameweekID string) error {
	const query = `UPDATE gameweeks SET is_finished = TRUE WHERE public_id = $1`

	if _, err := r.db.ExecContext(ctx, query, gameweekID); err != nil {
		return fmt.Errorf("mark gameweek finished: %w", err)
	}

	return nil
}
