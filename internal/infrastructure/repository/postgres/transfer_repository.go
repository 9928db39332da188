package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/tryline/fantasy-rugby/internal/domain/transfer"
)

type TransferRepository struct {
	db *sqlx.DB
}

func NewTransferRepository(db *sqlx.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

type transferTableModel struct {
	PublicID    string    `db:"public_id"`
	UserID      string    `db:"user_id"`
	GameweekID  string    `db:"gameweek_public_id"`
	PlayerOutID string    `db:"player_out_public_id"`
	PlayerInID  string    `db:"player_in_public_id"`
	SoldFor     int64     `db:"sold_for"`
	BoughtFor   int64     `db:"bought_for"`
	CreatedAt   time.Time `db:"created_at"`
}

func (m transferTableModel) toDomain() transfer.Transfer {
	return transfer.Transfer{
		ID:          m.PublicID,
		UserID:      m.UserID,
		GameweekID:  m.GameweekID,
		PlayerOutID: m.PlayerOutID,
		PlayerInID:  m.PlayerInID,
		SoldFor:     m.SoldFor,
		BoughtFor:   m.BoughtFor,
		CreatedAt:   m.CreatedAt,
	}
}

// ApplyTransfer records the transfer, rewrites the squad row, and swaps the
// ownership rows inside one transaction. A failure at any step leaves the
// squad untouched.
func (r *TransferRepository) ApplyTransfer(ctx context.Context, app transfer.Application) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for transfer: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const insertTransfer = `
INSERT INTO transfers (public_id, user_id, gameweek_public_id,
                       player_out_public_id, player_in_public_id, sold_for, bought_for)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = tx.ExecContext(ctx, insertTransfer,
		app.Record.ID, app.Record.UserID, app.Record.GameweekID,
		app.Record.PlayerOutID, app.Record.PlayerInID, app.Record.SoldFor, app.Record.BoughtFor)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}

	const updateSquad = `
UPDATE squads
SET starters = $1, bench = $2, captain_id = $3, bank = $4, team_value = $5, updated_at = NOW()
WHERE public_id = $6`

	res, err := tx.ExecContext(ctx, updateSquad,
		pq.StringArray(app.Squad.Starters), pq.StringArray(app.Squad.Bench),
		app.Squad.CaptainID, app.Squad.Bank, app.Squad.TeamValue, app.Squad.ID)
	if err != nil {
		return fmt.Errorf("update squad for transfer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update squad rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("squad %s not found", app.Squad.ID)
	}

	const deleteOwnership = `
DELETE FROM ownerships WHERE user_id = $1 AND player_public_id = $2`

	_, err = tx.ExecContext(ctx, deleteOwnership, app.RemoveOwner.UserID, app.RemoveOwner.PlayerID)
	if err != nil {
		return fmt.Errorf("delete ownership: %w", err)
	}

	const insertOwnership = `
INSERT INTO ownerships (user_id, player_public_id, purchase_price, acquired_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, player_public_id) DO UPDATE SET
	purchase_price = EXCLUDED.purchase_price,
	acquired_at = EXCLUDED.acquired_at`

	acquiredAt := app.AddOwner.AcquiredAt
	if acquiredAt.IsZero() {
		acquiredAt = time.Now().UTC()
	}
	_, err = tx.ExecContext(ctx, insertOwnership,
		app.AddOwner.UserID, app.AddOwner.PlayerID, app.AddOwner.PurchasePrice, acquiredAt)
	if err != nil {
		return fmt.Errorf("insert ownership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transfer: %w", err)
	}

	return nil
}

func (r *TransferRepository) CountByUserAndGameweek(ctx context.Context, userID, gameweekID string) (int, error) {
	const query = `
SELECT COUNT(*)
FROM transfers
WHERE user_id = $1 AND gameweek_public_id = $2`

	var count int
	if err := r.db.GetContext(ctx, &count, query, userID, gameweekID); err != nil {
		return 0, fmt.Errorf("count transfers: %w", err)
	}

	return count, nil
}

func (r *TransferRepository) ListByUser(ctx context.Context, userID string) ([]transfer.Transfer, error) {
	const query = `
SELECT public_id, user_id, gameweek_public_id,
       player_out_public_id, player_in_public_id, sold_for, bought_for, created_at
FROM transfers
WHERE user_id = $1
ORDER BY created_at DESC, public_id DESC`

	var rows []transferTableModel
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("select transfers: %w", err)
	}

	out := make([]transfer.Transfer, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

// OwnershipRepository tracks what each user paid per player.
type OwnershipRepository struct {
	db *sqlx.DB
}

func NewOwnershipRepository(db *sqlx.DB) *OwnershipRepository {
	return &OwnershipRepository{db: db}
}

type ownershipTableModel struct {
	UserID        string    `db:"user_id"`
	PlayerID      string    `db:"player_public_id"`
	PurchasePrice int64     `db:"purchase_price"`
	AcquiredAt    time.Time `db:"acquired_at"`
}

func (m ownershipTableModel) toDomain() transfer.Ownership {
	return transfer.Ownership{
		UserID:        m.UserID,
		PlayerID:      m.PlayerID,
		PurchasePrice: m.PurchasePrice,
		AcquiredAt:    m.AcquiredAt,
	}
}

func (r *OwnershipRepository) Get(ctx context.Context, userID, playerID string) (transfer.Ownership, bool, error) {
	const query = `
SELECT user_id, player_public_id, purchase_price, acquired_at
FROM ownerships
WHERE user_id = $1 AND player_public_id = $2`

	var row ownershipTableModel
	if err := r.db.GetContext(ctx, &row, query, userID, playerID); err != nil {
		if isNotFound(err) {
			return transfer.Ownership{}, false, nil
		}
		return transfer.Ownership{}, false, fmt.Errorf("get ownership: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *OwnershipRepository) ListByUser(ctx context.Context, userID string) ([]transfer.Ownership, error) {
	const query = `
SELECT user_id, player_public_id, purchase_price, acquired_at
FROM ownerships
WHERE user_id = $1
ORDER BY player_public_id`

	var rows []ownershipTableModel
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("select ownerships: %w", err)
	}

	out := make([]transfer.Ownership, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *OwnershipRepository) Upsert(ctx context.Context, o transfer.Ownership) error {
	const query = `
INSERT INTO ownerships (user_id, player_public_id, purchase_price, acquired_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, player_public_id) DO UPDATE SET
	purchase_price = EXCLUDED.purchase_price,
	acquired_at = EXCLUDED.acquired_at`

	acquiredAt := o.AcquiredAt
	if acquiredAt.IsZero() {
		acquiredAt = time.Now().UTC()
	}

	if _, err := r.db.ExecContext(ctx, query, o.UserID, o.PlayerID, o.PurchasePrice, acquiredAt); err != nil {
		return fmt.Errorf("upsert ownership: %w", err)
	}

	return nil
}

func (r *OwnershipRepository) Delete(ctx context.Context, userID, playerID string) error {
	const query = `DELETE FROM ownerships WHERE user_id = $1 AND player_public_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, playerID); err != nil {
		return fmt.Errorf("delete ownership: %w", err)
	}

	return nil
}
