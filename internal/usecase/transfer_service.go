package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tryline/fantasy-rugby/internal/domain/gameweek"
	"github.com/tryline/fantasy-rugby/internal/domain/player"
	"github.com/tryline/fantasy-rugby/internal/domain/roster"
	"github.com/tryline/fantasy-rugby/internal/domain/transfer"
	idgen "github.com/tryline/fantasy-rugby/internal/platform/id"
)

type TransferService struct {
	playerRepo    player.Repository
	squadRepo     roster.Repository
	gameweekRepo  gameweek.Repository
	transferRepo  transfer.Repository
	ownershipRepo transfer.OwnershipRepository
	rules         roster.Rules
	idGen         idgen.Generator
	logger        *slog.Logger
	now           func() time.Time
}

func NewTransferService(
	playerRepo player.Repository,
	squadRepo roster.Repository,
	gameweekRepo gameweek.Repository,
	transferRepo transfer.Repository,
	ownershipRepo transfer.OwnershipRepository,
	rules roster.Rules,
	idGen idgen.Generator,
	logger *slog.Logger,
) *TransferService {
	if logger == nil {
		logger = slog.Default()
	}

	return &TransferService{
		playerRepo:    playerRepo,
		squadRepo:     squadRepo,
		gameweekRepo:  gameweekRepo,
		transferRepo:  transferRepo,
		ownershipRepo: ownershipRepo,
		rules:         rules,
		idGen:         idGen,
		logger:        logger,
		now:           time.Now,
	}
}

// TransferAvailability summarises what a user can still do this gameweek.
// During pre-season transfers are unlimited; after the deadline they are
// closed until the next gameweek becomes current.
type TransferAvailability struct {
	GameweekID     string
	Used           int
	Remaining      int
	MaxPerWeek     int
	Bank           int64
	Unlimited      bool
	DeadlinePassed bool
}

func (s *TransferService) Availability(ctx context.Context, userID string) (TransferAvailability, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.Availability")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return TransferAvailability{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	squad, exists, err := s.squadRepo.GetByUser(ctx, userID)
	if err != nil {
		return TransferAvailability{}, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return TransferAvailability{}, fmt.Errorf("%w: no squad for user %s", ErrNotFound, userID)
	}

	current, exists, err := s.gameweekRepo.GetCurrent(ctx)
	if err != nil {
		return TransferAvailability{}, fmt.Errorf("get current gameweek: %w", err)
	}
	if !exists {
		return TransferAvailability{}, fmt.Errorf("%w: no current gameweek", ErrNotFound)
	}

	used, err := s.transferRepo.CountByUserAndGameweek(ctx, userID, current.ID)
	if err != nil {
		return TransferAvailability{}, fmt.Errorf("count transfers: %w", err)
	}

	availability := TransferAvailability{
		GameweekID:     current.ID,
		Used:           used,
		MaxPerWeek:     s.rules.MaxTransfersPerWeek,
		Bank:           squad.Bank,
		Unlimited:      current.IsPreSeason(),
		DeadlinePassed: current.DeadlinePassed(s.now()),
	}
	if availability.Unlimited {
		availability.Remaining = s.rules.MaxTransfersPerWeek
		return availability, nil
	}
	if availability.DeadlinePassed {
		return availability, nil
	}

	availability.Remaining = s.rules.MaxTransfersPerWeek - used
	if availability.Remaining < 0 {
		availability.Remaining = 0
	}

	return availability, nil
}

// MakeTransferInput swaps one owned player for one from the pool.
type MakeTransferInput struct {
	UserID      string
	PlayerOutID string
	PlayerInID  string
}

// MakeTransfer validates and applies a single transfer. Checks run in a
// fixed order and the first failure wins: squad exists, the deadline has not
// passed, weekly allowance remains, the outgoing player is owned, the
// incoming player is not, positions are interchangeable, the club limit holds
// after the swap, and the bank covers the price difference. Pre-season skips
// the deadline and allowance checks entirely. The outgoing player sells at
// the price the user paid for them, not the current listing.
func (s *TransferService) MakeTransfer(ctx context.Context, input MakeTransferInput) (transfer.Transfer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.MakeTransfer")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.PlayerOutID = strings.TrimSpace(input.PlayerOutID)
	input.PlayerInID = strings.TrimSpace(input.PlayerInID)

	if input.UserID == "" {
		return transfer.Transfer{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.PlayerOutID == "" || input.PlayerInID == "" {
		return transfer.Transfer{}, fmt.Errorf("%w: both transfer sides are required", ErrInvalidInput)
	}
	if input.PlayerOutID == input.PlayerInID {
		return transfer.Transfer{}, fmt.Errorf("%w: cannot transfer a player for themselves", ErrInvalidInput)
	}

	squad, exists, err := s.squadRepo.GetByUser(ctx, input.UserID)
	if err != nil {
		return transfer.Transfer{}, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return transfer.Transfer{}, fmt.Errorf("%w: no squad for user %s", ErrNotFound, input.UserID)
	}

	current, err := s.requireTransferWindow(ctx)
	if err != nil {
		return transfer.Transfer{}, err
	}

	if !current.IsPreSeason() {
		used, err := s.transferRepo.CountByUserAndGameweek(ctx, input.UserID, current.ID)
		if err != nil {
			return transfer.Transfer{}, fmt.Errorf("count transfers: %w", err)
		}
		if used >= s.rules.MaxTransfersPerWeek {
			return transfer.Transfer{}, fmt.Errorf("%w: transfer limit of %d reached for this gameweek",
				ErrInvalidInput, s.rules.MaxTransfersPerWeek)
		}
	}

	if !squad.Contains(input.PlayerOutID) {
		return transfer.Transfer{}, fmt.Errorf("%w: player %s is not in your squad", ErrInvalidInput, input.PlayerOutID)
	}
	if squad.Contains(input.PlayerInID) {
		return transfer.Transfer{}, fmt.Errorf("%w: player %s is already in your squad", ErrInvalidInput, input.PlayerInID)
	}

	playerOut, exists, err := s.playerRepo.GetByID(ctx, input.PlayerOutID)
	if err != nil {
		return transfer.Transfer{}, fmt.Errorf("get outgoing player: %w", err)
	}
	if !exists {
		return transfer.Transfer{}, fmt.Errorf("%w: player %s", ErrNotFound, input.PlayerOutID)
	}
	playerIn, exists, err := s.playerRepo.GetByID(ctx, input.PlayerInID)
	if err != nil {
		return transfer.Transfer{}, fmt.Errorf("get incoming player: %w", err)
	}
	if !exists {
		return transfer.Transfer{}, fmt.Errorf("%w: player %s", ErrNotFound, input.PlayerInID)
	}

	if !player.InterchangeableForTransfer(playerOut.Position, playerIn.Position) {
		return transfer.Transfer{}, fmt.Errorf("%w: %s cannot replace %s",
			ErrInvalidInput, playerIn.Position, playerOut.Position)
	}

	updated := squad
	updated.Starters = append([]string(nil), squad.Starters...)
	updated.Bench = append([]string(nil), squad.Bench...)
	if !updated.ReplacePlayer(input.PlayerOutID, input.PlayerInID) {
		return transfer.Transfer{}, fmt.Errorf("%w: player %s is not in your squad", ErrInvalidInput, input.PlayerOutID)
	}
	if updated.CaptainID == input.PlayerOutID {
		updated.CaptainID = input.PlayerInID
	}

	pool, err := s.loadSquadPool(ctx, updated)
	if err != nil {
		return transfer.Transfer{}, err
	}
	if err := roster.ValidateClubLimit(pool, updated.AllPlayerIDs(), s.rules.MaxPerClub); err != nil {
		return transfer.Transfer{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	soldFor := s.sellPrice(ctx, input.UserID, playerOut)
	boughtFor := playerIn.Price

	newBank := squad.Bank + soldFor - boughtFor
	if newBank < 0 {
		return transfer.Transfer{}, fmt.Errorf("%w: insufficient funds, need %d more",
			ErrInvalidInput, -newBank)
	}

	now := s.now().UTC()
	updated.Bank = newBank
	updated.TeamValue = squad.TeamValue - soldFor + boughtFor
	updated.UpdatedAt = now

	id, err := s.idGen.NewID()
	if err != nil {
		return transfer.Transfer{}, fmt.Errorf("generate transfer id: %w", err)
	}

	record := transfer.Transfer{
		ID:          id,
		UserID:      input.UserID,
		GameweekID:  current.ID,
		PlayerOutID: input.PlayerOutID,
		PlayerInID:  input.PlayerInID,
		SoldFor:     soldFor,
		BoughtFor:   boughtFor,
		CreatedAt:   now,
	}
	if err := record.Validate(); err != nil {
		return transfer.Transfer{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	app := transfer.Application{
		Record: record,
		Squad:  updated,
		RemoveOwner: transfer.Ownership{
			UserID:   input.UserID,
			PlayerID: input.PlayerOutID,
		},
		AddOwner: transfer.Ownership{
			UserID:        input.UserID,
			PlayerID:      input.PlayerInID,
			PurchasePrice: boughtFor,
			AcquiredAt:    now,
		},
	}

	if err := s.transferRepo.ApplyTransfer(ctx, app); err != nil {
		return transfer.Transfer{}, fmt.Errorf("apply transfer: %w", err)
	}

	s.logger.InfoContext(ctx, "transfer applied",
		"user_id", input.UserID,
		"gameweek_id", current.ID,
		"player_out", input.PlayerOutID,
		"player_in", input.PlayerInID,
		"sold_for", soldFor,
		"bought_for", boughtFor,
	)

	return record, nil
}

func (s *TransferService) History(ctx context.Context, userID string) ([]transfer.Transfer, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.History")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	items, err := s.transferRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}

	return items, nil
}

// requireTransferWindow resolves the current gameweek and rejects transfers
// once its deadline has passed. Pre-season has no deadline.
func (s *TransferService) requireTransferWindow(ctx context.Context) (gameweek.Gameweek, error) {
	current, exists, err := s.gameweekRepo.GetCurrent(ctx)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("get current gameweek: %w", err)
	}
	if !exists {
		return gameweek.Gameweek{}, fmt.Errorf("%w: no current gameweek", ErrNotFound)
	}
	if current.DeadlinePassed(s.now()) {
		return gameweek.Gameweek{}, fmt.Errorf("%w: transfer deadline has passed for this gameweek", ErrInvalidInput)
	}

	return current, nil
}

// sellPrice looks up what the user paid for the player. A missing ownership
// record falls back to the current listing.
func (s *TransferService) sellPrice(ctx context.Context, userID string, p player.Player) int64 {
	owned, exists, err := s.ownershipRepo.Get(ctx, userID, p.ID)
	if err != nil || !exists {
		if err != nil {
			s.logger.WarnContext(ctx, "ownership lookup failed, selling at listed price",
				"user_id", userID, "player_id", p.ID, "error", err)
		}
		return p.Price
	}

	return owned.PurchasePrice
}

func (s *TransferService) loadSquadPool(ctx context.Context, squad roster.Squad) (map[string]player.Player, error) {
	players, err := s.playerRepo.GetByIDs(ctx, squad.AllPlayerIDs())
	if err != nil {
		return nil, fmt.Errorf("get squad players: %w", err)
	}

	pool := make(map[string]player.Player, len(players))
	for _, p := range players {
		pool[p.ID] = p
	}

	return pool, nil
}
