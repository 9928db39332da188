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

// SaveSquadInput is the incoming payload for creating or rebuilding a squad.
type SaveSquadInput struct {
	UserID    string
	Name      string
	Starters  []string
	Bench     []string
	CaptainID string
}

type RosterService struct {
	playerRepo    player.Repository
	squadRepo     roster.Repository
	gameweekRepo  gameweek.Repository
	ownershipRepo transfer.OwnershipRepository
	rules         roster.Rules
	idGen         idgen.Generator
	logger        *slog.Logger
	now           func() time.Time
}

func NewRosterService(
	playerRepo player.Repository,
	squadRepo roster.Repository,
	gameweekRepo gameweek.Repository,
	ownershipRepo transfer.OwnershipRepository,
	rules roster.Rules,
	idGen idgen.Generator,
	logger *slog.Logger,
) *RosterService {
	if logger == nil {
		logger = slog.Default()
	}

	return &RosterService{
		playerRepo:    playerRepo,
		squadRepo:     squadRepo,
		gameweekRepo:  gameweekRepo,
		ownershipRepo: ownershipRepo,
		rules:         rules,
		idGen:         idGen,
		logger:        logger,
		now:           time.Now,
	}
}

// SaveSquad creates a user's squad, or rebuilds it wholesale during the
// pre-season window. Once the season is underway an existing squad only
// changes through transfers.
func (s *RosterService) SaveSquad(ctx context.Context, input SaveSquadInput) (roster.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.SaveSquad")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.Name = strings.TrimSpace(input.Name)
	input.CaptainID = strings.TrimSpace(input.CaptainID)

	if input.UserID == "" {
		return roster.Squad{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return roster.Squad{}, fmt.Errorf("%w: squad name is required", ErrInvalidInput)
	}

	existing, exists, err := s.squadRepo.GetByUser(ctx, input.UserID)
	if err != nil {
		return roster.Squad{}, fmt.Errorf("get existing squad: %w", err)
	}

	if exists {
		current, hasCurrent, err := s.gameweekRepo.GetCurrent(ctx)
		if err != nil {
			return roster.Squad{}, fmt.Errorf("get current gameweek: %w", err)
		}
		if hasCurrent && !current.IsPreSeason() {
			return roster.Squad{}, fmt.Errorf("%w: squad is locked once the season starts, use transfers", ErrInvalidInput)
		}
	}

	pool, err := s.loadSelection(ctx, append(append([]string{}, input.Starters...), input.Bench...))
	if err != nil {
		return roster.Squad{}, err
	}

	if err := roster.ValidateSelection(pool, input.Starters, input.Bench, input.CaptainID, s.rules); err != nil {
		return roster.Squad{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	allIDs := make([]string, 0, roster.SquadSize)
	allIDs = append(allIDs, input.Starters...)
	allIDs = append(allIDs, input.Bench...)

	if err := roster.ValidateClubLimit(pool, allIDs, s.rules.MaxPerClub); err != nil {
		return roster.Squad{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bank, err := roster.ValidateBudget(pool, allIDs, s.rules.Budget)
	if err != nil {
		return roster.Squad{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.now().UTC()
	squad := roster.Squad{
		UserID:    input.UserID,
		Name:      input.Name,
		Starters:  append([]string(nil), input.Starters...),
		Bench:     append([]string(nil), input.Bench...),
		CaptainID: input.CaptainID,
		Bank:      bank,
		TeamValue: s.rules.Budget - bank,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if exists {
		squad.ID = existing.ID
		squad.CreatedAt = existing.CreatedAt
		squad.GameweekPoints = existing.GameweekPoints
		squad.TotalPoints = existing.TotalPoints
	} else {
		id, err := s.idGen.NewID()
		if err != nil {
			return roster.Squad{}, fmt.Errorf("generate squad id: %w", err)
		}
		squad.ID = id
	}

	if err := squad.ValidateBasic(); err != nil {
		return roster.Squad{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.squadRepo.Upsert(ctx, squad); err != nil {
		return roster.Squad{}, fmt.Errorf("upsert squad: %w", err)
	}

	if err := s.syncOwnership(ctx, squad, pool, now); err != nil {
		return roster.Squad{}, err
	}

	s.logger.InfoContext(ctx, "squad saved",
		"user_id", squad.UserID,
		"squad_id", squad.ID,
		"bank", squad.Bank,
		"team_value", squad.TeamValue,
	)

	return squad, nil
}

func (s *RosterService) GetSquad(ctx context.Context, userID string) (roster.Squad, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.GetSquad")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return roster.Squad{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	squad, exists, err := s.squadRepo.GetByUser(ctx, userID)
	if err != nil {
		return roster.Squad{}, fmt.Errorf("get squad: %w", err)
	}
	if !exists {
		return roster.Squad{}, fmt.Errorf("%w: no squad for user %s", ErrNotFound, userID)
	}

	return squad, nil
}

func (s *RosterService) loadSelection(ctx context.Context, playerIDs []string) (map[string]player.Player, error) {
	for _, id := range playerIDs {
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("%w: empty player id in selection", ErrInvalidInput)
		}
	}

	players, err := s.playerRepo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("get players by ids: %w", err)
	}

	pool := make(map[string]player.Player, len(players))
	for _, p := range players {
		pool[p.ID] = p
	}
	for _, id := range playerIDs {
		if _, ok := pool[id]; !ok {
			return nil, fmt.Errorf("%w: player %s not found", ErrInvalidInput, id)
		}
	}

	return pool, nil
}

// syncOwnership records purchase prices for newly acquired players and drops
// records for players no longer held. Players kept across a rebuild retain
// their original purchase price.
func (s *RosterService) syncOwnership(ctx context.Context, squad roster.Squad, pool map[string]player.Player, now time.Time) error {
	owned, err := s.ownershipRepo.ListByUser(ctx, squad.UserID)
	if err != nil {
		return fmt.Errorf("list ownership: %w", err)
	}

	held := make(map[string]struct{}, roster.SquadSize)
	for _, id := range squad.AllPlayerIDs() {
		held[id] = struct{}{}
	}

	ownedSet := make(map[string]struct{}, len(owned))
	for _, o := range owned {
		ownedSet[o.PlayerID] = struct{}{}
		if _, keep := held[o.PlayerID]; !keep {
			if err := s.ownershipRepo.Delete(ctx, squad.UserID, o.PlayerID); err != nil {
				return fmt.Errorf("delete ownership: %w", err)
			}
		}
	}

	for id := range held {
		if _, already := ownedSet[id]; already {
			continue
		}
		o := transfer.Ownership{
			UserID:        squad.UserID,
			PlayerID:      id,
			PurchasePrice: pool[id].Price,
			AcquiredAt:    now,
		}
		if err := s.ownershipRepo.Upsert(ctx, o); err != nil {
			return fmt.Errorf("upsert ownership: %w", err)
		}
	}

	return nil
}
