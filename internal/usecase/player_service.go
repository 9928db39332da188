package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tryline/fantasy-rugby/internal/domain/player"
)

const (
	defaultPlayerPageSize = 50
	maxPlayerPageSize     = 200
)

type PlayerService struct {
	playerRepo player.Repository
	logger     *slog.Logger
}

func NewPlayerService(playerRepo player.Repository, logger *slog.Logger) *PlayerService {
	if logger == nil {
		logger = slog.Default()
	}

	return &PlayerService{
		playerRepo: playerRepo,
		logger:     logger,
	}
}

// PlayerPage is one page of the player pool listing.
type PlayerPage struct {
	Items    []player.Player
	Total    int
	Page     int
	PageSize int
}

func (s *PlayerService) ListPlayers(ctx context.Context, filter player.ListFilter) (PlayerPage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListPlayers")
	defer span.End()

	filter.Club = strings.TrimSpace(filter.Club)
	if filter.Position != "" {
		if _, ok := player.AllPositions[filter.Position]; !ok {
			return PlayerPage{}, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, filter.Position)
		}
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPlayerPageSize
	}
	if filter.PageSize > maxPlayerPageSize {
		filter.PageSize = maxPlayerPageSize
	}

	items, total, err := s.playerRepo.List(ctx, filter)
	if err != nil {
		return PlayerPage{}, fmt.Errorf("list players: %w", err)
	}

	return PlayerPage{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, playerID string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayer")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	item, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}

	return item, nil
}

// UpdatePrice relists a player at a new price. Existing owners keep their
// recorded purchase price; only future purchases and sales see the change.
func (s *PlayerService) UpdatePrice(ctx context.Context, playerID string, price int64) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.UpdatePrice")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if price < player.MinPrice || price > player.MaxPrice {
		return player.Player{}, fmt.Errorf("%w: price must be between %d and %d, got %d",
			ErrInvalidInput, player.MinPrice, player.MaxPrice, price)
	}

	item, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player %s", ErrNotFound, playerID)
	}

	if err := s.playerRepo.UpdatePrice(ctx, playerID, price); err != nil {
		return player.Player{}, fmt.Errorf("update player price: %w", err)
	}

	s.logger.InfoContext(ctx, "player price updated",
		"player_id", playerID,
		"old_price", item.Price,
		"new_price", price,
	)

	item.Price = price
	return item, nil
}
