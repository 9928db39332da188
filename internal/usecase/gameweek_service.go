package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tryline/fantasy-rugby/internal/domain/gameweek"
	idgen "github.com/tryline/fantasy-rugby/internal/platform/id"
)

// JobPublisher enqueues deferred callbacks against the internal job endpoints.
type JobPublisher interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

const (
	pullStatsJobPath     = "/v1/internal/jobs/pull-stats"
	scoreGameweekJobPath = "/v1/internal/jobs/score-gameweek"
)

type GameweekService struct {
	gameweekRepo gameweek.Repository
	idGen        idgen.Generator
	jobs         JobPublisher
	logger       *slog.Logger
	now          func() time.Time
}

// NewGameweekService builds the gameweek admin service. jobs may be nil; then
// finishing a gameweek does not enqueue the stats pull and scoring callbacks.
func NewGameweekService(gameweekRepo gameweek.Repository, idGen idgen.Generator, jobs JobPublisher, logger *slog.Logger) *GameweekService {
	if logger == nil {
		logger = slog.Default()
	}

	return &GameweekService{
		gameweekRepo: gameweekRepo,
		idGen:        idGen,
		jobs:         jobs,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *GameweekService) ListGameweeks(ctx context.Context) ([]gameweek.Gameweek, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameweekService.ListGameweeks")
	defer span.End()

	items, err := s.gameweekRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list gameweeks: %w", err)
	}

	return items, nil
}

func (s *GameweekService) GetGameweek(ctx context.Context, gameweekID string) (gameweek.Gameweek, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameweekService.GetGameweek")
	defer span.End()

	if gameweekID == "" {
		return gameweek.Gameweek{}, fmt.Errorf("%w: gameweek id is required", ErrInvalidInput)
	}

	gw, exists, err := s.gameweekRepo.GetByID(ctx, gameweekID)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("get gameweek %s: %w", gameweekID, err)
	}
	if !exists {
		return gameweek.Gameweek{}, fmt.Errorf("%w: gameweek %s", ErrNotFound, gameweekID)
	}

	return gw, nil
}

func (s *GameweekService) GetCurrentGameweek(ctx context.Context) (gameweek.Gameweek, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameweekService.GetCurrentGameweek")
	defer span.End()

	current, exists, err := s.gameweekRepo.GetCurrent(ctx)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("get current gameweek: %w", err)
	}
	if !exists {
		return gameweek.Gameweek{}, fmt.Errorf("%w: no current gameweek", ErrNotFound)
	}

	return current, nil
}

// CreateGameweekInput is the admin payload for scheduling a round.
type CreateGameweekInput struct {
	Round    int
	Deadline time.Time
}

func (s *GameweekService) CreateGameweek(ctx context.Context, input CreateGameweekInput) (gameweek.Gameweek, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameweekService.CreateGameweek")
	defer span.End()

	if input.Round < gameweek.PreSeasonRound {
		return gameweek.Gameweek{}, fmt.Errorf("%w: round must not be negative", ErrInvalidInput)
	}
	if input.Round > gameweek.PreSeasonRound && input.Deadline.IsZero() {
		return gameweek.Gameweek{}, fmt.Errorf("%w: deadline is required", ErrInvalidInput)
	}

	existing, err := s.gameweekRepo.List(ctx)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("list gameweeks: %w", err)
	}
	for _, gw := range existing {
		if gw.Round == input.Round {
			return gameweek.Gameweek{}, fmt.Errorf("%w: round %d already exists", ErrConflict, input.Round)
		}
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("generate gameweek id: %w", err)
	}

	gw := gameweek.Gameweek{
		ID:        id,
		Round:     input.Round,
		Deadline:  input.Deadline.UTC(),
		CreatedAt: s.now().UTC(),
	}
	if err := gw.Validate(); err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.gameweekRepo.Create(ctx, gw); err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("create gameweek: %w", err)
	}

	s.logger.InfoContext(ctx, "gameweek created", "gameweek_id", gw.ID, "round", gw.Round)
	return gw, nil
}

// SetCurrentGameweek moves the current marker. Exactly one gameweek is
// current afterwards.
func (s *GameweekService) SetCurrentGameweek(ctx context.Context, gameweekID string) (gameweek.Gameweek, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameweekService.SetCurrentGameweek")
	defer span.End()

	gameweekID = strings.TrimSpace(gameweekID)
	if gameweekID == "" {
		return gameweek.Gameweek{}, fmt.Errorf("%w: gameweek id is required", ErrInvalidInput)
	}

	gw, exists, err := s.gameweekRepo.GetByID(ctx, gameweekID)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("get gameweek: %w", err)
	}
	if !exists {
		return gameweek.Gameweek{}, fmt.Errorf("%w: gameweek %s", ErrNotFound, gameweekID)
	}

	if err := s.gameweekRepo.SetCurrent(ctx, gameweekID); err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("set current gameweek: %w", err)
	}

	s.logger.InfoContext(ctx, "current gameweek changed", "gameweek_id", gw.ID, "round", gw.Round)
	gw.IsCurrent = true
	return gw, nil
}

func (s *GameweekService) FinishGameweek(ctx context.Context, gameweekID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameweekService.FinishGameweek")
	defer span.End()

	gameweekID = strings.TrimSpace(gameweekID)
	if gameweekID == "" {
		return fmt.Errorf("%w: gameweek id is required", ErrInvalidInput)
	}

	gw, exists, err := s.gameweekRepo.GetByID(ctx, gameweekID)
	if err != nil {
		return fmt.Errorf("get gameweek: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: gameweek %s", ErrNotFound, gameweekID)
	}
	if gw.IsFinished {
		return nil
	}

	if err := s.gameweekRepo.MarkFinished(ctx, gameweekID); err != nil {
		return fmt.Errorf("mark gameweek finished: %w", err)
	}

	s.logger.InfoContext(ctx, "gameweek finished", "gameweek_id", gw.ID, "round", gw.Round)
	s.enqueueSettlementJobs(ctx, gameweekID)
	return nil
}

// enqueueSettlementJobs schedules the stats pull and, shortly after, the
// scoring run for a finished gameweek. Enqueue failures are logged but do not
// undo the finish; the jobs can be re-triggered through the internal
// endpoints.
func (s *GameweekService) enqueueSettlementJobs(ctx context.Context, gameweekID string) {
	if s.jobs == nil {
		return
	}

	payload := map[string]string{"gameweekId": gameweekID}
	if err := s.jobs.Enqueue(ctx, pullStatsJobPath, payload, 0, "pull-stats-"+gameweekID); err != nil {
		s.logger.ErrorContext(ctx, "enqueue pull-stats job failed", "gameweek_id", gameweekID, "error", err)
	}
	if err := s.jobs.Enqueue(ctx, scoreGameweekJobPath, payload, 2*time.Minute, "score-"+gameweekID); err != nil {
		s.logger.ErrorContext(ctx, "enqueue score-gameweek job failed", "gameweek_id", gameweekID, "error", err)
	}
}
