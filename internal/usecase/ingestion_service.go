package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	crerr "github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"
	"github.com/tryline/fantasy-rugby/internal/domain/gameweek"
	"github.com/tryline/fantasy-rugby/internal/domain/player"
	"github.com/tryline/fantasy-rugby/internal/domain/stats"
)

const defaultIngestionWorkers = 8

// StatsFeed pulls raw match stats from the upstream provider.
type StatsFeed interface {
	FetchGameweekStats(ctx context.Context, round int) ([]stats.GameweekStats, error)
}

type IngestionService struct {
	playerRepo   player.Repository
	statsRepo    stats.Repository
	ruleRepo     stats.RuleRepository
	gameweekRepo gameweek.Repository
	feed         StatsFeed
	logger       *slog.Logger
	maxWorkers   int
}

func NewIngestionService(
	playerRepo player.Repository,
	statsRepo stats.Repository,
	ruleRepo stats.RuleRepository,
	gameweekRepo gameweek.Repository,
	feed StatsFeed,
	logger *slog.Logger,
) *IngestionService {
	if logger == nil {
		logger = slog.Default()
	}

	return &IngestionService{
		playerRepo:   playerRepo,
		statsRepo:    statsRepo,
		ruleRepo:     ruleRepo,
		gameweekRepo: gameweekRepo,
		feed:         feed,
		logger:       logger,
		maxWorkers:   defaultIngestionWorkers,
	}
}

// IngestSummary reports one stat ingestion pass.
type IngestSummary struct {
	GameweekID   string
	RowsUpserted int
	Players      int
}

// IngestGameweekStats prices each raw stat row against the active scoring
// table and stores it keyed on (player, gameweek), so corrected rows replace
// earlier ones. Player season totals are recomputed afterwards.
func (s *IngestionService) IngestGameweekStats(ctx context.Context, gameweekID string, records []stats.GameweekStats) (IngestSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.IngestGameweekStats")
	defer span.End()

	gameweekID = strings.TrimSpace(gameweekID)
	if gameweekID == "" {
		return IngestSummary{}, fmt.Errorf("%w: gameweek id is required", ErrInvalidInput)
	}
	if len(records) == 0 {
		return IngestSummary{}, fmt.Errorf("%w: at least one stat row is required", ErrInvalidInput)
	}

	gw, exists, err := s.gameweekRepo.GetByID(ctx, gameweekID)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("get gameweek: %w", err)
	}
	if !exists {
		return IngestSummary{}, fmt.Errorf("%w: gameweek %s", ErrNotFound, gameweekID)
	}

	for i := range records {
		records[i].GameweekID = gw.ID
		if err := records[i].Validate(); err != nil {
			return IngestSummary{}, fmt.Errorf("%w: row %d: %v", ErrInvalidInput, i, err)
		}
	}

	rules, err := s.ruleRepo.ListRules(ctx)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("list scoring rules: %w", err)
	}
	table := stats.NewTable(rules)

	var upserted atomic.Int32
	workers := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(s.maxWorkers)
	for _, rec := range records {
		rec := rec
		workers.Go(func(ctx context.Context) error {
			rec.Points = stats.CalculatePoints(rec, table)
			if err := s.statsRepo.Upsert(ctx, rec); err != nil {
				return fmt.Errorf("upsert stats for player %s: %w", rec.PlayerID, err)
			}
			upserted.Add(1)
			return nil
		})
	}
	if err := workers.Wait(); err != nil {
		return IngestSummary{}, err
	}

	playerIDs := make(map[string]struct{}, len(records))
	for _, rec := range records {
		playerIDs[rec.PlayerID] = struct{}{}
	}
	if err := s.recomputePlayerTotals(ctx, playerIDs); err != nil {
		return IngestSummary{}, err
	}

	summary := IngestSummary{
		GameweekID:   gw.ID,
		RowsUpserted: int(upserted.Load()),
		Players:      len(playerIDs),
	}

	s.logger.InfoContext(ctx, "gameweek stats ingested",
		"gameweek_id", gw.ID,
		"round", gw.Round,
		"rows", summary.RowsUpserted,
	)

	return summary, nil
}

// PullFromFeed fetches the round's stats from the upstream provider and
// ingests them.
func (s *IngestionService) PullFromFeed(ctx context.Context, gameweekID string) (IngestSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.PullFromFeed")
	defer span.End()

	if s.feed == nil {
		return IngestSummary{}, fmt.Errorf("%w: no stats feed configured", ErrDependencyUnavailable)
	}

	gameweekID = strings.TrimSpace(gameweekID)
	if gameweekID == "" {
		return IngestSummary{}, fmt.Errorf("%w: gameweek id is required", ErrInvalidInput)
	}

	gw, exists, err := s.gameweekRepo.GetByID(ctx, gameweekID)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("get gameweek: %w", err)
	}
	if !exists {
		return IngestSummary{}, fmt.Errorf("%w: gameweek %s", ErrNotFound, gameweekID)
	}

	records, err := s.feed.FetchGameweekStats(ctx, gw.Round)
	if err != nil {
		return IngestSummary{}, crerr.Wrapf(ErrDependencyUnavailable, "fetch stats for round %d: %v", gw.Round, err)
	}
	if len(records) == 0 {
		s.logger.WarnContext(ctx, "stats feed returned no rows", "gameweek_id", gw.ID, "round", gw.Round)
		return IngestSummary{GameweekID: gw.ID}, nil
	}

	return s.IngestGameweekStats(ctx, gw.ID, records)
}

func (s *IngestionService) recomputePlayerTotals(ctx context.Context, playerIDs map[string]struct{}) error {
	workers := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(s.maxWorkers)
	for id := range playerIDs {
		id := id
		workers.Go(func(ctx context.Context) error {
			total, err := s.statsRepo.SumPointsByPlayer(ctx, id)
			if err != nil {
				return fmt.Errorf("sum points for player %s: %w", id, err)
			}
			if err := s.playerRepo.UpdateTotalPoints(ctx, id, total); err != nil {
				return fmt.Errorf("update total points for player %s: %w", id, err)
			}
			return nil
		})
	}

	return workers.Wait()
}
