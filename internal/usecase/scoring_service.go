package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/tryline/fantasy-rugby/internal/domain/gameweek"
	"github.com/tryline/fantasy-rugby/internal/domain/player"
	"github.com/tryline/fantasy-rugby/internal/domain/roster"
	"github.com/tryline/fantasy-rugby/internal/domain/stats"
	"github.com/tryline/fantasy-rugby/internal/platform/resilience"
)

const defaultScoringWorkers = 8

type ScoringService struct {
	playerRepo   player.Repository
	squadRepo    roster.Repository
	scoreRepo    roster.ScoreRepository
	statsRepo    stats.Repository
	ruleRepo     stats.RuleRepository
	gameweekRepo gameweek.Repository
	logger       *slog.Logger
	now          func() time.Time
	runFlight    resilience.SingleFlight
	maxWorkers   int
}

func NewScoringService(
	playerRepo player.Repository,
	squadRepo roster.Repository,
	scoreRepo roster.ScoreRepository,
	statsRepo stats.Repository,
	ruleRepo stats.RuleRepository,
	gameweekRepo gameweek.Repository,
	logger *slog.Logger,
) *ScoringService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ScoringService{
		playerRepo:   playerRepo,
		squadRepo:    squadRepo,
		scoreRepo:    scoreRepo,
		statsRepo:    statsRepo,
		ruleRepo:     ruleRepo,
		gameweekRepo: gameweekRepo,
		logger:       logger,
		now:          time.Now,
		maxWorkers:   defaultScoringWorkers,
	}
}

// ScoringRunSummary reports the outcome of one scoring pass.
type ScoringRunSummary struct {
	GameweekID    string
	SquadsScored  int
	SquadsFailed  int
	PointsAwarded int
}

// RunGameweek scores every squad against the stat rows recorded for one
// gameweek. Concurrent runs for the same gameweek collapse into a single
// pass, and re-running after corrected stats replaces each squad's score
// record rather than double counting it.
func (s *ScoringService) RunGameweek(ctx context.Context, gameweekID string) (ScoringRunSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RunGameweek")
	defer span.End()

	gameweekID = strings.TrimSpace(gameweekID)
	if gameweekID == "" {
		return ScoringRunSummary{}, fmt.Errorf("%w: gameweek id is required", ErrInvalidInput)
	}

	v, err, _ := s.runFlight.Do("scoring:run:"+gameweekID, func() (any, error) {
		return s.runGameweekOnce(ctx, gameweekID)
	})
	if err != nil {
		return ScoringRunSummary{}, err
	}

	summary, _ := v.(ScoringRunSummary)
	return summary, nil
}

func (s *ScoringService) runGameweekOnce(ctx context.Context, gameweekID string) (ScoringRunSummary, error) {
	gw, exists, err := s.gameweekRepo.GetByID(ctx, gameweekID)
	if err != nil {
		return ScoringRunSummary{}, fmt.Errorf("get gameweek: %w", err)
	}
	if !exists {
		return ScoringRunSummary{}, fmt.Errorf("%w: gameweek %s", ErrNotFound, gameweekID)
	}

	records, err := s.statsRepo.ListByGameweek(ctx, gw.ID)
	if err != nil {
		return ScoringRunSummary{}, fmt.Errorf("list gameweek stats: %w", err)
	}
	recordsByPlayer := make(map[string]stats.GameweekStats, len(records))
	for _, rec := range records {
		recordsByPlayer[rec.PlayerID] = rec
	}

	squads, err := s.squadRepo.List(ctx)
	if err != nil {
		return ScoringRunSummary{}, fmt.Errorf("list squads: %w", err)
	}
	if len(squads) == 0 {
		return ScoringRunSummary{GameweekID: gw.ID}, nil
	}

	pool, err := s.loadSquadPlayers(ctx, squads)
	if err != nil {
		return ScoringRunSummary{}, err
	}

	workerCount := s.maxWorkers
	if workerCount > len(squads) {
		workerCount = len(squads)
	}
	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return ScoringRunSummary{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var (
		workers sync.WaitGroup
		scored  atomic.Int32
		failed  atomic.Int32
		awarded atomic.Int64

		errMu    sync.Mutex
		firstErr error
	)

	for _, squad := range squads {
		squad := squad
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			if runErr := s.scoreSquad(ctx, squad, gw.ID, pool, recordsByPlayer, &awarded); runErr != nil {
				failed.Add(1)
				errMu.Lock()
				if firstErr == nil {
					firstErr = runErr
				}
				errMu.Unlock()
				return
			}
			scored.Add(1)
		}); err != nil {
			workers.Done()
			failed.Add(1)
		}
	}
	workers.Wait()

	if firstErr != nil {
		return ScoringRunSummary{}, fmt.Errorf("score squads for gameweek %s: %w", gw.ID, firstErr)
	}

	summary := ScoringRunSummary{
		GameweekID:    gw.ID,
		SquadsScored:  int(scored.Load()),
		SquadsFailed:  int(failed.Load()),
		PointsAwarded: int(awarded.Load()),
	}

	s.logger.InfoContext(ctx, "scoring run complete",
		"gameweek_id", gw.ID,
		"round", gw.Round,
		"squads_scored", summary.SquadsScored,
		"points_awarded", summary.PointsAwarded,
	)

	return summary, nil
}

func (s *ScoringService) scoreSquad(
	ctx context.Context,
	squad roster.Squad,
	gameweekID string,
	pool map[string]player.Player,
	records map[string]stats.GameweekStats,
	awarded *atomic.Int64,
) error {
	score := roster.ScoreGameweek(squad, gameweekID, pool, records)

	if err := s.scoreRepo.UpsertScore(ctx, roster.ScoreRecord{
		SquadID:    squad.ID,
		GameweekID: gameweekID,
		Points:     score.Total,
		ScoredAt:   s.now().UTC(),
	}); err != nil {
		return fmt.Errorf("upsert score for squad %s: %w", squad.ID, err)
	}

	history, err := s.scoreRepo.ListScoresBySquad(ctx, squad.ID)
	if err != nil {
		return fmt.Errorf("list scores for squad %s: %w", squad.ID, err)
	}

	total := 0
	for _, rec := range history {
		total += rec.Points
	}

	if err := s.squadRepo.UpdatePoints(ctx, squad.ID, score.Total, total); err != nil {
		return fmt.Errorf("update points for squad %s: %w", squad.ID, err)
	}

	awarded.Add(int64(score.Total))
	return nil
}

func (s *ScoringService) loadSquadPlayers(ctx context.Context, squads []roster.Squad) (map[string]player.Player, error) {
	idSet := make(map[string]struct{})
	for _, squad := range squads {
		for _, id := range squad.AllPlayerIDs() {
			idSet[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	players, err := s.playerRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get squad players: %w", err)
	}

	pool := make(map[string]player.Player, len(players))
	for _, p := range players {
		pool[p.ID] = p
	}

	return pool, nil
}

// ListScoringRules returns the active scoring table.
func (s *ScoringService) ListScoringRules(ctx context.Context) ([]stats.ScoringRule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ListScoringRules")
	defer span.End()

	rules, err := s.ruleRepo.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scoring rules: %w", err)
	}

	return rules, nil
}

// UpdateScoringRules replaces point values for the named stats. Unknown stat
// names are rejected; stats not named keep their current value.
func (s *ScoringService) UpdateScoringRules(ctx context.Context, rules []stats.ScoringRule) ([]stats.ScoringRule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.UpdateScoringRules")
	defer span.End()

	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: at least one rule is required", ErrInvalidInput)
	}
	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	if err := s.ruleRepo.UpdateRules(ctx, rules); err != nil {
		return nil, fmt.Errorf("update scoring rules: %w", err)
	}

	s.logger.InfoContext(ctx, "scoring rules updated", "rule_count", len(rules))
	return s.ruleRepo.ListRules(ctx)
}
