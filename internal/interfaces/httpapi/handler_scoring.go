package httpapi

import (
	"net/http"
	"strings"

	"github.com/tryline/fantasy-rugby/internal/domain/stats"
)

func (h *Handler) ListScoringRules(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListScoringRules")
	defer span.End()

	rules, err := h.scoringService.ListScoringRules(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list scoring rules failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rulesToDTO(rules))
}

func (h *Handler) UpdateScoringRules(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateScoringRules")
	defer span.End()

	var req updateScoringRulesRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rules := make([]stats.ScoringRule, 0, len(req.Rules))
	for _, rule := range req.Rules {
		rules = append(rules, stats.ScoringRule{
			StatName:    rule.StatName,
			PointsValue: rule.PointsValue,
		})
	}

	updated, err := h.scoringService.UpdateScoringRules(ctx, rules)
	if err != nil {
		h.logger.WarnContext(ctx, "update scoring rules failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rulesToDTO(updated))
}

func (h *Handler) IngestGameweekStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestGameweekStats")
	defer span.End()

	gameweekID := strings.TrimSpace(r.PathValue("gameweekID"))
	var req ingestStatsRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rows := make([]stats.GameweekStats, 0, len(req.Rows))
	for _, row := range req.Rows {
		rows = append(rows, row.toDomain())
	}

	summary, err := h.ingestionService.IngestGameweekStats(ctx, gameweekID, rows)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest stats failed", "gameweek_id", gameweekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ingestSummaryDTO{
		GameweekID:   summary.GameweekID,
		RowsUpserted: summary.RowsUpserted,
		Players:      summary.Players,
	})
}

func (h *Handler) RunPullStatsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPullStatsJob")
	defer span.End()

	var req gameweekJobRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.ingestionService.PullFromFeed(ctx, req.GameweekID)
	if err != nil {
		h.logger.ErrorContext(ctx, "pull stats job failed", "gameweek_id", req.GameweekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ingestSummaryDTO{
		GameweekID:   summary.GameweekID,
		RowsUpserted: summary.RowsUpserted,
		Players:      summary.Players,
	})
}

func (h *Handler) RunScoreGameweekJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScoreGameweekJob")
	defer span.End()

	var req gameweekJobRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.scoringService.RunGameweek(ctx, req.GameweekID)
	if err != nil {
		h.logger.ErrorContext(ctx, "score gameweek job failed", "gameweek_id", req.GameweekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoringRunDTO{
		GameweekID:    summary.GameweekID,
		SquadsScored:  summary.SquadsScored,
		SquadsFailed:  summary.SquadsFailed,
		PointsAwarded: summary.PointsAwarded,
	})
}

type scoringRuleDTO struct {
	StatName    string  `json:"statName" validate:"required"`
	PointsValue float64 `json:"pointsValue"`
}

type updateScoringRulesRequest struct {
	Rules []scoringRuleDTO `json:"rules" validate:"required,min=1,dive"`
}

type gameweekJobRequest struct {
	GameweekID string `json:"gameweekId" validate:"required"`
}

type ingestSummaryDTO struct {
	GameweekID   string `json:"gameweekId"`
	RowsUpserted int    `json:"rowsUpserted"`
	Players      int    `json:"players"`
}

type scoringRunDTO struct {
	GameweekID    string `json:"gameweekId"`
	SquadsScored  int    `json:"squadsScored"`
	SquadsFailed  int    `json:"squadsFailed"`
	PointsAwarded int    `json:"pointsAwarded"`
}

type ingestStatsRequest struct {
	Rows []statRowDTO `json:"rows" validate:"required,min=1,dive"`
}

type statRowDTO struct {
	PlayerID string `json:"playerId" validate:"required"`
	Played   bool   `json:"played"`

	Metres         int `json:"metres"`
	Carries        int `json:"carries"`
	Tackles        int `json:"tackles"`
	MarkerTackles  int `json:"markerTackles"`
	Offloads       int `json:"offloads"`
	RunsFromDH     int `json:"runsFromDummyHalf"`
	AttackingKicks int `json:"attackingKicks"`
	Tries          int `json:"tries"`
	TryAssists     int `json:"tryAssists"`
	Goals          int `json:"goals"`
	DropGoals      int `json:"dropGoals"`
	TackleBusts    int `json:"tackleBusts"`
	CleanBreaks    int `json:"cleanBreaks"`
	FortyTwenty    int `json:"fortyTwenty"`
	Errors         int `json:"errors"`
	Penalties      int `json:"penalties"`
	YellowCards    int `json:"yellowCards"`
	RedCards       int `json:"redCards"`
}

func (d statRowDTO) toDomain() stats.GameweekStats {
	return stats.GameweekStats{
		PlayerID:       d.PlayerID,
		Played:         d.Played,
		Metres:         d.Metres,
		Carries:        d.Carries,
		Tackles:        d.Tackles,
		MarkerTackles:  d.MarkerTackles,
		Offloads:       d.Offloads,
		RunsFromDH:     d.RunsFromDH,
		AttackingKicks: d.AttackingKicks,
		Tries:          d.Tries,
		TryAssists:     d.TryAssists,
		Goals:          d.Goals,
		DropGoals:      d.DropGoals,
		TackleBusts:    d.TackleBusts,
		CleanBreaks:    d.CleanBreaks,
		FortyTwenty:    d.FortyTwenty,
		Errors:         d.Errors,
		Penalties:      d.Penalties,
		YellowCards:    d.YellowCards,
		RedCards:       d.RedCards,
	}
}

func rulesToDTO(rules []stats.ScoringRule) []scoringRuleDTO {
	out := make([]scoringRuleDTO, 0, len(rules))
	for _, rule := range rules {
		out = append(out, scoringRuleDTO{
			StatName:    rule.StatName,
			PointsValue: rule.PointsValue,
		})
	}

	return out
}
