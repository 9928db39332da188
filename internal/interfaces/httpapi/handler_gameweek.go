package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/tryline/fantasy-rugby/internal/domain/gameweek"
	"github.com/tryline/fantasy-rugby/internal/usecase"
)

func (h *Handler) ListGameweeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGameweeks")
	defer span.End()

	items, err := h.gameweekService.ListGameweeks(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list gameweeks failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]gameweekDTO, 0, len(items))
	for _, gw := range items {
		out = append(out, gameweekToDTO(gw))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameweek")
	defer span.End()

	gameweekID := strings.TrimSpace(r.PathValue("gameweekID"))
	gw, err := h.gameweekService.GetGameweek(ctx, gameweekID)
	if err != nil {
		h.logger.WarnContext(ctx, "get gameweek failed", "gameweek_id", gameweekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameweekToDTO(gw))
}

func (h *Handler) GetCurrentGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentGameweek")
	defer span.End()

	gw, err := h.gameweekService.GetCurrentGameweek(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get current gameweek failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameweekToDTO(gw))
}

func (h *Handler) CreateGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGameweek")
	defer span.End()

	var req createGameweekRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	gw, err := h.gameweekService.CreateGameweek(ctx, usecase.CreateGameweekInput{
		Round:    req.Round,
		Deadline: req.Deadline,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create gameweek failed", "round", req.Round, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, gameweekToDTO(gw))
}

func (h *Handler) SetCurrentGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetCurrentGameweek")
	defer span.End()

	gameweekID := strings.TrimSpace(r.PathValue("gameweekID"))
	gw, err := h.gameweekService.SetCurrentGameweek(ctx, gameweekID)
	if err != nil {
		h.logger.WarnContext(ctx, "set current gameweek failed", "gameweek_id", gameweekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameweekToDTO(gw))
}

func (h *Handler) FinishGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinishGameweek")
	defer span.End()

	gameweekID := strings.TrimSpace(r.PathValue("gameweekID"))
	if err := h.gameweekService.FinishGameweek(ctx, gameweekID); err != nil {
		h.logger.WarnContext(ctx, "finish gameweek failed", "gameweek_id", gameweekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"gameweekId": gameweekID, "status": "finished"})
}

type createGameweekRequest struct {
	Round    int       `json:"round" validate:"min=0"`
	Deadline time.Time `json:"deadline"`
}

type gameweekDTO struct {
	ID         string `json:"id"`
	Round      int    `json:"round"`
	Deadline   string `json:"deadline,omitempty"`
	IsCurrent  bool   `json:"isCurrent"`
	IsFinished bool   `json:"isFinished"`
}

func gameweekToDTO(v gameweek.Gameweek) gameweekDTO {
	dto := gameweekDTO{
		ID:         v.ID,
		Round:      v.Round,
		IsCurrent:  v.IsCurrent,
		IsFinished: v.IsFinished,
	}
	if !v.Deadline.IsZero() {
		dto.Deadline = v.Deadline.UTC().Format(time.RFC3339)
	}

	return dto
}
