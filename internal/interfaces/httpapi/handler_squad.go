package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tryline/fantasy-rugby/internal/domain/roster"
	"github.com/tryline/fantasy-rugby/internal/usecase"
)

func (h *Handler) GetMySquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMySquad")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	squad, err := h.rosterService.GetSquad(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get squad failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(squad))
}

func (h *Handler) SaveMySquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveMySquad")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req saveSquadRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	squad, err := h.rosterService.SaveSquad(ctx, usecase.SaveSquadInput{
		UserID:    principal.UserID,
		Name:      req.Name,
		Starters:  req.Starters,
		Bench:     req.Bench,
		CaptainID: req.CaptainID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save squad failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(squad))
}

type saveSquadRequest struct {
	Name      string   `json:"name" validate:"required,max=100"`
	Starters  []string `json:"starters" validate:"required,len=13,dive,required"`
	Bench     []string `json:"bench" validate:"required,len=4,dive,required"`
	CaptainID string   `json:"captainId" validate:"required"`
}

type squadDTO struct {
	ID             string   `json:"id"`
	UserID         string   `json:"userId"`
	Name           string   `json:"name"`
	Starters       []string `json:"starters"`
	Bench          []string `json:"bench"`
	CaptainID      string   `json:"captainId"`
	Bank           int64    `json:"bank"`
	TeamValue      int64    `json:"teamValue"`
	GameweekPoints int      `json:"gameweekPoints"`
	TotalPoints    int      `json:"totalPoints"`
	UpdatedAtUTC   string   `json:"updatedAtUtc"`
}

func squadToDTO(v roster.Squad) squadDTO {
	return squadDTO{
		ID:             v.ID,
		UserID:         v.UserID,
		Name:           v.Name,
		Starters:       append([]string(nil), v.Starters...),
		Bench:          append([]string(nil), v.Bench...),
		CaptainID:      v.CaptainID,
		Bank:           v.Bank,
		TeamValue:      v.TeamValue,
		GameweekPoints: v.GameweekPoints,
		TotalPoints:    v.TotalPoints,
		UpdatedAtUTC:   v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
