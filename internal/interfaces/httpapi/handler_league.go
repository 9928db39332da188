package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tryline/fantasy-rugby/internal/domain/league"
	"github.com/tryline/fantasy-rugby/internal/usecase"
)

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createLeagueRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.leagueService.CreateLeague(ctx, principal.UserID, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "create league failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, leagueToDTO(created))
}

func (h *Handler) JoinLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req joinLeagueRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	joined, err := h.leagueService.JoinLeague(ctx, principal.UserID, req.InviteCode)
	if err != nil {
		h.logger.WarnContext(ctx, "join league failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(joined))
}

func (h *Handler) ListMyLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyLeagues")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	items, err := h.leagueService.ListMyLeagues(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list leagues failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]leagueDTO, 0, len(items))
	for _, l := range items {
		out = append(out, leagueToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetLeagueStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueStandings")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	standings, err := h.leagueService.Standings(ctx, leagueID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "league standings failed", "league_id", leagueID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]standingDTO, 0, len(standings))
	for _, s := range standings {
		out = append(out, standingDTO{
			Rank:        s.Rank,
			UserID:      s.UserID,
			SquadName:   s.SquadName,
			TotalPoints: s.TotalPoints,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

type createLeagueRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type joinLeagueRequest struct {
	InviteCode string `json:"inviteCode" validate:"required,len=8"`
}

type leagueDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	InviteCode string `json:"inviteCode"`
	CreatorID  string `json:"creatorId"`
}

type standingDTO struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"userId"`
	SquadName   string `json:"squadName"`
	TotalPoints int    `json:"totalPoints"`
}

func leagueToDTO(v league.League) leagueDTO {
	return leagueDTO{
		ID:         v.ID,
		Name:       v.Name,
		InviteCode: v.InviteCode,
		CreatorID:  v.CreatorID,
	}
}
