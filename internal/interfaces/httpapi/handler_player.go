package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/tryline/fantasy-rugby/internal/domain/player"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	query := r.URL.Query()
	filter := player.ListFilter{
		Club:     strings.TrimSpace(query.Get("club")),
		Position: player.Position(strings.TrimSpace(query.Get("position"))),
	}
	filter.Page, _ = strconv.Atoi(query.Get("page"))
	filter.PageSize, _ = strconv.Atoi(query.Get("page_size"))

	page, err := h.playerService.ListPlayers(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(page.Items))
	for _, p := range page.Items {
		items = append(items, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, playerPageDTO{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	item, err := h.playerService.GetPlayer(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) UpdatePlayerPrice(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayerPrice")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	var req updatePriceRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.playerService.UpdatePrice(ctx, playerID, req.Price)
	if err != nil {
		h.logger.WarnContext(ctx, "update player price failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

type updatePriceRequest struct {
	Price int64 `json:"price" validate:"required,min=1"`
}

type playerDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Club        string `json:"club"`
	Position    string `json:"position"`
	Price       int64  `json:"price"`
	TotalPoints int    `json:"totalPoints"`
}

type playerPageDTO struct {
	Items    []playerDTO `json:"items"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{
		ID:          v.ID,
		Name:        v.Name,
		Club:        v.Club,
		Position:    string(v.Position),
		Price:       v.Price,
		TotalPoints: v.TotalPoints,
	}
}
