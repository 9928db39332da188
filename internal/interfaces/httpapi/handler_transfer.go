package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tryline/fantasy-rugby/internal/domain/transfer"
	"github.com/tryline/fantasy-rugby/internal/usecase"
)

func (h *Handler) GetTransferAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTransferAvailability")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	availability, err := h.transferService.Availability(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "transfer availability failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transferAvailabilityDTO{
		GameweekID:     availability.GameweekID,
		Used:           availability.Used,
		Remaining:      availability.Remaining,
		MaxPerWeek:     availability.MaxPerWeek,
		Bank:           availability.Bank,
		Unlimited:      availability.Unlimited,
		DeadlinePassed: availability.DeadlinePassed,
	})
}

func (h *Handler) MakeTransfer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MakeTransfer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req makeTransferRequest
	if err := h.decodeRequest(ctx, r.Body, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	applied, err := h.transferService.MakeTransfer(ctx, usecase.MakeTransferInput{
		UserID:      principal.UserID,
		PlayerOutID: req.PlayerOutID,
		PlayerInID:  req.PlayerInID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "make transfer failed",
			"user_id", principal.UserID,
			"player_out", req.PlayerOutID,
			"player_in", req.PlayerInID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, transferToDTO(applied))
}

func (h *Handler) ListMyTransfers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyTransfers")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	items, err := h.transferService.History(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list transfers failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]transferDTO, 0, len(items))
	for _, t := range items {
		out = append(out, transferToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

type makeTransferRequest struct {
	PlayerOutID string `json:"playerOutId" validate:"required"`
	PlayerInID  string `json:"playerInId" validate:"required"`
}

type transferAvailabilityDTO struct {
	GameweekID     string `json:"gameweekId"`
	Used           int    `json:"used"`
	Remaining      int    `json:"remaining"`
	MaxPerWeek     int    `json:"maxPerWeek"`
	Bank           int64  `json:"bank"`
	Unlimited      bool   `json:"unlimited"`
	DeadlinePassed bool   `json:"deadlinePassed"`
}

type transferDTO struct {
	ID           string `json:"id"`
	GameweekID   string `json:"gameweekId"`
	PlayerOutID  string `json:"playerOutId"`
	PlayerInID   string `json:"playerInId"`
	SoldFor      int64  `json:"soldFor"`
	BoughtFor    int64  `json:"boughtFor"`
	CreatedAtUTC string `json:"createdAtUtc"`
}

func transferToDTO(v transfer.Transfer) transferDTO {
	return transferDTO{
		ID:           v.ID,
		GameweekID:   v.GameweekID,
		PlayerOutID:  v.PlayerOutID,
		PlayerInID:   v.PlayerInID,
		SoldFor:      v.SoldFor,
		BoughtFor:    v.BoughtFor,
		CreatedAtUTC: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
