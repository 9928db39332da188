package httpapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/tryline/fantasy-rugby/internal/usecase"
)

type Handler struct {
	playerService    *usecase.PlayerService
	gameweekService  *usecase.GameweekService
	rosterService    *usecase.RosterService
	transferService  *usecase.TransferService
	scoringService   *usecase.ScoringService
	ingestionService *usecase.IngestionService
	leagueService    *usecase.LeagueService
	logger           *slog.Logger
	validator        *validator.Validate
}

func NewHandler(
	playerService *usecase.PlayerService,
	gameweekService *usecase.GameweekService,
	rosterService *usecase.RosterService,
	transferService *usecase.TransferService,
	scoringService *usecase.ScoringService,
	ingestionService *usecase.IngestionService,
	leagueService *usecase.LeagueService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		playerService:    playerService,
		gameweekService:  gameweekService,
		rosterService:    rosterService,
		transferService:  transferService,
		scoringService:   scoringService,
		ingestionService: ingestionService,
		leagueService:    leagueService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeRequest(ctx context.Context, body io.Reader, target any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.decodeRequest")
	defer span.End()

	decoder := jsoniter.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, target)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
