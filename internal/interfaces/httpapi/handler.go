package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/crease-analytics/rinkline/internal/domain/roster"
	"github.com/crease-analytics/rinkline/internal/domain/shift"
	"github.com/crease-analytics/rinkline/internal/platform/logging"
	"github.com/crease-analytics/rinkline/internal/usecase"
)

const maxBatchBodyBytes = 1 << 20

type Handler struct {
	gameService    *usecase.GameService
	catalogService *usecase.CatalogService
	batchService   *usecase.BatchService
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	gameService *usecase.GameService,
	catalogService *usecase.CatalogService,
	batchService *usecase.BatchService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		gameService:    gameService,
		catalogService: catalogService,
		batchService:   batchService,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Readyz")
	defer span.End()

	if h.gameService == nil || h.catalogService == nil {
		writeError(ctx, w, fmt.Errorf("%w: services not wired", usecase.ErrDependencyUnavailable))
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) GetGameTimeline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameTimeline")
	defer span.End()

	gameID, err := parseGameID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	tl, err := h.gameService.GetTimeline(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get timeline failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tl)
}

func (h *Handler) GetGameRosters(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameRosters")
	defer span.End()

	gameID, err := parseGameID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.gameService.GetRosters(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get rosters failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rosterEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, rosterEntryToDTO(entry))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGameShifts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameShifts")
	defer span.End()

	gameID, err := parseGameID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	intervals, err := h.gameService.GetShifts(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "get shifts failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]shiftIntervalDTO, 0, len(intervals))
	for _, interval := range intervals {
		items = append(items, shiftIntervalToDTO(interval))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

type reconcileGamesRequest struct {
	GameIDs []int64 `json:"gameIds" validate:"required,min=1,max=50,dive,gt=0"`
}

type reconcileGameResultDTO struct {
	GameID     int64  `json:"gameId"`
	Rows       int    `json:"rows"`
	DurationMS int64  `json:"durationMs"`
	Error      string `json:"error,omitempty"`
}

type reconcileGamesResponse struct {
	Succeeded int                      `json:"succeeded"`
	Failed    int                      `json:"failed"`
	Results   []reconcileGameResultDTO `json:"results"`
}

func (h *Handler) ReconcileGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReconcileGames")
	defer span.End()

	var req reconcileGamesRequest
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxBatchBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validator.StructCtx(ctx, req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	result, err := h.batchService.ReconcileGames(ctx, req.GameIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "batch reconcile failed", "games", len(req.GameIDs), "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]reconcileGameResultDTO, 0, len(result.Results))
	for _, game := range result.Results {
		item := reconcileGameResultDTO{
			GameID:     game.GameID,
			DurationMS: game.Duration.Milliseconds(),
		}
		if game.Timeline != nil {
			item.Rows = len(game.Timeline.Rows)
		}
		if game.Err != nil {
			item.Error = game.Err.Error()
		}
		items = append(items, item)
	}

	writeSuccess(ctx, w, http.StatusOK, reconcileGamesResponse{
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		Results:   items,
	})
}

func (h *Handler) GetClubSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetClubSchedule")
	defer span.End()

	games, err := h.catalogService.GetClubSchedule(ctx, r.PathValue("teamSlug"), r.PathValue("season"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, games)
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	standings, err := h.catalogService.GetStandings(ctx, r.PathValue("date"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, standings)
}

func (h *Handler) GetDraftPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDraftPicks")
	defer span.End()

	picks, err := h.catalogService.GetDraftPicks(ctx, r.PathValue("year"), r.PathValue("round"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, picks)
}

func (h *Handler) GetDraftRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDraftRankings")
	defer span.End()

	category, err := strconv.Atoi(r.PathValue("category"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: ranking category %q is not a number", usecase.ErrInvalidInput, r.PathValue("category")))
		return
	}

	rankings, err := h.catalogService.GetDraftRankings(ctx, r.PathValue("year"), category)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, rankings)
}

func (h *Handler) ListFranchises(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFranchises")
	defer span.End()

	franchises, err := h.catalogService.GetFranchises(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, franchises)
}

func parseGameID(r *http.Request) (int64, error) {
	raw := r.PathValue("gameId")
	gameID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: game id %q is not a number", usecase.ErrInvalidInput, raw)
	}
	return gameID, nil
}

type rosterEntryDTO struct {
	PlayerID     int64  `json:"playerId"`
	TeamID       int64  `json:"teamId"`
	TeamAbbrev   string `json:"teamAbbrev"`
	Side         string `json:"side"`
	JerseyNumber int    `json:"jerseyNumber"`
	FullName     string `json:"fullName"`
	PositionCode string `json:"positionCode"`
	Position     string `json:"position"`
	Headshot     string `json:"headshot,omitempty"`
}

func rosterEntryToDTO(entry roster.Entry) rosterEntryDTO {
	return rosterEntryDTO{
		PlayerID:     entry.PlayerID,
		TeamID:       entry.TeamID,
		TeamAbbrev:   entry.TeamAbbrev,
		Side:         string(entry.Side),
		JerseyNumber: entry.JerseyNumber,
		FullName:     entry.FullName(),
		PositionCode: entry.PositionCode,
		Position:     entry.Position(),
		Headshot:     entry.Headshot,
	}
}

type shiftIntervalDTO struct {
	ID              int64  `json:"id"`
	PlayerID        int64  `json:"playerId"`
	FullName        string `json:"fullName"`
	JerseyNumber    int    `json:"jerseyNumber"`
	TeamID          int64  `json:"teamId"`
	TeamAbbrev      string `json:"teamAbbrev"`
	Side            string `json:"side"`
	Position        string `json:"position"`
	Period          int    `json:"period"`
	StartSeconds    int    `json:"startSeconds"`
	EndSeconds      int    `json:"endSeconds"`
	ShiftNumber     int    `json:"shiftNumber"`
	StartType       string `json:"startType"`
	EndType         string `json:"endType"`
	ZoneStart       string `json:"zoneStart,omitempty"`
	ZoneStartDetail string `json:"zoneStartDetail,omitempty"`
}

func shiftIntervalToDTO(interval shift.Interval) shiftIntervalDTO {
	return shiftIntervalDTO{
		ID:              interval.ID,
		PlayerID:        interval.PlayerID,
		FullName:        interval.FullName,
		JerseyNumber:    interval.JerseyNumber,
		TeamID:          interval.TeamID,
		TeamAbbrev:      interval.TeamAbbrev,
		Side:            string(interval.Side),
		Position:        string(interval.Class),
		Period:          interval.Period,
		StartSeconds:    interval.StartSeconds,
		EndSeconds:      interval.EndSeconds,
		ShiftNumber:     interval.ShiftNumber,
		StartType:       string(interval.StartType),
		EndType:         string(interval.EndType),
		ZoneStart:       interval.ZoneStart,
		ZoneStartDetail: interval.ZoneStartDetail,
	}
}
