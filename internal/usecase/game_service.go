package usecase

import (
	"context"
	"fmt"

	"github.com/crease-analytics/rinkline/internal/domain/roster"
	"github.com/crease-analytics/rinkline/internal/domain/shift"
	"github.com/crease-analytics/rinkline/internal/domain/timeline"
	"github.com/crease-analytics/rinkline/internal/platform/cache"
	"github.com/crease-analytics/rinkline/internal/platform/logging"
)

// GameService serves reconciled game data. Finished games never change, so
// results are cached per game id behind an LRU; the reconcile core itself
// stays cache-free.
type GameService struct {
	provider  GameDataProvider
	reconcile *ReconcileService
	store     *cache.Store
	logger    *logging.Logger
}

func NewGameService(provider GameDataProvider, reconcile *ReconcileService, store *cache.Store, logger *logging.Logger) *GameService {
	if logger == nil {
		logger = logging.Default()
	}
	return &GameService{
		provider:  provider,
		reconcile: reconcile,
		store:     store,
		logger:    logger,
	}
}

// NHL game ids are ten digits: season, game type, game number.
const (
	minGameID = 1_000_000_000
	maxGameID = 9_999_999_999
)

func validateGameID(gameID int64) error {
	if gameID < minGameID || gameID > maxGameID {
		return fmt.Errorf("%w: game id %d must have 10 digits", ErrInvalidInput, gameID)
	}
	return nil
}

// GetTimeline returns the merged timeline for one game, reconciling on a
// cache miss.
func (s *GameService) GetTimeline(ctx context.Context, gameID int64) (*timeline.Timeline, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GetTimeline")
	defer span.End()

	if err := validateGameID(gameID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("timeline:%d", gameID)
	value, err := s.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		bundle, err := s.provider.FetchGameBundle(ctx, gameID)
		if err != nil {
			return nil, fmt.Errorf("fetch game bundle %d: %w", gameID, err)
		}
		tl, err := s.reconcile.Reconcile(ctx, bundle)
		if err != nil {
			return nil, err
		}
		s.logger.InfoContext(ctx, "game timeline reconciled",
			"gameId", gameID, "rows", len(tl.Rows))
		return tl, nil
	})
	if err != nil {
		return nil, err
	}

	tl, ok := value.(*timeline.Timeline)
	if !ok {
		return nil, fmt.Errorf("unexpected cache value for %s", key)
	}
	return tl, nil
}

// GetRosters returns the indexed roster rows for one game.
func (s *GameService) GetRosters(ctx context.Context, gameID int64) ([]roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GetRosters")
	defer span.End()

	if err := validateGameID(gameID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("rosters:%d", gameID)
	value, err := s.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		bundle, err := s.provider.FetchGameBundle(ctx, gameID)
		if err != nil {
			return nil, fmt.Errorf("fetch game bundle %d: %w", gameID, err)
		}
		idx, err := s.reconcile.buildRosterIndex(bundle.Info, bundle.Rosters)
		if err != nil {
			return nil, err
		}
		return idx.Entries(), nil
	})
	if err != nil {
		return nil, err
	}

	entries, ok := value.([]roster.Entry)
	if !ok {
		return nil, fmt.Errorf("unexpected cache value for %s", key)
	}
	return entries, nil
}

// GetShifts returns the validated, boundary-classified shift intervals for
// one game.
func (s *GameService) GetShifts(ctx context.Context, gameID int64) ([]shift.Interval, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GetShifts")
	defer span.End()

	if err := validateGameID(gameID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("shifts:%d", gameID)
	value, err := s.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		bundle, err := s.provider.FetchGameBundle(ctx, gameID)
		if err != nil {
			return nil, fmt.Errorf("fetch game bundle %d: %w", gameID, err)
		}
		rosterIdx, err := s.reconcile.buildRosterIndex(bundle.Info, bundle.Rosters)
		if err != nil {
			return nil, err
		}
		feed, err := s.reconcile.reconcileFeed(ctx, bundle.Info, bundle.Plays)
		if err != nil {
			return nil, err
		}
		idx, err := s.reconcile.buildShiftIndex(ctx, bundle.Info, bundle.Shifts, rosterIdx, feed)
		if err != nil {
			return nil, err
		}
		return idx.Intervals(), nil
	})
	if err != nil {
		return nil, err
	}

	intervals, ok := value.([]shift.Interval)
	if !ok {
		return nil, fmt.Errorf("unexpected cache value for %s", key)
	}
	return intervals, nil
}
