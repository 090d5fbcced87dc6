package usecase

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/crease-analytics/rinkline/internal/platform/cache"
	"github.com/crease-analytics/rinkline/internal/platform/logging"
)

// CatalogService fronts the non-game reference endpoints: schedules,
// standings, draft data, franchises. Responses change rarely, so they share
// one cache with the game data.
type CatalogService struct {
	provider CatalogProvider
	store    *cache.Store
	logger   *logging.Logger
}

func NewCatalogService(provider CatalogProvider, store *cache.Store, logger *logging.Logger) *CatalogService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CatalogService{
		provider: provider,
		store:    store,
		logger:   logger,
	}
}

var (
	seasonPattern   = regexp.MustCompile(`^\d{8}$`)
	teamSlugPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	yearPattern     = regexp.MustCompile(`^\d{4}$`)
	roundPattern    = regexp.MustCompile(`^\d{1,2}$`)
)

func (s *CatalogService) GetClubSchedule(ctx context.Context, teamSlug, season string) ([]ExternalScheduleGame, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.GetClubSchedule")
	defer span.End()

	if !teamSlugPattern.MatchString(teamSlug) {
		return nil, fmt.Errorf("%w: team slug %q must be a three-letter abbreviation", ErrInvalidInput, teamSlug)
	}
	if !seasonPattern.MatchString(season) {
		return nil, fmt.Errorf("%w: season %q must look like 20242025", ErrInvalidInput, season)
	}

	return loadCached(ctx, s.store, "schedule:"+teamSlug+":"+season, func(ctx context.Context) ([]ExternalScheduleGame, error) {
		return s.provider.FetchClubSchedule(ctx, teamSlug, season)
	})
}

func (s *CatalogService) GetStandings(ctx context.Context, date string) ([]ExternalStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.GetStandings")
	defer span.End()

	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("%w: standings date %q must be YYYY-MM-DD", ErrInvalidInput, date)
	}

	return loadCached(ctx, s.store, "standings:"+date, func(ctx context.Context) ([]ExternalStanding, error) {
		return s.provider.FetchStandings(ctx, date)
	})
}

func (s *CatalogService) GetDraftPicks(ctx context.Context, year, round string) ([]ExternalDraftPick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.GetDraftPicks")
	defer span.End()

	if !yearPattern.MatchString(year) {
		return nil, fmt.Errorf("%w: draft year %q must be four digits", ErrInvalidInput, year)
	}
	if round != "all" && !roundPattern.MatchString(round) {
		return nil, fmt.Errorf("%w: draft round %q must be a round number or \"all\"", ErrInvalidInput, round)
	}

	return loadCached(ctx, s.store, "draft:"+year+":"+round, func(ctx context.Context) ([]ExternalDraftPick, error) {
		return s.provider.FetchDraftPicks(ctx, year, round)
	})
}

func (s *CatalogService) GetDraftRankings(ctx context.Context, year string, category int) ([]ExternalDraftRanking, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.GetDraftRankings")
	defer span.End()

	if !yearPattern.MatchString(year) {
		return nil, fmt.Errorf("%w: draft year %q must be four digits", ErrInvalidInput, year)
	}
	// 1 North American skaters, 2 international skaters, 3 North American
	// goalies, 4 international goalies.
	if category < 1 || category > 4 {
		return nil, fmt.Errorf("%w: ranking category %d out of range 1-4", ErrInvalidInput, category)
	}

	return loadCached(ctx, s.store, fmt.Sprintf("draft-rankings:%s:%d", year, category), func(ctx context.Context) ([]ExternalDraftRanking, error) {
		return s.provider.FetchDraftRankings(ctx, year, category)
	})
}

func (s *CatalogService) GetFranchises(ctx context.Context) ([]ExternalFranchise, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.GetFranchises")
	defer span.End()

	return loadCached(ctx, s.store, "franchises", func(ctx context.Context) ([]ExternalFranchise, error) {
		return s.provider.FetchFranchises(ctx)
	})
}

func loadCached[T any](ctx context.Context, store *cache.Store, key string, loader func(context.Context) ([]T, error)) ([]T, error) {
	value, err := store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		loaded, err := loader(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", key, err)
		}
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	out, ok := value.([]T)
	if !ok {
		return nil, fmt.Errorf("unexpected cache value for %s", key)
	}
	return out, nil
}
