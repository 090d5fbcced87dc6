package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/crease-analytics/rinkline/internal/domain/timeline"
	"github.com/crease-analytics/rinkline/internal/platform/logging"
)

// BatchService reconciles many games concurrently, for backfills and the
// one-shot CLI. Per-game failures are collected, not fatal: one bad game
// must not sink a whole season backfill.
type BatchService struct {
	games      *GameService
	logger     *logging.Logger
	maxWorkers int
}

const defaultBatchWorkers = 4

func NewBatchService(games *GameService, maxWorkers int, logger *logging.Logger) *BatchService {
	if maxWorkers < 1 {
		maxWorkers = defaultBatchWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BatchService{
		games:      games,
		logger:     logger,
		maxWorkers: maxWorkers,
	}
}

type BatchGameResult struct {
	GameID   int64
	Timeline *timeline.Timeline
	Err      error
	Duration time.Duration
}

type BatchResult struct {
	Succeeded int
	Failed    int
	Results   []BatchGameResult
}

// ReconcileGames fans the game ids out over a bounded worker pool and
// returns per-game outcomes in input order.
func (s *BatchService) ReconcileGames(ctx context.Context, gameIDs []int64) (BatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BatchService.ReconcileGames")
	defer span.End()

	if len(gameIDs) == 0 {
		return BatchResult{}, fmt.Errorf("%w: no game ids", ErrInvalidInput)
	}

	results := make([]BatchGameResult, len(gameIDs))
	var mu sync.Mutex

	workers := pool.New().WithMaxGoroutines(s.maxWorkers)
	for i, gameID := range gameIDs {
		i, gameID := i, gameID
		workers.Go(func() {
			start := time.Now()
			tl, err := s.games.GetTimeline(ctx, gameID)
			elapsed := time.Since(start)

			if err != nil {
				s.logger.WarnContext(ctx, "game reconcile failed in batch",
					"gameId", gameID, "error", err.Error())
			}

			mu.Lock()
			results[i] = BatchGameResult{
				GameID:   gameID,
				Timeline: tl,
				Err:      err,
				Duration: elapsed,
			}
			mu.Unlock()
		})
	}
	workers.Wait()

	out := BatchResult{Results: results}
	for _, res := range results {
		if res.Err != nil {
			out.Failed++
		} else {
			out.Succeeded++
		}
	}

	s.logger.InfoContext(ctx, "batch reconcile finished",
		"games", len(gameIDs), "succeeded", out.Succeeded, "failed", out.Failed)

	return out, nil
}
