package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/crease-analytics/rinkline/internal/domain/event"
	"github.com/crease-analytics/rinkline/internal/domain/rink"
	"github.com/crease-analytics/rinkline/internal/domain/roster"
	"github.com/crease-analytics/rinkline/internal/domain/timeline"
	"github.com/crease-analytics/rinkline/internal/platform/logging"
)

// ReconcileService turns the three raw per-game record sets (feed, rosters,
// shifts) into one ordered flat timeline. The pipeline is pure and
// stateless: concurrent calls for different games never share state.
type ReconcileService struct {
	logger *logging.Logger
	now    func() time.Time
	source string
}

const timelineSource = "nhl-api-web"

func NewReconcileService(logger *logging.Logger) *ReconcileService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReconcileService{
		logger: logger,
		now:    time.Now,
		source: timelineSource,
	}
}

// Reconcile runs the full pipeline: roster indexing, feed reconciliation,
// shift interval construction, merge and sort, and final assembly. Inputs
// that violate the data contract (unknown event types, malformed clocks,
// inverted or overlapping shifts) fail with a wrapped domain sentinel;
// merely ambiguous data degrades to nulls with a warning.
func (s *ReconcileService) Reconcile(ctx context.Context, bundle ExternalGameBundle) (*timeline.Timeline, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.Reconcile")
	defer span.End()

	rosterIdx, err := s.buildRosterIndex(bundle.Info, bundle.Rosters)
	if err != nil {
		return nil, fmt.Errorf("build roster index for game %d: %w", bundle.Info.GameID, err)
	}

	feed, err := s.reconcileFeed(ctx, bundle.Info, bundle.Plays)
	if err != nil {
		return nil, fmt.Errorf("reconcile feed for game %d: %w", bundle.Info.GameID, err)
	}

	shiftIdx, err := s.buildShiftIndex(ctx, bundle.Info, bundle.Shifts, rosterIdx, feed)
	if err != nil {
		return nil, fmt.Errorf("build shift index for game %d: %w", bundle.Info.GameID, err)
	}

	rows, err := s.merge(ctx, bundle.Info, feed, shiftIdx, rosterIdx)
	if err != nil {
		return nil, fmt.Errorf("merge timeline for game %d: %w", bundle.Info.GameID, err)
	}

	return s.assemble(bundle.Info, rows), nil
}

func (s *ReconcileService) buildRosterIndex(info ExternalGameInfo, spots []ExternalRosterSpot) (*roster.Index, error) {
	entries := make([]roster.Entry, 0, len(spots))
	for _, spot := range spots {
		entries = append(entries, roster.Entry{
			PlayerID:     spot.PlayerID,
			TeamID:       spot.TeamID,
			TeamAbbrev:   abbrevFor(info, spot.TeamID),
			Side:         sideFor(info, spot.TeamID),
			JerseyNumber: spot.JerseyNumber,
			FirstName:    spot.FirstName,
			LastName:     spot.LastName,
			PositionCode: spot.PositionCode,
			Headshot:     spot.Headshot,
		})
	}
	return roster.BuildIndex(entries)
}

// reconciledFeed carries the feed stage output into the shift and merge
// stages: the validated events plus the faceoff lookup structures the shift
// boundary classifier and zone labeler need.
type reconciledFeed struct {
	events         []event.Event
	faceoffSeconds map[int]struct{}
	faceoffZones   map[int]rink.Zones
}

func sideFor(info ExternalGameInfo, teamID int64) event.TeamSide {
	if teamID == info.HomeTeamID {
		return event.SideHome
	}
	return event.SideAway
}

func abbrevFor(info ExternalGameInfo, teamID int64) string {
	if teamID == info.HomeTeamID {
		return info.HomeAbbrev
	}
	if teamID == info.AwayTeamID {
		return info.AwayAbbrev
	}
	return ""
}
