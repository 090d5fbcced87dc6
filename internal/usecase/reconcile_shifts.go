package usecase

import (
	"context"
	"fmt"

	"github.com/crease-analytics/rinkline/internal/domain/clock"
	"github.com/crease-analytics/rinkline/internal/domain/event"
	"github.com/crease-analytics/rinkline/internal/domain/roster"
	"github.com/crease-analytics/rinkline/internal/domain/shift"
)

// buildShiftIndex joins shift records to the roster, converts their clocks
// to game-elapsed seconds, classifies their boundaries against the faceoff
// seconds of the feed, and validates the resulting intervals. Records whose
// player cannot be identified are dropped with a warning: an anonymous
// interval would corrupt every on-ice answer it touched.
func (s *ReconcileService) buildShiftIndex(
	ctx context.Context,
	info ExternalGameInfo,
	records []ExternalShift,
	rosterIdx *roster.Index,
	feed reconciledFeed,
) (*shift.Index, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.buildShiftIndex")
	defer span.End()

	intervals := make([]shift.Interval, 0, len(records))
	dropped := 0

	for _, rec := range records {
		side := shiftSide(info, rec)

		res := s.resolveShiftPlayer(rec, side, rosterIdx)
		if !res.Resolved {
			dropped++
			s.logger.WarnContext(ctx, "shift row player unresolved, dropping",
				"gameId", info.GameID, "shiftId", rec.ShiftID,
				"jersey", rec.JerseyNumber, "side", string(side))
			continue
		}
		entry := res.Entry

		periodType := clock.ParsePeriodType(rec.PeriodType)
		start, err := clock.ToSeconds(rec.StartTime, rec.Period, periodType)
		if err != nil {
			return nil, fmt.Errorf("shift %d start time: %w", rec.ShiftID, err)
		}
		end, err := clock.ToSeconds(rec.EndTime, rec.Period, periodType)
		if err != nil {
			return nil, fmt.Errorf("shift %d end time: %w", rec.ShiftID, err)
		}

		intervals = append(intervals, shift.Interval{
			ID:           rec.ShiftID,
			PlayerID:     entry.PlayerID,
			FullName:     entry.FullName(),
			JerseyNumber: entry.JerseyNumber,
			TeamID:       entry.TeamID,
			TeamAbbrev:   entry.TeamAbbrev,
			Side:         side,
			Class:        entry.Class(),
			Period:       rec.Period,
			StartSeconds: start,
			EndSeconds:   end,
			ShiftNumber:  rec.ShiftNumber,
		})
	}

	if dropped > 0 {
		s.logger.WarnContext(ctx, "shift rows dropped for unresolved players",
			"gameId", info.GameID, "dropped", dropped, "total", len(records))
	}

	intervals = shift.ClassifyBoundaries(intervals, feed.faceoffSeconds)
	s.labelZoneStarts(intervals, feed)

	return shift.BuildIndex(intervals)
}

// resolveShiftPlayer prefers the structured feed's stable player id; legacy
// HTML report rows fall back to the jersey+side join.
func (s *ReconcileService) resolveShiftPlayer(rec ExternalShift, side event.TeamSide, rosterIdx *roster.Index) roster.Resolution {
	if rec.PlayerID > 0 {
		if res := rosterIdx.ByID(rec.PlayerID); res.Resolved {
			return res
		}
	}
	if rec.JerseyNumber > 0 {
		return rosterIdx.ByJerseyAndSide(rec.JerseyNumber, side)
	}
	return roster.Unresolved
}

// labelZoneStarts attaches the faceoff-dot zone labels to shifts that begin
// on a stoppage. On-the-fly starts have no defining faceoff and stay
// unlabeled.
func (s *ReconcileService) labelZoneStarts(intervals []shift.Interval, feed reconciledFeed) {
	for i := range intervals {
		if intervals[i].StartType != shift.OnStoppage {
			continue
		}
		zones, ok := feed.faceoffZones[intervals[i].StartSeconds]
		if !ok {
			continue
		}
		intervals[i].ZoneStart, intervals[i].ZoneStartDetail = zones.ZoneForSide(intervals[i].Side)
	}
}

func shiftSide(info ExternalGameInfo, rec ExternalShift) event.TeamSide {
	if rec.TeamID != 0 {
		return sideFor(info, rec.TeamID)
	}
	if rec.TeamAbbrev == info.HomeAbbrev {
		return event.SideHome
	}
	return event.SideAway
}
