package usecase

import (
	"context"
	"fmt"

	"github.com/crease-analytics/rinkline/internal/domain/clock"
	"github.com/crease-analytics/rinkline/internal/domain/event"
	"github.com/crease-analytics/rinkline/internal/domain/rink"
)

// reconcileFeed validates every raw play against the closed vocabulary,
// converts clocks to game-elapsed seconds, normalizes coordinates, collapses
// the per-type player-id fields into the fixed actor slots, and carries the
// running score and shots-on-goal forward across rows that omit them.
func (s *ReconcileService) reconcileFeed(ctx context.Context, info ExternalGameInfo, plays []ExternalPlay) (reconciledFeed, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.reconcileFeed")
	defer span.End()

	out := reconciledFeed{
		events:         make([]event.Event, 0, len(plays)),
		faceoffSeconds: make(map[int]struct{}, 64),
		faceoffZones:   make(map[int]rink.Zones, 64),
	}

	var score, shots event.Score

	for _, play := range plays {
		evType, err := event.ParseType(play.TypeDescKey)
		if err != nil {
			return reconciledFeed{}, fmt.Errorf("play %d: %w", play.EventID, err)
		}

		periodType := clock.ParsePeriodType(play.PeriodType)
		elapsed, err := clock.ToSeconds(play.TimeInPeriod, play.Period, periodType)
		if err != nil {
			return reconciledFeed{}, fmt.Errorf("play %d time in period: %w", play.EventID, err)
		}

		// Scores and shot counts arrive only on rows that change them;
		// every other row inherits the previous value, starting from 0-0.
		if play.HomeScore != nil {
			score.Home = *play.HomeScore
		}
		if play.AwayScore != nil {
			score.Away = *play.AwayScore
		}
		if play.HomeSOG != nil {
			shots.Home = *play.HomeSOG
		}
		if play.AwaySOG != nil {
			shots.Away = *play.AwaySOG
		}

		ev := event.Event{
			EventID:         play.EventID,
			Type:            evType,
			Period:          play.Period,
			PeriodType:      string(periodType),
			ElapsedSeconds:  elapsed,
			SortOrder:       play.SortOrder,
			RunningScore:    score,
			RunningShots:    shots,
			TimeInPeriod:    play.TimeInPeriod,
			TimeRemaining:   play.TimeRemaining,
			ZoneCode:        play.ZoneCode,
			Reason:          play.Reason,
			SecondaryReason: play.SecondaryReason,
			ShotType:        play.ShotType,
			DescKey:         play.DescKey,
			PenaltyDuration: play.Duration,
			GoalieInNetID:   play.GoalieInNetID,
			Extra:           play.Extra,
		}

		if play.EventOwnerTeamID != nil {
			side := sideFor(info, *play.EventOwnerTeamID)
			teamID := *play.EventOwnerTeamID
			ev.EventingSide = &side
			ev.EventingTeamID = &teamID
		}

		defendsRight := play.HomeTeamDefendingSide == "right"
		if play.HomeTeamDefendingSide != "" {
			ev.HomeDefendsRight = &defendsRight
		}
		if play.XCoord != nil && play.YCoord != nil {
			ev.RawCoord = &event.Coordinate{X: *play.XCoord, Y: *play.YCoord}
			ev.NormCoord = rink.Normalize(ev.RawCoord, defendsRight)
		}

		s.fillActorSlots(&ev, play)

		if evType == event.TypeFaceoff {
			out.faceoffSeconds[elapsed] = struct{}{}
			if zones, ok := rink.ZoneFor(ev.NormCoord); ok {
				out.faceoffZones[elapsed] = zones
			} else {
				s.logger.WarnContext(ctx, "faceoff off the dot table",
					"gameId", info.GameID, "eventId", play.EventID, "elapsed", elapsed)
			}
		}

		if len(play.Extra) > 0 {
			s.logger.DebugContext(ctx, "unrecognized feed detail fields preserved",
				"gameId", info.GameID, "eventId", play.EventID, "fields", len(play.Extra))
		}

		out.events = append(out.events, ev)
	}

	return out, nil
}

// fillActorSlots maps the raw per-type player-id fields onto the fixed slot
// scheme. Types without a slot row (stoppages, period markers) carry no
// actors.
func (s *ReconcileService) fillActorSlots(ev *event.Event, play ExternalPlay) {
	roles, ok := event.SlotRoles[ev.Type]
	if !ok {
		return
	}

	sources := slotSources(ev.Type, play)
	for i, role := range roles {
		if i >= event.MaxActors || i >= len(sources) {
			break
		}
		if sources[i] == nil {
			continue
		}
		ev.Actors[i] = &event.Actor{Role: role, PlayerID: *sources[i]}
	}
}

func slotSources(t event.Type, play ExternalPlay) []*int64 {
	switch t {
	case event.TypeFaceoff:
		return []*int64{play.WinningPlayerID, play.LosingPlayerID}
	case event.TypeHit:
		return []*int64{play.HittingPlayerID, play.HitteePlayerID}
	case event.TypeBlockedShot:
		return []*int64{play.ShootingPlayerID, play.BlockingPlayerID}
	case event.TypeShotOnGoal, event.TypeMissedShot, event.TypeFailedShotAttempt:
		return []*int64{play.ShootingPlayerID}
	case event.TypeGoal:
		return []*int64{play.ScoringPlayerID, play.Assist1PlayerID, play.Assist2PlayerID}
	case event.TypeGiveaway, event.TypeTakeaway:
		return []*int64{play.PlayerID}
	case event.TypePenalty:
		return []*int64{play.CommittedByPlayerID, play.DrawnByPlayerID, play.ServedByPlayerID}
	default:
		return nil
	}
}
