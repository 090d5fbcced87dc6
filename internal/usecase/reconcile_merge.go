package usecase

import (
	"context"
	"fmt"

	"github.com/crease-analytics/rinkline/internal/domain/clock"
	"github.com/crease-analytics/rinkline/internal/domain/event"
	"github.com/crease-analytics/rinkline/internal/domain/roster"
	"github.com/crease-analytics/rinkline/internal/domain/shift"
	"github.com/crease-analytics/rinkline/internal/domain/timeline"
)

// Line-change rows mark shift boundaries going on (start) and off (end).
const (
	lineChangeOn  = "ON"
	lineChangeOff = "OFF"
)

// merge annotates each feed event with the on-ice state at its second,
// synthesizes line-change rows from shift boundaries, orders everything by
// (elapsed, priority), and backward-fills the clock and score columns the
// synthetic rows cannot know on their own.
func (s *ReconcileService) merge(
	ctx context.Context,
	info ExternalGameInfo,
	feed reconciledFeed,
	shiftIdx *shift.Index,
	rosterIdx *roster.Index,
) ([]timeline.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReconcileService.merge")
	defer span.End()

	rows := make([]timeline.Row, 0, len(feed.events)+2*len(shiftIdx.Intervals()))

	for _, ev := range feed.events {
		row, err := s.eventRow(ctx, info, ev, shiftIdx, rosterIdx)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	for _, iv := range shiftIdx.Intervals() {
		rows = append(rows, lineChangeRows(info, iv)...)
	}

	for i := range rows {
		priority, ok := event.Priority(event.Type(rows[i].Event))
		if !ok {
			// The vocabulary gate upstream makes this unreachable; hitting
			// it means the priority table and the vocabulary diverged.
			return nil, fmt.Errorf("%w: no priority for event type %q", ErrInvalidInput, rows[i].Event)
		}
		rows[i].Priority = priority
	}

	timeline.Sort(rows)
	backfillCarriedColumns(rows)

	return rows, nil
}

func (s *ReconcileService) eventRow(
	ctx context.Context,
	info ExternalGameInfo,
	ev event.Event,
	shiftIdx *shift.Index,
	rosterIdx *roster.Index,
) (timeline.Row, error) {
	row := timeline.Row{
		GameID:           info.GameID,
		EventID:          ev.EventID,
		Event:            string(ev.Type),
		Period:           ev.Period,
		PeriodType:       ev.PeriodType,
		TimeInPeriod:     ev.TimeInPeriod,
		TimeRemaining:    ev.TimeRemaining,
		ElapsedTime:      ev.ElapsedSeconds,
		SortOrder:        ev.SortOrder,
		ZoneCode:         ev.ZoneCode,
		Reason:           ev.Reason,
		SecondaryReason:  ev.SecondaryReason,
		ShotType:         ev.ShotType,
		DescKey:          ev.DescKey,
		Duration:         ev.PenaltyDuration,
		HomeScore:        ev.RunningScore.Home,
		AwayScore:        ev.RunningScore.Away,
		HomeSOG:          ev.RunningShots.Home,
		AwaySOG:          ev.RunningShots.Away,
		HomeDefendsRight: ev.HomeDefendsRight,
		HomeTeam:         info.HomeAbbrev,
		AwayTeam:         info.AwayAbbrev,
		HomeTeamID:       info.HomeTeamID,
		AwayTeamID:       info.AwayTeamID,
	}

	if ev.TimeRemaining != "" {
		remaining, err := clock.ParseClock(ev.TimeRemaining)
		if err != nil {
			return timeline.Row{}, fmt.Errorf("play %d time remaining: %w", ev.EventID, err)
		}
		row.TimeRemainS = remaining
	}

	if ev.EventingSide != nil {
		row.EventTeamType = string(*ev.EventingSide)
		row.EventTeamID = ev.EventingTeamID
		if ev.EventingTeamID != nil {
			row.EventTeam = abbrevFor(info, *ev.EventingTeamID)
		}
	}

	if ev.RawCoord != nil {
		x, y := ev.RawCoord.X, ev.RawCoord.Y
		row.XCoord, row.YCoord = &x, &y
	}
	if ev.NormCoord != nil {
		x, y := ev.NormCoord.X, ev.NormCoord.Y
		row.XFixed, row.YFixed = &x, &y
	}

	actorIDs := [event.MaxActors]*int64{}
	actorNames := [event.MaxActors]string{}
	for i, actor := range ev.Actors {
		if actor == nil {
			continue
		}
		id := actor.PlayerID
		actorIDs[i] = &id
		actorNames[i] = rosterIdx.NameOf(actor.PlayerID)
	}
	row.PlayerID1, row.PlayerID2, row.PlayerID3 = actorIDs[0], actorIDs[1], actorIDs[2]
	row.PlayerName1, row.PlayerName2, row.PlayerName3 = actorNames[0], actorNames[1], actorNames[2]

	s.annotateOnIce(ctx, info, ev, &row, shiftIdx, rosterIdx)

	return row, nil
}

// annotateOnIce fills the who-is-on-ice columns for one event second. A
// bench with two goalie intervals covering the second stays null and is
// logged; the feed's goalieInNetId steps in only when neither bench could
// derive a goalie from shifts at all.
func (s *ReconcileService) annotateOnIce(
	ctx context.Context,
	info ExternalGameInfo,
	ev event.Event,
	row *timeline.Row,
	shiftIdx *shift.Index,
	rosterIdx *roster.Index,
) {
	second := ev.ElapsedSeconds

	row.HomeSkaterIDs = shiftIdx.OnIceSkaters(event.SideHome, second)
	row.AwaySkaterIDs = shiftIdx.OnIceSkaters(event.SideAway, second)
	row.HomeSkaters = len(row.HomeSkaterIDs)
	row.AwaySkaters = len(row.AwaySkaterIDs)
	row.HomeSkaterNames = namesFor(rosterIdx, row.HomeSkaterIDs)
	row.AwaySkaterNames = namesFor(rosterIdx, row.AwaySkaterIDs)

	for _, side := range []event.TeamSide{event.SideHome, event.SideAway} {
		goalies := shiftIdx.OnIceGoalies(side, second)
		switch len(goalies) {
		case 1:
			id := goalies[0]
			if side == event.SideHome {
				row.HomeGoalieID = &id
			} else {
				row.AwayGoalieID = &id
			}
		case 0:
		default:
			s.logger.WarnContext(ctx, "ambiguous goalie intervals, leaving null",
				"gameId", info.GameID, "eventId", ev.EventID,
				"side", string(side), "second", second, "candidates", len(goalies))
		}
	}

	if ev.GoalieInNetID != nil && row.HomeGoalieID == nil && row.AwayGoalieID == nil && ev.EventingSide != nil {
		id := *ev.GoalieInNetID
		// The goalie in net belongs to the bench opposing the eventing team.
		if *ev.EventingSide == event.SideHome {
			row.AwayGoalieID = &id
		} else {
			row.HomeGoalieID = &id
		}
	}

	if row.HomeGoalieID != nil {
		row.HomeGoalieName = rosterIdx.NameOf(*row.HomeGoalieID)
	}
	if row.AwayGoalieID != nil {
		row.AwayGoalieName = rosterIdx.NameOf(*row.AwayGoalieID)
	}

	if ev.EventingSide != nil {
		if *ev.EventingSide == event.SideHome {
			row.GameStrength = fmt.Sprintf("%dv%d", row.HomeSkaters, row.AwaySkaters)
		} else {
			row.GameStrength = fmt.Sprintf("%dv%d", row.AwaySkaters, row.HomeSkaters)
		}
	}
}

// lineChangeRows projects one shift interval into its ON and OFF rows. Zone
// start labels ride only on the ON row: the OFF boundary has no zone of its
// own.
func lineChangeRows(info ExternalGameInfo, iv shift.Interval) []timeline.Row {
	teamID := iv.TeamID
	playerID := iv.PlayerID

	base := timeline.Row{
		GameID:        info.GameID,
		EventID:       iv.ID,
		Event:         string(event.TypeLineChange),
		Period:        iv.Period,
		EventTeam:     iv.TeamAbbrev,
		EventTeamType: string(iv.Side),
		EventTeamID:   &teamID,
		PlayerID1:     &playerID,
		PlayerName1:   iv.FullName,
		HomeTeam:      info.HomeAbbrev,
		AwayTeam:      info.AwayAbbrev,
		HomeTeamID:    info.HomeTeamID,
		AwayTeamID:    info.AwayTeamID,
	}

	on := base
	on.ElapsedTime = iv.StartSeconds
	on.TypeCode = lineChangeOn
	on.DescKey = string(iv.StartType)
	on.ZoneStartSide1 = iv.ZoneStart
	on.ZoneStartSideDetail1 = iv.ZoneStartDetail

	off := base
	off.ElapsedTime = iv.EndSeconds
	off.TypeCode = lineChangeOff
	off.DescKey = string(iv.EndType)

	return []timeline.Row{on, off}
}

// backfillCarriedColumns fills clock and score columns on synthetic rows
// from the next real feed row, mirroring how a tabular backward-fill would
// behave after the sort.
func backfillCarriedColumns(rows []timeline.Row) {
	var (
		have bool
		next timeline.Row
	)

	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Event != string(event.TypeLineChange) {
			have = true
			next = rows[i]
			continue
		}
		if !have {
			continue
		}

		rows[i].TimeInPeriod = next.TimeInPeriod
		rows[i].TimeRemaining = next.TimeRemaining
		rows[i].TimeRemainS = next.TimeRemainS
		rows[i].SortOrder = next.SortOrder
		rows[i].HomeScore = next.HomeScore
		rows[i].AwayScore = next.AwayScore
		rows[i].HomeSOG = next.HomeSOG
		rows[i].AwaySOG = next.AwaySOG
		if rows[i].Period == 0 {
			rows[i].Period = next.Period
		}
		if rows[i].PeriodType == "" {
			rows[i].PeriodType = next.PeriodType
		}
	}
}

func namesFor(rosterIdx *roster.Index, ids []int64) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = rosterIdx.NameOf(id)
	}
	return names
}
