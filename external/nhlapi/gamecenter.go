package nhlapi

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/crease-analytics/rinkline/internal/usecase"
)

type localizedString struct {
	Default string `json:"default"`
}

type teamRef struct {
	ID     int64  `json:"id"`
	Abbrev string `json:"abbrev"`
}

type periodDescriptor struct {
	Number     int    `json:"number"`
	PeriodType string `json:"periodType"`
}

type gameOutcome struct {
	LastPeriodType string `json:"lastPeriodType"`
}

type rosterSpot struct {
	TeamID        int64           `json:"teamId"`
	PlayerID      int64           `json:"playerId"`
	FirstName     localizedString `json:"firstName"`
	LastName      localizedString `json:"lastName"`
	SweaterNumber int             `json:"sweaterNumber"`
	PositionCode  string          `json:"positionCode"`
	Headshot      string          `json:"headshot"`
}

type play struct {
	EventID               int64            `json:"eventId"`
	PeriodDescriptor      periodDescriptor `json:"periodDescriptor"`
	TimeInPeriod          string           `json:"timeInPeriod"`
	TimeRemaining         string           `json:"timeRemaining"`
	HomeTeamDefendingSide string           `json:"homeTeamDefendingSide"`
	TypeDescKey           string           `json:"typeDescKey"`
	SortOrder             int              `json:"sortOrder"`

	// Details is schema-drifting upstream: known keys are picked out and
	// the remainder survives as Extra.
	Details map[string]any `json:"details"`
}

type playByPlayResponse struct {
	ID                int64           `json:"id"`
	Season            int             `json:"season"`
	GameType          int             `json:"gameType"`
	LimitedScoring    bool            `json:"limitedScoring"`
	GameDate          string          `json:"gameDate"`
	Venue             localizedString `json:"venue"`
	VenueLocation     localizedString `json:"venueLocation"`
	StartTimeUTC      string          `json:"startTimeUTC"`
	EasternUTCOffset  string          `json:"easternUTCOffset"`
	VenueUTCOffset    string          `json:"venueUTCOffset"`
	GameState         string          `json:"gameState"`
	GameScheduleState string          `json:"gameScheduleState"`
	GameOutcome       gameOutcome     `json:"gameOutcome"`
	AwayTeam          teamRef         `json:"awayTeam"`
	HomeTeam          teamRef         `json:"homeTeam"`
	RosterSpots       []rosterSpot    `json:"rosterSpots"`
	Plays             []play          `json:"plays"`
}

// FetchGameBundle pulls the structured feed and the shift chart for one game
// in parallel. When the modern shift chart is unavailable or empty the
// legacy HTML time-on-ice reports are parsed instead; a game without any
// shift source still returns its feed.
func (c *Client) FetchGameBundle(ctx context.Context, gameID int64) (usecase.ExternalGameBundle, error) {
	var (
		feed     playByPlayResponse
		shifts   []usecase.ExternalShift
		feedErr  error
		shiftErr error
	)

	workerPool, err := ants.NewPool(c.reportWorkers)
	if err != nil {
		return usecase.ExternalGameBundle{}, fmt.Errorf("create fetch pool: %w", err)
	}
	defer workerPool.Release()

	var wg sync.WaitGroup
	wg.Add(1)
	if err := workerPool.Submit(func() {
		defer wg.Done()
		feedErr = c.doJSON(ctx, fmt.Sprintf("%s/v1/gamecenter/%d/play-by-play", c.apiBaseURL, gameID), nil, &feed)
	}); err != nil {
		wg.Done()
		return usecase.ExternalGameBundle{}, fmt.Errorf("submit feed fetch: %w", err)
	}

	wg.Add(1)
	if err := workerPool.Submit(func() {
		defer wg.Done()
		shifts, shiftErr = c.fetchShiftChart(ctx, gameID)
	}); err != nil {
		wg.Done()
		return usecase.ExternalGameBundle{}, fmt.Errorf("submit shift fetch: %w", err)
	}

	wg.Wait()

	if feedErr != nil {
		return usecase.ExternalGameBundle{}, fmt.Errorf("fetch play-by-play %d: %w", gameID, feedErr)
	}

	info := convertGameInfo(gameID, feed)

	if shiftErr != nil || len(shifts) == 0 {
		if shiftErr != nil {
			c.logger.WarnContext(ctx, "shift chart unavailable, trying legacy reports",
				"gameId", gameID, "error", shiftErr.Error())
		}
		legacy, legacyErr := c.fetchLegacyShifts(ctx, gameID, info)
		if legacyErr != nil {
			c.logger.WarnContext(ctx, "legacy shift reports unavailable, continuing without shifts",
				"gameId", gameID, "error", legacyErr.Error())
		} else {
			shifts = legacy
		}
	}

	return usecase.ExternalGameBundle{
		Info:    info,
		Plays:   convertPlays(feed.Plays),
		Rosters: convertRosterSpots(feed.RosterSpots),
		Shifts:  shifts,
	}, nil
}

func convertGameInfo(gameID int64, feed playByPlayResponse) usecase.ExternalGameInfo {
	return usecase.ExternalGameInfo{
		GameID:            gameID,
		Season:            feed.Season,
		GameType:          feed.GameType,
		LimitedScoring:    feed.LimitedScoring,
		GameDate:          feed.GameDate,
		Venue:             feed.Venue.Default,
		VenueLocation:     feed.VenueLocation.Default,
		StartTimeUTC:      feed.StartTimeUTC,
		EasternUTCOffset:  feed.EasternUTCOffset,
		VenueUTCOffset:    feed.VenueUTCOffset,
		GameState:         feed.GameState,
		GameScheduleState: feed.GameScheduleState,
		GameOutcome:       feed.GameOutcome.LastPeriodType,
		HomeTeamID:        feed.HomeTeam.ID,
		AwayTeamID:        feed.AwayTeam.ID,
		HomeAbbrev:        feed.HomeTeam.Abbrev,
		AwayAbbrev:        feed.AwayTeam.Abbrev,
	}
}

func convertRosterSpots(spots []rosterSpot) []usecase.ExternalRosterSpot {
	out := make([]usecase.ExternalRosterSpot, 0, len(spots))
	for _, spot := range spots {
		out = append(out, usecase.ExternalRosterSpot{
			PlayerID:     spot.PlayerID,
			TeamID:       spot.TeamID,
			JerseyNumber: spot.SweaterNumber,
			FirstName:    spot.FirstName.Default,
			LastName:     spot.LastName.Default,
			PositionCode: spot.PositionCode,
			Headshot:     spot.Headshot,
		})
	}
	return out
}

func convertPlays(plays []play) []usecase.ExternalPlay {
	out := make([]usecase.ExternalPlay, 0, len(plays))
	for _, p := range plays {
		details := copyDetails(p.Details)

		converted := usecase.ExternalPlay{
			EventID:               p.EventID,
			SortOrder:             p.SortOrder,
			TypeDescKey:           p.TypeDescKey,
			Period:                p.PeriodDescriptor.Number,
			PeriodType:            p.PeriodDescriptor.PeriodType,
			TimeInPeriod:          p.TimeInPeriod,
			TimeRemaining:         p.TimeRemaining,
			HomeTeamDefendingSide: p.HomeTeamDefendingSide,

			EventOwnerTeamID: popInt64(details, "eventOwnerTeamId"),
			XCoord:           popFloat(details, "xCoord"),
			YCoord:           popFloat(details, "yCoord"),
			ZoneCode:         popString(details, "zoneCode"),
			Reason:           popString(details, "reason"),
			SecondaryReason:  popString(details, "secondaryReason"),
			ShotType:         popString(details, "shotType"),
			DescKey:          popString(details, "descKey"),
			Duration:         popInt(details, "duration"),
			GoalieInNetID:    popInt64(details, "goalieInNetId"),

			HomeScore: popInt(details, "homeScore"),
			AwayScore: popInt(details, "awayScore"),
			HomeSOG:   popInt(details, "homeSOG"),
			AwaySOG:   popInt(details, "awaySOG"),

			WinningPlayerID:     popInt64(details, "winningPlayerId"),
			LosingPlayerID:      popInt64(details, "losingPlayerId"),
			HittingPlayerID:     popInt64(details, "hittingPlayerId"),
			HitteePlayerID:      popInt64(details, "hitteePlayerId"),
			ShootingPlayerID:    popInt64(details, "shootingPlayerId"),
			BlockingPlayerID:    popInt64(details, "blockingPlayerId"),
			PlayerID:            popInt64(details, "playerId"),
			ScoringPlayerID:     popInt64(details, "scoringPlayerId"),
			Assist1PlayerID:     popInt64(details, "assist1PlayerId"),
			Assist2PlayerID:     popInt64(details, "assist2PlayerId"),
			CommittedByPlayerID: popInt64(details, "committedByPlayerId"),
			DrawnByPlayerID:     popInt64(details, "drawnByPlayerId"),
			ServedByPlayerID:    popInt64(details, "servedByPlayerId"),
		}

		if len(details) > 0 {
			converted.Extra = details
		}
		out = append(out, converted)
	}
	return out
}

func copyDetails(details map[string]any) map[string]any {
	out := make(map[string]any, len(details))
	for key, value := range details {
		out[key] = value
	}
	return out
}

// pop helpers remove known keys from the detail map so whatever remains is
// genuinely unrecognized. JSON numbers decode as float64.

func popFloat(details map[string]any, key string) *float64 {
	value, ok := details[key]
	if !ok {
		return nil
	}
	delete(details, key)
	if number, ok := value.(float64); ok {
		return &number
	}
	return nil
}

func popInt64(details map[string]any, key string) *int64 {
	if number := popFloat(details, key); number != nil {
		converted := int64(*number)
		return &converted
	}
	return nil
}

func popInt(details map[string]any, key string) *int {
	if number := popFloat(details, key); number != nil {
		converted := int(*number)
		return &converted
	}
	return nil
}

func popString(details map[string]any, key string) string {
	value, ok := details[key]
	if !ok {
		return ""
	}
	delete(details, key)
	if text, ok := value.(string); ok {
		return text
	}
	return ""
}
