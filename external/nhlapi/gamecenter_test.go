package nhlapi

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testPlayByPlayBody = `{
  "id": 2023020001,
  "season": 20232024,
  "gameType": 2,
  "limitedScoring": false,
  "gameDate": "2023-10-11",
  "venue": {"default": "Rogers Place"},
  "venueLocation": {"default": "Edmonton"},
  "startTimeUTC": "2023-10-12T01:00:00Z",
  "easternUTCOffset": "-04:00",
  "venueUTCOffset": "-06:00",
  "gameState": "OFF",
  "gameScheduleState": "OK",
  "gameOutcome": {"lastPeriodType": "REG"},
  "awayTeam": {"id": 21, "abbrev": "COL"},
  "homeTeam": {"id": 22, "abbrev": "EDM"},
  "rosterSpots": [
    {"teamId": 22, "playerId": 8478402, "firstName": {"default": "Connor"},
     "lastName": {"default": "McDavid"}, "sweaterNumber": 97, "positionCode": "C"}
  ],
  "plays": [
    {"eventId": 102, "periodDescriptor": {"number": 1, "periodType": "REG"},
     "timeInPeriod": "01:30", "timeRemaining": "18:30",
     "homeTeamDefendingSide": "right", "typeDescKey": "shot-on-goal", "sortOrder": 12,
     "details": {"eventOwnerTeamId": 22, "xCoord": 25, "yCoord": -10,
       "zoneCode": "O", "shotType": "wrist", "shootingPlayerId": 8478402,
       "goalieInNetId": 8480382, "homeSOG": 1, "awaySOG": 0,
       "highlightClipSharingUrl": "https://nhl.com/clip/1"}}
  ]
}`

const testShiftChartBody = `{
  "data": [
    {"id": 1, "gameId": 2023020001, "playerId": 8478402, "teamId": 22,
     "teamAbbrev": "EDM", "firstName": "Connor", "lastName": "McDavid",
     "period": 1, "startTime": "00:00", "endTime": "00:45",
     "duration": "00:45", "shiftNumber": 1, "typeCode": 517},
    {"id": 2, "gameId": 2023020001, "playerId": 8478402, "teamId": 22,
     "teamAbbrev": "EDM", "firstName": "Connor", "lastName": "McDavid",
     "period": 1, "startTime": "05:00", "endTime": "", "duration": "",
     "shiftNumber": 0, "typeCode": 505}
  ]
}`

func gameHandler(shiftBody string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/gamecenter/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testPlayByPlayBody))
	})
	mux.HandleFunc("/shiftcharts", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(shiftBody))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".HTM") {
			w.Write([]byte(sampleTOIReport))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	return mux
}

func TestFetchGameBundle_DecodesFeedAndShifts(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, gameHandler(testShiftChartBody))

	bundle, err := client.FetchGameBundle(context.Background(), 2023020001)
	require.NoError(t, err)

	require.Equal(t, int64(2023020001), bundle.Info.GameID)
	require.Equal(t, 20232024, bundle.Info.Season)
	require.Equal(t, int64(22), bundle.Info.HomeTeamID)
	require.Equal(t, "COL", bundle.Info.AwayAbbrev)
	require.Equal(t, "Rogers Place", bundle.Info.Venue)
	require.Equal(t, "REG", bundle.Info.GameOutcome)

	require.Len(t, bundle.Rosters, 1)
	require.Equal(t, int64(8478402), bundle.Rosters[0].PlayerID)
	require.Equal(t, 97, bundle.Rosters[0].JerseyNumber)

	require.Len(t, bundle.Plays, 1)
	play := bundle.Plays[0]
	require.Equal(t, "shot-on-goal", play.TypeDescKey)
	require.Equal(t, "right", play.HomeTeamDefendingSide)
	require.NotNil(t, play.EventOwnerTeamID)
	require.Equal(t, int64(22), *play.EventOwnerTeamID)
	require.NotNil(t, play.XCoord)
	require.Equal(t, 25.0, *play.XCoord)
	require.NotNil(t, play.ShootingPlayerID)
	require.Equal(t, int64(8478402), *play.ShootingPlayerID)
	require.NotNil(t, play.HomeSOG)
	require.Equal(t, 1, *play.HomeSOG)

	// Known detail keys are lifted out; unknown keys survive untouched.
	require.NotContains(t, play.Extra, "xCoord")
	require.Equal(t, "https://nhl.com/clip/1", play.Extra["highlightClipSharingUrl"])

	// The 505 row is a goal marker, not a shift.
	require.Len(t, bundle.Shifts, 1)
	require.Equal(t, int64(8478402), bundle.Shifts[0].PlayerID)
	require.Equal(t, "00:45", bundle.Shifts[0].EndTime)
}

func TestFetchGameBundle_FallsBackToLegacyReports(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, gameHandler(`{"data": []}`))

	bundle, err := client.FetchGameBundle(context.Background(), 2023020001)
	require.NoError(t, err)

	// Both benches parsed from the HTML reports, ids left unset.
	require.Len(t, bundle.Shifts, 6)
	abbrevs := map[string]bool{}
	for _, shift := range bundle.Shifts {
		require.Zero(t, shift.PlayerID)
		require.NotZero(t, shift.ShiftID)
		abbrevs[shift.TeamAbbrev] = true
	}
	require.True(t, abbrevs["EDM"])
	require.True(t, abbrevs["COL"])
}
