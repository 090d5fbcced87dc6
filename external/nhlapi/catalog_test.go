package nhlapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func catalogHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/club-schedule-season/EDM/20232024", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"games": [
			{"id": 2023020001, "season": 20232024, "gameType": 2, "gameDate": "2023-10-11",
			 "venue": {"default": "Rogers Place"}, "startTimeUTC": "2023-10-12T01:00:00Z",
			 "gameState": "OFF", "gameOutcome": {"lastPeriodType": "OT"},
			 "awayTeam": {"abbrev": "COL", "score": 2}, "homeTeam": {"abbrev": "EDM", "score": 3}},
			{"id": 2023020015, "season": 20232024, "gameType": 2, "gameDate": "2023-10-14",
			 "venue": {"default": "Rogers Place"}, "startTimeUTC": "2023-10-15T01:00:00Z",
			 "gameState": "FUT",
			 "awayTeam": {"abbrev": "VAN"}, "homeTeam": {"abbrev": "EDM"}}
		]}`))
	})
	mux.HandleFunc("/v1/standings/2023-11-01", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"standings": [
			{"date": "2023-11-01", "conferenceName": "Western", "divisionName": "Pacific",
			 "teamName": {"default": "Vancouver Canucks"}, "teamAbbrev": {"default": "VAN"},
			 "gamesPlayed": 9, "wins": 6, "losses": 2, "otLosses": 1, "points": 13,
			 "goalFor": 45, "goalAgainst": 25, "goalDifferential": 20,
			 "streakCode": "W", "streakCount": 3}
		]}`))
	})
	mux.HandleFunc("/v1/draft/picks/2023/1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"draftYear": 2023, "picks": [
			{"round": 1, "overallPick": 1, "teamAbbrev": "CHI", "playerId": 8484144,
			 "firstName": {"default": "Connor"}, "lastName": {"default": "Bedard"},
			 "positionCode": "C", "countryCode": "CAN"}
		]}`))
	})
	mux.HandleFunc("/v1/draft/rankings/2023/1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rankings": [
			{"finalRank": 1, "firstName": "Connor", "lastName": "Bedard",
			 "positionCode": "C", "shootsCatches": "R", "heightInInches": 70,
			 "weightInPounds": 185, "birthDate": "2005-07-17", "birthCountry": "CAN"}
		]}`))
	})
	mux.HandleFunc("/franchise", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [
			{"id": 25, "fullName": "Edmonton Oilers", "teamCommonName": "Oilers",
			 "teamPlaceName": "Edmonton"}
		]}`))
	})
	return mux
}

func TestFetchClubSchedule(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, catalogHandler())
	games, err := client.FetchClubSchedule(context.Background(), "EDM", "20232024")
	require.NoError(t, err)
	require.Len(t, games, 2)

	played := games[0]
	require.Equal(t, int64(2023020001), played.GameID)
	require.Equal(t, "COL", played.AwayAbbrev)
	require.NotNil(t, played.HomeScore)
	require.Equal(t, 3, *played.HomeScore)
	require.Equal(t, "OT", played.GameOutcome)

	future := games[1]
	require.Equal(t, "FUT", future.GameState)
	require.Nil(t, future.HomeScore, "unplayed games carry no score")
}

func TestFetchStandings(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, catalogHandler())
	standings, err := client.FetchStandings(context.Background(), "2023-11-01")
	require.NoError(t, err)
	require.Len(t, standings, 1)

	row := standings[0]
	require.Equal(t, "VAN", row.TeamAbbrev)
	require.Equal(t, "Pacific", row.Division)
	require.Equal(t, 13, row.Points)
	require.Equal(t, 20, row.GoalDifferential)
	require.Equal(t, "W", row.StreakCode)
}

func TestFetchDraftPicksAndRankings(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, catalogHandler())

	picks, err := client.FetchDraftPicks(context.Background(), "2023", "1")
	require.NoError(t, err)
	require.Len(t, picks, 1)
	require.Equal(t, 2023, picks[0].Year)
	require.Equal(t, 1, picks[0].Overall)
	require.Equal(t, "Bedard", picks[0].LastName)

	rankings, err := client.FetchDraftRankings(context.Background(), "2023", 1)
	require.NoError(t, err)
	require.Len(t, rankings, 1)
	require.Equal(t, 1, rankings[0].FinalRank)
	require.Equal(t, 1, rankings[0].Category)
	require.Equal(t, "CAN", rankings[0].BirthCountry)
}

func TestFetchFranchises(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, catalogHandler())
	franchises, err := client.FetchFranchises(context.Background())
	require.NoError(t, err)
	require.Len(t, franchises, 1)
	require.Equal(t, int64(25), franchises[0].FranchiseID)
	require.Equal(t, "Edmonton Oilers", franchises[0].FullName)
}
