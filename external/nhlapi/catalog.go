package nhlapi

import (
	"context"
	"fmt"
	"strconv"

	"github.com/crease-analytics/rinkline/internal/usecase"
)

type scheduleTeam struct {
	Abbrev string `json:"abbrev"`
	Score  *int   `json:"score"`
}

type scheduleGame struct {
	ID           int64           `json:"id"`
	Season       int             `json:"season"`
	GameType     int             `json:"gameType"`
	GameDate     string          `json:"gameDate"`
	Venue        localizedString `json:"venue"`
	StartTimeUTC string          `json:"startTimeUTC"`
	GameState    string          `json:"gameState"`
	GameOutcome  gameOutcome     `json:"gameOutcome"`
	AwayTeam     scheduleTeam    `json:"awayTeam"`
	HomeTeam     scheduleTeam    `json:"homeTeam"`
}

type clubScheduleResponse struct {
	Games []scheduleGame `json:"games"`
}

func (c *Client) FetchClubSchedule(ctx context.Context, teamSlug, season string) ([]usecase.ExternalScheduleGame, error) {
	var envelope clubScheduleResponse
	endpoint := fmt.Sprintf("%s/v1/club-schedule-season/%s/%s", c.apiBaseURL, teamSlug, season)
	if err := c.doJSON(ctx, endpoint, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch club schedule %s/%s: %w", teamSlug, season, err)
	}

	out := make([]usecase.ExternalScheduleGame, 0, len(envelope.Games))
	for _, game := range envelope.Games {
		out = append(out, usecase.ExternalScheduleGame{
			GameID:       game.ID,
			Season:       game.Season,
			GameType:     game.GameType,
			GameDate:     game.GameDate,
			StartTimeUTC: game.StartTimeUTC,
			GameState:    game.GameState,
			Venue:        game.Venue.Default,
			HomeAbbrev:   game.HomeTeam.Abbrev,
			AwayAbbrev:   game.AwayTeam.Abbrev,
			HomeScore:    game.HomeTeam.Score,
			AwayScore:    game.AwayTeam.Score,
			GameOutcome:  game.GameOutcome.LastPeriodType,
		})
	}
	return out, nil
}

type standingRow struct {
	Date             string          `json:"date"`
	ConferenceName   string          `json:"conferenceName"`
	DivisionName     string          `json:"divisionName"`
	TeamName         localizedString `json:"teamName"`
	TeamAbbrev       localizedString `json:"teamAbbrev"`
	GamesPlayed      int             `json:"gamesPlayed"`
	Wins             int             `json:"wins"`
	Losses           int             `json:"losses"`
	OTLosses         int             `json:"otLosses"`
	Points           int             `json:"points"`
	GoalFor          int             `json:"goalFor"`
	GoalAgainst      int             `json:"goalAgainst"`
	GoalDifferential int             `json:"goalDifferential"`
	StreakCode       string          `json:"streakCode"`
	StreakCount      int             `json:"streakCount"`
}

type standingsResponse struct {
	Standings []standingRow `json:"standings"`
}

func (c *Client) FetchStandings(ctx context.Context, date string) ([]usecase.ExternalStanding, error) {
	var envelope standingsResponse
	if err := c.doJSON(ctx, fmt.Sprintf("%s/v1/standings/%s", c.apiBaseURL, date), nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch standings %s: %w", date, err)
	}

	out := make([]usecase.ExternalStanding, 0, len(envelope.Standings))
	for _, row := range envelope.Standings {
		out = append(out, usecase.ExternalStanding{
			Date:             row.Date,
			TeamName:         row.TeamName.Default,
			TeamAbbrev:       row.TeamAbbrev.Default,
			Conference:       row.ConferenceName,
			Division:         row.DivisionName,
			GamesPlayed:      row.GamesPlayed,
			Wins:             row.Wins,
			Losses:           row.Losses,
			OTLosses:         row.OTLosses,
			Points:           row.Points,
			GoalsFor:         row.GoalFor,
			GoalsAgainst:     row.GoalAgainst,
			GoalDifferential: row.GoalDifferential,
			StreakCode:       row.StreakCode,
			StreakCount:      row.StreakCount,
		})
	}
	return out, nil
}

type draftPickRow struct {
	Round        int             `json:"round"`
	OverallPick  int             `json:"overallPick"`
	TeamAbbrev   string          `json:"teamAbbrev"`
	PlayerID     int64           `json:"playerId"`
	FirstName    localizedString `json:"firstName"`
	LastName     localizedString `json:"lastName"`
	PositionCode string          `json:"positionCode"`
	CountryCode  string          `json:"countryCode"`
}

type draftPicksResponse struct {
	DraftYear int            `json:"draftYear"`
	Picks     []draftPickRow `json:"picks"`
}

func (c *Client) FetchDraftPicks(ctx context.Context, year, round string) ([]usecase.ExternalDraftPick, error) {
	var envelope draftPicksResponse
	endpoint := fmt.Sprintf("%s/v1/draft/picks/%s/%s", c.apiBaseURL, year, round)
	if err := c.doJSON(ctx, endpoint, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch draft picks %s round %s: %w", year, round, err)
	}

	draftYear := envelope.DraftYear
	if draftYear == 0 {
		draftYear, _ = strconv.Atoi(year)
	}

	out := make([]usecase.ExternalDraftPick, 0, len(envelope.Picks))
	for _, pick := range envelope.Picks {
		out = append(out, usecase.ExternalDraftPick{
			Year:         draftYear,
			Round:        pick.Round,
			Overall:      pick.OverallPick,
			TeamAbbrev:   pick.TeamAbbrev,
			PlayerID:     pick.PlayerID,
			FirstName:    pick.FirstName.Default,
			LastName:     pick.LastName.Default,
			PositionCode: pick.PositionCode,
			CountryCode:  pick.CountryCode,
		})
	}
	return out, nil
}

type draftRankingRow struct {
	FinalRank      int    `json:"finalRank"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	PositionCode   string `json:"positionCode"`
	ShootsCatches  string `json:"shootsCatches"`
	HeightInInches int    `json:"heightInInches"`
	WeightInPounds int    `json:"weightInPounds"`
	BirthDate      string `json:"birthDate"`
	BirthCountry   string `json:"birthCountry"`
}

type draftRankingsResponse struct {
	DraftYear    int               `json:"draftYear"`
	CategoryID   int               `json:"categoryId"`
	CategoryName string            `json:"categoryName"`
	Rankings     []draftRankingRow `json:"rankings"`
}

func (c *Client) FetchDraftRankings(ctx context.Context, year string, category int) ([]usecase.ExternalDraftRanking, error) {
	var envelope draftRankingsResponse
	endpoint := fmt.Sprintf("%s/v1/draft/rankings/%s/%d", c.apiBaseURL, year, category)
	if err := c.doJSON(ctx, endpoint, nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch draft rankings %s category %d: %w", year, category, err)
	}

	draftYear := envelope.DraftYear
	if draftYear == 0 {
		draftYear, _ = strconv.Atoi(year)
	}

	out := make([]usecase.ExternalDraftRanking, 0, len(envelope.Rankings))
	for _, row := range envelope.Rankings {
		out = append(out, usecase.ExternalDraftRanking{
			Year:           draftYear,
			Category:       category,
			FinalRank:      row.FinalRank,
			FirstName:      row.FirstName,
			LastName:       row.LastName,
			PositionCode:   row.PositionCode,
			ShootsCatches:  row.ShootsCatches,
			HeightInInches: row.HeightInInches,
			WeightInPounds: row.WeightInPounds,
			BirthDate:      row.BirthDate,
			BirthCountry:   row.BirthCountry,
		})
	}
	return out, nil
}

type franchiseRow struct {
	ID             int64  `json:"id"`
	FullName       string `json:"fullName"`
	TeamCommonName string `json:"teamCommonName"`
	TeamPlaceName  string `json:"teamPlaceName"`
}

type franchisesResponse struct {
	Data []franchiseRow `json:"data"`
}

func (c *Client) FetchFranchises(ctx context.Context) ([]usecase.ExternalFranchise, error) {
	var envelope franchisesResponse
	if err := c.doJSON(ctx, c.statsBaseURL+"/franchise", nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch franchises: %w", err)
	}

	out := make([]usecase.ExternalFranchise, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		out = append(out, usecase.ExternalFranchise{
			FranchiseID:    row.ID,
			FullName:       row.FullName,
			TeamCommonName: row.TeamCommonName,
			TeamPlaceName:  row.TeamPlaceName,
		})
	}
	return out, nil
}
