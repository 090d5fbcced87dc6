package nhlapi

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/crease-analytics/rinkline/internal/usecase"
)

// Shift chart rows share a table with goal markers; only this type code is
// an actual shift.
const shiftChartTypeCode = 517

type shiftChartRow struct {
	ID          int64  `json:"id"`
	GameID      int64  `json:"gameId"`
	PlayerID    int64  `json:"playerId"`
	TeamID      int64  `json:"teamId"`
	TeamAbbrev  string `json:"teamAbbrev"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Period      int    `json:"period"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Duration    string `json:"duration"`
	ShiftNumber int    `json:"shiftNumber"`
	TypeCode    int    `json:"typeCode"`
}

type shiftChartResponse struct {
	Data []shiftChartRow `json:"data"`
}

func (c *Client) fetchShiftChart(ctx context.Context, gameID int64) ([]usecase.ExternalShift, error) {
	var envelope shiftChartResponse
	query := map[string]string{"cayenneExp": fmt.Sprintf("gameId=%d", gameID)}
	if err := c.doJSON(ctx, c.statsBaseURL+"/shiftcharts", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch shift chart %d: %w", gameID, err)
	}

	out := make([]usecase.ExternalShift, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		if row.TypeCode != 0 && row.TypeCode != shiftChartTypeCode {
			continue
		}
		if row.StartTime == "" || row.EndTime == "" {
			continue
		}
		out = append(out, usecase.ExternalShift{
			ShiftID:     row.ID,
			PlayerID:    row.PlayerID,
			TeamID:      row.TeamID,
			TeamAbbrev:  row.TeamAbbrev,
			FirstName:   row.FirstName,
			LastName:    row.LastName,
			Period:      row.Period,
			StartTime:   row.StartTime,
			EndTime:     row.EndTime,
			ShiftNumber: row.ShiftNumber,
		})
	}
	return out, nil
}

// fetchLegacyShifts pulls the home (TH) and visitor (TV) time-on-ice HTML
// reports in parallel and parses them into shift records. Legacy rows carry
// no player ids; the reconciler joins them by jersey number and bench.
func (c *Client) fetchLegacyShifts(ctx context.Context, gameID int64, info usecase.ExternalGameInfo) ([]usecase.ExternalShift, error) {
	season := legacySeasonDir(gameID)
	suffix := fmt.Sprintf("%06d", gameID%1_000_000)

	type reportResult struct {
		shifts []usecase.ExternalShift
		err    error
	}
	results := make(map[string]*reportResult, 2)
	sides := []string{"H", "V"}
	for _, side := range sides {
		results[side] = &reportResult{}
	}

	workerPool, err := ants.NewPool(c.reportWorkers)
	if err != nil {
		return nil, fmt.Errorf("create report pool: %w", err)
	}
	defer workerPool.Release()

	var wg sync.WaitGroup
	for _, side := range sides {
		side := side
		wg.Add(1)
		if err := workerPool.Submit(func() {
			defer wg.Done()
			res := results[side]

			fullURL := fmt.Sprintf("%s/%s/T%s%s.HTM", c.reportsBaseURL, season, side, suffix)
			raw, fetchErr := c.fetch(ctx, fullURL, nil)
			if fetchErr != nil {
				res.err = fmt.Errorf("fetch report %s: %w", fullURL, fetchErr)
				return
			}

			teamAbbrev, teamID := info.HomeAbbrev, info.HomeTeamID
			if side == "V" {
				teamAbbrev, teamID = info.AwayAbbrev, info.AwayTeamID
			}
			res.shifts, res.err = parseTOIReport(raw, teamAbbrev, teamID)
		}); err != nil {
			wg.Done()
			return nil, fmt.Errorf("submit report fetch: %w", err)
		}
	}
	wg.Wait()

	out := make([]usecase.ExternalShift, 0, 256)
	for _, side := range sides {
		res := results[side]
		if res.err != nil {
			return nil, res.err
		}
		out = append(out, res.shifts...)
	}

	// Legacy rows have no upstream id; assign stable synthetic ones.
	for i := range out {
		out[i].ShiftID = int64(i + 1)
	}
	return out, nil
}

// legacySeasonDir builds the report directory ("20232024") from the season
// prefix of the game id.
func legacySeasonDir(gameID int64) string {
	year := gameID / 1_000_000
	return fmt.Sprintf("%d%d", year, year+1)
}
