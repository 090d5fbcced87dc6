package usecase

import (
	"github.com/crease-analytics/rinkline/internal/domain/timeline"
)

// assemble stamps the per-game metadata onto the ordered rows and wraps
// them into the final timeline.
func (s *ReconcileService) assemble(info ExternalGameInfo, rows []timeline.Row) *timeline.Timeline {
	meta := timeline.GameMeta{
		Season:           info.Season,
		GameType:         info.GameType,
		LimitedScoring:   info.LimitedScoring,
		GameDate:         info.GameDate,
		Venue:            info.Venue,
		VenueLocation:    info.VenueLocation,
		StartTimeUTC:     info.StartTimeUTC,
		EasternUTCOffset: info.EasternUTCOffset,
		VenueUTCOffset:   info.VenueUTCOffset,
		GameState:        info.GameState,
		GameOutcome:      info.GameOutcome,
		ScrapedAt:        s.now().UTC(),
		Source:           s.source,
	}

	for i := range rows {
		rows[i].Meta = meta
	}

	return &timeline.Timeline{
		GameID: info.GameID,
		Meta:   meta,
		Rows:   rows,
	}
}
