package timeline

import (
	"fmt"
	"sort"
	"time"
)

// Row is one flat record of a merged game timeline: a play-by-play event or
// a synthetic line-change, annotated with on-ice state and game metadata.
// Pointer fields are genuinely optional and render as JSON null; the legacy
// wide-column layout (playerId_1..3, skater id lists) is kept so downstream
// consumers can treat the output as a table.
type Row struct {
	GameID  int64  `json:"gameId"`
	EventID int64  `json:"eventId"`
	Event   string `json:"event"`

	Period        int    `json:"periodNumber"`
	PeriodType    string `json:"periodType"`
	TimeInPeriod  string `json:"timeInPeriod"`
	TimeRemaining string `json:"timeRemaining"`
	ElapsedTime   int    `json:"elapsedTime"`
	TimeRemainS   int    `json:"timeRemaining_s"`
	SortOrder     int    `json:"sortOrder"`
	Priority      int    `json:"priority"`

	EventTeam     string `json:"eventTeam,omitempty"`
	EventTeamType string `json:"eventTeamType,omitempty"`
	EventTeamID   *int64 `json:"eventTeamId,omitempty"`

	XCoord *float64 `json:"xCoord,omitempty"`
	YCoord *float64 `json:"yCoord,omitempty"`
	XFixed *float64 `json:"xFixed,omitempty"`
	YFixed *float64 `json:"yFixed,omitempty"`

	ZoneCode        string `json:"zoneCode,omitempty"`
	Reason          string `json:"reason,omitempty"`
	SecondaryReason string `json:"secondaryReason,omitempty"`
	ShotType        string `json:"shotType,omitempty"`
	DescKey         string `json:"descKey,omitempty"`
	TypeCode        string `json:"typeCode,omitempty"`
	Duration        *int   `json:"duration,omitempty"`

	PlayerID1   *int64 `json:"playerId_1,omitempty"`
	PlayerID2   *int64 `json:"playerId_2,omitempty"`
	PlayerID3   *int64 `json:"playerId_3,omitempty"`
	PlayerName1 string `json:"playerName_1,omitempty"`
	PlayerName2 string `json:"playerName_2,omitempty"`
	PlayerName3 string `json:"playerName_3,omitempty"`

	// Zone-start labels carried only by line-change ON rows that follow a
	// stoppage; on-the-fly starts have no faceoff dot to label from.
	ZoneStartSide1       string `json:"zoneStartSide_1,omitempty"`
	ZoneStartSideDetail1 string `json:"zoneStartSideDetail_1,omitempty"`

	HomeScore int `json:"homeScore"`
	AwayScore int `json:"awayScore"`
	HomeSOG   int `json:"homeSOG"`
	AwaySOG   int `json:"awaySOG"`

	HomeSkaters      int      `json:"home_skaters"`
	AwaySkaters      int      `json:"away_skaters"`
	HomeSkaterIDs    []int64  `json:"home_skater_ids"`
	AwaySkaterIDs    []int64  `json:"away_skater_ids"`
	HomeSkaterNames  []string `json:"home_skater_fullNames"`
	AwaySkaterNames  []string `json:"away_skater_fullNames"`
	HomeGoalieID     *int64   `json:"home_goalie_id,omitempty"`
	AwayGoalieID     *int64   `json:"away_goalie_id,omitempty"`
	HomeGoalieName   string   `json:"home_goalie_fullName,omitempty"`
	AwayGoalieName   string   `json:"away_goalie_fullName,omitempty"`
	GameStrength     string   `json:"game_strength,omitempty"`
	HomeDefendsRight *bool    `json:"-"`

	HomeTeam   string `json:"homeTeam"`
	AwayTeam   string `json:"awayTeam"`
	HomeTeamID int64  `json:"homeTeamId"`
	AwayTeamID int64  `json:"awayTeamId"`

	Meta GameMeta `json:"meta"`
}

// GameMeta is the per-game metadata stamped onto every row at assembly.
type GameMeta struct {
	Season           int       `json:"season,omitempty"`
	GameType         int       `json:"gameType,omitempty"`
	LimitedScoring   bool      `json:"limitedScoring,omitempty"`
	GameDate         string    `json:"gameDate,omitempty"`
	Venue            string    `json:"venue,omitempty"`
	VenueLocation    string    `json:"venueLocation,omitempty"`
	StartTimeUTC     string    `json:"startTimeUTC,omitempty"`
	EasternUTCOffset string    `json:"easternUTCOffset,omitempty"`
	VenueUTCOffset   string    `json:"venueUTCOffset,omitempty"`
	GameState        string    `json:"gameState,omitempty"`
	GameOutcome      string    `json:"gameOutcome,omitempty"`
	ScrapedAt        time.Time `json:"meta_datetime"`
	Source           string    `json:"meta_source,omitempty"`
}

// Timeline is the assembled output for one game.
type Timeline struct {
	GameID int64    `json:"gameId"`
	Meta   GameMeta `json:"meta"`
	Rows   []Row    `json:"rows"`
}

// Less is the canonical row ordering: ascending elapsed seconds, ties broken
// by the event priority.
func Less(a, b Row) bool {
	if a.ElapsedTime != b.ElapsedTime {
		return a.ElapsedTime < b.ElapsedTime
	}
	return a.Priority < b.Priority
}

// Sort orders rows in place by the canonical ordering. The sort is stable so
// rows that tie on both keys keep their input order.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool { return Less(rows[i], rows[j]) })
}

// CheckOrdering verifies the canonical ordering holds, reporting the first
// offending pair.
func CheckOrdering(rows []Row) error {
	for i := 1; i < len(rows); i++ {
		if Less(rows[i], rows[i-1]) {
			return fmt.Errorf("rows %d and %d out of order: (%d,%d) before (%d,%d)",
				i-1, i,
				rows[i-1].ElapsedTime, rows[i-1].Priority,
				rows[i].ElapsedTime, rows[i].Priority)
		}
	}
	return nil
}
