package usecase

import "context"

// GameDataProvider is implemented by the NHL API client. Each fetch returns
// already-decoded neutral structs so the reconcile pipeline never sees
// transport concerns.
type GameDataProvider interface {
	FetchGameBundle(ctx context.Context, gameID int64) (ExternalGameBundle, error)
}

// CatalogProvider serves the non-game reference endpoints.
type CatalogProvider interface {
	FetchClubSchedule(ctx context.Context, teamSlug, season string) ([]ExternalScheduleGame, error)
	FetchStandings(ctx context.Context, date string) ([]ExternalStanding, error)
	FetchDraftPicks(ctx context.Context, year, round string) ([]ExternalDraftPick, error)
	FetchDraftRankings(ctx context.Context, year string, category int) ([]ExternalDraftRanking, error)
	FetchFranchises(ctx context.Context) ([]ExternalFranchise, error)
}

// ExternalGameBundle is everything the provider fetches for one game: the
// structured play-by-play feed with roster spots and game metadata, plus the
// shift chart (modern JSON or legacy HTML fallback).
type ExternalGameBundle struct {
	Info    ExternalGameInfo
	Plays   []ExternalPlay
	Rosters []ExternalRosterSpot
	Shifts  []ExternalShift
}

type ExternalGameInfo struct {
	GameID            int64
	Season            int
	GameType          int
	LimitedScoring    bool
	GameDate          string
	Venue             string
	VenueLocation     string
	StartTimeUTC      string
	EasternUTCOffset  string
	VenueUTCOffset    string
	GameState         string
	GameScheduleState string
	GameOutcome       string
	HomeTeamID        int64
	AwayTeamID        int64
	HomeAbbrev        string
	AwayAbbrev        string
}

// ExternalPlay is one raw feed event. Optional upstream fields stay pointers
// so absence survives into the pipeline instead of collapsing to zero values;
// unrecognized detail keys are preserved in Extra.
type ExternalPlay struct {
	EventID       int64
	SortOrder     int
	TypeDescKey   string
	Period        int
	PeriodType    string
	TimeInPeriod  string
	TimeRemaining string

	HomeTeamDefendingSide string

	EventOwnerTeamID *int64
	XCoord           *float64
	YCoord           *float64
	ZoneCode         string
	Reason           string
	SecondaryReason  string
	ShotType         string
	DescKey          string
	Duration         *int
	GoalieInNetID    *int64

	HomeScore *int
	AwayScore *int
	HomeSOG   *int
	AwaySOG   *int

	WinningPlayerID     *int64
	LosingPlayerID      *int64
	HittingPlayerID     *int64
	HitteePlayerID      *int64
	ShootingPlayerID    *int64
	BlockingPlayerID    *int64
	PlayerID            *int64
	ScoringPlayerID     *int64
	Assist1PlayerID     *int64
	Assist2PlayerID     *int64
	CommittedByPlayerID *int64
	DrawnByPlayerID     *int64
	ServedByPlayerID    *int64

	Extra map[string]any
}

type ExternalRosterSpot struct {
	PlayerID     int64
	TeamID       int64
	JerseyNumber int
	FirstName    string
	LastName     string
	PositionCode string
	Headshot     string
}

// ExternalShift is one shift record. PlayerID is zero for legacy HTML report
// rows, which only identify players by jersey number and bench.
type ExternalShift struct {
	ShiftID      int64
	PlayerID     int64
	TeamID       int64
	TeamAbbrev   string
	FirstName    string
	LastName     string
	JerseyNumber int
	Period       int
	PeriodType   string
	StartTime    string
	EndTime      string
	ShiftNumber  int
}

type ExternalScheduleGame struct {
	GameID       int64
	Season       int
	GameType     int
	GameDate     string
	StartTimeUTC string
	GameState    string
	Venue        string
	HomeAbbrev   string
	AwayAbbrev   string
	HomeScore    *int
	AwayScore    *int
	GameOutcome  string
}

type ExternalStanding struct {
	Date             string
	TeamName         string
	TeamAbbrev       string
	Conference       string
	Division         string
	GamesPlayed      int
	Wins             int
	Losses           int
	OTLosses         int
	Points           int
	GoalsFor         int
	GoalsAgainst     int
	GoalDifferential int
	StreakCode       string
	StreakCount      int
}

type ExternalDraftPick struct {
	Year         int
	Round        int
	Overall      int
	TeamAbbrev   string
	PlayerID     int64
	FirstName    string
	LastName     string
	PositionCode string
	CountryCode  string
}

type ExternalDraftRanking struct {
	Year           int
	Category       int
	FinalRank      int
	FirstName      string
	LastName       string
	PositionCode   string
	ShootsCatches  string
	HeightInInches int
	WeightInPounds int
	BirthDate      string
	BirthCountry   string
}

type ExternalFranchise struct {
	FranchiseID    int64
	FullName       string
	TeamCommonName string
	TeamPlaceName  string
}
