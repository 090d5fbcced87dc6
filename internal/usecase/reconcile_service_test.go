package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/crease-analytics/rinkline/internal/domain/clock"
	"github.com/crease-analytics/rinkline/internal/domain/event"
	"github.com/crease-analytics/rinkline/internal/domain/timeline"
)

func i64(v int64) *int64    { return &v }
func intp(v int) *int       { return &v }
func f64(v float64) *float64 { return &v }

func testGameInfo() ExternalGameInfo {
	return ExternalGameInfo{
		GameID:        2023020001,
		Season:        20232024,
		GameType:      2,
		GameDate:      "2023-10-11",
		Venue:         "Rogers Place",
		VenueLocation: "Edmonton",
		StartTimeUTC:  "2023-10-12 01:00:00",
		GameState:     "OFF",
		GameOutcome:   "REG",
		HomeTeamID:    22,
		AwayTeamID:    21,
		HomeAbbrev:    "EDM",
		AwayAbbrev:    "COL",
	}
}

func testRosters() []ExternalRosterSpot {
	return []ExternalRosterSpot{
		{PlayerID: 8478402, TeamID: 22, JerseyNumber: 97, FirstName: "Connor", LastName: "McDavid", PositionCode: "C"},
		{PlayerID: 8477934, TeamID: 22, JerseyNumber: 29, FirstName: "Leon", LastName: "Draisaitl", PositionCode: "C"},
		{PlayerID: 8475786, TeamID: 22, JerseyNumber: 74, FirstName: "Stuart", LastName: "Skinner", PositionCode: "G"},
		{PlayerID: 8477492, TeamID: 21, JerseyNumber: 29, FirstName: "Nathan", LastName: "MacKinnon", PositionCode: "C"},
		{PlayerID: 8480069, TeamID: 21, JerseyNumber: 8, FirstName: "Cale", LastName: "Makar", PositionCode: "D"},
		{PlayerID: 8480382, TeamID: 21, JerseyNumber: 40, FirstName: "Alexandar", LastName: "Georgiev", PositionCode: "G"},
	}
}

// One period with a faceoff at 0, a shot at 90, a goal plus stoppage and
// faceoff at 300, a penalty at 480, and the period end.
func testPlays() []ExternalPlay {
	defending := "right"
	return []ExternalPlay{
		{EventID: 1, SortOrder: 10, TypeDescKey: "period-start", Period: 1, PeriodType: "REG",
			TimeInPeriod: "00:00", TimeRemaining: "20:00", HomeTeamDefendingSide: defending},
		{EventID: 2, SortOrder: 11, TypeDescKey: "faceoff", Period: 1, PeriodType: "REG",
			TimeInPeriod: "00:00", TimeRemaining: "20:00", HomeTeamDefendingSide: defending,
			EventOwnerTeamID: i64(22), XCoord: f64(0), YCoord: f64(0), ZoneCode: "N",
			WinningPlayerID: i64(8478402), LosingPlayerID: i64(8477492)},
		{EventID: 3, SortOrder: 12, TypeDescKey: "shot-on-goal", Period: 1, PeriodType: "REG",
			TimeInPeriod: "01:30", TimeRemaining: "18:30", HomeTeamDefendingSide: defending,
			EventOwnerTeamID: i64(22), XCoord: f64(25), YCoord: f64(10), ShotType: "wrist",
			ShootingPlayerID: i64(8478402), HomeSOG: intp(1), AwaySOG: intp(0)},
		{EventID: 4, SortOrder: 13, TypeDescKey: "goal", Period: 1, PeriodType: "REG",
			TimeInPeriod: "05:00", TimeRemaining: "15:00", HomeTeamDefendingSide: defending,
			EventOwnerTeamID: i64(22), ShotType: "snap",
			ScoringPlayerID: i64(8478402), Assist1PlayerID: i64(8477934),
			HomeScore: intp(1), AwayScore: intp(0), HomeSOG: intp(2),
			GoalieInNetID: i64(8480382)},
		{EventID: 5, SortOrder: 14, TypeDescKey: "stoppage", Period: 1, PeriodType: "REG",
			TimeInPeriod: "05:00", TimeRemaining: "15:00", HomeTeamDefendingSide: defending,
			Reason: "icing"},
		{EventID: 6, SortOrder: 15, TypeDescKey: "faceoff", Period: 1, PeriodType: "REG",
			TimeInPeriod: "05:00", TimeRemaining: "15:00", HomeTeamDefendingSide: defending,
			EventOwnerTeamID: i64(22), XCoord: f64(-69), YCoord: f64(22), ZoneCode: "O",
			WinningPlayerID: i64(8477934), LosingPlayerID: i64(8477492)},
		{EventID: 7, SortOrder: 16, TypeDescKey: "penalty", Period: 1, PeriodType: "REG",
			TimeInPeriod: "08:00", TimeRemaining: "12:00", HomeTeamDefendingSide: defending,
			EventOwnerTeamID: i64(21), Duration: intp(2), DescKey: "tripping",
			CommittedByPlayerID: i64(8480069), DrawnByPlayerID: i64(8478402)},
		{EventID: 8, SortOrder: 17, TypeDescKey: "period-end", Period: 1, PeriodType: "REG",
			TimeInPeriod: "20:00", TimeRemaining: "00:00", HomeTeamDefendingSide: defending},
	}
}

func testShifts() []ExternalShift {
	return []ExternalShift{
		{ShiftID: 100, PlayerID: 8475786, TeamID: 22, TeamAbbrev: "EDM", Period: 1, StartTime: "00:00", EndTime: "20:00", ShiftNumber: 1},
		{ShiftID: 101, PlayerID: 8480382, TeamID: 21, TeamAbbrev: "COL", Period: 1, StartTime: "00:00", EndTime: "20:00", ShiftNumber: 1},
		{ShiftID: 102, PlayerID: 8478402, TeamID: 22, TeamAbbrev: "EDM", Period: 1, StartTime: "00:00", EndTime: "02:00", ShiftNumber: 1},
		{ShiftID: 103, PlayerID: 8477934, TeamID: 22, TeamAbbrev: "EDM", Period: 1, StartTime: "05:00", EndTime: "06:00", ShiftNumber: 1},
		{ShiftID: 104, PlayerID: 8477492, TeamID: 21, TeamAbbrev: "COL", Period: 1, StartTime: "00:00", EndTime: "02:00", ShiftNumber: 1},
		{ShiftID: 105, PlayerID: 8480069, TeamID: 21, TeamAbbrev: "COL", Period: 1, StartTime: "04:40", EndTime: "06:40", ShiftNumber: 1},
	}
}

func testBundle() ExternalGameBundle {
	return ExternalGameBundle{
		Info:    testGameInfo(),
		Plays:   testPlays(),
		Rosters: testRosters(),
		Shifts:  testShifts(),
	}
}

func findRow(t *testing.T, rows []timeline.Row, eventType string, elapsed int) timeline.Row {
	t.Helper()
	for _, row := range rows {
		if row.Event == eventType && row.ElapsedTime == elapsed {
			return row
		}
	}
	t.Fatalf("no %q row at elapsed %d", eventType, elapsed)
	return timeline.Row{}
}

func TestReconcile_EndToEndSinglePeriod(t *testing.T) {
	svc := NewReconcileService(nil)

	tl, err := svc.Reconcile(context.Background(), testBundle())
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	// 8 feed events + 2 rows per shift.
	wantRows := 8 + 2*len(testShifts())
	if len(tl.Rows) != wantRows {
		t.Fatalf("got %d rows, want %d", len(tl.Rows), wantRows)
	}

	if err := timeline.CheckOrdering(tl.Rows); err != nil {
		t.Fatalf("output ordering broken: %v", err)
	}

	goal := findRow(t, tl.Rows, "goal", 300)
	if goal.HomeScore != 1 || goal.AwayScore != 0 {
		t.Fatalf("goal score = %d-%d, want 1-0", goal.HomeScore, goal.AwayScore)
	}
	if goal.PlayerID1 == nil || *goal.PlayerID1 != 8478402 || goal.PlayerName1 != "Connor McDavid" {
		t.Fatalf("goal scorer wrong: %+v", goal)
	}
	if goal.PlayerName2 != "Leon Draisaitl" {
		t.Fatalf("goal assist wrong: %q", goal.PlayerName2)
	}
	if goal.HomeGoalieID == nil || *goal.HomeGoalieID != 8475786 {
		t.Fatalf("home goalie not derived from shifts: %+v", goal.HomeGoalieID)
	}
	if goal.AwayGoalieID == nil || *goal.AwayGoalieID != 8480382 {
		t.Fatalf("away goalie not derived from shifts: %+v", goal.AwayGoalieID)
	}

	// At the goal second only Draisaitl (home) and Makar (away) are on.
	if goal.HomeSkaters != 1 || goal.AwaySkaters != 1 {
		t.Fatalf("goal on-ice counts = %dv%d skater lists %v %v",
			goal.HomeSkaters, goal.AwaySkaters, goal.HomeSkaterIDs, goal.AwaySkaterIDs)
	}
	if goal.GameStrength != "1v1" {
		t.Fatalf("game strength = %q", goal.GameStrength)
	}

	// The second 300 cluster must order goal < stoppage < line-changes < faceoff.
	var at300 []string
	for _, row := range tl.Rows {
		if row.ElapsedTime == 300 {
			at300 = append(at300, row.Event)
		}
	}
	if at300[0] != "goal" || at300[1] != "stoppage" || at300[len(at300)-1] != "faceoff" {
		t.Fatalf("cluster at 300 misordered: %v", at300)
	}
	for _, name := range at300[2 : len(at300)-1] {
		if name != "line-change" {
			t.Fatalf("cluster at 300 misordered: %v", at300)
		}
	}
}

func TestReconcile_CoordinateFlip(t *testing.T) {
	svc := NewReconcileService(nil)

	tl, err := svc.Reconcile(context.Background(), testBundle())
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	shot := findRow(t, tl.Rows, "shot-on-goal", 90)
	if shot.XCoord == nil || *shot.XCoord != 25 || *shot.YCoord != 10 {
		t.Fatalf("raw coordinates altered: %+v", shot)
	}
	// Home defends right, so both axes flip.
	if shot.XFixed == nil || *shot.XFixed != -25 || *shot.YFixed != -10 {
		t.Fatalf("normalized coordinates wrong: x=%v y=%v", shot.XFixed, shot.YFixed)
	}
}

func TestReconcile_ZoneStartLabels(t *testing.T) {
	svc := NewReconcileService(nil)

	tl, err := svc.Reconcile(context.Background(), testBundle())
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	// Draisaitl's shift starts at the 05:00 faceoff: a stoppage start with
	// a zone label from the faceoff dot, mirrored into the home frame. The
	// raw dot (-69,22) normalizes to (69,-22) under the right-defending flip.
	var on timeline.Row
	found := false
	for _, row := range tl.Rows {
		if row.Event == "line-change" && row.TypeCode == "ON" && row.ElapsedTime == 300 &&
			row.PlayerID1 != nil && *row.PlayerID1 == 8477934 {
			on = row
			found = true
		}
	}
	if !found {
		t.Fatal("no ON line-change for Draisaitl at 300")
	}
	if on.DescKey != "SIP" {
		t.Fatalf("stoppage start misclassified: %q", on.DescKey)
	}
	if on.ZoneStartSide1 != "Offensive Zone" || on.ZoneStartSideDetail1 != "Offensive Zone Left" {
		t.Fatalf("zone start labels wrong: %q %q", on.ZoneStartSide1, on.ZoneStartSideDetail1)
	}

	// Makar changed on the fly at 280: no zone label.
	var makarOn timeline.Row
	found = false
	for _, row := range tl.Rows {
		if row.Event == "line-change" && row.TypeCode == "ON" && row.ElapsedTime == 280 {
			makarOn = row
			found = true
		}
	}
	if !found {
		t.Fatal("no ON line-change at 280")
	}
	if makarOn.DescKey != "OTF" || makarOn.ZoneStartSide1 != "" {
		t.Fatalf("on-the-fly start mislabeled: %+v", makarOn)
	}
}

func TestReconcile_BackfillOnLineChanges(t *testing.T) {
	svc := NewReconcileService(nil)

	tl, err := svc.Reconcile(context.Background(), testBundle())
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	// The ON rows at 300 inherit the clock and score of the next feed row.
	for _, row := range tl.Rows {
		if row.Event != "line-change" || row.ElapsedTime != 300 {
			continue
		}
		if row.TimeInPeriod != "05:00" {
			t.Fatalf("line-change clock not backfilled: %+v", row)
		}
		if row.HomeScore != 1 || row.AwayScore != 0 {
			t.Fatalf("line-change score not backfilled: %+v", row)
		}
	}
}

func TestReconcile_CarriedForwardScores(t *testing.T) {
	svc := NewReconcileService(nil)
	info := testGameInfo()

	plays := []ExternalPlay{
		{EventID: 1, TypeDescKey: "period-start", Period: 1, PeriodType: "REG", TimeInPeriod: "00:00", TimeRemaining: "20:00"},
		{EventID: 2, TypeDescKey: "goal", Period: 1, PeriodType: "REG", TimeInPeriod: "02:00", TimeRemaining: "18:00",
			HomeScore: intp(1), AwayScore: intp(0)},
		{EventID: 3, TypeDescKey: "stoppage", Period: 1, PeriodType: "REG", TimeInPeriod: "03:00", TimeRemaining: "17:00"},
		{EventID: 4, TypeDescKey: "takeaway", Period: 1, PeriodType: "REG", TimeInPeriod: "04:00", TimeRemaining: "16:00"},
		{EventID: 5, TypeDescKey: "goal", Period: 1, PeriodType: "REG", TimeInPeriod: "05:00", TimeRemaining: "15:00",
			HomeScore: intp(2), AwayScore: intp(0)},
	}

	tl, err := svc.Reconcile(context.Background(), ExternalGameBundle{
		Info:    info,
		Plays:   plays,
		Rosters: testRosters(),
	})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	want := [][2]int{{0, 0}, {1, 0}, {1, 0}, {1, 0}, {2, 0}}
	if len(tl.Rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(tl.Rows), len(want))
	}
	for i, pair := range want {
		if tl.Rows[i].HomeScore != pair[0] || tl.Rows[i].AwayScore != pair[1] {
			t.Fatalf("row %d score = %d-%d, want %d-%d",
				i, tl.Rows[i].HomeScore, tl.Rows[i].AwayScore, pair[0], pair[1])
		}
	}
}

func TestReconcile_UnknownEventTypeFails(t *testing.T) {
	svc := NewReconcileService(nil)

	bundle := testBundle()
	bundle.Plays = append(bundle.Plays, ExternalPlay{
		EventID: 99, TypeDescKey: "alien-probe", Period: 1, PeriodType: "REG",
		TimeInPeriod: "10:00", TimeRemaining: "10:00",
	})

	_, err := svc.Reconcile(context.Background(), bundle)
	if !errors.Is(err, event.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestReconcile_MalformedClockFails(t *testing.T) {
	svc := NewReconcileService(nil)

	bundle := testBundle()
	bundle.Plays[2].TimeInPeriod = "90 seconds"

	_, err := svc.Reconcile(context.Background(), bundle)
	if !errors.Is(err, clock.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
}

func TestReconcile_AmbiguousGoalieStaysNull(t *testing.T) {
	svc := NewReconcileService(nil)

	bundle := testBundle()
	// Second home goalie interval overlapping Skinner's around the goal.
	bundle.Rosters = append(bundle.Rosters, ExternalRosterSpot{
		PlayerID: 8479973, TeamID: 22, JerseyNumber: 30, FirstName: "Calvin", LastName: "Pickard", PositionCode: "G",
	})
	bundle.Shifts = append(bundle.Shifts, ExternalShift{
		ShiftID: 106, PlayerID: 8479973, TeamID: 22, TeamAbbrev: "EDM", Period: 1,
		StartTime: "04:00", EndTime: "06:00", ShiftNumber: 1,
	})

	tl, err := svc.Reconcile(context.Background(), bundle)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	goal := findRow(t, tl.Rows, "goal", 300)
	if goal.HomeGoalieID != nil {
		t.Fatalf("ambiguous home goalie must stay null, got %d", *goal.HomeGoalieID)
	}
	// The away bench is unambiguous and keeps its goalie.
	if goal.AwayGoalieID == nil || *goal.AwayGoalieID != 8480382 {
		t.Fatalf("away goalie lost: %+v", goal.AwayGoalieID)
	}
}

func TestReconcile_GoalieInNetOverride(t *testing.T) {
	svc := NewReconcileService(nil)

	bundle := testBundle()
	// Strip all goalie shifts so neither bench derives a netminder.
	shifts := bundle.Shifts[:0]
	for _, rec := range testShifts() {
		if rec.PlayerID == 8475786 || rec.PlayerID == 8480382 {
			continue
		}
		shifts = append(shifts, rec)
	}
	bundle.Shifts = shifts

	tl, err := svc.Reconcile(context.Background(), bundle)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	goal := findRow(t, tl.Rows, "goal", 300)
	// A home goal with goalieInNetId set places that goalie on the away bench.
	if goal.AwayGoalieID == nil || *goal.AwayGoalieID != 8480382 {
		t.Fatalf("goalieInNetId override not applied: %+v", goal.AwayGoalieID)
	}
	if goal.HomeGoalieID != nil {
		t.Fatalf("home goalie should stay null: %+v", goal.HomeGoalieID)
	}
	if goal.AwayGoalieName != "Alexandar Georgiev" {
		t.Fatalf("override goalie name = %q", goal.AwayGoalieName)
	}
}

func TestReconcile_LegacyJerseyFallback(t *testing.T) {
	svc := NewReconcileService(nil)

	bundle := testBundle()
	// Legacy HTML rows carry no player id, only jersey and bench.
	bundle.Shifts = []ExternalShift{
		{ShiftID: 200, TeamAbbrev: "EDM", JerseyNumber: 97, Period: 1, StartTime: "00:00", EndTime: "01:00"},
		{ShiftID: 201, TeamAbbrev: "COL", JerseyNumber: 8, Period: 1, StartTime: "00:00", EndTime: "01:00"},
		{ShiftID: 202, TeamAbbrev: "COL", JerseyNumber: 63, Period: 1, StartTime: "00:00", EndTime: "01:00"},
	}

	tl, err := svc.Reconcile(context.Background(), bundle)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	faceoff := findRow(t, tl.Rows, "faceoff", 0)
	if faceoff.HomeSkaters != 1 || faceoff.HomeSkaterIDs[0] != 8478402 {
		t.Fatalf("jersey join failed for home: %v", faceoff.HomeSkaterIDs)
	}
	if faceoff.AwaySkaters != 1 || faceoff.AwaySkaterIDs[0] != 8480069 {
		t.Fatalf("unresolved jersey must be dropped, away: %v", faceoff.AwaySkaterIDs)
	}
}

func TestReconcile_MetadataOnEveryRow(t *testing.T) {
	svc := NewReconcileService(nil)

	tl, err := svc.Reconcile(context.Background(), testBundle())
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if tl.Meta.Season != 20232024 || tl.Meta.Venue != "Rogers Place" || tl.Meta.Source != "nhl-api-web" {
		t.Fatalf("timeline metadata wrong: %+v", tl.Meta)
	}
	if tl.Meta.ScrapedAt.IsZero() {
		t.Fatal("scrape timestamp missing")
	}
	for i, row := range tl.Rows {
		if row.Meta.Season != 20232024 || row.GameID != 2023020001 {
			t.Fatalf("row %d metadata missing: %+v", i, row.Meta)
		}
		if row.HomeTeam != "EDM" || row.AwayTeam != "COL" {
			t.Fatalf("row %d team columns missing: %+v", i, row)
		}
	}
}
