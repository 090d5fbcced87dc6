package roster

import (
	"errors"
	"testing"

	"github.com/crease-analytics/rinkline/internal/domain/event"
)

func sampleEntries() []Entry {
	return []Entry{
		{PlayerID: 8478402, Side: event.SideHome, JerseyNumber: 97, FirstName: "Connor", LastName: "McDavid", PositionCode: "C", TeamAbbrev: "EDM"},
		{PlayerID: 8477934, Side: event.SideHome, JerseyNumber: 29, FirstName: "Leon", LastName: "Draisaitl", PositionCode: "C", TeamAbbrev: "EDM"},
		{PlayerID: 8475786, Side: event.SideHome, JerseyNumber: 74, FirstName: "Stuart", LastName: "Skinner", PositionCode: "G", TeamAbbrev: "EDM"},
		{PlayerID: 8480069, Side: event.SideAway, JerseyNumber: 8, FirstName: "Cale", LastName: "Makar", PositionCode: "D", TeamAbbrev: "COL"},
	}
}

func TestBuildIndex_Lookups(t *testing.T) {
	idx, err := BuildIndex(sampleEntries())
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}

	res := idx.ByID(8478402)
	if !res.Resolved || res.Entry.FullName() != "Connor McDavid" {
		t.Fatalf("ByID resolution wrong: %+v", res)
	}

	res = idx.ByJerseyAndSide(8, event.SideAway)
	if !res.Resolved || res.Entry.PlayerID != 8480069 {
		t.Fatalf("ByJerseyAndSide resolution wrong: %+v", res)
	}

	if res := idx.ByJerseyAndSide(97, event.SideAway); res.Resolved {
		t.Fatal("jersey 97 should not resolve on the away side")
	}
	if res := idx.ByID(1); res.Resolved {
		t.Fatal("unknown id should not resolve")
	}
}

func TestBuildIndex_MissingIdentity(t *testing.T) {
	rows := []Entry{
		{FirstName: "No", LastName: "Identity"},
		{FirstName: "Still", LastName: "Nothing"},
	}
	if _, err := BuildIndex(rows); !errors.Is(err, ErrMissingIdentity) {
		t.Fatalf("expected ErrMissingIdentity, got %v", err)
	}
}

func TestBuildIndex_JerseyOnlyRowsAreKept(t *testing.T) {
	rows := []Entry{
		{Side: event.SideHome, JerseyNumber: 12, FirstName: "Legacy", LastName: "Winger", PositionCode: "L"},
	}
	idx, err := BuildIndex(rows)
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}
	if res := idx.ByJerseyAndSide(12, event.SideHome); !res.Resolved {
		t.Fatal("jersey-only row should resolve by jersey+side")
	}
}

func TestPositionDerivation(t *testing.T) {
	cases := map[string]string{"L": "F", "C": "F", "R": "F", "W": "F", "D": "D", "G": "G"}
	for code, want := range cases {
		entry := Entry{PositionCode: code}
		if got := entry.Position(); got != want {
			t.Fatalf("Position(%q) = %q, want %q", code, got, want)
		}
	}

	if (Entry{PositionCode: "G"}).Class() != ClassGoalie {
		t.Fatal("G must classify as goalie")
	}
	if (Entry{PositionCode: "D"}).Class() != ClassSkater {
		t.Fatal("D must classify as skater")
	}
}

func TestNameOf(t *testing.T) {
	idx, err := BuildIndex(sampleEntries())
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}
	if got := idx.NameOf(8477934); got != "Leon Draisaitl" {
		t.Fatalf("NameOf = %q", got)
	}
	if got := idx.NameOf(42); got != "" {
		t.Fatalf("NameOf(unknown) = %q, want empty", got)
	}
}
