package shift

import (
	"errors"
	"testing"

	"github.com/crease-analytics/rinkline/internal/domain/event"
	"github.com/crease-analytics/rinkline/internal/domain/roster"
)

func sampleIntervals() []Interval {
	return []Interval{
		{PlayerID: 8478402, Side: event.SideHome, Class: roster.ClassSkater, Period: 1, StartSeconds: 0, EndSeconds: 45},
		{PlayerID: 8477934, Side: event.SideHome, Class: roster.ClassSkater, Period: 1, StartSeconds: 0, EndSeconds: 52},
		{PlayerID: 8478402, Side: event.SideHome, Class: roster.ClassSkater, Period: 1, StartSeconds: 110, EndSeconds: 160},
		{PlayerID: 8475786, Side: event.SideHome, Class: roster.ClassGoalie, Period: 1, StartSeconds: 0, EndSeconds: 1200},
		{PlayerID: 8480069, Side: event.SideAway, Class: roster.ClassSkater, Period: 1, StartSeconds: 30, EndSeconds: 75},
		{PlayerID: 8480382, Side: event.SideAway, Class: roster.ClassGoalie, Period: 1, StartSeconds: 0, EndSeconds: 1200},
	}
}

func TestBuildIndex_OnIceSkaters(t *testing.T) {
	idx, err := BuildIndex(sampleIntervals())
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}

	got := idx.OnIceSkaters(event.SideHome, 40)
	want := []int64{8477934, 8478402}
	if len(got) != len(want) {
		t.Fatalf("OnIceSkaters = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("OnIceSkaters = %v, want %v (sorted ascending)", got, want)
		}
	}
}

func TestIndex_HalfOpenBoundaries(t *testing.T) {
	idx, err := BuildIndex(sampleIntervals())
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}

	// On at start second, off at end second.
	if got := idx.OnIceSkaters(event.SideAway, 30); len(got) != 1 || got[0] != 8480069 {
		t.Fatalf("player should be on ice at shift start, got %v", got)
	}
	if got := idx.OnIceSkaters(event.SideAway, 75); len(got) != 0 {
		t.Fatalf("player should be off ice at shift end, got %v", got)
	}
}

func TestIndex_OnIceGoalie(t *testing.T) {
	idx, err := BuildIndex(sampleIntervals())
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}

	id, ok := idx.OnIceGoalie(event.SideHome, 600)
	if !ok || id != 8475786 {
		t.Fatalf("OnIceGoalie = (%d, %v), want (8475786, true)", id, ok)
	}

	// An empty net second: no goalie interval covers it.
	if _, ok := idx.OnIceGoalie(event.SideHome, 1200); ok {
		t.Fatal("no goalie should resolve past the period end")
	}
}

func TestIndex_AmbiguousGoalieIsNotResolved(t *testing.T) {
	intervals := []Interval{
		{PlayerID: 8475786, Side: event.SideHome, Class: roster.ClassGoalie, Period: 1, StartSeconds: 0, EndSeconds: 700},
		{PlayerID: 8479973, Side: event.SideHome, Class: roster.ClassGoalie, Period: 1, StartSeconds: 650, EndSeconds: 1200},
	}
	idx, err := BuildIndex(intervals)
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}

	if _, ok := idx.OnIceGoalie(event.SideHome, 675); ok {
		t.Fatal("two goalie intervals covering one second must not resolve")
	}
	if goalies := idx.OnIceGoalies(event.SideHome, 675); len(goalies) != 2 {
		t.Fatalf("expected both goalie candidates, got %v", goalies)
	}

	// Outside the overlap the single goalie resolves again.
	if id, ok := idx.OnIceGoalie(event.SideHome, 100); !ok || id != 8475786 {
		t.Fatalf("OnIceGoalie = (%d, %v), want (8475786, true)", id, ok)
	}
}

func TestBuildIndex_InvalidInterval(t *testing.T) {
	intervals := []Interval{
		{PlayerID: 1, Side: event.SideHome, Class: roster.ClassSkater, Period: 1, StartSeconds: 50, EndSeconds: 50},
	}
	if _, err := BuildIndex(intervals); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}

	intervals[0].EndSeconds = 40
	if _, err := BuildIndex(intervals); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval for inverted interval, got %v", err)
	}
}

func TestBuildIndex_OverlapWithinPeriod(t *testing.T) {
	intervals := []Interval{
		{PlayerID: 1, Side: event.SideHome, Class: roster.ClassSkater, Period: 1, StartSeconds: 0, EndSeconds: 60},
		{PlayerID: 1, Side: event.SideHome, Class: roster.ClassSkater, Period: 1, StartSeconds: 45, EndSeconds: 90},
	}
	if _, err := BuildIndex(intervals); !errors.Is(err, ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}

	// Back-to-back intervals touch but do not overlap.
	intervals[1].StartSeconds = 60
	if _, err := BuildIndex(intervals); err != nil {
		t.Fatalf("touching intervals should pass, got %v", err)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	faceoffs := map[int]struct{}{0: {}, 45: {}}
	intervals := []Interval{
		{PlayerID: 1, StartSeconds: 0, EndSeconds: 45},
		{PlayerID: 2, StartSeconds: 20, EndSeconds: 70},
	}

	out := ClassifyBoundaries(intervals, faceoffs)
	if out[0].StartType != OnStoppage || out[0].EndType != OnStoppage {
		t.Fatalf("boundaries on faceoff seconds must classify as stoppage: %+v", out[0])
	}
	if out[1].StartType != OnTheFly || out[1].EndType != OnTheFly {
		t.Fatalf("boundaries off faceoff seconds must classify as on the fly: %+v", out[1])
	}
	if intervals[0].StartType != "" {
		t.Fatal("input slice must not be mutated")
	}
}
