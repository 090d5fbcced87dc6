package shift

import (
	"errors"
	"fmt"
	"sort"

	"github.com/crease-analytics/rinkline/internal/domain/event"
	"github.com/crease-analytics/rinkline/internal/domain/roster"
)

var (
	// ErrInvalidInterval marks a shift whose end does not follow its start.
	ErrInvalidInterval = errors.New("shift interval end precedes start")
	// ErrOverlap marks two shifts of one player overlapping within a period.
	ErrOverlap = errors.New("overlapping shift intervals")
)

// BoundaryType classifies how a shift boundary happened: on a stoppage
// (the boundary second coincides with a faceoff) or on the fly.
type BoundaryType string

const (
	OnStoppage BoundaryType = "SIP"
	OnTheFly   BoundaryType = "OTF"
)

// Interval is one continuous stretch a player spends on the ice, in
// game-elapsed seconds. Intervals are built once per game and read-only
// afterwards; the merger additionally projects each one into two synthetic
// line-change rows.
type Interval struct {
	ID           int64
	PlayerID     int64
	FullName     string
	JerseyNumber int
	TeamID       int64
	TeamAbbrev   string
	Side         event.TeamSide
	Class        roster.PositionClass
	Period       int
	StartSeconds int
	EndSeconds   int
	ShiftNumber  int
	StartType    BoundaryType
	EndType      BoundaryType

	// ZoneStart labels are attached by the merger from the faceoff taken
	// at the shift-start second; empty for on-the-fly starts.
	ZoneStart       string
	ZoneStartDetail string
}

// Covers reports whether the player is on ice at the given second. The
// interval is half-open: on at start, off at end.
func (iv Interval) Covers(second int) bool {
	return iv.StartSeconds <= second && second < iv.EndSeconds
}

// ClassifyBoundaries stamps each interval's start/end type against the set
// of seconds at which a faceoff was taken. Boundaries off that set are
// on-the-fly changes.
func ClassifyBoundaries(intervals []Interval, faceoffSeconds map[int]struct{}) []Interval {
	out := make([]Interval, len(intervals))
	for i, iv := range intervals {
		if _, ok := faceoffSeconds[iv.StartSeconds]; ok {
			iv.StartType = OnStoppage
		} else {
			iv.StartType = OnTheFly
		}
		if _, ok := faceoffSeconds[iv.EndSeconds]; ok {
			iv.EndType = OnStoppage
		} else {
			iv.EndType = OnTheFly
		}
		out[i] = iv
	}
	return out
}

type sideClass struct {
	side  event.TeamSide
	class roster.PositionClass
}

// Index answers "who is on ice at second S" for each bench's skater and
// goalie populations. It is immutable once built.
type Index struct {
	intervals []Interval
	byGroup   map[sideClass][]Interval
}

// BuildIndex validates and organizes shift intervals. Inverted intervals
// and per-player same-period overlaps are data defects that poison every
// downstream on-ice answer, so both fail construction.
func BuildIndex(intervals []Interval) (*Index, error) {
	byPlayerPeriod := make(map[[2]int64][]Interval)
	for _, iv := range intervals {
		if iv.EndSeconds <= iv.StartSeconds {
			return nil, fmt.Errorf("%w: player %d period %d [%d,%d)",
				ErrInvalidInterval, iv.PlayerID, iv.Period, iv.StartSeconds, iv.EndSeconds)
		}
		key := [2]int64{iv.PlayerID, int64(iv.Period)}
		byPlayerPeriod[key] = append(byPlayerPeriod[key], iv)
	}

	for key, group := range byPlayerPeriod {
		sort.Slice(group, func(i, j int) bool { return group[i].StartSeconds < group[j].StartSeconds })
		for i := 1; i < len(group); i++ {
			if group[i].StartSeconds < group[i-1].EndSeconds {
				return nil, fmt.Errorf("%w: player %d period %d [%d,%d) and [%d,%d)",
					ErrOverlap, key[0], key[1],
					group[i-1].StartSeconds, group[i-1].EndSeconds,
					group[i].StartSeconds, group[i].EndSeconds)
			}
		}
	}

	idx := &Index{
		intervals: make([]Interval, len(intervals)),
		byGroup:   make(map[sideClass][]Interval, 4),
	}
	copy(idx.intervals, intervals)

	for _, iv := range idx.intervals {
		key := sideClass{side: iv.Side, class: iv.Class}
		idx.byGroup[key] = append(idx.byGroup[key], iv)
	}
	for _, group := range idx.byGroup {
		sort.Slice(group, func(i, j int) bool { return group[i].StartSeconds < group[j].StartSeconds })
	}

	return idx, nil
}

// OnIceSkaters lists the distinct skaters of one bench on ice at the given
// second, ordered by ascending player id for reproducibility.
func (x *Index) OnIceSkaters(side event.TeamSide, second int) []int64 {
	return x.onIce(sideClass{side: side, class: roster.ClassSkater}, second)
}

// OnIceGoalies lists every goalie interval of one bench covering the given
// second. More than one entry is an upstream data defect the caller should
// surface rather than resolve.
func (x *Index) OnIceGoalies(side event.TeamSide, second int) []int64 {
	return x.onIce(sideClass{side: side, class: roster.ClassGoalie}, second)
}

// OnIceGoalie resolves the single netminder on ice, reporting not-ok when
// zero or multiple goalie intervals cover the second.
func (x *Index) OnIceGoalie(side event.TeamSide, second int) (int64, bool) {
	goalies := x.OnIceGoalies(side, second)
	if len(goalies) != 1 {
		return 0, false
	}
	return goalies[0], true
}

func (x *Index) onIce(key sideClass, second int) []int64 {
	seen := make(map[int64]struct{}, 8)
	out := make([]int64, 0, 8)
	for _, iv := range x.byGroup[key] {
		if iv.StartSeconds > second {
			break
		}
		if !iv.Covers(second) {
			continue
		}
		if _, dup := seen[iv.PlayerID]; dup {
			continue
		}
		seen[iv.PlayerID] = struct{}{}
		out = append(out, iv.PlayerID)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Intervals returns a copy of the indexed intervals.
func (x *Index) Intervals() []Interval {
	out := make([]Interval, len(x.intervals))
	copy(out, x.intervals)
	return out
}
