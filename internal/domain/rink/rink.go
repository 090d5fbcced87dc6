package rink

import "github.com/crease-analytics/rinkline/internal/domain/event"

// Normalize maps a raw rink coordinate into the fixed frame where home
// always shoots in the same direction. Home's defended side sets the rink
// orientation for the whole period, so both benches flip together. Nil
// coordinates (events with no spatial component) pass through.
func Normalize(coord *event.Coordinate, homeDefendsRight bool) *event.Coordinate {
	if coord == nil {
		return nil
	}
	if !homeDefendsRight {
		c := *coord
		return &c
	}
	return &event.Coordinate{X: -coord.X, Y: -coord.Y}
}

// Zones is the zone-start labeling for one faceoff dot, expressed in each
// bench's frame of reference.
type Zones struct {
	Name       string
	HomeZone   string
	AwayZone   string
	HomeDetail string
	AwayDetail string
}

type dotKey struct {
	x int
	y int
}

// faceoffDots maps the 13 named faceoff dots by their normalized
// coordinates. Zone labels mirror between the two benches: home's
// offensive dots are away's defensive dots.
var faceoffDots = map[dotKey]Zones{
	{0, 0}: {"Center Ice", "Centre", "Centre", "Centre", "Centre"},

	{20, 22}:   {"Neutral Zone Right Blue Line Left Side", "Neutral Zone", "Neutral Zone", "Neutral Offensive Zone Right", "Neutral Defensive Zone Left"},
	{20, -22}:  {"Neutral Zone Right Blue Line Right Side", "Neutral Zone", "Neutral Zone", "Neutral Offensive Zone Left", "Neutral Defensive Zone Right"},
	{-20, 22}:  {"Neutral Zone Left Blue Line Left Side", "Neutral Zone", "Neutral Zone", "Neutral Defensive Zone Right", "Neutral Offensive Zone Left"},
	{-20, -22}: {"Neutral Zone Left Blue Line Right Side", "Neutral Zone", "Neutral Zone", "Neutral Defensive Zone Left", "Neutral Offensive Zone Right"},

	{69, 22}:   {"Offensive Zone Left Dot", "Offensive Zone", "Defensive Zone", "Offensive Zone Right", "Defensive Zone Left"},
	{69, -22}:  {"Offensive Zone Right Dot", "Offensive Zone", "Defensive Zone", "Offensive Zone Left", "Defensive Zone Right"},
	{-69, 22}:  {"Defensive Zone Left Dot", "Defensive Zone", "Offensive Zone", "Defensive Zone Right", "Offensive Zone Left"},
	{-69, -22}: {"Defensive Zone Right Dot", "Defensive Zone", "Offensive Zone", "Defensive Zone Left", "Offensive Zone Right"},

	{69, 5}:   {"Low Zone Offensive Right Dot", "Offensive Zone", "Defensive Zone", "Offensive Zone Right", "Defensive Zone Left"},
	{69, -5}:  {"Low Zone Offensive Left Dot", "Offensive Zone", "Defensive Zone", "Offensive Zone Left", "Defensive Zone Right"},
	{-69, 5}:  {"Low Zone Defensive Right Dot", "Defensive Zone", "Offensive Zone", "Defensive Zone Right", "Offensive Zone Left"},
	{-69, -5}: {"Low Zone Defensive Left Dot", "Defensive Zone", "Offensive Zone", "Defensive Zone Left", "Offensive Zone Right"},
}

// ZoneFor matches a normalized coordinate against the faceoff-dot table.
// Coordinates that do not land exactly on a dot (or nil coordinates) report
// not-ok; the caller treats the zone as unknown rather than guessing the
// nearest dot.
func ZoneFor(normalized *event.Coordinate) (Zones, bool) {
	if normalized == nil {
		return Zones{}, false
	}

	zones, ok := faceoffDots[dotKey{x: int(normalized.X), y: int(normalized.Y)}]
	return zones, ok
}

// ZoneForSide picks the zone label pair for one bench's frame of reference.
func (z Zones) ZoneForSide(side event.TeamSide) (zone, detail string) {
	if side == event.SideHome {
		return z.HomeZone, z.HomeDetail
	}
	return z.AwayZone, z.AwayDetail
}
