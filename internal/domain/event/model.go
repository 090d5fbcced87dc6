package event

import (
	"errors"
	"fmt"
)

// ErrUnknownType marks feed rows whose event type falls outside the known
// vocabulary. An unknown type has no actor-slot or priority mapping, so it
// must never be coerced and merged.
var ErrUnknownType = errors.New("unknown event type")

// TeamSide identifies which bench an event or shift belongs to.
type TeamSide string

const (
	SideHome TeamSide = "home"
	SideAway TeamSide = "away"
)

// Opposite returns the other bench.
func (s TeamSide) Opposite() TeamSide {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// Type is one kind of discrete game occurrence. The feed vocabulary is
// closed; TypeLineChange exists only for synthetic rows produced during
// the merge and never appears in feed input.
type Type string

const (
	TypePeriodStart       Type = "period-start"
	TypeFaceoff           Type = "faceoff"
	TypeHit               Type = "hit"
	TypeBlockedShot       Type = "blocked-shot"
	TypeShotOnGoal        Type = "shot-on-goal"
	TypeStoppage          Type = "stoppage"
	TypeGiveaway          Type = "giveaway"
	TypeDelayedPenalty    Type = "delayed-penalty"
	TypePenalty           Type = "penalty"
	TypeFailedShotAttempt Type = "failed-shot-attempt"
	TypeMissedShot        Type = "missed-shot"
	TypeGoal              Type = "goal"
	TypeTakeaway          Type = "takeaway"
	TypePeriodEnd         Type = "period-end"
	TypeShootoutComplete  Type = "shootout-complete"
	TypeGameEnd           Type = "game-end"

	// TypeLineChange marks a synthetic on/off-ice row derived from a shift
	// boundary.
	TypeLineChange Type = "line-change"
)

var feedVocabulary = map[Type]struct{}{
	TypePeriodStart:       {},
	TypeFaceoff:           {},
	TypeHit:               {},
	TypeBlockedShot:       {},
	TypeShotOnGoal:        {},
	TypeStoppage:          {},
	TypeGiveaway:          {},
	TypeDelayedPenalty:    {},
	TypePenalty:           {},
	TypeFailedShotAttempt: {},
	TypeMissedShot:        {},
	TypeGoal:              {},
	TypeTakeaway:          {},
	TypePeriodEnd:         {},
	TypeShootoutComplete:  {},
	TypeGameEnd:           {},
}

// ParseType validates a raw feed type key against the closed vocabulary.
// Anything else is a hard failure, never silently passed through.
func ParseType(raw string) (Type, error) {
	t := Type(raw)
	if _, ok := feedVocabulary[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, raw)
	}
	return t, nil
}

// Coordinate is a raw or normalized rink position. Events without a spatial
// component carry a nil *Coordinate.
type Coordinate struct {
	X float64
	Y float64
}

// Actor is one (role, player) reference attached to an event. Slot order is
// fixed per event type; Role names what the slot means for that type.
type Actor struct {
	Role     string
	PlayerID int64
	Name     string
}

// MaxActors caps the actor slots any event type may populate.
const MaxActors = 3

// Score is a (home, away) counter pair carried forward across rows.
type Score struct {
	Home int
	Away int
}

// Event is one discrete occurrence on the merged timeline. Instances are
// created once during reconciliation and only annotated (on-ice context)
// afterwards.
type Event struct {
	EventID        int64
	Type           Type
	Period         int
	PeriodType     string
	ElapsedSeconds int
	SortOrder      int

	EventingSide   *TeamSide
	EventingTeamID *int64
	RawCoord       *Coordinate
	NormCoord      *Coordinate

	Actors [MaxActors]*Actor

	RunningScore Score
	RunningShots Score

	// Feed detail fields kept for the final record shape.
	TimeInPeriod     string
	TimeRemaining    string
	ZoneCode         string
	Reason           string
	SecondaryReason  string
	ShotType         string
	DescKey          string
	PenaltyDuration  *int
	GoalieInNetID    *int64
	HomeDefendsRight *bool

	// Extra preserves unrecognized upstream detail fields untouched.
	Extra map[string]any
}
