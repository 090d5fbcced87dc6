package event

// priorities is the fixed tie-break order for rows sharing an elapsed
// second. Events that cause a stoppage render before the faceoff that
// follows at the same timestamp; line-changes sit between stoppage and the
// period bookkeeping rows because they can happen either on a stoppage or
// on the fly.
var priorities = map[Type]int{
	TypeGoal:              1,
	TypePenalty:           2,
	TypeDelayedPenalty:    3,
	TypeShotOnGoal:        4,
	TypeMissedShot:        5,
	TypeFailedShotAttempt: 5,
	TypeBlockedShot:       7,
	TypeHit:               8,
	TypeTakeaway:          9,
	TypeGiveaway:          10,
	TypeStoppage:          11,
	TypeLineChange:        12,
	TypePeriodStart:       13,
	TypePeriodEnd:         14,
	TypeGameEnd:           15,
	TypeFaceoff:           16,
	TypeShootoutComplete:  17,
}

// Priority returns the tie-break rank for a type. A miss means a type
// escaped vocabulary validation, which is a programming-contract violation
// the caller must treat as fatal.
func Priority(t Type) (int, bool) {
	p, ok := priorities[t]
	return p, ok
}
