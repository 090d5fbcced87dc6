package event

// SlotRoles names the actor slots each event type populates, in slot order.
// The raw feed carries a differently-named player-id field per role; the
// reconciler uses this table to collapse them into the fixed slot scheme.
var SlotRoles = map[Type][]string{
	TypeFaceoff:           {"winner", "loser"},
	TypeHit:               {"hitter", "hittee"},
	TypeBlockedShot:       {"shooter", "blocker"},
	TypeShotOnGoal:        {"shooter"},
	TypeMissedShot:        {"shooter"},
	TypeFailedShotAttempt: {"shooter"},
	TypeGoal:              {"scorer", "assist1", "assist2"},
	TypeGiveaway:          {"actor"},
	TypeTakeaway:          {"actor"},
	TypePenalty:           {"committedBy", "drawnBy", "servedBy"},
}

// RoleLineChange is the single actor role carried by synthetic line-change
// rows.
const RoleLineChange = "player"
