package event

import (
	"errors"
	"testing"
)

func TestParseType_KnownVocabulary(t *testing.T) {
	for raw := range feedVocabulary {
		parsed, err := ParseType(string(raw))
		if err != nil {
			t.Fatalf("ParseType(%q) failed: %v", raw, err)
		}
		if parsed != raw {
			t.Fatalf("ParseType(%q) = %q", raw, parsed)
		}
	}
}

func TestParseType_RejectsUnknown(t *testing.T) {
	for _, raw := range []string{"unknown-event-xyz", "", "lineChange", "GOAL"} {
		if _, err := ParseType(raw); !errors.Is(err, ErrUnknownType) {
			t.Fatalf("ParseType(%q): expected ErrUnknownType, got %v", raw, err)
		}
	}
}

func TestParseType_LineChangeIsNotFeedInput(t *testing.T) {
	if _, err := ParseType(string(TypeLineChange)); !errors.Is(err, ErrUnknownType) {
		t.Fatal("line-change must not be accepted as feed input")
	}
}

func TestPriority_CoversVocabularyAndLineChange(t *testing.T) {
	for raw := range feedVocabulary {
		if _, ok := Priority(raw); !ok {
			t.Fatalf("missing priority for %q", raw)
		}
	}
	if _, ok := Priority(TypeLineChange); !ok {
		t.Fatal("missing priority for line-change")
	}
}

func TestPriority_OrderingContract(t *testing.T) {
	goal, _ := Priority(TypeGoal)
	stoppage, _ := Priority(TypeStoppage)
	lineChange, _ := Priority(TypeLineChange)
	faceoff, _ := Priority(TypeFaceoff)

	if !(goal < stoppage && stoppage < lineChange && lineChange < faceoff) {
		t.Fatalf("priority order broken: goal=%d stoppage=%d line-change=%d faceoff=%d",
			goal, stoppage, lineChange, faceoff)
	}
}

func TestSlotRoles_CapAtThree(t *testing.T) {
	for eventType, roles := range SlotRoles {
		if len(roles) == 0 || len(roles) > MaxActors {
			t.Fatalf("%q has %d roles, want 1..%d", eventType, len(roles), MaxActors)
		}
	}
}

func TestTeamSide_Opposite(t *testing.T) {
	if SideHome.Opposite() != SideAway || SideAway.Opposite() != SideHome {
		t.Fatal("Opposite is not an involution")
	}
}
