package roster

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/crease-analytics/rinkline/internal/domain/event"
)

// ErrMissingIdentity is returned when no input row carries either a player
// id or a jersey+side pair, leaving nothing to key the index on.
var ErrMissingIdentity = errors.New("roster rows carry no identity columns")

// PositionClass splits the roster into the two populations the shift index
// cares about.
type PositionClass string

const (
	ClassSkater PositionClass = "skater"
	ClassGoalie PositionClass = "goalie"
)

// Entry is one player's identity within a single game.
type Entry struct {
	PlayerID     int64
	TeamID       int64
	TeamAbbrev   string
	Side         event.TeamSide
	JerseyNumber int
	FirstName    string
	LastName     string
	PositionCode string
	Headshot     string
}

// FullName joins the name parts the way the upstream feed displays them.
func (e Entry) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Position collapses the raw position code: G and D pass through, anything
// else (L, C, R, W...) is a forward.
func (e Entry) Position() string {
	switch e.PositionCode {
	case "G", "D":
		return e.PositionCode
	default:
		return "F"
	}
}

// Class maps the position code onto the skater/goalie split.
func (e Entry) Class() PositionClass {
	if e.PositionCode == "G" {
		return ClassGoalie
	}
	return ClassSkater
}

// Resolution is the outcome of identifying a shift-log player. The legacy
// HTML report carries no stable ids, so resolution can genuinely fail;
// consumers must handle Unresolved explicitly rather than trip over a
// sentinel id.
type Resolution struct {
	Entry    Entry
	Resolved bool
}

// Unresolved is the zero resolution.
var Unresolved = Resolution{}

type jerseyKey struct {
	side   event.TeamSide
	number int
}

// Index is a read-only bidirectional lookup built once per game.
type Index struct {
	entries  []Entry
	byID     map[int64]Entry
	byJersey map[jerseyKey]Entry
}

// BuildIndex constructs the lookup from roster rows. Rows without a player
// id are still indexed by jersey+side when present; a record set with no
// identity columns at all fails with ErrMissingIdentity.
func BuildIndex(entries []Entry) (*Index, error) {
	idx := &Index{
		entries:  make([]Entry, 0, len(entries)),
		byID:     make(map[int64]Entry, len(entries)),
		byJersey: make(map[jerseyKey]Entry, len(entries)),
	}

	identified := false
	for _, entry := range entries {
		hasID := entry.PlayerID > 0
		hasJersey := entry.JerseyNumber > 0 && entry.Side != ""
		if !hasID && !hasJersey {
			continue
		}
		identified = true

		idx.entries = append(idx.entries, entry)
		if hasID {
			idx.byID[entry.PlayerID] = entry
		}
		if hasJersey {
			idx.byJersey[jerseyKey{side: entry.Side, number: entry.JerseyNumber}] = entry
		}
	}

	if !identified {
		return nil, fmt.Errorf("%w: %d rows scanned", ErrMissingIdentity, len(entries))
	}

	sort.Slice(idx.entries, func(i, j int) bool {
		return idx.entries[i].PlayerID < idx.entries[j].PlayerID
	})

	return idx, nil
}

// ByID resolves a player by the structured feed's stable id.
func (i *Index) ByID(playerID int64) Resolution {
	entry, ok := i.byID[playerID]
	return Resolution{Entry: entry, Resolved: ok}
}

// ByJerseyAndSide resolves a player from the legacy report's jersey number
// and bench. Within one game (side, number) is unique.
func (i *Index) ByJerseyAndSide(number int, side event.TeamSide) Resolution {
	entry, ok := i.byJersey[jerseyKey{side: side, number: number}]
	return Resolution{Entry: entry, Resolved: ok}
}

// NameOf is a convenience for annotation: the player's full name, or ""
// when the id is not on the game roster.
func (i *Index) NameOf(playerID int64) string {
	if res := i.ByID(playerID); res.Resolved {
		return res.Entry.FullName()
	}
	return ""
}

// Entries returns the indexed rows ordered by player id.
func (i *Index) Entries() []Entry {
	out := make([]Entry, len(i.entries))
	copy(out, i.entries)
	return out
}
