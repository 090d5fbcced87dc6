package clock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrFormat is wrapped by every parse failure so callers can
// errors.Is against it regardless of the offending raw value.
var ErrFormat = errors.New("invalid clock format")

const (
	// PeriodSeconds is the length of one regulation or overtime period.
	PeriodSeconds = 1200

	// ShootoutSeconds is the fixed elapsed-time sentinel assigned to
	// shootout attempts. The shootout has no meaningful clock, so every
	// attempt sorts after the last real period.
	ShootoutSeconds = 3900
)

// PeriodType classifies how a period's clock maps onto game-elapsed time.
type PeriodType string

const (
	PeriodRegular  PeriodType = "REG"
	PeriodOvertime PeriodType = "OT"
	PeriodShootout PeriodType = "SO"
)

// ParsePeriodType maps the feed's periodType strings onto the known set.
// Unrecognized values fall back to regular: the elapsed-time math is the
// same for any clocked period.
func ParsePeriodType(value string) PeriodType {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "OT", "OVERTIME":
		return PeriodOvertime
	case "SO", "SHOOTOUT":
		return PeriodShootout
	default:
		return PeriodRegular
	}
}

// ToSeconds converts an in-period clock reading ("M:SS" or "H:MM:SS") into
// seconds elapsed since the start of the game. Shootout periods return the
// fixed ShootoutSeconds sentinel regardless of the clock text.
func ToSeconds(text string, period int, periodType PeriodType) (int, error) {
	if periodType == PeriodShootout {
		return ShootoutSeconds, nil
	}

	inPeriod, err := ParseClock(text)
	if err != nil {
		return 0, err
	}
	if period < 1 {
		return 0, fmt.Errorf("%w: period %d out of range", ErrFormat, period)
	}

	return (period-1)*PeriodSeconds + inPeriod, nil
}

// ParseClock converts "M:SS" or "H:MM:SS" text into seconds, without any
// period offset applied.
func ParseClock(text string) (int, error) {
	parts := strings.Split(strings.TrimSpace(text), ":")

	switch len(parts) {
	case 2:
		minutes, err := parseComponent(parts[0], text)
		if err != nil {
			return 0, err
		}
		seconds, err := parseComponent(parts[1], text)
		if err != nil {
			return 0, err
		}
		return minutes*60 + seconds, nil
	case 3:
		hours, err := parseComponent(parts[0], text)
		if err != nil {
			return 0, err
		}
		minutes, err := parseComponent(parts[1], text)
		if err != nil {
			return 0, err
		}
		seconds, err := parseComponent(parts[2], text)
		if err != nil {
			return 0, err
		}
		return hours*3600 + minutes*60 + seconds, nil
	default:
		return 0, fmt.Errorf("%w: %q has %d separators, expected 1 or 2", ErrFormat, text, len(parts)-1)
	}
}

func parseComponent(raw, full string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric component %q in %q", ErrFormat, raw, full)
	}
	if value < 0 {
		return 0, fmt.Errorf("%w: negative component %q in %q", ErrFormat, raw, full)
	}

	return value, nil
}

// FromSeconds formats a second count as "MM:SS", or "HH:MM:SS" when
// includeHours is set.
func FromSeconds(total int, includeHours bool) string {
	if total < 0 {
		total = 0
	}

	if includeHours {
		return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
	}

	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
