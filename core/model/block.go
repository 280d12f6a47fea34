package model

import (
	"fmt"
	"strconv"
	"strings"
)

// The engine reasons about time as integer 15-minute blocks within a day.
const (
	BlocksPerHour = 4
	BlocksPerDay  = 24 * BlocksPerHour
)

// Block is a 15-minute slot index within a day, 0 = 00:00.
type Block int

// ParseClock converts a 24-hour "HH:MM" string to a Block, snapping the
// minutes down to the enclosing 15-minute slot. "24:00" is accepted as the
// exclusive end of the day.
func ParseClock(s string) (Block, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed clock %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed clock %q: %w", s, err)
	}
	if h == 24 && m == 0 {
		return BlocksPerDay, nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock %q out of range", s)
	}
	return Block(h*BlocksPerHour + m/15), nil
}

// Clock renders the block as "HH:MM".
func (b Block) Clock() string {
	return fmt.Sprintf("%02d:%02d", int(b)/BlocksPerHour, int(b)%BlocksPerHour*15)
}

// Valid reports whether the block lies within a single day.
func (b Block) Valid() bool { return b >= 0 && b < BlocksPerDay }

// Window is a half-open availability interval [Start, End) in blocks.
type Window struct {
	Start Block `json:"start"`
	End   Block `json:"end"`
}

// Contains reports whether a session of length blocks starting at start fits
// entirely inside the window.
func (w Window) Contains(start Block, length int) bool {
	return start >= w.Start && start+Block(length) <= w.End
}

// Blocks returns the window length in blocks.
func (w Window) Blocks() int { return int(w.End - w.Start) }

// Validate checks the window is non-empty and inside one day.
func (w Window) Validate() error {
	if !w.Start.Valid() || w.End <= w.Start || w.End > BlocksPerDay {
		return fmt.Errorf("invalid window [%s, %s)", w.Start.Clock(), w.End.Clock())
	}
	return nil
}

// Weekday is a bare day ordinal, Monday = 0 through Sunday = 6. The engine
// does not reason about dates or timezones.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Valid reports whether d is one of the seven weekdays.
func (d Weekday) Valid() bool { return d >= Monday && d <= Sunday }
