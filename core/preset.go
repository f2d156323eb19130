package core

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultTimerPreset is used when a timer preset does not follow the T#
// grammar.
const DefaultTimerPreset = time.Second

var timeLiteralPattern = regexp.MustCompile(`^[Tt]#(\d+)(ms|s|m|h)$`)

var timeUnits = map[string]time.Duration{
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
}

// ParseTimeLiteral parses T#<digits><unit>. ok is false for any other form
// and for durations that do not fit in a time.Duration.
func ParseTimeLiteral(s string) (time.Duration, bool) {
	m := timeLiteralPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}

	unit := timeUnits[m[2]]
	if n > math.MaxInt64/int64(unit) {
		return 0, false
	}

	return time.Duration(n) * unit, true
}

// ParseTimePreset parses T#<digits><unit> with unit ms, s, m or h. Anything
// else yields DefaultTimerPreset.
func ParseTimePreset(s string) time.Duration {
	if d, ok := ParseTimeLiteral(s); ok {
		return d
	}
	return DefaultTimerPreset
}

// ParseCounterPreset parses an integer counter preset. A preset that is not
// an integer is looked up as a variable; anything else yields 0.
func ParseCounterPreset(s string, vars *VariableStore) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}

	if vars != nil {
		if v, ok := vars.Get(s); ok && v.Type != Bool {
			return int(v.Value.Number())
		}
	}

	return 0
}
