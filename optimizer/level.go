package optimizer

import (
	"fmt"
	"strings"
)

// Level selects which passes Optimize runs.
type Level int

const (
	// None leaves the program unchanged.
	None Level = iota
	// Basic runs constant folding and dead-code elimination.
	Basic
	// Aggressive adds inlining and loop unrolling.
	Aggressive
	// Extreme runs the same passes as Aggressive with larger limits.
	Extreme
)

var levelNames = map[Level]string{
	None:       "none",
	Basic:      "basic",
	Aggressive: "aggressive",
	Extreme:    "extreme",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel converts a level name, or its number 0-3, to a Level.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for level, name := range levelNames {
		if s == name || s == fmt.Sprint(int(level)) {
			return level, nil
		}
	}
	return None, fmt.Errorf("unknown optimization level: %q", s)
}

// InlineThreshold is the largest function body, in AST nodes, that is
// inlined at this level. It is zero when inlining is disabled.
func (l Level) InlineThreshold() int {
	switch {
	case l >= Extreme:
		return 16
	case l == Aggressive:
		return 8
	}
	return 0
}

// UnrollLimit is the largest number of iterations a loop may have to be
// unrolled at this level. It is zero when unrolling is disabled.
func (l Level) UnrollLimit() int {
	switch {
	case l >= Extreme:
		return 32
	case l == Aggressive:
		return 8
	}
	return 0
}
