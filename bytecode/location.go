package bytecode

import "fmt"

// SourceLocation is the 1-based line and column an instruction was
// compiled from. The filename and source text live once on Code.
type SourceLocation struct {
	Line   int
	Column int
}

func (s SourceLocation) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero reports whether no position was recorded.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}
