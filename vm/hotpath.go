package vm

import (
	"github.com/deepnoodle-ai/emergent/bytecode"
	"github.com/deepnoodle-ai/emergent/object"
	"github.com/deepnoodle-ai/emergent/op"
)

const (
	// DefaultHotPathThreshold is the number of instructions executed
	// between attempts to compile a hot-path chunk.
	DefaultHotPathThreshold = 1000

	// DefaultHotPathWindow is the maximum number of instructions in one
	// chunk.
	DefaultHotPathWindow = 16
)

// HotPathStats reports the activity of the hot-path cache.
type HotPathStats struct {
	Chunks       int // chunks compiled
	Hits         int // chunk executions
	Instructions int // instructions executed inside chunks
}

// step executes one pure instruction against a frame's register window.
type step func(r []object.Object) error

// chunk is a straight-line run of pure instructions compiled to closures.
// Running it is equivalent to dispatching each instruction in turn.
type chunk struct {
	start int
	steps []step
}

// run executes the chunk and returns the ip to resume at. On a fault it
// returns the ip just past the faulting instruction, matching normal
// dispatch.
func (c *chunk) run(r []object.Object) (int, error) {
	for i, s := range c.steps {
		if err := s(r); err != nil {
			return c.start + i + 1, err
		}
	}
	return c.start + len(c.steps), nil
}

// hotPath caches chunks by starting ip. A nil entry records that no chunk
// can start at that ip.
type hotPath struct {
	threshold int
	window    int
	counter   int
	chunks    map[int]*chunk
	stats     HotPathStats
}

func newHotPath(threshold, window int) *hotPath {
	return &hotPath{threshold: threshold, window: window, chunks: map[int]*chunk{}}
}

func (h *hotPath) lookup(ip int) *chunk {
	return h.chunks[ip]
}

// tick counts one dispatched instruction and reports whether the threshold
// was reached.
func (h *hotPath) tick() bool {
	h.counter++
	if h.counter < h.threshold {
		return false
	}
	h.counter = 0
	return true
}

// compile builds the chunk starting at ip, if it has not been attempted.
func (h *hotPath) compile(c *code, ip int) *chunk {
	if _, tried := h.chunks[ip]; tried {
		return nil
	}
	var steps []step
	for i := ip; i < len(c.Instructions) && len(steps) < h.window; i++ {
		s := compileStep(c, c.Instructions[i])
		if s == nil {
			break
		}
		steps = append(steps, s)
	}
	if len(steps) == 0 {
		h.chunks[ip] = nil
		return nil
	}
	ch := &chunk{start: ip, steps: steps}
	h.chunks[ip] = ch
	h.stats.Chunks++
	return ch
}

// compileStep returns a closure for a pure instruction, or nil if the
// instruction touches anything other than registers.
func compileStep(c *code, ins bytecode.Instruction) step {
	if !ins.Op.IsPure() {
		return nil
	}
	a, b, y := ins.A, ins.B, ins.C
	switch ins.Op {
	case op.Nop:
		return func(r []object.Object) error { return nil }
	case op.LoadConst:
		value := c.Constants[b]
		return func(r []object.Object) error {
			r[a] = value
			return nil
		}
	case op.LoadNil:
		return func(r []object.Object) error {
			r[a] = object.Nil
			return nil
		}
	case op.Move:
		return func(r []object.Object) error {
			r[a] = r[b]
			return nil
		}
	case op.UnaryNegative:
		return func(r []object.Object) error {
			value, err := object.Negate(r[b])
			if err != nil {
				return err
			}
			r[a] = value
			return nil
		}
	case op.UnaryNot:
		return func(r []object.Object) error {
			r[a] = object.Not(r[b])
			return nil
		}
	case op.LogicalAnd:
		return func(r []object.Object) error {
			r[a] = object.NewBool(r[b].IsTruthy() && r[y].IsTruthy())
			return nil
		}
	case op.LogicalOr:
		return func(r []object.Object) error {
			r[a] = object.NewBool(r[b].IsTruthy() || r[y].IsTruthy())
			return nil
		}
	}
	if bop, ok := ins.Op.BinaryOp(); ok {
		return func(r []object.Object) error {
			value, err := object.BinaryOp(bop, r[b], r[y])
			if err != nil {
				return err
			}
			r[a] = value
			return nil
		}
	}
	if cop, ok := ins.Op.CompareOp(); ok {
		return func(r []object.Object) error {
			value, err := object.Compare(cop, r[b], r[y])
			if err != nil {
				return err
			}
			r[a] = value
			return nil
		}
	}
	return nil
}
