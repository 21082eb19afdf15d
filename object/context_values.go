package object

import (
	"context"
	"io"
	"math/rand"
	"os"
)

type contextKey string

const runtimeKey = contextKey("emergent:runtime")

// Runtime holds the per-run state builtins need: where print writes and
// the generator that seeds distributions created without an explicit seed.
// Each interpreter or VM run owns one Runtime.
type Runtime struct {
	Output io.Writer
	Rand   *rand.Rand
}

// NewRuntime returns a Runtime writing to out whose generator starts from
// seed.
func NewRuntime(out io.Writer, seed int64) *Runtime {
	if out == nil {
		out = os.Stdout
	}
	return &Runtime{Output: out, Rand: rand.New(rand.NewSource(seed))}
}

// NextSeed draws a seed for a distribution created without one.
func (r *Runtime) NextSeed() int64 {
	return r.Rand.Int63()
}

// WithRuntime adds a Runtime to the context.
func WithRuntime(ctx context.Context, rt *Runtime) context.Context {
	return context.WithValue(ctx, runtimeKey, rt)
}

// GetRuntime returns the Runtime from the context, if it exists.
func GetRuntime(ctx context.Context) (*Runtime, bool) {
	if rt, ok := ctx.Value(runtimeKey).(*Runtime); ok && rt != nil {
		return rt, true
	}
	return nil, false
}
