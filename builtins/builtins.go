// Package builtins defines the built-in functions available to every
// program. Builtins are resolved before user-defined functions of the same
// name.
package builtins

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"github.com/deepnoodle-ai/emergent/errz"
	"github.com/deepnoodle-ai/emergent/object"
)

// DefaultConsensusSamples is the number of draws consensus takes from a
// distribution when no count is given.
const DefaultConsensusSamples = 100

// Print writes its arguments separated by spaces and followed by a newline
// to the runtime output.
func Print(ctx context.Context, args ...object.Object) (object.Object, error) {
	var out io.Writer = os.Stdout
	if rt, ok := object.GetRuntime(ctx); ok {
		out = rt.Output
	}
	values := make([]string, len(args))
	for i, arg := range args {
		values[i] = object.PrintableValue(arg)
	}
	if _, err := fmt.Fprintln(out, strings.Join(values, " ")); err != nil {
		return nil, errz.New(errz.ErrRuntime, "print: %s", err).WithCause(err)
	}
	return object.Nil, nil
}

// Normal returns a normal distribution: normal(mean, std, seed?).
func Normal(ctx context.Context, args ...object.Object) (object.Object, error) {
	params, seed, err := distributionArgs(ctx, "normal", 2, args)
	if err != nil {
		return nil, err
	}
	return wrapDistribution(object.NewNormal(params[0], params[1], seed))
}

// Bernoulli returns a distribution sampling 1 with probability p:
// bernoulli(p, seed?).
func Bernoulli(ctx context.Context, args ...object.Object) (object.Object, error) {
	params, seed, err := distributionArgs(ctx, "bernoulli", 1, args)
	if err != nil {
		return nil, err
	}
	return wrapDistribution(object.NewBernoulli(params[0], seed))
}

// Uniform returns a distribution uniform over [low, high):
// uniform(low, high, seed?).
func Uniform(ctx context.Context, args ...object.Object) (object.Object, error) {
	params, seed, err := distributionArgs(ctx, "uniform", 2, args)
	if err != nil {
		return nil, err
	}
	return wrapDistribution(object.NewUniform(params[0], params[1], seed))
}

// Sample draws one value from a distribution.
func Sample(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, errz.TypeErrorf("sample: expected 1 argument, got %d", len(args))
	}
	dist, ok := args[0].(*object.Distribution)
	if !ok {
		return nil, errz.TypeErrorf("sample: expected distribution (got %s)", args[0].Type())
	}
	return object.NewNumber(dist.Sample()), nil
}

// consensusCheckInterval is the number of draws between checks of ctx.
const consensusCheckInterval = 4096

// Consensus combines repeated observations into one value. Given a list it
// returns the most frequent item, preferring the earliest on ties. Given a
// distribution and an optional count it returns the mean of that many
// samples.
func Consensus(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, errz.TypeErrorf("consensus: expected 1 or 2 arguments, got %d", len(args))
	}
	switch arg := args[0].(type) {
	case *object.List:
		if len(args) != 1 {
			return nil, errz.TypeErrorf("consensus: expected 1 argument for a list, got %d", len(args))
		}
		return mode(arg)
	case *object.Distribution:
		n := DefaultConsensusSamples
		if len(args) == 2 {
			count, err := object.AsNumber(args[1])
			if err != nil {
				return nil, err
			}
			if count < 1 || count != float64(int(count)) {
				return nil, errz.New(errz.ErrValue, "consensus: sample count must be a positive integer (got %s)",
					args[1].Inspect())
			}
			n = int(count)
		}
		var total float64
		for i := 0; i < n; i++ {
			if i%consensusCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			total += arg.Sample()
		}
		return object.NewNumber(total / float64(n)), nil
	default:
		return nil, errz.TypeErrorf("consensus: expected list or distribution (got %s)", args[0].Type())
	}
}

func mode(list *object.List) (object.Object, error) {
	items := list.Value()
	if len(items) == 0 {
		return nil, errz.New(errz.ErrValue, "consensus: empty list")
	}
	best, bestCount := items[0], 0
	for i, candidate := range items {
		count := 0
		for _, other := range items {
			if candidate.Equals(other) {
				count++
			}
		}
		if count > bestCount || i == 0 {
			best, bestCount = candidate, count
		}
	}
	return best, nil
}

// Len returns the number of items in a list or characters in a string.
func Len(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, errz.TypeErrorf("len: expected 1 argument, got %d", len(args))
	}
	switch arg := args[0].(type) {
	case *object.List:
		return object.NewNumber(float64(arg.Len())), nil
	case *object.String:
		return object.NewNumber(float64(arg.Len())), nil
	default:
		return nil, errz.TypeErrorf("len: unsupported argument (%s given)", args[0].Type())
	}
}

// Type returns the type name of its argument.
func Type(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, errz.TypeErrorf("type: expected 1 argument, got %d", len(args))
	}
	return object.NewString(string(args[0].Type())), nil
}

// Str converts its argument to the string print would write.
func Str(ctx context.Context, args ...object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, errz.TypeErrorf("str: expected 1 argument, got %d", len(args))
	}
	return object.NewString(object.PrintableValue(args[0])), nil
}

// distributionArgs validates the numeric parameters of a distribution
// constructor plus its optional trailing seed. Without a seed the runtime
// generator supplies one, so seeded runs stay reproducible.
func distributionArgs(ctx context.Context, name string, nparams int, args []object.Object) ([]float64, int64, error) {
	if len(args) != nparams && len(args) != nparams+1 {
		return nil, 0, errz.TypeErrorf("%s: expected %d arguments, got %d", name, nparams, len(args))
	}
	values := make([]float64, len(args))
	for i, arg := range args {
		num, ok := arg.(*object.Number)
		if !ok {
			return nil, 0, errz.TypeErrorf("%s: expected number arguments (got %s)", name, arg.Type())
		}
		values[i] = num.Value()
	}
	if len(args) == nparams+1 {
		return values[:nparams], int64(values[nparams]), nil
	}
	if rt, ok := object.GetRuntime(ctx); ok {
		return values, rt.NextSeed(), nil
	}
	return values, rand.Int63(), nil
}

func wrapDistribution(dist *object.Distribution, err error) (object.Object, error) {
	if err != nil {
		return nil, err
	}
	return dist, nil
}

var builtins = map[string]*object.Builtin{
	"bernoulli": object.NewBuiltin("bernoulli", Bernoulli),
	"consensus": object.NewBuiltin("consensus", Consensus),
	"len":       object.NewBuiltin("len", Len),
	"normal":    object.NewBuiltin("normal", Normal),
	"print":     object.NewBuiltin("print", Print),
	"sample":    object.NewBuiltin("sample", Sample),
	"str":       object.NewBuiltin("str", Str),
	"type":      object.NewBuiltin("type", Type),
	"uniform":   object.NewBuiltin("uniform", Uniform),
}

// Lookup returns the builtin with the given name.
func Lookup(name string) (*object.Builtin, bool) {
	b, ok := builtins[name]
	return b, ok
}

// IsBuiltin returns true if name refers to a builtin.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// Builtins returns all builtins keyed by name.
func Builtins() map[string]object.Object {
	result := make(map[string]object.Object, len(builtins))
	for name, b := range builtins {
		result[name] = b
	}
	return result
}

// IsPure returns true for builtins without side effects whose result
// depends only on their arguments. The optimizer may evaluate or remove
// calls to pure builtins.
func IsPure(name string) bool {
	switch name {
	case "len", "type", "str":
		return true
	}
	return false
}
