package object

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/emergent/errz"
)

// DistributionKind names a probability distribution.
type DistributionKind string

const (
	Normal    DistributionKind = "normal"
	Bernoulli DistributionKind = "bernoulli"
	Uniform   DistributionKind = "uniform"
)

// Distribution is a first-class probability distribution. Each value owns
// its own generator, so two distributions built with the same seed produce
// identical sample sequences.
type Distribution struct {
	kind   DistributionKind
	params []float64
	seed   int64
	rng    *rand.Rand
}

func (d *Distribution) sealed() {}

func (d *Distribution) Type() Type {
	return DISTRIBUTION
}

func (d *Distribution) Kind() DistributionKind {
	return d.kind
}

// Params returns a copy of the distribution parameters.
func (d *Distribution) Params() []float64 {
	return append([]float64(nil), d.params...)
}

// Seed returns the seed the generator was created with.
func (d *Distribution) Seed() int64 {
	return d.seed
}

// Sample draws the next value from the distribution. Bernoulli samples are
// 1 or 0.
func (d *Distribution) Sample() float64 {
	switch d.kind {
	case Normal:
		return d.params[0] + d.params[1]*d.rng.NormFloat64()
	case Bernoulli:
		if d.rng.Float64() < d.params[0] {
			return 1
		}
		return 0
	default:
		low, high := d.params[0], d.params[1]
		return low + (high-low)*d.rng.Float64()
	}
}

// Mean returns the expected value of the distribution.
func (d *Distribution) Mean() float64 {
	switch d.kind {
	case Normal, Bernoulli:
		return d.params[0]
	default:
		return (d.params[0] + d.params[1]) / 2
	}
}

func (d *Distribution) Inspect() string {
	params := make([]string, len(d.params))
	for i, p := range d.params {
		params[i] = strconv.FormatFloat(p, 'f', -1, 64)
	}
	return fmt.Sprintf("%s(%s)", d.kind, strings.Join(params, ", "))
}

func (d *Distribution) String() string {
	return d.Inspect()
}

func (d *Distribution) Interface() interface{} {
	return map[string]interface{}{"kind": string(d.kind), "params": d.Params()}
}

// Equals reports identity. Two distributions with the same parameters are
// still distinct generators.
func (d *Distribution) Equals(other Object) bool {
	return d == other
}

func (d *Distribution) IsTruthy() bool {
	return true
}

// NewNormal returns a normal distribution with the given mean and standard
// deviation.
func NewNormal(mean, std float64, seed int64) (*Distribution, error) {
	if err := checkFinite(Normal, mean, std); err != nil {
		return nil, err
	}
	if std < 0 {
		return nil, errz.New(errz.ErrValue, "normal: standard deviation must be non-negative (got %s)", formatParam(std))
	}
	return newDistribution(Normal, []float64{mean, std}, seed), nil
}

// NewBernoulli returns a distribution that samples 1 with probability p and
// 0 otherwise.
func NewBernoulli(p float64, seed int64) (*Distribution, error) {
	if err := checkFinite(Bernoulli, p); err != nil {
		return nil, err
	}
	if p < 0 || p > 1 {
		return nil, errz.New(errz.ErrValue, "bernoulli: probability must be between 0 and 1 (got %s)", formatParam(p))
	}
	return newDistribution(Bernoulli, []float64{p}, seed), nil
}

// NewUniform returns a distribution uniform over [low, high).
func NewUniform(low, high float64, seed int64) (*Distribution, error) {
	if err := checkFinite(Uniform, low, high); err != nil {
		return nil, err
	}
	if high < low {
		return nil, errz.New(errz.ErrValue, "uniform: high must be >= low (got low=%s high=%s)",
			formatParam(low), formatParam(high))
	}
	return newDistribution(Uniform, []float64{low, high}, seed), nil
}

func newDistribution(kind DistributionKind, params []float64, seed int64) *Distribution {
	return &Distribution{
		kind:   kind,
		params: params,
		seed:   seed,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func checkFinite(kind DistributionKind, params ...float64) error {
	for _, p := range params {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return errz.New(errz.ErrValue, "%s: parameters must be finite (got %s)", kind, formatParam(p))
		}
	}
	return nil
}

func formatParam(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
