// Package process provides the built-in process adapters and the duration
// sampler toolkit they share.
package process

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
)

// DistSpec selects and parameterizes a duration distribution.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params"`
}

// DurationSampler draws non-negative durations in simulated time.
type DurationSampler interface {
	Sample(rng *rand.Rand) float64
}

// ExponentialSampler draws exponentially distributed durations.
type ExponentialSampler struct {
	mean float64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) float64 {
	return rng.ExpFloat64() * s.mean
}

// GaussianSampler draws normally distributed durations clamped to [min, max].
type GaussianSampler struct {
	mean, stdDev float64
	min, max     float64
}

func (s *GaussianSampler) Sample(rng *rand.Rand) float64 {
	if s.min == s.max {
		return s.min
	}
	val := rng.NormFloat64()*s.stdDev + s.mean
	return math.Min(s.max, math.Max(s.min, val))
}

// UniformSampler draws durations uniformly from [min, max).
type UniformSampler struct {
	min, max float64
}

func (s *UniformSampler) Sample(rng *rand.Rand) float64 {
	return s.min + rng.Float64()*(s.max-s.min)
}

// GammaSampler draws gamma-distributed durations with the given shape and
// scale, using the Marsaglia-Tsang squeeze method.
type GammaSampler struct {
	shape, scale float64
}

func (s *GammaSampler) Sample(rng *rand.Rand) float64 {
	shape := s.shape
	boost := 1.0
	if shape < 1 {
		// Gamma(k) = Gamma(k+1) * U^(1/k)
		u := rng.Float64()
		for u == 0 {
			u = rng.Float64()
		}
		boost = math.Pow(u, 1/shape)
		shape++
	}
	d := shape - 1.0/3.0
	c := 1 / math.Sqrt(9*d)
	for {
		x := rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v * boost * s.scale
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v * boost * s.scale
		}
	}
}

// WeibullSampler draws Weibull-distributed durations via the inverse CDF.
type WeibullSampler struct {
	shape, scale float64
}

func (s *WeibullSampler) Sample(rng *rand.Rand) float64 {
	// rng.Float64 is in [0, 1), so 1-u stays positive.
	u := rng.Float64()
	return s.scale * math.Pow(-math.Log(1-u), 1/s.shape)
}

// ConstantSampler always returns the same duration.
type ConstantSampler struct {
	value float64
}

func (s *ConstantSampler) Sample(_ *rand.Rand) float64 {
	return s.value
}

// EmpiricalSampler draws from a weighted set of duration values using
// inverse-CDF lookup over the normalized weights.
type EmpiricalSampler struct {
	values []float64
	cdf    []float64
}

// NewEmpiricalSampler builds a sampler from duration -> weight pairs.
// Weights are normalized; non-positive weights are dropped.
func NewEmpiricalSampler(weights map[float64]float64) (*EmpiricalSampler, error) {
	keys := make([]float64, 0, len(weights))
	total := 0.0
	for v, w := range weights {
		if w <= 0 {
			continue
		}
		if v < 0 {
			return nil, fmt.Errorf("empirical duration %g is negative", v)
		}
		keys = append(keys, v)
		total += w
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("empirical distribution has no positive-weight values")
	}
	sort.Float64s(keys)

	values := make([]float64, 0, len(keys))
	cdf := make([]float64, 0, len(keys))
	cumulative := 0.0
	for _, v := range keys {
		cumulative += weights[v] / total
		values = append(values, v)
		cdf = append(cdf, cumulative)
	}
	cdf[len(cdf)-1] = 1.0

	return &EmpiricalSampler{values: values, cdf: cdf}, nil
}

func (s *EmpiricalSampler) Sample(rng *rand.Rand) float64 {
	if len(s.values) == 1 {
		return s.values[0]
	}
	idx := sort.SearchFloat64s(s.cdf, rng.Float64())
	if idx >= len(s.values) {
		idx = len(s.values) - 1
	}
	return s.values[idx]
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("distribution requires parameter %q", k)
		}
	}
	return nil
}

// NewDurationSampler creates a DurationSampler from a DistSpec.
func NewDurationSampler(spec DistSpec) (DurationSampler, error) {
	switch spec.Type {
	case "exponential":
		if err := requireParam(spec.Params, "mean"); err != nil {
			return nil, err
		}
		mean := spec.Params["mean"]
		if mean <= 0 {
			return nil, fmt.Errorf("exponential mean %g must be positive", mean)
		}
		return &ExponentialSampler{mean: mean}, nil

	case "gaussian":
		if err := requireParam(spec.Params, "mean", "std_dev", "min", "max"); err != nil {
			return nil, err
		}
		min, max := spec.Params["min"], spec.Params["max"]
		if min < 0 || max < min {
			return nil, fmt.Errorf("gaussian clamp [%g, %g] must satisfy 0 <= min <= max", min, max)
		}
		return &GaussianSampler{
			mean:   spec.Params["mean"],
			stdDev: spec.Params["std_dev"],
			min:    min,
			max:    max,
		}, nil

	case "uniform":
		if err := requireParam(spec.Params, "min", "max"); err != nil {
			return nil, err
		}
		min, max := spec.Params["min"], spec.Params["max"]
		if min < 0 || max < min {
			return nil, fmt.Errorf("uniform range [%g, %g) must satisfy 0 <= min <= max", min, max)
		}
		return &UniformSampler{min: min, max: max}, nil

	case "gamma":
		if err := requireParam(spec.Params, "shape", "scale"); err != nil {
			return nil, err
		}
		shape, scale := spec.Params["shape"], spec.Params["scale"]
		if shape <= 0 || scale <= 0 {
			return nil, fmt.Errorf("gamma shape %g and scale %g must be positive", shape, scale)
		}
		return &GammaSampler{shape: shape, scale: scale}, nil

	case "weibull":
		if err := requireParam(spec.Params, "shape", "scale"); err != nil {
			return nil, err
		}
		shape, scale := spec.Params["shape"], spec.Params["scale"]
		if shape <= 0 || scale <= 0 {
			return nil, fmt.Errorf("weibull shape %g and scale %g must be positive", shape, scale)
		}
		return &WeibullSampler{shape: shape, scale: scale}, nil

	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		value := spec.Params["value"]
		if value < 0 {
			return nil, fmt.Errorf("constant value %g must be non-negative", value)
		}
		return &ConstantSampler{value: value}, nil

	case "empirical":
		if len(spec.Params) == 0 {
			return nil, fmt.Errorf("empirical distribution requires value: weight params")
		}
		weights := make(map[float64]float64, len(spec.Params))
		for k, w := range spec.Params {
			v, err := strconv.ParseFloat(k, 64)
			if err != nil {
				return nil, fmt.Errorf("empirical value %q is not a number: %w", k, err)
			}
			weights[v] = w
		}
		return NewEmpiricalSampler(weights)

	default:
		return nil, fmt.Errorf("unknown distribution type %q", spec.Type)
	}
}
