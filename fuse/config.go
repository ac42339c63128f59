package fuse

import (
	"errors"
	"fmt"
	"math"
)

// Method selects the fusion strategy.
type Method string

const (
	// RRF is reciprocal rank fusion: sum of 1/(k+rank) over systems.
	RRF Method = "rrf"
	// Linear combines min-max normalized scores with per-system weights.
	Linear Method = "linear"
	// Weighted is the two-system special case of Linear with weights
	// alpha and 1-alpha.
	Weighted Method = "weighted"
	// CombSUM sums min-max normalized scores across systems.
	CombSUM Method = "combsum"
	// CombMNZ is CombSUM multiplied by the number of systems that
	// retrieved the document.
	CombMNZ Method = "combmnz"
)

// weightTolerance bounds the allowed drift of a weight vector sum from 1.
const weightTolerance = 1e-6

var (
	// ErrUnknownMethod indicates an unrecognized fusion method name.
	ErrUnknownMethod = errors.New("unknown fusion method")
	// ErrBadConfig indicates an invalid fusion configuration.
	ErrBadConfig = errors.New("invalid fusion config")
)

// ParseMethod maps a method name to its Method value.
func ParseMethod(name string) (Method, error) {
	switch m := Method(name); m {
	case RRF, Linear, Weighted, CombSUM, CombMNZ:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// Config controls strategy selection and result shaping. It is immutable
// once handed to the engine; concurrent per-query fusion reads it without
// locking.
type Config struct {
	Method Method

	// K is the reciprocal rank fusion constant.
	K int

	// Weights are the per-system weights for Linear, positional against
	// the input systems. Empty means equal weights.
	Weights []float64

	// Alpha is the first system's weight for Weighted; the second system
	// gets 1-alpha.
	Alpha float64

	// TopK caps the fused list. Truncation happens strictly after the
	// full candidate set is sorted.
	TopK int
}

// DefaultConfig returns the conventional experiment defaults.
func DefaultConfig() Config {
	return Config{
		Method: RRF,
		K:      60,
		Alpha:  0.5,
		TopK:   1000,
	}
}

// Validate checks cfg against the number of input systems. It is called
// before any query is fused so configuration mistakes fail the whole
// invocation up front.
func (c Config) Validate(systems int) error {
	if systems < 1 {
		return fmt.Errorf("%w: at least one input system required", ErrBadConfig)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", ErrBadConfig, c.TopK)
	}

	switch c.Method {
	case RRF:
		if c.K <= 0 {
			return fmt.Errorf("%w: rrf k must be positive, got %d", ErrBadConfig, c.K)
		}
	case Linear:
		if len(c.Weights) == 0 {
			return nil
		}
		if len(c.Weights) != systems {
			return fmt.Errorf("%w: %d weights for %d systems", ErrBadConfig, len(c.Weights), systems)
		}
		sum := 0.0
		for _, w := range c.Weights {
			if w < 0 {
				return fmt.Errorf("%w: negative weight %v", ErrBadConfig, w)
			}
			sum += w
		}
		if math.Abs(sum-1) > weightTolerance {
			return fmt.Errorf("%w: weights sum to %v, want 1", ErrBadConfig, sum)
		}
	case Weighted:
		if systems != 2 {
			return fmt.Errorf("%w: weighted fusion takes exactly 2 systems, got %d", ErrBadConfig, systems)
		}
		if c.Alpha < 0 || c.Alpha > 1 {
			return fmt.Errorf("%w: alpha %v outside [0,1]", ErrBadConfig, c.Alpha)
		}
	case CombSUM, CombMNZ:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMethod, string(c.Method))
	}
	return nil
}
