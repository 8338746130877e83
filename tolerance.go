// Package mmsched tolerance-based verification for floating-point comparisons
package mmsched

import (
	"math"
)

// ToleranceConfig defines tolerance parameters for floating-point comparison
type ToleranceConfig struct {
	// AbsTol is the absolute tolerance for values near zero
	AbsTol float32

	// RelTol is the relative tolerance as a fraction of the larger value
	RelTol float32
}

// DefaultTolerance returns default tolerance configuration
func DefaultTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol: 1e-7,
		RelTol: 1e-5,
	}
}

// RelaxedTolerance returns relaxed tolerance for long accumulations, where
// the summation order of a split plan differs from the reference
func RelaxedTolerance() ToleranceConfig {
	return ToleranceConfig{
		AbsTol: 1e-5,
		RelTol: 1e-3,
	}
}

// Float32NearEqual checks if two float32 values are equal within tolerance
func (tc ToleranceConfig) Float32NearEqual(a, b float32) bool {
	if a == b {
		return true
	}
	diff := float32(math.Abs(float64(a - b)))
	if diff <= tc.AbsTol {
		return true
	}
	larger := float32(math.Max(math.Abs(float64(a)), math.Abs(float64(b))))
	return diff <= tc.RelTol*larger
}
