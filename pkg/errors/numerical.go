package errors

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// maxReported caps how many non-finite values an error carries.
const maxReported = 10

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CheckScalar returns a NumericalInstabilityError when value is NaN or Inf.
func CheckScalar(operation string, value float64, iteration int) error {
	if finite(value) {
		return nil
	}
	return NewNumericalInstabilityError(operation, []float64{value}, iteration)
}

// CheckFinite returns a NumericalInstabilityError listing the non-finite
// entries of values, e.g. the final iterate of an optimizer.
func CheckFinite(operation string, values []float64, iteration int) error {
	var bad []float64
	for _, v := range values {
		if !finite(v) && len(bad) < maxReported {
			bad = append(bad, v)
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return NewNumericalInstabilityError(operation, bad, iteration)
}

// CheckMatrix scans m for NaN or Inf entries.
func CheckMatrix(operation string, m mat.Matrix) error {
	r, c := m.Dims()
	var bad []float64
	for i := 0; i < r && len(bad) < maxReported; i++ {
		for j := 0; j < c && len(bad) < maxReported; j++ {
			if v := m.At(i, j); !finite(v) {
				bad = append(bad, v)
			}
		}
	}
	if len(bad) == 0 {
		return nil
	}
	return NewNumericalInstabilityError(operation, bad, 0)
}
