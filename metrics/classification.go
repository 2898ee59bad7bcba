package metrics

import (
	"gonum.org/v1/gonum/mat"
)

// Accuracy returns the fraction of positions where yPred equals yTrue.
// Labels are compared exactly.
func Accuracy(yTrue, yPred mat.Vector) (float64, error) {
	a, b, err := rawPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i := range a {
		if a[i] == b[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(a)), nil
}
