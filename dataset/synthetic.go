package dataset

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// Blob describes one Gaussian class for GaussianBlobs.
type Blob struct {
	Label float64
	Mean  []float64
	// Cov defaults to the identity when nil.
	Cov mat.Symmetric
	N   int
}

// GaussianBlobs draws blob.N samples from N(blob.Mean, blob.Cov) for every
// blob and labels them with blob.Label. Rows are grouped by blob in the
// order given.
func GaussianBlobs(blobs []Blob, seed uint64) (*Dataset, error) {
	if len(blobs) == 0 {
		return nil, errors.NewEmptyDataError("dataset.GaussianBlobs")
	}
	d := len(blobs[0].Mean)
	total := 0
	for _, b := range blobs {
		if len(b.Mean) != d {
			return nil, errors.NewDimensionError("dataset.GaussianBlobs", d, len(b.Mean), 1)
		}
		total += b.N
	}
	if d == 0 || total == 0 {
		return nil, errors.NewEmptyDataError("dataset.GaussianBlobs")
	}

	src := rand.NewPCG(seed, seed+1)
	X := mat.NewDense(total, d, nil)
	Y := mat.NewDense(total, 1, nil)
	row := 0
	for _, b := range blobs {
		cov := b.Cov
		if cov == nil {
			cov = identity(d)
		}
		normal, ok := distmv.NewNormal(b.Mean, cov, src)
		if !ok {
			return nil, errors.NewValueError("dataset.GaussianBlobs", "covariance is not positive definite")
		}
		for i := 0; i < b.N; i++ {
			X.SetRow(row, normal.Rand(nil))
			Y.Set(row, 0, b.Label)
			row++
		}
	}
	return &Dataset{X: X, Y: Y}, nil
}

// UniformDesign returns an n×d matrix with entries drawn from U(lo, hi).
func UniformDesign(n, d int, lo, hi float64, seed uint64) *mat.Dense {
	u := distuv.Uniform{Min: lo, Max: hi, Src: rand.NewPCG(seed, seed+1)}
	X := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			X.Set(i, j, u.Rand())
		}
	}
	return X
}

// LinearTargets returns y = Xw + ε with ε ~ N(0, noise²). noise 0 gives an
// exact linear relationship.
func LinearTargets(X mat.Matrix, w []float64, noise float64, seed uint64) (*mat.Dense, error) {
	n, d := X.Dims()
	if len(w) != d {
		return nil, errors.NewDimensionError("dataset.LinearTargets", d, len(w), 1)
	}
	if noise < 0 {
		return nil, errors.NewInvalidHyperparameterError("noise", "must be non-negative", noise)
	}

	y := mat.NewDense(n, 1, nil)
	y.Mul(X, mat.NewVecDense(d, w))
	if noise > 0 {
		eps := distuv.Normal{Mu: 0, Sigma: noise, Src: rand.NewPCG(seed, seed+1)}
		for i := 0; i < n; i++ {
			y.Set(i, 0, y.At(i, 0)+eps.Rand())
		}
	}
	return y, nil
}

func identity(d int) *mat.SymDense {
	s := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		s.SetSym(i, i, 1)
	}
	return s
}
