package dataset

import (
	"strings"
	"testing"

	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func TestLoadCSV(t *testing.T) {
	input := `x1,x2,label
1.5,2,1
3,4.25,2
5,6,1
`
	opts := DefaultCSVOptions()
	opts.Header = true
	ds, err := LoadCSV(strings.NewReader(input), opts)
	require.NoError(t, err)

	n, d := ds.Dims()
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, d)
	assert.Equal(t, []string{"x1", "x2"}, ds.Features)
	assert.Equal(t, 4.25, ds.X.At(1, 1))
	assert.Equal(t, []float64{1, 2, 1}, mat.Col(nil, 0, ds.Y))
}

func TestLoadCSVTargetColumn(t *testing.T) {
	input := "9,1,2\n8,3,4\n"
	ds, err := LoadCSV(strings.NewReader(input), CSVOptions{Target: 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 8}, mat.Col(nil, 0, ds.Y))
	assert.True(t, mat.Equal(ds.X, mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
}

func TestLoadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  CSVOptions
	}{
		{name: "empty", input: "", opts: DefaultCSVOptions()},
		{name: "header only", input: "a,b\n", opts: CSVOptions{Header: true, Target: -1}},
		{name: "not numeric", input: "1,x\n", opts: DefaultCSVOptions()},
		{name: "ragged", input: "1,2\n3\n", opts: DefaultCSVOptions()},
		{name: "single column", input: "1\n2\n", opts: DefaultCSVOptions()},
		{name: "target out of range", input: "1,2\n", opts: CSVOptions{Target: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCSV(strings.NewReader(tt.input), tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestGaussianBlobs(t *testing.T) {
	ds, err := GaussianBlobs([]Blob{
		{Label: 2, Mean: []float64{0, 0}, N: 500},
		{Label: 7, Mean: []float64{10, 10}, N: 300},
	}, 1)
	require.NoError(t, err)

	n, d := ds.Dims()
	assert.Equal(t, 800, n)
	assert.Equal(t, 2, d)
	assert.Equal(t, 2.0, ds.Y.At(0, 0))
	assert.Equal(t, 7.0, ds.Y.At(799, 0))

	first := mat.Col(nil, 0, ds.X.Slice(0, 500, 0, 2))
	assert.InDelta(t, 0, stat.Mean(first, nil), 0.2)
	second := mat.Col(nil, 1, ds.X.Slice(500, 800, 0, 2))
	assert.InDelta(t, 10, stat.Mean(second, nil), 0.2)

	again, err := GaussianBlobs([]Blob{
		{Label: 2, Mean: []float64{0, 0}, N: 500},
		{Label: 7, Mean: []float64{10, 10}, N: 300},
	}, 1)
	require.NoError(t, err)
	assert.True(t, mat.Equal(ds.X, again.X))
}

func TestGaussianBlobsErrors(t *testing.T) {
	_, err := GaussianBlobs(nil, 1)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	_, err = GaussianBlobs([]Blob{
		{Mean: []float64{0, 0}, N: 1},
		{Mean: []float64{0}, N: 1},
	}, 1)
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))

	_, err = GaussianBlobs([]Blob{
		{Mean: []float64{0, 0}, Cov: mat.NewSymDense(2, []float64{1, 2, 2, 1}), N: 1},
	}, 1)
	assert.Error(t, err)
}

func TestLinearTargets(t *testing.T) {
	X := UniformDesign(50, 3, -1, 1, 3)
	w := []float64{1, -2, 0.5}

	y, err := LinearTargets(X, w, 0, 0)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		want := X.At(i, 0) - 2*X.At(i, 1) + 0.5*X.At(i, 2)
		assert.InDelta(t, want, y.At(i, 0), 1e-12)
	}

	noisy, err := LinearTargets(X, w, 0.1, 4)
	require.NoError(t, err)
	assert.False(t, mat.Equal(y, noisy))

	_, err = LinearTargets(X, []float64{1}, 0, 0)
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))
	_, err = LinearTargets(X, w, -1, 0)
	assert.True(t, errors.Is(err, errors.ErrInvalidHyperparameter))
}

func TestUniformDesignRange(t *testing.T) {
	X := UniformDesign(200, 2, -5, 20, 9)
	assert.GreaterOrEqual(t, mat.Min(X), -5.0)
	assert.LessOrEqual(t, mat.Max(X), 20.0)
}

func TestSplit(t *testing.T) {
	X := mat.NewDense(10, 1, nil)
	Y := mat.NewDense(10, 1, nil)
	for i := 0; i < 10; i++ {
		X.Set(i, 0, float64(i))
		Y.Set(i, 0, float64(i*10))
	}
	ds := &Dataset{X: X, Y: Y}

	train, test, err := Split(ds, 0.3, 42)
	require.NoError(t, err)
	nTrain, _ := train.Dims()
	nTest, _ := test.Dims()
	assert.Equal(t, 7, nTrain)
	assert.Equal(t, 3, nTest)

	seen := map[float64]bool{}
	for _, part := range []*Dataset{train, test} {
		n, _ := part.Dims()
		for i := 0; i < n; i++ {
			x := part.X.At(i, 0)
			assert.Equal(t, x*10, part.Y.At(i, 0))
			seen[x] = true
		}
	}
	assert.Len(t, seen, 10)

	_, _, err = Split(ds, 1.5, 42)
	assert.True(t, errors.Is(err, errors.ErrInvalidHyperparameter))
}
