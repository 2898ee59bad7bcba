package discriminant

import (
	"bytes"
	"math"
	"testing"

	"github.com/YuminosukeSato/statlearn/core/model"
	"github.com/YuminosukeSato/statlearn/dataset"
	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func twoBlobs(t *testing.T, seed uint64) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.GaussianBlobs([]dataset.Blob{
		{Label: 1, Mean: []float64{0, 0}, N: 100},
		{Label: 2, Mean: []float64{10, 10}, N: 100},
	}, seed)
	require.NoError(t, err)
	return ds
}

func TestLearnMeans(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1, 2,
		3, 4,
		10, 20,
		30, 40,
	})
	y := mat.NewDense(4, 1, []float64{5, 5, 3, 3})

	m, err := LearnQDA(X, y)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 5}, m.Classes)
	assert.True(t, mat.EqualApprox(m.Means, mat.NewDense(2, 2, []float64{
		20, 2,
		30, 3,
	}), 1e-12))
	assert.Len(t, m.Covariances, 2)
	assert.Equal(t, 2, m.NumFeatures())
}

func TestLearnLDAPooledCovariance(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})

	m, err := LearnLDA(X, y)
	require.NoError(t, err)
	require.Len(t, m.Covariances, 1)
	// sample variance of 1..4 with N−1 normalization
	assert.InDelta(t, 5.0/3.0, m.Covariances[0].At(0, 0), 1e-12)
	assert.Same(t, m.Covariance(0), m.Covariance(1))
}

func TestSeparatedBlobsAccuracy(t *testing.T) {
	train := twoBlobs(t, 1)
	test := twoBlobs(t, 2)

	for _, mode := range []Mode{LDA, QDA} {
		t.Run(mode.String(), func(t *testing.T) {
			m, err := Learn(train.X, train.Y, mode)
			require.NoError(t, err)

			acc, labels, err := m.Test(test.X, test.Y)
			require.NoError(t, err)
			assert.Greater(t, acc, 0.95)
			assert.Equal(t, 200, labels.Len())
		})
	}
}

func TestLabelsComeFromLearnedClasses(t *testing.T) {
	ds, err := dataset.GaussianBlobs([]dataset.Blob{
		{Label: 2, Mean: []float64{0, 0}, N: 50},
		{Label: 7, Mean: []float64{10, 0}, N: 50},
		{Label: 9, Mean: []float64{0, 10}, N: 50},
	}, 11)
	require.NoError(t, err)

	for _, mode := range []Mode{LDA, QDA} {
		m, err := Learn(ds.X, ds.Y, mode)
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 7, 9}, m.Classes)

		probe := mat.NewDense(3, 2, []float64{
			0, 0,
			10, 0,
			0, 10,
		})
		labels, err := m.Predict(probe)
		require.NoError(t, err)
		assert.Equal(t, []float64{2, 7, 9}, labels.RawVector().Data, mode.String())
	}
}

func TestTiesGoToLowestIndex(t *testing.T) {
	cov := mat.NewSymDense(1, []float64{1})
	m := &Model{
		Classes:     []float64{4, 8},
		Means:       mat.NewDense(1, 2, []float64{0, 0}),
		Covariances: []*mat.SymDense{cov},
		Mode:        LDA,
	}
	labels, err := m.Predict(mat.NewDense(2, 1, []float64{-3, 5}))
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 4}, labels.RawVector().Data)

	// symmetric point between two means
	m.Means = mat.NewDense(1, 2, []float64{-1, 1})
	labels, err = m.Predict(mat.NewDense(1, 1, []float64{0}))
	require.NoError(t, err)
	assert.Equal(t, 4.0, labels.AtVec(0))
}

func TestLogScoresAvoidUnderflow(t *testing.T) {
	m := &Model{
		Classes:     []float64{0, 1},
		Means:       mat.NewDense(1, 2, []float64{0, 100}),
		Covariances: []*mat.SymDense{mat.NewSymDense(1, []float64{1e-2})},
		Mode:        LDA,
	}
	// exp(−½q) underflows for both classes at x = 60
	scores, err := m.LogScores(mat.NewDense(1, 1, []float64{60}))
	require.NoError(t, err)
	assert.False(t, math.IsInf(scores.At(0, 0), 0))
	assert.Greater(t, scores.At(0, 1), scores.At(0, 0))

	labels, err := m.Predict(mat.NewDense(1, 1, []float64{60}))
	require.NoError(t, err)
	assert.Equal(t, 1.0, labels.AtVec(0))
}

func TestPredictProba(t *testing.T) {
	train := twoBlobs(t, 3)
	m, err := LearnQDA(train.X, train.Y)
	require.NoError(t, err)

	proba, err := m.PredictProba(mat.NewDense(2, 2, []float64{0, 0, 10, 10}))
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		assert.InDelta(t, 1.0, proba.At(i, 0)+proba.At(i, 1), 1e-12)
	}
	assert.Greater(t, proba.At(0, 0), 0.99)
	assert.Greater(t, proba.At(1, 1), 0.99)
}

func TestSingularCovariance(t *testing.T) {
	// class 1 has identical rows, so its covariance is zero
	X := mat.NewDense(6, 2, []float64{
		1, 1,
		1, 1,
		1, 1,
		5, 6,
		7, 5,
		6, 8,
	})
	y := mat.NewDense(6, 1, []float64{1, 1, 1, 2, 2, 2})

	m, err := LearnQDA(X, y)
	require.NoError(t, err)

	_, err = m.Predict(mat.NewDense(1, 2, []float64{0, 0}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSingularMatrix))

	var serr *errors.SingularMatrixError
	require.True(t, errors.As(err, &serr))
	assert.Contains(t, serr.Matrix, "class 1")
}

func TestDegenerateClassWarning(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(nil)

	X := mat.NewDense(5, 2, []float64{
		0, 0,
		1, 0,
		0, 1,
		9, 9,
		8, 9,
	})
	y := mat.NewDense(5, 1, []float64{0, 0, 0, 1, 1})

	_, err := LearnQDA(X, y)
	require.NoError(t, err)
	require.Len(t, warnings, 1)

	var w *errors.DegenerateClassWarning
	require.True(t, errors.As(warnings[0], &w))
	assert.Equal(t, 1.0, w.Class)
	assert.Equal(t, 2, w.Samples)
}

func TestLearnErrors(t *testing.T) {
	_, err := LearnLDA(mat.NewDense(3, 2, nil), mat.NewDense(2, 1, nil))
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))

	_, err = LearnLDA(mat.NewDense(3, 2, nil), mat.NewDense(3, 2, nil))
	var verr *errors.ValueError
	assert.True(t, errors.As(err, &verr))

	_, err = LearnLDA(&mat.Dense{}, &mat.Dense{})
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	_, err = Learn(mat.NewDense(3, 2, nil), mat.NewDense(3, 1, nil), Mode(7))
	assert.True(t, errors.Is(err, errors.ErrInvalidHyperparameter))

	for _, bad := range []float64{math.NaN(), math.Inf(1)} {
		X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
		y := mat.NewDense(4, 1, []float64{0, 0, bad, 1})
		for _, mode := range []Mode{LDA, QDA} {
			_, err = Learn(X, y, mode)
			require.Error(t, err)
			assert.True(t, errors.As(err, &verr), "label %v mode %v", bad, mode)
			var perr *errors.PanicError
			assert.False(t, errors.As(err, &perr))
		}
	}
}

func TestPredictFeatureMismatch(t *testing.T) {
	train := twoBlobs(t, 4)
	m, err := LearnLDA(train.X, train.Y)
	require.NoError(t, err)

	_, err = m.Predict(mat.NewDense(2, 3, nil))
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))

	_, _, err = m.Test(mat.NewDense(2, 2, nil), mat.NewDense(3, 1, nil))
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))
}

func TestTestWithPlaceholderTruth(t *testing.T) {
	train := twoBlobs(t, 5)
	m, err := LearnLDA(train.X, train.Y)
	require.NoError(t, err)

	grid := mat.NewDense(2, 2, []float64{0, 0, 10, 10})
	acc, labels, err := m.Test(grid, mat.NewDense(2, 1, nil))
	require.NoError(t, err)
	assert.Equal(t, 0.0, acc)
	assert.Equal(t, []float64{1, 2}, labels.RawVector().Data)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("QDA")
	require.NoError(t, err)
	assert.Equal(t, QDA, m)

	m, err = ParseMode("lda")
	require.NoError(t, err)
	assert.Equal(t, LDA, m)

	_, err = ParseMode("knn")
	assert.True(t, errors.Is(err, errors.ErrInvalidHyperparameter))
}

func TestClassifier(t *testing.T) {
	train := twoBlobs(t, 6)
	test := twoBlobs(t, 7)

	clf := NewClassifier(WithMode(QDA))
	assert.False(t, clf.IsFitted())
	_, err := clf.Predict(test.X)
	assert.True(t, errors.Is(err, errors.ErrNotFitted))

	require.NoError(t, clf.Fit(train.X, train.Y))
	assert.True(t, clf.IsFitted())
	assert.Equal(t, []float64{1, 2}, clf.Classes())
	assert.Equal(t, QDA, clf.Model().Mode)

	score, err := clf.Score(test.X, test.Y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.95)

	pred, err := clf.Predict(test.X)
	require.NoError(t, err)
	r, c := pred.Dims()
	assert.Equal(t, 200, r)
	assert.Equal(t, 1, c)

	proba, err := clf.PredictProba(test.X)
	require.NoError(t, err)
	_, k := proba.Dims()
	assert.Equal(t, 2, k)

	_, err = clf.Predict(mat.NewDense(1, 5, nil))
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))
}

func TestClassifierPersistence(t *testing.T) {
	train := twoBlobs(t, 8)
	clf := NewClassifier(WithMode(QDA))
	require.NoError(t, clf.Fit(train.X, train.Y))

	var buf bytes.Buffer
	require.NoError(t, model.SaveModelToWriter(clf, &buf))

	restored := NewClassifier()
	require.NoError(t, model.LoadModelFromReader(restored, &buf))
	assert.True(t, restored.IsFitted())
	assert.Equal(t, QDA, restored.Model().Mode)
	assert.Equal(t, clf.Classes(), restored.Classes())
	for i := range clf.Model().Covariances {
		assert.True(t, mat.Equal(clf.Model().Covariances[i], restored.Model().Covariances[i]))
	}

	want, err := clf.Predict(train.X)
	require.NoError(t, err)
	got, err := restored.Predict(train.X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))
}
