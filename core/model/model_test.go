package model

import (
	"bytes"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/statlearn/pkg/errors"
)

func TestStateManager(t *testing.T) {
	s := NewStateManager()
	assert.False(t, s.IsFitted())

	err := s.RequireFitted("Ridge", "Predict")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFitted))

	s.SetFitted(3, 100)
	assert.True(t, s.IsFitted())
	assert.NoError(t, s.RequireFitted("Ridge", "Predict"))

	nFeatures, nSamples := s.Dimensions()
	assert.Equal(t, 3, nFeatures)
	assert.Equal(t, 100, nSamples)

	assert.NoError(t, s.RequireFeatures("Ridge.Predict", 3))
	err = s.RequireFeatures("Ridge.Predict", 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))

	s.Reset()
	assert.False(t, s.IsFitted())
}

func TestStateManagerConcurrent(t *testing.T) {
	s := NewStateManager()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.SetFitted(i, i)
		}(i)
		go func() {
			defer wg.Done()
			_ = s.IsFitted()
		}()
	}
	wg.Wait()
	assert.True(t, s.IsFitted())
}

func TestModelWeights(t *testing.T) {
	w := &ModelWeights{
		ModelType:       "Ridge",
		Version:         "1.0.0",
		Coefficients:    []float64{1.5, -2},
		Intercept:       0.25,
		Hyperparameters: map[string]interface{}{"lambda": 0.06},
		IsFitted:        true,
	}
	require.NoError(t, w.Validate())

	data, err := w.ToJSON()
	require.NoError(t, err)

	var decoded ModelWeights
	require.NoError(t, decoded.FromJSON(data))
	assert.Equal(t, w.Coefficients, decoded.Coefficients)

	lambda, ok := decoded.Float("lambda")
	assert.True(t, ok)
	assert.Equal(t, 0.06, lambda)
	_, ok = decoded.Bool("lambda")
	assert.False(t, ok)

	assert.Error(t, decoded.FromJSON([]byte(`{"model_type": "Ridge"}`)))
	assert.Error(t, (&ModelWeights{ModelType: "Ridge", Version: "1", Coefficients: []float64{math.NaN()}, IsFitted: true}).Validate())

	assert.Error(t, (&ModelWeights{Version: "1"}).Validate())
	assert.Error(t, (&ModelWeights{ModelType: "Ridge", Version: "1", IsFitted: true}).Validate())
	assert.Error(t, (&ModelWeights{ModelType: "Ridge", Version: "1", Coefficients: []float64{1}}).Validate())
}

func TestPersistence(t *testing.T) {
	type record struct {
		Name    string
		Weights []float64
	}
	in := record{Name: "ols", Weights: []float64{1, 2, 3}}

	var buf bytes.Buffer
	require.NoError(t, SaveModelToWriter(in, &buf))
	var out record
	require.NoError(t, LoadModelFromReader(&out, &buf))
	assert.Equal(t, in, out)

	path := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, SaveModel(in, path))
	var fromFile record
	require.NoError(t, LoadModel(&fromFile, path))
	assert.Equal(t, in, fromFile)

	assert.Error(t, LoadModel(&fromFile, filepath.Join(t.TempDir(), "missing.gob")))

	// 失敗した保存は既存ファイルを壊さない
	assert.Error(t, SaveModel(func() {}, path))
	require.NoError(t, LoadModel(&fromFile, path))
	assert.Equal(t, in, fromFile)
	matches, err := filepath.Glob(path + ".*.tmp")
	require.NoError(t, err)
	assert.Empty(t, matches)
}
