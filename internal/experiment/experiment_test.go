package experiment

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/YuminosukeSato/statlearn/linear"
	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/YuminosukeSato/statlearn/pkg/log"
	"github.com/YuminosukeSato/statlearn/preprocessing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func smallConfig() *Config {
	cfg := DefaultConfig()
	cfg.Workers = 2
	cfg.Classification.SamplesPerClass = 30
	cfg.Classification.Grid.Points = 12
	cfg.Regression.TrainSamples = 80
	cfg.Regression.TestSamples = 40
	cfg.Regression.Features = 4
	cfg.Regression.Lambda = LambdaGrid{Min: 0, Max: 1, Points: 6}
	cfg.Regression.CGMaxIter = 50
	cfg.Regression.MaxDegree = 5
	cfg.Plots.Enabled = false
	return cfg
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Regression.Lambda.Values(), 101)
	assert.Equal(t, 20, cfg.Regression.CGMaxIter)
	assert.InDelta(t, 0.06, cfg.Regression.LambdaOpt, 1e-15)
}

func TestParseConfigKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
seed: 42
regression:
  cg_max_iter: 5
  lambda:
    points: 11
plots:
  enabled: false
`))
	require.NoError(t, err)

	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 5, cfg.Regression.CGMaxIter)
	assert.Equal(t, 11, cfg.Regression.Lambda.Points)
	assert.InDelta(t, 1.0, cfg.Regression.Lambda.Max, 1e-15)
	assert.False(t, cfg.Plots.Enabled)
	assert.Equal(t, 100, cfg.Classification.Grid.Points)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "seed: [1"},
		{"negative workers", "workers: -1"},
		{"negative lambda", "regression: {lambda: {min: -1}}"},
		{"inverted lambda", "regression: {lambda: {min: 2, max: 1}}"},
		{"zero cg iterations", "regression: {cg_max_iter: 0}"},
		{"one grid point", "classification: {grid: {points: 1}}"},
		{"empty grid", "classification: {grid: {min: 3, max: 3}}"},
		{"no degrees", "regression: {max_degree: 0}"},
		{"no features", "regression: {features: 0}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/experiment.yaml")
	assert.Error(t, err)
}

func TestLambdaGridValues(t *testing.T) {
	v := LambdaGrid{Min: 0, Max: 1, Points: 5}.Values()
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75, 1}, v, 1e-15)

	assert.Equal(t, []float64{0.3}, LambdaGrid{Min: 0.3, Max: 1, Points: 1}.Values())
}

func TestDecisionGrid(t *testing.T) {
	g := decisionGrid(GridConfig{Min: 0, Max: 2, Points: 3})
	r, c := g.Dims()
	require.Equal(t, 9, r)
	require.Equal(t, 2, c)

	// 第1座標が最も速く変化する
	assert.Equal(t, []float64{1, 0}, g.RawRowView(1))
	assert.Equal(t, []float64{0, 1}, g.RawRowView(3))
	assert.Equal(t, []float64{2, 2}, g.RawRowView(8))
}

func TestRun(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelInfo)
	runner := NewRunner(smallConfig(), logger)

	rep, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, runner.RunID(), rep.RunID)

	t.Run("classification", func(t *testing.T) {
		assert.Equal(t, []float64{1, 2, 3, 4, 5}, rep.Classification.Classes)
		assert.Greater(t, rep.Classification.LDAAccuracy, 0.7)
		assert.Greater(t, rep.Classification.QDAAccuracy, 0.7)
	})

	t.Run("ols", func(t *testing.T) {
		// 切片付きモデルは切片なしモデルを含む
		assert.LessOrEqual(t, rep.OLS.TrainMSEIntercept, rep.OLS.TrainMSE+1e-12)
		assert.Greater(t, rep.OLS.TestMSE, 0.0)
	})

	t.Run("ridge", func(t *testing.T) {
		require.Len(t, rep.Ridge.TrainMSE, 6)
		// λ=0 は切片付き OLS と一致する
		assert.InDelta(t, rep.OLS.TrainMSEIntercept, rep.Ridge.TrainMSE[0], 1e-9)
		assert.InDelta(t, rep.OLS.TestMSEIntercept, rep.Ridge.TestMSE[0], 1e-9)
		for i := 1; i < len(rep.Ridge.TrainMSE); i++ {
			assert.GreaterOrEqual(t, rep.Ridge.TrainMSE[i], rep.Ridge.TrainMSE[i-1]-1e-12)
		}
		assert.Contains(t, rep.Ridge.Lambdas, rep.Ridge.BestLambda)
	})

	t.Run("ridge cg matches closed form", func(t *testing.T) {
		require.Len(t, rep.RidgeCG.TrainMSE, 6)
		for i := range rep.Ridge.TrainMSE {
			assert.InEpsilon(t, rep.Ridge.TrainMSE[i], rep.RidgeCG.TrainMSE[i], 1e-3, "lambda index %d", i)
		}
	})

	t.Run("polynomial", func(t *testing.T) {
		p := rep.Polynomial
		assert.Equal(t, []int{0, 1, 2, 3, 4}, p.Degrees)
		for i := 1; i < len(p.TrainMSE); i++ {
			assert.LessOrEqual(t, p.TrainMSE[i], p.TrainMSE[i-1]+1e-9)
		}
		// 目的変数は非線形なので次数 0 が最良にはならない
		assert.Less(t, p.TestMSE[3], p.TestMSE[0])
		assert.GreaterOrEqual(t, p.BestDegree, 1)
	})

	assert.Empty(t, rep.Plots)
	assert.True(t, logger.ContainsMessage("run finished"))
	assert.True(t, logger.ContainsField(log.ModelNameKey, "QDA"))
	assert.True(t, logger.ContainsField(log.EstimatorIDKey, runner.RunID()))
}

func TestRunMatchesDirectFit(t *testing.T) {
	cfg := smallConfig()
	runner := NewRunner(cfg, log.NewNopLogger())
	rep, err := runner.Run(context.Background())
	require.NoError(t, err)

	train, test, err := runner.regressionData()
	require.NoError(t, err)
	w, err := linear.LearnRidge(preprocessing.AddIntercept(train.X), train.Y, rep.Ridge.Lambdas[3])
	require.NoError(t, err)
	mse, err := linear.MSE(w, preprocessing.AddIntercept(test.X), test.Y)
	require.NoError(t, err)
	assert.InDelta(t, mse, rep.Ridge.TestMSE[3], 1e-12)
}

func TestRunWritesPlots(t *testing.T) {
	cfg := smallConfig()
	cfg.Plots.Enabled = true
	cfg.Plots.Dir = t.TempDir()
	cfg.Plots.WidthInches = 4
	cfg.Plots.HeightInches = 3

	rep, err := NewRunner(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, rep.Plots, 4)
	for _, path := range rep.Plots {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
		assert.Contains(t, path, rep.RunID[:8])
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(smallConfig(), nil).Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunPolyFeatureOutOfRange(t *testing.T) {
	cfg := smallConfig()
	cfg.Regression.PolyFeature = cfg.Regression.Features

	_, err := NewRunner(cfg, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDimensionMismatch))
}

func TestReportWriteYAML(t *testing.T) {
	rep := &Report{
		RunID: "run-1",
		Ridge: SweepReport{
			Lambdas:     []float64{0, 0.5},
			TrainMSE:    []float64{1, 1.5},
			TestMSE:     []float64{2, 1},
			BestLambda:  0.5,
			BestTestMSE: 1,
		},
		Polynomial: PolynomialReport{
			Degrees: []int{0, 1},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, rep.WriteYAML(&buf))

	var got Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, rep.RunID, got.RunID)
	assert.Equal(t, rep.Ridge, got.Ridge)
	assert.Equal(t, []int{0, 1}, got.Polynomial.Degrees)
	assert.NotContains(t, buf.String(), "plots:")
}

func TestArgmin(t *testing.T) {
	assert.Equal(t, 0, argmin([]float64{1}))
	assert.Equal(t, 2, argmin([]float64{3, 2, 1, 1}))
}
