package experiment

import (
	"context"
	"io"
	"math"
	"runtime"
	"time"

	"github.com/YuminosukeSato/statlearn/dataset"
	"github.com/YuminosukeSato/statlearn/discriminant"
	"github.com/YuminosukeSato/statlearn/linalg"
	"github.com/YuminosukeSato/statlearn/linear"
	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/YuminosukeSato/statlearn/pkg/log"
	"github.com/YuminosukeSato/statlearn/preprocessing"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

// Runner executes one configured study.
type Runner struct {
	cfg    *Config
	logger log.Logger
	runID  uuid.UUID
}

// NewRunner returns a Runner for cfg. A nil logger uses log.GetLogger.
func NewRunner(cfg *Config, logger log.Logger) *Runner {
	if logger == nil {
		logger = log.GetLogger()
	}
	id := uuid.New()
	return &Runner{
		cfg:    cfg,
		logger: logger.With(log.EstimatorIDKey, id.String(), log.PhaseKey, log.PhaseExperiment),
		runID:  id,
	}
}

// RunID identifies the run in logs, the report and plot file names.
func (r *Runner) RunID() string { return r.runID.String() }

// Report collects every number a run produces.
type Report struct {
	RunID          string               `yaml:"run_id"`
	Classification ClassificationReport `yaml:"classification"`
	OLS            OLSReport            `yaml:"ols"`
	Ridge          SweepReport          `yaml:"ridge"`
	RidgeCG        SweepReport          `yaml:"ridge_cg"`
	Polynomial     PolynomialReport     `yaml:"polynomial"`
	Plots          []string             `yaml:"plots,omitempty"`
	DurationMs     int64                `yaml:"duration_ms"`
}

type ClassificationReport struct {
	Classes     []float64 `yaml:"classes"`
	LDAAccuracy float64   `yaml:"lda_accuracy"`
	QDAAccuracy float64   `yaml:"qda_accuracy"`
}

type OLSReport struct {
	TrainMSE          float64 `yaml:"train_mse"`
	TestMSE           float64 `yaml:"test_mse"`
	TrainMSEIntercept float64 `yaml:"train_mse_intercept"`
	TestMSEIntercept  float64 `yaml:"test_mse_intercept"`
}

// SweepReport holds MSE per λ, index-aligned with Lambdas.
type SweepReport struct {
	Lambdas     []float64 `yaml:"lambdas"`
	TrainMSE    []float64 `yaml:"train_mse"`
	TestMSE     []float64 `yaml:"test_mse"`
	BestLambda  float64   `yaml:"best_lambda"`
	BestTestMSE float64   `yaml:"best_test_mse"`
}

// PolynomialReport holds MSE per degree without regularization and at
// LambdaOpt.
type PolynomialReport struct {
	Degrees         []int     `yaml:"degrees"`
	LambdaOpt       float64   `yaml:"lambda_opt"`
	TrainMSE        []float64 `yaml:"train_mse"`
	TestMSE         []float64 `yaml:"test_mse"`
	TrainMSERidge   []float64 `yaml:"train_mse_ridge"`
	TestMSERidge    []float64 `yaml:"test_mse_ridge"`
	BestDegree      int       `yaml:"best_degree"`
	BestDegreeRidge int       `yaml:"best_degree_ridge"`
}

// WriteYAML encodes the report to w.
func (rep *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return errors.Wrap(err, "experiment: encode report")
	}
	return enc.Close()
}

// classificationResult keeps what the decision-region plots need.
type classificationResult struct {
	test     *dataset.Dataset
	grid     *mat.Dense
	ldaLabel *mat.VecDense
	qdaLabel *mat.VecDense
	classes  []float64
}

// Run executes the classification and regression studies. A cancelled ctx
// stops pending sweep tasks and is returned as the error.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	rep := &Report{RunID: r.RunID()}
	r.logger.Info("run started", "seed", r.cfg.Seed, "workers", r.workers())

	cls, err := r.runClassification(ctx, rep)
	if err != nil {
		return nil, errors.Wrap(err, "classification")
	}

	train, test, err := r.regressionData()
	if err != nil {
		return nil, errors.Wrap(err, "regression data")
	}
	if err := r.runOLS(train, test, rep); err != nil {
		return nil, errors.Wrap(err, "ols")
	}
	if err := r.runRidge(ctx, train, test, rep); err != nil {
		return nil, errors.Wrap(err, "ridge")
	}
	if err := r.runPolynomial(ctx, train, test, rep); err != nil {
		return nil, errors.Wrap(err, "polynomial")
	}

	if r.cfg.Plots.Enabled {
		paths, err := r.writePlots(cls, rep)
		if err != nil {
			return nil, errors.Wrap(err, "plots")
		}
		rep.Plots = paths
	}

	rep.DurationMs = time.Since(start).Milliseconds()
	r.logger.Info("run finished", log.DurationMsKey, rep.DurationMs)
	return rep, nil
}

func (r *Runner) runClassification(ctx context.Context, rep *Report) (*classificationResult, error) {
	train, test, err := r.classificationData()
	if err != nil {
		return nil, err
	}
	n, d := train.Dims()
	res := &classificationResult{test: test}

	var grid *mat.Dense
	if r.cfg.Plots.Enabled && d == 2 {
		grid = decisionGrid(r.cfg.Classification.Grid)
		res.grid = grid
	}

	// LDA と QDA は独立なので並行に学習する
	var models [2]*discriminant.Model
	var accs [2]float64
	var labels [2]*mat.VecDense
	g, ctx := errgroup.WithContext(ctx)
	for i, mode := range []discriminant.Mode{discriminant.LDA, discriminant.QDA} {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := discriminant.Learn(train.X, train.Y, mode)
			if err != nil {
				return errors.Wrap(err, mode.String())
			}
			acc, _, err := m.Test(test.X, test.Y)
			if err != nil {
				return errors.Wrap(err, mode.String())
			}
			models[i], accs[i] = m, acc
			if grid != nil {
				// グリッドは正解ラベルなしで予測する
				if labels[i], err = m.Predict(grid); err != nil {
					return errors.Wrap(err, mode.String())
				}
			}
			r.logger.Info("classifier evaluated",
				log.ModelNameKey, mode.String(),
				log.SamplesKey, n,
				log.FeaturesKey, d,
				log.ClassesKey, len(m.Classes),
				log.AccuracyKey, acc,
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.classes = append([]float64(nil), models[0].Classes...)
	res.ldaLabel, res.qdaLabel = labels[0], labels[1]
	rep.Classification = ClassificationReport{
		Classes:     res.classes,
		LDAAccuracy: accs[0],
		QDAAccuracy: accs[1],
	}
	return res, nil
}

func (r *Runner) runOLS(train, test *dataset.Dataset, rep *Report) error {
	trainI := preprocessing.AddIntercept(train.X)
	testI := preprocessing.AddIntercept(test.X)

	w, err := linear.LearnOLS(train.X, train.Y)
	if err != nil {
		return err
	}
	wI, err := linear.LearnOLS(trainI, train.Y)
	if err != nil {
		return errors.Wrap(err, "with intercept")
	}

	var out OLSReport
	for _, c := range []struct {
		dst  *float64
		w    *mat.VecDense
		X, y mat.Matrix
	}{
		{&out.TrainMSE, w, train.X, train.Y},
		{&out.TestMSE, w, test.X, test.Y},
		{&out.TrainMSEIntercept, wI, trainI, train.Y},
		{&out.TestMSEIntercept, wI, testI, test.Y},
	} {
		if *c.dst, err = linear.MSE(c.w, c.X, c.y); err != nil {
			return err
		}
	}
	rep.OLS = out
	r.logger.Info("ols evaluated",
		log.ModelNameKey, "OLS",
		log.MSEKey, out.TestMSE,
		"metrics.mse_intercept", out.TestMSEIntercept,
	)
	return nil
}

// runRidge sweeps λ over the design with an intercept column, which the
// penalty also shrinks.
func (r *Runner) runRidge(ctx context.Context, train, test *dataset.Dataset, rep *Report) error {
	lambdas := r.cfg.Regression.Lambda.Values()
	train = &dataset.Dataset{X: preprocessing.AddIntercept(train.X), Y: train.Y, Features: train.Features}
	test = &dataset.Dataset{X: preprocessing.AddIntercept(test.X), Y: test.Y, Features: test.Features}

	var err error
	rep.Ridge, err = r.sweep(ctx, lambdas, train, test, func(X, y mat.Matrix, lambda float64) (*mat.VecDense, error) {
		return linear.LearnRidge(X, y, lambda)
	})
	if err != nil {
		return errors.Wrap(err, "closed form")
	}
	r.logger.Info("ridge sweep finished",
		log.ModelNameKey, "Ridge",
		log.RegularizationKey, rep.Ridge.BestLambda,
		log.MSEKey, rep.Ridge.BestTestMSE,
	)

	maxIter := r.cfg.Regression.CGMaxIter
	rep.RidgeCG, err = r.sweep(ctx, lambdas, train, test, func(X, y mat.Matrix, lambda float64) (*mat.VecDense, error) {
		return linear.LearnRidgeCG(X, y, lambda, linear.WithMaxIter(maxIter))
	})
	if err != nil {
		return errors.Wrap(err, "conjugate gradient")
	}
	r.logger.Info("ridge sweep finished",
		log.ModelNameKey, "RidgeCG",
		log.MaxIterKey, maxIter,
		log.RegularizationKey, rep.RidgeCG.BestLambda,
		log.MSEKey, rep.RidgeCG.BestTestMSE,
	)
	return nil
}

type learnFunc func(X, y mat.Matrix, lambda float64) (*mat.VecDense, error)

// sweep fits one model per λ on a bounded errgroup. Each task writes only
// its own slot of the result slices.
func (r *Runner) sweep(ctx context.Context, lambdas []float64, train, test *dataset.Dataset, learn learnFunc) (SweepReport, error) {
	out := SweepReport{
		Lambdas:  lambdas,
		TrainMSE: make([]float64, len(lambdas)),
		TestMSE:  make([]float64, len(lambdas)),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, lambda := range lambdas {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			w, err := learn(train.X, train.Y, lambda)
			if err != nil {
				return errors.Wrapf(err, "lambda=%g", lambda)
			}
			if out.TrainMSE[i], err = linear.MSE(w, train.X, train.Y); err != nil {
				return err
			}
			out.TestMSE[i], err = linear.MSE(w, test.X, test.Y)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	best := argmin(out.TestMSE)
	out.BestLambda, out.BestTestMSE = lambdas[best], out.TestMSE[best]
	return out, nil
}

func (r *Runner) runPolynomial(ctx context.Context, train, test *dataset.Dataset, rep *Report) error {
	c := r.cfg.Regression
	if _, d := train.Dims(); c.PolyFeature >= d {
		return errors.NewDimensionError("experiment.runPolynomial", d, c.PolyFeature+1, 1)
	}
	xTrain := linalg.ColumnOf(train.X, c.PolyFeature)
	xTest := linalg.ColumnOf(test.X, c.PolyFeature)

	out := PolynomialReport{
		Degrees:       make([]int, c.MaxDegree),
		LambdaOpt:     c.LambdaOpt,
		TrainMSE:      make([]float64, c.MaxDegree),
		TestMSE:       make([]float64, c.MaxDegree),
		TrainMSERidge: make([]float64, c.MaxDegree),
		TestMSERidge:  make([]float64, c.MaxDegree),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for p := 0; p < c.MaxDegree; p++ {
		out.Degrees[p] = p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			Xp, err := preprocessing.MapNonLinear(xTrain, p)
			if err != nil {
				return err
			}
			Xpt, err := preprocessing.MapNonLinear(xTest, p)
			if err != nil {
				return err
			}
			for _, s := range []struct {
				lambda            float64
				trainDst, testDst *float64
			}{
				{0, &out.TrainMSE[p], &out.TestMSE[p]},
				{c.LambdaOpt, &out.TrainMSERidge[p], &out.TestMSERidge[p]},
			} {
				w, err := linear.LearnRidge(Xp, train.Y, s.lambda)
				if err != nil {
					return errors.Wrapf(err, "degree=%d lambda=%g", p, s.lambda)
				}
				if *s.trainDst, err = linear.MSE(w, Xp, train.Y); err != nil {
					return err
				}
				if *s.testDst, err = linear.MSE(w, Xpt, test.Y); err != nil {
					return err
				}
			}
			r.logger.Debug("degree evaluated",
				log.DegreeKey, p,
				log.MSEKey, out.TestMSE[p],
				log.RegularizationKey, c.LambdaOpt,
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out.BestDegree = argmin(out.TestMSE)
	out.BestDegreeRidge = argmin(out.TestMSERidge)
	rep.Polynomial = out
	r.logger.Info("polynomial sweep finished",
		log.DegreeKey, out.BestDegree,
		"data.poly_degree_ridge", out.BestDegreeRidge,
	)
	return nil
}

func (r *Runner) workers() int {
	if r.cfg.Workers > 0 {
		return r.cfg.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// argmin returns the first index of the smallest value, skipping NaN.
func argmin(v []float64) int {
	best, bestVal := 0, math.Inf(1)
	for i, x := range v {
		if x < bestVal {
			best, bestVal = i, x
		}
	}
	return best
}
