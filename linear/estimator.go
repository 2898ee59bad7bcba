package linear

import (
	"github.com/YuminosukeSato/statlearn/core/model"
	"github.com/YuminosukeSato/statlearn/metrics"
	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/YuminosukeSato/statlearn/pkg/log"
	"github.com/YuminosukeSato/statlearn/preprocessing"
	"gonum.org/v1/gonum/mat"
)

const weightsVersion = "1.0"

// fittedLinear holds the coefficients shared by LinearRegression and Ridge.
type fittedLinear struct {
	name  string
	state *model.StateManager
	cfg   config

	coef      *mat.VecDense
	intercept float64
}

func newFittedLinear(name string, cfg config) fittedLinear {
	return fittedLinear{name: name, state: model.NewStateManager(), cfg: cfg}
}

// IsFitted reports whether Fit has succeeded.
func (f *fittedLinear) IsFitted() bool {
	return f.state.IsFitted()
}

// Coefficients returns a copy of the feature weights, excluding the
// intercept.
func (f *fittedLinear) Coefficients() []float64 {
	if f.coef == nil {
		return nil
	}
	out := make([]float64, f.coef.Len())
	for i := range out {
		out[i] = f.coef.AtVec(i)
	}
	return out
}

// Intercept returns the fitted intercept, 0 when fit_intercept is false.
func (f *fittedLinear) Intercept() float64 {
	return f.intercept
}

// fit solves with learn on X, with an intercept column prepended when
// configured, and splits the intercept from the coefficients.
func (f *fittedLinear) fit(X, y mat.Matrix, learn func(X, y mat.Matrix) (*mat.VecDense, error)) error {
	logger := log.GetLogger().With(log.ModelNameKey, f.name)

	design := X
	if f.cfg.fitIntercept {
		design = preprocessing.AddIntercept(X)
	}
	w, err := learn(design, y)
	if err != nil {
		logger.Error("fit failed", err, log.OperationKey, log.OperationFit)
		f.state.Reset()
		f.coef = nil
		return err
	}

	n, d := X.Dims()
	if f.cfg.fitIntercept {
		f.intercept = w.AtVec(0)
		f.coef = mat.VecDenseCopyOf(w.SliceVec(1, d+1))
	} else {
		f.intercept = 0
		f.coef = w
	}
	f.state.SetFitted(d, n)

	logger.Debug("model fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, n,
		log.FeaturesKey, d,
		log.RegularizationKey, f.cfg.lambda,
	)
	return nil
}

// Predict returns Xw + intercept as an N×1 matrix.
func (f *fittedLinear) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := f.state.RequireFitted(f.name, "Predict"); err != nil {
		return nil, err
	}
	_, d := X.Dims()
	if err := f.state.RequireFeatures(f.name+".Predict", d); err != nil {
		return nil, err
	}
	pred, err := predict(f.name+".Predict", f.coef, X)
	if err != nil {
		return nil, err
	}
	if f.intercept != 0 {
		for i := 0; i < pred.Len(); i++ {
			pred.SetVec(i, pred.AtVec(i)+f.intercept)
		}
	}
	return pred, nil
}

// Score returns R² on (X, y).
func (f *fittedLinear) Score(X, y mat.Matrix) (float64, error) {
	pred, err := f.Predict(X)
	if err != nil {
		return 0, err
	}
	yv, err := checkXY(f.name+".Score", X, y)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(yv, pred.(*mat.VecDense))
}

// MSE returns the mean squared error of the predictions on (X, y).
func (f *fittedLinear) MSE(X, y mat.Matrix) (float64, error) {
	pred, err := f.Predict(X)
	if err != nil {
		return 0, err
	}
	yv, err := checkXY(f.name+".MSE", X, y)
	if err != nil {
		return 0, err
	}
	return metrics.MSE(yv, pred.(*mat.VecDense))
}

func (f *fittedLinear) exportWeights(hyper map[string]interface{}) (*model.ModelWeights, error) {
	if err := f.state.RequireFitted(f.name, "ExportWeights"); err != nil {
		return nil, err
	}
	return &model.ModelWeights{
		ModelType:       f.name,
		Version:         weightsVersion,
		Coefficients:    f.Coefficients(),
		Intercept:       f.intercept,
		Hyperparameters: hyper,
		IsFitted:        true,
	}, nil
}

func (f *fittedLinear) importWeights(w *model.ModelWeights) error {
	if w == nil {
		return errors.NewValueError(f.name+".ImportWeights", "weights are nil")
	}
	if err := w.Validate(); err != nil {
		return errors.Wrap(err, f.name+".ImportWeights")
	}
	if w.ModelType != f.name {
		return errors.NewValueError(f.name+".ImportWeights", "model type mismatch: "+w.ModelType)
	}
	if !w.IsFitted {
		f.state.Reset()
		f.coef = nil
		f.intercept = 0
		return nil
	}
	f.coef = mat.NewVecDense(len(w.Coefficients), append([]float64(nil), w.Coefficients...))
	f.intercept = w.Intercept
	f.state.SetFitted(len(w.Coefficients), 0)
	return nil
}

// LinearRegression は最小二乗法による線形回帰モデル
type LinearRegression struct {
	fittedLinear
}

var (
	_ model.Regressor      = (*LinearRegression)(nil)
	_ model.WeightExporter = (*LinearRegression)(nil)
)

// NewLinearRegression は新しい線形回帰モデルを作成する
// WithFitIntercept 以外のオプションは無視される。
func NewLinearRegression(opts ...Option) *LinearRegression {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.lambda = 0
	return &LinearRegression{fittedLinear: newFittedLinear("LinearRegression", cfg)}
}

// Fit はモデルを訓練データで学習させる
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	return lr.fit(X, y, LearnOLS)
}

// ExportWeights returns the fitted weights.
func (lr *LinearRegression) ExportWeights() (*model.ModelWeights, error) {
	return lr.exportWeights(map[string]interface{}{
		"fit_intercept": lr.cfg.fitIntercept,
	})
}

// ImportWeights restores weights produced by ExportWeights.
func (lr *LinearRegression) ImportWeights(w *model.ModelWeights) error {
	if err := lr.importWeights(w); err != nil {
		return err
	}
	if fit, ok := w.Bool("fit_intercept"); ok {
		lr.cfg.fitIntercept = fit
	}
	return nil
}

// Ridge is L2-regularized linear regression. With fit_intercept the
// intercept column is penalized like every other weight.
type Ridge struct {
	fittedLinear
}

var (
	_ model.Regressor      = (*Ridge)(nil)
	_ model.WeightExporter = (*Ridge)(nil)
)

// NewRidge creates an unfitted Ridge model. λ defaults to 0.
func NewRidge(opts ...Option) *Ridge {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Ridge{fittedLinear: newFittedLinear("Ridge", cfg)}
}

// Lambda returns the configured ridge weight.
func (r *Ridge) Lambda() float64 {
	return r.cfg.lambda
}

// Fit learns the weights with the configured solver.
func (r *Ridge) Fit(X, y mat.Matrix) error {
	lambda := r.cfg.lambda
	switch r.cfg.solver {
	case SolverCG:
		return r.fit(X, y, func(X, y mat.Matrix) (*mat.VecDense, error) {
			return LearnRidgeCG(X, y, lambda,
				WithMaxIter(r.cfg.maxIter), WithGradientTol(r.cfg.gradientTol))
		})
	default:
		return r.fit(X, y, func(X, y mat.Matrix) (*mat.VecDense, error) {
			return LearnRidge(X, y, lambda)
		})
	}
}

// ExportWeights returns the fitted weights.
func (r *Ridge) ExportWeights() (*model.ModelWeights, error) {
	return r.exportWeights(map[string]interface{}{
		"fit_intercept": r.cfg.fitIntercept,
		"lambda":        r.cfg.lambda,
		"solver":        r.cfg.solver.String(),
	})
}

// ImportWeights restores weights produced by ExportWeights.
func (r *Ridge) ImportWeights(w *model.ModelWeights) error {
	if err := r.importWeights(w); err != nil {
		return err
	}
	if fit, ok := w.Bool("fit_intercept"); ok {
		r.cfg.fitIntercept = fit
	}
	if lambda, ok := w.Float("lambda"); ok {
		r.cfg.lambda = lambda
	}
	return nil
}
