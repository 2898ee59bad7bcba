package linear

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/statlearn/linalg"
	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Objective returns the ridge loss ½[Σ(y − Xw)² + λ wᵗw] and its gradient
// XᵗXw − Xᵗy + λw at w.
func Objective(w mat.Vector, X, y mat.Matrix, lambda float64) (loss float64, grad *mat.VecDense, err error) {
	const op = "linear.Objective"
	defer errors.Recover(&err, op)

	if err := checkLambda(lambda); err != nil {
		return 0, nil, err
	}
	yv, err := checkXY(op, X, y)
	if err != nil {
		return 0, nil, err
	}
	pred, err := predict(op, w, X)
	if err != nil {
		return 0, nil, err
	}

	// r = Xw − y
	r := mat.NewVecDense(yv.Len(), nil)
	r.SubVec(pred, yv)

	loss = 0.5 * (mat.Dot(r, r) + lambda*mat.Dot(w, w))
	if err := errors.CheckScalar(op, loss, 0); err != nil {
		return 0, nil, err
	}

	_, d := X.Dims()
	grad = mat.NewVecDense(d, nil)
	grad.MulVec(X.T(), r)
	grad.AddScaledVec(grad, lambda, w)
	return loss, grad, nil
}

// ridgeProblem evaluates the ridge objective from XᵗX and Xᵗy computed once
// per fit.
type ridgeProblem struct {
	gram   *mat.SymDense
	xty    *mat.VecDense
	yty    float64
	lambda float64

	work *mat.VecDense
}

func newRidgeProblem(X mat.Matrix, y *mat.VecDense, lambda float64) (*ridgeProblem, error) {
	xty, err := linalg.CrossProduct(X, y)
	if err != nil {
		return nil, err
	}
	_, d := X.Dims()
	return &ridgeProblem{
		gram:   linalg.Gram(X),
		xty:    xty,
		yty:    mat.Dot(y, y),
		lambda: lambda,
		work:   mat.NewVecDense(d, nil),
	}, nil
}

// fn evaluates ½(wᵗXᵗXw − 2wᵗXᵗy + yᵗy + λwᵗw).
func (p *ridgeProblem) fn(x []float64) float64 {
	w := mat.NewVecDense(len(x), x)
	p.work.MulVec(p.gram, w)
	return 0.5 * (mat.Dot(w, p.work) - 2*mat.Dot(w, p.xty) + p.yty + p.lambda*floats.Dot(x, x))
}

func (p *ridgeProblem) grad(dst, x []float64) {
	w := mat.NewVecDense(len(x), x)
	g := mat.NewVecDense(len(dst), dst)
	g.MulVec(p.gram, w)
	g.SubVec(g, p.xty)
	floats.AddScaled(dst, p.lambda, x)
}

// stationaryRelTol bounds the gradient at a stationary point relative to
// the gradient at the start.
const stationaryRelTol = 1e-8

// stationary reports whether the gradient at x is below tol or has shrunk
// by stationaryRelTol from its value at start.
func (p *ridgeProblem) stationary(x, start []float64, tol float64) bool {
	g := make([]float64, len(x))
	p.grad(g, x)
	norm := floats.Norm(g, math.Inf(1))
	if norm <= tol {
		return true
	}
	p.grad(g, start)
	return norm <= stationaryRelTol*math.Max(1, floats.Norm(g, math.Inf(1)))
}

// LearnRidgeCG minimizes the ridge objective with nonlinear conjugate
// gradient, starting from a vector of ones. It stops after WithMaxIter
// steps (default 20) or once every gradient component is below
// WithGradientTol (default 1e-5).
//
// Stopping at the iteration cap is not an error: a ConvergenceWarning is
// emitted and the best iterate is returned.
func LearnRidgeCG(X, y mat.Matrix, lambda float64, opts ...Option) (w *mat.VecDense, err error) {
	const op = "LearnRidgeCG"
	defer errors.Recover(&err, op)

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxIter <= 0 {
		return nil, errors.NewInvalidHyperparameterError("max_iter", "must be positive", cfg.maxIter)
	}
	if cfg.gradientTol < 0 {
		return nil, errors.NewInvalidHyperparameterError("gradient_tol", "must be non-negative", cfg.gradientTol)
	}
	if err := checkLambda(lambda); err != nil {
		return nil, err
	}
	yv, err := checkXY(op, X, y)
	if err != nil {
		return nil, err
	}

	problem, err := newRidgeProblem(X, yv, lambda)
	if err != nil {
		return nil, err
	}

	_, d := X.Dims()
	init := make([]float64, d)
	floats.AddConst(1, init)

	// gonum counts the evaluation at init as the first major iteration
	settings := &optimize.Settings{
		MajorIterations:   cfg.maxIter + 1,
		GradientThreshold: cfg.gradientTol,
	}
	result, err := optimize.Minimize(optimize.Problem{
		Func: problem.fn,
		Grad: problem.grad,
	}, init, settings, &optimize.CG{})
	if result == nil {
		return nil, errors.Wrap(err, op)
	}
	steps := max(result.MajorIterations-1, 0)
	switch {
	case err != nil:
		// line search failures leave the best location found so far
		if !problem.stationary(result.X, init, cfg.gradientTol) {
			errors.Warn(errors.NewConvergenceWarning("CG", steps, err.Error()))
		}
	case result.Status == optimize.IterationLimit:
		errors.Warn(errors.NewConvergenceWarning("CG", cfg.maxIter,
			fmt.Sprintf("gradient norm still above %g", cfg.gradientTol)))
	}

	if err := errors.CheckFinite(op, result.X, result.MajorIterations); err != nil {
		return nil, err
	}
	return mat.NewVecDense(d, result.X), nil
}
