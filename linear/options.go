package linear

// Solver selects how Ridge computes its weights.
type Solver int

const (
	// SolverClosedForm inverts λI + XᵗX.
	SolverClosedForm Solver = iota
	// SolverCG minimizes the ridge objective with nonlinear conjugate gradient.
	SolverCG
)

func (s Solver) String() string {
	if s == SolverCG {
		return "cg"
	}
	return "closed_form"
}

const (
	defaultMaxIter     = 20
	defaultGradientTol = 1e-5
)

type config struct {
	fitIntercept bool
	lambda       float64
	solver       Solver
	maxIter      int
	gradientTol  float64
}

func defaultConfig() config {
	return config{
		fitIntercept: true,
		solver:       SolverClosedForm,
		maxIter:      defaultMaxIter,
		gradientTol:  defaultGradientTol,
	}
}

// Option configures LinearRegression, Ridge and LearnRidgeCG.
type Option func(*config)

// WithFitIntercept sets whether to calculate the intercept
func WithFitIntercept(fit bool) Option {
	return func(c *config) {
		c.fitIntercept = fit
	}
}

// WithLambda sets the ridge weight λ. LinearRegression ignores it.
func WithLambda(lambda float64) Option {
	return func(c *config) {
		c.lambda = lambda
	}
}

// WithSolver selects the Ridge solver.
func WithSolver(s Solver) Option {
	return func(c *config) {
		c.solver = s
	}
}

// WithMaxIter caps the number of conjugate-gradient steps taken from the
// starting point.
func WithMaxIter(n int) Option {
	return func(c *config) {
		c.maxIter = n
	}
}

// WithGradientTol stops conjugate gradient once the largest gradient
// component falls below tol. Zero leaves the optimizer's own default.
func WithGradientTol(tol float64) Option {
	return func(c *config) {
		c.gradientTol = tol
	}
}
