package discriminant

import (
	"github.com/YuminosukeSato/statlearn/core/model"
	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/YuminosukeSato/statlearn/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// Classifier wraps Learn and Model behind the model.Classifier interface.
type Classifier struct {
	state *model.StateManager
	mode  Mode
	model *Model
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithMode selects LDA (default) or QDA.
func WithMode(mode Mode) Option {
	return func(c *Classifier) {
		c.mode = mode
	}
}

// NewClassifier creates an unfitted classifier.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		state: model.NewStateManager(),
		mode:  LDA,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ model.Classifier = (*Classifier)(nil)

// Fit learns class means and covariances. A previous fit is replaced.
func (c *Classifier) Fit(X, y mat.Matrix) error {
	logger := log.GetLogger().With(log.ModelNameKey, c.mode.String())

	m, err := Learn(X, y, c.mode)
	if err != nil {
		logger.Error("fit failed", err, log.OperationKey, log.OperationFit)
		c.state.Reset()
		c.model = nil
		return err
	}
	n, d := X.Dims()
	c.model = m
	c.state.SetFitted(d, n)

	logger.Debug("model fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, n,
		log.FeaturesKey, d,
		log.ClassesKey, len(m.Classes),
	)
	return nil
}

// IsFitted reports whether Fit has succeeded.
func (c *Classifier) IsFitted() bool {
	return c.state.IsFitted()
}

// Model returns the fitted parameters, or nil before Fit.
func (c *Classifier) Model() *Model {
	return c.model
}

// Classes returns the training labels in ascending order.
func (c *Classifier) Classes() []float64 {
	if c.model == nil {
		return nil
	}
	return append([]float64(nil), c.model.Classes...)
}

func (c *Classifier) check(method string, X mat.Matrix) error {
	if err := c.state.RequireFitted(c.mode.String(), method); err != nil {
		return err
	}
	_, d := X.Dims()
	return c.state.RequireFeatures(c.mode.String()+"."+method, d)
}

// Predict returns an N×1 matrix of predicted labels.
func (c *Classifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := c.check("Predict", X); err != nil {
		return nil, err
	}
	labels, err := c.model.Predict(X)
	if err != nil {
		return nil, err
	}
	return labels, nil
}

// PredictProba returns N×k posteriors; column c belongs to Classes()[c].
func (c *Classifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := c.check("PredictProba", X); err != nil {
		return nil, err
	}
	return c.model.PredictProba(X)
}

// Score returns the accuracy on (X, y).
func (c *Classifier) Score(X, y mat.Matrix) (float64, error) {
	if err := c.check("Score", X); err != nil {
		return 0, err
	}
	acc, _, err := c.model.Test(X, y)
	if err != nil {
		return 0, errors.Wrap(err, "score")
	}
	return acc, nil
}

// GobEncode encodes the fitted model.
func (c *Classifier) GobEncode() ([]byte, error) {
	if err := c.state.RequireFitted(c.mode.String(), "GobEncode"); err != nil {
		return nil, err
	}
	return c.model.GobEncode()
}

// GobDecode restores a classifier saved with GobEncode.
func (c *Classifier) GobDecode(data []byte) error {
	var m Model
	if err := m.GobDecode(data); err != nil {
		return err
	}
	if c.state == nil {
		c.state = model.NewStateManager()
	}
	c.mode = m.Mode
	c.model = &m
	c.state.SetFitted(m.NumFeatures(), 0)
	return nil
}
