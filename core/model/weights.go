package model

import (
	"encoding/json"

	"github.com/YuminosukeSato/statlearn/pkg/errors"
)

// ModelWeights is the JSON form of a fitted linear model: OLS or ridge
// weights plus the hyperparameters needed to use them again.
type ModelWeights struct {
	// ModelType is "LinearRegression" or "Ridge".
	ModelType string `json:"model_type"`
	Version   string `json:"version"`

	// Coefficients excludes the intercept.
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`

	// Hyperparameters holds JSON scalars only, e.g. "lambda" and
	// "fit_intercept".
	Hyperparameters map[string]interface{} `json:"hyperparameters,omitempty"`

	IsFitted bool `json:"is_fitted"`
}

// ToJSON serializes the weights with indentation.
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(mw, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "ModelWeights.ToJSON")
	}
	return data, nil
}

// FromJSON decodes weights produced by ToJSON and validates them.
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "ModelWeights.FromJSON")
	}
	return mw.Validate()
}

// Validate checks the record is internally consistent.
func (mw *ModelWeights) Validate() error {
	const op = "ModelWeights.Validate"
	switch {
	case mw.ModelType == "":
		return errors.NewValueError(op, "model_type is required")
	case mw.Version == "":
		return errors.NewValueError(op, "version is required")
	case !mw.IsFitted && len(mw.Coefficients) > 0:
		return errors.NewValueError(op, "unfitted model should not have coefficients")
	case mw.IsFitted && len(mw.Coefficients) == 0:
		return errors.NewValueError(op, "fitted model must have coefficients")
	}
	values := append(append([]float64(nil), mw.Coefficients...), mw.Intercept)
	return errors.CheckFinite(op, values, 0)
}

// Float returns a numeric hyperparameter. JSON numbers decode as float64.
func (mw *ModelWeights) Float(name string) (float64, bool) {
	v, ok := mw.Hyperparameters[name].(float64)
	return v, ok
}

// Bool returns a boolean hyperparameter.
func (mw *ModelWeights) Bool(name string) (bool, bool) {
	v, ok := mw.Hyperparameters[name].(bool)
	return v, ok
}
