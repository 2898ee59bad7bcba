// Package experiment runs the classification and regression studies end to
// end: LDA/QDA accuracy and decision regions, OLS with and without
// intercept, ridge sweeps in closed form and by conjugate gradient, and a
// polynomial degree sweep.
package experiment

import (
	"os"

	"github.com/YuminosukeSato/statlearn/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration of a run. Keys absent from the file keep
// the values of DefaultConfig.
type Config struct {
	// Seed drives the synthetic data generators.
	Seed uint64 `yaml:"seed"`
	// Workers bounds concurrent sweep tasks; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`

	Classification ClassificationConfig `yaml:"classification"`
	Regression     RegressionConfig     `yaml:"regression"`
	Plots          PlotConfig           `yaml:"plots"`
}

// ClassificationConfig controls the LDA/QDA problem.
type ClassificationConfig struct {
	// TrainCSV and TestCSV are numeric CSV files with the label in the last
	// column. Gaussian blobs are generated when either is empty.
	TrainCSV string `yaml:"train_csv"`
	TestCSV  string `yaml:"test_csv"`
	Header   bool   `yaml:"header"`

	// SamplesPerClass sizes the synthetic blobs.
	SamplesPerClass int `yaml:"samples_per_class"`

	Grid GridConfig `yaml:"grid"`
}

// GridConfig is the square grid on which decision regions are evaluated.
type GridConfig struct {
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Points int     `yaml:"points"`
}

// RegressionConfig controls the OLS, ridge and polynomial problems.
type RegressionConfig struct {
	TrainCSV string `yaml:"train_csv"`
	TestCSV  string `yaml:"test_csv"`
	Header   bool   `yaml:"header"`

	// Synthetic data shape, used when no CSV is given.
	TrainSamples int     `yaml:"train_samples"`
	TestSamples  int     `yaml:"test_samples"`
	Features     int     `yaml:"features"`
	Noise        float64 `yaml:"noise"`

	Lambda    LambdaGrid `yaml:"lambda"`
	CGMaxIter int        `yaml:"cg_max_iter"`

	// MaxDegree is exclusive: degrees 0..MaxDegree-1 are evaluated.
	MaxDegree int     `yaml:"max_degree"`
	LambdaOpt float64 `yaml:"lambda_opt"`
	// PolyFeature is the column of X expanded by the polynomial sweep.
	PolyFeature int `yaml:"poly_feature"`
}

// LambdaGrid is Points evenly spaced values from Min to Max inclusive.
type LambdaGrid struct {
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Points int     `yaml:"points"`
}

// Values expands the grid.
func (g LambdaGrid) Values() []float64 {
	if g.Points == 1 {
		return []float64{g.Min}
	}
	out := make([]float64, g.Points)
	step := (g.Max - g.Min) / float64(g.Points-1)
	for i := range out {
		out[i] = g.Min + float64(i)*step
	}
	out[len(out)-1] = g.Max
	return out
}

// PlotConfig controls PNG output.
type PlotConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	// WidthInches and HeightInches size every figure.
	WidthInches  float64 `yaml:"width_inches"`
	HeightInches float64 `yaml:"height_inches"`
}

// DefaultConfig returns the standard study: a 100×100 grid over [−5, 20]²,
// 101 ridge weights in [0, 1], 20 CG iterations and degrees 0..6 at
// λ ∈ {0, 0.06}.
func DefaultConfig() *Config {
	return &Config{
		Seed:    1,
		Workers: 0,
		Classification: ClassificationConfig{
			SamplesPerClass: 50,
			Grid:            GridConfig{Min: -5, Max: 20, Points: 100},
		},
		Regression: RegressionConfig{
			TrainSamples: 242,
			TestSamples:  200,
			Features:     10,
			Noise:        0.3,
			Lambda:       LambdaGrid{Min: 0, Max: 1, Points: 101},
			CGMaxIter:    20,
			MaxDegree:    7,
			LambdaOpt:    0.06,
			PolyFeature:  2,
		},
		Plots: PlotConfig{
			Enabled:      true,
			Dir:          "plots",
			WidthInches:  12,
			HeightInches: 6,
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "experiment: read config %s", path)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML on top of DefaultConfig and validates it.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "experiment: parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	switch {
	case c.Workers < 0:
		return errors.NewInvalidHyperparameterError("workers", "must be non-negative", c.Workers)
	case c.Classification.Grid.Points < 2:
		return errors.NewInvalidHyperparameterError("classification.grid.points", "must be at least 2", c.Classification.Grid.Points)
	case c.Classification.Grid.Max <= c.Classification.Grid.Min:
		return errors.NewInvalidHyperparameterError("classification.grid.max", "must exceed min", c.Classification.Grid.Max)
	case c.Classification.SamplesPerClass < 1:
		return errors.NewInvalidHyperparameterError("classification.samples_per_class", "must be positive", c.Classification.SamplesPerClass)
	case c.Regression.Lambda.Points < 1:
		return errors.NewInvalidHyperparameterError("regression.lambda.points", "must be positive", c.Regression.Lambda.Points)
	case c.Regression.Lambda.Min < 0 || c.Regression.Lambda.Max < c.Regression.Lambda.Min:
		return errors.NewInvalidHyperparameterError("regression.lambda", "need 0 <= min <= max", c.Regression.Lambda)
	case c.Regression.CGMaxIter < 1:
		return errors.NewInvalidHyperparameterError("regression.cg_max_iter", "must be positive", c.Regression.CGMaxIter)
	case c.Regression.MaxDegree < 1:
		return errors.NewInvalidHyperparameterError("regression.max_degree", "must be positive", c.Regression.MaxDegree)
	case c.Regression.LambdaOpt < 0:
		return errors.NewInvalidHyperparameterError("regression.lambda_opt", "must be non-negative", c.Regression.LambdaOpt)
	case c.Regression.PolyFeature < 0:
		return errors.NewInvalidHyperparameterError("regression.poly_feature", "must be non-negative", c.Regression.PolyFeature)
	case c.Regression.TrainSamples < 2 || c.Regression.TestSamples < 1 || c.Regression.Features < 1:
		return errors.NewValueError("Config.Validate", "regression sample and feature counts must be positive")
	case c.Plots.Enabled && (c.Plots.WidthInches <= 0 || c.Plots.HeightInches <= 0):
		return errors.NewInvalidHyperparameterError("plots.width_inches", "figure size must be positive", c.Plots.WidthInches)
	}
	return nil
}
