package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type, e.g. "LDA", "Ridge".
	ModelNameKey = "model.name"
	// EstimatorIDKey identifies one estimator instance or experiment run.
	EstimatorIDKey = "estimator.id"
	// OperationKey is one of the Operation* values below.
	OperationKey = "ml.operation"
	// ComponentKey names the package doing the work ("discriminant", "linear").
	ComponentKey = "ml.component"
	PhaseKey     = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	ClassesKey  = "data.classes"
	DegreeKey   = "data.poly_degree"
)

// Metrics and optimizer progress.
const (
	DurationMsKey = "perf.duration_ms"
	AccuracyKey   = "metrics.accuracy"
	MSEKey        = "metrics.mse"
	LossKey       = "metrics.loss"
	IterationKey  = "training.iteration"
	StatusKey     = "training.status"
)

// Errors.
const (
	ErrorCodeKey  = "error.code"
	ErrorTypeKey  = "error.type"
	StacktraceKey = "error.stacktrace"
)

// Hyperparameters.
const (
	RegularizationKey = "hyperparams.regularization"
	MaxIterKey        = "hyperparams.max_iter"
	ConfigPathKey     = "config.path"
)

const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"

	PhaseTraining   = "training"
	PhaseTesting    = "testing"
	PhaseInference  = "inference"
	PhaseExperiment = "experiment"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
	ErrorSingularMatrix    = "SINGULAR_MATRIX"
)
