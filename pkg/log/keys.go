package log

// Standard field keys.
const (
	LoggerNameKey = "logger"
	ComponentKey  = "component"
	ModelNameKey  = "model_name"
	OperationKey  = "operation"
	PhaseKey      = "phase"
	SamplesKey    = "n_samples"
	FeaturesKey   = "n_features"
	DurationMsKey = "duration_ms"
	PredsKey      = "n_predictions"
	DatasetKey    = "dataset"
	FractionKey   = "fraction"
	SeedKey       = "seed"
	RMSEKey       = "rmse"
	ColumnKey     = "column"
	CountKey      = "count"
	PathKey       = "path"
	ConfigKey     = "configuration"
)

// Operation values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationScore     = "score"
	OperationLoad      = "load"
	OperationMerge     = "merge"
	OperationSplit     = "split"
	OperationSweep     = "sweep"
	OperationCompare   = "compare"
	OperationDescribe  = "describe"
	OperationNormalize = "normalize"
)

// Phase values.
const (
	PhaseTraining   = "training"
	PhaseInference  = "inference"
	PhaseEvaluation = "evaluation"
	PhaseIngestion  = "ingestion"
)
