// Package report compares model configurations on held-out data and renders
// the full analysis as text, JSON or YAML.
package report

import (
	"context"
	"math"
	"slices"
	"time"

	"github.com/ezoic/happiness/core/parallel"
	"github.com/ezoic/happiness/dataset"
	"github.com/ezoic/happiness/experiment"
	happyErrors "github.com/ezoic/happiness/pkg/errors"
	"github.com/ezoic/happiness/pkg/log"
	"github.com/ezoic/happiness/selection"
)

// Dataset names used by the default configurations.
const (
	Dataset2019     = "2019"
	Dataset2018     = "2018"
	DatasetCombined = "2018-2019"
)

// Kind selects how a configuration is evaluated.
type Kind string

const (
	// KindSummation scores Σ factors + constant in-sample.
	KindSummation Kind = "summation"
	// KindGLM fits least squares on the training rows and scores the test
	// rows.
	KindGLM Kind = "glm"
)

// Configuration is one model to compare: a dataset, a formula and a way of
// evaluating it.
type Configuration struct {
	Name    string             `json:"name" yaml:"name"`
	Dataset string             `json:"dataset" yaml:"dataset"`
	Formula experiment.Formula `json:"formula" yaml:"formula"`
	Kind    Kind               `json:"kind" yaml:"kind"`
}

// DefaultConfigurations returns the five compared configurations in report
// order. excluded is the factor removed by the reduced formulas.
func DefaultConfigurations(excluded string) []Configuration {
	full := experiment.FullFormula()
	reduced := full.Without(excluded)
	return []Configuration{
		{Name: "summation", Dataset: Dataset2019, Formula: full, Kind: KindSummation},
		{Name: "glm-2019", Dataset: Dataset2019, Formula: full, Kind: KindGLM},
		{Name: "glm-2019-no-" + excluded, Dataset: Dataset2019, Formula: reduced, Kind: KindGLM},
		{Name: "glm-2018-2019", Dataset: DatasetCombined, Formula: full, Kind: KindGLM},
		{Name: "glm-2018-2019-no-" + excluded, Dataset: DatasetCombined, Formula: reduced, Kind: KindGLM},
	}
}

// Inputs are the frames configurations may refer to, keyed by dataset name.
type Inputs struct {
	Frames map[string]*dataset.Frame
}

// CompareOptions controls Compare.
type CompareOptions struct {
	Configurations []Configuration
	Fraction       float64
	Seed           uint64
	// Constant is the summation model's dystopia constant.
	Constant float64
	// Workers bounds concurrent evaluations. Values below 1 mean sequential.
	Workers int
}

// Comparison holds the result of every configuration.
type Comparison struct {
	Configurations []Configuration                 `json:"configurations" yaml:"configurations"`
	Results        map[string]*experiment.Result   `json:"results" yaml:"results"`
	Partitions     map[string]*selection.Partition `json:"-" yaml:"-"`
	Fraction       float64                         `json:"fraction" yaml:"fraction"`
	Seed           uint64                          `json:"seed" yaml:"seed"`
}

// Compare evaluates every configuration. GLM configurations on the same
// dataset share one partition drawn with opts.Seed and opts.Fraction, so
// their test rows are identical. Any failing configuration aborts the whole
// comparison.
func Compare(ctx context.Context, in Inputs, opts CompareOptions) (*Comparison, error) {
	const op = "report.Compare"
	configs := opts.Configurations
	if len(configs) == 0 {
		return nil, happyErrors.NewValueError(op, "no configurations")
	}
	names := make(map[string]bool, len(configs))
	for _, c := range configs {
		if names[c.Name] {
			return nil, happyErrors.NewValueError(op, "duplicate configuration "+c.Name)
		}
		names[c.Name] = true
		if _, ok := in.Frames[c.Dataset]; !ok {
			return nil, happyErrors.NewValueError(op, "configuration "+c.Name+" refers to unknown dataset "+c.Dataset)
		}
		if c.Kind != KindSummation && c.Kind != KindGLM {
			return nil, happyErrors.NewValueError(op, "configuration "+c.Name+" has unknown kind "+string(c.Kind))
		}
	}

	logger := log.GetLoggerWithName("report").With(log.OperationKey, log.OperationCompare)
	start := time.Now()

	type split struct{ train, test *dataset.Frame }
	splits := map[string]split{}
	partitions := map[string]*selection.Partition{}
	for _, c := range configs {
		if c.Kind != KindGLM {
			continue
		}
		if _, done := splits[c.Dataset]; done {
			continue
		}
		p, train, test, err := selection.SplitFrame(in.Frames[c.Dataset], opts.Fraction, opts.Seed)
		if err != nil {
			return nil, err
		}
		splits[c.Dataset] = split{train, test}
		partitions[c.Dataset] = p
	}

	workers := max(opts.Workers, 1)
	results := make([]*experiment.Result, len(configs))
	err := parallel.ForEach(ctx, len(configs), workers, func(_ context.Context, i int) error {
		c := configs[i]
		var (
			r   *experiment.Result
			err error
		)
		switch c.Kind {
		case KindSummation:
			r, err = experiment.ScoreSummation(in.Frames[c.Dataset], opts.Constant)
		case KindGLM:
			s := splits[c.Dataset]
			r, err = experiment.FitAndScore(s.train, s.test, c.Formula)
		}
		if err != nil {
			return happyErrors.Wrapf(err, "%s: configuration %s", op, c.Name)
		}
		results[i] = r
		logger.Debug("Configuration scored",
			log.ConfigKey, c.Name,
			log.DatasetKey, c.Dataset,
			log.RMSEKey, r.RMSE,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{
		Configurations: slices.Clone(configs),
		Results:        make(map[string]*experiment.Result, len(configs)),
		Partitions:     partitions,
		Fraction:       opts.Fraction,
		Seed:           opts.Seed,
	}
	for i, c := range configs {
		cmp.Results[c.Name] = results[i]
	}

	logger.Info("Comparison completed",
		log.CountKey, len(configs),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return cmp, nil
}

// Row is one line of the comparison table.
type Row struct {
	Name    string  `json:"name" yaml:"name"`
	Dataset string  `json:"dataset" yaml:"dataset"`
	Kind    Kind    `json:"kind" yaml:"kind"`
	RMSE    float64 `json:"rmse" yaml:"rmse"`
	// Rank is 1 for the lowest rounded RMSE; equal values share a rank.
	Rank int `json:"rank" yaml:"rank"`
}

// Table returns one row per configuration in configuration order, with RMSE
// rounded to three decimals.
func (c *Comparison) Table() []Row {
	rows := make([]Row, len(c.Configurations))
	for i, cfg := range c.Configurations {
		rows[i] = Row{
			Name:    cfg.Name,
			Dataset: cfg.Dataset,
			Kind:    cfg.Kind,
			RMSE:    math.Round(c.Results[cfg.Name].RMSE*1000) / 1000,
		}
	}
	for i := range rows {
		rows[i].Rank = 1
		for j := range rows {
			if rows[j].RMSE < rows[i].RMSE {
				rows[i].Rank++
			}
		}
	}
	return rows
}

// Ranked returns the table sorted by ascending RMSE. Ties keep
// configuration order.
func (c *Comparison) Ranked() []Row {
	rows := c.Table()
	slices.SortStableFunc(rows, func(a, b Row) int { return a.Rank - b.Rank })
	return rows
}

// Equations returns the fitted equation of every GLM configuration.
func (c *Comparison) Equations(decimals int) map[string]string {
	out := map[string]string{}
	for _, cfg := range c.Configurations {
		if cfg.Kind != KindGLM {
			continue
		}
		out[cfg.Name] = c.Results[cfg.Name].Coefficients.Equation(dataset.ColScore, decimals)
	}
	return out
}

// Importance returns the standardized weights of every GLM configuration,
// rounded to decimals.
func (c *Comparison) Importance(decimals int) map[string]map[string]float64 {
	scale := math.Pow(10, float64(decimals))
	out := map[string]map[string]float64{}
	for _, cfg := range c.Configurations {
		if cfg.Kind != KindGLM {
			continue
		}
		std := c.Results[cfg.Name].Standardized
		weights := make(map[string]float64, len(std.Features))
		for i, name := range std.Features {
			weights[name] = math.Round(std.Weights[i]*scale) / scale
		}
		out[cfg.Name] = weights
	}
	return out
}
