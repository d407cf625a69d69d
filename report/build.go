package report

import (
	"context"
	"time"

	"github.com/ezoic/happiness/dataset"
	"github.com/ezoic/happiness/describe"
	"github.com/ezoic/happiness/experiment"
	"github.com/ezoic/happiness/internal/config"
	"github.com/ezoic/happiness/pkg/log"
	"github.com/ezoic/happiness/selection"
)

// Settings echoes the parameters a report was produced with.
type Settings struct {
	Fraction float64 `json:"fraction" yaml:"fraction"`
	Seed     uint64  `json:"seed" yaml:"seed"`
	Dystopia float64 `json:"dystopia" yaml:"dystopia"`
	Excluded string  `json:"excluded" yaml:"excluded"`
}

// Description is the pre-modelling summary of the 2019 survey.
type Description struct {
	Dataset     string                      `json:"dataset" yaml:"dataset"`
	Rows        int                         `json:"rows" yaml:"rows"`
	Score       describe.Summary            `json:"score" yaml:"score"`
	Correlation *describe.CorrelationMatrix `json:"correlation" yaml:"correlation"`
	Residuals   describe.Summary            `json:"summation_residuals" yaml:"summation_residuals"`
	// Coercions counts factor cells replaced by 0, per file then column.
	Coercions map[string]map[string]int `json:"coercions" yaml:"coercions"`
}

// SweepSummary is the training-fraction sweep and its lowest point.
type SweepSummary struct {
	Points []selection.SweepPoint `json:"points" yaml:"points"`
	Best   selection.SweepPoint   `json:"best" yaml:"best"`
}

// Report is the complete analysis.
type Report struct {
	Settings    Settings          `json:"settings" yaml:"settings"`
	Description *Description      `json:"description,omitempty" yaml:"description,omitempty"`
	Sweep       *SweepSummary     `json:"sweep,omitempty" yaml:"sweep,omitempty"`
	Comparison  []Row             `json:"comparison,omitempty" yaml:"comparison,omitempty"`
	Equations   map[string]string `json:"equations,omitempty" yaml:"equations,omitempty"`
	// Importance maps each GLM configuration to its standardized weights.
	Importance map[string]map[string]float64 `json:"importance,omitempty" yaml:"importance,omitempty"`
}

// Data are the loaded survey frames.
type Data struct {
	Y2018     *dataset.Frame
	Y2019     *dataset.Frame
	Combined  *dataset.Frame
	Coercions map[string]map[string]int
}

// LoadData loads both survey files and stacks 2018 above 2019.
func LoadData(cfg *config.Config) (*Data, error) {
	y2018, r2018, err := dataset.Load(cfg.Data.Y2018, Dataset2018)
	if err != nil {
		return nil, err
	}
	y2019, r2019, err := dataset.Load(cfg.Data.Y2019, Dataset2019)
	if err != nil {
		return nil, err
	}
	combined, err := dataset.Merge(y2018, y2019, DatasetCombined)
	if err != nil {
		return nil, err
	}
	return &Data{
		Y2018:    y2018,
		Y2019:    y2019,
		Combined: combined,
		Coercions: map[string]map[string]int{
			Dataset2018: coercionCounts(r2018),
			Dataset2019: coercionCounts(r2019),
		},
	}, nil
}

func coercionCounts(r *dataset.CoercionReport) map[string]int {
	out := map[string]int{}
	for _, name := range dataset.Factors() {
		if n := r.Count(name); n > 0 {
			out[name] = n
		}
	}
	return out
}

// Describe summarises f: score quartiles, the correlation of score and
// factors rounded to two significant figures, and summation residuals.
func Describe(f *dataset.Frame, constant float64) (*Description, error) {
	score, err := describe.SummarizeColumn(f, dataset.ColScore)
	if err != nil {
		return nil, err
	}
	corr, err := describe.Correlate(f, append([]string{dataset.ColScore}, dataset.Factors()...))
	if err != nil {
		return nil, err
	}
	residuals, err := describe.Residuals(f, constant)
	if err != nil {
		return nil, err
	}
	return &Description{
		Dataset:     f.Label,
		Rows:        f.NumRows(),
		Score:       score,
		Correlation: corr.Rounded(2),
		Residuals:   residuals.Summary,
	}, nil
}

// ExcludedFactor returns the configured factor to drop, or the factor least
// correlated with the score in f when none is configured.
func ExcludedFactor(cfg *config.Config, f *dataset.Frame) (string, error) {
	if cfg.Model.Exclude != "" {
		return cfg.Model.Exclude, nil
	}
	corr, err := describe.Correlate(f, append([]string{dataset.ColScore}, dataset.Factors()...))
	if err != nil {
		return "", err
	}
	return describe.WeakestFactor(corr, dataset.ColScore, dataset.Factors())
}

// RunSweep sweeps the configured training fractions over f with all six
// factors.
func RunSweep(ctx context.Context, cfg *config.Config, f *dataset.Frame) (*SweepSummary, error) {
	fractions := selection.Fractions(cfg.Sweep.Start, cfg.Sweep.Stop, cfg.Sweep.Step)
	points, err := selection.Sweep(ctx, f, experiment.FullFormula(), fractions, selection.SweepOptions{
		Seed:    cfg.Split.Seed,
		Workers: cfg.Workers,
	})
	if err != nil {
		return nil, err
	}
	best, _ := selection.Best(points)
	return &SweepSummary{Points: points, Best: best}, nil
}

// RunComparison compares the five default configurations on data.
func RunComparison(ctx context.Context, cfg *config.Config, data *Data, excluded string) (*Comparison, error) {
	return Compare(ctx, Inputs{Frames: map[string]*dataset.Frame{
		Dataset2018:     data.Y2018,
		Dataset2019:     data.Y2019,
		DatasetCombined: data.Combined,
	}}, CompareOptions{
		Configurations: DefaultConfigurations(excluded),
		Fraction:       cfg.Split.Fraction,
		Seed:           cfg.Split.Seed,
		Constant:       cfg.Model.Dystopia,
		Workers:        cfg.Workers,
	})
}

// Build runs the whole analysis: load, describe, sweep and compare.
func Build(ctx context.Context, cfg *config.Config) (*Report, error) {
	data, err := LoadData(cfg)
	if err != nil {
		return nil, err
	}
	return BuildFrom(ctx, cfg, data)
}

// BuildFrom runs the analysis on frames that are already loaded.
func BuildFrom(ctx context.Context, cfg *config.Config, data *Data) (*Report, error) {
	start := time.Now()
	desc, err := Describe(data.Y2019, cfg.Model.Dystopia)
	if err != nil {
		return nil, err
	}
	desc.Coercions = data.Coercions

	excluded, err := ExcludedFactor(cfg, data.Y2019)
	if err != nil {
		return nil, err
	}

	sweep, err := RunSweep(ctx, cfg, data.Y2019)
	if err != nil {
		return nil, err
	}

	cmp, err := RunComparison(ctx, cfg, data, excluded)
	if err != nil {
		return nil, err
	}

	log.GetLoggerWithName("report").Info("Report built",
		log.CountKey, len(cmp.Configurations),
		log.ColumnKey, excluded,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return &Report{
		Settings: Settings{
			Fraction: cfg.Split.Fraction,
			Seed:     cfg.Split.Seed,
			Dystopia: cfg.Model.Dystopia,
			Excluded: excluded,
		},
		Description: desc,
		Sweep:       sweep,
		Comparison:  cmp.Table(),
		Equations:   cmp.Equations(3),
		Importance:  cmp.Importance(3),
	}, nil
}
