package selection

import (
	"context"
	"math"
	"time"

	"github.com/ezoic/happiness/core/parallel"
	"github.com/ezoic/happiness/dataset"
	"github.com/ezoic/happiness/experiment"
	happyErrors "github.com/ezoic/happiness/pkg/errors"
	"github.com/ezoic/happiness/pkg/log"
)

// SweepPoint is the test error observed at one training fraction.
type SweepPoint struct {
	Fraction  float64 `json:"fraction" yaml:"fraction"`
	RMSE      float64 `json:"rmse" yaml:"rmse"`
	TrainRows int     `json:"train_rows" yaml:"train_rows"`
	TestRows  int     `json:"test_rows" yaml:"test_rows"`
}

// SweepOptions controls Sweep.
type SweepOptions struct {
	// Seed for the first fraction; the i-th fraction uses Seed+i.
	Seed uint64
	// Workers bounds concurrent fits. Values below 1 mean sequential.
	Workers int
}

// Fractions returns start, start+step, ... up to and including stop. Each
// value is rounded to nine decimals so that repeated addition does not
// drift. It returns nil if step is not positive or start > stop.
func Fractions(start, stop, step float64) []float64 {
	if step <= 0 || start > stop {
		return nil
	}
	n := int(math.Floor((stop-start)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Round((start+float64(i)*step)*1e9) / 1e9
	}
	return out
}

// Sweep draws a fresh partition of f for every fraction, fits formula on
// the training rows and records the test RMSE. Points are returned in the
// order of fractions and do not depend on opts.Workers. Any failure aborts
// the sweep.
func Sweep(ctx context.Context, f *dataset.Frame, formula experiment.Formula, fractions []float64, opts SweepOptions) ([]SweepPoint, error) {
	const op = "selection.Sweep"
	if len(fractions) == 0 {
		return nil, happyErrors.NewValueError(op, "no fractions to sweep")
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	logger := log.GetLoggerWithName("selection").With(
		log.OperationKey, log.OperationSweep,
		log.DatasetKey, f.Label,
	)
	start := time.Now()

	points := make([]SweepPoint, len(fractions))
	err := parallel.ForEach(ctx, len(fractions), workers, func(_ context.Context, i int) error {
		fraction := fractions[i]
		_, train, test, err := SplitFrame(f, fraction, opts.Seed+uint64(i))
		if err != nil {
			return err
		}
		result, err := experiment.FitAndScore(train, test, formula)
		if err != nil {
			return happyErrors.Wrapf(err, "%s: fraction %.2f", op, fraction)
		}
		points[i] = SweepPoint{
			Fraction:  fraction,
			RMSE:      result.RMSE,
			TrainRows: result.TrainRows,
			TestRows:  result.TestRows,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Sweep completed",
		log.CountKey, len(points),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return points, nil
}

// Best returns the point with the lowest RMSE; ties go to the earlier point.
// The result is advisory: comparisons use the configured fraction.
func Best(points []SweepPoint) (SweepPoint, bool) {
	if len(points) == 0 {
		return SweepPoint{}, false
	}
	best := points[0]
	for _, p := range points[1:] {
		if p.RMSE < best.RMSE {
			best = p
		}
	}
	return best, true
}
