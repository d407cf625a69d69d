package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ezoic/happiness/dataset"
	"github.com/ezoic/happiness/internal/config"
	happyErrors "github.com/ezoic/happiness/pkg/errors"
	"github.com/ezoic/happiness/report"
)

// Build-time variables, set with -ldflags "-X".
var (
	Version = "dev"
	Commit  = "unknown"
)

func (a *app) settings(excluded string) report.Settings {
	return report.Settings{
		Fraction: a.cfg.Split.Fraction,
		Seed:     a.cfg.Split.Seed,
		Dystopia: a.cfg.Model.Dystopia,
		Excluded: excluded,
	}
}

func newDescribeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Summarise the 2019 survey",
		Long:  "Print the score quartiles, the correlation matrix of score and factors, and the summation residuals of the 2019 survey.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, coercions, err := dataset.Load(a.cfg.Data.Y2019, report.Dataset2019)
			if err != nil {
				return err
			}
			desc, err := report.Describe(f, a.cfg.Model.Dystopia)
			if err != nil {
				return err
			}
			counts := map[string]int{}
			for _, name := range dataset.Factors() {
				if n := coercions.Count(name); n > 0 {
					counts[name] = n
				}
			}
			desc.Coercions = map[string]map[string]int{report.Dataset2019: counts}
			return report.Write(cmd.OutOrStdout(), a.cfg.Output, &report.Report{
				Settings:    a.settings(a.cfg.Model.Exclude),
				Description: desc,
			})
		},
	}
}

func newSweepCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Sweep the training fraction on the 2019 survey",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, _, err := dataset.Load(a.cfg.Data.Y2019, report.Dataset2019)
			if err != nil {
				return err
			}
			sweep, err := report.RunSweep(cmd.Context(), a.cfg, f)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), a.cfg.Output, &report.Report{
				Settings: a.settings(a.cfg.Model.Exclude),
				Sweep:    sweep,
			})
		},
	}
	flags := cmd.Flags()
	flags.Float64("start", 0.30, "first training fraction")
	flags.Float64("stop", 0.90, "last training fraction")
	flags.Float64("step", 0.01, "fraction increment")
	flags.Uint64("seed", 123, "seed of the first partition")
	return cmd
}

func newCompareCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the summation baseline with fitted models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := report.LoadData(a.cfg)
			if err != nil {
				return err
			}
			excluded, err := report.ExcludedFactor(a.cfg, data.Y2019)
			if err != nil {
				return err
			}
			cmp, err := report.RunComparison(cmd.Context(), a.cfg, data, excluded)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), a.cfg.Output, &report.Report{
				Settings:   a.settings(excluded),
				Comparison: cmp.Table(),
				Equations:  cmp.Equations(3),
			})
		},
	}
	addModelFlags(cmd)
	return cmd
}

func newReportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run the full analysis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := report.Build(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), a.cfg.Output, r)
		},
	}
	addModelFlags(cmd)
	return cmd
}

func addModelFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Float64("fraction", 0.70, "training fraction of the compared models")
	flags.Uint64("seed", 123, "partition seed")
	flags.String("exclude", "", "factor dropped by the reduced models (default: least correlated with score)")
	flags.Float64("dystopia", 1.85, "dystopia constant of the summation model")
}

func newGenerateCommand() *cobra.Command {
	var (
		rows  int
		seed  uint64
		label string
	)
	cmd := &cobra.Command{
		Use:   "generate <file.csv>",
		Short: "Write a synthetic survey file",
		Long: `Write a survey-shaped CSV whose score is a known linear function of the six
factors plus noise. Generosity carries no weight. Useful for trying the other
commands without the published data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows < 2 {
				return happyErrors.NewValidationError("rows", "must be at least 2", rows)
			}
			if err := dataset.SaveCSV(args[0], dataset.Synthetic(label, rows, seed)); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", rows, args[0])
			return err
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 156, "number of countries")
	cmd.Flags().Uint64Var(&seed, "rng-seed", 1, "generator seed")
	cmd.Flags().StringVar(&label, "label", "synthetic", "dataset label")
	return cmd
}

// commandFlags maps subcommand flags to configuration keys. They are bound
// when the command runs, since several commands share a key.
var commandFlags = map[string]string{
	"start":    config.KeySweepStart,
	"stop":     config.KeySweepStop,
	"step":     config.KeySweepStep,
	"seed":     config.KeySplitSeed,
	"fraction": config.KeySplitFraction,
	"exclude":  config.KeyExclude,
	"dystopia": config.KeyDystopia,
}

// VersionInfo describes the binary.
type VersionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{
				Version:   Version,
				Commit:    Commit,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}
			w := cmd.OutOrStdout()
			switch a.cfg.Output {
			case config.OutputJSON:
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			case config.OutputYAML:
				return yaml.NewEncoder(w).Encode(info)
			}
			_, err := fmt.Fprintf(w, "happiness %s (commit %s, %s, %s)\n", info.Version, info.Commit, info.GoVersion, info.Platform)
			return err
		},
	}
}
