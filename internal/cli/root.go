// Package cli implements the happiness command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ezoic/happiness/internal/config"
	happyErrors "github.com/ezoic/happiness/pkg/errors"
	"github.com/ezoic/happiness/pkg/log"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "happiness",
		Short: "Compare models of national happiness scores",
		Long: `happiness loads the 2018 and 2019 World Happiness survey files, summarises them,
sweeps the train/test split ratio and compares a summation baseline against
least squares models fitted on one or both years.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "YAML config file")
	flags.String("log-level", "info", "log level (debug, info, warn, error, disabled)")
	flags.String("output", config.OutputText, "output format (text, json, yaml)")
	flags.String("data-2018", "", "2018 survey file (.csv or .xlsx)")
	flags.String("data-2019", "", "2019 survey file (.csv or .xlsx)")
	flags.Int("workers", 1, "concurrent model fits")

	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyOutput, flags.Lookup("output"))
	_ = a.v.BindPFlag(config.KeyData2018, flags.Lookup("data-2018"))
	_ = a.v.BindPFlag(config.KeyData2019, flags.Lookup("data-2019"))
	_ = a.v.BindPFlag(config.KeyWorkers, flags.Lookup("workers"))

	root.AddCommand(
		newDescribeCommand(a),
		newSweepCommand(a),
		newCompareCommand(a),
		newReportCommand(a),
		newGenerateCommand(),
		newVersionCommand(a),
	)
	return root
}

// init binds the running command's flags, loads .env and the
// configuration, then sets up logging.
func (a *app) init(cmd *cobra.Command) error {
	for name, key := range commandFlags {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Read(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	log.SetupLogger(cfg.Log.Level)
	return nil
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context) int {
	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		log.LogError(err, "happiness failed")
		var verr *happyErrors.ValidationError
		if happyErrors.As(err, &verr) {
			return 2
		}
		return 1
	}
	return 0
}
