package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/concord/internal/config"
	"github.com/agenthands/concord/internal/core"
	"github.com/agenthands/concord/internal/core/model"
	"github.com/agenthands/concord/internal/core/observe"
	"github.com/agenthands/concord/internal/logging"
)

type globalOptions struct {
	configPath string
	verbose    bool
	noColor    bool
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "conflictscan",
		Short: "Find conflicting records in a knowledge-base export",
		Long: `conflictscan compares the records of a knowledge-base export and reports
FAQ entries that answer the same question differently, similar records whose
content contradicts, and different records that share a phone number or website.

The input file is either a JSON array of records or an object {"records": [...]}.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default $CONFIG_PATH or "+config.DefaultPath+")")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every comparison to stderr")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newDetectCommand(opts),
		newSummaryCommand(opts),
		newWatchCommand(opts),
	)
	return cmd
}

// session holds what every subcommand needs to run detection.
type session struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *core.Service
}

func (o *globalOptions) open() (*session, error) {
	path := o.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg, err = config.LoadOrDefault(config.DefaultPath)
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, err
	}

	if o.verbose {
		cfg.Log.Level = "debug"
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	var opts []core.DetectorOption
	if o.verbose {
		opts = append(opts, core.WithObserver(observe.NewZapObserver(logger)))
	}
	return &session{
		cfg:     cfg,
		logger:  logger,
		service: core.NewService(core.NewDetector(cfg.Detection, opts...)),
	}, nil
}

// conflictsFoundError makes the process exit with status 2 under --fail-on.
type conflictsFoundError struct {
	count    int
	severity model.Severity
}

func (e *conflictsFoundError) Error() string {
	return fmt.Sprintf("%d conflicts at or above %s severity", e.count, e.severity)
}

func checkFailOn(run *model.Run, failOn string) error {
	if failOn == "" {
		return nil
	}
	threshold := model.Severity(failOn)
	if threshold.Rank() == 0 {
		return fmt.Errorf("unknown severity %q for --fail-on", failOn)
	}
	count := 0
	for _, g := range run.Conflicts {
		if g.Severity.Rank() >= threshold.Rank() {
			count++
		}
	}
	if count > 0 {
		return &conflictsFoundError{count: count, severity: threshold}
	}
	return nil
}
