package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/agenthands/concord/internal/core/model"
	"github.com/agenthands/concord/internal/export"
)

const formatTable = "table"

type detectOptions struct {
	format string
	out    string
	failOn string
}

func newDetectCommand(global *globalOptions) *cobra.Command {
	opts := &detectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <records.json>",
		Short: "Detect conflicts and print them",
		Long: `Detect conflicts between the records of a file.

Examples:
  conflictscan detect records.json                       # Colored table
  conflictscan detect records.json --format yaml         # Export document
  conflictscan detect records.json -f csv -o out.csv     # One row per value
  conflictscan detect records.json --fail-on high        # Exit 2 on high severity`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := global.open()
			if err != nil {
				return err
			}
			defer func() { _ = s.logger.Sync() }()

			records, err := readRecords(args[0])
			if err != nil {
				return err
			}
			run := s.service.Run(records)

			if err := writeRun(cmd.OutOrStdout(), run, opts); err != nil {
				return err
			}
			return checkFailOn(run, opts.failOn)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatTable, "output format: table, json, yaml or csv")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write output to a file instead of stdout")
	cmd.Flags().StringVar(&opts.failOn, "fail-on", "", "exit with status 2 when a conflict of this severity or higher is found")
	return cmd
}

func writeRun(stdout io.Writer, run *model.Run, opts *detectOptions) error {
	w := stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return errors.Wrapf(err, "create %s", opts.out)
		}
		defer f.Close()
		w = f
	}

	if opts.format == formatTable {
		return renderTable(w, run)
	}
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	return export.Write(w, export.NewDocument(run), format)
}
