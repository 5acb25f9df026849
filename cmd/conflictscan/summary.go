package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newSummaryCommand(global *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary <records.json>",
		Short: "Print conflict counts only",
		Args:  cobra.ExactArgs(1),
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

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(run.Summary)
			}
			renderSummary(cmd.OutOrStdout(), run.Summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}
