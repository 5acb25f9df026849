package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/concord/internal/watch"
)

func newWatchCommand(global *globalOptions) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <records.json>",
		Short: "Re-run detection every time the file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := global.open()
			if err != nil {
				return err
			}
			defer func() { _ = s.logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			path := args[0]
			out := cmd.OutOrStdout()
			scan := func(ctx context.Context) error {
				records, err := readRecords(path)
				if err != nil {
					return err
				}
				run := s.service.Run(records)
				fmt.Fprintf(out, "\n== %s  %s ==\n", time.Now().Format(time.TimeOnly), path)
				return renderTable(out, run)
			}

			if err := scan(ctx); err != nil {
				s.logger.Warn("Initial scan failed", zap.String("path", path), zap.Error(err))
			}

			w, err := watch.NewFileWatcher(path, debounce, s.logger)
			if err != nil {
				return err
			}
			defer w.Close()

			s.logger.Info("Watching for changes", zap.String("path", path))
			return w.Run(ctx, scan)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "wait this long after the last write before re-running")
	return cmd
}
