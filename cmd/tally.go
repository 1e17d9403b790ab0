package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/enqueue-tally/internal/logline"
	"github.com/JakeFAU/enqueue-tally/internal/report"
	"github.com/JakeFAU/enqueue-tally/internal/tally"
)

func runTally(cmd *cobra.Command, args []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	cfg := appInstance.GetConfig()
	recorder := appInstance.GetMetrics()
	clk := appInstance.GetClock()
	logger := appInstance.GetLogger().With(zap.String("file", args[0]))

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logger.Warn("Failed to close log file", zap.Error(cerr))
		}
	}()

	out := bufio.NewWriter(cmd.OutOrStdout())
	opts := tally.Options{
		Filter:        cfg.LineFilter(),
		TrackedAction: cfg.Filter.TrackedAction,
		Strict:        cfg.Filter.Strict,
		Logger:        logger,
	}
	if recorder != nil {
		opts.Observer = recorder
	}
	if cfg.Report.Echo {
		opts.Echo = out
	}

	start := clk.Now()
	res, err := tally.Process(cmd.Context(), f, opts)
	if err != nil {
		// Keep whatever processing log was produced before the failure.
		_ = out.Flush()
		return fmt.Errorf("tally %s: %w", args[0], err)
	}
	if err := report.Write(out, res, report.Options{Actions: cfg.Report.Actions}); err != nil {
		return err
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	finished := clk.Now()
	elapsed := finished.Sub(start)

	if path := cfg.Metrics.Textfile; path != "" && recorder != nil {
		recorder.ObserveRun(elapsed, finished)
		if err := recorder.WriteTextfile(path); err != nil {
			return err
		}
		logger.Debug("Wrote metrics textfile", zap.String("path", path))
	}

	logger.Info("Tally finished",
		zap.Int("lines", res.Lines.Read),
		zap.Int("total", res.Total),
		zap.Int("threads", len(res.Threads())),
		zap.Int("duplicate_paths", len(res.DuplicatePaths())),
		zap.Int("malformed", res.Lines.Outcomes[logline.OutcomeMalformed]),
		zap.Duration("elapsed", elapsed),
	)
	return nil
}
