package tally

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/enqueue-tally/internal/logline"
)

// Observer receives notifications while a log is processed.
type Observer interface {
	ObserveLine(outcome logline.Outcome)
	ObserveTallied(threadID string, duplicate bool)
}

// Options configures Process.
type Options struct {
	Filter        logline.Filter
	TrackedAction string
	// Strict aborts the pass on the first malformed line instead of skipping it.
	Strict bool
	// Echo receives "<action> <path> <thread-id>" for every record. Nil disables it.
	Echo     io.Writer
	Observer Observer
	Logger   *zap.Logger
}

// DefaultOptions returns Options for the crawler's output format.
func DefaultOptions() Options {
	return Options{
		Filter:        logline.DefaultFilter(),
		TrackedAction: logline.ActionEnqueue,
	}
}

// Process reads r line by line and returns the aggregates of the pass.
func Process(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	res := NewResult(opts.TrackedAction)
	// Lines have no length limit.
	reader := bufio.NewReader(r)

	lineNo := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("read log: %w", readErr)
		}
		if readErr != nil && line == "" {
			break
		}
		lineNo++
		line = strings.TrimSuffix(line, "\n")

		rec, outcome := opts.Filter.Classify(line)
		res.Lines.Read++
		res.Lines.Outcomes[outcome]++
		if opts.Observer != nil {
			opts.Observer.ObserveLine(outcome)
		}

		switch outcome {
		case logline.OutcomeRecord:
		case logline.OutcomeMalformed:
			if opts.Strict {
				return nil, fmt.Errorf("line %d: %w", lineNo, logline.ErrMalformedLine)
			}
			logger.Debug("Skipping malformed line", zap.Int("line", lineNo), zap.String("text", line))
			continue
		default:
			continue
		}

		if opts.Echo != nil {
			if _, err := fmt.Fprintf(opts.Echo, "%s %s %s\n", rec.Action, rec.Path, rec.ThreadID); err != nil {
				return nil, fmt.Errorf("write processing log: %w", err)
			}
		}

		tallied, duplicate := res.Add(rec)
		if !tallied {
			continue
		}
		if duplicate {
			logger.Debug("Path enqueued again",
				zap.String("path", rec.Path),
				zap.String("thread", rec.ThreadID),
				zap.Int("line", lineNo),
			)
		}
		if opts.Observer != nil {
			opts.Observer.ObserveTallied(rec.ThreadID, duplicate)
		}
	}
	return res, nil
}
