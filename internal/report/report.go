// Package report renders a tally result as plain text.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/JakeFAU/enqueue-tally/internal/tally"
)

const pathSeparator = ", "

// Options toggles optional report sections.
type Options struct {
	// Actions appends the per-thread action breakdown.
	Actions bool
}

// Write prints the tally, the total, the average and the duplicated paths.
// Duplicated paths are separated by ", "; a path that contains the separator
// or starts with a double quote is written Go-quoted.
func Write(w io.Writer, res *tally.Result, opts Options) error {
	var b strings.Builder

	for _, tc := range res.Threads() {
		fmt.Fprintf(&b, "%s %d\n", tc.ThreadID, tc.Count)
	}
	fmt.Fprintf(&b, "total: %d\n", res.Total)
	fmt.Fprintf(&b, "average: %s\n", FormatAverage(res))

	b.WriteString("duplicates:")
	if paths := res.DuplicatePaths(); len(paths) > 0 {
		b.WriteString(" ")
		quoted := make([]string, 0, len(paths))
		for _, p := range paths {
			quoted = append(quoted, formatPath(p))
		}
		b.WriteString(strings.Join(quoted, pathSeparator))
	}
	b.WriteString("\n")

	if opts.Actions {
		writeActions(&b, res.Actions())
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// FormatAverage renders the average, or "n/a" when no thread was tallied.
func FormatAverage(res *tally.Result) string {
	avg, err := res.Average()
	if errors.Is(err, tally.ErrNoThreads) {
		return "n/a"
	}
	return strconv.FormatFloat(avg, 'f', -1, 64)
}

func formatPath(p string) string {
	if strings.Contains(p, pathSeparator) || strings.HasPrefix(p, `"`) {
		return strconv.Quote(p)
	}
	return p
}

func writeActions(b *strings.Builder, threads []tally.ThreadActions) {
	b.WriteString("actions:\n")
	for _, ta := range threads {
		names := make([]string, 0, len(ta.Counts))
		for action := range ta.Counts {
			names = append(names, action)
		}
		sort.Strings(names)

		b.WriteString(ta.ThreadID)
		for _, action := range names {
			label := action
			if label == "" {
				label = `""`
			}
			fmt.Fprintf(b, " %s=%d", label, ta.Counts[action])
		}
		b.WriteString("\n")
	}
}
