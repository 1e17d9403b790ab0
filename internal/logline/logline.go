// Package logline classifies and parses the lines printed by the parallel grep
// crawler. Each data line has the form "<thread-id> <action> <path>", where the
// path may itself contain spaces.
package logline

import (
	"errors"
	"strings"
)

// ErrMalformedLine reports a line that could not be split into three fields.
var ErrMalformedLine = errors.New("malformed log line")

// Default values matching what the crawler prints.
const (
	DefaultDoneSuffix    = "] DONE"
	DefaultPathSeparator = "/"
	ActionEnqueue        = "ENQUEUE"
)

// DefaultHeaderPrefixes lists the prefixes of the run header lines.
var DefaultHeaderPrefixes = []string{"grep_bin", "N", "rootpath", "searchstr"}

// Outcome is the classification of a single line.
type Outcome string

// Supported line outcomes.
const (
	OutcomeHeader    Outcome = "header"
	OutcomeBlank     Outcome = "blank"
	OutcomeDone      Outcome = "done"
	OutcomeMalformed Outcome = "malformed"
	OutcomeNoPath    Outcome = "no_path"
	OutcomeRecord    Outcome = "record"
)

// Outcomes returns every outcome in classification order.
func Outcomes() []Outcome {
	return []Outcome{
		OutcomeHeader,
		OutcomeBlank,
		OutcomeDone,
		OutcomeMalformed,
		OutcomeNoPath,
		OutcomeRecord,
	}
}

// Record is one parsed data line.
type Record struct {
	ThreadID string
	Action   string
	Path     string
}

// Parse splits line into thread id, action and path. Only the first two spaces
// separate fields. It reports false when fewer than three fields are present.
func Parse(line string) (Record, bool) {
	fields := strings.SplitN(line, " ", 3)
	if len(fields) < 3 {
		return Record{}, false
	}
	return Record{ThreadID: fields[0], Action: fields[1], Path: fields[2]}, true
}

// Filter decides which lines carry records.
type Filter struct {
	HeaderPrefixes []string
	DoneSuffix     string
	PathSeparator  string
}

// DefaultFilter returns a Filter configured for the crawler's output.
func DefaultFilter() Filter {
	return Filter{
		HeaderPrefixes: append([]string(nil), DefaultHeaderPrefixes...),
		DoneSuffix:     DefaultDoneSuffix,
		PathSeparator:  DefaultPathSeparator,
	}
}

// Classify applies the filter to a single line (without its newline).
// Header and blank checks run before the done sentinel check. The returned
// Record is only meaningful when the outcome is OutcomeRecord.
func (f Filter) Classify(line string) (Record, Outcome) {
	line = strings.TrimSuffix(line, "\r")

	for _, prefix := range f.HeaderPrefixes {
		if strings.HasPrefix(line, prefix) {
			return Record{}, OutcomeHeader
		}
	}
	if strings.TrimSpace(line) == "" {
		return Record{}, OutcomeBlank
	}
	if f.DoneSuffix != "" && strings.HasSuffix(line, f.DoneSuffix) {
		return Record{}, OutcomeDone
	}

	rec, ok := Parse(line)
	if !ok {
		return Record{}, OutcomeMalformed
	}
	if !strings.Contains(rec.Path, f.PathSeparator) {
		return Record{}, OutcomeNoPath
	}
	return rec, OutcomeRecord
}
