// Package diagnostics collects and formats the errors and warnings the
// semantic checker raises while it walks a program: type mismatches,
// arity mismatches, invalid operand types, and the narrowing-conversion
// warnings implicit casts can trigger.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cbc-lang/cbc/internal/position"
	"golang.org/x/sys/unix"
)

// Level is a diagnostic's severity. The checker only ever raises the two
// levels a type-checking pass needs: a hard Error that marks the program
// ill-typed, and a Warning that flags a legal but narrowing conversion
// without failing the pass.
type Level int

const (
	Error Level = iota
	Warning
)

func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported finding, anchored to the source span of the
// construct that triggered it.
type Diagnostic struct {
	Level   Level
	Message string
	Span    position.Span
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s",
		d.Span.Start.Filename, d.Span.Start.Line, d.Span.Start.Column, d.Level, d.Message)
}

// Sink accumulates diagnostics for one checking run. It is not safe for
// concurrent use — the checker walks a program single-threaded, and so does
// every caller of Sink.
type Sink struct {
	diagnostics []Diagnostic
	errorCount  int
}

// NewSink returns an empty Sink.
func NewSink() *Sink {
	return &Sink{}
}

// Error records a hard error at span, formatted like fmt.Sprintf.
func (s *Sink) Error(span position.Span, format string, args ...interface{}) {
	s.diagnostics = append(s.diagnostics, Diagnostic{
		Level:   Error,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	})
	s.errorCount++
}

// Warn records a warning at span, formatted like fmt.Sprintf.
func (s *Sink) Warn(span position.Span, format string, args ...interface{}) {
	s.diagnostics = append(s.diagnostics, Diagnostic{
		Level:   Warning,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	})
}

// ErrorOccurred reports whether any Error-level diagnostic has been recorded.
// A checking run that only produced warnings is still a successful run.
func (s *Sink) ErrorOccurred() bool {
	return s.errorCount > 0
}

// ErrorCount returns the number of Error-level diagnostics recorded so far.
func (s *Sink) ErrorCount() int {
	return s.errorCount
}

// All returns every diagnostic recorded, in the order they were reported.
func (s *Sink) All() []Diagnostic {
	return s.diagnostics
}

// Sort orders diagnostics by file, then line, then column, then severity
// (errors before warnings at the same location) — the order a driver should
// print them in.
func (s *Sink) Sort() {
	sort.SliceStable(s.diagnostics, func(i, j int) bool {
		a, b := s.diagnostics[i], s.diagnostics[j]

		if a.Span.Start.Filename != b.Span.Start.Filename {
			return a.Span.Start.Filename < b.Span.Start.Filename
		}

		if a.Span.Start.Line != b.Span.Start.Line {
			return a.Span.Start.Line < b.Span.Start.Line
		}

		if a.Span.Start.Column != b.Span.Start.Column {
			return a.Span.Start.Column < b.Span.Start.Column
		}

		return a.Level < b.Level
	})
}

// Format renders one diagnostic the way a driver prints it to stderr,
// colorizing the level label when colorize is true.
func Format(d Diagnostic, colorize bool) string {
	label := d.Level.String()
	if colorize {
		label = colorizeLevel(d.Level) + label + "\033[0m"
	}

	return fmt.Sprintf("%s:%d:%d: %s: %s",
		d.Span.Start.Filename, d.Span.Start.Line, d.Span.Start.Column, label, d.Message)
}

func colorizeLevel(level Level) string {
	switch level {
	case Error:
		return "\033[31m"
	case Warning:
		return "\033[33m"
	default:
		return ""
	}
}

// FormatSummary renders a one-line tally of everything in s, in the style a
// driver prints after the last diagnostic.
func (s *Sink) FormatSummary() string {
	if len(s.diagnostics) == 0 {
		return "no errors or warnings."
	}

	warnings := len(s.diagnostics) - s.errorCount

	var b strings.Builder

	fmt.Fprintf(&b, "%d error(s)", s.errorCount)

	if warnings > 0 {
		fmt.Fprintf(&b, ", %d warning(s)", warnings)
	}

	b.WriteString(".")

	return b.String()
}

// ColorSupported reports whether stderr is a terminal that understands the
// ANSI color codes Format emits, so a driver can decide whether to pass
// colorize=true. It calls the platform's ioctl directly rather than stdlib's
// os.ModeCharDevice check because the latter doesn't distinguish a terminal
// from a pipe reliably across platforms this checker is built for.
func ColorSupported(fd int) bool {
	_, err := unix.IoctlGetTermios(fd, unix.TCGETS)

	return err == nil
}
