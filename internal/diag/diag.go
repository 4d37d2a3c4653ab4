// Package diag implements the scanner's error reporter collaborator: a
// concrete, accumulating Reporter that the scanner calls into at the first
// sign of trouble, and that the caller can later inspect or turn into a
// single wrapped error.
package diag

import (
	"errors"
	"fmt"

	"github.com/go-stack/stack"
	"github.com/sirupsen/logrus"
	"github.com/nomi-lang/nomic/internal/source"
)

// Kind enumerates the error kinds the scanner surfaces (spec §7).
type Kind int

const (
	MalformedBOM Kind = iota
	UnrecognizedCharacter
	UnhandledLargeInteger
	BadStringInterpolation
	UnterminatedString
	UnterminatedComment
)

func (k Kind) String() string {
	switch k {
	case MalformedBOM:
		return "malformed UTF-8 BOM"
	case UnrecognizedCharacter:
		return "unrecognized character"
	case UnhandledLargeInteger:
		return "unhandled large integer literal"
	case BadStringInterpolation:
		return "bad string interpolation"
	case UnterminatedString:
		return "unterminated string literal"
	case UnterminatedComment:
		return "unterminated multiline comment"
	default:
		return "unknown error"
	}
}

// Record is one reported error: its kind, a formatted message, the
// location it was reported at, and (in debug mode) the call stack that
// reported it.
type Record struct {
	Kind    Kind
	Message string
	Loc     source.Location
	Stack   stack.CallStack
}

func (r Record) Error() string {
	return fmt.Sprintf("%s: %s", r.Kind, r.Message)
}

// Recorder implements the scanner's Reporter contract. It never aborts
// scanning itself — spec §6 leaves that to the scanner's own control flow
// — it only accumulates records and logs them as they arrive.
type Recorder struct {
	log              *logrus.Logger
	records          []Record
	captureCallStack bool
}

// NewRecorder constructs a Recorder that logs through log (nil selects a
// new default logger). captureCallStack controls whether each record
// carries a captured call stack, which is only useful with DebugIteratorChecks-style
// diagnostics turned on, since it costs an allocation per error.
func NewRecorder(log *logrus.Logger, captureCallStack bool) *Recorder {
	if log == nil {
		log = logrus.New()
	}
	return &Recorder{log: log, captureCallStack: captureCallStack}
}

// ReportError implements the Builder's ReportError contract: a printf-style
// message tagged with the Location it occurred at.
func (rec *Recorder) ReportError(loc source.Location, kind Kind, format string, args ...any) {
	r := Record{Kind: kind, Message: fmt.Sprintf(format, args...), Loc: loc}
	if rec.captureCallStack {
		r.Stack = stack.Trace().TrimRuntime()
	}
	rec.records = append(rec.records, r)
	rec.log.WithFields(logrus.Fields{
		"kind":     kind,
		"location": loc.Raw(),
	}).Error(r.Message)
}

// HasErrors reports whether any error was recorded.
func (rec *Recorder) HasErrors() bool { return len(rec.records) > 0 }

// Records returns every recorded error, in report order.
func (rec *Recorder) Records() []Record { return rec.records }

// Err joins every recorded error into a single error, or returns nil if
// none were recorded.
func (rec *Recorder) Err() error {
	if len(rec.records) == 0 {
		return nil
	}
	errs := make([]error, len(rec.records))
	for i, r := range rec.records {
		errs[i] = r
	}
	return errors.Join(errs...)
}

// Reset clears all recorded errors so the Recorder can be reused for
// another scan.
func (rec *Recorder) Reset() { rec.records = rec.records[:0] }
