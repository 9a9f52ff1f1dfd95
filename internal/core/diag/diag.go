// Package diag collects the semantic reports produced by one analysis run.
//
// A Sink is created by the analysis driver and passed explicitly to every
// stage. Stages never stop on a report; CheckErrors is the single gate a
// caller consults before handing the program to a backend.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
)

type Severity int

const (
	SeverityWarning Severity = 1
	SeverityError   Severity = 2
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Category groups reports by the kind of rule that produced them.
type Category string

const (
	CategoryNaming      Category = "naming"
	CategoryHierarchy   Category = "hierarchy"
	CategoryType        Category = "type"
	CategoryControlFlow Category = "control-flow"
	CategorySignature   Category = "signature"
)

// Categories lists every category in presentation order.
var Categories = []Category{
	CategoryNaming,
	CategoryHierarchy,
	CategoryType,
	CategoryControlFlow,
	CategorySignature,
}

// Report is a single finding. File and Line are optional: an empty File or a
// non-positive Line means the report is not tied to a source position.
type Report struct {
	Severity Severity
	Category Category
	File     string
	Line     int
	Message  string
}

func (r Report) Error() string {
	var b strings.Builder
	if r.File != "" {
		b.WriteString(r.File)
		if r.Line > 0 {
			fmt.Fprintf(&b, ":%d", r.Line)
		}
		b.WriteString(": ")
	} else if r.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", r.Line)
	}
	b.WriteString(r.Severity.String())
	b.WriteString(": ")
	b.WriteString(r.Message)
	return b.String()
}

type Sink struct {
	reports []Report
}

func NewSink() *Sink {
	return &Sink{}
}

// Register appends one report.
func (s *Sink) Register(sev Severity, cat Category, file string, line int, msg string) {
	s.reports = append(s.reports, Report{
		Severity: sev,
		Category: cat,
		File:     file,
		Line:     line,
		Message:  msg,
	})
}

// Errorf registers an error-severity report.
func (s *Sink) Errorf(cat Category, file string, line int, format string, args ...any) {
	s.Register(SeverityError, cat, file, line, fmt.Sprintf(format, args...))
}

// Reports returns the reports in registration order.
func (s *Sink) Reports() []Report {
	if s == nil || len(s.reports) == 0 {
		return nil
	}
	out := make([]Report, len(s.reports))
	copy(out, s.reports)
	return out
}

// Sorted returns the reports ordered by file, line, then registration order.
func (s *Sink) Sorted() []Report {
	out := s.Reports()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Line < out[j].Line
	})
	return out
}

func (s *Sink) Len() int {
	if s == nil {
		return 0
	}
	return len(s.reports)
}

// Count returns how many reports have exactly the given severity.
func (s *Sink) Count(sev Severity) int {
	if s == nil {
		return 0
	}
	n := 0
	for _, r := range s.reports {
		if r.Severity == sev {
			n++
		}
	}
	return n
}

func (s *Sink) HasErrors() bool {
	if s == nil {
		return false
	}
	for _, r := range s.reports {
		if r.Severity >= SeverityError {
			return true
		}
	}
	return false
}

// CheckErrors returns an aggregate of every error-severity report, or nil
// when the run may proceed to code generation.
func (s *Sink) CheckErrors() error {
	if s == nil {
		return nil
	}
	var merr *multierror.Error
	for _, r := range s.reports {
		if r.Severity >= SeverityError {
			merr = multierror.Append(merr, r)
		}
	}
	if merr == nil {
		return nil
	}
	merr.ErrorFormat = formatErrors
	return merr.ErrorOrNil()
}

func formatErrors(errs []error) string {
	lines := make([]string, 0, len(errs)+1)
	noun := "errors"
	if len(errs) == 1 {
		noun = "error"
	}
	lines = append(lines, fmt.Sprintf("semantic analysis failed with %d %s:", len(errs), noun))
	for _, err := range errs {
		lines = append(lines, "  "+err.Error())
	}
	return strings.Join(lines, "\n")
}
