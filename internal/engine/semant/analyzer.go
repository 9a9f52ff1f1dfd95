// Package semant runs semantic analysis over a Bantam Java program: it
// builds and verifies the class hierarchy, populates each class's symbol
// tables, checks for an entry point and type checks every method body.
//
// Analysis never stops at the first problem. Every stage records reports in
// the run's diag.Sink and carries on; callers gate code generation on
// Result.Err.
package semant

import (
	"context"
	"log/slog"
	"time"

	"semant/internal/core/diag"
	"semant/internal/core/errors"
	"semant/internal/engine/ast"
	"semant/internal/engine/hierarchy"
	"semant/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Result is everything one run produces. The program's expressions are
// annotated in place.
type Result struct {
	Program  *ast.Program
	Registry *hierarchy.Registry
	// Root is the Object node of the verified tree.
	Root *hierarchy.ClassNode
	// Classes holds the verified classes, parents before children.
	Classes []*hierarchy.ClassNode
	Sink    *diag.Sink
}

// Err is the error gate: non-nil when any error-severity report exists.
func (r *Result) Err() error {
	return r.Sink.CheckErrors()
}

type stage struct {
	name string
	run  func()
}

// Analyze runs every stage over prog. The returned error covers only
// operational failures (a nil program, a cancelled context); problems in
// the program itself are reported through Result.Sink.
func Analyze(ctx context.Context, prog *ast.Program) (*Result, error) {
	if prog == nil {
		return nil, errors.New(errors.CodeValidationError, "program is required")
	}

	ctx, span := observability.Tracer.Start(ctx, "semant.Analyze",
		trace.WithAttributes(attribute.Int("classes.declared", len(prog.Classes))))
	defer span.End()

	sink := diag.NewSink()
	res := &Result{Program: prog, Sink: sink}

	stages := []stage{
		{"build", func() { res.Registry = hierarchy.Build(prog, sink) }},
		{"verify", func() {
			res.Classes = hierarchy.Verify(res.Registry, sink)
			res.Root = res.Registry.Root()
		}},
		{"environment", func() { BuildEnvironment(res.Registry, sink) }},
		{"entry_point", func() { CheckEntryPoint(prog, sink) }},
		{"typecheck", func() { CheckTypes(res.Registry, res.Classes, sink) }},
	}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "cancelled")
			return nil, errors.AddContext(err, errors.CtxOperation, "analyze:"+st.name)
		}
		runStage(ctx, st)
	}

	recordOutcome(res)
	span.SetAttributes(
		attribute.Int("classes.verified", len(res.Classes)),
		attribute.Int("reports", sink.Len()),
	)
	if sink.HasErrors() {
		span.SetStatus(codes.Error, "semantic errors")
	}
	return res, nil
}

func runStage(ctx context.Context, st stage) {
	_, span := observability.Tracer.Start(ctx, "semant."+st.name)
	defer span.End()

	started := time.Now()
	st.run()
	elapsed := time.Since(started)

	observability.StageDuration.WithLabelValues(st.name).Observe(elapsed.Seconds())
	slog.Debug("semantic stage complete", "stage", st.name, "duration", elapsed)
}

func recordOutcome(res *Result) {
	for _, r := range res.Sink.Reports() {
		observability.ReportsTotal.WithLabelValues(string(r.Category), r.Severity.String()).Inc()
	}
	observability.ClassesVerified.Set(float64(len(res.Classes)))
	result := "pass"
	if res.Sink.HasErrors() {
		result = "fail"
	}
	observability.RunsTotal.WithLabelValues(result).Inc()
}
