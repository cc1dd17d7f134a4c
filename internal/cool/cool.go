// Package cool is the toolchain façade: it wires the lexer/parser, analyzer
// and evaluator into a single Run call. cmd/coolc runs every program
// through it.
package cool

import (
	"bytes"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/coolang/coolc/internal/ast"
	"github.com/coolang/coolc/internal/diagnostics"
	"github.com/coolang/coolc/internal/evaluator"
	"github.com/coolang/coolc/internal/pipeline"
)

// Result is everything a caller needs after running a Cool program: the
// captured stdout, the diagnostics accumulated at every stage, the final
// expression value (nil if a signal aborted the run), and the signal
// itself, if any.
type Result struct {
	RunID       string
	Output      string
	Program     *ast.Program
	Diagnostics *diagnostics.Bag
	Value       evaluator.Value
	Signal      *evaluator.Signal
}

// Failed reports whether the run produced any error-severity diagnostic or
// ended in a runtime Signal.
func (r Result) Failed() bool {
	return r.Diagnostics.HasErrors() || r.Signal != nil
}

// Interpreter runs Cool source through the full parse/analyze/evaluate
// pipeline. The zero value is not usable; construct with New.
type Interpreter struct {
	in    io.Reader
	trace evaluator.Tracer
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithStdin overrides the reader in_string/in_int read from. Defaults to an
// empty reader.
func WithStdin(r io.Reader) Option {
	return func(i *Interpreter) { i.in = r }
}

// WithTrace installs a callback invoked on every method dispatch.
func WithTrace(t evaluator.Tracer) Option {
	return func(i *Interpreter) { i.trace = t }
}

// New builds an Interpreter.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{in: strings.NewReader("")}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run parses, analyzes and evaluates source (source file name fileLabel is
// used only for diagnostic positions), tagging the run with a fresh UUID so
// callers can correlate Result.RunID against trace or diagnostics-db rows.
func (i *Interpreter) Run(source, fileLabel string) Result {
	var out bytes.Buffer
	ctx := pipeline.NewContext(source, fileLabel, &out, i.in)
	ctx.Trace = i.trace

	p := pipeline.New(pipeline.ParseStage{}, pipeline.AnalyzeStage{}, pipeline.EvaluateStage{})
	ctx = p.Run(ctx)

	return Result{
		RunID:       uuid.NewString(),
		Output:      out.String(),
		Program:     ctx.Program,
		Diagnostics: ctx.Diagnostics,
		Value:       ctx.ResultValue,
		Signal:      ctx.RunSignal,
	}
}
