package pipeline

import (
	"github.com/coolang/coolc/internal/analyzer"
	"github.com/coolang/coolc/internal/config"
	"github.com/coolang/coolc/internal/diagnostics"
	"github.com/coolang/coolc/internal/evaluator"
	"github.com/coolang/coolc/internal/parser"
)

// ParseStage lexes and parses ctx.SourceCode into ctx.Program.
type ParseStage struct{}

func (ParseStage) Process(ctx *Context) *Context {
	prog, diags := parser.Parse(ctx.SourceCode, ctx.FilePath)
	ctx.Program = prog
	ctx.Diagnostics.Merge(diags)
	return ctx
}

// AnalyzeStage runs the two-phase semantic analyzer over ctx.Program.
type AnalyzeStage struct{}

func (AnalyzeStage) Process(ctx *Context) *Context {
	a := analyzer.New()
	st, ok := a.Analyze(ctx.Program)
	ctx.Diagnostics.Merge(a.Diagnostics())
	if ok {
		ctx.SymbolTable = st
	}
	return ctx
}

// EvaluateStage runs the type-checked program to completion.
type EvaluateStage struct {
	MainClass string
}

func (s EvaluateStage) Process(ctx *Context) *Context {
	e := evaluator.New(ctx.SymbolTable, ctx.Out, ctx.In)
	e.Trace = ctx.Trace
	mainClass := s.MainClass
	if mainClass == "" {
		mainClass = config.MainClassName
	}
	val, sig := e.Run(mainClass)
	ctx.ResultValue = val
	ctx.RunSignal = sig
	if sig != nil {
		// A runtime signal is caught exactly once here, at the top of the
		// pipeline, and converted into a diagnostic so the bag retains its
		// code and position (spec §4.2.5, §7).
		ctx.Diagnostics.Add(diagnostics.Diagnostic{
			Severity: diagnostics.Error,
			Code:     sig.Code,
			Position: sig.Position,
			Message:  sig.Message,
		})
	}
	return ctx
}
