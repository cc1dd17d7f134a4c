// Package pipeline threads a single Cool compilation/execution unit through
// an ordered sequence of Processor stages: parse, analyze, evaluate.
package pipeline

import (
	"io"

	"github.com/coolang/coolc/internal/ast"
	"github.com/coolang/coolc/internal/diagnostics"
	"github.com/coolang/coolc/internal/evaluator"
	"github.com/coolang/coolc/internal/symbols"
)

// Context holds everything produced by one stage and consumed by the next.
type Context struct {
	SourceCode string
	FilePath   string

	Program     *ast.Program
	SymbolTable *symbols.SymbolTable
	Diagnostics *diagnostics.Bag

	Out   io.Writer
	In    io.Reader
	Trace evaluator.Tracer

	ResultValue evaluator.Value
	RunSignal   *evaluator.Signal
}

// NewContext builds a Context ready for the Parse stage.
func NewContext(source, filePath string, out io.Writer, in io.Reader) *Context {
	return &Context{
		SourceCode:  source,
		FilePath:    filePath,
		Diagnostics: &diagnostics.Bag{},
		Out:         out,
		In:          in,
	}
}

// Failed reports whether the context has accumulated any static errors, or
// ended in a runtime Signal.
func (c *Context) Failed() bool {
	return c.Diagnostics.HasErrors() || c.RunSignal != nil
}
