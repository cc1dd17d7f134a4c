// Package evaluator implements the tree-walking interpreter that executes a
// type-checked Program: object construction, expression evaluation, method
// dispatch and the five built-in classes.
package evaluator

import (
	"bufio"
	"io"

	"github.com/coolang/coolc/internal/ast"
	"github.com/coolang/coolc/internal/config"
	"github.com/coolang/coolc/internal/diagnostics"
	"github.com/coolang/coolc/internal/symbols"
)

// Tracer is called once per method dispatch when tracing is enabled.
type Tracer func(class, method string, depth int)

// Evaluator walks a type-checked Program against the class hierarchy
// produced by the analyzer, reading from In and writing to Out the way the
// IO built-ins require.
type Evaluator struct {
	st    *symbols.SymbolTable
	Out   io.Writer
	In    *bufio.Reader
	Trace Tracer
	depth int
}

// New returns an Evaluator bound to st's class hierarchy, reading from in
// and writing to out.
func New(st *symbols.SymbolTable, out io.Writer, in io.Reader) *Evaluator {
	return &Evaluator{st: st, Out: out, In: bufio.NewReader(in)}
}

// Run instantiates mainClass and dispatches its zero-argument main method,
// the entry point of every Cool program. A Main class with no main method
// passes static analysis (the class itself satisfies the inheritance-phase
// invariant) but has nothing to dispatch here, so that case is reported as
// a runtime UndefinedMethod rather than falling into Dispatch's internal-
// error catch-all.
func (e *Evaluator) Run(mainClass string) (Value, *Signal) {
	self, sig := e.Instantiate(mainClass, diagnostics.NoPosition)
	if sig != nil {
		return nil, sig
	}
	if _, ok := e.st.ResolveMethod(mainClass, config.MainMethodName); !ok {
		return nil, newSignal(diagnostics.CodeUndefinedMethodAtRuntime, diagnostics.NoPosition,
			"undefined method %s on %s", config.MainMethodName, mainClass)
	}
	return e.Dispatch(self, mainClass, config.MainMethodName, nil, diagnostics.NoPosition)
}

// Instantiate builds a fresh value of class: the interned zero value for a
// primitive class, or a new Object with every attribute (including
// inherited ones) laid out root-to-leaf, default-initialized, and then
// re-initialized in the same root-to-leaf order with self bound to the new
// object (spec object-construction order).
func (e *Evaluator) Instantiate(class string, pos diagnostics.Position) (Value, *Signal) {
	switch class {
	case config.IntClassName:
		return IntValue(0), nil
	case config.StringClassName:
		return StringValue(""), nil
	case config.BoolClassName:
		return BoolValue(false), nil
	}

	obj := NewObjectShell(class)
	attrs := e.st.AllAttributesRootToLeaf(class)
	for _, attr := range attrs {
		obj.Slots[attr.Name] = &Slot{V: e.defaultValue(attr.DeclaredType)}
	}
	for _, attr := range attrs {
		if attr.InitializerRef == nil {
			continue
		}
		val, sig := e.eval(attr.InitializerRef, obj, NewEnvironment())
		if sig != nil {
			return nil, sig
		}
		obj.Slots[attr.Name].V = val
	}
	return obj, nil
}

// defaultValue is the attribute slot value before any initializer runs:
// the zero value for the three primitive classes, Void for everything
// else (including SELF_TYPE).
func (e *Evaluator) defaultValue(declaredType string) Value {
	switch declaredType {
	case config.IntClassName:
		return IntValue(0)
	case config.StringClassName:
		return StringValue("")
	case config.BoolClassName:
		return BoolValue(false)
	default:
		return Void
	}
}

// Dispatch resolves method on lookupClass, binds args to its formals, and
// evaluates its body with receiver bound as self. lookupClass is the
// receiver's dynamic class for a dynamic dispatch, or the named ancestor
// for a static (receiver@T.method()) dispatch.
func (e *Evaluator) Dispatch(receiver Value, lookupClass, method string, args []Value, pos diagnostics.Position) (Value, *Signal) {
	if _, isVoid := receiver.(VoidValue); isVoid {
		return nil, newSignal(diagnostics.CodeDispatchOnVoid, pos, "dispatch to %s on void", method)
	}

	ms, ok := e.st.ResolveMethod(lookupClass, method)
	if !ok {
		return nil, newSignal(diagnostics.CodeInternalInterpreterError, pos,
			"method %s not found on %s despite passing static analysis", method, lookupClass)
	}

	if e.Trace != nil {
		e.Trace(lookupClass, method, e.depth)
	}
	e.depth++
	defer func() { e.depth-- }()

	if builtin, ok := ms.BodyRef.(*ast.Builtin); ok {
		return e.evalBuiltin(builtin.Tag, receiver, args, pos)
	}

	env := NewEnvironment()
	for i, name := range ms.FormalNames {
		env.define(name, args[i])
	}
	return e.eval(ms.BodyRef, receiver, env)
}
