// Package prettyprinter renders a parsed Program as an indented tree, the
// --dump-ast diagnostic view of the parser's output.
package prettyprinter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/coolang/coolc/internal/ast"
)

// TreePrinter accumulates an indented textual rendering of an AST.
type TreePrinter struct {
	buf    bytes.Buffer
	indent int
}

// NewTreePrinter returns an empty TreePrinter.
func NewTreePrinter() *TreePrinter {
	return &TreePrinter{}
}

// String returns everything written so far.
func (p *TreePrinter) String() string {
	return p.buf.String()
}

func (p *TreePrinter) line(format string, args ...interface{}) {
	p.buf.WriteString(strings.Repeat("  ", p.indent))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *TreePrinter) nested(f func()) {
	p.indent++
	f()
	p.indent--
}

// Print renders prog into the printer's buffer.
func (p *TreePrinter) Print(prog *ast.Program) {
	p.line("Program")
	p.nested(func() {
		for _, class := range prog.Classes {
			p.printClass(class)
		}
	})
}

func (p *TreePrinter) printClass(c *ast.Class) {
	parent := "Object"
	if c.HasInherits {
		parent = c.InheritsFrom
	}
	p.line("Class %s inherits %s (%s)", c.Name, parent, c.Position)
	p.nested(func() {
		for _, feature := range c.Features {
			switch f := feature.(type) {
			case *ast.Attribute:
				p.printAttribute(f)
			case *ast.Method:
				p.printMethod(f)
			}
		}
	})
}

func (p *TreePrinter) printAttribute(a *ast.Attribute) {
	p.line("Attribute %s: %s", a.Name, a.DeclaredType)
	if a.Initializer != nil {
		p.nested(func() { p.printExpr(a.Initializer) })
	}
}

func (p *TreePrinter) printMethod(m *ast.Method) {
	formals := make([]string, len(m.Formals))
	for i, f := range m.Formals {
		formals[i] = f.Name + ": " + f.DeclaredType
	}
	p.line("Method %s(%s): %s", m.Name, strings.Join(formals, ", "), m.ReturnType)
	p.nested(func() { p.printExpr(m.Body) })
}

// printExpr renders a single expression node and, recursively, its
// children. The switch mirrors the evaluator's own dispatch over ast.Expr.
func (p *TreePrinter) printExpr(expr ast.Expr) {
	switch n := expr.(type) {
	case *ast.IntLit:
		p.line("IntLit %d", n.Value)
	case *ast.StringLit:
		p.line("StringLit %q", n.Value)
	case *ast.BoolLit:
		p.line("BoolLit %t", n.Value)
	case *ast.Self:
		p.line("Self")
	case *ast.NoExpression:
		p.line("NoExpression")
	case *ast.Identifier:
		p.line("Identifier %s", n.Name)
	case *ast.Builtin:
		p.line("Builtin tag=%d", n.Tag)

	case *ast.Assign:
		p.line("Assign %s", n.Id)
		p.nested(func() { p.printExpr(n.Value) })

	case *ast.New:
		p.line("New %s", n.TypeName)

	case *ast.IsVoid:
		p.line("IsVoid")
		p.nested(func() { p.printExpr(n.Operand) })

	case *ast.UnaryOp:
		p.line("UnaryOp %s", n.Op)
		p.nested(func() { p.printExpr(n.Operand) })

	case *ast.BinaryOp:
		p.line("BinaryOp %s", n.Op)
		p.nested(func() {
			p.printExpr(n.Left)
			p.printExpr(n.Right)
		})

	case *ast.If:
		p.line("If")
		p.nested(func() {
			p.printExpr(n.Pred)
			p.printExpr(n.Then)
			p.printExpr(n.Else)
		})

	case *ast.While:
		p.line("While")
		p.nested(func() {
			p.printExpr(n.Pred)
			p.printExpr(n.Body)
		})

	case *ast.Block:
		p.line("Block")
		p.nested(func() {
			for _, sub := range n.Exprs {
				p.printExpr(sub)
			}
		})

	case *ast.Let:
		p.line("Let")
		p.nested(func() {
			for _, b := range n.Bindings {
				p.line("Binding %s: %s", b.Id, b.DeclaredType)
				if b.Initializer != nil {
					p.nested(func() { p.printExpr(b.Initializer) })
				}
			}
			p.printExpr(n.Body)
		})

	case *ast.Case:
		p.line("Case")
		p.nested(func() {
			p.printExpr(n.Scrutinee)
			for _, branch := range n.Branches {
				p.line("Branch %s: %s", branch.Id, branch.DeclaredType)
				p.nested(func() { p.printExpr(branch.Body) })
			}
		})

	case *ast.Dispatch:
		receiver := "self"
		if n.Receiver != nil {
			receiver = "<expr>"
		}
		static := ""
		if n.StaticType != "" {
			static = "@" + n.StaticType
		}
		p.line("Dispatch %s%s.%s", receiver, static, n.Method)
		p.nested(func() {
			if n.Receiver != nil {
				p.printExpr(n.Receiver)
			}
			for _, arg := range n.Args {
				p.printExpr(arg)
			}
		})

	default:
		p.line("<unknown expr %T>", n)
	}
}
