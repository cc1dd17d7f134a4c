package analyzer

import (
	"github.com/coolang/coolc/internal/ast"
	"github.com/coolang/coolc/internal/config"
	"github.com/coolang/coolc/internal/diagnostics"
	"github.com/coolang/coolc/internal/symbols"
	"github.com/coolang/coolc/internal/typesystem"
)

// phase2 type-checks every class's attribute initializers and method bodies.
// It assumes phase1 already produced an acyclic, fully-registered symbol
// table; any class the symbol table doesn't know about is silently skipped
// (phase1 would already have reported it).
func (a *Analyzer) phase2(prog *ast.Program) {
	for _, cls := range prog.Classes {
		a.checkClass(cls)
	}
}

// resolveType resolves a type name appearing in source (an attribute,
// formal, let-binding or case-branch declaration, or a `new` expression)
// to a typesystem.Type, reporting CodeUndefinedType and falling back to
// Object if the name isn't SELF_TYPE and isn't a registered class. The
// fallback keeps type-checking going instead of cascading nil dereferences.
func (a *Analyzer) resolveType(name, currentClass string, pos diagnostics.Position) typesystem.Type {
	if name == config.SelfTypeName {
		return typesystem.SelfType(currentClass)
	}
	if !a.st.Has(name) {
		a.diags.Addf(diagnostics.Error, diagnostics.CodeUndefinedType, pos,
			"undefined type %s", name)
		return typesystem.Concrete(config.ObjectClassName)
	}
	return typesystem.Concrete(name)
}

// conforms reports whether sub is sub's-or-equal to super. SELF_TYPE[C] on
// the super side can only be satisfied by SELF_TYPE[C] itself.
func (a *Analyzer) conforms(sub, super typesystem.Type) bool {
	if super.IsSelf {
		return sub.IsSelf && sub.Class == super.Class
	}
	return a.st.IsSubtype(sub.LookupClass(), super.Class)
}

func (a *Analyzer) checkClass(cls *ast.Class) {
	cs, ok := a.st.Lookup(cls.Name)
	if !ok {
		return
	}
	for _, feature := range cls.Features {
		switch f := feature.(type) {
		case *ast.Attribute:
			a.checkAttribute(cls, f)
		case *ast.Method:
			a.checkMethod(cls, cs, f)
		}
	}
}

func (a *Analyzer) checkAttribute(cls *ast.Class, attr *ast.Attribute) {
	declared := a.resolveType(attr.DeclaredType, cls.Name, attr.Position)
	if attr.Initializer == nil {
		return
	}
	sc := newScope()
	sc.push()
	selfType := typesystem.SelfType(cls.Name)
	initType := a.exprType(attr.Initializer, sc, selfType, cls.Name)
	if !a.conforms(initType, declared) {
		a.diags.Addf(diagnostics.Error, diagnostics.CodeTypeMismatchInAttributeInit, attr.Initializer.Pos(),
			"initializer for attribute %s has type %s, which does not conform to declared type %s",
			attr.Name, initType, declared)
	}
}

func (a *Analyzer) checkMethod(cls *ast.Class, cs *symbols.ClassSymbol, m *ast.Method) {
	selfType := typesystem.SelfType(cls.Name)
	sc := newScope()
	sc.push()
	for _, formal := range m.Formals {
		if formal.DeclaredType == config.SelfTypeName {
			a.diags.Addf(diagnostics.Error, diagnostics.CodeUndefinedType, formal.Position,
				"formal parameter %s cannot be declared SELF_TYPE", formal.Name)
			sc.define(formal.Name, typesystem.Concrete(config.ObjectClassName))
			continue
		}
		sc.define(formal.Name, a.resolveType(formal.DeclaredType, cls.Name, formal.Position))
	}

	returnType := a.resolveType(m.ReturnType, cls.Name, m.Position)

	bodyType := a.exprType(m.Body, sc, selfType, cls.Name)
	if !a.conforms(bodyType, returnType) {
		a.diags.Addf(diagnostics.Error, diagnostics.CodeMethodReturnTypeMismatch, m.Body.Pos(),
			"method %s has body of type %s, which does not conform to declared return type %s",
			m.Name, bodyType, returnType)
	}
}

// exprType computes the static type of expr under scope sc, with selfType
// bound to SELF_TYPE[currentClass] and currentClass the enclosing class.
// Every branch that detects an error reports it and still returns a
// best-effort type (usually Object) so checking can continue.
func (a *Analyzer) exprType(expr ast.Expr, sc *scope, selfType typesystem.Type, currentClass string) typesystem.Type {
	object := typesystem.Concrete(config.ObjectClassName)

	switch e := expr.(type) {
	case *ast.IntLit:
		return typesystem.Concrete(config.IntClassName)
	case *ast.StringLit:
		return typesystem.Concrete(config.StringClassName)
	case *ast.BoolLit:
		return typesystem.Concrete(config.BoolClassName)
	case *ast.Self:
		return selfType
	case *ast.NoExpression:
		return object

	case *ast.Identifier:
		if t, ok := sc.lookup(e.Name); ok {
			return t
		}
		if attr, ok := a.st.ResolveAttribute(currentClass, e.Name); ok {
			return a.resolveType(attr.DeclaredType, currentClass, e.Position)
		}
		a.diags.Addf(diagnostics.Error, diagnostics.CodeUndefinedVariable, e.Position,
			"undefined identifier %s", e.Name)
		return object

	case *ast.Assign:
		valueType := a.exprType(e.Value, sc, selfType, currentClass)
		if e.Id == config.SelfVarName {
			a.diags.Addf(diagnostics.Error, diagnostics.CodeAssignToWrongType, e.Position,
				"cannot assign to self")
			return valueType
		}
		var target typesystem.Type
		var known bool
		if t, ok := sc.lookup(e.Id); ok {
			target, known = t, true
		} else if attr, ok := a.st.ResolveAttribute(currentClass, e.Id); ok {
			target, known = a.resolveType(attr.DeclaredType, currentClass, e.Position), true
		}
		if !known {
			a.diags.Addf(diagnostics.Error, diagnostics.CodeUndefinedVariable, e.Position,
				"assignment to undefined identifier %s", e.Id)
			return valueType
		}
		if !a.conforms(valueType, target) {
			a.diags.Addf(diagnostics.Error, diagnostics.CodeAssignToWrongType, e.Position,
				"cannot assign value of type %s to %s of type %s", valueType, e.Id, target)
		}
		return valueType

	case *ast.New:
		return a.resolveType(e.TypeName, currentClass, e.Position)

	case *ast.IsVoid:
		a.exprType(e.Operand, sc, selfType, currentClass)
		return typesystem.Concrete(config.BoolClassName)

	case *ast.UnaryOp:
		operandType := a.exprType(e.Operand, sc, selfType, currentClass)
		switch e.Op {
		case ast.OpNegate:
			if operandType.Class != config.IntClassName || operandType.IsSelf {
				a.diags.Addf(diagnostics.Error, diagnostics.CodeInvalidUnaryOperation, e.Position,
					"~ requires an Int operand, got %s", operandType)
			}
			return typesystem.Concrete(config.IntClassName)
		case ast.OpNot:
			if operandType.Class != config.BoolClassName || operandType.IsSelf {
				a.diags.Addf(diagnostics.Error, diagnostics.CodeInvalidUnaryOperation, e.Position,
					"not requires a Bool operand, got %s", operandType)
			}
			return typesystem.Concrete(config.BoolClassName)
		}
		return object

	case *ast.BinaryOp:
		leftType := a.exprType(e.Left, sc, selfType, currentClass)
		rightType := a.exprType(e.Right, sc, selfType, currentClass)
		switch e.Op {
		case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
			if !isExactly(leftType, config.IntClassName) || !isExactly(rightType, config.IntClassName) {
				a.diags.Addf(diagnostics.Error, diagnostics.CodeInvalidBinaryOperation, e.Position,
					"operator %s requires two Int operands, got %s and %s", e.Op, leftType, rightType)
			}
			return typesystem.Concrete(config.IntClassName)
		case ast.OpLt, ast.OpLe:
			if !isExactly(leftType, config.IntClassName) || !isExactly(rightType, config.IntClassName) {
				a.diags.Addf(diagnostics.Error, diagnostics.CodeInvalidBinaryOperation, e.Position,
					"operator %s requires two Int operands, got %s and %s", e.Op, leftType, rightType)
			}
			return typesystem.Concrete(config.BoolClassName)
		case ast.OpEq:
			if isPrimitive(leftType) || isPrimitive(rightType) {
				if !leftType.Equal(rightType) {
					a.diags.Addf(diagnostics.Error, diagnostics.CodeInvalidEquality, e.Position,
						"= between a primitive type and a different type is not allowed: %s vs %s", leftType, rightType)
				}
			}
			return typesystem.Concrete(config.BoolClassName)
		}
		return object

	case *ast.If:
		predType := a.exprType(e.Pred, sc, selfType, currentClass)
		if !isExactly(predType, config.BoolClassName) {
			a.diags.Addf(diagnostics.Error, diagnostics.CodeIfPredicateNotBool, e.Pred.Pos(),
				"if predicate must have type Bool, got %s", predType)
		}
		thenType := a.exprType(e.Then, sc, selfType, currentClass)
		elseType := a.exprType(e.Else, sc, selfType, currentClass)
		return lub(a.st, thenType, elseType)

	case *ast.While:
		predType := a.exprType(e.Pred, sc, selfType, currentClass)
		if !isExactly(predType, config.BoolClassName) {
			a.diags.Addf(diagnostics.Error, diagnostics.CodeWhilePredicateNotBool, e.Pred.Pos(),
				"while predicate must have type Bool, got %s", predType)
		}
		a.exprType(e.Body, sc, selfType, currentClass)
		return typesystem.Concrete(config.ObjectClassName)

	case *ast.Block:
		var last typesystem.Type = object
		for _, sub := range e.Exprs {
			last = a.exprType(sub, sc, selfType, currentClass)
		}
		return last

	case *ast.Let:
		sc.push()
		defer sc.pop()
		for _, binding := range e.Bindings {
			declared := a.resolveType(binding.DeclaredType, currentClass, binding.Position)
			if binding.Initializer != nil {
				initType := a.exprType(binding.Initializer, sc, selfType, currentClass)
				if !a.conforms(initType, declared) {
					a.diags.Addf(diagnostics.Error, diagnostics.CodeLetBindingTypeMismatch, binding.Initializer.Pos(),
						"initializer for %s has type %s, which does not conform to declared type %s",
						binding.Id, initType, declared)
				}
			}
			sc.define(binding.Id, declared)
		}
		return a.exprType(e.Body, sc, selfType, currentClass)

	case *ast.Case:
		a.exprType(e.Scrutinee, sc, selfType, currentClass)
		branchTypes := make([]typesystem.Type, 0, len(e.Branches))
		seen := make(map[string]bool)
		for _, branch := range e.Branches {
			if seen[branch.DeclaredType] {
				a.diags.Addf(diagnostics.Error, diagnostics.CodeUndefinedType, branch.Position,
					"case branch type %s is repeated", branch.DeclaredType)
			}
			seen[branch.DeclaredType] = true
			sc.push()
			branchDeclared := a.resolveType(branch.DeclaredType, currentClass, branch.Position)
			sc.define(branch.Id, branchDeclared)
			branchTypes = append(branchTypes, a.exprType(branch.Body, sc, selfType, currentClass))
			sc.pop()
		}
		return lubAll(a.st, branchTypes)

	case *ast.Dispatch:
		return a.checkDispatch(e, sc, selfType, currentClass)
	}

	return object
}

func isExactly(t typesystem.Type, class string) bool {
	return !t.IsSelf && t.Class == class
}

func isPrimitive(t typesystem.Type) bool {
	return !t.IsSelf && config.IsPrimitiveClassName(t.Class)
}

// checkDispatch resolves receiver.method(args) (implicit self when Receiver
// is nil) or receiver@StaticType.method(args), validates argument count and
// types, and applies the SELF_TYPE-in-return substitution: a method
// returning SELF_TYPE yields the receiver's own type, not the class the
// method was looked up on.
func (a *Analyzer) checkDispatch(d *ast.Dispatch, sc *scope, selfType typesystem.Type, currentClass string) typesystem.Type {
	object := typesystem.Concrete(config.ObjectClassName)

	var receiverType typesystem.Type
	if d.Receiver == nil {
		receiverType = selfType
	} else {
		receiverType = a.exprType(d.Receiver, sc, selfType, currentClass)
	}

	// selfTypeResult is what a SELF_TYPE return is substituted with: the
	// static type named by @T for a static dispatch, the receiver's type
	// otherwise (spec §4.1.4 step 5).
	selfTypeResult := receiverType

	lookupClass := receiverType.LookupClass()
	if d.StaticType != "" {
		staticType := a.resolveType(d.StaticType, currentClass, d.Position)
		if !a.conforms(receiverType, staticType) {
			a.diags.Addf(diagnostics.Error, diagnostics.CodeStaticDispatchTypeError, d.Position,
				"static dispatch target %s is not an ancestor of %s", d.StaticType, receiverType)
		}
		lookupClass = staticType.LookupClass()
		selfTypeResult = staticType
	}

	argTypes := make([]typesystem.Type, len(d.Args))
	for i, arg := range d.Args {
		argTypes[i] = a.exprType(arg, sc, selfType, currentClass)
	}

	method, ok := a.st.ResolveMethod(lookupClass, d.Method)
	if !ok {
		a.diags.Addf(diagnostics.Error, diagnostics.CodeUndefinedMethod, d.Position,
			"undefined method %s on class %s", d.Method, lookupClass)
		return object
	}

	if len(argTypes) != len(method.FormalTypes) {
		a.diags.Addf(diagnostics.Error, diagnostics.CodeWrongNumberOfArguments, d.Position,
			"method %s expects %d argument(s), got %d", d.Method, len(method.FormalTypes), len(argTypes))
	} else {
		for i, formalTypeName := range method.FormalTypes {
			formalType := a.resolveType(formalTypeName, method.DefiningClass, d.Position)
			if !a.conforms(argTypes[i], formalType) {
				a.diags.Addf(diagnostics.Error, diagnostics.CodeArgumentTypeMismatch, d.Args[i].Pos(),
					"argument %d to %s has type %s, which does not conform to parameter type %s",
					i+1, d.Method, argTypes[i], formalType)
			}
		}
	}

	if method.ReturnType == config.SelfTypeName {
		return selfTypeResult
	}
	return a.resolveType(method.ReturnType, method.DefiningClass, d.Position)
}
