package evaluator

import (
	"github.com/coolang/coolc/internal/ast"
	"github.com/coolang/coolc/internal/config"
	"github.com/coolang/coolc/internal/diagnostics"
)

// eval walks expr, with self bound to the enclosing method's receiver and
// env holding the current stack of local frames (formals, let-bindings,
// case bindings). It returns either a Value or a Signal, never both.
func (e *Evaluator) eval(expr ast.Expr, self Value, env *Environment) (Value, *Signal) {
	switch node := expr.(type) {
	case *ast.IntLit:
		return IntValue(node.Value), nil
	case *ast.StringLit:
		return StringValue(node.Value), nil
	case *ast.BoolLit:
		return BoolValue(node.Value), nil
	case *ast.Self:
		return self, nil
	case *ast.NoExpression:
		return Void, nil

	case *ast.Identifier:
		if slot, ok := env.lookup(node.Name); ok {
			return slot.V, nil
		}
		if obj, ok := self.(*Object); ok {
			if slot, ok := obj.Slots[node.Name]; ok {
				return slot.V, nil
			}
		}
		return nil, newSignal(diagnostics.CodeInternalInterpreterError, node.Position,
			"identifier %s has no binding at runtime", node.Name)

	case *ast.Assign:
		val, sig := e.eval(node.Value, self, env)
		if sig != nil {
			return nil, sig
		}
		if slot, ok := env.lookup(node.Id); ok {
			slot.V = val
			return val, nil
		}
		if obj, ok := self.(*Object); ok {
			if slot, ok := obj.Slots[node.Id]; ok {
				slot.V = val
				return val, nil
			}
		}
		return nil, newSignal(diagnostics.CodeInternalInterpreterError, node.Position,
			"assignment target %s has no binding at runtime", node.Id)

	case *ast.New:
		class := node.TypeName
		if class == config.SelfTypeName {
			class = self.ClassName()
		}
		return e.Instantiate(class, node.Position)

	case *ast.IsVoid:
		val, sig := e.eval(node.Operand, self, env)
		if sig != nil {
			return nil, sig
		}
		_, isVoid := val.(VoidValue)
		return BoolValue(isVoid), nil

	case *ast.UnaryOp:
		val, sig := e.eval(node.Operand, self, env)
		if sig != nil {
			return nil, sig
		}
		switch node.Op {
		case ast.OpNegate:
			return IntValue(-int32(val.(IntValue))), nil
		case ast.OpNot:
			return BoolValue(!bool(val.(BoolValue))), nil
		}
		return Void, nil

	case *ast.BinaryOp:
		return e.evalBinaryOp(node, self, env)

	case *ast.If:
		predVal, sig := e.eval(node.Pred, self, env)
		if sig != nil {
			return nil, sig
		}
		if bool(predVal.(BoolValue)) {
			return e.eval(node.Then, self, env)
		}
		return e.eval(node.Else, self, env)

	case *ast.While:
		for {
			predVal, sig := e.eval(node.Pred, self, env)
			if sig != nil {
				return nil, sig
			}
			if !bool(predVal.(BoolValue)) {
				return Void, nil
			}
			if _, sig := e.eval(node.Body, self, env); sig != nil {
				return nil, sig
			}
		}

	case *ast.Block:
		var result Value = Void
		for _, sub := range node.Exprs {
			val, sig := e.eval(sub, self, env)
			if sig != nil {
				return nil, sig
			}
			result = val
		}
		return result, nil

	case *ast.Let:
		env.push()
		defer env.pop()
		for _, binding := range node.Bindings {
			var val Value
			if binding.Initializer != nil {
				v, sig := e.eval(binding.Initializer, self, env)
				if sig != nil {
					return nil, sig
				}
				val = v
			} else {
				val = e.defaultValue(binding.DeclaredType)
			}
			env.define(binding.Id, val)
		}
		return e.eval(node.Body, self, env)

	case *ast.Case:
		scrutinee, sig := e.eval(node.Scrutinee, self, env)
		if sig != nil {
			return nil, sig
		}
		if _, isVoid := scrutinee.(VoidValue); isVoid {
			return nil, newSignal(diagnostics.CodeCaseOnVoid, node.Position, "case on void")
		}
		chain, _ := e.st.Parents(scrutinee.ClassName())
		for _, class := range chain {
			for _, branch := range node.Branches {
				if branch.DeclaredType != class {
					continue
				}
				env.push()
				env.define(branch.Id, scrutinee)
				result, sig := e.eval(branch.Body, self, env)
				env.pop()
				return result, sig
			}
		}
		return nil, newSignal(diagnostics.CodeCaseNoBranchMatches, node.Position,
			"no branch matches runtime type %s", scrutinee.ClassName())

	case *ast.Dispatch:
		return e.evalDispatch(node, self, env)
	}

	return Void, nil
}

func (e *Evaluator) evalBinaryOp(node *ast.BinaryOp, self Value, env *Environment) (Value, *Signal) {
	left, sig := e.eval(node.Left, self, env)
	if sig != nil {
		return nil, sig
	}
	right, sig := e.eval(node.Right, self, env)
	if sig != nil {
		return nil, sig
	}

	switch node.Op {
	case ast.OpAdd:
		return IntValue(int32(left.(IntValue)) + int32(right.(IntValue))), nil
	case ast.OpSub:
		return IntValue(int32(left.(IntValue)) - int32(right.(IntValue))), nil
	case ast.OpMul:
		return IntValue(int32(left.(IntValue)) * int32(right.(IntValue))), nil
	case ast.OpDiv:
		divisor := int32(right.(IntValue))
		if divisor == 0 {
			return nil, newSignal(diagnostics.CodeDivisionByZero, node.Position, "division by zero")
		}
		return IntValue(int32(left.(IntValue)) / divisor), nil
	case ast.OpLt:
		return BoolValue(int32(left.(IntValue)) < int32(right.(IntValue))), nil
	case ast.OpLe:
		return BoolValue(int32(left.(IntValue)) <= int32(right.(IntValue))), nil
	case ast.OpEq:
		return BoolValue(valuesEqual(left, right)), nil
	}
	return Void, nil
}

// valuesEqual implements byte-wise equality for the three primitive
// classes, singleton equality for Void, and reference (pointer) equality
// for every other Object.
func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case IntValue:
		bv, ok := b.(IntValue)
		return ok && av == bv
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av == bv
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av == bv
	case VoidValue:
		_, ok := b.(VoidValue)
		return ok
	case *Object:
		bv, ok := b.(*Object)
		return ok && av == bv
	}
	return false
}

func (e *Evaluator) evalDispatch(d *ast.Dispatch, self Value, env *Environment) (Value, *Signal) {
	var receiver Value
	if d.Receiver == nil {
		receiver = self
	} else {
		val, sig := e.eval(d.Receiver, self, env)
		if sig != nil {
			return nil, sig
		}
		receiver = val
	}

	lookupClass := receiver.ClassName()
	if d.StaticType != "" {
		lookupClass = d.StaticType
	}

	args := make([]Value, len(d.Args))
	for i, argExpr := range d.Args {
		val, sig := e.eval(argExpr, self, env)
		if sig != nil {
			return nil, sig
		}
		args[i] = val
	}

	return e.Dispatch(receiver, lookupClass, d.Method, args, d.Position)
}
