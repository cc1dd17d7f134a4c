package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/coolang/coolc/internal/ast"
	"github.com/coolang/coolc/internal/diagnostics"
)

// evalBuiltin implements the synthesized bodies of Object, IO and String's
// built-in methods. receiver is self; args are already evaluated.
func (e *Evaluator) evalBuiltin(tag ast.BuiltinTag, receiver Value, args []Value, pos diagnostics.Position) (Value, *Signal) {
	switch tag {
	case ast.BuiltinObjectAbort:
		fmt.Fprintf(e.Out, "Abort called from class %s\n", receiver.ClassName())
		return nil, newSignal(diagnostics.CodeAbortCalled, pos, "abort invoked on %s", receiver.ClassName())

	case ast.BuiltinObjectTypeName:
		return StringValue(receiver.ClassName()), nil

	case ast.BuiltinObjectCopy:
		if obj, ok := receiver.(*Object); ok {
			clone := NewObjectShell(obj.Class)
			for name, slot := range obj.Slots {
				clone.Slots[name] = &Slot{V: slot.V}
			}
			return clone, nil
		}
		return receiver, nil

	case ast.BuiltinIOOutString:
		fmt.Fprint(e.Out, string(args[0].(StringValue)))
		return receiver, nil

	case ast.BuiltinIOOutInt:
		fmt.Fprintf(e.Out, "%d", int32(args[0].(IntValue)))
		return receiver, nil

	case ast.BuiltinIOInString:
		line, _ := e.In.ReadString('\n')
		return StringValue(strings.TrimRight(line, "\r\n")), nil

	case ast.BuiltinIOInInt:
		line, _ := e.In.ReadString('\n')
		return IntValue(parseLeadingInt(strings.TrimSpace(line))), nil

	case ast.BuiltinStringLength:
		return IntValue(len(string(receiver.(StringValue)))), nil

	case ast.BuiltinStringConcat:
		return StringValue(string(receiver.(StringValue)) + string(args[0].(StringValue))), nil

	case ast.BuiltinStringSubstr:
		s := string(receiver.(StringValue))
		i := int(args[0].(IntValue))
		l := int(args[1].(IntValue))
		if i < 0 || l < 0 || i+l > len(s) {
			return nil, newSignal(diagnostics.CodeSubstrOutOfRange, pos,
				"substr(%d, %d) out of range for a string of length %d", i, l, len(s))
		}
		return StringValue(s[i : i+l]), nil
	}

	return nil, newSignal(diagnostics.CodeInternalInterpreterError, pos, "unimplemented builtin")
}

// parseLeadingInt parses the leading decimal integer (an optional sign
// followed by a run of digits) at the start of s, the way in_int reads a
// line: a trailing non-digit tail like "42x" still yields 42, and a line
// with no leading digits yields 0.
func parseLeadingInt(s string) int32 {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == start {
		return 0
	}
	n, err := strconv.ParseInt(s[:i], 10, 32)
	if err != nil {
		return 0
	}
	return int32(n)
}
