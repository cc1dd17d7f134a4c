package diagnostics

// Code is a stable diagnostic identifier of the form COOL####, grouped by
// phase: 00xx parsing, 01xx inheritance, 02xx typing, 03xx runtime.
type Code string

const (
	// 00xx — parsing (syntactic, reported by the parser adapter)
	CodeSyntaxError Code = "COOL0001"

	// 01xx — class registration & inheritance (analyzer phase 1)
	CodeDuplicateClass       Code = "COOL0101"
	CodeRedefineBuiltin      Code = "COOL0102"
	CodeInheritFromPrimitive Code = "COOL0103"
	CodeUndefinedParent      Code = "COOL0104"
	CodeMissingMain          Code = "COOL0105"
	CodeInheritanceCycle     Code = "COOL0106"
	CodeDuplicateAttribute   Code = "COOL0107"
	CodeOverrideMismatch     Code = "COOL0108"

	// 02xx — type checking (analyzer phase 2)
	CodeUndefinedVariable          Code = "COOL0201"
	CodeAssignToWrongType          Code = "COOL0202"
	CodeUndefinedType              Code = "COOL0203"
	CodeInvalidUnaryOperation      Code = "COOL0204"
	CodeInvalidBinaryOperation     Code = "COOL0205"
	CodeIfPredicateNotBool         Code = "COOL0206"
	CodeWhilePredicateNotBool      Code = "COOL0207"
	CodeLetBindingTypeMismatch     Code = "COOL0208"
	CodeTypeMismatchInAttributeInit Code = "COOL0209"
	CodeStaticDispatchTypeError    Code = "COOL0210"
	CodeUndefinedMethod            Code = "COOL0211"
	CodeWrongNumberOfArguments     Code = "COOL0212"
	CodeArgumentTypeMismatch       Code = "COOL0213"
	CodeMethodReturnTypeMismatch   Code = "COOL0214"
	CodeInvalidEquality            Code = "COOL0215"

	// 03xx — runtime
	CodeDivisionByZero          Code = "COOL0301"
	CodeSubstrOutOfRange        Code = "COOL0302"
	CodeAbortCalled             Code = "COOL0303"
	CodeDispatchOnVoid          Code = "COOL0304"
	CodeCaseOnVoid              Code = "COOL0305"
	CodeCaseNoBranchMatches     Code = "COOL0306"
	CodeRuntimeError            Code = "COOL0307"
	CodeUndefinedMethodAtRuntime Code = "COOL0308"
	CodeInternalInterpreterError Code = "COOL0399"
)
