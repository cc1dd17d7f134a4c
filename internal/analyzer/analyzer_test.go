package analyzer

import (
	"testing"

	"github.com/coolang/coolc/internal/diagnostics"
	"github.com/coolang/coolc/internal/parser"
)

func analyze(t *testing.T, source string) (*Analyzer, bool) {
	t.Helper()
	prog, parseDiags := parser.Parse(source, "test.cl")
	if parseDiags.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", parseDiags.String())
	}
	a := New()
	_, ok := a.Analyze(prog)
	return a, ok
}

func firstCode(a *Analyzer) diagnostics.Code {
	entries := a.Diagnostics().Entries()
	if len(entries) == 0 {
		return ""
	}
	return entries[0].Code
}

func TestAnalyzeAcceptsMinimalMain(t *testing.T) {
	_, ok := analyze(t, `
class Main {
  main(): Object { (new IO).out_string("hi") };
};
`)
	if !ok {
		t.Fatalf("expected program to type-check")
	}
}

func TestMissingMainClass(t *testing.T) {
	a, ok := analyze(t, `
class Foo {
};
`)
	if ok {
		t.Fatalf("expected analysis to fail")
	}
	if firstCode(a) != diagnostics.CodeMissingMain {
		t.Errorf("expected %s, got %s", diagnostics.CodeMissingMain, firstCode(a))
	}
}

func TestDuplicateClass(t *testing.T) {
	a, ok := analyze(t, `
class Main { main(): Object { self }; };
class Main { main(): Object { self }; };
`)
	if ok {
		t.Fatalf("expected analysis to fail")
	}
	if firstCode(a) != diagnostics.CodeDuplicateClass {
		t.Errorf("expected %s, got %s", diagnostics.CodeDuplicateClass, firstCode(a))
	}
}

func TestRedefineBuiltinClass(t *testing.T) {
	a, ok := analyze(t, `
class Int { };
class Main { main(): Object { self }; };
`)
	if ok {
		t.Fatalf("expected analysis to fail")
	}
	if firstCode(a) != diagnostics.CodeRedefineBuiltin {
		t.Errorf("expected %s, got %s", diagnostics.CodeRedefineBuiltin, firstCode(a))
	}
}

func TestInheritFromPrimitive(t *testing.T) {
	a, ok := analyze(t, `
class Foo inherits Int { };
class Main { main(): Object { self }; };
`)
	if ok {
		t.Fatalf("expected analysis to fail")
	}
	if firstCode(a) != diagnostics.CodeInheritFromPrimitive {
		t.Errorf("expected %s, got %s", diagnostics.CodeInheritFromPrimitive, firstCode(a))
	}
}

func TestUndefinedParent(t *testing.T) {
	a, ok := analyze(t, `
class Foo inherits Bar { };
class Main { main(): Object { self }; };
`)
	if ok {
		t.Fatalf("expected analysis to fail")
	}
	if firstCode(a) != diagnostics.CodeUndefinedParent {
		t.Errorf("expected %s, got %s", diagnostics.CodeUndefinedParent, firstCode(a))
	}
}

func TestInheritanceCycleDetected(t *testing.T) {
	a, ok := analyze(t, `
class A inherits B { };
class B inherits A { };
class Main { main(): Object { self }; };
`)
	if ok {
		t.Fatalf("expected analysis to fail")
	}
	if firstCode(a) != diagnostics.CodeInheritanceCycle {
		t.Errorf("expected %s, got %s", diagnostics.CodeInheritanceCycle, firstCode(a))
	}
}

func TestDuplicateAttributeAcrossHierarchy(t *testing.T) {
	a, ok := analyze(t, `
class A { x: Int; };
class B inherits A { x: Int; };
class Main { main(): Object { self }; };
`)
	if ok {
		t.Fatalf("expected analysis to fail")
	}
	if firstCode(a) != diagnostics.CodeDuplicateAttribute {
		t.Errorf("expected %s, got %s", diagnostics.CodeDuplicateAttribute, firstCode(a))
	}
}

func TestOverrideArityMismatch(t *testing.T) {
	a, ok := analyze(t, `
class A { f(x: Int): Int { x }; };
class B inherits A { f(): Int { 0 }; };
class Main { main(): Object { self }; };
`)
	if ok {
		t.Fatalf("expected analysis to fail")
	}
	if firstCode(a) != diagnostics.CodeOverrideMismatch {
		t.Errorf("expected %s, got %s", diagnostics.CodeOverrideMismatch, firstCode(a))
	}
}

func TestUndefinedVariable(t *testing.T) {
	a, ok := analyze(t, `
class Main { main(): Object { y }; };
`)
	if ok {
		t.Fatalf("expected analysis to fail")
	}
	if firstCode(a) != diagnostics.CodeUndefinedVariable {
		t.Errorf("expected %s, got %s", diagnostics.CodeUndefinedVariable, firstCode(a))
	}
}

func TestArithmeticRequiresInt(t *testing.T) {
	a, ok := analyze(t, `
class Main { main(): Object { 1 + "oops" }; };
`)
	if ok {
		t.Fatalf("expected analysis to fail")
	}
	if firstCode(a) != diagnostics.CodeInvalidBinaryOperation {
		t.Errorf("expected %s, got %s", diagnostics.CodeInvalidBinaryOperation, firstCode(a))
	}
}

func TestIfBranchesLubToCommonParent(t *testing.T) {
	_, ok := analyze(t, `
class A { };
class B inherits A { };
class C inherits A { };
class Main {
  main(): A {
    if true then (new B) else (new C) fi
  };
};
`)
	if !ok {
		t.Fatalf("expected program to type-check")
	}
}

func TestEqualityBetweenPrimitiveAndObjectRejected(t *testing.T) {
	a, ok := analyze(t, `
class Main { main(): Object { if 1 = (new Main) then true else false fi }; };
`)
	if ok {
		t.Fatalf("expected analysis to fail")
	}
	if firstCode(a) != diagnostics.CodeInvalidEquality {
		t.Errorf("expected %s, got %s", diagnostics.CodeInvalidEquality, firstCode(a))
	}
}

func TestDispatchOnUndefinedMethod(t *testing.T) {
	a, ok := analyze(t, `
class Main { main(): Object { self.nope() }; };
`)
	if ok {
		t.Fatalf("expected analysis to fail")
	}
	if firstCode(a) != diagnostics.CodeUndefinedMethod {
		t.Errorf("expected %s, got %s", diagnostics.CodeUndefinedMethod, firstCode(a))
	}
}

func TestMethodReturnTypeMismatch(t *testing.T) {
	a, ok := analyze(t, `
class Main { main(): Int { "not an int" }; };
`)
	if ok {
		t.Fatalf("expected analysis to fail")
	}
	if firstCode(a) != diagnostics.CodeMethodReturnTypeMismatch {
		t.Errorf("expected %s, got %s", diagnostics.CodeMethodReturnTypeMismatch, firstCode(a))
	}
}

func TestSelfTypeReturnedFromNewSelfType(t *testing.T) {
	_, ok := analyze(t, `
class Counter {
  make(): SELF_TYPE { new SELF_TYPE };
};
class Main { main(): Object { (new Counter).make() }; };
`)
	if !ok {
		t.Fatalf("expected program to type-check")
	}
}

func TestLetBindingTypeMismatch(t *testing.T) {
	a, ok := analyze(t, `
class Main { main(): Object { let x: Int <- "oops" in x }; };
`)
	if ok {
		t.Fatalf("expected analysis to fail")
	}
	if firstCode(a) != diagnostics.CodeLetBindingTypeMismatch {
		t.Errorf("expected %s, got %s", diagnostics.CodeLetBindingTypeMismatch, firstCode(a))
	}
}

func TestCaseBranchesLub(t *testing.T) {
	_, ok := analyze(t, `
class Main {
  main(): Object {
    case 1 of
      x: Int => x;
      s: String => 0;
    esac
  };
};
`)
	if !ok {
		t.Fatalf("expected program to type-check")
	}
}
