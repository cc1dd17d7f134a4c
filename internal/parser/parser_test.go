package parser

import (
	"testing"

	"github.com/coolang/coolc/internal/ast"
	"github.com/coolang/coolc/internal/diagnostics"
)

func TestParseClassWithAttributeAndMethod(t *testing.T) {
	prog, diags := Parse(`
class Counter {
  value: Int <- 0;
  increment(): Int { value <- value + 1 };
};
`, "t.cl")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.String())
	}
	if len(prog.Classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(prog.Classes))
	}
	class := prog.Classes[0]
	if class.Name != "Counter" || class.HasInherits {
		t.Fatalf("unexpected class header: %+v", class)
	}
	if len(class.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(class.Features))
	}
	attr, ok := class.Features[0].(*ast.Attribute)
	if !ok || attr.Name != "value" || attr.DeclaredType != "Int" {
		t.Fatalf("unexpected attribute: %#v", class.Features[0])
	}
	method, ok := class.Features[1].(*ast.Method)
	if !ok || method.Name != "increment" || method.ReturnType != "Int" {
		t.Fatalf("unexpected method: %#v", class.Features[1])
	}
	assign, ok := method.Body.(*ast.Assign)
	if !ok || assign.Id != "value" {
		t.Fatalf("expected method body to be an assignment to value, got %#v", method.Body)
	}
}

func TestParseClassWithInheritance(t *testing.T) {
	prog, diags := Parse(`class Dog inherits Animal { speak(): String { "Woof" }; };`, "t.cl")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.String())
	}
	class := prog.Classes[0]
	if !class.HasInherits || class.InheritsFrom != "Animal" {
		t.Fatalf("expected Dog to inherit Animal, got %+v", class)
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	prog, diags := Parse(`
class Main {
  main(): Int { 1 + 2 * 3 };
};
`, "t.cl")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.String())
	}
	method := prog.Classes[0].Features[0].(*ast.Method)
	top, ok := method.Body.(*ast.BinaryOp)
	if !ok || top.Op != ast.OpAdd {
		t.Fatalf("expected top-level + , got %#v", method.Body)
	}
	if _, ok := top.Left.(*ast.IntLit); !ok {
		t.Fatalf("expected left operand to be IntLit, got %#v", top.Left)
	}
	right, ok := top.Right.(*ast.BinaryOp)
	if !ok || right.Op != ast.OpMul {
		t.Fatalf("expected right operand to be a * term, got %#v", top.Right)
	}
}

func TestParseIfWhileBlockLetCase(t *testing.T) {
	prog, diags := Parse(`
class Main {
  main(): Object {
    let x: Int <- 0, y: Int <- 1 in
      while x < 10 loop
        x <- x + 1
      pool
  };
};
`, "t.cl")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.String())
	}
	method := prog.Classes[0].Features[0].(*ast.Method)
	let, ok := method.Body.(*ast.Let)
	if !ok || len(let.Bindings) != 2 {
		t.Fatalf("expected a let with 2 bindings, got %#v", method.Body)
	}
	if let.Bindings[0].Id != "x" || let.Bindings[1].Id != "y" {
		t.Fatalf("unexpected binding order: %#v", let.Bindings)
	}
	if _, ok := let.Body.(*ast.While); !ok {
		t.Fatalf("expected let body to be a while loop, got %#v", let.Body)
	}
}

func TestParseCaseExpression(t *testing.T) {
	prog, diags := Parse(`
class Main {
  main(a: Object): String {
    case a of
      i: Int => "int";
      s: String => "string";
      o: Object => "other";
    esac
  };
};
`, "t.cl")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.String())
	}
	method := prog.Classes[0].Features[0].(*ast.Method)
	c, ok := method.Body.(*ast.Case)
	if !ok || len(c.Branches) != 3 {
		t.Fatalf("expected a case with 3 branches, got %#v", method.Body)
	}
	if c.Branches[0].DeclaredType != "Int" || c.Branches[2].DeclaredType != "Object" {
		t.Fatalf("unexpected branch types: %#v", c.Branches)
	}
}

func TestParseStaticAndDynamicDispatch(t *testing.T) {
	prog, diags := Parse(`
class Main {
  main(): Object {
    self@Object.copy()
  };
};
`, "t.cl")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.String())
	}
	method := prog.Classes[0].Features[0].(*ast.Method)
	dispatch, ok := method.Body.(*ast.Dispatch)
	if !ok || dispatch.Method != "copy" || dispatch.StaticType != "Object" {
		t.Fatalf("expected a static dispatch to Object.copy, got %#v", method.Body)
	}
	if _, ok := dispatch.Receiver.(*ast.Self); !ok {
		t.Fatalf("expected receiver to be self, got %#v", dispatch.Receiver)
	}
}

func TestParseReportsSyntaxErrorAndRecovers(t *testing.T) {
	prog, diags := Parse(`
class Broken {
  oops: ;
};

class Main {
  main(): Object { 1 };
};
`, "t.cl")
	if !diags.HasErrors() {
		t.Fatal("expected a syntax error for the malformed attribute")
	}
	found := false
	for _, d := range diags.Entries() {
		if d.Code == diagnostics.CodeSyntaxError {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a COOL0001 syntax error among diagnostics: %s", diags.String())
	}
	if len(prog.Classes) < 1 {
		t.Fatal("expected the parser to recover and still produce at least one class")
	}
}
