package evaluator

import (
	"strings"
	"testing"

	"github.com/coolang/coolc/internal/analyzer"
	"github.com/coolang/coolc/internal/parser"
)

// run parses, analyzes and evaluates source, failing the test on any parse
// or analysis error, and returns the program's stdout plus any runtime
// Signal.
func run(t *testing.T, source, stdin string) (string, *Signal) {
	t.Helper()
	prog, parseDiags := parser.Parse(source, "test.cl")
	if parseDiags.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", parseDiags.String())
	}
	a := analyzer.New()
	st, ok := a.Analyze(prog)
	if !ok {
		t.Fatalf("unexpected analysis errors: %s", a.Diagnostics().String())
	}
	var out strings.Builder
	e := New(st, &out, strings.NewReader(stdin))
	_, sig := e.Run("Main")
	return out.String(), sig
}

func TestArithmeticAndOutput(t *testing.T) {
	out, sig := run(t, `
class Main {
  main(): Object {
    (new IO).out_int(3 + 4)
  };
};
`, "")
	if sig != nil {
		t.Fatalf("unexpected signal: %v", sig)
	}
	if out != "7" {
		t.Errorf("expected %q, got %q", "7", out)
	}
}

func TestWhileLoopAccumulates(t *testing.T) {
	out, sig := run(t, `
class Main {
  main(): Object {
    let i: Int <- 0, sum: Int <- 0 in {
      while i < 5 loop {
        sum <- sum + i;
        i <- i + 1;
      } pool;
      (new IO).out_int(sum);
    }
  };
};
`, "")
	if sig != nil {
		t.Fatalf("unexpected signal: %v", sig)
	}
	if out != "10" {
		t.Errorf("expected %q, got %q", "10", out)
	}
}

func TestDynamicDispatchPicksOverride(t *testing.T) {
	out, sig := run(t, `
class Animal {
  speak(): String { "..." };
  greet(): Object { (new IO).out_string(self.speak()) };
};
class Dog inherits Animal {
  speak(): String { "woof" };
};
class Main {
  main(): Object { (new Dog).greet() };
};
`, "")
	if sig != nil {
		t.Fatalf("unexpected signal: %v", sig)
	}
	if out != "woof" {
		t.Errorf("expected %q, got %q", "woof", out)
	}
}

func TestStaticDispatchBypassesOverride(t *testing.T) {
	out, sig := run(t, `
class Animal {
  speak(): String { "..." };
};
class Dog inherits Animal {
  speak(): String { "woof" };
  greet(): Object { (new IO).out_string(self@Animal.speak()) };
};
class Main {
  main(): Object { (new Dog).greet() };
};
`, "")
	if sig != nil {
		t.Fatalf("unexpected signal: %v", sig)
	}
	if out != "..." {
		t.Errorf("expected %q, got %q", "...", out)
	}
}

func TestDivisionByZeroSignal(t *testing.T) {
	_, sig := run(t, `
class Main {
  main(): Object { (new IO).out_int(1 / 0) };
};
`, "")
	if sig == nil {
		t.Fatalf("expected a division-by-zero signal")
	}
	if sig.Code != "COOL0301" {
		t.Errorf("expected COOL0301, got %s", sig.Code)
	}
}

func TestSubstrOutOfRangeSignal(t *testing.T) {
	_, sig := run(t, `
class Main {
  main(): Object { (new IO).out_string("abc".substr(1, 10)) };
};
`, "")
	if sig == nil {
		t.Fatalf("expected a substr-out-of-range signal")
	}
	if sig.Code != "COOL0302" {
		t.Errorf("expected COOL0302, got %s", sig.Code)
	}
}

func TestCaseSelectsClosestAncestorBranch(t *testing.T) {
	out, sig := run(t, `
class A { };
class B inherits A { };
class Main {
  main(): Object {
    case (new B) of
      x: B => (new IO).out_string("B");
      y: A => (new IO).out_string("A");
    esac
  };
};
`, "")
	if sig != nil {
		t.Fatalf("unexpected signal: %v", sig)
	}
	if out != "B" {
		t.Errorf("expected %q, got %q", "B", out)
	}
}

func TestAttributeDefaultsToVoidWithoutInitializer(t *testing.T) {
	out, sig := run(t, `
class Holder {
  thing: Object;
  check(): Object { (new IO).out_string(if isvoid thing then "void" else "set" fi) };
};
class Main {
  main(): Object { (new Holder).check() };
};
`, "")
	if sig != nil {
		t.Fatalf("unexpected signal: %v", sig)
	}
	if out != "void" {
		t.Errorf("expected %q, got %q", "void", out)
	}
}

func TestStringBuiltins(t *testing.T) {
	out, sig := run(t, `
class Main {
  main(): Object {
    (new IO).out_string("hello".concat(" world"))
  };
};
`, "")
	if sig != nil {
		t.Fatalf("unexpected signal: %v", sig)
	}
	if out != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", out)
	}
}

func TestAbortCalledSignal(t *testing.T) {
	_, sig := run(t, `
class Main {
  main(): Object { self.abort() };
};
`, "")
	if sig == nil {
		t.Fatalf("expected an abort signal")
	}
	if sig.Code != "COOL0303" {
		t.Errorf("expected COOL0303, got %s", sig.Code)
	}
}
