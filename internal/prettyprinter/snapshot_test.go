package prettyprinter

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/coolang/coolc/internal/parser"
)

// TestPrintSnapshots covers full-class dumps where asserting the exact
// indented text inline would be unreadable; go-snaps keeps the expected
// tree in its own fixture and flags any drift.
func TestPrintSnapshots(t *testing.T) {
	sources := map[string]string{
		"arithmetic": `
class Main inherits IO {
  fact(n: Int): Int {
    if n = 0 then 1 else n * fact(n - 1) fi
  };
  main(): Object { out_int(fact(5)) };
};
`,
		"inheritance_and_case": `
class Animal {
  speak(): String { "..." };
};

class Dog inherits Animal {
  speak(): String { "Woof" };
};

class Main inherits IO {
  describe(a: Animal): String {
    case a of
      d: Dog => "a dog";
      x: Animal => "an animal";
    esac
  };
  main(): Object {
    let a: Animal <- new Dog in out_string(describe(a))
  };
};
`,
	}

	for name, src := range sources {
		prog, diags := parser.Parse(src, name+".cl")
		if diags.HasErrors() {
			t.Fatalf("%s: unexpected parse errors: %s", name, diags.String())
		}

		p := NewTreePrinter()
		p.Print(prog)
		snaps.MatchSnapshot(t, p.String())
	}
}
