package prettyprinter

import (
	"strings"
	"testing"

	"github.com/coolang/coolc/internal/parser"
)

func TestPrintRendersClassesAndMethodBodies(t *testing.T) {
	prog, diags := parser.Parse(`
class Main {
  x: Int <- 1;
  main(): Int { x + 2 };
};
`, "dump.cl")
	if diags.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", diags.String())
	}

	p := NewTreePrinter()
	p.Print(prog)
	out := p.String()

	for _, want := range []string{"Program", "Class Main inherits Object", "Attribute x: Int", "Method main(): Int", "BinaryOp +"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
