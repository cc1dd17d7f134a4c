// Package analyzer implements the two-phase semantic analyzer: class
// registration & inheritance validation, then full expression
// type-checking.
package analyzer

import (
	"github.com/coolang/coolc/internal/ast"
	"github.com/coolang/coolc/internal/config"
	"github.com/coolang/coolc/internal/diagnostics"
	"github.com/coolang/coolc/internal/symbols"
)

// Analyzer performs semantic analysis of a Program, producing a populated
// SymbolTable on success or a bag of diagnostics on failure.
type Analyzer struct {
	st    *symbols.SymbolTable
	diags *diagnostics.Bag
}

// New creates an Analyzer with a fresh, builtin-populated symbol table.
func New() *Analyzer {
	return &Analyzer{st: symbols.NewSymbolTable(), diags: &diagnostics.Bag{}}
}

// Analyze runs both phases over prog. On success it returns the populated
// SymbolTable and ok=true. On failure (any Phase 1 error, or any Phase 2
// error) it returns ok=false; the Bag returned by Diagnostics() holds the
// full explanation. Phase 2 is skipped entirely if Phase 1 reported any
// error — analysis halts between phases once the hierarchy itself is
// unsound.
func (a *Analyzer) Analyze(prog *ast.Program) (*symbols.SymbolTable, bool) {
	a.phase1(prog)
	if a.diags.HasErrors() {
		return nil, false
	}
	a.phase2(prog)
	if a.diags.HasErrors() {
		return nil, false
	}
	return a.st, true
}

// Diagnostics returns every diagnostic accumulated across both phases.
func (a *Analyzer) Diagnostics() *diagnostics.Bag {
	return a.diags
}

// phase1 registers every user class and validates the inheritance graph.
func (a *Analyzer) phase1(prog *ast.Program) {
	seen := make(map[string]bool)
	for _, cls := range prog.Classes {
		if seen[cls.Name] {
			a.diags.Addf(diagnostics.Error, diagnostics.CodeDuplicateClass, cls.Position,
				"class %s is defined more than once", cls.Name)
			continue
		}
		if config.IsBuiltinClassName(cls.Name) {
			a.diags.Addf(diagnostics.Error, diagnostics.CodeRedefineBuiltin, cls.Position,
				"class %s redefines a built-in class", cls.Name)
			continue
		}
		if cls.HasInherits && config.IsPrimitiveClassName(cls.InheritsFrom) {
			a.diags.Addf(diagnostics.Error, diagnostics.CodeInheritFromPrimitive, cls.Position,
				"class %s cannot inherit from primitive class %s", cls.Name, cls.InheritsFrom)
			continue
		}
		seen[cls.Name] = true
		a.st.Register(cls)
	}

	if _, ok := a.st.Lookup(config.MainClassName); !ok {
		a.diags.Addf(diagnostics.Error, diagnostics.CodeMissingMain, diagnostics.NoPosition,
			"program has no class named %s", config.MainClassName)
	}

	for _, cls := range prog.Classes {
		if !seen[cls.Name] {
			continue
		}
		if cls.HasInherits {
			if !a.st.Has(cls.InheritsFrom) {
				a.diags.Addf(diagnostics.Error, diagnostics.CodeUndefinedParent, cls.Position,
					"class %s inherits from undefined class %s", cls.Name, cls.InheritsFrom)
			}
		}
	}

	if a.diags.HasErrors() {
		return
	}

	a.checkInheritanceCycles(prog)
	if a.diags.HasErrors() {
		return
	}

	// Register each class's features after its ancestors', so inherited
	// attributes and methods are already known when a subclass is checked.
	registered := make(map[string]bool)
	var register func(cls *ast.Class)
	register = func(cls *ast.Class) {
		if registered[cls.Name] {
			return
		}
		registered[cls.Name] = true
		if cs, ok := a.st.Lookup(cls.Name); ok && cs.HasParent {
			if parent, ok := a.st.Lookup(cs.ParentName); ok && parent.DefinitionRef != nil {
				register(parent.DefinitionRef)
			}
		}
		a.registerFeatures(cls)
	}
	for _, cls := range prog.Classes {
		register(cls)
	}
}

// checkInheritanceCycles performs a DFS over the parent relation with a
// recursion stack, emitting a single InheritanceCycle diagnostic for the
// first cycle found.
func (a *Analyzer) checkInheritanceCycles(prog *ast.Program) {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var stack []string

	var visit func(name string) bool // returns true once a cycle has been reported
	visit = func(name string) bool {
		if onStack[name] {
			cycleStart := 0
			for i, n := range stack {
				if n == name {
					cycleStart = i
					break
				}
			}
			cycle := append(append([]string{}, stack[cycleStart:]...), name)
			a.diags.Addf(diagnostics.Error, diagnostics.CodeInheritanceCycle, diagnostics.NoPosition,
				"inheritance cycle detected: %s", joinArrow(cycle))
			return true
		}
		if visited[name] {
			return false
		}
		cls, ok := a.st.Lookup(name)
		if !ok || cls.IsBuiltin || !cls.HasParent {
			visited[name] = true
			return false
		}
		visited[name] = true
		onStack[name] = true
		stack = append(stack, name)
		found := visit(cls.ParentName)
		stack = stack[:len(stack)-1]
		onStack[name] = false
		return found
	}

	for _, cls := range prog.Classes {
		if visit(cls.Name) {
			return
		}
	}
}

func joinArrow(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += " -> "
		}
		out += n
	}
	return out
}

// registerFeatures populates cs's attribute and method tables from its AST
// definition, checking for duplicate attribute names (including inherited
// ones) and override-consistency.
func (a *Analyzer) registerFeatures(cls *ast.Class) {
	cs, _ := a.st.Lookup(cls.Name)
	for _, feature := range cls.Features {
		switch f := feature.(type) {
		case *ast.Attribute:
			if _, dup := a.st.ResolveAttribute(cls.Name, f.Name); dup {
				a.diags.Addf(diagnostics.Error, diagnostics.CodeDuplicateAttribute, f.Position,
					"attribute %s is already defined in this class or an ancestor", f.Name)
				continue
			}
			cs.AddAttribute(&symbols.AttrSymbol{
				Name:           f.Name,
				DeclaredType:   f.DeclaredType,
				InitializerRef: f.Initializer,
				SourceOrder:    f.SourceOrder,
				DefiningClass:  cls.Name,
			})
		case *ast.Method:
			ms := &symbols.MethodSymbol{
				Name:          f.Name,
				ReturnType:    f.ReturnType,
				BodyRef:       f.Body,
				DefiningClass: cls.Name,
			}
			for _, formal := range f.Formals {
				ms.FormalNames = append(ms.FormalNames, formal.Name)
				ms.FormalTypes = append(ms.FormalTypes, formal.DeclaredType)
			}
			if cs.HasParent {
				if ancestor, ok := a.st.ResolveMethod(cs.ParentName, f.Name); ok {
					a.checkOverride(f, ancestor)
				}
			}
			cs.Methods[f.Name] = ms
		}
	}
}

// checkOverride enforces identical arity, formal types and return type
// between m and the ancestor method it overrides.
func (a *Analyzer) checkOverride(m *ast.Method, ancestor *symbols.MethodSymbol) {
	if len(m.Formals) != len(ancestor.FormalTypes) {
		a.diags.Addf(diagnostics.Error, diagnostics.CodeOverrideMismatch, m.Position,
			"method %s overrides %s.%s with a different number of arguments", m.Name, ancestor.DefiningClass, m.Name)
		return
	}
	for i, formal := range m.Formals {
		if formal.DeclaredType != ancestor.FormalTypes[i] {
			a.diags.Addf(diagnostics.Error, diagnostics.CodeOverrideMismatch, m.Position,
				"method %s overrides %s.%s with a different type for formal parameter %s", m.Name, ancestor.DefiningClass, m.Name, formal.Name)
			return
		}
	}
	if m.ReturnType != ancestor.ReturnType {
		a.diags.Addf(diagnostics.Error, diagnostics.CodeOverrideMismatch, m.Position,
			"method %s overrides %s.%s with a different return type", m.Name, ancestor.DefiningClass, m.Name)
	}
}
