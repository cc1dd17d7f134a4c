package analyzer

import (
	"github.com/coolang/coolc/internal/symbols"
	"github.com/coolang/coolc/internal/typesystem"
)

// lub computes the least upper bound of a and b in the inheritance lattice
// rooted at Object. SELF_TYPE[C] behaves as C for the walk, except when
// both operands are SELF_TYPE[C] for the very same C, in which case the
// result is SELF_TYPE[C] itself.
func lub(st *symbols.SymbolTable, a, b typesystem.Type) typesystem.Type {
	if a.IsSelf && b.IsSelf && a.Class == b.Class {
		return a
	}

	aChain, _ := st.Parents(a.LookupClass())
	bSet := make(map[string]bool)
	for _, c := range mustParents(st, b.LookupClass()) {
		bSet[c] = true
	}
	for _, c := range aChain {
		if bSet[c] {
			return typesystem.Concrete(c)
		}
	}
	return typesystem.Concrete("Object")
}

func mustParents(st *symbols.SymbolTable, class string) []string {
	chain, _ := st.Parents(class)
	return chain
}

// lubAll folds lub across types, left to right. types must be non-empty.
func lubAll(st *symbols.SymbolTable, types []typesystem.Type) typesystem.Type {
	result := types[0]
	for _, t := range types[1:] {
		result = lub(st, result, t)
	}
	return result
}
