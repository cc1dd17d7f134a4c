// Package typesystem represents Cool's static types: plain class names plus
// the SELF_TYPE[C] pseudo-type, parameterized by the enclosing class C.
// SELF_TYPE is never the dynamic class of a runtime value — values always
// carry a concrete class.
package typesystem

// Type is either a concrete class name, or SELF_TYPE[Class] — "the dynamic
// class of the receiver, constrained to be <= Class".
type Type struct {
	Class    string // concrete class name, or the binding class C for SELF_TYPE
	IsSelf   bool
}

// Concrete returns the (non-SELF_TYPE) type named class.
func Concrete(class string) Type {
	return Type{Class: class}
}

// SelfType returns SELF_TYPE[class].
func SelfType(class string) Type {
	return Type{Class: class, IsSelf: true}
}

// LookupClass is the class to use when resolving members on a value of this
// type: SELF_TYPE[C] resolves exactly as C would.
func (t Type) LookupClass() string {
	return t.Class
}

// String renders the type the way spec diagnostics do: either a class name
// or the literal "SELF_TYPE".
func (t Type) String() string {
	if t.IsSelf {
		return "SELF_TYPE"
	}
	return t.Class
}

// Equal reports structural equality: same concrete class, and agreement on
// whether both are SELF_TYPE of that class.
func (t Type) Equal(other Type) bool {
	return t.Class == other.Class && t.IsSelf == other.IsSelf
}
