package evaluator

import "fmt"

// Value is any runtime value: the three primitives, the single Void, or an
// Object instance of a user or built-in class.
type Value interface {
	ClassName() string
	Inspect() string
}

// IntValue is a 32-bit signed integer.
type IntValue int32

func (v IntValue) ClassName() string { return "Int" }
func (v IntValue) Inspect() string   { return fmt.Sprintf("%d", int32(v)) }

// StringValue is an immutable byte-wise string.
type StringValue string

func (v StringValue) ClassName() string { return "String" }
func (v StringValue) Inspect() string   { return string(v) }

// BoolValue is true or false.
type BoolValue bool

func (v BoolValue) ClassName() string { return "Bool" }
func (v BoolValue) Inspect() string {
	if v {
		return "true"
	}
	return "false"
}

// VoidValue is the single void value produced by an uninitialized Object
// slot. There is exactly one Void; comparisons against it use ==.
type VoidValue struct{}

func (VoidValue) ClassName() string { return "" }
func (VoidValue) Inspect() string   { return "void" }

// Void is the sole void value.
var Void = VoidValue{}

// Slot is a mutable attribute or local-variable cell. Values are boxed in
// slots (rather than stored directly) so Assign and attribute mutation are
// visible to every alias of the same Object.
type Slot struct {
	V Value
}

// Object is a runtime instance of a user-defined or built-in reference
// class. Attribute slots are addressed by name; Object and IO instances use
// the same struct with an empty slot set. Int, String and Bool values are
// never Objects: they are IntValue, StringValue and BoolValue.
type Object struct {
	Class string
	Slots map[string]*Slot
}

func (o *Object) ClassName() string { return o.Class }
func (o *Object) Inspect() string   { return "<" + o.Class + " instance>" }

// NewObjectShell allocates an Object of class with an empty slot table; it
// does not run any initializers.
func NewObjectShell(class string) *Object {
	return &Object{Class: class, Slots: make(map[string]*Slot)}
}
