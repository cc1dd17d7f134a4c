// Package symbols builds the class-hierarchy symbol table: class records
// with parent links, attribute and method tables, and the five
// pre-registered built-in classes.
package symbols

import (
	"github.com/coolang/coolc/internal/ast"
	"github.com/coolang/coolc/internal/config"
)

// AttrSymbol describes a single attribute slot.
type AttrSymbol struct {
	Name          string
	DeclaredType  string // may be config.SelfTypeName
	InitializerRef ast.Expr
	SourceOrder   int
	DefiningClass string
}

// MethodSymbol describes a method signature and body.
type MethodSymbol struct {
	Name          string
	FormalNames   []string
	FormalTypes   []string
	ReturnType    string // may be config.SelfTypeName
	BodyRef       ast.Expr
	DefiningClass string
}

// ClassSymbol is the registered record for one class, built-in or
// user-defined.
type ClassSymbol struct {
	Name          string
	ParentName    string // "" for Object itself
	HasParent     bool
	Attributes    map[string]*AttrSymbol
	AttributeOrder []string // preserves declaration order
	Methods       map[string]*MethodSymbol
	DefinitionRef *ast.Class // nil for built-ins
	IsBuiltin     bool
}

// SymbolTable maps class name to its ClassSymbol. Five built-in classes are
// pre-registered by NewSymbolTable.
type SymbolTable struct {
	classes map[string]*ClassSymbol
}

// NewEmptySymbolTable returns a table with no classes registered at all,
// useful for tests exercising registration logic in isolation.
func NewEmptySymbolTable() *SymbolTable {
	return &SymbolTable{classes: make(map[string]*ClassSymbol)}
}

// NewSymbolTable returns a table with the five built-in classes already
// registered.
func NewSymbolTable() *SymbolTable {
	st := NewEmptySymbolTable()
	st.registerBuiltins()
	return st
}

func (st *SymbolTable) newClass(name, parent string, hasParent bool) *ClassSymbol {
	return &ClassSymbol{
		Name:       name,
		ParentName: parent,
		HasParent:  hasParent,
		Attributes: make(map[string]*AttrSymbol),
		Methods:    make(map[string]*MethodSymbol),
		IsBuiltin:  true,
	}
}

func builtinBody(tag ast.BuiltinTag) ast.Expr {
	return &ast.Builtin{Tag: tag}
}

func (st *SymbolTable) registerBuiltins() {
	object := st.newClass(config.ObjectClassName, "", false)
	object.Methods["abort"] = &MethodSymbol{Name: "abort", ReturnType: config.ObjectClassName, BodyRef: builtinBody(ast.BuiltinObjectAbort), DefiningClass: config.ObjectClassName}
	object.Methods["type_name"] = &MethodSymbol{Name: "type_name", ReturnType: config.StringClassName, BodyRef: builtinBody(ast.BuiltinObjectTypeName), DefiningClass: config.ObjectClassName}
	object.Methods["copy"] = &MethodSymbol{Name: "copy", ReturnType: config.SelfTypeName, BodyRef: builtinBody(ast.BuiltinObjectCopy), DefiningClass: config.ObjectClassName}
	st.classes[config.ObjectClassName] = object

	io := st.newClass(config.IOClassName, config.ObjectClassName, true)
	io.Methods["out_string"] = &MethodSymbol{Name: "out_string", FormalNames: []string{"x"}, FormalTypes: []string{config.StringClassName}, ReturnType: config.SelfTypeName, BodyRef: builtinBody(ast.BuiltinIOOutString), DefiningClass: config.IOClassName}
	io.Methods["out_int"] = &MethodSymbol{Name: "out_int", FormalNames: []string{"x"}, FormalTypes: []string{config.IntClassName}, ReturnType: config.SelfTypeName, BodyRef: builtinBody(ast.BuiltinIOOutInt), DefiningClass: config.IOClassName}
	io.Methods["in_string"] = &MethodSymbol{Name: "in_string", ReturnType: config.StringClassName, BodyRef: builtinBody(ast.BuiltinIOInString), DefiningClass: config.IOClassName}
	io.Methods["in_int"] = &MethodSymbol{Name: "in_int", ReturnType: config.IntClassName, BodyRef: builtinBody(ast.BuiltinIOInInt), DefiningClass: config.IOClassName}
	st.classes[config.IOClassName] = io

	st.classes[config.IntClassName] = st.newClass(config.IntClassName, config.ObjectClassName, true)

	str := st.newClass(config.StringClassName, config.ObjectClassName, true)
	str.Methods["length"] = &MethodSymbol{Name: "length", ReturnType: config.IntClassName, BodyRef: builtinBody(ast.BuiltinStringLength), DefiningClass: config.StringClassName}
	str.Methods["concat"] = &MethodSymbol{Name: "concat", FormalNames: []string{"s"}, FormalTypes: []string{config.StringClassName}, ReturnType: config.StringClassName, BodyRef: builtinBody(ast.BuiltinStringConcat), DefiningClass: config.StringClassName}
	str.Methods["substr"] = &MethodSymbol{Name: "substr", FormalNames: []string{"i", "l"}, FormalTypes: []string{config.IntClassName, config.IntClassName}, ReturnType: config.StringClassName, BodyRef: builtinBody(ast.BuiltinStringSubstr), DefiningClass: config.StringClassName}
	st.classes[config.StringClassName] = str

	st.classes[config.BoolClassName] = st.newClass(config.BoolClassName, config.ObjectClassName, true)
}

// Lookup returns the ClassSymbol registered under name, if any.
func (st *SymbolTable) Lookup(name string) (*ClassSymbol, bool) {
	c, ok := st.classes[name]
	return c, ok
}

// Register adds a new user-defined class. Callers are responsible for
// duplicate/redefinition checks: Register always overwrites.
func (st *SymbolTable) Register(class *ast.Class) *ClassSymbol {
	parent := class.InheritsFrom
	if !class.HasInherits {
		parent = config.ObjectClassName
	}
	cs := &ClassSymbol{
		Name:          class.Name,
		ParentName:    parent,
		HasParent:     true,
		Attributes:    make(map[string]*AttrSymbol),
		Methods:       make(map[string]*MethodSymbol),
		DefinitionRef: class,
	}
	st.classes[class.Name] = cs
	return cs
}

// AddAttribute registers attr on cs, preserving declaration order for later
// object layout.
func (cs *ClassSymbol) AddAttribute(attr *AttrSymbol) {
	cs.Attributes[attr.Name] = attr
	cs.AttributeOrder = append(cs.AttributeOrder, attr.Name)
}

// Has reports whether name is already registered (built-in or user).
func (st *SymbolTable) Has(name string) bool {
	_, ok := st.classes[name]
	return ok
}

// ClassNames returns every registered class name in unspecified order,
// mostly useful for tests.
func (st *SymbolTable) ClassNames() []string {
	names := make([]string, 0, len(st.classes))
	for name := range st.classes {
		names = append(names, name)
	}
	return names
}

// Parents walks the ancestor chain of name, including name itself, up to and
// including Object. Callers must already know the chain is acyclic (Phase 1
// guarantees this); ok is false if name isn't registered.
func (st *SymbolTable) Parents(name string) ([]string, bool) {
	var chain []string
	cur := name
	for {
		cls, ok := st.classes[cur]
		if !ok {
			return nil, false
		}
		chain = append(chain, cur)
		if !cls.HasParent {
			break
		}
		cur = cls.ParentName
	}
	return chain, true
}

// IsSubtype reports whether sub is sub's-or-equal to super in the
// inheritance lattice rooted at Object.
func (st *SymbolTable) IsSubtype(sub, super string) bool {
	if sub == super {
		return true
	}
	chain, ok := st.Parents(sub)
	if !ok {
		return false
	}
	for _, c := range chain {
		if c == super {
			return true
		}
	}
	return false
}

// ResolveMethod walks from className upward (including className) and
// returns the most-derived MethodSymbol named method, if any.
func (st *SymbolTable) ResolveMethod(className, method string) (*MethodSymbol, bool) {
	chain, ok := st.Parents(className)
	if !ok {
		return nil, false
	}
	for _, c := range chain {
		if m, ok := st.classes[c].Methods[method]; ok {
			return m, true
		}
	}
	return nil, false
}

// ResolveAttribute walks from className upward and returns the AttrSymbol
// named attr, if any.
func (st *SymbolTable) ResolveAttribute(className, attr string) (*AttrSymbol, bool) {
	chain, ok := st.Parents(className)
	if !ok {
		return nil, false
	}
	for _, c := range chain {
		if a, ok := st.classes[c].Attributes[attr]; ok {
			return a, true
		}
	}
	return nil, false
}

// AllAttributesRootToLeaf returns every attribute of className, including
// inherited ones, ordered from Object downward to className and by
// SourceOrder within each class — the order object construction lays out
// attribute slots.
func (st *SymbolTable) AllAttributesRootToLeaf(className string) []*AttrSymbol {
	chain, ok := st.Parents(className)
	if !ok {
		return nil
	}
	var attrs []*AttrSymbol
	for i := len(chain) - 1; i >= 0; i-- {
		cls := st.classes[chain[i]]
		for _, name := range cls.AttributeOrder {
			attrs = append(attrs, cls.Attributes[name])
		}
	}
	return attrs
}
