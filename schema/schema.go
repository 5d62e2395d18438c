// Package schema describes the type graph that selections are compiled
// against.
//
// A Schema maps type names to Nodes. A Node is one of:
//
//	Scalar     terminal marker for scalars and enums
//	Ref        name of another type, optionally suffixed with "!"
//	List       wraps a single element type
//	FieldArgs  a field taking arguments: argument declarations plus payload type
//	Union      two or more member types, tried in declaration order
//	Object     ordered field name -> Node mapping
package schema

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/llehouerou/go-graphql-builder/types"
)

// Node is one entry of the schema model.
type Node interface {
	isNode()
}

// Scalar is the terminal marker of scalar and enum types.
type Scalar struct{}

// Ref names another type of the schema.
type Ref string

// List wraps an element type. Lists never add a selection block of their own.
type List struct {
	Of Node
}

// FieldArgs is a field that takes arguments.
type FieldArgs struct {
	Args []Arg
	// Data is the field's payload type. A nil Data makes the field
	// unselectable.
	Data Node
}

// Arg declares one argument of a FieldArgs node.
type Arg struct {
	Name string
	// Type is the argument type in SDL notation, e.g. "ID!" or "[String]".
	Type string
}

// Union lists member types in declaration order.
type Union []Node

// Object is an ordered set of fields.
type Object []Field

// Field is a named field of an Object. A nil Type is treated as undeclared.
type Field struct {
	Name string
	Type Node
}

func (Scalar) isNode()    {}
func (Ref) isNode()       {}
func (List) isNode()      {}
func (FieldArgs) isNode() {}
func (Union) isNode()     {}
func (Object) isNode()    {}

// Name returns the referenced type name without the non-null suffix.
func (r Ref) Name() string {
	return strings.TrimSuffix(string(r), types.NonNullSuffix)
}

// NonNull reports whether the reference is marked as non-null.
func (r Ref) NonNull() bool {
	return strings.HasSuffix(string(r), types.NonNullSuffix)
}

// Required reports whether the argument is non-null and must be supplied.
func (a Arg) Required() bool {
	return strings.HasSuffix(a.Type, types.NonNullSuffix)
}

// Arg returns the declared argument called name.
func (f FieldArgs) Arg(name string) (Arg, bool) {
	for _, a := range f.Args {
		if a.Name == name {
			return a, true
		}
	}
	return Arg{}, false
}

// HasRequiredArgs reports whether any declared argument is required.
func (f FieldArgs) HasRequiredArgs() bool {
	for _, a := range f.Args {
		if a.Required() {
			return true
		}
	}
	return false
}

// Field returns the definition of the field called name. Fields declared
// with a nil type are reported as absent.
func (o Object) Field(name string) (Node, bool) {
	for _, f := range o {
		if f.Name == name {
			return f.Type, f.Type != nil
		}
	}
	return nil, false
}

// Schema is a set of named type definitions.
type Schema struct {
	types map[string]Node
	// sdl is set when the schema was loaded from SDL and enables Validate.
	sdl *ast.Schema
}

// New returns a Schema over the given type definitions.
func New(defs map[string]Node) *Schema {
	s := &Schema{types: make(map[string]Node, len(defs))}
	for name, def := range defs {
		s.types[name] = def
	}
	return s
}

// Lookup resolves a type name. It reports false for unknown names; a
// known scalar resolves to Scalar{} and true.
func (s *Schema) Lookup(name string) (Node, bool) {
	def, ok := s.types[name]
	if !ok || def == nil {
		return nil, false
	}
	return def, true
}

// Len returns the number of type definitions.
func (s *Schema) Len() int {
	return len(s.types)
}
