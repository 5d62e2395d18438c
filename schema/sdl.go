package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/llehouerou/go-graphql-builder/types"
)

// ErrNoSDL is returned by Validate when the schema was not loaded from SDL.
var ErrNoSDL = errors.New("schema was not loaded from SDL")

// FromSDL loads a schema written in the GraphQL schema definition language
// and converts it into the schema model.
//
// Objects and interfaces become Object nodes, scalars, enums and input
// objects become Scalar markers, unions become Union nodes of member
// references. Root operation types are reachable under their reserved names
// even when the SDL renames them.
func FromSDL(name, source string) (*Schema, error) {
	doc, err := gqlparser.LoadSchema(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, fmt.Errorf("failed to load schema %q: %w", name, err)
	}

	s := &Schema{
		types: make(map[string]Node, len(doc.Types)),
		sdl:   doc,
	}
	for typeName, def := range doc.Types {
		if isIntrospection(typeName) {
			continue
		}
		s.types[typeName] = definitionNode(def)
	}

	aliasRoot(s, types.QueryRoot, doc.Query)
	aliasRoot(s, types.MutationRoot, doc.Mutation)
	aliasRoot(s, types.SubscriptionRoot, doc.Subscription)

	return s, nil
}

// Validate checks a compiled document against the SDL the schema was loaded
// from. Documents must use typed variable definitions to validate.
func (s *Schema) Validate(document string) error {
	if s.sdl == nil {
		return ErrNoSDL
	}
	_, errs := gqlparser.LoadQuery(s.sdl, document)
	if len(errs) > 0 {
		return fmt.Errorf("invalid document: %w", errs)
	}
	return nil
}

func aliasRoot(s *Schema, reserved string, def *ast.Definition) {
	if def == nil || def.Name == reserved {
		return
	}
	if _, taken := s.types[reserved]; taken {
		return
	}
	s.types[reserved] = Ref(def.Name)
}

func definitionNode(def *ast.Definition) Node {
	switch def.Kind {
	case ast.Object, ast.Interface:
		obj := make(Object, 0, len(def.Fields))
		for _, f := range def.Fields {
			if isIntrospection(f.Name) {
				continue
			}
			obj = append(obj, Field{Name: f.Name, Type: fieldNode(f)})
		}
		return obj
	case ast.Union:
		if len(def.Types) == 1 {
			return Ref(def.Types[0])
		}
		members := make(Union, 0, len(def.Types))
		for _, member := range def.Types {
			members = append(members, Ref(member))
		}
		return members
	default:
		return Scalar{}
	}
}

func fieldNode(f *ast.FieldDefinition) Node {
	data := typeNode(f.Type)
	if len(f.Arguments) == 0 {
		return data
	}
	args := make([]Arg, 0, len(f.Arguments))
	for _, a := range f.Arguments {
		args = append(args, Arg{Name: a.Name, Type: a.Type.String()})
	}
	return FieldArgs{Args: args, Data: data}
}

func typeNode(t *ast.Type) Node {
	if t.Elem != nil {
		return List{Of: typeNode(t.Elem)}
	}
	if t.NonNull {
		return Ref(t.NamedType + types.NonNullSuffix)
	}
	return Ref(t.NamedType)
}

func isIntrospection(name string) bool {
	return strings.HasPrefix(name, "__")
}
