package graphql

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/llehouerou/go-graphql-builder/internal/reflectutil"
	"github.com/llehouerou/go-graphql-builder/schema"
	"github.com/llehouerou/go-graphql-builder/types"
)

// Arguments are argument values of a field, rendered in order.
type Arguments []Argument

// Argument binds a value to a named field argument. Value is either a
// Variable or a literal that is rendered with fmt.Sprint. Nil values are
// omitted.
type Argument struct {
	Name  string
	Value any
}

// Arg is shorthand for an Argument.
func Arg(name string, value any) Argument {
	return Argument{Name: name, Value: value}
}

// Variable marks an argument value supplied at execution time. An empty
// Name defaults to the argument's own name.
type Variable struct {
	Name string
}

// Var returns a Variable declared under name.
func Var(name string) Variable {
	return Variable{Name: name}
}

// declaredName returns the variable name used for the argument called arg.
func (v Variable) declaredName(arg string) string {
	if v.Name == "" {
		return arg
	}
	return v.Name
}

// Quote renders v as a GraphQL string literal.
//
// E.g., Quote(`say "hi"`) -> `"say \"hi\""`.
func Quote(v any) string {
	b, _ := json.Marshal(fmt.Sprint(v))
	return string(b)
}

// writeArguments renders the argument list of a field taking arguments,
// registering every variable it references. It returns "" when no argument
// was rendered.
//
// E.g., Arguments{{"id", Var("")}, {"first", 10}} -> "(id: $id, first: 10)".
func writeArguments(args Arguments, field schema.FieldArgs, st *parseState) string {
	var pairs []string
	for _, a := range args {
		if reflectutil.IsNull(a.Value) {
			continue
		}
		value := a.Value
		if p, ok := value.(*Variable); ok {
			value = *p
		}
		var text string
		if v, ok := value.(Variable); ok {
			name := v.declaredName(a.Name)
			declared, _ := field.Arg(a.Name)
			st.registerVariable(variableBinding{
				name:     name,
				argument: a.Name,
				typ:      declared.Type,
			})
			text = types.VariablePrefix + name
		} else {
			text = fmt.Sprint(value)
		}
		pairs = append(pairs, a.Name+": "+text)
	}
	if len(pairs) == 0 {
		return ""
	}
	return "(" + strings.Join(pairs, ", ") + ")"
}
