package tagparser

import (
	"fmt"
	"strings"

	"github.com/llehouerou/go-graphql-builder/types"
)

// ParsedTag represents a parsed GraphQL struct tag.
type ParsedTag struct {
	// FieldName is the GraphQL field name.
	FieldName string
	// Arguments are the argument pairs inside parentheses, in order.
	Arguments []Argument
	// IsFragment indicates whether this is an inline fragment ("...").
	IsFragment bool
	// TypeName is the typename for fragments ("... on TypeName").
	TypeName string
}

// Argument is one "name: value" pair of a tag's argument list.
type Argument struct {
	Name string
	// Value is the literal text of the value, or the variable name when
	// Variable is set.
	Value    string
	Variable bool
}

// ParseGraphQLTag parses a GraphQL struct tag value and returns structured information.
// Examples:
//   - "name" -> {FieldName: "name"}
//   - "height(unit: METER)" -> {FieldName: "height", Arguments: [{unit METER}]}
//   - "node(id: $id)" -> {FieldName: "node", Arguments: [{id id Variable}]}
//   - "... on Droid" -> {IsFragment: true, TypeName: "Droid"}
func ParseGraphQLTag(tag string) (ParsedTag, error) {
	tag = strings.TrimSpace(tag)
	var parsed ParsedTag

	// Handle empty string
	if tag == "" {
		return parsed, nil
	}

	// Handle skip field
	if tag == "-" {
		parsed.FieldName = "-"
		return parsed, nil
	}

	// Handle fragments
	if strings.HasPrefix(tag, types.FragmentPrefix) {
		parsed.IsFragment = true
		remaining := strings.TrimSpace(tag[len(types.FragmentPrefix):])
		// Check for "on TypeName"
		if strings.HasPrefix(remaining, "on ") {
			parsed.TypeName = strings.TrimSpace(remaining[3:])
		}
		return parsed, nil
	}

	parenIdx := strings.Index(tag, "(")
	if parenIdx == -1 {
		parsed.FieldName = tag
		return parsed, nil
	}

	closeIdx := strings.LastIndex(tag, ")")
	if closeIdx < parenIdx {
		return parsed, fmt.Errorf("unbalanced parentheses in tag %q", tag)
	}
	parsed.FieldName = strings.TrimSpace(tag[:parenIdx])
	args, err := ParseArguments(tag[parenIdx+1 : closeIdx])
	if err != nil {
		return parsed, fmt.Errorf("tag %q: %w", tag, err)
	}
	parsed.Arguments = args

	return parsed, nil
}

// ParseArguments splits an argument list such as `id: $id, name: "a, b"`
// into pairs. Commas inside strings, lists and objects do not split.
func ParseArguments(list string) ([]Argument, error) {
	var args []Argument
	for _, part := range splitTopLevel(list) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		colonIdx := strings.Index(part, ":")
		if colonIdx == -1 {
			return nil, fmt.Errorf("argument %q has no value", part)
		}
		arg := Argument{
			Name:  strings.TrimSpace(part[:colonIdx]),
			Value: strings.TrimSpace(part[colonIdx+1:]),
		}
		if arg.Name == "" || arg.Value == "" {
			return nil, fmt.Errorf("malformed argument %q", part)
		}
		if strings.HasPrefix(arg.Value, types.VariablePrefix) {
			arg.Variable = true
			arg.Value = arg.Value[len(types.VariablePrefix):]
		}
		args = append(args, arg)
	}
	return args, nil
}

func splitTopLevel(list string) []string {
	var parts []string
	depth := 0
	inString := false
	escaped := false
	start := 0
	for i, r := range list {
		switch {
		case escaped:
			escaped = false
		case inString && r == '\\':
			escaped = true
		case r == '"':
			inString = !inString
		case inString:
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			depth--
		case r == ',' && depth == 0:
			parts = append(parts, list[start:i])
			start = i + 1
		}
	}
	return append(parts, list[start:])
}
