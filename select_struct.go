package graphql

import (
	"fmt"
	"reflect"

	"github.com/iancoleman/strcase"

	"github.com/llehouerou/go-graphql-builder/internal/reflectutil"
	"github.com/llehouerou/go-graphql-builder/internal/tagparser"
	"github.com/llehouerou/go-graphql-builder/types"
)

// SelectStruct derives a selection from the shape of a struct.
//
// Every exported field selects the GraphQL field named by its `graphql` tag,
// or by its Go name in lowerCamelCase. Struct fields select their own fields;
// other types, structs unmarshaling themselves, and fields tagged
// `scalar:"true"` select everything. Tags may carry arguments, where "$name"
// binds a variable, and "... on Type" turns a field into an inline fragment:
//
//	struct {
//		Repository struct {
//			Name  string
//			Owner struct{ Login string }
//		} `graphql:"repository(owner: $owner, name: \"octo\")"`
//	}
//
// Embedded structs without a tag are inlined into the parent.
func SelectStruct(v any) (Selection, error) {
	t := reflectutil.IndirectType(reflect.TypeOf(v))
	if !reflectutil.IsSelectableStruct(t) {
		return nil, fmt.Errorf("cannot select from %T: not a struct", v)
	}
	return selectStructType(t)
}

func selectStructType(t reflect.Type) (Selection, error) {
	var fields Fields
	var fragments Merge
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		tag, hasTag := f.Tag.Lookup(types.GraphQLTag)
		parsed, err := tagparser.ParseGraphQLTag(tag)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		if parsed.FieldName == "-" {
			continue
		}

		if parsed.IsFragment {
			inner, err := selectFieldType(f)
			if err != nil {
				return nil, err
			}
			fragments = append(fragments, InlineFragment{On: parsed.TypeName, Select: inner})
			continue
		}

		if f.Anonymous && !hasTag {
			inner, err := selectFieldType(f)
			if err != nil {
				return nil, err
			}
			switch s := inner.(type) {
			case Fields:
				fields = append(fields, s...)
			case Merge:
				for _, entry := range s {
					if nested, ok := entry.(Fields); ok {
						fields = append(fields, nested...)
					} else {
						fragments = append(fragments, entry)
					}
				}
			}
			continue
		}

		name := parsed.FieldName
		if name == "" {
			name = strcase.ToLowerCamel(f.Name)
		}
		sel, err := selectFieldType(f)
		if err != nil {
			return nil, err
		}
		if len(parsed.Arguments) > 0 {
			sel = Args(structArguments(parsed.Arguments), sel)
		}
		fields = append(fields, Field(name, sel))
	}

	if len(fragments) == 0 {
		return fields, nil
	}
	if len(fields) == 0 {
		return fragments, nil
	}
	return append(Merge{fields}, fragments...), nil
}

func selectFieldType(f reflect.StructField) (Selection, error) {
	if reflectutil.TagFlag(f, types.ScalarTag) {
		return All, nil
	}
	t := reflectutil.IndirectType(f.Type)
	if !reflectutil.IsSelectableStruct(t) {
		return All, nil
	}
	sel, err := selectStructType(t)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", f.Name, err)
	}
	return sel, nil
}

func structArguments(parsed []tagparser.Argument) Arguments {
	args := make(Arguments, 0, len(parsed))
	for _, a := range parsed {
		if a.Variable {
			args = append(args, Arg(a.Name, Var(a.Value)))
			continue
		}
		args = append(args, Arg(a.Name, a.Value))
	}
	return args
}
