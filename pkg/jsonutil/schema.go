// Package jsonutil decodes JSON schema payloads into the schema model.
package jsonutil

import (
	"errors"
	"fmt"

	"github.com/buger/jsonparser"

	"github.com/llehouerou/go-graphql-builder/schema"
)

// ErrInvalidSchema is wrapped by every error UnmarshalSchema returns for a
// payload that does not describe a schema.
var ErrInvalidSchema = errors.New("invalid schema payload")

// rawValue is one undecoded JSON value.
type rawValue struct {
	data     []byte
	dataType jsonparser.ValueType
}

// UnmarshalSchema decodes a schema payload: a JSON object mapping type names
// to definitions. A definition is
//
//	""                       scalar or enum
//	"Name" / "Name!"         reference
//	[def]                    list
//	[{"arg": "Type"}, def]   field with arguments
//	[[...], def]             field without declared arguments
//	[def, def, ...]          union
//	{"field": def, ...}      object
//
// Object field order is preserved.
func UnmarshalSchema(data []byte) (*schema.Schema, error) {
	_, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if dataType != jsonparser.Object {
		return nil, fmt.Errorf("%w: expected an object, got %s", ErrInvalidSchema, dataType)
	}

	defs := make(map[string]schema.Node)
	err = jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			return fmt.Errorf("%w: type name: %v", ErrInvalidSchema, err)
		}
		node, err := decodeNode(value, dataType, name)
		if err != nil {
			return err
		}
		if node != nil {
			defs[name] = node
		}
		return nil
	})
	if err != nil {
		return nil, wrapSchemaError(err, "$")
	}
	return schema.New(defs), nil
}

// decodeNode decodes one definition. It returns a nil Node for null and
// false, which declare nothing.
func decodeNode(data []byte, dataType jsonparser.ValueType, path string) (schema.Node, error) {
	switch dataType {
	case jsonparser.Null:
		return nil, nil
	case jsonparser.Boolean:
		if b, err := jsonparser.ParseBoolean(data); err == nil && !b {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s: unexpected boolean", ErrInvalidSchema, path)
	case jsonparser.String:
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSchema, path, err)
		}
		if s == "" {
			return schema.Scalar{}, nil
		}
		return schema.Ref(s), nil
	case jsonparser.Array:
		return decodeSequence(data, path)
	case jsonparser.Object:
		return decodeObject(data, path)
	default:
		return nil, fmt.Errorf("%w: %s: unexpected %s", ErrInvalidSchema, path, dataType)
	}
}

func decodeSequence(data []byte, path string) (schema.Node, error) {
	elems, err := arrayElements(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSchema, path, err)
	}

	switch {
	case len(elems) == 0:
		return nil, fmt.Errorf("%w: %s: empty sequence", ErrInvalidSchema, path)
	case len(elems) == 1:
		of, err := decodeNode(elems[0].data, elems[0].dataType, path+"[0]")
		if err != nil {
			return nil, err
		}
		return schema.List{Of: of}, nil
	case len(elems) == 2 && isArgsSpec(elems[0].dataType):
		var args []schema.Arg
		if elems[0].dataType == jsonparser.Object {
			args, err = decodeArgs(elems[0].data, path+"[0]")
			if err != nil {
				return nil, err
			}
		}
		data, err := decodeNode(elems[1].data, elems[1].dataType, path+"[1]")
		if err != nil {
			return nil, err
		}
		return schema.FieldArgs{Args: args, Data: data}, nil
	}

	members := make(schema.Union, 0, len(elems))
	for i, el := range elems {
		member, err := decodeNode(el.data, el.dataType, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		if member != nil {
			members = append(members, member)
		}
	}
	return members, nil
}

// isArgsSpec reports whether the first of two sequence elements makes the
// sequence a field with arguments rather than a union. Only an object
// declares arguments; an array declares none.
func isArgsSpec(dataType jsonparser.ValueType) bool {
	return dataType == jsonparser.Object || dataType == jsonparser.Array
}

func decodeObject(data []byte, path string) (schema.Node, error) {
	var obj schema.Object
	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			return fmt.Errorf("%w: %s: field name: %v", ErrInvalidSchema, path, err)
		}
		node, err := decodeNode(value, dataType, path+"."+name)
		if err != nil {
			return err
		}
		obj = append(obj, schema.Field{Name: name, Type: node})
		return nil
	})
	if err != nil {
		return nil, wrapSchemaError(err, path)
	}
	if obj == nil {
		obj = schema.Object{}
	}
	return obj, nil
}

func decodeArgs(data []byte, path string) ([]schema.Arg, error) {
	var args []schema.Arg
	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			return fmt.Errorf("%w: %s: argument name: %v", ErrInvalidSchema, path, err)
		}
		if dataType == jsonparser.Null {
			args = append(args, schema.Arg{Name: name})
			return nil
		}
		if dataType != jsonparser.String {
			return fmt.Errorf("%w: %s.%s: argument type must be a string, got %s", ErrInvalidSchema, path, name, dataType)
		}
		typ, err := jsonparser.ParseString(value)
		if err != nil {
			return fmt.Errorf("%w: %s.%s: %v", ErrInvalidSchema, path, name, err)
		}
		args = append(args, schema.Arg{Name: name, Type: typ})
		return nil
	})
	if err != nil {
		return nil, wrapSchemaError(err, path)
	}
	return args, nil
}

// wrapSchemaError wraps parser errors that did not come from a decoding
// callback.
func wrapSchemaError(err error, path string) error {
	if errors.Is(err, ErrInvalidSchema) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrInvalidSchema, path, err)
}

func arrayElements(data []byte) ([]rawValue, error) {
	var elems []rawValue
	var cbErr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if err != nil {
			cbErr = err
			return
		}
		elems = append(elems, rawValue{data: value, dataType: dataType})
	})
	if err != nil {
		return nil, err
	}
	return elems, cbErr
}
