package graphql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"

	"github.com/llehouerou/go-graphql-builder/types"
)

// Reserved keys of the JSON selection encoding.
const (
	jsonArgsKey     = "$args"
	jsonFragmentKey = "$fragment"
	jsonOnKey       = "$on"
	jsonSelectKey   = "$select"
)

// ErrInvalidSelection is wrapped by every error UnmarshalSelection returns.
var ErrInvalidSelection = errors.New("invalid selection")

// UnmarshalSelection decodes a selection written as JSON:
//
//	true / false                          Bool
//	"text"                                Raw
//	{"field": sel, ...}                   Fields, in document order
//	[sel, sel, ...]                       Merge
//	[{"$args": {...}}, sel, ...]          WithArgs
//	{"$fragment": "F", "$on": "T",
//	 "$select": sel}                      Fragment
//	{"$on": "T", "$select": sel}          InlineFragment
//
// Argument values are rendered verbatim, except "$name" which binds the
// variable name and "$" which binds a variable named after the argument.
// String literals therefore carry their own quotes: {"name": "\"octo\""}.
func UnmarshalSelection(data []byte) (Selection, error) {
	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}
	return decodeSelection(value, dataType, "$")
}

func decodeSelection(data []byte, dataType jsonparser.ValueType, path string) (Selection, error) {
	switch dataType {
	case jsonparser.Null:
		return nil, nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSelection, path, err)
		}
		return Bool(b), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSelection, path, err)
		}
		return Raw(s), nil
	case jsonparser.Object:
		return decodeObjectSelection(data, path)
	case jsonparser.Array:
		return decodeArraySelection(data, path)
	default:
		return nil, fmt.Errorf("%w: %s: unexpected %s", ErrInvalidSelection, path, dataType)
	}
}

func decodeObjectSelection(data []byte, path string) (Selection, error) {
	if on, err := jsonparser.GetString(data, jsonOnKey); err == nil {
		inner, innerType, _, err := jsonparser.Get(data, jsonSelectKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: fragment on %s has no %s", ErrInvalidSelection, path, on, jsonSelectKey)
		}
		sel, err := decodeSelection(inner, innerType, path+"."+jsonSelectKey)
		if err != nil {
			return nil, err
		}
		if name, err := jsonparser.GetString(data, jsonFragmentKey); err == nil {
			return Fragment{Name: name, On: on, Select: sel}, nil
		}
		return InlineFragment{On: on, Select: sel}, nil
	}

	fields := Fields{}
	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSelection, path, err)
		}
		sel, err := decodeSelection(value, dataType, path+"."+name)
		if err != nil {
			return err
		}
		fields = append(fields, Field(name, sel))
		return nil
	})
	if err != nil {
		return nil, wrapSelectionError(err, path)
	}
	return fields, nil
}

func decodeArraySelection(data []byte, path string) (Selection, error) {
	type element struct {
		data     []byte
		dataType jsonparser.ValueType
	}
	var elems []element
	var cbErr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if err != nil {
			cbErr = err
			return
		}
		elems = append(elems, element{data: value, dataType: dataType})
	})
	if err == nil {
		err = cbErr
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSelection, path, err)
	}

	var args Arguments
	withArgs := false
	if len(elems) > 0 && elems[0].dataType == jsonparser.Object {
		if raw, _, _, err := jsonparser.Get(elems[0].data, jsonArgsKey); err == nil {
			args, err = decodeArguments(raw, fmt.Sprintf("%s[0].%s", path, jsonArgsKey))
			if err != nil {
				return nil, err
			}
			withArgs = true
			elems = elems[1:]
		}
	}

	sels := make([]Selection, 0, len(elems))
	for i, el := range elems {
		sel, err := decodeSelection(el.data, el.dataType, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)
	}
	if withArgs {
		return WithArgs{Args: args, Select: sels}, nil
	}
	return Merge(sels), nil
}

func decodeArguments(data []byte, path string) (Arguments, error) {
	args := Arguments{}
	err := jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidSelection, path, err)
		}
		switch dataType {
		case jsonparser.Null:
			args = append(args, Arg(name, nil))
		case jsonparser.String:
			s, err := jsonparser.ParseString(value)
			if err != nil {
				return fmt.Errorf("%w: %s.%s: %v", ErrInvalidSelection, path, name, err)
			}
			if strings.HasPrefix(s, types.VariablePrefix) {
				args = append(args, Arg(name, Var(s[len(types.VariablePrefix):])))
			} else {
				args = append(args, Arg(name, s))
			}
		default:
			args = append(args, Arg(name, string(value)))
		}
		return nil
	})
	if err != nil {
		return nil, wrapSelectionError(err, path)
	}
	return args, nil
}

// wrapSelectionError wraps parser errors that did not come from a decoding
// callback.
func wrapSelectionError(err error, path string) error {
	if errors.Is(err, ErrInvalidSelection) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrInvalidSelection, path, err)
}
