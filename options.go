package graphql

import (
	"fmt"
	"strings"
)

// OptionType identifies the kind of an Option.
type OptionType string

const (
	optionTypeOperationName OptionType = "operation_name"
	// OptionTypeOperationDirective marks an option whose String is a
	// directive applied to the operation, e.g. "@cached(ttl: 60)".
	OptionTypeOperationDirective OptionType = "operation_directive"
)

// Option configures a single compile call.
type Option interface {
	// Type returns the supported type of the option
	Type() OptionType
	// String returns the rendered option text
	String() string
}

// operationNameOption names the operation
type operationNameOption struct {
	name string
}

func (ono operationNameOption) Type() OptionType {
	return optionTypeOperationName
}

func (ono operationNameOption) String() string {
	return ono.name
}

// OperationName sets the operation name. It is rendered after the operation
// keyword and sent as the request's operationName.
func OperationName(name string) Option {
	return operationNameOption{name}
}

type constructOptionsOutput struct {
	operationName       string
	operationDirectives []string
}

func (coo constructOptionsOutput) OperationDirectivesString() string {
	return strings.Join(coo.operationDirectives, " ")
}

func constructOptions(options []Option) (*constructOptionsOutput, error) {
	output := &constructOptionsOutput{}

	for _, option := range options {
		switch option.Type() {
		case optionTypeOperationName:
			output.operationName = option.String()
		case OptionTypeOperationDirective:
			output.operationDirectives = append(
				output.operationDirectives,
				option.String(),
			)
		default:
			return nil, fmt.Errorf("%w: %s", ErrInvalidOption, option.Type())
		}
	}

	return output, nil
}
