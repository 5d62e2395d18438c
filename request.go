package graphql

import (
	"encoding/json"
	"fmt"
)

// Request is the JSON payload a document is sent in.
type Request struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// JSON serializes the request for transport.
func (r *Request) JSON() ([]byte, error) {
	return json.Marshal(r)
}

// CompileRequest compiles q and wraps the document with the variable values
// to execute it with. Empty variable maps are left out.
func (b *Builder) CompileRequest(
	q BuiltQuery,
	variables map[string]any,
	options ...Option,
) (*Request, error) {
	document, err := b.Compile(q, options...)
	if err != nil {
		return nil, err
	}
	optionsOutput, err := constructOptions(options)
	if err != nil {
		return nil, err
	}
	req := &Request{
		OperationName: optionsOutput.operationName,
		Query:         document,
	}
	if len(variables) > 0 {
		req.Variables = variables
	}
	return req, nil
}

// CompileJSON compiles q into the serialized request payload.
func (b *Builder) CompileJSON(
	q BuiltQuery,
	variables map[string]any,
	options ...Option,
) (string, error) {
	req, err := b.CompileRequest(q, variables, options...)
	if err != nil {
		return "", err
	}
	data, err := req.JSON()
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}
	return string(data), nil
}
