package graphql

import (
	"fmt"
	"strings"

	"github.com/llehouerou/go-graphql-builder/types"
)

// OperationKind is the keyword of an operation.
type OperationKind string

const (
	QueryOperation        OperationKind = "query"
	MutationOperation     OperationKind = "mutation"
	SubscriptionOperation OperationKind = "subscription"
)

// root returns the schema root type name for k. Unknown kinds compile
// against the query root.
func (k OperationKind) root() string {
	switch k {
	case MutationOperation:
		return types.MutationRoot
	case SubscriptionOperation:
		return types.SubscriptionRoot
	default:
		return types.QueryRoot
	}
}

// BuiltQuery is a selection bound to an operation kind. It is never
// modified by compiling it.
type BuiltQuery struct {
	kind      OperationKind
	selection Selection
}

// NewBuiltQuery binds sel to the operation kind.
func NewBuiltQuery(kind OperationKind, sel Selection) BuiltQuery {
	return BuiltQuery{kind: kind, selection: sel}
}

// Kind returns the operation kind.
func (q BuiltQuery) Kind() OperationKind {
	return q.kind
}

// Selection returns the selection.
func (q BuiltQuery) Selection() Selection {
	return q.selection
}

// Compile builds the document text of q.
//
// A Raw selection is returned unmodified. Otherwise the selection is compiled
// against the schema root of the operation kind, and the hoisted fragments
// are followed by a blank line and the operation:
//
//	fragment UserFields on User {
//	id
//	}
//
//	query (id: $id) {
//	user (id: $id) { ...UserFields }
//	}
//
// A selection that selects nothing yields the empty block "{}". The only
// schema-related failure is a missing root type, reported as
// ErrRootNotFound.
func (b *Builder) Compile(q BuiltQuery, options ...Option) (string, error) {
	if raw, ok := q.selection.(Raw); ok {
		return string(raw), nil
	}

	optionsOutput, err := constructOptions(options)
	if err != nil {
		return "", err
	}

	rootName := q.kind.root()
	root, ok := b.schema.Lookup(rootName)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRootNotFound, rootName)
	}

	st := newParseState()
	c := &compiler{schema: b.schema, log: b.log, state: st}
	body := "{}"
	if r, ok := c.resolve(q.selection, root, nil); ok {
		body = r.render()
	}
	if st.err != nil {
		return "", fmt.Errorf("failed to compile %s: %w", q.kind, st.err)
	}

	signature, err := st.signature(b.typedVariables)
	if err != nil {
		return "", fmt.Errorf("failed to compile %s: %w", q.kind, err)
	}

	header := []string{string(q.kind)}
	for _, part := range []string{
		optionsOutput.operationName,
		signature,
		optionsOutput.OperationDirectivesString(),
	} {
		if part != "" {
			header = append(header, part)
		}
	}
	operation := strings.Join(header, " ") + " " + body

	fragments := st.fragmentBlocks()
	if len(fragments) == 0 {
		return operation, nil
	}
	return strings.Join(fragments, "\n") + "\n\n" + operation, nil
}
