package graphql

import (
	"github.com/jensneuse/abstractlogger"

	"github.com/llehouerou/go-graphql-builder/pkg/jsonutil"
	"github.com/llehouerou/go-graphql-builder/schema"
)

// Builder compiles selections against one schema.
//
// # Immutable Pattern
//
// The Builder's With* methods return a new Builder instead of modifying the
// receiver, so one Builder can be shared between goroutines and configured
// per use:
//
//	b = b.WithTypedVariables(true)  // Correct
//	b.WithTypedVariables(true)      // Wrong - original builder unchanged
//
// Every compile call allocates its own registries, so concurrent calls on
// the same Builder are safe.
type Builder struct {
	schema         *schema.Schema
	log            abstractlogger.Logger
	typedVariables bool
}

// NewBuilder creates a Builder bound to s. A nil schema behaves like an
// empty one.
func NewBuilder(s *schema.Schema) *Builder {
	if s == nil {
		s = schema.New(nil)
	}
	return &Builder{
		schema: s,
		log:    abstractlogger.NoopLogger,
	}
}

// Schema returns the schema the Builder compiles against.
func (b *Builder) Schema() *schema.Schema {
	return b.schema
}

// Query wraps sel as a query operation.
func (b *Builder) Query(sel Selection) BuiltQuery {
	return NewBuiltQuery(QueryOperation, sel)
}

// Mutation wraps sel as a mutation operation.
func (b *Builder) Mutation(sel Selection) BuiltQuery {
	return NewBuiltQuery(MutationOperation, sel)
}

// Subscription wraps sel as a subscription operation.
func (b *Builder) Subscription(sel Selection) BuiltQuery {
	return NewBuiltQuery(SubscriptionOperation, sel)
}

// clone creates a copy of the Builder with all fields preserved.
func (b *Builder) clone() *Builder {
	return &Builder{
		schema:         b.schema,
		log:            b.log,
		typedVariables: b.typedVariables,
	}
}

// WithLogger returns a new Builder logging through l. Selections left out of
// a document are reported at debug level.
func (b *Builder) WithLogger(l abstractlogger.Logger) *Builder {
	clone := b.clone()
	if l == nil {
		l = abstractlogger.NoopLogger
	}
	clone.log = l
	return clone
}

// WithTypedVariables returns a new Builder that declares variables with the
// types of the arguments they are bound to, e.g. "($id: ID!)", instead of
// the default "(id: $id)".
//
// Typed declarations make documents valid GraphQL; compiling fails with
// ErrVariableType when an argument declares no type.
func (b *Builder) WithTypedVariables(typed bool) *Builder {
	clone := b.clone()
	clone.typedVariables = typed
	return clone
}

// ParseSchemaJSON decodes a JSON schema payload.
// This function is re-exported from the jsonutil package
func ParseSchemaJSON(data []byte) (*schema.Schema, error) {
	return jsonutil.UnmarshalSchema(data)
}
