package types

// Constants shared by the selection builder packages.
const (
	// GraphQLTag is the struct tag name used to specify GraphQL field
	// names, arguments, and inline fragments for struct-derived selections.
	GraphQLTag = "graphql"

	// ScalarTag is the struct tag name used to mark a field as a scalar
	// type that should not be recursively expanded during selection
	// construction.
	ScalarTag = "scalar"

	// NonNullSuffix marks a reference or argument type as required.
	NonNullSuffix = "!"

	// VariablePrefix prefixes a variable name in a document.
	VariablePrefix = "$"

	// FragmentPrefix is the prefix of a fragment spread ("...Name").
	FragmentPrefix = "..."

	// FragmentOnPrefix is the full prefix for typed inline fragments
	// (e.g., "... on Droid").
	FragmentOnPrefix = "... on "
)

// Reserved root type names of a schema.
const (
	QueryRoot        = "Query"
	MutationRoot     = "Mutation"
	SubscriptionRoot = "Subscription"
)
