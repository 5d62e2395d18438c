package graphql

// Selection describes which fields of a schema type a document includes.
// It is one of:
//
//	Bool            true selects everything reachable, false selects nothing
//	Fields          selects the named sub-fields, in order
//	WithArgs        argument values plus selections for a field with arguments
//	Merge           partial selections merged into one
//	Fragment        named, hoisted selection referenced by a spread
//	InlineFragment  selection narrowed to a type, rendered in place
//	Raw             already serialized text, passed through verbatim
//
// A nil Selection selects nothing.
type Selection interface {
	isSelection()
}

// Bool selects a field with all of its sub-fields (true) or not at all (false).
type Bool bool

const (
	// All selects a field and, recursively, every sub-field that can be
	// selected without arguments.
	All = Bool(true)
	// Skip excludes a field. Inside a Merge it overrides earlier selections.
	Skip = Bool(false)
)

// Fields selects named sub-fields. The slice order is the output order.
type Fields []FieldSelection

// FieldSelection selects one named field.
type FieldSelection struct {
	Name   string
	Select Selection
}

// Field is shorthand for a FieldSelection.
func Field(name string, sel Selection) FieldSelection {
	return FieldSelection{Name: name, Select: sel}
}

// Get returns the selection of the field called name.
func (f Fields) Get(name string) (Selection, bool) {
	for _, fs := range f {
		if fs.Name == name {
			return fs.Select, true
		}
	}
	return nil, false
}

// WithArgs supplies argument values for a field that takes arguments,
// followed by one or more selections of its payload. Several selections are
// merged like a Merge.
type WithArgs struct {
	Args   Arguments
	Select []Selection
}

// Args is shorthand for a WithArgs.
func Args(args Arguments, sel ...Selection) WithArgs {
	return WithArgs{Args: args, Select: sel}
}

// data returns the payload selection, or nil if none was supplied.
func (w WithArgs) data() Selection {
	switch len(w.Select) {
	case 0:
		return nil
	case 1:
		return w.Select[0]
	default:
		return Merge(w.Select)
	}
}

// Merge is a group of partial selections combined into one effective
// selection. Fragments in the group are spread individually.
type Merge []Selection

// Fragment is a named selection on a type. It is compiled once, hoisted into
// a fragment definition, and referenced by a spread.
type Fragment struct {
	Name   string
	On     string
	Select Selection
}

// InlineFragment narrows a selection to a type and is rendered in place as
// "... on Type { ... }".
type InlineFragment struct {
	On     string
	Select Selection
}

// Raw is already serialized selection text.
type Raw string

func (Bool) isSelection()           {}
func (Fields) isSelection()         {}
func (WithArgs) isSelection()       {}
func (Merge) isSelection()          {}
func (Fragment) isSelection()       {}
func (InlineFragment) isSelection() {}
func (Raw) isSelection()            {}

// selected reports whether sel selects anything at all.
func selected(sel Selection) bool {
	switch s := sel.(type) {
	case nil:
		return false
	case Bool:
		return bool(s)
	case Raw:
		return s != ""
	}
	return true
}
