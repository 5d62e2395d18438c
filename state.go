package graphql

import (
	"fmt"
	"strings"

	"github.com/llehouerou/go-graphql-builder/types"
)

// variableBinding records which argument a declared variable feeds.
type variableBinding struct {
	name     string
	argument string
	// typ is the argument's declared type, "" when the schema declares none.
	typ string
}

// fragmentDefinition is a hoisted fragment.
type fragmentDefinition struct {
	name string
	on   string
	body string
}

// parseState accumulates the variables and fragments of one document while
// its body is compiled. It is owned by a single compile pass and threaded
// through every recursive step; it is never stored on a Builder.
type parseState struct {
	variables []variableBinding
	fragments []fragmentDefinition
	// err is the first fatal registration conflict.
	err error
}

func newParseState() *parseState {
	return &parseState{}
}

// registerVariable declares a variable. A name keeps the position it was
// first seen at; re-registering it with the same type overwrites the
// binding, with a different type it fails the pass.
func (st *parseState) registerVariable(b variableBinding) {
	for i, prev := range st.variables {
		if prev.name != b.name {
			continue
		}
		if prev.typ != "" && b.typ != "" && prev.typ != b.typ {
			st.fail(fmt.Errorf(
				"%w: $%s is bound to %s (%s) and %s (%s)",
				ErrVariableConflict,
				b.name,
				prev.argument,
				prev.typ,
				b.argument,
				b.typ,
			))
			return
		}
		if b.typ == "" {
			b.typ = prev.typ
		}
		st.variables[i] = b
		return
	}
	st.variables = append(st.variables, b)
}

// registerFragment hoists a fragment. Registering an identical definition
// again is a no-op; a different definition under the same name fails the
// pass.
func (st *parseState) registerFragment(f fragmentDefinition) {
	for _, prev := range st.fragments {
		if prev.name != f.name {
			continue
		}
		if prev.on != f.on || prev.body != f.body {
			st.fail(fmt.Errorf("%w: %s", ErrFragmentConflict, f.name))
		}
		return
	}
	st.fragments = append(st.fragments, f)
}

func (st *parseState) fail(err error) {
	if st.err == nil {
		st.err = err
	}
}

// signature renders the variable declarations in first-seen order, or ""
// when no variable was declared.
//
// E.g., "(id: $id, first: $first)", or with typed set "($id: ID!, $first: Int)".
func (st *parseState) signature(typed bool) (string, error) {
	if len(st.variables) == 0 {
		return "", nil
	}
	decls := make([]string, 0, len(st.variables))
	for _, v := range st.variables {
		if !typed {
			decls = append(decls, v.name+": "+types.VariablePrefix+v.name)
			continue
		}
		if v.typ == "" {
			return "", fmt.Errorf("%w: $%s (argument %s)", ErrVariableType, v.name, v.argument)
		}
		decls = append(decls, types.VariablePrefix+v.name+": "+v.typ)
	}
	return "(" + strings.Join(decls, ", ") + ")", nil
}

// fragmentBlocks renders every hoisted fragment in registration order.
func (st *parseState) fragmentBlocks() []string {
	blocks := make([]string, 0, len(st.fragments))
	for _, f := range st.fragments {
		blocks = append(blocks, "fragment "+f.name+" on "+f.on+" "+f.body)
	}
	return blocks
}
