package graphql

import (
	"strings"

	"github.com/jensneuse/abstractlogger"

	"github.com/llehouerou/go-graphql-builder/schema"
	"github.com/llehouerou/go-graphql-builder/types"
)

// result is compiled selection text.
type result struct {
	// text is leaf text, raw text, an argument prefix, or a spread marker.
	text string
	// lines holds the content of a selection block; nil when r is no block.
	lines []string
	// spread marks text as a fragment spread ("...Name").
	spread bool
}

// render returns r as a field body. A bare spread is wrapped in its own
// block.
//
// E.g., a block of lines {"id ", "name "} -> "{\nid \nname \n}".
func (r result) render() string {
	switch {
	case r.spread:
		return "{ " + r.text + " }"
	case r.lines != nil:
		return r.text + "{\n" + strings.Join(r.lines, "\n") + "\n}"
	default:
		return r.text
	}
}

// blockLines returns r as lines of an enclosing block.
func (r result) blockLines() []string {
	if r.lines != nil && r.text == "" {
		return r.lines
	}
	return []string{r.text}
}

// visitedPath holds the type names referenced on the current branch. It is
// extended by copy, so siblings never share it.
type visitedPath []string

func (p visitedPath) contains(name string) bool {
	for _, n := range p {
		if n == name {
			return true
		}
	}
	return false
}

func (p visitedPath) with(name string) visitedPath {
	out := make(visitedPath, len(p)+1)
	copy(out, p)
	out[len(p)] = name
	return out
}

// compiler lowers a selection tree into selection-set text. It is created
// for a single compile pass together with the parseState it fills.
type compiler struct {
	schema *schema.Schema
	log    abstractlogger.Logger
	state  *parseState
}

// resolve compiles sel against node. It reports false when the branch
// contributes nothing and must be omitted by the caller.
func (c *compiler) resolve(
	sel Selection,
	node schema.Node,
	visited visitedPath,
) (result, bool) {
	if !selected(sel) {
		return result{}, false
	}
	if raw, ok := sel.(Raw); ok {
		return result{text: string(raw)}, true
	}

	switch n := node.(type) {
	case schema.Scalar:
		return result{}, true
	case schema.Ref:
		return c.resolveRef(sel, n, visited)
	case schema.List:
		return c.resolve(sel, n.Of, visited)
	case schema.FieldArgs:
		return c.resolveFieldArgs(sel, n, visited)
	case schema.Union:
		return c.resolveUnion(sel, n, visited)
	case schema.Object:
		return c.resolveObject(sel, n, visited)
	}
	c.omit("no schema definition")
	return result{}, false
}

func (c *compiler) resolveRef(
	sel Selection,
	ref schema.Ref,
	visited visitedPath,
) (result, bool) {
	name := ref.Name()
	if visited.contains(name) {
		c.omit("cycle", abstractlogger.String("type", name))
		return result{}, false
	}

	def, ok := c.schema.Lookup(name)
	if !ok {
		c.omit("unknown type", abstractlogger.String("type", name))
		return result{}, false
	}
	if _, ok := def.(schema.Scalar); ok {
		return result{}, true
	}
	return c.resolve(sel, def, visited.with(name))
}

func (c *compiler) resolveFieldArgs(
	sel Selection,
	field schema.FieldArgs,
	visited visitedPath,
) (result, bool) {
	if field.Data == nil {
		c.omit("field has no payload type")
		return result{}, false
	}

	if sel == All {
		if field.HasRequiredArgs() {
			c.omit("required arguments")
			return result{}, false
		}
		return c.resolve(All, field.Data, visited)
	}

	var args Arguments
	data := sel
	if w, ok := sel.(WithArgs); ok {
		args = w.Args
		data = w.data()
	}
	if !selected(data) {
		c.omit("arguments without selection")
		return result{}, false
	}

	// Variables stay declared even when the payload is omitted below.
	argText := writeArguments(args, field, c.state)
	body, ok := c.resolve(data, field.Data, visited)
	if !ok {
		return result{}, false
	}
	if argText == "" {
		return body, true
	}
	return result{text: argText + " " + body.render()}, true
}

func (c *compiler) resolveUnion(
	sel Selection,
	union schema.Union,
	visited visitedPath,
) (result, bool) {
	switch s := sel.(type) {
	case InlineFragment:
		return c.resolveUnionGroup(Merge{s}, union, visited)
	case Merge:
		for _, entry := range s {
			if _, ok := entry.(InlineFragment); ok {
				return c.resolveUnionGroup(s, union, visited)
			}
		}
	}
	return c.firstMatch(sel, union, visited)
}

// firstMatch returns the result of the first member, in declaration order,
// that sel can be compiled against.
func (c *compiler) firstMatch(
	sel Selection,
	union schema.Union,
	visited visitedPath,
) (result, bool) {
	for _, member := range union {
		if r, ok := c.resolve(sel, member, visited); ok {
			return r, true
		}
	}
	c.omit("no union member matches")
	return result{}, false
}

// resolveUnionGroup compiles every inline fragment of group against the
// member it names and the remaining entries by first match.
func (c *compiler) resolveUnionGroup(
	group Merge,
	union schema.Union,
	visited visitedPath,
) (result, bool) {
	var lines []string
	var rest Merge
	for _, entry := range group {
		frag, ok := entry.(InlineFragment)
		if !ok {
			rest = append(rest, entry)
			continue
		}
		member, ok := narrow(union, frag.On)
		if !ok {
			if r, ok := c.firstMatch(frag, union, visited); ok {
				lines = append(lines, r.blockLines()...)
			}
			continue
		}
		body, ok := c.resolve(frag.Select, member, visited)
		if !ok {
			continue
		}
		lines = append(lines, inlineFragmentLine(frag.On, body))
	}
	if len(rest) > 0 {
		if r, ok := c.firstMatch(rest, union, visited); ok {
			lines = append(lines, r.blockLines()...)
		}
	}
	if len(lines) == 0 {
		return result{}, false
	}
	return result{lines: lines}, true
}

// narrow finds the member of union that references typeName.
func narrow(union schema.Union, typeName string) (schema.Node, bool) {
	for _, member := range union {
		switch m := member.(type) {
		case schema.Ref:
			if m.Name() == typeName {
				return m, true
			}
		case schema.Union:
			if found, ok := narrow(m, typeName); ok {
				return found, true
			}
		}
	}
	return nil, false
}

func (c *compiler) resolveObject(
	sel Selection,
	obj schema.Object,
	visited visitedPath,
) (result, bool) {
	switch s := sel.(type) {
	case Fragment:
		body, ok := c.resolve(s.Select, obj, visited)
		if !ok {
			c.omit("empty fragment", abstractlogger.String("fragment", s.Name))
			return result{}, false
		}
		c.state.registerFragment(fragmentDefinition{
			name: s.Name,
			on:   s.On,
			body: body.render(),
		})
		return result{text: types.FragmentPrefix + s.Name, spread: true}, true
	case InlineFragment:
		body, ok := c.resolve(s.Select, obj, visited)
		if !ok {
			return result{}, false
		}
		return result{lines: []string{inlineFragmentLine(s.On, body)}}, true
	case Bool:
		return c.resolveAll(obj, visited)
	case Merge:
		return c.resolveMerge(s, obj, visited)
	case Fields:
		return c.resolveFields(s, obj, visited)
	}
	c.omit("selection does not fit an object")
	return result{}, false
}

// resolveAll selects every field of obj that can be auto-selected.
func (c *compiler) resolveAll(obj schema.Object, visited visitedPath) (result, bool) {
	var lines []string
	for _, f := range obj {
		if f.Type == nil {
			continue
		}
		body, ok := c.resolve(All, f.Type, visited)
		if !ok {
			continue
		}
		lines = append(lines, fieldLine(f.Name, body))
	}
	if len(lines) == 0 {
		return result{}, false
	}
	return result{lines: lines}, true
}

// resolveMerge renders the fragments of group as their own lines followed by
// the fields of its merged plain selections.
func (c *compiler) resolveMerge(
	group Merge,
	obj schema.Object,
	visited visitedPath,
) (result, bool) {
	standalone, merged := splitMerge(group)

	var lines []string
	for _, entry := range standalone {
		r, ok := c.resolve(entry, obj, visited)
		if !ok {
			continue
		}
		lines = append(lines, r.blockLines()...)
	}
	if len(merged) > 0 {
		if r, ok := c.resolveFields(merged, obj, visited); ok {
			lines = append(lines, r.lines...)
		}
	}
	if len(lines) == 0 {
		c.omit("merge group selects nothing")
		return result{}, false
	}
	return result{lines: lines}, true
}

func (c *compiler) resolveFields(
	fields Fields,
	obj schema.Object,
	visited visitedPath,
) (result, bool) {
	var lines []string
	for _, fs := range fields {
		if !selected(fs.Select) {
			continue
		}
		def, ok := obj.Field(fs.Name)
		if !ok {
			c.omit("unknown field", abstractlogger.String("field", fs.Name))
			continue
		}
		body, ok := c.resolve(fs.Select, def, visited)
		if !ok {
			continue
		}
		lines = append(lines, fieldLine(fs.Name, body))
	}
	if len(lines) == 0 {
		return result{}, false
	}
	return result{lines: lines}, true
}

// fieldLine renders one line of a selection block.
//
// E.g., ("user", block{"id "}) -> "user {\nid \n}".
func fieldLine(name string, body result) string {
	return name + " " + body.render()
}

func inlineFragmentLine(on string, body result) string {
	return types.FragmentOnPrefix + on + " " + body.render()
}

func (c *compiler) omit(reason string, fields ...abstractlogger.Field) {
	c.log.Debug(
		"selection omitted",
		append([]abstractlogger.Field{abstractlogger.String("reason", reason)}, fields...)...,
	)
}
