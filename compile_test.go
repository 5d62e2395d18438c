package graphql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/llehouerou/go-graphql-builder/schema"
)

type cachedDirective struct {
	ttl int
}

func (cd cachedDirective) Type() OptionType {
	return OptionTypeOperationDirective
}

func (cd cachedDirective) String() string {
	if cd.ttl <= 0 {
		return "@cached"
	}
	return fmt.Sprintf("@cached(ttl: %d)", cd.ttl)
}

type unknownOption struct{}

func (unknownOption) Type() OptionType { return "unknown" }
func (unknownOption) String() string { return "" }

func testSchema() *schema.Schema {
	return schema.New(map[string]schema.Node{
		"Query": schema.Object{
			{Name: "user", Type: schema.FieldArgs{
				Args: []schema.Arg{{Name: "id", Type: "ID!"}},
				Data: schema.Ref("User"),
			}},
			{Name: "users", Type: schema.FieldArgs{
				Args: []schema.Arg{{Name: "first", Type: "Int"}},
				Data: schema.List{Of: schema.Ref("User!")},
			}},
			{Name: "viewer", Type: schema.Ref("User!")},
			{Name: "search", Type: schema.FieldArgs{
				Args: []schema.Arg{{Name: "text", Type: "String!"}},
				Data: schema.List{Of: schema.Ref("SearchResult")},
			}},
			{Name: "version", Type: schema.Ref("String")},
		},
		"Mutation": schema.Object{
			{Name: "rename", Type: schema.FieldArgs{
				Args: []schema.Arg{
					{Name: "id", Type: "ID!"},
					{Name: "name", Type: "String!"},
				},
				Data: schema.Ref("User"),
			}},
		},
		"User": schema.Object{
			{Name: "id", Type: schema.Ref("ID!")},
			{Name: "name", Type: schema.Ref("String")},
			{Name: "friends", Type: schema.List{Of: schema.Ref("User")}},
			{Name: "posts", Type: schema.FieldArgs{
				Args: []schema.Arg{{Name: "first", Type: "Int"}},
				Data: schema.List{Of: schema.Ref("Post")},
			}},
		},
		"Post": schema.Object{
			{Name: "id", Type: schema.Ref("ID!")},
			{Name: "title", Type: schema.Ref("String")},
			{Name: "author", Type: schema.Ref("User!")},
		},
		"SearchResult": schema.Union{schema.Ref("User"), schema.Ref("Post")},
		"ID":           schema.Scalar{},
		"String":       schema.Scalar{},
		"Int":          schema.Scalar{},
	})
}

func TestCompileQuery(t *testing.T) {
	tests := []struct {
		name    string
		sel     Selection
		options []Option
		want    string
	}{
		{
			name: "auto selection stops at cycles and required arguments",
			sel:  Fields{Field("viewer", All)},
			want: "query {\nviewer {\nid \nname \nposts {\nid \ntitle \n}\n}\n}",
		},
		{
			name: "required arguments without values",
			sel:  Fields{Field("user", All)},
			want: "query {}",
		},
		{
			name: "variable argument",
			sel: Fields{
				Field("user", Args(Arguments{Arg("id", Var("id"))}, Fields{Field("name", All)})),
			},
			want: "query (id: $id) {\nuser (id: $id) {\nname \n}\n}",
		},
		{
			name: "variable named after its argument",
			sel: Fields{
				Field("user", Args(Arguments{Arg("id", &Variable{})}, Fields{Field("id", All)})),
			},
			want: "query (id: $id) {\nuser (id: $id) {\nid \n}\n}",
		},
		{
			name: "renamed variable",
			sel: Fields{
				Field("users", Args(Arguments{Arg("first", Var("count"))}, Fields{Field("id", All)})),
			},
			want: "query (count: $count) {\nusers (first: $count) {\nid \n}\n}",
		},
		{
			name: "quoted literal",
			sel: Fields{
				Field("user", Args(Arguments{Arg("id", Quote("u1"))}, Fields{Field("id", All)})),
			},
			want: "query {\nuser (id: \"u1\") {\nid \n}\n}",
		},
		{
			name: "uuid literal",
			sel: Fields{
				Field("user", Args(
					Arguments{Arg("id", Quote(uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")))},
					Fields{Field("id", All)},
				)),
			},
			want: "query {\nuser (id: \"6ba7b810-9dad-11d1-80b4-00c04fd430c8\") {\nid \n}\n}",
		},
		{
			name: "null arguments are left out",
			sel: Fields{
				Field("users", Args(Arguments{Arg("first", nil)}, Fields{Field("id", All)})),
			},
			want: "query {\nusers {\nid \n}\n}",
		},
		{
			name: "nil pointer arguments are left out",
			sel: Fields{
				Field("users", Args(Arguments{Arg("first", (*int)(nil))}, Fields{Field("id", All)})),
			},
			want: "query {\nusers {\nid \n}\n}",
		},
		{
			name: "several payload selections merge",
			sel: Fields{
				Field("users", Args(
					Arguments{Arg("first", 2)},
					Fields{Field("id", All)},
					Fields{Field("name", All)},
				)),
			},
			want: "query {\nusers (first: 2) {\nid \nname \n}\n}",
		},
		{
			name: "arguments without a payload selection",
			sel: Fields{
				Field("users", Args(Arguments{Arg("first", 2)})),
				Field("version", All),
			},
			want: "query {\nversion \n}",
		},
		{
			name: "scalar leaves ignore nested selections",
			sel:  Fields{Field("version", Fields{Field("length", All)})},
			want: "query {\nversion \n}",
		},
		{
			name: "unknown fields are omitted",
			sel: Fields{
				Field("viewer", Fields{Field("id", All), Field("nope", All)}),
				Field("missing", All),
			},
			want: "query {\nviewer {\nid \n}\n}",
		},
		{
			name: "explicit selection of a recursive type stops at the cycle",
			sel: Fields{
				Field("viewer", Fields{
					Field("id", All),
					Field("friends", Fields{
						Field("friends", Fields{Field("name", All)}),
					}),
				}),
			},
			want: "query {\nviewer {\nid \n}\n}",
		},
		{
			name: "explicit selection back through another type",
			sel: Fields{
				Field("viewer", Fields{
					Field("posts", Fields{
						Field("title", All),
						Field("author", Fields{Field("name", All)}),
					}),
				}),
			},
			want: "query {\nviewer {\nposts {\ntitle \n}\n}\n}",
		},
		{
			name: "skip excludes a field",
			sel: Fields{
				Field("viewer", Fields{Field("id", All), Field("name", Skip)}),
			},
			want: "query {\nviewer {\nid \n}\n}",
		},
		{
			name: "variables of an omitted field stay declared",
			sel: Fields{
				Field("user", Args(Arguments{Arg("id", Var("id"))}, Fields{Field("nope", All)})),
				Field("version", All),
			},
			want: "query (id: $id) {\nversion \n}",
		},
		{
			name: "nested raw text",
			sel:  Fields{Field("viewer", Raw("{ id }"))},
			want: "query {\nviewer { id }\n}",
		},
		{
			name: "empty raw text selects nothing",
			sel:  Fields{Field("viewer", Raw(""))},
			want: "query {}",
		},
		{
			name:    "operation name and directive",
			sel:     Fields{Field("viewer", Fields{Field("id", All)})},
			options: []Option{OperationName("GetViewer"), cachedDirective{}},
			want:    "query GetViewer @cached {\nviewer {\nid \n}\n}",
		},
		{
			name:    "several directives",
			sel:     Fields{Field("version", All)},
			options: []Option{cachedDirective{}, cachedDirective{ttl: 60}},
			want:    "query @cached @cached(ttl: 60) {\nversion \n}",
		},
		{
			name: "nil selection",
			sel:  nil,
			want: "query {}",
		},
	}
	b := NewBuilder(testSchema())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := b.Compile(b.Query(tc.sel), tc.options...)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("\ngot:  %q\nwant: %q\n", got, tc.want)
			}
		})
	}
}

func TestCompileUnion(t *testing.T) {
	text := Arguments{Arg("text", Quote("x"))}
	tests := []struct {
		name string
		sel  Selection
		want string
	}{
		{
			name: "first matching member",
			sel: Fields{
				Field("search", Args(text, Fields{Field("id", All), Field("title", All)})),
			},
			want: "query {\nsearch (text: \"x\") {\nid \n}\n}",
		},
		{
			name: "later member when the first does not match",
			sel: Fields{
				Field("search", Args(text, Fields{Field("title", All)})),
			},
			want: "query {\nsearch (text: \"x\") {\ntitle \n}\n}",
		},
		{
			name: "inline fragments narrow to members",
			sel: Fields{
				Field("search", Args(text,
					InlineFragment{On: "User", Select: Fields{Field("name", All)}},
					InlineFragment{On: "Post", Select: Fields{Field("title", All)}},
				)),
			},
			want: "query {\nsearch (text: \"x\") {\n... on User {\nname \n}\n... on Post {\ntitle \n}\n}\n}",
		},
		{
			name: "inline fragment next to plain fields",
			sel: Fields{
				Field("search", Args(text, Merge{
					InlineFragment{On: "Post", Select: Fields{Field("title", All)}},
					Fields{Field("id", All)},
				})),
			},
			want: "query {\nsearch (text: \"x\") {\n... on Post {\ntitle \n}\nid \n}\n}",
		},
		{
			name: "no member matches",
			sel: Fields{
				Field("search", Args(text, Fields{Field("nope", All)})),
				Field("version", All),
			},
			want: "query {\nversion \n}",
		},
	}
	b := NewBuilder(testSchema())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := b.Compile(b.Query(tc.sel))
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("\ngot:  %q\nwant: %q\n", got, tc.want)
			}
		})
	}
}

func TestCompileFragments(t *testing.T) {
	userFields := Fragment{
		Name:   "UserFields",
		On:     "User",
		Select: Fields{Field("id", All), Field("name", All)},
	}
	tests := []struct {
		name string
		sel  Selection
		want string
	}{
		{
			name: "fragment spread",
			sel:  Fields{Field("viewer", userFields)},
			want: "fragment UserFields on User {\nid \nname \n}\n\nquery {\nviewer { ...UserFields }\n}",
		},
		{
			name: "fragment in a merge group",
			sel: Fields{
				Field("viewer", Merge{
					Fragment{Name: "UserFields", On: "User", Select: Fields{Field("id", All)}},
					Fields{Field("name", All)},
				}),
			},
			want: "fragment UserFields on User {\nid \n}\n\nquery {\nviewer {\n...UserFields\nname \n}\n}",
		},
		{
			name: "identical fragments are defined once",
			sel: Fields{
				Field("viewer", userFields),
				Field("user", Args(Arguments{Arg("id", Quote("1"))}, userFields)),
			},
			want: "fragment UserFields on User {\nid \nname \n}\n\nquery {\nviewer { ...UserFields }\nuser (id: \"1\") { ...UserFields }\n}",
		},
		{
			name: "empty fragment is dropped",
			sel: Fields{
				Field("viewer", Fragment{Name: "Empty", On: "User", Select: Fields{Field("nope", All)}}),
				Field("version", All),
			},
			want: "query {\nversion \n}",
		},
		{
			name: "inline fragment on an object",
			sel: Fields{
				Field("viewer", InlineFragment{On: "User", Select: Fields{Field("id", All)}}),
			},
			want: "query {\nviewer {\n... on User {\nid \n}\n}\n}",
		},
	}
	b := NewBuilder(testSchema())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := b.Compile(b.Query(tc.sel))
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("\ngot:  %q\nwant: %q\n", got, tc.want)
			}
		})
	}
}

func TestCompileMutation(t *testing.T) {
	b := NewBuilder(testSchema())
	sel := Fields{
		Field("rename", Args(
			Arguments{Arg("id", Var("")), Arg("name", Var(""))},
			Fields{Field("name", All)},
		)),
	}
	want := "mutation (id: $id, name: $name) {\nrename (id: $id, name: $name) {\nname \n}\n}"

	got, err := b.Compile(b.Mutation(sel))
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("\ngot:  %q\nwant: %q\n", got, want)
	}

	typed, err := b.WithTypedVariables(true).Compile(b.Mutation(sel))
	if err != nil {
		t.Fatal(err)
	}
	wantTyped := "mutation ($id: ID!, $name: String!) {\nrename (id: $id, name: $name) {\nname \n}\n}"
	if typed != wantTyped {
		t.Errorf("\ngot:  %q\nwant: %q\n", typed, wantTyped)
	}
}

func TestCompileTypedVariables(t *testing.T) {
	b := NewBuilder(testSchema()).WithTypedVariables(true)
	tests := []struct {
		name string
		sel  Selection
		want string
	}{
		{
			name: "non-null argument",
			sel: Fields{
				Field("user", Args(Arguments{Arg("id", Var("id"))}, Fields{Field("name", All)})),
			},
			want: "query ($id: ID!) {\nuser (id: $id) {\nname \n}\n}",
		},
		{
			name: "renamed nullable argument",
			sel: Fields{
				Field("users", Args(Arguments{Arg("first", Var("count"))}, Fields{Field("id", All)})),
			},
			want: "query ($count: Int) {\nusers (first: $count) {\nid \n}\n}",
		},
		{
			name: "one variable feeding two arguments of the same type",
			sel: Fields{
				Field("users", Args(Arguments{Arg("first", Var("n"))}, Fields{
					Field("posts", Args(Arguments{Arg("first", Var("n"))}, Fields{Field("id", All)})),
				})),
			},
			want: "query ($n: Int) {\nusers (first: $n) {\nposts (first: $n) {\nid \n}\n}\n}",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := b.Compile(b.Query(tc.sel))
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("\ngot:  %q\nwant: %q\n", got, tc.want)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	b := NewBuilder(testSchema())
	tests := []struct {
		name    string
		builder *Builder
		query   BuiltQuery
		options []Option
		want    error
	}{
		{
			name:  "missing subscription root",
			query: b.Subscription(Fields{Field("events", All)}),
			want:  ErrRootNotFound,
		},
		{
			name: "variable bound to arguments of different types",
			query: b.Query(Fields{
				Field("user", Args(Arguments{Arg("id", Var("x"))}, Fields{Field("id", All)})),
				Field("users", Args(Arguments{Arg("first", Var("x"))}, Fields{Field("id", All)})),
			}),
			want: ErrVariableConflict,
		},
		{
			name: "conflicting fragments",
			query: b.Query(Fields{
				Field("viewer", Fragment{Name: "F", On: "User", Select: Fields{Field("id", All)}}),
				Field("user", Args(
					Arguments{Arg("id", Quote("1"))},
					Fragment{Name: "F", On: "User", Select: Fields{Field("name", All)}},
				)),
			}),
			want: ErrFragmentConflict,
		},
		{
			name:    "typed variable of an undeclared argument",
			builder: b.WithTypedVariables(true),
			query: b.Query(Fields{
				Field("users", Args(Arguments{Arg("after", Var("cursor"))}, Fields{Field("id", All)})),
			}),
			want: ErrVariableType,
		},
		{
			name:    "unknown option",
			query:   b.Query(Fields{Field("version", All)}),
			options: []Option{unknownOption{}},
			want:    ErrInvalidOption,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			builder := tc.builder
			if builder == nil {
				builder = b
			}
			got, err := builder.Compile(tc.query, tc.options...)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got error %v (document %q), want %v", err, got, tc.want)
			}
		})
	}
}

func TestCompileRaw(t *testing.T) {
	// A raw document needs no schema at all.
	b := NewBuilder(nil)
	want := "query { anything }"
	got, err := b.Compile(b.Query(Raw(want)))
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("\ngot:  %q\nwant: %q\n", got, want)
	}
}

func TestCompileJSONSchema(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		sel    Selection
		want   string
	}{
		{
			name:   "reference chain",
			schema: `{"Query":{"user":["UserRef"]},"UserRef":"User!","User":{"id":"","name":""}}`,
			sel:    Fields{Field("user", Fields{Field("id", All)})},
			want:   "query {\nuser {\nid \n}\n}",
		},
		{
			name:   "self reference",
			schema: `{"Query":{"a":"A"},"A":{"id":"","self":"A"}}`,
			sel:    Fields{Field("a", All)},
			want:   "query {\na {\nid \n}\n}",
		},
		{
			name:   "explicit selection of a self reference",
			schema: `{"Query":{"a":"A"},"A":{"id":"","self":"A"}}`,
			sel: Fields{
				Field("a", Fields{Field("id", All), Field("self", Fields{Field("id", All)})}),
			},
			want: "query {\na {\nid \n}\n}",
		},
		{
			name:   "cyclic reference chain",
			schema: `{"Query":{"a":"A","v":""},"A":"B","B":"A"}`,
			sel:    Fields{Field("a", Fields{Field("id", All)}), Field("v", All)},
			want:   "query {\nv \n}",
		},
		{
			name:   "cyclic reference chain under auto selection",
			schema: `{"Query":{"a":"A","v":""},"A":"B","B":"A"}`,
			sel:    All,
			want:   "query {\nv \n}",
		},
		{
			name:   "union listing itself",
			schema: `{"Query":{"u":"U","v":""},"U":["U","T"],"T":{"id":""}}`,
			sel:    Fields{Field("u", Fields{Field("id", All)}), Field("v", All)},
			want:   "query {\nu {\nid \n}\nv \n}",
		},
		{
			name:   "union of only itself",
			schema: `{"Query":{"u":"U","v":""},"U":["U","U"]}`,
			sel:    Fields{Field("u", Fields{Field("id", All)}), Field("v", All)},
			want:   "query {\nv \n}",
		},
		{
			name:   "unknown reference",
			schema: `{"Query":{"a":"Missing","b":""}}`,
			sel:    Fields{Field("a", All), Field("b", All)},
			want:   "query {\nb \n}",
		},
		{
			name:   "field with arguments",
			schema: `{"Query":{"node":[{"id":"ID!"},"Node"]},"Node":{"id":""},"ID":""}`,
			sel:    Fields{Field("node", Args(Arguments{Arg("id", Var(""))}, All))},
			want:   "query (id: $id) {\nnode (id: $id) {\nid \n}\n}",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := ParseSchemaJSON([]byte(tc.schema))
			if err != nil {
				t.Fatal(err)
			}
			b := NewBuilder(s)
			got, err := b.Compile(b.Query(tc.sel))
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("\ngot:  %q\nwant: %q\n", got, tc.want)
			}
		})
	}
}

func TestBuilder_ImmutablePattern(t *testing.T) {
	original := NewBuilder(testSchema())
	sel := Fields{Field("user", Args(Arguments{Arg("id", Var("id"))}, Fields{Field("id", All)}))}

	typed := original.WithTypedVariables(true)
	if typed == original {
		t.Fatal("WithTypedVariables returned the same instance (expected new instance)")
	}
	if typed.Schema() != original.Schema() {
		t.Error("WithTypedVariables should keep the schema")
	}

	got, err := original.Compile(original.Query(sel))
	if err != nil {
		t.Fatal(err)
	}
	if want := "query (id: $id) {\nuser (id: $id) {\nid \n}\n}"; got != want {
		t.Errorf("original builder changed:\ngot:  %q\nwant: %q\n", got, want)
	}

	if logged := original.WithLogger(nil); logged == original || logged.log == nil {
		t.Error("WithLogger(nil) should return a new builder with a no-op logger")
	}
}

func TestBuiltQuery(t *testing.T) {
	sel := Fields{Field("viewer", All)}
	q := NewBuiltQuery(MutationOperation, sel)
	if q.Kind() != MutationOperation {
		t.Errorf("got kind %q, want %q", q.Kind(), MutationOperation)
	}

	b := NewBuilder(testSchema())
	if _, err := b.Compile(b.Query(sel)); err != nil {
		t.Fatal(err)
	}
	got, ok := b.Query(sel).Selection().(Fields)
	if !ok || len(got) != 1 || got[0].Select != All {
		t.Errorf("selection changed by compiling: %#v", got)
	}
}
