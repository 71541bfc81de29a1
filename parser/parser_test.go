package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/softmesh/graphql/ast"
	"github.com/softmesh/graphql/gqlerror"
	"github.com/softmesh/graphql/lexer"
	"github.com/softmesh/graphql/symbol"
	"github.com/softmesh/graphql/token"
)

func mustParse(t *testing.T, source string) *ast.Document {
	t.Helper()
	doc, err := Parse([]byte(source))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return doc
}

func TestEmptySource(t *testing.T) {
	doc := mustParse(t, "")
	if len(doc.Definitions()) != 0 {
		t.Errorf("empty source produced %d definitions", len(doc.Definitions()))
	}
	if _, err := Parse(nil); err != nil {
		t.Errorf("nil source: %v", err)
	}
}

func TestTypeNullability(t *testing.T) {
	cases := []struct {
		typ  string
		want func(intSym symbol.Symbol) ast.Type
	}{
		{"Int", func(s symbol.Symbol) ast.Type {
			return ast.Type{Name: s}
		}},
		{"Int!", func(s symbol.Symbol) ast.Type {
			return ast.Type{Name: s, NonNull: true}
		}},
		{"[Int]", func(s symbol.Symbol) ast.Type {
			return ast.Type{IsList: true, Elem: &ast.Type{Name: s}}
		}},
		{"[Int]!", func(s symbol.Symbol) ast.Type {
			return ast.Type{IsList: true, NonNull: true, Elem: &ast.Type{Name: s}}
		}},
		{"[Int!]", func(s symbol.Symbol) ast.Type {
			return ast.Type{IsList: true, Elem: &ast.Type{Name: s, NonNull: true}}
		}},
		{"[Int!]!", func(s symbol.Symbol) ast.Type {
			return ast.Type{IsList: true, NonNull: true, Elem: &ast.Type{Name: s, NonNull: true}}
		}},
	}
	for _, c := range cases {
		t.Run(c.typ, func(t *testing.T) {
			doc := mustParse(t, "type T { f: "+c.typ+" }")
			obj := doc.Objects[doc.Interner.Intern("T")]
			if obj == nil || len(obj.Fields) != 1 {
				t.Fatal("expected exactly one field on T")
			}
			want := c.want(doc.Interner.Intern("Int"))
			if diff := cmp.Diff(want, obj.Fields[0].Type); diff != "" {
				t.Fatalf("type tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnterminatedTypeDefinition(t *testing.T) {
	_, err := Parse([]byte("type Foo {"))
	if err == nil {
		t.Fatal("expected an error")
	}
	var tokErr *gqlerror.ExpectedTokenError
	if !errors.As(err, &tokErr) {
		t.Fatalf("expected *gqlerror.ExpectedTokenError, got %T", err)
	}
	if tokErr.Found.Kind != token.EOF {
		t.Errorf("found token is %v, want end of input", tokErr.Found)
	}
	if got := err.Error(); got != "expected Name, found end of input" {
		t.Errorf("message is %q", got)
	}
}

func TestAliasDisambiguation(t *testing.T) {
	doc := mustParse(t, "query { a: b }")
	op := doc.Operations[ast.OperationKey{Kind: ast.Query}]
	if op == nil || len(op.SelectionSet) != 1 {
		t.Fatal("expected one selection")
	}
	field := op.SelectionSet[0].(*ast.Field)
	if field.Alias != doc.Interner.Intern("a") {
		t.Errorf("alias is %q, want a", doc.Resolve(field.Alias))
	}
	if field.Name != doc.Interner.Intern("b") {
		t.Errorf("name is %q, want b", doc.Resolve(field.Name))
	}

	doc = mustParse(t, "query { b }")
	op = doc.Operations[ast.OperationKey{Kind: ast.Query}]
	field = op.SelectionSet[0].(*ast.Field)
	if field.Alias != symbol.None {
		t.Errorf("alias is %q, want none", doc.Resolve(field.Alias))
	}
	if field.Name != doc.Interner.Intern("b") {
		t.Errorf("name is %q, want b", doc.Resolve(field.Name))
	}
}

func TestFragmentForms(t *testing.T) {
	doc := mustParse(t, "query { ...Foo }")
	op := doc.Operations[ast.OperationKey{Kind: ast.Query}]
	spread, ok := op.SelectionSet[0].(*ast.FragmentSpread)
	if !ok {
		t.Fatalf("selection is %T, want *ast.FragmentSpread", op.SelectionSet[0])
	}
	if spread.Name != doc.Interner.Intern("Foo") {
		t.Errorf("spread name is %q, want Foo", doc.Resolve(spread.Name))
	}

	doc = mustParse(t, "query { ... on Foo { x } }")
	op = doc.Operations[ast.OperationKey{Kind: ast.Query}]
	inline, ok := op.SelectionSet[0].(*ast.InlineFragment)
	if !ok {
		t.Fatalf("selection is %T, want *ast.InlineFragment", op.SelectionSet[0])
	}
	if inline.On != doc.Interner.Intern("Foo") {
		t.Errorf("type condition is %q, want Foo", doc.Resolve(inline.On))
	}
	if len(inline.SelectionSet) != 1 {
		t.Fatalf("inline fragment has %d selections, want 1", len(inline.SelectionSet))
	}
	if f := inline.SelectionSet[0].(*ast.Field); f.Name != doc.Interner.Intern("x") {
		t.Errorf("inner field is %q, want x", doc.Resolve(f.Name))
	}

	// A name starting with "on" is a spread, not an inline fragment.
	doc = mustParse(t, "query { ...onFoo }")
	op = doc.Operations[ast.OperationKey{Kind: ast.Query}]
	if _, ok := op.SelectionSet[0].(*ast.FragmentSpread); !ok {
		t.Errorf("selection is %T, want *ast.FragmentSpread", op.SelectionSet[0])
	}
}

func TestDuplicateTypeLastWins(t *testing.T) {
	doc := mustParse(t, "type Foo { a: Int } type Foo { b: Int }")
	if len(doc.Objects) != 1 {
		t.Fatalf("document has %d objects, want 1", len(doc.Objects))
	}
	obj := doc.Objects[doc.Interner.Intern("Foo")]
	if len(obj.Fields) != 1 || obj.Fields[0].Name != doc.Interner.Intern("b") {
		t.Errorf("surviving definition is not the second one: %+v", obj.Fields)
	}
}

func TestScalarAndObjectDocument(t *testing.T) {
	doc := mustParse(t, "scalar DateTime\ntype Query { time: DateTime! }")
	if len(doc.Scalars) != 1 || len(doc.Objects) != 1 {
		t.Fatalf("got %d scalars and %d objects, want 1 and 1", len(doc.Scalars), len(doc.Objects))
	}
	if doc.Scalars[doc.Interner.Intern("DateTime")] == nil {
		t.Fatal("scalar DateTime missing")
	}
	obj := doc.Objects[doc.Interner.Intern("Query")]
	if obj == nil || len(obj.Fields) != 1 {
		t.Fatal("object Query missing or malformed")
	}
	field := obj.Fields[0]
	if field.Name != doc.Interner.Intern("time") {
		t.Errorf("field name is %q, want time", doc.Resolve(field.Name))
	}
	want := ast.Type{Name: doc.Interner.Intern("DateTime"), NonNull: true}
	if diff := cmp.Diff(want, field.Type); diff != "" {
		t.Fatalf("field type mismatch (-want +got):\n%s", diff)
	}
}

func TestMaxDepth(t *testing.T) {
	deep := "query { " + strings.Repeat("a { ", 40) + "x" + strings.Repeat(" }", 40) + " }"
	p := NewWithOptions(lexer.New([]byte(deep)), Options{MaxDepth: 8})
	if _, err := p.ParseDocument(); !errors.Is(err, ErrTooDeep) {
		t.Fatalf("deep selections: got %v, want ErrTooDeep", err)
	}

	deepType := "type T { f: " + strings.Repeat("[", 40) + "Int" + strings.Repeat("]", 40) + " }"
	p = NewWithOptions(lexer.New([]byte(deepType)), Options{MaxDepth: 8})
	if _, err := p.ParseDocument(); !errors.Is(err, ErrTooDeep) {
		t.Fatalf("deep list type: got %v, want ErrTooDeep", err)
	}

	deepValue := "input I { f: J = " + strings.Repeat("[", 40) + strings.Repeat("]", 40) + " }"
	p = NewWithOptions(lexer.New([]byte(deepValue)), Options{MaxDepth: 8})
	if _, err := p.ParseDocument(); !errors.Is(err, ErrTooDeep) {
		t.Fatalf("deep list value: got %v, want ErrTooDeep", err)
	}

	// The default limit leaves ordinary documents alone.
	if _, err := Parse([]byte(deep)); err != nil {
		t.Errorf("default limit rejected a 40-deep document: %v", err)
	}
}

func TestDescriptions(t *testing.T) {
	src := `
"""
The root query.
"""
type Query {
  "Current server time."
  time: String
}
`
	doc := mustParse(t, src)
	obj := doc.Objects[doc.Interner.Intern("Query")]
	if obj == nil {
		t.Fatal("object Query missing")
	}
	if got := doc.Resolve(obj.Description); got != "The root query." {
		t.Errorf("type description is %q", got)
	}
	if got := doc.Resolve(obj.Fields[0].Description); got != "Current server time." {
		t.Errorf("field description is %q", got)
	}

	// A description before an executable definition parses but is not kept.
	doc = mustParse(t, `"About the query." query Named { a }`)
	if doc.Operations[ast.OperationKey{Name: doc.Interner.Intern("Named"), Kind: ast.Query}] == nil {
		t.Error("described operation missing")
	}
}

func TestUnionDefinition(t *testing.T) {
	doc := mustParse(t, "union Media = Book | Movie")
	u := doc.Unions[doc.Interner.Intern("Media")]
	if u == nil {
		t.Fatal("union Media missing")
	}
	want := []symbol.Symbol{doc.Interner.Intern("Book"), doc.Interner.Intern("Movie")}
	if diff := cmp.Diff(want, u.Types); diff != "" {
		t.Fatalf("member mismatch (-want +got):\n%s", diff)
	}

	_, err := Parse([]byte("union Broken Book | Movie"))
	if err == nil {
		t.Fatal("expected an error for a union without =")
	}
	if got := err.Error(); got != `expected '=', found 'B'` {
		t.Errorf("message is %q", got)
	}
}

func TestEnumDefinition(t *testing.T) {
	doc := mustParse(t, `enum Role { ADMIN "Read only." VIEWER @deprecated }`)
	e := doc.Enums[doc.Interner.Intern("Role")]
	if e == nil || len(e.Values) != 2 {
		t.Fatal("enum Role missing or malformed")
	}
	if e.Values[0].Name != doc.Interner.Intern("ADMIN") {
		t.Errorf("first variant is %q", doc.Resolve(e.Values[0].Name))
	}
	if got := doc.Resolve(e.Values[1].Description); got != "Read only." {
		t.Errorf("variant description is %q", got)
	}
	if len(e.Values[1].Directives) != 1 ||
		e.Values[1].Directives[0].Name != doc.Interner.Intern("deprecated") {
		t.Errorf("variant directives are %+v", e.Values[1].Directives)
	}
}

func TestInputObjectDefaults(t *testing.T) {
	src := `input Filter {
  limit: Int = 10
  ratio: Float = 1.5e3
  on: Boolean = true
  off: Boolean = false
  label: String = null
  color: Color = RED
  tags: [String] = ["a"]
  opts: Opts = { depth: 2, depth: 3 }
}`
	doc := mustParse(t, src)
	in := doc.InputObjects[doc.Interner.Intern("Filter")]
	if in == nil || len(in.Fields) != 8 {
		t.Fatal("input Filter missing or malformed")
	}

	defaults := []ast.Value{
		{Kind: ast.IntValue, Literal: "10"},
		{Kind: ast.FloatValue, Literal: "1.5e3"},
		{Kind: ast.BooleanValue, Bool: true},
		{Kind: ast.BooleanValue},
		{Kind: ast.NullValue},
		{Kind: ast.EnumValue, Sym: doc.Interner.Intern("RED")},
	}
	for i, want := range defaults {
		if diff := cmp.Diff(want, in.Fields[i].Default); diff != "" {
			t.Errorf("default %d mismatch (-want +got):\n%s", i, diff)
		}
	}

	tags := in.Fields[6].Default
	if tags.Kind != ast.ListValue || len(tags.List) != 1 {
		t.Fatalf("tags default is %+v", tags)
	}
	if tags.List[0].Kind != ast.StringValue || doc.Resolve(tags.List[0].Sym) != "a" {
		t.Errorf("tags element is %+v", tags.List[0])
	}

	// Duplicate object keys keep the last value.
	opts := in.Fields[7].Default
	if opts.Kind != ast.ObjectValue || len(opts.Object) != 1 {
		t.Fatalf("opts default is %+v", opts)
	}
	if got := opts.Object[doc.Interner.Intern("depth")]; got.Literal != "3" {
		t.Errorf("depth is %q, want the later write 3", got.Literal)
	}

	// A field without a default reports an absent value.
	doc = mustParse(t, "input I { f: Int }")
	in = doc.InputObjects[doc.Interner.Intern("I")]
	if in.Fields[0].Default.Kind != ast.NoValue {
		t.Errorf("missing default has kind %v, want NoValue", in.Fields[0].Default.Kind)
	}
}

func TestVariableDefinitions(t *testing.T) {
	doc := mustParse(t, "query Get($id: ID!, $limit: Int = 10) { node }")
	op := doc.Operations[ast.OperationKey{Name: doc.Interner.Intern("Get"), Kind: ast.Query}]
	if op == nil || len(op.VariableDefinitions) != 2 {
		t.Fatal("operation Get missing or malformed")
	}

	id := op.VariableDefinitions[0]
	if id.Variable != doc.Interner.Intern("id") {
		t.Errorf("first variable is %q", doc.Resolve(id.Variable))
	}
	wantType := ast.Type{Name: doc.Interner.Intern("ID"), NonNull: true}
	if diff := cmp.Diff(wantType, id.Type); diff != "" {
		t.Fatalf("variable type mismatch (-want +got):\n%s", diff)
	}
	if id.Default.Kind != ast.NoValue {
		t.Errorf("first variable default is %v, want NoValue", id.Default.Kind)
	}

	limit := op.VariableDefinitions[1]
	if limit.Default.Kind != ast.IntValue || limit.Default.Literal != "10" {
		t.Errorf("second variable default is %+v", limit.Default)
	}

	_, err := Parse([]byte("query Get(id: ID) { node }"))
	if err == nil {
		t.Fatal("expected an error for a variable without $")
	}
	if got := err.Error(); got != "expected '$', found Name(id)" {
		t.Errorf("message is %q", got)
	}
}

func TestKeywordsAsNames(t *testing.T) {
	doc := mustParse(t, "type type { on: query }")
	obj := doc.Objects[doc.Interner.Intern("type")]
	if obj == nil {
		t.Fatal("object named type missing")
	}
	if obj.Fields[0].Name != doc.Interner.Intern("on") {
		t.Errorf("field name is %q, want on", doc.Resolve(obj.Fields[0].Name))
	}
	if obj.Fields[0].Type.Name != doc.Interner.Intern("query") {
		t.Errorf("field type is %q, want query", doc.Resolve(obj.Fields[0].Type.Name))
	}
}

func TestTopLevelErrors(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"extend type Query { a: Int }", "unexpected token Keyword(extend)"},
		{"{ a }", "expected Keyword, found '{'"},
		{`"lost description"`, "expected Keyword, found end of input"},
		{"42", "expected Keyword, found Int(42)"},
		{"query { ..x }", `expected '.', found 'x'`},
		{"fragment F { a }", "expected Keyword(on), found '{'"},
		{"query @ { a }", "expected Name, found '{'"},
	}
	for _, c := range cases {
		_, err := Parse([]byte(c.src))
		if err == nil {
			t.Errorf("input %q: expected an error", c.src)
			continue
		}
		if got := err.Error(); got != c.want {
			t.Errorf("input %q: message is %q, want %q", c.src, got, c.want)
		}
	}
}

func TestOperationKeys(t *testing.T) {
	doc := mustParse(t, "query { a } mutation { b } query Named { c }")
	if len(doc.Operations) != 3 {
		t.Fatalf("document has %d operations, want 3", len(doc.Operations))
	}
	if doc.Operations[ast.OperationKey{Kind: ast.Query}] == nil {
		t.Error("anonymous query missing")
	}
	if doc.Operations[ast.OperationKey{Kind: ast.Mutation}] == nil {
		t.Error("anonymous mutation missing")
	}
	if doc.Operations[ast.OperationKey{Name: doc.Interner.Intern("Named"), Kind: ast.Query}] == nil {
		t.Error("named query missing")
	}

	// A second anonymous query replaces the first.
	doc = mustParse(t, "query { a } query { b }")
	if len(doc.Operations) != 1 {
		t.Fatalf("document has %d operations, want 1", len(doc.Operations))
	}
	op := doc.Operations[ast.OperationKey{Kind: ast.Query}]
	if f := op.SelectionSet[0].(*ast.Field); f.Name != doc.Interner.Intern("b") {
		t.Errorf("surviving operation selects %q, want b", doc.Resolve(f.Name))
	}
}

func TestImplements(t *testing.T) {
	doc := mustParse(t, "type A implements Node & Timestamped { id: ID }")
	obj := doc.Objects[doc.Interner.Intern("A")]
	if obj == nil {
		t.Fatal("object A missing")
	}
	want := []symbol.Symbol{
		doc.Interner.Intern("Node"),
		doc.Interner.Intern("Timestamped"),
	}
	if diff := cmp.Diff(want, obj.Implements); diff != "" {
		t.Fatalf("implements mismatch (-want +got):\n%s", diff)
	}
}

func TestDirectiveArguments(t *testing.T) {
	doc := mustParse(t, `scalar Date @specifiedBy(url: "https://scalars.example/date")`)
	s := doc.Scalars[doc.Interner.Intern("Date")]
	if s == nil || len(s.Directives) != 1 {
		t.Fatal("scalar Date missing or without directive")
	}
	d := s.Directives[0]
	if d.Name != doc.Interner.Intern("specifiedBy") {
		t.Errorf("directive name is %q", doc.Resolve(d.Name))
	}
	if len(d.Arguments) != 1 || d.Arguments[0].Name != doc.Interner.Intern("url") {
		t.Fatalf("directive arguments are %+v", d.Arguments)
	}
	v := d.Arguments[0].Value
	if v.Kind != ast.StringValue || doc.Resolve(v.Sym) != "https://scalars.example/date" {
		t.Errorf("directive argument value is %+v", v)
	}
}

func TestEmptySelectionSets(t *testing.T) {
	doc := mustParse(t, "query { }")
	op := doc.Operations[ast.OperationKey{Kind: ast.Query}]
	if op.SelectionSet == nil {
		t.Fatal("operation selection set should be present even when empty")
	}
	if len(op.SelectionSet) != 0 {
		t.Errorf("selection set has %d entries, want 0", len(op.SelectionSet))
	}

	// An empty braced set on a field differs from no set at all.
	doc = mustParse(t, "query { a { } b }")
	op = doc.Operations[ast.OperationKey{Kind: ast.Query}]
	a := op.SelectionSet[0].(*ast.Field)
	b := op.SelectionSet[1].(*ast.Field)
	if a.SelectionSet == nil {
		t.Error("field a should carry an empty selection set")
	}
	if b.SelectionSet != nil {
		t.Error("field b should be a leaf")
	}
}

func TestExecutableDocument(t *testing.T) {
	src := `
fragment Details on User {
  id
  name
}

query GetUser($id: ID!) @cached {
  user(id: $id) {
    ...Details
    ... on Admin { level }
    posts: articles(first: 3) { title }
  }
}
`
	doc := mustParse(t, src)

	frag := doc.Fragments[doc.Interner.Intern("Details")]
	if frag == nil {
		t.Fatal("fragment Details missing")
	}
	if frag.On != doc.Interner.Intern("User") {
		t.Errorf("fragment condition is %q, want User", doc.Resolve(frag.On))
	}
	if len(frag.SelectionSet) != 2 {
		t.Errorf("fragment has %d selections, want 2", len(frag.SelectionSet))
	}

	op := doc.Operations[ast.OperationKey{Name: doc.Interner.Intern("GetUser"), Kind: ast.Query}]
	if op == nil {
		t.Fatal("operation GetUser missing")
	}
	if len(op.Directives) != 1 || op.Directives[0].Name != doc.Interner.Intern("cached") {
		t.Errorf("operation directives are %+v", op.Directives)
	}

	user := op.SelectionSet[0].(*ast.Field)
	if len(user.Arguments) != 1 {
		t.Fatalf("user has %d arguments, want 1", len(user.Arguments))
	}
	arg := user.Arguments[0]
	if arg.Value.Kind != ast.VariableValue || doc.Resolve(arg.Value.Sym) != "id" {
		t.Errorf("user argument is %+v", arg.Value)
	}
	if len(user.SelectionSet) != 3 {
		t.Fatalf("user has %d selections, want 3", len(user.SelectionSet))
	}
	if _, ok := user.SelectionSet[0].(*ast.FragmentSpread); !ok {
		t.Errorf("first selection is %T, want *ast.FragmentSpread", user.SelectionSet[0])
	}
	if _, ok := user.SelectionSet[1].(*ast.InlineFragment); !ok {
		t.Errorf("second selection is %T, want *ast.InlineFragment", user.SelectionSet[1])
	}
	posts := user.SelectionSet[2].(*ast.Field)
	if posts.Alias != doc.Interner.Intern("posts") || posts.Name != doc.Interner.Intern("articles") {
		t.Errorf("aliased field is %q: %q", doc.Resolve(posts.Alias), doc.Resolve(posts.Name))
	}
	if posts.Arguments[0].Value.Kind != ast.IntValue || posts.Arguments[0].Value.Literal != "3" {
		t.Errorf("posts argument is %+v", posts.Arguments[0].Value)
	}
}

func TestCommentsBetweenDefinitions(t *testing.T) {
	src := "# schema header\ntype T { # fields\n  f: Int\n}\n# trailing"
	doc := mustParse(t, src)
	obj := doc.Objects[doc.Interner.Intern("T")]
	if obj == nil || len(obj.Fields) != 1 {
		t.Fatal("commented type missing or malformed")
	}
}
