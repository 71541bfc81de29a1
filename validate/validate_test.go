package validate

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/softmesh/graphql/ast"
	"github.com/softmesh/graphql/parser"
)

func mustParse(t *testing.T, source string) *ast.Document {
	t.Helper()
	doc, err := parser.Parse([]byte(source))
	if err != nil {
		t.Fatalf("Parse(%q): %v", source, err)
	}
	return doc
}

func TestValidDocument(t *testing.T) {
	doc := mustParse(t, `
		interface Node { id: ID! }

		type User implements Node {
			id: ID!
			name: String
		}
	`)
	errs := Validate(doc)
	if len(errs) != 0 {
		t.Fatalf("Validate returned %d errors, want none: %v", len(errs), errs)
	}
	if err := errs.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
}

func TestUnknownInterface(t *testing.T) {
	doc := mustParse(t, `
		interface Node { id: ID! }

		type User implements Node & Timestamped { id: ID! }
	`)
	errs := Validate(doc)
	want := Errors{
		{Kind: UnknownInterface, Object: "User", Interface: "Timestamped"},
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("Validate mismatch (-want +got):\n%s", diff)
	}
	if got, want := errs[0].Error(), `object "User" implements unknown interface "Timestamped"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestMissingInterfaceField(t *testing.T) {
	doc := mustParse(t, `
		interface Timestamped {
			createdAt: String!
			updatedAt: String!
		}

		type Post implements Timestamped {
			id: ID!
			createdAt: String!
		}
	`)
	errs := Validate(doc)
	want := Errors{
		{Kind: MissingInterfaceField, Object: "Post", Interface: "Timestamped", Field: "updatedAt"},
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("Validate mismatch (-want +got):\n%s", diff)
	}
	if got, want := errs[0].Error(), `object "Post" is missing field "updatedAt" of interface "Timestamped"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

// Errors come out rule by rule, and each rule visits objects in resolved
// name order rather than declaration order.
func TestErrorOrdering(t *testing.T) {
	doc := mustParse(t, `
		interface Named { name: String }

		type Zebra implements Ghost { id: ID }
		type Aardvark implements Ghost & Named { id: ID }
	`)
	errs := Validate(doc)
	want := Errors{
		{Kind: UnknownInterface, Object: "Aardvark", Interface: "Ghost"},
		{Kind: UnknownInterface, Object: "Zebra", Interface: "Ghost"},
		{Kind: MissingInterfaceField, Object: "Aardvark", Interface: "Named", Field: "name"},
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("Validate mismatch (-want +got):\n%s", diff)
	}
}

func TestExplicitRules(t *testing.T) {
	doc := mustParse(t, `type User implements Ghost { id: ID }`)

	marker := &Error{Kind: UnknownInterface, Object: "marker"}
	always := Rule{
		Name:  "AlwaysFails",
		Check: func(*ast.Document) Errors { return Errors{marker} },
	}

	// Explicit rules replace the registered set, so the unknown Ghost
	// interface goes unreported here.
	errs := Validate(doc, always)
	if len(errs) != 1 || errs[0] != marker {
		t.Fatalf("Validate with explicit rule = %v, want exactly the rule's own error", errs)
	}
}

func TestRegister(t *testing.T) {
	defer func(saved []Rule) { registered = saved }(registered)

	marker := &Error{Kind: UnknownInterface, Object: "registered"}
	Register(Rule{
		Name:  "Marker",
		Check: func(*ast.Document) Errors { return Errors{marker} },
	})

	doc := mustParse(t, `type User { id: ID }`)
	errs := Validate(doc)
	if len(errs) != 1 || errs[0] != marker {
		t.Fatalf("Validate after Register = %v, want only the registered rule's error", errs)
	}

	var names []string
	for _, r := range Rules() {
		names = append(names, r.Name)
	}
	want := []string{"ImplementsExist", "ImplementedFieldsPresent", "Marker"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Rules() mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorsJoin(t *testing.T) {
	if err := (Errors{}).Err(); err != nil {
		t.Errorf("empty Errors.Err() = %v, want nil", err)
	}

	errs := Errors{
		{Kind: UnknownInterface, Object: "A", Interface: "I"},
		{Kind: MissingInterfaceField, Object: "B", Interface: "J", Field: "f"},
	}
	want := `object "A" implements unknown interface "I"` + "\n" +
		`object "B" is missing field "f" of interface "J"`
	if got := errs.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if errs.Err() == nil {
		t.Error("non-empty Errors.Err() = nil, want error")
	}
}

func TestKindString(t *testing.T) {
	cases := []struct {
		kind Kind
		want string
	}{
		{UnknownInterface, "unknown-interface"},
		{MissingInterfaceField, "missing-interface-field"},
		{Kind(9), "Kind(9)"},
	}
	for _, c := range cases {
		if got := c.kind.String(); got != c.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(c.kind), got, c.want)
		}
	}
}
