package validate

import "github.com/softmesh/graphql/ast"

// Rule is a named document check. Check returns every failure it finds and
// must not mutate the document.
type Rule struct {
	Name  string
	Check func(doc *ast.Document) Errors
}

// Rules applied by Validate when the caller passes none.
var registered []Rule

func init() {
	Register(Rule{Name: "ImplementsExist", Check: checkImplementsExist})
	Register(Rule{Name: "ImplementedFieldsPresent", Check: checkImplementedFields})
}

// Register appends a rule to the default set. Rules run in registration
// order.
func Register(r Rule) {
	registered = append(registered, r)
}

// Rules returns a copy of the default rule set.
func Rules() []Rule {
	return append([]Rule(nil), registered...)
}
