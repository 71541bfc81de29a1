package ast

import "fmt"

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the returned visitor w is not nil, Walk visits each child of the node
// with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses the tree rooted at node in depth-first order: it first
// calls v.Visit(node); node must not be nil. If the visitor returned by
// v.Visit(node) is not nil, Walk is invoked recursively with that visitor
// for each non-nil child of node, followed by a call of w.Visit(nil).
//
// Children of a Document are its Definitions, in that method's order.
// Walk does not descend into Values; inspect Argument.Value directly
// where needed.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Document:
		for _, def := range n.Definitions() {
			Walk(v, def)
		}

	case *ScalarDefinition:
		walkDirectives(v, n.Directives)

	case *ObjectDefinition:
		walkDirectives(v, n.Directives)
		for i := range n.Fields {
			Walk(v, &n.Fields[i])
		}

	case *InterfaceDefinition:
		walkDirectives(v, n.Directives)
		for i := range n.Fields {
			Walk(v, &n.Fields[i])
		}

	case *UnionDefinition:
		walkDirectives(v, n.Directives)

	case *EnumDefinition:
		walkDirectives(v, n.Directives)
		for i := range n.Values {
			Walk(v, &n.Values[i])
		}

	case *EnumValueDefinition:
		walkDirectives(v, n.Directives)

	case *InputObjectDefinition:
		walkDirectives(v, n.Directives)
		for i := range n.Fields {
			Walk(v, &n.Fields[i])
		}

	case *FieldDefinition:
		for i := range n.Arguments {
			Walk(v, &n.Arguments[i])
		}
		walkDirectives(v, n.Directives)

	case *InputValueDefinition:
		walkDirectives(v, n.Directives)

	case *Operation:
		for i := range n.VariableDefinitions {
			Walk(v, &n.VariableDefinitions[i])
		}
		walkDirectives(v, n.Directives)
		walkSelections(v, n.SelectionSet)

	case *VariableDefinition:
		// Leaf; the type and default value are not walked.

	case *Fragment:
		walkDirectives(v, n.Directives)
		walkSelections(v, n.SelectionSet)

	case *Field:
		walkArguments(v, n.Arguments)
		walkDirectives(v, n.Directives)
		walkSelections(v, n.SelectionSet)

	case *FragmentSpread:
		walkDirectives(v, n.Directives)

	case *InlineFragment:
		walkDirectives(v, n.Directives)
		walkSelections(v, n.SelectionSet)

	case *Argument:
		// Leaf; values are not walked.

	case *Directive:
		walkArguments(v, n.Arguments)

	default:
		panic(fmt.Sprintf("ast.Walk: unexpected node type %T", n))
	}

	v.Visit(nil)
}

func walkDirectives(v Visitor, list []Directive) {
	for i := range list {
		Walk(v, &list[i])
	}
}

func walkArguments(v Visitor, list []Argument) {
	for i := range list {
		Walk(v, &list[i])
	}
}

func walkSelections(v Visitor, set SelectionSet) {
	for _, sel := range set {
		Walk(v, sel)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses the tree rooted at node, calling f for each node.
// If f returns true, Inspect invokes f recursively for each child of the
// node, followed by a call of f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}
