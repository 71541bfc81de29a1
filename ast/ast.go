package ast

import (
	"sort"
	"strconv"

	"github.com/softmesh/graphql/symbol"
)

// Node is the base interface for all AST nodes.
type Node interface {
	node()
}

// Definition is an interface for all top-level definitions in a GraphQL document.
type Definition interface {
	Node
	definition()
}

// Selection is an interface for all selections (fields, spreads, inline fragments).
type Selection interface {
	Node
	selection()
}

// Document represents a complete GraphQL document. Each definition lives in
// the map for its kind, keyed by interned name; a later definition with the
// same name replaces the earlier one. The Interner resolves every Symbol in
// the tree and belongs to this document alone.
type Document struct {
	Scalars      map[symbol.Symbol]*ScalarDefinition
	Objects      map[symbol.Symbol]*ObjectDefinition
	Interfaces   map[symbol.Symbol]*InterfaceDefinition
	Unions       map[symbol.Symbol]*UnionDefinition
	Enums        map[symbol.Symbol]*EnumDefinition
	InputObjects map[symbol.Symbol]*InputObjectDefinition
	Operations   map[OperationKey]*Operation
	Fragments    map[symbol.Symbol]*Fragment

	Interner *symbol.Interner
}

// NewDocument creates an empty document whose Symbols resolve through in.
func NewDocument(in *symbol.Interner) *Document {
	return &Document{
		Scalars:      make(map[symbol.Symbol]*ScalarDefinition),
		Objects:      make(map[symbol.Symbol]*ObjectDefinition),
		Interfaces:   make(map[symbol.Symbol]*InterfaceDefinition),
		Unions:       make(map[symbol.Symbol]*UnionDefinition),
		Enums:        make(map[symbol.Symbol]*EnumDefinition),
		InputObjects: make(map[symbol.Symbol]*InputObjectDefinition),
		Operations:   make(map[OperationKey]*Operation),
		Fragments:    make(map[symbol.Symbol]*Fragment),
		Interner:     in,
	}
}

// Resolve returns the text behind a Symbol in this document.
func (d *Document) Resolve(sym symbol.Symbol) string {
	return d.Interner.Resolve(sym)
}

// Definitions returns every definition in the document in a stable order:
// type system definitions grouped by kind and sorted by name, then
// fragments, then operations.
func (d *Document) Definitions() []Definition {
	var defs []Definition
	for _, sym := range sortedKeys(d.Interner, d.Scalars) {
		defs = append(defs, d.Scalars[sym])
	}
	for _, sym := range sortedKeys(d.Interner, d.Objects) {
		defs = append(defs, d.Objects[sym])
	}
	for _, sym := range sortedKeys(d.Interner, d.Interfaces) {
		defs = append(defs, d.Interfaces[sym])
	}
	for _, sym := range sortedKeys(d.Interner, d.Unions) {
		defs = append(defs, d.Unions[sym])
	}
	for _, sym := range sortedKeys(d.Interner, d.Enums) {
		defs = append(defs, d.Enums[sym])
	}
	for _, sym := range sortedKeys(d.Interner, d.InputObjects) {
		defs = append(defs, d.InputObjects[sym])
	}
	for _, sym := range sortedKeys(d.Interner, d.Fragments) {
		defs = append(defs, d.Fragments[sym])
	}
	keys := make([]OperationKey, 0, len(d.Operations))
	for key := range d.Operations {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, nj := d.Resolve(keys[i].Name), d.Resolve(keys[j].Name)
		if ni != nj {
			return ni < nj
		}
		return keys[i].Kind < keys[j].Kind
	})
	for _, key := range keys {
		defs = append(defs, d.Operations[key])
	}
	return defs
}

// sortedKeys orders map keys by their resolved text.
func sortedKeys[V any](in *symbol.Interner, m map[symbol.Symbol]V) []symbol.Symbol {
	keys := make([]symbol.Symbol, 0, len(m))
	for sym := range m {
		keys = append(keys, sym)
	}
	sort.Slice(keys, func(i, j int) bool {
		return in.Resolve(keys[i]) < in.Resolve(keys[j])
	})
	return keys
}

// Type represents a GraphQL type reference (e.g., String, [Int!], User!).
// A freshly parsed type is nullable; a trailing bang sets NonNull on the
// level it follows.
type Type struct {
	Name    symbol.Symbol // Base type name
	NonNull bool          // Whether the type is non-nullable (!)
	IsList  bool          // Whether the type is a list ([])
	Elem    *Type         // Element type if this is a list
}

// ValueKind discriminates the payload of a Value.
type ValueKind int

const (
	NoValue ValueKind = iota // Zero value; marks an absent optional value
	BooleanValue
	NullValue
	StringValue
	IntValue
	FloatValue
	EnumValue
	VariableValue
	ListValue
	ObjectValue
)

var valueKindNames = [...]string{
	NoValue:       "NoValue",
	BooleanValue:  "Boolean",
	NullValue:     "Null",
	StringValue:   "String",
	IntValue:      "Int",
	FloatValue:    "Float",
	EnumValue:     "Enum",
	VariableValue: "Variable",
	ListValue:     "List",
	ObjectValue:   "Object",
}

// String returns the kind's name.
func (k ValueKind) String() string {
	if k >= 0 && int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return "ValueKind(" + strconv.Itoa(int(k)) + ")"
}

// Value represents an input value: a literal, an enum or variable
// reference, or a list or object of further values. Which payload field is
// meaningful depends on Kind.
type Value struct {
	Kind    ValueKind               // Discriminates the payload
	Bool    bool                    // For Boolean values
	Sym     symbol.Symbol           // For String, Enum, and Variable values
	Literal string                  // Raw lexeme of Int and Float values
	List    []Value                 // For List values
	Object  map[symbol.Symbol]Value // For Object values; last write wins per key
}

// Int converts an Int value's lexeme.
func (v Value) Int() (int64, error) {
	return strconv.ParseInt(v.Literal, 10, 64)
}

// Float converts an Int or Float value's lexeme.
func (v Value) Float() (float64, error) {
	return strconv.ParseFloat(v.Literal, 64)
}

// ScalarDefinition represents a scalar type definition.
type ScalarDefinition struct {
	Description symbol.Symbol
	Name        symbol.Symbol
	Directives  []Directive
}

// ObjectDefinition represents an object type definition
// (e.g., "type Query { ... }"). Implements keeps declaration order.
type ObjectDefinition struct {
	Description symbol.Symbol
	Name        symbol.Symbol
	Implements  []symbol.Symbol
	Directives  []Directive
	Fields      []FieldDefinition
}

// Field returns the definition of the named field, if present.
func (d *ObjectDefinition) Field(name symbol.Symbol) (*FieldDefinition, bool) {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			return &d.Fields[i], true
		}
	}
	return nil, false
}

// InterfaceDefinition represents an interface type definition.
type InterfaceDefinition struct {
	Description symbol.Symbol
	Name        symbol.Symbol
	Directives  []Directive
	Fields      []FieldDefinition
}

// UnionDefinition represents a union type definition ("union U = A | B").
// Types keeps declaration order.
type UnionDefinition struct {
	Description symbol.Symbol
	Name        symbol.Symbol
	Directives  []Directive
	Types       []symbol.Symbol
}

// EnumDefinition represents an enum type definition.
type EnumDefinition struct {
	Description symbol.Symbol
	Name        symbol.Symbol
	Directives  []Directive
	Values      []EnumValueDefinition
}

// EnumValueDefinition represents one variant of an enum.
type EnumValueDefinition struct {
	Description symbol.Symbol
	Name        symbol.Symbol
	Directives  []Directive
}

// InputObjectDefinition represents an input object type definition.
type InputObjectDefinition struct {
	Description symbol.Symbol
	Name        symbol.Symbol
	Directives  []Directive
	Fields      []InputValueDefinition
}

// FieldDefinition represents one output field of an object or interface.
type FieldDefinition struct {
	Description symbol.Symbol
	Name        symbol.Symbol
	Arguments   []InputValueDefinition
	Type        Type
	Directives  []Directive
}

// InputValueDefinition represents an argument of an output field or a field
// of an input object. Default.Kind is NoValue when no default was written.
type InputValueDefinition struct {
	Description symbol.Symbol
	Name        symbol.Symbol
	Type        Type
	Default     Value
	Directives  []Directive
}

// OperationKind distinguishes queries, mutations, and subscriptions.
type OperationKind int

const (
	Query OperationKind = iota
	Mutation
	Subscription
)

var operationKindNames = [...]string{
	Query:        "query",
	Mutation:     "mutation",
	Subscription: "subscription",
}

// String returns the keyword that introduces the operation kind.
func (k OperationKind) String() string {
	if k >= 0 && int(k) < len(operationKindNames) {
		return operationKindNames[k]
	}
	return "OperationKind(" + strconv.Itoa(int(k)) + ")"
}

// OperationKey identifies an operation in a document. Name is None for an
// anonymous operation, so a document holds at most one anonymous operation
// per kind.
type OperationKey struct {
	Name symbol.Symbol
	Kind OperationKind
}

// Operation represents a query, mutation, or subscription definition.
// Name is None when the operation is anonymous.
type Operation struct {
	Kind                OperationKind
	Name                symbol.Symbol
	VariableDefinitions []VariableDefinition
	Directives          []Directive
	SelectionSet        SelectionSet
}

// Key returns the map key this operation is stored under.
func (op *Operation) Key() OperationKey {
	return OperationKey{Name: op.Name, Kind: op.Kind}
}

// VariableDefinition represents a variable declared by an operation.
// Variable holds the name without the leading dollar sign; Default.Kind is
// NoValue when no default was written.
type VariableDefinition struct {
	Variable symbol.Symbol
	Type     Type
	Default  Value
}

// Fragment represents a named fragment definition; On is the type
// condition.
type Fragment struct {
	Name         symbol.Symbol
	On           symbol.Symbol
	Directives   []Directive
	SelectionSet SelectionSet
}

// SelectionSet represents the braced list of selections of an operation,
// fragment, or field.
type SelectionSet []Selection

// Field represents a single field selection. Alias is None when the field
// is not aliased; SelectionSet is nil for a leaf field.
type Field struct {
	Alias        symbol.Symbol
	Name         symbol.Symbol
	Arguments    []Argument
	Directives   []Directive
	SelectionSet SelectionSet
}

// ResponseName returns the alias if present, the field name otherwise.
func (f *Field) ResponseName() symbol.Symbol {
	if f.Alias != symbol.None {
		return f.Alias
	}
	return f.Name
}

// FragmentSpread represents a "...Name" selection.
type FragmentSpread struct {
	Name       symbol.Symbol
	Directives []Directive
}

// InlineFragment represents a "... on Type { ... }" selection.
type InlineFragment struct {
	On           symbol.Symbol
	Directives   []Directive
	SelectionSet SelectionSet
}

// Argument represents an argument passed to a field or directive.
type Argument struct {
	Name  symbol.Symbol
	Value Value
}

// Directive represents a "@name(...)" annotation.
type Directive struct {
	Name      symbol.Symbol
	Arguments []Argument
}

func (*Document) node()              {}
func (*ScalarDefinition) node()      {}
func (*ObjectDefinition) node()      {}
func (*InterfaceDefinition) node()   {}
func (*UnionDefinition) node()       {}
func (*EnumDefinition) node()        {}
func (*EnumValueDefinition) node()   {}
func (*InputObjectDefinition) node() {}
func (*FieldDefinition) node()       {}
func (*InputValueDefinition) node()  {}
func (*Operation) node()             {}
func (*VariableDefinition) node()    {}
func (*Fragment) node()              {}
func (*Field) node()                 {}
func (*FragmentSpread) node()        {}
func (*InlineFragment) node()        {}
func (*Argument) node()              {}
func (*Directive) node()             {}

func (*ScalarDefinition) definition()      {}
func (*ObjectDefinition) definition()      {}
func (*InterfaceDefinition) definition()   {}
func (*UnionDefinition) definition()       {}
func (*EnumDefinition) definition()        {}
func (*InputObjectDefinition) definition() {}
func (*Operation) definition()             {}
func (*Fragment) definition()              {}

func (*Field) selection()          {}
func (*FragmentSpread) selection() {}
func (*InlineFragment) selection() {}
