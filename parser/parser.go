package parser

import (
	"errors"

	"github.com/softmesh/graphql/ast"
	"github.com/softmesh/graphql/gqlerror"
	"github.com/softmesh/graphql/lexer"
	"github.com/softmesh/graphql/symbol"
	"github.com/softmesh/graphql/token"
)

// DefaultMaxDepth bounds how deeply selection sets, list types, and
// compound values may nest before parsing aborts.
const DefaultMaxDepth = 128

// ErrTooDeep is returned when a document nests beyond the configured
// maximum depth.
var ErrTooDeep = errors.New("parser: maximum nesting depth exceeded")

// Options configures a Parser.
type Options struct {
	MaxDepth int // Nesting limit; DefaultMaxDepth when zero or negative
}

// Parser parses GraphQL source code into a Document. It pulls tokens from
// the lexer on demand with at most one token of lookahead and aborts on
// the first error.
type Parser struct {
	l        *lexer.Lexer
	maxDepth int
	depth    int
}

// New creates a new Parser for the given lexer.
func New(l *lexer.Lexer) *Parser {
	return NewWithOptions(l, Options{})
}

// NewWithOptions creates a new Parser with explicit options.
func NewWithOptions(l *lexer.Lexer, opts Options) *Parser {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Parser{l: l, maxDepth: maxDepth}
}

// Parse parses a complete GraphQL document from source.
func Parse(source []byte) (*ast.Document, error) {
	return New(lexer.New(source)).ParseDocument()
}

// ParseDocument parses top-level definitions until end of input. On error
// no document is returned; a partial one is never exposed.
func (p *Parser) ParseDocument() (*ast.Document, error) {
	doc := ast.NewDocument(p.l.Interner())
	for {
		tok, err := p.l.PeekToken()
		if err != nil {
			return nil, err
		}
		if tok.Kind == token.EOF {
			return doc, nil
		}
		if err := p.parseDefinition(doc); err != nil {
			return nil, err
		}
	}
}

// parseDefinition parses one top-level definition and inserts it into the
// document, replacing any earlier definition stored under the same key.
func (p *Parser) parseDefinition(doc *ast.Document) error {
	desc, err := p.consumeDescription()
	if err != nil {
		return err
	}

	tok, err := p.l.NextToken()
	if err != nil {
		return err
	}
	if tok.Kind != token.KEYWORD {
		return &gqlerror.ExpectedTokenError{
			Expected: token.Token{Kind: token.KEYWORD},
			Found:    tok,
		}
	}

	// Executable definitions take no description; a parsed one is dropped.
	switch tok.Keyword {
	case token.TYPE:
		def, err := p.parseObjectDefinition(desc)
		if err != nil {
			return err
		}
		doc.Objects[def.Name] = def
	case token.INTERFACE:
		def, err := p.parseInterfaceDefinition(desc)
		if err != nil {
			return err
		}
		doc.Interfaces[def.Name] = def
	case token.ENUM:
		def, err := p.parseEnumDefinition(desc)
		if err != nil {
			return err
		}
		doc.Enums[def.Name] = def
	case token.SCALAR:
		def, err := p.parseScalarDefinition(desc)
		if err != nil {
			return err
		}
		doc.Scalars[def.Name] = def
	case token.UNION:
		def, err := p.parseUnionDefinition(desc)
		if err != nil {
			return err
		}
		doc.Unions[def.Name] = def
	case token.INPUT:
		def, err := p.parseInputObjectDefinition(desc)
		if err != nil {
			return err
		}
		doc.InputObjects[def.Name] = def
	case token.QUERY:
		return p.parseOperation(doc, ast.Query)
	case token.MUTATION:
		return p.parseOperation(doc, ast.Mutation)
	case token.SUBSCRIPTION:
		return p.parseOperation(doc, ast.Subscription)
	case token.FRAGMENT:
		def, err := p.parseFragmentDefinition()
		if err != nil {
			return err
		}
		doc.Fragments[def.Name] = def
	default:
		// Covers extend and keywords that cannot open a definition.
		return &gqlerror.ExpectedTokenError{Found: tok}
	}
	return nil
}

// enter counts one level of nesting and fails once the limit is crossed.
func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return ErrTooDeep
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// intern adds text to the session's intern table.
func (p *Parser) intern(text string) symbol.Symbol {
	return p.l.Interner().Intern(text)
}

// expectName consumes a name. Keywords double as names wherever a name is
// expected, so a field or type may be called "type" or "on".
func (p *Parser) expectName() (symbol.Symbol, error) {
	tok, err := p.l.NextToken()
	if err != nil {
		return symbol.None, err
	}
	switch tok.Kind {
	case token.NAME:
		return tok.Sym, nil
	case token.KEYWORD:
		return p.intern(tok.Keyword.String()), nil
	}
	return symbol.None, &gqlerror.ExpectedTokenError{
		Expected: token.Token{Kind: token.NAME},
		Found:    tok,
	}
}

// expectToken consumes the next token, which must have the given kind.
func (p *Parser) expectToken(kind token.Kind) error {
	tok, err := p.l.NextToken()
	if err != nil {
		return err
	}
	if tok.Kind != kind {
		return &gqlerror.ExpectedTokenError{
			Expected: token.Token{Kind: kind},
			Found:    tok,
		}
	}
	return nil
}

// expectKeyword consumes the next token, which must be the given keyword.
func (p *Parser) expectKeyword(kw token.Keyword) error {
	tok, err := p.l.NextToken()
	if err != nil {
		return err
	}
	if tok.Kind != token.KEYWORD || tok.Keyword != kw {
		return &gqlerror.ExpectedTokenError{
			Expected: token.Token{Kind: token.KEYWORD, Keyword: kw, Literal: kw.String()},
			Found:    tok,
		}
	}
	return nil
}

// consumeToken consumes the next token if it has the given kind, reporting
// whether it did.
func (p *Parser) consumeToken(kind token.Kind) (bool, error) {
	tok, err := p.l.PeekToken()
	if err != nil {
		return false, err
	}
	if tok.Kind != kind {
		return false, nil
	}
	_, err = p.l.NextToken()
	return err == nil, err
}

// consumeKeyword consumes the next token if it is the given keyword,
// reporting whether it did.
func (p *Parser) consumeKeyword(kw token.Keyword) (bool, error) {
	tok, err := p.l.PeekToken()
	if err != nil {
		return false, err
	}
	if tok.Kind != token.KEYWORD || tok.Keyword != kw {
		return false, nil
	}
	_, err = p.l.NextToken()
	return err == nil, err
}

// consumeDescription consumes a leading string token if one is present.
func (p *Parser) consumeDescription() (symbol.Symbol, error) {
	tok, err := p.l.PeekToken()
	if err != nil {
		return symbol.None, err
	}
	if tok.Kind != token.STRING {
		return symbol.None, nil
	}
	if _, err := p.l.NextToken(); err != nil {
		return symbol.None, err
	}
	return tok.Sym, nil
}

// parseObjectDefinition parses "type Name implements A & B @dir { fields }"
// after the type keyword.
func (p *Parser) parseObjectDefinition(desc symbol.Symbol) (*ast.ObjectDefinition, error) {
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	def := &ast.ObjectDefinition{Description: desc, Name: name}

	ok, err := p.consumeKeyword(token.IMPLEMENTS)
	if err != nil {
		return nil, err
	}
	if ok {
		def.Implements, err = p.parseImplements()
		if err != nil {
			return nil, err
		}
	}

	def.Directives, err = p.parseDirectives()
	if err != nil {
		return nil, err
	}

	if err := p.l.ExpectByte('{'); err != nil {
		return nil, err
	}
	for !p.l.ConsumeByteIfEq('}') {
		field, err := p.parseFieldDefinition()
		if err != nil {
			return nil, err
		}
		def.Fields = append(def.Fields, field)
	}
	return def, nil
}

// parseImplements parses an ampersand-separated interface name list.
func (p *Parser) parseImplements() ([]symbol.Symbol, error) {
	var names []symbol.Symbol
	for {
		name, err := p.expectName()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if !p.l.ConsumeByteIfEq('&') {
			return names, nil
		}
	}
}

// parseInterfaceDefinition parses "interface Name @dir { fields }" after
// the interface keyword.
func (p *Parser) parseInterfaceDefinition(desc symbol.Symbol) (*ast.InterfaceDefinition, error) {
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	def := &ast.InterfaceDefinition{Description: desc, Name: name}

	def.Directives, err = p.parseDirectives()
	if err != nil {
		return nil, err
	}

	if err := p.l.ExpectByte('{'); err != nil {
		return nil, err
	}
	for !p.l.ConsumeByteIfEq('}') {
		field, err := p.parseFieldDefinition()
		if err != nil {
			return nil, err
		}
		def.Fields = append(def.Fields, field)
	}
	return def, nil
}

// parseScalarDefinition parses "scalar Name @dir" after the scalar keyword.
func (p *Parser) parseScalarDefinition(desc symbol.Symbol) (*ast.ScalarDefinition, error) {
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	directives, err := p.parseDirectives()
	if err != nil {
		return nil, err
	}
	return &ast.ScalarDefinition{Description: desc, Name: name, Directives: directives}, nil
}

// parseUnionDefinition parses "union Name @dir = A | B" after the union
// keyword. The equals sign and at least one member are required.
func (p *Parser) parseUnionDefinition(desc symbol.Symbol) (*ast.UnionDefinition, error) {
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	def := &ast.UnionDefinition{Description: desc, Name: name}

	def.Directives, err = p.parseDirectives()
	if err != nil {
		return nil, err
	}

	if err := p.l.ExpectByte('='); err != nil {
		return nil, err
	}
	for {
		member, err := p.expectName()
		if err != nil {
			return nil, err
		}
		def.Types = append(def.Types, member)
		if !p.l.ConsumeByteIfEq('|') {
			return def, nil
		}
	}
}

// parseEnumDefinition parses "enum Name @dir { VALUES }" after the enum
// keyword.
func (p *Parser) parseEnumDefinition(desc symbol.Symbol) (*ast.EnumDefinition, error) {
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	def := &ast.EnumDefinition{Description: desc, Name: name}

	def.Directives, err = p.parseDirectives()
	if err != nil {
		return nil, err
	}

	if err := p.l.ExpectByte('{'); err != nil {
		return nil, err
	}
	for !p.l.ConsumeByteIfEq('}') {
		value, err := p.parseEnumValueDefinition()
		if err != nil {
			return nil, err
		}
		def.Values = append(def.Values, value)
	}
	return def, nil
}

// parseEnumValueDefinition parses one enum variant with its optional
// description and directives.
func (p *Parser) parseEnumValueDefinition() (ast.EnumValueDefinition, error) {
	var value ast.EnumValueDefinition
	desc, err := p.consumeDescription()
	if err != nil {
		return value, err
	}
	value.Description = desc

	value.Name, err = p.expectName()
	if err != nil {
		return value, err
	}
	value.Directives, err = p.parseDirectives()
	if err != nil {
		return value, err
	}
	return value, nil
}

// parseInputObjectDefinition parses "input Name @dir { fields }" after the
// input keyword.
func (p *Parser) parseInputObjectDefinition(desc symbol.Symbol) (*ast.InputObjectDefinition, error) {
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	def := &ast.InputObjectDefinition{Description: desc, Name: name}

	def.Directives, err = p.parseDirectives()
	if err != nil {
		return nil, err
	}

	if err := p.l.ExpectByte('{'); err != nil {
		return nil, err
	}
	for !p.l.ConsumeByteIfEq('}') {
		field, err := p.parseInputValueDefinition()
		if err != nil {
			return nil, err
		}
		def.Fields = append(def.Fields, field)
	}
	return def, nil
}

// parseFieldDefinition parses one output field: description, name,
// optional arguments, a colon, the type, and directives.
func (p *Parser) parseFieldDefinition() (ast.FieldDefinition, error) {
	var field ast.FieldDefinition
	desc, err := p.consumeDescription()
	if err != nil {
		return field, err
	}
	field.Description = desc

	field.Name, err = p.expectName()
	if err != nil {
		return field, err
	}

	if p.l.ConsumeByteIfEq('(') {
		for !p.l.ConsumeByteIfEq(')') {
			arg, err := p.parseInputValueDefinition()
			if err != nil {
				return field, err
			}
			field.Arguments = append(field.Arguments, arg)
		}
	}

	if err := p.l.ExpectByte(':'); err != nil {
		return field, err
	}
	field.Type, err = p.parseType()
	if err != nil {
		return field, err
	}

	field.Directives, err = p.parseDirectives()
	if err != nil {
		return field, err
	}
	return field, nil
}

// parseInputValueDefinition parses an argument definition or input object
// field: description, name, colon, type, optional default, directives.
func (p *Parser) parseInputValueDefinition() (ast.InputValueDefinition, error) {
	var input ast.InputValueDefinition
	desc, err := p.consumeDescription()
	if err != nil {
		return input, err
	}
	input.Description = desc

	input.Name, err = p.expectName()
	if err != nil {
		return input, err
	}
	if err := p.l.ExpectByte(':'); err != nil {
		return input, err
	}
	input.Type, err = p.parseType()
	if err != nil {
		return input, err
	}

	if p.l.ConsumeByteIfEq('=') {
		input.Default, err = p.parseValue()
		if err != nil {
			return input, err
		}
	}

	input.Directives, err = p.parseDirectives()
	if err != nil {
		return input, err
	}
	return input, nil
}

// parseDirectives parses zero or more "@name(args)" annotations.
func (p *Parser) parseDirectives() ([]ast.Directive, error) {
	var directives []ast.Directive
	for p.l.ConsumeByteIfEq('@') {
		name, err := p.expectName()
		if err != nil {
			return nil, err
		}
		d := ast.Directive{Name: name}
		d.Arguments, err = p.parseArguments()
		if err != nil {
			return nil, err
		}
		directives = append(directives, d)
	}
	return directives, nil
}

// parseArguments parses a parenthesized name:value list if one is present.
// An empty list is accepted.
func (p *Parser) parseArguments() ([]ast.Argument, error) {
	if !p.l.ConsumeByteIfEq('(') {
		return nil, nil
	}
	var args []ast.Argument
	for !p.l.ConsumeByteIfEq(')') {
		name, err := p.expectName()
		if err != nil {
			return nil, err
		}
		if err := p.l.ExpectByte(':'); err != nil {
			return nil, err
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		args = append(args, ast.Argument{Name: name, Value: value})
	}
	return args, nil
}

// parseValue parses one input value. Lists and objects recurse and count
// toward the nesting limit.
func (p *Parser) parseValue() (ast.Value, error) {
	if err := p.enter(); err != nil {
		return ast.Value{}, err
	}
	defer p.leave()

	tok, err := p.l.NextToken()
	if err != nil {
		return ast.Value{}, err
	}

	switch tok.Kind {
	case token.INT:
		return ast.Value{Kind: ast.IntValue, Literal: tok.Literal}, nil
	case token.FLOAT:
		return ast.Value{Kind: ast.FloatValue, Literal: tok.Literal}, nil
	case token.STRING:
		return ast.Value{Kind: ast.StringValue, Sym: tok.Sym}, nil
	case token.NAME:
		return ast.Value{Kind: ast.EnumValue, Sym: tok.Sym}, nil
	case token.KEYWORD:
		switch tok.Keyword {
		case token.TRUE:
			return ast.Value{Kind: ast.BooleanValue, Bool: true}, nil
		case token.FALSE:
			return ast.Value{Kind: ast.BooleanValue}, nil
		case token.NULL:
			return ast.Value{Kind: ast.NullValue}, nil
		}
		return ast.Value{Kind: ast.EnumValue, Sym: p.intern(tok.Keyword.String())}, nil
	case token.DOLLAR:
		name, err := p.expectName()
		if err != nil {
			return ast.Value{}, err
		}
		return ast.Value{Kind: ast.VariableValue, Sym: name}, nil
	case token.LBRACKET:
		var list []ast.Value
		for !p.l.ConsumeByteIfEq(']') {
			v, err := p.parseValue()
			if err != nil {
				return ast.Value{}, err
			}
			list = append(list, v)
		}
		return ast.Value{Kind: ast.ListValue, List: list}, nil
	case token.LBRACE:
		fields := make(map[symbol.Symbol]ast.Value)
		for !p.l.ConsumeByteIfEq('}') {
			key, err := p.expectName()
			if err != nil {
				return ast.Value{}, err
			}
			if err := p.l.ExpectByte(':'); err != nil {
				return ast.Value{}, err
			}
			v, err := p.parseValue()
			if err != nil {
				return ast.Value{}, err
			}
			fields[key] = v
		}
		return ast.Value{Kind: ast.ObjectValue, Object: fields}, nil
	}
	return ast.Value{}, &gqlerror.ExpectedTokenError{Found: tok}
}

// parseType parses a type reference: a name or a bracketed element type,
// optionally followed by a bang that makes that level non-nullable.
func (p *Parser) parseType() (ast.Type, error) {
	if err := p.enter(); err != nil {
		return ast.Type{}, err
	}
	defer p.leave()

	var t ast.Type
	if p.l.ConsumeByteIfEq('[') {
		elem, err := p.parseType()
		if err != nil {
			return t, err
		}
		if err := p.l.ExpectByte(']'); err != nil {
			return t, err
		}
		t.IsList = true
		t.Elem = &elem
	} else {
		name, err := p.expectName()
		if err != nil {
			return t, err
		}
		t.Name = name
	}

	if p.l.ConsumeByteIfEq('!') {
		t.NonNull = true
	}
	return t, nil
}

// parseOperation parses a query, mutation, or subscription after its
// keyword and stores it under its (name, kind) key.
func (p *Parser) parseOperation(doc *ast.Document, kind ast.OperationKind) error {
	op := &ast.Operation{Kind: kind}

	tok, err := p.l.PeekToken()
	if err != nil {
		return err
	}
	if tok.Kind == token.NAME {
		if _, err := p.l.NextToken(); err != nil {
			return err
		}
		op.Name = tok.Sym
	}

	if p.l.ConsumeByteIfEq('(') {
		op.VariableDefinitions, err = p.parseVariableDefinitions()
		if err != nil {
			return err
		}
	}

	op.Directives, err = p.parseDirectives()
	if err != nil {
		return err
	}

	if err := p.expectToken(token.LBRACE); err != nil {
		return err
	}
	op.SelectionSet, err = p.parseSelectionSet()
	if err != nil {
		return err
	}

	doc.Operations[op.Key()] = op
	return nil
}

// parseVariableDefinitions parses "$name: Type = default" entries up to
// the closing parenthesis.
func (p *Parser) parseVariableDefinitions() ([]ast.VariableDefinition, error) {
	var defs []ast.VariableDefinition
	for !p.l.ConsumeByteIfEq(')') {
		if err := p.expectToken(token.DOLLAR); err != nil {
			return nil, err
		}
		name, err := p.expectName()
		if err != nil {
			return nil, err
		}
		if err := p.expectToken(token.COLON); err != nil {
			return nil, err
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		def := ast.VariableDefinition{Variable: name, Type: ty}
		if p.l.ConsumeByteIfEq('=') {
			def.Default, err = p.parseValue()
			if err != nil {
				return nil, err
			}
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// parseFragmentDefinition parses "fragment Name on Type @dir { ... }"
// after the fragment keyword.
func (p *Parser) parseFragmentDefinition() (*ast.Fragment, error) {
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	def := &ast.Fragment{Name: name}

	if err := p.expectKeyword(token.ON); err != nil {
		return nil, err
	}
	def.On, err = p.expectName()
	if err != nil {
		return nil, err
	}

	def.Directives, err = p.parseDirectives()
	if err != nil {
		return nil, err
	}

	if err := p.expectToken(token.LBRACE); err != nil {
		return nil, err
	}
	def.SelectionSet, err = p.parseSelectionSet()
	if err != nil {
		return nil, err
	}
	return def, nil
}

// parseSelectionSet parses selections up to the closing brace. The opening
// brace has already been consumed. An empty set is valid.
func (p *Parser) parseSelectionSet() (ast.SelectionSet, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	set := ast.SelectionSet{}
	for !p.l.ConsumeByteIfEq('}') {
		sel, err := p.parseSelection()
		if err != nil {
			return nil, err
		}
		set = append(set, sel)
	}
	return set, nil
}

// parseSelection parses one selection: a spread or inline fragment when it
// starts with three dots, a field otherwise.
func (p *Parser) parseSelection() (ast.Selection, error) {
	ok, err := p.consumeToken(token.SPREAD)
	if err != nil {
		return nil, err
	}
	if ok {
		return p.parseFragmentSelection()
	}
	return p.parseFieldSelection()
}

// parseFragmentSelection parses what follows three dots: an inline
// fragment when the next token is the on keyword, a named spread otherwise.
func (p *Parser) parseFragmentSelection() (ast.Selection, error) {
	ok, err := p.consumeKeyword(token.ON)
	if err != nil {
		return nil, err
	}
	if ok {
		return p.parseInlineFragment()
	}

	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	directives, err := p.parseDirectives()
	if err != nil {
		return nil, err
	}
	return &ast.FragmentSpread{Name: name, Directives: directives}, nil
}

// parseInlineFragment parses "on Type @dir { ... }" after the dots and the
// on keyword.
func (p *Parser) parseInlineFragment() (ast.Selection, error) {
	on, err := p.expectName()
	if err != nil {
		return nil, err
	}
	frag := &ast.InlineFragment{On: on}

	frag.Directives, err = p.parseDirectives()
	if err != nil {
		return nil, err
	}

	if err := p.expectToken(token.LBRACE); err != nil {
		return nil, err
	}
	frag.SelectionSet, err = p.parseSelectionSet()
	if err != nil {
		return nil, err
	}
	return frag, nil
}

// parseFieldSelection parses a field selection. The leading name is an
// alias only when a colon follows it.
func (p *Parser) parseFieldSelection() (ast.Selection, error) {
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	field := &ast.Field{Name: name}

	if p.l.ConsumeByteIfEq(':') {
		field.Alias = name
		field.Name, err = p.expectName()
		if err != nil {
			return nil, err
		}
	}

	field.Arguments, err = p.parseArguments()
	if err != nil {
		return nil, err
	}
	field.Directives, err = p.parseDirectives()
	if err != nil {
		return nil, err
	}

	if p.l.ConsumeByteIfEq('{') {
		field.SelectionSet, err = p.parseSelectionSet()
		if err != nil {
			return nil, err
		}
	}
	return field, nil
}
