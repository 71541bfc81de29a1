// Package graphql provides a fast GraphQL document parser for Go.
// It includes string interning, lexing, parsing, and document validation.
package graphql

import (
	"github.com/softmesh/graphql/ast"
	"github.com/softmesh/graphql/gqlerror"
	"github.com/softmesh/graphql/handler"
	"github.com/softmesh/graphql/lexer"
	"github.com/softmesh/graphql/parser"
	"github.com/softmesh/graphql/symbol"
	"github.com/softmesh/graphql/token"
	"github.com/softmesh/graphql/validate"
)

// ===========================
// Re-exported Types
// ===========================

// Symbol types
type (
	Symbol   = symbol.Symbol
	Interner = symbol.Interner
)

// Token types
type (
	Token   = token.Token
	Kind    = token.Kind
	Keyword = token.Keyword
)

// Token kind constants
const (
	ILLEGAL  = token.ILLEGAL
	EOF      = token.EOF
	NAME     = token.NAME
	KEYWORD  = token.KEYWORD
	INT      = token.INT
	FLOAT    = token.FLOAT
	STRING   = token.STRING
	BANG     = token.BANG
	DOLLAR   = token.DOLLAR
	AMP      = token.AMP
	LPAREN   = token.LPAREN
	RPAREN   = token.RPAREN
	SPREAD   = token.SPREAD
	COLON    = token.COLON
	ASSIGN   = token.ASSIGN
	AT       = token.AT
	LBRACKET = token.LBRACKET
	RBRACKET = token.RBRACKET
	LBRACE   = token.LBRACE
	PIPE     = token.PIPE
	RBRACE   = token.RBRACE
)

// AST types
type (
	Node                  = ast.Node
	Document              = ast.Document
	Definition            = ast.Definition
	ScalarDefinition      = ast.ScalarDefinition
	ObjectDefinition      = ast.ObjectDefinition
	InterfaceDefinition   = ast.InterfaceDefinition
	UnionDefinition       = ast.UnionDefinition
	EnumDefinition        = ast.EnumDefinition
	EnumValueDefinition   = ast.EnumValueDefinition
	InputObjectDefinition = ast.InputObjectDefinition
	FieldDefinition       = ast.FieldDefinition
	InputValueDefinition  = ast.InputValueDefinition
	Type                  = ast.Type
	Value                 = ast.Value
	ValueKind             = ast.ValueKind
	Operation             = ast.Operation
	OperationKind         = ast.OperationKind
	OperationKey          = ast.OperationKey
	VariableDefinition    = ast.VariableDefinition
	Fragment              = ast.Fragment
	Selection             = ast.Selection
	SelectionSet          = ast.SelectionSet
	Field                 = ast.Field
	FragmentSpread        = ast.FragmentSpread
	InlineFragment        = ast.InlineFragment
	Argument              = ast.Argument
	Directive             = ast.Directive
)

// Operation kind constants
const (
	Query        = ast.Query
	Mutation     = ast.Mutation
	Subscription = ast.Subscription
)

// Error types
type (
	ExpectedCharError  = gqlerror.ExpectedCharError
	ExpectedTokenError = gqlerror.ExpectedTokenError
)

// Validation types
type (
	Rule             = validate.Rule
	ValidationKind   = validate.Kind
	ValidationError  = validate.Error
	ValidationErrors = validate.Errors
)

// Validation kind constants
const (
	UnknownInterface      = validate.UnknownInterface
	MissingInterfaceField = validate.MissingInterfaceField
)

// Lexer type
type Lexer = lexer.Lexer

// Parser types
type (
	Parser  = parser.Parser
	Options = parser.Options
)

// DefaultMaxDepth is the nesting depth limit applied when no Options are
// given.
const DefaultMaxDepth = parser.DefaultMaxDepth

// ErrTooDeep reports that a document nests selections, list types, or
// values beyond the configured depth limit.
var ErrTooDeep = parser.ErrTooDeep

// ===========================
// Convenience Functions
// ===========================

// Parse parses a complete GraphQL document from source.
func Parse(source []byte) (*Document, error) {
	return parser.Parse(source)
}

// ParseString parses a complete GraphQL document from a string.
func ParseString(source string) (*Document, error) {
	return parser.Parse([]byte(source))
}

// NewLexer creates a new lexer for the given GraphQL source.
func NewLexer(input []byte) *Lexer {
	return lexer.New(input)
}

// NewParser creates a new parser reading from l.
func NewParser(l *Lexer) *Parser {
	return parser.New(l)
}

// NewParserWithOptions creates a new parser with explicit limits.
func NewParserWithOptions(l *Lexer, opts Options) *Parser {
	return parser.NewWithOptions(l, opts)
}

// ===========================
// Validation
// ===========================

// Validate applies validation rules to a parsed document. With no explicit
// rules the registered default set runs.
func Validate(doc *Document, rules ...Rule) ValidationErrors {
	return validate.Validate(doc, rules...)
}

// RegisterRule adds a validation rule to the default set in the global
// registry.
func RegisterRule(r Rule) {
	validate.Register(r)
}

// ===========================
// HTTP Handlers
// ===========================

// CheckHandler serves one-shot document diagnostics over HTTP.
var CheckHandler = handler.Check

// SocketHandler streams document diagnostics over a WebSocket connection.
var SocketHandler = handler.Socket
