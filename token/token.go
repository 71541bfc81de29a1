package token

import (
	"strconv"

	"github.com/softmesh/graphql/symbol"
)

// Kind represents the lexical class of a token in the GraphQL lexer.
type Kind int

const (
	// Special kinds
	ILLEGAL Kind = iota // Zero value; the lexer never produces it
	EOF                 // End of input

	// Kinds with a payload
	NAME    // Identifiers (field names, type names, etc.)
	KEYWORD // Reserved words (type, query, on, ...)
	INT     // Integer literals
	FLOAT   // Float literals
	STRING  // String literals, single-line or block

	// Punctuators
	BANG     // !
	DOLLAR   // $
	AMP      // &
	LPAREN   // (
	RPAREN   // )
	SPREAD   // ...
	COLON    // :
	ASSIGN   // =
	AT       // @
	LBRACKET // [
	RBRACKET // ]
	LBRACE   // {
	PIPE     // |
	RBRACE   // }
)

var kindNames = [...]string{
	ILLEGAL:  "Illegal",
	EOF:      "EOF",
	NAME:     "Name",
	KEYWORD:  "Keyword",
	INT:      "Int",
	FLOAT:    "Float",
	STRING:   "String",
	BANG:     "'!'",
	DOLLAR:   "'$'",
	AMP:      "'&'",
	LPAREN:   "'('",
	RPAREN:   "')'",
	SPREAD:   "'...'",
	COLON:    "':'",
	ASSIGN:   "'='",
	AT:       "'@'",
	LBRACKET: "'['",
	RBRACKET: "']'",
	LBRACE:   "'{'",
	PIPE:     "'|'",
	RBRACE:   "'}'",
}

// String returns a readable name for the kind, quoting punctuators.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Keyword represents one of the reserved words of the grammar.
type Keyword int

const (
	TYPE Keyword = iota
	INPUT
	ENUM
	IMPLEMENTS
	SCALAR
	TRUE
	FALSE
	UNION
	FRAGMENT
	QUERY
	MUTATION
	SUBSCRIPTION
	EXTEND
	NULL
	INTERFACE
	ON
)

var keywordNames = [...]string{
	TYPE:         "type",
	INPUT:        "input",
	ENUM:         "enum",
	IMPLEMENTS:   "implements",
	SCALAR:       "scalar",
	TRUE:         "true",
	FALSE:        "false",
	UNION:        "union",
	FRAGMENT:     "fragment",
	QUERY:        "query",
	MUTATION:     "mutation",
	SUBSCRIPTION: "subscription",
	EXTEND:       "extend",
	NULL:         "null",
	INTERFACE:    "interface",
	ON:           "on",
}

// String returns the source spelling of the keyword.
func (kw Keyword) String() string {
	if kw >= 0 && int(kw) < len(keywordNames) {
		return keywordNames[kw]
	}
	return "Keyword(" + strconv.Itoa(int(kw)) + ")"
}

var keywords = map[string]Keyword{
	"type":         TYPE,
	"input":        INPUT,
	"enum":         ENUM,
	"implements":   IMPLEMENTS,
	"scalar":       SCALAR,
	"true":         TRUE,
	"false":        FALSE,
	"union":        UNION,
	"fragment":     FRAGMENT,
	"query":        QUERY,
	"mutation":     MUTATION,
	"subscription": SUBSCRIPTION,
	"extend":       EXTEND,
	"null":         NULL,
	"interface":    INTERFACE,
	"on":           ON,
}

// Lookup reports whether ident is a reserved word and returns its Keyword.
func Lookup(ident string) (Keyword, bool) {
	kw, ok := keywords[ident]
	return kw, ok
}

// Token represents a single token in the GraphQL source.
type Token struct {
	Kind    Kind          // The kind of the token
	Sym     symbol.Symbol // Interned payload of a Name or String token
	Keyword Keyword       // Payload of a Keyword token
	Literal string        // Source spelling; for strings, the decoded value
}

// String renders the token the way parse errors report it. A Name, Keyword,
// Int, or Float token without a literal stands for any token of its kind and
// renders as the bare kind name.
func (t Token) String() string {
	switch t.Kind {
	case NAME:
		if t.Literal != "" {
			return "Name(" + t.Literal + ")"
		}
	case KEYWORD:
		if t.Literal != "" {
			return "Keyword(" + t.Literal + ")"
		}
	case INT:
		if t.Literal != "" {
			return "Int(" + t.Literal + ")"
		}
	case FLOAT:
		if t.Literal != "" {
			return "Float(" + t.Literal + ")"
		}
	case STRING:
		return "String(" + strconv.Quote(t.Literal) + ")"
	}
	return t.Kind.String()
}
