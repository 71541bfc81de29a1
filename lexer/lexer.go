package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/softmesh/graphql/gqlerror"
	"github.com/softmesh/graphql/symbol"
	"github.com/softmesh/graphql/token"
)

// Lexer tokenizes GraphQL source code on demand. It owns the Interner for
// the parse session, so every Name and String token carries a Symbol from
// the same table.
type Lexer struct {
	input        []byte           // The input buffer
	position     int              // Current position in input (points to current char)
	readPosition int              // Next reading position (after current char)
	ch           byte             // Current char under examination
	interner     *symbol.Interner // Interns every name and string read from input
}

// New creates a new Lexer for the given input buffer.
func New(input []byte) *Lexer {
	l := &Lexer{input: input, interner: symbol.NewInterner()}
	l.readChar()
	return l
}

// Interner returns the session's interner. Symbols on tokens produced by
// this lexer resolve through it and through no other interner.
func (l *Lexer) Interner() *symbol.Interner {
	return l.interner
}

// readChar advances the lexer to the next character.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII 0 signifies end-of-input
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// state is a saved cursor position, used to peek without consuming.
type state struct {
	position     int
	readPosition int
	ch           byte
}

func (l *Lexer) save() state {
	return state{l.position, l.readPosition, l.ch}
}

func (l *Lexer) restore(s state) {
	l.position = s.position
	l.readPosition = s.readPosition
	l.ch = s.ch
}

// NextToken returns the next token from the input. End of input yields a
// token of kind EOF, not an error; errors report bytes that cannot form a
// token.
func (l *Lexer) NextToken() (token.Token, error) {
	l.skipIgnored()
	switch l.ch {
	case 0:
		return token.Token{Kind: token.EOF}, nil
	case '!':
		return l.punct(token.BANG), nil
	case '$':
		return l.punct(token.DOLLAR), nil
	case '&':
		return l.punct(token.AMP), nil
	case '(':
		return l.punct(token.LPAREN), nil
	case ')':
		return l.punct(token.RPAREN), nil
	case ':':
		return l.punct(token.COLON), nil
	case '=':
		return l.punct(token.ASSIGN), nil
	case '@':
		return l.punct(token.AT), nil
	case '[':
		return l.punct(token.LBRACKET), nil
	case ']':
		return l.punct(token.RBRACKET), nil
	case '{':
		return l.punct(token.LBRACE), nil
	case '|':
		return l.punct(token.PIPE), nil
	case '}':
		return l.punct(token.RBRACE), nil
	case '.':
		return l.readSpread()
	case '"':
		return l.readString()
	default:
		if isLetter(l.ch) {
			return l.readIdentifier(), nil
		}
		if l.ch == '-' || isDigit(l.ch) {
			return l.readNumber()
		}
		return token.Token{}, &gqlerror.ExpectedCharError{Found: l.ch}
	}
}

// PeekToken reads the next token without consuming it. The cursor is
// restored afterwards; interning done while peeking persists, which is
// harmless because interning is idempotent.
func (l *Lexer) PeekToken() (token.Token, error) {
	s := l.save()
	tok, err := l.NextToken()
	l.restore(s)
	return tok, err
}

// ExpectByte skips insignificant bytes and consumes b, or fails with the
// byte actually found.
func (l *Lexer) ExpectByte(b byte) error {
	l.skipIgnored()
	if l.ch != b {
		return &gqlerror.ExpectedCharError{Expected: b, Found: l.ch}
	}
	l.readChar()
	return nil
}

// ConsumeByteIfEq skips insignificant bytes and consumes b if it is next,
// reporting whether it did. On a mismatch the cursor is restored.
func (l *Lexer) ConsumeByteIfEq(b byte) bool {
	s := l.save()
	l.skipIgnored()
	if l.ch == b {
		l.readChar()
		return true
	}
	l.restore(s)
	return false
}

// punct emits a single-byte punctuator token.
func (l *Lexer) punct(kind token.Kind) token.Token {
	tok := token.Token{Kind: kind, Literal: string(l.ch)}
	l.readChar()
	return tok
}

// skipIgnored advances the lexer past whitespace, commas, and comments.
func (l *Lexer) skipIgnored() {
	for {
		switch l.ch {
		case ' ', '\t', '\n', '\r', ',':
			l.readChar()
		case '#':
			for l.ch != '\n' && l.ch != '\r' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

// readSpread reads the three-dot spread punctuator.
func (l *Lexer) readSpread() (token.Token, error) {
	for i := 0; i < 3; i++ {
		if l.ch != '.' {
			return token.Token{}, &gqlerror.ExpectedCharError{Expected: '.', Found: l.ch}
		}
		l.readChar()
	}
	return token.Token{Kind: token.SPREAD, Literal: "..."}, nil
}

// readIdentifier reads a name and classifies it against the keyword table.
func (l *Lexer) readIdentifier() token.Token {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	lit := l.input[start:l.position]
	if kw, ok := token.Lookup(string(lit)); ok {
		return token.Token{Kind: token.KEYWORD, Keyword: kw, Literal: kw.String()}
	}
	sym := l.interner.InternBytes(lit)
	return token.Token{Kind: token.NAME, Sym: sym, Literal: l.interner.Resolve(sym)}
}

// readNumber reads an integer or float literal. The raw lexeme is carried
// on the token; conversion is left to the consumer.
func (l *Lexer) readNumber() (token.Token, error) {
	start := l.position
	if l.ch == '-' {
		l.readChar()
	}
	switch {
	case l.ch == '0':
		l.readChar()
		if isDigit(l.ch) {
			// No leading zeros.
			return token.Token{}, &gqlerror.ExpectedCharError{Found: l.ch}
		}
	case isDigit(l.ch):
		for isDigit(l.ch) {
			l.readChar()
		}
	default:
		return token.Token{}, &gqlerror.ExpectedCharError{Found: l.ch}
	}
	kind := token.INT
	if l.ch == '.' {
		l.readChar()
		if !isDigit(l.ch) {
			return token.Token{}, &gqlerror.ExpectedCharError{Found: l.ch}
		}
		for isDigit(l.ch) {
			l.readChar()
		}
		kind = token.FLOAT
	}
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if !isDigit(l.ch) {
			return token.Token{}, &gqlerror.ExpectedCharError{Found: l.ch}
		}
		for isDigit(l.ch) {
			l.readChar()
		}
		kind = token.FLOAT
	}
	if isLetter(l.ch) {
		// A name must not follow a number without a separator.
		return token.Token{}, &gqlerror.ExpectedCharError{Found: l.ch}
	}
	return token.Token{Kind: kind, Literal: string(l.input[start:l.position])}, nil
}

// readString reads a string literal, dispatching between the empty string,
// single-line strings, and triple-quoted block strings.
func (l *Lexer) readString() (token.Token, error) {
	l.readChar() // opening quote
	if l.ch == '"' {
		l.readChar()
		if l.ch == '"' {
			l.readChar()
			return l.readBlockString()
		}
		return l.stringToken(nil), nil
	}
	return l.readSingleLineString()
}

// stringToken interns the decoded value and emits a STRING token for it.
func (l *Lexer) stringToken(value []byte) token.Token {
	sym := l.interner.InternBytes(value)
	return token.Token{Kind: token.STRING, Sym: sym, Literal: l.interner.Resolve(sym)}
}

// readSingleLineString reads the remainder of a single-line string literal,
// decoding escape sequences. The opening quote has been consumed.
func (l *Lexer) readSingleLineString() (token.Token, error) {
	var value []byte
	for {
		switch l.ch {
		case '"':
			l.readChar()
			return l.stringToken(value), nil
		case 0:
			return token.Token{}, &gqlerror.ExpectedCharError{Expected: '"'}
		case '\n', '\r':
			return token.Token{}, &gqlerror.ExpectedCharError{Expected: '"', Found: l.ch}
		case '\\':
			l.readChar()
			var err error
			value, err = l.appendEscape(value)
			if err != nil {
				return token.Token{}, err
			}
		default:
			value = append(value, l.ch)
			l.readChar()
		}
	}
}

// appendEscape decodes one escape sequence onto value. The backslash has
// been consumed and l.ch is the escape designator.
func (l *Lexer) appendEscape(value []byte) ([]byte, error) {
	var b byte
	switch l.ch {
	case '"':
		b = '"'
	case '\\':
		b = '\\'
	case '/':
		b = '/'
	case 'b':
		b = '\b'
	case 'f':
		b = '\f'
	case 'n':
		b = '\n'
	case 'r':
		b = '\r'
	case 't':
		b = '\t'
	case 'u':
		l.readChar()
		var r rune
		for i := 0; i < 4; i++ {
			d, ok := hexDigit(l.ch)
			if !ok {
				return nil, &gqlerror.ExpectedCharError{Found: l.ch}
			}
			r = r<<4 | rune(d)
			l.readChar()
		}
		return utf8.AppendRune(value, r), nil
	default:
		return nil, &gqlerror.ExpectedCharError{Found: l.ch}
	}
	l.readChar()
	return append(value, b), nil
}

// readBlockString reads a triple-quoted block string. The opening quotes
// have been consumed. The raw text is dedented before interning.
func (l *Lexer) readBlockString() (token.Token, error) {
	var raw []byte
	for {
		switch {
		case l.ch == 0:
			return token.Token{}, &gqlerror.ExpectedCharError{Expected: '"'}
		case l.ch == '\\' && l.peekIs(`"""`):
			raw = append(raw, '"', '"', '"')
			l.skip(4)
		case l.ch == '"' && l.peekIs(`""`):
			l.skip(3)
			return l.stringToken([]byte(dedent(string(raw)))), nil
		default:
			raw = append(raw, l.ch)
			l.readChar()
		}
	}
}

// peekIs reports whether the bytes after the current char spell s.
func (l *Lexer) peekIs(s string) bool {
	end := l.readPosition + len(s)
	return end <= len(l.input) && string(l.input[l.readPosition:end]) == s
}

// skip advances the lexer by n characters.
func (l *Lexer) skip(n int) {
	for i := 0; i < n; i++ {
		l.readChar()
	}
}

// dedent applies the block string value rules: line terminators normalize
// to \n, the common indentation of every line after the first is stripped,
// and one leading and one trailing blank line are dropped. The first line
// never counts toward the common indent, so it is measured before any
// blank line is removed.
func dedent(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	lines := strings.Split(raw, "\n")

	indent := -1
	for _, line := range lines[1:] {
		if isBlank(line) {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent > 0 {
		for i := 1; i < len(lines); i++ {
			if indent < len(lines[i]) {
				lines[i] = lines[i][indent:]
			} else {
				lines[i] = ""
			}
		}
	}
	if len(lines) > 0 && isBlank(lines[0]) {
		lines = lines[1:]
	}
	if len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// isBlank reports whether a line holds nothing but spaces and tabs.
func isBlank(line string) bool {
	return strings.TrimLeft(line, " \t") == ""
}

// isLetter checks if a byte can start or continue a name.
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

// isDigit checks if a byte is a digit.
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// hexDigit returns the value of a hexadecimal digit byte.
func hexDigit(ch byte) (byte, bool) {
	switch {
	case '0' <= ch && ch <= '9':
		return ch - '0', true
	case 'a' <= ch && ch <= 'f':
		return ch - 'a' + 10, true
	case 'A' <= ch && ch <= 'F':
		return ch - 'A' + 10, true
	}
	return 0, false
}
