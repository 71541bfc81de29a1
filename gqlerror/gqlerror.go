package gqlerror

import (
	"fmt"

	"github.com/softmesh/graphql/token"
)

// ExpectedCharError reports a byte-level mismatch in the source. Found is 0
// when the input ended before the byte could be read. Expected is 0 when no
// particular byte was wanted and Found simply cannot start a token.
type ExpectedCharError struct {
	Expected byte
	Found    byte
}

// Error renders the mismatch, naming end of input when the source ran out.
func (e *ExpectedCharError) Error() string {
	switch {
	case e.Expected == 0 && e.Found == 0:
		return "unexpected end of input"
	case e.Expected == 0:
		return fmt.Sprintf("unexpected character %q", e.Found)
	case e.Found == 0:
		return fmt.Sprintf("expected %q, found end of input", e.Expected)
	default:
		return fmt.Sprintf("expected %q, found %q", e.Expected, e.Found)
	}
}

// ExpectedTokenError reports a token-level mismatch. Found.Kind == token.EOF
// means the input ended where a token was required. An Expected token with
// no payload stands for any token of its kind; a zero Expected means the
// found token cannot appear at that position at all.
type ExpectedTokenError struct {
	Expected token.Token
	Found    token.Token
}

// Error renders the mismatch using the tokens' display forms.
func (e *ExpectedTokenError) Error() string {
	switch {
	case e.Expected.Kind == token.ILLEGAL && e.Found.Kind == token.EOF:
		return "unexpected end of input"
	case e.Expected.Kind == token.ILLEGAL:
		return fmt.Sprintf("unexpected token %s", e.Found)
	case e.Found.Kind == token.EOF:
		return fmt.Sprintf("expected %s, found end of input", e.Expected)
	default:
		return fmt.Sprintf("expected %s, found %s", e.Expected, e.Found)
	}
}
