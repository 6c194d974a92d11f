package fbs

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// LexError indicates the scanner could not produce a token, e.g. an
// unterminated string or a character outside the language.
type LexError struct {
	Pos lexer.Position
	Msg string
}

func (e LexError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func (e LexError) Is(target error) bool {
	_, ok := target.(LexError)
	return ok
}

// ParseError indicates the token stream deviated from the grammar.
type ParseError struct {
	Pos      lexer.Position
	Expected string
	Found    string
}

func (e ParseError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("%s: unexpected %q (expected %s)", e.Pos, e.Found, e.Expected)
	}
	return fmt.Sprintf("%s: unexpected %q", e.Pos, e.Found)
}

func (e ParseError) Is(target error) bool {
	_, ok := target.(ParseError)
	return ok
}
