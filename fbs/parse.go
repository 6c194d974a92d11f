package fbs

import (
	"errors"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Parse parses a single schema file. The filename is used only for positions
// in diagnostics. On failure the error is a LexError or ParseError.
func Parse(filename string, data string) (*Schema, error) {
	schema, err := Parser.ParseString(filename, data)
	if err != nil {
		return nil, translateError(err)
	}
	return schema, nil
}

// Lex scans a schema file into its token sequence, excluding elided
// whitespace and comment tokens. Doc comments are real tokens and are
// included.
func Lex(filename string, data string) ([]lexer.Token, error) {
	lx, err := Lexer.LexString(filename, data)
	if err != nil {
		return nil, translateError(err)
	}
	symbols := lexer.SymbolsByRune(Lexer)
	var tokens []lexer.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, translateError(err)
		}
		if tok.EOF() {
			return tokens, nil
		}
		switch symbols[tok.Type] {
		case "whitespace", "comment":
			continue
		}
		tokens = append(tokens, tok)
	}
}

func translateError(err error) error {
	var lexerr *lexer.Error
	if errors.As(err, &lexerr) {
		return LexError{Pos: lexerr.Pos, Msg: lexerr.Msg}
	}
	var unexpected *participle.UnexpectedTokenError
	if errors.As(err, &unexpected) {
		return ParseError{
			Pos:      unexpected.Position(),
			Expected: unexpected.Expect,
			Found:    unexpected.Unexpected.Value,
		}
	}
	var perr participle.Error
	if errors.As(err, &perr) {
		return ParseError{Pos: perr.Position(), Found: perr.Message()}
	}
	return err
}
