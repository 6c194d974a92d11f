package fbs_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wkalt/fbc/fbs"
)

func TestParseErrors(t *testing.T) {
	cases := []struct {
		assertion string
		input     string
		target    error
	}{
		{"missing table name", "table { x:int; }", fbs.ParseError{}},
		{"missing field type", "table T { x:; }", fbs.ParseError{}},
		{"unterminated declaration", "table T { x:int;", fbs.ParseError{}},
		{"unknown character", "table T { x:int; } @", fbs.LexError{}},
		{"enum without base type", "enum Color { Red }", fbs.ParseError{}},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			_, err := fbs.Parse("test.fbs", c.input)
			require.ErrorIs(t, err, c.target)
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := fbs.Parse("bad.fbs", "table T {\n  x:;\n}")
	require.Error(t, err)
	perr, ok := err.(fbs.ParseError)
	require.True(t, ok)
	require.Equal(t, "bad.fbs", perr.Pos.Filename)
	require.Equal(t, 2, perr.Pos.Line)
}

func TestLex(t *testing.T) {
	tokens, err := fbs.Lex("test.fbs", "/// doc\ntable T { // comment\n  x:int;\n}")
	require.NoError(t, err)
	values := make([]string, len(tokens))
	for i, tok := range tokens {
		values[i] = tok.Value
	}
	require.Equal(t, []string{"/// doc", "table", "T", "{", "x", ":", "int", ";", "}"}, values)
}

func TestLexPositions(t *testing.T) {
	tokens, err := fbs.Lex("test.fbs", "table T {}")
	require.NoError(t, err)
	require.NotEmpty(t, tokens)
	require.Equal(t, 1, tokens[0].Pos.Line)
	require.Equal(t, 1, tokens[0].Pos.Column)
	require.Equal(t, 7, tokens[1].Pos.Column)
}
