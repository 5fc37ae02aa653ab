package cdl

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// CDLLexer defines the lexical structure of container description files.
// Keywords are matched as identifiers by the grammar.
var CDLLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments - C++ style (// to end of line) and shell style (# to end of line)
	{Name: "Comment", Pattern: `(?://|#)[^\n]*`},

	// Whitespace
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	// String literals with escape sequences
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},

	// Bit counts and offsets
	{Name: "Int", Pattern: `[0-9]+`},

	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},

	// Comparison operators must come before single-character punctuation
	{Name: "Operator", Pattern: `==|!=`},
	{Name: "Punct", Pattern: `[{};]`},
})
