package cdl

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

// Parser represents a container description parser
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser creates a new parser instance
func NewParser() (*Parser, error) {
	parser, err := participle.Build[File](
		participle.Lexer(CDLLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("cdl: failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

// Parse parses a description from a reader
func (p *Parser) Parse(r io.Reader) (*File, error) {
	file, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("cdl: parse error: %w", err)
	}
	return file, nil
}

// ParseString parses a description from a string
func (p *Parser) ParseString(input string) (*File, error) {
	file, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("cdl: parse error: %w", err)
	}
	return file, nil
}

// ParseFile parses a description from a file path
func (p *Parser) ParseFile(filename string) (*File, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cdl: failed to open file: %w", err)
	}
	defer f.Close()

	file, err := p.parser.Parse(filename, f)
	if err != nil {
		return nil, fmt.Errorf("cdl: parse error: %w", err)
	}
	return file, nil
}
