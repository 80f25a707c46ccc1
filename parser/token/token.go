// Copyright © 2018 The ELPS authors

package token

import "fmt"

type Token struct {
	Type   Type
	Text   string
	Source *Location
}

func (tok *Token) String() string {
	if tok.Text == "" {
		return tok.Type.String()
	}
	return fmt.Sprintf("%s %q", tok.Type, tok.Text)
}

type Type uint

// Type constants used for the corelang lexer/parser.
const (
	INVALID Type = iota
	ERROR
	EOF

	COMMENT

	// NEWDECL separates top-level declarations.  The lexer emits it in place
	// of the line break preceding a token in the first column.
	NEWDECL

	// Identifiers & literals
	VARID
	CONID
	OPERATOR
	INT
	FLOAT
	STRING
	CHAR

	// Keywords
	MODULE
	WHERE
	IMPORT
	DATA
	CLASS
	INSTANCE
	LET
	IN
	CASE
	OF
	DO

	// Reserved operators
	EQUALS
	ARROW
	LARROW
	DCOLON
	DARROW
	BACKSLASH
	BAR

	// Delimiters
	PAREN_L
	PAREN_R
	BRACKET_L
	BRACKET_R
	BRACE_L
	BRACE_R
	COMMA
	SEMI

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:   "invalid",
		ERROR:     "error",
		EOF:       "EOF",
		COMMENT:   "--",
		NEWDECL:   "newline",
		VARID:     "identifier",
		CONID:     "constructor",
		OPERATOR:  "operator",
		INT:       "int",
		FLOAT:     "float",
		STRING:    "string",
		CHAR:      "char",
		MODULE:    "module",
		WHERE:     "where",
		IMPORT:    "import",
		DATA:      "data",
		CLASS:     "class",
		INSTANCE:  "instance",
		LET:       "let",
		IN:        "in",
		CASE:      "case",
		OF:        "of",
		DO:        "do",
		EQUALS:    "=",
		ARROW:     "->",
		LARROW:    "<-",
		DCOLON:    "::",
		DARROW:    "=>",
		BACKSLASH: `\`,
		BAR:       "|",
		PAREN_L:   "(",
		PAREN_R:   ")",
		BRACKET_L: "[",
		BRACKET_R: "]",
		BRACE_L:   "{",
		BRACE_R:   "}",
		COMMA:     ",",
		SEMI:      ";",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// Keywords maps reserved words to their token type.
var Keywords = map[string]Type{
	"module":   MODULE,
	"where":    WHERE,
	"import":   IMPORT,
	"data":     DATA,
	"class":    CLASS,
	"instance": INSTANCE,
	"let":      LET,
	"in":       IN,
	"case":     CASE,
	"of":       OF,
	"do":       DO,
}

// ReservedOps maps reserved operator spellings to their token type.
var ReservedOps = map[string]Type{
	"=":  EQUALS,
	"->": ARROW,
	"<-": LARROW,
	"::": DCOLON,
	"=>": DARROW,
	`\`:  BACKSLASH,
	"|":  BAR,
}

type Location struct {
	File string // a name representing the source stream
	Path string // a physical location which may differ from File
	Pos  int
	Line int // line number (starting at 1 when tracked)
	Col  int // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc == nil:
		return "<unknown>"
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}
