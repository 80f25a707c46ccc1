// Copyright © 2018 The ELPS authors

package lexer

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/luthersystems/corelang/parser/token"
)

const symbolRunes = `!#$%&*+./<=>?@\^|-~:`

// Lexer produces tokens from a token.Scanner.  A token beginning in the first
// column of a line outside of any bracket is preceded by a token.NEWDECL
// token, except for the first token of the input.
type Lexer struct {
	scanner *token.Scanner
	depth   int
	started bool
}

func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// ReadToken returns the next tokens in the input.  The returned slice is
// never empty.  At the end of input ReadToken returns a token.EOF token on
// every call.
func (lex *Lexer) ReadToken() []*token.Token {
	for {
		lex.skipWhitespace()
		if !lex.scanner.Accept(func(c rune) bool { return true }) {
			if lex.scanner.EOF() {
				return lex.emit(token.EOF, "")
			}
			err := lex.scanner.Err()
			if err == nil {
				err = io.ErrUnexpectedEOF
			}
			return lex.emitError(err)
		}
		c := lex.scanner.Rune()
		switch c {
		case '(':
			return lex.open(token.PAREN_L)
		case ')':
			return lex.close(token.PAREN_R)
		case '[':
			return lex.open(token.BRACKET_L)
		case ']':
			return lex.close(token.BRACKET_R)
		case '{':
			return lex.open(token.BRACE_L)
		case '}':
			return lex.close(token.BRACE_R)
		case ',':
			return lex.emitText(token.COMMA)
		case ';':
			return lex.emitText(token.SEMI)
		case '"':
			return lex.readString()
		case '\'':
			return lex.readChar()
		}
		switch {
		case isDigit(c):
			return lex.readNumber()
		case unicode.IsUpper(c):
			lex.scanner.AcceptSeq(isWord)
			return lex.emitText(token.CONID)
		case unicode.IsLetter(c) || c == '_':
			lex.scanner.AcceptSeq(isWord)
			if typ, ok := token.Keywords[lex.scanner.Text()]; ok {
				return lex.emitText(typ)
			}
			return lex.emitText(token.VARID)
		case isSymbol(c):
			lex.scanner.AcceptSeq(isSymbol)
			text := lex.scanner.Text()
			if isLineComment(text) {
				lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
				lex.scanner.Ignore()
				continue
			}
			if typ, ok := token.ReservedOps[text]; ok {
				return lex.emitText(typ)
			}
			return lex.emitText(token.OPERATOR)
		}
		return lex.errorf("unexpected text starting with %q", c)
	}
}

// open emits a bracket token.  The bracket itself is laid out at the outer
// depth so that a declaration such as "(+) a b = ..." can start with one.
func (lex *Lexer) open(typ token.Type) []*token.Token {
	toks := lex.emitText(typ)
	lex.depth++
	return toks
}

func (lex *Lexer) close(typ token.Type) []*token.Token {
	toks := lex.emitText(typ)
	if lex.depth > 0 {
		lex.depth--
	}
	return toks
}

// layout prepends a NEWDECL token to tok when tok starts a top-level
// declaration.
func (lex *Lexer) layout(tok *token.Token) []*token.Token {
	first := !lex.started
	lex.started = true
	if first || lex.depth > 0 || tok.Type == token.EOF || tok.Source.Col != 1 {
		return []*token.Token{tok}
	}
	sep := &token.Token{Type: token.NEWDECL, Source: tok.Source}
	return []*token.Token{sep, tok}
}

func (lex *Lexer) emit(typ token.Type, text string) []*token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}
	lex.scanner.Ignore()
	return lex.layout(tok)
}

func (lex *Lexer) emitText(typ token.Type) []*token.Token {
	return lex.layout(lex.scanner.EmitToken(typ))
}

func (lex *Lexer) emitError(err error) []*token.Token {
	if err == io.EOF {
		return lex.emit(token.ERROR, "unexpected EOF")
	}
	return lex.emit(token.ERROR, err.Error())
}

func (lex *Lexer) errorf(format string, v ...interface{}) []*token.Token {
	return lex.emitError(fmt.Errorf(format, v...))
}

func (lex *Lexer) readString() []*token.Token {
	for {
		if lex.scanner.AcceptRune('"') {
			return lex.emitText(token.STRING)
		}
		if lex.scanner.AcceptRune('\\') {
			// The escaped character is validated by the parser.
			if !lex.scanner.Accept(func(c rune) bool { return c != '\n' }) {
				return lex.errorf("unterminated string literal")
			}
			continue
		}
		if !lex.scanner.Accept(func(c rune) bool { return c != '\n' }) {
			return lex.errorf("unterminated string literal")
		}
	}
}

func (lex *Lexer) readChar() []*token.Token {
	if lex.scanner.AcceptRune('\\') {
		if !lex.scanner.Accept(func(c rune) bool { return c != '\n' }) {
			return lex.errorf("unterminated character literal")
		}
	} else if !lex.scanner.Accept(func(c rune) bool { return c != '\'' && c != '\n' }) {
		return lex.errorf("empty character literal")
	}
	if !lex.scanner.AcceptRune('\'') {
		return lex.errorf("unterminated character literal")
	}
	return lex.emitText(token.CHAR)
}

func (lex *Lexer) readNumber() []*token.Token {
	lex.scanner.AcceptSeq(isDigit) // the first digit already scanned
	typ := token.INT
	if lex.scanner.AcceptRune('.') {
		if lex.scanner.AcceptSeq(isDigit) == 0 {
			return lex.errorf("invalid floating point literal starting: %v", lex.scanner.Text())
		}
		typ = token.FLOAT
	}
	if lex.scanner.AcceptAny("eE") {
		lex.scanner.AcceptAny("+-") // optional sign
		if lex.scanner.AcceptSeq(isDigit) == 0 {
			return lex.errorf("invalid floating point literal starting: %v", lex.scanner.Text())
		}
		typ = token.FLOAT
	}
	if isWord(lex.peekRune()) {
		return lex.errorf("invalid numeric literal character: %q", lex.peekRune())
	}
	return lex.emitText(typ)
}

func (lex *Lexer) skipWhitespace() {
	if lex.scanner.AcceptSeq(unicode.IsSpace) > 0 {
		lex.scanner.Ignore()
	}
}

func (lex *Lexer) peekRune() rune {
	r, _ := lex.scanner.Peek()
	return r
}

// isLineComment reports whether an operator run is a comment opener: two or
// more dashes and nothing else.
func isLineComment(text string) bool {
	return len(text) >= 2 && strings.Trim(text, "-") == ""
}

func isWord(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '\''
}

func isSymbol(c rune) bool {
	return strings.ContainsRune(symbolRunes, c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
