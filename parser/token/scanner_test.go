// Copyright © 2018 The ELPS authors

package token

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerTokenLength(t *testing.T) {
	const bufsize = 10
	s := newScannerBuf("", byteFiller('x'), make([]byte, bufsize))
	for i := 0; i < bufsize; i++ {
		require.NoError(t, s.ScanRune())
	}
	assert.Error(t, s.ScanRune(), "expected token length error")
}

func TestScannerEOF(t *testing.T) {
	r := &io.LimitedReader{
		R: byteFiller('x'),
		N: 10,
	}
	s := newScannerBuf("", r, make([]byte, 20))
	for i := 0; i < 10; i++ {
		require.NoError(t, s.ScanRune())
	}
	s.EmitToken(0)

	for i := 0; i < 10; i++ {
		tok := s.EmitToken(0)
		assert.Equal(t, "", tok.Text)
		require.Equal(t, io.EOF, s.ScanRune())
		require.True(t, s.EOF())
	}
}

func TestScannerAcceptSeq(t *testing.T) {
	r := &io.LimitedReader{
		R: byteFiller('x'),
		N: 10,
	}
	s := newScannerBuf("", r, make([]byte, 20))
	assert.Equal(t, 10, s.AcceptSeq(func(c rune) bool { return true }))
	s.Ignore()
	assert.False(t, s.Accept(func(c rune) bool { return true }))
	assert.True(t, s.EOF())
}

func TestScannerAcceptAny(t *testing.T) {
	s := NewScanner("test", strings.NewReader("e+1"))
	assert.True(t, s.AcceptAny("eE"))
	assert.False(t, s.AcceptAny("eE"))
	assert.True(t, s.AcceptAny("+-"))
	assert.True(t, s.AcceptRune('1'))
	assert.Equal(t, "e+1", s.Text())
}

func TestScannerLoc(t *testing.T) {
	r := newSeqFiller([]byte("123456789\n"))
	s := newScannerBuf("test", r, make([]byte, 15))

	var tokens []*Token
	for _, n := range []int{10, 10, 5, 5} {
		for i := 0; i < n; i++ {
			require.NoError(t, s.ScanRune())
		}
		tokens = append(tokens, s.EmitToken(0))
	}

	// we haven't technically moved beyond the last rune of the token.
	assert.Equal(t, 29, s.totalPos)
	assert.Equal(t, 0, tokens[0].Source.Pos)
	assert.Equal(t, 10, tokens[1].Source.Pos)
	assert.Equal(t, 20, tokens[2].Source.Pos)
	assert.Equal(t, 25, tokens[3].Source.Pos)
	assert.Equal(t, "test:1:1", tokens[0].Source.String())
	assert.Equal(t, "test:2:1", tokens[1].Source.String())
	assert.Equal(t, "test:3:1", tokens[2].Source.String())
	assert.Equal(t, "test:3:6", tokens[3].Source.String())
}

func TestScannerIgnoreWhitespaceColumns(t *testing.T) {
	s := NewScanner("f.core", strings.NewReader("ab\n   cd"))
	s.AcceptSeq(func(c rune) bool { return c != '\n' })
	ab := s.EmitToken(VARID)
	s.AcceptSeq(func(c rune) bool { return c == '\n' || c == ' ' })
	s.Ignore()
	s.AcceptSeq(func(c rune) bool { return c != ' ' })
	cd := s.EmitToken(VARID)

	assert.Equal(t, "ab", ab.Text)
	assert.Equal(t, "f.core:1:1", ab.Source.String())
	assert.Equal(t, "cd", cd.Text)
	assert.Equal(t, "f.core:2:4", cd.Source.String())
}

type byteFiller byte

func (r byteFiller) Read(b []byte) (int, error) {
	for i := range b {
		b[i] = byte(r)
	}
	return len(b), nil
}

type seqFiller struct {
	seq []byte
	rem []byte
}

func newSeqFiller(seq []byte) *seqFiller {
	if len(seq) == 0 {
		panic("empty byte sequence")
	}
	buf := make([]byte, len(seq))
	copy(buf, seq)
	return &seqFiller{
		seq: buf,
	}
}

func (r *seqFiller) Read(b []byte) (int, error) {
	if len(r.rem) == 0 {
		r.rem = r.seq
	}
	n := copy(b, r.rem)
	r.rem = r.rem[n:]
	return n, nil
}
