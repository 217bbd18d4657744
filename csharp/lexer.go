package csharp

import (
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokPunct
	tokLiteral
)

// token is a lexical unit of C# source. start and end are byte offsets into
// the source so that the original spelling of a span can be recovered.
type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
	// verbatim identifiers (@class) are never keywords. Their text keeps the @.
	verbatim bool
}

func (t token) is(text string) bool {
	return t.kind == tokPunct && t.text == text
}

func (t token) keyword(text string) bool {
	return t.bare() && t.text == text
}

// bare reports whether t is an identifier that may be read as a keyword.
func (t token) bare() bool {
	return t.kind == tokIdent && !t.verbatim
}

// lexer splits C# source into tokens. It is tolerant of malformed input:
// unterminated comments and literals run to the end of the source.
type lexer struct {
	src []byte
	pos int
	// atLineStart is true when only whitespace precedes pos on the current line.
	atLineStart bool
}

func tokenize(src []byte) []token {
	lx := &lexer{src: src, atLineStart: true}
	var toks []token
	for {
		t := lx.next()
		if t.kind == tokEOF {
			return toks
		}
		toks = append(toks, t)
	}
}

func (lx *lexer) peekByte(off int) byte {
	if lx.pos+off < len(lx.src) {
		return lx.src[lx.pos+off]
	}
	return 0
}

func (lx *lexer) hasPrefix(s string) bool {
	return len(lx.src)-lx.pos >= len(s) && string(lx.src[lx.pos:lx.pos+len(s)]) == s
}

func (lx *lexer) skipTrivia() {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '\n':
			lx.pos++
			lx.atLineStart = true
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			lx.pos++
		case c == '/' && lx.peekByte(1) == '/':
			lx.skipLine()
		case c == '/' && lx.peekByte(1) == '*':
			lx.pos += 2
			for lx.pos < len(lx.src) && !lx.hasPrefix("*/") {
				lx.pos++
			}
			lx.pos = min(lx.pos+2, len(lx.src))
		case c == '#' && lx.atLineStart:
			// preprocessor directive
			lx.skipLine()
		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRune(lx.src[lx.pos:])
			if !unicode.IsSpace(r) && r != '\uFEFF' {
				return
			}
			lx.pos += size
		default:
			return
		}
	}
}

func (lx *lexer) skipLine() {
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		lx.pos++
	}
}

func (lx *lexer) next() token {
	lx.skipTrivia()
	if lx.pos >= len(lx.src) {
		return token{kind: tokEOF, start: lx.pos, end: lx.pos}
	}
	lx.atLineStart = false
	start := lx.pos
	c := lx.src[lx.pos]

	switch {
	case c == '"' || c == '@' && lx.peekByte(1) == '"' || c == '@' && lx.peekByte(1) == '$' && lx.peekByte(2) == '"' ||
		c == '$' && (lx.peekByte(1) == '"' || lx.peekByte(1) == '@' || lx.peekByte(1) == '$'):
		lx.scanString()
		return lx.emit(tokLiteral, start)
	case c == '@' && isIdentStart(lx.peekRune(1)):
		// verbatim identifier; the @ is kept so the name can be emitted as written
		lx.pos++
		lx.scanIdent()
		t := lx.emit(tokIdent, start)
		t.verbatim = true
		return t
	case c == '\'':
		lx.scanChar()
		return lx.emit(tokLiteral, start)
	case c >= '0' && c <= '9':
		lx.scanNumber()
		return lx.emit(tokLiteral, start)
	case isIdentStart(lx.peekRune(0)):
		lx.scanIdent()
		return lx.emit(tokIdent, start)
	}

	for _, op := range []string{"=>", "::"} {
		if lx.hasPrefix(op) {
			lx.pos += len(op)
			return lx.emit(tokPunct, start)
		}
	}
	_, size := utf8.DecodeRune(lx.src[lx.pos:])
	lx.pos += size
	return lx.emit(tokPunct, start)
}

func (lx *lexer) emit(kind tokenKind, start int) token {
	return token{kind: kind, text: string(lx.src[start:lx.pos]), start: start, end: lx.pos}
}

func (lx *lexer) peekRune(off int) rune {
	if lx.pos+off >= len(lx.src) {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRune(lx.src[lx.pos+off:])
	return r
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}

func (lx *lexer) scanIdent() {
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRune(lx.src[lx.pos:])
		if !isIdentPart(r) {
			return
		}
		lx.pos += size
	}
}

func (lx *lexer) scanNumber() {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if c == '.' && !(lx.peekByte(1) >= '0' && lx.peekByte(1) <= '9') {
			return
		}
		if !(c == '.' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return
		}
		lx.pos++
	}
}

func (lx *lexer) scanChar() {
	lx.pos++
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case '\\':
			lx.pos += 2
		case '\'':
			lx.pos++
			return
		case '\n':
			return
		default:
			lx.pos++
		}
	}
	lx.pos = min(lx.pos, len(lx.src))
}

// scanString consumes a regular, verbatim, interpolated or raw string literal
// starting at pos.
func (lx *lexer) scanString() {
	verbatim := false
	dollars := 0
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '"' {
		switch lx.src[lx.pos] {
		case '@':
			verbatim = true
		case '$':
			dollars++
		}
		lx.pos++
	}

	quotes := 0
	for lx.pos < len(lx.src) && lx.src[lx.pos] == '"' {
		quotes++
		lx.pos++
	}
	switch {
	case quotes == 2:
		// empty string
		return
	case quotes >= 3:
		lx.scanRawString(quotes)
		return
	}

	depth := 0
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '\\' && !verbatim && depth == 0:
			lx.pos += 2
			continue
		case c == '"' && verbatim && lx.peekByte(1) == '"':
			lx.pos += 2
			continue
		case c == '"' && depth == 0:
			lx.pos++
			return
		case c == '"' && depth > 0:
			// nested literal inside an interpolation hole
			lx.scanString()
			continue
		case c == '{' && dollars > 0:
			if lx.peekByte(1) == '{' && depth == 0 {
				lx.pos += 2
				continue
			}
			depth++
		case c == '}' && dollars > 0 && depth > 0:
			depth--
		case c == '\n' && !verbatim && depth == 0:
			return
		}
		lx.pos++
	}
	lx.pos = min(lx.pos, len(lx.src))
}

func (lx *lexer) scanRawString(quotes int) {
	for lx.pos < len(lx.src) {
		if lx.src[lx.pos] == '"' {
			n := 0
			for lx.pos < len(lx.src) && lx.src[lx.pos] == '"' {
				n++
				lx.pos++
			}
			if n >= quotes {
				return
			}
			continue
		}
		lx.pos++
	}
}
