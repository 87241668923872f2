package parser

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/mirryi/isc/automaton"
)

type tokenKind string

const (
	tokenKindChar            tokenKind = "char"
	tokenKindClass           tokenKind = "character class"
	tokenKindAnyChar         tokenKind = "."
	tokenKindRepeat          tokenKind = "*"
	tokenKindRepeatOneOrMore tokenKind = "+"
	tokenKindOption          tokenKind = "?"
	tokenKindAlt             tokenKind = "|"
	tokenKindGroupOpen       tokenKind = "("
	tokenKindGroupClose      tokenKind = ")"
	tokenKindBExpOpen        tokenKind = "["
	tokenKindInverseBExpOpen tokenKind = "[^"
	tokenKindBExpClose       tokenKind = "]"
	tokenKindCharRange       tokenKind = "-"
	tokenKindEOF             tokenKind = "eof"
)

type token struct {
	kind  tokenKind
	char  rune
	class automaton.CharClass

	// pos is the rune offset of the first character of the token.
	pos int
}

const nullChar = '\u0000'

func newToken(kind tokenKind, char rune, pos int) *token {
	return &token{
		kind: kind,
		char: char,
		pos:  pos,
	}
}

func newClassToken(class automaton.CharClass, pos int) *token {
	return &token{
		kind:  tokenKindClass,
		class: class,
		pos:   pos,
	}
}

type lexerMode string

const (
	lexerModeDefault lexerMode = "default"
	lexerModeBExp    lexerMode = "bracket expression"
)

type rangeState string

// [a-z]
// ^^^^
// |||`-- ready
// ||`-- expect range terminator
// |`-- read range initiator
// `-- ready
const (
	rangeStateReady                 rangeState = "ready"
	rangeStateReadRangeInitiator    rangeState = "read range initiator"
	rangeStateExpectRangeTerminator rangeState = "expect range terminator"
)

type lexer struct {
	src        []rune
	offset     int
	mode       lexerMode
	rangeState rangeState

	errCause  error
	errDetail string
	errPos    int
}

func newLexer(src string) *lexer {
	return &lexer{
		src:        []rune(src),
		mode:       lexerModeDefault,
		rangeState: rangeStateReady,
	}
}

func (l *lexer) error() (string, error, int) {
	return l.errDetail, l.errCause, l.errPos
}

func (l *lexer) next() (*token, error) {
	pos := l.offset
	c, eof := l.read()
	if eof {
		return newToken(tokenKindEOF, nullChar, pos), nil
	}

	switch l.mode {
	case lexerModeBExp:
		tok, err := l.nextInBExp(c, pos)
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenKindChar:
			switch l.rangeState {
			case rangeStateReady:
				l.rangeState = rangeStateReadRangeInitiator
			case rangeStateExpectRangeTerminator:
				l.rangeState = rangeStateReady
			}
		case tokenKindClass:
			// A class cannot be an end of a range, so a following `-` is a literal.
			l.rangeState = rangeStateReady
		}
		switch tok.kind {
		case tokenKindBExpClose:
			l.mode = lexerModeDefault
		case tokenKindCharRange:
			l.rangeState = rangeStateExpectRangeTerminator
		}
		return tok, nil
	default:
		tok, err := l.nextInDefault(c, pos)
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenKindBExpOpen, tokenKindInverseBExpOpen:
			l.mode = lexerModeBExp
			l.rangeState = rangeStateReady
		}
		return tok, nil
	}
}

func (l *lexer) nextInDefault(c rune, pos int) (*token, error) {
	switch c {
	case '*':
		return newToken(tokenKindRepeat, nullChar, pos), nil
	case '+':
		return newToken(tokenKindRepeatOneOrMore, nullChar, pos), nil
	case '?':
		return newToken(tokenKindOption, nullChar, pos), nil
	case '.':
		return newToken(tokenKindAnyChar, nullChar, pos), nil
	case '|':
		return newToken(tokenKindAlt, nullChar, pos), nil
	case '(':
		return newToken(tokenKindGroupOpen, nullChar, pos), nil
	case ')':
		return newToken(tokenKindGroupClose, nullChar, pos), nil
	case '[':
		if c1, eof := l.peek(); !eof && c1 == '^' {
			l.read()
			return newToken(tokenKindInverseBExpOpen, nullChar, pos), nil
		}
		return newToken(tokenKindBExpOpen, nullChar, pos), nil
	case '\\':
		return l.nextEscape(pos, "\\.*+?|()[]^-/")
	default:
		return newToken(tokenKindChar, c, pos), nil
	}
}

func (l *lexer) nextInBExp(c rune, pos int) (*token, error) {
	switch c {
	case '-':
		if l.rangeState != rangeStateReadRangeInitiator {
			return newToken(tokenKindChar, c, pos), nil
		}
		if c1, eof := l.peek(); eof || c1 == ']' {
			return newToken(tokenKindChar, c, pos), nil
		}
		return newToken(tokenKindCharRange, nullChar, pos), nil
	case ']':
		return newToken(tokenKindBExpClose, nullChar, pos), nil
	case '\\':
		return l.nextEscape(pos, "\\.*+?|()[]^-/")
	default:
		return newToken(tokenKindChar, c, pos), nil
	}
}

// nextEscape reads the character following a backslash. escapable lists the
// characters that stand for themselves when escaped.
func (l *lexer) nextEscape(pos int, escapable string) (*token, error) {
	c, eof := l.read()
	if eof {
		return nil, l.raise(synErrIncompletedEscSeq, "", pos)
	}
	switch c {
	case 'n':
		return newToken(tokenKindChar, '\n', pos), nil
	case 't':
		return newToken(tokenKindChar, '\t', pos), nil
	case 'r':
		return newToken(tokenKindChar, '\r', pos), nil
	case 'd', 'D', 'w', 'W', 's', 'S':
		return newClassToken(perlClass(c), pos), nil
	case 'u':
		cp, err := l.readCodePoint(pos)
		if err != nil {
			return nil, err
		}
		return newToken(tokenKindChar, cp, pos), nil
	}
	for _, e := range escapable {
		if c == e {
			return newToken(tokenKindChar, c, pos), nil
		}
	}
	return nil, l.raise(synErrInvalidEscSeq, fmt.Sprintf("\\%v is not supported", string(c)), pos)
}

// readCodePoint reads the `{XXXX}` part of a code point expression.
func (l *lexer) readCodePoint(pos int) (rune, error) {
	if c, eof := l.read(); eof || c != '{' {
		return nullChar, l.raise(synErrCPExpInvalidForm, "", pos)
	}
	var digits []rune
	for {
		c, eof := l.read()
		if eof {
			return nullChar, l.raise(synErrCPExpInvalidForm, "", pos)
		}
		if c == '}' {
			break
		}
		if !isHexDigit(c) || len(digits) >= 6 {
			return nullChar, l.raise(synErrInvalidCodePoint, "", pos)
		}
		digits = append(digits, c)
	}
	if len(digits) != 4 && len(digits) != 6 {
		return nullChar, l.raise(synErrInvalidCodePoint, "", pos)
	}
	n, err := strconv.ParseInt(string(digits), 16, 64)
	if err != nil {
		return nullChar, fmt.Errorf("failed to decode a code point (%v) into a int: %v", string(digits), err)
	}
	if n > unicode.MaxRune {
		return nullChar, l.raise(synErrCPExpOutOfRange, "", pos)
	}
	return rune(n), nil
}

func isHexDigit(c rune) bool {
	return c >= '0' && c <= '9' || c >= 'A' && c <= 'F' || c >= 'a' && c <= 'f'
}

func perlClass(c rune) automaton.CharClass {
	var class automaton.CharClass
	switch unicode.ToLower(c) {
	case 'd':
		class = automaton.NewCharClass(automaton.Range{From: '0', To: '9'})
	case 'w':
		class = automaton.NewCharClass(
			automaton.Range{From: '0', To: '9'},
			automaton.Range{From: 'A', To: 'Z'},
			automaton.Range{From: '_', To: '_'},
			automaton.Range{From: 'a', To: 'z'},
		)
	case 's':
		class = automaton.NewCharClass(
			automaton.Range{From: '\t', To: '\r'},
			automaton.Range{From: ' ', To: ' '},
		)
	}
	if unicode.IsUpper(c) {
		return class.Complement()
	}
	return class
}

func (l *lexer) raise(cause error, detail string, pos int) error {
	l.errCause = cause
	l.errDetail = detail
	l.errPos = pos
	return ParseErr
}

func (l *lexer) read() (rune, bool) {
	if l.offset >= len(l.src) {
		return nullChar, true
	}
	c := l.src[l.offset]
	l.offset++
	return c, false
}

func (l *lexer) peek() (rune, bool) {
	if l.offset >= len(l.src) {
		return nullChar, true
	}
	return l.src[l.offset], false
}
