// Package parser parses regular expressions into syntax trees.
//
// The syntax consists of literals, concatenation, alternation (|), the
// quantifiers *, + and ?, grouping with parentheses, the wildcard . (any
// character except a newline), bracket expressions like [a-z0-9] and their
// negated form [^...], the classes \d \D \w \W \s \S, the escapes \n \t \r,
// code points \u{XXXX}, and escaped meta characters.
package parser

import (
	"fmt"

	"github.com/mirryi/isc/automaton"
	ierr "github.com/mirryi/isc/error"
)

type parser struct {
	pattern   string
	lex       *lexer
	peekedTok *token
	lastTok   *token

	errCause  error
	errDetail string
	errPos    int
}

// Parse parses pattern. Malformed patterns yield an *error.SyntaxError that
// carries the rune offset the parser stopped at.
func Parse(pattern string) (Tree, error) {
	p := &parser{
		pattern: pattern,
		lex:     newLexer(pattern),
	}
	t, err := p.parse()
	if err != nil {
		if err == ParseErr {
			return nil, &ierr.SyntaxError{
				Pattern: pattern,
				Pos:     p.errPos,
				Cause:   p.errCause,
				Detail:  p.errDetail,
			}
		}
		return nil, err
	}
	return t, nil
}

func (p *parser) parse() (root Tree, retErr error) {
	defer func() {
		err := recover()
		if err != nil {
			var ok bool
			retErr, ok = err.(error)
			if !ok {
				panic(err)
			}
			return
		}
	}()

	return p.parseRegexp(), nil
}

func (p *parser) parseRegexp() Tree {
	alt := p.parseAlt()
	if alt == nil {
		if p.consume(tokenKindGroupClose) {
			p.raiseParseError(synErrGroupNoInitiator, "")
		}
		p.raiseParseError(synErrNullPattern, "")
	}
	if p.consume(tokenKindGroupClose) {
		p.raiseParseError(synErrGroupNoInitiator, "")
	}
	p.expect(tokenKindEOF)
	return alt
}

func (p *parser) parseAlt() Tree {
	left := p.parseConcat()
	if left == nil {
		if p.consume(tokenKindAlt) {
			p.raiseParseError(synErrAltLackOfOperand, "")
		}
		return nil
	}
	for {
		if !p.consume(tokenKindAlt) {
			break
		}
		right := p.parseConcat()
		if right == nil {
			p.raiseParseError(synErrAltLackOfOperand, "")
		}
		left = newAltNode(left, right)
	}
	return left
}

func (p *parser) parseConcat() Tree {
	left := p.parseRepeat()
	for {
		right := p.parseRepeat()
		if right == nil {
			break
		}
		left = newConcatNode(left, right)
	}
	return left
}

func (p *parser) parseRepeat() Tree {
	group := p.parseGroup()
	if group == nil {
		if p.consume(tokenKindRepeat) {
			p.raiseParseError(synErrRepNoTarget, "* needs an operand")
		}
		if p.consume(tokenKindRepeatOneOrMore) {
			p.raiseParseError(synErrRepNoTarget, "+ needs an operand")
		}
		if p.consume(tokenKindOption) {
			p.raiseParseError(synErrRepNoTarget, "? needs an operand")
		}
		return nil
	}
	// Quantifiers may be stacked like a+?.
	for {
		switch {
		case p.consume(tokenKindRepeat):
			group = newRepeatNode(group)
		case p.consume(tokenKindRepeatOneOrMore):
			group = newRepeatOneOrMoreNode(group)
		case p.consume(tokenKindOption):
			group = newOptionNode(group)
		default:
			return group
		}
	}
}

func (p *parser) parseGroup() Tree {
	if p.consume(tokenKindGroupOpen) {
		alt := p.parseAlt()
		if alt == nil {
			if p.consume(tokenKindEOF) {
				p.raiseParseError(synErrGroupUnclosed, "")
			}
			p.raiseParseError(synErrGroupNoElem, "")
		}
		if p.consume(tokenKindEOF) {
			p.raiseParseError(synErrGroupUnclosed, "")
		}
		if !p.consume(tokenKindGroupClose) {
			p.raiseParseError(synErrGroupInvalidForm, "")
		}
		return alt
	}
	return p.parseSingleChar()
}

func (p *parser) parseSingleChar() Tree {
	if p.consume(tokenKindAnyChar) {
		return newClassNode(automaton.AnyCharExceptNewline())
	}
	if p.consume(tokenKindClass) {
		return newClassNode(p.lastTok.class)
	}
	if p.consume(tokenKindBExpOpen) {
		return newClassNode(p.parseBExp())
	}
	if p.consume(tokenKindInverseBExpOpen) {
		pos := p.lastTok.pos
		inverse := p.parseBExp().Complement()
		if inverse.IsEmpty() {
			p.raiseParseErrorAt(synErrUnmatchablePattern, "", pos)
		}
		return newClassNode(inverse)
	}
	c := p.parseNormalChar()
	if c == nil {
		if p.consume(tokenKindBExpClose) {
			p.raiseParseError(synErrBExpInvalidForm, "")
		}
		return nil
	}
	return c
}

// parseBExp parses the elements and the closing bracket of a bracket
// expression and returns the union of the elements.
func (p *parser) parseBExp() automaton.CharClass {
	class, ok := p.parseBExpElem()
	if !ok {
		if p.consume(tokenKindEOF) {
			p.raiseParseError(synErrBExpUnclosed, "")
		}
		p.raiseParseError(synErrBExpNoElem, "")
	}
	for {
		c, ok := p.parseBExpElem()
		if !ok {
			break
		}
		class = class.Union(c)
	}
	if p.consume(tokenKindEOF) {
		p.raiseParseError(synErrBExpUnclosed, "")
	}
	p.expect(tokenKindBExpClose)
	return class
}

func (p *parser) parseBExpElem() (automaton.CharClass, bool) {
	if p.consume(tokenKindClass) {
		return p.lastTok.class, true
	}
	if !p.consume(tokenKindChar) {
		return automaton.CharClass{}, false
	}
	from := p.lastTok
	if !p.consume(tokenKindCharRange) {
		return automaton.Single(from.char), true
	}
	if !p.consume(tokenKindChar) {
		p.raiseParseError(synErrRangeInvalidForm, "")
	}
	to := p.lastTok
	if from.char > to.char {
		p.raiseParseErrorAt(synErrRangeInvalidOrder, fmt.Sprintf("%X..%X", from.char, to.char), from.pos)
	}
	return automaton.NewCharClass(automaton.Range{From: from.char, To: to.char}), true
}

func (p *parser) parseNormalChar() Tree {
	if !p.consume(tokenKindChar) {
		return nil
	}
	return newSymbolNode(p.lastTok.char)
}

func (p *parser) expect(expected tokenKind) {
	if !p.consume(expected) {
		tok := p.peekedTok
		p.raiseParseError(synErrUnexpectedToken, fmt.Sprintf("expected: %v, actual: %v", expected, tok.kind))
	}
}

func (p *parser) consume(expected tokenKind) bool {
	var tok *token
	var err error
	if p.peekedTok != nil {
		tok = p.peekedTok
		p.peekedTok = nil
	} else {
		tok, err = p.lex.next()
		if err != nil {
			if err == ParseErr {
				detail, cause, pos := p.lex.error()
				p.raiseParseErrorAt(cause, detail, pos)
			}
			panic(err)
		}
	}
	p.lastTok = tok
	if tok.kind == expected {
		return true
	}
	p.peekedTok = tok
	p.lastTok = nil

	return false
}

// raiseParseError reports an error at the token consumed last, or at the
// pending token when the last attempt to consume failed.
func (p *parser) raiseParseError(err error, detail string) {
	pos := 0
	switch {
	case p.lastTok != nil:
		pos = p.lastTok.pos
	case p.peekedTok != nil:
		pos = p.peekedTok.pos
	}
	p.raiseParseErrorAt(err, detail, pos)
}

func (p *parser) raiseParseErrorAt(err error, detail string, pos int) {
	p.errCause = err
	p.errDetail = detail
	p.errPos = pos
	panic(ParseErr)
}
