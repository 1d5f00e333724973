package hvm

import (
	"errors"
	"fmt"
	"strconv"
)

var ERR_SYNTAX = errors.New("syntax error")

const eof = '\000'

type tokenKind int

const (
	TOK_EOF tokenKind = iota
	TOK_OPEN_PAREN
	TOK_CLOSE_PAREN
	TOK_LAMBDA
	TOK_EQUAL
	TOK_NUM
	TOK_NAME
	TOK_OP
)

type token struct {
	kind   tokenKind
	lexeme string
	offset int
}

type lexer struct {
	src    string
	offset int
}

func (lex *lexer) peekChar() byte {
	if lex.offset >= len(lex.src) {
		return eof
	}
	return lex.src[lex.offset]
}

func (lex *lexer) skipWhitespace() {
	for {
		ch := lex.peekChar()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			lex.offset++
		case ch == '/' && lex.offset+1 < len(lex.src) && lex.src[lex.offset+1] == '/':
			for lex.peekChar() != '\n' && lex.peekChar() != eof {
				lex.offset++
			}
		default:
			return
		}
	}
}

func isNameChar(ch byte) bool {
	return ch == '_' || ch == '.' || ch == '$' || ch == '~' || ch == '\'' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func (lex *lexer) peek() (token, error) {
	offset := lex.offset
	tok, err := lex.next()
	lex.offset = offset
	return tok, err
}

func (lex *lexer) next() (token, error) {
	lex.skipWhitespace()
	start := lex.offset
	ch := lex.peekChar()

	switch {
	case ch == eof:
		return token{kind: TOK_EOF, offset: start}, nil
	case ch == '(':
		lex.offset++
		return token{kind: TOK_OPEN_PAREN, lexeme: "(", offset: start}, nil
	case ch == ')':
		lex.offset++
		return token{kind: TOK_CLOSE_PAREN, lexeme: ")", offset: start}, nil
	case ch == '@':
		lex.offset++
		return token{kind: TOK_LAMBDA, lexeme: "@", offset: start}, nil
	case isDigit(ch):
		for isDigit(lex.peekChar()) {
			lex.offset++
		}
		return token{kind: TOK_NUM, lexeme: lex.src[start:lex.offset], offset: start}, nil
	case isNameChar(ch):
		for isNameChar(lex.peekChar()) {
			lex.offset++
		}
		return token{kind: TOK_NAME, lexeme: lex.src[start:lex.offset], offset: start}, nil
	}

	// `=` alone separates the sides of a rule; everything else made of
	// operator characters is an operator, `*` included.
	for lex.offset < len(lex.src) && isOpChar(lex.src[lex.offset]) {
		lex.offset++
	}
	lexeme := lex.src[start:lex.offset]
	if lexeme == "=" {
		return token{kind: TOK_EQUAL, lexeme: lexeme, offset: start}, nil
	}
	if lexeme == "" {
		return token{}, fmt.Errorf("%w: unexpected character %q at offset %d", ERR_SYNTAX, ch, start)
	}
	return token{kind: TOK_OP, lexeme: lexeme, offset: start}, nil
}

func isOpChar(ch byte) bool {
	switch ch {
	case '+', '-', '*', '/', '%', '&', '|', '^', '<', '>', '=', '!':
		return true
	}
	return false
}

type parser struct {
	lex *lexer
}

// ParseTerm reads a single term.
func ParseTerm(src string) (*Term, error) {
	p := &parser{lex: &lexer{src: src}}
	term, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOK_EOF); err != nil {
		return nil, err
	}
	return term, nil
}

// ParseFile reads a sequence of `lhs = rhs` rules.
func ParseFile(src string) (*File, error) {
	p := &parser{lex: &lexer{src: src}}
	file := &File{}
	for {
		tok, err := p.lex.peek()
		if err != nil {
			return nil, err
		}
		if tok.kind == TOK_EOF {
			return file, nil
		}
		lhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if lhs.Kind != TERM_CTR {
			return nil, fmt.Errorf("%w: rule left side must be a constructor, got %s at offset %d", ERR_SYNTAX, lhs, tok.offset)
		}
		if err := p.expect(TOK_EQUAL); err != nil {
			return nil, err
		}
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		file.Push(lhs, rhs)
	}
}

func (p *parser) expect(kind tokenKind) error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	if tok.kind != kind {
		return fmt.Errorf("%w: unexpected %q at offset %d", ERR_SYNTAX, tok.lexeme, tok.offset)
	}
	return nil
}

func (p *parser) parseTerm() (*Term, error) {
	tok, err := p.lex.next()
	if err != nil {
		return nil, err
	}

	switch tok.kind {
	case TOK_NUM:
		n, err := strconv.ParseUint(tok.lexeme, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: number %s at offset %d: %v", ERR_SYNTAX, tok.lexeme, tok.offset, err)
		}
		return Num(n), nil
	case TOK_NAME:
		if IsCtrName(tok.lexeme) {
			return Ctr(tok.lexeme), nil
		}
		return Var(tok.lexeme), nil
	case TOK_OP:
		if tok.lexeme == Wildcard {
			return Var(Wildcard), nil
		}
	case TOK_LAMBDA:
		name, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		if name.kind != TOK_NAME && !(name.kind == TOK_OP && name.lexeme == Wildcard) {
			return nil, fmt.Errorf("%w: expected a binder name at offset %d", ERR_SYNTAX, name.offset)
		}
		body, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		return Lam(name.lexeme, body), nil
	case TOK_OPEN_PAREN:
		return p.parseParens()
	}
	return nil, fmt.Errorf("%w: unexpected %q at offset %d", ERR_SYNTAX, tok.lexeme, tok.offset)
}

// parseParens reads what follows `(`: an operation, a constructor with its
// fields or an application.
func (p *parser) parseParens() (*Term, error) {
	tok, err := p.lex.peek()
	if err != nil {
		return nil, err
	}

	if tok.kind == TOK_OP {
		op, ok := ParseOp(tok.lexeme)
		if !ok {
			return nil, fmt.Errorf("%w: unknown operator %q at offset %d", ERR_SYNTAX, tok.lexeme, tok.offset)
		}
		p.lex.next()
		args, err := p.parseUntilClose()
		if err != nil {
			return nil, err
		}
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: operator %s takes 2 operands, got %d", ERR_SYNTAX, op, len(args))
		}
		return Op2(op, args[0], args[1]), nil
	}

	if tok.kind == TOK_NAME && IsCtrName(tok.lexeme) {
		p.lex.next()
		args, err := p.parseUntilClose()
		if err != nil {
			return nil, err
		}
		return Ctr(tok.lexeme, args...), nil
	}

	terms, err := p.parseUntilClose()
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: empty parentheses at offset %d", ERR_SYNTAX, tok.offset)
	}
	term := terms[0]
	for _, arg := range terms[1:] {
		term = App(term, arg)
	}
	return term, nil
}

func (p *parser) parseUntilClose() ([]*Term, error) {
	var terms []*Term
	for {
		tok, err := p.lex.peek()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case TOK_CLOSE_PAREN:
			p.lex.next()
			return terms, nil
		case TOK_EOF:
			return nil, fmt.Errorf("%w: unclosed parenthesis", ERR_SYNTAX)
		}
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
}
