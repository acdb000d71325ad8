package grammar

import (
	"fmt"
	"strconv"
)

// ---------------------------------------------------------------------------
// Parser: recursive descent parser for grammar rule definitions
// ---------------------------------------------------------------------------

// Parser parses grammar rule source text into a list of rules.
type Parser struct {
	lexer     *Lexer
	curToken  Token
	peekToken Token
	errors    []string
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{
		lexer: NewLexer(input),
	}
	// Read two tokens to fill curToken and peekToken
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns accumulated parse errors.
func (p *Parser) Errors() []string {
	return p.errors
}

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
	if p.peekToken.Type == TokenError {
		p.errorf("%s", p.peekToken.Literal)
	}
}

// curTokenIs checks if the current token is of the given type.
func (p *Parser) curTokenIs(t TokenType) bool {
	return p.curToken.Type == t
}

// expect advances if the current token matches, otherwise records an error.
func (p *Parser) expect(t TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf("expected %s, got %s", t, p.curToken.Type)
	return false
}

// errorf records a parse error at the current position.
func (p *Parser) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, fmt.Sprintf("%d:%d: %s", p.curToken.Pos.Line, p.curToken.Pos.Column, msg))
}

// ParseRules parses a complete rule list: name ":" clause ";" ...
func (p *Parser) ParseRules() []*Rule {
	var rules []*Rule
	for !p.curTokenIs(TokenEOF) {
		rule := p.parseRule()
		if rule == nil {
			// Error recovery: skip to the next semicolon
			for !p.curTokenIs(TokenSemicolon) && !p.curTokenIs(TokenEOF) {
				p.nextToken()
			}
			if p.curTokenIs(TokenSemicolon) {
				p.nextToken()
			}
			continue
		}
		rules = append(rules, rule)
	}
	return rules
}

// parseRule parses a single rule: name ":" alternation ";"
func (p *Parser) parseRule() *Rule {
	start := p.curToken.Pos
	if !p.curTokenIs(TokenIdent) {
		p.errorf("expected rule name, got %s", p.curToken.Type)
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()

	if !p.expect(TokenColon) {
		return nil
	}

	body := p.parseAlternation()
	if body == nil {
		return nil
	}

	end := p.curToken.Pos
	if !p.expect(TokenSemicolon) {
		return nil
	}

	return &Rule{
		SpanVal: Span{Start: start, End: end},
		Name:    name,
		Body:    body,
	}
}

// parseAlternation parses seq ("|" seq)*
func (p *Parser) parseAlternation() Clause {
	start := p.curToken.Pos
	first := p.parseSequence()
	if first == nil {
		return nil
	}
	if !p.curTokenIs(TokenBar) {
		return first
	}

	alts := []Clause{first}
	for p.curTokenIs(TokenBar) {
		p.nextToken()
		next := p.parseSequence()
		if next == nil {
			return nil
		}
		alts = append(alts, next)
	}
	return &Alt{
		SpanVal: Span{Start: start, End: p.curToken.Pos},
		Clauses: alts,
	}
}

// parseSequence parses one or more repetition clauses in sequence.
func (p *Parser) parseSequence() Clause {
	start := p.curToken.Pos
	var items []Clause
	for p.startsClause() {
		item := p.parseRepetition()
		if item == nil {
			return nil
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		p.errorf("expected clause, got %s", p.curToken.Type)
		return nil
	}
	if len(items) == 1 {
		return items[0]
	}
	return &Seq{
		SpanVal: Span{Start: start, End: p.curToken.Pos},
		Clauses: items,
	}
}

// startsClause reports whether the current token can begin a primary clause.
func (p *Parser) startsClause() bool {
	switch p.curToken.Type {
	case TokenString, TokenIdent, TokenClass, TokenLParen:
		return true
	}
	return false
}

// parseRepetition parses a primary clause with optional postfix repetition:
// "*", "+", "?", "{n}", "{m,n}", "{m,}".
func (p *Parser) parseRepetition() Clause {
	start := p.curToken.Pos
	inner := p.parsePrimary()
	if inner == nil {
		return nil
	}

	for {
		switch p.curToken.Type {
		case TokenStar:
			p.nextToken()
			inner = &Rep{SpanVal: Span{Start: start, End: p.curToken.Pos}, Clause: inner, Min: 0, Max: -1}
		case TokenPlus:
			p.nextToken()
			inner = &Rep{SpanVal: Span{Start: start, End: p.curToken.Pos}, Clause: inner, Min: 1, Max: -1}
		case TokenQuestion:
			p.nextToken()
			inner = &Rep{SpanVal: Span{Start: start, End: p.curToken.Pos}, Clause: inner, Min: 0, Max: 1}
		case TokenLBrace:
			rep := p.parseBounds(start, inner)
			if rep == nil {
				return nil
			}
			inner = rep
		default:
			return inner
		}
	}
}

// parseBounds parses "{n}", "{m,n}" or "{m,}" after a clause.
func (p *Parser) parseBounds(start Position, inner Clause) Clause {
	p.nextToken() // consume {
	if !p.curTokenIs(TokenInt) {
		p.errorf("expected repetition bound, got %s", p.curToken.Type)
		return nil
	}
	min, _ := strconv.Atoi(p.curToken.Literal)
	p.nextToken()

	max := min
	if p.curTokenIs(TokenComma) {
		p.nextToken()
		if p.curTokenIs(TokenInt) {
			max, _ = strconv.Atoi(p.curToken.Literal)
			p.nextToken()
		} else {
			max = -1 // open upper bound
		}
	}

	end := p.curToken.Pos
	if !p.expect(TokenRBrace) {
		return nil
	}
	if max >= 0 && max < min {
		p.errorf("repetition upper bound %d is less than lower bound %d", max, min)
		return nil
	}
	return &Rep{SpanVal: Span{Start: start, End: end}, Clause: inner, Min: min, Max: max}
}

// parsePrimary parses a string literal, nonterminal reference, character
// class, or parenthesized group.
func (p *Parser) parsePrimary() Clause {
	pos := p.curToken.Pos
	switch p.curToken.Type {
	case TokenString:
		text := p.curToken.Literal
		p.nextToken()
		return &Literal{SpanVal: Span{Start: pos, End: p.curToken.Pos}, Text: text}

	case TokenIdent:
		name := p.curToken.Literal
		p.nextToken()
		return &Ref{SpanVal: Span{Start: pos, End: p.curToken.Pos}, Name: name}

	case TokenClass:
		chars, err := expandClass(p.curToken.Literal)
		if err != nil {
			p.errorf("%s", err)
			return nil
		}
		p.nextToken()
		return &Class{SpanVal: Span{Start: pos, End: p.curToken.Pos}, Chars: chars}

	case TokenLParen:
		p.nextToken()
		inner := p.parseAlternation()
		if inner == nil {
			return nil
		}
		if !p.expect(TokenRParen) {
			return nil
		}
		return inner

	default:
		p.errorf("expected clause, got %s", p.curToken.Type)
		return nil
	}
}

// expandClass expands a raw class body like "a-z0-9_" into its character set.
func expandClass(body string) ([]rune, error) {
	runes := []rune(body)
	var out []rune
	seen := make(map[rune]bool)

	add := func(ch rune) {
		if !seen[ch] {
			seen[ch] = true
			out = append(out, ch)
		}
	}

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if ch == '\\' && i+1 < len(runes) {
			// escaped ] - or backslash kept literal by the lexer
			i++
			add(runes[i])
			continue
		}
		if i+2 < len(runes) && runes[i+1] == '-' {
			lo, hi := ch, runes[i+2]
			if hi <= lo {
				return nil, fmt.Errorf("invalid range %c-%c in character class", lo, hi)
			}
			for c := lo; c <= hi; c++ {
				add(c)
			}
			i += 2
			continue
		}
		if ch == '-' {
			return nil, fmt.Errorf("dangling '-' in character class")
		}
		add(ch)
	}
	return out, nil
}
