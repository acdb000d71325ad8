package grammar

import "fmt"

// ---------------------------------------------------------------------------
// Token types for the grammar rule lexer
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenString // "..."
	TokenInt    // 3 (repetition bounds)
	TokenIdent  // rule and nonterminal names
	TokenClass  // [a-z0-9]

	// Delimiters
	TokenColon     // :
	TokenSemicolon // ;
	TokenBar       // |
	TokenLParen    // (
	TokenRParen    // )
	TokenLBrace    // {
	TokenRBrace    // }
	TokenComma     // ,
	TokenStar      // *
	TokenPlus      // +
	TokenQuestion  // ?
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "EOF",
	TokenError:     "ERROR",
	TokenString:    "STRING",
	TokenInt:       "INT",
	TokenIdent:     "IDENT",
	TokenClass:     "CLASS",
	TokenColon:     ":",
	TokenSemicolon: ";",
	TokenBar:       "|",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLBrace:    "{",
	TokenRBrace:    "}",
	TokenComma:     ",",
	TokenStar:      "*",
	TokenPlus:      "+",
	TokenQuestion:  "?",
}

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Position represents a source location.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based line number
	Column int // 1-based column number
}

// Span represents a range in source text.
type Span struct {
	Start Position
	End   Position
}

// Token is a single lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}
