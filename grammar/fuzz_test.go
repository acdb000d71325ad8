package grammar

import (
	"testing"
)

// ---------------------------------------------------------------------------
// FuzzLexer: ensure the rule lexer never panics on arbitrary input.
// ---------------------------------------------------------------------------

func FuzzLexer(f *testing.F) {
	// Seed corpus: rule snippets covering diverse token types
	seeds := []string{
		// Basic tokens
		`: ; | ( ) { } , * + ?`,
		// Strings
		`"hello"`, `""`, `"a b"`, `"\n\t\\\""`,
		// Classes
		`[a-z]`, `[a-zA-Z0-9_]`, `[\-\]]`,
		// Integers and bounds
		`0`, `42`, `{3}`, `{2,5}`, `{1,}`,
		// Names
		`start`, `rule-name`, `_x9`,
		// Comments
		"// a comment\nstart",
		// Complete rules
		`start: "a" | "b";`,
		`host: label ("." label)*;`,
		`label: [a-zA-Z0-9\-]+;`,
		// Edge cases
		`"unterminated`, `[unterminated`, `[]`, `"\q"`, `name-`, `@`,
		// Unicode
		`"こんにちは"`, `héllo`,
		// Empty and whitespace
		``, `   `, "\t\n\r",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, data string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("lexer panicked on input %q: %v", data, r)
			}
		}()

		l := NewLexer(data)
		for i := 0; i < len(data)+100; i++ {
			tok := l.NextToken()
			if tok.Type == TokenEOF || tok.Type == TokenError {
				break
			}
		}
	})
}

// ---------------------------------------------------------------------------
// FuzzRuleParser: ensure the rule parser never panics on arbitrary input.
// Parse errors are acceptable; panics are not.
// ---------------------------------------------------------------------------

func FuzzRuleParser(f *testing.F) {
	seeds := []string{
		`start: "a";`,
		`start: "a" | "b" | "c";`,
		`start: scheme "://" host; scheme: "http"; host: [a-z]+;`,
		`start: "a"*;`, `start: "a"+;`, `start: "a"?;`,
		`start: "a"{3};`, `start: "a"{2,5};`, `start: "a"{2,};`,
		`start: ("a" | "b") "c";`,
		`start: "";`,
		// Edge cases
		``, `;`, `start:`, `start: ;`, `: "a";`, `start "a";`,
		`start: ("a";`, `start: "a"{};`, `start: "a"{5,2};`,
		`start: [z-a];`, `start: [a-];`,
		`start: "a"`, // no semicolon
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, data string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("parser panicked on input %q: %v", data, r)
			}
		}()

		p := NewParser(data)
		_ = p.ParseRules()
		_ = p.Errors()
	})
}

// ---------------------------------------------------------------------------
// FuzzCompile: feed arbitrary rule sources through the full pipeline
// (parse -> validate -> lower). Compile errors are fine, panics are not.
// ---------------------------------------------------------------------------

func FuzzCompile(f *testing.F) {
	seeds := []string{
		`start: "a";`,
		`start: x; x: "a" | "b";`,
		`start: item ("," item)*; item: [a-z]+;`,
		`start: "a"{2,4};`,
		`start: missing;`,
		`start: "a"; unused: "b";`,
		`top: "a";`,
		``,
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, data string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("compile panicked on input %q: %v", data, r)
			}
		}()

		_, _ = Compile("fuzz", data)
	})
}

// ---------------------------------------------------------------------------
// FuzzURLParse: parse arbitrary strings against the URL grammar. Rejection
// is fine, panics and non-termination are not, and accepted members must
// round-trip through the tree.
// ---------------------------------------------------------------------------

func FuzzURLParse(f *testing.F) {
	seeds := []string{
		"http://example.com",
		"https://a.b.c/d/e",
		"ftp://x/",
		"http://",
		"example.com",
		"",
		"http://exa mple.com",
		"http://example.com/'; DROP TABLE users--",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, data string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("parse panicked on input %q: %v", data, r)
			}
		}()

		tree, err := URL.Parse(data)
		if err != nil {
			return // rejection is an expected outcome
		}
		if got := tree.Text(); got != data {
			t.Errorf("round trip: Parse(%q).Text() = %q", data, got)
		}
	})
}
