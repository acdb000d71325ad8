// Package contract binds callables to language types: parameter and return
// strings are checked against grammars at call time, with optional pre- and
// postcondition predicates over parsed values.
package contract

import (
	"github.com/langcheck/langcheck/grammar"
)

// ---------------------------------------------------------------------------
// Language types
// ---------------------------------------------------------------------------

// Check is a semantic constraint over a candidate string, applied on top of
// grammar membership.
type Check func(value string) bool

// LanguageType is a formal-language refinement of the string type: a named
// grammar plus optional ordered semantic constraints. Immutable once
// constructed; one type may be referenced by many contracts.
type LanguageType struct {
	Name    string
	Grammar *grammar.Grammar
	Checks  []Check
}

// NewType creates a language type over a compiled grammar.
func NewType(name string, g *grammar.Grammar, checks ...Check) *LanguageType {
	return &LanguageType{Name: name, Grammar: g, Checks: checks}
}

// Lang compiles rule source text into a language type. Construction-time
// grammar errors are returned immediately, never deferred to call time.
func Lang(name, rules string) (*LanguageType, error) {
	g, err := grammar.Compile(name, rules)
	if err != nil {
		return nil, err
	}
	return &LanguageType{Name: name, Grammar: g}, nil
}

// MustLang is like Lang but panics on error. Intended for type literals
// known to be valid.
func MustLang(name, rules string) *LanguageType {
	t, err := Lang(name, rules)
	if err != nil {
		panic(err)
	}
	return t
}

// Parse derives value from the type's grammar.
func (t *LanguageType) Parse(value string) (*grammar.Tree, error) {
	return t.Grammar.Parse(value)
}

// Member reports whether value belongs to the language: grammar membership
// plus every semantic constraint.
func (t *LanguageType) Member(value string) bool {
	if !t.Grammar.Accepts(value) {
		return false
	}
	for _, check := range t.Checks {
		if !check(value) {
			return false
		}
	}
	return true
}

func (t *LanguageType) String() string {
	if t == nil {
		return "<untyped>"
	}
	return t.Name
}

// ---------------------------------------------------------------------------
// Built-in language types
// ---------------------------------------------------------------------------

var (
	// URLType wraps the built-in URL grammar.
	URLType = NewType("URL", grammar.URL)
	// HostType wraps the built-in Host grammar.
	HostType = NewType("Host", grammar.Host)
	// EmailType wraps the built-in Email grammar.
	EmailType = NewType("Email", grammar.Email)
)
