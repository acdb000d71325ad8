package contract

import (
	"fmt"

	"github.com/langcheck/langcheck/selector"
)

// ---------------------------------------------------------------------------
// Contracts and predicates
// ---------------------------------------------------------------------------

// Callable is a guarded function: positional string arguments in, one string
// result out. An error return is classified as a crash, not propagated.
type Callable func(args []string) (string, error)

// Context is the fixed-shape view a predicate receives: positional argument
// values, the return value (empty until POSTCHECK), and query evaluation
// over any language type.
type Context struct {
	Args   []string
	Result string
}

// Select parses value under the type's grammar and returns the substring
// derived by the unique node matching the path expression.
func (pc *Context) Select(t *LanguageType, path, value string) (string, error) {
	p, err := selector.ParsePath(path)
	if err != nil {
		return "", err
	}
	return selector.Select(t.Grammar, p, value)
}

// SelectAll is like Select but returns every matching substring.
func (pc *Context) SelectAll(t *LanguageType, path, value string) ([]string, error) {
	p, err := selector.ParsePath(path)
	if err != nil {
		return nil, err
	}
	return selector.SelectAll(t.Grammar, p, value), nil
}

// Predicate is a pure pre- or postcondition over a call context. Returning
// false rejects or fails the call; returning an error does the same but
// carries a diagnosis.
type Predicate func(pc *Context) (bool, error)

// Contract binds a callable's parameter positions and return value to
// language types, with optional pre- and postcondition predicates.
// Immutable after registration.
type Contract struct {
	Name   string
	Fn     Callable
	Params []*LanguageType
	Return *LanguageType
	Pre    Predicate
	Post   Predicate

	// Selectors lists the typed path expressions the predicates evaluate,
	// for static vetting at declaration time. Optional.
	Selectors []TypedPath
}

// TypedPath is a selector expression together with the language type whose
// grammar it navigates.
type TypedPath struct {
	Type *LanguageType
	Path string
}

func (c *Contract) validate() error {
	if c.Name == "" {
		return fmt.Errorf("contract has no name")
	}
	if c.Fn == nil {
		return fmt.Errorf("contract %s has no callable", c.Name)
	}
	for i, p := range c.Params {
		if p == nil {
			return fmt.Errorf("contract %s: parameter %d has no language type", c.Name, i+1)
		}
	}
	return nil
}
