// Package selector implements the path query mini-language over derivation
// trees: selector expressions like "..host" or ".local.atom[2]" navigate a
// tree by nonterminal name and extract subtrees.
package selector

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ---------------------------------------------------------------------------
// Path syntax
// ---------------------------------------------------------------------------

// Step is a single selector step.
type Step interface {
	// Name is the nonterminal the step selects.
	Name() string
	step() // marker method
}

// Direct selects all direct children labeled with a name (".name").
type Direct struct {
	Label string
}

func (s Direct) Name() string { return s.Label }
func (s Direct) step()        {}

// DirectAt selects the k-th direct child labeled with a name (".name[k]",
// 1-based).
type DirectAt struct {
	Label string
	K     int
}

func (s DirectAt) Name() string { return s.Label }
func (s DirectAt) step()        {}

// Descendant selects all transitive occurrences of a name ("..name").
type Descendant struct {
	Label string
}

func (s Descendant) Name() string { return s.Label }
func (s Descendant) step()        {}

// Path is a parsed selector expression: an ordered sequence of steps.
type Path struct {
	Source string
	Steps  []Step
}

func (p *Path) String() string { return p.Source }

// ---------------------------------------------------------------------------
// Path parser
// ---------------------------------------------------------------------------

// ParsePath parses a selector expression. A path is one or more steps, each
// ".name", ".name[k]" or "..name".
func ParsePath(src string) (*Path, error) {
	runes := []rune(src)
	pos := 0

	fail := func(format string, args ...interface{}) (*Path, error) {
		return nil, fmt.Errorf("invalid path %q: %s", src, fmt.Sprintf(format, args...))
	}

	readName := func() string {
		start := pos
		for pos < len(runes) && isNamePart(runes[pos]) {
			pos++
		}
		return string(runes[start:pos])
	}

	var steps []Step
	for pos < len(runes) {
		if runes[pos] != '.' {
			return fail("expected '.' at offset %d", pos)
		}
		pos++

		indirect := false
		if pos < len(runes) && runes[pos] == '.' {
			indirect = true
			pos++
		}

		if pos >= len(runes) || !isNameStart(runes[pos]) {
			return fail("expected name at offset %d", pos)
		}
		name := readName()
		if strings.HasSuffix(name, "-") {
			return fail("name cannot end with '-'")
		}

		if indirect {
			steps = append(steps, Descendant{Label: name})
			continue
		}

		if pos < len(runes) && runes[pos] == '[' {
			pos++
			start := pos
			for pos < len(runes) && unicode.IsDigit(runes[pos]) {
				pos++
			}
			if start == pos || pos >= len(runes) || runes[pos] != ']' {
				return fail("malformed index at offset %d", start)
			}
			k, _ := strconv.Atoi(string(runes[start:pos]))
			pos++
			if k < 1 {
				return fail("index must be >= 1")
			}
			steps = append(steps, DirectAt{Label: name, K: k})
			continue
		}

		steps = append(steps, Direct{Label: name})
	}

	if len(steps) == 0 {
		return fail("a path needs at least one step")
	}
	return &Path{Source: src, Steps: steps}, nil
}

// MustParsePath is like ParsePath but panics on error. Intended for path
// literals in code.
func MustParsePath(src string) *Path {
	p, err := ParsePath(src)
	if err != nil {
		panic(err)
	}
	return p
}

func isNameStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isNamePart(ch rune) bool {
	return ch == '_' || ch == '-' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}
