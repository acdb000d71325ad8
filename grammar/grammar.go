package grammar

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Grammar: plain-data context-free grammar
// ---------------------------------------------------------------------------

// StartSymbol is the distinguished rule name every grammar must define.
const StartSymbol = "start"

// Symbol is one element of a production: either literal terminal text or a
// reference to a nonterminal.
type Symbol struct {
	Value string
	NT    bool
}

// Terminal creates a terminal symbol.
func Terminal(text string) Symbol { return Symbol{Value: text} }

// Nonterminal creates a nonterminal reference symbol.
func Nonterminal(name string) Symbol { return Symbol{Value: name, NT: true} }

func (s Symbol) String() string {
	if s.NT {
		return "<" + s.Value + ">"
	}
	return fmt.Sprintf("%q", s.Value)
}

// Production is an ordered sequence of symbols. An empty production derives
// the empty string.
type Production []Symbol

// Grammar is a compiled, immutable context-free grammar: a start symbol and
// a production map. Alternatives for a nonterminal keep declaration order.
type Grammar struct {
	Name  string
	Start string
	Prods map[string][]Production

	// nonterminals in definition order: user rules first, synthetics after
	names []string
}

// Nonterminals returns all nonterminal names in definition order.
func (g *Grammar) Nonterminals() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// IsSynthetic reports whether a nonterminal name was introduced by lowering
// (groups, classes, repetitions) rather than written by the grammar author.
// Synthetic nodes are invisible to label search.
func IsSynthetic(name string) bool {
	return strings.HasPrefix(name, "-")
}

// ---------------------------------------------------------------------------
// Compilation: rule source -> validated plain-data grammar
// ---------------------------------------------------------------------------

// Compile parses and validates grammar rule source text, then lowers it to a
// plain-data production map. The returned grammar is ready for Parse.
func Compile(name, src string) (*Grammar, error) {
	p := NewParser(src)
	rules := p.ParseRules()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, &MalformedError{Name: name, Reasons: errs}
	}
	return compileRules(name, rules)
}

// MustCompile is like Compile but panics on error. Intended for built-in
// grammar definitions known to be valid.
func MustCompile(name, src string) *Grammar {
	g, err := Compile(name, src)
	if err != nil {
		panic(err)
	}
	return g
}

func compileRules(name string, rules []*Rule) (*Grammar, error) {
	if err := validateRules(name, rules); err != nil {
		return nil, err
	}

	lo := &lowerer{prods: make(map[string][]Production)}
	for _, rule := range rules {
		lo.names = append(lo.names, rule.Name)
		lo.prods[rule.Name] = nil
	}
	for _, rule := range rules {
		switch body := rule.Body.(type) {
		case *Alt:
			for _, alt := range body.Clauses {
				lo.prods[rule.Name] = append(lo.prods[rule.Name], lo.convert(alt))
			}
		default:
			lo.prods[rule.Name] = append(lo.prods[rule.Name], lo.convert(rule.Body))
		}
	}

	return &Grammar{
		Name:  name,
		Start: StartSymbol,
		Prods: lo.prods,
		names: lo.names,
	}, nil
}

// validateRules performs construction-time checks. Any violation is fatal.
func validateRules(name string, rules []*Rule) error {
	var reasons []string

	defined := make(map[string]*Rule)
	for _, rule := range rules {
		if _, ok := defined[rule.Name]; ok {
			reasons = append(reasons, fmt.Sprintf("rule %s is defined more than once", rule.Name))
			continue
		}
		defined[rule.Name] = rule
	}

	if _, ok := defined[StartSymbol]; !ok {
		reasons = append(reasons, "missing start rule")
	}

	used := make(map[string]bool)
	var checkClause func(c Clause)
	checkClause = func(c Clause) {
		switch c := c.(type) {
		case *Ref:
			if c.Name == StartSymbol {
				reasons = append(reasons, "referencing the start rule is not allowed; introduce a new rule instead")
				return
			}
			if _, ok := defined[c.Name]; !ok {
				reasons = append(reasons, fmt.Sprintf("undefined rule: %s", c.Name))
				return
			}
			used[c.Name] = true
		case *Rep:
			if c.Min == 0 && c.Max == 0 {
				reasons = append(reasons, "repetition {0} is not allowed; use the empty clause \"\" instead")
			}
			checkClause(c.Clause)
		case *Seq:
			for _, cc := range c.Clauses {
				checkClause(cc)
			}
		case *Alt:
			for _, cc := range c.Clauses {
				checkClause(cc)
			}
		}
	}
	for _, rule := range rules {
		checkClause(rule.Body)
	}

	for _, rule := range rules {
		if rule.Name != StartSymbol && !used[rule.Name] {
			reasons = append(reasons, fmt.Sprintf("rule %s is defined but never used", rule.Name))
		}
	}

	if len(reasons) > 0 {
		return &MalformedError{Name: name, Reasons: reasons}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Lowering: EBNF clauses -> plain productions with synthetic nonterminals
// ---------------------------------------------------------------------------

type lowerer struct {
	prods   map[string][]Production
	names   []string
	counter int
}

func (lo *lowerer) fresh() string {
	name := fmt.Sprintf("-%d", lo.counter)
	lo.counter++
	lo.names = append(lo.names, name)
	return name
}

// convert lowers a clause to a symbol sequence, introducing synthetic
// nonterminals for classes, nested alternations, and repetitions.
func (lo *lowerer) convert(c Clause) Production {
	switch c := c.(type) {
	case *Literal:
		if c.Text == "" {
			return Production{} // epsilon
		}
		return Production{Terminal(c.Text)}

	case *Ref:
		return Production{Nonterminal(c.Name)}

	case *Class:
		name := lo.fresh()
		for _, ch := range c.Chars {
			lo.prods[name] = append(lo.prods[name], Production{Terminal(string(ch))})
		}
		return Production{Nonterminal(name)}

	case *Seq:
		var out Production
		for _, cc := range c.Clauses {
			out = append(out, lo.convert(cc)...)
		}
		return out

	case *Alt:
		name := lo.fresh()
		for _, cc := range c.Clauses {
			lo.prods[name] = append(lo.prods[name], lo.convert(cc))
		}
		return Production{Nonterminal(name)}

	case *Rep:
		return lo.convertRep(c)

	default:
		panic(fmt.Sprintf("grammar: unknown clause type %T", c))
	}
}

func (lo *lowerer) convertRep(c *Rep) Production {
	elem := lo.convert(c.Clause)

	if c.Max >= 0 { // finite repetition: one production per count
		name := lo.fresh()
		for k := c.Min; k <= c.Max; k++ {
			lo.prods[name] = append(lo.prods[name], repeat(elem, k))
		}
		return Production{Nonterminal(name)}
	}

	// Unbounded repetition: required prefix followed by a right-recursive
	// optional tail.
	if c.Min == 0 {
		name := lo.fresh()
		lo.prods[name] = []Production{
			{},
			append(cloneProduction(elem), Nonterminal(name)),
		}
		return Production{Nonterminal(name)}
	}

	tail := lo.fresh()
	lo.prods[tail] = []Production{
		{},
		append(cloneProduction(elem), Nonterminal(tail)),
	}
	name := lo.fresh()
	lo.prods[name] = []Production{
		append(repeat(elem, c.Min), Nonterminal(tail)),
	}
	return Production{Nonterminal(name)}
}

func repeat(p Production, k int) Production {
	var out Production
	for i := 0; i < k; i++ {
		out = append(out, p...)
	}
	return out
}

func cloneProduction(p Production) Production {
	out := make(Production, len(p))
	copy(out, p)
	return out
}

// ---------------------------------------------------------------------------
// Occurrence analysis
// ---------------------------------------------------------------------------

// Count reports how many times the target nonterminal can occur in a
// derivation of from: 0 if never, 1 if exactly once on every derivation,
// 2 if possibly more than once or undetermined. With direct set, only the
// visible direct children are considered (synthetic nodes are transparent).
func (g *Grammar) Count(target, from string, direct bool) int {
	return g.countNT(target, from, direct, make(map[string]bool))
}

func (g *Grammar) countNT(target, from string, direct bool, visiting map[string]bool) int {
	if !g.reaches(target, from, direct, make(map[string]bool)) {
		return 0
	}
	// The target does occur under from, so a cyclic re-derivation (a lowered
	// repetition, or author-written recursion) makes the count depend on the
	// derivation taken.
	if visiting[from] {
		return 2
	}
	visiting[from] = true
	defer delete(visiting, from)

	result := -1
	for _, prod := range g.Prods[from] {
		n := 0
		for _, sym := range prod {
			n = addCount(n, g.countSymbol(target, sym, direct, visiting))
		}
		if result == -1 {
			result = n
		} else if result != n {
			result = 2
		}
	}
	if result == -1 {
		return 0
	}
	return result
}

func (g *Grammar) countSymbol(target string, sym Symbol, direct bool, visiting map[string]bool) int {
	if !sym.NT {
		return 0
	}
	if sym.Value == target {
		n := 1
		if !direct {
			n = addCount(n, g.countNT(target, sym.Value, direct, visiting))
		}
		return n
	}
	// Synthetic nodes are transparent: descend even in direct mode.
	if !direct || IsSynthetic(sym.Value) {
		return g.countNT(target, sym.Value, direct, visiting)
	}
	return 0
}

// reaches reports whether target can occur at all in a derivation of from.
// In direct mode only occurrences visible as direct children count, so the
// search descends through synthetic nonterminals only.
func (g *Grammar) reaches(target, from string, direct bool, visited map[string]bool) bool {
	if visited[from] {
		return false
	}
	visited[from] = true
	for _, prod := range g.Prods[from] {
		for _, sym := range prod {
			if !sym.NT {
				continue
			}
			if sym.Value == target {
				return true
			}
			if (!direct || IsSynthetic(sym.Value)) && g.reaches(target, sym.Value, direct, visited) {
				return true
			}
		}
	}
	return false
}

// addCount saturates at 2.
func addCount(a, b int) int {
	if a+b > 2 {
		return 2
	}
	return a + b
}

// ---------------------------------------------------------------------------
// Composition
// ---------------------------------------------------------------------------

// Union composes grammars into a new grammar accepting any member string of
// any operand language. Every operand nonterminal is namespaced with its
// owning grammar's name, so same-named rules never collide.
func Union(name string, operands ...*Grammar) (*Grammar, error) {
	return compose(name, "union", operands)
}

// Concat composes grammars into a new grammar accepting the concatenation of
// one member string per operand, in order. Nonterminals are namespaced as in
// Union.
func Concat(name string, operands ...*Grammar) (*Grammar, error) {
	return compose(name, "concat", operands)
}

func compose(name, op string, operands []*Grammar) (*Grammar, error) {
	if len(operands) == 0 {
		return nil, &MalformedError{Name: name, Reasons: []string{"composition needs at least one operand"}}
	}
	seen := make(map[string]bool)
	for _, g := range operands {
		if seen[g.Name] {
			return nil, &MalformedError{Name: name, Reasons: []string{
				fmt.Sprintf("operand name %s appears more than once", g.Name)}}
		}
		seen[g.Name] = true
	}

	out := &Grammar{
		Name:  name,
		Start: StartSymbol,
		Prods: make(map[string][]Production),
		names: []string{StartSymbol},
	}

	for _, g := range operands {
		for _, nt := range g.names {
			renamed := namespace(g.Name, nt)
			out.names = append(out.names, renamed)
			for _, prod := range g.Prods[nt] {
				re := make(Production, len(prod))
				for i, sym := range prod {
					if sym.NT {
						re[i] = Nonterminal(namespace(g.Name, sym.Value))
					} else {
						re[i] = sym
					}
				}
				out.Prods[renamed] = append(out.Prods[renamed], re)
			}
		}
	}

	switch op {
	case "union":
		for _, g := range operands {
			out.Prods[StartSymbol] = append(out.Prods[StartSymbol],
				Production{Nonterminal(namespace(g.Name, g.Start))})
		}
	case "concat":
		var seq Production
		for _, g := range operands {
			seq = append(seq, Nonterminal(namespace(g.Name, g.Start)))
		}
		out.Prods[StartSymbol] = []Production{seq}
	}

	return out, nil
}

// namespace renames a nonterminal with its owning grammar's identifier,
// keeping synthetic names recognizable as synthetic.
func namespace(owner, nt string) string {
	if IsSynthetic(nt) {
		return "-" + owner + "." + strings.TrimPrefix(nt, "-")
	}
	return owner + "." + nt
}
