package grammar

import "strings"

// ---------------------------------------------------------------------------
// Derivation: parse a string against a grammar, producing a derivation tree
// ---------------------------------------------------------------------------

// Parse derives input from the grammar's start symbol. On success it returns
// the derivation tree of the leftmost derivation, with ties broken by
// production declaration order (first applicable production wins, longer
// nonterminal matches tried first). On failure it returns a ParseError;
// invalid input is an expected outcome, never a panic.
//
// Parsing terminates on every finite input, left-recursive grammars
// included: the derivation state space is bounded by (nonterminal, span)
// pairs and cyclic re-derivations of the same span are cut off.
func (g *Grammar) Parse(input string) (*Tree, error) {
	d := &deriver{
		g:       g,
		input:   input,
		memo:    make(map[spanKey]*Tree),
		failed:  make(map[spanKey]bool),
		active:  make(map[spanKey]bool),
		seqFail: make(map[seqKey]bool),
	}
	tree := d.nonterminal(g.Start, 0, len(input))
	if tree == nil {
		return nil, &ParseError{Lang: g.Name, Input: input}
	}
	return tree, nil
}

// Accepts reports whether input is a member of the grammar's language.
func (g *Grammar) Accepts(input string) bool {
	_, err := g.Parse(input)
	return err == nil
}

type spanKey struct {
	nt   string
	i, j int
}

type seqKey struct {
	nt   string
	prod int
	sym  int
	i, j int
}

type deriver struct {
	g       *Grammar
	input   string
	memo    map[spanKey]*Tree
	failed  map[spanKey]bool
	active  map[spanKey]bool
	seqFail map[seqKey]bool

	// blocked is set when a derivation attempt was cut off by the cycle
	// guard. Failures observed while blocked are circumstantial and must
	// not be memoized.
	blocked bool
}

// nonterminal derives input[i:j] from the named nonterminal, returning its
// derivation tree or nil.
func (d *deriver) nonterminal(name string, i, j int) *Tree {
	key := spanKey{name, i, j}
	if t, ok := d.memo[key]; ok {
		return t
	}
	if d.failed[key] {
		return nil
	}
	if d.active[key] {
		d.blocked = true
		return nil
	}
	d.active[key] = true
	saved := d.blocked
	d.blocked = false

	var result *Tree
	for pi, prod := range d.g.Prods[name] {
		if children, ok := d.sequence(name, pi, prod, 0, i, j); ok {
			result = &Tree{Label: name, Children: children}
			break
		}
	}

	delete(d.active, key)
	if result != nil {
		d.memo[key] = result
		d.blocked = saved
		return result
	}
	if !d.blocked {
		d.failed[key] = true
	}
	d.blocked = saved || d.blocked
	return nil
}

// sequence derives input[i:j] from prod[si:], returning the child trees.
// Genuine failures are memoized per (nonterminal, production, symbol, span).
func (d *deriver) sequence(nt string, pi int, prod Production, si, i, j int) ([]*Tree, bool) {
	if si == len(prod) {
		if i == j {
			return []*Tree{}, true
		}
		return nil, false
	}

	key := seqKey{nt, pi, si, i, j}
	if d.seqFail[key] {
		return nil, false
	}
	saved := d.blocked
	d.blocked = false

	children, ok := d.deriveAt(nt, pi, prod, si, i, j)
	if !ok && !d.blocked {
		d.seqFail[key] = true
	}
	d.blocked = saved || d.blocked
	return children, ok
}

func (d *deriver) deriveAt(nt string, pi int, prod Production, si, i, j int) ([]*Tree, bool) {
	sym := prod[si]
	if !sym.NT {
		n := len(sym.Value)
		if i+n <= j && strings.HasPrefix(d.input[i:j], sym.Value) {
			if rest, ok := d.sequence(nt, pi, prod, si+1, i+n, j); ok {
				return append([]*Tree{Leaf(sym.Value)}, rest...), true
			}
		}
		return nil, false
	}

	// Greedy: try the longest span for the leading nonterminal first.
	for k := j; k >= i; k-- {
		sub := d.nonterminal(sym.Value, i, k)
		if sub == nil {
			continue
		}
		if rest, ok := d.sequence(nt, pi, prod, si+1, k, j); ok {
			return append([]*Tree{sub}, rest...), true
		}
	}
	return nil, false
}
