// Package fuzz drives language-directed fuzz testing: grammar-conformant
// random inputs are generated, fed through a contract's call machine, and
// the classified outcomes are accumulated into a report.
package fuzz

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"

	"github.com/langcheck/langcheck/grammar"
)

// ---------------------------------------------------------------------------
// Generator: the external solver/fuzzer service boundary
// ---------------------------------------------------------------------------

// ErrExhausted reports that a generator cannot produce any (further) member
// string for a grammar. The driver records the shortfall instead of padding
// the report.
var ErrExhausted = errors.New("generator exhausted")

// Generator produces grammar-conformant random strings. Implementations are
// treated as opaque, potentially slow, potentially failing services: any
// error degrades to a reported trial outcome, never a run abort.
type Generator interface {
	Generate(ctx context.Context, g *grammar.Grammar, start string) (string, error)
}

// ---------------------------------------------------------------------------
// RandomGenerator: default in-process implementation
// ---------------------------------------------------------------------------

// RandomGenerator derives random member strings by expanding productions
// with a seeded source. Deterministic for a fixed seed. Beyond the depth
// budget, expansion is steered toward the cheapest terminating production of
// each nonterminal.
type RandomGenerator struct {
	mu       sync.Mutex
	rng      *rand.Rand
	maxDepth int

	costs map[*grammar.Grammar]map[string]int // per grammar: nonterminal -> min derivation depth
}

// NewRandomGenerator creates a generator with the given seed and a default
// depth budget.
func NewRandomGenerator(seed int64) *RandomGenerator {
	return &RandomGenerator{
		rng:      rand.New(rand.NewSource(seed)),
		maxDepth: 16,
		costs:    make(map[*grammar.Grammar]map[string]int),
	}
}

// WithMaxDepth sets the expansion depth budget.
func (rg *RandomGenerator) WithMaxDepth(depth int) *RandomGenerator {
	rg.maxDepth = depth
	return rg
}

// Generate derives one random member string of the grammar from the given
// start symbol.
func (rg *RandomGenerator) Generate(ctx context.Context, g *grammar.Grammar, start string) (string, error) {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	costs := rg.grammarCosts(g)
	if costs[start] == infCost {
		return "", fmt.Errorf("%w: no terminating derivation for %s in %s", ErrExhausted, start, g.Name)
	}

	var sb strings.Builder
	if err := rg.expand(ctx, g, costs, start, 0, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (rg *RandomGenerator) expand(ctx context.Context, g *grammar.Grammar, costs map[string]int, nt string, depth int, sb *strings.Builder) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	prods := g.Prods[nt]
	var choice grammar.Production
	if depth >= rg.maxDepth {
		choice = cheapest(prods, costs)
	} else {
		// Only terminating productions are candidates.
		var candidates []grammar.Production
		for _, p := range prods {
			if productionCost(p, costs) < infCost {
				candidates = append(candidates, p)
			}
		}
		if len(candidates) == 0 {
			return fmt.Errorf("%w: no terminating derivation for %s in %s", ErrExhausted, nt, g.Name)
		}
		choice = candidates[rg.rng.Intn(len(candidates))]
	}

	for _, sym := range choice {
		if sym.NT {
			if err := rg.expand(ctx, g, costs, sym.Value, depth+1, sb); err != nil {
				return err
			}
			continue
		}
		sb.WriteString(sym.Value)
	}
	return nil
}

const infCost = math.MaxInt32

// grammarCosts computes, per nonterminal, the minimal derivation depth to a
// terminal-only expansion, by fixpoint. Nonterminals that never terminate
// keep infCost.
func (rg *RandomGenerator) grammarCosts(g *grammar.Grammar) map[string]int {
	if c, ok := rg.costs[g]; ok {
		return c
	}

	costs := make(map[string]int, len(g.Prods))
	for nt := range g.Prods {
		costs[nt] = infCost
	}
	for changed := true; changed; {
		changed = false
		for nt, prods := range g.Prods {
			for _, p := range prods {
				if c := productionCost(p, costs); c < infCost && c+1 < costs[nt] {
					costs[nt] = c + 1
					changed = true
				}
			}
		}
	}

	rg.costs[g] = costs
	return costs
}

// productionCost is the max cost over the production's nonterminals;
// terminal-only productions cost 0.
func productionCost(p grammar.Production, costs map[string]int) int {
	cost := 0
	for _, sym := range p {
		if !sym.NT {
			continue
		}
		c := costs[sym.Value]
		if c == infCost {
			return infCost
		}
		if c > cost {
			cost = c
		}
	}
	return cost
}

// cheapest picks the production with the lowest cost, declaration order
// breaking ties.
func cheapest(prods []grammar.Production, costs map[string]int) grammar.Production {
	best := prods[0]
	bestCost := productionCost(best, costs)
	for _, p := range prods[1:] {
		if c := productionCost(p, costs); c < bestCost {
			best, bestCost = p, c
		}
	}
	return best
}
