package selector

import (
	"fmt"

	"github.com/langcheck/langcheck/grammar"
)

// ---------------------------------------------------------------------------
// Evaluation
// ---------------------------------------------------------------------------

// NoMatchError reports that no node satisfies a path.
type NoMatchError struct {
	Query string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no node matches path %s", e.Query)
}

// AmbiguousError reports that more than one node satisfies the final step of
// a path where a unique node was required.
type AmbiguousError struct {
	Query string
	Label string
	Count int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("path %s is ambiguous: %d nodes labeled %s match", e.Query, e.Count, e.Label)
}

// EvaluateAll returns every node matching the path against the tree, in
// depth-first leftmost order. Steps evaluate left to right; each step
// consumes the previous step's result set as its search scope.
func EvaluateAll(path *Path, tree *grammar.Tree) []*grammar.Tree {
	scope := []*grammar.Tree{tree}
	for _, step := range path.Steps {
		if len(scope) == 0 {
			return nil
		}
		var next []*grammar.Tree
		for _, node := range scope {
			switch s := step.(type) {
			case Direct:
				next = append(next, node.ChildrenLabeled(s.Label)...)
			case DirectAt:
				candidates := node.ChildrenLabeled(s.Label)
				if len(candidates) >= s.K {
					next = append(next, candidates[s.K-1])
				}
			case Descendant:
				next = append(next, node.DescendantsLabeled(s.Label)...)
			}
		}
		scope = next
	}
	return scope
}

// Evaluate returns the unique node matching the path against the tree. Zero
// matches yield a NoMatchError; more than one yields an AmbiguousError. The
// engine never assumes grammar-level uniqueness: ambiguity is decided per
// tree at evaluation time.
func Evaluate(path *Path, tree *grammar.Tree) (*grammar.Tree, error) {
	nodes := EvaluateAll(path, tree)
	last := path.Steps[len(path.Steps)-1]
	switch len(nodes) {
	case 0:
		return nil, &NoMatchError{Query: path.Source}
	case 1:
		return nodes[0], nil
	default:
		return nil, &AmbiguousError{Query: path.Source, Label: last.Name(), Count: len(nodes)}
	}
}

// Select parses value under the grammar and returns the substring derived by
// the unique node matching the path.
func Select(g *grammar.Grammar, path *Path, value string) (string, error) {
	tree, err := g.Parse(value)
	if err != nil {
		return "", err
	}
	node, err := Evaluate(path, tree)
	if err != nil {
		return "", err
	}
	return node.Text(), nil
}

// SelectAll parses value under the grammar and returns the substrings of all
// matching nodes. An unparsable value selects nothing.
func SelectAll(g *grammar.Grammar, path *Path, value string) []string {
	tree, err := g.Parse(value)
	if err != nil {
		return nil
	}
	nodes := EvaluateAll(path, tree)
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Text()
	}
	return out
}

// SelectKth is like Select but returns the k-th matching substring (1-based)
// instead of requiring uniqueness.
func SelectKth(g *grammar.Grammar, path *Path, value string, k int) (string, error) {
	all := SelectAll(g, path, value)
	if k < 1 || k > len(all) {
		return "", &NoMatchError{Query: path.Source}
	}
	return all[k-1], nil
}

// ---------------------------------------------------------------------------
// Static vetting
// ---------------------------------------------------------------------------

// Vet checks a path against a grammar using occurrence analysis. It returns
// an error when some step's name can never occur in its scope, and a warning
// string when a step may match more than once for some member string (a
// uniqueness obligation the grammar author carries; evaluation still decides
// per tree). An empty warning means every step is statically unique.
func Vet(path *Path, g *grammar.Grammar) (warning string, err error) {
	scope := g.Start
	for _, step := range path.Steps {
		direct := true
		if _, ok := step.(Descendant); ok {
			direct = false
		}
		switch g.Count(step.Name(), scope, direct) {
		case 0:
			return "", fmt.Errorf("path %s: %s never occurs in %s", path.Source, step.Name(), scope)
		case 2:
			if _, ok := step.(DirectAt); !ok {
				warning = fmt.Sprintf("path %s: %s may occur more than once in %s", path.Source, step.Name(), scope)
			}
		}
		scope = step.Name()
	}
	return warning, nil
}
