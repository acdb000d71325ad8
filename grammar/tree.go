package grammar

import (
	"errors"
	"strings"
)

// ---------------------------------------------------------------------------
// Derivation trees
// ---------------------------------------------------------------------------

// ErrAmbiguousLabel reports that a label search matched more than one node
// where a unique node was required. It is distinct from absence, which the
// find helpers signal with a nil tree and nil error.
var ErrAmbiguousLabel = errors.New("label matches more than one node")

// Tree is a derivation tree node: either a leaf holding terminal text, or an
// internal node labeled with a nonterminal name owning an ordered sequence
// of children. Trees are read-only after construction.
type Tree struct {
	Label    string // nonterminal name; empty for leaves
	Term     string // terminal text; meaningful only for leaves
	Children []*Tree
}

// Leaf creates a terminal leaf node.
func Leaf(text string) *Tree {
	return &Tree{Term: text}
}

// IsLeaf reports whether the node is a terminal leaf.
func (t *Tree) IsLeaf() bool {
	return t.Label == ""
}

// Text reconstructs the derived string: depth-first, left-to-right
// concatenation of leaf texts. Round-trips with the string that produced
// the tree.
func (t *Tree) Text() string {
	if t.IsLeaf() {
		return t.Term
	}
	var sb strings.Builder
	t.appendText(&sb)
	return sb.String()
}

func (t *Tree) appendText(sb *strings.Builder) {
	if t.IsLeaf() {
		sb.WriteString(t.Term)
		return
	}
	for _, c := range t.Children {
		c.appendText(sb)
	}
}

// ChildrenLabeled returns the direct children labeled with the given
// nonterminal, leftmost first. Synthetic nodes are transparent: their
// children are searched in their place.
func (t *Tree) ChildrenLabeled(label string) []*Tree {
	var out []*Tree
	for _, c := range t.Children {
		if c.IsLeaf() {
			continue
		}
		if IsSynthetic(c.Label) {
			out = append(out, c.ChildrenLabeled(label)...)
			continue
		}
		if c.Label == label {
			out = append(out, c)
		}
	}
	return out
}

// DescendantsLabeled returns every node in the subtree (the receiver
// included) labeled with the given nonterminal, in depth-first leftmost
// order.
func (t *Tree) DescendantsLabeled(label string) []*Tree {
	var out []*Tree
	t.walk(func(n *Tree) {
		if n.Label == label {
			out = append(out, n)
		}
	})
	return out
}

func (t *Tree) walk(visit func(*Tree)) {
	visit(t)
	for _, c := range t.Children {
		c.walk(visit)
	}
}

// FindChild returns the unique direct child with the given label. Absence
// returns (nil, nil); more than one match returns ErrAmbiguousLabel.
func (t *Tree) FindChild(label string) (*Tree, error) {
	return unique(t.ChildrenLabeled(label))
}

// FindDescendant returns the unique descendant with the given label, with
// the same absence/ambiguity behavior as FindChild.
func (t *Tree) FindDescendant(label string) (*Tree, error) {
	return unique(t.DescendantsLabeled(label))
}

func unique(nodes []*Tree) (*Tree, error) {
	switch len(nodes) {
	case 0:
		return nil, nil
	case 1:
		return nodes[0], nil
	default:
		return nil, ErrAmbiguousLabel
	}
}
