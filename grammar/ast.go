package grammar

// ---------------------------------------------------------------------------
// AST: clause tree for grammar rule definitions
// ---------------------------------------------------------------------------

// Clause is the interface implemented by all clause nodes.
type Clause interface {
	Span() Span
	clause() // marker method
}

// Literal is a terminal string literal. An empty literal denotes epsilon.
type Literal struct {
	SpanVal Span
	Text    string
}

func (c *Literal) Span() Span { return c.SpanVal }
func (c *Literal) clause()    {}

// Ref is a reference to another rule by name.
type Ref struct {
	SpanVal Span
	Name    string
}

func (c *Ref) Span() Span { return c.SpanVal }
func (c *Ref) clause()    {}

// Class is a character class; Chars holds the expanded set of single
// characters, in declaration order.
type Class struct {
	SpanVal Span
	Chars   []rune
}

func (c *Class) Span() Span { return c.SpanVal }
func (c *Class) clause()    {}

// Seq is a sequence of clauses matched in order.
type Seq struct {
	SpanVal Span
	Clauses []Clause
}

func (c *Seq) Span() Span { return c.SpanVal }
func (c *Seq) clause()    {}

// Alt is an ordered choice of alternative clauses.
type Alt struct {
	SpanVal Span
	Clauses []Clause
}

func (c *Alt) Span() Span { return c.SpanVal }
func (c *Alt) clause()    {}

// Rep repeats a clause between Min and Max times. Max < 0 means unbounded.
type Rep struct {
	SpanVal Span
	Clause  Clause
	Min     int
	Max     int
}

func (c *Rep) Span() Span { return c.SpanVal }
func (c *Rep) clause()    {}

// Rule is a single named rule definition.
type Rule struct {
	SpanVal Span
	Name    string
	Body    Clause
}

func (r *Rule) Span() Span { return r.SpanVal }
