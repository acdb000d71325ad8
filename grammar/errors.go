package grammar

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Error types
// ---------------------------------------------------------------------------

// MalformedError reports a grammar that failed construction-time validation.
// It is fatal: a malformed grammar never produces a working parser.
type MalformedError struct {
	Name    string
	Reasons []string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("grammar %s is malformed:\n  %s", e.Name, strings.Join(e.Reasons, "\n  "))
}

// ParseError reports that a string is not derivable from a grammar. This is
// the normal, recoverable signal for "not a member of this language".
type ParseError struct {
	Lang  string
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%q is not a valid %s", e.Input, e.Lang)
}
