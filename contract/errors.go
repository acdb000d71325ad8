package contract

import "fmt"

// ---------------------------------------------------------------------------
// Error types
// ---------------------------------------------------------------------------

// TypeMismatchError reports a value that failed its declared language type's
// grammar check. Pos is the zero-based argument position, or -1 for the
// return value.
type TypeMismatchError struct {
	Type  string
	Value string
	Pos   int
}

func (e *TypeMismatchError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("return value %q is not a valid %s", e.Value, e.Type)
	}
	return fmt.Sprintf("argument %d: %q is not a valid %s", e.Pos+1, e.Value, e.Type)
}

// ArityError reports a call whose argument count does not match the
// contract's declared parameters. A caller error, rejected before the
// callable is invoked.
type ArityError struct {
	Contract string
	Want     int
	Got      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s takes %d arguments, got %d", e.Contract, e.Want, e.Got)
}

// PredicateError reports a pre- or postcondition predicate that returned
// false or failed. This is a contract/logic condition, deliberately distinct
// from TypeMismatchError (a format condition) in reporting.
type PredicateError struct {
	Kind string // "precondition" or "postcondition"
	Err  error  // nil when the predicate simply returned false
}

func (e *PredicateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s violated", e.Kind)
}

func (e *PredicateError) Unwrap() error { return e.Err }

// CallPanicError reports a panic that escaped the wrapped callable. The
// evaluator recovers it and classifies the call instead of crashing.
type CallPanicError struct {
	Contract string
	Value    interface{}
}

func (e *CallPanicError) Error() string {
	return fmt.Sprintf("call to %s panicked: %v", e.Contract, e.Value)
}
