package contract

// ---------------------------------------------------------------------------
// Call machine: PRECHECK -> ARGS_OK -> CALL -> POSTCHECK -> RESULT
// ---------------------------------------------------------------------------

// Stage identifies how far a checked call progressed.
type Stage int

const (
	StagePrecheck Stage = iota
	StageArgsOK
	StageCall
	StagePostcheck
	StageResult
)

var stageNames = map[Stage]string{
	StagePrecheck:  "PRECHECK",
	StageArgsOK:    "ARGS_OK",
	StageCall:      "CALL",
	StagePostcheck: "POSTCHECK",
	StageResult:    "RESULT",
}

func (s Stage) String() string { return stageNames[s] }

// Verdict classifies the outcome of a checked call.
type Verdict int

const (
	// Accepted: the call reached RESULT; the value passed through unchanged.
	Accepted Verdict = iota
	// Rejected: an argument failed its type check or the precondition; a
	// caller error, the callable was never invoked.
	Rejected
	// Failed: the return value failed its type check or the postcondition;
	// a functional bug in the callable.
	Failed
	// Crashed: the callable returned an error or panicked.
	Crashed
)

var verdictNames = map[Verdict]string{
	Accepted: "accepted",
	Rejected: "rejected",
	Failed:   "failed",
	Crashed:  "crashed",
}

func (v Verdict) String() string { return verdictNames[v] }

// Result is the structured outcome of one checked call: the stage reached,
// the classification, the return value when the call happened, and the
// diagnosis. Rejections and failures are always reported, never swallowed.
type Result struct {
	Contract string
	Stage    Stage
	Verdict  Verdict
	Value    string
	Err      error
}

// Ok reports whether the call was accepted.
func (r *Result) Ok() bool { return r.Verdict == Accepted }

// CheckCall runs the full call machine: each argument is parsed against its
// declared type, the precondition is evaluated, the callable is invoked with
// the original argument values unchanged, and the return value is checked
// against the return type and postcondition.
func CheckCall(c *Contract, args []string) *Result {
	return run(c, args, false)
}

// Exercise runs the machine starting at CALL: argument grammar checks are
// skipped (the driver guarantees grammar-valid inputs) but the precondition
// still runs, since predicates may reject grammar-valid values.
func Exercise(c *Contract, args []string) *Result {
	return run(c, args, true)
}

func run(c *Contract, args []string, skipParse bool) *Result {
	res := &Result{Contract: c.Name, Stage: StagePrecheck}

	// PRECHECK: arity, then argument grammar membership.
	if len(args) != len(c.Params) {
		res.Verdict = Rejected
		res.Err = &ArityError{Contract: c.Name, Want: len(c.Params), Got: len(args)}
		return res
	}
	if !skipParse {
		for i, t := range c.Params {
			if !t.Member(args[i]) {
				res.Verdict = Rejected
				res.Err = &TypeMismatchError{Type: t.Name, Value: args[i], Pos: i}
				return res
			}
		}
	}

	// Precondition over parsed arguments.
	if c.Pre != nil {
		pc := &Context{Args: args}
		ok, err := c.Pre(pc)
		if err != nil {
			res.Verdict = Rejected
			res.Err = &PredicateError{Kind: "precondition", Err: err}
			return res
		}
		if !ok {
			res.Verdict = Rejected
			res.Err = &PredicateError{Kind: "precondition"}
			return res
		}
	}
	res.Stage = StageArgsOK

	// CALL: original argument values, exactly as supplied. Panics are
	// recovered and classified, never propagated.
	res.Stage = StageCall
	value, err := invoke(c, args)
	if err != nil {
		res.Verdict = Crashed
		res.Err = err
		return res
	}
	res.Value = value

	// POSTCHECK: return type membership, then postcondition.
	res.Stage = StagePostcheck
	if c.Return != nil && !c.Return.Member(value) {
		res.Verdict = Failed
		res.Err = &TypeMismatchError{Type: c.Return.Name, Value: value, Pos: -1}
		return res
	}
	if c.Post != nil {
		pc := &Context{Args: args, Result: value}
		ok, err := c.Post(pc)
		if err != nil {
			res.Verdict = Failed
			res.Err = &PredicateError{Kind: "postcondition", Err: err}
			return res
		}
		if !ok {
			res.Verdict = Failed
			res.Err = &PredicateError{Kind: "postcondition"}
			return res
		}
	}

	res.Stage = StageResult
	res.Verdict = Accepted
	return res
}

func invoke(c *Contract, args []string) (value string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &CallPanicError{Contract: c.Name, Value: r}
		}
	}()
	return c.Fn(args)
}
