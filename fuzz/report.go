package fuzz

import (
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// Reports
// ---------------------------------------------------------------------------

// Class classifies one fuzz trial.
type Class int

const (
	// Pass: the call machine reached RESULT.
	Pass Class = iota
	// RejectedByPrecondition: a grammar-valid input the precondition vetoed.
	RejectedByPrecondition
	// PostconditionFailure: the return value failed its type or the
	// postcondition; a functional bug surfaced by the trial.
	PostconditionFailure
	// Crash: an error or panic escaped the call, or the trial timed out.
	Crash
	// GeneratorError: the external generator failed for this trial.
	GeneratorError
)

var classNames = map[Class]string{
	Pass:                   "pass",
	RejectedByPrecondition: "rejected-by-precondition",
	PostconditionFailure:   "postcondition-failure",
	Crash:                  "crash",
	GeneratorError:         "generator-error",
}

func (c Class) String() string { return classNames[c] }

// Trial records one generate-invoke-check cycle.
type Trial struct {
	Index  int      `cbor:"1,keyasint" json:"index"`
	Inputs []string `cbor:"2,keyasint" json:"inputs"`
	Class  Class    `cbor:"3,keyasint" json:"class"`
	Detail string   `cbor:"4,keyasint" json:"detail,omitempty"`
}

// Counts partitions a report's trials by class.
type Counts struct {
	Pass            int `cbor:"1,keyasint" json:"pass"`
	Rejected        int `cbor:"2,keyasint" json:"rejected"`
	Failed          int `cbor:"3,keyasint" json:"failed"`
	Crashed         int `cbor:"4,keyasint" json:"crashed"`
	GeneratorErrors int `cbor:"5,keyasint" json:"generator_errors"`
}

// Total sums all classes.
func (c Counts) Total() int {
	return c.Pass + c.Rejected + c.Failed + c.Crashed + c.GeneratorErrors
}

// Report is the sole externally consumable artifact of a fuzz run: ordered
// per-trial outcomes plus run identity. Accumulation order equals generation
// order, so reports are reproducible for a fixed seed.
type Report struct {
	RunID    string `cbor:"1,keyasint" json:"run_id"`
	Contract string `cbor:"2,keyasint" json:"contract"`
	Seed     int64  `cbor:"3,keyasint" json:"seed"`
	Budget   int    `cbor:"4,keyasint" json:"budget"`
	// Shortfall is the number of requested trials the generator could not
	// supply inputs for. Recorded, never silently dropped.
	Shortfall int       `cbor:"5,keyasint" json:"shortfall"`
	Started   time.Time `cbor:"6,keyasint" json:"started"`
	Trials    []Trial   `cbor:"7,keyasint" json:"trials"`
}

// Counts partitions the trials by class.
func (r *Report) Counts() Counts {
	var c Counts
	for _, t := range r.Trials {
		switch t.Class {
		case Pass:
			c.Pass++
		case RejectedByPrecondition:
			c.Rejected++
		case PostconditionFailure:
			c.Failed++
		case Crash:
			c.Crashed++
		case GeneratorError:
			c.GeneratorErrors++
		}
	}
	return c
}

// TotalFailure reports whether every recorded trial was a generator error:
// the run produced no information about the contract and says so explicitly
// rather than looking vacuously successful.
func (r *Report) TotalFailure() bool {
	return len(r.Trials) > 0 && r.Counts().GeneratorErrors == len(r.Trials)
}

// Summary renders a one-line human-readable account of the run.
func (r *Report) Summary() string {
	c := r.Counts()
	return fmt.Sprintf("%s: %d trials (%d pass, %d rejected, %d failed, %d crashed, %d generator errors, shortfall %d)",
		r.Contract, len(r.Trials), c.Pass, c.Rejected, c.Failed, c.Crashed, c.GeneratorErrors, r.Shortfall)
}
