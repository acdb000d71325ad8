package fuzz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/langcheck/langcheck/contract"
)

var log = commonlog.GetLogger("langcheck.fuzz")

// ---------------------------------------------------------------------------
// Driver
// ---------------------------------------------------------------------------

// Options configures a fuzz run.
type Options struct {
	// Budget is the number of trials to run. Required.
	Budget int
	// Seed drives the default generator; the same seed reproduces the same
	// report.
	Seed int64
	// Timeout bounds the wall clock of a single trial. Zero means no bound.
	// A timed-out trial is classified as a crash, not a run abort.
	Timeout time.Duration
	// Generator overrides the default seeded random generator.
	Generator Generator
	// ConstraintAttempts bounds rejection sampling against a parameter
	// type's semantic constraints. Defaults to 100 per input.
	ConstraintAttempts int
}

// Run executes a fuzz campaign against a contract: per trial, one
// grammar-conformant string is generated for each declared parameter type,
// the call machine runs starting at CALL (argument grammar checks skipped,
// precondition kept), and the outcome is classified. Trials are independent
// and accumulate in generation order under a single collector.
func Run(c *contract.Contract, opts Options) (*Report, error) {
	if opts.Budget <= 0 {
		return nil, fmt.Errorf("fuzz budget must be positive, got %d", opts.Budget)
	}
	gen := opts.Generator
	if gen == nil {
		gen = NewRandomGenerator(opts.Seed)
	}
	attempts := opts.ConstraintAttempts
	if attempts <= 0 {
		attempts = 100
	}

	report := &Report{
		RunID:    uuid.NewString(),
		Contract: c.Name,
		Seed:     opts.Seed,
		Budget:   opts.Budget,
		Started:  time.Now().UTC(),
	}
	log.Infof("fuzzing %s: budget %d, seed %d", c.Name, opts.Budget, opts.Seed)

	for i := 0; i < opts.Budget; i++ {
		trial, exhausted := runTrial(c, gen, opts.Timeout, attempts, i)
		if exhausted {
			report.Shortfall = opts.Budget - len(report.Trials)
			log.Errorf("fuzzing %s: generator exhausted after %d trials (shortfall %d)",
				c.Name, len(report.Trials), report.Shortfall)
			break
		}
		report.Trials = append(report.Trials, trial)
		if trial.Class != Pass {
			log.Infof("trial %d %s: %s", trial.Index, trial.Class, trial.Detail)
		}
	}

	log.Infof("%s", report.Summary())
	if report.TotalFailure() {
		log.Errorf("fuzzing %s: every trial was a generator error", c.Name)
	}
	return report, nil
}

// runTrial executes a single generate-invoke-check cycle. The second return
// value reports generator exhaustion, which ends the run with a shortfall.
func runTrial(c *contract.Contract, gen Generator, timeout time.Duration, attempts, index int) (Trial, bool) {
	trial := Trial{Index: index}

	ctx := context.Background()
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type outcome struct {
		trial     Trial
		exhausted bool
	}
	done := make(chan outcome, 1)
	go func() {
		t, exhausted := runTrialBody(ctx, c, gen, attempts, trial)
		done <- outcome{t, exhausted}
	}()

	if timeout > 0 {
		select {
		case out := <-done:
			return out.trial, out.exhausted
		case <-ctx.Done():
			trial.Class = Crash
			trial.Detail = fmt.Sprintf("trial timed out after %s", timeout)
			return trial, false
		}
	}
	out := <-done
	return out.trial, out.exhausted
}

func runTrialBody(ctx context.Context, c *contract.Contract, gen Generator, attempts int, trial Trial) (Trial, bool) {
	inputs := make([]string, len(c.Params))
	for pi, t := range c.Params {
		value, err := generateMember(ctx, gen, t, attempts)
		if err != nil {
			if errors.Is(err, ErrExhausted) {
				return trial, true
			}
			trial.Class = GeneratorError
			trial.Detail = err.Error()
			return trial, false
		}
		inputs[pi] = value
	}
	trial.Inputs = inputs

	res := contract.Exercise(c, inputs)
	switch res.Verdict {
	case contract.Accepted:
		trial.Class = Pass
	case contract.Rejected:
		trial.Class = RejectedByPrecondition
		trial.Detail = res.Err.Error()
	case contract.Failed:
		trial.Class = PostconditionFailure
		trial.Detail = res.Err.Error()
	case contract.Crashed:
		trial.Class = Crash
		trial.Detail = res.Err.Error()
	}
	return trial, false
}

// generateMember asks the generator for a string and rejection-samples it
// against the type's semantic constraints.
func generateMember(ctx context.Context, gen Generator, t *contract.LanguageType, attempts int) (string, error) {
	for a := 0; a < attempts; a++ {
		value, err := gen.Generate(ctx, t.Grammar, t.Grammar.Start)
		if err != nil {
			return "", err
		}
		ok := true
		for _, check := range t.Checks {
			if !check(value) {
				ok = false
				break
			}
		}
		if ok {
			return value, nil
		}
	}
	return "", fmt.Errorf("no value of %s satisfied its semantic constraints after %d attempts", t.Name, attempts)
}
