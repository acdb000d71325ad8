package fuzz

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langcheck/langcheck/contract"
	"github.com/langcheck/langcheck/grammar"
)

func echoContract(name string) *contract.Contract {
	return &contract.Contract{
		Name:   name,
		Fn:     func(args []string) (string, error) { return args[0], nil },
		Params: []*contract.LanguageType{contract.HostType},
		Return: contract.HostType,
	}
}

func TestRunBudgetAccounting(t *testing.T) {
	report, err := Run(echoContract("echo"), Options{Budget: 50, Seed: 1})
	require.NoError(t, err)

	assert.Len(t, report.Trials, 50)
	assert.Equal(t, 50, report.Budget)
	assert.Zero(t, report.Shortfall)
	assert.Equal(t, 50, report.Counts().Total())
	for i, trial := range report.Trials {
		assert.Equal(t, i, trial.Index)
		assert.Len(t, trial.Inputs, 1)
	}
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "echo", report.Contract)
}

func TestRunRejectsBadBudget(t *testing.T) {
	_, err := Run(echoContract("echo"), Options{Budget: 0})
	assert.Error(t, err)
	_, err = Run(echoContract("echo"), Options{Budget: -5})
	assert.Error(t, err)
}

func TestRunSeedReproducible(t *testing.T) {
	first, err := Run(echoContract("echo"), Options{Budget: 25, Seed: 99})
	require.NoError(t, err)
	second, err := Run(echoContract("echo"), Options{Budget: 25, Seed: 99})
	require.NoError(t, err)

	// Run identity differs; the trial sequence does not.
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Trials, second.Trials)

	third, err := Run(echoContract("echo"), Options{Budget: 25, Seed: 100})
	require.NoError(t, err)
	assert.NotEqual(t, first.Trials, third.Trials)
}

func TestRunClassifiesOutcomes(t *testing.T) {
	c := echoContract("mixed")
	c.Pre = func(pc *contract.Context) (bool, error) {
		return len(pc.Args[0])%2 == 0, nil
	}

	report, err := Run(c, Options{Budget: 40, Seed: 3})
	require.NoError(t, err)

	counts := report.Counts()
	assert.Equal(t, 40, counts.Pass+counts.Rejected)
	assert.Positive(t, counts.Pass)
	assert.Positive(t, counts.Rejected)
	for _, trial := range report.Trials {
		if trial.Class == RejectedByPrecondition {
			assert.Contains(t, trial.Detail, "precondition")
		}
	}
}

func TestRunSurfacesPostconditionFailures(t *testing.T) {
	c := echoContract("always-wrong")
	c.Post = func(pc *contract.Context) (bool, error) { return false, nil }

	report, err := Run(c, Options{Budget: 10, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 10, report.Counts().Failed)
}

func TestRunClassifiesCrashes(t *testing.T) {
	c := echoContract("panicky")
	c.Fn = func(args []string) (string, error) { panic("boom") }

	report, err := Run(c, Options{Budget: 5, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, report.Counts().Crashed)
	assert.Contains(t, report.Trials[0].Detail, "panicked")
}

func TestRunTrialTimeout(t *testing.T) {
	c := echoContract("slow")
	c.Fn = func(args []string) (string, error) {
		time.Sleep(500 * time.Millisecond)
		return args[0], nil
	}

	report, err := Run(c, Options{Budget: 2, Seed: 1, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)
	require.Len(t, report.Trials, 2)
	for _, trial := range report.Trials {
		assert.Equal(t, Crash, trial.Class)
		assert.Contains(t, trial.Detail, "timed out")
	}
}

// stubGenerator serves canned values, then fails.
type stubGenerator struct {
	values []string
	err    error
	calls  int
}

func (s *stubGenerator) Generate(ctx context.Context, g *grammar.Grammar, start string) (string, error) {
	if s.calls < len(s.values) {
		s.calls++
		return s.values[s.calls-1], nil
	}
	return "", s.err
}

func TestRunShortfallOnExhaustion(t *testing.T) {
	gen := &stubGenerator{
		values: []string{"a.example.com", "b.example.com", "c.example.com"},
		err:    fmt.Errorf("%w: tiny language", ErrExhausted),
	}

	report, err := Run(echoContract("echo"), Options{Budget: 10, Seed: 1, Generator: gen})
	require.NoError(t, err)

	assert.Len(t, report.Trials, 3)
	assert.Equal(t, 7, report.Shortfall)
	assert.Equal(t, 3, report.Counts().Pass)
	assert.False(t, report.TotalFailure())
}

func TestRunTotalGeneratorFailure(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("solver unreachable")}

	report, err := Run(echoContract("echo"), Options{Budget: 4, Seed: 1, Generator: gen})
	require.NoError(t, err)

	// Non-exhaustion generator errors are per-trial outcomes: the budget is
	// still spent and the emptiness is explicit.
	assert.Len(t, report.Trials, 4)
	assert.Equal(t, 4, report.Counts().GeneratorErrors)
	assert.True(t, report.TotalFailure())
	assert.Contains(t, report.Summary(), "4 generator errors")
}

func TestRunConstraintSampling(t *testing.T) {
	// The generated values must satisfy the type's semantic constraints,
	// not just its grammar.
	long := contract.NewType("LongHost", grammar.Host, func(v string) bool {
		return len(v) >= 2
	})
	c := &contract.Contract{
		Name:   "constrained",
		Fn:     func(args []string) (string, error) { return args[0], nil },
		Params: []*contract.LanguageType{long},
	}

	report, err := Run(c, Options{Budget: 20, Seed: 5})
	require.NoError(t, err)
	for _, trial := range report.Trials {
		if trial.Class == Pass {
			assert.GreaterOrEqual(t, len(trial.Inputs[0]), 2)
		}
	}
}

func TestRunImpossibleConstraint(t *testing.T) {
	never := contract.NewType("Never", grammar.Host, func(v string) bool { return false })
	c := &contract.Contract{
		Name:   "impossible",
		Fn:     func(args []string) (string, error) { return args[0], nil },
		Params: []*contract.LanguageType{never},
	}

	report, err := Run(c, Options{Budget: 3, Seed: 1, ConstraintAttempts: 5})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Counts().GeneratorErrors)
	assert.Contains(t, strings.ToLower(report.Trials[0].Detail), "constraint")
}
