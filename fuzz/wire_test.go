package fuzz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	return &Report{
		RunID:    "7b0d4f1e-0000-0000-0000-000000000001",
		Contract: "hostname",
		Seed:     42,
		Budget:   3,
		Started:  time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Trials: []Trial{
			{Index: 0, Inputs: []string{"http://a.b"}, Class: Pass},
			{Index: 1, Inputs: []string{"http://c"}, Class: PostconditionFailure, Detail: "postcondition violated"},
			{Index: 2, Inputs: []string{"http://d.e/f"}, Class: Crash, Detail: "call panicked"},
		},
	}
}

func TestReportWireRoundTrip(t *testing.T) {
	r := sampleReport()

	data, err := MarshalReport(r)
	require.NoError(t, err)

	back, err := UnmarshalReport(data)
	require.NoError(t, err)
	assert.Equal(t, r.RunID, back.RunID)
	assert.Equal(t, r.Contract, back.Contract)
	assert.Equal(t, r.Seed, back.Seed)
	assert.Equal(t, r.Budget, back.Budget)
	assert.Equal(t, r.Trials, back.Trials)
	assert.True(t, r.Started.Equal(back.Started))
}

func TestReportWireDeterministic(t *testing.T) {
	// Canonical encoding: identical reports encode to identical bytes.
	a, err := MarshalReport(sampleReport())
	require.NoError(t, err)
	b, err := MarshalReport(sampleReport())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestUnmarshalReportRejectsGarbage(t *testing.T) {
	_, err := UnmarshalReport([]byte("not cbor at all"))
	assert.Error(t, err)
}

func TestReportCounts(t *testing.T) {
	r := sampleReport()
	counts := r.Counts()
	assert.Equal(t, 1, counts.Pass)
	assert.Equal(t, 1, counts.Failed)
	assert.Equal(t, 1, counts.Crashed)
	assert.Equal(t, 3, counts.Total())
	assert.False(t, r.TotalFailure())

	empty := &Report{}
	assert.False(t, empty.TotalFailure())
}
