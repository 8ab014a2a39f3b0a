package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// legalEdges is the authoritative lifecycle table; the closure test below
// verifies every pair outside it is rejected.
var legalEdges = map[FindingStatus][]FindingStatus{
	StatusPending:   {StatusApproved, StatusRejected},
	StatusApproved:  {StatusSubmitted},
	StatusSubmitted: {StatusPaid},
}

func TestTransitionClosure(t *testing.T) {
	for _, from := range Statuses {
		for _, to := range Statuses {
			legal := false
			for _, target := range legalEdges[from] {
				if target == to {
					legal = true
				}
			}
			assert.Equal(t, legal, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusPaid.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusApproved.Terminal())
	assert.False(t, StatusSubmitted.Terminal())
}

func TestValidTargets(t *testing.T) {
	assert.ElementsMatch(t, []FindingStatus{StatusApproved, StatusRejected}, StatusPending.ValidTargets())
	assert.Empty(t, StatusPaid.ValidTargets())
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("pending")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, st)

	// "confirmed" existed in an earlier schema; the enumeration is closed
	_, err = ParseStatus("confirmed")
	assert.Error(t, err)
}
