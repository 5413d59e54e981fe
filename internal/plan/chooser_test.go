package plan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dataplan/internal/graph"
)

type graphEdge = graph.Edge

func edges(p *Plan) []graphEdge {
	return p.Broken
}

func TestAutomatic(t *testing.T) {
	ctx := context.Background()

	got, err := Automatic{Anchors: []string{"Contact", "Account"}}.Choose(ctx, []string{"Account", "Contact", "Zed__c"})
	require.NoError(t, err)
	assert.Equal(t, "Contact", got)

	got, err = Automatic{Anchors: []string{"Lead"}}.Choose(ctx, []string{"Beta__c", "Alpha__c"})
	require.NoError(t, err)
	assert.Equal(t, "Alpha__c", got)

	_, err = Automatic{}.Choose(ctx, nil)
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestScripted(t *testing.T) {
	s := &Scripted{Choices: []string{"A", "B"}}

	for _, want := range []string{"A", "B"} {
		got, err := s.Choose(context.Background(), []string{"A", "B"})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := s.Choose(context.Background(), []string{"A"})
	assert.Error(t, err)
}

func TestCyclicMembers(t *testing.T) {
	adj := map[string][]string{
		"A": {"B"},
		"B": {"C"},
		"C": {"A"},
		"D": {"A"},
		"E": {"F"},
		"F": {"E"},
		"G": nil,
	}

	got := cyclicMembers([]string{"A", "B", "C", "D", "E", "F", "G"}, adj)
	assert.Equal(t, []string{"A", "B", "C", "E", "F"}, got)
}

func TestCycleError(t *testing.T) {
	err := &CycleError{Remaining: []string{"A", "B"}}
	assert.Equal(t, "unresolvable dependency cycle among A, B", err.Error())
	assert.NoError(t, err.Unwrap())
}
