package plan

import (
	"context"
	"errors"
	"slices"
)

// Chooser picks which object of a mandatory cycle to place first. The
// candidates are sorted and never empty.
type Chooser interface {
	Choose(ctx context.Context, candidates []string) (string, error)
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(ctx context.Context, candidates []string) (string, error)

// Choose calls f.
func (f ChooserFunc) Choose(ctx context.Context, candidates []string) (string, error) {
	return f(ctx, candidates)
}

// ErrNoCandidates is returned by choosers given nothing to choose from.
var ErrNoCandidates = errors.New("no cycle candidates")

// Automatic picks the first anchor among the candidates, and otherwise the
// lexicographically smallest candidate. It never blocks.
type Automatic struct {
	Anchors []string
}

// Choose implements Chooser.
func (a Automatic) Choose(_ context.Context, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoCandidates
	}

	for _, anchor := range a.Anchors {
		if slices.Contains(candidates, anchor) {
			return anchor, nil
		}
	}

	return slices.Min(candidates), nil
}

// Scripted replays a fixed sequence of choices. It is meant for tests and
// for replaying an earlier interactive session.
type Scripted struct {
	Choices []string
	next    int
}

// Choose implements Chooser.
func (s *Scripted) Choose(_ context.Context, _ []string) (string, error) {
	if s.next >= len(s.Choices) {
		return "", errors.New("scripted choices exhausted")
	}

	c := s.Choices[s.next]
	s.next++

	return c, nil
}
