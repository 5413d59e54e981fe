// Package prompt asks an operator which object to place first when the
// planner meets a mandatory reference cycle.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// ErrNoAnswer is returned when input ends before a valid choice.
var ErrNoAnswer = errors.New("no cycle-break choice given")

// Terminal reads choices line by line from In and writes prompts to Out.
// A blocked read is not interrupted by ctx; ctx is checked between attempts.
type Terminal struct {
	In  io.Reader
	Out io.Writer

	scanner *bufio.Scanner
}

// Choose lists the candidates and accepts either a number or a name.
// Invalid answers are reported and asked again.
func (t *Terminal) Choose(ctx context.Context, candidates []string) (string, error) {
	if t.scanner == nil {
		t.scanner = bufio.NewScanner(t.In)
	}

	fmt.Fprintln(t.Out, "These objects reference each other through required fields:")

	for i, c := range candidates {
		fmt.Fprintf(t.Out, "  %d) %s\n", i+1, c)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		fmt.Fprint(t.Out, "Load which object first? ")

		if !t.scanner.Scan() {
			if err := t.scanner.Err(); err != nil {
				return "", fmt.Errorf("failed to read choice: %w", err)
			}

			return "", ErrNoAnswer
		}

		answer := strings.TrimSpace(t.scanner.Text())
		if choice, ok := parse(answer, candidates); ok {
			return choice, nil
		}

		fmt.Fprintf(t.Out, "%q is not one of the listed objects.\n", answer)
	}
}

func parse(answer string, candidates []string) (string, bool) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(candidates) {
			return candidates[n-1], true
		}

		return "", false
	}

	if slices.Contains(candidates, answer) {
		return answer, true
	}

	for _, c := range candidates {
		if strings.EqualFold(c, answer) {
			return c, true
		}
	}

	return "", false
}
