package plan

import (
	"fmt"
	"strings"
)

// CycleError reports that the cycle-break policy could not make progress.
// Remaining names the objects that were still unplaced, sorted.
type CycleError struct {
	Remaining []string
	Err       error
}

func (e *CycleError) Error() string {
	msg := "unresolvable dependency cycle among " + strings.Join(e.Remaining, ", ")
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *CycleError) Unwrap() error {
	return e.Err
}
