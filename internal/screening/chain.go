// Package screening turns resume text and a job description into candidate
// metadata and interview questions. Every output is produced by an ordered
// fallback chain whose first stages call the AI completion service and whose
// last stage is deterministic and always succeeds.
package screening

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotApplicable is returned by a stage whose trigger condition does not
// hold for the given input. The chain moves on without treating it as a
// failure worth logging loudly.
var ErrNotApplicable = errors.New("stage not applicable")

// Stage is one tier of a fallback chain.
type Stage[In, Out any] struct {
	Name string
	Run  func(ctx context.Context, in In) (Out, error)
}

// Outcome describes which stage produced the result and why earlier stages
// were skipped.
type Outcome struct {
	Stage   string
	Skipped []string
}

// Reason joins the skip reasons of earlier stages, empty when the first stage
// answered.
func (o Outcome) Reason() string {
	return strings.Join(o.Skipped, "; ")
}

// Chain runs its stages in order and returns the first successful output.
type Chain[In, Out any] []Stage[In, Out]

func (c Chain[In, Out]) Run(ctx context.Context, in In) (Out, Outcome, error) {
	var out Out
	var outcome Outcome
	for _, st := range c {
		res, err := st.Run(ctx, in)
		if err == nil {
			outcome.Stage = st.Name
			return res, outcome, nil
		}
		outcome.Skipped = append(outcome.Skipped, fmt.Sprintf("%s: %v", st.Name, err))
	}
	return out, outcome, fmt.Errorf("screening: every stage failed (%s)", outcome.Reason())
}
