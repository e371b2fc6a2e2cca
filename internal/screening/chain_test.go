package screening

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainFallsThroughInOrder(t *testing.T) {
	var calls []string
	stage := func(name string, err error) Stage[int, string] {
		return Stage[int, string]{Name: name, Run: func(_ context.Context, in int) (string, error) {
			calls = append(calls, name)
			if err != nil {
				return "", err
			}
			return name, nil
		}}
	}
	c := Chain[int, string]{
		stage("first", errors.New("boom")),
		stage("second", ErrNotApplicable),
		stage("third", nil),
		stage("fourth", nil),
	}

	out, outcome, err := c.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "third", out)
	assert.Equal(t, "third", outcome.Stage)
	assert.Equal(t, []string{"first", "second", "third"}, calls)
	assert.Equal(t, "first: boom; second: stage not applicable", outcome.Reason())
}

func TestChainAllFail(t *testing.T) {
	c := Chain[int, int]{{Name: "only", Run: func(context.Context, int) (int, error) { return 0, errors.New("nope") }}}
	_, outcome, err := c.Run(context.Background(), 0)
	assert.Error(t, err)
	assert.Empty(t, outcome.Stage)
}
