package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n[{\"a\":1}]\n```": `[{"a":1}]`,
		"```\n{\"a\":1}\n```":       `{"a":1}`,
		"  [1,2]  ":                 "[1,2]",
		"```json [1] ```":           "[1]",
		"not json":                  "not json",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripFences(in), in)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct{ in, want string }{
		{"```json\n[{\"a\":1}]\n```", `[{"a":1}]`},
		{"Here are the questions:\n```json\n[{\"a\":1}]\n```\nGood luck", `[{"a":1}]`},
		{"Sure! [{\"q\":\"x\"}] Hope this helps.", `[{"q":"x"}]`},
		{"Result: {\"full_name\":\"Ada\"}.", `{"full_name":"Ada"}`},
		{"no json here", "no json here"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractJSON(tc.in), tc.in)
	}
}

func TestDisabled(t *testing.T) {
	c := Disabled()
	assert.False(t, c.Enabled())
	_, err := c.Complete(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrDisabled)
	assert.NoError(t, c.Close())
}
