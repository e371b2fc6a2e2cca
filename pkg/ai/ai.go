// Package ai wraps the text completion services used to extract resume
// metadata and generate interview questions.
package ai

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// ErrDisabled is returned by the disabled completer so callers fall through
// to their deterministic stages.
var ErrDisabled = errors.New("ai: completion service not configured")

// Completer sends one prompt and returns the raw model text. Implementations
// make a single attempt; retries are the caller's business.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	// Model names the backing model for provenance records.
	Model() string
	Enabled() bool
	Close() error
}

type disabled struct{}

// Disabled returns a Completer that always fails with ErrDisabled.
func Disabled() Completer { return disabled{} }

func (disabled) Complete(context.Context, string) (string, error) { return "", ErrDisabled }
func (disabled) Model() string                                     { return "" }
func (disabled) Enabled() bool                                     { return false }
func (disabled) Close() error                                      { return nil }

var fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\\n?(.*?)\\n?\\s*```$")

// StripFences removes a surrounding markdown code fence such as ```json ... ```.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

var innerFenceRe = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*\\n(.*?)\\n?\\s*```")

// ExtractJSON returns the JSON document of a completion. It tolerates a
// surrounding fence, prose around a fenced block, and prose around a bare
// object or array.
func ExtractJSON(s string) string {
	s = StripFences(s)
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s
	}
	if m := innerFenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return s
	}
	closer := "]"
	if s[start] == '{' {
		closer = "}"
	}
	end := strings.LastIndex(s, closer)
	if end < start {
		return s
	}
	return s[start : end+1]
}
