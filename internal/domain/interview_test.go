package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInterviewLinkIsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name      string
		expiresAt time.Time
		used      bool
		want      bool
	}{
		{"future unused", now.Add(time.Hour), false, false},
		{"future used", now.Add(time.Hour), true, true},
		{"past unused", now.Add(-time.Hour), false, true},
		{"past used", now.Add(-time.Hour), true, true},
		{"exactly at expiry", now, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := &InterviewLink{ExpiresAt: tc.expiresAt, IsUsed: tc.used}
			assert.Equal(t, tc.want, l.IsExpired(now))
		})
	}
}

func TestSessionStatusIsTerminal(t *testing.T) {
	assert.False(t, SessionNotAttempted.IsTerminal())
	assert.False(t, SessionInProgress.IsTerminal())
	assert.True(t, SessionCompleted.IsTerminal())
	assert.True(t, SessionExpired.IsTerminal())
}
