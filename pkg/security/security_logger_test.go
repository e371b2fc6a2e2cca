package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskEmail("jane@example.com"))
	assert.Equal(t, "***", MaskEmail("ab"))
	assert.Equal(t, "***@x.io", MaskEmail("a@x.io"))
}

func TestLogMasksSubjectAndDerivesLevel(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	sl := newSecurityLogger(zap.New(core), "svc", "test")

	sl.LogLoginFailed(context.Background(), "jane@example.com", "10.0.0.1", "ua", "req-1", "invalid_credentials")
	sl.LogInvalidToken(context.Background(), "tok-123", "10.0.0.1", "req-2", "expired")
	sl.LogLoginBlocked(context.Background(), "hr_admin", "10.0.0.1", "ua", "req-3")

	entries := logs.AllUntimed()
	if assert.Len(t, entries, 3) {
		first := entries[0].ContextMap()
		assert.Equal(t, "j***@example.com", first["subject_value"])
		assert.Equal(t, "WARN", first["severity"])

		second := entries[1].ContextMap()
		assert.Equal(t, HashValue("tok-123"), second["subject_value"])

		assert.Equal(t, zap.ErrorLevel, entries[2].Level)
		assert.Equal(t, "username", entries[2].ContextMap()["subject_type"])
	}
}
