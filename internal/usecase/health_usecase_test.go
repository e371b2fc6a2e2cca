package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-interview-backend/internal/usecase"
)

func TestHealthCheck(t *testing.T) {
	ok := usecase.PingFunc(func(context.Context) error { return nil })
	down := usecase.PingFunc(func(context.Context) error { return errors.New("refused") })

	status, healthy := usecase.NewHealthUsecase(map[string]usecase.Pinger{"database": ok, "redis": nil}).Check(context.Background())
	assert.True(t, healthy)
	assert.Equal(t, map[string]string{"status": "ok", "database": "ok", "redis": "disabled"}, status)

	status, healthy = usecase.NewHealthUsecase(map[string]usecase.Pinger{"database": down}).Check(context.Background())
	assert.False(t, healthy)
	assert.Equal(t, "degraded", status["status"])
	assert.Equal(t, "unavailable", status["database"])
}
