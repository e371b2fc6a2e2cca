package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-interview-backend/internal/domain"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an id (the caller's X-Request-ID when it
// looks sane) and copies the id, client IP and user agent into the request
// context for usecases and security logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(string(domain.KeyRequestID), id)
		c.Header(requestIDHeader, id)

		ctx := context.WithValue(c.Request.Context(), domain.KeyRequestID, id)
		ctx = context.WithValue(ctx, domain.KeyClientIP, c.ClientIP())
		ctx = context.WithValue(ctx, domain.KeyUserAgent, c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
