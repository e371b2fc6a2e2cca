package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/auth"
)

const authCookie = "auth_token"

// HRAuth accepts a bearer token or the auth_token cookie issued at login and
// stores the HR user's id, username and role on the request.
func HRAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string
		if header := c.GetHeader("Authorization"); header != "" {
			tokenString = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		} else if cookie, err := c.Cookie(authCookie); err == nil {
			tokenString = cookie
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header or auth_token cookie required", nil)
			c.Abort()
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid claims", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), userID)
		c.Set(string(domain.KeyUsername), claims.Username)
		c.Set(string(domain.KeyUserRole), claims.Role)

		ctx := context.WithValue(c.Request.Context(), domain.KeyUserID, userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
