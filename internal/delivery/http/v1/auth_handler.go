package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
	secure bool
}

// NewAuthHandler registers POST /auth/login on public (behind loginLimit) and
// GET /auth/me on protected.
func NewAuthHandler(public, protected *gin.RouterGroup, authUC domain.AuthUsecase, loginLimit gin.HandlerFunc, secureCookie bool) {
	handler := &AuthHandler{authUC: authUC, secure: secureCookie}

	public.POST("/auth/login", loginLimit, handler.Login)
	protected.GET("/auth/me", handler.Me)
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary      HR login
// @Description  Authenticate with a username or email address and receive a session token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      LoginRequest  true  "Credentials"
// @Success      200          {object}  response.Response
// @Failure      400          {object}  response.Response
// @Failure      401          {object}  response.Response
// @Failure      429          {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Username and password are required"))
		return
	}

	result, err := h.authUC.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("auth_token", result.Token, int(time.Until(result.ExpiresAt).Seconds()), "/", "", h.secure, true)

	response.Success(c, http.StatusOK, "Login successful", result)
}

// Me godoc
// @Summary      Current HR user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetInt64(string(domain.KeyUserID))
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Current user", user)
}
