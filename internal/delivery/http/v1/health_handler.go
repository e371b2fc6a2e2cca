package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/usecase"
)

// Health godoc
// @Summary      Health check
// @Description  Reports the database and Redis connections
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /health [get]
func healthHandler(healthUC usecase.HealthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, healthy := healthUC.Check(c.Request.Context())
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	}
}
