package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/domain"
)

type EmailLogHandler struct {
	notifier domain.Notifier
}

func NewEmailLogHandler(protected *gin.RouterGroup, notifier domain.Notifier) {
	handler := &EmailLogHandler{notifier: notifier}

	protected.POST("/email-logs/:id/retry", handler.Retry)
}

// RetryEmail godoc
// @Summary      Retry a failed invitation
// @Description  One more delivery attempt for a FAILED email log; retry_count is incremented
// @Tags         email
// @Produce      json
// @Param        id   path      int  true  "Email log ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /email-logs/{id}/retry [post]
// @Security     BearerAuth
func (h *EmailLogHandler) Retry(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	entry, err := h.notifier.RetryFailed(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Email retried", entry)
}
