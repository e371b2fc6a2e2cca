package v1

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/domain"
)

type ReviewHandler struct {
	reviewUC domain.ReviewUsecase
}

func NewReviewHandler(protected *gin.RouterGroup, reviewUC domain.ReviewUsecase) {
	handler := &ReviewHandler{reviewUC: reviewUC}

	protected.GET("/candidates/:id/detail", handler.CandidateDetail)
	protected.GET("/jobs/:id/ranking", handler.Ranking)
	protected.GET("/jobs/:id/ranking/export", handler.ExportRanking)
}

// CandidateDetail godoc
// @Summary      Candidate detail
// @Description  Resume text and metadata, questions with answers, evaluation, cheating logs and email history
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id}/detail [get]
// @Security     BearerAuth
func (h *ReviewHandler) CandidateDetail(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	detail, err := h.reviewUC.GetCandidateDetail(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate detail", detail)
}

// Ranking godoc
// @Summary      Job ranking
// @Description  Evaluated candidates ordered by overall score, ranked from 1
// @Tags         ranking
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id}/ranking [get]
// @Security     BearerAuth
func (h *ReviewHandler) Ranking(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	ranking, err := h.reviewUC.GetRanking(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Ranking", ranking)
}

// ExportRanking godoc
// @Summary      Export job ranking
// @Tags         ranking
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        id      path      int     true   "Job ID"
// @Param        format  query     string  false  "xlsx (default) or csv"
// @Success      200
// @Failure      400     {object}  response.Response
// @Failure      404     {object}  response.Response
// @Router       /jobs/{id}/ranking/export [get]
// @Security     BearerAuth
func (h *ReviewHandler) ExportRanking(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	format := strings.ToLower(c.Query("format"))

	data, contentType, err := h.reviewUC.ExportRanking(c.Request.Context(), id, format)
	if err != nil {
		c.Error(err)
		return
	}
	if format == "" {
		format = "xlsx"
	}
	response.File(c, fmt.Sprintf("ranking_job_%d.%s", id, format), contentType, data)
}
