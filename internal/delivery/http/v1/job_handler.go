package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
)

type JobHandler struct {
	jobUC domain.JobUsecase
}

func NewJobHandler(protected *gin.RouterGroup, jobUC domain.JobUsecase) {
	handler := &JobHandler{jobUC: jobUC}

	jobs := protected.Group("/jobs")
	{
		jobs.GET("", handler.List)
		jobs.POST("", handler.Create)
		jobs.GET("/:id", handler.GetDetails)
		jobs.PUT("/:id", handler.Update)
		jobs.DELETE("/:id", handler.Delete)
		jobs.GET("/:id/status", handler.Status)
	}
}

// JobRequest creates or replaces a job. Omitted interview settings take the
// defaults shown in the HR form.
type JobRequest struct {
	Title               string `json:"title" binding:"required"`
	Description         string `json:"description" binding:"required"`
	RequiredSkills      string `json:"required_skills" binding:"required"`
	ExperienceLevel     string `json:"experience_level" binding:"required"`
	OralQuestionCount   *int   `json:"oral_question_count"`
	CodingQuestionCount *int   `json:"coding_question_count"`
	ThinkingTime        *int   `json:"thinking_time"`
	RecordingTime       *int   `json:"recording_time"`
	CodingTime          *int   `json:"coding_time"`
}

func (r JobRequest) toJob() *domain.Job {
	cfg := domain.DefaultSessionConfig()
	set := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cfg.OralQuestionCount, r.OralQuestionCount)
	set(&cfg.CodingQuestionCount, r.CodingQuestionCount)
	set(&cfg.ThinkingTime, r.ThinkingTime)
	set(&cfg.RecordingTime, r.RecordingTime)
	set(&cfg.CodingTime, r.CodingTime)

	return &domain.Job{
		Title:           r.Title,
		Description:     r.Description,
		RequiredSkills:  r.RequiredSkills,
		ExperienceLevel: r.ExperienceLevel,
		SessionConfig:   cfg,
	}
}

// CreateJob godoc
// @Summary      Create a job
// @Description  Create a job posting with its interview configuration
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        job  body      JobRequest  true  "Job JSON"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /jobs [post]
// @Security     BearerAuth
func (h *JobHandler) Create(c *gin.Context) {
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	job := req.toJob()
	if err := h.jobUC.CreateJob(c.Request.Context(), job); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Job created", job)
}

// ListJobs godoc
// @Summary      List jobs
// @Description  Jobs with candidate and completed interview counts, newest first
// @Tags         jobs
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  response.Response
// @Router       /jobs [get]
// @Security     BearerAuth
func (h *JobHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	jobs, total, err := h.jobUC.ListJobs(c.Request.Context(), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job list", gin.H{
		"jobs":      jobs,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetJobDetails godoc
// @Summary      Get job
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [get]
// @Security     BearerAuth
func (h *JobHandler) GetDetails(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	job, err := h.jobUC.GetJob(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job details", job)
}

// UpdateJob godoc
// @Summary      Update job
// @Description  Existing interview sessions keep the settings they were created with
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id   path      int         true  "Job ID"
// @Param        job  body      JobRequest  true  "Job JSON"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [put]
// @Security     BearerAuth
func (h *JobHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	job := req.toJob()
	job.ID = id
	if err := h.jobUC.UpdateJob(c.Request.Context(), job); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job updated", job)
}

// DeleteJob godoc
// @Summary      Delete job
// @Tags         jobs
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id} [delete]
// @Security     BearerAuth
func (h *JobHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.jobUC.DeleteJob(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Job deleted", nil)
}

// JobStatus godoc
// @Summary      Candidate status board
// @Description  Each candidate with its interview link (or "Generating...") and session status (or "Processing")
// @Tags         jobs
// @Produce      json
// @Param        id   path      int  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /jobs/{id}/status [get]
// @Security     BearerAuth
func (h *JobHandler) Status(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	board, err := h.jobUC.GetStatusBoard(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Candidate status", board)
}
