package v1

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
)

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
}

func NewCandidateHandler(protected *gin.RouterGroup, candidateUC domain.CandidateUsecase, uploadLimit gin.HandlerFunc) {
	handler := &CandidateHandler{candidateUC: candidateUC}

	protected.POST("/jobs/:id/candidates", uploadLimit, handler.Upload)
}

// UploadCandidates godoc
// @Summary      Add candidates to a job
// @Description  Either a candidate sheet in "file" (.csv or .xlsx, flexible headers) or a single candidate from name, email, resume_url and an optional "resume" document. Every created candidate is screened in the background.
// @Tags         candidates
// @Accept       multipart/form-data
// @Produce      json
// @Param        id          path      int     true   "Job ID"
// @Param        file        formData  file    false  "Candidate sheet"
// @Param        name        formData  string  false  "Candidate name"
// @Param        email       formData  string  false  "Candidate email"
// @Param        resume_url  formData  string  false  "Resume link"
// @Param        resume      formData  file    false  "Resume document"
// @Success      201         {object}  response.Response
// @Failure      400         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Failure      409         {object}  response.Response
// @Router       /jobs/{id}/candidates [post]
// @Security     BearerAuth
func (h *CandidateHandler) Upload(c *gin.Context) {
	jobID, err := pathID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}

	sheet, closer, err := formFile(c, "file")
	if err != nil {
		c.Error(err)
		return
	}
	if sheet != nil {
		defer closer.Close()
		if !isSheet(sheet.Filename) {
			c.Error(apperror.BadRequest("Invalid file format. Upload a .csv or .xlsx file"))
			return
		}
		result, err := h.candidateUC.BulkUpload(c.Request.Context(), jobID, *sheet)
		if err != nil {
			c.Error(err)
			return
		}
		response.Success(c, http.StatusCreated, "Candidates processed", result)
		return
	}

	in := domain.ManualCandidateInput{
		Name:      c.PostForm("name"),
		Email:     c.PostForm("email"),
		ResumeURL: c.PostForm("resume_url"),
	}
	resume, closer, err := formFile(c, "resume")
	if err != nil {
		c.Error(err)
		return
	}
	if resume != nil {
		defer closer.Close()
		in.File = resume
	}

	candidate, err := h.candidateUC.AddCandidate(c.Request.Context(), jobID, in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Candidate added", candidate)
}

func isSheet(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}
