package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"
)

// InterviewHandler serves the candidate-facing routes. The link token is the
// only credential.
type InterviewHandler struct {
	interviewUC domain.InterviewUsecase
}

func NewInterviewHandler(public *gin.RouterGroup, interviewUC domain.InterviewUsecase, uploadLimit gin.HandlerFunc) {
	handler := &InterviewHandler{interviewUC: interviewUC}

	interview := public.Group("/interview/:token")
	{
		interview.GET("", handler.Open)
		interview.POST("/start", handler.Start)
		interview.POST("/answers", uploadLimit, handler.SubmitAnswer)
		interview.POST("/cheating-logs", uploadLimit, handler.LogCheating)
		interview.POST("/complete", handler.Complete)
	}
}

// OpenInterview godoc
// @Summary      Open interview
// @Description  Validates the link and returns the session with its questions
// @Tags         interview
// @Produce      json
// @Param        token  path      string  true  "Interview token"
// @Success      200    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Failure      410    {object}  response.Response
// @Router       /interview/{token} [get]
func (h *InterviewHandler) Open(c *gin.Context) {
	view, err := h.interviewUC.Open(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview", view)
}

// StartInterview godoc
// @Summary      Start interview
// @Tags         interview
// @Produce      json
// @Param        token  path      string  true  "Interview token"
// @Success      200    {object}  response.Response
// @Failure      410    {object}  response.Response
// @Router       /interview/{token}/start [post]
func (h *InterviewHandler) Start(c *gin.Context) {
	session, err := h.interviewUC.Start(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview started", session)
}

// SubmitAnswer godoc
// @Summary      Submit an answer
// @Description  Text in response_text, or a recording in "file"
// @Tags         interview
// @Accept       multipart/form-data
// @Produce      json
// @Param        token          path      string  true   "Interview token"
// @Param        question_id    formData  int     true   "Question ID"
// @Param        response_text  formData  string  false  "Answer text or code"
// @Param        file           formData  file    false  "Recording"
// @Success      201            {object}  response.Response
// @Failure      400            {object}  response.Response
// @Failure      404            {object}  response.Response
// @Failure      410            {object}  response.Response
// @Router       /interview/{token}/answers [post]
func (h *InterviewHandler) SubmitAnswer(c *gin.Context) {
	questionID, err := strconv.ParseInt(c.PostForm("question_id"), 10, 64)
	if err != nil || questionID <= 0 {
		c.Error(apperror.BadRequest("question_id is required"))
		return
	}

	in := domain.AnswerInput{
		QuestionID:   questionID,
		ResponseText: c.PostForm("response_text"),
	}
	file, closer, err := formFile(c, "file")
	if err != nil {
		c.Error(err)
		return
	}
	if file != nil {
		defer closer.Close()
		in.File = file
	}

	answer, err := h.interviewUC.SubmitAnswer(c.Request.Context(), c.Param("token"), in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Answer saved", answer)
}

// LogCheating godoc
// @Summary      Report a proctoring event
// @Description  Optional webcam snapshot in "snapshot"; it is downscaled before storage
// @Tags         interview
// @Accept       multipart/form-data
// @Produce      json
// @Param        token       path      string  true   "Interview token"
// @Param        event_type  formData  string  true   "Event type, e.g. tab_switch"
// @Param        details     formData  string  false  "Details"
// @Param        snapshot    formData  file    false  "Snapshot image"
// @Success      201         {object}  response.Response
// @Failure      400         {object}  response.Response
// @Failure      410         {object}  response.Response
// @Router       /interview/{token}/cheating-logs [post]
func (h *InterviewHandler) LogCheating(c *gin.Context) {
	in := domain.CheatingEventInput{
		EventType: c.PostForm("event_type"),
		Details:   c.PostForm("details"),
	}
	snapshot, closer, err := formFile(c, "snapshot")
	if err != nil {
		c.Error(err)
		return
	}
	if snapshot != nil {
		defer closer.Close()
		in.Snapshot = snapshot
	}

	entry, err := h.interviewUC.LogCheatingEvent(c.Request.Context(), c.Param("token"), in)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Event logged", entry)
}

// CompleteInterview godoc
// @Summary      Complete interview
// @Description  Marks the session completed and the link used
// @Tags         interview
// @Produce      json
// @Param        token  path      string  true  "Interview token"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      410    {object}  response.Response
// @Router       /interview/{token}/complete [post]
func (h *InterviewHandler) Complete(c *gin.Context) {
	session, err := h.interviewUC.Complete(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Interview completed", session)
}
