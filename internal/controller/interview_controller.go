package controller

import (
	"adultna_backend/internal/model"
	"adultna_backend/internal/repository"
	"adultna_backend/internal/service"
	"adultna_backend/internal/util"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
)

type InterviewController struct {
	Service *service.InterviewService
	Storage *service.StorageService
	Answers *repository.AnswerRepository
}

func NewInterviewController(svc *service.InterviewService, storage *service.StorageService, answers *repository.AnswerRepository) *InterviewController {
	return &InterviewController{Service: svc, Storage: storage, Answers: answers}
}

func (c *InterviewController) respond(ctx *gin.Context, view *service.SessionView, err error) {
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrSessionNotOwned):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrSessionNotActive), errors.Is(err, util.ErrNoQuestionsInBank):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, view)
}

// @Summary Start a mock interview
// @Tags interview
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.StartSessionRequest true "session options"
// @Success 201 {object} util.Response
// @Router /api/interviews [post]
func (c *InterviewController) StartSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Service.StartSession(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		c.respond(ctx, nil, err)
		return
	}
	util.Created(ctx, view)
}

// @Summary List my interview sessions
// @Tags interview
// @Produce json
// @Security BearerAuth
// @Param page query int false "page"
// @Param limit query int false "limit"
// @Success 200 {object} util.Response
// @Router /api/interviews [get]
func (c *InterviewController) ListSessions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	sessions, total, err := c.Service.ListSessions(user.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  sessions,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary Current session state
// @Tags interview
// @Produce json
// @Security BearerAuth
// @Param id path string true "session ID"
// @Success 200 {object} util.Response
// @Router /api/interviews/{id} [get]
func (c *InterviewController) GetSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	view, err := c.Service.View(ctx.Request.Context(), ctx.Param("id"), user.UserID)
	c.respond(ctx, view, err)
}

// @Summary Next question
// @Description Flushes the current draft, then advances if a next question exists.
// @Tags interview
// @Produce json
// @Security BearerAuth
// @Param id path string true "session ID"
// @Success 200 {object} util.Response
// @Router /api/interviews/{id}/next [post]
func (c *InterviewController) Next(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	view, err := c.Service.Next(ctx.Request.Context(), ctx.Param("id"), user.UserID)
	c.respond(ctx, view, err)
}

// @Summary Previous question
// @Tags interview
// @Produce json
// @Security BearerAuth
// @Param id path string true "session ID"
// @Success 200 {object} util.Response
// @Router /api/interviews/{id}/previous [post]
func (c *InterviewController) Previous(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	view, err := c.Service.Previous(ctx.Request.Context(), ctx.Param("id"), user.UserID)
	c.respond(ctx, view, err)
}

// @Summary Skip the current question
// @Description Advances without saving the in-progress answer.
// @Tags interview
// @Produce json
// @Security BearerAuth
// @Param id path string true "session ID"
// @Success 200 {object} util.Response
// @Router /api/interviews/{id}/skip [post]
func (c *InterviewController) Skip(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	view, err := c.Service.Skip(ctx.Request.Context(), ctx.Param("id"), user.UserID)
	c.respond(ctx, view, err)
}

type GotoRequest struct {
	Index int `json:"index"`
}

// @Summary Jump to a question by index
// @Tags interview
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "session ID"
// @Param body body GotoRequest true "target index"
// @Success 200 {object} util.Response
// @Router /api/interviews/{id}/goto [post]
func (c *InterviewController) GoToQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	var req GotoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Service.GoToQuestion(ctx.Request.Context(), ctx.Param("id"), user.UserID, req.Index)
	c.respond(ctx, view, err)
}

type AnswerRequest struct {
	Text string `json:"text"`
}

// @Summary Update the in-progress answer
// @Description Updates only the in-memory buffer; nothing is persisted until save.
// @Tags interview
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "session ID"
// @Param body body AnswerRequest true "answer text"
// @Success 200 {object} util.Response
// @Router /api/interviews/{id}/answer [put]
func (c *InterviewController) SetAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.SetAnswer(ctx.Request.Context(), ctx.Param("id"), user.UserID, req.Text); err != nil {
		c.respond(ctx, nil, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Save the current answer as a draft
// @Tags interview
// @Produce json
// @Security BearerAuth
// @Param id path string true "session ID"
// @Success 200 {object} util.Response
// @Router /api/interviews/{id}/answer/save [post]
func (c *InterviewController) SaveAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	view, err := c.Service.SaveAnswer(ctx.Request.Context(), ctx.Param("id"), user.UserID)
	c.respond(ctx, view, err)
}

// @Summary Submit the current answer for grading
// @Description Best-effort: an empty gradeId means the submission was skipped or failed; navigation is never blocked.
// @Tags interview
// @Produce json
// @Security BearerAuth
// @Param id path string true "session ID"
// @Success 200 {object} util.Response
// @Router /api/interviews/{id}/answer/submit [post]
func (c *InterviewController) SubmitAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	gradeID, err := c.Service.SubmitAnswer(ctx.Request.Context(), ctx.Param("id"), user.UserID)
	if err != nil {
		c.respond(ctx, nil, err)
		return
	}
	util.Success(ctx, gin.H{"gradeId": gradeID})
}

// @Summary Complete the interview
// @Tags interview
// @Produce json
// @Security BearerAuth
// @Param id path string true "session ID"
// @Success 200 {object} util.Response
// @Router /api/interviews/{id}/complete [post]
func (c *InterviewController) Complete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if err := c.Service.Complete(ctx.Request.Context(), ctx.Param("id"), user.UserID); err != nil {
		c.respond(ctx, nil, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Abandon the interview
// @Tags interview
// @Produce json
// @Security BearerAuth
// @Param id path string true "session ID"
// @Success 200 {object} util.Response
// @Router /api/interviews/{id}/abandon [post]
func (c *InterviewController) Abandon(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if err := c.Service.Abandon(ctx.Request.Context(), ctx.Param("id"), user.UserID); err != nil {
		c.respond(ctx, nil, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary Graded answers for a session
// @Tags interview
// @Produce json
// @Security BearerAuth
// @Param id path string true "session ID"
// @Success 200 {object} util.Response
// @Router /api/interviews/{id}/answers [get]
func (c *InterviewController) ListGradedAnswers(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	answers, err := c.Service.ListGradedAnswers(ctx.Request.Context(), ctx.Param("id"), user.UserID)
	if err != nil {
		c.respond(ctx, nil, err)
		return
	}
	util.Success(ctx, answers)
}

// @Summary Upload an interview recording
// @Tags interview
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "session ID"
// @Param file formData file true "audio or video recording"
// @Success 201 {object} util.Response
// @Router /api/interviews/{id}/recordings [post]
func (c *InterviewController) UploadRecording(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	sessionID := ctx.Param("id")

	// Ownership check rides on the view lookup.
	if _, err := c.Service.View(ctx.Request.Context(), sessionID, user.UserID); err != nil {
		c.respond(ctx, nil, err)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	mimeType, err := util.ValidateRecording(fileHeader.Size, src)
	src.Close()
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// Stage to a temp file so ffprobe can read the container metadata.
	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("recording-%s-%s", sessionID, fileHeader.Filename))
	if err := ctx.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpPath)

	info, err := util.ProbeRecording(tmpPath)
	if err != nil {
		util.BadRequest(ctx, "unreadable recording")
		return
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	objectName := fmt.Sprintf("recordings/%s/%s", sessionID, fileHeader.Filename)
	url, err := c.Storage.Upload(ctx.Request.Context(), objectName, f, info.Size, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	rec := &model.InterviewRecording{
		SessionID: sessionID,
		UserID:    user.UserID,
		FileURL:   url,
		Duration:  info.Duration,
		Format:    info.Format,
		Size:      info.Size,
	}
	if err := c.Answers.CreateRecording(rec); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, rec)
}

// @Summary Recordings for a session
// @Tags interview
// @Produce json
// @Security BearerAuth
// @Param id path string true "session ID"
// @Success 200 {object} util.Response
// @Router /api/interviews/{id}/recordings [get]
func (c *InterviewController) ListRecordings(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	sessionID := ctx.Param("id")

	if _, err := c.Service.View(ctx.Request.Context(), sessionID, user.UserID); err != nil {
		c.respond(ctx, nil, err)
		return
	}

	recs, err := c.Answers.ListRecordings(sessionID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, recs)
}
