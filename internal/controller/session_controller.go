package controller

import (
	"adultna_backend/internal/config"
	"adultna_backend/internal/idle"
	"adultna_backend/internal/repository"
	"adultna_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// SessionController exposes the idle-session lifecycle: state polling for the
// "still there?" dialog, the explicit keepalive, and logout.
type SessionController struct {
	Idle   *idle.Manager
	Tokens *repository.TokenRepository
	Cfg    *config.Config
}

func NewSessionController(idleMgr *idle.Manager, tokens *repository.TokenRepository, cfg *config.Config) *SessionController {
	return &SessionController{Idle: idleMgr, Tokens: tokens, Cfg: cfg}
}

// @Summary Idle-session state
// @Description Reports whether the login is active, in its warning window, or expired.
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/session/status [get]
func (c *SessionController) Status(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	state, ok := c.Idle.StateOf(claims.SessionID)
	if !ok {
		// Monitoring disabled, or the monitor predates a restart; treat the
		// authenticated request itself as proof of an active session.
		state = idle.StateActive
		c.Idle.Watch(claims.SessionID)
	}

	util.Success(ctx, gin.H{"state": state})
}

// @Summary Stay logged in
// @Description The explicit reset from the warning dialog; re-arms even an expired monitor.
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/session/keepalive [post]
func (c *SessionController) KeepAlive(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if !c.Idle.KeepAlive(claims.SessionID) {
		c.Idle.Watch(claims.SessionID)
	}

	state, _ := c.Idle.StateOf(claims.SessionID)
	util.Success(ctx, gin.H{"state": state})
}

// @Summary Log out
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/logout [post]
func (c *SessionController) Logout(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Tokens.Revoke(ctx.Request.Context(), claims.SessionID, c.Cfg.JWT.ExpireTime); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	c.Idle.Release(claims.SessionID)

	util.Success(ctx, nil)
}
