package controller

import (
	"college_chatbot_backend/internal/service"
	"college_chatbot_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type LogController struct {
	LogService     *service.LogService
	HistoryService *service.HistoryService
}

func NewLogController(logService *service.LogService, historyService *service.HistoryService) *LogController {
	return &LogController{
		LogService:     logService,
		HistoryService: historyService,
	}
}

// ListLogs godoc
// @Summary List chat logs
// @Tags logs
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/logs [get]
func (c *LogController) ListLogs(ctx *gin.Context) {
	logs, err := c.LogService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"logs": logs})
}

// AppendLog godoc
// @Summary Append a chat log entry
// @Description Entries containing boilerplate are not stored and come back with skipped set.
// @Tags logs
// @Accept json
// @Produce json
// @Param body body service.AppendLogRequest true "Exchange"
// @Success 200 {object} util.Response
// @Router /api/logs [post]
func (c *LogController) AppendLog(ctx *gin.Context) {
	var req service.AppendLogRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}
	if req.User == "" {
		req.User = "Guest"
	}

	skipped, err := c.LogService.Append(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if skipped {
		util.Success(ctx, gin.H{"skipped": true})
		return
	}
	util.Success(ctx, nil)
}

// ClearLogs godoc
// @Summary Clear the chat log
// @Tags logs
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/logs [delete]
func (c *LogController) ClearLogs(ctx *gin.Context) {
	if err := c.LogService.Clear(); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetHistory godoc
// @Summary Page through a user's chat history
// @Tags history
// @Produce json
// @Param user query string false "User" default(guest)
// @Param page query int false "Page" default(1)
// @Param size query int false "Page size" default(50)
// @Success 200 {object} util.Response
// @Router /api/history [get]
func (c *LogController) GetHistory(ctx *gin.Context) {
	user := ctx.DefaultQuery("user", "guest")
	page := util.ParseIntDefault(ctx.Query("page"), 1, 1)
	size := util.ParseIntDefault(ctx.Query("size"), util.DefaultHistoryPageSize, 1)

	items, total, page, size, err := c.HistoryService.Page(user, page, size)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"history": items,
		"page":    page,
		"size":    size,
		"total":   total,
	})
}

// AppendHistory godoc
// @Summary Append a history item
// @Tags history
// @Accept json
// @Produce json
// @Param body body service.AppendHistoryRequest true "History item"
// @Success 200 {object} util.Response
// @Router /api/history [post]
func (c *LogController) AppendHistory(ctx *gin.Context) {
	var req service.AppendHistoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}
	if req.User == "" {
		req.User = "guest"
	}

	skipped, err := c.HistoryService.Append(req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if skipped {
		util.Success(ctx, gin.H{"skipped": true})
		return
	}
	util.Success(ctx, nil)
}

type deleteHistoryRequest struct {
	User string `json:"user"`
	TS   string `json:"ts"`
}

// DeleteHistory godoc
// @Summary Delete one history item or a user's whole history
// @Tags history
// @Accept json
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/history [delete]
func (c *LogController) DeleteHistory(ctx *gin.Context) {
	var req deleteHistoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		req.User = ctx.Query("user")
		req.TS = ctx.Query("ts")
	}
	if req.User == "" {
		util.BadRequest(ctx, "missing user")
		return
	}

	removed, err := c.HistoryService.Delete(req.User, req.TS)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"removed": removed})
}

type logRefRequest struct {
	ID    string `json:"id"`
	TS    string `json:"ts"`
	Reply string `json:"reply"`
}

func (r logRefRequest) ref() string {
	if r.ID != "" {
		return r.ID
	}
	return r.TS
}

// Reply godoc
// @Summary Answer a logged question as admin
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/reply [post]
func (c *LogController) Reply(ctx *gin.Context) {
	var req logRefRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.ref() == "" || req.Reply == "" {
		util.BadRequest(ctx, "missing parameters")
		return
	}
	claims := util.GetUserFromContext(ctx)

	if err := c.LogService.Reply(req.ref(), req.Reply, claims.Email); err != nil {
		c.logError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// DeleteLog godoc
// @Summary Delete one chat log entry
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/delete_log [post]
func (c *LogController) DeleteLog(ctx *gin.Context) {
	var req logRefRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.ref() == "" {
		util.BadRequest(ctx, "missing id")
		return
	}

	if err := c.LogService.Delete(req.ref()); err != nil {
		c.logError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// AdminHistory godoc
// @Summary Full chat log for the admin dashboard
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/history [get]
func (c *LogController) AdminHistory(ctx *gin.Context) {
	logs, err := c.LogService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"history": logs})
}

func (c *LogController) logError(ctx *gin.Context, err error) {
	if errors.Is(err, util.ErrLogNotFound) {
		util.Error(ctx, http.StatusNotFound, "not found")
		return
	}
	util.LogInternalError(ctx, err)
}
