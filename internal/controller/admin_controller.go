package controller

import (
	"college_chatbot_backend/internal/service"
	"college_chatbot_backend/internal/util"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminController struct {
	AdminService   *service.AdminService
	SettingService *service.SettingService
	StorageService *service.StorageService
}

func NewAdminController(adminService *service.AdminService, settingService *service.SettingService, storageService *service.StorageService) *AdminController {
	return &AdminController{
		AdminService:   adminService,
		SettingService: settingService,
		StorageService: storageService,
	}
}

func parseID(n json.Number) (uint, bool) {
	id, err := strconv.ParseUint(n.String(), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// writeServiceError maps service errors onto status codes.
func writeServiceError(ctx *gin.Context, err error) {
	var missing *service.MissingFieldError
	var failed *service.ActionFailedError
	switch {
	case errors.As(err, &missing):
		util.BadRequest(ctx, missing.Message)
	case errors.As(err, &failed):
		util.BadRequest(ctx, failed.Error())
	case errors.Is(err, util.ErrUnknownTable):
		util.BadRequest(ctx, "unknown table")
	case errors.Is(err, util.ErrInvalidFileName):
		util.BadRequest(ctx, "invalid file name")
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrUserNotFound), errors.Is(err, util.ErrQueryNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		util.NotFound(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

// ListFAQs godoc
// @Summary List admin FAQs, newest first
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/admin_faqs [get]
func (c *AdminController) ListFAQs(ctx *gin.Context) {
	faqs, err := c.AdminService.ListFAQs(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"faqs": faqs})
}

type createFAQRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Keywords string `json:"keywords"`
}

// CreateFAQ godoc
// @Summary Add an admin FAQ
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response "missing parameters"
// @Router /api/admin/admin_faqs [post]
func (c *AdminController) CreateFAQ(ctx *gin.Context) {
	var req createFAQRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "missing parameters")
		return
	}
	faq, err := c.AdminService.CreateFAQ(req.Question, req.Answer, req.Keywords)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"faq": faq})
}

type idRequest struct {
	ID json.Number `json:"id"`
}

// DeleteFAQ godoc
// @Summary Delete an admin FAQ
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/admin_faqs [delete]
func (c *AdminController) DeleteFAQ(ctx *gin.Context) {
	var req idRequest
	_ = ctx.ShouldBindJSON(&req)
	if req.ID == "" {
		req.ID = json.Number(ctx.Query("id"))
	}
	id, ok := parseID(req.ID)
	if !ok {
		util.BadRequest(ctx, "missing id")
		return
	}
	if err := c.AdminService.DeleteFAQ(id); err != nil {
		writeServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListUnanswered godoc
// @Summary List questions no source could answer
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/unanswered [get]
func (c *AdminController) ListUnanswered(ctx *gin.Context) {
	rows, err := c.AdminService.ListUnanswered()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"unanswered": rows})
}

type answerUnansweredRequest struct {
	ID       json.Number `json:"id"`
	Answer   string      `json:"answer"`
	Question string      `json:"question"`
	Keywords string      `json:"keywords"`
}

// AnswerUnanswered godoc
// @Summary Answer a queued question
// @Description Marks the question answered and stores the answer as an admin FAQ in one transaction.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/answer_unanswered [post]
func (c *AdminController) AnswerUnanswered(ctx *gin.Context) {
	var req answerUnansweredRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "missing parameters")
		return
	}
	id, ok := parseID(req.ID)
	if !ok || strings.TrimSpace(req.Answer) == "" {
		util.BadRequest(ctx, "missing parameters")
		return
	}
	claims := util.GetUserFromContext(ctx)

	if err := c.AdminService.AnswerUnanswered(id, req.Answer, req.Question, req.Keywords, claims.Email); err != nil {
		writeServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetData godoc
// @Summary Dump every college table
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/data [get]
func (c *AdminController) GetData(ctx *gin.Context) {
	data, err := c.AdminService.AllData()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"data": data})
}

// PostData godoc
// @Summary Read or change one college table
// @Description Body is {table, action, data}. Actions are read, insert, update and delete; insert behaves as update. Updates also store an admin FAQ built from the row.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/admin/data [post]
func (c *AdminController) PostData(ctx *gin.Context) {
	var body map[string]interface{}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}
	table, _ := body["table"].(string)
	action, _ := body["action"].(string)
	record, _ := body["data"].(map[string]interface{})

	if strings.EqualFold(action, service.ActionRead) {
		rows, err := c.AdminService.ReadTable(table)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		util.Success(ctx, gin.H{"data": rows})
		return
	}

	msg, err := c.AdminService.WriteTable(service.DataRequest{
		Table:  table,
		Action: action,
		Data:   record,
		Top:    body,
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": msg})
}

// ListStudents godoc
// @Summary List registered students
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/students [get]
func (c *AdminController) ListStudents(ctx *gin.Context) {
	students, err := c.AdminService.ListStudents()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"students": students})
}

type updateStudentRequest struct {
	Email string  `json:"email"`
	Marks string  `json:"marks"`
	Notes *string `json:"notes"`
}

// UpdateStudent godoc
// @Summary Set a student's marks and notes
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/update_student [post]
func (c *AdminController) UpdateStudent(ctx *gin.Context) {
	var req updateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "email required")
		return
	}
	if err := c.AdminService.UpdateStudent(req.Email, req.Marks, req.Notes); err != nil {
		writeServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type emailRequest struct {
	Email string `json:"email"`
}

// DeleteStudent godoc
// @Summary Delete a student and their activity
// @Description Removes the user, their logins, history and chat log rows in one transaction.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/delete_student [post]
func (c *AdminController) DeleteStudent(ctx *gin.Context) {
	var req emailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "email required")
		return
	}
	if err := c.AdminService.DeleteStudent(req.Email); err != nil {
		writeServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// MigrateNames godoc
// @Summary Derive missing display names from email addresses
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/migrate_names [post]
func (c *AdminController) MigrateNames(ctx *gin.Context) {
	n, err := c.AdminService.MigrateNames()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"updated": n})
}

// RecentLogins godoc
// @Summary Latest student logins
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/logins [get]
func (c *AdminController) RecentLogins(ctx *gin.Context) {
	logins, err := c.AdminService.RecentLogins()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"logins": logins})
}

// ToggleAI godoc
// @Summary Flip the external AI queries flag
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/toggle_ai [post]
func (c *AdminController) ToggleAI(ctx *gin.Context) {
	allowed, err := c.SettingService.ToggleExternal()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"allow_external_queries": allowed})
}

// AIStatus godoc
// @Summary Whether external AI queries are allowed
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/ai_status [get]
func (c *AdminController) AIStatus(ctx *gin.Context) {
	util.Success(ctx, gin.H{"allow_external_queries": c.SettingService.ExternalAllowed()})
}

// ListFiles godoc
// @Summary List college data files
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/upload [get]
func (c *AdminController) ListFiles(ctx *gin.Context) {
	files, err := c.StorageService.ListFiles()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"files": files})
}

// Upload godoc
// @Summary Upload a college data file
// @Description Multipart field "file", optional form field "target" to rename it.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "Data file"
// @Param target formData string false "Target file name"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/admin/upload [post]
func (c *AdminController) Upload(ctx *gin.Context) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "no file")
		return
	}
	target := ctx.PostForm("target")
	if target == "" {
		target = fh.Filename
	}

	f, err := fh.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer f.Close()

	name, err := c.StorageService.SaveDataFile(ctx.Request.Context(), target, f, fh.Header.Get("Content-Type"))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"file": name})
}
