package controller

import (
	"college_chatbot_backend/internal/qa"
	"college_chatbot_backend/internal/service"
	"college_chatbot_backend/internal/util"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// InfoController serves the public, read-only college data files.
type InfoController struct {
	DataDir   string
	AIService *service.AIService
}

func NewInfoController(dataDir string, aiService *service.AIService) *InfoController {
	return &InfoController{DataDir: dataDir, AIService: aiService}
}

func (c *InfoController) readJSON(ctx *gin.Context, name string) (json.RawMessage, bool) {
	raw, err := os.ReadFile(filepath.Join(c.DataDir, name))
	if err != nil || !json.Valid(raw) {
		util.NotFound(ctx)
		return nil, false
	}
	return json.RawMessage(raw), true
}

// CollegeInfo godoc
// @Summary College overview text
// @Tags info
// @Produce json
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "info not found"
// @Router /api/college_info [get]
func (c *InfoController) CollegeInfo(ctx *gin.Context) {
	raw, err := os.ReadFile(filepath.Join(c.DataDir, qa.InfoFile))
	if err != nil {
		util.Error(ctx, http.StatusNotFound, "info not found")
		return
	}
	util.Success(ctx, gin.H{"text": string(raw)})
}

// Status godoc
// @Summary AI provider readiness
// @Description Never includes secrets.
// @Tags info
// @Produce json
// @Success 200 {object} service.AIStatus
// @Router /api/status [get]
func (c *InfoController) Status(ctx *gin.Context) {
	st := c.AIService.Status()
	util.Success(ctx, gin.H{
		"ai_provider_available": st.ProviderAvailable,
		"openai_present":        st.OpenAIPresent,
		"gemini_key_present":    st.GeminiKeyPresent,
		"gemini_ready":          st.GeminiReady,
		"external_allowed":      st.ExternalAllowed,
	})
}

// ClassStrengths godoc
// @Summary Class strength figures
// @Tags info
// @Produce json
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/class_strengths [get]
func (c *InfoController) ClassStrengths(ctx *gin.Context) {
	data, ok := c.readJSON(ctx, qa.ClassStrengthsFile)
	if !ok {
		return
	}
	util.Success(ctx, gin.H{"data": data})
}

// ClassStrengthsReport godoc
// @Summary Class strength report
// @Description JSON form of the report, with a plain-text rendering alongside.
// @Tags info
// @Produce json
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/reports/class_strengths [get]
func (c *InfoController) ClassStrengthsReport(ctx *gin.Context) {
	data, ok := c.readJSON(ctx, qa.ClassStrengthsFile)
	if !ok {
		return
	}
	body := gin.H{"data": data}
	if text, err := qa.RenderClassStrengths(data); err == nil {
		body["text"] = text
	}
	util.Success(ctx, body)
}

// OfflineFAQ godoc
// @Summary Offline FAQ file
// @Tags info
// @Produce json
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/offline_faq [get]
func (c *InfoController) OfflineFAQ(ctx *gin.Context) {
	data, ok := c.readJSON(ctx, qa.OfflineFAQFile)
	if !ok {
		return
	}
	util.Success(ctx, gin.H{"faq": data})
}
