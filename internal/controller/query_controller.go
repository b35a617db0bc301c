package controller

import (
	"college_chatbot_backend/internal/service"
	"college_chatbot_backend/internal/util"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type QueryController struct {
	QAService *service.QAService
}

func NewQueryController(qaService *service.QAService) *QueryController {
	return &QueryController{QAService: qaService}
}

// Query godoc
// @Summary Ask the chatbot
// @Description Resolves a message against admin FAQs, the offline FAQ, college data, the off-topic policy and finally the AI providers. Always answers with a source tag.
// @Tags chat
// @Accept json
// @Produce json
// @Param body body service.AskRequest true "Message and role"
// @Success 200 {object} qa.Answer
// @Failure 400 {object} util.Response "missing message"
// @Router /api/query [post]
func (c *QueryController) Query(ctx *gin.Context) {
	var req service.AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		util.BadRequest(ctx, "missing message")
		return
	}
	if req.Role == "" {
		req.Role = "Guest"
	}

	answer := c.QAService.Ask(ctx.Request.Context(), req.Message, req.Role)
	ctx.JSON(http.StatusOK, answer)
}
