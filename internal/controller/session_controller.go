package controller

import (
	"vocab_drill_backend/internal/service"
	"vocab_drill_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	Analyzer        *service.SessionAnalyzer
	PracticeService *service.PracticeService
}

func NewSessionController(analyzer *service.SessionAnalyzer, practiceService *service.PracticeService) *SessionController {
	return &SessionController{Analyzer: analyzer, PracticeService: practiceService}
}

// @Summary 会话总结
// @Description 生成或读取会话总结，同一会话重复请求返回同一份结果
// @Tags 会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /sessions/{id}/summary [get]
func (c *SessionController) GetSessionSummary(ctx *gin.Context) {
	summary, err := c.Analyzer.Summarize(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, summary)
}

// @Summary 会话作答记录
// @Tags 会话
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /sessions/{id}/attempts [get]
func (c *SessionController) ListSessionAttempts(ctx *gin.Context) {
	attempts, err := c.PracticeService.SessionAttempts(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"sessionId": ctx.Param("id"),
		"attempts":  attempts,
		"total":     len(attempts),
	})
}
