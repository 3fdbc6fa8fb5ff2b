package controller

import (
	"net/http"
	"vocab_drill_backend/internal/service"
	"vocab_drill_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PracticeController struct {
	PracticeService *service.PracticeService
	DueLimit        int
}

func NewPracticeController(practiceService *service.PracticeService, dueLimit int) *PracticeController {
	if dueLimit <= 0 {
		dueLimit = 10
	}
	return &PracticeController{PracticeService: practiceService, DueLimit: dueLimit}
}

// @Summary 获取到期复习项
// @Description 按记忆强度升序、到期时间升序返回到期单词
// @Tags 练习
// @Produce json
// @Param limit query int false "返回数量" default(10)
// @Success 200 {object} util.Response
// @Router /practice/due [get]
func (c *PracticeController) GetDueItems(ctx *gin.Context) {
	limit := util.ParseLimit(ctx.Query("limit"), c.DueLimit, 100)

	items, err := c.PracticeService.DueItems(limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"items": items,
		"count": len(items),
	})
}

// @Summary 获取下一道题
// @Description 为最需要复习的单词出一道填空题，没有到期项时返回 done=true
// @Tags 练习
// @Produce json
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /practice/next [get]
func (c *PracticeController) GetNextQuestion(ctx *gin.Context) {
	question, err := c.PracticeService.NextQuestion(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if question == nil {
		ctx.JSON(http.StatusOK, util.Response{
			Code:    http.StatusOK,
			Message: "No words due for review",
			Data:    gin.H{"done": true},
		})
		return
	}

	util.Success(ctx, question)
}

// @Summary 提交答案
// @Description 判分并记录作答；连续答错的动词会返回专项练习
// @Tags 练习
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "会话ID"
// @Param request body service.GradeRequest true "作答"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /practice/answers [post]
func (c *PracticeController) SubmitAnswer(ctx *gin.Context) {
	var req service.GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.SessionID == "" {
		req.SessionID = ctx.GetHeader(util.SessionHeader)
	}

	result, err := c.PracticeService.GradeAnswer(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	ctx.Header(util.SessionHeader, result.SessionID)
	util.Success(ctx, result)
}
