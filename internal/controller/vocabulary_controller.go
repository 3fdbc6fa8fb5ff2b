package controller

import (
	"strconv"
	"vocab_drill_backend/internal/service"
	"vocab_drill_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type VocabularyController struct {
	CatalogService *service.CatalogService
}

func NewVocabularyController(catalogService *service.CatalogService) *VocabularyController {
	return &VocabularyController{CatalogService: catalogService}
}

type SeedVocabularyRequest struct {
	Words []service.VocabularyEntry `json:"words" binding:"required,min=1,dive"`
}

// @Summary 导入词库
// @Description 按单词文本幂等导入，已有单词的复习状态不会被重置
// @Tags 词库管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body SeedVocabularyRequest true "词库"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /admin/vocabulary/seed [post]
func (c *VocabularyController) SeedVocabulary(ctx *gin.Context) {
	var req SeedVocabularyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	report, err := c.CatalogService.Seed(req.Words)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, report)
}

// @Summary 词库列表
// @Tags 词库管理
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /admin/vocabulary [get]
func (c *VocabularyController) ListVocabulary(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit := util.ParseLimit(ctx.Query("limit"), 20, 100)

	entries, total, err := c.CatalogService.List((page-1)*limit, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"items": entries,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
