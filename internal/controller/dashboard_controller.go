package controller

import (
	"vocab_drill_backend/internal/service"
	"vocab_drill_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// @Summary 获取练习仪表盘
// @Description 词库规模、到期数量、强度分布、今日正确率与易错词
// @Tags 仪表盘
// @Produce json
// @Success 200 {object} util.Response
// @Router /practice/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	dashboard, err := c.DashboardService.GetDashboard()
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, dashboard)
}
