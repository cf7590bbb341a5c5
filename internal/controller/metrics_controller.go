package controller

import (
	"errors"

	"sales_coach_backend/internal/model"
	"sales_coach_backend/internal/service"
	"sales_coach_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MetricsController struct {
	MetricsService *service.MetricsService
	GradingService *service.GradingService
}

func NewMetricsController(metricsService *service.MetricsService, gradingService *service.GradingService) *MetricsController {
	return &MetricsController{
		MetricsService: metricsService,
		GradingService: gradingService,
	}
}

// GetMetrics godoc
// @Summary 绩效指标快照
// @Description 按筛选条件聚合成绩并走 5 分钟缓存；空结果返回全零快照
// @Tags 绩效
// @Produce json
// @Security ApiKeyAuth
// @Param agentId query int false "坐席ID"
// @Param graderId query int false "评分人ID"
// @Param startDate query string false "起始日期 2006-01-02"
// @Param endDate query string false "截止日期 2006-01-02"
// @Success 200 {object} util.Response{data=model.MetricsSnapshot}
// @Router /api/metrics [get]
func (c *MetricsController) GetMetrics(ctx *gin.Context) {
	var filter model.GradeFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	snapshot, err := c.MetricsService.GetMetrics(ctx.Request.Context(), filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, snapshot)
}

// GetAgentRollup godoc
// @Summary 坐席滚动汇总
// @Description 提交时反范式化维护的按坐席汇总，无需聚合计算
// @Tags 绩效
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "坐席ID"
// @Success 200 {object} util.Response{data=model.AgentMetric}
// @Failure 404 {object} util.Response
// @Router /api/agents/{id}/rollup [get]
func (c *MetricsController) GetAgentRollup(ctx *gin.Context) {
	agentID := util.MustParseUint(ctx.Param("id"))
	if agentID == 0 {
		util.BadRequest(ctx, "invalid agent id")
		return
	}

	metric, err := c.GradingService.GetAgentRollup(agentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, metric)
}
