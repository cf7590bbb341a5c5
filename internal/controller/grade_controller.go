package controller

import (
	"errors"

	"sales_coach_backend/internal/model"
	"sales_coach_backend/internal/service"
	"sales_coach_backend/internal/util"
	"sales_coach_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type GradeController struct {
	GradingService *service.GradingService
}

func NewGradeController(gradingService *service.GradingService) *GradeController {
	return &GradeController{GradingService: gradingService}
}

// GetRubric godoc
// @Summary 评分表目录
// @Description 渲染评分清单用的环节与评分项定义
// @Tags 评分
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/rubric [get]
func (c *GradeController) GetRubric(ctx *gin.Context) {
	util.Success(ctx, c.GradingService.Catalog)
}

// SubmitGrade godoc
// @Summary 提交通话评分
// @Description 按勾选清单计算各环节得分与总分并落库
// @Tags 评分
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.SubmitGradeRequest true "评分清单"
// @Success 201 {object} util.Response{data=service.SubmitGradeResult}
// @Failure 400 {object} util.Response "未选择坐席或日期格式错误"
// @Router /api/grades [post]
func (c *GradeController) SubmitGrade(ctx *gin.Context) {
	grader := util.GetUserFromContext(ctx)
	if grader == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.GradingService.SubmitGrade(grader, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAgentRequired), errors.Is(err, util.ErrAgentNotFound), errors.Is(err, util.ErrBadCallDate):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	monitoring.GradeSubmissions.Inc()
	util.Created(ctx, result)
}

// ListGrades godoc
// @Summary 成绩列表
// @Tags 评分
// @Produce json
// @Security ApiKeyAuth
// @Param agentId query int false "坐席ID"
// @Param graderId query int false "评分人ID"
// @Param startDate query string false "起始日期 2006-01-02"
// @Param endDate query string false "截止日期 2006-01-02"
// @Success 200 {object} util.Response{data=[]model.CallGrade}
// @Router /api/grades [get]
func (c *GradeController) ListGrades(ctx *gin.Context) {
	var filter model.GradeFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	grades, err := c.GradingService.ListGrades(filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, grades)
}

// GetGrade godoc
// @Summary 单条成绩
// @Tags 评分
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "成绩ID"
// @Success 200 {object} util.Response{data=model.CallGrade}
// @Failure 404 {object} util.Response
// @Router /api/grades/{id} [get]
func (c *GradeController) GetGrade(ctx *gin.Context) {
	grade, err := c.GradingService.GetGrade(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, grade)
}

// DeleteGrade godoc
// @Summary 删除成绩（仅管理员）
// @Description 更正应以新记录追加，删除只用于清理误提交
// @Tags 评分
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "成绩ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/grades/{id} [delete]
func (c *GradeController) DeleteGrade(ctx *gin.Context) {
	if err := c.GradingService.DeleteGrade(ctx.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// ListAgents godoc
// @Summary 坐席列表
// @Tags 评分
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.User}
// @Router /api/agents [get]
func (c *GradeController) ListAgents(ctx *gin.Context) {
	agents, err := c.GradingService.ListAgents()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, agents)
}
