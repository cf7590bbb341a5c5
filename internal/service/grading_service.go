package service

import (
	"fmt"
	"time"

	"sales_coach_backend/internal/model"
	"sales_coach_backend/internal/rubric"
	"sales_coach_backend/internal/util"
)

// GradeStore 成绩的存储边界。写入必须把成绩和坐席汇总作为一个原子单元提交。
type GradeStore interface {
	CreateWithRollup(grade *model.CallGrade, gradedBy string) error
	FindByFilter(filter model.GradeFilter) ([]model.CallGrade, error)
	FindByID(id string) (*model.CallGrade, error)
	Delete(id string) error
	GetAgentMetric(agentID uint) (*model.AgentMetric, error)
}

// UserStore 评分时需要的用户上下文
type UserStore interface {
	FindByID(id uint) (*model.User, error)
	FindByRole(roles ...model.UserRole) ([]model.User, error)
}

type GradingService struct {
	Grades  GradeStore
	Users   UserStore
	Catalog rubric.Catalog
}

func NewGradingService(grades GradeStore, users UserStore, catalog rubric.Catalog) *GradingService {
	return &GradingService{
		Grades:  grades,
		Users:   users,
		Catalog: catalog,
	}
}

type SubmitGradeRequest struct {
	AgentID      uint                            `json:"agentId"`
	CallDate     string                          `json:"callDate"` // "2006-01-02"，缺省为当天
	Sections     map[string]rubric.SectionState  `json:"sections"`
	Notes        string                          `json:"notes"`
	Strengths    string                          `json:"strengths"`
	Improvements string                          `json:"improvements"`
	Location     string                          `json:"location"` // 管理员可指定，其他角色忽略
}

type SubmitGradeResult struct {
	GradeID       string             `json:"gradeId"`
	SectionScores map[string]float64 `json:"sectionScores"`
	TotalScore    float64            `json:"totalScore"`
}

// SubmitGrade 计算得分、派生归档字段并原子落库。
// 计分本身永不报错：未知环节得 0，未知评分项视为未勾选。
func (s *GradingService) SubmitGrade(grader *util.Claims, req SubmitGradeRequest) (*SubmitGradeResult, error) {
	if req.AgentID == 0 {
		return nil, util.ErrAgentRequired
	}
	if _, err := s.Users.FindByID(req.AgentID); err != nil {
		return nil, util.ErrAgentNotFound
	}

	callDate := time.Now()
	if req.CallDate != "" {
		parsed, err := time.Parse(util.DateFormat, req.CallDate)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, req.CallDate)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", util.ErrBadCallDate, req.CallDate)
			}
		}
		callDate = parsed
	}

	sectionScores := s.Catalog.SectionScores(req.Sections)
	totalScore := s.Catalog.TotalScore(req.Sections)

	location, managerID := s.deriveContext(grader, req.Location)
	year, week := util.WeekPeriod(callDate)

	grade := &model.CallGrade{
		AgentID:       req.AgentID,
		GraderID:      grader.UserID,
		CallDate:      callDate,
		SectionScores: sectionScores,
		TotalScore:    totalScore,
		Notes:         req.Notes,
		Strengths:     req.Strengths,
		Improvements:  req.Improvements,
		Location:      location,
		ManagerID:     managerID,
		WeekNumber:    week,
		Year:          year,
		Month:         int(callDate.Month()) - 1, // 历史数据沿用 0 起始月份
	}

	if err := s.Grades.CreateWithRollup(grade, grader.Email); err != nil {
		return nil, err
	}

	return &SubmitGradeResult{
		GradeID:       grade.ID,
		SectionScores: sectionScores,
		TotalScore:    totalScore,
	}, nil
}

// deriveContext 管理员用自己的上下文兜底，其他评分人取档案里的驻地和直属经理
func (s *GradingService) deriveContext(grader *util.Claims, requested string) (location string, managerID uint) {
	if grader.Role == model.Admin {
		location = requested
		if location == "" {
			location = "All"
		}
		return location, grader.UserID
	}

	user, err := s.Users.FindByID(grader.UserID)
	if err != nil {
		return "Unknown", grader.UserID
	}

	location = user.Location
	if location == "" {
		location = "Unknown"
	}
	managerID = user.ReportsTo
	if managerID == 0 {
		managerID = grader.UserID
	}
	return location, managerID
}

func (s *GradingService) ListGrades(filter model.GradeFilter) ([]model.CallGrade, error) {
	return s.Grades.FindByFilter(filter)
}

func (s *GradingService) GetGrade(id string) (*model.CallGrade, error) {
	return s.Grades.FindByID(id)
}

// DeleteGrade 管理员移除误提交的成绩。更正仍然以新记录追加，这里只是兜底。
func (s *GradingService) DeleteGrade(id string) error {
	return s.Grades.Delete(id)
}

// ListAgents 评分页的坐席下拉
func (s *GradingService) ListAgents() ([]model.User, error) {
	return s.Users.FindByRole(model.Agent)
}

// GetAgentRollup 提交时维护的按坐席反范式化汇总
func (s *GradingService) GetAgentRollup(agentID uint) (*model.AgentMetric, error) {
	return s.Grades.GetAgentMetric(agentID)
}
