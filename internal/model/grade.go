package model

import (
	"time"
)

// CallGrade 一次通话评审的最终成绩。提交时创建，之后不再修改——
// 更正以新记录的形式追加，保证趋势历史不被改写。
// swagger:model CallGrade
type CallGrade struct {
	UUIDBase
	AgentID  uint      `gorm:"index;not null" json:"agentId"`
	GraderID uint      `gorm:"index;not null" json:"graderId"`
	CallDate time.Time `gorm:"index;not null" json:"callDate"`

	// 各环节得分与总分均为 0-100 的百分比
	SectionScores map[string]float64 `gorm:"serializer:json;type:json" json:"sectionScores"`
	TotalScore    float64            `gorm:"not null" json:"totalScore"`

	Notes        string `gorm:"type:text" json:"notes"`
	Strengths    string `gorm:"type:text" json:"strengths"`    // 按行拆分成主题短语做频次统计
	Improvements string `gorm:"type:text" json:"improvements"` // 同上

	// 入库时派生的归档字段
	Location   string `gorm:"size:100;index" json:"location"`
	ManagerID  uint   `gorm:"index" json:"managerId"`
	WeekNumber int    `gorm:"index" json:"weekNumber"` // 1-53
	Year       int    `gorm:"index" json:"year"`
	Month      int    `json:"month"` // 0-11，沿用历史数据的 0 起始月份
}

func (CallGrade) TableName() string {
	return "call_grades"
}

// AgentMetric 按坐席反范式化的滚动汇总，与成绩记录在同一事务内写入
type AgentMetric struct {
	AgentID       uint      `gorm:"primaryKey" json:"agentId"`
	LastGradeID   string    `gorm:"size:36" json:"lastGradeId"`
	LastGradeDate time.Time `json:"lastGradeDate"`
	TotalGrades   int64     `gorm:"default:0" json:"totalGrades"`
	AverageScore  float64   `gorm:"default:0" json:"averageScore"`
	LastGradedBy  string    `gorm:"size:100" json:"lastGradedBy"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (AgentMetric) TableName() string {
	return "agent_metrics"
}
