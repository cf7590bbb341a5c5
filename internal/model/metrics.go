package model

import (
	"encoding/json"
	"time"
)

// TrendPoint 一个 ISO 周期桶（"<year>-<weekNumber>"）的平均总分
type TrendPoint struct {
	Period       string  `json:"period"`
	AverageScore float64 `json:"averageScore"`
}

// ThemeCount 自由文本主题短语及其出现次数
type ThemeCount struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// MetricsSnapshot 某个筛选条件下成绩集合的聚合结果，按需重算、按条件缓存
// swagger:model MetricsSnapshot
type MetricsSnapshot struct {
	TotalGrades     int                `json:"totalGrades"`
	AverageScore    float64            `json:"averageScore"`
	ScoresBySection map[string]float64 `json:"scoresBySection"`
	Trends          []TrendPoint       `json:"trends"`
	TopStrengths    []ThemeCount       `json:"topStrengths"`
	TopImprovements []ThemeCount       `json:"topImprovements"`
	RecentGrades    []CallGrade        `json:"recentGrades"`
	CachedAt        time.Time          `json:"cachedAt"`
}

// GradeFilter 查询成绩/指标的筛选条件
type GradeFilter struct {
	AgentID   uint       `form:"agentId" json:"agentId,omitempty"`
	GraderID  uint       `form:"graderId" json:"graderId,omitempty"`
	StartDate *time.Time `form:"startDate" json:"startDate,omitempty" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" json:"endDate,omitempty" time_format:"2006-01-02"`
}

// CacheKey 筛选条件的规范化序列化，用作缓存键。
// 结构体字段顺序固定，相同条件必然得到相同的键。
func (f GradeFilter) CacheKey() string {
	b, _ := json.Marshal(f)
	return "grade_metrics:" + string(b)
}
