package service

import (
	"context"
	"testing"
	"time"

	"sales_coach_backend/internal/model"
	"sales_coach_backend/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGradeSource struct {
	grades []model.CallGrade
	calls  int
	err    error
}

func (f *fakeGradeSource) FindByFilter(filter model.GradeFilter) ([]model.CallGrade, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.grades, nil
}

func gradeAt(created time.Time, total float64, year, week int) model.CallGrade {
	g := model.CallGrade{
		TotalScore: total,
		Year:       year,
		WeekNumber: week,
	}
	g.CreatedAt = created
	return g
}

func TestComputeMetricsEmpty(t *testing.T) {
	now := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	snapshot := ComputeMetrics(nil, now)

	assert.Zero(t, snapshot.TotalGrades)
	assert.Zero(t, snapshot.AverageScore)
	assert.Empty(t, snapshot.ScoresBySection)
	assert.Empty(t, snapshot.Trends)
	assert.Empty(t, snapshot.TopStrengths)
	assert.Empty(t, snapshot.TopImprovements)
	assert.Empty(t, snapshot.RecentGrades)
	assert.Equal(t, now, snapshot.CachedAt)
}

func TestComputeMetricsAverage(t *testing.T) {
	now := time.Now()
	grades := []model.CallGrade{
		{TotalScore: 60},
		{TotalScore: 80},
		{TotalScore: 100},
	}
	snapshot := ComputeMetrics(grades, now)

	assert.Equal(t, 3, snapshot.TotalGrades)
	assert.InDelta(t, 80.0, snapshot.AverageScore, 1e-9)
}

func TestComputeMetricsSectionAverages(t *testing.T) {
	grades := []model.CallGrade{
		{SectionScores: map[string]float64{"intake": 60, "closing": 100}},
		{SectionScores: map[string]float64{"intake": 80}},
	}
	snapshot := ComputeMetrics(grades, time.Now())

	// 缺失 closing 的记录不按 0 计入 closing 的均值
	assert.InDelta(t, 70.0, snapshot.ScoresBySection["intake"], 1e-9)
	assert.InDelta(t, 100.0, snapshot.ScoresBySection["closing"], 1e-9)
}

func TestComputeMetricsTrends(t *testing.T) {
	now := time.Now()
	grades := []model.CallGrade{
		gradeAt(now, 90, 2025, 23), // 乱序输入
		gradeAt(now, 70, 2025, 22),
		gradeAt(now, 50, 2025, 22),
		gradeAt(now, 80, 2024, 50),
	}
	snapshot := ComputeMetrics(grades, now)

	require.Len(t, snapshot.Trends, 3)
	// 输出按 (year, week) 升序
	assert.Equal(t, "2024-50", snapshot.Trends[0].Period)
	assert.Equal(t, "2025-22", snapshot.Trends[1].Period)
	assert.Equal(t, "2025-23", snapshot.Trends[2].Period)
	assert.InDelta(t, 60.0, snapshot.Trends[1].AverageScore, 1e-9)
}

func TestComputeMetricsSameWeekSameBucket(t *testing.T) {
	now := time.Now()
	// 同一个 ISO 周的周一和周五
	monday := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	friday := time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC)
	nextWeek := time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)

	grades := []model.CallGrade{
		gradeAt(now, 60, monday.Year(), 10),
		gradeAt(now, 80, friday.Year(), 10),
		gradeAt(now, 40, nextWeek.Year(), 11),
	}
	snapshot := ComputeMetrics(grades, now)

	require.Len(t, snapshot.Trends, 2)
	assert.Equal(t, "2024-10", snapshot.Trends[0].Period)
	assert.InDelta(t, 70.0, snapshot.Trends[0].AverageScore, 1e-9)
	assert.Equal(t, "2024-11", snapshot.Trends[1].Period)
}

func TestComputeMetricsTopThemes(t *testing.T) {
	grades := []model.CallGrade{
		{Strengths: "A\nB"},
		{Strengths: "A\nC"},
		{Strengths: "A"},
	}
	snapshot := ComputeMetrics(grades, time.Now())

	require.Len(t, snapshot.TopStrengths, 3)
	assert.Equal(t, model.ThemeCount{Text: "A", Count: 3}, snapshot.TopStrengths[0])
	// 同频次按首次出现顺序排，不按字母序
	assert.Equal(t, model.ThemeCount{Text: "B", Count: 1}, snapshot.TopStrengths[1])
	assert.Equal(t, model.ThemeCount{Text: "C", Count: 1}, snapshot.TopStrengths[2])
}

func TestComputeMetricsTopThemesLimit(t *testing.T) {
	grades := []model.CallGrade{
		{Improvements: "a\nb\nc\nd\ne\nf\ng"},
		{Improvements: "c\nd"},
	}
	snapshot := ComputeMetrics(grades, time.Now())

	require.Len(t, snapshot.TopImprovements, 5)
	assert.Equal(t, "c", snapshot.TopImprovements[0].Text)
	assert.Equal(t, "d", snapshot.TopImprovements[1].Text)
	// 剩下的按首次出现顺序补齐
	assert.Equal(t, "a", snapshot.TopImprovements[2].Text)
}

func TestComputeMetricsRecentGrades(t *testing.T) {
	base := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	var grades []model.CallGrade
	for i := 0; i < 7; i++ {
		grades = append(grades, gradeAt(base.Add(time.Duration(i)*time.Hour), float64(i), 2025, 18))
	}
	snapshot := ComputeMetrics(grades, time.Now())

	require.Len(t, snapshot.RecentGrades, 5)
	// 最新的在前
	assert.InDelta(t, 6.0, snapshot.RecentGrades[0].TotalScore, 1e-9)
	assert.InDelta(t, 2.0, snapshot.RecentGrades[4].TotalScore, 1e-9)
}

func TestGetMetricsCaching(t *testing.T) {
	clock := &struct{ now time.Time }{now: time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)}
	nowFn := func() time.Time { return clock.now }

	source := &fakeGradeSource{grades: []model.CallGrade{{TotalScore: 80}}}
	svc := NewMetricsServiceWithClock(source, cache.NewMemoryCacheWithClock(5*time.Minute, nowFn), nowFn)
	ctx := context.Background()
	filter := model.GradeFilter{AgentID: 7}

	first, err := svc.GetMetrics(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)

	// 5 分钟内的第二次调用返回同一个缓存对象，不再访问存储
	clock.now = clock.now.Add(4 * time.Minute)
	second, err := svc.GetMetrics(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, source.calls)
	assert.Same(t, first, second)

	// 过期后恰好触发一次重算
	clock.now = clock.now.Add(2 * time.Minute)
	third, err := svc.GetMetrics(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
	assert.NotSame(t, first, third)
}

func TestGetMetricsDistinctFilters(t *testing.T) {
	source := &fakeGradeSource{}
	svc := NewMetricsService(source, cache.NewMemoryCache(5*time.Minute))
	ctx := context.Background()

	_, err := svc.GetMetrics(ctx, model.GradeFilter{AgentID: 1})
	require.NoError(t, err)
	_, err = svc.GetMetrics(ctx, model.GradeFilter{AgentID: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestGetMetricsStoreErrorPropagates(t *testing.T) {
	source := &fakeGradeSource{err: assert.AnError}
	svc := NewMetricsService(source, cache.NewMemoryCache(5*time.Minute))

	_, err := svc.GetMetrics(context.Background(), model.GradeFilter{})
	assert.ErrorIs(t, err, assert.AnError)

	// 失败不回填缓存，下次仍会访问存储
	_, _ = svc.GetMetrics(context.Background(), model.GradeFilter{})
	assert.Equal(t, 2, source.calls)
}
