package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"sales_coach_backend/internal/model"
	"sales_coach_backend/pkg/cache"
	"sales_coach_backend/pkg/monitoring"
)

const recentGradeLimit = 5
const topThemeLimit = 5

// GradeSource 聚合用的只读取数边界
type GradeSource interface {
	FindByFilter(filter model.GradeFilter) ([]model.CallGrade, error)
}

type MetricsService struct {
	Grades GradeSource
	Cache  cache.SnapshotCache
	now    func() time.Time
}

func NewMetricsService(grades GradeSource, snapshots cache.SnapshotCache) *MetricsService {
	return NewMetricsServiceWithClock(grades, snapshots, time.Now)
}

func NewMetricsServiceWithClock(grades GradeSource, snapshots cache.SnapshotCache, now func() time.Time) *MetricsService {
	return &MetricsService{Grades: grades, Cache: snapshots, now: now}
}

// GetMetrics 缓存命中时原样返回快照，否则拉取记录重算并回填。
// 同键并发重算是良性竞争：结果等价，后写覆盖先写。
func (s *MetricsService) GetMetrics(ctx context.Context, filter model.GradeFilter) (*model.MetricsSnapshot, error) {
	key := filter.CacheKey()
	if snapshot, ok := s.Cache.Get(ctx, key); ok {
		monitoring.MetricsCacheHits.WithLabelValues("hit").Inc()
		return snapshot, nil
	}
	monitoring.MetricsCacheHits.WithLabelValues("miss").Inc()

	grades, err := s.Grades.FindByFilter(filter)
	if err != nil {
		return nil, err
	}

	snapshot := ComputeMetrics(grades, s.now())
	s.Cache.Set(ctx, key, snapshot)
	return snapshot, nil
}

// ComputeMetrics 把一组成绩记录聚合成快照。空输入返回零值快照，不报错。
func ComputeMetrics(grades []model.CallGrade, now time.Time) *model.MetricsSnapshot {
	snapshot := &model.MetricsSnapshot{
		TotalGrades:     len(grades),
		ScoresBySection: make(map[string]float64),
		Trends:          []model.TrendPoint{},
		TopStrengths:    []model.ThemeCount{},
		TopImprovements: []model.ThemeCount{},
		RecentGrades:    []model.CallGrade{},
		CachedAt:        now,
	}
	if len(grades) == 0 {
		return snapshot
	}

	sum := 0.0
	for _, g := range grades {
		sum += g.TotalScore
	}
	snapshot.AverageScore = sum / float64(len(grades))

	snapshot.ScoresBySection = sectionAverages(grades)
	snapshot.Trends = weeklyTrends(grades)
	snapshot.TopStrengths = topThemes(grades, func(g model.CallGrade) string { return g.Strengths })
	snapshot.TopImprovements = topThemes(grades, func(g model.CallGrade) string { return g.Improvements })
	snapshot.RecentGrades = recentGrades(grades)

	return snapshot
}

// sectionAverages 每个环节只对包含该环节的记录求均值，缺失不按 0 计
func sectionAverages(grades []model.CallGrade) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, g := range grades {
		for section, score := range g.SectionScores {
			sums[section] += score
			counts[section]++
		}
	}

	averages := make(map[string]float64, len(sums))
	for section, total := range sums {
		averages[section] = total / float64(counts[section])
	}
	return averages
}

type trendBucket struct {
	year  int
	week  int
	sum   float64
	count int
}

// weeklyTrends 按 "<year>-<weekNumber>" 分桶求均值，输出按时间升序。
// 源实现按首次出现顺序输出，这里改为按 (year, week) 排序以保证输出可预测。
func weeklyTrends(grades []model.CallGrade) []model.TrendPoint {
	index := make(map[string]int)
	var buckets []*trendBucket

	for _, g := range grades {
		key := fmt.Sprintf("%d-%d", g.Year, g.WeekNumber)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, &trendBucket{year: g.Year, week: g.WeekNumber})
		}
		buckets[i].sum += g.TotalScore
		buckets[i].count++
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].year != buckets[j].year {
			return buckets[i].year < buckets[j].year
		}
		return buckets[i].week < buckets[j].week
	})

	trends := make([]model.TrendPoint, len(buckets))
	for i, b := range buckets {
		trends[i] = model.TrendPoint{
			Period:       fmt.Sprintf("%d-%d", b.year, b.week),
			AverageScore: b.sum / float64(b.count),
		}
	}
	return trends
}

// topThemes 自由文本按行拆成短语做精确匹配计数，取前 5。
// 计数相同的按首次出现顺序排（稳定排序），不按字母序。
// 精确匹配无法聚合近似措辞，这是已知局限，按规格保留。
func topThemes(grades []model.CallGrade, field func(model.CallGrade) string) []model.ThemeCount {
	counts := make(map[string]int)
	var order []string

	for _, g := range grades {
		text := field(g)
		if text == "" {
			continue
		}
		for _, phrase := range strings.Split(text, "\n") {
			if phrase == "" {
				continue
			}
			if _, seen := counts[phrase]; !seen {
				order = append(order, phrase)
			}
			counts[phrase]++
		}
	}

	themes := make([]model.ThemeCount, len(order))
	for i, phrase := range order {
		themes[i] = model.ThemeCount{Text: phrase, Count: counts[phrase]}
	}

	sort.SliceStable(themes, func(i, j int) bool {
		return themes[i].Count > themes[j].Count
	})

	if len(themes) > topThemeLimit {
		themes = themes[:topThemeLimit]
	}
	return themes
}

// recentGrades 最近创建的 5 条记录，不依赖调用方的排序
func recentGrades(grades []model.CallGrade) []model.CallGrade {
	recent := make([]model.CallGrade, len(grades))
	copy(recent, grades)

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})

	if len(recent) > recentGradeLimit {
		recent = recent[:recentGradeLimit]
	}
	return recent
}
