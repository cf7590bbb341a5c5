package util

import (
	"math"
	"time"
)

// WeekNumber ISO 风格的周序号（1-53）。
// 先把日期移到所在周的周四（周日按 7 计），再对当年 1 月 1 日做 ceil((天数+1)/7)。
// 历史数据的趋势分桶依赖这套算法，不能换成简单的 date/7。
func WeekNumber(t time.Time) int {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	d = d.AddDate(0, 0, 4-weekday)

	yearStart := time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	days := d.Sub(yearStart).Hours() / 24

	return int(math.Ceil((days + 1) / 7))
}

// WeekPeriod 趋势分桶用的 "<year>-<weekNumber>" 键，年份取通话日期本身的年份
func WeekPeriod(t time.Time) (year, week int) {
	return t.Year(), WeekNumber(t)
}
