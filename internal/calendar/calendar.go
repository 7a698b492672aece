// Package calendar A股交易日历
package calendar

import "time"

// lunarHolidays 春节休市区间（按年份硬编码，未知年份只排除周末和固定假日）
var lunarHolidays = map[int][2]string{
	2023: {"2023-01-21", "2023-01-27"},
	2024: {"2024-02-10", "2024-02-17"},
	2025: {"2025-01-29", "2025-02-04"},
}

// IsTradingDay 判断是否为A股交易日
func IsTradingDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	month := int(date.Month())
	day := date.Day()

	// 固定节假日：元旦、清明、劳动节、国庆
	switch {
	case month == 1 && day == 1:
		return false
	case month == 4 && day >= 4 && day <= 6:
		return false
	case month == 5 && day >= 1 && day <= 3:
		return false
	case month == 10 && day >= 1 && day <= 7:
		return false
	}

	// 春节假期
	if window, ok := lunarHolidays[date.Year()]; ok {
		d := date.Format("2006-01-02")
		if d >= window[0] && d <= window[1] {
			return false
		}
	}

	return true
}

// NextTradingDay 下一个交易日，最多向前查找30个自然日
func NextTradingDay(date time.Time) time.Time {
	next := date.AddDate(0, 0, 1)
	for !IsTradingDay(next) {
		next = next.AddDate(0, 0, 1)
		if next.Sub(date) > 30*24*time.Hour {
			break
		}
	}
	return next
}

// CountTradingDays 统计 (from, to] 区间内的交易日数量
func CountTradingDays(from, to time.Time) int {
	if !to.After(from) {
		return 0
	}
	count := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsTradingDay(d) {
			count++
		}
	}
	return count
}

// ParseDate 解析 YYYY-MM-DD 日期
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// FormatDate 格式化为 YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
