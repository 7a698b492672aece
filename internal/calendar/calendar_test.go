package calendar

import (
	"testing"
	"time"
)

func TestNextTradingDaySkipsWeekend(t *testing.T) {
	friday := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	next := NextTradingDay(friday)
	if got := FormatDate(next); got != "2024-03-18" {
		t.Fatalf("expected 2024-03-18, got %s", got)
	}
}

func TestNextTradingDaySkipsLunarNewYear(t *testing.T) {
	tuesday := time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC)
	next := NextTradingDay(tuesday)
	if got := FormatDate(next); got != "2025-02-05" {
		t.Fatalf("expected 2025-02-05, got %s", got)
	}
}

func TestIsTradingDay(t *testing.T) {
	cases := []struct {
		date string
		want bool
	}{
		{"2024-03-18", true},  // 周一
		{"2024-03-16", false}, // 周六
		{"2024-01-01", false}, // 元旦
		{"2024-04-05", false}, // 清明
		{"2024-05-02", false}, // 劳动节
		{"2024-10-03", false}, // 国庆
		{"2024-02-12", false}, // 春节
		{"2023-01-23", false}, // 2023春节
		{"2026-02-12", true},  // 未知年份不套用春节窗口（周四）
	}
	for _, c := range cases {
		d, err := ParseDate(c.date)
		if err != nil {
			t.Fatalf("parse %s: %v", c.date, err)
		}
		if got := IsTradingDay(d); got != c.want {
			t.Fatalf("IsTradingDay(%s) = %v, want %v", c.date, got, c.want)
		}
	}
}

func TestNextTradingDayIdempotent(t *testing.T) {
	d := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC) // 周一
	next := NextTradingDay(d)
	if !IsTradingDay(next) {
		t.Fatalf("next trading day %s is not a trading day", FormatDate(next))
	}
	if got := CountTradingDays(d, next); got != 1 {
		t.Fatalf("CountTradingDays = %d, want 1", got)
	}
}
