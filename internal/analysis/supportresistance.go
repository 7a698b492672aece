package analysis

import (
	"fmt"
	"sort"

	"stock-forecast-engine/internal/indicator"
	"stock-forecast-engine/internal/model"
)

// 位置标签：打分器与专业策略按字面匹配，须与positionTag保持一致
const (
	TagNearSupport    = "接近关键支撑"
	TagNearResistance = "接近关键压力"
)

// SupportResistance 支撑压力位
type SupportResistance struct {
	Supports    []float64 `json:"support_levels"`    // 按距离升序（最近的支撑在前）
	Resistances []float64 `json:"resistance_levels"` // 按距离升序
	PositionTag string    `json:"position_tag"`
}

// AnalyzeSupportResistance 支撑压力位分析
//
// 候选池：MA5/10/20/60、60日高低点、38.2%/50%/61.8%斐波那契回撤位。
// 1%容差去重后按上下15%窗口分为支撑和压力，各取最近5个。
func AnalyzeSupportResistance(s *model.Series) *SupportResistance {
	n := s.Len()
	if n < 20 {
		return &SupportResistance{PositionTag: "数据不足"}
	}

	closes, highs, lows := s.Closes, s.Highs, s.Lows
	current := closes[n-1]

	candidates := []float64{
		indicator.MA(closes, 5),
		indicator.MA(closes, 10),
		indicator.MA(closes, 20),
	}
	if n >= 60 {
		candidates = append(candidates, indicator.MA(closes, 60))
	} else {
		candidates = append(candidates, current)
	}

	lookback := 60
	if n < lookback {
		lookback = n
	}
	recentHigh := maxOf(highs[n-lookback:])
	recentLow := minOf(lows[n-lookback:])
	fibRange := recentHigh - recentLow
	candidates = append(candidates,
		recentHigh,
		recentLow,
		recentHigh-fibRange*0.382,
		recentHigh-fibRange*0.500,
		recentHigh-fibRange*0.618,
	)

	supports, resistances := ClassifyLevels(candidates, current)
	return &SupportResistance{
		Supports:    supports,
		Resistances: resistances,
		PositionTag: positionTag(supports, resistances, current),
	}
}

// ClassifyLevels 候选位分为支撑和压力，各自按距离排序、1%容差去重并截取5个
func ClassifyLevels(candidates []float64, current float64) (supports, resistances []float64) {
	for _, l := range candidates {
		switch {
		case l < current && l > current*0.85:
			supports = append(supports, l)
		case l > current && l < current*1.15:
			resistances = append(resistances, l)
		}
	}

	// 支撑按距离升序即数值降序，压力按距离升序即数值升序
	sort.Sort(sort.Reverse(sort.Float64Slice(supports)))
	sort.Float64s(resistances)

	// 同一列表内1%容差去重
	supports = dedupeWithin(supports, current*0.01)
	resistances = dedupeWithin(resistances, current*0.01)

	if len(supports) > 5 {
		supports = supports[:5]
	}
	if len(resistances) > 5 {
		resistances = resistances[:5]
	}
	return supports, resistances
}

// dedupeWithin 相邻值差小于tolerance的只保留先出现的（即更近的）
func dedupeWithin(levels []float64, tolerance float64) []float64 {
	if len(levels) == 0 {
		return levels
	}
	out := levels[:1]
	for _, l := range levels[1:] {
		if abs(l-out[len(out)-1]) >= tolerance {
			out = append(out, l)
		}
	}
	return out
}

// positionTag 当前价在支撑压力间的位置描述
func positionTag(supports, resistances []float64, current float64) string {
	if len(supports) == 0 || len(resistances) == 0 {
		return "中性区域"
	}
	toSupport := (current - supports[0]) / current * 100
	toResistance := (resistances[0] - current) / current * 100

	switch {
	case toSupport < 2:
		return TagNearSupport
	case toResistance < 2:
		return TagNearResistance
	case toSupport < toResistance:
		return fmt.Sprintf("中性偏下，距支撑%.2f%%", toSupport)
	default:
		return fmt.Sprintf("中性偏上，距压力%.2f%%", toResistance)
	}
}

// IsBreakout 放量突破压力位
func IsBreakout(current, resistance, volumeRatio float64) bool {
	return current > resistance*1.01 && volumeRatio > 1.2
}

// IsBreakdown 放量跌破支撑位
func IsBreakdown(current, support, volumeRatio float64) bool {
	return current < support*0.99 && volumeRatio > 1.2
}
