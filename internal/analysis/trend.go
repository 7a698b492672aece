// Package analysis 市场分析层：趋势、量价、形态、支撑压力、市场状态、背离
package analysis

import (
	"fmt"

	"stock-forecast-engine/internal/indicator"
	"stock-forecast-engine/internal/model"
)

// TrendState 趋势状态
type TrendState string

const (
	TrendStrongUp   TrendState = "StrongUp"
	TrendWeakUp     TrendState = "WeakUp"
	TrendSide       TrendState = "Side"
	TrendWeakDown   TrendState = "WeakDown"
	TrendStrongDown TrendState = "StrongDown"
)

// IsUp 是否偏多
func (t TrendState) IsUp() bool { return t == TrendStrongUp || t == TrendWeakUp }

// IsDown 是否偏空
func (t TrendState) IsDown() bool { return t == TrendStrongDown || t == TrendWeakDown }

// String 中文描述
func (t TrendState) String() string {
	switch t {
	case TrendStrongUp:
		return "强烈上涨"
	case TrendWeakUp:
		return "上涨"
	case TrendWeakDown:
		return "下跌"
	case TrendStrongDown:
		return "强烈下跌"
	default:
		return "震荡"
	}
}

// TrendAnalysis 趋势分析结果
type TrendAnalysis struct {
	Daily          TrendState `json:"daily_trend"`
	Weekly         TrendState `json:"weekly_trend"`
	Overall        TrendState `json:"overall_trend"`
	Strength       float64    `json:"trend_strength"`  // 带符号，[-1, 1]
	Intensity      float64    `json:"trend_intensity"` // |Strength|，[0, 1]
	Confidence     float64    `json:"trend_confidence"`
	BiasMultiplier float64    `json:"bias_multiplier"`
	Description    string     `json:"description"`
}

// AnalyzeTrend 趋势分析
//
// 日线级别看EMA5/EMA10/EMA20排列、近期斜率和ADX强度；
// 数据量足够时（≥120根）再用5日重采样做周线确认。
func AnalyzeTrend(s *model.Series) *TrendAnalysis {
	daily := analyzeDailyTrend(s)
	weekly := analyzeWeeklyTrend(s)
	overall := combineTrends(daily, weekly)

	strength := trendStrength(overall, daily, weekly)
	confidence := trendConfidence(daily, weekly)
	bias := biasMultiplier(daily, weekly)

	return &TrendAnalysis{
		Daily:          daily,
		Weekly:         weekly,
		Overall:        overall,
		Strength:       strength,
		Intensity:      abs(strength),
		Confidence:     confidence,
		BiasMultiplier: bias,
		Description:    fmt.Sprintf("%s (置信度:%.0f%%)", overall.String(), confidence*100),
	}
}

// analyzeDailyTrend 日线趋势：均线排列 + 斜率 + ADX
func analyzeDailyTrend(s *model.Series) TrendState {
	closes := s.Closes
	if len(closes) < 10 {
		return TrendSide
	}

	ema5 := indicator.EMA(closes, 5)
	ema10 := indicator.EMA(closes, 10)
	ema20 := indicator.EMA(closes, 20)
	if len(closes) < 20 {
		ema20 = indicator.EMA(closes, len(closes))
	}

	slopePeriod := 10
	if len(closes) < slopePeriod {
		slopePeriod = len(closes)
	}
	slope := indicator.Slope(closes[len(closes)-slopePeriod:])
	_, _, adx := indicator.DMI(s.Highs, s.Lows, closes, 14)

	bullAligned := ema5 > ema10 && ema10 > ema20
	bearAligned := ema5 < ema10 && ema10 < ema20

	switch {
	case bullAligned && slope > 0:
		if adx > 25 {
			return TrendStrongUp
		}
		return TrendWeakUp
	case bearAligned && slope < 0:
		if adx > 25 {
			return TrendStrongDown
		}
		return TrendWeakDown
	case slope > 0 && ema5 > ema10:
		return TrendWeakUp
	case slope < 0 && ema5 < ema10:
		return TrendWeakDown
	default:
		return TrendSide
	}
}

// analyzeWeeklyTrend 周线趋势：5日重采样后看MACD，数据不足返回震荡
func analyzeWeeklyTrend(s *model.Series) TrendState {
	const step = 5
	closes := s.Closes
	if len(closes) < 120 {
		return TrendSide
	}
	period := 120

	weekly := make([]float64, 0, period/step)
	start := len(closes) - period
	for i := step; i <= period; i += step {
		weekly = append(weekly, closes[start+i-1])
	}
	if len(weekly) < 5 {
		return TrendSide
	}

	dif, dea, hist := indicator.MACD(weekly)
	switch {
	case dif > dea && hist > 0:
		return TrendWeakUp
	case dif < dea && hist < 0:
		return TrendWeakDown
	default:
		return TrendSide
	}
}

// combineTrends 日线周线综合
func combineTrends(daily, weekly TrendState) TrendState {
	switch {
	case daily == TrendStrongUp && weekly.IsUp():
		return TrendStrongUp
	case daily == TrendStrongDown && weekly.IsDown():
		return TrendStrongDown
	case daily == TrendStrongUp:
		return TrendWeakUp
	case daily == TrendStrongDown:
		return TrendWeakDown
	case daily == TrendWeakUp:
		return TrendWeakUp
	case daily == TrendWeakDown:
		return TrendWeakDown
	case daily == TrendSide && weekly.IsUp():
		return TrendWeakUp
	case daily == TrendSide && weekly.IsDown():
		return TrendWeakDown
	default:
		return TrendSide
	}
}

// trendStrength 趋势强度：基础分 ±0.8/±0.5/0，日周双强再加0.1
func trendStrength(overall, daily, weekly TrendState) float64 {
	var base float64
	switch overall {
	case TrendStrongUp:
		base = 0.8
	case TrendWeakUp:
		base = 0.5
	case TrendWeakDown:
		base = -0.5
	case TrendStrongDown:
		base = -0.8
	}
	if daily == TrendStrongUp && weekly == TrendStrongUp {
		base += 0.1
	}
	if daily == TrendStrongDown && weekly == TrendStrongDown {
		base -= 0.1
	}
	if base > 1 {
		base = 1
	}
	if base < -1 {
		base = -1
	}
	return base
}

// trendConfidence 日周组合的置信度矩阵
func trendConfidence(daily, weekly TrendState) float64 {
	switch {
	case (daily == TrendStrongUp && weekly == TrendStrongUp) ||
		(daily == TrendStrongDown && weekly == TrendStrongDown):
		return 0.95
	case (daily == TrendStrongUp && weekly == TrendWeakUp) ||
		(daily == TrendStrongDown && weekly == TrendWeakDown):
		return 0.88
	case daily == TrendStrongUp || daily == TrendStrongDown:
		return 0.75
	case (daily == TrendWeakUp && weekly == TrendWeakUp) ||
		(daily == TrendWeakDown && weekly == TrendWeakDown):
		return 0.70
	case daily == TrendWeakUp || daily == TrendWeakDown:
		return 0.60
	case daily == TrendSide && weekly == TrendSide:
		return 0.30
	default:
		return 0.45
	}
}

// biasMultiplier 偏向乘数：放大顺势预测、抑制逆势预测
func biasMultiplier(daily, weekly TrendState) float64 {
	switch daily {
	case TrendStrongUp:
		switch {
		case weekly.IsUp():
			return 1.9
		case weekly == TrendSide:
			return 1.7
		default:
			return 1.5
		}
	case TrendWeakUp:
		switch {
		case weekly.IsUp():
			return 1.5
		case weekly == TrendSide:
			return 1.4
		default:
			return 1.2
		}
	case TrendWeakDown:
		switch {
		case weekly.IsDown():
			return 0.5
		case weekly == TrendSide:
			return 0.6
		default:
			return 0.7
		}
	case TrendStrongDown:
		switch {
		case weekly.IsDown():
			return 0.2
		case weekly == TrendSide:
			return 0.3
		default:
			return 0.4
		}
	default:
		switch weekly {
		case TrendStrongUp:
			return 1.2
		case TrendWeakUp:
			return 1.1
		case TrendWeakDown:
			return 0.9
		case TrendStrongDown:
			return 0.8
		default:
			return 1.0
		}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
