package analysis

import (
	"stock-forecast-engine/internal/indicator"
	"stock-forecast-engine/internal/model"
)

// Regime 市场状态
type Regime string

const (
	RegimeTrending      Regime = "Trending"
	RegimeRanging       Regime = "Ranging"
	RegimeBreakout      Regime = "Breakout"
	RegimeConsolidation Regime = "Consolidation"
)

// IsTrending 趋势性状态（突破视为趋势的起点）
func (r Regime) IsTrending() bool { return r == RegimeTrending || r == RegimeBreakout }

// VolatilityLevel 波动率水平
type VolatilityLevel string

const (
	VolatilityLow     VolatilityLevel = "Low"
	VolatilityNormal  VolatilityLevel = "Normal"
	VolatilityHigh    VolatilityLevel = "High"
	VolatilityExtreme VolatilityLevel = "Extreme"
)

// AdjustmentFactor 波动率对预测幅度的调节系数
func (v VolatilityLevel) AdjustmentFactor() float64 {
	switch v {
	case VolatilityLow:
		return 0.8
	case VolatilityHigh:
		return 1.3
	case VolatilityExtreme:
		return 1.6
	default:
		return 1.0
	}
}

// MarketRegime 市场状态分析结果
type MarketRegime struct {
	Regime              Regime          `json:"regime"`
	Volatility          VolatilityLevel `json:"volatility"`
	ADX                 float64         `json:"adx"`
	ATRPercent          float64         `json:"atr_pct"`
	BollingerWidthPct   float64         `json:"bollinger_width_pct"`
	TrendStrength       float64         `json:"trend_strength"` // 带符号
	Confidence          float64         `json:"confidence"`
	Description         string          `json:"description"`
}

// ClassifyRegime 市场状态分类
//
// ADX>25判定为趋势市；价格带量冲出60日区间边缘判定为突破；
// 布林带宽收窄且区间极小判定为盘整；其余为震荡。
func ClassifyRegime(s *model.Series) *MarketRegime {
	n := s.Len()
	closes, highs, lows, volumes := s.Closes, s.Highs, s.Lows, s.Volumes

	atrPct := indicator.ATRPercent(highs, lows, closes, 14)
	upper, middle, lower := indicator.Bollinger(closes, 20, 2)
	bollWidth := indicator.BollingerWidthPercent(upper, middle, lower)
	plusDI, minusDI, adx := indicator.DMI(highs, lows, closes, 14)

	volatility := volatilityLevel(atrPct)

	result := &MarketRegime{
		ADX:               adx,
		ATRPercent:        atrPct,
		BollingerWidthPct: bollWidth,
		Volatility:        volatility,
	}

	if n < 20 {
		result.Regime = RegimeRanging
		result.Confidence = 0.3
		result.Description = "数据不足，默认震荡"
		return result
	}

	// 趋势方向：+DI与−DI的相对强弱
	direction := 1.0
	if minusDI > plusDI {
		direction = -1.0
	}
	result.TrendStrength = direction * minClamp(adx/50, 1)

	lookback := 60
	if n < lookback {
		lookback = n
	}
	recentHigh := maxOf(highs[n-lookback : n-1])
	recentLow := minOf(lows[n-lookback : n-1])
	current := closes[n-1]

	var vol5 float64
	if n >= 6 {
		for _, v := range volumes[n-6 : n-1] {
			vol5 += float64(v)
		}
		vol5 /= 5
	}
	volumeRatio := 1.0
	if vol5 > 0 {
		volumeRatio = float64(volumes[n-1]) / vol5
	}

	switch {
	case lookback > 2 && (IsBreakout(current, recentHigh, volumeRatio) || IsBreakdown(current, recentLow, volumeRatio)):
		result.Regime = RegimeBreakout
		result.Confidence = 0.70
		result.Description = "放量突破近期区间"
	case adx > 25:
		result.Regime = RegimeTrending
		result.Confidence = 0.75
		if adx > 35 {
			result.Confidence = 0.85
		}
		result.Description = "趋势市"
	case bollWidth < 5 && atrPct < 1.5:
		result.Regime = RegimeConsolidation
		result.Confidence = 0.65
		result.Description = "窄幅盘整"
	default:
		result.Regime = RegimeRanging
		result.Confidence = 0.65
		result.Description = "区间震荡"
	}

	return result
}

// volatilityLevel 按ATR%划分波动率档位
func volatilityLevel(atrPct float64) VolatilityLevel {
	switch {
	case atrPct < 1:
		return VolatilityLow
	case atrPct < 3:
		return VolatilityNormal
	case atrPct < 5:
		return VolatilityHigh
	default:
		return VolatilityExtreme
	}
}

func minClamp(v, hi float64) float64 {
	if v > hi {
		return hi
	}
	return v
}
