package scoring

import (
	"fmt"

	"stock-forecast-engine/internal/analysis"
	"stock-forecast-engine/internal/model"
)

// FactorInputs 打分器的因子输入，由分析层各模块产出
type FactorInputs struct {
	Snapshot    *model.Snapshot
	Trend       *analysis.TrendAnalysis
	VolumePrice *analysis.VolumePriceSignal
	Patterns    []analysis.PatternHit
	SR          *analysis.SupportResistance
	Divergence  *analysis.DivergenceAnalysis
	Regime      *analysis.MarketRegime
}

// MultiFactorScore 多因子综合评分
type MultiFactorScore struct {
	BullScore           float64             `json:"bull_score"` // [0, 5]
	BearScore           float64             `json:"bear_score"` // [0, 5]
	Net                 float64             `json:"net_score"`  // [-1, 1]
	SignalStrength      float64             `json:"signal_strength"`
	Confidence          float64             `json:"confidence"`
	TradingSignal       model.TradingSignal `json:"trading_signal"`
	Direction           model.Direction     `json:"direction"`
	ContributingFactors []string            `json:"contributing_factors"`
	ConflictDetected    bool                `json:"conflict_detected"`
	FactorValues        map[string]float64  `json:"factor_values"`
}

// Score 多因子打分
//
// 每个因子折算到[-1, 1]，乘以状态权重累进多空两侧（各侧满分5）。
// 净分=(多-空)/5；|净分|≥0.7给强信号、≥0.4给普通信号；
// 多空接近（差距<0.05）时判为持平。强因子对冲时置信度打八折。
func Score(in *FactorInputs) *MultiFactorScore {
	weights := WeightsFor(in.Regime.Regime)

	factors := map[string]float64{
		"trend":      trendFactor(in.Trend),
		"momentum":   momentumFactor(in.Snapshot),
		"volume":     volumeFactor(in.VolumePrice),
		"pattern":    patternFactor(in.Patterns),
		"sr":         srFactor(in.SR, in.Regime),
		"divergence": divergenceFactor(in.Divergence),
	}
	factorWeights := map[string]float64{
		"trend":      weights.Trend,
		"momentum":   weights.Momentum,
		"volume":     weights.Volume,
		"pattern":    weights.Pattern,
		"sr":         weights.SR,
		"divergence": weights.Divergence,
	}

	// 固定因子遍历顺序：map随机序会让浮点累加顺序漂移，破坏逐位可复现
	var bull, bear float64
	for _, name := range factorOrder {
		v := factors[name]
		w := factorWeights[name]
		if v > 0 {
			bull += v * w * 5
		} else if v < 0 {
			bear += -v * w * 5
		}
	}

	result := &MultiFactorScore{
		BullScore:           bull,
		BearScore:           bear,
		Net:                 (bull - bear) / 5,
		FactorValues:        factors,
		ContributingFactors: collectFactors(in, factors),
	}
	result.SignalStrength = abs(result.Net)

	// 基础置信度：信号强度与各因子置信度的折中
	confidence := 0.5 + result.SignalStrength*0.4
	if in.Trend != nil {
		confidence = confidence*0.7 + in.Trend.Confidence*0.3
	}

	// 强因子对冲：两个方向相反且合计幅度超过0.4的因子并存
	if conflict, desc := detectConflict(factors); conflict {
		result.ConflictDetected = true
		result.ContributingFactors = append(result.ContributingFactors, desc)
		confidence *= 0.8
	}
	result.Confidence = clamp(confidence, 0.25, 0.95)

	switch {
	case abs(bull-bear) < 0.05:
		result.Direction = model.DirectionFlat
		result.TradingSignal = model.SignalHold
	case result.Net >= 0.7:
		result.Direction = model.DirectionUp
		result.TradingSignal = model.SignalStrongBuy
	case result.Net >= 0.4:
		result.Direction = model.DirectionUp
		result.TradingSignal = model.SignalBuy
	case result.Net <= -0.7:
		result.Direction = model.DirectionDown
		result.TradingSignal = model.SignalStrongSell
	case result.Net <= -0.4:
		result.Direction = model.DirectionDown
		result.TradingSignal = model.SignalSell
	case result.Net > 0:
		result.Direction = model.DirectionUp
		result.TradingSignal = model.SignalHold
	case result.Net < 0:
		result.Direction = model.DirectionDown
		result.TradingSignal = model.SignalHold
	default:
		result.Direction = model.DirectionFlat
		result.TradingSignal = model.SignalHold
	}

	return result
}

// trendFactor 趋势因子：综合强度为主，日线强趋势再做加权
func trendFactor(t *analysis.TrendAnalysis) float64 {
	if t == nil {
		return 0
	}
	v := t.Strength
	switch t.Daily {
	case analysis.TrendStrongUp:
		v = v*0.7 + 0.8*0.3
	case analysis.TrendStrongDown:
		v = v*0.7 - 0.8*0.3
	}
	return clamp(v, -1, 1)
}

// momentumFactor 动量因子：MACD交叉、柱状图、RSI偏离中轴、ROC共识的加权和
func momentumFactor(snap *model.Snapshot) float64 {
	if snap == nil {
		return 0
	}
	m := 0.0
	switch {
	case snap.MACDGoldenCross:
		m += 0.3
	case snap.MACDDeathCross:
		m -= 0.3
	}
	switch {
	case snap.MACDHistogram > 0:
		m += 0.2
	case snap.MACDHistogram < 0:
		m -= 0.2
	}
	switch {
	case snap.MACDDif > 0:
		m += 0.15
	case snap.MACDDif < 0:
		m -= 0.15
	}
	m += (snap.RSI - 50) / 50 * 0.25
	m += snap.ROCConsensus * 0.25
	switch {
	case snap.KDJGoldenCross:
		m += 0.1
	case snap.KDJDeathCross:
		m -= 0.1
	}
	return clamp(m, -1, 1)
}

// volumeFactor 量价因子：方向乘以置信度
func volumeFactor(vp *analysis.VolumePriceSignal) float64 {
	if vp == nil {
		return 0
	}
	switch vp.Direction {
	case model.DirectionUp:
		return clamp(vp.Confidence, 0, 1)
	case model.DirectionDown:
		return -clamp(vp.Confidence, 0, 1)
	default:
		return 0
	}
}

// patternFactor 形态因子：近期命中形态按多空累加强度
func patternFactor(hits []analysis.PatternHit) float64 {
	v := 0.0
	for _, h := range hits {
		if h.Bullish {
			v += h.Strength
		} else {
			v -= h.Strength * 0.6 // 中性偏空形态（十字星等）弱化处理
		}
	}
	return clamp(v, -1, 1)
}

// srFactor 支撑压力因子：贴近支撑偏多、贴近压力偏空，突破状态顺势加成
func srFactor(sr *analysis.SupportResistance, regime *analysis.MarketRegime) float64 {
	if sr == nil {
		return 0
	}
	v := 0.0
	switch sr.PositionTag {
	case analysis.TagNearSupport:
		v = 0.6
	case analysis.TagNearResistance:
		v = -0.6
	}
	if regime != nil && regime.Regime == analysis.RegimeBreakout {
		if regime.TrendStrength > 0 {
			v += 0.3
		} else if regime.TrendStrength < 0 {
			v -= 0.3
		}
	}
	return clamp(v, -1, 1)
}

// divergenceFactor 背离因子即综合背离分
func divergenceFactor(d *analysis.DivergenceAnalysis) float64 {
	if d == nil {
		return 0
	}
	return clamp(d.CompositeScore, -1, 1)
}

// collectFactors 汇总关键因子描述，供预测理由展示
func collectFactors(in *FactorInputs, factors map[string]float64) []string {
	var out []string
	if in.Snapshot != nil {
		if in.Snapshot.MACDGoldenCross {
			out = append(out, "MACD金叉")
		}
		if in.Snapshot.MACDDeathCross {
			out = append(out, "MACD死叉")
		}
		if in.Snapshot.KDJGoldenCross {
			out = append(out, "KDJ金叉")
		}
		if in.Snapshot.KDJDeathCross {
			out = append(out, "KDJ死叉")
		}
		if in.Snapshot.KDJOverbought {
			out = append(out, "KDJ超买")
		}
		if in.Snapshot.KDJOversold {
			out = append(out, "KDJ超卖")
		}
	}
	if in.Trend != nil && in.Trend.Overall != analysis.TrendSide {
		out = append(out, fmt.Sprintf("趋势%s", in.Trend.Overall.String()))
	}
	if in.VolumePrice != nil {
		out = append(out, in.VolumePrice.KeyFactors...)
	}
	for _, h := range in.Patterns {
		out = append(out, h.Name)
	}
	if in.SR != nil && (in.SR.PositionTag == analysis.TagNearSupport || in.SR.PositionTag == analysis.TagNearResistance) {
		out = append(out, in.SR.PositionTag)
	}
	if in.Divergence != nil && in.Divergence.HasDivergence {
		if factors["divergence"] > 0 {
			out = append(out, "底背离信号")
		} else if factors["divergence"] < 0 {
			out = append(out, "顶背离信号")
		}
	}
	return out
}

// factorOrder 因子固定遍历顺序，累加与冲突检测共用
var factorOrder = []string{"trend", "momentum", "volume", "pattern", "sr", "divergence"}

// detectConflict 检测方向相反且合计幅度超过0.4的因子对
func detectConflict(factors map[string]float64) (bool, string) {
	names := factorOrder
	labels := map[string]string{
		"trend":      "趋势",
		"momentum":   "动量",
		"volume":     "量价",
		"pattern":    "形态",
		"sr":         "支撑压力",
		"divergence": "背离",
	}
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			a, b := factors[names[i]], factors[names[j]]
			if a*b < 0 && abs(a)+abs(b) > 0.4 {
				return true, fmt.Sprintf("%s与%s信号冲突", labels[names[i]], labels[names[j]])
			}
		}
	}
	return false, ""
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
