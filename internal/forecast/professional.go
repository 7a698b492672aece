package forecast

import (
	"fmt"

	"stock-forecast-engine/internal/analysis"
	"stock-forecast-engine/internal/indicator"
	"stock-forecast-engine/internal/model"
	"stock-forecast-engine/internal/risk"
)

// strategySignal 专业策略的单路信号
type strategySignal struct {
	name      string
	direction float64 // +1看多 -1看空 0中性
	strength  float64 // [0, 1]
	weight    float64
}

// ProfessionalProject 专业策略预测
//
// 在多日预测之上叠加六路加权信号（趋势、MACD、量价、摆动指标、
// 支撑压力、形态），用确认级别修正置信度，并给出买卖点与风险评估。
func ProfessionalProject(s *model.Series, days int) (*model.ProfessionalResponse, error) {
	base, err := Project(s, days)
	if err != nil {
		return nil, err
	}
	resp := &model.ProfessionalResponse{PredictResponse: *base}
	if s == nil || s.Len() < minBars {
		resp.CurrentAdvice = "历史数据不足，建议观望"
		resp.RiskLevel = "未知"
		return resp, nil
	}

	snap := indicator.Snapshot(s)
	trend := analysis.AnalyzeTrend(s)
	vp := analysis.AnalyzeVolumePrice(s)
	sr := analysis.AnalyzeSupportResistance(s)
	div := analysis.AnalyzeDivergences(s)
	patterns := analysis.RecognizePatterns(s)

	signals := collectStrategySignals(snap, trend, vp, sr, patterns)
	score := weightedSignalScore(signals)

	// 背离按综合分修正：顶背离压低、底背离抬高
	score += 0.2 * div.CompositeScore
	score = clampChange(score, 1)

	aligned, strongAligned := countAligned(signals, score)
	confirmation, multiplier := confirmationLevel(aligned, strongAligned)

	confidence := 0.5 + abs(score)*0.4*multiplier
	if confidence < 0.25 {
		confidence = 0.25
	}
	if confidence > 0.92 {
		confidence = 0.92
	}

	entry := s.LastClose()
	metrics := risk.Assess(s, days, entry)

	resp.BuyPoints = buyPoints(sr, metrics, entry)
	resp.SellPoints = sellPoints(sr, metrics, entry)
	resp.CurrentAdvice = advice(score, confirmation, confidence)
	resp.RiskLevel = metrics.RiskLevel

	// 专业策略的信号方向覆盖基础预测的首日信号
	if len(resp.Predictions) > 0 {
		resp.Predictions[0].TradingSignal = strategySignalFor(score)
		resp.Predictions[0].Confidence = round2(confidence)
	}
	return resp, nil
}

// collectStrategySignals 六路信号采集
func collectStrategySignals(snap *model.Snapshot, trend *analysis.TrendAnalysis,
	vp *analysis.VolumePriceSignal, sr *analysis.SupportResistance,
	patterns []analysis.PatternHit) []strategySignal {

	signals := make([]strategySignal, 0, 6)

	// 1. 趋势（权重0.25）
	trendDir, trendStrength := 0.0, 0.0
	if trend.Overall.IsUp() {
		trendDir, trendStrength = 1, trend.Intensity
	} else if trend.Overall.IsDown() {
		trendDir, trendStrength = -1, trend.Intensity
	}
	signals = append(signals, strategySignal{"趋势", trendDir, trendStrength, 0.25})

	// 2. MACD动量（权重0.20）
	macdDir, macdStrength := 0.0, 0.5
	switch {
	case snap.MACDGoldenCross:
		macdDir, macdStrength = 1, 0.9
	case snap.MACDDeathCross:
		macdDir, macdStrength = -1, 0.9
	case snap.MACDHistogram > 0:
		macdDir, macdStrength = 1, 0.6
	case snap.MACDHistogram < 0:
		macdDir, macdStrength = -1, 0.6
	case snap.MACDDif > 0:
		macdDir, macdStrength = 1, 0.4
	case snap.MACDDif < 0:
		macdDir, macdStrength = -1, 0.4
	}
	signals = append(signals, strategySignal{"MACD", macdDir, macdStrength, 0.20})

	// 3. 量价（权重0.18）
	vpDir := 0.0
	if vp.Direction == model.DirectionUp {
		vpDir = 1
	} else if vp.Direction == model.DirectionDown {
		vpDir = -1
	}
	signals = append(signals, strategySignal{"量价", vpDir, vp.Confidence, 0.18})

	// 4. 摆动指标 KDJ/RSI（权重0.15）
	oscDir, oscStrength := 0.0, 0.5
	switch {
	case snap.KDJOversold || snap.RSI < 30:
		oscDir, oscStrength = 1, 0.7
	case snap.KDJOverbought || snap.RSI > 70:
		oscDir, oscStrength = -1, 0.7
	case snap.KDJGoldenCross:
		oscDir, oscStrength = 1, 0.6
	case snap.KDJDeathCross:
		oscDir, oscStrength = -1, 0.6
	}
	signals = append(signals, strategySignal{"摆动指标", oscDir, oscStrength, 0.15})

	// 5. 支撑压力（权重0.12）
	srDir, srStrength := 0.0, 0.5
	switch sr.PositionTag {
	case analysis.TagNearSupport:
		srDir, srStrength = 1, 0.7
	case analysis.TagNearResistance:
		srDir, srStrength = -1, 0.7
	}
	signals = append(signals, strategySignal{"支撑压力", srDir, srStrength, 0.12})

	// 6. 形态（权重0.10）
	patDir, patStrength := 0.0, 0.0
	for _, h := range patterns {
		if h.Bullish {
			patDir += h.Strength
		} else {
			patDir -= h.Strength
		}
	}
	if patDir > 0 {
		patStrength, patDir = clampChange(patDir, 1), 1
	} else if patDir < 0 {
		patStrength, patDir = clampChange(-patDir, 1), -1
	}
	signals = append(signals, strategySignal{"形态", patDir, patStrength, 0.10})

	return signals
}

// weightedSignalScore 加权信号合成，输出[-1, 1]
func weightedSignalScore(signals []strategySignal) float64 {
	var sum, weightSum float64
	for _, sig := range signals {
		sum += sig.direction * sig.strength * sig.weight
		weightSum += sig.weight
	}
	if weightSum == 0 {
		return 0
	}
	return sum / weightSum
}

// countAligned 与综合方向一致的信号数及其中的强信号数
func countAligned(signals []strategySignal, score float64) (aligned, strongAligned int) {
	if score == 0 {
		return 0, 0
	}
	for _, sig := range signals {
		if sig.direction*score > 0 {
			aligned++
			if sig.strength >= 0.6 {
				strongAligned++
			}
		}
	}
	return aligned, strongAligned
}

// confirmationLevel 确认级别：一致信号越多、越强，置信度加成越高
func confirmationLevel(aligned, strongAligned int) (string, float64) {
	switch {
	case aligned >= 4 && strongAligned >= 3:
		return "强确认", 1.2
	case aligned >= 3 && strongAligned >= 2:
		return "中等确认", 1.0
	case aligned >= 2 && strongAligned >= 1:
		return "弱确认", 0.8
	default:
		return "无确认", 0.6
	}
}

// strategySignalFor 专业策略的方向阈值：±0.6强信号、±0.25普通信号
func strategySignalFor(score float64) model.TradingSignal {
	switch {
	case score > 0.6:
		return model.SignalStrongBuy
	case score > 0.25:
		return model.SignalBuy
	case score < -0.6:
		return model.SignalStrongSell
	case score < -0.25:
		return model.SignalSell
	default:
		return model.SignalHold
	}
}

// buyPoints 买点：最近两档支撑位加风控止损位
func buyPoints(sr *analysis.SupportResistance, metrics *risk.Metrics, entry float64) []model.TradePoint {
	var points []model.TradePoint
	for i, level := range sr.Supports {
		if i >= 2 {
			break
		}
		points = append(points, model.TradePoint{
			Price:  round2(level),
			Reason: fmt.Sprintf("第%d支撑位回踩买入", i+1),
		})
	}
	if metrics.StopLoss > 0 && metrics.StopLoss < entry {
		points = append(points, model.TradePoint{
			Price:  round2(metrics.StopLoss),
			Reason: "止损参考位，跌破离场",
		})
	}
	return points
}

// sellPoints 卖点：最近两档压力位加三档止盈中的首档
func sellPoints(sr *analysis.SupportResistance, metrics *risk.Metrics, entry float64) []model.TradePoint {
	var points []model.TradePoint
	for i, level := range sr.Resistances {
		if i >= 2 {
			break
		}
		points = append(points, model.TradePoint{
			Price:  round2(level),
			Reason: fmt.Sprintf("第%d压力位减仓", i+1),
		})
	}
	if len(metrics.TakeProfits) > 0 && metrics.TakeProfits[0] > entry {
		points = append(points, model.TradePoint{
			Price:  round2(metrics.TakeProfits[0]),
			Reason: "首档止盈位",
		})
	}
	return points
}

// advice 当前操作建议
func advice(score float64, confirmation string, confidence float64) string {
	var action string
	switch {
	case score > 0.6:
		action = "积极买入"
	case score > 0.25:
		action = "逢低买入"
	case score < -0.6:
		action = "果断减仓"
	case score < -0.25:
		action = "逢高减仓"
	default:
		action = "持有观望"
	}
	return fmt.Sprintf("%s（%s，置信度%.0f%%）", action, confirmation, confidence*100)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
