// Package forecast 预测引擎：在合成序列上逐日推进，生成确定性的多日预测
package forecast

import (
	"fmt"
	"math"
	"strings"

	"stock-forecast-engine/internal/analysis"
	"stock-forecast-engine/internal/calendar"
	"stock-forecast-engine/internal/indicator"
	"stock-forecast-engine/internal/model"
	"stock-forecast-engine/internal/scoring"
)

const (
	// 最少历史根数，低于此值无法做量价与趋势分析
	minBars = 10
	// 单日涨跌幅硬上限（百分比）
	maxDailyChange = 10.0
	// 逐日置信度衰减的下限
	confidenceFloor = 0.25
)

// Project 多日预测
//
// 每个预测日在克隆序列上重算指标与分析，按多因子评分取量价幅度区间的
// 中点乘以信号强度作为当日涨跌幅，受市场状态上限与±10%硬上限约束。
// 整个流程无随机量，相同输入得到逐位相同的输出。
func Project(s *model.Series, days int) (*model.PredictResponse, error) {
	if s == nil || s.Len() < minBars {
		return insufficientDataResponse(s, days)
	}
	if degenerate(s) {
		return degenerateResponse(s, days)
	}
	if days < 1 {
		days = 1
	}

	lastDate, err := calendar.ParseDate(s.Dates[s.Len()-1])
	if err != nil {
		return nil, fmt.Errorf("解析最后交易日失败: %w", err)
	}

	synthetic := s.Clone()
	currentDate := lastDate
	price := s.LastClose()

	predictions := make([]model.Prediction, 0, days)
	prevConfidence := 1.0
	for day := 1; day <= days; day++ {
		// 1. 在合成序列上重算指标与各维度分析
		snap := indicator.Snapshot(synthetic)
		trend := analysis.AnalyzeTrend(synthetic)
		vp := analysis.AnalyzeVolumePrice(synthetic)
		patterns := analysis.RecognizePatterns(synthetic)
		sr := analysis.AnalyzeSupportResistance(synthetic)
		div := analysis.AnalyzeDivergences(synthetic)
		regime := analysis.ClassifyRegime(synthetic)

		// 2. 多因子评分
		score := scoring.Score(&scoring.FactorInputs{
			Snapshot:    snap,
			Trend:       trend,
			VolumePrice: vp,
			Patterns:    patterns,
			SR:          sr,
			Divergence:  div,
			Regime:      regime,
		})

		// 3. 当日涨跌幅：幅度区间中点×信号强度，再套用状态上限
		change := dailyChange(score, vp, regime)

		// 4. 逐日置信度衰减：波动越大衰减越快
		decay := 0.03 + snap.ATRPercent*0.01
		confidence := score.Confidence * math.Exp(-decay*float64(day))
		if confidence < confidenceFloor {
			confidence = confidenceFloor
		}
		// 置信度随预测日推进只降不升
		if confidence > prevConfidence {
			confidence = prevConfidence
		}
		prevConfidence = confidence

		// 5. 推进到下一交易日并更新价格
		currentDate = calendar.NextTradingDay(currentDate)
		newPrice := price * (1 + change/100)

		predictions = append(predictions, model.Prediction{
			TargetDate:             calendar.FormatDate(currentDate),
			PredictedPrice:         round2(newPrice),
			PredictedChangePercent: round2(change),
			Confidence:             round2(confidence),
			TradingSignal:          score.TradingSignal,
			SignalStrength:         round2(score.SignalStrength),
			TechnicalIndicators:    snap,
			PredictionReason:       predictionReason(score, trend, regime),
			KeyFactors:             topFactors(score.ContributingFactors, 3),
			Direction:              model.DirectionFromChange(change),
		})

		// 6. 追加合成K线供下一日分析
		appendSyntheticBar(synthetic, calendar.FormatDate(currentDate), price, newPrice)
		price = newPrice
	}

	return &model.PredictResponse{
		Predictions:  predictions,
		LastRealData: lastRealData(s),
	}, nil
}

// dailyChange 当日涨跌幅计算
func dailyChange(score *scoring.MultiFactorScore, vp *analysis.VolumePriceSignal, regime *analysis.MarketRegime) float64 {
	// 多空接近的持平情形：小幅区间内取0
	if score.Direction == model.DirectionFlat {
		return 0
	}

	lo, hi := vp.ChangeBandLow, vp.ChangeBandHigh
	// 量价区间方向与评分方向相悖时，退回到评分方向的温和区间
	if score.Direction == model.DirectionUp && hi <= 0 {
		lo, hi = 0.3, 3.5
	}
	if score.Direction == model.DirectionDown && lo >= 0 {
		lo, hi = -3.5, -0.3
	}

	change := (lo + hi) / 2 * score.SignalStrength

	// 市场状态上限：趋势市±6%，震荡市±3%
	limit := 3.0
	if regime.Regime.IsTrending() {
		limit = 6.0
	}
	change = clampChange(change, limit)
	return clampChange(change, maxDailyChange)
}

// insufficientDataResponse 历史数据不足：单日持有、低置信度
func insufficientDataResponse(s *model.Series, days int) (*model.PredictResponse, error) {
	if s == nil || s.Len() == 0 {
		return nil, model.ErrInsufficientData
	}
	date, err := calendar.ParseDate(s.Dates[s.Len()-1])
	if err != nil {
		return nil, model.ErrInsufficientData
	}
	next := calendar.NextTradingDay(date)
	return &model.PredictResponse{
		Predictions: []model.Prediction{{
			TargetDate:       calendar.FormatDate(next),
			PredictedPrice:   round2(s.LastClose()),
			Confidence:       0.3,
			TradingSignal:    model.SignalHold,
			Direction:        model.DirectionFlat,
			PredictionReason: "历史数据不足，无法给出可靠预测",
			KeyFactors:       []string{"数据不足"},
		}},
		LastRealData: lastRealData(s),
	}, nil
}

// degenerateResponse 退化序列（价格无波动）：中性指标、持有
func degenerateResponse(s *model.Series, days int) (*model.PredictResponse, error) {
	date, err := calendar.ParseDate(s.Dates[s.Len()-1])
	if err != nil {
		return nil, model.ErrDegenerateSeries
	}
	if days < 1 {
		days = 1
	}
	price := s.LastClose()
	snap := indicator.Snapshot(s)

	predictions := make([]model.Prediction, 0, days)
	current := date
	for day := 1; day <= days; day++ {
		current = calendar.NextTradingDay(current)
		predictions = append(predictions, model.Prediction{
			TargetDate:          calendar.FormatDate(current),
			PredictedPrice:      round2(price),
			Confidence:          0.4,
			TradingSignal:       model.SignalHold,
			TechnicalIndicators: snap,
			Direction:           model.DirectionFlat,
			PredictionReason:    "价格序列无波动，按中性处理",
			KeyFactors:          []string{"价格无波动"},
		})
	}
	return &model.PredictResponse{
		Predictions:  predictions,
		LastRealData: lastRealData(s),
	}, nil
}

// degenerate 序列是否退化（收盘价全部相同）
func degenerate(s *model.Series) bool {
	first := s.Closes[0]
	for _, c := range s.Closes[1:] {
		if c != first {
			return false
		}
	}
	return true
}

// appendSyntheticBar 按预测价构造下一根合成K线
func appendSyntheticBar(s *model.Series, date string, open, close float64) {
	high, low := open, close
	if close > open {
		high, low = close, open
	}
	// 成交量取近5日均量，保持量能分析连续
	n := s.Len()
	var vol int64
	if n >= 5 {
		var sum int64
		for _, v := range s.Volumes[n-5:] {
			sum += v
		}
		vol = sum / 5
	} else if n > 0 {
		vol = s.Volumes[n-1]
	}
	s.Append(date, open, high*1.002, low*0.998, close, vol)
}

// predictionReason 组装预测理由
func predictionReason(score *scoring.MultiFactorScore, trend *analysis.TrendAnalysis, regime *analysis.MarketRegime) string {
	parts := []string{trend.Description, regime.Description}
	switch {
	case score.Net > 0:
		parts = append(parts, fmt.Sprintf("多头因子占优(%.1f:%.1f)", score.BullScore, score.BearScore))
	case score.Net < 0:
		parts = append(parts, fmt.Sprintf("空头因子占优(%.1f:%.1f)", score.BearScore, score.BullScore))
	default:
		parts = append(parts, "多空力量均衡")
	}
	if score.ConflictDetected {
		parts = append(parts, "存在信号冲突，置信度下调")
	}
	return strings.Join(parts, "；")
}

// topFactors 取前n个关键因子
func topFactors(factors []string, n int) []string {
	if len(factors) <= n {
		return factors
	}
	return factors[:n]
}

func lastRealData(s *model.Series) *model.LastRealData {
	if s == nil || s.Len() == 0 {
		return nil
	}
	n := s.Len()
	return &model.LastRealData{
		Date:          s.Dates[n-1],
		Price:         s.Closes[n-1],
		ChangePercent: s.ChangePercents[n-1],
	}
}

func clampChange(change, limit float64) float64 {
	if change > limit {
		return limit
	}
	if change < -limit {
		return -limit
	}
	return change
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
