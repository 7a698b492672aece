package forecast

import (
	"stock-forecast-engine/internal/indicator"
	"stock-forecast-engine/internal/model"
)

// TimeframeSignal 单周期信号
type TimeframeSignal struct {
	Timeframe     string              `json:"timeframe"`
	TradingSignal model.TradingSignal `json:"trading_signal"`
	Direction     model.Direction     `json:"direction"`
	MACDDif       float64             `json:"macd_dif"`
	MACDHistogram float64             `json:"macd_histogram"`
	RSI           float64             `json:"rsi"`
	Trend         string              `json:"trend"`
}

// MultiTimeframeResult 多周期共振结果
type MultiTimeframeResult struct {
	Daily     *TimeframeSignal `json:"daily"`
	Weekly    *TimeframeSignal `json:"weekly"`
	Monthly   *TimeframeSignal `json:"monthly"`
	Resonance bool             `json:"resonance"`
	Direction model.Direction  `json:"resonance_direction"`
	Advice    string           `json:"advice"`
}

// MultiTimeframeSignals 日线、周线（5日重采样）、月线（20日重采样）三周期信号
//
// 至少两个周期方向一致判为共振。
func MultiTimeframeSignals(s *model.Series) (*MultiTimeframeResult, error) {
	if s == nil || s.Len() < minBars {
		return nil, model.ErrInsufficientData
	}

	daily := timeframeSignal("日线", s.Closes)
	weekly := timeframeSignal("周线", resample(s.Closes, 5))
	monthly := timeframeSignal("月线", resample(s.Closes, 20))

	result := &MultiTimeframeResult{
		Daily:     daily,
		Weekly:    weekly,
		Monthly:   monthly,
		Direction: model.DirectionFlat,
	}

	up, down := 0, 0
	for _, tf := range []*TimeframeSignal{daily, weekly, monthly} {
		switch tf.Direction {
		case model.DirectionUp:
			up++
		case model.DirectionDown:
			down++
		}
	}
	switch {
	case up >= 2:
		result.Resonance = true
		result.Direction = model.DirectionUp
		result.Advice = "多周期向上共振，顺势做多"
	case down >= 2:
		result.Resonance = true
		result.Direction = model.DirectionDown
		result.Advice = "多周期向下共振，注意回避"
	default:
		result.Advice = "周期间方向分歧，建议观望"
	}
	return result, nil
}

// timeframeSignal 单周期信号：MACD方向为主，RSI极值修正
func timeframeSignal(name string, closes []float64) *TimeframeSignal {
	sig := &TimeframeSignal{
		Timeframe:     name,
		TradingSignal: model.SignalHold,
		Direction:     model.DirectionFlat,
		RSI:           50,
		Trend:         "震荡",
	}
	if len(closes) < 5 {
		return sig
	}

	dif, _, hist := indicator.MACD(closes)
	sig.MACDDif = dif
	sig.MACDHistogram = hist
	if len(closes) >= 15 {
		sig.RSI = indicator.RSI(closes)
	}
	slope := indicator.RecentTrend(closes, min(len(closes), 10))

	switch {
	case dif > 0 && hist >= 0 && slope > 0:
		sig.Direction = model.DirectionUp
		sig.Trend = "上涨"
		sig.TradingSignal = model.SignalBuy
		if sig.RSI > 70 {
			sig.TradingSignal = model.SignalHold // 超买区不追高
		}
	case dif < 0 && hist <= 0 && slope < 0:
		sig.Direction = model.DirectionDown
		sig.Trend = "下跌"
		sig.TradingSignal = model.SignalSell
		if sig.RSI < 30 {
			sig.TradingSignal = model.SignalHold // 超卖区不杀跌
		}
	}
	return sig
}

// resample 按step取每段最后一根收盘价
func resample(closes []float64, step int) []float64 {
	if step <= 1 || len(closes) < step {
		return closes
	}
	out := make([]float64, 0, len(closes)/step)
	for i := step - 1; i < len(closes); i += step {
		out = append(out, closes[i])
	}
	return out
}
