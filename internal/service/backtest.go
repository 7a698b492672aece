package service

import (
	"stock-forecast-engine/internal/forecast"
	"stock-forecast-engine/internal/model"
)

// BacktestPoint 单次回测样本
type BacktestPoint struct {
	Date            string              `json:"date"`
	PredictedChange float64             `json:"predicted_change"`
	ActualChange    float64             `json:"actual_change"`
	Signal          model.TradingSignal `json:"signal"`
	DirectionHit    bool                `json:"direction_hit"`
}

// BacktestResult 区间回测汇总
type BacktestResult struct {
	Points     []BacktestPoint `json:"points"`
	Evaluation *Evaluation     `json:"evaluation"`
}

// Backtest 滚动回测
//
// 从window根历史起，每隔step根用截至当日的数据重新预测horizon日，
// 与实际走势对比。整个过程只依赖确定性预测，结果可复现。
func Backtest(bars []model.Bar, window, horizon, step int) (*BacktestResult, error) {
	if window < 10 {
		window = 10
	}
	if horizon < 1 {
		horizon = 1
	}
	if step < 1 {
		step = horizon
	}
	if len(bars) < window+horizon {
		return nil, model.ErrInsufficientData
	}

	full := model.NewSeries(bars)
	actualByDate := make(map[string]int, full.Len())
	for i, d := range full.Dates {
		actualByDate[d] = i
	}

	result := &BacktestResult{}
	var predictions []model.Prediction

	for i := window; i+horizon <= len(bars); i += step {
		resp, err := forecast.Project(model.NewSeries(bars[:i]), horizon)
		if err != nil {
			return nil, err
		}
		if len(resp.Predictions) == 0 {
			continue
		}
		p := resp.Predictions[len(resp.Predictions)-1]
		predictions = append(predictions, p)

		idx, ok := actualByDate[p.TargetDate]
		if !ok {
			continue
		}
		actualChange := cumulativeChange(full.Closes, i-1, idx)
		result.Points = append(result.Points, BacktestPoint{
			Date:            p.TargetDate,
			PredictedChange: p.PredictedChangePercent,
			ActualChange:    actualChange,
			Signal:          p.TradingSignal,
			DirectionHit:    model.DirectionFromChange(actualChange) == p.Direction,
		})
	}

	result.Evaluation = Evaluate(predictions, full)
	return result, nil
}

// BacktestSymbol 对指定股票的本地历史做滚动回测
func (s *Service) BacktestSymbol(stockCode string, window, horizon, step int) (*BacktestResult, error) {
	bars, err := s.loadBars(stockCode)
	if err != nil {
		return nil, err
	}
	return Backtest(bars, window, horizon, step)
}

// EvaluateSymbol 用滚动回测给出指定股票的预测准确率
func (s *Service) EvaluateSymbol(stockCode string, horizon int) (*Evaluation, error) {
	result, err := s.BacktestSymbol(stockCode, 60, horizon, horizon)
	if err != nil {
		return nil, err
	}
	return result.Evaluation, nil
}

// cumulativeChange 从from到to的累计涨跌幅（百分比）
func cumulativeChange(closes []float64, from, to int) float64 {
	if from < 0 || to >= len(closes) || closes[from] == 0 {
		return 0
	}
	return (closes[to] - closes[from]) / closes[from] * 100
}
