package forecast

import (
	"reflect"
	"testing"

	"stock-forecast-engine/internal/calendar"
	"stock-forecast-engine/internal/model"
)

// buildSeries 从收盘价和成交量构造日线序列，日期从2024-03-01起逐个交易日推进
func buildSeries(closes []float64, volumes []int64) *model.Series {
	s := &model.Series{}
	date, _ := calendar.ParseDate("2024-03-01")
	for i, c := range closes {
		open := c - 1
		if i > 0 {
			open = closes[i-1]
		}
		high := max(open, c) + 0.3
		low := min(open, c) - 0.3
		s.Append(calendar.FormatDate(date), open, high, low, c, volumes[i])
		date = calendar.NextTradingDay(date)
	}
	return s
}

func risingScenario() *model.Series {
	closes := make([]float64, 20)
	volumes := make([]int64, 20)
	for i := range closes {
		closes[i] = float64(10 + i)
		volumes[i] = int64(1000 * (i + 1))
	}
	return buildSeries(closes, volumes)
}

func fallingScenario() *model.Series {
	closes := make([]float64, 20)
	volumes := make([]int64, 20)
	for i := range closes {
		closes[i] = float64(29 - i)
		volumes[i] = int64(1000 * (i + 1))
	}
	return buildSeries(closes, volumes)
}

func flatScenario() *model.Series {
	closes := make([]float64, 30)
	volumes := make([]int64, 30)
	for i := range closes {
		closes[i] = 10
		volumes[i] = 1_000_000
	}
	return buildSeries(closes, volumes)
}

func TestProjectRisingScenario(t *testing.T) {
	resp, err := Project(risingScenario(), 1)
	if err != nil {
		t.Fatalf("Project失败: %v", err)
	}
	if len(resp.Predictions) != 1 {
		t.Fatalf("应返回1日预测, got %d", len(resp.Predictions))
	}
	p := resp.Predictions[0]
	if p.PredictedChangePercent <= 0 {
		t.Fatalf("连续上涨序列预测涨跌幅应为正, got %f", p.PredictedChangePercent)
	}
	if p.TradingSignal != model.SignalBuy && p.TradingSignal != model.SignalStrongBuy {
		t.Fatalf("连续上涨序列应给出买入类信号, got %s", p.TradingSignal)
	}
	if p.TechnicalIndicators == nil || p.TechnicalIndicators.MACDDif <= 0 {
		t.Fatalf("连续上涨序列MACD DIF应为正")
	}
}

func TestProjectFallingScenario(t *testing.T) {
	resp, err := Project(fallingScenario(), 1)
	if err != nil {
		t.Fatalf("Project失败: %v", err)
	}
	p := resp.Predictions[0]
	if p.TradingSignal != model.SignalSell && p.TradingSignal != model.SignalStrongSell {
		t.Fatalf("连续下跌序列应给出卖出类信号, got %s", p.TradingSignal)
	}
	if p.TechnicalIndicators.RSI >= 30 {
		t.Fatalf("连续下跌序列RSI应低于30, got %f", p.TechnicalIndicators.RSI)
	}
}

func TestProjectFlatScenario(t *testing.T) {
	resp, err := Project(flatScenario(), 1)
	if err != nil {
		t.Fatalf("Project失败: %v", err)
	}
	p := resp.Predictions[0]
	if p.TradingSignal != model.SignalHold {
		t.Fatalf("横盘序列应给出持有信号, got %s", p.TradingSignal)
	}
	if p.Confidence != 0.4 {
		t.Fatalf("退化序列置信度应为0.4, got %f", p.Confidence)
	}
	if p.PredictedChangePercent < -0.5 || p.PredictedChangePercent > 0.5 {
		t.Fatalf("横盘序列预测涨跌幅应在[-0.5, 0.5], got %f", p.PredictedChangePercent)
	}
}

func TestProjectDeterministic(t *testing.T) {
	// 多次重复执行：舍入不能掩盖累加顺序带来的末位漂移
	first, err := Project(risingScenario(), 5)
	if err != nil {
		t.Fatalf("Project失败: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := Project(risingScenario(), 5)
		if err != nil {
			t.Fatalf("Project失败: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("第%d次预测与首次不一致，相同输入应得到逐位相同的预测", i+1)
		}
	}
}

func TestProjectChangeClamped(t *testing.T) {
	resp, err := Project(risingScenario(), 10)
	if err != nil {
		t.Fatalf("Project失败: %v", err)
	}
	for _, p := range resp.Predictions {
		if p.PredictedChangePercent < -10 || p.PredictedChangePercent > 10 {
			t.Fatalf("单日涨跌幅越界: %f", p.PredictedChangePercent)
		}
	}
}

func TestProjectConfidenceMonotone(t *testing.T) {
	resp, err := Project(risingScenario(), 10)
	if err != nil {
		t.Fatalf("Project失败: %v", err)
	}
	prev := 1.0
	for i, p := range resp.Predictions {
		if p.Confidence > prev {
			t.Fatalf("第%d日置信度回升: %f > %f", i+1, p.Confidence, prev)
		}
		if p.Confidence < 0.25 {
			t.Fatalf("置信度低于下限: %f", p.Confidence)
		}
		prev = p.Confidence
	}
}

func TestProjectTargetDatesAreTradingDays(t *testing.T) {
	resp, err := Project(risingScenario(), 5)
	if err != nil {
		t.Fatalf("Project失败: %v", err)
	}
	var last string
	for _, p := range resp.Predictions {
		date, err := calendar.ParseDate(p.TargetDate)
		if err != nil {
			t.Fatalf("目标日期格式错误: %s", p.TargetDate)
		}
		if !calendar.IsTradingDay(date) {
			t.Fatalf("目标日期不是交易日: %s", p.TargetDate)
		}
		if p.TargetDate <= last {
			t.Fatalf("目标日期应严格递增: %s <= %s", p.TargetDate, last)
		}
		last = p.TargetDate
	}
}

func TestProjectInsufficientData(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 14}
	volumes := []int64{1000, 1000, 1000, 1000, 1000}
	resp, err := Project(buildSeries(closes, volumes), 3)
	if err != nil {
		t.Fatalf("数据不足应降级而非报错: %v", err)
	}
	if len(resp.Predictions) != 1 {
		t.Fatalf("数据不足应返回单日预测, got %d", len(resp.Predictions))
	}
	p := resp.Predictions[0]
	if p.TradingSignal != model.SignalHold || p.Confidence != 0.3 {
		t.Fatalf("数据不足应为持有/0.3, got %s/%f", p.TradingSignal, p.Confidence)
	}
}

func TestProjectNilSeries(t *testing.T) {
	if _, err := Project(nil, 1); err == nil {
		t.Fatalf("空序列应报错")
	}
}

func TestProfessionalProjectRising(t *testing.T) {
	resp, err := ProfessionalProject(risingScenario(), 3)
	if err != nil {
		t.Fatalf("ProfessionalProject失败: %v", err)
	}
	if resp.CurrentAdvice == "" {
		t.Fatalf("应给出操作建议")
	}
	if resp.RiskLevel == "" {
		t.Fatalf("应给出风险档位")
	}
	if len(resp.SellPoints) == 0 {
		t.Fatalf("上涨序列应给出压力位或止盈卖点")
	}
	if len(resp.Predictions) != 3 {
		t.Fatalf("应返回3日预测, got %d", len(resp.Predictions))
	}
}

func TestConfirmationLevels(t *testing.T) {
	cases := []struct {
		aligned, strong int
		want            string
	}{
		{5, 4, "强确认"},
		{3, 2, "中等确认"},
		{2, 1, "弱确认"},
		{1, 0, "无确认"},
	}
	for _, c := range cases {
		got, _ := confirmationLevel(c.aligned, c.strong)
		if got != c.want {
			t.Fatalf("confirmationLevel(%d, %d) = %s, want %s", c.aligned, c.strong, got, c.want)
		}
	}
}

func TestStrategySignalThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  model.TradingSignal
	}{
		{0.7, model.SignalStrongBuy},
		{0.4, model.SignalBuy},
		{0.1, model.SignalHold},
		{-0.1, model.SignalHold},
		{-0.4, model.SignalSell},
		{-0.7, model.SignalStrongSell},
	}
	for _, c := range cases {
		if got := strategySignalFor(c.score); got != c.want {
			t.Fatalf("strategySignalFor(%f) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestMultiTimeframeRising(t *testing.T) {
	closes := make([]float64, 120)
	volumes := make([]int64, 120)
	price := 10.0
	for i := range closes {
		price *= 1.008
		closes[i] = price
		volumes[i] = 1_000_000
	}
	result, err := MultiTimeframeSignals(buildSeries(closes, volumes))
	if err != nil {
		t.Fatalf("MultiTimeframeSignals失败: %v", err)
	}
	if !result.Resonance || result.Direction != model.DirectionUp {
		t.Fatalf("长期上涨序列应出现向上共振, got %+v", result)
	}
}

func TestMultiTimeframeInsufficient(t *testing.T) {
	closes := []float64{10, 11, 12}
	volumes := []int64{1000, 1000, 1000}
	if _, err := MultiTimeframeSignals(buildSeries(closes, volumes)); err == nil {
		t.Fatalf("数据不足应报错")
	}
}
