package analysis

import (
	"fmt"
	"testing"

	"stock-forecast-engine/internal/model"
)

func risingSeries(n int, start, dailyPct float64) *model.Series {
	s := &model.Series{}
	price := start
	for i := 0; i < n; i++ {
		next := price * (1 + dailyPct/100)
		s.Append(fmt.Sprintf("2024-01-%02d", i+1), price, next*1.005, price*0.995, next, 1_000_000)
		price = next
	}
	return s
}

func fallingSeries(n int, start, dailyPct float64) *model.Series {
	return risingSeries(n, start, -dailyPct)
}

func flatSeries(n int, price float64) *model.Series {
	s := &model.Series{}
	for i := 0; i < n; i++ {
		s.Append(fmt.Sprintf("2024-01-%02d", i+1), price, price, price, price, 1_000_000)
	}
	return s
}

func TestAnalyzeTrendRising(t *testing.T) {
	trend := AnalyzeTrend(risingSeries(40, 10, 1))
	if !trend.Daily.IsUp() {
		t.Fatalf("持续上涨序列日线趋势应偏多, got %s", trend.Daily)
	}
	if !trend.Overall.IsUp() {
		t.Fatalf("持续上涨序列综合趋势应偏多, got %s", trend.Overall)
	}
	if trend.Strength <= 0 {
		t.Fatalf("上涨趋势强度应为正, got %f", trend.Strength)
	}
	if trend.BiasMultiplier <= 1 {
		t.Fatalf("上涨趋势偏向乘数应大于1, got %f", trend.BiasMultiplier)
	}
}

func TestAnalyzeTrendFalling(t *testing.T) {
	trend := AnalyzeTrend(fallingSeries(40, 100, 1))
	if !trend.Overall.IsDown() {
		t.Fatalf("持续下跌序列综合趋势应偏空, got %s", trend.Overall)
	}
	if trend.Strength >= 0 {
		t.Fatalf("下跌趋势强度应为负, got %f", trend.Strength)
	}
	if trend.BiasMultiplier >= 1 {
		t.Fatalf("下跌趋势偏向乘数应小于1, got %f", trend.BiasMultiplier)
	}
}

func TestAnalyzeTrendFlat(t *testing.T) {
	trend := AnalyzeTrend(flatSeries(40, 50))
	if trend.Overall != TrendSide {
		t.Fatalf("横盘序列综合趋势应为震荡, got %s", trend.Overall)
	}
	if trend.Strength != 0 {
		t.Fatalf("横盘趋势强度应为0, got %f", trend.Strength)
	}
}

func TestAnalyzeVolumePriceRising(t *testing.T) {
	sig := AnalyzeVolumePrice(risingSeries(20, 10, 1))
	if sig.Direction != model.DirectionUp {
		t.Fatalf("持续上涨序列量价方向应向上, got %s", sig.Direction)
	}
	if sig.PriceTrendTag != "强势上涨" {
		t.Fatalf("日涨1%%连续20天应判强势上涨, got %s", sig.PriceTrendTag)
	}
	if sig.ChangeBandLow <= 0 || sig.ChangeBandHigh <= sig.ChangeBandLow {
		t.Fatalf("上涨方向幅度区间异常: [%f, %f]", sig.ChangeBandLow, sig.ChangeBandHigh)
	}
}

func TestAnalyzeVolumePriceFlat(t *testing.T) {
	sig := AnalyzeVolumePrice(flatSeries(20, 50))
	if sig.Direction != model.DirectionFlat {
		t.Fatalf("横盘序列量价方向应为持平, got %s", sig.Direction)
	}
	if sig.TradeSignal != model.SignalHold {
		t.Fatalf("横盘序列量价信号应为持有, got %s", sig.TradeSignal)
	}
	if sig.ChangeBandLow != -2 || sig.ChangeBandHigh != 2 {
		t.Fatalf("横盘幅度区间应为[-2, 2], got [%f, %f]", sig.ChangeBandLow, sig.ChangeBandHigh)
	}
}

func TestAnalyzeVolumePriceInsufficient(t *testing.T) {
	sig := AnalyzeVolumePrice(flatSeries(5, 50))
	if sig.Direction != model.DirectionFlat || sig.Confidence != 0.3 {
		t.Fatalf("数据不足应返回持平/0.3, got %s/%f", sig.Direction, sig.Confidence)
	}
}

func TestDetectDoubleCandleEngulfing(t *testing.T) {
	hit := detectDoubleCandle([]float64{10.5, 10.1}, []float64{10.2, 10.6})
	if hit == nil || hit.Name != "看涨吞没" || !hit.Bullish {
		t.Fatalf("阳线完全吞没前阴线应识别为看涨吞没, got %+v", hit)
	}
	hit = detectDoubleCandle([]float64{10.2, 10.6}, []float64{10.5, 10.1})
	if hit == nil || hit.Name != "看跌吞没" || hit.Bullish {
		t.Fatalf("阴线完全吞没前阳线应识别为看跌吞没, got %+v", hit)
	}
}

func TestDetectTripleCandleSoldiers(t *testing.T) {
	hit := detectTripleCandle([]float64{10.0, 10.3, 10.6}, []float64{10.3, 10.6, 10.9})
	if hit == nil || hit.Name != "三只白兵" || !hit.Bullish {
		t.Fatalf("连续三根递升阳线应识别为三只白兵, got %+v", hit)
	}
	hit = detectTripleCandle([]float64{10.9, 10.6, 10.3}, []float64{10.6, 10.3, 10.0})
	if hit == nil || hit.Name != "三只乌鸦" || hit.Bullish {
		t.Fatalf("连续三根递降阴线应识别为三只乌鸦, got %+v", hit)
	}
}

func TestDetectSingleCandleDoji(t *testing.T) {
	hit := detectSingleCandle(10.0, 10.01, 10.5, 9.5)
	if hit == nil || hit.Name != "十字星" {
		t.Fatalf("实体极小的K线应识别为十字星, got %+v", hit)
	}
}

func TestDetectSingleCandleHammer(t *testing.T) {
	// 长下影、短上影、小实体的阳线
	hit := detectSingleCandle(10.0, 10.2, 10.25, 9.3)
	if hit == nil || hit.Name != "锤子线" || !hit.Bullish {
		t.Fatalf("长下影小阳线应识别为锤子线, got %+v", hit)
	}
}

func TestClassifyLevelsKeepsCloseLevelsOnOppositeSides(t *testing.T) {
	current := 100.0
	supports, resistances := ClassifyLevels([]float64{99.5, 100.3, 95.0, 105.0}, current)
	if len(supports) != 2 || supports[0] != 99.5 {
		t.Fatalf("支撑应为最近优先 [99.5, 95.0], got %v", supports)
	}
	// 99.5与100.3相差0.8元，小于1%容差，但分属支撑和压力两列，都应保留
	if len(resistances) != 2 || resistances[0] != 100.3 {
		t.Fatalf("压力应为最近优先 [100.3, 105.0], got %v", resistances)
	}
}

func TestClassifyLevelsDedupeWithinList(t *testing.T) {
	supports, _ := ClassifyLevels([]float64{99.5, 99.8, 98.0}, 100.0)
	// 99.8与99.5相差0.3元，同列1%容差内只保留更近的99.8
	if len(supports) != 2 || supports[0] != 99.8 || supports[1] != 98.0 {
		t.Fatalf("同列内1%%容差去重失败, got %v", supports)
	}
}

func TestClassifyLevelsWindowBounds(t *testing.T) {
	supports, resistances := ClassifyLevels([]float64{80.0, 120.0}, 100.0)
	if len(supports) != 0 || len(resistances) != 0 {
		t.Fatalf("超出±15%%窗口的候选位应被丢弃, got %v / %v", supports, resistances)
	}
}

func TestPositionTagConstants(t *testing.T) {
	// 贴近支撑（距首档支撑<2%）
	if got := positionTag([]float64{99.0}, []float64{110.0}, 100.0); got != TagNearSupport {
		t.Fatalf("贴近支撑应返回%q, got %q", TagNearSupport, got)
	}
	// 贴近压力（距首档压力<2%）
	if got := positionTag([]float64{90.0}, []float64{101.0}, 100.0); got != TagNearResistance {
		t.Fatalf("贴近压力应返回%q, got %q", TagNearResistance, got)
	}
}

func TestAnalyzeSupportResistanceShortSeries(t *testing.T) {
	sr := AnalyzeSupportResistance(flatSeries(10, 50))
	if sr.PositionTag != "数据不足" {
		t.Fatalf("不足20根应返回数据不足, got %s", sr.PositionTag)
	}
}

func TestClassifyRegimeTrending(t *testing.T) {
	regime := ClassifyRegime(risingSeries(60, 10, 1))
	if !regime.Regime.IsTrending() {
		t.Fatalf("单边上涨序列应判为趋势市, got %s", regime.Regime)
	}
	if regime.TrendStrength <= 0 {
		t.Fatalf("上涨趋势市方向强度应为正, got %f", regime.TrendStrength)
	}
}

func TestClassifyRegimeFlat(t *testing.T) {
	regime := ClassifyRegime(flatSeries(60, 50))
	if regime.Regime == RegimeTrending || regime.Regime == RegimeBreakout {
		t.Fatalf("横盘序列不应判为趋势或突破, got %s", regime.Regime)
	}
	if regime.Volatility != VolatilityLow {
		t.Fatalf("零波动序列波动率档位应为Low, got %s", regime.Volatility)
	}
}

func TestClassifyRegimeShortSeries(t *testing.T) {
	regime := ClassifyRegime(flatSeries(10, 50))
	if regime.Regime != RegimeRanging || regime.Confidence != 0.3 {
		t.Fatalf("数据不足应默认震荡/0.3, got %s/%f", regime.Regime, regime.Confidence)
	}
}

func TestVolatilityAdjustmentFactor(t *testing.T) {
	cases := []struct {
		level VolatilityLevel
		want  float64
	}{
		{VolatilityLow, 0.8},
		{VolatilityNormal, 1.0},
		{VolatilityHigh, 1.3},
		{VolatilityExtreme, 1.6},
	}
	for _, c := range cases {
		if got := c.level.AdjustmentFactor(); got != c.want {
			t.Fatalf("%s调节系数 = %f, want %f", c.level, got, c.want)
		}
	}
}

func TestAnalyzeDivergencesFlat(t *testing.T) {
	result := AnalyzeDivergences(flatSeries(60, 50))
	if result.HasDivergence {
		t.Fatalf("横盘序列不应出现背离, got %+v", result)
	}
	if result.Direction != model.DirectionFlat {
		t.Fatalf("无背离时主方向应为持平, got %s", result.Direction)
	}
}

func TestAnalyzeDivergencesShortSeries(t *testing.T) {
	result := AnalyzeDivergences(flatSeries(10, 50))
	if result.HasDivergence || result.CompositeScore != 0 {
		t.Fatalf("数据不足应返回空背离结果, got %+v", result)
	}
}

func TestFindLocalExtremes(t *testing.T) {
	data := []float64{5, 4, 3, 2, 1, 2, 3, 4, 5, 4, 3, 2, 1}
	lows, highs := findLocalExtremes(data, 2)
	if len(lows) != 1 || lows[0].value != 1 || lows[0].index != 4 {
		t.Fatalf("应在索引4找到唯一局部低点, got %+v", lows)
	}
	if len(highs) != 1 || highs[0].value != 5 || highs[0].index != 8 {
		t.Fatalf("应在索引8找到唯一局部高点, got %+v", highs)
	}
}
