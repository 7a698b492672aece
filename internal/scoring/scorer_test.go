package scoring

import (
	"math"
	"testing"

	"stock-forecast-engine/internal/analysis"
	"stock-forecast-engine/internal/model"
)

func neutralInputs() *FactorInputs {
	return &FactorInputs{
		Snapshot:    &model.Snapshot{RSI: 50},
		Trend:       &analysis.TrendAnalysis{Overall: analysis.TrendSide, Confidence: 0.3},
		VolumePrice: &analysis.VolumePriceSignal{Direction: model.DirectionFlat, Confidence: 0.5},
		SR:          &analysis.SupportResistance{PositionTag: "中性区域"},
		Divergence:  &analysis.DivergenceAnalysis{Direction: model.DirectionFlat},
		Regime:      &analysis.MarketRegime{Regime: analysis.RegimeRanging},
	}
}

func bullishInputs() *FactorInputs {
	in := neutralInputs()
	in.Snapshot = &model.Snapshot{
		RSI:             65,
		MACDHistogram:   0.5,
		MACDGoldenCross: true,
		ROCConsensus:    0.6,
	}
	in.Trend = &analysis.TrendAnalysis{
		Daily:      analysis.TrendStrongUp,
		Overall:    analysis.TrendStrongUp,
		Strength:   0.8,
		Confidence: 0.88,
	}
	in.VolumePrice = &analysis.VolumePriceSignal{
		Direction:  model.DirectionUp,
		Confidence: 0.85,
		KeyFactors: []string{"放量强势上涨"},
	}
	in.Patterns = []analysis.PatternHit{{Name: "三只白兵", Bullish: true, Strength: 0.75}}
	in.Regime = &analysis.MarketRegime{Regime: analysis.RegimeTrending, TrendStrength: 0.8}
	return in
}

func TestScoreBounds(t *testing.T) {
	for _, in := range []*FactorInputs{neutralInputs(), bullishInputs()} {
		score := Score(in)
		if score.BullScore < 0 || score.BullScore > 5 {
			t.Fatalf("多头分越界: %f", score.BullScore)
		}
		if score.BearScore < 0 || score.BearScore > 5 {
			t.Fatalf("空头分越界: %f", score.BearScore)
		}
		if score.Net < -1 || score.Net > 1 {
			t.Fatalf("净分越界: %f", score.Net)
		}
		if score.Confidence < 0.25 || score.Confidence > 0.95 {
			t.Fatalf("置信度越界: %f", score.Confidence)
		}
	}
}

func TestScoreNeutralIsHold(t *testing.T) {
	score := Score(neutralInputs())
	if score.Direction != model.DirectionFlat {
		t.Fatalf("全中性因子方向应为持平, got %s", score.Direction)
	}
	if score.TradingSignal != model.SignalHold {
		t.Fatalf("全中性因子信号应为持有, got %s", score.TradingSignal)
	}
}

func TestScoreBullishAlignment(t *testing.T) {
	score := Score(bullishInputs())
	if score.Direction != model.DirectionUp {
		t.Fatalf("多因子共振看多时方向应向上, got %s", score.Direction)
	}
	if score.TradingSignal != model.SignalBuy && score.TradingSignal != model.SignalStrongBuy {
		t.Fatalf("多因子共振看多时应给出买入类信号, got %s", score.TradingSignal)
	}
	if score.BullScore <= score.BearScore {
		t.Fatalf("多头分应高于空头分: bull=%f bear=%f", score.BullScore, score.BearScore)
	}
}

func TestScoreGoldenCrossFactor(t *testing.T) {
	score := Score(bullishInputs())
	found := false
	for _, f := range score.ContributingFactors {
		if f == "MACD金叉" {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("MACD金叉应出现在关键因子中, got %v", score.ContributingFactors)
	}
}

func TestScoreConflictDampensConfidence(t *testing.T) {
	in := bullishInputs()
	in.Divergence = &analysis.DivergenceAnalysis{
		HasDivergence:  true,
		CompositeScore: -0.8,
		Direction:      model.DirectionDown,
	}
	conflicted := Score(in)
	if !conflicted.ConflictDetected {
		t.Fatalf("强势看多遇顶背离应检测到冲突")
	}

	clean := Score(bullishInputs())
	if conflicted.Confidence >= clean.Confidence {
		t.Fatalf("冲突时置信度应更低: conflicted=%f clean=%f",
			conflicted.Confidence, clean.Confidence)
	}
}

func TestScoreStrongSignalThreshold(t *testing.T) {
	in := bullishInputs()
	// 人为构造满格因子，净分应过0.7的强信号线
	in.Trend.Strength = 1.0
	in.SR = &analysis.SupportResistance{PositionTag: analysis.TagNearSupport}
	in.Divergence = &analysis.DivergenceAnalysis{HasDivergence: true, CompositeScore: 0.9}
	score := Score(in)
	if score.Net < 0.7 {
		t.Fatalf("满格多头因子净分应≥0.7, got %f", score.Net)
	}
	if score.TradingSignal != model.SignalStrongBuy {
		t.Fatalf("净分≥0.7应为强烈买入, got %s", score.TradingSignal)
	}
}

func TestScoreBitIdentical(t *testing.T) {
	// 浮点累加顺序必须固定：同一输入反复打分，未舍入结果须逐位一致
	base := Score(bullishInputs())
	for i := 0; i < 2000; i++ {
		got := Score(bullishInputs())
		if math.Float64bits(got.BullScore) != math.Float64bits(base.BullScore) ||
			math.Float64bits(got.BearScore) != math.Float64bits(base.BearScore) ||
			math.Float64bits(got.Net) != math.Float64bits(base.Net) ||
			math.Float64bits(got.SignalStrength) != math.Float64bits(base.SignalStrength) {
			t.Fatalf("第%d次打分结果与首次不一致: bull=%x/%x net=%x/%x",
				i, math.Float64bits(got.BullScore), math.Float64bits(base.BullScore),
				math.Float64bits(got.Net), math.Float64bits(base.Net))
		}
	}
}

func TestWeightsForRegime(t *testing.T) {
	trending := WeightsFor(analysis.RegimeTrending)
	if trending.Trend != 0.30 || trending.Momentum != 0.25 {
		t.Fatalf("趋势市权重不符: %+v", trending)
	}
	breakout := WeightsFor(analysis.RegimeBreakout)
	if breakout != trending {
		t.Fatalf("突破状态应使用趋势市权重")
	}
	ranging := WeightsFor(analysis.RegimeRanging)
	if ranging.SR != 0.25 || ranging.Pattern != 0.20 {
		t.Fatalf("震荡市权重不符: %+v", ranging)
	}
	for _, w := range []WeightTable{trending, ranging} {
		if !w.Valid() {
			t.Fatalf("权重表合计应为1: %+v sum=%f", w, w.Sum())
		}
	}
}

func TestWeightOverrides(t *testing.T) {
	original := trendingWeights
	defer func() { trendingWeights = original }()

	custom := WeightTable{Trend: 0.40, Momentum: 0.20, Volume: 0.10, Pattern: 0.10, SR: 0.10, Divergence: 0.10}
	(&WeightOverrides{Trending: &custom}).Apply()
	if WeightsFor(analysis.RegimeTrending).Trend != 0.40 {
		t.Fatalf("合法覆盖应生效")
	}

	bad := WeightTable{Trend: 0.9, Momentum: 0.9}
	(&WeightOverrides{Trending: &bad}).Apply()
	if WeightsFor(analysis.RegimeTrending).Trend != 0.40 {
		t.Fatalf("非法权重表应被忽略")
	}
}
