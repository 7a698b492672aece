package risk

import (
	"fmt"
	"math"
	"testing"

	"stock-forecast-engine/internal/model"
)

func seriesFromCloses(closes []float64) *model.Series {
	s := &model.Series{}
	for i, c := range closes {
		s.Append(fmt.Sprintf("2024-01-%02d", i+1), c, c*1.01, c*0.99, c, 1_000_000)
	}
	return s
}

func TestMaxDrawdown(t *testing.T) {
	cases := []struct {
		prices []float64
		want   float64
	}{
		{[]float64{10, 12, 9, 11}, 0.25},         // 12跌到9
		{[]float64{10, 11, 12, 13}, 0},           // 单边上涨无回撤
		{[]float64{10, 5}, 0.5},                  // 腰斩
		{[]float64{10}, 0},                       // 单点
	}
	for _, c := range cases {
		if got := MaxDrawdown(c.prices); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("MaxDrawdown(%v) = %f, want %f", c.prices, got, c.want)
		}
	}
}

func TestKellyFractionClamped(t *testing.T) {
	// 全胜序列无亏损样本，凯利应退化为0
	allWins := make([]float64, 20)
	for i := range allWins {
		allWins[i] = 0.01
	}
	if got := KellyFraction(allWins); got != 0 {
		t.Fatalf("无亏损样本凯利应为0, got %f", got)
	}

	// 胜率高且赔率优的序列，结果应落在(0, 0.25]
	mixed := []float64{0.02, 0.03, 0.02, -0.01, 0.02, 0.03, -0.01, 0.02, 0.02, 0.03, 0.02, -0.01}
	got := KellyFraction(mixed)
	if got <= 0 || got > 0.25 {
		t.Fatalf("凯利仓位应在(0, 0.25], got %f", got)
	}

	// 负期望序列应截断为0
	losing := []float64{-0.02, -0.03, 0.01, -0.02, -0.03, 0.01, -0.02, -0.02, 0.01, -0.03, -0.02, -0.02}
	if got := KellyFraction(losing); got != 0 {
		t.Fatalf("负期望凯利应为0, got %f", got)
	}
}

func TestStopLossUsesWiderBand(t *testing.T) {
	// ATR%更大时按2×ATR%，波动率更大时按2σ
	if got := StopLoss(100, 0.03, 0.01); math.Abs(got-94) > 1e-9 {
		t.Fatalf("止损应为100×(1-0.06)=94, got %f", got)
	}
	if got := StopLoss(100, 0.01, 0.04); math.Abs(got-92) > 1e-9 {
		t.Fatalf("止损应为100×(1-0.08)=92, got %f", got)
	}
}

func TestTakeProfitsLadder(t *testing.T) {
	tps := TakeProfits(100, 0.01)
	if len(tps) != 3 {
		t.Fatalf("应有三档止盈, got %d", len(tps))
	}
	want := []float64{103, 105, 108} // 2σ=2%，乘1.5/2.5/4.0
	for i, w := range want {
		if math.Abs(tps[i]-w) > 1e-9 {
			t.Fatalf("第%d档止盈 = %f, want %f", i+1, tps[i], w)
		}
	}
	if !(tps[0] < tps[1] && tps[1] < tps[2]) {
		t.Fatalf("止盈档位应递增: %v", tps)
	}
}

func TestAssessFlatSeries(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 50
	}
	m := Assess(seriesFromCloses(closes), 5, 50)
	if m.MaxDrawdown != 0 {
		t.Fatalf("横盘序列最大回撤应为0, got %f", m.MaxDrawdown)
	}
	if m.VaR95 <= 0 {
		t.Fatalf("VaR95应为正值（潜在亏损幅度）, got %f", m.VaR95)
	}
	if m.StopLoss >= 50 {
		t.Fatalf("止损价应低于入场价, got %f", m.StopLoss)
	}
	if m.KellyFraction != 0 {
		t.Fatalf("横盘序列无胜负样本凯利应为0, got %f", m.KellyFraction)
	}
}

func TestAssessVaRScalesWithHorizon(t *testing.T) {
	closes := make([]float64, 60)
	price := 50.0
	for i := range closes {
		if i%2 == 0 {
			price *= 1.01
		} else {
			price *= 0.995
		}
		closes[i] = price
	}
	s := seriesFromCloses(closes)
	short := Assess(s, 1, price)
	long := Assess(s, 10, price)
	if short.VaR95 <= 0 || long.VaR95 <= 0 {
		t.Fatalf("VaR应为正值: 1日=%f 10日=%f", short.VaR95, long.VaR95)
	}
	if long.VaR95 <= short.VaR95 {
		t.Fatalf("更长持有期的VaR应更大: 1日=%f 10日=%f", short.VaR95, long.VaR95)
	}
}

func TestAssessVaRFloorsAtZero(t *testing.T) {
	// 漂移远超波动时分位数落在盈利侧，VaR截断为0而不是负值
	closes := make([]float64, 30)
	price := 50.0
	for i := range closes {
		price *= 1.02
		closes[i] = price
	}
	m := Assess(seriesFromCloses(closes), 10, price)
	if m.VaR95 != 0 {
		t.Fatalf("强上涨漂移下VaR应截断为0, got %f", m.VaR95)
	}
}
