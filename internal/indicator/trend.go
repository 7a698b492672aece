package indicator

import "math"

// ATR 平均真实波幅：TR = max(H−L, |H−C'|, |L−C'|)，取最后period个TR的均值
func ATR(highs, lows, closes []float64, period int) float64 {
	n := len(closes)
	if n < 2 || period <= 0 {
		return 0
	}
	trs := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		tr := highs[i] - lows[i]
		if v := math.Abs(highs[i] - closes[i-1]); v > tr {
			tr = v
		}
		if v := math.Abs(lows[i] - closes[i-1]); v > tr {
			tr = v
		}
		trs = append(trs, tr)
	}
	if len(trs) < period {
		period = len(trs)
	}
	sum := 0.0
	for _, tr := range trs[len(trs)-period:] {
		sum += tr
	}
	return sum / float64(period)
}

// ATRPercent ATR相对最新收盘价的百分比
func ATRPercent(highs, lows, closes []float64, period int) float64 {
	n := len(closes)
	if n == 0 || closes[n-1] == 0 {
		return 0
	}
	return ATR(highs, lows, closes, period) / closes[n-1] * 100
}

// DMI 动向指标：返回 (+DI, −DI, ADX)
func DMI(highs, lows, closes []float64, period int) (plusDI, minusDI, adx float64) {
	n := len(closes)
	if n < period+1 || period <= 0 {
		return 0, 0, 0
	}

	var plusDMSum, minusDMSum, trSum float64
	for i := n - period; i < n; i++ {
		upMove := highs[i] - highs[i-1]
		downMove := lows[i-1] - lows[i]
		if upMove > downMove && upMove > 0 {
			plusDMSum += upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDMSum += downMove
		}
		tr := highs[i] - lows[i]
		if v := math.Abs(highs[i] - closes[i-1]); v > tr {
			tr = v
		}
		if v := math.Abs(lows[i] - closes[i-1]); v > tr {
			tr = v
		}
		trSum += tr
	}

	if trSum == 0 {
		return 0, 0, 0
	}
	plusDI = plusDMSum / trSum * 100
	minusDI = minusDMSum / trSum * 100

	diSum := plusDI + minusDI
	if diSum == 0 {
		return plusDI, minusDI, 0
	}
	adx = math.Abs(plusDI-minusDI) / diSum * 100
	return plusDI, minusDI, adx
}

// CCI 顺势指标：(TP − MA) / (0.015 × MD)，无偏差返回0
func CCI(highs, lows, closes []float64, period int) float64 {
	n := len(closes)
	if n < period || period <= 0 {
		return 0
	}
	tps := make([]float64, period)
	for i := 0; i < period; i++ {
		idx := n - period + i
		tps[i] = (highs[idx] + lows[idx] + closes[idx]) / 3
	}
	ma := 0.0
	for _, tp := range tps {
		ma += tp
	}
	ma /= float64(period)

	md := 0.0
	for _, tp := range tps {
		md += math.Abs(tp - ma)
	}
	md /= float64(period)
	if md == 0 {
		return 0
	}
	return (tps[period-1] - ma) / (0.015 * md)
}

// ROC 变动率：(C − C[N日前]) / C[N日前] × 100
func ROC(prices []float64, period int) float64 {
	n := len(prices)
	if n < period+1 || period <= 0 {
		return 0
	}
	past := prices[n-1-period]
	if past == 0 {
		return 0
	}
	return (prices[n-1] - past) / past * 100
}

// ROCConsensus 多周期ROC共识：0.4×ROC5 + 0.35×ROC10 + 0.25×ROC20，缩放后限制在[−1, 1]
func ROCConsensus(prices []float64) float64 {
	roc5 := ROC(prices, 5)
	roc10 := ROC(prices, 10)
	roc20 := ROC(prices, 20)
	return clamp((roc5*0.4+roc10*0.35+roc20*0.25)/10, -1, 1)
}
