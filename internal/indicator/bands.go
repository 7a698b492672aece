package indicator

import "math"

// Bollinger 布林带：返回 (上轨, 中轨, 下轨)，period默认20、2倍标准差
func Bollinger(prices []float64, period int, numStd float64) (upper, middle, lower float64) {
	if len(prices) < period || period <= 0 {
		last := 0.0
		if len(prices) > 0 {
			last = prices[len(prices)-1]
		}
		return last, last, last
	}
	window := prices[len(prices)-period:]
	middle = MA(prices, period)

	variance := 0.0
	for _, v := range window {
		variance += (v - middle) * (v - middle)
	}
	std := math.Sqrt(variance / float64(period))
	return middle + numStd*std, middle, middle - numStd*std
}

// BollingerPosition 价格在带内位置：(p − lower)/(upper − lower) − 0.5，限制在[−0.5, 0.5]，无波动返回0
func BollingerPosition(price, upper, lower float64) float64 {
	if upper == lower {
		return 0
	}
	return clamp((price-lower)/(upper-lower)-0.5, -0.5, 0.5)
}

// BollingerWidthPercent 带宽相对中轨的百分比
func BollingerWidthPercent(upper, middle, lower float64) float64 {
	if middle == 0 {
		return 0
	}
	return (upper - lower) / middle * 100
}

// VWAP 成交量加权平均价（按窗口内典型价）
func VWAP(highs, lows, closes []float64, volumes []int64, window int) float64 {
	n := len(closes)
	if n == 0 || window <= 0 {
		return 0
	}
	start := n - window
	if start < 0 {
		start = 0
	}
	var pvSum, vSum float64
	for i := start; i < n; i++ {
		tp := (highs[i] + lows[i] + closes[i]) / 3
		v := float64(volumes[i])
		pvSum += tp * v
		vSum += v
	}
	if vSum == 0 {
		if n > 0 {
			return closes[n-1]
		}
		return 0
	}
	return pvSum / vSum
}

// VWAPBands VWAP带：±1σ和±2σ，σ为成交量加权标准差
func VWAPBands(highs, lows, closes []float64, volumes []int64, window int) (vwap, up1, low1, up2, low2 float64) {
	n := len(closes)
	vwap = VWAP(highs, lows, closes, volumes, window)
	if n == 0 || window <= 0 {
		return vwap, vwap, vwap, vwap, vwap
	}
	start := n - window
	if start < 0 {
		start = 0
	}
	var varSum, vSum float64
	for i := start; i < n; i++ {
		tp := (highs[i] + lows[i] + closes[i]) / 3
		v := float64(volumes[i])
		varSum += v * (tp - vwap) * (tp - vwap)
		vSum += v
	}
	if vSum == 0 {
		return vwap, vwap, vwap, vwap, vwap
	}
	std := math.Sqrt(varSum / vSum)
	return vwap, vwap + std, vwap - std, vwap + 2*std, vwap - 2*std
}
