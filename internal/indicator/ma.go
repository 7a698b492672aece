// Package indicator 技术指标计算（纯函数，输入为按日期升序的序列）
package indicator

// MA 简单移动平均（取最后period个值），长度不足返回0
func MA(values []float64, period int) float64 {
	if len(values) < period || period <= 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// EMA 指数移动平均：前period个值的均值作为种子，之后递推
func EMA(values []float64, period int) float64 {
	series := EMASeries(values, period)
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

// EMASeries EMA全序列，series[0]对应第period根K线处的EMA
func EMASeries(values []float64, period int) []float64 {
	if len(values) < period || period <= 0 {
		return nil
	}
	k := 2.0 / float64(period+1)
	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}
	seed /= float64(period)

	series := make([]float64, 0, len(values)-period+1)
	series = append(series, seed)
	ema := seed
	for _, v := range values[period:] {
		ema = (v-ema)*k + ema
		series = append(series, ema)
	}
	return series
}

// Slope 最小二乘法拟合斜率
func Slope(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumX2 += x * x
	}
	fn := float64(n)
	denom := fn*sumX2 - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (fn*sumXY - sumX*sumY) / denom
}

// RecentTrend 近期趋势：斜率除以均价，限制在±0.05
func RecentTrend(prices []float64, period int) float64 {
	if len(prices) < period || period <= 0 {
		return 0
	}
	recent := prices[len(prices)-period:]
	slope := Slope(recent)
	sum := 0.0
	for _, v := range recent {
		sum += v
	}
	avg := sum / float64(period)
	if avg == 0 {
		return 0
	}
	return clamp(slope/avg, -0.05, 0.05)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxSlice(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func minSlice(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}
