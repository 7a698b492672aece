package indicator

// OBV 能量潮：收涨加量、收跌减量
func OBV(prices []float64, volumes []int64) float64 {
	obv := int64(0)
	for i := 1; i < len(prices) && i < len(volumes); i++ {
		if prices[i] > prices[i-1] {
			obv += volumes[i]
		} else if prices[i] < prices[i-1] {
			obv -= volumes[i]
		}
	}
	return float64(obv)
}

// OBVSeries OBV逐日序列（背离检测用）
func OBVSeries(prices []float64, volumes []int64) []float64 {
	series := make([]float64, len(prices))
	obv := int64(0)
	for i := range prices {
		if i > 0 && i < len(volumes) {
			if prices[i] > prices[i-1] {
				obv += volumes[i]
			} else if prices[i] < prices[i-1] {
				obv -= volumes[i]
			}
		}
		series[i] = float64(obv)
	}
	return series
}

// OBVTrend OBV趋势：OBV除以（平均成交量 × 周期）归一化
func OBVTrend(prices []float64, volumes []int64, period int) float64 {
	if len(volumes) == 0 || period <= 0 {
		return 0
	}
	var volSum float64
	for _, v := range volumes {
		volSum += float64(v)
	}
	avgVol := volSum / float64(len(volumes))
	if avgVol == 0 {
		return 0
	}
	return OBV(prices, volumes) / (avgVol * float64(period))
}

// EMV 简易波动指标：中点位移除以量幅比，取最后period个的均值
func EMV(highs, lows []float64, volumes []int64, period int) float64 {
	n := len(highs)
	if n < 2 || period <= 0 {
		return 0
	}
	emvs := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		midMove := (highs[i]+lows[i])/2 - (highs[i-1]+lows[i-1])/2
		priceRange := highs[i] - lows[i]
		if priceRange == 0 {
			emvs = append(emvs, 0)
			continue
		}
		boxRatio := (float64(volumes[i]) / 1e8) / priceRange
		if boxRatio == 0 {
			emvs = append(emvs, 0)
			continue
		}
		emvs = append(emvs, midMove/boxRatio)
	}
	if len(emvs) < period {
		period = len(emvs)
	}
	sum := 0.0
	for _, v := range emvs[len(emvs)-period:] {
		sum += v
	}
	return sum / float64(period)
}
