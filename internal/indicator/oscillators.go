package indicator

// KDJ 随机指标：迭代更新，K、D种子50，返回最后一根K线处的 (K, D, J)
//
// RSV = (C − minLow) / (maxHigh − minLow) × 100
// K = ⅔K' + ⅓RSV；D = ⅔D' + ⅓K；J = 3K − 2D。区间无波动时跳过更新。
func KDJ(highs, lows, closes []float64, period int) (k, d, j float64) {
	k, d = 50, 50
	if len(closes) < period || period <= 0 {
		return k, d, 3*k - 2*d
	}
	for i := period; i <= len(closes); i++ {
		maxHigh := maxSlice(highs[i-period : i])
		minLow := minSlice(lows[i-period : i])
		if maxHigh == minLow {
			continue
		}
		rsv := (closes[i-1] - minLow) / (maxHigh - minLow) * 100
		k = k*2.0/3.0 + rsv/3.0
		d = d*2.0/3.0 + k/3.0
	}
	return k, d, 3*k - 2*d
}

// KDJCrosses KDJ金叉/死叉（比较最后两根K线处的K、D）
func KDJCrosses(highs, lows, closes []float64, period int) (golden, death bool) {
	if len(closes) < period+1 {
		return false, false
	}
	prevK, prevD, _ := KDJ(highs[:len(highs)-1], lows[:len(lows)-1], closes[:len(closes)-1], period)
	curK, curD, _ := KDJ(highs, lows, closes, period)
	golden = prevK <= prevD && curK > curD
	death = prevK >= prevD && curK < curD
	return golden, death
}

// RSI 相对强弱指标（Wilder平滑）。长度不足15返回50；无下跌日返回100。
func RSI(prices []float64) float64 {
	const period = 14
	if len(prices) < period+1 {
		return 50
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= period
	avgLoss /= period

	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*(period-1) + gain) / period
		avgLoss = (avgLoss*(period-1) + loss) / period
	}

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// WilliamsR 威廉指标：(maxH − C) / (maxH − minL) × −100，数据不足或无波动返回−50
func WilliamsR(highs, lows, closes []float64, period int) float64 {
	if len(closes) < period || period <= 0 {
		return -50
	}
	maxHigh := maxSlice(highs[len(highs)-period:])
	minLow := minSlice(lows[len(lows)-period:])
	if maxHigh == minLow {
		return -50
	}
	c := closes[len(closes)-1]
	return (maxHigh - c) / (maxHigh - minLow) * -100
}
