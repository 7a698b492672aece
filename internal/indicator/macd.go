package indicator

// MACD 计算MACD：返回 (DIF, DEA, 柱状图)
//
// DIF = EMA12 − EMA26，两条EMA序列按种子期差值14对齐；
// DEA为DIF序列的9周期EMA（DIF序列不足9时退化为DIF本身）；
// 柱状图 = 2 × (DIF − DEA)。长度不足26时快慢周期按比例缩短，柱状图为0。
func MACD(prices []float64) (dif, dea, hist float64) {
	if len(prices) < 26 {
		return macdShortWindow(prices)
	}
	difSeries := macdDifSeries(prices)
	if len(difSeries) == 0 {
		return 0, 0, 0
	}
	dif = difSeries[len(difSeries)-1]

	if len(difSeries) >= 9 {
		dea = EMA(difSeries, 9)
	} else {
		dea = dif
	}
	hist = 2 * (dif - dea)
	return dif, dea, hist
}

// macdShortWindow 短窗口退化：快慢周期按12/26比例缩到窗口长度，
// DIF序列只有一个点，DEA退化为DIF，柱状图为0
func macdShortWindow(prices []float64) (dif, dea, hist float64) {
	slow := len(prices)
	if slow < 4 {
		return 0, 0, 0
	}
	fast := slow * 12 / 26
	if fast < 2 {
		fast = 2
	}
	dif = EMA(prices, fast) - EMA(prices, slow)
	return dif, dif, 0
}

// macdDifSeries DIF序列：EMA12与EMA26对齐后的差
func macdDifSeries(prices []float64) []float64 {
	if len(prices) < 26 {
		return nil
	}
	ema12 := EMASeries(prices, 12)
	ema26 := EMASeries(prices, 26)

	// EMA12序列比EMA26序列早14个点开始
	const offset = 14
	difSeries := make([]float64, 0, len(ema26))
	for i := range ema26 {
		if i+offset >= len(ema12) {
			break
		}
		difSeries = append(difSeries, ema12[i+offset]-ema26[i])
	}
	return difSeries
}

// MACDCrosses 金叉/死叉/零轴穿越标志（比较最后两根K线处的MACD）
func MACDCrosses(prices []float64) (golden, death, zeroUp, zeroDown bool) {
	if len(prices) < 27 {
		return false, false, false, false
	}
	prevDif, prevDea, prevHist := MACD(prices[:len(prices)-1])
	curDif, curDea, curHist := MACD(prices)

	golden = prevDif <= prevDea && curDif > curDea
	death = prevDif >= prevDea && curDif < curDea
	zeroUp = prevHist <= 0 && curHist > 0
	zeroDown = prevHist >= 0 && curHist < 0
	return golden, death, zeroUp, zeroDown
}
