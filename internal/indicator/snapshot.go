package indicator

import (
	"math"

	"stock-forecast-engine/internal/model"
)

// Snapshot 计算窗口最后一根K线处的全量技术指标快照
func Snapshot(s *model.Series) *model.Snapshot {
	closes, highs, lows, volumes := s.Closes, s.Highs, s.Lows, s.Volumes

	snap := &model.Snapshot{
		MA5:   MA(closes, 5),
		MA10:  MA(closes, 10),
		MA20:  MA(closes, 20),
		MA60:  MA(closes, 60),
		EMA12: EMA(closes, 12),
		EMA26: EMA(closes, 26),
	}

	snap.MACDDif, snap.MACDDea, snap.MACDHistogram = MACD(closes)
	snap.MACDGoldenCross, snap.MACDDeathCross, snap.MACDZeroCrossUp, snap.MACDZeroCrossDown = MACDCrosses(closes)

	snap.KDJK, snap.KDJD, snap.KDJJ = KDJ(highs, lows, closes, 9)
	snap.KDJGoldenCross, snap.KDJDeathCross = KDJCrosses(highs, lows, closes, 9)
	snap.KDJOverbought = snap.KDJJ > 80
	snap.KDJOversold = snap.KDJJ < 20

	snap.RSI = RSI(closes)

	snap.BollUpper, snap.BollMiddle, snap.BollLower = Bollinger(closes, 20, 2)
	snap.BollPosition = BollingerPosition(s.LastClose(), snap.BollUpper, snap.BollLower)

	snap.ATR = ATR(highs, lows, closes, 14)
	snap.ATRPercent = ATRPercent(highs, lows, closes, 14)

	snap.OBVTrend = OBVTrend(closes, volumes, 14)
	snap.CCI = CCI(highs, lows, closes, 20)
	snap.PlusDI, snap.MinusDI, snap.ADX = DMI(highs, lows, closes, 14)

	snap.VWAP, snap.VWAPUpper1, snap.VWAPLower1, snap.VWAPUpper2, snap.VWAPLower2 =
		VWAPBands(highs, lows, closes, volumes, 30)

	snap.ROC5 = ROC(closes, 5)
	snap.ROC10 = ROC(closes, 10)
	snap.ROC20 = ROC(closes, 20)
	snap.ROCConsensus = ROCConsensus(closes)

	snap.WilliamsR = WilliamsR(highs, lows, closes, 14)
	snap.EMV = EMV(highs, lows, volumes, 14)

	sanitize(snap)
	return snap
}

// HistoricalVolatility 历史波动率：近period日收益率标准差，默认0.02，上限0.10
func HistoricalVolatility(prices []float64, period int) float64 {
	if len(prices) < period+1 {
		return 0.02
	}
	start := len(prices) - period
	returns := make([]float64, 0, period)
	for i := start; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
	}
	if len(returns) == 0 {
		return 0.02
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))
	return math.Min(math.Sqrt(variance), 0.10)
}

// sanitize 兜底：任何NaN/Inf替换为中性默认值，调用方不会收到非法数值
func sanitize(snap *model.Snapshot) {
	fix := func(v *float64, neutral float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = neutral
		}
	}
	fix(&snap.RSI, 50)
	fix(&snap.KDJK, 50)
	fix(&snap.KDJD, 50)
	fix(&snap.KDJJ, 50)
	fix(&snap.CCI, 0)
	fix(&snap.MACDDif, 0)
	fix(&snap.MACDDea, 0)
	fix(&snap.MACDHistogram, 0)
	fix(&snap.BollPosition, 0)
	fix(&snap.ATR, 0)
	fix(&snap.ATRPercent, 0)
	fix(&snap.OBVTrend, 0)
	fix(&snap.PlusDI, 0)
	fix(&snap.MinusDI, 0)
	fix(&snap.ADX, 0)
	fix(&snap.ROCConsensus, 0)
	fix(&snap.WilliamsR, -50)
	fix(&snap.EMV, 0)
}
