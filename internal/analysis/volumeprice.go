package analysis

import "stock-forecast-engine/internal/model"

// VolumePriceSignal 量价关系信号
type VolumePriceSignal struct {
	Direction      model.Direction     `json:"direction"`
	Confidence     float64             `json:"confidence"`
	ChangeBandLow  float64             `json:"change_band_low"`
	ChangeBandHigh float64             `json:"change_band_high"`
	TradeSignal    model.TradingSignal `json:"trade_signal"`
	PriceTrendTag  string              `json:"price_trend"`
	VolumeTrendTag string              `json:"volume_trend"`
	KeyFactors     []string            `json:"key_factors"`
	BullScore      int                 `json:"bull_score"`
	BearScore      int                 `json:"bear_score"`
}

// AnalyzeVolumePrice 量价关系分析
//
// 用5日/10日均价判断价格趋势、最新量对5日均量判断量能趋势，
// 两者查固定表得多空分数，再结合10日相对位置给出方向、置信度和幅度区间。
func AnalyzeVolumePrice(s *model.Series) *VolumePriceSignal {
	n := s.Len()
	if n < 10 {
		return &VolumePriceSignal{
			Direction:      model.DirectionFlat,
			Confidence:     0.3,
			ChangeBandLow:  -1,
			ChangeBandHigh: 1,
			TradeSignal:    model.SignalHold,
			PriceTrendTag:  "未知",
			VolumeTrendTag: "未知",
			KeyFactors:     []string{"数据不足"},
		}
	}

	closes, highs, lows, volumes := s.Closes, s.Highs, s.Lows, s.Volumes
	current := closes[n-1]

	// 1. 价格趋势
	avg5 := average(closes[n-5:])
	avg10 := average(closes[n-10:])
	momentum5d := (current - closes[n-5]) / closes[n-5] * 100

	var priceTrend string
	switch {
	case current > avg5 && avg5 > avg10:
		if momentum5d > 3 {
			priceTrend = "强势上涨"
		} else {
			priceTrend = "温和上涨"
		}
	case current < avg5 && avg5 < avg10:
		if momentum5d < -3 {
			priceTrend = "强势下跌"
		} else {
			priceTrend = "温和下跌"
		}
	default:
		priceTrend = "横盘震荡"
	}

	// 2. 量能趋势
	var vol5 float64
	for _, v := range volumes[n-5:] {
		vol5 += float64(v)
	}
	vol5 /= 5
	latestVol := float64(volumes[n-1])

	var volumeTrend string
	switch {
	case latestVol > vol5*1.5:
		volumeTrend = "显著放量"
	case latestVol > vol5*1.2:
		volumeTrend = "温和放量"
	case latestVol < vol5*0.7:
		volumeTrend = "明显缩量"
	case latestVol < vol5*0.8:
		volumeTrend = "温和缩量"
	default:
		volumeTrend = "量能平稳"
	}

	// 3. 量价组合打分
	bull, bear := 0, 0
	var keyFactors []string
	switch {
	case priceTrend == "强势上涨" && volumeTrend == "显著放量":
		bull += 5
		keyFactors = append(keyFactors, "放量强势上涨")
	case priceTrend == "强势上涨" && volumeTrend == "温和放量":
		bull += 4
		keyFactors = append(keyFactors, "放量上涨")
	case priceTrend == "温和上涨" && volumeTrend == "显著放量":
		bull += 4
		keyFactors = append(keyFactors, "放量推升")
	case priceTrend == "温和上涨" && volumeTrend == "温和放量":
		bull += 3
		keyFactors = append(keyFactors, "温和放量上涨")
	case (priceTrend == "强势上涨" || priceTrend == "温和上涨") && volumeTrend == "明显缩量":
		bear++
		keyFactors = append(keyFactors, "上涨无量警示")
	case priceTrend == "强势下跌" && volumeTrend == "显著放量":
		bear += 5
		keyFactors = append(keyFactors, "放量大跌")
	case priceTrend == "强势下跌" && volumeTrend == "温和放量":
		bear += 4
		keyFactors = append(keyFactors, "放量下跌")
	case priceTrend == "温和下跌" && volumeTrend == "显著放量":
		bear += 4
		keyFactors = append(keyFactors, "放量打压")
	case (priceTrend == "强势下跌" || priceTrend == "温和下跌") && volumeTrend == "明显缩量":
		bull += 2
		keyFactors = append(keyFactors, "下跌缩量止跌")
	case priceTrend == "横盘震荡":
		keyFactors = append(keyFactors, "横盘整理")
	default:
		keyFactors = append(keyFactors, "量价关系复杂")
	}

	// 价格趋势本身也计分，纯趋势窗口不因量能平稳而归零
	switch priceTrend {
	case "强势上涨":
		bull += 2
	case "温和上涨":
		bull++
	case "强势下跌":
		bear += 2
	case "温和下跌":
		bear++
	}

	// 4. 10日相对位置
	high10 := maxOf(highs[n-10:])
	low10 := minOf(lows[n-10:])
	if high10 > low10 {
		positionRatio := (current - low10) / (high10 - low10)
		if positionRatio > 0.8 && priceTrend == "横盘震荡" {
			bear++
			keyFactors = append(keyFactors, "接近10日高位")
		} else if positionRatio < 0.2 {
			bull++
			keyFactors = append(keyFactors, "接近10日低位")
		}
	}

	// 5. 综合判断
	var direction model.Direction
	var confidence, lo, hi float64
	switch {
	case bull >= bear+3:
		confidence = min(0.7+float64(bull-bear)*0.05, 0.95)
		direction, lo, hi = model.DirectionUp, 0.8, 6.0
	case bear >= bull+3:
		confidence = min(0.7+float64(bear-bull)*0.05, 0.95)
		direction, lo, hi = model.DirectionDown, -6.0, -0.8
	case bull > bear:
		confidence = 0.55 + float64(bull-bear)*0.03
		direction, lo, hi = model.DirectionUp, 0.3, 3.5
	case bear > bull:
		confidence = 0.55 + float64(bear-bull)*0.03
		direction, lo, hi = model.DirectionDown, -3.5, -0.3
	default:
		direction, confidence, lo, hi = model.DirectionFlat, 0.5, -2.0, 2.0
	}

	signal := model.SignalHold
	dominant := bull
	if bear > bull {
		dominant = bear
	}
	switch {
	case direction == model.DirectionUp && dominant >= 4:
		signal = model.SignalStrongBuy
	case direction == model.DirectionUp && dominant >= 2:
		signal = model.SignalBuy
	case direction == model.DirectionDown && dominant >= 4:
		signal = model.SignalStrongSell
	case direction == model.DirectionDown && dominant >= 2:
		signal = model.SignalSell
	}

	return &VolumePriceSignal{
		Direction:      direction,
		Confidence:     confidence,
		ChangeBandLow:  lo,
		ChangeBandHigh: hi,
		TradeSignal:    signal,
		PriceTrendTag:  priceTrend,
		VolumeTrendTag: volumeTrend,
		KeyFactors:     keyFactors,
		BullScore:      bull,
		BearScore:      bear,
	}
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
