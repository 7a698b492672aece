package analysis

import (
	"fmt"

	"stock-forecast-engine/internal/indicator"
	"stock-forecast-engine/internal/model"
)

// DivergenceType 背离类型
type DivergenceType string

const (
	DivergenceRegularBullish DivergenceType = "RegularBullish" // 价格新低指标未新低
	DivergenceRegularBearish DivergenceType = "RegularBearish" // 价格新高指标未新高
	DivergenceHiddenBullish  DivergenceType = "HiddenBullish"  // 价格未新低指标新低，趋势延续
	DivergenceHiddenBearish  DivergenceType = "HiddenBearish"  // 价格未新高指标新高，趋势延续
)

// IsBullish 是否看涨背离
func (t DivergenceType) IsBullish() bool {
	return t == DivergenceRegularBullish || t == DivergenceHiddenBullish
}

// DivergenceSignal 单指标背离信号
type DivergenceSignal struct {
	Type        DivergenceType `json:"divergence_type"`
	Indicator   string         `json:"indicator"`
	Strength    float64        `json:"strength"` // [0, 1]
	Confidence  float64        `json:"confidence"`
	Description string         `json:"description"`
}

// DivergenceAnalysis 综合背离分析
type DivergenceAnalysis struct {
	HasDivergence  bool              `json:"has_divergence"`
	RSIDivergence  *DivergenceSignal `json:"rsi_divergence,omitempty"`
	MACDDivergence *DivergenceSignal `json:"macd_divergence,omitempty"`
	OBVDivergence  *DivergenceSignal `json:"obv_divergence,omitempty"`
	CompositeScore float64           `json:"composite_score"` // [-1, 1]，正看涨
	Count          int               `json:"divergence_count"`
	Direction      model.Direction   `json:"primary_direction"`
	Confidence     float64           `json:"overall_confidence"`
}

// AnalyzeDivergences 背离综合检测：RSI权重1.2、MACD 1.0、OBV 0.8
func AnalyzeDivergences(s *model.Series) *DivergenceAnalysis {
	result := &DivergenceAnalysis{Direction: model.DirectionFlat}
	if s.Len() < 30 {
		return result
	}

	result.RSIDivergence = detectRSIDivergence(s.Closes)
	result.MACDDivergence = detectMACDDivergence(s.Closes)
	result.OBVDivergence = detectOBVDivergence(s.Closes, s.Volumes)

	var bullScore, bearScore, totalConfidence float64
	add := func(sig *DivergenceSignal, weight float64) {
		if sig == nil {
			return
		}
		result.Count++
		totalConfidence += sig.Confidence
		if sig.Type.IsBullish() {
			bullScore += sig.Strength * sig.Confidence * weight
		} else {
			bearScore += sig.Strength * sig.Confidence * weight
		}
	}
	add(result.RSIDivergence, 1.2)
	add(result.MACDDivergence, 1.0)
	add(result.OBVDivergence, 0.8)

	if bullScore > 0 || bearScore > 0 {
		denom := bullScore + bearScore
		if denom < 1 {
			denom = 1
		}
		result.CompositeScore = (bullScore - bearScore) / denom
	}
	if result.Count > 0 {
		result.HasDivergence = true
		result.Confidence = totalConfidence / float64(result.Count)
	}
	switch {
	case result.CompositeScore > 0.3:
		result.Direction = model.DirectionUp
	case result.CompositeScore < -0.3:
		result.Direction = model.DirectionDown
	}
	return result
}

// detectRSIDivergence RSI背离：近25根内价格与RSI的局部极值对比
func detectRSIDivergence(prices []float64) *DivergenceSignal {
	if len(prices) < 30 {
		return nil
	}

	rsiValues := make([]float64, 0, len(prices)-14)
	for i := 14; i < len(prices); i++ {
		start := i - 14
		rsiValues = append(rsiValues, indicator.RSI(prices[start:i+1]))
	}
	if len(rsiValues) < 15 {
		return nil
	}

	priceWindow := tail(prices, 25)
	rsiWindow := tail(rsiValues, 25)
	priceLows, priceHighs := findLocalExtremes(priceWindow, 5)
	rsiLows, rsiHighs := findLocalExtremes(rsiWindow, 5)

	// 常规底背离
	if len(priceLows) >= 2 && len(rsiLows) >= 2 {
		lastP, prevP := priceLows[len(priceLows)-1], priceLows[len(priceLows)-2]
		lastR, prevR := rsiLows[len(rsiLows)-1], rsiLows[len(rsiLows)-2]
		if lastP.value < prevP.value && lastR.value > prevR.value {
			priceChange := (lastP.value - prevP.value) / prevP.value * 100
			rsiChange := lastR.value - prevR.value
			return &DivergenceSignal{
				Type:        DivergenceRegularBullish,
				Indicator:   "RSI",
				Strength:    divergenceStrength(abs(priceChange), abs(rsiChange)),
				Confidence:  divergenceConfidence(abs(priceChange), abs(rsiChange), lastR.value),
				Description: fmt.Sprintf("RSI底背离: 价格下跌%.1f%%但RSI上升%.1f，预示可能反弹", abs(priceChange), rsiChange),
			}
		}
	}

	// 常规顶背离
	if len(priceHighs) >= 2 && len(rsiHighs) >= 2 {
		lastP, prevP := priceHighs[len(priceHighs)-1], priceHighs[len(priceHighs)-2]
		lastR, prevR := rsiHighs[len(rsiHighs)-1], rsiHighs[len(rsiHighs)-2]
		if lastP.value > prevP.value && lastR.value < prevR.value {
			priceChange := (lastP.value - prevP.value) / prevP.value * 100
			rsiChange := prevR.value - lastR.value
			return &DivergenceSignal{
				Type:        DivergenceRegularBearish,
				Indicator:   "RSI",
				Strength:    divergenceStrength(priceChange, rsiChange),
				Confidence:  divergenceConfidence(priceChange, rsiChange, lastR.value),
				Description: fmt.Sprintf("RSI顶背离: 价格上涨%.1f%%但RSI下降%.1f，预示可能回调", priceChange, rsiChange),
			}
		}
	}

	return nil
}

// detectMACDDivergence MACD柱状图背离
func detectMACDDivergence(prices []float64) *DivergenceSignal {
	if len(prices) < 35 {
		return nil
	}

	histValues := make([]float64, 0, len(prices)-26)
	for i := 26; i < len(prices); i++ {
		_, _, hist := indicator.MACD(prices[:i+1])
		histValues = append(histValues, hist)
	}
	if len(histValues) < 15 {
		return nil
	}

	priceWindow := prices[len(prices)-len(histValues):]
	priceLows, priceHighs := findLocalExtremes(priceWindow, 5)
	histLows, histHighs := findLocalExtremes(histValues, 5)

	if len(priceLows) >= 2 && len(histLows) >= 2 {
		lastP, prevP := priceLows[len(priceLows)-1], priceLows[len(priceLows)-2]
		lastH, prevH := histLows[len(histLows)-1], histLows[len(histLows)-2]
		if lastP.value < prevP.value && lastH.value > prevH.value {
			priceChange := (lastP.value - prevP.value) / prevP.value * 100
			histChange := lastH.value - prevH.value
			return &DivergenceSignal{
				Type:        DivergenceRegularBullish,
				Indicator:   "MACD",
				Strength:    macdDivergenceStrength(abs(priceChange), histChange),
				Confidence:  minClamp(0.6+minClamp(abs(histChange)*100, 0.3), 0.9),
				Description: fmt.Sprintf("MACD底背离: 价格下跌%.1f%%但MACD柱状图收窄，动能减弱", abs(priceChange)),
			}
		}
	}

	if len(priceHighs) >= 2 && len(histHighs) >= 2 {
		lastP, prevP := priceHighs[len(priceHighs)-1], priceHighs[len(priceHighs)-2]
		lastH, prevH := histHighs[len(histHighs)-1], histHighs[len(histHighs)-2]
		if lastP.value > prevP.value && lastH.value < prevH.value {
			priceChange := (lastP.value - prevP.value) / prevP.value * 100
			histChange := prevH.value - lastH.value
			return &DivergenceSignal{
				Type:        DivergenceRegularBearish,
				Indicator:   "MACD",
				Strength:    macdDivergenceStrength(priceChange, histChange),
				Confidence:  minClamp(0.6+minClamp(abs(histChange)*100, 0.3), 0.9),
				Description: fmt.Sprintf("MACD顶背离: 价格上涨%.1f%%但MACD柱状图萎缩，动能减弱", priceChange),
			}
		}
	}

	return nil
}

// detectOBVDivergence 量价背离：近20根内价格与OBV的极值对比
func detectOBVDivergence(prices []float64, volumes []int64) *DivergenceSignal {
	if len(prices) < 20 || len(volumes) < 20 {
		return nil
	}

	obvSeries := indicator.OBVSeries(prices, volumes)
	priceLows, priceHighs := findLocalExtremes(tail(prices, 20), 4)
	obvLows, obvHighs := findLocalExtremes(tail(obvSeries, 20), 4)

	if len(priceLows) >= 2 && len(obvLows) >= 2 {
		lastP, prevP := priceLows[len(priceLows)-1], priceLows[len(priceLows)-2]
		lastO, prevO := obvLows[len(obvLows)-1], obvLows[len(obvLows)-2]
		if lastP.value < prevP.value && lastO.value > prevO.value {
			return &DivergenceSignal{
				Type:        DivergenceRegularBullish,
				Indicator:   "OBV",
				Strength:    0.7,
				Confidence:  0.65,
				Description: "量价底背离: 价格创新低但成交量萎缩，抛压减轻",
			}
		}
	}
	if len(priceHighs) >= 2 && len(obvHighs) >= 2 {
		lastP, prevP := priceHighs[len(priceHighs)-1], priceHighs[len(priceHighs)-2]
		lastO, prevO := obvHighs[len(obvHighs)-1], obvHighs[len(obvHighs)-2]
		if lastP.value > prevP.value && lastO.value < prevO.value {
			return &DivergenceSignal{
				Type:        DivergenceRegularBearish,
				Indicator:   "OBV",
				Strength:    0.7,
				Confidence:  0.65,
				Description: "量价顶背离: 价格创新高但量能不足，上涨乏力",
			}
		}
	}

	return nil
}

type extreme struct {
	index int
	value float64
}

// findLocalExtremes 寻找局部极值点（前后window根都不低/不高于当前）
func findLocalExtremes(data []float64, window int) (lows, highs []extreme) {
	if len(data) < window*2+1 {
		return nil, nil
	}
	for i := window; i < len(data)-window; i++ {
		current := data[i]
		isLow, isHigh := true, true
		for j := i - window; j <= i+window; j++ {
			if j == i {
				continue
			}
			if data[j] < current {
				isLow = false
			}
			if data[j] > current {
				isHigh = false
			}
		}
		if isLow {
			lows = append(lows, extreme{i, current})
		}
		if isHigh {
			highs = append(highs, extreme{i, current})
		}
	}
	return lows, highs
}

// divergenceStrength RSI背离强度：价格与指标变化各占一半
func divergenceStrength(priceChange, rsiChange float64) float64 {
	combined := priceChange*0.5 + rsiChange*0.5
	switch {
	case combined > 5:
		return 1.0
	case combined > 2.5:
		return 0.7
	default:
		return 0.4
	}
}

// macdDivergenceStrength MACD背离强度
func macdDivergenceStrength(priceChange, histChange float64) float64 {
	switch {
	case priceChange > 5 && histChange > 0.01:
		return 1.0
	case priceChange > 2.5 || histChange > 0.005:
		return 0.7
	default:
		return 0.4
	}
}

// divergenceConfidence 背离置信度：变化越大越可信，指标处于极端区再加成
func divergenceConfidence(priceChange, indicatorChange, indicatorValue float64) float64 {
	confidence := 0.5
	confidence += minClamp(priceChange/10, 0.2)
	confidence += minClamp(indicatorChange/20, 0.15)
	if indicatorValue < 30 || indicatorValue > 70 {
		confidence += 0.1
	}
	if confidence < 0.3 {
		confidence = 0.3
	}
	return minClamp(confidence, 0.9)
}

func tail(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
