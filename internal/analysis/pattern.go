package analysis

import "stock-forecast-engine/internal/model"

// PatternHit K线形态识别结果
type PatternHit struct {
	Name        string  `json:"pattern_name"`
	Bullish     bool    `json:"bullish"`
	Strength    float64 `json:"strength"` // [0, 1]
	WindowIndex int     `json:"window_index"`
	Description string  `json:"description"`
}

// RecognizePatterns 识别窗口末端的K线形态（单根、双根、三根）
func RecognizePatterns(s *model.Series) []PatternHit {
	var hits []PatternHit
	n := s.Len()
	if n < 3 {
		return hits
	}

	if hit := detectSingleCandle(s.Opens[n-1], s.Closes[n-1], s.Highs[n-1], s.Lows[n-1]); hit != nil {
		hit.WindowIndex = n - 1
		hits = append(hits, *hit)
	}
	if hit := detectDoubleCandle(s.Opens[n-2:], s.Closes[n-2:]); hit != nil {
		hit.WindowIndex = n - 1
		hits = append(hits, *hit)
	}
	if hit := detectTripleCandle(s.Opens[n-3:], s.Closes[n-3:]); hit != nil {
		hit.WindowIndex = n - 1
		hits = append(hits, *hit)
	}
	return hits
}

// detectSingleCandle 单根形态：十字星、锤子/吊颈、倒锤子/流星、纺锤线
func detectSingleCandle(open, close, high, low float64) *PatternHit {
	body := abs(close - open)
	totalRange := high - low
	if totalRange == 0 {
		return nil
	}

	bodyRatio := body / totalRange
	upperShadow := high - maxOf([]float64{open, close})
	lowerShadow := minOf([]float64{open, close}) - low

	if bodyRatio < 0.1 {
		return &PatternHit{Name: "十字星", Bullish: false, Strength: 0.6, Description: "十字星，市场犹豫不决"}
	}

	if lowerShadow > body*2 && upperShadow < body*0.5 && bodyRatio < 0.4 {
		if close > open {
			return &PatternHit{Name: "锤子线", Bullish: true, Strength: 0.65, Description: "锤子线，可能反转上涨"}
		}
		return &PatternHit{Name: "吊颈线", Bullish: false, Strength: 0.65, Description: "吊颈线，可能见顶"}
	}

	if upperShadow > body*2 && lowerShadow < body*0.5 && bodyRatio < 0.4 {
		if close > open {
			return &PatternHit{Name: "倒锤子", Bullish: true, Strength: 0.60, Description: "倒锤子，可能反转上涨"}
		}
		return &PatternHit{Name: "流星线", Bullish: false, Strength: 0.60, Description: "流星线，可能见顶"}
	}

	if bodyRatio < 0.3 && abs(upperShadow-lowerShadow) < body*0.5 {
		return &PatternHit{Name: "纺锤线", Bullish: false, Strength: 0.5, Description: "纺锤线，市场方向不明"}
	}

	return nil
}

// detectDoubleCandle 双根形态：看涨/看跌吞没
func detectDoubleCandle(opens, closes []float64) *PatternHit {
	if len(opens) < 2 || len(closes) < 2 {
		return nil
	}
	prevBody := closes[0] - opens[0]
	currBody := closes[1] - opens[1]

	if prevBody < 0 && currBody > 0 && abs(currBody) > abs(prevBody)*1.2 &&
		opens[1] < closes[0] && closes[1] > opens[0] {
		return &PatternHit{Name: "看涨吞没", Bullish: true, Strength: 0.70, Description: "看涨吞没形态，可能反转上涨"}
	}
	if prevBody > 0 && currBody < 0 && abs(currBody) > abs(prevBody)*1.2 &&
		opens[1] > closes[0] && closes[1] < opens[0] {
		return &PatternHit{Name: "看跌吞没", Bullish: false, Strength: 0.70, Description: "看跌吞没形态，可能反转下跌"}
	}
	return nil
}

// detectTripleCandle 三根形态：三只白兵/乌鸦、早晨/黄昏之星
func detectTripleCandle(opens, closes []float64) *PatternHit {
	if len(opens) < 3 || len(closes) < 3 {
		return nil
	}
	body1 := closes[0] - opens[0]
	body2 := closes[1] - opens[1]
	body3 := closes[2] - opens[2]

	if body1 > 0 && body2 > 0 && body3 > 0 && closes[1] > closes[0] && closes[2] > closes[1] {
		return &PatternHit{Name: "三只白兵", Bullish: true, Strength: 0.75, Description: "三只白兵形态，强烈看涨信号"}
	}
	if body1 < 0 && body2 < 0 && body3 < 0 && closes[1] < closes[0] && closes[2] < closes[1] {
		return &PatternHit{Name: "三只乌鸦", Bullish: false, Strength: 0.75, Description: "三只乌鸦形态，强烈看跌信号"}
	}

	maxBody := abs(body1)
	if abs(body3) > maxBody {
		maxBody = abs(body3)
	}
	if maxBody == 0 {
		return nil
	}
	midRatio := abs(body2) / maxBody

	if body1 < 0 && body3 > 0 && midRatio < 0.3 && closes[2] > (opens[0]+closes[0])/2 {
		return &PatternHit{Name: "早晨之星", Bullish: true, Strength: 0.70, Description: "早晨之星形态，可能反转上涨"}
	}
	if body1 > 0 && body3 < 0 && midRatio < 0.3 && closes[2] < (opens[0]+closes[0])/2 {
		return &PatternHit{Name: "黄昏之星", Bullish: false, Strength: 0.70, Description: "黄昏之星形态，可能反转下跌"}
	}
	return nil
}
