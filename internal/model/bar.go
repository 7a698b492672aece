package model

// Bar 单日K线数据
type Bar struct {
	Date          string  `json:"date"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	Volume        int64   `json:"volume"`
	Amount        float64 `json:"amount"`
	ChangePercent float64 `json:"change_percent"`
}

// Series 按日期升序排列的并行数组，供指标计算使用
type Series struct {
	Dates          []string
	Opens          []float64
	Highs          []float64
	Lows           []float64
	Closes         []float64
	Volumes        []int64
	ChangePercents []float64
}

// NewSeries 把K线序列拆成并行数组（输入须已按日期升序）
func NewSeries(bars []Bar) *Series {
	s := &Series{
		Dates:          make([]string, len(bars)),
		Opens:          make([]float64, len(bars)),
		Highs:          make([]float64, len(bars)),
		Lows:           make([]float64, len(bars)),
		Closes:         make([]float64, len(bars)),
		Volumes:        make([]int64, len(bars)),
		ChangePercents: make([]float64, len(bars)),
	}
	for i, b := range bars {
		s.Dates[i] = b.Date
		s.Opens[i] = b.Open
		s.Highs[i] = b.High
		s.Lows[i] = b.Low
		s.Closes[i] = b.Close
		s.Volumes[i] = b.Volume
		s.ChangePercents[i] = b.ChangePercent
	}
	return s
}

// Len 序列长度
func (s *Series) Len() int { return len(s.Closes) }

// LastClose 最新收盘价，空序列返回0
func (s *Series) LastClose() float64 {
	if len(s.Closes) == 0 {
		return 0
	}
	return s.Closes[len(s.Closes)-1]
}

// Append 追加一根合成K线（预测推进用）
func (s *Series) Append(date string, open, high, low, close float64, volume int64) {
	change := 0.0
	if n := len(s.Closes); n > 0 && s.Closes[n-1] != 0 {
		change = (close - s.Closes[n-1]) / s.Closes[n-1] * 100
	}
	s.Dates = append(s.Dates, date)
	s.Opens = append(s.Opens, open)
	s.Highs = append(s.Highs, high)
	s.Lows = append(s.Lows, low)
	s.Closes = append(s.Closes, close)
	s.Volumes = append(s.Volumes, volume)
	s.ChangePercents = append(s.ChangePercents, change)
}

// Clone 深拷贝，投影器在合成序列上推进时使用
func (s *Series) Clone() *Series {
	c := &Series{
		Dates:          append([]string(nil), s.Dates...),
		Opens:          append([]float64(nil), s.Opens...),
		Highs:          append([]float64(nil), s.Highs...),
		Lows:           append([]float64(nil), s.Lows...),
		Closes:         append([]float64(nil), s.Closes...),
		Volumes:        append([]int64(nil), s.Volumes...),
		ChangePercents: append([]float64(nil), s.ChangePercents...),
	}
	return c
}
