package marketdata

import (
	"sort"

	"stock-forecast-engine/internal/model"
)

// SmoothBars 清洗异常K线
//
// 收盘价偏离前后中位数超过20%的按中位数回填（疑似错价），
// 成交量超过中位量5倍的按中位量回填（疑似错量）。不改动输入切片。
func SmoothBars(bars []model.Bar) []model.Bar {
	if len(bars) < 3 {
		return bars
	}
	out := make([]model.Bar, len(bars))
	copy(out, bars)

	for i := 1; i < len(out)-1; i++ {
		med := median3(bars[i-1].Close, bars[i].Close, bars[i+1].Close)
		if med > 0 && abs(bars[i].Close-med)/med > 0.20 {
			ratio := med / bars[i].Close
			out[i].Close = med
			out[i].Open = bars[i].Open * ratio
			out[i].High = bars[i].High * ratio
			out[i].Low = bars[i].Low * ratio
		}
	}

	medVol := medianVolume(bars)
	if medVol > 0 {
		for i := range out {
			if out[i].Volume > 5*medVol {
				out[i].Volume = medVol
			}
		}
	}

	// 回填后重算涨跌幅，保持字段自洽
	for i := 1; i < len(out); i++ {
		if out[i-1].Close != 0 {
			out[i].ChangePercent = (out[i].Close - out[i-1].Close) / out[i-1].Close * 100
		}
	}
	return out
}

func median3(a, b, c float64) float64 {
	v := []float64{a, b, c}
	sort.Float64s(v)
	return v[1]
}

func medianVolume(bars []model.Bar) int64 {
	if len(bars) == 0 {
		return 0
	}
	volumes := make([]int64, len(bars))
	for i, b := range bars {
		volumes[i] = b.Volume
	}
	sort.Slice(volumes, func(i, j int) bool { return volumes[i] < volumes[j] })
	return volumes[len(volumes)/2]
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
