// Package synthetic 确定性合成K线生成器，供演示库初始化与离线联调使用
package synthetic

import (
	"hash/fnv"
	"math"
	"time"

	"stock-forecast-engine/internal/calendar"
	"stock-forecast-engine/internal/model"
)

// Options 生成参数
type Options struct {
	StartDate  string  // 首根K线日期，"2006-01-02"，非交易日自动顺延
	Days       int     // 生成的交易日数量
	BasePrice  float64 // 起始价
	Drift      float64 // 日均漂移（百分比，如0.1表示+0.1%/日）
	Volatility float64 // 日波动幅度（百分比）
	BaseVolume int64   // 基准成交量
}

func (o *Options) fill() {
	if o.StartDate == "" {
		o.StartDate = "2024-01-02"
	}
	if o.Days <= 0 {
		o.Days = 250
	}
	if o.BasePrice <= 0 {
		o.BasePrice = 10.0
	}
	if o.Volatility <= 0 {
		o.Volatility = 1.5
	}
	if o.BaseVolume <= 0 {
		o.BaseVolume = 1_000_000
	}
}

// Generate 按代码生成确定性日线序列
//
// 同一代码与参数的输出逐字节一致：伪随机序列由代码哈希播种，
// 不依赖时钟与全局状态。日期沿交易日历推进，跳过周末与节假日。
func Generate(symbol string, opts Options) []model.Bar {
	opts.fill()

	rng := newLCG(symbol)
	start, err := calendar.ParseDate(opts.StartDate)
	if err != nil {
		start = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	}
	if !calendar.IsTradingDay(start) {
		start = calendar.NextTradingDay(start)
	}

	bars := make([]model.Bar, 0, opts.Days)
	date := start
	prevClose := opts.BasePrice

	for i := 0; i < opts.Days; i++ {
		// 1. 日收益 = 漂移 + 波动项 + 周期项，全部确定性
		noise := (rng.float() - 0.5) * 2 * opts.Volatility
		cycle := math.Sin(float64(i)/17.0) * opts.Volatility * 0.4
		changePct := opts.Drift + noise + cycle

		// 2. 由收益推出OHLC，保证 low ≤ open,close ≤ high
		open := prevClose
		close := round2(prevClose * (1 + changePct/100))
		if close <= 0 {
			close = 0.01
		}
		spread := math.Abs(close-open) + prevClose*opts.Volatility*0.003
		high := round2(math.Max(open, close) + spread*rng.float())
		low := round2(math.Min(open, close) - spread*rng.float())
		if low <= 0 {
			low = 0.01
		}

		// 3. 成交量随波动放大
		volume := opts.BaseVolume + int64(float64(opts.BaseVolume)*math.Abs(changePct)/2)

		bars = append(bars, model.Bar{
			Date:          calendar.FormatDate(date),
			Open:          open,
			High:          high,
			Low:           low,
			Close:         close,
			Volume:        volume,
			Amount:        round2(close * float64(volume)),
			ChangePercent: round2(changePct),
		})

		prevClose = close
		date = calendar.NextTradingDay(date)
	}
	return bars
}

// lcg 线性同余伪随机源，播种自代码哈希
type lcg struct {
	state uint64
}

func newLCG(symbol string) *lcg {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	seed := h.Sum64()
	if seed == 0 {
		seed = 0x9E3779B97F4A7C15
	}
	return &lcg{state: seed}
}

func (r *lcg) next() uint64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// float 返回[0,1)区间的确定性浮点数
func (r *lcg) float() float64 {
	return float64(r.next()>>11) / float64(1<<53)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
