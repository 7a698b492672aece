// Package risk 风险度量：VaR、最大回撤、夏普比率、凯利仓位与止损止盈
package risk

import (
	"math"

	"stock-forecast-engine/internal/indicator"
	"stock-forecast-engine/internal/model"
)

// 年化无风险利率，按252个交易日折算到日
const riskFreeRate = 0.03

// Metrics 风险指标汇总
type Metrics struct {
	VaR95          float64   `json:"var_95"`        // 持有期95%分位潜在亏损幅度，正值口径
	MaxDrawdown    float64   `json:"max_drawdown"`  // [0, 1]
	SharpeRatio    float64   `json:"sharpe_ratio"`  // 日频
	KellyFraction  float64   `json:"kelly_fraction"`// 建议仓位比例 [0, 0.25]
	StopLoss       float64   `json:"stop_loss"`     // 建议止损价
	TakeProfits    []float64 `json:"take_profits"`  // 三档止盈价
	DailyVol       float64   `json:"daily_volatility"`
	RiskLevel      string    `json:"risk_level"`
}

// Assess 基于历史收益序列计算风险指标
//
// horizon为持有交易日数，entry为当前价。收益率不足时给保守默认值。
func Assess(s *model.Series, horizon int, entry float64) *Metrics {
	returns := dailyReturns(s.Closes)
	sigma := stddev(returns)
	mu := mean(returns)
	if sigma == 0 {
		sigma = 0.02
	}
	if horizon < 1 {
		horizon = 1
	}

	h := float64(horizon)
	atrPct := indicator.ATRPercent(s.Highs, s.Lows, s.Closes, 14) / 100

	// VaR按正值表示潜在亏损，漂移足够强时截断为0
	vaR := 1.645*sigma*math.Sqrt(h) - mu*h
	if vaR < 0 {
		vaR = 0
	}

	m := &Metrics{
		VaR95:       vaR,
		MaxDrawdown: MaxDrawdown(s.Closes),
		SharpeRatio: sharpe(mu, sigma),
		DailyVol:    sigma,
	}
	m.KellyFraction = KellyFraction(returns)
	m.StopLoss = StopLoss(entry, atrPct, sigma)
	m.TakeProfits = TakeProfits(entry, sigma)
	m.RiskLevel = riskLevel(sigma, m.MaxDrawdown)
	return m
}

// MaxDrawdown 历史最大回撤
func MaxDrawdown(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}
	peak := prices[0]
	maxDD := 0.0
	for _, p := range prices[1:] {
		if p > peak {
			peak = p
		} else if peak > 0 {
			dd := (peak - p) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// KellyFraction 凯利公式仓位：f = (p·b - (1-p)) / b，取四分之一凯利并截断到[0, 0.25]
func KellyFraction(returns []float64) float64 {
	if len(returns) < 10 {
		return 0
	}
	var wins, losses int
	var winSum, lossSum float64
	for _, r := range returns {
		if r > 0 {
			wins++
			winSum += r
		} else if r < 0 {
			losses++
			lossSum += -r
		}
	}
	if wins == 0 || losses == 0 || lossSum == 0 {
		return 0
	}
	p := float64(wins) / float64(wins+losses)
	avgWin := winSum / float64(wins)
	avgLoss := lossSum / float64(losses)
	b := avgWin / avgLoss
	if b == 0 {
		return 0
	}
	f := (p*b - (1 - p)) / b * 0.25
	if f < 0 {
		return 0
	}
	if f > 0.25 {
		return 0.25
	}
	return f
}

// StopLoss 止损价：取2倍ATR%与2倍日波动率中较大者作为回撤空间
func StopLoss(entry, atrPct, sigma float64) float64 {
	width := 2 * atrPct
	if 2*sigma > width {
		width = 2 * sigma
	}
	return entry * (1 - width)
}

// TakeProfits 三档止盈价：1.5/2.5/4.0倍的2σ空间
func TakeProfits(entry, sigma float64) []float64 {
	base := 2 * sigma
	return []float64{
		entry * (1 + 1.5*base),
		entry * (1 + 2.5*base),
		entry * (1 + 4.0*base),
	}
}

// sharpe 日频夏普比率
func sharpe(mu, sigma float64) float64 {
	if sigma == 0 {
		return 0
	}
	return (mu - riskFreeRate/252) / sigma
}

// riskLevel 风险档位描述
func riskLevel(sigma, maxDD float64) string {
	switch {
	case sigma > 0.04 || maxDD > 0.30:
		return "高风险"
	case sigma > 0.02 || maxDD > 0.15:
		return "中等风险"
	default:
		return "低风险"
	}
}

func dailyReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns = append(returns, (prices[i]-prices[i-1])/prices[i-1])
		}
	}
	return returns
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)))
}
