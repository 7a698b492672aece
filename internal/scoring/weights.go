// Package scoring 多因子打分：按市场状态选择权重，把各分析因子合成多空分数
package scoring

import "stock-forecast-engine/internal/analysis"

// WeightTable 六因子权重，合计应为1
type WeightTable struct {
	Trend      float64 `yaml:"trend" json:"trend"`
	Momentum   float64 `yaml:"momentum" json:"momentum"`
	Volume     float64 `yaml:"volume" json:"volume"`
	Pattern    float64 `yaml:"pattern" json:"pattern"`
	SR         float64 `yaml:"support_resistance" json:"support_resistance"`
	Divergence float64 `yaml:"divergence" json:"divergence"`
}

// Sum 权重合计
func (w WeightTable) Sum() float64 {
	return w.Trend + w.Momentum + w.Volume + w.Pattern + w.SR + w.Divergence
}

// Valid 权重表是否可用（各项非负且合计接近1）
func (w WeightTable) Valid() bool {
	if w.Trend < 0 || w.Momentum < 0 || w.Volume < 0 || w.Pattern < 0 || w.SR < 0 || w.Divergence < 0 {
		return false
	}
	sum := w.Sum()
	return sum > 0.99 && sum < 1.01
}

var (
	trendingWeights = WeightTable{
		Trend:      0.30,
		Momentum:   0.25,
		Volume:     0.15,
		Pattern:    0.10,
		SR:         0.10,
		Divergence: 0.10,
	}
	rangingWeights = WeightTable{
		Trend:      0.10,
		Momentum:   0.15,
		Volume:     0.15,
		Pattern:    0.20,
		SR:         0.25,
		Divergence: 0.15,
	}
)

// WeightsFor 按市场状态返回权重表：趋势市重趋势动量，震荡市重形态和支撑压力
func WeightsFor(regime analysis.Regime) WeightTable {
	if regime.IsTrending() {
		return trendingWeights
	}
	return rangingWeights
}

// WeightOverrides 配置层对默认权重的覆盖，空值保持默认
type WeightOverrides struct {
	Trending *WeightTable `yaml:"trending"`
	Ranging  *WeightTable `yaml:"ranging"`
}

// Apply 用配置覆盖默认权重，非法表忽略
func (o *WeightOverrides) Apply() {
	if o == nil {
		return
	}
	if o.Trending != nil && o.Trending.Valid() {
		trendingWeights = *o.Trending
	}
	if o.Ranging != nil && o.Ranging.Valid() {
		rangingWeights = *o.Ranging
	}
}
