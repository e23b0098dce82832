package series

import (
	"math"

	"MarketAggregator/internal/model"
)

const minScalePadding = 0.01

// Range 图表 y 轴范围（概率，[0,1]）
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Scale 取最低价/最高价，两端各留 10% 区间（至少 0.01），再限制到 [0,1]。没有 K 线时返回 [0,1]
func Scale(candles []model.Candle) Range {
	if len(candles) == 0 {
		return Range{Min: 0, Max: 1}
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range candles {
		lo = math.Min(lo, c.Low)
		hi = math.Max(hi, c.High)
	}
	pad := math.Max((hi-lo)*0.1, minScalePadding)
	return Range{
		Min: math.Max(0, lo-pad),
		Max: math.Min(1, hi+pad),
	}
}

// ToPercent 概率转百分比并保留两位小数
func ToPercent(p float64) float64 {
	return math.Round(p*10000) / 100
}

// Position 价格在范围内的相对位置 [0,1]，用于绘图
func (r Range) Position(p float64) float64 {
	if r.Max <= r.Min {
		return 0.5
	}
	return math.Max(0, math.Min(1, (p-r.Min)/(r.Max-r.Min)))
}
