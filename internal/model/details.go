package model

// MarketDetails 详情页数据：Market + 展示用的合成子对象（非核心契约）
type MarketDetails struct {
	Market
	VolumeInfo    VolumeInfo    `json:"volumeInfo"`
	LiquidityInfo LiquidityInfo `json:"liquidityInfo"`
	Orderbook     Orderbook     `json:"orderbook"`
	Sentiment     Sentiment     `json:"sentiment"`
}

type VolumeInfo struct {
	Total     float64 `json:"total"`
	Volume24h float64 `json:"volume24h"`
	Change24h float64 `json:"change24h"` // 百分比
}

type LiquidityInfo struct {
	Total  float64 `json:"total"`
	Depth  float64 `json:"depth"`  // 盘口两侧合计
	Spread float64 `json:"spread"` // 最优买卖价差
}

// OrderLevel 单档盘口
type OrderLevel struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

type Orderbook struct {
	Bids []OrderLevel `json:"bids"`
	Asks []OrderLevel `json:"asks"`
}

type Sentiment struct {
	Bullish float64 `json:"bullish"` // 0-100
	Bearish float64 `json:"bearish"` // 0-100
	Label   string  `json:"label"`
}
