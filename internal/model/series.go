package model

import "time"

// Timeframe 图表时间范围
type Timeframe string

const (
	Timeframe1H  Timeframe = "1h"
	Timeframe6H  Timeframe = "6h"
	Timeframe24H Timeframe = "24h"
	Timeframe7D  Timeframe = "7d"
	Timeframe30D Timeframe = "30d"
)

// Timeframes 按从短到长排列
var Timeframes = []Timeframe{Timeframe1H, Timeframe6H, Timeframe24H, Timeframe7D, Timeframe30D}

// ParseTimeframe 未知值一律回落到 24h
func ParseTimeframe(s string) Timeframe {
	for _, tf := range Timeframes {
		if string(tf) == s {
			return tf
		}
	}
	return Timeframe24H
}

// Duration 时间范围对应的总时长
func (tf Timeframe) Duration() time.Duration {
	switch tf {
	case Timeframe1H:
		return time.Hour
	case Timeframe6H:
		return 6 * time.Hour
	case Timeframe7D:
		return 7 * 24 * time.Hour
	case Timeframe30D:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// PricePoint 价格序列中的一个点，Timestamp 为毫秒
type PricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
}

// Candle OHLC K线，Timestamp 为桶起始毫秒
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}
