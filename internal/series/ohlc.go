package series

import (
	"math"
	"sort"
	"time"

	"MarketAggregator/internal/model"
)

// bucketWidths 时间范围越短，K 线越细
var bucketWidths = map[model.Timeframe]time.Duration{
	model.Timeframe1H:  5 * time.Minute,
	model.Timeframe6H:  15 * time.Minute,
	model.Timeframe24H: time.Hour,
	model.Timeframe7D:  2 * time.Hour,
	model.Timeframe30D: 4 * time.Hour,
}

// BucketWidth 未知时间范围按 24h
func BucketWidth(tf model.Timeframe) time.Duration {
	if w, ok := bucketWidths[tf]; ok {
		return w
	}
	return bucketWidths[model.Timeframe24H]
}

// BuildCandles 按 floor(ts/w)*w 分桶，输出按时间升序。
// 同一桶内按时间排序（时间相同保持输入顺序）；gapFill 为 true 时空桶用上一根的收盘价补一根零成交量 K 线
func BuildCandles(points []model.PricePoint, tf model.Timeframe, gapFill bool) []model.Candle {
	if len(points) == 0 {
		return []model.Candle{}
	}
	width := BucketWidth(tf).Milliseconds()

	sorted := make([]model.PricePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})

	candles := make([]model.Candle, 0)
	for _, p := range sorted {
		bucket := floorDiv(p.Timestamp, width) * width
		if n := len(candles); n > 0 && candles[n-1].Timestamp == bucket {
			c := &candles[n-1]
			c.High = math.Max(c.High, p.Price)
			c.Low = math.Min(c.Low, p.Price)
			c.Close = p.Price
			c.Volume += p.Volume
			continue
		}
		if gapFill && len(candles) > 0 {
			prev := candles[len(candles)-1]
			for ts := prev.Timestamp + width; ts < bucket; ts += width {
				candles = append(candles, model.Candle{
					Timestamp: ts,
					Open:      prev.Close,
					High:      prev.Close,
					Low:       prev.Close,
					Close:     prev.Close,
				})
			}
		}
		candles = append(candles, model.Candle{
			Timestamp: bucket,
			Open:      p.Price,
			High:      p.Price,
			Low:       p.Price,
			Close:     p.Price,
			Volume:    p.Volume,
		})
	}
	return candles
}

// floorDiv 负时间戳也向下取整
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
