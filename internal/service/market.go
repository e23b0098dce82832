package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"MarketAggregator/internal/config"
	"MarketAggregator/internal/model"
	"MarketAggregator/internal/series"
)

// ErrMarketNotFound 所有平台都查不到该市场
var ErrMarketNotFound = errors.New("market not found")

// MarketService 面向前端的市场服务：聚合 + 历史价格（真实或合成）+ K 线
type MarketService struct {
	agg           *AggregationService
	generator     *series.Generator
	minRealPoints int
	now           func() time.Time
	logger        *logrus.Logger
}

// NewMarketService 创建 MarketService
func NewMarketService(agg *AggregationService, generator *series.Generator, cfg config.SeriesConfig, logger *logrus.Logger) *MarketService {
	minPoints := cfg.MinRealPoints
	if minPoints <= 0 {
		minPoints = 10
	}
	return &MarketService{
		agg:           agg,
		generator:     generator,
		minRealPoints: minPoints,
		now:           time.Now,
		logger:        logger,
	}
}

// ListMarkets 聚合后再做 offset 分页：先取 limit+offset 条，再切片。
// timeframe 只用于给缺少结束时间的市场补一个合成结束时间，不参与过滤
func (s *MarketService) ListMarkets(ctx context.Context, limit, offset int, category, timeframe string) ([]*model.Market, error) {
	if limit <= 0 {
		return []*model.Market{}, nil
	}
	if offset < 0 {
		offset = 0
	}

	var (
		markets []*model.Market
		err     error
	)
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, "all") {
		markets, err = s.agg.GetAllMarkets(ctx, limit+offset)
	} else {
		markets, err = s.agg.GetMarketsByCategory(ctx, category, limit+offset)
	}
	if err != nil {
		return nil, err
	}

	if offset >= len(markets) {
		return []*model.Market{}, nil
	}
	end := offset + limit
	if end > len(markets) {
		end = len(markets)
	}
	return s.withEndDates(markets[offset:end], timeframe), nil
}

// withEndDates 结束时间缺失的市场按时间范围补一个（未传时按 30 天）
func (s *MarketService) withEndDates(markets []*model.Market, timeframe string) []*model.Market {
	horizon := model.Timeframe30D.Duration()
	if timeframe = strings.TrimSpace(timeframe); timeframe != "" {
		horizon = model.ParseTimeframe(timeframe).Duration()
	}
	now := s.now()
	out := make([]*model.Market, len(markets))
	for i, m := range markets {
		if m.EndDate.IsZero() {
			cp := *m
			cp.EndDate = now.Add(horizon)
			m = &cp
		}
		out[i] = m
	}
	return out
}

func (s *MarketService) GetFeaturedMarkets(ctx context.Context, limit int) ([]*model.Market, error) {
	return s.agg.GetFeaturedMarkets(ctx, limit)
}

// SearchMarkets query 为空时返回活跃市场
func (s *MarketService) SearchMarkets(ctx context.Context, query string, limit int) ([]*model.Market, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.agg.GetAllMarkets(ctx, limit)
	}
	return s.agg.SearchMarkets(ctx, query, limit)
}

func (s *MarketService) GetMarketStats(ctx context.Context) (*model.Stats, error) {
	return s.agg.GetMarketStats(ctx)
}

// GetMarketDetails 市场 + 展示用子对象（由市场字段确定性推导，非真实盘口）
func (s *MarketService) GetMarketDetails(ctx context.Context, id string) (*model.MarketDetails, error) {
	m, err := s.agg.GetMarketByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMarketNotFound
	}
	return buildDetails(m), nil
}

const orderbookLevels = 5

func buildDetails(m *model.Market) *model.MarketDetails {
	d := &model.MarketDetails{Market: *m}

	d.VolumeInfo = model.VolumeInfo{
		Total:     m.Volume,
		Volume24h: math.Round(m.Volume * 0.1),
		Change24h: round2((m.YesPrice - 0.5) * 20),
	}

	spread := 0.02
	if m.Liquidity > 100000 {
		spread = 0.01
	}
	d.LiquidityInfo = model.LiquidityInfo{
		Total:  m.Liquidity,
		Depth:  math.Round(m.Liquidity * 0.5),
		Spread: spread,
	}

	// 以 Yes 价格为中心上下各 5 档，越远量越小
	d.Orderbook = model.Orderbook{
		Bids: make([]model.OrderLevel, 0, orderbookLevels),
		Asks: make([]model.OrderLevel, 0, orderbookLevels),
	}
	baseSize := math.Max(100, m.Liquidity/20)
	for i := 1; i <= orderbookLevels; i++ {
		size := math.Round(baseSize / float64(i))
		if bid := round2(m.YesPrice - spread/2 - float64(i-1)*0.01); bid > 0 {
			d.Orderbook.Bids = append(d.Orderbook.Bids, model.OrderLevel{Price: bid, Size: size})
		}
		if ask := round2(m.YesPrice + spread/2 + float64(i-1)*0.01); ask < 1 {
			d.Orderbook.Asks = append(d.Orderbook.Asks, model.OrderLevel{Price: ask, Size: size})
		}
	}

	bullish := series.ToPercent(m.YesPrice)
	d.Sentiment = model.Sentiment{Bullish: bullish, Bearish: round2(100 - bullish)}
	switch {
	case bullish >= 60:
		d.Sentiment.Label = "bullish"
	case bullish <= 40:
		d.Sentiment.Label = "bearish"
	default:
		d.Sentiment.Label = "neutral"
	}
	return d
}

// GetPriceHistory 平台有真实历史且点数足够时用真实数据，否则以市场 Yes 价格为起点合成；只保留最后 limit 个点
func (s *MarketService) GetPriceHistory(ctx context.Context, id, timeRange string, limit int) ([]model.PricePoint, error) {
	m, err := s.agg.GetMarketByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMarketNotFound
	}
	tf := model.ParseTimeframe(timeRange)

	points := s.realHistory(ctx, m, tf)
	if len(points) < s.minRealPoints {
		points = s.generator.GenerateForMarket(m, tf)
	}
	if limit > 0 && len(points) > limit {
		points = points[len(points)-limit:]
	}
	return points, nil
}

func (s *MarketService) realHistory(ctx context.Context, m *model.Market, tf model.Timeframe) []model.PricePoint {
	src := s.agg.HistorySource(m.ID)
	if src == nil {
		return nil
	}
	points, err := callWithTimeout(ctx, s.agg.timeout, func(ctx context.Context) ([]model.PricePoint, error) {
		return src.GetPriceHistory(ctx, m.ID, tf)
	})
	if err != nil {
		s.logger.WithError(err).WithField("id", m.ID).Warn("获取真实历史价格失败，改用合成序列")
		return nil
	}
	if len(points) < s.minRealPoints {
		s.logger.WithFields(logrus.Fields{"id": m.ID, "points": len(points)}).Debug("真实历史点数不足，改用合成序列")
	}
	return points
}

// CandleResult K 线 + 图表纵轴范围
type CandleResult struct {
	Timeframe model.Timeframe `json:"timeframe"`
	Candles   []model.Candle  `json:"candles"`
	Scale     series.Range    `json:"scale"`
}

// GetCandles 取完整历史后分桶
func (s *MarketService) GetCandles(ctx context.Context, id, timeRange string, gapFill bool) (*CandleResult, error) {
	points, err := s.GetPriceHistory(ctx, id, timeRange, 0)
	if err != nil {
		return nil, err
	}
	tf := model.ParseTimeframe(timeRange)
	candles := series.BuildCandles(points, tf, gapFill)
	return &CandleResult{
		Timeframe: tf,
		Candles:   candles,
		Scale:     series.Scale(candles),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
