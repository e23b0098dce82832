package service

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"MarketAggregator/internal/config"
	"MarketAggregator/internal/interfaces"
	"MarketAggregator/internal/model"
)

var errFake = errors.New("fake adapter failure")

// fakeAdapter 可配置失败/panic/阻塞的内存适配器
type fakeAdapter struct {
	platform model.Platform
	markets  []*model.Market
	stats    *model.Stats
	err      error
	panics   bool
	block    time.Duration // >0 时先阻塞，ignores 为 true 时不理会 ctx
	ignores  bool

	calls     atomic.Int32
	lastLimit atomic.Int32
}

func (f *fakeAdapter) wait(ctx context.Context) error {
	f.calls.Add(1)
	if f.panics {
		panic("fake adapter panic")
	}
	if f.block > 0 {
		if f.ignores {
			time.Sleep(f.block)
		} else {
			select {
			case <-time.After(f.block):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return f.err
}

func (f *fakeAdapter) GetType() model.Platform { return f.platform }

func (f *fakeAdapter) GetActiveMarkets(ctx context.Context, limit int) ([]*model.Market, error) {
	f.lastLimit.Store(int32(limit))
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if limit < len(f.markets) {
		return f.markets[:limit], nil
	}
	return f.markets, nil
}

func (f *fakeAdapter) GetMarketsByCategory(ctx context.Context, category string, limit int) ([]*model.Market, error) {
	all, err := f.GetActiveMarkets(ctx, len(f.markets))
	if err != nil {
		return nil, err
	}
	var out []*model.Market
	for _, m := range all {
		if m.Category == category && len(out) < limit {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeAdapter) SearchMarkets(ctx context.Context, query string, limit int) ([]*model.Market, error) {
	return f.GetActiveMarkets(ctx, limit)
}

func (f *fakeAdapter) GetMarketByID(ctx context.Context, id string) (*model.Market, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	for _, m := range f.markets {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeAdapter) GetMarketStats(ctx context.Context) (*model.Stats, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.stats, nil
}

// historyAdapter 额外提供真实历史价格
type historyAdapter struct {
	*fakeAdapter
	points []model.PricePoint
}

func (h *historyAdapter) GetPriceHistory(ctx context.Context, id string, tf model.Timeframe) ([]model.PricePoint, error) {
	return h.points, nil
}

func market(id string, volume, liquidity float64) *model.Market {
	return &model.Market{
		ID:            id,
		Title:         id,
		Category:      "Crypto",
		Active:        true,
		Outcomes:      []string{"Yes", "No"},
		OutcomePrices: []float64{0.6, 0.4},
		YesPrice:      0.6,
		NoPrice:       0.4,
		Volume:        volume,
		Liquidity:     liquidity,
	}
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newAggregator(timeout time.Duration, seed int64, adapters ...interfaces.MarketAdapter) *AggregationService {
	return NewAggregationService(adapters, config.AggregatorConfig{AdapterTimeout: timeout, FeaturedSeed: seed}, quietLogger())
}
