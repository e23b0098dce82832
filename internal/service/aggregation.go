package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"MarketAggregator/internal/adapter"
	"MarketAggregator/internal/config"
	"MarketAggregator/internal/interfaces"
	"MarketAggregator/internal/model"
)

const defaultAdapterTimeout = 12 * time.Second

// AggregationService 多平台聚合：并发调用各适配器，单个平台失败/超时/panic 只当作空结果，
// 合并后去重、排序、截断
type AggregationService struct {
	adapters    []interfaces.MarketAdapter
	timeout     time.Duration
	shuffleSeed int64
	logger      *logrus.Logger
}

func NewAggregationService(adapters []interfaces.MarketAdapter, cfg config.AggregatorConfig, logger *logrus.Logger) *AggregationService {
	timeout := cfg.AdapterTimeout
	if timeout <= 0 {
		timeout = defaultAdapterTimeout
	}
	return &AggregationService{
		adapters:    adapters,
		timeout:     timeout,
		shuffleSeed: cfg.FeaturedSeed,
		logger:      logger,
	}
}

// AdapterCount 启用的平台数
func (s *AggregationService) AdapterCount() int {
	return len(s.adapters)
}

// GetAllMarkets 各平台取 ceil(limit/n) 条活跃市场，按成交量倒序取前 limit 条
func (s *AggregationService) GetAllMarkets(ctx context.Context, limit int) ([]*model.Market, error) {
	if limit <= 0 || len(s.adapters) == 0 {
		return []*model.Market{}, nil
	}
	per := perAdapterLimit(limit, len(s.adapters))
	groups, err := fanOut(ctx, s, "all_markets", func(ctx context.Context, a interfaces.MarketAdapter) ([]*model.Market, error) {
		return a.GetActiveMarkets(ctx, per)
	})
	if err != nil {
		return nil, err
	}
	return truncate(sortByKey(mergeUnique(groups), byVolume), limit), nil
}

// SearchMarkets 按 成交量+流动性 排序
func (s *AggregationService) SearchMarkets(ctx context.Context, query string, limit int) ([]*model.Market, error) {
	if limit <= 0 || len(s.adapters) == 0 {
		return []*model.Market{}, nil
	}
	per := perAdapterLimit(limit, len(s.adapters))
	groups, err := fanOut(ctx, s, "search", func(ctx context.Context, a interfaces.MarketAdapter) ([]*model.Market, error) {
		return a.SearchMarkets(ctx, query, per)
	})
	if err != nil {
		return nil, err
	}
	return truncate(sortByKey(mergeUnique(groups), byRelevance), limit), nil
}

func (s *AggregationService) GetMarketsByCategory(ctx context.Context, category string, limit int) ([]*model.Market, error) {
	if limit <= 0 || len(s.adapters) == 0 {
		return []*model.Market{}, nil
	}
	per := perAdapterLimit(limit, len(s.adapters))
	groups, err := fanOut(ctx, s, "category", func(ctx context.Context, a interfaces.MarketAdapter) ([]*model.Market, error) {
		return a.GetMarketsByCategory(ctx, category, per)
	})
	if err != nil {
		return nil, err
	}
	return truncate(sortByKey(mergeUnique(groups), byRelevance), limit), nil
}

// GetFeaturedMarkets 合并后均匀洗牌再截断，避免成交量大的平台霸占头部
func (s *AggregationService) GetFeaturedMarkets(ctx context.Context, limit int) ([]*model.Market, error) {
	if limit <= 0 || len(s.adapters) == 0 {
		return []*model.Market{}, nil
	}
	per := perAdapterLimit(limit, len(s.adapters))
	groups, err := fanOut(ctx, s, "featured", func(ctx context.Context, a interfaces.MarketAdapter) ([]*model.Market, error) {
		return a.GetActiveMarkets(ctx, per)
	})
	if err != nil {
		return nil, err
	}
	markets := mergeUnique(groups)
	s.newShuffler().Shuffle(len(markets), func(i, j int) {
		markets[i], markets[j] = markets[j], markets[i]
	})
	return truncate(markets, limit), nil
}

// newShuffler 每次调用新建随机源，配置了种子时结果可复现
func (s *AggregationService) newShuffler() *rand.Rand {
	if s.shuffleSeed != 0 {
		seed := uint64(s.shuffleSeed)
		return rand.New(rand.NewPCG(seed, seed))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// GetMarketByID 先按 "<platform>_" 前缀路由；前缀都不匹配时依次询问每个平台。
// 未找到返回 nil, nil；只有 ctx 取消时返回错误
func (s *AggregationService) GetMarketByID(ctx context.Context, id string) (*model.Market, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	log := s.logger.WithFields(logrus.Fields{"request_id": uuid.NewString(), "op": "market_by_id", "id": id})

	if a := s.adapterFor(id); a != nil {
		m, err := s.lookup(ctx, a, id)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.WithError(err).WithField("platform", a.GetType()).Warn("平台查询市场失败")
			return nil, nil
		}
		return m, nil
	}
	if hasKnownPrefix(id) {
		// 平台已知但未启用
		return nil, nil
	}

	for _, a := range s.adapters {
		m, err := s.lookup(ctx, a, id)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			log.WithError(err).WithField("platform", a.GetType()).Warn("平台查询市场失败，继续尝试下一个")
			continue
		}
		if m != nil {
			return m, nil
		}
	}
	return nil, nil
}

func (s *AggregationService) lookup(ctx context.Context, a interfaces.MarketAdapter, id string) (*model.Market, error) {
	return callWithTimeout(ctx, s.timeout, func(ctx context.Context) (*model.Market, error) {
		return a.GetMarketByID(ctx, id)
	})
}

// HistorySource 返回该 id 所属平台的真实历史价格来源，平台不支持时返回 nil
func (s *AggregationService) HistorySource(id string) interfaces.PriceHistorySource {
	a := s.adapterFor(id)
	if a == nil {
		return nil
	}
	src, _ := a.(interfaces.PriceHistorySource)
	return src
}

func (s *AggregationService) adapterFor(id string) interfaces.MarketAdapter {
	for _, a := range s.adapters {
		if strings.HasPrefix(id, string(a.GetType())+"_") {
			return a
		}
	}
	return nil
}

func hasKnownPrefix(id string) bool {
	for _, p := range model.KnownPlatforms {
		if strings.HasPrefix(id, string(p)+"_") {
			return true
		}
	}
	return false
}

// GetMarketStats 汇总各平台统计：总数/活跃数/成交量求和，平均流动性取有市场的平台的均值，分类合并后取前5
func (s *AggregationService) GetMarketStats(ctx context.Context) (*model.Stats, error) {
	merged := &model.Stats{TopCategories: []model.CategoryCount{}}
	if len(s.adapters) == 0 {
		return merged, nil
	}
	results, err := fanOut(ctx, s, "stats", func(ctx context.Context, a interfaces.MarketAdapter) (*model.Stats, error) {
		return a.GetMarketStats(ctx)
	})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	var liquidity float64
	var reporting int
	for _, st := range results {
		if st == nil {
			continue
		}
		merged.TotalMarkets += st.TotalMarkets
		merged.ActiveMarkets += st.ActiveMarkets
		merged.TotalVolume += st.TotalVolume
		if st.TotalMarkets > 0 {
			liquidity += st.AverageLiquidity
			reporting++
		}
		for _, cc := range st.TopCategories {
			counts[cc.Category] += cc.Count
		}
	}
	if reporting > 0 {
		merged.AverageLiquidity = liquidity / float64(reporting)
	}
	merged.TopCategories = adapter.TopCategories(counts, adapter.TopCategoriesN)
	return merged, nil
}

// fanOut 每个平台一个 goroutine，全部完成后返回（按平台顺序排列的结果）。
// 平台失败记为零值并计数；父 ctx 取消时丢弃全部结果返回 ctx.Err()
func fanOut[T any](ctx context.Context, s *AggregationService, op string, call func(context.Context, interfaces.MarketAdapter) (T, error)) ([]T, error) {
	log := s.logger.WithFields(logrus.Fields{"request_id": uuid.NewString(), "op": op})
	results := make([]T, len(s.adapters))
	var failed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	for i, a := range s.adapters {
		g.Go(func() error {
			res, err := callWithTimeout(gctx, s.timeout, func(ctx context.Context) (T, error) {
				return call(ctx, a)
			})
			if err != nil {
				failed.Add(1)
				log.WithError(err).WithField("platform", a.GetType()).Warn("平台调用失败，按空结果处理")
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n := failed.Load(); n > 0 {
		log.Warnf("聚合完成：%d/%d 个平台失败", n, len(s.adapters))
	} else {
		log.Debugf("聚合完成：%d 个平台", len(s.adapters))
	}
	return results, nil
}

// callWithTimeout 单次平台调用：独立超时 + recover。适配器不理会 ctx 时也能按时返回
func callWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		val T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				ch <- result{zero, fmt.Errorf("适配器panic: %v", r)}
			}
		}()
		v, err := fn(ctx)
		ch <- result{v, err}
	}()

	select {
	case r := <-ch:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("适配器调用超时或取消: %w", ctx.Err())
	}
}

func perAdapterLimit(limit, n int) int {
	return (limit + n - 1) / n
}

// mergeUnique 按平台顺序拼接，相同 id 只保留第一次出现的
func mergeUnique(groups [][]*model.Market) []*model.Market {
	seen := make(map[string]struct{})
	out := make([]*model.Market, 0)
	for _, group := range groups {
		for _, m := range group {
			if m == nil {
				continue
			}
			if _, dup := seen[m.ID]; dup {
				continue
			}
			seen[m.ID] = struct{}{}
			out = append(out, m)
		}
	}
	return out
}

func byVolume(m *model.Market) float64    { return m.Volume }
func byRelevance(m *model.Market) float64 { return m.Volume + m.Liquidity }

// sortByKey 稳定降序，相同值保持平台输出顺序
func sortByKey(markets []*model.Market, key func(*model.Market) float64) []*model.Market {
	sort.SliceStable(markets, func(i, j int) bool {
		return key(markets[i]) > key(markets[j])
	})
	return markets
}

func truncate(markets []*model.Market, limit int) []*model.Market {
	if len(markets) > limit {
		return markets[:limit]
	}
	return markets
}
