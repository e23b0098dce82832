// Package series 生成合成价格/成交量序列，并聚合为 K 线。
// 平台拿不到真实历史（或点数太少）时，图表用这里的数据。
package series

import (
	"math"
	"math/rand/v2"
	"time"

	"MarketAggregator/internal/model"
	"MarketAggregator/internal/normalizer"
)

const (
	minPrice = 0.01
	maxPrice = 0.99

	shockProbability = 0.1
	maxVolatility    = 0.05
	minVolatility    = 0.01
	maxBaseVolume    = 15000
)

// RandSource 均匀分布 [0,1) 随机数来源，*rand.Rand 即满足
type RandSource interface {
	Float64() float64
}

// NewSeededSource 固定种子，序列可复现
func NewSeededSource(seed int64) RandSource {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

func newRandomSource() RandSource {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

type frame struct {
	points   int
	interval time.Duration
}

// frames 时间范围 → (点数, 间隔)
var frames = map[model.Timeframe]frame{
	model.Timeframe1H:  {60, time.Minute},
	model.Timeframe6H:  {72, 5 * time.Minute},
	model.Timeframe24H: {96, 15 * time.Minute},
	model.Timeframe7D:  {168, time.Hour},
	model.Timeframe30D: {120, 6 * time.Hour},
}

// Frame 返回时间范围对应的点数与间隔，未知时间范围按 24h
func Frame(tf model.Timeframe) (int, time.Duration) {
	f, ok := frames[tf]
	if !ok {
		f = frames[model.Timeframe24H]
	}
	return f.points, f.interval
}

// Generator 合成序列生成器，本身无可变状态，可并发使用
type Generator struct {
	newSource func() RandSource
	now       func() time.Time
	loc       *time.Location
}

type Option func(*Generator)

// WithSeed 每次生成都用同一个种子新建随机源
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.newSource = func() RandSource { return NewSeededSource(seed) }
	}
}

// WithSource 使用调用方提供的随机源（调用方负责并发安全）
func WithSource(src RandSource) Option {
	return func(g *Generator) {
		g.newSource = func() RandSource { return src }
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithLocation 成交量模型判断时段/周末所用的时区
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) {
		if loc != nil {
			g.loc = loc
		}
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		newSource: newRandomSource,
		now:       time.Now,
		loc:       time.UTC,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// walkState 随机游走在相邻两步之间传递的全部状态
type walkState struct {
	price      float64
	volatility float64
}

// step 推进一步：趋势 + 波动 + 周期，价格限制在 [0.01,0.99]；
// 之后波动率以 10% 概率冲击放大，否则衰减
func step(st walkState, trend, progress float64, rng RandSource) walkState {
	trendComponent := trend * (1 - progress*0.5) * 0.01
	volatilityComponent := uniform(rng, -0.5, 0.5) * st.volatility
	cycleComponent := math.Sin(progress*4*math.Pi) * 0.005

	next := walkState{
		price:      normalizer.Clamp(st.price+trendComponent+volatilityComponent+cycleComponent, minPrice, maxPrice),
		volatility: st.volatility,
	}
	if rng.Float64() < shockProbability {
		next.volatility = math.Min(maxVolatility, st.volatility*1.5)
	} else {
		next.volatility = math.Max(minVolatility, st.volatility*0.99)
	}
	return next
}

// volumeMultiplier 交易时段 9-17 点最高，18-22 点次之；周末打 4 折；高波动放大 3 倍
func volumeMultiplier(t time.Time, volatility float64) float64 {
	var m float64
	switch h := t.Hour(); {
	case h >= 9 && h <= 17:
		m = 2.0
	case h >= 18 && h <= 22:
		m = 1.2
	default:
		m = 0.3
	}
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		m *= 0.4
	}
	if volatility > 0.03 {
		m *= 3.0
	}
	return m
}

func volumeAt(t time.Time, volatility float64, rng RandSource) float64 {
	return math.Round(uniform(rng, 0, maxBaseVolume) * volumeMultiplier(t, volatility))
}

// Generate 生成一条序列。initialPrice 在 (0,1) 内时作为起点（限制到 [0.01,0.99]），
// 否则起点取 U(0.15,0.85)。最后一个点是当前时间按间隔取整
func (g *Generator) Generate(tf model.Timeframe, initialPrice float64) []model.PricePoint {
	rng := g.newSource()
	points, interval := Frame(tf)
	end := g.now().Truncate(interval)
	start := end.Add(-time.Duration(points-1) * interval)

	st := walkState{volatility: uniform(rng, 0.01, 0.04)}
	if initialPrice > 0 && initialPrice < 1 {
		st.price = normalizer.Clamp(initialPrice, minPrice, maxPrice)
	} else {
		st.price = uniform(rng, 0.15, 0.85)
	}
	trend := uniform(rng, -0.15, 0.15)

	out := make([]model.PricePoint, points)
	for i := 0; i < points; i++ {
		progress := float64(i) / float64(points)
		st = step(st, trend, progress, rng)
		ts := start.Add(time.Duration(i) * interval)
		out[i] = model.PricePoint{
			Timestamp: ts.UnixMilli(),
			Price:     st.price,
			Volume:    volumeAt(ts.In(g.loc), st.volatility, rng),
		}
	}
	return out
}

// GenerateForMarket 以市场当前 Yes 价格为起点
func (g *Generator) GenerateForMarket(m *model.Market, tf model.Timeframe) []model.PricePoint {
	if m == nil {
		return g.Generate(tf, 0)
	}
	return g.Generate(tf, m.YesPrice)
}

func uniform(rng RandSource, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
