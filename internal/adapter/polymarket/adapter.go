package polymarket

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"MarketAggregator/internal/adapter"
	"MarketAggregator/internal/config"
	"MarketAggregator/internal/interfaces"
	"MarketAggregator/internal/model"
	"MarketAggregator/internal/normalizer"
	"MarketAggregator/internal/utils/httpclient"
)

const (
	defaultLimit = 20
	maxLimit     = 500
	statsSample  = 100
)

var (
	_ interfaces.MarketAdapter      = (*Adapter)(nil)
	_ interfaces.PriceHistorySource = (*Adapter)(nil)
)

func init() {
	adapter.Register(model.PlatformPolymarket, NewPolymarketAdapter)
}

type Adapter struct {
	cfg        *config.PlatformConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewPolymarketAdapter(cfg *config.PlatformConfig, logger *logrus.Logger) interfaces.MarketAdapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

// GetType ========== 实现MarketAdapter接口 ==========
func (p *Adapter) GetType() model.Platform {
	return model.PlatformPolymarket
}

func (p *Adapter) GetActiveMarkets(ctx context.Context, limit int) ([]*model.Market, error) {
	return p.fetchActive(ctx, adapter.ClampLimit(limit, defaultLimit, maxLimit))
}

func (p *Adapter) GetMarketsByCategory(ctx context.Context, category string, limit int) ([]*model.Market, error) {
	limit = adapter.ClampLimit(limit, defaultLimit, maxLimit)
	markets, err := p.fetchActive(ctx, maxLimit)
	if err != nil {
		return nil, err
	}
	return adapter.FilterByCategory(markets, category, limit), nil
}

func (p *Adapter) SearchMarkets(ctx context.Context, query string, limit int) ([]*model.Market, error) {
	limit = adapter.ClampLimit(limit, defaultLimit, maxLimit)
	markets, err := p.fetchActive(ctx, maxLimit)
	if err != nil {
		return nil, err
	}
	return adapter.FilterByQuery(markets, query, limit), nil
}

func (p *Adapter) GetMarketByID(ctx context.Context, id string) (*model.Market, error) {
	raw, err := p.fetchRaw(ctx, id)
	if err != nil || raw == nil {
		return nil, err
	}
	return p.toMarket(raw)
}

func (p *Adapter) GetMarketStats(ctx context.Context) (*model.Stats, error) {
	markets, err := p.fetchActive(ctx, statsSample)
	if err != nil {
		return nil, err
	}
	return adapter.ComputeStats(markets), nil
}

// fetchActive 调用 Gamma /markets，按成交量倒序取活跃市场
func (p *Adapter) fetchActive(ctx context.Context, limit int) ([]*model.Market, error) {
	params := url.Values{}
	params.Set("active", "true")
	params.Set("closed", "false")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("order", "volume")
	params.Set("ascending", "false")

	var raws []gammaMarket
	reqURL := fmt.Sprintf("%s/markets?%s", strings.TrimRight(p.cfg.BaseURL, "/"), params.Encode())
	if err := httpclient.GetJSON(ctx, p.httpClient, reqURL, p.cfg.AuthToken, &raws); err != nil {
		return nil, fmt.Errorf("polymarket: 获取市场列表失败: %w", err)
	}

	markets := make([]*model.Market, 0, len(raws))
	for i := range raws {
		m, err := p.toMarket(&raws[i])
		if err != nil {
			p.logger.WithError(err).Warn("polymarket: 市场数据异常，跳过")
			continue
		}
		markets = append(markets, m)
	}
	return markets, nil
}

// fetchRaw 按 id 查询单条原始市场，不存在返回 nil, nil
func (p *Adapter) fetchRaw(ctx context.Context, id string) (*gammaMarket, error) {
	rawID := strings.TrimPrefix(id, string(model.PlatformPolymarket)+"_")
	if rawID == "" {
		return nil, nil
	}
	var raw gammaMarket
	reqURL := fmt.Sprintf("%s/markets/%s", strings.TrimRight(p.cfg.BaseURL, "/"), url.PathEscape(rawID))
	if err := httpclient.GetJSON(ctx, p.httpClient, reqURL, p.cfg.AuthToken, &raw); err != nil {
		if httpclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("polymarket: 获取市场%s失败: %w", rawID, err)
	}
	if raw.ID == "" {
		return nil, nil
	}
	return &raw, nil
}

// toMarket 原始结构转统一模型
func (p *Adapter) toMarket(raw *gammaMarket) (*model.Market, error) {
	if raw.ID == "" {
		return nil, fmt.Errorf("polymarket: 市场缺少id（question=%q）", raw.Question)
	}
	pricing := normalizer.BuildPricing(raw.Outcomes, raw.OutcomePrices)

	volume := normalizer.NonNegative(raw.VolumeNum)
	if volume == 0 {
		volume = normalizer.NonNegative(raw.Volume)
	}
	liquidity := normalizer.NonNegative(raw.LiquidityNum)
	if liquidity == 0 {
		liquidity = normalizer.NonNegative(raw.Liquidity)
	}

	m := &model.Market{
		ID:            model.MarketID(model.PlatformPolymarket, raw.ID.String()),
		Platform:      model.PlatformPolymarket,
		Title:         raw.Question,
		Description:   raw.Description,
		Category:      normalizer.CategoryOrInfer(raw.Category, raw.Question),
		Active:        bool(raw.Active) && !bool(raw.Closed),
		StartDate:     normalizer.ParseTime(raw.StartDate),
		EndDate:       normalizer.ParseTime(raw.EndDate),
		CreatedAt:     normalizer.ParseTime(raw.CreatedAt),
		UpdatedAt:     normalizer.ParseTime(raw.UpdatedAt),
		Outcomes:      pricing.Outcomes,
		OutcomePrices: pricing.OutcomePrices,
		YesPrice:      pricing.YesPrice,
		NoPrice:       pricing.NoPrice,
		Volume:        volume,
		Liquidity:     liquidity,
		ExternalURL:   p.externalURL(raw),
	}
	return m, nil
}

// externalURL 优先用所属 event 的 slug
func (p *Adapter) externalURL(raw *gammaMarket) string {
	if p.cfg.WebURL == "" {
		return ""
	}
	slug := raw.Slug
	if len(raw.Events) > 0 && raw.Events[0].Slug != "" {
		slug = raw.Events[0].Slug
	}
	if slug == "" {
		return ""
	}
	return fmt.Sprintf("%s/event/%s", strings.TrimRight(p.cfg.WebURL, "/"), slug)
}
