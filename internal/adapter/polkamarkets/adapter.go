package polkamarkets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
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
)

var _ interfaces.MarketAdapter = (*Adapter)(nil)

func init() {
	adapter.Register(model.PlatformPolkamarkets, NewPolkamarketsAdapter)
}

type Adapter struct {
	cfg        *config.PlatformConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewPolkamarketsAdapter(cfg *config.PlatformConfig, logger *logrus.Logger) interfaces.MarketAdapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

func (a *Adapter) GetType() model.Platform {
	return model.PlatformPolkamarkets
}

func (a *Adapter) GetActiveMarkets(ctx context.Context, limit int) ([]*model.Market, error) {
	markets, err := a.fetchOpen(ctx)
	if err != nil {
		return nil, err
	}
	limit = adapter.ClampLimit(limit, defaultLimit, maxLimit)
	if len(markets) > limit {
		markets = markets[:limit]
	}
	return markets, nil
}

func (a *Adapter) GetMarketsByCategory(ctx context.Context, category string, limit int) ([]*model.Market, error) {
	markets, err := a.fetchOpen(ctx)
	if err != nil {
		return nil, err
	}
	return adapter.FilterByCategory(markets, category, adapter.ClampLimit(limit, defaultLimit, maxLimit)), nil
}

func (a *Adapter) SearchMarkets(ctx context.Context, query string, limit int) ([]*model.Market, error) {
	markets, err := a.fetchOpen(ctx)
	if err != nil {
		return nil, err
	}
	return adapter.FilterByQuery(markets, query, adapter.ClampLimit(limit, defaultLimit, maxLimit)), nil
}

func (a *Adapter) GetMarketByID(ctx context.Context, id string) (*model.Market, error) {
	rawID := strings.TrimPrefix(id, string(model.PlatformPolkamarkets)+"_")
	if rawID == "" {
		return nil, nil
	}
	var raw pkMarket
	reqURL := fmt.Sprintf("%s/markets/%s", strings.TrimRight(a.cfg.BaseURL, "/"), url.PathEscape(rawID))
	if err := httpclient.GetJSON(ctx, a.httpClient, reqURL, a.cfg.AuthToken, &raw); err != nil {
		if httpclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("polkamarkets: 获取市场%s失败: %w", rawID, err)
	}
	if raw.ID == "" {
		return nil, nil
	}
	return a.toMarket(&raw)
}

func (a *Adapter) GetMarketStats(ctx context.Context) (*model.Stats, error) {
	markets, err := a.fetchOpen(ctx)
	if err != nil {
		return nil, err
	}
	return adapter.ComputeStats(markets), nil
}

// fetchOpen 接口不支持分页参数，一次拉全部开放市场后按成交量倒序
func (a *Adapter) fetchOpen(ctx context.Context) ([]*model.Market, error) {
	params := url.Values{}
	params.Set("state", "open")
	if a.cfg.NetworkID != "" {
		params.Set("network_id", a.cfg.NetworkID)
	}

	var raws []pkMarket
	reqURL := fmt.Sprintf("%s/markets?%s", strings.TrimRight(a.cfg.BaseURL, "/"), params.Encode())
	if err := httpclient.GetJSON(ctx, a.httpClient, reqURL, a.cfg.AuthToken, &raws); err != nil {
		return nil, fmt.Errorf("polkamarkets: 获取市场列表失败: %w", err)
	}

	markets := make([]*model.Market, 0, len(raws))
	for i := range raws {
		m, err := a.toMarket(&raws[i])
		if err != nil {
			a.logger.WithError(err).Warn("polkamarkets: 市场数据异常，跳过")
			continue
		}
		markets = append(markets, m)
	}
	sort.SliceStable(markets, func(i, j int) bool {
		return markets[i].Volume > markets[j].Volume
	})
	return markets, nil
}

func (a *Adapter) toMarket(raw *pkMarket) (*model.Market, error) {
	if raw.ID == "" {
		return nil, fmt.Errorf("polkamarkets: 市场缺少id（title=%q）", raw.Title)
	}
	pricing := normalizer.BuildPricing(raw.Outcomes, raw.Outcomes)
	createdAt := normalizer.ParseTime(raw.CreatedAt)

	m := &model.Market{
		ID:            model.MarketID(model.PlatformPolkamarkets, raw.ID.String()),
		Platform:      model.PlatformPolkamarkets,
		Title:         raw.Title,
		Description:   raw.Description,
		Category:      normalizer.CategoryOrInfer(raw.Category, raw.Title),
		Active:        raw.State == "" || strings.EqualFold(raw.State, "open"),
		StartDate:     createdAt,
		EndDate:       normalizer.ParseTime(raw.ExpiresAt),
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
		Outcomes:      pricing.Outcomes,
		OutcomePrices: pricing.OutcomePrices,
		YesPrice:      pricing.YesPrice,
		NoPrice:       pricing.NoPrice,
		Volume:        normalizer.NonNegative(raw.Volume),
		Liquidity:     normalizer.NonNegative(raw.Liquidity),
	}
	if a.cfg.WebURL != "" && raw.Slug != "" {
		m.ExternalURL = fmt.Sprintf("%s/markets/%s", strings.TrimRight(a.cfg.WebURL, "/"), raw.Slug)
	}
	return m, nil
}
