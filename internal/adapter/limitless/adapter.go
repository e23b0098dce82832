package limitless

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

var _ interfaces.MarketAdapter = (*Adapter)(nil)

func init() {
	adapter.Register(model.PlatformLimitless, NewLimitlessAdapter)
}

type Adapter struct {
	cfg        *config.PlatformConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewLimitlessAdapter(cfg *config.PlatformConfig, logger *logrus.Logger) interfaces.MarketAdapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

func (a *Adapter) GetType() model.Platform {
	return model.PlatformLimitless
}

func (a *Adapter) GetActiveMarkets(ctx context.Context, limit int) ([]*model.Market, error) {
	return a.fetchActive(ctx, adapter.ClampLimit(limit, defaultLimit, maxLimit))
}

func (a *Adapter) GetMarketsByCategory(ctx context.Context, category string, limit int) ([]*model.Market, error) {
	markets, err := a.fetchActive(ctx, maxLimit)
	if err != nil {
		return nil, err
	}
	return adapter.FilterByCategory(markets, category, adapter.ClampLimit(limit, defaultLimit, maxLimit)), nil
}

func (a *Adapter) SearchMarkets(ctx context.Context, query string, limit int) ([]*model.Market, error) {
	markets, err := a.fetchActive(ctx, maxLimit)
	if err != nil {
		return nil, err
	}
	return adapter.FilterByQuery(markets, query, adapter.ClampLimit(limit, defaultLimit, maxLimit)), nil
}

// GetMarketByID 详情接口按 slug 查询，id 去掉平台前缀后即 slug
func (a *Adapter) GetMarketByID(ctx context.Context, id string) (*model.Market, error) {
	slug := strings.TrimPrefix(id, string(model.PlatformLimitless)+"_")
	if slug == "" {
		return nil, nil
	}
	var raw llMarket
	reqURL := fmt.Sprintf("%s/markets/%s", strings.TrimRight(a.cfg.BaseURL, "/"), url.PathEscape(slug))
	if err := httpclient.GetJSON(ctx, a.httpClient, reqURL, a.cfg.AuthToken, &raw); err != nil {
		if httpclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("limitless: 获取市场%s失败: %w", slug, err)
	}
	if raw.Slug == "" && raw.ID == "" {
		return nil, nil
	}
	return a.toMarket(&raw)
}

func (a *Adapter) GetMarketStats(ctx context.Context) (*model.Stats, error) {
	markets, err := a.fetchActive(ctx, statsSample)
	if err != nil {
		return nil, err
	}
	return adapter.ComputeStats(markets), nil
}

func (a *Adapter) fetchActive(ctx context.Context, limit int) ([]*model.Market, error) {
	params := url.Values{}
	params.Set("page", "1")
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sortBy", "high_value")

	var resp llListResponse
	reqURL := fmt.Sprintf("%s/markets/active?%s", strings.TrimRight(a.cfg.BaseURL, "/"), params.Encode())
	if err := httpclient.GetJSON(ctx, a.httpClient, reqURL, a.cfg.AuthToken, &resp); err != nil {
		return nil, fmt.Errorf("limitless: 获取市场列表失败: %w", err)
	}

	markets := make([]*model.Market, 0, len(resp.Data))
	for i := range resp.Data {
		m, err := a.toMarket(&resp.Data[i])
		if err != nil {
			a.logger.WithError(err).Warn("limitless: 市场数据异常，跳过")
			continue
		}
		markets = append(markets, m)
		if len(markets) >= limit {
			break
		}
	}
	return markets, nil
}

func (a *Adapter) toMarket(raw *llMarket) (*model.Market, error) {
	rawID := raw.Slug
	if rawID == "" {
		rawID = raw.ID.String()
	}
	if rawID == "" {
		return nil, fmt.Errorf("limitless: 市场缺少slug与id（title=%q）", raw.Title)
	}

	var prices any = raw.Prices
	if parsed, err := normalizer.ParseOutcomePrices(raw.Prices); err == nil {
		prices = normalizer.ScalePercent(parsed)
	} else {
		a.logger.WithError(err).WithField("slug", raw.Slug).Debug("limitless: 价格解析失败，使用默认值")
	}
	pricing := normalizer.BuildPricing(raw.Outcomes, prices)

	var category string
	if len(raw.Categories) > 0 {
		category = raw.Categories[0]
	}
	createdAt := normalizer.ParseTime(raw.CreatedAt)
	updatedAt := normalizer.ParseTime(raw.UpdatedAt)
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	m := &model.Market{
		ID:            model.MarketID(model.PlatformLimitless, rawID),
		Platform:      model.PlatformLimitless,
		Title:         raw.Title,
		Description:   raw.Description,
		Category:      normalizer.CategoryOrInfer(category, raw.Title),
		Active:        !bool(raw.Expired) && !strings.EqualFold(raw.Status, "RESOLVED"),
		StartDate:     createdAt,
		EndDate:       normalizer.ParseTime(raw.ExpirationTimestamp),
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
		Outcomes:      pricing.Outcomes,
		OutcomePrices: pricing.OutcomePrices,
		YesPrice:      pricing.YesPrice,
		NoPrice:       pricing.NoPrice,
		Volume:        normalizer.NonNegative(raw.VolumeFormatted),
		Liquidity:     normalizer.NonNegative(raw.LiquidityFormatted),
	}
	if a.cfg.WebURL != "" && raw.Slug != "" {
		m.ExternalURL = fmt.Sprintf("%s/markets/%s", strings.TrimRight(a.cfg.WebURL, "/"), raw.Slug)
	}
	return m, nil
}
