package polymarket

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"MarketAggregator/internal/model"
	"MarketAggregator/internal/normalizer"
	"MarketAggregator/internal/utils/httpclient"
)

// historyParams 时间范围 → CLOB interval 与 fidelity（分钟）
var historyParams = map[model.Timeframe]struct {
	interval string
	fidelity int
}{
	model.Timeframe1H:  {"1h", 1},
	model.Timeframe6H:  {"6h", 5},
	model.Timeframe24H: {"1d", 15},
	model.Timeframe7D:  {"1w", 60},
	model.Timeframe30D: {"1m", 360},
}

// GetPriceHistory 取 Yes 代币的真实历史价格；CLOB 不返回成交量，Volume 为 0
func (p *Adapter) GetPriceHistory(ctx context.Context, id string, timeframe model.Timeframe) ([]model.PricePoint, error) {
	if p.cfg.HistoryURL == "" {
		return nil, nil
	}
	raw, err := p.fetchRaw(ctx, id)
	if err != nil || raw == nil {
		return nil, err
	}
	tokens, err := normalizer.ParseStringList(raw.ClobTokenIDs)
	if err != nil || len(tokens) == 0 {
		return nil, nil
	}

	hp, ok := historyParams[timeframe]
	if !ok {
		hp = historyParams[model.Timeframe24H]
	}
	params := url.Values{}
	params.Set("market", tokens[0])
	params.Set("interval", hp.interval)
	params.Set("fidelity", strconv.Itoa(hp.fidelity))

	var resp pricesHistoryResponse
	reqURL := fmt.Sprintf("%s/prices-history?%s", strings.TrimRight(p.cfg.HistoryURL, "/"), params.Encode())
	if err := httpclient.GetJSON(ctx, p.httpClient, reqURL, p.cfg.AuthToken, &resp); err != nil {
		return nil, fmt.Errorf("polymarket: 获取历史价格失败: %w", err)
	}

	points := make([]model.PricePoint, 0, len(resp.History))
	var last int64
	for _, h := range resp.History {
		ts := h.T * 1000
		if ts <= last {
			continue // 保证时间戳严格递增
		}
		last = ts
		points = append(points, model.PricePoint{
			Timestamp: ts,
			Price:     normalizer.Clamp(h.P, 0.01, 0.99),
		})
	}
	return points, nil
}
