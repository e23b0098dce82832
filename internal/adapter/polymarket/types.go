package polymarket

import "MarketAggregator/internal/normalizer"

// gammaMarket Gamma API /markets 返回的单条市场（只取用到的字段）
type gammaMarket struct {
	ID            normalizer.FlexString `json:"id"`
	Question      string                `json:"question"`
	Description   string                `json:"description"`
	Slug          string                `json:"slug"`
	Category      string                `json:"category"`
	Active        normalizer.FlexBool   `json:"active"`
	Closed        normalizer.FlexBool   `json:"closed"`
	StartDate     string                `json:"startDate"`
	EndDate       string                `json:"endDate"`
	CreatedAt     string                `json:"createdAt"`
	UpdatedAt     string                `json:"updatedAt"`
	Outcomes      any                   `json:"outcomes"`      // "[\"Yes\",\"No\"]"
	OutcomePrices any                   `json:"outcomePrices"` // "[\"0.6\",\"0.4\"]"
	Volume        any                   `json:"volume"`        // 字符串或数字
	VolumeNum     any                   `json:"volumeNum"`
	Liquidity     any                   `json:"liquidity"`
	LiquidityNum  any                   `json:"liquidityNum"`
	ClobTokenIDs  any                   `json:"clobTokenIds"` // "[\"token1\",\"token2\"]"
	Events        []gammaEventRef       `json:"events"`
}

type gammaEventRef struct {
	Slug string `json:"slug"`
}

// pricesHistoryResponse CLOB /prices-history 响应
type pricesHistoryResponse struct {
	History []struct {
		T int64   `json:"t"` // 秒
		P float64 `json:"p"`
	} `json:"history"`
}
