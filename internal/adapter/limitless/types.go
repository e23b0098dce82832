package limitless

import "MarketAggregator/internal/normalizer"

// llListResponse /markets/active 的根响应
type llListResponse struct {
	Data              []llMarket `json:"data"`
	TotalMarketsCount int        `json:"totalMarketsCount"`
}

// llMarket Limitless 单条市场；prices 为 [yes,no] 百分数
type llMarket struct {
	ID                  normalizer.FlexString `json:"id"`
	Address             string                `json:"address"`
	Slug                string                `json:"slug"`
	Title               string                `json:"title"`
	Description         string                `json:"description"`
	Categories          []string              `json:"categories"`
	Status              string                `json:"status"` // FUNDED / RESOLVED ...
	Expired             normalizer.FlexBool   `json:"expired"`
	ExpirationTimestamp any                   `json:"expirationTimestamp"`
	CreatedAt           any                   `json:"createdAt"`
	UpdatedAt           any                   `json:"updatedAt"`
	Outcomes            any                   `json:"outcomes"`
	Prices              any                   `json:"prices"`
	VolumeFormatted     any                   `json:"volumeFormatted"`
	LiquidityFormatted  any                   `json:"liquidityFormatted"`
}
