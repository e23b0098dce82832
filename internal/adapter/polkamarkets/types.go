package polkamarkets

import "MarketAggregator/internal/normalizer"

// pkMarket Polkamarkets /markets 返回的单条市场
type pkMarket struct {
	ID          normalizer.FlexString `json:"id"`
	Slug        string                `json:"slug"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Subcategory string                `json:"subcategory"`
	State       string                `json:"state"` // open / closed / resolved
	CreatedAt   any                   `json:"created_at"`
	ExpiresAt   any                   `json:"expires_at"`
	Volume      any                   `json:"volume"`
	Liquidity   any                   `json:"liquidity"`
	Outcomes    any                   `json:"outcomes"` // [{"id":0,"title":"Yes","price":0.62}]
	NetworkID   normalizer.FlexString `json:"network_id"`
}
