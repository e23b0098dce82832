package model

import (
	"fmt"
	"math"
	"time"
)

// Platform 数据来源平台
type Platform string

const (
	PlatformPolymarket   Platform = "polymarket"
	PlatformPolkamarkets Platform = "polkamarkets"
	PlatformLimitless    Platform = "limitless"
	PlatformMyriad       Platform = "myriad"
)

// KnownPlatforms 所有可识别的平台（用于 id 前缀路由）
var KnownPlatforms = []Platform{PlatformPolymarket, PlatformPolkamarkets, PlatformLimitless, PlatformMyriad}

// CategoryOther 无法推断分类时的兜底分类
const CategoryOther = "Other"

// Market 统一的市场模型（抹平各平台差异），各适配器只输出这个结构
type Market struct {
	ID            string    `json:"id"`       // 全局唯一ID（平台_原始ID）
	Platform      Platform  `json:"platform"` // 来源平台
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Active        bool      `json:"active"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Outcomes      []string  `json:"outcomes"`
	OutcomePrices []float64 `json:"outcomePrices"` // 与 Outcomes 等长，取值 [0,1]
	YesPrice      float64   `json:"yesPrice"`
	NoPrice       float64   `json:"noPrice"`
	Volume        float64   `json:"volume"`
	Liquidity     float64   `json:"liquidity"`
	ExternalURL   string    `json:"externalUrl,omitempty"`
}

// MarketID 生成带平台前缀的全局ID
func MarketID(p Platform, rawID string) string {
	return fmt.Sprintf("%s_%s", p, rawID)
}

// IsBinary 两个选项的市场
func (m *Market) IsBinary() bool {
	return len(m.Outcomes) == 2
}

// Validate 检查归一化后的不变量，返回错误说明适配器有缺陷
func (m *Market) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("market id is empty")
	}
	if len(m.Outcomes) < 2 {
		return fmt.Errorf("market %s: outcomes=%d, want >= 2", m.ID, len(m.Outcomes))
	}
	if len(m.Outcomes) != len(m.OutcomePrices) {
		return fmt.Errorf("market %s: outcomes=%d prices=%d", m.ID, len(m.Outcomes), len(m.OutcomePrices))
	}
	for i, p := range m.OutcomePrices {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("market %s: outcome price[%d]=%v out of range", m.ID, i, p)
		}
	}
	for _, p := range []float64{m.YesPrice, m.NoPrice} {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("market %s: yes/no price %v out of range", m.ID, p)
		}
	}
	if m.IsBinary() && math.Abs(m.YesPrice+m.NoPrice-1) > 1e-9 {
		return fmt.Errorf("market %s: binary yes+no=%v", m.ID, m.YesPrice+m.NoPrice)
	}
	if !validAmount(m.Volume) || !validAmount(m.Liquidity) {
		return fmt.Errorf("market %s: invalid volume/liquidity", m.ID)
	}
	return nil
}

// CategoryCount 分类计数
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Stats 单个平台或聚合后的统计
type Stats struct {
	TotalMarkets     int             `json:"totalMarkets"`
	ActiveMarkets    int             `json:"activeMarkets"`
	TotalVolume      float64         `json:"totalVolume"`
	AverageLiquidity float64         `json:"averageLiquidity"`
	TopCategories    []CategoryCount `json:"topCategories"`
}

func validAmount(f float64) bool {
	return f >= 0 && !math.IsInf(f, 0)
}
