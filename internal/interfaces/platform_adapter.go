package interfaces

import (
	"context"

	"github.com/sirupsen/logrus"

	"MarketAggregator/internal/config"
	"MarketAggregator/internal/model"
)

// MarketAdapter 所有平台必须实现的核心接口。
// 单条记录解析失败由适配器内部兜底；只有整体拉取失败才返回 error，聚合层会把它降级为空结果。
type MarketAdapter interface {
	GetType() model.Platform                                                                    // 平台类型
	GetActiveMarkets(ctx context.Context, limit int) ([]*model.Market, error)                   // 活跃市场
	GetMarketsByCategory(ctx context.Context, category string, limit int) ([]*model.Market, error) // 按分类
	SearchMarkets(ctx context.Context, query string, limit int) ([]*model.Market, error)        // 搜索
	GetMarketByID(ctx context.Context, id string) (*model.Market, error)                        // 不存在时返回 nil, nil
	GetMarketStats(ctx context.Context) (*model.Stats, error)                                   // 平台统计
}

// PriceHistorySource 有真实历史价格接口的平台额外实现
type PriceHistorySource interface {
	GetPriceHistory(ctx context.Context, id string, timeframe model.Timeframe) ([]model.PricePoint, error)
}

// Factory 平台适配器工厂函数签名
// 入参：平台配置、日志实例
// 出参：实现MarketAdapter接口的适配器实例
type Factory func(cfg *config.PlatformConfig, logger *logrus.Logger) MarketAdapter
