package adapter

import (
	"sort"
	"strings"

	"MarketAggregator/internal/model"
)

// 以下是三个适配器共用的本地过滤/统计逻辑：平台没有搜索或分类接口时，
// 先拉活跃市场再在本地筛。

// FilterByCategory 按统一分类筛选（忽略大小写），最多 limit 条
func FilterByCategory(markets []*model.Market, category string, limit int) []*model.Market {
	category = strings.TrimSpace(category)
	out := make([]*model.Market, 0)
	for _, m := range markets {
		if limit > 0 && len(out) >= limit {
			break
		}
		if category == "" || strings.EqualFold(m.Category, category) {
			out = append(out, m)
		}
	}
	return out
}

// FilterByQuery 标题或描述包含 query（忽略大小写），query 为空时不过滤
func FilterByQuery(markets []*model.Market, query string, limit int) []*model.Market {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*model.Market, 0)
	for _, m := range markets {
		if limit > 0 && len(out) >= limit {
			break
		}
		if q == "" ||
			strings.Contains(strings.ToLower(m.Title), q) ||
			strings.Contains(strings.ToLower(m.Description), q) {
			out = append(out, m)
		}
	}
	return out
}

// TopCategoriesN 统计结果中保留的分类数
const TopCategoriesN = 5

// ComputeStats 根据一批市场计算平台统计
func ComputeStats(markets []*model.Market) *model.Stats {
	stats := &model.Stats{TotalMarkets: len(markets)}
	counts := make(map[string]int)
	var liquidity float64
	for _, m := range markets {
		if m.Active {
			stats.ActiveMarkets++
		}
		stats.TotalVolume += m.Volume
		liquidity += m.Liquidity
		counts[m.Category]++
	}
	if len(markets) > 0 {
		stats.AverageLiquidity = liquidity / float64(len(markets))
	}
	stats.TopCategories = TopCategories(counts, TopCategoriesN)
	return stats
}

// TopCategories 按数量降序取前 n 个，数量相同按名称排序
func TopCategories(counts map[string]int, n int) []model.CategoryCount {
	out := make([]model.CategoryCount, 0, len(counts))
	for c, cnt := range counts {
		out = append(out, model.CategoryCount{Category: c, Count: cnt})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// ClampLimit 适配器侧的 limit 兜底
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
