package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"MarketAggregator/internal/config"
	"MarketAggregator/internal/model"
	"MarketAggregator/internal/service"
)

// offset 上限，避免 limit+offset 溢出
const maxOffset = 10000

// MarketHandler 提供给前端的市场查询接口
type MarketHandler struct {
	marketService *service.MarketService
	defaultLimit  int
	maxLimit      int
	logger        *logrus.Logger
}

// NewMarketHandler 创建 MarketHandler
func NewMarketHandler(svc *service.MarketService, cfg config.AggregatorConfig, logger *logrus.Logger) *MarketHandler {
	h := &MarketHandler{
		marketService: svc,
		defaultLimit:  cfg.DefaultLimit,
		maxLimit:      cfg.MaxLimit,
		logger:        logger,
	}
	if h.maxLimit <= 0 {
		h.maxLimit = 500
	}
	if h.defaultLimit <= 0 || h.defaultLimit > h.maxLimit {
		h.defaultLimit = 50
	}
	return h
}

// ListMarkets 市场列表接口
// GET /api/markets?limit=50&offset=0&category=Crypto&timeframe=7d
func (h *MarketHandler) ListMarkets(c *gin.Context) {
	limit := h.parseLimit(c)
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}

	markets, err := h.marketService.ListMarkets(c.Request.Context(), limit, offset, c.Query("category"), c.Query("timeframe"))
	if err != nil {
		h.fail(c, "ListMarkets", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"markets": markets, "count": len(markets), "offset": offset})
}

// FeaturedMarkets 精选市场（各平台混排）
// GET /api/featured?limit=10
func (h *MarketHandler) FeaturedMarkets(c *gin.Context) {
	markets, err := h.marketService.GetFeaturedMarkets(c.Request.Context(), h.parseLimit(c))
	if err != nil {
		h.fail(c, "FeaturedMarkets", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"markets": markets, "count": len(markets)})
}

// SearchMarkets 标题/描述搜索
// GET /api/search?q=bitcoin&limit=20
func (h *MarketHandler) SearchMarkets(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	markets, err := h.marketService.SearchMarkets(c.Request.Context(), query, h.parseLimit(c))
	if err != nil {
		h.fail(c, "SearchMarkets", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "markets": markets, "count": len(markets)})
}

// MarketStats 聚合统计
// GET /api/stats
func (h *MarketHandler) MarketStats(c *gin.Context) {
	stats, err := h.marketService.GetMarketStats(c.Request.Context())
	if err != nil {
		h.fail(c, "MarketStats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetMarketDetail 市场详情
// GET /api/markets/:id
func (h *MarketHandler) GetMarketDetail(c *gin.Context) {
	details, err := h.marketService.GetMarketDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "GetMarketDetail", err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// PriceHistory 历史价格（真实或合成）
// GET /api/markets/:id/history?timeframe=24h&limit=100
func (h *MarketHandler) PriceHistory(c *gin.Context) {
	tf := model.ParseTimeframe(c.DefaultQuery("timeframe", string(model.Timeframe24H)))
	limit := queryInt(c, "limit", 0)
	if limit < 0 {
		limit = 0
	}
	points, err := h.marketService.GetPriceHistory(c.Request.Context(), c.Param("id"), string(tf), limit)
	if err != nil {
		h.fail(c, "PriceHistory", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "timeframe": tf, "points": points})
}

// Candles K 线
// GET /api/markets/:id/candles?timeframe=7d&gap_fill=true
func (h *MarketHandler) Candles(c *gin.Context) {
	gapFill, _ := strconv.ParseBool(c.DefaultQuery("gap_fill", "false"))
	result, err := h.marketService.GetCandles(c.Request.Context(), c.Param("id"), c.DefaultQuery("timeframe", string(model.Timeframe24H)), gapFill)
	if err != nil {
		h.fail(c, "Candles", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// parseLimit 非法值用默认值，超过上限截断
func (h *MarketHandler) parseLimit(c *gin.Context) int {
	limit := queryInt(c, "limit", h.defaultLimit)
	if limit <= 0 {
		return h.defaultLimit
	}
	if limit > h.maxLimit {
		return h.maxLimit
	}
	return limit
}

func (h *MarketHandler) fail(c *gin.Context, op string, err error) {
	if errors.Is(err, service.ErrMarketNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.logger.WithError(err).WithField("request_id", c.GetString(requestIDKey)).Errorf("%s failed", op)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
