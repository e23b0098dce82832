package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"MarketAggregator/internal/adapter"
	"MarketAggregator/internal/model"
)

// PlatformHandler 单平台调试接口，绕过聚合直接查看某个适配器的输出
type PlatformHandler struct {
	registry *adapter.PlatformRegistry
	logger   *logrus.Logger
}

func NewPlatformHandler(registry *adapter.PlatformRegistry, logger *logrus.Logger) *PlatformHandler {
	return &PlatformHandler{
		registry: registry,
		logger:   logger,
	}
}

// ListPlatforms 已启用的平台
// GET /api/platforms
func (h *PlatformHandler) ListPlatforms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"platforms": h.registry.ListRegisteredPlatforms(),
		"count":     h.registry.GetPlatformCount(),
	})
}

// PlatformMarkets 单平台活跃市场
// GET /api/platforms/:platform/markets?limit=20
func (h *PlatformHandler) PlatformMarkets(c *gin.Context) {
	platformName := model.Platform(strings.ToLower(c.Param("platform")))
	adapterIns, err := h.registry.GetAdapter(platformName)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	markets, err := adapterIns.GetActiveMarkets(c.Request.Context(), queryInt(c, "limit", 20))
	if err != nil {
		h.logger.Errorf("获取%s市场失败: %v", platformName, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"platform": platformName, "markets": markets, "count": len(markets)})
}
