package api

import (
	"net/http"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter 注册全部路由。platforms 可为 nil（不注册单平台接口）
func NewRouter(markets *MarketHandler, platforms *PlatformHandler, enablePprof bool, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger))

	// 注册pprof 方便调试和监测性能问题
	if enablePprof {
		pprof.Register(r)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api")
	apiGroup.GET("/markets", markets.ListMarkets)
	apiGroup.GET("/markets/:id", markets.GetMarketDetail)
	apiGroup.GET("/markets/:id/history", markets.PriceHistory)
	apiGroup.GET("/markets/:id/candles", markets.Candles)
	apiGroup.GET("/featured", markets.FeaturedMarkets)
	apiGroup.GET("/search", markets.SearchMarkets)
	apiGroup.GET("/stats", markets.MarketStats)

	if platforms != nil {
		apiGroup.GET("/platforms", platforms.ListPlatforms)
		apiGroup.GET("/platforms/:platform/markets", platforms.PlatformMarkets)
	}
	return r
}
