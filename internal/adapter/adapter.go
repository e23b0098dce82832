package adapter

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"MarketAggregator/internal/interfaces"
	"MarketAggregator/internal/model"
)

// ========== 全局工厂函数注册表 ==========
var factoryRegistry = make(map[model.Platform]interfaces.Factory)

// Register 供适配器init函数调用，注册工厂函数
func Register(platform model.Platform, factory interfaces.Factory) {
	if factory == nil {
		panic(fmt.Sprintf("平台%s的工厂函数不能为nil", platform))
	}
	if _, exists := factoryRegistry[platform]; exists {
		logrus.Warnf("平台%s的适配器已注册，将覆盖原有实现", platform)
	}
	factoryRegistry[platform] = factory
}

// GetFactory 获取指定平台的工厂函数
func GetFactory(platform model.Platform) (interfaces.Factory, bool) {
	factory, ok := factoryRegistry[platform]
	return factory, ok
}

// ListFactories 列出所有已注册的工厂函数平台（按名称排序）
func ListFactories() []model.Platform {
	platforms := make([]model.Platform, 0, len(factoryRegistry))
	for p := range factoryRegistry {
		platforms = append(platforms, p)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })
	return platforms
}
