package adapter

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"MarketAggregator/internal/config"
	"MarketAggregator/internal/interfaces"
	"MarketAggregator/internal/model"
)

// PlatformRegistry 按配置创建好的适配器实例，保持 enabled_platforms 的顺序
type PlatformRegistry struct {
	cfg      *config.Config
	logger   *logrus.Logger
	order    []model.Platform
	adapters map[model.Platform]interfaces.MarketAdapter
}

func NewPlatformRegistry(cfg *config.Config, logger *logrus.Logger) *PlatformRegistry {
	r := &PlatformRegistry{
		cfg:      cfg,
		logger:   logger,
		adapters: make(map[model.Platform]interfaces.MarketAdapter),
	}
	r.initAdaptersFromFactories()
	return r
}

// initAdaptersFromFactories 从工厂函数注册表初始化适配器实例
func (r *PlatformRegistry) initAdaptersFromFactories() {
	r.logger.WithField("factory_platforms", ListFactories()).Debug("已注册的工厂函数")

	for _, name := range r.cfg.Aggregator.EnabledPlatforms {
		platformType := model.Platform(strings.ToLower(strings.TrimSpace(name)))
		if _, dup := r.adapters[platformType]; dup {
			continue
		}

		platformCfg, ok := r.cfg.Platforms[string(platformType)]
		if !ok {
			r.logger.WithField("platform", platformType).Error("未找到平台配置，跳过")
			continue
		}
		factory, ok := GetFactory(platformType)
		if !ok {
			r.logger.WithField("platform", platformType).Error("未找到对应的工厂函数（init未注册？）")
			continue
		}

		adapterIns := factory(&platformCfg, r.logger)
		if adapterIns == nil {
			r.logger.WithField("platform", platformType).Error("工厂函数返回nil适配器实例")
			continue
		}
		if adapterIns.GetType() != platformType {
			r.logger.WithFields(logrus.Fields{
				"config_platform":  platformType,
				"adapter_platform": adapterIns.GetType(),
			}).Error("适配器平台类型与配置不匹配")
			continue
		}

		r.adapters[platformType] = adapterIns
		r.order = append(r.order, platformType)
	}

	r.logger.WithField("platforms", r.order).Info("适配器初始化完成")
}

// Adapters 按配置顺序返回适配器实例
func (r *PlatformRegistry) Adapters() []interfaces.MarketAdapter {
	out := make([]interfaces.MarketAdapter, 0, len(r.order))
	for _, p := range r.order {
		out = append(out, r.adapters[p])
	}
	return out
}

// ListRegisteredPlatforms 获取所有已初始化的平台类型列表
func (r *PlatformRegistry) ListRegisteredPlatforms() []model.Platform {
	return append([]model.Platform(nil), r.order...)
}

// GetAdapter 获取适配器实例
func (r *PlatformRegistry) GetAdapter(platform model.Platform) (interfaces.MarketAdapter, error) {
	adapterIns, ok := r.adapters[platform]
	if !ok {
		return nil, fmt.Errorf("平台%s未初始化适配器实例（已初始化：%v）", platform, r.order)
	}
	return adapterIns, nil
}

// GetPlatformCount 获取已初始化实例的平台数量
func (r *PlatformRegistry) GetPlatformCount() int {
	return len(r.order)
}
