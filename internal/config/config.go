package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server     ServerConfig              `mapstructure:"server"`     // 服务器配置
	Log        LogConfig                 `mapstructure:"log"`        // 日志配置
	Aggregator AggregatorConfig          `mapstructure:"aggregator"` // 聚合调度配置
	Series     SeriesConfig              `mapstructure:"series"`     // 合成序列配置
	Platforms  map[string]PlatformConfig `mapstructure:"platforms"`  // 多平台独立配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port  int    `mapstructure:"port"`  // 服务端口
	Mode  string `mapstructure:"mode"`  // Gin运行模式：debug/release/test
	Pprof bool   `mapstructure:"pprof"` // 是否注册pprof
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug/info/warn/error
	Format string `mapstructure:"format"` // text/json
}

// AggregatorConfig 聚合配置
type AggregatorConfig struct {
	EnabledPlatforms []string      `mapstructure:"enabled_platforms"` // 启用的平台列表（顺序即合并顺序）
	AdapterTimeout   time.Duration `mapstructure:"adapter_timeout"`   // 单个平台调用超时
	DefaultLimit     int           `mapstructure:"default_limit"`     // 未传limit时的默认值
	MaxLimit         int           `mapstructure:"max_limit"`         // limit上限
	StatsSampleSize  int           `mapstructure:"stats_sample_size"` // 统计时每个平台抽样的市场数
	FeaturedSeed     int64         `mapstructure:"featured_seed"`     // 精选洗牌种子，0表示不固定
}

// SeriesConfig 合成价格序列配置
type SeriesConfig struct {
	Seed          int64  `mapstructure:"seed"`            // 0表示每次随机
	Location      string `mapstructure:"location"`        // 成交量模型使用的时区
	MinRealPoints int    `mapstructure:"min_real_points"` // 真实历史少于该点数时改用合成序列
}

// PlatformConfig 单个平台的独立配置
type PlatformConfig struct {
	BaseURL    string `mapstructure:"base_url"`    // API基础地址
	HistoryURL string `mapstructure:"history_url"` // 历史价格接口地址（Polymarket CLOB）
	WebURL     string `mapstructure:"web_url"`     // 前端页面地址，用于拼外链
	NetworkID  string `mapstructure:"network_id"`  // 链ID（Polkamarkets）
	Timeout    int    `mapstructure:"timeout"`     // 请求超时（秒）
	AuthToken  string `mapstructure:"auth_token"`  // 通用认证Token
	Proxy      string `mapstructure:"proxy"`       // 代理地址
}

// LoadConfig 加载配置文件，path 为空时读取 ./config/config.yaml；文件不存在时使用默认值
func LoadConfig(path string) (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	v := viper.New()
	setDefaults(v)

	// 2. 读取 config.yaml
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	if len(cfg.Platforms) == 0 {
		cfg.Platforms = DefaultPlatforms()
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)
	cfg.normalize()
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.pprof", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("aggregator.enabled_platforms", []string{"polymarket", "polkamarkets", "limitless"})
	v.SetDefault("aggregator.adapter_timeout", 12*time.Second)
	v.SetDefault("aggregator.default_limit", 50)
	v.SetDefault("aggregator.max_limit", 500)
	v.SetDefault("aggregator.stats_sample_size", 100)
	v.SetDefault("series.location", "UTC")
	v.SetDefault("series.min_real_points", 10)
}

// DefaultPlatforms 三个平台的公开接口地址
func DefaultPlatforms() map[string]PlatformConfig {
	return map[string]PlatformConfig{
		"polymarket": {
			BaseURL:    "https://gamma-api.polymarket.com",
			HistoryURL: "https://clob.polymarket.com",
			WebURL:     "https://polymarket.com",
			Timeout:    12,
		},
		"polkamarkets": {
			BaseURL:   "https://api.polkamarkets.com",
			WebURL:    "https://app.polkamarkets.com",
			NetworkID: "2741",
			Timeout:   12,
		},
		"limitless": {
			BaseURL: "https://api.limitless.exchange",
			WebURL:  "https://limitless.exchange",
			Timeout: 12,
		},
	}
}

// overrideFromEnv 用环境变量覆盖敏感配置，变量名形如 POLYMARKET_PROXY / LIMITLESS_AUTH_TOKEN
func overrideFromEnv(cfg *Config) {
	for name, p := range cfg.Platforms {
		prefix := strings.ToUpper(name) + "_"
		if v := os.Getenv(prefix + "AUTH_TOKEN"); v != "" {
			p.AuthToken = v
		}
		if v := os.Getenv(prefix + "PROXY"); v != "" {
			p.Proxy = v
		}
		if v := os.Getenv(prefix + "BASE_URL"); v != "" {
			p.BaseURL = v
		}
		cfg.Platforms[name] = p
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// normalize 非法值回落到默认值
func (c *Config) normalize() {
	if c.Aggregator.MaxLimit <= 0 {
		c.Aggregator.MaxLimit = 500
	}
	if c.Aggregator.DefaultLimit <= 0 || c.Aggregator.DefaultLimit > c.Aggregator.MaxLimit {
		c.Aggregator.DefaultLimit = 50
	}
	if c.Aggregator.AdapterTimeout <= 0 {
		c.Aggregator.AdapterTimeout = 12 * time.Second
	}
	if c.Aggregator.StatsSampleSize <= 0 {
		c.Aggregator.StatsSampleSize = 100
	}
	if c.Series.MinRealPoints <= 0 {
		c.Series.MinRealPoints = 10
	}
	for name, p := range c.Platforms {
		if p.Timeout <= 0 {
			p.Timeout = int(c.Aggregator.AdapterTimeout / time.Second)
		}
		c.Platforms[name] = p
	}
}
