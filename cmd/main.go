package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"MarketAggregator/internal/adapter"
	_ "MarketAggregator/internal/adapter/limitless"
	_ "MarketAggregator/internal/adapter/polkamarkets"
	_ "MarketAggregator/internal/adapter/polymarket"
	"MarketAggregator/internal/api"
	"MarketAggregator/internal/config"
	"MarketAggregator/internal/logger"
	"MarketAggregator/internal/model"
	"MarketAggregator/internal/series"
	"MarketAggregator/internal/service"
)

// app 一次命令执行所需的全部组件
type app struct {
	cfg      *config.Config
	logger   *logrus.Logger
	registry *adapter.PlatformRegistry
	agg      *service.AggregationService
	markets  *service.MarketService
}

func newApp(cmd *cli.Command) (*app, error) {
	// 1. 加载配置文件
	cfg, err := config.LoadConfig(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	// 2. 初始化日志
	l := logger.New(cfg.Log)
	l.Info("配置文件加载成功")

	// 3. 按配置初始化平台适配器并组装服务
	registry := adapter.NewPlatformRegistry(cfg, l)
	agg := service.NewAggregationService(registry.Adapters(), cfg.Aggregator, l)
	generator := series.NewGenerator(generatorOptions(cfg.Series, l)...)

	return &app{
		cfg:      cfg,
		logger:   l,
		registry: registry,
		agg:      agg,
		markets:  service.NewMarketService(agg, generator, cfg.Series, l),
	}, nil
}

func generatorOptions(cfg config.SeriesConfig, l *logrus.Logger) []series.Option {
	var opts []series.Option
	if cfg.Seed != 0 {
		opts = append(opts, series.WithSeed(cfg.Seed))
	}
	if cfg.Location != "" {
		loc, err := time.LoadLocation(cfg.Location)
		if err != nil {
			l.WithError(err).Warnf("时区%s无效，使用UTC", cfg.Location)
		} else {
			opts = append(opts, series.WithLocation(loc))
		}
	}
	return opts
}

func serve(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if port := int(cmd.Int("port")); port > 0 {
		a.cfg.Server.Port = port
	}

	// 配置Gin运行模式（从配置读取：debug/release）
	gin.SetMode(a.cfg.Server.Mode)
	a.logger.Infof("Gin运行模式: %s", a.cfg.Server.Mode)

	r := api.NewRouter(
		api.NewMarketHandler(a.markets, a.cfg.Aggregator, a.logger),
		api.NewPlatformHandler(a.registry, a.logger),
		a.cfg.Server.Pprof,
		a.logger,
	)

	port := a.cfg.Server.Port
	a.logger.Infof("服务启动成功，端口：%d", port)
	if err := r.Run(fmt.Sprintf(":%d", port)); err != nil {
		return fmt.Errorf("启动服务失败: %w", err)
	}
	return nil
}

func listMarkets(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	limit := int(cmd.Int("limit"))

	var markets []*model.Market
	switch {
	case cmd.Bool("featured"):
		markets, err = a.markets.GetFeaturedMarkets(ctx, limit)
	case cmd.String("query") != "":
		markets, err = a.markets.SearchMarkets(ctx, cmd.String("query"), limit)
	default:
		markets, err = a.markets.ListMarkets(ctx, limit, int(cmd.Int("offset")), cmd.String("category"), cmd.String("timeframe"))
	}
	if err != nil {
		return err
	}
	return printJSON(markets)
}

func marketStats(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	stats, err := a.markets.GetMarketStats(ctx)
	if err != nil {
		return err
	}
	return printJSON(stats)
}

// syntheticSeries 离线生成一条合成序列（可选输出 K 线），不访问任何平台
func syntheticSeries(ctx context.Context, cmd *cli.Command) error {
	tf := model.ParseTimeframe(cmd.String("timeframe"))
	var opts []series.Option
	if seed := int64(cmd.Int("seed")); seed != 0 {
		opts = append(opts, series.WithSeed(seed))
	}
	points := series.NewGenerator(opts...).Generate(tf, cmd.Float("price"))

	if !cmd.Bool("candles") {
		return printJSON(points)
	}
	candles := series.BuildCandles(points, tf, cmd.Bool("gap-fill"))
	return printJSON(map[string]any{
		"timeframe": tf,
		"candles":   candles,
		"scale":     series.Scale(candles),
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	cmd := &cli.Command{
		Name:  "market-aggregator",
		Usage: "aggregate prediction markets from multiple platforms",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to config.yaml (default ./config/config.yaml)"},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start http service",
				Flags:  []cli.Flag{&cli.IntFlag{Name: "port", Usage: "override server.port"}},
				Action: serve,
			},
			{
				Name:  "markets",
				Usage: "fetch aggregated markets and print them as json",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20},
					&cli.IntFlag{Name: "offset"},
					&cli.StringFlag{Name: "category"},
					&cli.StringFlag{Name: "timeframe"},
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}},
					&cli.BoolFlag{Name: "featured"},
				},
				Action: listMarkets,
			},
			{
				Name:   "stats",
				Usage:  "print aggregated market stats",
				Action: marketStats,
			},
			{
				Name:  "series",
				Usage: "generate a synthetic price series",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "timeframe", Aliases: []string{"t"}, Value: "24h"},
					&cli.IntFlag{Name: "seed"},
					&cli.FloatFlag{Name: "price", Usage: "initial yes price, random when omitted"},
					&cli.BoolFlag{Name: "candles"},
					&cli.BoolFlag{Name: "gap-fill"},
				},
				Action: syntheticSeries,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
