package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"stock-forecast-engine/internal/cache"
	"stock-forecast-engine/internal/config"
	"stock-forecast-engine/internal/handler"
	"stock-forecast-engine/internal/marketdata"
	"stock-forecast-engine/internal/registry"
	"stock-forecast-engine/internal/scheduler"
	"stock-forecast-engine/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("加载配置失败")
	}
	config.SetupLogger(cfg.LogLevel)

	// Redis可选：连上了就替换默认内存缓存
	if err := cache.InitRedis(cfg.RedisAddr); err != nil {
		log.Warn().Err(err).Msg("Redis不可用，使用内存缓存")
	} else {
		marketdata.SetCacheProvider(cache.Provider{})
		defer cache.Close()
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("创建数据目录失败")
	}
	store, err := marketdata.OpenSQLiteStore(cfg.BarsDBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("打开行情库失败")
	}
	defer store.Close()

	var vendor *marketdata.VendorClient
	if cfg.VendorBaseURL != "" {
		vendor = marketdata.NewVendorClient(cfg.VendorBaseURL)
	}

	reg, err := registry.New(cfg.ModelsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("打开模型注册表失败")
	}

	svc := service.New(store, vendor, reg)
	h := handler.New(svc)

	scheduler.StartPostMarketRefresh(store, vendor, scheduler.Options{
		UpdateTime: cfg.RefreshTime,
		Watchlist:  cfg.Watchlist,
	})

	r := gin.Default()

	// 配置 CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// 注册路由
	api := r.Group("/api")
	{
		// 行情
		api.GET("/stocks/:code/kline", h.Kline)

		// 预测相关
		api.POST("/predict", h.Predict)
		api.POST("/predict/professional", h.PredictProfessional)

		// 信号与评估
		api.GET("/signals/:code/timeframes", h.MultiTimeframeSignals)
		api.GET("/evaluate/:code", h.Evaluate)
		api.POST("/backtest", h.Backtest)

		// 模型
		api.GET("/models", h.ListModels)
	}

	log.Info().Str("port", cfg.Port).Msg("服务启动")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("启动服务失败")
	}
}
