// Package config 配置加载：.env、YAML配置文件与环境变量三层合并
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"stock-forecast-engine/internal/scoring"
)

// Config 服务配置
type Config struct {
	Port          string                   `yaml:"port"`
	RedisAddr     string                   `yaml:"redis_addr"`
	VendorBaseURL string                   `yaml:"vendor_base_url"`
	DataDir       string                   `yaml:"data_dir"`
	ModelsDir     string                   `yaml:"models_dir"`
	BarsDBPath    string                   `yaml:"bars_db_path"`
	LogLevel      string                   `yaml:"log_level"`
	RefreshTime   string                   `yaml:"refresh_time"`
	Watchlist     []string                 `yaml:"watchlist"`
	Weights       *scoring.WeightOverrides `yaml:"weights"`
}

// Load 加载配置
//
// 顺序：.env文件 → CONFIG_FILE指向的YAML → 环境变量覆盖。
// 权重覆盖在加载时一次性生效，之后不可变。
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("未找到.env文件，使用系统环境变量")
	}

	cfg := &Config{
		Port:       "8080",
		RedisAddr:  "localhost:6379",
		DataDir:    "data",
		BarsDBPath: "data/bars.db",
		LogLevel:   "info",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(&cfg.Port, "PORT")
	applyEnv(&cfg.RedisAddr, "REDIS_ADDR")
	applyEnv(&cfg.VendorBaseURL, "VENDOR_BASE_URL")
	applyEnv(&cfg.DataDir, "DATA_DIR")
	applyEnv(&cfg.ModelsDir, "MODELS_DIR")
	applyEnv(&cfg.BarsDBPath, "BARS_DB_PATH")
	applyEnv(&cfg.LogLevel, "LOG_LEVEL")
	applyEnv(&cfg.RefreshTime, "REFRESH_TIME")
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Watchlist = strings.Split(v, ",")
	}

	cfg.Weights.Apply()
	return cfg, nil
}

func applyEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// SetupLogger 初始化zerolog：开发环境彩色控制台，其余JSON输出
func SetupLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	if os.Getenv("APP_ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
}
