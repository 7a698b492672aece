package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	t.Setenv("REDIS_ADDR", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load失败: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("默认端口应为8080, got %s", cfg.Port)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("默认Redis地址错误: %s", cfg.RedisAddr)
	}
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: \"9000\"\nredis_addr: \"redis:6379\"\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写配置文件失败: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load失败: %v", err)
	}
	if cfg.Port != "9100" {
		t.Fatalf("环境变量应覆盖YAML, got %s", cfg.Port)
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("YAML应覆盖默认值, got %s", cfg.RedisAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("日志级别应来自YAML, got %s", cfg.LogLevel)
	}
}

func TestLoadWeightOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `weights:
  trending:
    trend: 0.35
    momentum: 0.25
    volume: 0.15
    pattern: 0.05
    support_resistance: 0.10
    divergence: 0.10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写配置文件失败: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load失败: %v", err)
	}
	if cfg.Weights == nil || cfg.Weights.Trending == nil {
		t.Fatalf("权重覆盖应被解析")
	}
	if cfg.Weights.Trending.Trend != 0.35 {
		t.Fatalf("趋势权重应为0.35, got %f", cfg.Weights.Trending.Trend)
	}
}
