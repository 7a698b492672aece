// Package scheduler 收盘后定时刷新本地行情库
package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"stock-forecast-engine/internal/calendar"
	"stock-forecast-engine/internal/marketdata"
)

// Options 刷新任务配置
type Options struct {
	UpdateTime    string        // "16:30"格式，默认收盘后半小时
	RetryCount    int           // 失败重试次数
	RetryInterval time.Duration // 重试间隔
	Watchlist     []string      // 需要维护的股票代码（规整后形式）
}

func (o *Options) fill() {
	if o.UpdateTime == "" {
		o.UpdateTime = "16:30"
	}
	if o.RetryCount <= 0 {
		o.RetryCount = 3
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = 10 * time.Minute
	}
}

// StartPostMarketRefresh 启动收盘后增量更新任务
//
// 每个交易日在配置时刻从行情源拉取自选列表的日线并落地，
// 非交易日跳过。失败按配置重试。
func StartPostMarketRefresh(store marketdata.HistoricalStore, vendor *marketdata.VendorClient, opts Options) {
	opts.fill()
	if vendor == nil || len(opts.Watchlist) == 0 {
		log.Info().Msg("未配置行情源或自选列表，收盘后更新任务未启动")
		return
	}

	hour, minute := parseClock(opts.UpdateTime)
	log.Info().
		Str("time", fmt.Sprintf("%02d:%02d", hour, minute)).
		Int("watchlist", len(opts.Watchlist)).
		Msg("收盘后增量更新任务已启动")

	go func() {
		for {
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
			if !now.Before(next) {
				next = next.Add(24 * time.Hour)
			}
			// 跳到下一个交易日
			for !calendar.IsTradingDay(next) {
				next = next.Add(24 * time.Hour)
			}

			log.Info().Time("next", next).Msg("等待下次收盘后更新")
			time.Sleep(time.Until(next))

			refreshWithRetry(store, vendor, opts)
		}
	}()
}

// refreshWithRetry 带重试的全列表刷新
func refreshWithRetry(store marketdata.HistoricalStore, vendor *marketdata.VendorClient, opts Options) {
	for attempt := 0; attempt <= opts.RetryCount; attempt++ {
		if attempt > 0 {
			log.Warn().Int("attempt", attempt).Msg("重试收盘后更新")
			time.Sleep(opts.RetryInterval)
		}
		if err := refreshOnce(store, vendor, opts.Watchlist); err != nil {
			log.Error().Err(err).Msg("收盘后更新失败")
			continue
		}
		log.Info().Msg("收盘后更新完成")
		return
	}
	log.Error().Int("retries", opts.RetryCount).Msg("收盘后更新放弃")
}

// refreshOnce 刷新一轮自选列表，失败过半视为整体失败
func refreshOnce(store marketdata.HistoricalStore, vendor *marketdata.VendorClient, watchlist []string) error {
	failed := 0
	for _, symbol := range watchlist {
		bars, err := vendor.FetchDailyBars(symbol, 250)
		if err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("拉取K线失败")
			failed++
			continue
		}
		if err := store.SaveBars(symbol, marketdata.SmoothBars(bars)); err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("K线落地失败")
			failed++
			continue
		}
		// 请求间隔，避免触发行情源限流
		time.Sleep(time.Second)
	}
	if failed > len(watchlist)/2 {
		return fmt.Errorf("更新失败数量过多: %d/%d", failed, len(watchlist))
	}
	return nil
}

// parseClock 解析"HH:MM"，非法时回退到16:30
func parseClock(s string) (hour, minute int) {
	hour, minute = 16, 30
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return hour, minute
	}
	if h, err := strconv.Atoi(parts[0]); err == nil && h >= 0 && h < 24 {
		hour = h
	}
	if m, err := strconv.Atoi(parts[1]); err == nil && m >= 0 && m < 60 {
		minute = m
	}
	return hour, minute
}
