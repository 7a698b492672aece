// 初始化演示行情库：为一组代码生成确定性合成日线并写入本地sqlite
package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"stock-forecast-engine/internal/config"
	"stock-forecast-engine/internal/marketdata"
	"stock-forecast-engine/pkg/synthetic"
)

func main() {
	dbPath := flag.String("db", "data/bars.db", "行情库路径")
	symbols := flag.String("symbols", "sh600000,sz000001,sh600519", "逗号分隔的股票代码")
	days := flag.Int("days", 250, "每只股票生成的交易日数量")
	start := flag.String("start", "2024-01-02", "起始日期")
	flag.Parse()

	config.SetupLogger("info")

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
		log.Fatal().Err(err).Msg("创建数据目录失败")
	}
	store, err := marketdata.OpenSQLiteStore(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("打开行情库失败")
	}
	defer store.Close()

	for _, raw := range strings.Split(*symbols, ",") {
		symbol, err := marketdata.NormalizeSymbol(strings.TrimSpace(raw))
		if err != nil {
			log.Warn().Str("symbol", raw).Msg("跳过非法代码")
			continue
		}
		bars := synthetic.Generate(symbol, synthetic.Options{
			StartDate: *start,
			Days:      *days,
		})
		if err := store.SaveBars(symbol, bars); err != nil {
			log.Error().Err(err).Str("symbol", symbol).Msg("写入失败")
			continue
		}
		log.Info().Str("symbol", symbol).Int("bars", len(bars)).Msg("写入完成")
	}
}
