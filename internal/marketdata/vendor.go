package marketdata

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"stock-forecast-engine/internal/model"
)

// HTTPClient 行情拉取共用的HTTP客户端
var HTTPClient = &http.Client{Timeout: 10 * time.Second}

// vendorBar 行情源的单字母字段编码
type vendorBar struct {
	T  string  `json:"t"`  // 日期
	O  float64 `json:"o"`  // 开盘
	H  float64 `json:"h"`  // 最高
	L  float64 `json:"l"`  // 最低
	C  float64 `json:"c"`  // 收盘
	V  int64   `json:"v"`  // 成交量
	A  float64 `json:"a"`  // 成交额
	PC float64 `json:"pc"` // 昨收
	SF float64 `json:"sf"` // 复权因子
}

type vendorResponse struct {
	Code string      `json:"code"`
	Bars []vendorBar `json:"data"`
}

// VendorClient 行情源客户端
type VendorClient struct {
	BaseURL string
	client  *http.Client
}

func NewVendorClient(baseURL string) *VendorClient {
	return &VendorClient{BaseURL: baseURL, client: HTTPClient}
}

// FetchDailyBars 拉取日线并解码成标准K线
func (v *VendorClient) FetchDailyBars(symbol string, limit int) ([]model.Bar, error) {
	cacheKey := fmt.Sprintf("bars:%s:%d", symbol, limit)
	var cached []model.Bar
	if err := getCacheProvider().Get(cacheKey, &cached); err == nil && len(cached) > 0 {
		return cached, nil
	}

	url := fmt.Sprintf("%s/kline?symbol=%s&period=daily&limit=%d", v.BaseURL, symbol, limit)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: 行情源返回 %d", model.ErrStoreFailure, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreFailure, err)
	}

	var vr vendorResponse
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, fmt.Errorf("%w: 解码行情响应失败: %v", model.ErrStoreFailure, err)
	}

	bars := decodeVendorBars(vr.Bars)
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: 行情源无数据", model.ErrStoreFailure)
	}

	if err := getCacheProvider().Set(cacheKey, bars, 10*time.Minute); err != nil {
		log.Warn().Err(err).Str("symbol", symbol).Msg("写入行情缓存失败")
	}
	return bars, nil
}

// decodeVendorBars 单字母字段解码，复权因子作用在价格上
func decodeVendorBars(raw []vendorBar) []model.Bar {
	bars := make([]model.Bar, 0, len(raw))
	for _, r := range raw {
		if r.T == "" || r.C <= 0 {
			continue
		}
		factor := r.SF
		if factor <= 0 {
			factor = 1
		}
		bar := model.Bar{
			Date:   r.T,
			Open:   r.O * factor,
			High:   r.H * factor,
			Low:    r.L * factor,
			Close:  r.C * factor,
			Volume: r.V,
			Amount: r.A,
		}
		if r.PC > 0 {
			bar.ChangePercent = (r.C - r.PC) / r.PC * 100
		}
		bars = append(bars, bar)
	}
	return bars
}
