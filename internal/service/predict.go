// Package service 预测业务编排：取数、清洗、预测、评估与回测
package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"stock-forecast-engine/internal/forecast"
	"stock-forecast-engine/internal/marketdata"
	"stock-forecast-engine/internal/model"
	"stock-forecast-engine/internal/registry"
)

// 预测默认使用的历史窗口
const defaultWindow = 250

// Service 预测服务
type Service struct {
	store    marketdata.HistoricalStore
	vendor   *marketdata.VendorClient
	registry *registry.Registry
}

// New 组装预测服务，vendor可为nil（纯本地模式）
func New(store marketdata.HistoricalStore, vendor *marketdata.VendorClient, reg *registry.Registry) *Service {
	return &Service{store: store, vendor: vendor, registry: reg}
}

// Predict 多日预测
func (s *Service) Predict(req *model.PredictRequest) (*model.PredictResponse, error) {
	series, err := s.loadSeries(req.StockCode)
	if err != nil {
		return nil, err
	}
	return forecast.Project(series, req.PredictionDays)
}

// PredictProfessional 专业策略预测
func (s *Service) PredictProfessional(req *model.PredictRequest) (*model.ProfessionalResponse, error) {
	series, err := s.loadSeries(req.StockCode)
	if err != nil {
		return nil, err
	}
	return forecast.ProfessionalProject(series, req.PredictionDays)
}

// MultiTimeframe 多周期信号
func (s *Service) MultiTimeframe(stockCode string) (*forecast.MultiTimeframeResult, error) {
	series, err := s.loadSeries(stockCode)
	if err != nil {
		return nil, err
	}
	return forecast.MultiTimeframeSignals(series)
}

// Bars 返回清洗后的最近limit根K线
func (s *Service) Bars(stockCode string, limit int) ([]model.Bar, error) {
	bars, err := s.loadBars(stockCode)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}
	return bars, nil
}

// ListModels 按代码列出已训练模型
func (s *Service) ListModels(stockCode string) ([]model.ModelInfo, error) {
	if s.registry == nil {
		return nil, nil
	}
	return s.registry.List(stockCode)
}

// loadSeries 校验代码、取数并清洗成分析序列
func (s *Service) loadSeries(stockCode string) (*model.Series, error) {
	bars, err := s.loadBars(stockCode)
	if err != nil {
		return nil, err
	}
	return model.NewSeries(bars), nil
}

// loadBars 校验代码、取数并清洗
func (s *Service) loadBars(stockCode string) ([]model.Bar, error) {
	symbol, err := marketdata.NormalizeSymbol(stockCode)
	if err != nil {
		return nil, err
	}

	// 1. 先查本地库
	bars, err := s.store.LoadBars(symbol, defaultWindow)
	if err != nil && !errors.Is(err, model.ErrStoreFailure) {
		return nil, err
	}

	// 2. 本地为空再走行情源，拉到后落地
	if len(bars) == 0 {
		if s.vendor == nil {
			return nil, fmt.Errorf("%w: %s 无本地数据且未配置行情源", model.ErrStoreFailure, symbol)
		}
		bars, err = s.vendor.FetchDailyBars(symbol, defaultWindow)
		if err != nil {
			return nil, err
		}
		if err := s.store.SaveBars(symbol, bars); err != nil {
			log.Warn().Err(err).Str("symbol", symbol).Msg("K线落地失败")
		}
	}

	// 3. 清洗异常价量
	return marketdata.SmoothBars(bars), nil
}
