package model

import "errors"

// 预测流水线可能对外暴露的错误类别
var (
	// ErrInsufficientData 窗口长度不足以计算所需指标
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidSymbol 股票代码格式错误
	ErrInvalidSymbol = errors.New("invalid symbol")
	// ErrStoreFailure 历史数据存储层错误
	ErrStoreFailure = errors.New("store failure")
	// ErrDegenerateSeries 价格序列无波动，指标退化为中性默认值
	ErrDegenerateSeries = errors.New("degenerate series")
	// ErrModelNotFound 找不到模型
	ErrModelNotFound = errors.New("model not found")
)
