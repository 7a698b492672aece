package model

import "regexp"

// TradingSignal 交易信号
type TradingSignal string

const (
	SignalStrongBuy  TradingSignal = "StrongBuy"
	SignalBuy        TradingSignal = "Buy"
	SignalHold       TradingSignal = "Hold"
	SignalSell       TradingSignal = "Sell"
	SignalStrongSell TradingSignal = "StrongSell"
)

// Direction 预测方向
type Direction string

const (
	DirectionUp   Direction = "Up"
	DirectionDown Direction = "Down"
	DirectionFlat Direction = "Flat"
)

// DirectionFromChange 按涨跌幅划分方向：>0.5%为涨，<-0.5%为跌
func DirectionFromChange(changePercent float64) Direction {
	switch {
	case changePercent > 0.5:
		return DirectionUp
	case changePercent < -0.5:
		return DirectionDown
	default:
		return DirectionFlat
	}
}

// PredictRequest 预测请求
type PredictRequest struct {
	StockCode      string `json:"stock_code" binding:"required"`
	ModelName      string `json:"model_name"`
	PredictionDays int    `json:"prediction_days" binding:"required,min=1"`
	UseCandle      bool   `json:"use_candle"`
}

var stockCodePattern = regexp.MustCompile(`^(sh|sz)\d{6}$|^\d{6}\.(SH|SZ)$`)

// ValidStockCode 校验A股代码格式
func ValidStockCode(code string) bool {
	return stockCodePattern.MatchString(code)
}

// Prediction 单个交易日的预测结果
type Prediction struct {
	TargetDate             string        `json:"target_date"`
	PredictedPrice         float64       `json:"predicted_price"`
	PredictedChangePercent float64       `json:"predicted_change_percent"`
	Confidence             float64       `json:"confidence"`
	TradingSignal          TradingSignal `json:"trading_signal"`
	SignalStrength         float64       `json:"signal_strength"`
	TechnicalIndicators    *Snapshot     `json:"technical_indicators,omitempty"`
	PredictionReason       string        `json:"prediction_reason"`
	KeyFactors             []string      `json:"key_factors"`
	Direction              Direction     `json:"direction"`
}

// LastRealData 最后一个真实交易日数据
type LastRealData struct {
	Date          string  `json:"date"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
}

// PredictResponse 预测响应
type PredictResponse struct {
	Predictions  []Prediction  `json:"predictions"`
	LastRealData *LastRealData `json:"last_real_data,omitempty"`
}

// TradePoint 专业策略给出的买卖点
type TradePoint struct {
	Price  float64 `json:"price"`
	Reason string  `json:"reason"`
}

// ProfessionalResponse 专业策略预测响应
type ProfessionalResponse struct {
	PredictResponse
	BuyPoints     []TradePoint `json:"buy_points"`
	SellPoints    []TradePoint `json:"sell_points"`
	CurrentAdvice string       `json:"current_advice"`
	RiskLevel     string       `json:"risk_level"`
}

// ModelInfo 模型元数据（由训练流程写入，预测侧只读）
type ModelInfo struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	StockCode      string   `json:"stock_code"`
	CreatedAt      int64    `json:"created_at"`
	ModelType      string   `json:"model_type"`
	Features       []string `json:"features"`
	Target         string   `json:"target"`
	PredictionDays int      `json:"prediction_days"`
	Accuracy       float64  `json:"accuracy"`
}

// Snapshot 技术指标快照（窗口最后一根K线处）
type Snapshot struct {
	MA5               float64 `json:"ma5"`
	MA10              float64 `json:"ma10"`
	MA20              float64 `json:"ma20"`
	MA60              float64 `json:"ma60"`
	EMA12             float64 `json:"ema12"`
	EMA26             float64 `json:"ema26"`
	MACDDif           float64 `json:"macd_dif"`
	MACDDea           float64 `json:"macd_dea"`
	MACDHistogram     float64 `json:"macd_histogram"`
	KDJK              float64 `json:"kdj_k"`
	KDJD              float64 `json:"kdj_d"`
	KDJJ              float64 `json:"kdj_j"`
	RSI               float64 `json:"rsi"`
	BollUpper         float64 `json:"boll_upper"`
	BollMiddle        float64 `json:"boll_middle"`
	BollLower         float64 `json:"boll_lower"`
	BollPosition      float64 `json:"boll_position"`
	ATR               float64 `json:"atr"`
	ATRPercent        float64 `json:"atr_percent"`
	OBVTrend          float64 `json:"obv_trend"`
	CCI               float64 `json:"cci"`
	PlusDI            float64 `json:"plus_di"`
	MinusDI           float64 `json:"minus_di"`
	ADX               float64 `json:"adx"`
	VWAP              float64 `json:"vwap"`
	VWAPUpper1        float64 `json:"vwap_upper1"`
	VWAPLower1        float64 `json:"vwap_lower1"`
	VWAPUpper2        float64 `json:"vwap_upper2"`
	VWAPLower2        float64 `json:"vwap_lower2"`
	ROC5              float64 `json:"roc5"`
	ROC10             float64 `json:"roc10"`
	ROC20             float64 `json:"roc20"`
	ROCConsensus      float64 `json:"roc_consensus"`
	WilliamsR         float64 `json:"williams_r"`
	EMV               float64 `json:"emv"`
	MACDGoldenCross   bool    `json:"macd_golden_cross"`
	MACDDeathCross    bool    `json:"macd_death_cross"`
	MACDZeroCrossUp   bool    `json:"macd_zero_cross_up"`
	MACDZeroCrossDown bool    `json:"macd_zero_cross_down"`
	KDJGoldenCross    bool    `json:"kdj_golden_cross"`
	KDJDeathCross     bool    `json:"kdj_death_cross"`
	KDJOverbought     bool    `json:"kdj_overbought"`
	KDJOversold       bool    `json:"kdj_oversold"`
}
