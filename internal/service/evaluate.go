package service

import (
	"stock-forecast-engine/internal/model"
)

// Evaluation 预测评估结果
type Evaluation struct {
	Samples           int     `json:"samples"`
	DirectionAccuracy float64 `json:"direction_accuracy"`
	PriceAccuracy     float64 `json:"price_accuracy"`
	Overall           float64 `json:"overall_accuracy"`
}

// 综合准确率的上限，避免小样本评估给出过度乐观的分数
const evaluationCap = 0.85

// Evaluate 把预测与实际走势按日期对齐评估
//
// 综合准确率 = 0.7×方向命中率 + 0.3×价格贴合度，上限0.85。
func Evaluate(predictions []model.Prediction, actual *model.Series) *Evaluation {
	result := &Evaluation{}
	if len(predictions) == 0 || actual == nil || actual.Len() == 0 {
		return result
	}

	actualByDate := make(map[string]int, actual.Len())
	for i, d := range actual.Dates {
		actualByDate[d] = i
	}

	var directionHits int
	var priceScore float64
	for _, p := range predictions {
		idx, ok := actualByDate[p.TargetDate]
		if !ok {
			continue
		}
		result.Samples++

		actualChange := actual.ChangePercents[idx]
		if model.DirectionFromChange(actualChange) == p.Direction {
			directionHits++
		}

		actualPrice := actual.Closes[idx]
		if actualPrice > 0 {
			dev := (p.PredictedPrice - actualPrice) / actualPrice
			if dev < 0 {
				dev = -dev
			}
			score := 1 - dev*10 // 偏差10%记0分
			if score < 0 {
				score = 0
			}
			priceScore += score
		}
	}

	if result.Samples == 0 {
		return result
	}
	result.DirectionAccuracy = float64(directionHits) / float64(result.Samples)
	result.PriceAccuracy = priceScore / float64(result.Samples)
	result.Overall = 0.7*result.DirectionAccuracy + 0.3*result.PriceAccuracy
	if result.Overall > evaluationCap {
		result.Overall = evaluationCap
	}
	return result
}
