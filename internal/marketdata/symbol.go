package marketdata

import (
	"strings"

	"stock-forecast-engine/internal/model"
)

// NormalizeSymbol 把两种合法写法统一成小写前缀形式（sh600000）
//
// 非法代码返回ErrInvalidSymbol。
func NormalizeSymbol(code string) (string, error) {
	if !model.ValidStockCode(code) {
		return "", model.ErrInvalidSymbol
	}
	if strings.HasPrefix(code, "sh") || strings.HasPrefix(code, "sz") {
		return code, nil
	}
	// 600000.SH 形式
	parts := strings.SplitN(code, ".", 2)
	return strings.ToLower(parts[1]) + parts[0], nil
}
