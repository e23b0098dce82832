// Package normalizer 把各平台五花八门的原始字段转成统一模型需要的值。
// 这里的函数都是纯函数，不会 panic，解析失败走显式的兜底分支。
package normalizer

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnparseable 原始值不是任何预期形状
var ErrUnparseable = errors.New("normalizer: unparseable value")

// ParseFloat 把字符串/数字/json.Number 转成 float64
func ParseFloat(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, ErrUnparseable
	case float64:
		return finite(x)
	case float32:
		return finite(float64(x))
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case json.Number:
		return parseDecimal(x.String())
	case string:
		return parseDecimal(x)
	case json.RawMessage:
		var inner any
		if err := json.Unmarshal(x, &inner); err != nil {
			return 0, ErrUnparseable
		}
		return ParseFloat(inner)
	default:
		return 0, ErrUnparseable
	}
}

func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
	if s == "" {
		return 0, ErrUnparseable
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrUnparseable
	}
	return finite(d.InexactFloat64())
}

func finite(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrUnparseable
	}
	return f, nil
}

// FloatOr 解析失败时返回 fallback
func FloatOr(v any, fallback float64) float64 {
	f, err := ParseFloat(v)
	if err != nil {
		return fallback
	}
	return f
}

// NonNegative 负数、NaN、Inf 一律归零（用于成交量/流动性）
func NonNegative(v any) float64 {
	f := FloatOr(v, 0)
	if f < 0 {
		return 0
	}
	return f
}

// ClampPrice 价格限制在 [0,1]，NaN 归零
func ClampPrice(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Clamp 通用区间限制
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
