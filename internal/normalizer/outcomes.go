package normalizer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

var (
	// DefaultOutcomes 选项解析失败时的兜底
	DefaultOutcomes = []string{"Yes", "No"}
	// DefaultPrices 价格解析失败时的兜底，对应 ["0","0"]
	DefaultPrices = []float64{0, 0}
)

// ParseStringList 接受三种形状：JSON 编码的数组字符串、逗号分隔字符串、原生数组。
// 数组元素可以是字符串、数字，或带 title/name 字段的对象。
func ParseStringList(input any) ([]string, error) {
	switch v := input.(type) {
	case nil:
		return nil, ErrUnparseable
	case json.RawMessage:
		var inner any
		if err := json.Unmarshal(v, &inner); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
		}
		return ParseStringList(inner)
	case string:
		return parseStringListText(v)
	case []string:
		return trimAll(v)
	case []float64:
		out := make([]string, len(v))
		for i, f := range v {
			out[i] = strconv.FormatFloat(f, 'f', -1, 64)
		}
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := scalarString(item)
			if !ok {
				return nil, ErrUnparseable
			}
			out = append(out, s)
		}
		return trimAll(out)
	default:
		return nil, ErrUnparseable
	}
}

func parseStringListText(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return nil, ErrUnparseable
	}
	// 伪JSON数组字符串，如 "[\"0.4\",\"0.6\"]" 或 "[0.4,0.6]"
	if strings.HasPrefix(s, "[") {
		var arr []any
		if err := json.Unmarshal([]byte(s), &arr); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
		}
		return ParseStringList(arr)
	}
	return trimAll(strings.Split(s, ","))
}

// scalarString 数组元素转字符串；对象取 title/name/outcome，再不行取 price
func scalarString(item any) (string, bool) {
	switch x := item.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	case map[string]any:
		for _, k := range []string{"title", "name", "outcome"} {
			if s, ok := x[k].(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

func trimAll(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.Trim(strings.TrimSpace(s), `"'`)
		if s == "" {
			return nil, ErrUnparseable
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, ErrUnparseable
	}
	return out, nil
}

// ParseOutcomePrices 解析价格列表，任一元素不是数字即整体失败，由调用方决定兜底
func ParseOutcomePrices(input any) ([]float64, error) {
	// 对象数组（如 Polkamarkets 的 outcomes）直接取 price 字段
	if arr, ok := input.([]any); ok && len(arr) > 0 {
		if _, isObj := arr[0].(map[string]any); isObj {
			return pricesFromObjects(arr)
		}
	}
	items, err := ParseStringList(input)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(items))
	for _, s := range items {
		f, err := ParseFloat(s)
		if err != nil {
			return nil, fmt.Errorf("price %q: %w", s, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func pricesFromObjects(arr []any) ([]float64, error) {
	out := make([]float64, 0, len(arr))
	for _, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, ErrUnparseable
		}
		f, err := ParseFloat(obj["price"])
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// OutcomePricesOrDefault 失败时返回 DefaultPrices 的拷贝
func OutcomePricesOrDefault(input any) []float64 {
	prices, err := ParseOutcomePrices(input)
	if err != nil || len(prices) == 0 {
		return append([]float64(nil), DefaultPrices...)
	}
	return prices
}

// OutcomesOrDefault 少于两个选项或解析失败时返回 Yes/No
func OutcomesOrDefault(input any) []string {
	outcomes, err := ParseStringList(input)
	if err != nil || len(outcomes) < 2 {
		return append([]string(nil), DefaultOutcomes...)
	}
	return outcomes
}

// Pricing 归一化后的选项与价格
type Pricing struct {
	Outcomes      []string
	OutcomePrices []float64
	YesPrice      float64
	NoPrice       float64
}

// BuildPricing 合并选项与价格：价格对齐到选项长度（缺的补0，多的截掉），全部限制在 [0,1]。
// 二元市场 NoPrice = 1 - YesPrice；多选项市场 NoPrice 取第二个选项的价格。
func BuildPricing(rawOutcomes, rawPrices any) Pricing {
	outcomes := OutcomesOrDefault(rawOutcomes)
	parsed := OutcomePricesOrDefault(rawPrices)

	prices := make([]float64, len(outcomes))
	for i := range prices {
		if i < len(parsed) {
			prices[i] = ClampPrice(parsed[i])
		}
	}

	p := Pricing{Outcomes: outcomes, OutcomePrices: prices, YesPrice: prices[0]}
	if len(outcomes) == 2 {
		p.NoPrice = ClampPrice(1 - p.YesPrice)
	} else {
		p.NoPrice = prices[1]
	}
	return p
}

// ScalePercent 价格若是百分数（任一值 > 1）则整体除以 100
func ScalePercent(prices []float64) []float64 {
	percent := false
	for _, p := range prices {
		if p > 1 {
			percent = true
			break
		}
	}
	if !percent {
		return prices
	}
	out := make([]float64, len(prices))
	for i, p := range prices {
		out[i] = p / 100
	}
	return out
}
