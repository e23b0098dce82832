package normalizer

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexBool 兼容 JSON bool 和 "true"/"false"/"1" 字符串
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = FlexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// 其他形状当作 false，不让整条记录解码失败
		*f = false
		return nil
	}
	*f = FlexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

// FlexString 兼容字符串和数字（平台 id 有时是数字）
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	*f = FlexString(strconv.Quote(string(data)))
	return nil
}

func (f FlexString) String() string { return string(f) }
