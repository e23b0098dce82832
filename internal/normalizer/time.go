package normalizer

import (
	"strconv"
	"strings"
	"time"
)

// 各平台常见时间格式
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime 接受 RFC3339 / 常规日期字符串 / 秒或毫秒时间戳，失败返回零值
func ParseTime(v any) time.Time {
	switch x := v.(type) {
	case nil:
		return time.Time{}
	case time.Time:
		return x
	case float64:
		return fromEpoch(int64(x))
	case int64:
		return fromEpoch(x)
	case int:
		return fromEpoch(int64(x))
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return fromEpoch(n)
		}
		for _, layout := range timeFormats {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC()
			}
		}
	}
	return time.Time{}
}

// fromEpoch 大于 1e12 视为毫秒
func fromEpoch(n int64) time.Time {
	if n <= 0 {
		return time.Time{}
	}
	if n > 1e12 {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}
