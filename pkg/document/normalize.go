package document

import (
	"github.com/lk2023060901/recjson/internal/json"
)

// Normalize 把解码得到的值转换为普通 Go 值：
// json.Number 为整数时转为 int64，否则转为 float64；
// *Document 转为 map[string]any；切片递归处理。
func Normalize(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case *Document:
		if val == nil {
			return nil
		}
		out := make(map[string]any, val.Len())
		val.Range(func(k string, item any) bool {
			out[k] = Normalize(item)
			return true
		})
		return out
	case []*Document:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Normalize(item)
		}
		return out
	default:
		return v
	}
}

// ResolveNumbers 与 Normalize 类似地把 json.Number 转换为 int64 或 float64，
// 但保留 *Document 以维持键顺序，适合在不同编码格式之间转换。
func ResolveNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		return Normalize(val)
	case *Document:
		if val == nil {
			return nil
		}
		out := New(val.Len())
		val.Range(func(k string, item any) bool {
			out.Set(k, ResolveNumbers(item))
			return true
		})
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = ResolveNumbers(item)
		}
		return out
	default:
		return v
	}
}
