// Package conv 把 JSON / YAML 解码出的弱类型值（any）转成具体类型。
// encoding/json 与 goccy/go-json 把数字解码为 float64，yaml.v3 则可能给出 int。
package conv

import (
	"fmt"
	"math"
)

// ToFloat64 接受任意 Go 数值类型，其余类型（包括 bool）返回 false。
func ToFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	}
	return 0, false
}

// ToInt 只接受整数值：3.0 可以，3.5 与 NaN/Inf 不行。
func ToInt(v any) (int, bool) {
	f, ok := ToFloat64(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// ToString 只接受 string。
func ToString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// ToFloat32Slice 把 []any 转成 []float32，任一元素不是数值即失败。
func ToFloat32Slice(v any) ([]float32, bool) {
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]float32, len(raw))
	for i, e := range raw {
		f, ok := ToFloat64(e)
		if !ok {
			return nil, false
		}
		out[i] = float32(f)
	}
	return out, true
}

// ConvertSlice 逐个转换，convert 返回 false 的元素被跳过；nil 输入返回 nil。
func ConvertSlice[T, U any](s []T, convert func(T) (U, bool)) []U {
	if s == nil {
		return nil
	}
	out := make([]U, 0, len(s))
	for _, v := range s {
		if u, ok := convert(v); ok {
			out = append(out, u)
		}
	}
	return out
}

// SliceAnyToString 把 []any 转成 []string；整数值的数字按十进制格式化（YAML 中未加引号的 ID）。
func SliceAnyToString(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	return ConvertSlice(raw, func(e any) (string, bool) {
		if s, ok := e.(string); ok {
			return s, true
		}
		if n, ok := ToInt(e); ok {
			return fmt.Sprint(n), true
		}
		return "", false
	})
}

// ConfigGet 从节点配置中取类型恰为 T 的值，缺失或类型不符返回 defaultVal。
func ConfigGet[T any](m map[string]any, key string, defaultVal T) T {
	if t, ok := m[key].(T); ok {
		return t
	}
	return defaultVal
}

// ConfigGetFloat64 取数值配置，int 与 float 都可以。
func ConfigGetFloat64(m map[string]any, key string, defaultVal float64) float64 {
	if f, ok := ToFloat64(m[key]); ok {
		return f
	}
	return defaultVal
}

// ConfigGetInt 取整数配置，非整数值视为缺失。
func ConfigGetInt(m map[string]any, key string, defaultVal int) int {
	if n, ok := ToInt(m[key]); ok {
		return n
	}
	return defaultVal
}
