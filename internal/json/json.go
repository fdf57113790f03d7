// Package json 统一封装项目内部使用的 JSON 编解码能力，底层基于 bytedance/sonic。
//
// 使用与标准库兼容的配置（ConfigStd）：转义 HTML、map 键排序、校验字符串，
// 保证输出与 encoding/json 一致，便于在不同编解码实现之间比对结果。
package json

import (
	stdjson "encoding/json"

	"github.com/bytedance/sonic"
)

// Number 是 JSON 数字的原始文本表示，与 encoding/json.Number 为同一类型。
type Number = stdjson.Number

// Marshaler 与 encoding/json.Marshaler 相同，sonic 会识别并调用它。
type Marshaler = stdjson.Marshaler

var api = sonic.ConfigStd

// Marshal 将 v 编码为紧凑的 JSON 字节序列。
func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

// MarshalToString 将 v 编码为 JSON 字符串。
func MarshalToString(v any) (string, error) {
	return api.MarshalToString(v)
}

// Unmarshal 将 JSON 字节序列解码到 v。
func Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}

// UnmarshalFromString 将 JSON 字符串解码到 v。
func UnmarshalFromString(data string, v any) error {
	return api.UnmarshalFromString(data, v)
}

// Valid 判断 data 是否为单个合法的 JSON 值（允许首尾空白）。
func Valid(data []byte) bool {
	return api.Valid(data)
}
