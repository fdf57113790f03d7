// Package formatter 把紧凑的 JSON 文本重新输出为带缩进的格式。
//
// 输入先经过解码再编码的规范化，随后做一次从左到右的单遍字符扫描，
// 只跟踪嵌套层级和是否处于字符串字面量内部。
package formatter

import (
	"strings"

	"github.com/lk2023060901/recjson/internal/json"
	"github.com/lk2023060901/recjson/pkg/document"
	"github.com/lk2023060901/recjson/pkg/metrics"
)

// Indent 为固定的缩进单位。
const Indent = "  "

// Canonicalize 校验并以保留键顺序的方式重新编码 data，输出紧凑 JSON。
// 非法输入返回 merr.ErrDecodeFailed。
func Canonicalize(data []byte) ([]byte, error) {
	v, err := document.Parse(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// Pretty 美化 JSON 文本。
func Pretty(text string) (string, error) {
	out, err := PrettyBytes([]byte(text))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// PrettyBytes 是 Pretty 的 []byte 版本，并计入 formatter 指标。
func PrettyBytes(data []byte) ([]byte, error) {
	out, err := Reformat(data)
	if err != nil {
		metrics.FormatterOperations.WithLabelValues(metrics.FailLabel).Inc()
		return nil, err
	}
	metrics.FormatterOperations.WithLabelValues(metrics.SuccessLabel).Inc()
	return out, nil
}

// Reformat 与 PrettyBytes 相同，但不上报指标，供关闭了指标的调用方使用。
func Reformat(data []byte) ([]byte, error) {
	canonical, err := Canonicalize(data)
	if err != nil {
		return nil, err
	}
	return indent(canonical), nil
}

func indent(src []byte) []byte {
	var (
		out      strings.Builder
		level    int
		inString bool
		escaped  bool
	)
	out.Grow(len(src) * 2)

	newline := func(n int) {
		out.WriteByte('\n')
		for i := 0; i < n; i++ {
			out.WriteString(Indent)
		}
	}

	for _, c := range src {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			out.WriteByte(c)
			continue
		}

		switch c {
		case '{', '[':
			out.WriteByte(c)
			newline(level + 1)
			level++
		case '}', ']':
			level--
			newline(level)
			out.WriteByte(c)
		case ',':
			out.WriteByte(c)
			newline(level)
		case ':':
			out.WriteString(": ")
		case '"':
			inString = true
			out.WriteByte(c)
		default:
			out.WriteByte(c)
		}
	}
	return []byte(out.String())
}
