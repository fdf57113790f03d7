package record

import (
	"net/url"
	"strings"

	"github.com/samber/lo"
)

const (
	// PathSeparator 分隔深层 include 路径中的各级关联名，例如 "author/publisher"。
	PathSeparator = "/"

	queryFields  = "fields"
	queryInclude = "include"
)

// Selection 描述一次序列化调用要输出的内容。
//
// Fields 为空表示输出记录的全部字段；Include 中的每一项是一条关联路径，
// "author" 表示包含 author 关联，"author/publisher" 表示继续包含 author 的 publisher 关联。
// Selection 在一次调用期间只读。
type Selection struct {
	Fields  []string
	Include []string
}

// NewSelection 创建一个空 Selection：输出全部字段，不包含任何关联。
func NewSelection() Selection {
	return Selection{}
}

// WithFields 返回追加了字段名的新 Selection。
func (s Selection) WithFields(fields ...string) Selection {
	s.Fields = append(append([]string(nil), s.Fields...), fields...)
	return s
}

// WithInclude 返回追加了关联路径的新 Selection。
func (s Selection) WithInclude(paths ...string) Selection {
	s.Include = append(append([]string(nil), s.Include...), paths...)
	return s
}

// ParseSelection 从查询参数中解析 Selection。
//
// fields 与 include 都接受逗号分隔的列表，也可以重复出现：
//
//	?fields=title,year&include=author&include=author/publisher
//
// 每一项会去掉首尾空白，空项被丢弃；路径本身不做任何规范化。
func ParseSelection(values url.Values) Selection {
	return Selection{
		Fields:  splitList(values[queryFields]),
		Include: splitList(values[queryInclude]),
	}
}

// Encode 将 Selection 还原为查询参数，是 ParseSelection 的逆操作。
func (s Selection) Encode() url.Values {
	values := url.Values{}
	if len(s.Fields) > 0 {
		values.Set(queryFields, strings.Join(s.Fields, ","))
	}
	if len(s.Include) > 0 {
		values.Set(queryInclude, strings.Join(s.Include, ","))
	}
	return values
}

func splitList(raw []string) []string {
	var out []string
	for _, item := range raw {
		parts := lo.Map(strings.Split(item, ","), func(p string, _ int) string {
			return strings.TrimSpace(p)
		})
		out = append(out, lo.Compact(parts)...)
	}
	return out
}
