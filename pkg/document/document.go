// Package document 提供序列化器输出的有序文档结构。
//
// Document 是字符串键到值的有序映射，值可以是标量、*Document、[]*Document、
// []any 或 nil。键的顺序即插入顺序，在 JSON 与 msgpack 编码时都会保留。
package document

import (
	"bytes"
	"slices"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/lk2023060901/recjson/internal/json"
)

// Document 是有序映射。零值不可用，请使用 New 创建。
type Document struct {
	keys   []string
	values map[string]any
}

var (
	_ json.Marshaler         = (*Document)(nil)
	_ msgpack.CustomEncoder = (*Document)(nil)
)

// New 创建一个预分配了 capacity 个键位置的空 Document。
func New(capacity int) *Document {
	return &Document{
		keys:   make([]string, 0, capacity),
		values: make(map[string]any, capacity),
	}
}

// Set 写入 key 的值。已存在的键保持原有位置，只覆盖值。
func (d *Document) Set(key string, value any) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Get 返回 key 的值以及 key 是否存在。
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Has 判断 key 是否存在。
func (d *Document) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Delete 删除 key，不存在时忽略。
func (d *Document) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	d.keys = slices.DeleteFunc(d.keys, func(k string) bool { return k == key })
}

// Keys 按插入顺序返回全部键。
func (d *Document) Keys() []string {
	return slices.Clone(d.keys)
}

// Len 返回键的数量。
func (d *Document) Len() int {
	return len(d.keys)
}

// Range 按插入顺序遍历，f 返回 false 时提前结束。
func (d *Document) Range(f func(key string, value any) bool) {
	for _, k := range d.keys {
		if !f(k, d.values[k]) {
			return
		}
	}
}

// ToMap 递归地把 Document 转换为普通的 map[string]any，
// 嵌套的 *Document 变为 map[string]any，[]*Document 变为 []any。
// 键顺序在转换后丢失。
func (d *Document) ToMap() map[string]any {
	if d == nil {
		return nil
	}
	out := make(map[string]any, len(d.keys))
	for _, k := range d.keys {
		out[k] = plain(d.values[k])
	}
	return out
}

func plain(v any) any {
	switch val := v.(type) {
	case *Document:
		if val == nil {
			return nil
		}
		return val.ToMap()
	case []*Document:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plain(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON 按插入顺序输出紧凑的 JSON 对象。
func (d *Document) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(d.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeMsgpack 实现 msgpack.CustomEncoder，按插入顺序写出 map。
func (d *Document) EncodeMsgpack(enc *msgpack.Encoder) error {
	if d == nil {
		return enc.EncodeNil()
	}
	if err := enc.EncodeMapLen(len(d.keys)); err != nil {
		return err
	}
	for _, k := range d.keys {
		if err := enc.EncodeString(k); err != nil {
			return err
		}
		if err := enc.Encode(d.values[k]); err != nil {
			return err
		}
	}
	return nil
}
