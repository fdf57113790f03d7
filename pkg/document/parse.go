package document

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/lk2023060901/recjson/internal/json"
	"github.com/lk2023060901/recjson/pkg/util/merr"
)

var iterConfig = jsoniter.ConfigCompatibleWithStandardLibrary

// Parse 解码 JSON 文本并保留对象键的顺序。
//
// 对象解码为 *Document，数组为 []any，数字保持为 json.Number，
// 其余标量与标准库一致。非法输入返回 merr.ErrDecodeFailed。
func Parse(data []byte) (any, error) {
	if !json.Valid(data) {
		return nil, merr.WrapErrDecodeFailed(nil, "invalid json")
	}
	iter := jsoniter.ParseBytes(iterConfig, data)
	v := readValue(iter)
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, merr.WrapErrDecodeFailed(iter.Error)
	}
	return v, nil
}

// ParseObject 与 Parse 相同，但要求顶层是对象。
func ParseObject(data []byte) (*Document, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	doc, ok := v.(*Document)
	if !ok || doc == nil {
		return nil, merr.WrapErrDecodeFailed(nil, "top-level value is not an object")
	}
	return doc, nil
}

func readValue(iter *jsoniter.Iterator) any {
	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		doc := New(8)
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			doc.Set(key, readValue(it))
			return it.Error == nil
		})
		return doc
	case jsoniter.ArrayValue:
		arr := make([]any, 0, 8)
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			arr = append(arr, readValue(it))
			return it.Error == nil
		})
		return arr
	case jsoniter.StringValue:
		return iter.ReadString()
	case jsoniter.NumberValue:
		return iter.ReadNumber()
	case jsoniter.BoolValue:
		return iter.ReadBool()
	case jsoniter.NilValue:
		iter.ReadNil()
		return nil
	default:
		iter.ReportError("readValue", "unexpected token")
		return nil
	}
}
