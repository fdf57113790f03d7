package serializer

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/lk2023060901/recjson/internal/json"
	"github.com/lk2023060901/recjson/pkg/document"
	"github.com/lk2023060901/recjson/pkg/util/merr"
)

var (
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// checkEncodable 检查 v 是否能被无损编码：字符串必须是合法 UTF-8，
// JSON 下浮点数必须是有限值。结构体按导出字段逐个检查，自带 MarshalJSON/MarshalText 的类型交给编码器处理。
func checkEncodable(v any, isJSON bool) error {
	return walk(reflect.ValueOf(v), "$", isJSON)
}

func walk(v reflect.Value, path string, isJSON bool) error {
	if !v.IsValid() {
		return nil
	}
	if doc, ok := asDocument(v); ok {
		if doc == nil {
			return nil
		}
		var err error
		doc.Range(func(key string, item any) bool {
			if !utf8.ValidString(key) {
				err = merr.WrapErrEncodeFailedAt(path, "invalid UTF-8 in key")
				return false
			}
			err = walk(reflect.ValueOf(item), path+"."+key, isJSON)
			return err == nil
		})
		return err
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		if implementsMarshaler(v.Type()) {
			return nil
		}
		return walk(v.Elem(), path, isJSON)
	case reflect.String:
		if implementsMarshaler(v.Type()) {
			return nil
		}
		if !utf8.ValidString(v.String()) {
			return merr.WrapErrEncodeFailedAt(path, "invalid UTF-8")
		}
	case reflect.Float32, reflect.Float64:
		if f := v.Float(); isJSON && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return merr.WrapErrEncodeFailedAt(path, fmt.Sprintf("unsupported float value %v", f))
		}
	case reflect.Slice, reflect.Array:
		if implementsMarshaler(v.Type()) || v.Type().Elem().Kind() == reflect.Uint8 {
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := walk(v.Index(i), fmt.Sprintf("%s[%d]", path, i), isJSON); err != nil {
				return err
			}
		}
	case reflect.Map:
		if implementsMarshaler(v.Type()) {
			return nil
		}
		iter := v.MapRange()
		for iter.Next() {
			key := iter.Key()
			if key.Kind() == reflect.String && !utf8.ValidString(key.String()) {
				return merr.WrapErrEncodeFailedAt(path, "invalid UTF-8 in key")
			}
			if err := walk(iter.Value(), fmt.Sprintf("%s.%v", path, key.Interface()), isJSON); err != nil {
				return err
			}
		}
	case reflect.Struct:
		if implementsMarshaler(v.Type()) {
			return nil
		}
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			name := field.Name
			if tag, ok := field.Tag.Lookup("json"); ok {
				tagName, _, _ := strings.Cut(tag, ",")
				if tagName == "-" {
					continue
				}
				if tagName != "" {
					name = tagName
				}
			}
			if err := walk(v.Field(i), path+"."+name, isJSON); err != nil {
				return err
			}
		}
	case reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return merr.WrapErrEncodeFailedAt(path, "unsupported type "+v.Type().String())
	}
	return nil
}

func asDocument(v reflect.Value) (*document.Document, bool) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if !v.CanInterface() {
		return nil, false
	}
	doc, ok := v.Interface().(*document.Document)
	return doc, ok
}

func implementsMarshaler(t reflect.Type) bool {
	return t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType)
}
