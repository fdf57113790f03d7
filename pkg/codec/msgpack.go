package codec

import (
	"bytes"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/lk2023060901/recjson/pkg/document"
	"github.com/lk2023060901/recjson/pkg/util/merr"
)

// Msgpack 使用 vmihailenco/msgpack 进行二进制编码。
//
// *document.Document 实现了 msgpack.CustomEncoder，编码时保留键顺序。
type Msgpack struct{}

var _ Codec = Msgpack{}

func (Msgpack) Name() string {
	return NameMsgpack
}

func (Msgpack) ContentType() string {
	return ContentTypeMsgpack
}

func (Msgpack) Marshal(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, merr.WrapErrEncodeFailed(err)
	}
	return data, nil
}

func (Msgpack) Unmarshal(data []byte, v any) error {
	if err := msgpack.Unmarshal(data, v); err != nil {
		return merr.WrapErrDecodeFailed(err)
	}
	return nil
}

func (Msgpack) DecodeObject(data []byte) (*document.Document, error) {
	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)

	c, err := dec.PeekCode()
	if err != nil {
		return nil, merr.WrapErrDecodeFailed(err)
	}
	if !isMap(c) {
		return nil, merr.WrapErrDecodeFailed(nil, "top-level value is not an object")
	}
	doc, err := decodeMap(dec)
	if err != nil {
		return nil, merr.WrapErrDecodeFailed(err)
	}
	if r.Len() > 0 {
		return nil, merr.WrapErrDecodeFailed(nil, "trailing data after object")
	}
	return doc, nil
}

func isMap(c byte) bool {
	return msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32
}

func isArray(c byte) bool {
	return msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32
}

func decodeMap(dec *msgpack.Decoder) (*document.Document, error) {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, nil
	}
	doc := document.New(n)
	for i := 0; i < n; i++ {
		key, err := dec.DecodeString()
		if err != nil {
			return nil, err
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		doc.Set(key, val)
	}
	return doc, nil
}

func decodeValue(dec *msgpack.Decoder) (any, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}
	switch {
	case isMap(c):
		return decodeMap(dec)
	case isArray(c):
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		arr := make([]any, 0, max(n, 0))
		for i := 0; i < n; i++ {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	default:
		v, err := dec.DecodeInterface()
		if err != nil {
			return nil, err
		}
		return widenNumber(v), nil
	}
}

// widenNumber 把各种宽度的整数统一为 int64（超出范围的无符号数保留为 uint64），
// float32 统一为 float64，与 JSON 解码后的数值类型保持一致。
func widenNumber(v any) any {
	switch n := v.(type) {
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint:
		if uint64(n) <= math.MaxInt64 {
			return int64(n)
		}
		return uint64(n)
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n)
		}
		return n
	case float32:
		return float64(n)
	default:
		return v
	}
}
