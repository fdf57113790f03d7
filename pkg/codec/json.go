package codec

import (
	"github.com/lk2023060901/recjson/internal/json"
	"github.com/lk2023060901/recjson/pkg/document"
	"github.com/lk2023060901/recjson/pkg/util/merr"
)

// JSON 使用 internal/json（基于 bytedance/sonic）编码，
// 有序解码交给 document.Parse。
type JSON struct{}

var _ Codec = JSON{}

func (JSON) Name() string {
	return NameJSON
}

func (JSON) ContentType() string {
	return ContentTypeJSON
}

func (JSON) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, merr.WrapErrEncodeFailed(err)
	}
	return data, nil
}

func (JSON) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return merr.WrapErrDecodeFailed(err)
	}
	return nil
}

func (JSON) DecodeObject(data []byte) (*document.Document, error) {
	return document.ParseObject(data)
}
