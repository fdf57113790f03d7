// Package codec 抽象了“文档 <-> 字节流”的编解码能力。
//
// 序列化器通过 Codec 接口注入具体实现，目前提供 JSON 与 msgpack 两种格式。
package codec

import (
	"strings"

	"github.com/lk2023060901/recjson/pkg/document"
	"github.com/lk2023060901/recjson/pkg/util/merr"
)

const (
	NameJSON    = "json"
	NameMsgpack = "msgpack"

	ContentTypeJSON    = "application/json"
	ContentTypeMsgpack = "application/msgpack"
)

// Codec 描述一种文档编码格式。
type Codec interface {
	// Name 返回编码格式名称，用于配置与日志。
	Name() string

	// ContentType 返回对应的 HTTP Content-Type。
	ContentType() string

	// Marshal 将任意值编码为字节序列，失败时返回 merr.ErrEncodeFailed。
	Marshal(v any) ([]byte, error)

	// Unmarshal 将字节序列解码到 v，失败时返回 merr.ErrDecodeFailed。
	Unmarshal(data []byte, v any) error

	// DecodeObject 按出现顺序解码一个顶层对象。
	//
	// 输入非法或顶层不是对象时返回 merr.ErrDecodeFailed。
	DecodeObject(data []byte) (*document.Document, error)
}

var registry = map[string]Codec{
	NameJSON:    JSON{},
	NameMsgpack: Msgpack{},
}

// Lookup 按名称（大小写不敏感）查找编码格式。
func Lookup(name string) (Codec, error) {
	c, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, merr.WrapErrCodecNotFound(name)
	}
	return c, nil
}

// Default 返回默认的 JSON 编码格式。
func Default() Codec {
	return JSON{}
}
