package serializer

import (
	"github.com/lk2023060901/recjson/pkg/codec"
	"github.com/lk2023060901/recjson/pkg/log"
)

// Option 用于配置 Serializer。
type Option func(*Serializer)

// WithCodec 设置 Encode/EncodeMany/Apply 使用的编码格式，默认为 JSON。
func WithCodec(c codec.Codec) Option {
	return func(s *Serializer) {
		if c != nil {
			s.codec = c
		}
	}
}

// WithPrettyPrint 设置 JSON 输出是否经过缩进美化。对非 JSON 编码格式无效。
func WithPrettyPrint(enabled bool) Option {
	return func(s *Serializer) {
		s.prettyPrint = enabled
	}
}

// WithLogger 设置组件本地 Logger。
func WithLogger(logger *log.MLogger) Option {
	return func(s *Serializer) {
		s.SetLogger(logger)
	}
}

// WithMetrics 设置是否上报 Prometheus 指标，默认开启。
func WithMetrics(enabled bool) Option {
	return func(s *Serializer) {
		s.metrics = enabled
	}
}
