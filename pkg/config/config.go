// Package config 定义 recjson 的类型化配置及其默认值。
package config

import (
	"github.com/lk2023060901/recjson/pkg/codec"
	"github.com/lk2023060901/recjson/pkg/log"
	"github.com/lk2023060901/recjson/pkg/util/merr"
	zviper "github.com/lk2023060901/recjson/pkg/util/viper"
)

// EnvPrefix 为环境变量覆盖配置时使用的前缀。
const EnvPrefix = "RECJSON"

type SerializerConfig struct {
	// Codec 为编码格式名称：json 或 msgpack。
	Codec string `mapstructure:"codec"`
	// PrettyPrint 为 true 时 JSON 输出经过缩进美化。
	PrettyPrint bool `mapstructure:"pretty-print"`
}

type ResponderConfig struct {
	// Compression 表示是否在客户端支持时使用 zstd 压缩响应体。
	Compression bool `mapstructure:"compression"`
	// MinCompressSize 为触发压缩的最小字节数。
	MinCompressSize int `mapstructure:"min-compress-size"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Config 为完整配置。
type Config struct {
	Serializer SerializerConfig `mapstructure:"serializer"`
	Responder  ResponderConfig  `mapstructure:"responder"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Log        log.Config       `mapstructure:"log"`
}

var defaults = map[string]any{
	"serializer.codec":            codec.NameJSON,
	"serializer.pretty-print":     false,
	"responder.compression":       true,
	"responder.min-compress-size": 1024,
	"metrics.enabled":             true,
	"log.level":                   "info",
	"log.format":                  log.FormatConsole,
	"log.stdout":                  true,
	"log.disable-timestamp":       false,
	"log.disable-caller":          false,
	"log.disable-stacktrace":      false,
	"log.development":             false,
	"log.file.rootpath":           "",
	"log.file.filename":           "",
	"log.file.max-size":           0,
	"log.file.max-days":           0,
	"log.file.max-backups":        0,
}

// Default 返回只包含默认值的配置。
func Default() *Config {
	cfg, _ := Load("")
	return cfg
}

// Load 读取配置文件并叠加环境变量，path 为空时只使用默认值与环境变量。
func Load(path string) (*Config, error) {
	v := zviper.New(EnvPrefix)
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	if path != "" {
		if err := v.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, merr.WrapErrParameterInvalidMsg("decode config: %s", err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查配置取值是否合法。
func (c *Config) Validate() error {
	if _, err := codec.Lookup(c.Serializer.Codec); err != nil {
		return err
	}
	if c.Responder.MinCompressSize < 0 {
		return merr.WrapErrParameterInvalidMsg("responder.min-compress-size must be >= 0, got %d", c.Responder.MinCompressSize)
	}
	return nil
}
