// Package application 是 recjson 的运行时容器：
// 加载配置、初始化日志与指标，并构建配置好的 Serializer 与 Responder。
package application

import (
	"net/http"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lk2023060901/recjson/pkg/codec"
	"github.com/lk2023060901/recjson/pkg/compressor"
	"github.com/lk2023060901/recjson/pkg/config"
	zlog "github.com/lk2023060901/recjson/pkg/log"
	"github.com/lk2023060901/recjson/pkg/metrics"
	"github.com/lk2023060901/recjson/pkg/responder"
	"github.com/lk2023060901/recjson/pkg/serializer"
)

const (
	DefaultConfigPath = "./recjson.yaml"
	ConfigPathEnv     = "RECJSON_CONFIG_FILE_PATH"
	configFlag        = "--config"
)

// Application 持有配置以及由配置构建出来的公共组件。
type Application struct {
	cfg        *config.Config
	configPath string

	registry   *prometheus.Registry
	zstd       *compressor.ZstdCompressor
	serializer *serializer.Serializer
	responder  *responder.Responder
}

// New 创建一个尚未初始化的 Application。
func New() *Application {
	return &Application{}
}

// Run 解析命令行参数并加载配置文件，随后初始化全部组件。
// 配置文件路径按以下优先级确定：
//  1. 默认：./recjson.yaml（不存在时使用默认配置）
//  2. 环境变量：RECJSON_CONFIG_FILE_PATH
//  3. 命令行：--config <path> 或 --config=<path>
func (a *Application) Run(args []string) error {
	path, explicit, err := resolveConfigPath(args)
	if err != nil {
		return err
	}
	if !explicit {
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return errors.Wrapf(err, "load config %q", path)
	}
	a.configPath = path
	return a.Init(cfg)
}

// Init 使用给定配置初始化日志、指标、Serializer 与 Responder。
func (a *Application) Init(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if err := a.initLogging(); err != nil {
		return err
	}
	a.initMetrics()
	return a.initComponents()
}

// Config 返回已加载的配置。
func (a *Application) Config() *config.Config {
	return a.cfg
}

// ConfigPath 返回实际加载的配置文件路径，未加载文件时为空。
func (a *Application) ConfigPath() string {
	return a.configPath
}

// Serializer 返回按配置构建的 Serializer。
func (a *Application) Serializer() *serializer.Serializer {
	return a.serializer
}

// Responder 返回按配置构建的 Responder。
func (a *Application) Responder() *responder.Responder {
	return a.responder
}

// MetricsHandler 返回暴露 Prometheus 指标的 HTTP Handler，指标关闭时返回 404。
func (a *Application) MetricsHandler() http.Handler {
	if a.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})
}

// Close 释放压缩器等资源并刷新日志。
func (a *Application) Close() {
	if a.zstd != nil {
		a.zstd.Close()
		a.zstd = nil
	}
	_ = zlog.Sync()
}

func (a *Application) initLogging() error {
	logCfg := a.cfg.Log
	logger, props, err := zlog.InitLogger(&logCfg)
	if err != nil {
		return errors.Wrap(err, "init global logger")
	}
	zlog.ReplaceGlobals(logger, props)
	return nil
}

func (a *Application) initMetrics() {
	if !a.cfg.Metrics.Enabled {
		return
	}
	a.registry = prometheus.NewRegistry()
	metrics.Register(a.registry)
}

func (a *Application) initComponents() error {
	c, err := codec.Lookup(a.cfg.Serializer.Codec)
	if err != nil {
		return err
	}

	a.serializer = serializer.New(
		serializer.WithCodec(c),
		serializer.WithPrettyPrint(a.cfg.Serializer.PrettyPrint),
		serializer.WithMetrics(a.cfg.Metrics.Enabled),
		serializer.WithLogger(zlog.With(zlog.FieldComponent("serializer"))),
	)

	opts := []responder.Option{
		responder.WithMinCompressSize(a.cfg.Responder.MinCompressSize),
		responder.WithLogger(zlog.With(zlog.FieldComponent("responder"))),
	}
	if a.cfg.Responder.Compression {
		a.zstd, err = compressor.NewZstdCompressor()
		if err != nil {
			return err
		}
		opts = append(opts, responder.WithCompressor(a.zstd))
	}
	a.responder = responder.New(a.serializer, opts...)

	zlog.Info("application initialized",
		zlog.FieldCodec(c.Name()),
		zap.Bool("prettyPrint", a.cfg.Serializer.PrettyPrint),
		zap.Bool("compression", a.cfg.Responder.Compression),
		zap.Bool("metrics", a.cfg.Metrics.Enabled))
	return nil
}

// resolveConfigPath 按优先级确定配置文件路径，explicit 表示路径来自环境变量或命令行。
func resolveConfigPath(args []string) (path string, explicit bool, err error) {
	path = DefaultConfigPath
	if envPath := strings.TrimSpace(os.Getenv(ConfigPathEnv)); envPath != "" {
		path, explicit = envPath, true
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == configFlag {
			if i+1 >= len(args) {
				return "", false, errors.New("missing value after --config")
			}
			path, explicit = args[i+1], true
			i++
			continue
		}
		if val, ok := strings.CutPrefix(arg, configFlag+"="); ok && val != "" {
			path, explicit = val, true
		}
	}
	return path, explicit, nil
}
