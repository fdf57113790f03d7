// Package responder 把序列化结果写入 HTTP 响应。
package responder

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/lk2023060901/recjson/pkg/compressor"
	"github.com/lk2023060901/recjson/pkg/log"
	"github.com/lk2023060901/recjson/pkg/record"
	"github.com/lk2023060901/recjson/pkg/serializer"
)

const (
	HeaderContentType     = "Content-Type"
	HeaderContentEncoding = "Content-Encoding"
	HeaderContentLength   = "Content-Length"
	HeaderAcceptEncoding  = "Accept-Encoding"
	HeaderVary            = "Vary"

	DefaultMinCompressSize = 1024
)

// SetContentType 设置响应的 Content-Type，JSON 类型附带 utf-8 字符集。
func SetContentType(h http.Header, contentType string) {
	if strings.HasSuffix(contentType, "json") && !strings.Contains(contentType, "charset") {
		contentType += "; charset=utf-8"
	}
	h.Set(HeaderContentType, contentType)
}

// Option 用于配置 Responder。
type Option func(*Responder)

// WithCompressor 设置响应体压缩器，默认不压缩。
func WithCompressor(c compressor.Compressor) Option {
	return func(r *Responder) {
		if c != nil {
			r.compressor = c
		}
	}
}

// WithMinCompressSize 设置触发压缩的最小字节数。
func WithMinCompressSize(n int) Option {
	return func(r *Responder) {
		r.minCompressSize = max(n, 0)
	}
}

// WithLogger 设置组件本地 Logger。
func WithLogger(logger *log.MLogger) Option {
	return func(r *Responder) {
		r.SetLogger(logger)
	}
}

// Responder 使用 Serializer 编码 Record，并按客户端的 Accept-Encoding 决定是否压缩。
type Responder struct {
	log.Binder

	serializer      *serializer.Serializer
	compressor      compressor.Compressor
	minCompressSize int
}

// New 创建 Responder。
func New(s *serializer.Serializer, opts ...Option) *Responder {
	r := &Responder{
		serializer:      s,
		compressor:      compressor.NopCompressor{},
		minCompressSize: DefaultMinCompressSize,
	}
	r.SetComponent("responder")
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record 从请求的查询参数解析 Selection，编码 rec 并写出响应。
// 编码失败时返回 500 且不写出任何响应体。
func (r *Responder) Record(w http.ResponseWriter, req *http.Request, rec record.Record) error {
	body, err := r.serializer.Encode(req.Context(), rec, record.ParseSelection(req.URL.Query()))
	if err != nil {
		r.fail(w, req, err)
		return err
	}
	return r.Write(w, req, http.StatusOK, body)
}

// Records 与 Record 相同，但编码一组对象。
func (r *Responder) Records(w http.ResponseWriter, req *http.Request, recs []record.Record) error {
	body, err := r.serializer.EncodeMany(req.Context(), recs, record.ParseSelection(req.URL.Query()))
	if err != nil {
		r.fail(w, req, err)
		return err
	}
	return r.Write(w, req, http.StatusOK, body)
}

// Write 写出已编码的响应体。
func (r *Responder) Write(w http.ResponseWriter, req *http.Request, status int, body []byte) error {
	h := w.Header()
	SetContentType(h, r.serializer.Codec().ContentType())

	if enc := r.compressor.Encoding(); enc != "" && len(body) >= r.minCompressSize {
		h.Add(HeaderVary, HeaderAcceptEncoding)
		if acceptsEncoding(req.Header.Get(HeaderAcceptEncoding), enc) {
			packet, err := r.compressor.Compress(nil, body)
			if err != nil {
				r.Logger().Warn("compress response failed, sending plain body", zap.Error(err))
			} else {
				h.Set(HeaderContentEncoding, enc)
				body = packet
			}
		}
	}

	h.Set(HeaderContentLength, strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

func (r *Responder) fail(w http.ResponseWriter, req *http.Request, err error) {
	r.Logger().Warn("serialize response failed",
		zap.String("path", req.URL.Path),
		zap.Error(err))
	w.WriteHeader(http.StatusInternalServerError)
}

// acceptsEncoding 判断 Accept-Encoding 头是否接受 enc，q=0 视为拒绝。
// 显式列出的 enc 优先于通配符 *。
func acceptsEncoding(header, enc string) bool {
	wildcard := false
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		name = strings.TrimSpace(name)
		switch {
		case strings.EqualFold(name, enc):
			return qualityAccepted(params)
		case name == "*":
			wildcard = qualityAccepted(params)
		}
	}
	return wildcard
}

func qualityAccepted(params string) bool {
	for _, param := range strings.Split(params, ";") {
		if v, ok := strings.CutPrefix(strings.TrimSpace(param), "q="); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil && f == 0 {
				return false
			}
		}
	}
	return true
}
