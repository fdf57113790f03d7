// Package serializer 把 Record 对象图转换为有序文档并编码，
// 以及把扁平文档按允许的字段写回 Record。
package serializer

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/lk2023060901/recjson/pkg/codec"
	"github.com/lk2023060901/recjson/pkg/document"
	"github.com/lk2023060901/recjson/pkg/formatter"
	"github.com/lk2023060901/recjson/pkg/log"
	"github.com/lk2023060901/recjson/pkg/metrics"
	"github.com/lk2023060901/recjson/pkg/record"
	"github.com/lk2023060901/recjson/pkg/util/merr"
)

// Serializer 按 Selection 遍历 Record 及其关联对象。
//
// Serializer 创建后只读，可以被多个 goroutine 并发使用；
// 同一个 Record 的并发读写需要调用方自行协调。
type Serializer struct {
	log.Binder

	codec       codec.Codec
	prettyPrint bool
	metrics     bool
}

// New 创建 Serializer，默认使用 JSON 编码、不美化输出、上报指标。
func New(opts ...Option) *Serializer {
	s := &Serializer{
		codec:   codec.Default(),
		metrics: true,
	}
	s.SetComponent("serializer")
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Codec 返回当前使用的编码格式。
func (s *Serializer) Codec() codec.Codec {
	return s.codec
}

// PrettyPrint 返回是否美化 JSON 输出。
func (s *Serializer) PrettyPrint() bool {
	return s.prettyPrint
}

// BuildStructure 构建 rec 的有序文档，不做编码。
func (s *Serializer) BuildStructure(ctx context.Context, rec record.Record, sel record.Selection) (*document.Document, error) {
	start := time.Now()
	doc, err := s.buildRoot(ctx, rec, sel)
	s.observe(metrics.OpBuild, start, 0, err)
	return doc, err
}

// BuildStructureMany 对 recs 中的每个对象使用同一个 Selection 构建文档，
// 返回结果与输入等长且顺序一致；nil 元素对应 nil 文档。
func (s *Serializer) BuildStructureMany(ctx context.Context, recs []record.Record, sel record.Selection) ([]*document.Document, error) {
	start := time.Now()
	docs, err := s.buildMany(ctx, recs, sel)
	s.observe(metrics.OpBuildMany, start, 0, err)
	return docs, err
}

// Encode 构建 rec 的文档并使用配置的编码格式编码。
// 任何失败都返回错误且不返回部分输出。
func (s *Serializer) Encode(ctx context.Context, rec record.Record, sel record.Selection) ([]byte, error) {
	return s.encodeOne(ctx, s.codec, rec, sel)
}

// EncodeMany 构建 recs 的文档序列并一次性编码。
func (s *Serializer) EncodeMany(ctx context.Context, recs []record.Record, sel record.Selection) ([]byte, error) {
	return s.encodeMany(ctx, s.codec, recs, sel)
}

// ToJSON 与 Encode 相同，但总是输出 JSON 文本，与配置的编码格式无关。
func (s *Serializer) ToJSON(ctx context.Context, rec record.Record, sel record.Selection) (string, error) {
	data, err := s.encodeOne(ctx, codec.JSON{}, rec, sel)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// AllToJSON 与 EncodeMany 相同，但总是输出 JSON 文本。
func (s *Serializer) AllToJSON(ctx context.Context, recs []record.Record, sel record.Selection) (string, error) {
	data, err := s.encodeMany(ctx, codec.JSON{}, recs, sel)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Serializer) encodeOne(ctx context.Context, c codec.Codec, rec record.Record, sel record.Selection) ([]byte, error) {
	start := time.Now()
	doc, err := s.buildRoot(ctx, rec, sel)
	var data []byte
	if err == nil {
		data, err = s.encode(ctx, c, doc)
	}
	s.observe(metrics.OpEncode, start, len(data), err)
	return data, err
}

func (s *Serializer) encodeMany(ctx context.Context, c codec.Codec, recs []record.Record, sel record.Selection) ([]byte, error) {
	start := time.Now()
	docs, err := s.buildMany(ctx, recs, sel)
	var data []byte
	if err == nil {
		data, err = s.encode(ctx, c, docs)
	}
	s.observe(metrics.OpEncodeMany, start, len(data), err)
	return data, err
}

func (s *Serializer) buildRoot(ctx context.Context, rec record.Record, sel record.Selection) (*document.Document, error) {
	if rec == nil {
		return nil, merr.WrapErrParameterInvalidMsg("record is nil")
	}
	return s.build(ctx, rec, sel.Fields, sel.Include)
}

func (s *Serializer) buildMany(ctx context.Context, recs []record.Record, sel record.Selection) ([]*document.Document, error) {
	docs := make([]*document.Document, len(recs))
	for i, rec := range recs {
		if rec == nil {
			continue
		}
		doc, err := s.build(ctx, rec, sel.Fields, sel.Include)
		if err != nil {
			return nil, err
		}
		docs[i] = doc
	}
	return docs, nil
}

// build 是遍历的核心：
//  1. fields 为空时取 rec 的全部字段；
//  2. include 去重；
//  3. fields 中的关联名并入 include，其余字段按顺序输出；
//  4. 对 include 中的每个关联递归构建，深层路径去掉前缀后传给下一层。
func (s *Serializer) build(ctx context.Context, rec record.Record, fields, include []string) (*document.Document, error) {
	if len(fields) == 0 {
		fields = rec.Fields()
	}
	include = lo.Uniq(include)

	doc := document.New(len(fields) + len(include))
	for _, name := range fields {
		if record.IsRelation(rec, name) {
			if !lo.Contains(include, name) {
				include = append(include, name)
			}
			continue
		}
		value, err := rec.GetField(name)
		if err != nil {
			if !errors.Is(err, merr.ErrFieldNotFound) {
				return nil, err
			}
			// 未声明的字段按 null 输出
			value = nil
		}
		doc.Set(name, value)
	}

	for _, name := range include {
		switch {
		case rec.HasRelationOne(name):
			rel, err := rec.RelationOne(name)
			if err != nil {
				return nil, merr.WrapErrRelationFetchFailed(name, err)
			}
			if rel == nil {
				doc.Set(name, nil)
				continue
			}
			sub, err := s.build(ctx, rel, nil, deepIncludes(include, name))
			if err != nil {
				return nil, err
			}
			doc.Set(name, sub)
		case rec.HasRelationMany(name):
			rels, err := rec.RelationMany(name)
			if err != nil {
				return nil, merr.WrapErrRelationFetchFailed(name, err)
			}
			deep := deepIncludes(include, name)
			subs := make([]*document.Document, 0, len(rels))
			for _, rel := range rels {
				if rel == nil {
					continue
				}
				sub, err := s.build(ctx, rel, nil, deep)
				if err != nil {
					return nil, err
				}
				subs = append(subs, sub)
			}
			doc.Set(name, subs)
		default:
			s.logger(ctx).Debug("include is not a relation, ignored", zap.String("include", name))
		}
	}
	return doc, nil
}

// deepIncludes 返回 include 中以 relation + "/" 开头（大小写不敏感）的路径，并去掉该前缀。
func deepIncludes(include []string, relation string) []string {
	prefix := relation + record.PathSeparator
	var deep []string
	for _, path := range include {
		if path == relation || len(path) < len(prefix) {
			continue
		}
		if strings.EqualFold(path[:len(prefix)], prefix) {
			deep = append(deep, path[len(prefix):])
		}
	}
	return deep
}

func (s *Serializer) encode(ctx context.Context, c codec.Codec, v any) ([]byte, error) {
	isJSON := c.Name() == codec.NameJSON
	if err := checkEncodable(v, isJSON); err != nil {
		s.logger(ctx).Warn("document is not encodable", log.FieldCodec(c.Name()), zap.Error(err))
		return nil, err
	}
	data, err := c.Marshal(v)
	if err != nil {
		s.logger(ctx).Warn("encode document failed", log.FieldCodec(c.Name()), zap.Error(err))
		return nil, err
	}
	if s.prettyPrint && isJSON {
		pretty := formatter.Reformat
		if s.metrics {
			pretty = formatter.PrettyBytes
		}
		data, err = pretty(data)
		if err != nil {
			return nil, merr.WrapErrEncodeFailed(err, "pretty print")
		}
	}
	return data, nil
}

// logger 优先使用 ctx 上携带的 Logger，否则使用组件本地 Logger。
func (s *Serializer) logger(ctx context.Context) *log.MLogger {
	if ctx != nil {
		if l, ok := ctx.Value(log.CtxLogKey).(*log.MLogger); ok {
			return l
		}
	}
	return s.Logger()
}

func (s *Serializer) observe(op string, start time.Time, size int, err error) {
	if !s.metrics {
		return
	}
	status := metrics.SuccessLabel
	if err != nil {
		status = metrics.FailLabel
	}
	metrics.SerializerOperations.WithLabelValues(op, status).Inc()
	metrics.SerializerLatency.WithLabelValues(op).Observe(float64(time.Since(start).Microseconds()) / 1000)
	if size > 0 {
		metrics.SerializerDocumentBytes.WithLabelValues(op).Observe(float64(size))
	}
}
