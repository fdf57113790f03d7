package serializer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/lk2023060901/recjson/pkg/codec"
	"github.com/lk2023060901/recjson/pkg/document"
	"github.com/lk2023060901/recjson/pkg/log"
	"github.com/lk2023060901/recjson/pkg/metrics"
	"github.com/lk2023060901/recjson/pkg/record"
	"github.com/lk2023060901/recjson/pkg/util/merr"
	"github.com/lk2023060901/recjson/pkg/util/typeutil"
)

// Apply 使用配置的编码格式解码 data，并把 allowed 中列出的键按文档顺序写入 rec。
//
// allowed 为空时允许 rec 的全部字段，不在允许列表中的键被静默跳过。
// 解码失败或顶层不是对象时返回 merr.ErrDecodeFailed，rec 保持不变。
// 某个字段被 rec 拒绝时继续处理其余键，最终返回所有被拒绝字段的组合错误
// （每项都满足 merr.ErrFieldRejected），已成功写入的字段保持写入后的值。
func (s *Serializer) Apply(ctx context.Context, rec record.Record, data []byte, allowed ...string) error {
	return s.apply(ctx, s.codec, rec, data, allowed)
}

// FromJSON 与 Apply 相同，但总是按 JSON 解码 text。
func (s *Serializer) FromJSON(ctx context.Context, rec record.Record, text string, allowed ...string) error {
	return s.apply(ctx, codec.JSON{}, rec, []byte(text), allowed)
}

func (s *Serializer) apply(ctx context.Context, c codec.Codec, rec record.Record, data []byte, allowed []string) (err error) {
	start := time.Now()
	defer func() {
		s.observe(metrics.OpApply, start, 0, err)
	}()

	if rec == nil {
		return merr.WrapErrParameterInvalidMsg("record is nil")
	}
	doc, err := c.DecodeObject(data)
	if err != nil {
		s.logger(ctx).Warn("decode document failed", log.FieldCodec(c.Name()), zap.Error(err))
		return err
	}

	if len(allowed) == 0 {
		allowed = rec.Fields()
	}
	permitted := typeutil.NewSet(allowed...)

	var (
		errs                        []error
		assigned, skipped, rejected int
	)
	doc.Range(func(key string, value any) bool {
		if !permitted.Contain(key) {
			skipped++
			return true
		}
		if err := rec.SetField(key, document.Normalize(value)); err != nil {
			rejected++
			errs = append(errs, merr.WrapErrFieldRejected(key, err))
			return true
		}
		assigned++
		return true
	})

	if s.metrics {
		metrics.DeserializerFields.WithLabelValues(metrics.FieldAssigned).Add(float64(assigned))
		metrics.DeserializerFields.WithLabelValues(metrics.FieldSkipped).Add(float64(skipped))
		metrics.DeserializerFields.WithLabelValues(metrics.FieldRejected).Add(float64(rejected))
	}
	if rejected > 0 {
		s.logger(ctx).Warn("some fields were rejected",
			zap.Int("assigned", assigned),
			zap.Int("rejected", rejected))
	}
	return merr.Combine(errs...)
}
