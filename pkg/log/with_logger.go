package log

import "go.uber.org/atomic"

var (
	_ WithLogger   = &Binder{}
	_ LoggerBinder = &Binder{}
)

// WithLogger 由持有组件本地 Logger 的类型实现。
type WithLogger interface {
	Logger() *MLogger
}

// LoggerBinder 由允许替换本地 Logger 的类型实现。
type LoggerBinder interface {
	SetLogger(logger *MLogger)
}

// Binder 嵌入到 Serializer、Responder 等组件中。
// 未绑定 Logger 时使用全局 Logger，并带上 SetComponent 设置的组件名。
type Binder struct {
	logger    atomic.Pointer[MLogger]
	component atomic.String
}

func (w *Binder) SetLogger(logger *MLogger) {
	w.logger.Store(logger)
}

// SetComponent 设置回退到全局 Logger 时附加的 component 字段。
func (w *Binder) SetComponent(name string) {
	w.component.Store(name)
}

func (w *Binder) Logger() *MLogger {
	if l := w.logger.Load(); l != nil {
		return l
	}
	if name := w.component.Load(); name != "" {
		return With(FieldComponent(name))
	}
	return With()
}
