package record

import (
	"github.com/samber/lo"

	"github.com/lk2023060901/recjson/pkg/util/merr"
)

// MapRecord 是完全位于内存中的 Record 实现，适用于测试、示例以及
// 由外部查询结果临时拼装出来的对象图。
//
// MapRecord 不做任何并发保护。
type MapRecord struct {
	fields []string
	values map[string]any
	one    map[string]Record
	many   map[string][]Record
}

var _ Record = (*MapRecord)(nil)

// NewMapRecord 创建一个声明了 fields（按给定顺序）的 MapRecord，字段初始值均为 nil。
func NewMapRecord(fields ...string) *MapRecord {
	r := &MapRecord{
		values: make(map[string]any, len(fields)),
		one:    make(map[string]Record),
		many:   make(map[string][]Record),
	}
	for _, f := range lo.Uniq(fields) {
		r.fields = append(r.fields, f)
		r.values[f] = nil
	}
	return r
}

// Set 为字段赋值并返回自身，便于链式构造；未声明的字段会被追加声明。
func (r *MapRecord) Set(name string, value any) *MapRecord {
	if _, ok := r.values[name]; !ok {
		r.fields = append(r.fields, name)
	}
	r.values[name] = value
	return r
}

// WithOne 声明一个 has-one 关联，rel 为 nil 表示没有关联对象。
func (r *MapRecord) WithOne(name string, rel Record) *MapRecord {
	r.one[name] = rel
	return r
}

// WithMany 声明一个 has-many 关联。
func (r *MapRecord) WithMany(name string, rels ...Record) *MapRecord {
	r.many[name] = append([]Record{}, rels...)
	return r
}

func (r *MapRecord) Fields() []string {
	return append([]string(nil), r.fields...)
}

func (r *MapRecord) GetField(name string) (any, error) {
	v, ok := r.values[name]
	if !ok {
		return nil, merr.WrapErrFieldNotFound(name)
	}
	return v, nil
}

// SetField 只允许写入已声明的字段，不做类型检查。
func (r *MapRecord) SetField(name string, value any) error {
	if _, ok := r.values[name]; !ok {
		return merr.WrapErrFieldNotFound(name)
	}
	r.values[name] = value
	return nil
}

func (r *MapRecord) HasRelationOne(name string) bool {
	_, ok := r.one[name]
	return ok
}

func (r *MapRecord) RelationOne(name string) (Record, error) {
	rel, ok := r.one[name]
	if !ok {
		return nil, merr.WrapErrRelationNotFound(name)
	}
	return rel, nil
}

func (r *MapRecord) HasRelationMany(name string) bool {
	_, ok := r.many[name]
	return ok
}

func (r *MapRecord) RelationMany(name string) ([]Record, error) {
	rels, ok := r.many[name]
	if !ok {
		return nil, merr.WrapErrRelationNotFound(name)
	}
	return append([]Record(nil), rels...), nil
}
