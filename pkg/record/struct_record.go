package record

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/lk2023060901/recjson/pkg/util/merr"
)

// StructTag 是 StructRecord 读取的结构体标签名。
//
//	type Book struct {
//	    ID      int64     `recjson:"id"`
//	    Title   string    `recjson:"title"`
//	    Secret  string    `recjson:"-"`
//	    Author  *Author   `recjson:"author,one"`
//	    Reviews []*Review `recjson:"reviews,many"`
//	}
const StructTag = "recjson"

const (
	optionOne  = "one"
	optionMany = "many"
)

type fieldKind int

const (
	scalarField fieldKind = iota
	oneRelation
	manyRelation
)

var recordType = reflect.TypeOf((*Record)(nil)).Elem()

type structField struct {
	name  string
	kind  fieldKind
	typ   reflect.Type
	index []int
}

// structPlan 缓存某个结构体类型的字段布局。
type structPlan struct {
	scalars []string
	byName  map[string]structField
}

// 以 reflect.Type 为键缓存 *structPlan。
var planCache sync.Map

// StructRecord 通过反射把一个结构体指针适配为 Record。
//
// 字段名取自 recjson 标签，未打标签的导出字段使用 Go 字段名；嵌入的结构体字段会被提升，
// 同名冲突时层级最浅者胜出，同层级时显式标签胜出，仍无法区分的字段被忽略。
type StructRecord struct {
	plan *structPlan
	v    reflect.Value
}

var _ Record = (*StructRecord)(nil)

// NewStructRecord 为 ptr 创建 StructRecord，ptr 必须是指向结构体的非空指针。
func NewStructRecord(ptr any) (*StructRecord, error) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, merr.WrapErrParameterInvalid("non-nil pointer to struct", fmt.Sprintf("%T", ptr))
	}
	return newStructRecord(rv)
}

// MustStructRecord 与 NewStructRecord 相同，但在出错时 panic，适合在初始化代码中使用。
func MustStructRecord(ptr any) *StructRecord {
	r, err := NewStructRecord(ptr)
	if err != nil {
		panic(err)
	}
	return r
}

func newStructRecord(ptr reflect.Value) (*StructRecord, error) {
	plan, err := planFor(ptr.Type().Elem())
	if err != nil {
		return nil, err
	}
	return &StructRecord{plan: plan, v: ptr.Elem()}, nil
}

// Value 返回被包装的结构体指针。
func (r *StructRecord) Value() any {
	return r.v.Addr().Interface()
}

func (r *StructRecord) Fields() []string {
	return slices.Clone(r.plan.scalars)
}

func (r *StructRecord) GetField(name string) (any, error) {
	f, ok := r.plan.byName[name]
	if !ok || f.kind != scalarField {
		return nil, merr.WrapErrFieldNotFound(name)
	}
	return r.v.FieldByIndex(f.index).Interface(), nil
}

func (r *StructRecord) SetField(name string, value any) error {
	f, ok := r.plan.byName[name]
	if !ok || f.kind != scalarField {
		return merr.WrapErrFieldNotFound(name)
	}
	return assign(name, r.v.FieldByIndex(f.index), value)
}

func (r *StructRecord) HasRelationOne(name string) bool {
	f, ok := r.plan.byName[name]
	return ok && f.kind == oneRelation
}

func (r *StructRecord) RelationOne(name string) (Record, error) {
	f, ok := r.plan.byName[name]
	if !ok || f.kind != oneRelation {
		return nil, merr.WrapErrRelationNotFound(name)
	}
	return toRecord(name, r.v.FieldByIndex(f.index))
}

func (r *StructRecord) HasRelationMany(name string) bool {
	f, ok := r.plan.byName[name]
	return ok && f.kind == manyRelation
}

func (r *StructRecord) RelationMany(name string) ([]Record, error) {
	f, ok := r.plan.byName[name]
	if !ok || f.kind != manyRelation {
		return nil, merr.WrapErrRelationNotFound(name)
	}
	list := r.v.FieldByIndex(f.index)
	out := make([]Record, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		rel, err := toRecord(name, list.Index(i))
		if err != nil {
			return nil, err
		}
		// nil 元素没有可输出的内容
		if rel != nil {
			out = append(out, rel)
		}
	}
	return out, nil
}

func toRecord(name string, v reflect.Value) (Record, error) {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil, nil
		}
	}
	if v.Type().Implements(recordType) {
		return v.Interface().(Record), nil
	}
	if v.Kind() == reflect.Interface {
		return toRecord(name, v.Elem())
	}
	if v.Kind() == reflect.Struct {
		if !v.CanAddr() {
			copied := reflect.New(v.Type())
			copied.Elem().Set(v)
			v = copied.Elem()
		}
		if v.Addr().Type().Implements(recordType) {
			return v.Addr().Interface().(Record), nil
		}
		return newStructRecord(v.Addr())
	}
	if v.Kind() == reflect.Pointer && v.Elem().Kind() == reflect.Struct {
		return newStructRecord(v)
	}
	return nil, merr.WrapErrFieldTypeMismatch(name, "record", v.Type())
}

func planFor(ty reflect.Type) (*structPlan, error) {
	if cached, ok := planCache.Load(ty); ok {
		return cached.(*structPlan), nil
	}

	fields := fieldsOf(ty)
	plan := &structPlan{byName: make(map[string]structField, len(fields))}
	for _, f := range fields {
		if f.kind != scalarField && !isRelationType(f.kind, f.typ) {
			return nil, merr.WrapErrFieldTypeMismatch(f.name, "struct, struct pointer or Record", f.typ,
				fmt.Sprintf("invalid relation in %s", ty))
		}
		if f.kind == scalarField {
			plan.scalars = append(plan.scalars, f.name)
		}
		plan.byName[f.name] = f
	}

	actual, _ := planCache.LoadOrStore(ty, plan)
	return actual.(*structPlan), nil
}

func isRelationType(kind fieldKind, ty reflect.Type) bool {
	if kind == manyRelation {
		if ty.Kind() != reflect.Slice && ty.Kind() != reflect.Array {
			return false
		}
		ty = ty.Elem()
	}
	switch {
	case ty.Implements(recordType), reflect.PointerTo(ty).Implements(recordType):
		return true
	case ty.Kind() == reflect.Interface:
		// 运行时才能确定具体类型
		return true
	case ty.Kind() == reflect.Struct:
		return true
	case ty.Kind() == reflect.Pointer && ty.Elem().Kind() == reflect.Struct:
		return true
	}
	return false
}

// fieldsOf 以广度优先顺序遍历 ty 及其嵌入结构体，返回可见字段。
func fieldsOf(ty reflect.Type) []structField {
	type queued struct {
		typ         reflect.Type
		parentIndex []int
	}

	type candidate struct {
		explicit bool
		field    structField
	}

	queue := []queued{{typ: ty}}
	candidates := map[string][]candidate{}
	var order []string

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		for idx := 0; idx < item.typ.NumField(); idx++ {
			fi := item.typ.Field(idx)
			name, kind, explicit := parseTag(fi)
			if name == "" {
				continue
			}
			// 未导出的嵌入结构体仍然提升其导出字段
			if !fi.IsExported() && (!fi.Anonymous || explicit) {
				continue
			}

			// 新分配 index，避免与兄弟字段共享底层数组
			parent := item.parentIndex
			index := append(parent[:len(parent):len(parent)], fi.Index...)

			if fi.Anonymous && !explicit {
				if fi.Type.Kind() == reflect.Struct {
					queue = append(queue, queued{fi.Type, index})
				}
				continue
			}

			if len(candidates[name]) == 0 {
				order = append(order, name)
			}
			candidates[name] = append(candidates[name], candidate{
				explicit: explicit,
				field: structField{
					name:  name,
					kind:  kind,
					typ:   fi.Type,
					index: index,
				},
			})
		}
	}

	var fields []structField
	for _, name := range order {
		cands := candidates[name]

		// 广度优先遍历保证 cands 按 index 长度升序排列，只保留最浅的一层
		depth := len(cands[0].field.index)
		visible := slices.DeleteFunc(slices.Clone(cands), func(c candidate) bool {
			return len(c.field.index) != depth
		})
		if len(visible) == 1 {
			fields = append(fields, visible[0].field)
			continue
		}

		explicit := slices.DeleteFunc(visible, func(c candidate) bool { return !c.explicit })
		if len(explicit) == 1 {
			fields = append(fields, explicit[0].field)
		}
		// 有歧义的字段直接忽略
	}
	return fields
}

func parseTag(fi reflect.StructField) (name string, kind fieldKind, explicit bool) {
	tag, ok := fi.Tag.Lookup(StructTag)
	if !ok || tag == "" {
		return fi.Name, scalarField, false
	}
	if tag == "-" {
		return "", scalarField, true
	}

	parts := strings.Split(tag, ",")
	name, explicit = parts[0], parts[0] != ""
	if name == "" {
		name = fi.Name
	}
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case optionOne:
			kind = oneRelation
		case optionMany:
			kind = manyRelation
		}
	}
	return name, kind, explicit
}

// assign 将 value 写入 dst，只允许可直接赋值或同为数值、字符串、布尔类的转换。
func assign(name string, dst reflect.Value, value any) error {
	if value == nil {
		dst.SetZero()
		return nil
	}

	src := reflect.ValueOf(value)
	if src.Type().AssignableTo(dst.Type()) {
		dst.Set(src)
		return nil
	}

	if dst.Kind() == reflect.Pointer {
		elem := reflect.New(dst.Type().Elem())
		if err := assign(name, elem.Elem(), value); err != nil {
			return err
		}
		dst.Set(elem)
		return nil
	}

	mismatch := merr.WrapErrFieldTypeMismatch(name, dst.Type(), src.Type())
	if dst.Kind() == reflect.Slice && src.Kind() == reflect.Slice {
		// 解码得到的 []any 逐个元素转换
		out := reflect.MakeSlice(dst.Type(), src.Len(), src.Len())
		for i := 0; i < src.Len(); i++ {
			if err := assign(name, out.Index(i), src.Index(i).Interface()); err != nil {
				return mismatch
			}
		}
		dst.Set(out)
		return nil
	}
	switch {
	case isNumeric(dst.Kind()) && isNumeric(src.Kind()):
		if !fitsNumeric(dst, src) {
			return mismatch
		}
	case dst.Kind() == reflect.String && src.Kind() == reflect.String,
		dst.Kind() == reflect.Bool && src.Kind() == reflect.Bool:
	default:
		return mismatch
	}
	dst.Set(src.Convert(dst.Type()))
	return nil
}

func isNumeric(kind reflect.Kind) bool {
	return isInt(kind) || isUint(kind) || kind == reflect.Float32 || kind == reflect.Float64
}

func isInt(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(kind reflect.Kind) bool {
	switch kind {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// fitsNumeric 判断 src 能否无损地转换为 dst 的类型。
func fitsNumeric(dst, src reflect.Value) bool {
	var f float64
	switch {
	case isInt(src.Kind()):
		i := src.Int()
		switch {
		case isInt(dst.Kind()):
			return !dst.OverflowInt(i)
		case isUint(dst.Kind()):
			return i >= 0 && !dst.OverflowUint(uint64(i))
		}
		f = float64(i)
	case isUint(src.Kind()):
		u := src.Uint()
		switch {
		case isInt(dst.Kind()):
			return u <= math.MaxInt64 && !dst.OverflowInt(int64(u))
		case isUint(dst.Kind()):
			return !dst.OverflowUint(u)
		}
		f = float64(u)
	default:
		f = src.Float()
		switch {
		case isInt(dst.Kind()):
			return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 && !dst.OverflowInt(int64(f))
		case isUint(dst.Kind()):
			return f == math.Trunc(f) && f >= 0 && f < math.MaxUint64 && !dst.OverflowUint(uint64(f))
		}
	}
	return !dst.OverflowFloat(f)
}
