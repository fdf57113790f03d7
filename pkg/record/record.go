// Package record 定义序列化器访问业务对象所需的最小能力接口。
//
// 序列化与反序列化只通过 Record 读取/写入字段、访问关联对象，
// 不依赖任何具体的模型或持久化实现。
package record

// Record 是被序列化对象的能力接口。
//
// 一个 Record 由三部分组成：
//   - 标量字段：Fields 给出有序的字段名，GetField/SetField 按名字读写；
//   - has-one 关联：HasRelationOne/RelationOne；
//   - has-many 关联：HasRelationMany/RelationMany。
type Record interface {
	// Fields 返回按声明顺序排列的全部标量字段名。
	Fields() []string

	// GetField 读取字段值，未声明的字段返回 merr.ErrFieldNotFound。
	GetField(name string) (any, error)

	// SetField 写入字段值。实现可以拒绝与字段声明类型不兼容的值。
	SetField(name string, value any) error

	// HasRelationOne 判断 name 是否为 has-one 关联。
	HasRelationOne(name string) bool

	// RelationOne 返回 has-one 关联的对象，返回 nil 表示没有关联对象。
	RelationOne(name string) (Record, error)

	// HasRelationMany 判断 name 是否为 has-many 关联。
	HasRelationMany(name string) bool

	// RelationMany 返回 has-many 关联的有序对象集合。
	RelationMany(name string) ([]Record, error)
}

// IsRelation 判断 name 是否为 rec 的任意一种关联。
func IsRelation(rec Record, name string) bool {
	return rec.HasRelationOne(name) || rec.HasRelationMany(name)
}
