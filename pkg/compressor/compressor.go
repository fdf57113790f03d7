// Package compressor 提供响应体的单次压缩/解压能力。
package compressor

// Compressor 抽象了“单次压缩/解压”能力。
type Compressor interface {
	// Encoding 返回对应的 HTTP Content-Encoding 名称，空字符串表示不压缩。
	Encoding() string

	// Compress 将 src 压缩到 dst。
	//
	// dst 可以传入一个可复用的缓冲区（长度可为 0），实现可选择复用其底层容量。
	Compress(dst, src []byte) (packet []byte, err error)

	// Decompress 将压缩数据 src 解压到 dst，src 必须是 Compress 的输出。
	Decompress(dst, src []byte) (plain []byte, err error)
}

// NopCompressor 不做任何压缩/解压，直接返回输入内容。
// 未开启压缩时作为默认值使用。
type NopCompressor struct{}

var _ Compressor = NopCompressor{}

func (NopCompressor) Encoding() string {
	return ""
}

func (NopCompressor) Compress(_ []byte, src []byte) ([]byte, error) {
	return src, nil
}

func (NopCompressor) Decompress(_ []byte, src []byte) ([]byte, error) {
	return src, nil
}
