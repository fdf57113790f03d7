package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/lk2023060901/recjson/pkg/document"
	"github.com/lk2023060901/recjson/pkg/util/merr"
)

func TestLookup(t *testing.T) {
	c, err := Lookup("json")
	require.NoError(t, err)
	assert.Equal(t, NameJSON, c.Name())
	assert.Equal(t, ContentTypeJSON, c.ContentType())

	c, err = Lookup(" MsgPack ")
	require.NoError(t, err)
	assert.Equal(t, NameMsgpack, c.Name())
	assert.Equal(t, ContentTypeMsgpack, c.ContentType())

	_, err = Lookup("xml")
	assert.ErrorIs(t, err, merr.ErrCodecNotFound)

	assert.Equal(t, NameJSON, Default().Name())
}

type CodecSuite struct {
	suite.Suite
	codec Codec
}

func (s *CodecSuite) sample() *document.Document {
	inner := document.New(1)
	inner.Set("name", "Ann")
	d := document.New(4)
	d.Set("z", int64(1))
	d.Set("a", "two")
	d.Set("author", inner)
	d.Set("tags", []any{"x", "y"})
	return d
}

func (s *CodecSuite) TestRoundTripKeepsOrder() {
	data, err := s.codec.Marshal(s.sample())
	s.Require().NoError(err)

	doc, err := s.codec.DecodeObject(data)
	s.Require().NoError(err)
	s.Equal([]string{"z", "a", "author", "tags"}, doc.Keys())

	author, ok := doc.Get("author")
	s.Require().True(ok)
	s.Equal([]string{"name"}, author.(*document.Document).Keys())

	s.Equal(map[string]any{
		"z":      int64(1),
		"a":      "two",
		"author": map[string]any{"name": "Ann"},
		"tags":   []any{"x", "y"},
	}, document.Normalize(doc))
}

func (s *CodecSuite) TestUnmarshal() {
	data, err := s.codec.Marshal(map[string]any{"k": "v"})
	s.Require().NoError(err)

	var out map[string]string
	s.Require().NoError(s.codec.Unmarshal(data, &out))
	s.Equal(map[string]string{"k": "v"}, out)
}

func (s *CodecSuite) TestMarshalFailure() {
	_, err := s.codec.Marshal(make(chan int))
	s.ErrorIs(err, merr.ErrEncodeFailed)
}

func (s *CodecSuite) TestDecodeObjectRejectsNonObject() {
	data, err := s.codec.Marshal([]any{"a", "b"})
	s.Require().NoError(err)
	_, err = s.codec.DecodeObject(data)
	s.ErrorIs(err, merr.ErrDecodeFailed)

	_, err = s.codec.DecodeObject(nil)
	s.ErrorIs(err, merr.ErrDecodeFailed)
}

func TestJSONCodec(t *testing.T) {
	suite.Run(t, &CodecSuite{codec: JSON{}})
}

func TestMsgpackCodec(t *testing.T) {
	suite.Run(t, &CodecSuite{codec: Msgpack{}})
}

func TestJSONDecodeObjectMalformed(t *testing.T) {
	_, err := JSON{}.DecodeObject([]byte(`{"a":`))
	assert.ErrorIs(t, err, merr.ErrDecodeFailed)

	err = JSON{}.Unmarshal([]byte(`{`), &map[string]any{})
	assert.ErrorIs(t, err, merr.ErrDecodeFailed)
}

func TestMsgpackDecodeObjectTrailingData(t *testing.T) {
	data, err := msgpack.Marshal(map[string]any{"a": int64(1)})
	require.NoError(t, err)
	data = append(data, 0x01)

	_, err = Msgpack{}.DecodeObject(data)
	assert.ErrorIs(t, err, merr.ErrDecodeFailed)
}

func TestMsgpackDecodeObjectNonStringKey(t *testing.T) {
	data, err := msgpack.Marshal(map[int]string{1: "a"})
	require.NoError(t, err)

	_, err = Msgpack{}.DecodeObject(data)
	assert.ErrorIs(t, err, merr.ErrDecodeFailed)
}

func TestMsgpackWidensNumbers(t *testing.T) {
	data, err := msgpack.Marshal(map[string]any{
		"i8":  int8(-3),
		"u16": uint16(300),
		"u64": uint64(math.MaxUint64),
		"f32": float32(1.5),
	})
	require.NoError(t, err)

	doc, err := Msgpack{}.DecodeObject(data)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"i8":  int64(-3),
		"u16": int64(300),
		"u64": uint64(math.MaxUint64),
		"f32": float64(1.5),
	}, doc.ToMap())
}
