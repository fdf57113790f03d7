package responder

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/recjson/pkg/codec"
	"github.com/lk2023060901/recjson/pkg/compressor"
	"github.com/lk2023060901/recjson/pkg/record"
	"github.com/lk2023060901/recjson/pkg/serializer"
	"github.com/lk2023060901/recjson/pkg/util/merr"
)

func TestSetContentType(t *testing.T) {
	h := http.Header{}
	SetContentType(h, codec.ContentTypeJSON)
	assert.Equal(t, "application/json; charset=utf-8", h.Get(HeaderContentType))

	SetContentType(h, codec.ContentTypeMsgpack)
	assert.Equal(t, "application/msgpack", h.Get(HeaderContentType))

	SetContentType(h, "application/json; charset=latin1")
	assert.Equal(t, "application/json; charset=latin1", h.Get(HeaderContentType))
}

func TestAcceptsEncoding(t *testing.T) {
	cases := []struct {
		header string
		want   bool
	}{
		{"", false},
		{"gzip", false},
		{"gzip, zstd", true},
		{"ZSTD;q=0.5", true},
		{"zstd;q=0", false},
		{"*", true},
		{"br, gzip;q=0.8", false},
		{"*;q=0, zstd", true},
		{"zstd;q=0, *", false},
		{"gzip, *;q=0", false},
		{"gzip, *;q=0.1", true},
		{"zstd; level=3; q=0.0", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, acceptsEncoding(c.header, compressor.EncodingZstd), c.header)
	}
}

type ResponderSuite struct {
	suite.Suite

	zstd *compressor.ZstdCompressor
	book *record.MapRecord
}

func (s *ResponderSuite) SetupSuite() {
	var err error
	s.zstd, err = compressor.NewZstdCompressor()
	s.Require().NoError(err)
}

func (s *ResponderSuite) TearDownSuite() {
	s.zstd.Close()
}

func (s *ResponderSuite) SetupTest() {
	author := record.NewMapRecord("name").Set("name", "Ann")
	s.book = record.NewMapRecord("id", "title").Set("id", 1).Set("title", "Go").WithOne("author", author)
}

func (s *ResponderSuite) TestRecordWithSelection() {
	r := New(serializer.New(serializer.WithMetrics(false)))
	req := httptest.NewRequest(http.MethodGet, "/books/1?fields=title&include=author", nil)
	rec := httptest.NewRecorder()

	s.Require().NoError(r.Record(rec, req, s.book))
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("application/json; charset=utf-8", rec.Header().Get(HeaderContentType))
	s.Equal(`{"title":"Go","author":{"name":"Ann"}}`, rec.Body.String())
	s.Empty(rec.Header().Get(HeaderContentEncoding))
}

func (s *ResponderSuite) TestRecords() {
	r := New(serializer.New(serializer.WithMetrics(false)))
	req := httptest.NewRequest(http.MethodGet, "/books?fields=id", nil)
	rec := httptest.NewRecorder()

	other := record.NewMapRecord("id").Set("id", 2)
	s.Require().NoError(r.Records(rec, req, []record.Record{s.book, other}))
	s.Equal(`[{"id":1},{"id":2}]`, rec.Body.String())
}

func (s *ResponderSuite) TestEncodeFailureWritesNoBody() {
	r := New(serializer.New(serializer.WithMetrics(false)))
	req := httptest.NewRequest(http.MethodGet, "/books/1", nil)
	rec := httptest.NewRecorder()

	bad := record.NewMapRecord("v").Set("v", math.NaN())
	err := r.Record(rec, req, bad)
	s.ErrorIs(err, merr.ErrEncodeFailed)
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.Zero(rec.Body.Len())
}

func (s *ResponderSuite) TestZstdNegotiation() {
	r := New(serializer.New(serializer.WithMetrics(false)),
		WithCompressor(s.zstd),
		WithMinCompressSize(16))

	long := strings.Repeat("recjson ", 64)
	s.book.Set("title", long)

	req := httptest.NewRequest(http.MethodGet, "/books/1?fields=title", nil)
	req.Header.Set(HeaderAcceptEncoding, "gzip, zstd")
	rec := httptest.NewRecorder()
	s.Require().NoError(r.Record(rec, req, s.book))

	s.Equal(compressor.EncodingZstd, rec.Header().Get(HeaderContentEncoding))
	s.Equal(HeaderAcceptEncoding, rec.Header().Get(HeaderVary))
	plain, err := s.zstd.Decompress(nil, rec.Body.Bytes())
	s.Require().NoError(err)
	s.Equal(`{"title":"`+long+`"}`, string(plain))

	// 客户端不支持 zstd
	req = httptest.NewRequest(http.MethodGet, "/books/1?fields=title", nil)
	rec = httptest.NewRecorder()
	s.Require().NoError(r.Record(rec, req, s.book))
	s.Empty(rec.Header().Get(HeaderContentEncoding))
	s.Equal(`{"title":"`+long+`"}`, rec.Body.String())
}

func (s *ResponderSuite) TestSmallBodyNotCompressed() {
	r := New(serializer.New(serializer.WithMetrics(false)), WithCompressor(s.zstd))
	req := httptest.NewRequest(http.MethodGet, "/books/1?fields=id", nil)
	req.Header.Set(HeaderAcceptEncoding, "zstd")
	rec := httptest.NewRecorder()

	s.Require().NoError(r.Record(rec, req, s.book))
	s.Empty(rec.Header().Get(HeaderContentEncoding))
	s.Equal(`{"id":1}`, rec.Body.String())
	s.Equal("8", rec.Header().Get(HeaderContentLength))
}

func (s *ResponderSuite) TestMsgpackContentType() {
	r := New(serializer.New(serializer.WithCodec(codec.Msgpack{}), serializer.WithMetrics(false)))
	req := httptest.NewRequest(http.MethodGet, "/books/1", nil)
	rec := httptest.NewRecorder()

	require.NoError(s.T(), r.Record(rec, req, s.book))
	s.Equal(codec.ContentTypeMsgpack, rec.Header().Get(HeaderContentType))

	doc, err := codec.Msgpack{}.DecodeObject(rec.Body.Bytes())
	s.Require().NoError(err)
	s.Equal([]string{"id", "title"}, doc.Keys())
}

func TestResponder(t *testing.T) {
	suite.Run(t, new(ResponderSuite))
}
