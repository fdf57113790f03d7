package formatter

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/lk2023060901/recjson/internal/json"
	"github.com/lk2023060901/recjson/pkg/metrics"
	"github.com/lk2023060901/recjson/pkg/util/merr"
)

type PrettySuite struct {
	suite.Suite
}

func (s *PrettySuite) TestNested() {
	out, err := Pretty(`{"a":1,"b":[1,2]}`)
	s.Require().NoError(err)
	s.Equal("{\n  \"a\": 1,\n  \"b\": [\n    1,\n    2\n  ]\n}", out)
}

func (s *PrettySuite) TestDeepNesting() {
	out, err := Pretty(`{"x":{"y":{"z":[true,null]}}}`)
	s.Require().NoError(err)
	s.Equal(strings.Join([]string{
		`{`,
		`  "x": {`,
		`    "y": {`,
		`      "z": [`,
		`        true,`,
		`        null`,
		`      ]`,
		`    }`,
		`  }`,
		`}`,
	}, "\n"), out)
}

func (s *PrettySuite) TestEscapedQuoteStaysInString() {
	out, err := Pretty(`{"s":"a\"b,{c}:[d]"}`)
	s.Require().NoError(err)
	s.Equal("{\n  \"s\": \"a\\\"b,{c}:[d]\"\n}", out)
}

func (s *PrettySuite) TestTrailingBackslashClosesString() {
	out, err := Pretty(`{"s":"a\\","t":1}`)
	s.Require().NoError(err)
	s.Equal("{\n  \"s\": \"a\\\\\",\n  \"t\": 1\n}", out)
}

func (s *PrettySuite) TestEmptyContainers() {
	out, err := Pretty(`{}`)
	s.Require().NoError(err)
	s.Equal("{\n  \n}", out)

	out, err = Pretty(`[]`)
	s.Require().NoError(err)
	s.Equal("[\n  \n]", out)
}

func (s *PrettySuite) TestKeepsKeyOrder() {
	out, err := Pretty(`{"b":1,"a":2}`)
	s.Require().NoError(err)
	s.Equal("{\n  \"b\": 1,\n  \"a\": 2\n}", out)
}

func (s *PrettySuite) TestCanonicalizesWhitespace() {
	out, err := Pretty(" { \"a\" :\t[ 1 , 2 ] }\n")
	s.Require().NoError(err)
	s.Equal("{\n  \"a\": [\n    1,\n    2\n  ]\n}", out)
}

func (s *PrettySuite) TestScalar() {
	out, err := Pretty(`"x"`)
	s.Require().NoError(err)
	s.Equal(`"x"`, out)
}

func (s *PrettySuite) TestRejectsMalformed() {
	for _, in := range []string{``, `{`, `{"a":1,}`, `not valid text`, `{"a":1}{}`} {
		_, err := Pretty(in)
		s.ErrorIs(err, merr.ErrDecodeFailed, in)
	}
}

func (s *PrettySuite) TestRoundTrip() {
	inputs := []string{
		`{"a":1,"b":[1,2]}`,
		`{"s":"a\"b","n":null,"f":-1.5e3,"t":true}`,
		`[{"k":"v,w"},{"k":"{x}"},[]]`,
		`{"u":"\u00e9\u4e2d","e":{}}`,
		`{"path":"c:\\dir\\","q":"\"\""}`,
	}
	for _, in := range inputs {
		out, err := Pretty(in)
		s.Require().NoError(err, in)

		var want, got any
		s.Require().NoError(json.Unmarshal([]byte(in), &want))
		s.Require().NoError(json.Unmarshal([]byte(out), &got), out)
		s.Equal(want, got, in)
	}
}

func TestPretty(t *testing.T) {
	suite.Run(t, new(PrettySuite))
}

func TestCanonicalize(t *testing.T) {
	out, err := Canonicalize([]byte(` {"b" : "\u0041", "a":[ 1 ,2.50 ]} `))
	require.NoError(t, err)
	assert.Equal(t, `{"b":"A","a":[1,2.50]}`, string(out))

	_, err = Canonicalize([]byte(`{`))
	assert.ErrorIs(t, err, merr.ErrDecodeFailed)
}

func TestPrettyBytes(t *testing.T) {
	out, err := PrettyBytes([]byte(`[1]`))
	require.NoError(t, err)
	assert.Equal(t, "[\n  1\n]", string(out))
}

func TestPrettyBytesMetrics(t *testing.T) {
	success := metrics.FormatterOperations.WithLabelValues(metrics.SuccessLabel)
	fail := metrics.FormatterOperations.WithLabelValues(metrics.FailLabel)
	okBefore, failBefore := testutil.ToFloat64(success), testutil.ToFloat64(fail)

	out, err := Reformat([]byte(`[1]`))
	require.NoError(t, err)
	assert.Equal(t, "[\n  1\n]", string(out))
	_, err = Reformat([]byte(`[`))
	assert.ErrorIs(t, err, merr.ErrDecodeFailed)
	assert.Equal(t, okBefore, testutil.ToFloat64(success))
	assert.Equal(t, failBefore, testutil.ToFloat64(fail))

	_, err = PrettyBytes([]byte(`[1]`))
	require.NoError(t, err)
	_, err = PrettyBytes([]byte(`[`))
	require.Error(t, err)
	assert.Equal(t, okBefore+1, testutil.ToFloat64(success))
	assert.Equal(t, failBefore+1, testutil.ToFloat64(fail))
}
