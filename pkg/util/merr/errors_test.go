// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package merr

import (
	"context"
	"strconv"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"
)

type ErrSuite struct {
	suite.Suite
}

func (s *ErrSuite) TestCode() {
	err := WrapErrFieldNotFound("title")
	err = errors.Wrap(err, "failed to read field")
	s.ErrorIs(err, ErrFieldNotFound)
	s.Equal(Code(ErrFieldNotFound), Code(err))
	s.Equal(TimeoutCode, Code(context.DeadlineExceeded))
	s.Equal(CanceledCode, Code(context.Canceled))
	s.Equal(errUnexpected.errCode, Code(errUnexpected))
	s.Equal(errUnexpected.errCode, Code(errors.New("plain")))
	s.Equal(int32(0), Code(nil))

	sameCodeErr := newCodecError("new error", ErrFieldNotFound.errCode, false, InputError)
	s.True(sameCodeErr.Is(ErrFieldNotFound))
}

func (s *ErrSuite) TestWrap() {
	// Codec 相关错误。
	s.ErrorIs(WrapErrEncodeFailed(errors.New("json: unsupported value: NaN")), ErrEncodeFailed)
	s.ErrorIs(WrapErrEncodeFailed(nil, "marshal document"), ErrEncodeFailed)
	s.ErrorIs(WrapErrEncodeFailedAt("author.name", "invalid UTF-8"), ErrEncodeFailed)
	s.ErrorIs(WrapErrDecodeFailed(errors.New("unexpected token")), ErrDecodeFailed)
	s.ErrorIs(WrapErrCodecNotFound("yaml"), ErrCodecNotFound)

	// Field 相关错误。
	s.ErrorIs(WrapErrFieldNotFound("meta", "failed to get field"), ErrFieldNotFound)
	s.ErrorIs(WrapErrFieldTypeMismatch("age", "int", "string"), ErrFieldTypeMismatch)

	// Relation 相关错误。
	s.ErrorIs(WrapErrRelationNotFound("author"), ErrRelationNotFound)
	s.ErrorIs(WrapErrRelationFetchFailed("books", errors.New("query failed")), ErrRelationFetchFailed)
	s.Nil(WrapErrRelationFetchFailed("books", nil))

	// Parameter 相关错误。
	s.ErrorIs(WrapErrParameterInvalid("object", "array", "decode"), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterInvalidMsg("bad include %q", "a//b"), ErrParameterInvalid)

	s.ErrorIs(WrapErrCompressFailed("zstd", errors.New("closed")), ErrCompressFailed)
}

func (s *ErrSuite) TestFieldRejected() {
	cause := WrapErrFieldTypeMismatch("age", "int", "string")
	err := WrapErrFieldRejected("age", cause)
	s.ErrorIs(err, ErrFieldRejected)
	s.ErrorIs(err, ErrFieldTypeMismatch)
	s.Equal("field value rejected[field=age]: field type mismatch[field=age][expected=int][actual=string]", err.Error())
	s.Nil(WrapErrFieldRejected("age", nil))
}

func (s *ErrSuite) TestMessageFields() {
	err := WrapErrFieldTypeMismatch("age", "int", "string")
	s.Equal("field type mismatch[field=age][expected=int][actual=string]", err.Error())

	err = WrapErrEncodeFailedAt("title", "invalid UTF-8")
	s.Equal("encode failed[path=title]: invalid UTF-8", err.Error())
}

func (s *ErrSuite) TestErrorType() {
	s.True(IsInputError(ErrDecodeFailed))
	s.True(IsInputError(WrapErrFieldNotFound("x")))
	s.False(IsInputError(ErrRelationFetchFailed))
	s.False(IsInputError(errors.New("plain")))
	s.Equal("input_error", InputError.String())
	s.Equal(SystemError, ErrCompressFailed.Type())
}

func (s *ErrSuite) TestRetryable() {
	s.True(IsRetryableErr(WrapErrRelationFetchFailed("books", errors.New("timeout"))))
	s.False(IsRetryableErr(ErrDecodeFailed))
	s.True(IsCanceledOrTimeout(errors.Wrap(context.Canceled, "stop")))
}

func (s *ErrSuite) TestCombine() {
	var (
		errFirst  = errors.New("first")
		errSecond = errors.New("second")
		errThird  = errors.New("third")
	)

	err := Combine(errFirst, errSecond)
	s.True(errors.Is(err, errFirst))
	s.True(errors.Is(err, errSecond))
	s.False(errors.Is(err, errThird))

	s.Equal("first: second", err.Error())
	s.Len(Errors(err), 2)
}

func (s *ErrSuite) TestCombineWithNil() {
	err := errors.New("non-nil")

	err = Combine(nil, err)
	s.NotNil(err)
	s.Len(Errors(err), 1)
}

func (s *ErrSuite) TestCombineOnlyNil() {
	err := Combine(nil, nil)
	s.Nil(err)
	s.Nil(Errors(nil))
}

func (s *ErrSuite) TestCombineCode() {
	errs := make([]error, 0, 3)
	for i := 0; i < 3; i++ {
		errs = append(errs, WrapErrFieldNotFound("f"+strconv.Itoa(i)))
	}
	errs = append(errs, WrapErrDecodeFailed(nil))
	err := Combine(errs...)
	s.Equal(Code(ErrDecodeFailed), Code(err))
	s.ErrorIs(err, ErrFieldNotFound)
}

func TestErrors(t *testing.T) {
	suite.Run(t, new(ErrSuite))
}
