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
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

const (
	CanceledCode int32 = 10000
	TimeoutCode  int32 = 10001
)

type ErrorType int32

const (
	SystemError ErrorType = 0
	InputError  ErrorType = 1
)

var ErrorTypeName = map[ErrorType]string{
	SystemError: "system_error",
	InputError:  "input_error",
}

func (err ErrorType) String() string {
	return ErrorTypeName[err]
}

// 叶子错误统一在此定义。
// 新增错误前请先确认下面已有的错误是否能够复用。
// 命名规则：Err + 相关前缀 + 错误名
var (
	// Codec 相关
	ErrEncodeFailed  = newCodecError("encode failed", 100, false, InputError)
	ErrDecodeFailed  = newCodecError("decode failed", 101, false, InputError)
	ErrCodecNotFound = newCodecError("codec not found", 102, false, InputError)

	// Field 相关
	ErrFieldNotFound     = newCodecError("field not found", 200, false, InputError)
	ErrFieldTypeMismatch = newCodecError("field type mismatch", 201, false, InputError)
	ErrFieldRejected     = newCodecError("field value rejected", 202, false, InputError)

	// Relation 相关
	ErrRelationNotFound    = newCodecError("relation not found", 300, false, InputError)
	ErrRelationFetchFailed = newCodecError("relation fetch failed", 301, true, SystemError)

	// Parameter 相关
	ErrParameterInvalid = newCodecError("invalid parameter", 400, false, InputError)

	// Compression 相关
	ErrCompressFailed = newCodecError("compress failed", 500, false, SystemError)

	// 不对外导出，仅用于把未知错误转换为 codecError
	errUnexpected = newCodecError("unexpected error", (1<<16)-1, false, SystemError)
)

// codecError 是带错误码的叶子错误，Is 按错误码比较，
// 因此附加了上下文字段的副本仍然与原始哨兵错误相等。
type codecError struct {
	msg       string
	retriable bool
	errCode   int32
	errType   ErrorType
}

func newCodecError(msg string, code int32, retriable bool, etype ErrorType) codecError {
	return codecError{
		msg:       msg,
		retriable: retriable,
		errCode:   code,
		errType:   etype,
	}
}

func (e codecError) code() int32 {
	return e.errCode
}

func (e codecError) Error() string {
	return e.msg
}

func (e codecError) Type() ErrorType {
	return e.errType
}

func (e codecError) Is(err error) bool {
	cause := errors.Cause(err)
	if cause, ok := cause.(codecError); ok {
		return e.errCode == cause.errCode
	}
	return false
}

type multiErrors struct {
	errs []error
}

func (e multiErrors) Unwrap() error {
	if len(e.errs) <= 1 {
		return nil
	}
	// 多错误的 cause 定义为最后一个错误，保证 Code 等函数对组合错误依然有效
	if len(e.errs) == 2 {
		return e.errs[1]
	}

	return multiErrors{
		errs: e.errs[1:],
	}
}

func (e multiErrors) Error() string {
	final := e.errs[0]
	for i := 1; i < len(e.errs); i++ {
		final = errors.Wrap(e.errs[i], final.Error())
	}
	return final.Error()
}

func (e multiErrors) Is(err error) bool {
	for _, item := range e.errs {
		if errors.Is(item, err) {
			return true
		}
	}
	return false
}

// Errors 返回组合错误中包含的全部错误；非组合错误返回只含自身的切片。
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	if me, ok := err.(multiErrors); ok {
		return me.errs
	}
	return []error{err}
}

// Combine 将多个错误合并为一个，nil 会被忽略；全部为 nil 时返回 nil。
func Combine(errs ...error) error {
	errs = lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(errs) == 0 {
		return nil
	}
	return multiErrors{
		errs,
	}
}
