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
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Code 返回给定错误对应的错误码，nil 返回 0。
func Code(err error) int32 {
	if err == nil {
		return 0
	}

	cause := errors.Cause(err)
	switch specificErr := cause.(type) {
	case codecError:
		return specificErr.code()

	default:
		if errors.Is(specificErr, context.Canceled) {
			return CanceledCode
		} else if errors.Is(specificErr, context.DeadlineExceeded) {
			return TimeoutCode
		} else {
			return errUnexpected.code()
		}
	}
}

func IsRetryableErr(err error) bool {
	if err, ok := errors.Cause(err).(codecError); ok {
		return err.retriable
	}

	return false
}

// IsInputError 判断错误是否由调用方输入引起（例如非法文本、字段类型不匹配）。
func IsInputError(err error) bool {
	if err, ok := errors.Cause(err).(codecError); ok {
		return err.errType == InputError
	}
	return false
}

func IsCanceledOrTimeout(err error) bool {
	return errors.IsAny(err, context.Canceled, context.DeadlineExceeded)
}

// Codec 相关错误封装。
func WrapErrEncodeFailed(cause error, msg ...string) error {
	var err error = ErrEncodeFailed
	if cause != nil {
		err = wrapFieldsWithDesc(ErrEncodeFailed, cause.Error())
	}
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrEncodeFailedAt(path string, reason string) error {
	return wrapFieldsWithDesc(ErrEncodeFailed, reason, value("path", path))
}

func WrapErrDecodeFailed(cause error, msg ...string) error {
	var err error = ErrDecodeFailed
	if cause != nil {
		err = wrapFieldsWithDesc(ErrDecodeFailed, cause.Error())
	}
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrCodecNotFound(name string, msg ...string) error {
	err := wrapFields(ErrCodecNotFound, value("codec", name))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Field 相关错误封装。
func WrapErrFieldNotFound[T any](field T, msg ...string) error {
	err := wrapFields(ErrFieldNotFound, value("field", field))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrFieldTypeMismatch(field string, expected, actual any, msg ...string) error {
	err := wrapFields(ErrFieldTypeMismatch,
		value("field", field),
		value("expected", expected),
		value("actual", actual),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// WrapErrFieldRejected 标记 field 的赋值被记录拒绝，cause 为记录返回的原始错误。
// 返回的错误同时满足 errors.Is(err, ErrFieldRejected) 与 errors.Is(err, cause)。
func WrapErrFieldRejected(field string, cause error) error {
	if cause == nil {
		return nil
	}
	return Combine(wrapFields(ErrFieldRejected, value("field", field)), cause)
}

// Relation 相关错误封装。
func WrapErrRelationNotFound(relation string, msg ...string) error {
	err := wrapFields(ErrRelationNotFound, value("relation", relation))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrRelationFetchFailed(relation string, cause error) error {
	if cause == nil {
		return nil
	}
	return wrapFieldsWithDesc(ErrRelationFetchFailed, cause.Error(), value("relation", relation))
}

// Parameter 相关错误封装。
func WrapErrParameterInvalid[T any](expected, actual T, msg ...string) error {
	err := wrapFields(ErrParameterInvalid,
		value("expected", expected),
		value("actual", actual),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrParameterInvalidMsg(fmt string, args ...any) error {
	return errors.Wrapf(ErrParameterInvalid, fmt, args...)
}

// Compression 相关错误封装。
func WrapErrCompressFailed(algorithm string, cause error) error {
	if cause == nil {
		return nil
	}
	return wrapFieldsWithDesc(ErrCompressFailed, cause.Error(), value("algorithm", algorithm))
}

func wrapFields(err codecError, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	return err
}

func wrapFieldsWithDesc(err codecError, desc string, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.msg += ": " + desc
	return err
}

type errorField interface {
	String() string
}

type valueField struct {
	name  string
	value any
}

func value(name string, value any) valueField {
	return valueField{
		name,
		value,
	}
}

func (f valueField) String() string {
	return fmt.Sprintf("%s=%v", f.name, f.value)
}
