package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误类别
type Kind string

const (
	KindValidation     Kind = "VALIDATION"
	KindDuplicateEmail Kind = "DUPLICATE_EMAIL"
	KindUnauthorized   Kind = "UNAUTHORIZED"
	KindNotFound       Kind = "NOT_FOUND"
	KindStorage        Kind = "STORAGE"
)

// Error 业务错误，Message 可直接返回给客户端
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation 参数校验失败
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// DuplicateEmail 邮箱已被注册
func DuplicateEmail() *Error {
	return &Error{Kind: KindDuplicateEmail, Message: "Email already in use"}
}

// Unauthorized 未登录或凭证无效
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// NotFound 资源不存在
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Storage 包装底层存储错误
func Storage(message string, err error) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}

// KindOf 返回错误类别，非 *Error 一律视为存储错误
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// Is 判断错误是否属于指定类别
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
