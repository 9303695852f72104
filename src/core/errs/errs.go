package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类别,路由边界据此决定HTTP状态码
type Kind int

const (
	KindValidation Kind = iota + 1 // 请求缺少必填字段
	KindRateLimit                  // 超出限流窗口
	KindDecode                     // 图片字节无法解码
	KindUpstream                   // 补全/分类服务调用失败
	KindConfig                     // 启动期配置错误
)

// Error 带类别的错误,消息会原样进入HTTP错误信封
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation 缺少必填请求字段
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// RateLimit 请求被限流
func RateLimit(message string) *Error {
	return &Error{Kind: KindRateLimit, Message: message}
}

// Decode 图片解码失败,保留解码器的原始消息
func Decode(err error) *Error {
	return &Error{Kind: KindDecode, Err: err}
}

// Upstream 上游推理服务失败
func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// Config 启动期配置错误,进程不应开始服务
func Config(message string) *Error {
	return &Error{Kind: KindConfig, Message: message}
}

// KindOf 提取错误类别,未分类的错误一律按上游失败处理
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstream
}

// HTTPStatus 类别到HTTP状态码的唯一映射
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindRateLimit:
		return http.StatusTooManyRequests
	default:
		// Decode保持500,与原始行为一致
		return http.StatusInternalServerError
	}
}
