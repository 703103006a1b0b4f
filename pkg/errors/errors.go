package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型，同时决定HTTP状态码（见HTTPStatus）
// 2. Message是用户友好的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户友好的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）

	base *AppError // 派生来源（WithMessage）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 让派生错误仍能匹配预定义错误
// errors.Is(ErrInsufficientStock.WithMessage("..."), ErrInsufficientStock) == true
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.base != nil && e.base == t
}

// WithMessage 基于预定义错误派生一个带具体描述的错误
// 例如：ErrInsufficientStock.WithMessage("《Go语言实战》库存不足")
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{Code: e.Code, Message: message, base: e}
}

// WithCause 基于预定义错误派生，并附带底层错误（仅用于日志）
func (e *AppError) WithCause(err error) *AppError {
	return &AppError{Code: e.Code, Message: e.Message, Err: err, base: e}
}

// HTTPStatus 错误码 → HTTP状态码
// 规则：取错误码前三位（40401 → 404），无法识别的一律500
func (e *AppError) HTTPStatus() int {
	status := e.Code / 100
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
		http.StatusNotFound, http.StatusConflict, http.StatusTooManyRequests:
		return status
	default:
		return http.StatusInternalServerError
	}
}

// IsBusiness 是否为业务错误（4xxxx）
// 业务错误是预期内的失败，不属于系统故障
func (e *AppError) IsBusiness() bool {
	return e.Code >= 40000 && e.Code < 50000
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：错误码前三位即HTTP状态码
// - 400xx: 参数错误、业务规则校验失败
// - 401xx/403xx: 认证授权
// - 404xx: 资源不存在
// - 409xx: 并发冲突（可重试）
// - 500xx: 服务端错误

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误

	// 认证授权错误
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 密码错误
	ErrCodeForbidden       = 40300 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound       = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound   = 40401 // 用户不存在
	ErrCodeBookNotFound   = 40402 // 图书不存在
	ErrCodeOrderNotFound  = 40403 // 订单不存在
	ErrCodeAuthorNotFound = 40404 // 作者不存在

	// 业务规则错误（40000-40099）
	ErrCodeBusinessError      = 40000 // 业务错误(通用)
	ErrCodeInsufficientStock  = 40001 // 库存不足
	ErrCodeInvalidOrderStatus = 40002 // 订单状态非法
	ErrCodeWeakPassword       = 40005 // 密码强度不足

	// 参数错误（40010-40099）
	ErrCodeInvalidParams = 40010 // 参数错误
	ErrCodeBindError     = 40011 // 参数绑定失败

	// 冲突（40900-40999）
	ErrCodeConflict       = 40900 // 并发冲突，可重试
	ErrCodeDuplicateEntry = 40901 // 重复记录(通用)
	ErrCodeEmailDuplicate = 40902 // 邮箱已存在

	// 限流
	ErrCodeTooManyRequests = 42900
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	// 认证授权
	ErrUnauthorized    = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "邮箱或密码错误")
	ErrForbidden       = New(ErrCodeForbidden, "无权限访问")

	// 资源不存在
	ErrUserNotFound = New(ErrCodeUserNotFound, "用户不存在")

	// 业务规则
	ErrEmailDuplicate = New(ErrCodeEmailDuplicate, "邮箱已被注册")
	ErrWeakPassword   = New(ErrCodeWeakPassword, "密码强度不足（需8-20位，包含字母和数字）")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")

	// 冲突与限流
	ErrConflict        = New(ErrCodeConflict, "资源被占用，请稍后重试")
	ErrTooManyRequests = New(ErrCodeTooManyRequests, "请求过于频繁")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}

// AsBusiness 提取业务错误
// 第二个返回值为false表示err是基础设施错误（或nil），应继续向上传播
func AsBusiness(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.IsBusiness() {
		return appErr, true
	}
	return nil, false
}
