// Package outcome 提供业务结果类型Outcome[T]
//
// 设计说明：
// 1. 预期内的业务失败（图书不存在、库存不足、非法状态流转）是"值"，不是异常
// 2. 基础设施故障（数据库断开、网络错误）仍通过error返回，二者不混用
// 3. 调用方通过Handle同时处理成功、失败两个分支
//
// 典型签名：
//
//	func (uc *CreateOrderUseCase) Execute(ctx, req) (outcome.Outcome[uint], error)
package outcome

import (
	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
)

// Outcome 成功值或失败原因，二选一
type Outcome[T any] struct {
	value   T
	ok      bool
	code    int
	message string
}

// Success 成功分支
func Success[T any](value T) Outcome[T] {
	return Outcome[T]{value: value, ok: true}
}

// Failure 失败分支
// code沿用pkg/errors中的业务错误码，HTTP层据此选择状态码
func Failure[T any](code int, message string) Outcome[T] {
	return Outcome[T]{code: code, message: message}
}

// FromError 业务错误 → 失败分支
func FromError[T any](err *apperrors.AppError) Outcome[T] {
	return Failure[T](err.Code, err.Message)
}

// IsSuccess 是否成功
func (o Outcome[T]) IsSuccess() bool {
	return o.ok
}

// Value 成功值（失败时为零值）
func (o Outcome[T]) Value() T {
	return o.value
}

// Code 失败错误码（成功时为0）
func (o Outcome[T]) Code() int {
	return o.code
}

// Message 失败原因（成功时为空）
func (o Outcome[T]) Message() string {
	return o.message
}

// Err 失败分支转换为AppError，成功时返回nil
func (o Outcome[T]) Err() *apperrors.AppError {
	if o.ok {
		return nil
	}
	return apperrors.New(o.code, o.message)
}

// Handle 分支处理，两个分支都必须提供
// Go的方法不能声明类型参数，所以R只能放在包级函数上
func Handle[T, R any](o Outcome[T], onSuccess func(T) R, onFailure func(code int, message string) R) R {
	if o.ok {
		return onSuccess(o.value)
	}
	return onFailure(o.code, o.message)
}
