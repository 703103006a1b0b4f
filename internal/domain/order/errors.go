package order

import (
	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "订单状态不允许此操作")

	// ErrStatusRequired 状态为空
	ErrStatusRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "订单状态不能为空")

	// ErrUnknownStatus 未知状态
	ErrUnknownStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "未知的订单状态")

	// ErrInvalidOrderItems 订单明细不合法
	ErrInvalidOrderItems = apperrors.New(apperrors.ErrCodeInvalidParams, "订单明细不能为空")

	// ErrInvalidQuantity 购买数量不合法
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "购买数量必须大于0")

	// ErrInvalidRecipient 收件人信息不合法
	ErrInvalidRecipient = apperrors.New(apperrors.ErrCodeInvalidParams, "收件人信息不合法")
)
