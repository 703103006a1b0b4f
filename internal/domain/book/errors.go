package book

import (
	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrAuthorNotFound 作者不存在
	ErrAuthorNotFound = apperrors.New(apperrors.ErrCodeAuthorNotFound, "作者不存在")

	// ErrInsufficientStock 库存不足
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "库存不足")

	ErrInvalidTitle     = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空,且首尾不能有空格")
	ErrInvalidYear      = apperrors.New(apperrors.ErrCodeInvalidParams, "出版年份不能早于1900年")
	ErrInvalidPrice     = apperrors.New(apperrors.ErrCodeInvalidParams, "价格必须在1到1000之间,且最多两位小数")
	ErrInvalidAvailable = apperrors.New(apperrors.ErrCodeInvalidParams, "库存必须是1到10000之间的整数")
	ErrInvalidAuthors   = apperrors.New(apperrors.ErrCodeInvalidParams, "至少需要一位作者")
	ErrInvalidCoverURL  = apperrors.New(apperrors.ErrCodeInvalidParams, "封面地址必须是http(s) URL")
	ErrInvalidAuthor    = apperrors.New(apperrors.ErrCodeInvalidParams, "作者姓名不能为空")
)
