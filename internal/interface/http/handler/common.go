package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookstore-bos/internal/domain/book"
	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
	"github.com/xiebiao/bookstore-bos/pkg/outcome"
	"github.com/xiebiao/bookstore-bos/pkg/response"
)

// pathID 解析路径参数:id
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, apperrors.ErrInvalidParams.WithMessage("无效的ID: "+c.Param("id")))
		return 0, false
	}
	return uint(id), true
}

// bindError 参数绑定失败统一返回40011
func bindError(c *gin.Context, err error) {
	response.Error(c, apperrors.ErrBindError.WithMessage("参数格式错误: "+err.Error()))
}

// renderError 字段校验错误带上逐字段明细,其余交给response.Error
func renderError(c *gin.Context, err error) {
	var verrs book.ValidationErrors
	if errors.As(err, &verrs) {
		response.ErrorWithDetails(c, verrs.AppError(), verrs)
		return
	}
	response.Error(c, err)
}

// render 用例返回(Outcome, error)时的统一出口
// error是基础设施故障;Outcome失败按错误码选择HTTP状态码
func render[T any](c *gin.Context, o outcome.Outcome[T], err error, onSuccess func(T)) {
	if err != nil {
		response.Error(c, err)
		return
	}
	outcome.Handle(o,
		func(v T) struct{} {
			onSuccess(v)
			return struct{}{}
		},
		func(code int, message string) struct{} {
			response.ErrorWithCode(c, code, message)
			return struct{}{}
		},
	)
}
