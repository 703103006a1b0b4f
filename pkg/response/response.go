package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
	"github.com/xiebiao/bookstore-bos/pkg/logger"
)

// Response 统一响应结构
// 设计说明：
// 1. HTTP状态码表达错误大类（400/404/409/500），Code是更细的业务错误码
// 2. Message是用户友好的提示信息
// 3. Data是业务数据，成功时返回，失败时省略
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 200（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 201，Location指向新资源
func Created(c *gin.Context, location string, data interface{}) {
	if location != "" {
		c.Header("Location", location)
	}
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// NoContent 204
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	err := userService.Register(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
//
// 业务错误按错误码返回4xx；其余一律500，内部细节只写日志
func Error(c *gin.Context, err error) {
	log := logger.FromContext(c.Request.Context())

	if appErr, ok := apperrors.AsBusiness(err); ok {
		log.Debug("业务失败", zap.Int("code", appErr.Code), zap.String("message", appErr.Message))
		abort(c, appErr.HTTPStatus(), appErr.Code, appErr.Message)
		return
	}

	appErr := apperrors.GetAppError(err)
	log.Error("请求处理失败",
		zap.Int("code", appErr.Code),
		zap.String("message", appErr.Message),
		zap.Error(err),
	)
	abort(c, http.StatusInternalServerError, appErr.Code, "系统内部错误")
}

// ErrorWithCode 自定义错误码和消息，HTTP状态码由错误码推导
func ErrorWithCode(c *gin.Context, code int, message string) {
	status := apperrors.New(code, message).HTTPStatus()
	abort(c, status, code, message)
}

// ErrorWithDetails 业务错误附带明细（如逐字段的校验错误）
func ErrorWithDetails(c *gin.Context, appErr *apperrors.AppError, details interface{}) {
	logger.FromContext(c.Request.Context()).Debug("业务失败",
		zap.Int("code", appErr.Code), zap.String("message", appErr.Message))
	c.AbortWithStatusJSON(appErr.HTTPStatus(), Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Data:    details,
	})
}

func abort(c *gin.Context, status, code int, message string) {
	c.AbortWithStatusJSON(status, Response{
		Code:    code,
		Message: message,
	})
}

// =========================================
// 分页响应结构
// =========================================

// PageData 分页数据封装
type PageData struct {
	List       interface{} `json:"list"`        // 数据列表
	Total      int64       `json:"total"`       // 总记录数
	Page       int         `json:"page"`        // 当前页码
	PageSize   int         `json:"page_size"`   // 每页大小
	TotalPages int         `json:"total_pages"` // 总页数
}

// NewPageData 创建分页数据
func NewPageData(list interface{}, total int64, page, pageSize int) *PageData {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return &PageData{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	Success(c, NewPageData(list, total, page, pageSize))
}
