package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
	"github.com/xiebiao/bookstore-bos/pkg/logger"
	"github.com/xiebiao/bookstore-bos/pkg/response"
	"github.com/xiebiao/bookstore-bos/pkg/tracing"
)

// HeaderRequestID 请求ID头，客户端传入则沿用
const HeaderRequestID = "X-Request-ID"

// RequestLogger 访问日志
// 每个请求一个带request_id的logger，放进request context，下游用logger.FromContext取
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)

		fields := []zap.Field{zap.String("request_id", requestID)}
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		log := base.With(fields...)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), log))

		c.Next()

		status := c.Writer.Status()
		entry := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case status >= 500:
			log.Error("HTTP请求", entry...)
		case status >= 400:
			log.Warn("HTTP请求", entry...)
		default:
			log.Info("HTTP请求", entry...)
		}
	}
}

// Recovery panic转500，堆栈写日志
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.FromContext(c.Request.Context()).Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)
		response.ErrorWithCode(c, apperrors.ErrCodeInternal, "系统内部错误")
	})
}
