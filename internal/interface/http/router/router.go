// Package router 组装gin引擎：全局中间件、/api/v1路由、健康检查、指标和文档
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	_ "github.com/xiebiao/bookstore-bos/docs" // 注册swagger文档
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-bos/internal/interface/http/handler"
	"github.com/xiebiao/bookstore-bos/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-bos/pkg/metrics"
	"github.com/xiebiao/bookstore-bos/pkg/response"
)

// Handlers 全部HTTP处理器
type Handlers struct {
	User   *handler.UserHandler
	Book   *handler.BookHandler
	Author *handler.AuthorHandler
	Order  *handler.OrderHandler
}

// New 创建并配置Gin引擎
// 中间件顺序：Tracing → RequestLogger → Recovery → Metrics
// Recovery在RequestLogger之后，panic日志才带request_id
func New(cfg *config.Config, log *zap.Logger, h Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing())
	}
	r.Use(middleware.RequestLogger(log), middleware.Recovery())
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// 生产环境关闭文档
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	requireAuth := auth.RequireAuth()
	requireAdmin := auth.RequireAdmin()

	users := v1.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)
		users.POST("/logout", requireAuth, h.User.Logout)
	}

	books := v1.Group("/books")
	{
		books.GET("", h.Book.ListBooks)
		books.GET("/:id", h.Book.GetBook)
		books.POST("", requireAuth, requireAdmin, h.Book.PublishBook)
		books.PATCH("/:id", requireAuth, requireAdmin, h.Book.PatchBook)
		books.DELETE("/:id", requireAuth, requireAdmin, h.Book.DeleteBook)
	}

	authors := v1.Group("/authors")
	{
		authors.GET("", h.Author.ListAuthors)
		authors.POST("", requireAuth, requireAdmin, h.Author.CreateAuthor)
	}

	orders := v1.Group("/orders", requireAuth)
	{
		orders.POST("", middleware.RateLimit(orderLimiter(cfg.Server)), h.Order.CreateOrder)
		orders.GET("", h.Order.ListOrders)
		orders.GET("/:id", h.Order.GetOrder)
		orders.PATCH("/:id/status", requireAdmin, h.Order.UpdateOrderStatus)
		orders.DELETE("/:id", requireAdmin, h.Order.DeleteOrder)
	}

	return r
}

// orderLimiter 未配置速率时不限流
func orderLimiter(cfg config.ServerConfig) *rate.Limiter {
	if cfg.OrderRateLimit <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := cfg.OrderRateBurst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.OrderRateLimit), burst)
}
