package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-bos/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-bos/pkg/logger"
	"github.com/xiebiao/bookstore-bos/pkg/tracing"
)

const version = "1.0.0"

// @title           Bookstore 后台管理 API
// @version         1.0
// @description     图书目录、下单与库存一致性、订单状态流转
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// main 启动流程：配置 → 日志 → 链路追踪 → Wire组装 → HTTP服务 → 优雅关闭
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ 加载配置失败: %v", err)
	}

	zlog, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("❌ 初始化日志失败: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(context.Background(), tracing.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Version:     version,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if err != nil {
			zlog.Warn("链路追踪初始化失败，继续启动", zap.Error(err))
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					zlog.Warn("关闭链路追踪失败", zap.Error(err))
				}
			}()
		}
	}

	engine, cleanup, err := InitializeApp(cfg, zlog)
	if err != nil {
		zlog.Fatal("初始化应用失败", zap.Error(err))
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zlog.Info("🚀 服务启动",
			zap.String("addr", srv.Addr),
			zap.String("mode", cfg.Server.Mode),
			zap.String("database", cfg.Database.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("HTTP服务器启动失败", zap.Error(err))
		}
	}()

	// 优雅关闭：等待进行中的请求（含未提交的下单事务）结束
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("⏳ 正在优雅关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("服务器强制关闭", zap.Error(err))
	}
	zlog.Info("👋 服务已关闭")
}
