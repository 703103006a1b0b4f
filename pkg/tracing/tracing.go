// Package tracing 基于OpenTelemetry的链路追踪
//
// 核心概念：
//   - Trace：一次完整请求的调用链，所有Span共享同一个TraceID
//   - Span：一个操作单元（下单、锁库存、发布事件），记录耗时、属性和错误
//
// 用法：
//
//	ctx, span := tracing.StartSpan(ctx, "order", "CreateOrder")
//	defer span.End()
//	span.SetAttributes(attribute.Int("item_count", len(req.Items)))
//
// 未调用InitTracer时otel使用no-op Provider，StartSpan照常可用，不产生任何数据。
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"

	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
)

// Options 追踪配置
type Options struct {
	ServiceName string
	Version     string
	// Endpoint OTLP gRPC地址（host:port，如localhost:4317）
	Endpoint string
	// SampleRatio 采样率，0~1；<=0或>=1都按100%采样
	SampleRatio float64
}

// InitTracer 初始化全局Tracer Provider
//
// 返回的shutdown必须在程序退出前调用，否则最后一批Span会丢失。
//
// 设计要点：
// 1. OTLP协议，厂商中立（Jaeger、Tempo、Datadog都支持）
// 2. 采样基于父Span决定，根Span按TraceID比例采样
// 3. BatchSpanProcessor批量发送，业务调用不等待网络
func InitTracer(ctx context.Context, opts Options) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(opts.Endpoint),
		otlptracegrpc.WithInsecure(), // 生产环境应启用TLS
		otlptracegrpc.WithDialOption(grpc.WithUserAgent(opts.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	tp, err := newProvider(ctx, exporter, opts)
	if err != nil {
		return nil, err
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, // W3C traceparent
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}, nil
}

// newProvider exporter可替换，测试用tracetest.InMemoryExporter
func newProvider(ctx context.Context, exporter sdktrace.SpanExporter, opts Options) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(opts.ServiceName),
			semconv.ServiceVersion(opts.Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	sampler := sdktrace.AlwaysSample()
	if opts.SampleRatio > 0 && opts.SampleRatio < 1 {
		sampler = sdktrace.TraceIDRatioBased(opts.SampleRatio)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sampler)),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

// StartSpan 从全局Provider创建Span
// 必须把返回的ctx传给下游，子Span才能挂到当前Span下
func StartSpan(ctx context.Context, tracerName, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName, opts...)
}

// RecordError 记录错误并标记Span状态
// 业务失败（库存不足、状态非法）是预期内结果，只作为事件记录，不把Span标成Error
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	if _, ok := apperrors.AsBusiness(err); ok {
		return
	}
	span.SetStatus(codes.Error, err.Error())
}

// ExtractTraceID 从Context提取TraceID（写进日志，便于从日志跳到追踪）
func ExtractTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}
