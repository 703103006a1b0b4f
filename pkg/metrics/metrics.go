// Package metrics 基于Prometheus的指标
//
// 三类指标：
//   - Counter：只增不减，如订单创建数、被拒绝的下单数
//   - Gauge：瞬时值，如正在处理的请求数、熔断器状态
//   - Histogram：分布，如下单耗时（可计算P99）
//
// 所有指标在包加载时注册到默认Registry，/metrics由Handler()暴露。
//
// 标签只用有限取值（status、reason、method），不要把order_id、user_id当标签。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bookstore"

// 下单被拒绝的原因（reason标签取值）
const (
	ReasonValidation        = "validation"
	ReasonBookNotFound      = "book_not_found"
	ReasonInsufficientStock = "insufficient_stock"
	ReasonConflict          = "conflict"
	ReasonOther             = "other"
)

// 缓存结果（result标签取值）
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	// HTTP请求相关指标

	// HTTPRequestsTotal 标签：method、path（路由模板，不是原始URL）、status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration 桶：1ms、10ms、100ms、500ms、1s、5s、10s
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP请求耗时（秒）",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_progress",
			Help:      "正在处理的HTTP请求数",
		},
	)

	// 订单业务指标

	OrdersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "订单创建总数",
		},
	)

	// OrdersRejectedTotal 下单业务失败（不含系统故障），标签：reason
	OrdersRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_rejected_total",
			Help:      "下单被拒绝总数",
		},
		[]string{"reason"},
	)

	// OrderCreationDuration 从开启事务到提交
	OrderCreationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_creation_duration_seconds",
			Help:      "下单耗时（秒）",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	// OrderStatusChangesTotal 标签：from、to
	OrderStatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_changes_total",
			Help:      "订单状态变更总数",
		},
		[]string{"from", "to"},
	)

	// OrdersDeletedTotal 标签：status（删除时的订单状态）
	OrdersDeletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_deleted_total",
			Help:      "订单删除总数",
		},
		[]string{"status"},
	)

	// StockRestoredUnits 取消/删除订单归还的库存件数
	StockRestoredUnits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_restored_units_total",
			Help:      "归还库存总件数",
		},
	)

	// OrderCacheRequests 订单详情缓存，标签：result（hit/miss/error）
	OrderCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_cache_requests_total",
			Help:      "订单详情缓存查询总数",
		},
		[]string{"result"},
	)

	// 熔断器指标

	// CircuitBreakerState 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	// CircuitBreakerRequests 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_requests_total",
			Help:      "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	// 消息队列指标

	// MessagesPublishedTotal 标签：routing_key、result（success/failure/dropped）
	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_published_total",
			Help:      "消息发布总数",
		},
		[]string{"routing_key", "result"},
	)
)

// ObserveSince 记录从start到现在的耗时
func ObserveSince(o prometheus.Observer, start time.Time) {
	o.Observe(time.Since(start).Seconds())
}

// Handler /metrics端点
func Handler() http.Handler {
	return promhttp.Handler()
}
