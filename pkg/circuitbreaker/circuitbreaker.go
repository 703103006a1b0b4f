// Package circuitbreaker 熔断器
//
// 熔断器核心思想：
// 1. 统计调用的失败次数
// 2. 连续失败达到阈值时快速失败（OPEN），不再调用下游
// 3. 过一段时间放少量请求探测（HALF_OPEN），成功则恢复（CLOSED）
//
// 状态机由sony/gobreaker实现，这里只做三件事：
// 配置收敛成Options、状态变化写日志和Prometheus、拒绝时返回统一的ErrOpen。
package circuitbreaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-bos/pkg/metrics"
)

// ErrOpen 熔断器打开（或半开且探测名额已满），请求未执行
var ErrOpen = errors.New("circuit breaker is open")

// Options 熔断器配置
type Options struct {
	// MaxRequests 半开状态下允许的探测请求数
	MaxRequests uint32
	// Interval CLOSED状态下清零统计的周期，0表示不清零
	Interval time.Duration
	// Timeout OPEN状态持续时间，过后转为HALF_OPEN
	Timeout time.Duration
	// FailureThreshold 连续失败多少次后熔断
	FailureThreshold uint32
}

// DefaultOptions 连续失败5次熔断，30秒后探测
func DefaultOptions() Options {
	return Options{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// Breaker 熔断器
type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker
}

// New 创建熔断器
func New(name string, opts Options, log *zap.Logger) *Breaker {
	if log == nil {
		log = zap.NewNop()
	}
	threshold := opts.FailureThreshold
	if threshold == 0 {
		threshold = DefaultOptions().FailureThreshold
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: opts.MaxRequests,
		Interval:    opts.Interval,
		Timeout:     opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("熔断器状态变化",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &Breaker{name: name, cb: cb}
}

// Execute 通过熔断器执行fn
// 熔断时不调用fn，直接返回ErrOpen
func (b *Breaker) Execute(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		return ErrOpen
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return err
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		return nil
	}
}

// State 当前状态：CLOSED / OPEN / HALF_OPEN
func (b *Breaker) State() string {
	switch b.cb.State() {
	case gobreaker.StateOpen:
		return "OPEN"
	case gobreaker.StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "CLOSED"
	}
}

// stateValue 指标取值，与circuit_breaker_state的Help保持一致
func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}
