// Package messaging 订单事件发布
package messaging

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-bos/internal/domain/order"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-bos/pkg/circuitbreaker"
	"github.com/xiebiao/bookstore-bos/pkg/metrics"
	"github.com/xiebiao/bookstore-bos/pkg/mq"
)

const publishTimeout = 3 * time.Second

// Sender 消息发送，*mq.Publisher实现
type Sender interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// OrderEventPublisher 通过RabbitMQ发布订单事件
// 1. 熔断器保护：RabbitMQ不可用时快速丢弃，不拖慢下单
// 2. 与请求context解绑：请求已返回也要把事件发出去
type OrderEventPublisher struct {
	sender  Sender
	breaker *circuitbreaker.Breaker
	log     *zap.Logger
}

// NewOrderEventPublisher 创建事件发布者
func NewOrderEventPublisher(sender Sender, breaker *circuitbreaker.Breaker, log *zap.Logger) *OrderEventPublisher {
	return &OrderEventPublisher{sender: sender, breaker: breaker, log: log}
}

// Publish 发布事件，失败只记录日志
func (p *OrderEventPublisher) Publish(ctx context.Context, event order.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	routingKey := string(event.Type)
	err := p.breaker.Execute(func() error {
		return p.sender.Publish(ctx, routingKey, event)
	})

	switch {
	case err == nil:
		metrics.MessagesPublishedTotal.WithLabelValues(routingKey, "success").Inc()
	case errors.Is(err, circuitbreaker.ErrOpen):
		metrics.MessagesPublishedTotal.WithLabelValues(routingKey, "dropped").Inc()
		p.log.Warn("熔断中，订单事件已丢弃",
			zap.String("type", routingKey),
			zap.Uint("order_id", event.OrderID),
		)
	default:
		metrics.MessagesPublishedTotal.WithLabelValues(routingKey, "failure").Inc()
		p.log.Error("发布订单事件失败",
			zap.String("type", routingKey),
			zap.Uint("order_id", event.OrderID),
			zap.Error(err),
		)
	}
}

// NoopPublisher 未启用消息队列时使用
type NoopPublisher struct {
	log *zap.Logger
}

// NewNoopPublisher 创建空发布者
func NewNoopPublisher(log *zap.Logger) *NoopPublisher {
	return &NoopPublisher{log: log}
}

// Publish 只写debug日志
func (p *NoopPublisher) Publish(_ context.Context, event order.Event) {
	p.log.Debug("订单事件（未发布）",
		zap.String("type", string(event.Type)),
		zap.Uint("order_id", event.OrderID),
	)
}

// NewEventPublisher 按配置选择事件发布实现
// 连接RabbitMQ失败不阻止启动，退化为NoopPublisher
func NewEventPublisher(cfg *config.Config, log *zap.Logger) (order.EventPublisher, func()) {
	if !cfg.MQ.Enabled {
		return NewNoopPublisher(log), func() {}
	}

	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, log)
	if err != nil {
		log.Warn("RabbitMQ不可用，订单事件将不会发布", zap.Error(err))
		return NewNoopPublisher(log), func() {}
	}

	breaker := circuitbreaker.New("rabbitmq", circuitbreaker.DefaultOptions(), log)
	cleanup := func() {
		if err := pub.Close(); err != nil {
			log.Warn("关闭RabbitMQ连接失败", zap.Error(err))
		}
	}
	return NewOrderEventPublisher(pub, breaker, log), cleanup
}
