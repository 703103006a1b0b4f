package order

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType 订单事件类型，同时作为消息的routing key
type EventType string

const (
	EventCreated       EventType = "order.created"
	EventStatusChanged EventType = "order.status_changed"
	EventDeleted       EventType = "order.deleted"
)

// Event 订单生命周期事件
// 事务提交后发布，消费方（通知、报表）按需订阅
type Event struct {
	ID             string    `json:"id"`
	Type           EventType `json:"type"`
	OrderID        uint      `json:"order_id"`
	OrderNo        string    `json:"order_no"`
	UserID         uint      `json:"user_id"`
	Status         Status    `json:"status"`
	PreviousStatus Status    `json:"previous_status,omitempty"`
	Total          string    `json:"total"`
	StockRestored  bool      `json:"stock_restored"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewEvent 基于订单当前状态构建事件
func NewEvent(t EventType, o *Order) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		OrderID:    o.ID,
		OrderNo:    o.OrderNo,
		UserID:     o.UserID,
		Status:     o.Status,
		Total:      o.Total.StringFixed(2),
		OccurredAt: time.Now(),
	}
}

// EventPublisher 事件发布端口
// 尽力而为：发布失败只记录日志，不影响已提交的业务操作
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}
