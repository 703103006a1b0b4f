package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-bos/internal/domain/order"
	"github.com/xiebiao/bookstore-bos/internal/infrastructure/config"
	"github.com/xiebiao/bookstore-bos/pkg/circuitbreaker"
	"github.com/xiebiao/bookstore-bos/pkg/metrics"
)

type sent struct {
	key string
	msg interface{}
}

type fakeSender struct {
	err  error
	sent []sent
}

func (f *fakeSender) Publish(ctx context.Context, key string, msg interface{}) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("missing deadline")
	}
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{key: key, msg: msg})
	return nil
}

func testEvent(t order.EventType) order.Event {
	o := order.NewOrder("BOS20260101ABCDEF012345", 1, order.Recipient{}, []order.Item{
		{BookID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("9.99")},
	})
	o.ID = 42
	return order.NewEvent(t, o)
}

func TestOrderEventPublisher_Publish(t *testing.T) {
	sender := &fakeSender{}
	breaker := circuitbreaker.New("test-events-ok", circuitbreaker.DefaultOptions(), zap.NewNop())
	p := NewOrderEventPublisher(sender, breaker, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // 请求已结束，事件仍要发出

	p.Publish(ctx, testEvent(order.EventCreated))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "order.created", sender.sent[0].key)
	event := sender.sent[0].msg.(order.Event)
	assert.Equal(t, uint(42), event.OrderID)
	assert.Equal(t, "19.98", event.Total)
}

func TestOrderEventPublisher_BreakerOpens(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection reset")}
	breaker := circuitbreaker.New("test-events-open", circuitbreaker.Options{Timeout: time.Hour, FailureThreshold: 2}, zap.NewNop())
	p := NewOrderEventPublisher(sender, breaker, zap.NewNop())

	dropped := metrics.MessagesPublishedTotal.WithLabelValues("order.deleted", "dropped")
	before := testutil.ToFloat64(dropped)

	for i := 0; i < 3; i++ {
		p.Publish(context.Background(), testEvent(order.EventDeleted))
	}

	assert.Equal(t, "OPEN", breaker.State())
	assert.Equal(t, 1.0, testutil.ToFloat64(dropped)-before)
}

func TestNewEventPublisher_Disabled(t *testing.T) {
	cfg := &config.Config{}
	pub, cleanup := NewEventPublisher(cfg, zap.NewNop())
	defer cleanup()

	_, ok := pub.(*NoopPublisher)
	assert.True(t, ok)
	pub.Publish(context.Background(), testEvent(order.EventCreated))
}
