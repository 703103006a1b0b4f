package order

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-bos/internal/domain/book"
	"github.com/xiebiao/bookstore-bos/internal/domain/order"
	"github.com/xiebiao/bookstore-bos/pkg/metrics"
	"github.com/xiebiao/bookstore-bos/pkg/outcome"
	"github.com/xiebiao/bookstore-bos/pkg/tracing"
)

// UpdateOrderStatusUseCase 变更订单状态(管理员)
// 设计说明:
// 1. 允许的流转来自配置(order.transitions),不在代码里写死
// 2. NEW → CANCELED 在同一事务内归还库存
// 3. 提交后删除详情缓存,发布order.status_changed事件
type UpdateOrderStatusUseCase struct {
	tx        Transactor
	orders    order.Repository
	books     book.Repository
	policy    *order.StatusPolicy
	projector *Projector
	cache     Cache
	events    order.EventPublisher
	log       *zap.Logger
}

// NewUpdateOrderStatusUseCase 创建状态变更用例
func NewUpdateOrderStatusUseCase(
	tx Transactor,
	orders order.Repository,
	books book.Repository,
	policy *order.StatusPolicy,
	projector *Projector,
	cache Cache,
	events order.EventPublisher,
	log *zap.Logger,
) *UpdateOrderStatusUseCase {
	return &UpdateOrderStatusUseCase{
		tx:        tx,
		orders:    orders,
		books:     books,
		policy:    policy,
		projector: projector,
		cache:     cacheOrNop(cache),
		events:    events,
		log:       log,
	}
}

// Execute 执行状态变更
// 失败情况(都以Outcome返回,订单保持原状态):
// - 状态为空或不认识 → 400
// - 订单不存在 → 404
// - 流转不被允许、源状态为终态 → 400
// - 锁冲突 → 409
func (uc *UpdateOrderStatusUseCase) Execute(ctx context.Context, id uint, rawStatus string) (outcome.Outcome[*RichOrder], error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "UpdateOrderStatus")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", int64(id)), attribute.String("order.target_status", rawStatus))

	target, err := order.ParseStatus(rawStatus)
	if err != nil {
		return failure[*RichOrder](span, err)
	}

	var (
		updated  *order.Order
		from     order.Status
		restored int
	)
	err = uc.tx.Transaction(ctx, func(ctx context.Context) error {
		o, err := uc.orders.LockByID(ctx, id)
		if err != nil {
			return err
		}

		from = o.Status
		release := o.ReleasesStockOn(target)
		if err := o.TransitionTo(uc.policy, target); err != nil {
			return err
		}

		if release {
			if restored, err = restoreStock(ctx, uc.books, o, uc.log); err != nil {
				return err
			}
		}

		if err := uc.orders.UpdateStatus(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return failure[*RichOrder](span, err)
	}

	if err := uc.cache.Invalidate(ctx, id); err != nil {
		uc.log.Warn("删除订单缓存失败", zap.Uint("order_id", id), zap.Error(err))
	}

	metrics.OrderStatusChangesTotal.WithLabelValues(from.String(), target.String()).Inc()
	metrics.StockRestoredUnits.Add(float64(restored))
	uc.log.Info("订单状态已变更",
		zap.Uint("order_id", id),
		zap.String("from", from.String()),
		zap.String("to", target.String()),
		zap.Int("stock_restored", restored),
	)

	event := order.NewEvent(order.EventStatusChanged, updated)
	event.PreviousStatus = from
	event.StockRestored = restored > 0
	uc.events.Publish(ctx, event)

	rich, err := uc.projector.ProjectOne(ctx, updated)
	if err != nil {
		return outcome.Outcome[*RichOrder]{}, err
	}
	return outcome.Success(rich), nil
}
