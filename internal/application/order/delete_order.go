package order

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-bos/internal/domain/book"
	"github.com/xiebiao/bookstore-bos/internal/domain/order"
	"github.com/xiebiao/bookstore-bos/pkg/metrics"
	"github.com/xiebiao/bookstore-bos/pkg/outcome"
	"github.com/xiebiao/bookstore-bos/pkg/tracing"
)

// DeleteOrderUseCase 删除订单(管理员)
// 1. 订单不存在视为成功(幂等)
// 2. 仍处于NEW的订单先归还库存再删除;已受理/已发货/已取消的直接删除
// 3. 订单和明细物理删除
type DeleteOrderUseCase struct {
	tx     Transactor
	orders order.Repository
	books  book.Repository
	cache  Cache
	events order.EventPublisher
	log    *zap.Logger
}

// NewDeleteOrderUseCase 创建删除订单用例
func NewDeleteOrderUseCase(
	tx Transactor,
	orders order.Repository,
	books book.Repository,
	cache Cache,
	events order.EventPublisher,
	log *zap.Logger,
) *DeleteOrderUseCase {
	return &DeleteOrderUseCase{
		tx:     tx,
		orders: orders,
		books:  books,
		cache:  cacheOrNop(cache),
		events: events,
		log:    log,
	}
}

// Execute 删除订单,Outcome的值表示是否真的删除了一条订单
func (uc *DeleteOrderUseCase) Execute(ctx context.Context, id uint) (outcome.Outcome[bool], error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "DeleteOrder")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", int64(id)))

	var (
		deleted  *order.Order
		restored int
	)
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		o, err := uc.orders.LockByID(ctx, id)
		if errors.Is(err, order.ErrOrderNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if o.ReleasesStockOnDelete() {
			if restored, err = restoreStock(ctx, uc.books, o, uc.log); err != nil {
				return err
			}
		}

		if err := uc.orders.Delete(ctx, id); err != nil {
			return err
		}
		deleted = o
		return nil
	})
	if err != nil {
		return failure[bool](span, err)
	}

	if deleted == nil {
		return outcome.Success(false), nil
	}

	if err := uc.cache.Invalidate(ctx, id); err != nil {
		uc.log.Warn("删除订单缓存失败", zap.Uint("order_id", id), zap.Error(err))
	}

	metrics.OrdersDeletedTotal.WithLabelValues(deleted.Status.String()).Inc()
	metrics.StockRestoredUnits.Add(float64(restored))
	uc.log.Info("订单已删除",
		zap.Uint("order_id", id),
		zap.String("status", deleted.Status.String()),
		zap.Int("stock_restored", restored),
	)

	event := order.NewEvent(order.EventDeleted, deleted)
	event.StockRestored = restored > 0
	uc.events.Publish(ctx, event)

	return outcome.Success(true), nil
}
