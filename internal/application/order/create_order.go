package order

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xiebiao/bookstore-bos/internal/domain/book"
	"github.com/xiebiao/bookstore-bos/internal/domain/order"
	apperrors "github.com/xiebiao/bookstore-bos/pkg/errors"
	"github.com/xiebiao/bookstore-bos/pkg/metrics"
	"github.com/xiebiao/bookstore-bos/pkg/outcome"
	"github.com/xiebiao/bookstore-bos/pkg/tracing"
)

// CreateOrderUseCase 创建订单用例
// 教学要点:这是整个项目最核心的用例
// 涉及:事务处理、并发控制、业务规则校验
type CreateOrderUseCase struct {
	tx     Transactor
	books  book.Repository
	orders order.Repository
	events order.EventPublisher
	log    *zap.Logger
}

// NewCreateOrderUseCase 创建下单用例
func NewCreateOrderUseCase(
	tx Transactor,
	books book.Repository,
	orders order.Repository,
	events order.EventPublisher,
	log *zap.Logger,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		tx:     tx,
		books:  books,
		orders: orders,
		events: events,
		log:    log,
	}
}

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	UserID    uint // 买家用户ID(从JWT中提取)
	Recipient order.Recipient
	Items     []CreateOrderItem
}

// CreateOrderItem 订单明细项
type CreateOrderItem struct {
	BookID   uint
	Quantity int
}

func (r CreateOrderRequest) validate() error {
	if len(r.Items) == 0 {
		return order.ErrInvalidOrderItems
	}
	for _, item := range r.Items {
		if item.Quantity < 1 {
			return order.ErrInvalidQuantity.WithMessage(
				fmt.Sprintf("图书%d的购买数量必须大于0", item.BookID))
		}
	}
	return r.Recipient.Validate()
}

// quantities 同一本书出现多行时合并数量(校验用),订单明细仍保留原样
func (r CreateOrderRequest) quantities() (map[uint]int, []uint) {
	q := make(map[uint]int, len(r.Items))
	for _, item := range r.Items {
		q[item.BookID] += item.Quantity
	}
	ids := make([]uint, 0, len(q))
	for id := range q {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return q, ids
}

// Execute 执行下单
// 教学重点:防止超卖的完整流程
//
// 错误实现:查询库存 → 判断够不够 → 扣减库存
// 100个请求同时通过第二步,最后卖出的数量远超库存
//
// 正确实现(同一事务内):
//  1. SELECT ... FOR UPDATE 按ID升序锁定所有涉及的图书
//  2. 任一图书不存在 → 失败,列出全部缺失ID
//  3. 任一图书库存不足 → 失败,列出全部缺货图书
//  4. 逐本扣减库存(WHERE available + ? >= 0 兜底)
//  5. 以锁定时的价格为快照创建订单,状态NEW
//  6. COMMIT释放锁
//
// 业务失败放在Outcome里返回;error只表示基础设施故障
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (outcome.Outcome[uint], error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateOrder")
	defer span.End()
	span.SetAttributes(
		attribute.Int("order.item_count", len(req.Items)),
		attribute.Int64("order.user_id", int64(req.UserID)),
	)

	if err := req.validate(); err != nil {
		return uc.reject(span, err)
	}

	start := time.Now()
	var created *order.Order
	err := uc.tx.Transaction(ctx, func(ctx context.Context) error {
		requested, ids := req.quantities()

		locked, err := uc.books.LockByIDs(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uint]*book.Book, len(locked))
		for _, b := range locked {
			byID[b.ID] = b
		}

		if err := checkAvailability(ids, requested, byID); err != nil {
			return err
		}

		for _, id := range ids {
			if err := uc.books.UpdateStock(ctx, id, -requested[id]); err != nil {
				return err
			}
		}

		items := make([]order.Item, len(req.Items))
		for i, line := range req.Items {
			items[i] = order.Item{
				BookID:    line.BookID,
				Quantity:  line.Quantity,
				UnitPrice: byID[line.BookID].Price, // 使用数据库中的当前价格
			}
		}

		created = order.NewOrder(order.GenerateOrderNo(time.Now()), req.UserID, req.Recipient, items)
		return uc.orders.Create(ctx, created)
	})
	if err != nil {
		if _, ok := apperrors.AsBusiness(err); ok {
			return uc.reject(span, err)
		}
		tracing.RecordError(span, err)
		return outcome.Outcome[uint]{}, err
	}

	metrics.ObserveSince(metrics.OrderCreationDuration, start)
	metrics.OrdersCreatedTotal.Inc()
	span.SetAttributes(attribute.Int64("order.id", int64(created.ID)))

	uc.log.Info("订单已创建",
		zap.Uint("order_id", created.ID),
		zap.String("order_no", created.OrderNo),
		zap.Uint("user_id", created.UserID),
		zap.String("total", created.Total.StringFixed(2)),
	)
	uc.events.Publish(ctx, order.NewEvent(order.EventCreated, created))

	return outcome.Success(created.ID), nil
}

// checkAvailability 先找出所有缺失的图书,再找出所有库存不足的图书
// 一次性把问题全部告诉调用方,而不是遇到第一个就返回
func checkAvailability(ids []uint, requested map[uint]int, byID map[uint]*book.Book) error {
	var missing []string
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, strconv.FormatUint(uint64(id), 10))
		}
	}
	if len(missing) > 0 {
		return book.ErrBookNotFound.WithMessage("图书不存在: " + strings.Join(missing, ", "))
	}

	var shortfalls []string
	for _, id := range ids {
		b := byID[id]
		if !b.CanReserve(requested[id]) {
			shortfalls = append(shortfalls,
				fmt.Sprintf("《%s》库存不足,当前库存:%d,需要:%d", b.Title, b.Available, requested[id]))
		}
	}
	if len(shortfalls) > 0 {
		return book.ErrInsufficientStock.WithMessage(strings.Join(shortfalls, "; "))
	}
	return nil
}

func (uc *CreateOrderUseCase) reject(span trace.Span, err error) (outcome.Outcome[uint], error) {
	appErr, _ := apperrors.AsBusiness(err)
	metrics.OrdersRejectedTotal.WithLabelValues(rejectReason(appErr.Code)).Inc()
	tracing.RecordError(span, err)
	uc.log.Debug("下单被拒绝", zap.Int("code", appErr.Code), zap.String("message", appErr.Message))
	return outcome.FromError[uint](appErr), nil
}

func rejectReason(code int) string {
	switch code {
	case apperrors.ErrCodeBookNotFound:
		return metrics.ReasonBookNotFound
	case apperrors.ErrCodeInsufficientStock:
		return metrics.ReasonInsufficientStock
	case apperrors.ErrCodeConflict:
		return metrics.ReasonConflict
	case apperrors.ErrCodeInvalidParams:
		return metrics.ReasonValidation
	default:
		return metrics.ReasonOther
	}
}
