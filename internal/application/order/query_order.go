package order

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xiebiao/bookstore-bos/internal/domain/order"
	"github.com/xiebiao/bookstore-bos/pkg/metrics"
	"github.com/xiebiao/bookstore-bos/pkg/outcome"
	"github.com/xiebiao/bookstore-bos/pkg/tracing"
)

// Viewer 当前调用者
// 管理员能看到所有订单,普通用户只能看到自己的订单
type Viewer struct {
	UserID uint
	Admin  bool
}

func (v Viewer) canSee(o *RichOrder) bool {
	return v.Admin || o.UserID == v.UserID
}

// GetOrderUseCase 查询订单详情
// 设计说明(Cache-Aside):
// 1. 先查Redis,命中直接返回
// 2. 未命中时回源数据库,singleflight合并同一订单的并发回源
// 3. 回填带版本号,回源期间订单被修改或删除则放弃回填
// 4. 缓存故障只记录日志,降级为直接查库
type GetOrderUseCase struct {
	orders    order.Repository
	projector *Projector
	cache     Cache
	group     singleflight.Group
	log       *zap.Logger
}

// NewGetOrderUseCase 创建订单详情用例
func NewGetOrderUseCase(orders order.Repository, projector *Projector, cache Cache, log *zap.Logger) *GetOrderUseCase {
	return &GetOrderUseCase{
		orders:    orders,
		projector: projector,
		cache:     cacheOrNop(cache),
		log:       log,
	}
}

// Execute 查询订单详情
// 别人的订单按不存在处理,不暴露订单是否存在
func (uc *GetOrderUseCase) Execute(ctx context.Context, id uint, viewer Viewer) (outcome.Outcome[*RichOrder], error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "GetOrder")
	defer span.End()
	span.SetAttributes(attribute.Int64("order.id", int64(id)))

	rich, err := uc.load(ctx, id)
	if err != nil {
		return failure[*RichOrder](span, err)
	}
	if !viewer.canSee(rich) {
		return failure[*RichOrder](span, order.ErrOrderNotFound)
	}
	return outcome.Success(rich), nil
}

func (uc *GetOrderUseCase) load(ctx context.Context, id uint) (*RichOrder, error) {
	var cached RichOrder
	hit, err := uc.cache.Get(ctx, id, &cached)
	switch {
	case err != nil:
		metrics.OrderCacheRequests.WithLabelValues(metrics.CacheError).Inc()
		uc.log.Warn("读取订单缓存失败,降级查库", zap.Uint("order_id", id), zap.Error(err))
	case hit:
		metrics.OrderCacheRequests.WithLabelValues(metrics.CacheHit).Inc()
		return &cached, nil
	default:
		metrics.OrderCacheRequests.WithLabelValues(metrics.CacheMiss).Inc()
	}

	v, err, _ := uc.group.Do(strconv.FormatUint(uint64(id), 10), func() (interface{}, error) {
		// 版本号必须在查库之前读取
		version, verErr := uc.cache.Version(ctx, id)
		if verErr != nil {
			uc.log.Warn("读取订单缓存版本失败,本次不回填", zap.Uint("order_id", id), zap.Error(verErr))
		}

		o, err := uc.orders.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		rich, err := uc.projector.ProjectOne(ctx, o)
		if err != nil {
			return nil, err
		}
		if verErr != nil {
			return rich, nil
		}

		stored, err := uc.cache.SetIfVersion(ctx, id, version, rich)
		switch {
		case err != nil:
			uc.log.Warn("写入订单缓存失败", zap.Uint("order_id", id), zap.Error(err))
		case !stored:
			uc.log.Debug("订单在回源期间已变更,跳过回填", zap.Uint("order_id", id))
		}
		return rich, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*RichOrder), nil
}

// ListOrdersUseCase 订单列表
type ListOrdersUseCase struct {
	orders    order.Repository
	projector *Projector
}

// NewListOrdersUseCase 创建订单列表用例
func NewListOrdersUseCase(orders order.Repository, projector *Projector) *ListOrdersUseCase {
	return &ListOrdersUseCase{orders: orders, projector: projector}
}

// ListOrdersRequest 订单列表请求
type ListOrdersRequest struct {
	Page     int
	PageSize int
	Status   string // 为空表示全部
	Viewer   Viewer
}

// OrderPage 订单分页结果
type OrderPage struct {
	List     []*RichOrder
	Total    int64
	Page     int
	PageSize int
}

// Execute 执行列表查询
// 1. page默认1,pageSize默认20,最大100
// 2. 普通用户只查自己的订单
func (uc *ListOrdersUseCase) Execute(ctx context.Context, req ListOrdersRequest) (outcome.Outcome[*OrderPage], error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ListOrders")
	defer span.End()

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	params := order.ListParams{Page: req.Page, PageSize: req.PageSize}
	if req.Status != "" {
		status, err := order.ParseStatus(req.Status)
		if err != nil {
			return failure[*OrderPage](span, err)
		}
		params.Status = status
	}
	if !req.Viewer.Admin {
		params.UserID = req.Viewer.UserID
	}

	orders, total, err := uc.orders.List(ctx, params)
	if err != nil {
		return failure[*OrderPage](span, err)
	}

	list, err := uc.projector.Project(ctx, orders...)
	if err != nil {
		return failure[*OrderPage](span, err)
	}

	return outcome.Success(&OrderPage{
		List:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}), nil
}
